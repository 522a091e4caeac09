package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/kjk/qvtools/log"
	"github.com/kjk/qvtools/remote"
	"github.com/kjk/qvtools/u"
	"github.com/spf13/cobra"
)

func (a *app) newPullCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pull REMOTE_PATH [DST]",
		Short: "Download archive from remote storage",
		Long: `Download archive REMOTE_PATH (relative to remote.prefix) to DST.
If REMOTE_PATH ends with /, all files under it are downloaded into
directory DST. Files with .br extension are decompressed.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := a.newRemoteClient(ctx)
			if err != nil {
				return err
			}
			timeStart := time.Now()
			src := args[0]
			dst := ""
			if len(args) > 1 {
				dst = args[1]
			}

			isDir := strings.HasSuffix(src, "/")
			var remotePaths []string
			if isDir {
				remotePaths, err = c.ListArchives(ctx, src)
				if err != nil {
					return err
				}
				if dst == "" {
					dst = "."
				}
			} else {
				rp := remote.RemotePath(a.cfg.Remote.Prefix, src)
				if !c.Exists(ctx, rp) {
					return fmt.Errorf("'%s' doesn't exist in bucket '%s'", rp, c.Bucket)
				}
				remotePaths = []string{rp}
			}

			var total int64
			for _, rp := range remotePaths {
				path := dst
				if isDir || dst == "" {
					path = filepath.Join(dst, remote.LocalName(rp))
				}
				if err = c.DownloadArchive(ctx, rp, path); err != nil {
					return err
				}
				total += u.FileSize(path)
				log.Verbosef("downloaded '%s' to '%s'\n", rp, path)
			}
			log.Logf("downloaded %d files (%s)\n", len(remotePaths), u.FormatSize(total))
			logDuration("pull", timeStart, "files", len(remotePaths), "size", total)
			return nil
		},
	}
	return cmd
}

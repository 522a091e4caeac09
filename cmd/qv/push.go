package main

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/kjk/qvtools/log"
	"github.com/kjk/qvtools/remote"
	"github.com/kjk/qvtools/u"
	"github.com/spf13/cobra"
)

func (a *app) newPushCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "push PATH REMOTE_DIR",
		Short: "Upload archive (or all .qv files in a directory) to remote storage",
		Long: `Upload archive, or all .qv files in a directory, to REMOTE_DIR
under remote.prefix. With remote.compress files are brotli compressed
and get .br extension.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := archivesToPush(args[0])
			if err != nil {
				return err
			}
			return a.pushArchives(cmd.Context(), args[1], paths)
		},
	}
	return cmd
}

// archivesToPush returns path if it's a file or *.qv files if it's a directory
func archivesToPush(path string) ([]string, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !st.IsDir() {
		return []string{path}, nil
	}
	paths, err := filepath.Glob(filepath.Join(path, "*.qv"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

func (a *app) pushArchives(ctx context.Context, remoteDir string, paths []string) error {
	c, err := a.newRemoteClient(ctx)
	if err != nil {
		return err
	}
	timeStart := time.Now()
	var total int64
	for _, p := range paths {
		total += u.FileSize(p)
	}
	remotePaths, err := c.UploadArchives(ctx, remoteDir, paths)
	for i, rp := range remotePaths {
		log.Verbosef("uploaded '%s' as '%s'\n", paths[i], rp)
	}
	if err != nil {
		return err
	}
	log.Logf("uploaded %d files (%s) to '%s'\n", len(remotePaths), u.FormatSize(total), remote.RemotePath(a.cfg.Remote.Prefix, remoteDir))
	logDuration("push", timeStart, "files", len(remotePaths), "size", total)
	return nil
}

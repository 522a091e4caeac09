package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/kjk/qvtools/log"
	"github.com/kjk/qvtools/quiver"
	"github.com/kjk/qvtools/remote"
	"github.com/spf13/cobra"
)

func (a *app) newSplitCmd() *cobra.Command {
	var pushTo string
	cmd := &cobra.Command{
		Use:   "split FILE N [PREFIX] [OUTDIR]",
		Short: "Split archive into files with N records each",
		Long: `Split archive into files with N records each, named <PREFIX>_<i>.qv
in OUTDIR. PREFIX and OUTDIR default to split.prefix and split.out_dir
from config ("split" and ".").

With --push, the files are also uploaded to remote storage.`,
		Args: cobra.RangeArgs(2, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[1])
			if err != nil || n < 1 {
				return fmt.Errorf("N must be a positive integer, got '%s'", args[1])
			}
			prefix := a.cfg.Split.Prefix
			if len(args) > 2 {
				prefix = args[2]
			}
			outDir := a.cfg.Split.OutDir
			if len(args) > 3 {
				outDir = args[3]
			}

			timeStart := time.Now()
			qv, err := quiver.Open(args[0], quiver.ModeRead)
			if err != nil {
				return err
			}
			paths, err := qv.Split(n, outDir, prefix)
			if err != nil {
				return err
			}
			log.Logf("wrote %d files to '%s' with prefix '%s'\n", len(paths), outDir, prefix)
			logDuration("split", timeStart, "path", args[0], "n", n, "files", len(paths))
			if pushTo == "" {
				return nil
			}
			return a.pushArchives(cmd.Context(), pushTo, paths)
		},
	}
	cmd.Flags().StringVar(&pushTo, "push", "", "upload split files to this remote directory")
	return cmd
}

func (a *app) newRemoteClient(ctx context.Context) (*remote.Client, error) {
	c, err := remote.New(ctx, a.cfg.Remote.toRemote())
	if err != nil {
		return nil, fmt.Errorf("remote storage: %w", err)
	}
	return c, nil
}

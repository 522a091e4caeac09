package main

import (
	"time"

	"github.com/kjk/qvtools/log"
	"github.com/kjk/qvtools/quiver"
	"github.com/spf13/cobra"
)

func (a *app) newExtractCmd() *cobra.Command {
	var outDir, ext string
	cmd := &cobra.Command{
		Use:   "extract FILE",
		Short: "Extract every record to <outdir>/<tag><ext>",
		Long: `Extract every record to <outdir>/<tag><ext>.
Files that already exist are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if ext == "" {
				ext = a.cfg.Extract.Ext
			}
			timeStart := time.Now()
			qv, err := quiver.Open(args[0], quiver.ModeRead)
			if err != nil {
				return err
			}
			res, err := qv.ExtractAll(outDir, ext)
			if res != nil {
				for _, path := range res.Skipped {
					log.Logf("'%s' already exists, skipping\n", path)
				}
			}
			if err != nil {
				return err
			}
			log.Logf("extracted %d files from '%s'\n", len(res.Extracted), args[0])
			logDuration("extract", timeStart, "path", args[0], "extracted", len(res.Extracted), "skipped", len(res.Skipped))
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", ".", "directory for extracted files")
	cmd.Flags().StringVar(&ext, "ext", "", "extension of extracted files (default from config, .pdb)")
	return cmd
}

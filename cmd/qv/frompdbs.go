package main

import (
	"github.com/kjk/qvtools/atomicfile"
	"github.com/kjk/qvtools/log"
	"github.com/kjk/qvtools/quiver"
	"github.com/spf13/cobra"
)

func (a *app) newFromPdbsCmd() *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "frompdbs SRC...",
		Short: "Create archive from PDB files",
		Long: `Create archive text with one record per source, tagged with
the file name without extension. A source is a file, optionally
compressed (.gz, .bz2, .zst, .br), or an http(s) URL.

  qv frompdbs *.pdb > designs.qv`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if outPath == "" {
				return quiver.WriteFromSources(ctx, cmd.OutOrStdout(), args)
			}
			f, err := atomicfile.New(outPath)
			if err != nil {
				return err
			}
			defer f.RemoveIfNotClosed()
			if err = quiver.WriteFromSources(ctx, f, args); err != nil {
				return err
			}
			if err = f.Close(); err != nil {
				return err
			}
			log.Logf("wrote %d records to '%s'\n", len(args), outPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write to a file instead of stdout")
	return cmd
}

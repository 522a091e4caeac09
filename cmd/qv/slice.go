package main

import (
	"io"

	"github.com/kjk/qvtools/log"
	"github.com/kjk/qvtools/quiver"
	"github.com/spf13/cobra"
)

func (a *app) newSliceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slice FILE [TAG...]",
		Short: "Print records with given tags as archive text",
		Long: `Print records with given tags as archive text, in archive order.
Tags are read from stdin if not given as arguments.
Tags that are not in the archive are reported.

  qv ls big.qv | head -n 10 | qv slice big.qv > small.qv`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, err := readTags(cmd, args[1:])
			if err != nil {
				return err
			}
			qv, err := quiver.Open(args[0], quiver.ModeRead)
			if err != nil {
				return err
			}
			text, found, err := qv.ReadSubset(tags)
			if err != nil {
				return err
			}
			for _, tag := range quiver.MissingTags(tags, found) {
				log.Logf("tag '%s' not found in '%s'\n", tag, args[0])
			}
			log.Verbosef("found %d of %d tags\n", len(found), len(tags))
			_, err = io.WriteString(cmd.OutOrStdout(), text)
			return err
		},
	}
	return cmd
}

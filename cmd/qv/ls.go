package main

import (
	"fmt"

	"github.com/kjk/qvtools/quiver"
	"github.com/spf13/cobra"
)

type lsEntry struct {
	Tag    string `json:"tag"`
	Offset int64  `json:"offset"`
	Size   int64  `json:"size"`
	Score  string `json:"score,omitempty"`
}

func (a *app) newLsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "ls FILE",
		Short: "List tags in an archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			qv, err := quiver.Open(args[0], quiver.ModeRead)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if asJSON {
				res := []lsEntry{}
				for _, e := range qv.Entries() {
					res = append(res, lsEntry{Tag: e.Tag, Offset: e.Offset, Size: e.Size, Score: e.Score})
				}
				return writeJSON(w, res)
			}
			for _, tag := range qv.Tags() {
				fmt.Fprintln(w, tag)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print tags with their offsets, sizes and scores as JSON")
	return cmd
}

package main

import (
	"github.com/kjk/qvtools/log"
	"github.com/kjk/qvtools/quiver"
	"github.com/spf13/cobra"
)

func (a *app) newRenameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename FILE [TAG...]",
		Short: "Rename all tags in an archive",
		Long: `Replace tags of all records, in order, with given tags.
Tags are read from stdin if not given as arguments. The number of tags
must match number of records. The file is not changed if renaming fails.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, err := readTags(cmd, args[1:])
			if err != nil {
				return err
			}
			if err = quiver.RenameTags(args[0], tags); err != nil {
				return err
			}
			log.Logf("renamed %d tags in '%s'\n", len(tags), args[0])
			log.Event("rename", "path", args[0], "tags", len(tags))
			return nil
		},
	}
	return cmd
}

package main

import (
	"github.com/kjk/qvtools/log"
	"github.com/kjk/qvtools/quiver"
	"github.com/spf13/cobra"
)

type scoreRow struct {
	Tag    string            `json:"tag"`
	Scores map[string]string `json:"scores"`
}

func (a *app) newScorefileCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "scorefile FILE",
		Short: "Extract scores into a tab-separated .sc file",
		Long: `Extract scores from QV_SCORE lines into a tab-separated file
with the same name as FILE and .sc extension. Missing scores are NaN.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := quiver.ExtractScores(args[0])
			if err != nil {
				return err
			}
			for _, w := range tbl.Warnings {
				log.Logf("warning: %s\n", w)
			}
			log.Logf("wrote scores of %d records to '%s'\n", len(tbl.Records), quiver.ScoreFilePath(args[0]))
			log.Event("scorefile", "path", args[0], "records", len(tbl.Records), "keys", len(tbl.Keys))
			if !asJSON {
				return nil
			}
			rows := []scoreRow{}
			for _, rec := range tbl.Records {
				row := scoreRow{Tag: rec.Tag, Scores: map[string]string{}}
				for _, kv := range rec.Scores {
					row.Scores[kv.Key] = kv.Value
				}
				rows = append(rows, row)
			}
			return writeJSON(cmd.OutOrStdout(), rows)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "also print scores as JSON")
	return cmd
}

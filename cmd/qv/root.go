package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/kjk/qvtools/log"
	"github.com/kjk/qvtools/u"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
)

type app struct {
	// flags
	cfgFile string
	verbose bool

	cfg *Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "qv",
		Short: "Tools for Quiver (.qv) archives of PDB files",
		Long: `qv manages Quiver archives: many PDB files with optional scores,
stored as tagged records in a single text file.

Commands:
  ls         list tags
  extract    extract all records as files
  slice      print selected records
  split      split into smaller archives
  rename     rename all tags
  scorefile  extract score table
  frompdbs   create archive from PDB files
  push/pull  copy archives to and from S3-compatible storage`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			log.Close()
		},
	}
	cmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: ~/.config/qv/config.yaml)")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(
		a.newLsCmd(),
		a.newExtractCmd(),
		a.newSliceCmd(),
		a.newSplitCmd(),
		a.newRenameCmd(),
		a.newScorefileCmd(),
		a.newFromPdbsCmd(),
		a.newPushCmd(),
		a.newPullCmd(),
	)
	return cmd
}

func (a *app) init(cmd *cobra.Command) error {
	path, mustExist := configPath(a.cfgFile)
	cfg, err := loadConfig(path, mustExist)
	if err != nil {
		return err
	}
	if a.verbose {
		cfg.Verbose = true
	}
	a.cfg = cfg

	// stdout is for data e.g. archive text from slice
	log.SetOutput(cmd.ErrOrStderr())
	log.Verbose = cfg.Verbose
	log.Init(&log.Config{Dir: cfg.LogDir})
	log.Verbosef("config: '%s'\n", path)
	return nil
}

// readTags returns tags from args or, if there are none,
// whitespace-separated tags from stdin
func readTags(cmd *cobra.Command, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	d, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("failed to read tags from stdin: %w", err)
	}
	tags := u.ToFields(d)
	if len(tags) == 0 {
		return nil, fmt.Errorf("no tags provided, provide them as arguments or via stdin")
	}
	return tags, nil
}

func writeJSON(w io.Writer, v any) error {
	d, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(pretty.Pretty(d))
	return err
}

func logDuration(name string, timeStart time.Time, vals ...any) {
	dur := time.Since(timeStart)
	log.Verbosef("%s took %s\n", name, u.FormatDuration(dur))
	log.EventWithDuration(name, dur, vals...)
}

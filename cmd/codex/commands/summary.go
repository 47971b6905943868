package commands

import (
	"os"

	"codex-backend/internal/bundle"
	"codex-backend/internal/codex"
	"codex-backend/internal/emitter"
	"codex-backend/internal/pipeline"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var fromBundle bool

func init() {
	summaryCmd.Flags().BoolVar(&fromBundle, "bundle", false, "Read the index from the configured bundle instead of the output directory.")
	rootCmd.AddCommand(summaryCmd)
}

var summaryCmd = &cobra.Command{
	Use:   "summary [--bundle]",
	Short: "Prints the faction index of the last run.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		var index []codex.IndexEntry
		var err error
		if fromBundle {
			index, err = readBundleIndex(cmd, cfg.Bundle)
		} else {
			dir := cfg.OutputDir
			if dir == "" {
				dir = pipeline.DefaultOutputDir
			}
			index, err = emitter.ReadIndex(dir)
		}
		if err != nil {
			fatal("failed to read index", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Id", "Faction", "Datasheets", "Stratagems", "Enhancements", "Detachments"})

		var datasheets, stratagems int
		for _, entry := range index {
			t.AppendRow(table.Row{
				entry.ID,
				entry.Name,
				entry.DatasheetCount,
				entry.StratagemCount,
				entry.EnhancementCount,
				entry.DetachmentCount,
			})
			datasheets += entry.DatasheetCount
			stratagems += entry.StratagemCount
		}
		t.AppendFooter(table.Row{"", len(index), datasheets, stratagems, "", ""})

		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}

func readBundleIndex(cmd *cobra.Command, cfg bundle.Config) ([]codex.IndexEntry, error) {
	db, err := cfg.OpenDB()
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return bundle.NewStore(db).Index(cmd.Context())
}

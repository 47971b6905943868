package commands

import (
	"log/slog"

	"codex-backend/internal/pipeline"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(assembleCmd)
}

var assembleCmd = &cobra.Command{
	Use:   "assemble",
	Short: "Rebuilds the documents from the checkpoints of the last run without fetching or parsing.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		result, err := pipeline.RunFromCheckpoints(cmd.Context(), cfg)
		if err != nil {
			fatal("failed to assemble from checkpoints", err)
		}
		slog.Info(
			"documents written",
			"factions", len(result.Factions),
			"last_update", result.LastUpdate,
		)
	},
}

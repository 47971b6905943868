package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"codex-backend/internal/components/telemetry"
	"codex-backend/internal/pipeline"
	"codex-backend/pkg/configutil"

	"github.com/spf13/cobra"
)

var (
	configPath    string
	outputDir     string
	debug         bool
	forceDownload bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "codex.json5", "The configuration file to read.")
	rootCmd.PersistentFlags().StringVar(&outputDir, "out", "", "The directory documents are written to, overrides the config.")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging.")
	rootCmd.Flags().BoolVar(&forceDownload, "force-download", false, "Discard cached tables and download them again.")
}

var rootCmd = &cobra.Command{
	Use:   "codex [--force-download]",
	Short: "codex rebuilds the faction documents from the rules export.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(debug)
	},
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		cfg.ForceDownload = forceDownload

		result, err := pipeline.Run(cmd.Context(), cfg)
		if err != nil {
			fatal("failed to build documents", err)
		}
		slog.Info(
			"documents written",
			"factions", len(result.Factions),
			"last_update", result.LastUpdate,
		)
	},
}

// ExecuteContext runs the command line, the error is already printed when
// one is returned.
func ExecuteContext(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	return err
}

// loadConfig reads the config file given by --config and applies flag
// overrides, a missing file leaves every value at its default.
func loadConfig() pipeline.Config {
	cfg, err := configutil.ReadConfig[pipeline.Config](configPath)
	if errors.Is(err, os.ErrNotExist) {
		slog.Info("no config file found, using defaults", "path", configPath)
	} else if err != nil {
		fatal("failed to read config", err)
	}

	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if cfg.Debug && !debug {
		telemetry.InitSlog(true)
	}
	return cfg
}

func fatal(message string, err error) {
	slog.Error(message, "err", err.Error())
	os.Exit(1)
}

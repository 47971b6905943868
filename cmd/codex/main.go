package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"codex-backend/cmd/codex/commands"
	"codex-backend/internal/components/telemetry"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	tel, err := telemetry.SetupFromEnv(ctx, "codex")
	if err != nil {
		slog.Warn("failed to setup telemetry, continuing without exporters", "err", err)
	} else if tel.Enabled() {
		slog.Info("telemetry exporters enabled")
	}
	telemetry.InstrumentPerfStats(ctx, time.Second*5)

	err = commands.ExecuteContext(ctx)
	cancel()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), time.Second*10)
	defer cancelShutdown()
	if shutdownErr := tel.Shutdown(shutdownCtx); shutdownErr != nil {
		slog.Warn("failed to flush telemetry", "err", shutdownErr)
	}

	if err != nil {
		os.Exit(1)
	}
}

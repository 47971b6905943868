// Package pipeline runs a full rebuild: fetch, parse, checkpoint, assemble,
// emit and optionally bundle.
package pipeline

import (
	"context"
	"fmt"

	"codex-backend/internal/assembler"
	"codex-backend/internal/bundle"
	"codex-backend/internal/checkpoint"
	"codex-backend/internal/codex"
	"codex-backend/internal/components/telemetry"
	"codex-backend/internal/emitter"
	"codex-backend/internal/fetcher"
	"codex-backend/internal/slugs"
	"codex-backend/internal/tabular"

	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("codex.internal.pipeline")

const (
	report_run_tables     = "run.tables"
	report_run_datasheets = "run.datasheets"
	report_run_bundle     = "run.bundle"
)

type Option func(cfg *pipelineCfg)

type pipelineCfg struct {
	tel telemetry.API
}

func WithCustomTelemetryAPI(tel telemetry.API) Option {
	return func(cfg *pipelineCfg) {
		cfg.tel = tel
	}
}

func resolveTelemetry(opts []Option) (telemetry.API, telemetry.API) {
	var cfg pipelineCfg
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.tel == nil {
		cfg.tel = telemetry.SlogAPI{}
	}
	return cfg.tel, telemetry.NewScopedAPI("pipeline", cfg.tel)
}

// Run fetches every table, parses and checkpoints them, then builds the
// output from the parsed tables.
func Run(ctx context.Context, cfg Config, opts ...Option) (assembler.Result, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	cfg = cfg.withDefaults()
	root, tel := resolveTelemetry(opts)

	if cfg.ForceDownload {
		err := fetcher.ClearCache(cfg.CacheDir)
		if err != nil {
			return assembler.Result{}, err
		}
	}

	f, err := fetcher.New(fetcher.Options{
		BaseUrl:           cfg.BaseUrl,
		CacheDir:          cfg.CacheDir,
		RequestsPerSecond: cfg.RequestsPerSecond,
	}, root)
	if err != nil {
		return assembler.Result{}, err
	}
	texts, err := f.FetchAll(ctx, codex.Tables)
	if err != nil {
		return assembler.Result{}, err
	}

	tables, err := ParseAll(ctx, codex.Tables, texts)
	if err != nil {
		return assembler.Result{}, err
	}
	tel.ReportCount(report_run_tables, int64(len(tables)))

	for _, name := range codex.Tables {
		err = checkpoint.Write(cfg.CheckpointDir, tables[name])
		if err != nil {
			return assembler.Result{}, fmt.Errorf("checkpoint %s: %w", name, err)
		}
	}

	return build(ctx, cfg, tables, root, tel)
}

// RunFromCheckpoints builds the output from the checkpoints left by the last
// Run without fetching or parsing.
func RunFromCheckpoints(ctx context.Context, cfg Config, opts ...Option) (assembler.Result, error) {
	ctx, span := tracer.Start(ctx, "RunFromCheckpoints")
	defer span.End()

	cfg = cfg.withDefaults()
	root, tel := resolveTelemetry(opts)

	tables, err := checkpoint.ReadAll(cfg.CheckpointDir, codex.Tables)
	if err != nil {
		return assembler.Result{}, fmt.Errorf("read checkpoints: %w", err)
	}
	return build(ctx, cfg, tables, root, tel)
}

// ParseAll parses every named table concurrently, a table without text is an
// error.
func ParseAll(ctx context.Context, names []string, texts map[string]string) (assembler.Tables, error) {
	parsed := make([]tabular.Table, len(names))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, name := range names {
		group.Go(func() error {
			text, ok := texts[name]
			if !ok {
				return fmt.Errorf("table %s was not fetched", name)
			}
			table, err := tabular.Parse(groupCtx, name, text)
			if err != nil {
				return err
			}
			parsed[i] = table
			return nil
		})
	}
	err := group.Wait()
	if err != nil {
		return nil, err
	}

	tables := make(assembler.Tables, len(parsed))
	for _, table := range parsed {
		tables[table.Name] = table
	}
	return tables, nil
}

func build(
	ctx context.Context,
	cfg Config,
	tables assembler.Tables,
	root, tel telemetry.API,
) (assembler.Result, error) {
	result, err := assembler.Assemble(
		ctx,
		tables,
		slugs.NewAllocator(),
		assembler.WithCustomTelemetryAPI(root),
	)
	if err != nil {
		return assembler.Result{}, fmt.Errorf("assemble: %w", err)
	}

	datasheets := 0
	for _, f := range result.Factions {
		datasheets += len(f.Datasheets)
	}
	tel.ReportCount(report_run_datasheets, int64(datasheets))

	err = emitter.Emit(ctx, cfg.OutputDir, result)
	if err != nil {
		return assembler.Result{}, fmt.Errorf("emit: %w", err)
	}

	if cfg.Bundle.Enabled() {
		runID, err := pushBundle(ctx, cfg.Bundle, result)
		if err != nil {
			tel.ReportBroken(report_run_bundle, err)
			return assembler.Result{}, fmt.Errorf("bundle: %w", err)
		}
		tel.ReportDebug(report_run_bundle, runID)
	}
	return result, nil
}

func pushBundle(ctx context.Context, cfg bundle.Config, result assembler.Result) (string, error) {
	db, err := cfg.OpenDB()
	if err != nil {
		return "", err
	}
	defer db.Close()

	store := bundle.NewStore(db)
	err = store.Migrate(ctx)
	if err != nil {
		return "", err
	}
	return store.Push(ctx, result)
}

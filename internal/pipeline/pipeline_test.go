package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"codex-backend/internal/assembler"
	"codex-backend/internal/bundle"
	"codex-backend/internal/codex"
	"codex-backend/internal/components/telemetry"
	"codex-backend/internal/emitter"
	"codex-backend/internal/tabular"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func csv(header string, rows ...string) string {
	lines := append([]string{header}, rows...)
	return "\ufeff" + strings.Join(append(lines, ""), "\r\n")
}

func exportTables() map[string]string {
	tables := map[string]string{}
	for _, name := range codex.Tables {
		tables[name] = csv("id|")
	}
	tables[codex.TableFactions] = csv(
		"id|name|link|",
		"SM|Space Marines|/sm|",
	)
	tables[codex.TableDatasheets] = csv(
		"id|name|faction_id|source_id|virtual|",
		"CAP|Captain|SM|1|false|",
		"VRT|Honour Guard|SM|1|true|",
	)
	tables[codex.TableDatasheetsAbilities] = csv(
		"datasheet_id|line|ability_id|model|name|description|type|parameter|",
		`CAP|1|||Rites of Battle|<p>Reroll.</p>|Datasheet||`,
	)
	tables[codex.TableDatasheetsLeader] = csv(
		"leader_id|attached_id|",
		"CAP|VRT|",
	)
	tables[codex.TableLastUpdate] = csv(
		"last_update|",
		"2024-08-01 12:00:00|",
	)
	return tables
}

func newExportServer(t *testing.T, tables map[string]string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/"), ".csv")
		text, ok := tables[name]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(text))
	}))
	t.Cleanup(server.Close)
	return server
}

func testConfig(t *testing.T, baseUrl string) Config {
	dir := t.TempDir()
	return Config{
		BaseUrl:           baseUrl,
		CacheDir:          filepath.Join(dir, "cache"),
		CheckpointDir:     filepath.Join(dir, "checkpoints"),
		OutputDir:         filepath.Join(dir, "out"),
		Bundle:            bundle.Config{File: filepath.Join(dir, "bundle.db")},
		RequestsPerSecond: 1000,
	}
}

func TestRun(t *testing.T) {
	server := newExportServer(t, exportTables())
	cfg := testConfig(t, server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	rec := &telemetry.Recorder{}
	result, err := Run(ctx, cfg, WithCustomTelemetryAPI(rec))
	require.NoError(t, err)
	require.Equal(t, "2024-08-01 12:00:00", result.LastUpdate)

	faction, err := emitter.ReadFaction(cfg.OutputDir, "SM")
	require.NoError(t, err)
	require.Len(t, faction.Datasheets, 1)
	captain := faction.Datasheets[0]
	require.Equal(t, "Captain", captain.Name)
	require.Equal(t, []codex.Ability{{
		Name:        "Rites of Battle",
		Description: "<p>Reroll.</p>",
		Type:        "Datasheet",
	}}, captain.Abilities)
	require.Equal(t, []codex.Leader{{ID: "VRT", Slug: "honour-guard", Name: "Honour Guard"}}, captain.Leaders)

	index, err := emitter.ReadIndex(cfg.OutputDir)
	require.NoError(t, err)
	require.Equal(t, []codex.IndexEntry{{
		ID:             "SM",
		Slug:           "space-marines",
		Name:           "Space Marines",
		Path:           "factions/SM.json",
		DatasheetCount: 1,
	}}, index)

	for _, name := range codex.Tables {
		_, err := os.Stat(filepath.Join(cfg.CheckpointDir, name+".json"))
		require.NoError(t, err, name)
	}

	db, err := cfg.Bundle.OpenDB()
	require.NoError(t, err)
	defer db.Close()
	lastUpdate, err := bundle.NewStore(db).LastUpdate(ctx)
	require.NoError(t, err)
	require.Equal(t, result.LastUpdate, lastUpdate)

	require.Empty(t, rec.Reports(telemetry.KindWarning))
	require.True(t, rec.Has(telemetry.KindCount, "pipeline.run.datasheets"))
}

func TestRunFromCheckpointsMatchesRun(t *testing.T) {
	server := newExportServer(t, exportTables())
	cfg := testConfig(t, server.URL)
	ctx := context.Background()

	first, err := Run(ctx, cfg, WithCustomTelemetryAPI(&telemetry.Recorder{}))
	require.NoError(t, err)

	server.Close()
	second, err := RunFromCheckpoints(ctx, cfg, WithCustomTelemetryAPI(&telemetry.Recorder{}))
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("checkpoint rerun differs (-run +checkpoints):\n%s", diff)
	}
}

func TestRunUsesCacheUnlessForced(t *testing.T) {
	tables := exportTables()
	server := newExportServer(t, tables)
	cfg := testConfig(t, server.URL)
	cfg.Bundle = bundle.Config{}
	ctx := context.Background()

	_, err := Run(ctx, cfg, WithCustomTelemetryAPI(&telemetry.Recorder{}))
	require.NoError(t, err)

	tables[codex.TableFactions] = csv("id|name|link|", "SM|Adeptus Astartes|/sm|")

	cached, err := Run(ctx, cfg, WithCustomTelemetryAPI(&telemetry.Recorder{}))
	require.NoError(t, err)
	require.Equal(t, "Space Marines", cached.Factions[0].Name)

	cfg.ForceDownload = true
	forced, err := Run(ctx, cfg, WithCustomTelemetryAPI(&telemetry.Recorder{}))
	require.NoError(t, err)
	require.Equal(t, "Adeptus Astartes", forced.Factions[0].Name)
}

func TestRunIntegrityFailureEmitsNothing(t *testing.T) {
	tables := exportTables()
	tables[codex.TableDatasheets] = csv(
		"id|name|faction_id|source_id|virtual|",
		"CAP|Captain|SM|1|false|",
		"BOSS|Warboss|ORK|1|false|",
	)
	server := newExportServer(t, tables)
	cfg := testConfig(t, server.URL)

	_, err := Run(context.Background(), cfg, WithCustomTelemetryAPI(&telemetry.Recorder{}))
	require.ErrorIs(t, err, assembler.ErrMissingSlug)

	_, err = os.Stat(filepath.Join(cfg.OutputDir, emitter.IndexFile))
	require.True(t, os.IsNotExist(err))
	_, err = os.Stat(cfg.Bundle.File)
	require.True(t, os.IsNotExist(err))
}

func TestRunMalformedRowFails(t *testing.T) {
	tables := exportTables()
	tables[codex.TableFactions] = csv("id|name|link|", "SM|Space Marines|")
	server := newExportServer(t, tables)
	cfg := testConfig(t, server.URL)

	_, err := Run(context.Background(), cfg, WithCustomTelemetryAPI(&telemetry.Recorder{}))
	var rowErr *tabular.RowError
	require.True(t, errors.As(err, &rowErr))
	require.Equal(t, codex.TableFactions, rowErr.Table)
	require.ErrorIs(t, err, tabular.ErrColumnCount)
}

func TestParseAllMissingText(t *testing.T) {
	_, err := ParseAll(context.Background(), []string{"Factions"}, map[string]string{})
	require.Error(t, err)
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	require.Equal(t, DefaultBaseUrl, cfg.BaseUrl)
	require.Equal(t, DefaultOutputDir, cfg.OutputDir)
	require.Equal(t, float64(DefaultRequestsPerSecond), cfg.RequestsPerSecond)

	cfg = Config{OutputDir: "custom"}.withDefaults()
	require.Equal(t, "custom", cfg.OutputDir)
}

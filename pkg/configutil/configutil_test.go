package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	BaseUrl string `json:"base_url"`
	Debug   bool   `json:"debug"`
	Workers int    `json:"workers"`
}

func TestReadConfigMergesLocal(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "codex.json5")

	err := os.WriteFile(name, []byte(`{
		// comments are allowed
		base_url: "https://example.com/export/",
		workers: 4,
	}`), 0600)
	require.NoError(t, err)
	err = os.WriteFile(LocalPath(name), []byte(`{ debug: true, workers: 8 }`), 0600)
	require.NoError(t, err)

	cfg, err := ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, "https://example.com/export/", cfg.BaseUrl)
	require.True(t, cfg.Debug)
	require.Equal(t, 8, cfg.Workers)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "codex.json5"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadConfigInvalid(t *testing.T) {
	name := filepath.Join(t.TempDir(), "codex.json5")
	require.NoError(t, os.WriteFile(name, []byte(`{ workers: `), 0600))

	_, err := ReadConfig[testConfig](name)
	require.Error(t, err)
	require.NotErrorIs(t, err, os.ErrNotExist)
}

func TestLocalPath(t *testing.T) {
	require.Equal(t, "a/b/codex.local.json5", LocalPath("a/b/codex.json5"))
	require.Equal(t, "telemetry.local.json5", LocalPath("telemetry.json5"))
}

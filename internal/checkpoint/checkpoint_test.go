package checkpoint

import (
	"os"
	"testing"

	"codex-backend/internal/tabular"

	"github.com/stretchr/testify/require"
)

func TestWriteRead(t *testing.T) {
	dir := t.TempDir()
	table := tabular.Table{
		Name: "Datasheets_models_cost",
		Records: []tabular.Record{
			{"datasheetId": "CAP", "line": "1", "cost": "None"},
			{"datasheetId": "CAP", "line": "2", "cost": "<b>80</b>"},
		},
	}
	require.NoError(t, Write(dir, table))

	got, err := Read(dir, table.Name)
	require.NoError(t, err)
	require.Equal(t, table, got)
}

func TestWriteEmptyTable(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Write(dir, tabular.Table{Name: "Abilities"}))

	buff, err := os.ReadFile(path(dir, "Abilities"))
	require.NoError(t, err)
	require.Equal(t, "[]", string(buff))

	got, err := Read(dir, "Abilities")
	require.NoError(t, err)
	require.Empty(t, got.Records)
}

func TestReadAllMissing(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Write(dir, tabular.Table{Name: "Factions"}))

	_, err := ReadAll(dir, []string{"Factions", "Source"})
	require.ErrorIs(t, err, os.ErrNotExist)

	tables, err := ReadAll(dir, []string{"Factions"})
	require.NoError(t, err)
	require.Contains(t, tables, "Factions")
}

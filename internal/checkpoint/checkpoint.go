// Package checkpoint stores parsed tables between parsing and assembly so
// assembly can be rerun without parsing again.
package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"codex-backend/internal/tabular"
)

func path(dir, table string) string {
	return filepath.Join(dir, table+".json")
}

// Write stores table as a json array of records at <dir>/<table>.json.
func Write(dir string, table tabular.Table) error {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}
	records := table.Records
	if records == nil {
		records = []tabular.Record{}
	}
	buff, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path(dir, table.Name), buff, 0644)
}

// Read loads a table written by Write.
func Read(dir, name string) (tabular.Table, error) {
	buff, err := os.ReadFile(path(dir, name))
	if err != nil {
		return tabular.Table{}, err
	}
	var records []tabular.Record
	err = json.Unmarshal(buff, &records)
	if err != nil {
		return tabular.Table{}, fmt.Errorf("checkpoint %s: %w", name, err)
	}
	return tabular.Table{Name: name, Records: records}, nil
}

// ReadAll loads every named table, a missing checkpoint is an error.
func ReadAll(dir string, names []string) (map[string]tabular.Table, error) {
	out := make(map[string]tabular.Table, len(names))
	for _, name := range names {
		table, err := Read(dir, name)
		if err != nil {
			return nil, err
		}
		out[name] = table
	}
	return out, nil
}

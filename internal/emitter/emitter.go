// Package emitter writes the assembled documents to disk.
package emitter

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"codex-backend/internal/assembler"
	"codex-backend/internal/codex"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("codex.internal.emitter")

const (
	FactionsDir = "factions"
	IndexFile   = "index.json"
)

// Emit writes one document per faction under <dir>/factions and the index
// to <dir>/index.json. Output of a previous run is removed first, every run
// is a full rebuild.
func Emit(ctx context.Context, dir string, result assembler.Result) error {
	_, span := tracer.Start(ctx, "Emit")
	defer span.End()
	span.SetAttributes(
		attribute.String("dir", dir),
		attribute.Int("factions", len(result.Factions)),
	)

	err := Clean(dir)
	if err != nil {
		return err
	}
	err = os.MkdirAll(filepath.Join(dir, FactionsDir), 0755)
	if err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, faction := range result.Factions {
		err = writeJSON(filepath.Join(dir, codex.FactionPath(faction.ID)), faction)
		if err != nil {
			return fmt.Errorf("failed to write faction %s: %w", faction.ID, err)
		}
	}

	index := result.Index
	if index == nil {
		index = []codex.IndexEntry{}
	}
	err = writeJSON(filepath.Join(dir, IndexFile), index)
	if err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}
	return nil
}

// Clean removes everything Emit writes, other files in dir are left alone.
func Clean(dir string) error {
	err := os.RemoveAll(filepath.Join(dir, FactionsDir))
	if err != nil {
		return fmt.Errorf("failed to remove stale factions: %w", err)
	}
	err = os.Remove(filepath.Join(dir, IndexFile))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove stale index: %w", err)
	}
	return nil
}

// ReadIndex reads back the index written by Emit.
func ReadIndex(dir string) ([]codex.IndexEntry, error) {
	buff, err := os.ReadFile(filepath.Join(dir, IndexFile))
	if err != nil {
		return nil, err
	}
	var index []codex.IndexEntry
	err = json.Unmarshal(buff, &index)
	if err != nil {
		return nil, fmt.Errorf("failed to parse index: %w", err)
	}
	return index, nil
}

// ReadFaction reads back one faction document written by Emit.
func ReadFaction(dir, factionID string) (codex.Faction, error) {
	buff, err := os.ReadFile(filepath.Join(dir, codex.FactionPath(factionID)))
	if err != nil {
		return codex.Faction{}, err
	}
	var faction codex.Faction
	err = json.Unmarshal(buff, &faction)
	if err != nil {
		return codex.Faction{}, fmt.Errorf("failed to parse faction %s: %w", factionID, err)
	}
	return faction, nil
}

func writeJSON(path string, value any) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	err = encoder.Encode(value)
	if err != nil {
		return err
	}
	return file.Close()
}

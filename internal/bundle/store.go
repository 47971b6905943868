// Package bundle stores the emitted documents in a single sqlite or libsql
// database so clients can sync one file instead of a directory.
package bundle

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"codex-backend/internal/assembler"
	"codex-backend/internal/codex"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("codex.internal.bundle")

const (
	metaLastUpdate = "last_update"
	metaRunID      = "run_id"
)

var ErrNotFound = errors.New("not found")

type Store struct {
	db *sql.DB
}

func NewStore(database *sql.DB) Store {
	return Store{db: database}
}

// Migrate creates the tables of the bundle if they do not exist yet.
func (s Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, Schema)
	return err
}

// Push replaces the contents of the bundle with result in one transaction.
// Every push is tagged with a new run id so clients can tell bundles apart
// even when the export itself did not change.
func (s Store) Push(ctx context.Context, result assembler.Result) (string, error) {
	ctx, span := tracer.Start(ctx, "Push")
	defer span.End()
	span.SetAttributes(attribute.Int("factions", len(result.Factions)))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	for _, table := range []string{"faction", "faction_index", "meta"} {
		_, err = tx.ExecContext(ctx, "delete from "+table)
		if err != nil {
			return "", fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for i, faction := range result.Factions {
		document, err := json.Marshal(faction)
		if err != nil {
			return "", err
		}
		_, err = tx.ExecContext(
			ctx,
			"insert into faction (id, slug, name, position, document) values (?, ?, ?, ?, ?)",
			faction.ID, faction.Slug, faction.Name, i, string(document),
		)
		if err != nil {
			return "", fmt.Errorf("insert faction %s: %w", faction.ID, err)
		}
	}

	for i, entry := range result.Index {
		buff, err := json.Marshal(entry)
		if err != nil {
			return "", err
		}
		_, err = tx.ExecContext(
			ctx,
			"insert into faction_index (faction_id, position, entry) values (?, ?, ?)",
			entry.ID, i, string(buff),
		)
		if err != nil {
			return "", fmt.Errorf("insert index entry %s: %w", entry.ID, err)
		}
	}

	runID := uuid.NewString()
	_, err = tx.ExecContext(
		ctx,
		"insert into meta (key, value) values (?, ?), (?, ?)",
		metaLastUpdate, result.LastUpdate,
		metaRunID, runID,
	)
	if err != nil {
		return "", err
	}

	err = tx.Commit()
	if err != nil {
		return "", err
	}
	return runID, nil
}

func (s Store) Faction(ctx context.Context, id string) (codex.Faction, error) {
	var document string
	err := s.db.QueryRowContext(ctx, "select document from faction where id = ?", id).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return codex.Faction{}, fmt.Errorf("faction %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return codex.Faction{}, err
	}

	var faction codex.Faction
	err = json.Unmarshal([]byte(document), &faction)
	if err != nil {
		return codex.Faction{}, err
	}
	return faction, nil
}

func (s Store) Index(ctx context.Context) ([]codex.IndexEntry, error) {
	rows, err := s.db.QueryContext(ctx, "select entry from faction_index order by position")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	index := []codex.IndexEntry{}
	for rows.Next() {
		var buff string
		err = rows.Scan(&buff)
		if err != nil {
			return nil, err
		}
		var entry codex.IndexEntry
		err = json.Unmarshal([]byte(buff), &entry)
		if err != nil {
			return nil, err
		}
		index = append(index, entry)
	}
	return index, rows.Err()
}

func (s Store) meta(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "select value from meta where key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("meta %s: %w", key, ErrNotFound)
	}
	return value, err
}

func (s Store) LastUpdate(ctx context.Context) (string, error) {
	return s.meta(ctx, metaLastUpdate)
}

// RunID returns the id of the push that produced the current contents.
func (s Store) RunID(ctx context.Context) (string, error) {
	return s.meta(ctx, metaRunID)
}

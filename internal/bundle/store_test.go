package bundle

import (
	"context"
	"testing"
	"time"

	"codex-backend/internal/assembler"
	"codex-backend/internal/codex"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	db, err := Config{File: ":memory:"}.OpenDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := NewStore(db)
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func result(lastUpdate string, factions ...codex.Faction) assembler.Result {
	r := assembler.Result{LastUpdate: lastUpdate}
	for _, f := range factions {
		r.Factions = append(r.Factions, f)
		r.Index = append(r.Index, codex.IndexEntry{
			ID:             f.ID,
			Slug:           f.Slug,
			Name:           f.Name,
			Path:           codex.FactionPath(f.ID),
			DatasheetCount: len(f.Datasheets),
		})
	}
	return r
}

func TestStore(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	_, err := store.LastUpdate(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	sm := codex.Faction{
		ID:   "SM",
		Slug: "space-marines",
		Name: "Space Marines",
		Datasheets: []codex.Datasheet{
			{ID: "CAP", Slug: "captain", Name: "Captain", FactionSlug: "space-marines"},
		},
	}
	orks := codex.Faction{ID: "ORK", Slug: "orks", Name: "Orks"}
	first := result("2024-08-01", sm, orks)
	firstRun, err := store.Push(ctx, first)
	require.NoError(t, err)

	got, err := store.Faction(ctx, "SM")
	require.NoError(t, err)
	if diff := cmp.Diff(sm, got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("faction (-want +got):\n%s", diff)
	}

	index, err := store.Index(ctx)
	require.NoError(t, err)
	require.Equal(t, first.Index, index)

	lastUpdate, err := store.LastUpdate(ctx)
	require.NoError(t, err)
	require.Equal(t, "2024-08-01", lastUpdate)

	runID, err := store.RunID(ctx)
	require.NoError(t, err)
	require.Equal(t, firstRun, runID)

	// a second push replaces everything
	secondRun, err := store.Push(ctx, result("2024-09-01", orks))
	require.NoError(t, err)
	require.NotEqual(t, firstRun, secondRun)

	_, err = store.Faction(ctx, "SM")
	require.ErrorIs(t, err, ErrNotFound)
	index, err = store.Index(ctx)
	require.NoError(t, err)
	require.Len(t, index, 1)
	require.Equal(t, "ORK", index[0].ID)
}

func TestConfigOpenDB(t *testing.T) {
	_, err := Config{}.OpenDB()
	require.Error(t, err)
	require.False(t, Config{}.Enabled())

	db, err := Config{File: t.TempDir() + "/nested/bundle.db"}.OpenDB()
	require.NoError(t, err)
	require.NoError(t, db.Ping())
	require.NoError(t, db.Close())
}

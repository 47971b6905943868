// Package assembler joins the parsed tables of the rules export into one
// nested document per faction.
package assembler

import (
	"context"
	"errors"
	"fmt"

	"codex-backend/internal/codex"
	"codex-backend/internal/components/assert"
	"codex-backend/internal/components/telemetry"
	"codex-backend/internal/slugs"
	"codex-backend/internal/tabular"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("codex.internal.assembler")

// Tables holds the parsed tables keyed by table name. A missing table is
// treated as empty.
type Tables map[string]tabular.Table

// Result is everything a run produces. Factions and Index follow the order
// of the Factions table.
type Result struct {
	Factions   []codex.Faction
	Index      []codex.IndexEntry
	LastUpdate string
}

var ErrMissingSlug = errors.New("no slug allocated")

// IntegrityError is returned when a datasheet cannot be tied to a slug, the
// join graph is broken and nothing should be emitted.
type IntegrityError struct {
	Namespace   slugs.Namespace
	ID          string
	DatasheetID string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf(
		"datasheet %s: %s %q has no slug",
		e.DatasheetID, e.Namespace, e.ID,
	)
}

func (e *IntegrityError) Unwrap() error {
	return ErrMissingSlug
}

type Option func(cfg *assemblerCfg)

type assemblerCfg struct {
	tel telemetry.API
}

func WithCustomTelemetryAPI(tel telemetry.API) Option {
	return func(cfg *assemblerCfg) {
		cfg.tel = tel
	}
}

// Assemble allocates a slug for every faction and datasheet, in table order,
// then builds the faction documents concurrently.
//
// A datasheet whose faction or own slug cannot be resolved aborts the whole
// run with an *IntegrityError. Any other reference that cannot be resolved
// drops the referencing row and reports a warning.
func Assemble(ctx context.Context, tables Tables, allocator *slugs.Allocator, opts ...Option) (Result, error) {
	assert.NotNil(allocator)

	var cfg assemblerCfg
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.tel == nil {
		cfg.tel = telemetry.SlogAPI{}
	}
	tel := telemetry.NewScopedAPI("assembler", cfg.tel)

	ctx, span := tracer.Start(ctx, "Assemble")
	defer span.End()

	l, err := newLookup(tables)
	if err != nil {
		return Result{}, fmt.Errorf("decode tables: %w", err)
	}
	allocate(l, allocator)

	// every datasheet must land in some faction, a datasheet pointing at an
	// unknown faction would otherwise disappear without a trace
	byFaction := make(map[string][]codex.DatasheetRow)
	for _, ds := range l.datasheets {
		if _, ok := l.factionSlugs[ds.FactionID]; !ok {
			err := &IntegrityError{Namespace: slugs.NamespaceFaction, ID: ds.FactionID, DatasheetID: ds.ID}
			span.RecordError(err)
			return Result{}, err
		}
		byFaction[ds.FactionID] = append(byFaction[ds.FactionID], ds)
	}

	b := builder{lookup: l, tel: tel}
	factions := make([]codex.Faction, len(l.factions))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, row := range l.factions {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			faction, err := b.faction(groupCtx, row, byFaction[row.ID])
			if err != nil {
				return err
			}
			factions[i] = faction
			return nil
		})
	}
	err = group.Wait()
	if err != nil {
		span.RecordError(err)
		return Result{}, err
	}

	index := make([]codex.IndexEntry, len(factions))
	for i, f := range factions {
		index[i] = indexEntry(f)
	}
	tel.ReportCount(report_factions, int64(len(factions)))
	span.SetAttributes(
		attribute.Int("factions", len(factions)),
		attribute.Int("datasheets", len(l.datasheets)),
	)

	return Result{
		Factions:   factions,
		Index:      index,
		LastUpdate: l.lastUpdate,
	}, nil
}

// allocate runs both slug passes sequentially in table order so reruns over
// the same input hand out the same slugs.
func allocate(l *lookup, allocator *slugs.Allocator) {
	l.factionSlugs = make(map[string]string, len(l.factions))
	for _, f := range l.factions {
		l.factionSlugs[f.ID] = allocator.Allocate(slugs.NamespaceFaction, f.Name)
	}

	l.datasheetSlugs = make(map[string]string, len(l.datasheets))
	l.datasheetNames = make(map[string]string, len(l.datasheets))
	l.datasheetIDs = make([]string, 0, len(l.datasheets))
	for _, ds := range l.datasheets {
		l.datasheetSlugs[ds.ID] = allocator.Allocate(slugs.NamespaceDatasheet, ds.Name)
		l.datasheetNames[ds.ID] = ds.Name
		l.datasheetIDs = append(l.datasheetIDs, ds.ID)
	}
}

func indexEntry(f codex.Faction) codex.IndexEntry {
	detachments := make(map[string]struct{})
	add := func(name string) {
		if name != "" {
			detachments[name] = struct{}{}
		}
	}
	for _, d := range f.DetachmentAbilities {
		add(d.Detachment)
	}
	for _, s := range f.Stratagems {
		add(s.Detachment)
	}
	for _, e := range f.Enhancements {
		add(e.Detachment)
	}

	return codex.IndexEntry{
		ID:               f.ID,
		Slug:             f.Slug,
		Name:             f.Name,
		Path:             codex.FactionPath(f.ID),
		DatasheetCount:   len(f.Datasheets),
		StratagemCount:   len(f.Stratagems),
		EnhancementCount: len(f.Enhancements),
		DetachmentCount:  len(detachments),
	}
}

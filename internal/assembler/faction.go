package assembler

import (
	"context"

	"codex-backend/internal/codex"
	"codex-backend/internal/components/telemetry"
	"codex-backend/internal/slugs"
)

const (
	report_factions                   = "factions"
	report_resolve_ability            = "resolve-ability"
	report_resolve_stratagem          = "resolve-stratagem"
	report_resolve_enhancement        = "resolve-enhancement"
	report_resolve_detachment_ability = "resolve-detachment-ability"
	report_resolve_leader             = "resolve-leader"
)

type builder struct {
	lookup *lookup
	tel    telemetry.API
}

func (b builder) faction(ctx context.Context, row codex.FactionRow, datasheets []codex.DatasheetRow) (codex.Faction, error) {
	l := b.lookup
	faction := codex.Faction{
		ID:                  row.ID,
		Slug:                l.factionSlugs[row.ID],
		Name:                row.Name,
		Link:                row.Link,
		Datasheets:          []codex.Datasheet{},
		Stratagems:          nonNil(l.factionStratagems[row.ID]),
		Enhancements:        nonNil(l.factionEnhancements[row.ID]),
		DetachmentAbilities: nonNil(l.factionDetachmentAbilities[row.ID]),
	}

	for _, ds := range datasheets {
		datasheet, err := b.datasheet(ctx, ds)
		if err != nil {
			return codex.Faction{}, err
		}
		if datasheet.Virtual {
			continue
		}
		faction.Datasheets = append(faction.Datasheets, datasheet)
	}
	return faction, nil
}

func (b builder) datasheet(ctx context.Context, row codex.DatasheetRow) (codex.Datasheet, error) {
	l := b.lookup

	factionSlug, ok := l.factionSlugs[row.FactionID]
	if !ok || factionSlug == "" {
		return codex.Datasheet{}, &IntegrityError{Namespace: slugs.NamespaceFaction, ID: row.FactionID, DatasheetID: row.ID}
	}
	slug, ok := l.datasheetSlugs[row.ID]
	if !ok || slug == "" {
		return codex.Datasheet{}, &IntegrityError{Namespace: slugs.NamespaceDatasheet, ID: row.ID, DatasheetID: row.ID}
	}

	return codex.Datasheet{
		ID:                 row.ID,
		Slug:               slug,
		Name:               row.Name,
		FactionID:          row.FactionID,
		FactionSlug:        factionSlug,
		SourceID:           row.SourceID,
		Legend:             row.Legend,
		Role:               row.Role,
		Loadout:            row.Loadout,
		Transport:          row.Transport,
		Virtual:            isTrue(row.Virtual),
		LeaderHead:         row.LeaderHead,
		LeaderFooter:       row.LeaderFooter,
		DamagedW:           row.DamagedW,
		DamagedDescription: row.DamagedDescription,
		Link:               row.Link,
		IsForgeWorld:       l.forgeWorldSources[row.SourceID],
		IsLegends:          l.legendsSources[row.SourceID],

		Abilities:       b.abilities(ctx, row.ID),
		Keywords:        nonNil(l.keywords[row.ID]),
		Models:          nonNil(l.models[row.ID]),
		Options:         nonNil(l.options[row.ID]),
		Wargear:         nonNil(l.wargear[row.ID]),
		UnitComposition: nonNil(l.unitComposition[row.ID]),
		ModelCosts:      nonNil(l.modelCosts[row.ID]),
		Stratagems: resolveJoins(
			ctx, b.tel, report_resolve_stratagem, row.ID,
			l.stratagemJoins[row.ID], l.stratagems,
		),
		Enhancements: resolveJoins(
			ctx, b.tel, report_resolve_enhancement, row.ID,
			l.enhancementJoins[row.ID], l.enhancements,
		),
		DetachmentAbilities: resolveJoins(
			ctx, b.tel, report_resolve_detachment_ability, row.ID,
			l.detachmentAbilityJoins[row.ID], l.detachmentAbilities,
		),
		Leaders: b.leaders(ctx, row.ID),
	}, nil
}

func (b builder) abilities(ctx context.Context, datasheetID string) []codex.Ability {
	l := b.lookup
	out := []codex.Ability{}
	for _, join := range l.abilityJoins[datasheetID] {
		if join.AbilityID != "" {
			ability, ok := l.abilities.get(join.AbilityID)
			if !ok {
				reportDrop(ctx, b.tel, report_resolve_ability, datasheetID, join.AbilityID, l.abilities.ids)
				continue
			}
			out = append(out, codex.Ability{
				ID:          ability.ID,
				Name:        ability.Name,
				Legend:      ability.Legend,
				FactionID:   ability.FactionID,
				Description: ability.Description,
				Type:        join.Type,
				Parameter:   join.Parameter,
				Model:       join.Model,
			})
			continue
		}

		if join.Name == "" && join.Description == "" {
			reportDrop(ctx, b.tel, report_resolve_ability, datasheetID, "", nil)
			continue
		}
		out = append(out, codex.Ability{
			Name:        join.Name,
			Description: join.Description,
			Type:        join.Type,
			Parameter:   join.Parameter,
			Model:       join.Model,
		})
	}
	return out
}

// leaders resolves the datasheets the leader can be attached to, targets may
// belong to another faction or be virtual.
func (b builder) leaders(ctx context.Context, leaderID string) []codex.Leader {
	l := b.lookup
	out := []codex.Leader{}
	for _, attachedID := range l.leaderJoins[leaderID] {
		slug, ok := l.datasheetSlugs[attachedID]
		if !ok {
			reportDrop(ctx, b.tel, report_resolve_leader, leaderID, attachedID, l.datasheetIDs)
			continue
		}
		out = append(out, codex.Leader{
			ID:   attachedID,
			Slug: slug,
			Name: l.datasheetNames[attachedID],
		})
	}
	return out
}

// resolveJoins takes the canonical row for every joined id in join order.
func resolveJoins[T any](
	ctx context.Context,
	tel telemetry.API,
	reportID, datasheetID string,
	ids []string,
	table canonical[T],
) []T {
	out := []T{}
	for _, id := range ids {
		value, ok := table.get(id)
		if !ok {
			reportDrop(ctx, tel, reportID, datasheetID, id, table.ids)
			continue
		}
		out = append(out, value)
	}
	return out
}

// nonNil keeps empty lists as [] in the emitted json.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

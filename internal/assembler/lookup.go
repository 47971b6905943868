package assembler

import (
	"strings"

	"codex-backend/internal/codex"
	"codex-backend/internal/tabular"
)

// lookup holds every table decoded and indexed by the keys the joins use.
// It is built once and only read afterwards, faction goroutines share it.
type lookup struct {
	factions   []codex.FactionRow
	datasheets []codex.DatasheetRow
	lastUpdate string

	factionSlugs   map[string]string
	datasheetSlugs map[string]string
	datasheetNames map[string]string
	datasheetIDs   []string

	forgeWorldSources map[string]bool
	legendsSources    map[string]bool

	keywords        map[string][]codex.Keyword
	models          map[string][]codex.Model
	options         map[string][]codex.Option
	wargear         map[string][]codex.Wargear
	unitComposition map[string][]codex.UnitComposition
	modelCosts      map[string][]codex.ModelCost

	abilityJoins map[string][]codex.DatasheetAbilityRow
	abilities    canonical[codex.AbilityRow]

	stratagems          canonical[codex.Stratagem]
	enhancements        canonical[codex.Enhancement]
	detachmentAbilities canonical[codex.DetachmentAbility]

	stratagemJoins         map[string][]string
	enhancementJoins       map[string][]string
	detachmentAbilityJoins map[string][]string
	leaderJoins            map[string][]string

	factionStratagems          map[string][]codex.Stratagem
	factionEnhancements        map[string][]codex.Enhancement
	factionDetachmentAbilities map[string][]codex.DetachmentAbility
}

// canonical indexes a canonical table by id, the first row with an id wins.
type canonical[T any] struct {
	byID map[string]T
	ids  []string
}

func newCanonical[T any](rows []T, id func(T) string) canonical[T] {
	c := canonical[T]{byID: make(map[string]T, len(rows))}
	for _, row := range rows {
		key := id(row)
		if _, ok := c.byID[key]; ok {
			continue
		}
		c.byID[key] = row
		c.ids = append(c.ids, key)
	}
	return c
}

func (c canonical[T]) get(id string) (T, bool) {
	value, ok := c.byID[id]
	return value, ok
}

func groupBy[T any](rows []T, key func(T) string) map[string][]T {
	out := make(map[string][]T)
	for _, row := range rows {
		k := key(row)
		out[k] = append(out[k], row)
	}
	return out
}

func decodeTable[T any](tables Tables, name string) ([]T, error) {
	table, ok := tables[name]
	if !ok {
		return nil, nil
	}
	return tabular.Decode[T](table)
}

func isTrue(value string) bool {
	return strings.EqualFold(strings.TrimSpace(value), "true")
}

func newLookup(tables Tables) (*lookup, error) {
	l := &lookup{}
	var err error

	l.factions, err = decodeTable[codex.FactionRow](tables, codex.TableFactions)
	if err != nil {
		return nil, err
	}
	l.datasheets, err = decodeTable[codex.DatasheetRow](tables, codex.TableDatasheets)
	if err != nil {
		return nil, err
	}

	sources, err := decodeTable[codex.SourceRow](tables, codex.TableSource)
	if err != nil {
		return nil, err
	}
	l.forgeWorldSources = make(map[string]bool)
	l.legendsSources = make(map[string]bool)
	for _, s := range sources {
		if strings.Contains(s.Name, codex.ForgeWorldMarker) {
			l.forgeWorldSources[s.ID] = true
		}
		if strings.Contains(s.Name, codex.LegendsMarker) {
			l.legendsSources[s.ID] = true
		}
	}

	keywords, err := decodeTable[codex.Keyword](tables, codex.TableDatasheetsKeywords)
	if err != nil {
		return nil, err
	}
	l.keywords = groupBy(keywords, func(r codex.Keyword) string { return r.DatasheetID })

	models, err := decodeTable[codex.Model](tables, codex.TableDatasheetsModels)
	if err != nil {
		return nil, err
	}
	l.models = groupBy(models, func(r codex.Model) string { return r.DatasheetID })

	options, err := decodeTable[codex.Option](tables, codex.TableDatasheetsOptions)
	if err != nil {
		return nil, err
	}
	l.options = groupBy(options, func(r codex.Option) string { return r.DatasheetID })

	wargear, err := decodeTable[codex.Wargear](tables, codex.TableDatasheetsWargear)
	if err != nil {
		return nil, err
	}
	l.wargear = groupBy(wargear, func(r codex.Wargear) string { return r.DatasheetID })

	composition, err := decodeTable[codex.UnitComposition](tables, codex.TableDatasheetsUnitComposition)
	if err != nil {
		return nil, err
	}
	l.unitComposition = groupBy(composition, func(r codex.UnitComposition) string { return r.DatasheetID })

	costs, err := decodeTable[codex.ModelCost](tables, codex.TableDatasheetsModelsCost)
	if err != nil {
		return nil, err
	}
	l.modelCosts = groupBy(costs, func(r codex.ModelCost) string { return r.DatasheetID })

	abilityJoins, err := decodeTable[codex.DatasheetAbilityRow](tables, codex.TableDatasheetsAbilities)
	if err != nil {
		return nil, err
	}
	l.abilityJoins = groupBy(abilityJoins, func(r codex.DatasheetAbilityRow) string { return r.DatasheetID })

	abilities, err := decodeTable[codex.AbilityRow](tables, codex.TableAbilities)
	if err != nil {
		return nil, err
	}
	l.abilities = newCanonical(abilities, func(r codex.AbilityRow) string { return r.ID })

	stratagems, err := decodeTable[codex.Stratagem](tables, codex.TableStratagems)
	if err != nil {
		return nil, err
	}
	l.stratagems = newCanonical(stratagems, func(r codex.Stratagem) string { return r.ID })
	l.factionStratagems = groupBy(stratagems, func(r codex.Stratagem) string { return r.FactionID })

	enhancements, err := decodeTable[codex.Enhancement](tables, codex.TableEnhancements)
	if err != nil {
		return nil, err
	}
	l.enhancements = newCanonical(enhancements, func(r codex.Enhancement) string { return r.ID })
	l.factionEnhancements = groupBy(enhancements, func(r codex.Enhancement) string { return r.FactionID })

	detachmentAbilities, err := decodeTable[codex.DetachmentAbility](tables, codex.TableDetachmentAbilities)
	if err != nil {
		return nil, err
	}
	l.detachmentAbilities = newCanonical(detachmentAbilities, func(r codex.DetachmentAbility) string { return r.ID })
	l.factionDetachmentAbilities = groupBy(detachmentAbilities, func(r codex.DetachmentAbility) string { return r.FactionID })

	stratagemJoins, err := decodeTable[codex.DatasheetStratagemRow](tables, codex.TableDatasheetsStratagems)
	if err != nil {
		return nil, err
	}
	l.stratagemJoins = make(map[string][]string)
	for _, j := range stratagemJoins {
		l.stratagemJoins[j.DatasheetID] = append(l.stratagemJoins[j.DatasheetID], j.StratagemID)
	}

	enhancementJoins, err := decodeTable[codex.DatasheetEnhancementRow](tables, codex.TableDatasheetsEnhancements)
	if err != nil {
		return nil, err
	}
	l.enhancementJoins = make(map[string][]string)
	for _, j := range enhancementJoins {
		l.enhancementJoins[j.DatasheetID] = append(l.enhancementJoins[j.DatasheetID], j.EnhancementID)
	}

	detachmentJoins, err := decodeTable[codex.DatasheetDetachmentAbilityRow](tables, codex.TableDatasheetsDetachmentAbilities)
	if err != nil {
		return nil, err
	}
	l.detachmentAbilityJoins = make(map[string][]string)
	for _, j := range detachmentJoins {
		l.detachmentAbilityJoins[j.DatasheetID] = append(l.detachmentAbilityJoins[j.DatasheetID], j.DetachmentAbilityID)
	}

	leaderJoins, err := decodeTable[codex.DatasheetLeaderRow](tables, codex.TableDatasheetsLeader)
	if err != nil {
		return nil, err
	}
	l.leaderJoins = make(map[string][]string)
	for _, j := range leaderJoins {
		l.leaderJoins[j.LeaderID] = append(l.leaderJoins[j.LeaderID], j.AttachedID)
	}

	lastUpdate, err := decodeTable[codex.LastUpdateRow](tables, codex.TableLastUpdate)
	if err != nil {
		return nil, err
	}
	if len(lastUpdate) > 0 {
		l.lastUpdate = lastUpdate[0].LastUpdate
	}

	return l, nil
}

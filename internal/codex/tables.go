// Package codex describes the tables of the rules export and the documents
// built from them.
package codex

// Source table names, each is served as <name>.csv.
const (
	TableFactions                      = "Factions"
	TableSource                        = "Source"
	TableDatasheets                    = "Datasheets"
	TableDatasheetsAbilities           = "Datasheets_abilities"
	TableDatasheetsKeywords            = "Datasheets_keywords"
	TableDatasheetsModels              = "Datasheets_models"
	TableDatasheetsOptions             = "Datasheets_options"
	TableDatasheetsWargear             = "Datasheets_wargear"
	TableDatasheetsUnitComposition     = "Datasheets_unit_composition"
	TableDatasheetsModelsCost          = "Datasheets_models_cost"
	TableDatasheetsStratagems          = "Datasheets_stratagems"
	TableDatasheetsEnhancements        = "Datasheets_enhancements"
	TableDatasheetsDetachmentAbilities = "Datasheets_detachment_abilities"
	TableDatasheetsLeader              = "Datasheets_leader"
	TableStratagems                    = "Stratagems"
	TableAbilities                     = "Abilities"
	TableEnhancements                  = "Enhancements"
	TableDetachmentAbilities           = "Detachment_abilities"
	TableLastUpdate                    = "Last_update"
)

// Tables lists every table of the export in the order they are fetched.
var Tables = []string{
	TableFactions,
	TableSource,
	TableDatasheets,
	TableDatasheetsAbilities,
	TableDatasheetsKeywords,
	TableDatasheetsModels,
	TableDatasheetsOptions,
	TableDatasheetsWargear,
	TableDatasheetsUnitComposition,
	TableDatasheetsModelsCost,
	TableDatasheetsStratagems,
	TableDatasheetsEnhancements,
	TableDatasheetsDetachmentAbilities,
	TableDatasheetsLeader,
	TableStratagems,
	TableAbilities,
	TableEnhancements,
	TableDetachmentAbilities,
	TableLastUpdate,
}

// Markers found in Source names that flag a datasheet's origin.
const (
	ForgeWorldMarker = "Imperial Armour:"
	LegendsMarker    = "Legends:"
)

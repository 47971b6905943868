package codex

// Keyword, Model, Option, Wargear, UnitComposition and ModelCost are child
// rows of a datasheet, joined on DatasheetID and copied as they are.

type Keyword struct {
	DatasheetID      string `json:"datasheetId"`
	Keyword          string `json:"keyword"`
	Model            string `json:"model"`
	IsFactionKeyword string `json:"isFactionKeyword"`
}

type Model struct {
	DatasheetID   string `json:"datasheetId"`
	Line          string `json:"line"`
	Name          string `json:"name"`
	M             string `json:"m"`
	T             string `json:"t"`
	Sv            string `json:"sv"`
	InvSv         string `json:"invSv"`
	InvSvDescr    string `json:"invSvDescr"`
	W             string `json:"w"`
	Ld            string `json:"ld"`
	OC            string `json:"oc"`
	BaseSize      string `json:"baseSize"`
	BaseSizeDescr string `json:"baseSizeDescr"`
}

type Option struct {
	DatasheetID string `json:"datasheetId"`
	Line        string `json:"line"`
	Button      string `json:"button"`
	Description string `json:"description"`
}

type Wargear struct {
	DatasheetID   string `json:"datasheetId"`
	Line          string `json:"line"`
	LineInWargear string `json:"lineInWargear"`
	Dice          string `json:"dice"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Range         string `json:"range"`
	Type          string `json:"type"`
	A             string `json:"a"`
	BsWs          string `json:"bsWs"`
	S             string `json:"s"`
	AP            string `json:"ap"`
	D             string `json:"d"`
}

type UnitComposition struct {
	DatasheetID string `json:"datasheetId"`
	Line        string `json:"line"`
	Description string `json:"description"`
}

type ModelCost struct {
	DatasheetID string `json:"datasheetId"`
	Line        string `json:"line"`
	Description string `json:"description"`
	Cost        string `json:"cost"`
}

type Stratagem struct {
	ID          string `json:"id"`
	FactionID   string `json:"factionId"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	CpCost      string `json:"cpCost"`
	Legend      string `json:"legend"`
	Turn        string `json:"turn"`
	Phase       string `json:"phase"`
	Detachment  string `json:"detachment"`
	Description string `json:"description"`
}

type Enhancement struct {
	ID          string `json:"id"`
	FactionID   string `json:"factionId"`
	Name        string `json:"name"`
	Cost        string `json:"cost"`
	Detachment  string `json:"detachment"`
	Legend      string `json:"legend"`
	Description string `json:"description"`
}

type DetachmentAbility struct {
	ID          string `json:"id"`
	FactionID   string `json:"factionId"`
	Name        string `json:"name"`
	Legend      string `json:"legend"`
	Description string `json:"description"`
	Detachment  string `json:"detachment"`
}

// Ability is either referenced, copied from the Abilities table, or inline,
// defined by the join row alone. Inline abilities have an empty ID, Legend
// and FactionID. Type always comes from the join row.
type Ability struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Legend      string `json:"legend"`
	FactionID   string `json:"factionId"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Parameter   string `json:"parameter"`
	Model       string `json:"model"`
}

func (a Ability) Inline() bool {
	return a.ID == ""
}

// Leader is a datasheet the owning datasheet can be attached to as a leader.
type Leader struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

type Datasheet struct {
	ID                 string `json:"id"`
	Slug               string `json:"slug"`
	Name               string `json:"name"`
	FactionID          string `json:"factionId"`
	FactionSlug        string `json:"factionSlug"`
	SourceID           string `json:"sourceId"`
	Legend             string `json:"legend"`
	Role               string `json:"role"`
	Loadout            string `json:"loadout"`
	Transport          string `json:"transport"`
	Virtual            bool   `json:"virtual"`
	LeaderHead         string `json:"leaderHead"`
	LeaderFooter       string `json:"leaderFooter"`
	DamagedW           string `json:"damagedW"`
	DamagedDescription string `json:"damagedDescription"`
	Link               string `json:"link"`
	IsForgeWorld       bool   `json:"isForgeWorld"`
	IsLegends          bool   `json:"isLegends"`

	Abilities           []Ability           `json:"abilities"`
	Keywords            []Keyword           `json:"keywords"`
	Models              []Model             `json:"models"`
	Options             []Option            `json:"options"`
	Wargear             []Wargear           `json:"wargear"`
	UnitComposition     []UnitComposition   `json:"unitComposition"`
	ModelCosts          []ModelCost         `json:"modelCosts"`
	Stratagems          []Stratagem         `json:"stratagems"`
	Enhancements        []Enhancement       `json:"enhancements"`
	DetachmentAbilities []DetachmentAbility `json:"detachmentAbilities"`
	Leaders             []Leader            `json:"leaders"`
}

// Faction is the document served for one faction, it owns its datasheets.
type Faction struct {
	ID                  string              `json:"id"`
	Slug                string              `json:"slug"`
	Name                string              `json:"name"`
	Link                string              `json:"link"`
	Datasheets          []Datasheet         `json:"datasheets"`
	Stratagems          []Stratagem         `json:"stratagems"`
	Enhancements        []Enhancement       `json:"enhancements"`
	DetachmentAbilities []DetachmentAbility `json:"detachmentAbilities"`
}

// IndexEntry summarizes a Faction so clients can list factions without
// downloading every document.
type IndexEntry struct {
	ID               string `json:"id"`
	Slug             string `json:"slug"`
	Name             string `json:"name"`
	Path             string `json:"path"`
	DatasheetCount   int    `json:"datasheetCount"`
	StratagemCount   int    `json:"stratagemCount"`
	EnhancementCount int    `json:"enhancementCount"`
	DetachmentCount  int    `json:"detachmentCount"`
}

// FactionPath is where the document of a faction lives relative to the
// output root, index entries point there.
func FactionPath(factionID string) string {
	return "factions/" + factionID + ".json"
}

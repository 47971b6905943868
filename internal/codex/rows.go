package codex

// Rows as they come out of the parser, one struct per source table. Every
// field stays a string.

type FactionRow struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Link string `json:"link"`
}

type SourceRow struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Edition    string `json:"edition"`
	Version    string `json:"version"`
	ErrataDate string `json:"errataDate"`
	ErrataLink string `json:"errataLink"`
}

type DatasheetRow struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	FactionID          string `json:"factionId"`
	SourceID           string `json:"sourceId"`
	Legend             string `json:"legend"`
	Role               string `json:"role"`
	Loadout            string `json:"loadout"`
	Transport          string `json:"transport"`
	Virtual            string `json:"virtual"`
	LeaderHead         string `json:"leaderHead"`
	LeaderFooter       string `json:"leaderFooter"`
	DamagedW           string `json:"damagedW"`
	DamagedDescription string `json:"damagedDescription"`
	Link               string `json:"link"`
}

type DatasheetAbilityRow struct {
	DatasheetID string `json:"datasheetId"`
	Line        string `json:"line"`
	AbilityID   string `json:"abilityId"`
	Model       string `json:"model"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Parameter   string `json:"parameter"`
}

type DatasheetStratagemRow struct {
	DatasheetID string `json:"datasheetId"`
	StratagemID string `json:"stratagemId"`
}

type DatasheetEnhancementRow struct {
	DatasheetID   string `json:"datasheetId"`
	EnhancementID string `json:"enhancementId"`
}

type DatasheetDetachmentAbilityRow struct {
	DatasheetID         string `json:"datasheetId"`
	DetachmentAbilityID string `json:"detachmentAbilityId"`
}

type DatasheetLeaderRow struct {
	LeaderID   string `json:"leaderId"`
	AttachedID string `json:"attachedId"`
}

type AbilityRow struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Legend      string `json:"legend"`
	FactionID   string `json:"factionId"`
	Description string `json:"description"`
}

type LastUpdateRow struct {
	LastUpdate string `json:"lastUpdate"`
}

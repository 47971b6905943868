package tabular

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildTable(header string, rows ...string) string {
	lines := append([]string{header}, rows...)
	// the export closes with an empty terminator row
	lines = append(lines, "")
	return strings.Join(lines, "\r\n")
}

func TestParseRowCount(t *testing.T) {
	for n := 0; n < 5; n++ {
		var rows []string
		for i := 0; i < n; i++ {
			rows = append(rows, fmt.Sprintf("id%d|name %d|", i, i))
		}
		table, err := Parse(context.Background(), "Factions", buildTable("id|name|", rows...))
		require.NoError(t, err)
		require.Len(t, table.Records, n)
	}
}

func TestParseTerminatorIsDiscarded(t *testing.T) {
	// a terminator that looks like data is still never parsed
	text := "id|name|\r\nSM|Space Marines|\r\nXX|Terminator|"
	table, err := Parse(context.Background(), "Factions", text)
	require.NoError(t, err)
	require.Equal(t, []Record{{"id": "SM", "name": "Space Marines"}}, table.Records)
}

func TestParseRecords(t *testing.T) {
	text := "\ufeff" + buildTable(
		"datasheet_id|line|ability_id|name|description|type|",
		`CAP|1||Rites of Battle|<p>&nbsp;</p><p>Reroll.</p>|Datasheet|`,
		`CAP|2|000008338||<a href="/x">Oath</a>|Core|`,
	)

	table, err := Parse(context.Background(), "Datasheets_abilities", text)
	require.NoError(t, err)
	require.Equal(t, "Datasheets_abilities", table.Name)
	require.Equal(t, []Record{
		{
			"datasheetId": "CAP",
			"line":        "1",
			"abilityId":   "",
			"name":        "Rites of Battle",
			"description": "<p>Reroll.</p>",
			"type":        "Datasheet",
		},
		{
			"datasheetId": "CAP",
			"line":        "2",
			"abilityId":   "000008338",
			"name":        "",
			"description": "Oath",
			"type":        "Core",
		},
	}, table.Records)
}

func TestParseHeaderWithoutTrailingDelimiter(t *testing.T) {
	table, err := Parse(context.Background(), "Last_update", buildTable("last_update", "2024-06-01 10:00:00|"))
	require.NoError(t, err)
	require.Equal(t, []Record{{"lastUpdate": "2024-06-01 10:00:00"}}, table.Records)
}

func TestParseColumnMismatch(t *testing.T) {
	cases := []string{
		buildTable("id|name|", "SM|Space Marines|", "CSM|"),
		buildTable("id|name|", "SM|Space Marines|extra|"),
	}

	for _, text := range cases {
		_, err := Parse(context.Background(), "Factions", text)
		require.Error(t, err)
		require.True(t, errors.Is(err, ErrColumnCount))

		var rowErr *RowError
		require.True(t, errors.As(err, &rowErr))
		require.Equal(t, "Factions", rowErr.Table)
		require.Equal(t, 2, rowErr.Expected)
	}

	_, err := Parse(context.Background(), "Factions", buildTable("id|name|", "SM|Space Marines|", "CSM|"))
	var rowErr *RowError
	require.True(t, errors.As(err, &rowErr))
	require.Equal(t, 3, rowErr.Line)
	require.Equal(t, 1, rowErr.Got)
}

func TestParseEmpty(t *testing.T) {
	for _, text := range []string{"", "\ufeff", "\r\n"} {
		_, err := Parse(context.Background(), "Factions", text)
		require.ErrorIs(t, err, ErrEmptyTable)
	}
}

func TestCamelCase(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{in: "Datasheets_unit_composition", expected: "datasheetsUnitComposition"},
		{in: "faction_id", expected: "factionId"},
		{in: "BS_WS", expected: "bsWs"},
		{in: "M", expected: "m"},
		{in: "inv_sv_descr", expected: "invSvDescr"},
		{in: "cp cost", expected: "cpCost"},
		{in: "is__faction--keyword", expected: "isFactionKeyword"},
		{in: "line_in_wargear", expected: "lineInWargear"},
		{in: "", expected: ""},
	}

	for _, test := range cases {
		once := CamelCase(test.in)
		require.Equal(t, test.expected, once, "input: %q", test.in)
		require.Equal(t, once, CamelCase(once), "not idempotent for %q", test.in)
		require.NotContains(t, once, "_")
	}
}

type keywordRow struct {
	DatasheetID      string `json:"datasheetId"`
	Keyword          string `json:"keyword"`
	IsFactionKeyword string `json:"isFactionKeyword"`
}

func TestDecode(t *testing.T) {
	table := Table{
		Name: "Datasheets_keywords",
		Records: []Record{
			{"datasheetId": "CAP", "keyword": "Infantry", "isFactionKeyword": "false", "model": ""},
			{"datasheetId": "CAP", "keyword": "Adeptus Astartes"},
		},
	}

	rows, err := Decode[keywordRow](table)
	require.NoError(t, err)
	require.Equal(t, []keywordRow{
		{DatasheetID: "CAP", Keyword: "Infantry", IsFactionKeyword: "false"},
		{DatasheetID: "CAP", Keyword: "Adeptus Astartes"},
	}, rows)
}

package tabular

import (
	"strings"
	"unicode"
)

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// CamelCase converts a header token to camelCase: "Datasheets_unit_composition"
// becomes "datasheetsUnitComposition" and "BS_WS" becomes "bsWs".
//
// Every run of non-alphanumeric characters is dropped and the character after
// it is uppercased. A lowercase letter directly followed by an uppercase one
// also starts a new word, which makes the conversion idempotent.
func CamelCase(header string) string {
	var words []string
	var current []rune
	flush := func() {
		if len(current) > 0 {
			words = append(words, strings.ToLower(string(current)))
			current = current[:0]
		}
	}

	var prev rune
	for _, r := range header {
		if !isAlnum(r) {
			flush()
			prev = 0
			continue
		}
		if unicode.IsUpper(r) && unicode.IsLower(prev) {
			flush()
		}
		current = append(current, r)
		prev = r
	}
	flush()

	var b strings.Builder
	for i, w := range words {
		if i == 0 {
			b.WriteString(w)
			continue
		}
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	return b.String()
}

package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeName lowercases name and removes all whitespace, it is used to
// compare identifiers that differ only in formatting.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

// FoldAccents decomposes s and drops combining marks, "Ynnarí" becomes "Ynnari".
func FoldAccents(s string) string {
	// transformers carry state, so a fresh chain is made per call
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

// Slugify returns a lowercase, hyphenated, URL-safe version of s. Only ascii
// letters and digits survive, every other run of characters becomes a single
// hyphen. The result may be empty.
func Slugify(s string) string {
	s = strings.ToLower(FoldAccents(s))

	var b strings.Builder
	pendingDash := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		// apostrophes join words instead of splitting them: "Emperor's" -> "emperors"
		if r == '\'' || r == '’' {
			continue
		}
		pendingDash = true
	}
	return b.String()
}

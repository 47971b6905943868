package htmlutil

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

var innerWhitespace = regexp.MustCompile(`\s\s+`)

func removeNonPrintable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, s)
}

// PlainText returns the text content of an html fragment with entities
// decoded, non-printable characters removed and whitespace collapsed.
// "Captain&#39;s <b>Orders</b>" becomes "Captain's Orders".
func PlainText(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	text := doc.Find("body").Text()
	text = removeNonPrintable(text)
	text = strings.ReplaceAll(text, "\u00a0", " ")
	text = innerWhitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

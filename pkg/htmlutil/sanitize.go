package htmlutil

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NameMarkerClass marks elements that repeat the owning unit's name inline,
// they carry no information of their own in the export.
const NameMarkerClass = "abName"

var removedTags = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Iframe:   true,
}

var unwrappedTags = map[atom.Atom]bool{
	atom.A: true,
	atom.I: true,
}

var strippedAttrs = map[string]bool{
	"style":       true,
	"width":       true,
	"height":      true,
	"cellspacing": true,
	"cellpadding": true,
	"border":      true,
}

// block content the export sometimes nests inside a paragraph
var promotedBlocks = map[atom.Atom]bool{
	atom.Div:   true,
	atom.Table: true,
}

var emptyParagraph = regexp.MustCompile(`<p(?:\s[^>]*)?>(?:\s|\x{00a0}|&nbsp;|<br\s*/?>)*</p>`)

func newFragmentRoot() *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	}
}

// Sanitize cleans an html fragment taken from a table cell.
//
// Removed tags and elements carrying NameMarkerClass disappear with their
// descendants, anchors and italics are replaced by their contents,
// presentation attributes are stripped and empty paragraphs are dropped.
// The result is trimmed. Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}

	// the fragment is parsed as the children of a synthetic container so it
	// does not need to be a well formed document
	nodes, err := html.ParseFragment(strings.NewReader(fragment), newFragmentRoot())
	if err != nil {
		// ParseFragment only fails on reader errors, a strings.Reader has none
		return strings.TrimSpace(fragment)
	}
	var out strings.Builder
	for _, n := range nodes {
		for _, clean := range SanitizeNode(n) {
			html.Render(&out, clean)
		}
	}

	rendered := emptyParagraph.ReplaceAllString(out.String(), "")
	return strings.TrimSpace(rendered)
}

// SanitizeNode returns a sanitized copy of n, the input tree is not modified.
// The result is empty when n is removed and may hold several nodes when n is
// unwrapped.
func SanitizeNode(n *html.Node) []*html.Node {
	switch n.Type {
	case html.TextNode:
		return []*html.Node{{Type: html.TextNode, Data: n.Data}}
	case html.ElementNode:
	default:
		// comments and doctypes have no place in a cell
		return nil
	}

	if removedTags[n.DataAtom] || hasClass(n, NameMarkerClass) {
		return nil
	}

	var children []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		children = append(children, SanitizeNode(c)...)
	}

	if unwrappedTags[n.DataAtom] {
		return children
	}
	if n.DataAtom == atom.P && containsPromotedBlock(children) {
		return children
	}

	out := &html.Node{
		Type:      html.ElementNode,
		Data:      n.Data,
		DataAtom:  n.DataAtom,
		Namespace: n.Namespace,
		Attr:      keptAttrs(n.Attr),
	}
	for _, c := range children {
		out.AppendChild(c)
	}
	return []*html.Node{out}
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func containsPromotedBlock(nodes []*html.Node) bool {
	for _, n := range nodes {
		if n.Type == html.ElementNode && promotedBlocks[n.DataAtom] {
			return true
		}
	}
	return false
}

func keptAttrs(attrs []html.Attribute) []html.Attribute {
	var out []html.Attribute
	for _, a := range attrs {
		if strippedAttrs[strings.ToLower(a.Key)] {
			continue
		}
		out = append(out, a)
	}
	return out
}

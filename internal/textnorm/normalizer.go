package textnorm

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// noiseSelector matches elements whose text never reaches the analysis.
// Inline scripts and styles routinely contain words like "finance" in
// variable names and class lists.
const noiseSelector = "script, style, noscript, template"

// Normalize extracts the visible body text of markup and canonicalizes it.
// Empty or unparsable input yields an empty string.
//
// The result is text, not markup. Feeding it back into Normalize parses
// it again and decodes escaped entities a second time, so only
// NormalizeText is idempotent on the output.
func Normalize(markup string) string {
	if strings.TrimSpace(markup) == "" {
		return ""
	}
	return NormalizeText(VisibleText(markup))
}

// VisibleText returns the raw text content of the document body with
// noise elements removed. Text nodes are joined by single spaces so that
// adjacent block elements do not fuse words together.
func VisibleText(markup string) string {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		// html.Parse only fails on reader errors, which a strings.Reader
		// never returns; treat it as an empty document anyway.
		return ""
	}

	doc := goquery.NewDocumentFromNode(root)
	doc.Find(noiseSelector).Remove()

	var sb strings.Builder
	doc.Find("body").Each(func(_ int, body *goquery.Selection) {
		for _, n := range body.Nodes {
			collectText(n, &sb)
		}
	})
	return sb.String()
}

// collectText appends every text node under n to sb.
func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		sb.WriteByte(' ')
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}

// NormalizeText canonicalizes already extracted text: compatibility
// decomposition without combining marks, case folding, dash and space
// unification, and whitespace collapsing.
// It is idempotent: NormalizeText(NormalizeText(s)) == NormalizeText(s).
func NormalizeText(text string) string {
	if text == "" {
		return ""
	}

	// Each call builds its own transformer and caser: both carry state
	// and must not be shared across goroutines.
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	decomposed, _, err := transform.String(t, text)
	if err != nil {
		decomposed = text
	}

	folded := cases.Fold().String(decomposed)

	mapped := strings.Map(mapRune, folded)

	return strings.Join(strings.Fields(mapped), " ")
}

// mapRune rewrites space variants and dashes and drops zero-width characters.
func mapRune(r rune) rune {
	switch r {
	case '\u2013', '\u2014', '\u2012', '\u2015', '\u2212':
		return '-'
	case '\u200b', '\u200c', '\u200d', '\u2060', '\ufeff':
		return -1
	}
	if unicode.IsSpace(r) || unicode.Is(unicode.Zs, r) {
		return ' '
	}
	return r
}

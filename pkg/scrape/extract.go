package scrape

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// compositionEntrySelector marks the per-player entries of the summary
// page's composition table.
const compositionEntrySelector = ".composition-entry"

// quotedToken matches quoted runs of ASCII letters; inside a composition
// entry these are exactly the job names.
var quotedToken = regexp.MustCompile(`"[A-Za-z]+"`)

// ExtractComposition pulls the job tokens out of a rendered summary page.
// Tokens come back in document order; callers treat the result as a
// multiset. A page without composition entries yields an empty composition,
// not an error, so the validator can decide what that means.
func ExtractComposition(page string) (Composition, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse summary page: %w", err)
	}

	var fragments strings.Builder
	doc.Find(compositionEntrySelector).Each(func(_ int, sel *goquery.Selection) {
		frag, err := goquery.OuterHtml(sel)
		if err != nil {
			return
		}
		fragments.WriteString(frag)
	})

	// The serializer entity-escapes quotes in text and attribute values;
	// undo that so the quoted-token pattern sees them.
	raw := html.UnescapeString(fragments.String())

	matches := quotedToken.FindAllString(raw, -1)
	comp := make(Composition, 0, len(matches))
	for _, m := range matches {
		comp = append(comp, strings.Trim(m, `"`))
	}
	return comp, nil
}

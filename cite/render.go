package cite

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// cslSchema is the schema URI Zotero stamps on its payloads.
const cslSchema = "https://github.com/citation-style-language/schema/raw/master/csl-citation.json"

// RenderedGroup is the outcome of turning one markup citation group back into
// a field code. Unresolved keys are reported, not embedded: they render as
// plain text so a reference manager never sees a dangling identifier.
type RenderedGroup struct {
	Field      *FieldCode
	Display    string
	Unresolved []string
}

// RenderGroup resolves each usage against the store and builds the
// CSL_CITATION payload: identifiers via the per-export map, the full CSL
// item data, and the entry's external URI — or a synthetic non-resolvable one
// when provenance is absent.
func RenderGroup(usages []Usage, store *Store, ids *IdentifierMap) RenderedGroup {
	var out RenderedGroup
	var items []FieldItem
	var display []string

	for _, u := range usages {
		e := store.Get(u.Key)
		if e == nil {
			out.Unresolved = append(out.Unresolved, u.Key)
			continue
		}
		item := FieldItem{
			ID:       ids.For(e),
			ItemData: cslItemData(e),
			Locator:  u.Locator,
		}
		if u.Locator != "" && u.Label != "page" {
			item.Label = u.Label // page is the CSL default and stays implicit
		}
		if e.Provenanced() {
			item.URIs = []string{e.ExternalURI}
		} else {
			item.URIs = []string{SyntheticURI(e.Key)}
		}
		items = append(items, item)
		display = append(display, displayItem(e, u))
	}

	if len(items) == 0 {
		// Nothing resolved: degrade the whole group to its markup form.
		out.Display = FormatGroup(usages)
		return out
	}

	text := "(" + strings.Join(display, "; ") + ")"
	out.Display = text
	out.Field = &FieldCode{
		CitationID: citationID(usages),
		Items:      items,
		Properties: FieldProperties{
			FormattedCitation: text,
			PlainCitation:     text,
		},
		Schema: cslSchema,
	}
	return out
}

// citationID derives a stable ID from the group's content and position, so
// converting the same markup twice yields byte-identical field codes.
func citationID(usages []Usage) string {
	var sb strings.Builder
	for _, u := range usages {
		fmt.Fprintf(&sb, "%s|%s|%s|%d;", u.Key, u.Label, u.Locator, u.Pos)
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("scholarmd:citation:"+sb.String())).String()
}

// displayItem renders one entry for the field's visible text, e.g.
// "Alice 2020, p. 5".
func displayItem(e *Entry, u Usage) string {
	name := keySurname(e)
	s := name
	if e.Year != "" {
		s += " " + e.Year
	}
	if u.Locator != "" {
		abbrev := labelAbbrev[u.Label]
		if abbrev == "" {
			abbrev = "p."
		}
		s += ", " + abbrev + " " + u.Locator
	}
	return s
}

// cslItemData returns the CSL fields to embed. Entries extracted from a
// package keep their original map untouched, which is what makes unchanged
// input round-trip byte-stable.
func cslItemData(e *Entry) map[string]any {
	if e.CSL != nil {
		return e.CSL
	}
	data := map[string]any{
		"type":  e.Type,
		"title": e.Title,
	}
	if len(e.Authors) > 0 {
		authors := make([]any, 0, len(e.Authors))
		for _, a := range e.Authors {
			m := map[string]any{"family": a.Family}
			if a.Given != "" {
				m["given"] = a.Given
			}
			authors = append(authors, m)
		}
		data["author"] = authors
	}
	if e.Year != "" {
		data["issued"] = map[string]any{"date-parts": []any{[]any{e.Year}}}
	}
	if e.Journal != "" {
		data["container-title"] = e.Journal
	}
	if e.Volume != "" {
		data["volume"] = e.Volume
	}
	if e.Pages != "" {
		data["page"] = e.Pages
	}
	if e.DOI != "" {
		data["DOI"] = e.DOI
	}
	return data
}

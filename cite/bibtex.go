package cite

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/nickng/bibtex"
)

// zoteroDataField is the BibTeX field carrying the base64-encoded CSL item
// data plus provenance, so a .bib file produced by export can rebuild the
// exact field codes on re-import.
const zoteroDataField = "zotero-data"

// RenderBibTeX renders the store as BibTeX in insertion order. Titles are
// double-braced to protect capitalization; entries with a journal or volume
// become @article, everything else @misc.
func RenderBibTeX(store *Store) string {
	var sb strings.Builder
	for i, e := range store.Entries() {
		if i > 0 {
			sb.WriteByte('\n')
		}
		renderEntry(&sb, e)
	}
	return sb.String()
}

func renderEntry(sb *strings.Builder, e *Entry) {
	entryType := "misc"
	if e.Journal != "" || e.Volume != "" {
		entryType = "article"
	}
	fmt.Fprintf(sb, "@%s{%s,\n", entryType, e.Key)

	if author := formatAuthors(e.Authors); author != "" {
		fmt.Fprintf(sb, "  author = {%s},\n", author)
	}
	if e.Title != "" {
		fmt.Fprintf(sb, "  title = {{%s}},\n", e.Title)
	}
	if e.Journal != "" {
		fmt.Fprintf(sb, "  journal = {%s},\n", e.Journal)
	}
	if e.Volume != "" {
		fmt.Fprintf(sb, "  volume = {%s},\n", e.Volume)
	}
	if e.Pages != "" {
		fmt.Fprintf(sb, "  pages = {%s},\n", e.Pages)
	}
	if e.Year != "" {
		fmt.Fprintf(sb, "  year = {%s},\n", e.Year)
	}
	if e.DOI != "" {
		fmt.Fprintf(sb, "  doi = {%s},\n", e.DOI)
	}
	if blob := provenanceBlob(e); blob != "" {
		fmt.Fprintf(sb, "  %s = {%s},\n", zoteroDataField, blob)
	}
	sb.WriteString("}\n")
}

func formatAuthors(authors []Author) string {
	parts := make([]string, 0, len(authors))
	for _, a := range authors {
		switch {
		case a.Family != "" && a.Given != "":
			parts = append(parts, a.Family+", "+a.Given)
		case a.Family != "":
			parts = append(parts, a.Family)
		}
	}
	return strings.Join(parts, " and ")
}

// provenancePayload is what round-trips through the zotero-data field.
type provenancePayload struct {
	URIs     []string       `json:"uris,omitempty"`
	ItemData map[string]any `json:"itemData,omitempty"`
}

func provenanceBlob(e *Entry) string {
	p := provenancePayload{ItemData: e.CSL}
	if e.Provenanced() {
		p.URIs = []string{e.ExternalURI}
	}
	if p.ItemData == nil && len(p.URIs) == 0 {
		return ""
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return ""
	}
	return base64.StdEncoding.EncodeToString(raw)
}

// ParseBibTeX reads a .bib file into a store, restoring CSL item data and
// provenance from the zotero-data field when present.
func ParseBibTeX(r io.Reader) (*Store, error) {
	bib, err := bibtex.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse bibtex: %w", err)
	}

	store := NewStore()
	for _, raw := range bib.Entries {
		e := &Entry{
			Key:     raw.CiteName,
			Type:    raw.Type,
			Title:   strings.Trim(fieldString(raw, "title"), "{}"),
			Journal: fieldString(raw, "journal"),
			Volume:  fieldString(raw, "volume"),
			Pages:   fieldString(raw, "pages"),
			Year:    fieldString(raw, "year"),
			DOI:     fieldString(raw, "doi"),
			Authors: parseAuthors(fieldString(raw, "author")),
		}
		restoreProvenance(e, fieldString(raw, zoteroDataField))
		if err := store.Add(e); err != nil {
			return nil, err
		}
	}
	return store, nil
}

func fieldString(e *bibtex.BibEntry, name string) string {
	if v, ok := e.Fields[name]; ok && v != nil {
		return strings.TrimSpace(v.String())
	}
	return ""
}

func parseAuthors(field string) []Author {
	if field == "" {
		return nil
	}
	var out []Author
	for _, part := range strings.Split(field, " and ") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if family, given, ok := strings.Cut(part, ","); ok {
			out = append(out, Author{Family: strings.TrimSpace(family), Given: strings.TrimSpace(given)})
		} else {
			out = append(out, Author{Family: part})
		}
	}
	return out
}

func restoreProvenance(e *Entry, blob string) {
	if blob == "" {
		return
	}
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return
	}
	var p provenancePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return
	}
	e.CSL = p.ItemData
	if key, uri, ok := MatchProvenance(p.URIs); ok {
		e.ExternalKey = key
		e.ExternalURI = uri
	}
}

package cite

import (
	"strings"
	"testing"

	"github.com/antchfx/xmlquery"
)

const docNS = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`

func parseDoc(t *testing.T, body string) *xmlquery.Node {
	t.Helper()
	doc, err := xmlquery.Parse(strings.NewReader(
		`<?xml version="1.0"?><w:document ` + docNS + `><w:body>` + body + `</w:body></w:document>`))
	if err != nil {
		t.Fatalf("parse document: %v", err)
	}
	return doc
}

func fieldRun(instr string) string {
	return `<w:r><w:fldChar w:fldCharType="begin"/></w:r>` +
		`<w:r><w:instrText xml:space="preserve">` + instr + `</w:instrText></w:r>` +
		`<w:r><w:fldChar w:fldCharType="separate"/></w:r>` +
		`<w:r><w:t>(display)</w:t></w:r>` +
		`<w:r><w:fldChar w:fldCharType="end"/></w:r>`
}

func TestExtractFieldCodes(t *testing.T) {
	doc := parseDoc(t, `<w:p>`+fieldRun(escapeXML(sampleInstr))+`</w:p>`)
	fields, warnings := ExtractFieldCodes(doc)
	if len(warnings) != 0 {
		t.Errorf("warnings: %v", warnings)
	}
	if len(fields) != 1 || len(fields[0].Items) != 1 {
		t.Fatalf("fields: got %d", len(fields))
	}
	if fields[0].Items[0].Locator != "5" {
		t.Errorf("locator: got %q", fields[0].Items[0].Locator)
	}
}

func TestExtractFieldCodes_SkipsMalformed(t *testing.T) {
	doc := parseDoc(t,
		`<w:p>`+fieldRun(`ADDIN ZOTERO_ITEM CSL_CITATION {broken`)+`</w:p>`+
			`<w:p>`+fieldRun(escapeXML(sampleInstr))+`</w:p>`)
	fields, warnings := ExtractFieldCodes(doc)
	if len(fields) != 1 {
		t.Errorf("good field lost: got %d fields", len(fields))
	}
	if len(warnings) != 1 {
		t.Errorf("expected one warning, got %v", warnings)
	}
}

func TestExtractFieldCodes_IgnoresOtherFields(t *testing.T) {
	doc := parseDoc(t, `<w:p>`+fieldRun("PAGEREF _Toc0001 \\h")+`</w:p>`)
	fields, warnings := ExtractFieldCodes(doc)
	if len(fields) != 0 || len(warnings) != 0 {
		t.Errorf("non-Zotero field misread: %d fields, %v", len(fields), warnings)
	}
}

func TestExtractBibliography(t *testing.T) {
	doc := parseDoc(t, `<w:p>`+fieldRun(escapeXML(sampleInstr))+`</w:p>`)
	store, warnings := ExtractBibliography(doc)
	if len(warnings) != 0 {
		t.Errorf("warnings: %v", warnings)
	}
	if store.Len() != 1 {
		t.Fatalf("store: got %d entries", store.Len())
	}
	e := store.Entries()[0]
	if e.Key != "bearak-2020-unintended" {
		t.Errorf("key: got %q", e.Key)
	}
	if e.ExternalKey != "ABCD1234" {
		t.Errorf("provenance: got %q", e.ExternalKey)
	}
}

func escapeXML(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}

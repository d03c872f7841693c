package cite

import (
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
)

// ExtractFieldCodes scans a parsed document part for Zotero citation fields
// and decodes their payloads in document order. Malformed payloads are
// skipped with a warning; they never abort extraction of the rest.
func ExtractFieldCodes(doc *xmlquery.Node) ([]*FieldCode, []string) {
	var fields []*FieldCode
	var warnings []string

	for i, n := range xmlquery.Find(doc, "//*[local-name()='instrText']") {
		instr := n.InnerText()
		if !containsInstruction(instr) {
			continue
		}
		fc, err := ParseFieldCode(instr)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("skipping citation field %d: %v", i+1, err))
			continue
		}
		fields = append(fields, fc)
	}
	return fields, warnings
}

// ExtractBibliography registers every cited item found in the document into a
// fresh store and returns it with any per-field warnings.
func ExtractBibliography(doc *xmlquery.Node) (*Store, []string) {
	store := NewStore()
	fields, warnings := ExtractFieldCodes(doc)
	for _, fc := range fields {
		for _, item := range fc.Items {
			store.Register(item)
		}
	}
	return store, warnings
}

func containsInstruction(instr string) bool {
	// The instruction may be split oddly by revision tracking, so match the
	// distinctive token rather than the full prefix.
	return strings.Contains(instr, "ZOTERO_ITEM")
}

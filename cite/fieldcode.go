// Package cite implements the citation subsystem: Zotero CSL_CITATION field
// code parsing and generation, bibliography entries and keys, the per-export
// identifier map, citation-group markup grammar, and BibTeX interchange.
package cite

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FieldInstruction is the instruction prefix Zotero writes into w:instrText.
// Citations are recognized only by this marker, never by matching numbers in
// body text (which would turn "22 countries" into a citation).
const FieldInstruction = "ADDIN ZOTERO_ITEM CSL_CITATION"

// FieldCode is the JSON payload embedded in one citation field.
type FieldCode struct {
	CitationID string          `json:"citationID"`
	Items      []FieldItem     `json:"citationItems"`
	Properties FieldProperties `json:"properties"`
	Schema     string          `json:"schema,omitempty"`
}

// FieldItem is one cited work inside a citation group.
type FieldItem struct {
	ID       ItemID         `json:"id"`
	URIs     []string       `json:"uris,omitempty"`
	ItemData map[string]any `json:"itemData,omitempty"`
	Locator  string         `json:"locator,omitempty"`
	Label    string         `json:"label,omitempty"`
}

// FieldProperties carries the display text a reference-manager client shows
// before it re-renders the citation.
type FieldProperties struct {
	FormattedCitation string `json:"formattedCitation,omitempty"`
	PlainCitation     string `json:"plainCitation,omitempty"`
	NoteIndex         int    `json:"noteIndex"`
}

// ItemID is a citation item identifier. Zotero writes library-internal ids as
// JSON numbers; entries without external provenance get their citation key
// string instead. Both forms round-trip.
type ItemID string

// MarshalJSON emits a bare number when the id is numeric, a string otherwise.
func (id ItemID) MarshalJSON() ([]byte, error) {
	if isDigits(string(id)) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalJSON accepts either a JSON number or a string.
func (id *ItemID) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*id = ItemID(v)
		return nil
	}
	*id = ItemID(s)
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ParseFieldCode extracts and decodes the CSL_CITATION payload from a field's
// accumulated instruction text. It returns an error for anything that is not
// a well-formed Zotero citation field; callers skip those with a warning.
func ParseFieldCode(instr string) (*FieldCode, error) {
	idx := strings.Index(instr, FieldInstruction)
	if idx < 0 {
		return nil, fmt.Errorf("not a Zotero citation field")
	}
	payload, ok := balancedJSON(instr[idx+len(FieldInstruction):])
	if !ok {
		return nil, fmt.Errorf("citation field carries no JSON payload")
	}
	var fc FieldCode
	if err := json.Unmarshal([]byte(payload), &fc); err != nil {
		return nil, fmt.Errorf("decode citation payload: %w", err)
	}
	return &fc, nil
}

// Instruction renders the field code back into instruction text. The
// surrounding spaces match what Zotero itself writes.
func (fc *FieldCode) Instruction() (string, error) {
	payload, err := json.Marshal(fc)
	if err != nil {
		return "", fmt.Errorf("encode citation payload: %w", err)
	}
	return " " + FieldInstruction + " " + string(payload) + " ", nil
}

// balancedJSON returns the first brace-balanced JSON object in s. The payload
// may be followed by trailing flags, so a plain "last closing brace" scan is
// not safe; this mirrors the brace counting the extraction scripts use.
func balancedJSON(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch c {
			case '\\':
				i++
			case '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

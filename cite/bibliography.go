package cite

import (
	"fmt"
	"strings"
)

// Author is one creator of a cited work.
type Author struct {
	Family string
	Given  string
}

// Entry is one bibliography item. CSL keeps the full itemData map so that
// unchanged entries round-trip byte-stable; the named fields are the subset
// the converter reasons about.
type Entry struct {
	Key     string
	Type    string
	Title   string
	Authors []Author
	Year    string
	Journal string
	Volume  string
	Pages   string
	DOI     string

	// Provenance: set when the entry originated from an external
	// reference-manager library and is resolvable there.
	ExternalKey string
	ExternalURI string

	CSL map[string]any
}

// Provenanced reports whether the entry carries external provenance.
func (e *Entry) Provenanced() bool {
	return e.ExternalURI != ""
}

// Store is an ordered bibliography keyed by citation key. Keys are unique
// within one store; colliding generated keys get a numeric suffix.
type Store struct {
	entries map[string]*Entry
	order   []string
}

// NewStore returns an empty bibliography store.
func NewStore() *Store {
	return &Store{entries: map[string]*Entry{}}
}

// Len reports the number of entries.
func (s *Store) Len() int { return len(s.order) }

// Get returns the entry for key, or nil.
func (s *Store) Get(key string) *Entry { return s.entries[key] }

// Entries returns all entries in insertion order.
func (s *Store) Entries() []*Entry {
	out := make([]*Entry, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.entries[k])
	}
	return out
}

// Add inserts an entry under its pre-assigned key.
// It fails on a duplicate key; use Register for generated keys.
func (s *Store) Add(e *Entry) error {
	if e.Key == "" {
		return fmt.Errorf("bibliography entry has no key")
	}
	if _, exists := s.entries[e.Key]; exists {
		return fmt.Errorf("duplicate citation key %q", e.Key)
	}
	s.entries[e.Key] = e
	s.order = append(s.order, e.Key)
	return nil
}

// Register inserts the cited item from a field code, generating its citation
// key. Re-citing the same work (same provenance key, or same base key and
// title) returns the existing entry, so repeated citations share one key.
func (s *Store) Register(item FieldItem) *Entry {
	e := entryFromItemData(item)

	if e.ExternalKey != "" {
		for _, k := range s.order {
			if s.entries[k].ExternalKey == e.ExternalKey {
				return s.entries[k]
			}
		}
	}

	base := GenerateKey(keySurname(e), e.Year, e.Title)
	key := base
	for n := 2; ; n++ {
		existing, taken := s.entries[key]
		if !taken {
			break
		}
		if strings.EqualFold(existing.Title, e.Title) && !existing.Provenanced() && !e.Provenanced() {
			return existing
		}
		key = fmt.Sprintf("%s%d", base, n)
	}
	e.Key = key
	s.entries[key] = e
	s.order = append(s.order, key)
	return e
}

// entryFromItemData maps a CSL citationItem into an Entry.
func entryFromItemData(item FieldItem) *Entry {
	data := item.ItemData
	e := &Entry{
		Type:    str(data["type"]),
		Title:   str(data["title"]),
		Journal: str(data["container-title"]),
		Volume:  str(data["volume"]),
		Pages:   str(data["page"]),
		DOI:     str(data["DOI"]),
		CSL:     data,
	}
	if e.Type == "" {
		e.Type = "article-journal"
	}

	if authors, ok := data["author"].([]any); ok {
		for _, a := range authors {
			if m, ok := a.(map[string]any); ok {
				e.Authors = append(e.Authors, Author{Family: str(m["family"]), Given: str(m["given"])})
			}
		}
	}

	// Year lives in issued.date-parts[0][0].
	if issued, ok := data["issued"].(map[string]any); ok {
		if parts, ok := issued["date-parts"].([]any); ok && len(parts) > 0 {
			if first, ok := parts[0].([]any); ok && len(first) > 0 {
				e.Year = strings.TrimSpace(fmt.Sprintf("%v", first[0]))
				e.Year = strings.TrimSuffix(e.Year, ".0") // json numbers decode as float64
			}
		}
	}

	if key, uri, ok := MatchProvenance(item.URIs); ok {
		e.ExternalKey = key
		e.ExternalURI = uri
	}
	return e
}

// keySurname picks the name component for key generation, falling back
// author → publisher → journal → "unknown".
func keySurname(e *Entry) string {
	if len(e.Authors) > 0 && e.Authors[0].Family != "" {
		return e.Authors[0].Family
	}
	if pub := str(e.CSL["publisher"]); pub != "" {
		return pub
	}
	if e.Journal != "" {
		return e.Journal
	}
	return "unknown"
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

package cite

import "strconv"

// IdentifierMap assigns field-code identifiers for the duration of one
// export. Provenanced entries get small sequential numbers, stable for every
// repeat of the same key within the export; entries without provenance get
// their citation key string, so a consuming client can never mistake them for
// one of its own library ids. The map is never persisted: a new export starts
// a new map.
type IdentifierMap struct {
	ids  map[string]ItemID
	next int
}

// NewIdentifierMap returns an empty map with the counter at 1.
func NewIdentifierMap() *IdentifierMap {
	return &IdentifierMap{ids: map[string]ItemID{}, next: 1}
}

// For returns the identifier for an entry, assigning one on first use.
func (m *IdentifierMap) For(e *Entry) ItemID {
	if id, ok := m.ids[e.Key]; ok {
		return id
	}
	var id ItemID
	if e.Provenanced() {
		id = ItemID(strconv.Itoa(m.next))
		m.next++
	} else {
		id = ItemID(e.Key)
	}
	m.ids[e.Key] = id
	return id
}

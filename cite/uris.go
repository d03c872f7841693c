package cite

import (
	"net/url"
	"regexp"
)

// Zotero URI shapes that mark an entry as resolvable by an external library:
// synced user libraries, never-synced local libraries, and group libraries.
var zoteroURIPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^https?://zotero\.org/users/\d+/items/([A-Z0-9]{8})$`),
	regexp.MustCompile(`^https?://zotero\.org/users/local/[^/]+/items/([A-Z0-9]{8})$`),
	regexp.MustCompile(`^https?://zotero\.org/groups/\d+/items/([A-Z0-9]{8})$`),
}

// MatchProvenance reports the first URI that matches a known Zotero library
// shape, along with the embedded item key.
func MatchProvenance(uris []string) (key, uri string, ok bool) {
	for _, u := range uris {
		for _, pat := range zoteroURIPatterns {
			if m := pat.FindStringSubmatch(u); m != nil {
				return m[1], u, true
			}
		}
	}
	return "", "", false
}

// SyntheticURI builds a deliberately non-resolvable URI for an entry without
// external provenance. Writing the citation key under a domain no client
// library knows keeps a small sequential identifier from colliding with an
// unrelated item in the consumer's own library; the client falls back to the
// embedded bibliographic fields instead.
func SyntheticURI(key string) string {
	return "http://scholarmd.invalid/bibliography/items/" + url.PathEscape(key)
}

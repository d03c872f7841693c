package cite

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Usage is one resolved citation reference in the markup dialect.
type Usage struct {
	Key     string
	Locator string
	Label   string // CSL locator label, "page" when unspecified
	Pos     int    // byte offset of the group in the source markup
}

// Citation group syntax: [@key, p. 5; @other2021]. Semicolons separate the
// cited items; each item may carry its own locator suffix after a comma.
type citationGroup struct {
	Refs []citationRef `parser:"@@ ( Semi @@ )*"`
}

type citationRef struct {
	Key    string   `parser:"At @Word"`
	Suffix []string `parser:"( Comma @Word+ )?"`
}

var (
	groupLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "At", Pattern: `@`},
		{Name: "Semi", Pattern: `;`},
		{Name: "Comma", Pattern: `,`},
		{Name: "Word", Pattern: `[^\s@;,\[\]]+`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	groupParser = participle.MustBuild[citationGroup](
		participle.Lexer(groupLexer),
		participle.Elide("Whitespace"),
	)
)

// labelNames maps locator prefixes in markup to CSL labels, and labelAbbrev
// maps back for rendering.
var labelNames = map[string]string{
	"p": "page", "pp": "page", "page": "page", "pages": "page",
	"chap": "chapter", "chapter": "chapter",
	"sec": "section", "section": "section",
	"para": "paragraph", "paragraph": "paragraph",
	"fig": "figure", "figure": "figure",
	"vol": "volume", "volume": "volume",
	"no": "issue", "number": "issue",
}

var labelAbbrev = map[string]string{
	"page":      "p.",
	"chapter":   "chap.",
	"section":   "sec.",
	"paragraph": "para.",
	"figure":    "fig.",
	"volume":    "vol.",
	"issue":     "no.",
}

// ParseGroup parses the inner text of a bracketed citation group (without the
// surrounding brackets) into usages. pos is the group's offset in the source.
func ParseGroup(inner string, pos int) ([]Usage, error) {
	g, err := groupParser.ParseString("", inner)
	if err != nil {
		return nil, fmt.Errorf("parse citation group %q: %w", inner, err)
	}
	usages := make([]Usage, 0, len(g.Refs))
	for _, ref := range g.Refs {
		u := Usage{Key: ref.Key, Pos: pos}
		if len(ref.Suffix) > 0 {
			u.Label, u.Locator = splitLocator(strings.Join(ref.Suffix, " "))
		}
		usages = append(usages, u)
	}
	return usages, nil
}

// splitLocator separates a label prefix from the locator value:
// "p. 5" → (page, 5); "chap. 2" → (chapter, 2); "5" → (page, 5).
func splitLocator(suffix string) (label, locator string) {
	fields := strings.Fields(suffix)
	if len(fields) == 0 {
		return "", ""
	}
	head := strings.ToLower(strings.TrimSuffix(fields[0], "."))
	if l, ok := labelNames[head]; ok && len(fields) > 1 {
		return l, strings.Join(fields[1:], " ")
	}
	return "page", suffix
}

// FormatGroup renders usages back into the bracketed markup form, each item
// keeping its own locator.
func FormatGroup(usages []Usage) string {
	parts := make([]string, 0, len(usages))
	for _, u := range usages {
		s := "@" + u.Key
		if u.Locator != "" {
			abbrev := labelAbbrev[u.Label]
			if abbrev == "" {
				abbrev = "p."
			}
			s += ", " + abbrev + " " + u.Locator
		}
		parts = append(parts, s)
	}
	return "[" + strings.Join(parts, "; ") + "]"
}

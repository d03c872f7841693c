package convert

// Markup parser: dialect text → item sequence. Line-based block scan with a
// recursive inline scanner, mirroring the walker's output so that the two
// directions meet in the same model.

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/scholarmd/scholarmd/cite"
)

var (
	headingRe  = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	ruleRe     = regexp.MustCompile(`^(-{3,}|\*{3,}|_{3,})\s*$`)
	listRe     = regexp.MustCompile(`^(\s*)([-*+]|\d+\.)\s+(.*)$`)
	fenceRe    = regexp.MustCompile("^```\\s*(\\S*)\\s*$")
	tableSepRe = regexp.MustCompile(`^\|?[\s:|-]+\|?$`)
)

type parser struct {
	items    []Item
	warnings []string
	pos      int // byte offset of the current line in the source
}

func (p *parser) warnf(format string, args ...any) {
	p.warnings = append(p.warnings, fmt.Sprintf(format, args...))
}

func parseMarkup(src string) ([]Item, Meta, []string, error) {
	p := &parser{}
	lines := strings.Split(src, "\n")

	var meta Meta
	i := 0
	if len(lines) > 0 && strings.TrimSpace(lines[0]) == "---" {
		if end := findFrontmatterEnd(lines); end > 0 {
			block := strings.Join(lines[1:end], "\n")
			if err := yaml.Unmarshal([]byte(block), &meta); err != nil {
				p.warnf("frontmatter ignored: %v", err)
			}
			i = end + 1
		}
	}

	for i < len(lines) {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			i++

		case fenceRe.MatchString(trimmed):
			i = p.parseFence(lines, i)

		case trimmed == "$$":
			i = p.parseMathBlock(lines, i)

		case headingRe.MatchString(trimmed):
			m := headingRe.FindStringSubmatch(trimmed)
			p.items = append(p.items, Item{
				Kind:  ItemHeading,
				Level: len(m[1]),
				Spans: p.inline(m[2]),
			})
			i++

		case ruleRe.MatchString(trimmed):
			p.items = append(p.items, Item{Kind: ItemRule})
			i++

		case strings.HasPrefix(trimmed, ">"):
			level, rest := stripQuoteMarkers(trimmed)
			p.items = append(p.items, Item{
				Kind:  ItemBlockquote,
				Level: level,
				Spans: p.inline(rest),
			})
			i++

		case listRe.MatchString(line):
			m := listRe.FindStringSubmatch(line)
			p.items = append(p.items, Item{
				Kind:    ItemListItem,
				Level:   len(m[1]) / 2,
				Ordered: m[2][0] >= '0' && m[2][0] <= '9',
				Spans:   p.inline(m[3]),
			})
			i++

		case strings.HasPrefix(trimmed, "|"):
			i = p.parseTable(lines, i)

		default:
			i = p.parseParagraph(lines, i)
		}
	}

	return p.items, meta, p.warnings, nil
}

func findFrontmatterEnd(lines []string) int {
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return i
		}
	}
	return -1
}

func stripQuoteMarkers(line string) (level int, rest string) {
	rest = line
	for strings.HasPrefix(rest, ">") {
		level++
		rest = strings.TrimPrefix(rest, ">")
		rest = strings.TrimPrefix(rest, " ")
	}
	return level, rest
}

func (p *parser) parseFence(lines []string, i int) int {
	lang := fenceRe.FindStringSubmatch(strings.TrimSpace(lines[i]))[1]
	var body []string
	j := i + 1
	for ; j < len(lines); j++ {
		if strings.TrimSpace(lines[j]) == "```" {
			j++
			break
		}
		body = append(body, lines[j])
	}
	p.items = append(p.items, Item{Kind: ItemCodeBlock, Lang: lang, Text: strings.Join(body, "\n")})
	return j
}

func (p *parser) parseMathBlock(lines []string, i int) int {
	var body []string
	j := i + 1
	for ; j < len(lines); j++ {
		if strings.TrimSpace(lines[j]) == "$$" {
			j++
			break
		}
		body = append(body, lines[j])
	}
	text := strings.TrimSpace(strings.Join(body, "\n"))
	if text != "" {
		p.items = append(p.items, Item{Kind: ItemMathBlock, Text: text})
	}
	return j
}

func (p *parser) parseTable(lines []string, i int) int {
	var rows [][]string
	j := i
	for ; j < len(lines); j++ {
		trimmed := strings.TrimSpace(lines[j])
		if !strings.HasPrefix(trimmed, "|") {
			break
		}
		if tableSepRe.MatchString(trimmed) && len(rows) == 1 {
			continue // header separator
		}
		rows = append(rows, splitTableRow(trimmed))
	}
	if len(rows) > 0 {
		p.items = append(p.items, Item{Kind: ItemTable, Rows: rows})
	}
	return j
}

// splitTableRow splits on unescaped pipes and trims each cell.
func splitTableRow(line string) []string {
	line = strings.TrimPrefix(line, "|")
	line = strings.TrimSuffix(line, "|")

	var cells []string
	var cur strings.Builder
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '\\' && i+1 < len(line) && line[i+1] == '|':
			cur.WriteByte('|')
			i++
		case c == '|':
			cells = append(cells, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	cells = append(cells, strings.TrimSpace(cur.String()))
	return cells
}

func (p *parser) parseParagraph(lines []string, i int) int {
	var parts []string
	j := i
	for ; j < len(lines); j++ {
		trimmed := strings.TrimSpace(lines[j])
		if trimmed == "" || startsBlock(lines[j]) {
			break
		}
		parts = append(parts, trimmed)
	}
	p.items = append(p.items, Item{Kind: ItemParagraph, Spans: p.inline(strings.Join(parts, " "))})
	return j
}

// startsBlock reports whether a line opens a non-paragraph block, ending any
// paragraph being accumulated.
func startsBlock(line string) bool {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "$$", strings.HasPrefix(trimmed, "```"),
		strings.HasPrefix(trimmed, ">"), strings.HasPrefix(trimmed, "|"):
		return true
	}
	return headingRe.MatchString(trimmed) || ruleRe.MatchString(trimmed) || listRe.MatchString(line)
}

// --- inline scanning ---

func (p *parser) inline(s string) []Span {
	spans := p.inlineFmt(s, RunFormat{}, "")
	p.pos += len(s)
	return spans
}

// inlineFmt scans s for inline markers, recursing into each delimited range
// with the marker's flag added to the inherited format.
func (p *parser) inlineFmt(s string, f RunFormat, link string) []Span {
	var spans []Span
	var plain strings.Builder

	flush := func() {
		if plain.Len() == 0 {
			return
		}
		spans = append(spans, Span{Kind: SpanText, Text: plain.String(), Format: f, Link: link})
		plain.Reset()
	}
	recurse := func(inner string, g RunFormat) {
		flush()
		spans = append(spans, p.inlineFmt(inner, g, link)...)
	}

	i := 0
	for i < len(s) {
		rest := s[i:]

		switch {
		case strings.HasPrefix(rest, "`"):
			if end := strings.Index(rest[1:], "`"); end >= 0 {
				flush()
				g := f
				g.Code = true
				spans = append(spans, Span{Kind: SpanText, Text: rest[1 : 1+end], Format: g, Link: link})
				i += end + 2
				continue
			}

		case strings.HasPrefix(rest, "$"):
			if end := strings.Index(rest[1:], "$"); end > 0 {
				flush()
				spans = append(spans, Span{Kind: SpanMath, Math: rest[1 : 1+end]})
				i += end + 2
				continue
			}

		case strings.HasPrefix(rest, "[@"):
			if end := strings.Index(rest, "]"); end > 0 {
				usages, err := cite.ParseGroup(rest[1:end], p.pos+i)
				if err == nil {
					flush()
					spans = append(spans, Span{Kind: SpanCitation, Usages: usages})
					i += end + 1
					continue
				}
				p.warnf("citation group kept as plain text: %v", err)
			}

		case strings.HasPrefix(rest, "["):
			if text, target, n, ok := scanLink(rest); ok {
				flush()
				spans = append(spans, p.inlineFmt(text, f, target)...)
				i += n
				continue
			}

		case strings.HasPrefix(rest, "***"):
			if inner, n, ok := delimited(rest, "***"); ok {
				g := f
				g.Bold = true
				g.Italic = true
				recurse(inner, g)
				i += n
				continue
			}

		case strings.HasPrefix(rest, "**"):
			if inner, n, ok := delimited(rest, "**"); ok {
				g := f
				g.Bold = true
				recurse(inner, g)
				i += n
				continue
			}

		case strings.HasPrefix(rest, "*"):
			if inner, n, ok := delimited(rest, "*"); ok {
				g := f
				g.Italic = true
				recurse(inner, g)
				i += n
				continue
			}

		case strings.HasPrefix(rest, "~~"):
			if inner, n, ok := delimited(rest, "~~"); ok {
				g := f
				g.Strike = true
				recurse(inner, g)
				i += n
				continue
			}

		case strings.HasPrefix(rest, "~"):
			if inner, n, ok := delimited(rest, "~"); ok {
				g := f
				g.Sub = true
				recurse(inner, g)
				i += n
				continue
			}

		case strings.HasPrefix(rest, "^"):
			if inner, n, ok := delimited(rest, "^"); ok {
				g := f
				g.Super = true
				recurse(inner, g)
				i += n
				continue
			}

		case strings.HasPrefix(rest, "=="):
			if inner, n, ok := delimited(rest, "=="); ok {
				g := f
				g.Highlight = "yellow"
				recurse(inner, g)
				i += n
				continue
			}

		case strings.HasPrefix(rest, "<u>"):
			if end := strings.Index(rest, "</u>"); end >= 3 {
				g := f
				g.Underline = true
				recurse(rest[3:end], g)
				i += end + 4
				continue
			}
		}

		plain.WriteByte(s[i])
		i++
	}

	flush()
	return spans
}

// delimited extracts the inner text of a marker pair, e.g. **bold**. The
// inner text must be non-empty; a lone marker stays literal.
func delimited(s, marker string) (inner string, n int, ok bool) {
	body := s[len(marker):]
	end := strings.Index(body, marker)
	if end <= 0 {
		return "", 0, false
	}
	return body[:end], 2*len(marker) + end, true
}

// scanLink matches [text](target) at the start of s.
func scanLink(s string) (text, target string, n int, ok bool) {
	mid := strings.Index(s, "](")
	if mid < 0 {
		return "", "", 0, false
	}
	end := strings.Index(s[mid:], ")")
	if end < 0 {
		return "", "", 0, false
	}
	return s[1:mid], s[mid+2 : mid+end], mid + end + 1, true
}

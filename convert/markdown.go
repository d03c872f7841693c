package convert

// Markup builder: renders the item sequence as dialect text.

import (
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/scholarmd/scholarmd/cite"
)

// Meta is the document metadata carried by the frontmatter block.
type Meta struct {
	Title         string `yaml:"title,omitempty"`
	Author        string `yaml:"author,omitempty"`
	Bibliography  string `yaml:"bibliography,omitempty"`
	CitationStyle string `yaml:"citation-style,omitempty"`
}

func (m Meta) empty() bool {
	return m == Meta{}
}

func buildMarkdown(items []Item, meta Meta) string {
	var sb strings.Builder

	if !meta.empty() {
		if fm, err := yaml.Marshal(meta); err == nil {
			sb.WriteString("---\n")
			sb.Write(fm)
			sb.WriteString("---\n\n")
		}
	}

	ordinals := map[int]int{} // list level → next ordinal
	for i, item := range items {
		if item.Kind != ItemListItem {
			ordinals = map[int]int{}
		}

		switch item.Kind {
		case ItemHeading:
			sb.WriteString(strings.Repeat("#", item.Level) + " " + renderSpans(item.Spans) + "\n\n")

		case ItemParagraph:
			sb.WriteString(renderSpans(item.Spans) + "\n\n")

		case ItemListItem:
			marker := "-"
			if item.Ordered {
				ordinals[item.Level]++
				marker = strconv.Itoa(ordinals[item.Level]) + "."
			}
			sb.WriteString(strings.Repeat("  ", item.Level) + marker + " " + renderSpans(item.Spans) + "\n")
			// Deeper ordinals restart when the list climbs back out.
			for lvl := range ordinals {
				if lvl > item.Level {
					delete(ordinals, lvl)
				}
			}
			if i+1 == len(items) || items[i+1].Kind != ItemListItem {
				sb.WriteByte('\n')
			}

		case ItemBlockquote:
			level := item.Level
			if level < 1 {
				level = 1
			}
			sb.WriteString(strings.Repeat("> ", level) + renderSpans(item.Spans) + "\n\n")

		case ItemCodeBlock:
			sb.WriteString("```" + item.Lang + "\n" + item.Text + "\n```\n\n")

		case ItemRule:
			sb.WriteString("---\n\n")

		case ItemMathBlock:
			sb.WriteString("$$\n" + item.Text + "\n$$\n\n")

		case ItemTable:
			sb.WriteString(renderMarkdownTable(item.Rows))
			sb.WriteByte('\n')
		}
	}

	return strings.TrimRight(sb.String(), "\n") + "\n"
}

// --- inline rendering ---

// renderSpans renders inline content, grouping adjacent text spans that
// share a comment set so each comment annotates its range exactly once.
func renderSpans(spans []Span) string {
	var sb strings.Builder
	for i := 0; i < len(spans); i++ {
		s := spans[i]
		switch s.Kind {
		case SpanMath:
			sb.WriteString("$" + s.Math + "$")
		case SpanCitation:
			sb.WriteString(cite.FormatGroup(s.Usages))
		case SpanText:
			if len(s.Comments) == 0 {
				sb.WriteString(renderTextSpan(s))
				continue
			}
			var inner strings.Builder
			inner.WriteString(renderTextSpan(s))
			for i+1 < len(spans) && spans[i+1].Kind == SpanText && sameComments(spans[i+1].Comments, s.Comments) {
				i++
				inner.WriteString(renderTextSpan(spans[i]))
			}
			sb.WriteString("{==" + inner.String() + "==}")
			for _, c := range s.Comments {
				sb.WriteString("{>>" + c.Author + " (" + c.Date + "): " + c.Body + "<<}")
			}
		}
	}
	return sb.String()
}

func renderTextSpan(s Span) string {
	text := s.Text
	if text == "" {
		return ""
	}
	f := s.Format
	switch {
	case f.Code:
		text = "`" + text + "`"
	default:
		if f.Super {
			text = "^" + text + "^"
		} else if f.Sub {
			text = "~" + text + "~"
		}
		if f.Highlight != "" {
			text = "==" + text + "=="
		}
		if f.Underline {
			text = "<u>" + text + "</u>"
		}
		if f.Strike {
			text = "~~" + text + "~~"
		}
		if f.Italic {
			text = "*" + text + "*"
		}
		if f.Bold {
			text = "**" + text + "**"
		}
	}
	if s.Link != "" {
		text = "[" + text + "](" + s.Link + ")"
	}
	return text
}

func sameComments(a, b []CommentRef) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}


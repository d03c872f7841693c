package convert

// Intermediate content model shared by both translation directions. The
// walker produces a flat item sequence from a package, the markup parser
// produces the same sequence from dialect text, and each output side consumes
// it without knowing where it came from.

import "github.com/scholarmd/scholarmd/cite"

// ItemKind discriminates block-level items.
type ItemKind int

const (
	ItemParagraph ItemKind = iota
	ItemHeading
	ItemListItem
	ItemBlockquote
	ItemCodeBlock
	ItemRule
	ItemTable
	ItemMathBlock
)

// Item is one block of content.
type Item struct {
	Kind ItemKind

	// Heading level (1–6), list indentation level, or blockquote nesting
	// depth, depending on Kind.
	Level int

	// Ordered is set for numbered list items.
	Ordered bool

	// Lang and Text carry fenced-code language and body for ItemCodeBlock,
	// and Text carries the notation for ItemMathBlock.
	Lang string
	Text string

	// Spans is the inline content for paragraph-like items.
	Spans []Span

	// Rows holds table cells as dialect text; inline content inside a cell
	// is parsed or rendered in place.
	Rows [][]string
}

// SpanKind discriminates inline spans.
type SpanKind int

const (
	SpanText SpanKind = iota
	SpanMath
	SpanCitation
)

// RunFormat is the formatting state of one text span.
type RunFormat struct {
	Bold      bool
	Italic    bool
	Strike    bool
	Underline bool
	Code      bool
	Super     bool
	Sub       bool
	Highlight string // highlight color name, empty when not highlighted
}

// Zero reports whether the span carries no formatting at all.
func (f RunFormat) Zero() bool {
	return f == RunFormat{}
}

// CommentRef is one reviewer comment attached to a span.
type CommentRef struct {
	Author string
	Date   string
	Body   string
}

// Span is one inline unit inside a block item.
type Span struct {
	Kind SpanKind

	// SpanText fields.
	Text     string
	Format   RunFormat
	Link     string
	Comments []CommentRef

	// SpanMath: notation between the dollar delimiters.
	Math string

	// SpanCitation: the cited items of one bracketed group.
	Usages []cite.Usage
}

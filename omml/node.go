// Package omml translates Office Math Markup (the m: namespace inside
// word/document.xml) into LaTeX notation.
//
// The translation is one-way and total: every subtree yields a string, with
// unsupported or malformed constructs degrading to a visible fallback token
// instead of an error.
package omml

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Kind identifies an OMML construct. The set is closed: anything the parser
// does not recognize becomes KindUnknown and renders as a fallback token.
type Kind int

const (
	KindMath     Kind = iota // oMath / oMathPara container
	KindRun                  // r — literal text run
	KindFraction             // f
	KindSup                  // sSup
	KindSub                  // sSub
	KindSubSup               // sSubSup
	KindRadical              // rad
	KindNary                 // nary
	KindDelim                // d
	KindAccent               // acc
	KindMatrix               // m
	KindFunc                 // func
	KindArg                  // argument containers: e, num, den, sub, sup, deg, fName, mr
	KindProp                 // property elements under *Pr blocks
	KindUnknown
)

// Node is one element of a parsed math subtree. Leaves hold literal text in
// Text; property elements (m:chr, m:begChr, ...) hold their m:val in Val.
type Node struct {
	Kind     Kind
	Tag      string
	Text     string
	Val      string
	Children []*Node
}

var kindByTag = map[string]Kind{
	"oMath":     KindMath,
	"oMathPara": KindMath,
	"r":         KindRun,
	"f":         KindFraction,
	"sSup":      KindSup,
	"sSub":      KindSub,
	"sSubSup":   KindSubSup,
	"rad":       KindRadical,
	"nary":      KindNary,
	"d":         KindDelim,
	"acc":       KindAccent,
	"m":         KindMatrix,
	"func":      KindFunc,

	"e":     KindArg,
	"num":   KindArg,
	"den":   KindArg,
	"sub":   KindArg,
	"sup":   KindArg,
	"deg":   KindArg,
	"fName": KindArg,
	"lim":   KindArg,
	"mr":    KindArg,
	"t":     KindArg,
}

func classify(tag string) Kind {
	if k, ok := kindByTag[tag]; ok {
		return k
	}
	if strings.HasSuffix(tag, "Pr") {
		return KindProp
	}
	return KindUnknown
}

// ParseElement consumes the element opened by start (and its whole subtree)
// from dec and returns the parsed node. It is used mid-stream by the document
// walker, which owns the decoder.
func ParseElement(dec *xml.Decoder, start xml.StartElement) (*Node, error) {
	n := &Node{
		Kind: classify(start.Name.Local),
		Tag:  start.Name.Local,
		Val:  attrVal(start, "val"),
	}
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, fmt.Errorf("math subtree truncated at <%s>", start.Name.Local)
		}
		if err != nil {
			return nil, fmt.Errorf("parse math subtree: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := ParseElement(dec, t)
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, child)
		case xml.EndElement:
			return n, nil
		case xml.CharData:
			n.Text += string(t)
		}
	}
}

// Parse reads a standalone OMML fragment (the root must be an m: element).
// Mostly useful for tests; the walker uses ParseElement on its own decoder.
func Parse(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, fmt.Errorf("no math element found")
		}
		if err != nil {
			return nil, fmt.Errorf("parse math: %w", err)
		}
		if start, ok := tok.(xml.StartElement); ok {
			return ParseElement(dec, start)
		}
	}
}

// arg returns the first direct child with the given tag, or nil.
func (n *Node) arg(tag string) *Node {
	for _, c := range n.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// args returns all direct children with the given tag.
func (n *Node) args(tag string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// prop looks up a property value inside the construct's *Pr child, e.g.
// prop("naryPr", "chr"). The second return reports whether the property
// element was present at all (an empty val is meaningful for delimiters).
func (n *Node) prop(prTag, tag string) (string, bool) {
	pr := n.arg(prTag)
	if pr == nil {
		return "", false
	}
	p := pr.arg(tag)
	if p == nil {
		return "", false
	}
	return p.Val, true
}

// plainText concatenates all literal text beneath n, in document order.
func (n *Node) plainText() string {
	var sb strings.Builder
	n.collectText(&sb)
	return sb.String()
}

func (n *Node) collectText(sb *strings.Builder) {
	if n.Tag == "t" {
		sb.WriteString(n.Text)
	}
	for _, c := range n.Children {
		c.collectText(sb)
	}
}

func attrVal(t xml.StartElement, localName string) string {
	for _, a := range t.Attr {
		if a.Name.Local == localName {
			return a.Value
		}
	}
	return ""
}

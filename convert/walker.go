package convert

// Document tree walker: streams word/document.xml into the item sequence.
// The walk tracks paragraph/run/table context the same way the package parser
// does, with three extra concerns layered on top: math subtrees are handed to
// the omml package whole, Zotero citation fields run through a
// begin/separate/end state machine, and comment ranges annotate the spans
// they cover.

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/scholarmd/scholarmd/cite"
	"github.com/scholarmd/scholarmd/docx"
	"github.com/scholarmd/scholarmd/omml"
)

type fieldState int

const (
	fieldNone    fieldState = iota
	fieldInstr              // between begin and separate: collecting instrText
	fieldDisplay            // between separate and end: cached display text
)

type walker struct {
	pkg   *docx.Package
	store *cite.Store

	items    []Item
	warnings []string

	// element name stack for context queries
	stack []string

	// paragraph state
	inPara       bool
	paraStyle    string
	isList       bool
	listIlvl     string
	listNumID    string
	bottomBorder bool
	spans        []Span

	// run state
	inRun   bool
	runFmt  RunFormat
	runText strings.Builder
	linkTo  string

	// field state
	field       fieldState
	fieldDepth  int
	inInstr     bool
	instr       strings.Builder
	zoteroField bool
	fieldUsages []cite.Usage

	// comment ranges currently open, in start order
	openComments []string

	// table state
	inTable   bool
	rows      [][]string
	currRow   []string
	inCell    bool
	cellParas []string
}

func newWalker(pkg *docx.Package) *walker {
	return &walker{pkg: pkg, store: cite.NewStore()}
}

func (w *walker) warnf(format string, args ...any) {
	w.warnings = append(w.warnings, fmt.Sprintf(format, args...))
}

func (w *walker) push(name string) { w.stack = append(w.stack, name) }
func (w *walker) pop() {
	if len(w.stack) > 0 {
		w.stack = w.stack[:len(w.stack)-1]
	}
}
func (w *walker) inCtx(name string) bool {
	for _, s := range w.stack {
		if s == name {
			return true
		}
	}
	return false
}

func (w *walker) walk(ctx context.Context) ([]Item, error) {
	dec := xml.NewDecoder(bytes.NewReader(w.pkg.DocumentXML))

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse document: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			// Math subtrees are consumed whole, before generic handling,
			// so their internal r/t elements never reach the run state.
			if t.Name.Local == "oMathPara" || t.Name.Local == "oMath" {
				w.handleMath(dec, t)
				continue
			}
			w.push(t.Name.Local)
			w.handleStart(t)
		case xml.EndElement:
			w.handleEnd(t.Name.Local)
			w.pop()
		case xml.CharData:
			w.handleText(string(t))
		}
	}

	return w.items, nil
}

// --- math ---

func (w *walker) handleMath(dec *xml.Decoder, start xml.StartElement) {
	node, err := omml.ParseElement(dec, start)
	if err != nil {
		w.warnf("math element dropped: %v", err)
		return
	}
	latex := omml.Latex(node)
	if latex == "" {
		return
	}
	display := start.Name.Local == "oMathPara"
	if display && !w.inCell {
		// Display math stands alone: whatever inline content the paragraph
		// accumulated so far becomes its own paragraph first.
		w.flushSpans()
		w.appendItem(Item{Kind: ItemMathBlock, Text: latex})
		return
	}
	w.spans = append(w.spans, Span{Kind: SpanMath, Math: latex})
}

// --- start elements ---

func (w *walker) handleStart(t xml.StartElement) {
	switch t.Name.Local {

	// --- table ---
	case "tbl":
		w.inTable = true
		w.rows = nil
	case "tr":
		w.currRow = nil
	case "tc":
		w.inCell = true
		w.cellParas = nil

	// --- paragraph ---
	case "p":
		w.inPara = true
		w.paraStyle = ""
		w.isList = false
		w.listIlvl = "0"
		w.listNumID = ""
		w.bottomBorder = false
		w.spans = nil
	case "pStyle":
		if w.inPara && w.inCtx("pPr") {
			w.paraStyle = attrVal(t, "val")
		}
	case "numPr":
		if w.inPara && w.inCtx("pPr") {
			w.isList = true
		}
	case "ilvl":
		if w.inCtx("numPr") {
			w.listIlvl = attrVal(t, "val")
		}
	case "numId":
		if w.inCtx("numPr") {
			w.listNumID = attrVal(t, "val")
		}
	case "bottom":
		if w.inPara && w.inCtx("pBdr") {
			w.bottomBorder = true
		}

	// --- run ---
	case "r":
		if w.inPara {
			w.inRun = true
			w.runFmt = RunFormat{}
			w.runText.Reset()
		}
	case "b":
		if w.inRun && w.inCtx("rPr") && !toggleOff(attrVal(t, "val")) {
			w.runFmt.Bold = true
		}
	case "i":
		if w.inRun && w.inCtx("rPr") && !toggleOff(attrVal(t, "val")) {
			w.runFmt.Italic = true
		}
	case "strike":
		if w.inRun && w.inCtx("rPr") && !toggleOff(attrVal(t, "val")) {
			w.runFmt.Strike = true
		}
	case "u":
		if w.inRun && w.inCtx("rPr") && attrVal(t, "val") != "none" {
			w.runFmt.Underline = true
		}
	case "highlight":
		if w.inRun && w.inCtx("rPr") {
			w.runFmt.Highlight = attrVal(t, "val")
		}
	case "vertAlign":
		if w.inRun && w.inCtx("rPr") {
			switch attrVal(t, "val") {
			case "superscript":
				// Superscript wins when a run somehow carries both.
				w.runFmt.Super = true
				w.runFmt.Sub = false
			case "subscript":
				if !w.runFmt.Super {
					w.runFmt.Sub = true
				}
			}
		}
	case "rStyle":
		if w.inRun && w.inCtx("rPr") && isCodeCharStyle(attrVal(t, "val")) {
			w.runFmt.Code = true
		}
	case "br":
		if w.inRun {
			w.runText.WriteByte('\n')
		}

	// --- hyperlink ---
	case "hyperlink":
		w.linkTo = w.pkg.HyperlinkTarget(attrVal(t, "id"))

	// --- fields ---
	case "fldChar":
		w.handleFldChar(attrVal(t, "fldCharType"))
	case "instrText":
		if w.field == fieldInstr {
			w.inInstr = true
		}

	// --- comment ranges ---
	case "commentRangeStart":
		if id := attrVal(t, "id"); id != "" {
			w.openComments = append(w.openComments, id)
		}
	case "commentRangeEnd":
		w.closeComment(attrVal(t, "id"))
	}
}

// --- end elements ---

func (w *walker) handleEnd(local string) {
	switch local {

	case "instrText":
		w.inInstr = false

	case "r":
		if w.inRun {
			w.flushRun()
			w.inRun = false
		}

	case "hyperlink":
		w.linkTo = ""

	case "p":
		if w.inPara {
			w.endParagraph()
			w.inPara = false
		}

	case "tc":
		if w.inTable {
			w.currRow = append(w.currRow, strings.Join(w.cellParas, " "))
			w.inCell = false
			w.cellParas = nil
		}

	case "tr":
		if w.inTable {
			w.rows = append(w.rows, w.currRow)
			w.currRow = nil
		}

	case "tbl":
		if w.inTable {
			if len(w.rows) > 0 {
				w.appendItem(Item{Kind: ItemTable, Rows: w.rows})
			}
			w.inTable = false
			w.rows = nil
		}
	}
}

func (w *walker) handleText(text string) {
	switch {
	case w.inInstr:
		w.instr.WriteString(text)
	case w.inRun && w.inCtx("t"):
		w.runText.WriteString(text)
	}
}

// --- fields ---

func (w *walker) handleFldChar(kind string) {
	switch kind {
	case "begin":
		w.fieldDepth++
		if w.fieldDepth == 1 {
			w.field = fieldInstr
			w.instr.Reset()
			w.zoteroField = false
			w.fieldUsages = nil
		}
	case "separate":
		if w.fieldDepth == 1 && w.field == fieldInstr {
			w.beginFieldDisplay()
		}
	case "end":
		if w.fieldDepth > 0 {
			w.fieldDepth--
		}
		if w.fieldDepth == 0 {
			if w.field == fieldInstr {
				// Field with no separate part: classify it now.
				w.beginFieldDisplay()
			}
			if w.zoteroField {
				w.spans = append(w.spans, Span{Kind: SpanCitation, Usages: w.fieldUsages})
			}
			w.field = fieldNone
		}
	}
}

// beginFieldDisplay classifies the collected instruction. Zotero citations
// register their embedded item data with the bibliography and suppress the
// cached display runs; any other field type keeps its display text as plain
// content.
func (w *walker) beginFieldDisplay() {
	w.field = fieldDisplay
	instr := w.instr.String()
	if !strings.Contains(instr, "ZOTERO_ITEM") {
		return
	}
	fc, err := cite.ParseFieldCode(instr)
	if err != nil {
		w.warnf("citation field kept as plain text: %v", err)
		return
	}
	w.zoteroField = true
	for _, item := range fc.Items {
		e := w.store.Register(item)
		u := cite.Usage{Key: e.Key, Locator: item.Locator, Label: item.Label}
		if u.Label == "" {
			u.Label = "page"
		}
		w.fieldUsages = append(w.fieldUsages, u)
	}
}

// --- flushing ---

func (w *walker) flushRun() {
	text := w.runText.String()
	if text == "" {
		return
	}
	// Display runs of a Zotero field are a cached rendering the citation
	// span replaces.
	if w.field == fieldDisplay && w.zoteroField {
		return
	}
	if w.field == fieldInstr {
		return
	}
	w.spans = append(w.spans, Span{
		Kind:     SpanText,
		Text:     text,
		Format:   w.runFmt,
		Link:     w.linkTo,
		Comments: w.resolveComments(),
	})
}

func (w *walker) resolveComments() []CommentRef {
	if len(w.openComments) == 0 {
		return nil
	}
	refs := make([]CommentRef, 0, len(w.openComments))
	for _, id := range w.openComments {
		c, ok := w.pkg.Comments[id]
		if !ok {
			continue
		}
		refs = append(refs, CommentRef{Author: c.Author, Date: c.Date, Body: c.Text})
	}
	return refs
}

func (w *walker) closeComment(id string) {
	for i, open := range w.openComments {
		if open == id {
			w.openComments = append(w.openComments[:i], w.openComments[i+1:]...)
			return
		}
	}
}

// flushSpans emits accumulated inline content as a plain paragraph. Used
// when display math splits a paragraph in two.
func (w *walker) flushSpans() {
	if spansEmpty(w.spans) {
		w.spans = nil
		return
	}
	w.appendItem(Item{Kind: ItemParagraph, Spans: w.spans})
	w.spans = nil
}

func (w *walker) endParagraph() {
	spans := w.spans
	w.spans = nil

	if w.inCell {
		if text := strings.TrimSpace(renderSpans(spans)); text != "" {
			w.cellParas = append(w.cellParas, text)
		}
		return
	}

	switch {
	case headingLevel(w.paraStyle) > 0:
		if !spansEmpty(spans) {
			w.appendItem(Item{Kind: ItemHeading, Level: headingLevel(w.paraStyle), Spans: spans})
		}
	case w.isList:
		ordered, _ := w.pkg.ListOrdered(w.listNumID, w.listIlvl)
		level := 0
		fmt.Sscanf(w.listIlvl, "%d", &level)
		w.appendItem(Item{Kind: ItemListItem, Level: level, Ordered: ordered, Spans: spans})
	case isQuoteStyle(w.paraStyle):
		if !spansEmpty(spans) {
			w.appendItem(Item{Kind: ItemBlockquote, Level: 1, Spans: spans})
		}
	case isCodeBlockStyle(w.paraStyle):
		w.appendItem(Item{Kind: ItemCodeBlock, Lang: codeBlockLang(w.paraStyle), Text: plainText(spans)})
	case spansEmpty(spans):
		if w.bottomBorder {
			w.appendItem(Item{Kind: ItemRule})
		}
	default:
		w.appendItem(Item{Kind: ItemParagraph, Spans: spans})
	}
}

// appendItem adds a block item, merging consecutive code paragraphs into one
// fenced block.
func (w *walker) appendItem(item Item) {
	if item.Kind == ItemCodeBlock && len(w.items) > 0 {
		last := &w.items[len(w.items)-1]
		if last.Kind == ItemCodeBlock && last.Lang == item.Lang {
			last.Text += "\n" + item.Text
			return
		}
	}
	w.items = append(w.items, item)
}

// --- classification helpers ---

func headingLevel(style string) int {
	rest, ok := strings.CutPrefix(style, docx.StyleHeadingPrefix)
	if !ok || len(rest) != 1 {
		return 0
	}
	if rest[0] >= '1' && rest[0] <= '6' {
		return int(rest[0] - '0')
	}
	return 0
}

func isQuoteStyle(style string) bool {
	switch style {
	case docx.StyleQuote, "IntenseQuote", "BlockQuote", "BlockQuotation":
		return true
	}
	return false
}

func isCodeBlockStyle(style string) bool {
	if strings.HasPrefix(style, docx.StyleCodeBlock) {
		return true
	}
	switch style {
	case "Code", "SourceCode", "HTMLPreformatted":
		return true
	}
	return false
}

// codeBlockLang recovers the fence language from a style suffix.
func codeBlockLang(style string) string {
	rest, ok := strings.CutPrefix(style, docx.StyleCodeBlock+"-")
	if !ok {
		return ""
	}
	return rest
}

func isCodeCharStyle(style string) bool {
	switch style {
	case docx.StyleCodeChar, "VerbatimChar", "SourceCodeChar":
		return true
	}
	return false
}

func toggleOff(val string) bool {
	return val == "0" || val == "false" || val == "none"
}

func spansEmpty(spans []Span) bool {
	for _, s := range spans {
		if s.Kind != SpanText || strings.TrimSpace(s.Text) != "" {
			return false
		}
	}
	return true
}

func plainText(spans []Span) string {
	var sb strings.Builder
	for _, s := range spans {
		switch s.Kind {
		case SpanText:
			sb.WriteString(s.Text)
		case SpanMath:
			sb.WriteString(s.Math)
		}
	}
	return sb.String()
}

func attrVal(t xml.StartElement, localName string) string {
	for _, a := range t.Attr {
		if a.Name.Local == localName {
			return a.Value
		}
	}
	return ""
}

package convert

// Package builder: item sequence → document structs ready for serialization.

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/scholarmd/scholarmd/cite"
	"github.com/scholarmd/scholarmd/docx"
)

type builder struct {
	store *cite.Store
	ids   *cite.IdentifierMap

	warnings   []string
	hyperlinks map[string]string
	relSeq     int
	hasLists   bool
}

func newBuilder(store *cite.Store) *builder {
	return &builder{
		store:      store,
		ids:        cite.NewIdentifierMap(),
		hyperlinks: map[string]string{},
	}
}

func (b *builder) warnf(format string, args ...any) {
	b.warnings = append(b.warnings, fmt.Sprintf(format, args...))
}

func (b *builder) build(items []Item, meta Meta) (*docx.Document, docx.WriteOptions) {
	doc := docx.NewDocument()

	for _, item := range items {
		switch item.Kind {
		case ItemHeading:
			doc.Body.Content = append(doc.Body.Content, &docx.Paragraph{
				Props:   &docx.ParaProps{Style: &docx.Val{Val: docx.StyleHeadingPrefix + strconv.Itoa(item.Level)}},
				Content: b.runsFor(item.Spans),
			})

		case ItemParagraph:
			doc.Body.Content = append(doc.Body.Content, &docx.Paragraph{Content: b.runsFor(item.Spans)})

		case ItemListItem:
			b.hasLists = true
			numID := docx.NumIDBullet
			if item.Ordered {
				numID = docx.NumIDDecimal
			}
			doc.Body.Content = append(doc.Body.Content, &docx.Paragraph{
				Props: &docx.ParaProps{NumPr: &docx.NumPr{
					Ilvl:  docx.Val{Val: strconv.Itoa(item.Level)},
					NumID: docx.Val{Val: numID},
				}},
				Content: b.runsFor(item.Spans),
			})

		case ItemBlockquote:
			props := &docx.ParaProps{Style: &docx.Val{Val: docx.StyleQuote}}
			if item.Level > 1 {
				props.Indent = &docx.ParaInd{Left: strconv.Itoa(720 * (item.Level - 1))}
			}
			doc.Body.Content = append(doc.Body.Content, &docx.Paragraph{
				Props:   props,
				Content: b.runsFor(item.Spans),
			})

		case ItemCodeBlock:
			doc.Body.Content = append(doc.Body.Content, codeParagraph(item.Text, item.Lang))

		case ItemRule:
			doc.Body.Content = append(doc.Body.Content, &docx.Paragraph{
				Props: &docx.ParaProps{Borders: &docx.ParaBdr{
					Bottom: &docx.Border{Kind: "single", Sz: "6", Space: "1", Color: "auto"},
				}},
			})

		case ItemMathBlock:
			doc.Body.Content = append(doc.Body.Content, &docx.Paragraph{
				Content: []any{docx.OMathPara{Math: mathElement(item.Text)}},
			})

		case ItemTable:
			doc.Body.Content = append(doc.Body.Content, b.buildTable(item.Rows))
		}
	}

	opts := docx.WriteOptions{
		Core:         docx.CoreProperties{Title: meta.Title, Creator: meta.Author},
		HasNumbering: b.hasLists,
	}
	if len(b.hyperlinks) > 0 {
		opts.Hyperlinks = b.hyperlinks
	}
	return doc, opts
}

// --- inline content ----------------------------------------------------------

func (b *builder) runsFor(spans []Span) []any {
	var out []any
	for _, s := range spans {
		switch s.Kind {
		case SpanMath:
			out = append(out, docx.OMath{Runs: mathElement(s.Math).Runs})
		case SpanCitation:
			out = append(out, b.citationRuns(s.Usages)...)
		case SpanText:
			run := docx.Run{Props: runProps(s.Format), Text: textElement(s.Text)}
			if s.Link != "" {
				out = append(out, docx.Hyperlink{RID: b.relFor(s.Link), Runs: []docx.Run{run}})
				continue
			}
			out = append(out, run)
		}
	}
	return out
}

func (b *builder) relFor(target string) string {
	for id, t := range b.hyperlinks {
		if t == target {
			return id
		}
	}
	id := "rId" + strconv.Itoa(100+b.relSeq)
	b.relSeq++
	b.hyperlinks[id] = target
	return id
}

// citationRuns renders one group as a Zotero field: begin, instruction,
// separate, the visible text, end. A group with no resolvable items degrades
// to its plain display form without field chrome.
func (b *builder) citationRuns(usages []cite.Usage) []any {
	rg := cite.RenderGroup(usages, b.store, b.ids)
	for _, key := range rg.Unresolved {
		b.warnf("citation key %q not in bibliography", key)
	}
	if rg.Field == nil {
		return []any{docx.Run{Text: textElement(rg.Display)}}
	}
	instr, err := rg.Field.Instruction()
	if err != nil {
		b.warnf("citation group kept as plain text: %v", err)
		return []any{docx.Run{Text: textElement(rg.Display)}}
	}
	return []any{
		docx.Run{FldChar: &docx.FldChar{Type: "begin"}},
		docx.Run{InstrText: &docx.InstrText{Space: "preserve", Text: instr}},
		docx.Run{FldChar: &docx.FldChar{Type: "separate"}},
		docx.Run{Text: textElement(rg.Display)},
		docx.Run{FldChar: &docx.FldChar{Type: "end"}},
	}
}

func runProps(f RunFormat) *docx.RunProps {
	if f.Zero() {
		return nil
	}
	props := &docx.RunProps{}
	if f.Code {
		props.Style = &docx.Val{Val: docx.StyleCodeChar}
		props.Fonts = &docx.Fonts{ASCII: "Consolas", HAnsi: "Consolas"}
	}
	if f.Bold {
		props.Bold = &docx.Empty{}
	}
	if f.Italic {
		props.Italic = &docx.Empty{}
	}
	if f.Strike {
		props.Strike = &docx.Empty{}
	}
	if f.Underline {
		props.Underline = &docx.Val{Val: "single"}
	}
	switch {
	case f.Super:
		props.VertAlign = &docx.Val{Val: "superscript"}
	case f.Sub:
		props.VertAlign = &docx.Val{Val: "subscript"}
	}
	if f.Highlight != "" {
		props.Highlight = &docx.Val{Val: f.Highlight}
	}
	return props
}

func textElement(text string) *docx.Text {
	t := &docx.Text{Text: text}
	if text != strings.TrimSpace(text) {
		t.Space = "preserve"
	}
	return t
}

func mathElement(notation string) docx.OMath {
	return docx.OMath{Runs: []docx.OMathRun{{Text: docx.OMathText{Text: notation, Space: "preserve"}}}}
}

// codeParagraph renders a fenced block as one styled paragraph with explicit
// line breaks, so the walker folds it back into a single block. The fence
// language rides along as a style suffix ("CodeBlock-go").
func codeParagraph(text, lang string) *docx.Paragraph {
	style := docx.StyleCodeBlock
	if lang != "" {
		style += "-" + lang
	}
	para := &docx.Paragraph{
		Props: &docx.ParaProps{Style: &docx.Val{Val: style}},
	}
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			para.Content = append(para.Content, docx.Run{Break: &docx.Empty{}})
		}
		para.Content = append(para.Content, docx.Run{
			Props: &docx.RunProps{Fonts: &docx.Fonts{ASCII: "Consolas", HAnsi: "Consolas"}},
			Text:  textElement(line),
		})
	}
	return para
}

// --- tables ------------------------------------------------------------------

func (b *builder) buildTable(rows [][]string) *docx.Table {
	maxCols := 0
	for _, row := range rows {
		if len(row) > maxCols {
			maxCols = len(row)
		}
	}

	tbl := &docx.Table{
		Props: docx.TableProps{
			Width:   docx.TableWidth{W: "0", Type: "auto"},
			Borders: defaultTableBorders(),
		},
	}
	for i := 0; i < maxCols; i++ {
		tbl.Grid.Cols = append(tbl.Grid.Cols, docx.GridCol{W: "2400"})
	}

	cellParser := &parser{}
	for rowIdx, row := range rows {
		var tr docx.TableRow
		for col := 0; col < maxCols; col++ {
			text := ""
			if col < len(row) {
				text = row[col]
			}
			spans := cellParser.inline(text)
			if rowIdx == 0 {
				boldSpans(spans)
			}
			tr.Cells = append(tr.Cells, docx.TableCell{
				Paragraphs: []docx.Paragraph{{Content: b.runsFor(spans)}},
			})
		}
		tbl.Rows = append(tbl.Rows, tr)
	}
	b.warnings = append(b.warnings, cellParser.warnings...)
	return tbl
}

// boldSpans forces header-row cells bold; spans that already carry bold keep
// a single marker.
func boldSpans(spans []Span) {
	for i := range spans {
		if spans[i].Kind == SpanText {
			spans[i].Format.Bold = true
		}
	}
}

func defaultTableBorders() *docx.TableBorders {
	border := docx.Border{Kind: "single", Sz: "4", Space: "0", Color: "auto"}
	return &docx.TableBorders{
		Top: border, Left: border, Bottom: border, Right: border,
		InsideH: border, InsideV: border,
	}
}

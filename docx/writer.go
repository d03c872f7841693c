package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Relationship type URIs.
const (
	relTypeDocument  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relTypeCore      = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relTypeStyles    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relTypeNumbering = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering"
	relTypeHyperlink = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"
)

// Numbering ids emitted by the writer: one bullet definition, one decimal.
const (
	NumIDBullet  = "1"
	NumIDDecimal = "2"
)

// WriteOptions selects the conditional parts of the generated package.
type WriteOptions struct {
	Core CoreProperties

	// Hyperlinks maps relationship ids referenced from the document to
	// their external targets.
	Hyperlinks map[string]string

	// HasNumbering adds the numbering part and its relationship; set when
	// the document contains list content.
	HasNumbering bool
}

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// WritePackage serializes the generated document and its manifests into a
// package on w. The write is one bounded unit of work: cancellation is
// honored between parts and nothing is retried.
func WritePackage(ctx context.Context, w io.Writer, doc *Document, opts WriteOptions) error {
	if doc.Body.SectPr == nil {
		doc.Body.SectPr = &SectPr{PgSz: PgSz{W: "11906", H: "16838"}} // A4
	}

	zw := zip.NewWriter(w)

	parts := []struct {
		name string
		data func() ([]byte, error)
	}{
		{PartContentTypes, func() ([]byte, error) { return contentTypesXML(opts) }},
		{PartRootRels, rootRelsXML},
		{PartDocument, func() ([]byte, error) { return documentXML(doc) }},
		{PartStyles, func() ([]byte, error) { return []byte(xmlHeader + stylesXML), nil }},
		{PartCoreProps, func() ([]byte, error) { return corePropsXML(opts.Core), nil }},
	}
	if opts.HasNumbering {
		parts = append(parts, struct {
			name string
			data func() ([]byte, error)
		}{PartNumbering, func() ([]byte, error) { return numberingXML(), nil }})
	}
	if opts.HasNumbering || len(opts.Hyperlinks) > 0 {
		parts = append(parts, struct {
			name string
			data func() ([]byte, error)
		}{PartDocumentRels, func() ([]byte, error) { return documentRelsXML(opts) }})
	}

	for _, part := range parts {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := part.data()
		if err != nil {
			return fmt.Errorf("build part %s: %w", part.name, err)
		}
		f, err := zw.Create(part.name)
		if err != nil {
			return fmt.Errorf("create part %s: %w", part.name, err)
		}
		if _, err := f.Write(data); err != nil {
			return fmt.Errorf("write part %s: %w", part.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("close package: %w", err)
	}
	return nil
}

func documentXML(doc *Document) ([]byte, error) {
	body, err := xml.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return append([]byte(xmlHeader), body...), nil
}

func contentTypesXML(opts WriteOptions) ([]byte, error) {
	ct := contentTypes{
		Xmlns: "http://schemas.openxmlformats.org/package/2006/content-types",
		Defaults: []contentDefault{
			{Extension: "rels", ContentType: "application/vnd.openxmlformats-package.relationships+xml"},
			{Extension: "xml", ContentType: "application/xml"},
		},
		Overrides: []contentOverride{
			{PartName: "/" + PartDocument, ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"},
			{PartName: "/" + PartStyles, ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"},
			{PartName: "/" + PartCoreProps, ContentType: "application/vnd.openxmlformats-package.core-properties+xml"},
		},
	}
	if opts.HasNumbering {
		ct.Overrides = append(ct.Overrides, contentOverride{
			PartName:    "/" + PartNumbering,
			ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml",
		})
	}
	return marshalManifest(ct)
}

func rootRelsXML() ([]byte, error) {
	return marshalManifest(relationships{
		Xmlns: NSPackageRels,
		Rels: []relationship{
			{ID: "rId1", Type: relTypeDocument, Target: PartDocument},
			{ID: "rId2", Type: relTypeCore, Target: PartCoreProps},
		},
	})
}

func documentRelsXML(opts WriteOptions) ([]byte, error) {
	rels := relationships{Xmlns: NSPackageRels}
	rels.Rels = append(rels.Rels, relationship{ID: "rIdStyles", Type: relTypeStyles, Target: "styles.xml"})
	if opts.HasNumbering {
		rels.Rels = append(rels.Rels, relationship{ID: "rIdNum", Type: relTypeNumbering, Target: "numbering.xml"})
	}
	for _, id := range sortedKeys(opts.Hyperlinks) {
		rels.Rels = append(rels.Rels, relationship{
			ID: id, Type: relTypeHyperlink, Target: opts.Hyperlinks[id], TargetMode: "External",
		})
	}
	return marshalManifest(rels)
}

func marshalManifest(v any) ([]byte, error) {
	body, err := xml.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append([]byte(xmlHeader), body...), nil
}

func corePropsXML(core CoreProperties) []byte {
	var buf bytes.Buffer
	buf.WriteString(xmlHeader)
	buf.WriteString(`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/">`)
	if core.Title != "" {
		buf.WriteString("<dc:title>")
		xml.EscapeText(&buf, []byte(core.Title))
		buf.WriteString("</dc:title>")
	}
	if core.Creator != "" {
		buf.WriteString("<dc:creator>")
		xml.EscapeText(&buf, []byte(core.Creator))
		buf.WriteString("</dc:creator>")
	}
	buf.WriteString(`</cp:coreProperties>`)
	return buf.Bytes()
}

// numberingXML emits one bullet and one decimal definition, nine levels each.
func numberingXML() []byte {
	var buf bytes.Buffer
	buf.WriteString(xmlHeader)
	buf.WriteString(`<w:numbering xmlns:w="` + NSMain + `">`)

	writeAbstract := func(id, format, text string) {
		fmt.Fprintf(&buf, `<w:abstractNum w:abstractNumId="%s">`, id)
		for lvl := 0; lvl < 9; lvl++ {
			levelText := text
			if format == "decimal" {
				levelText = "%" + strconv.Itoa(lvl+1) + "."
			}
			fmt.Fprintf(&buf,
				`<w:lvl w:ilvl="%d"><w:start w:val="1"/><w:numFmt w:val="%s"/>`+
					`<w:lvlText w:val="%s"/><w:pPr><w:ind w:left="%d" w:hanging="360"/></w:pPr></w:lvl>`,
				lvl, format, levelText, 720*(lvl+1))
		}
		buf.WriteString(`</w:abstractNum>`)
	}
	writeAbstract("0", "bullet", "•")
	writeAbstract("1", "decimal", "")

	fmt.Fprintf(&buf, `<w:num w:numId="%s"><w:abstractNumId w:val="0"/></w:num>`, NumIDBullet)
	fmt.Fprintf(&buf, `<w:num w:numId="%s"><w:abstractNumId w:val="1"/></w:num>`, NumIDDecimal)
	buf.WriteString(`</w:numbering>`)
	return buf.Bytes()
}

// sortedKeys orders relationship ids numerically (rId3, rId4, ...) so the
// rels part is deterministic.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return relNum(keys[i]) < relNum(keys[j]) })
	return keys
}

func relNum(id string) int {
	n, err := strconv.Atoi(strings.TrimPrefix(id, "rId"))
	if err != nil {
		return 1 << 30
	}
	return n
}

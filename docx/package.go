// Package docx reads and writes the zip container format: it exposes the
// document's XML parts as parsed trees on the way in, and assembles a
// well-formed package (content types, relationships, manifests) on the way
// out. It holds no conversion logic of its own.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/antchfx/xmlquery"
)

// Part names within the container.
const (
	PartDocument     = "word/document.xml"
	PartComments     = "word/comments.xml"
	PartStyles       = "word/styles.xml"
	PartNumbering    = "word/numbering.xml"
	PartDocumentRels = "word/_rels/document.xml.rels"
	PartCoreProps    = "docProps/core.xml"
	PartContentTypes = "[Content_Types].xml"
	PartRootRels     = "_rels/.rels"
)

// Comment is one reviewer comment from word/comments.xml.
type Comment struct {
	Author string
	Date   string
	Text   string
}

// CoreProperties is the author metadata part.
type CoreProperties struct {
	Title   string
	Creator string
}

// Package is an opened container. The document part is always present;
// optional parts are zero-valued when the package lacks them.
type Package struct {
	Document    *xmlquery.Node
	DocumentXML []byte
	Comments    map[string]Comment
	Core        CoreProperties

	rels   map[string]string
	numFmt map[string]map[string]string // numId → ilvl → numFmt
}

// Open reads a package from disk.
func Open(ctx context.Context, path string) (*Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read package: %w", err)
	}
	return OpenBytes(ctx, data)
}

// OpenBytes parses a package from memory. A container that is not a valid
// zip, or lacks a parseable document part, is fatal; missing optional parts
// are not.
func OpenBytes(ctx context.Context, data []byte) (*Package, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open package: not a valid container: %w", err)
	}

	parts := map[string][]byte{}
	for _, f := range zr.File {
		switch f.Name {
		case PartDocument, PartComments, PartNumbering, PartDocumentRels, PartCoreProps:
			b, err := readZipFile(f)
			if err != nil {
				return nil, fmt.Errorf("read part %s: %w", f.Name, err)
			}
			parts[f.Name] = b
		}
	}

	docXML, ok := parts[PartDocument]
	if !ok {
		return nil, fmt.Errorf("open package: %s not found", PartDocument)
	}
	doc, err := xmlquery.Parse(bytes.NewReader(docXML))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", PartDocument, err)
	}

	pkg := &Package{
		Document:    doc,
		DocumentXML: docXML,
		Comments:    map[string]Comment{},
		rels:        map[string]string{},
		numFmt:      map[string]map[string]string{},
	}
	pkg.loadComments(parts[PartComments])
	pkg.loadRels(parts[PartDocumentRels])
	pkg.loadNumbering(parts[PartNumbering])
	pkg.loadCore(parts[PartCoreProps])
	return pkg, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// HyperlinkTarget resolves a relationship id to its target URI.
func (p *Package) HyperlinkTarget(rID string) string {
	return p.rels[rID]
}

// ListOrdered reports whether a numbering reference is an ordered list.
// ok is false when the package carries no definition for the reference.
func (p *Package) ListOrdered(numID, ilvl string) (ordered, ok bool) {
	levels, found := p.numFmt[numID]
	if !found {
		return false, false
	}
	format, found := levels[ilvl]
	if !found {
		return false, false
	}
	return format != "bullet", true
}

// --- optional part loaders ---------------------------------------------------

func (p *Package) loadComments(data []byte) {
	doc := parseOptional(data)
	if doc == nil {
		return
	}
	for _, n := range xmlquery.Find(doc, "//*[local-name()='comment']") {
		id := localAttr(n, "id")
		if id == "" {
			continue
		}
		c := Comment{
			Author: localAttr(n, "author"),
			Date:   localAttr(n, "date"),
		}
		var text bytes.Buffer
		for _, t := range xmlquery.Find(n, ".//*[local-name()='t']") {
			text.WriteString(t.InnerText())
		}
		c.Text = text.String()
		p.Comments[id] = c
	}
}

func (p *Package) loadRels(data []byte) {
	doc := parseOptional(data)
	if doc == nil {
		return
	}
	for _, n := range xmlquery.Find(doc, "//*[local-name()='Relationship']") {
		if id := localAttr(n, "Id"); id != "" {
			p.rels[id] = localAttr(n, "Target")
		}
	}
}

func (p *Package) loadNumbering(data []byte) {
	doc := parseOptional(data)
	if doc == nil {
		return
	}

	// abstractNumId → ilvl → numFmt
	abstract := map[string]map[string]string{}
	for _, an := range xmlquery.Find(doc, "//*[local-name()='abstractNum']") {
		id := localAttr(an, "abstractNumId")
		levels := map[string]string{}
		for _, lvl := range xmlquery.Find(an, "./*[local-name()='lvl']") {
			if f := xmlquery.FindOne(lvl, "./*[local-name()='numFmt']"); f != nil {
				levels[localAttr(lvl, "ilvl")] = localAttr(f, "val")
			}
		}
		abstract[id] = levels
	}

	// numId indirects through abstractNumId.
	for _, num := range xmlquery.Find(doc, "//*[local-name()='num']") {
		numID := localAttr(num, "numId")
		ref := xmlquery.FindOne(num, "./*[local-name()='abstractNumId']")
		if numID == "" || ref == nil {
			continue
		}
		if levels, ok := abstract[localAttr(ref, "val")]; ok {
			p.numFmt[numID] = levels
		}
	}
}

func (p *Package) loadCore(data []byte) {
	doc := parseOptional(data)
	if doc == nil {
		return
	}
	if n := xmlquery.FindOne(doc, "//*[local-name()='title']"); n != nil {
		p.Core.Title = n.InnerText()
	}
	if n := xmlquery.FindOne(doc, "//*[local-name()='creator']"); n != nil {
		p.Core.Creator = n.InnerText()
	}
}

func parseOptional(data []byte) *xmlquery.Node {
	if len(data) == 0 {
		return nil
	}
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil // a broken optional part is treated as absent
	}
	return doc
}

func localAttr(n *xmlquery.Node, name string) string {
	for _, a := range n.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

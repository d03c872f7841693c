package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"
)

// makePackage builds an in-memory container from part name → content.
func makePackage(t *testing.T, parts map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range parts {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

const wNS = `xmlns:w="` + NSMain + `"`

func minimalDoc(body string) string {
	return `<?xml version="1.0"?><w:document ` + wNS + `><w:body>` + body + `</w:body></w:document>`
}

func TestOpenBytes_MinimalPackage(t *testing.T) {
	data := makePackage(t, map[string]string{
		PartDocument: minimalDoc(`<w:p><w:r><w:t>hello</w:t></w:r></w:p>`),
	})
	pkg, err := OpenBytes(context.Background(), data)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if pkg.Document == nil {
		t.Fatal("document tree missing")
	}
	if len(pkg.Comments) != 0 {
		t.Errorf("comments: got %d", len(pkg.Comments))
	}
}

func TestOpenBytes_NotAZip(t *testing.T) {
	if _, err := OpenBytes(context.Background(), []byte("plain text")); err == nil {
		t.Fatal("expected error for non-zip input")
	}
}

func TestOpenBytes_MissingDocumentPart(t *testing.T) {
	data := makePackage(t, map[string]string{"word/other.xml": "<x/>"})
	if _, err := OpenBytes(context.Background(), data); err == nil {
		t.Fatal("expected error for missing document part")
	}
}

func TestOpenBytes_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	data := makePackage(t, map[string]string{PartDocument: minimalDoc("")})
	if _, err := OpenBytes(ctx, data); err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestComments(t *testing.T) {
	data := makePackage(t, map[string]string{
		PartDocument: minimalDoc(""),
		PartComments: `<?xml version="1.0"?><w:comments ` + wNS + `>` +
			`<w:comment w:id="3" w:author="Reviewer" w:date="2024-01-02T03:04:05Z">` +
			`<w:p><w:r><w:t>needs a source</w:t></w:r></w:p></w:comment></w:comments>`,
	})
	pkg, err := OpenBytes(context.Background(), data)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	c, ok := pkg.Comments["3"]
	if !ok {
		t.Fatal("comment 3 missing")
	}
	if c.Author != "Reviewer" || c.Text != "needs a source" {
		t.Errorf("comment: got %+v", c)
	}
}

func TestHyperlinkTarget(t *testing.T) {
	data := makePackage(t, map[string]string{
		PartDocument: minimalDoc(""),
		PartDocumentRels: `<?xml version="1.0"?><Relationships xmlns="` + NSPackageRels + `">` +
			`<Relationship Id="rId7" Type="x" Target="https://example.org/paper"/></Relationships>`,
	})
	pkg, err := OpenBytes(context.Background(), data)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if got := pkg.HyperlinkTarget("rId7"); got != "https://example.org/paper" {
		t.Errorf("target: got %q", got)
	}
	if got := pkg.HyperlinkTarget("rId404"); got != "" {
		t.Errorf("unknown id should yield empty target, got %q", got)
	}
}

func TestListOrdered(t *testing.T) {
	data := makePackage(t, map[string]string{
		PartDocument: minimalDoc(""),
		PartNumbering: `<?xml version="1.0"?><w:numbering ` + wNS + `>` +
			`<w:abstractNum w:abstractNumId="0">` +
			`<w:lvl w:ilvl="0"><w:numFmt w:val="bullet"/></w:lvl>` +
			`<w:lvl w:ilvl="1"><w:numFmt w:val="decimal"/></w:lvl>` +
			`</w:abstractNum>` +
			`<w:num w:numId="5"><w:abstractNumId w:val="0"/></w:num>` +
			`</w:numbering>`,
	})
	pkg, err := OpenBytes(context.Background(), data)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if ordered, ok := pkg.ListOrdered("5", "0"); !ok || ordered {
		t.Errorf("bullet level: ordered=%v ok=%v", ordered, ok)
	}
	if ordered, ok := pkg.ListOrdered("5", "1"); !ok || !ordered {
		t.Errorf("decimal level: ordered=%v ok=%v", ordered, ok)
	}
	if _, ok := pkg.ListOrdered("9", "0"); ok {
		t.Error("unknown numId should not resolve")
	}
}

func TestCoreProperties(t *testing.T) {
	data := makePackage(t, map[string]string{
		PartDocument: minimalDoc(""),
		PartCoreProps: `<?xml version="1.0"?><cp:coreProperties ` +
			`xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" ` +
			`xmlns:dc="http://purl.org/dc/elements/1.1/">` +
			`<dc:title>Draft</dc:title><dc:creator>A. Author</dc:creator></cp:coreProperties>`,
	})
	pkg, err := OpenBytes(context.Background(), data)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if pkg.Core.Title != "Draft" || pkg.Core.Creator != "A. Author" {
		t.Errorf("core: got %+v", pkg.Core)
	}
}

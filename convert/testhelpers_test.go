package convert

// Shared test helpers for the convert package.

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/scholarmd/scholarmd/docx"
)

// ---- assertion helpers -----------------------------------------------------

func assertNoErr(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func assertContains(t *testing.T, got, want string) {
	t.Helper()
	if !strings.Contains(got, want) {
		t.Errorf("expected output to contain %q\ngot: %s", want, got)
	}
}

func assertNotContains(t *testing.T, got, want string) {
	t.Helper()
	if strings.Contains(got, want) {
		t.Errorf("expected output not to contain %q\ngot: %s", want, got)
	}
}

// ---- package factories -----------------------------------------------------

const docNS = `xmlns:w="` + docx.NSMain + `" ` +
	`xmlns:r="` + docx.NSRelationships + `" ` +
	`xmlns:m="` + docx.NSMath + `"`

// makeDocx builds a minimal package containing the given body fragment plus
// any extra parts, and returns its bytes.
func makeDocx(t *testing.T, bodyXML string, extra map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	write := func(name, content string) {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("makeDocx zip entry: %v", err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("makeDocx write: %v", err)
		}
	}

	write(docx.PartDocument, `<?xml version="1.0" encoding="UTF-8"?>`+
		`<w:document `+docNS+`><w:body>`+bodyXML+`</w:body></w:document>`)
	for name, content := range extra {
		write(name, content)
	}

	if err := zw.Close(); err != nil {
		t.Fatalf("makeDocx close: %v", err)
	}
	return buf.Bytes()
}

// convertBody runs the forward conversion over a body fragment.
func convertBody(t *testing.T, bodyXML string) *Result {
	t.Helper()
	res, err := DocxBytesToMarkdown(context.Background(), makeDocx(t, bodyXML, nil))
	assertNoErr(t, err)
	return res
}

// fieldRuns builds the run sequence of one Zotero citation field.
func fieldRuns(instr, display string) string {
	return `<w:r><w:fldChar w:fldCharType="begin"/></w:r>` +
		`<w:r><w:instrText xml:space="preserve">` + instr + `</w:instrText></w:r>` +
		`<w:r><w:fldChar w:fldCharType="separate"/></w:r>` +
		`<w:r><w:t>` + display + `</w:t></w:r>` +
		`<w:r><w:fldChar w:fldCharType="end"/></w:r>`
}

package convert

import (
	"context"
	"strings"
	"testing"

	"github.com/scholarmd/scholarmd/docx"
)

func TestDocxToMarkdown_Headings(t *testing.T) {
	res := convertBody(t,
		`<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t>H1</w:t></w:r></w:p>`+
			`<w:p><w:pPr><w:pStyle w:val="Heading2"/></w:pPr><w:r><w:t>H2</w:t></w:r></w:p>`+
			`<w:p><w:pPr><w:pStyle w:val="Heading6"/></w:pPr><w:r><w:t>H6</w:t></w:r></w:p>`)
	assertContains(t, res.Markdown, "# H1")
	assertContains(t, res.Markdown, "## H2")
	assertContains(t, res.Markdown, "###### H6")
}

func TestDocxToMarkdown_InlineFormatting(t *testing.T) {
	res := convertBody(t,
		`<w:p>`+
			`<w:r><w:rPr><w:b/></w:rPr><w:t>bold</w:t></w:r>`+
			`<w:r><w:rPr><w:i/></w:rPr><w:t>italic</w:t></w:r>`+
			`<w:r><w:rPr><w:strike/></w:rPr><w:t>gone</w:t></w:r>`+
			`<w:r><w:rPr><w:u w:val="single"/></w:rPr><w:t>under</w:t></w:r>`+
			`<w:r><w:rPr><w:highlight w:val="yellow"/></w:rPr><w:t>marked</w:t></w:r>`+
			`<w:r><w:rPr><w:vertAlign w:val="superscript"/></w:rPr><w:t>2</w:t></w:r>`+
			`<w:r><w:rPr><w:vertAlign w:val="subscript"/></w:rPr><w:t>0</w:t></w:r>`+
			`</w:p>`)
	assertContains(t, res.Markdown, "**bold**")
	assertContains(t, res.Markdown, "*italic*")
	assertContains(t, res.Markdown, "~~gone~~")
	assertContains(t, res.Markdown, "<u>under</u>")
	assertContains(t, res.Markdown, "==marked==")
	assertContains(t, res.Markdown, "^2^")
	assertContains(t, res.Markdown, "~0~")
}

func TestDocxToMarkdown_SuperscriptWinsOverSubscript(t *testing.T) {
	// A run carrying both vertical alignments resolves to superscript.
	res := convertBody(t,
		`<w:p><w:r><w:rPr>`+
			`<w:vertAlign w:val="superscript"/><w:vertAlign w:val="subscript"/>`+
			`</w:rPr><w:t>x</w:t></w:r></w:p>`)
	assertContains(t, res.Markdown, "^x^")
	assertNotContains(t, res.Markdown, "~x~")
}

func TestDocxToMarkdown_ToggleOffIgnored(t *testing.T) {
	res := convertBody(t,
		`<w:p><w:r><w:rPr><w:b w:val="0"/></w:rPr><w:t>plain</w:t></w:r></w:p>`)
	assertNotContains(t, res.Markdown, "**plain**")
	assertContains(t, res.Markdown, "plain")
}

func TestDocxToMarkdown_BulletList(t *testing.T) {
	res := convertBody(t,
		`<w:p><w:pPr><w:numPr><w:ilvl w:val="0"/><w:numId w:val="3"/></w:numPr></w:pPr>`+
			`<w:r><w:t>first</w:t></w:r></w:p>`+
			`<w:p><w:pPr><w:numPr><w:ilvl w:val="1"/><w:numId w:val="3"/></w:numPr></w:pPr>`+
			`<w:r><w:t>nested</w:t></w:r></w:p>`)
	assertContains(t, res.Markdown, "- first")
	assertContains(t, res.Markdown, "  - nested")
}

func TestDocxToMarkdown_OrderedList(t *testing.T) {
	numbering := `<?xml version="1.0"?><w:numbering xmlns:w="` + docx.NSMain + `">` +
		`<w:abstractNum w:abstractNumId="0">` +
		`<w:lvl w:ilvl="0"><w:numFmt w:val="decimal"/></w:lvl></w:abstractNum>` +
		`<w:num w:numId="7"><w:abstractNumId w:val="0"/></w:num></w:numbering>`

	body := `<w:p><w:pPr><w:numPr><w:ilvl w:val="0"/><w:numId w:val="7"/></w:numPr></w:pPr>` +
		`<w:r><w:t>one</w:t></w:r></w:p>` +
		`<w:p><w:pPr><w:numPr><w:ilvl w:val="0"/><w:numId w:val="7"/></w:numPr></w:pPr>` +
		`<w:r><w:t>two</w:t></w:r></w:p>`

	data := makeDocx(t, body, map[string]string{docx.PartNumbering: numbering})
	res, err := DocxBytesToMarkdown(context.Background(), data)
	assertNoErr(t, err)
	assertContains(t, res.Markdown, "1. one")
	assertContains(t, res.Markdown, "2. two")
}

func TestDocxToMarkdown_Blockquote(t *testing.T) {
	res := convertBody(t,
		`<w:p><w:pPr><w:pStyle w:val="Quote"/></w:pPr><w:r><w:t>wise words</w:t></w:r></w:p>`)
	assertContains(t, res.Markdown, "> wise words")
}

func TestDocxToMarkdown_CodeBlockMerged(t *testing.T) {
	res := convertBody(t,
		`<w:p><w:pPr><w:pStyle w:val="Code"/></w:pPr><w:r><w:t>line one</w:t></w:r></w:p>`+
			`<w:p><w:pPr><w:pStyle w:val="Code"/></w:pPr><w:r><w:t>line two</w:t></w:r></w:p>`)
	assertContains(t, res.Markdown, "```\nline one\nline two\n```")
}

func TestDocxToMarkdown_HorizontalRule(t *testing.T) {
	res := convertBody(t,
		`<w:p><w:pPr><w:pBdr><w:bottom w:val="single"/></w:pBdr></w:pPr></w:p>`)
	assertContains(t, res.Markdown, "---")
}

func TestDocxToMarkdown_Hyperlink(t *testing.T) {
	rels := `<?xml version="1.0"?><Relationships xmlns="` + docx.NSPackageRels + `">` +
		`<Relationship Id="rId5" Type="x" Target="https://example.org/paper"/></Relationships>`
	body := `<w:p><w:hyperlink r:id="rId5"><w:r><w:t>the paper</w:t></w:r></w:hyperlink></w:p>`

	data := makeDocx(t, body, map[string]string{docx.PartDocumentRels: rels})
	res, err := DocxBytesToMarkdown(context.Background(), data)
	assertNoErr(t, err)
	assertContains(t, res.Markdown, "[the paper](https://example.org/paper)")
}

func TestDocxToMarkdown_Table(t *testing.T) {
	res := convertBody(t,
		`<w:tbl>`+
			`<w:tr><w:tc><w:p><w:r><w:t>Name</w:t></w:r></w:p></w:tc>`+
			`<w:tc><w:p><w:r><w:t>Value</w:t></w:r></w:p></w:tc></w:tr>`+
			`<w:tr><w:tc><w:p><w:r><w:t>pipe|cell</w:t></w:r></w:p></w:tc>`+
			`<w:tc><w:p><w:r><w:t>7</w:t></w:r></w:p></w:tc></w:tr>`+
			`</w:tbl>`)
	assertContains(t, res.Markdown, "| Name")
	assertContains(t, res.Markdown, "| ---")
	assertContains(t, res.Markdown, `pipe\|cell`)
}

// --- math ---

func TestDocxToMarkdown_InlineMath(t *testing.T) {
	res := convertBody(t,
		`<w:p><w:r><w:t>Consider </w:t></w:r>`+
			`<m:oMath><m:f><m:num><m:r><m:t>a</m:t></m:r></m:num>`+
			`<m:den><m:r><m:t>b</m:t></m:r></m:den></m:f></m:oMath>`+
			`<w:r><w:t> here.</w:t></w:r></w:p>`)
	assertContains(t, res.Markdown, `Consider $\frac{a}{b}$ here.`)
}

func TestDocxToMarkdown_DisplayMath(t *testing.T) {
	res := convertBody(t,
		`<w:p><m:oMathPara><m:oMath>`+
			`<m:sSup><m:e><m:r><m:t>x</m:t></m:r></m:e>`+
			`<m:sup><m:r><m:t>2</m:t></m:r></m:sup></m:sSup>`+
			`</m:oMath></m:oMathPara></w:p>`)
	assertContains(t, res.Markdown, "$$\n{x}^{2}\n$$")
}

func TestDocxToMarkdown_EmptyMathDropped(t *testing.T) {
	res := convertBody(t,
		`<w:p><m:oMath></m:oMath><w:r><w:t>text</w:t></w:r></w:p>`)
	assertNotContains(t, res.Markdown, "$")
	assertContains(t, res.Markdown, "text")
}

// --- fields ---

const citationInstr = ` ADDIN ZOTERO_ITEM CSL_CITATION {"citationID":"x1",` +
	`"citationItems":[{"id":123,` +
	`"uris":["http://zotero.org/users/12345/items/ABCD2345"],` +
	`"itemData":{"type":"article-journal","title":"A Study of Things",` +
	`"author":[{"family":"Alice","given":"A."}],` +
	`"issued":{"date-parts":[["2020"]]}},` +
	`"locator":"5","label":"page"}],` +
	`"properties":{"formattedCitation":"(Alice 2020, p. 5)",` +
	`"plainCitation":"(Alice 2020, p. 5)","noteIndex":0}} `

func TestDocxToMarkdown_ZoteroCitation(t *testing.T) {
	res := convertBody(t,
		`<w:p><w:r><w:t>As shown </w:t></w:r>`+
			fieldRuns(citationInstr, "(Alice 2020, p. 5)")+
			`<w:r><w:t>.</w:t></w:r></w:p>`)

	assertContains(t, res.Markdown, "[@alice-2020-study, p. 5]")
	assertNotContains(t, res.Markdown, "(Alice 2020, p. 5)")

	if res.Bibliography.Len() != 1 {
		t.Fatalf("bibliography: got %d entries", res.Bibliography.Len())
	}
	e := res.Bibliography.Get("alice-2020-study")
	if e == nil {
		t.Fatal("entry alice-2020-study missing")
	}
	if !e.Provenanced() || e.ExternalKey != "ABCD2345" {
		t.Errorf("provenance: got %+v", e)
	}
	assertContains(t, res.BibTeX, "alice-2020-study")
}

func TestDocxToMarkdown_NonZoteroFieldKeepsDisplay(t *testing.T) {
	res := convertBody(t,
		`<w:p>`+fieldRuns(` PAGEREF _Toc123 \h `, "42")+`</w:p>`)
	assertContains(t, res.Markdown, "42")
	assertNotContains(t, res.Markdown, "[@")
}

func TestDocxToMarkdown_MalformedCitationWarns(t *testing.T) {
	res := convertBody(t,
		`<w:p>`+fieldRuns(` ADDIN ZOTERO_ITEM CSL_CITATION {broken `, "(Someone 2020)")+`</w:p>`)
	assertContains(t, res.Markdown, "(Someone 2020)")
	if len(res.Warnings) == 0 {
		t.Error("expected a warning for the malformed payload")
	}
}

// --- comments ---

func TestDocxToMarkdown_CommentsAsCriticMarkup(t *testing.T) {
	comments := `<?xml version="1.0"?><w:comments xmlns:w="` + docx.NSMain + `">` +
		`<w:comment w:id="1" w:author="Reviewer" w:date="2024-01-02">` +
		`<w:p><w:r><w:t>needs a source</w:t></w:r></w:p></w:comment></w:comments>`

	body := `<w:p><w:r><w:t>Before. </w:t></w:r>` +
		`<w:commentRangeStart w:id="1"/>` +
		`<w:r><w:t>important </w:t></w:r><w:r><w:t>claim</w:t></w:r>` +
		`<w:commentRangeEnd w:id="1"/>` +
		`<w:r><w:t>. After.</w:t></w:r></w:p>`

	data := makeDocx(t, body, map[string]string{docx.PartComments: comments})
	res, err := DocxBytesToMarkdown(context.Background(), data)
	assertNoErr(t, err)

	assertContains(t, res.Markdown, "{==important claim==}")
	assertContains(t, res.Markdown, "{>>Reviewer (2024-01-02): needs a source<<}")
	// Adjacent runs under the same range collapse into one annotation.
	if strings.Count(res.Markdown, "{>>") != 1 {
		t.Errorf("expected one comment annotation, got: %s", res.Markdown)
	}
}

// --- metadata ---

func TestDocxToMarkdown_Frontmatter(t *testing.T) {
	core := `<?xml version="1.0"?><cp:coreProperties ` +
		`xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" ` +
		`xmlns:dc="http://purl.org/dc/elements/1.1/">` +
		`<dc:title>My Paper</dc:title><dc:creator>J. Doe</dc:creator></cp:coreProperties>`

	data := makeDocx(t, `<w:p><w:r><w:t>body</w:t></w:r></w:p>`,
		map[string]string{docx.PartCoreProps: core})
	res, err := DocxBytesToMarkdown(context.Background(), data)
	assertNoErr(t, err)

	if !strings.HasPrefix(res.Markdown, "---\n") {
		t.Fatalf("expected frontmatter, got: %s", res.Markdown)
	}
	assertContains(t, res.Markdown, "title: My Paper")
	assertContains(t, res.Markdown, "author: J. Doe")
}

func TestDocxToMarkdown_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	data := makeDocx(t, `<w:p><w:r><w:t>x</w:t></w:r></w:p>`, nil)
	if _, err := DocxBytesToMarkdown(ctx, data); err == nil {
		t.Fatal("expected cancellation error")
	}
}

package docx

// Paragraph and character style names the converter reads and writes.
const (
	StyleHeadingPrefix = "Heading" // Heading1 .. Heading6
	StyleQuote         = "Quote"
	StyleCodeBlock     = "CodeBlock"
	StyleCodeChar      = "CodeChar"
	StyleHyperlink     = "Hyperlink"
)

// stylesXML is the fixed styles part for generated packages. It defines the
// styles referenced by the document builder and nothing else.
const stylesXML = `<w:styles xmlns:w="` + NSMain + `">` +
	`<w:style w:type="paragraph" w:default="1" w:styleId="Normal">` +
	`<w:name w:val="Normal"/><w:qFormat/></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Heading1">` +
	`<w:name w:val="heading 1"/><w:basedOn w:val="Normal"/>` +
	`<w:pPr><w:outlineLvl w:val="0"/></w:pPr>` +
	`<w:rPr><w:b/><w:sz w:val="32"/></w:rPr></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Heading2">` +
	`<w:name w:val="heading 2"/><w:basedOn w:val="Normal"/>` +
	`<w:pPr><w:outlineLvl w:val="1"/></w:pPr>` +
	`<w:rPr><w:b/><w:sz w:val="28"/></w:rPr></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Heading3">` +
	`<w:name w:val="heading 3"/><w:basedOn w:val="Normal"/>` +
	`<w:pPr><w:outlineLvl w:val="2"/></w:pPr>` +
	`<w:rPr><w:b/><w:sz w:val="26"/></w:rPr></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Heading4">` +
	`<w:name w:val="heading 4"/><w:basedOn w:val="Normal"/>` +
	`<w:pPr><w:outlineLvl w:val="3"/></w:pPr>` +
	`<w:rPr><w:b/><w:i/></w:rPr></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Heading5">` +
	`<w:name w:val="heading 5"/><w:basedOn w:val="Normal"/>` +
	`<w:pPr><w:outlineLvl w:val="4"/></w:pPr>` +
	`<w:rPr><w:b/></w:rPr></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Heading6">` +
	`<w:name w:val="heading 6"/><w:basedOn w:val="Normal"/>` +
	`<w:pPr><w:outlineLvl w:val="5"/></w:pPr>` +
	`<w:rPr><w:i/></w:rPr></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Quote">` +
	`<w:name w:val="Quote"/><w:basedOn w:val="Normal"/>` +
	`<w:pPr><w:ind w:left="720"/></w:pPr><w:rPr><w:i/></w:rPr></w:style>` +
	`<w:style w:type="paragraph" w:styleId="CodeBlock">` +
	`<w:name w:val="Code Block"/><w:basedOn w:val="Normal"/>` +
	`<w:rPr><w:rFonts w:ascii="Consolas" w:hAnsi="Consolas"/></w:rPr></w:style>` +
	`<w:style w:type="character" w:styleId="CodeChar">` +
	`<w:name w:val="Code Char"/>` +
	`<w:rPr><w:rFonts w:ascii="Consolas" w:hAnsi="Consolas"/></w:rPr></w:style>` +
	`<w:style w:type="character" w:styleId="Hyperlink">` +
	`<w:name w:val="Hyperlink"/>` +
	`<w:rPr><w:color w:val="0563C1"/><w:u w:val="single"/></w:rPr></w:style>` +
	`</w:styles>`

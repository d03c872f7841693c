package docx

// Marshal structs for the generated word/document.xml. Element names carry
// their wire prefixes directly; the root declares the namespaces. Optional
// children are pointers so absent ones vanish from the output.

import "encoding/xml"

// Wire namespaces.
const (
	NSMain          = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	NSRelationships = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	NSMath          = "http://schemas.openxmlformats.org/officeDocument/2006/math"
	NSPackageRels   = "http://schemas.openxmlformats.org/package/2006/relationships"
)

// Document is the root of word/document.xml.
type Document struct {
	XMLName xml.Name `xml:"w:document"`
	XmlnsW  string   `xml:"xmlns:w,attr"`
	XmlnsR  string   `xml:"xmlns:r,attr"`
	XmlnsM  string   `xml:"xmlns:m,attr"`
	Body    Body     `xml:"w:body"`
}

// NewDocument returns a document root with its namespaces declared.
func NewDocument() *Document {
	return &Document{XmlnsW: NSMain, XmlnsR: NSRelationships, XmlnsM: NSMath}
}

// Body holds block content in document order, then the section properties.
type Body struct {
	Content []any
	SectPr  *SectPr `xml:"w:sectPr"`
}

// SectPr is the trailing section block; an A4 page is enough.
type SectPr struct {
	PgSz PgSz `xml:"w:pgSz"`
}

type PgSz struct {
	W string `xml:"w:w,attr"`
	H string `xml:"w:h,attr"`
}

// Paragraph is one w:p. Content mixes Run, Hyperlink, OMath and OMathPara
// values, preserving document order.
type Paragraph struct {
	XMLName xml.Name `xml:"w:p"`
	Props   *ParaProps
	Content []any
}

type ParaProps struct {
	XMLName xml.Name   `xml:"w:pPr"`
	Style   *Val       `xml:"w:pStyle"`
	NumPr   *NumPr     `xml:"w:numPr"`
	Borders *ParaBdr   `xml:"w:pBdr"`
	Indent  *ParaInd   `xml:"w:ind"`
}

type NumPr struct {
	Ilvl  Val `xml:"w:ilvl"`
	NumID Val `xml:"w:numId"`
}

type ParaBdr struct {
	Bottom *Border `xml:"w:bottom"`
}

type Border struct {
	Kind  string `xml:"w:val,attr"`
	Sz    string `xml:"w:sz,attr,omitempty"`
	Space string `xml:"w:space,attr,omitempty"`
	Color string `xml:"w:color,attr,omitempty"`
}

type ParaInd struct {
	Left string `xml:"w:left,attr"`
}

// Run is one w:r. Exactly one of FldChar, InstrText, Break or Text is set.
type Run struct {
	XMLName   xml.Name   `xml:"w:r"`
	Props     *RunProps  `xml:"w:rPr"`
	FldChar   *FldChar   `xml:"w:fldChar"`
	InstrText *InstrText `xml:"w:instrText"`
	Break     *Empty     `xml:"w:br"`
	Text      *Text      `xml:"w:t"`
}

type RunProps struct {
	Style     *Val   `xml:"w:rStyle"`
	Fonts     *Fonts `xml:"w:rFonts"`
	Bold      *Empty `xml:"w:b"`
	Italic    *Empty `xml:"w:i"`
	Strike    *Empty `xml:"w:strike"`
	Underline *Val   `xml:"w:u"`
	VertAlign *Val   `xml:"w:vertAlign"`
	Highlight *Val   `xml:"w:highlight"`
}

type Fonts struct {
	ASCII string `xml:"w:ascii,attr"`
	HAnsi string `xml:"w:hAnsi,attr"`
}

type FldChar struct {
	Type string `xml:"w:fldCharType,attr"`
}

type InstrText struct {
	Space string `xml:"xml:space,attr,omitempty"`
	Text  string `xml:",chardata"`
}

type Text struct {
	Space string `xml:"xml:space,attr,omitempty"`
	Text  string `xml:",chardata"`
}

// Hyperlink wraps runs that link to an external target via a relationship.
type Hyperlink struct {
	XMLName xml.Name `xml:"w:hyperlink"`
	RID     string   `xml:"r:id,attr"`
	Runs    []Run
}

// Val is the ubiquitous single-attribute element.
type Val struct {
	Val string `xml:"w:val,attr"`
}

// Empty renders as a bare toggle element such as <w:b/>.
type Empty struct{}

// --- tables ------------------------------------------------------------------

type Table struct {
	XMLName xml.Name   `xml:"w:tbl"`
	Props   TableProps `xml:"w:tblPr"`
	Grid    TableGrid  `xml:"w:tblGrid"`
	Rows    []TableRow
}

type TableProps struct {
	Style   *Val          `xml:"w:tblStyle"`
	Width   TableWidth    `xml:"w:tblW"`
	Borders *TableBorders `xml:"w:tblBorders"`
}

type TableWidth struct {
	W    string `xml:"w:w,attr"`
	Type string `xml:"w:type,attr"`
}

type TableBorders struct {
	Top     Border `xml:"w:top"`
	Left    Border `xml:"w:left"`
	Bottom  Border `xml:"w:bottom"`
	Right   Border `xml:"w:right"`
	InsideH Border `xml:"w:insideH"`
	InsideV Border `xml:"w:insideV"`
}

type TableGrid struct {
	Cols []GridCol
}

type GridCol struct {
	XMLName xml.Name `xml:"w:gridCol"`
	W       string   `xml:"w:w,attr"`
}

type TableRow struct {
	XMLName xml.Name `xml:"w:tr"`
	Cells   []TableCell
}

type TableCell struct {
	XMLName    xml.Name    `xml:"w:tc"`
	Paragraphs []Paragraph `xml:"w:p"`
}

// --- math --------------------------------------------------------------------

// OMath re-embeds a linear notation string as literal math text; translating
// the notation back into a structured math tree is out of scope.
type OMath struct {
	XMLName xml.Name `xml:"m:oMath"`
	Runs    []OMathRun
}

type OMathPara struct {
	XMLName xml.Name `xml:"m:oMathPara"`
	Math    OMath
}

type OMathRun struct {
	XMLName xml.Name  `xml:"m:r"`
	Text    OMathText `xml:"m:t"`
}

type OMathText struct {
	Space string `xml:"xml:space,attr,omitempty"`
	Text  string `xml:",chardata"`
}

// --- manifests ---------------------------------------------------------------

type contentTypes struct {
	XMLName   xml.Name          `xml:"Types"`
	Xmlns     string            `xml:"xmlns,attr"`
	Defaults  []contentDefault  `xml:"Default"`
	Overrides []contentOverride `xml:"Override"`
}

type contentDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type contentOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type relationships struct {
	XMLName xml.Name       `xml:"Relationships"`
	Xmlns   string         `xml:"xmlns,attr"`
	Rels    []relationship `xml:"Relationship"`
}

type relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

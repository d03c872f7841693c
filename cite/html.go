package cite

import (
	md "github.com/JohannesKaufmann/html-to-markdown"
)

// Zotero's formattedCitation carries light HTML (<i>, <b>) for styled titles.
// One shared converter turns it into Markdown when the formatted text is the
// only thing left to show, e.g. a field whose item data cannot be registered.
var htmlConverter = md.NewConverter("", true, nil)

// FormattedToMarkdown converts a formatted citation string to Markdown,
// falling back to the input verbatim if conversion fails.
func FormattedToMarkdown(html string) string {
	out, err := htmlConverter.ConvertString(html)
	if err != nil {
		return html
	}
	return out
}

package cite

import (
	"regexp"
	"strings"
)

var (
	nonAlnum  = regexp.MustCompile(`[^a-z0-9]+`)
	wordRe    = regexp.MustCompile(`[a-zA-Z]+`)
	yearRe    = regexp.MustCompile(`\d{4}`)
	skipWords = map[string]bool{"the": true, "a": true, "an": true, "of": true}
)

// GenerateKey builds a citation key of the form surname-year or
// surname-year-firstword: lowercase alphanumeric components, hyphen
// separated, first meaningful title word (articles skipped).
func GenerateKey(surname, year, title string) string {
	clean := nonAlnum.ReplaceAllString(strings.ToLower(surname), "")
	if clean == "" {
		clean = "unknown"
	}
	if y := yearRe.FindString(year); y != "" {
		year = y
	} else {
		year = "0000"
	}

	first := ""
	for _, w := range wordRe.FindAllString(strings.ToLower(title), -1) {
		if !skipWords[w] {
			first = w
			break
		}
	}

	if first == "" {
		return clean + "-" + year
	}
	return clean + "-" + year + "-" + first
}

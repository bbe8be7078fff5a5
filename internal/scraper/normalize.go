package scraper

import "strings"

// CleanText trims a text fragment and collapses any run of whitespace,
// including newlines, into a single space. Empty input stays empty.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

package qti

import (
	"html"
	"regexp"
	"strings"
)

// tagRE matches markup only: elements, comments, declarations and processing
// instructions. A bare "<" followed by a space or digit is text.
var tagRE = regexp.MustCompile(`(?s)<!--.*?-->|<![^<>]*>|<\?[^<>]*>|</?[A-Za-z][^<>]*>`)

// CleanText strips markup tags, unescapes HTML entities and trims the result.
// Stripping and unescaping repeat until the text is stable, so cleaning clean
// text returns it unchanged.
func CleanText(raw string) string {
	s := raw
	for s != "" {
		next := strings.TrimSpace(html.UnescapeString(tagRE.ReplaceAllString(s, "")))
		if next == s {
			break
		}
		s = next
	}
	return s
}

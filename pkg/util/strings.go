package util

import (
	"regexp"
	"strings"
)

var htmlTagRegex = regexp.MustCompile(`<[^>]+>`)

// StripHTML reduces annotated display text to plain text, turning explicit
// line breaks into newlines and dropping every other tag.
func StripHTML(s string) string {
	s = strings.ReplaceAll(s, "<br />", "\n")
	s = strings.ReplaceAll(s, "<br/>", "\n")
	s = strings.ReplaceAll(s, "<br>", "\n")
	s = htmlTagRegex.ReplaceAllString(s, "")

	return strings.TrimSpace(s)
}

func TrimString(s string, length int) string {
	if len(s) <= length {
		return s
	}

	return s[:length]
}

package parsing

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	innerSpaces  = regexp.MustCompile(`[ \t\x{00A0}]+`)
	excessBlanks = regexp.MustCompile(`\n\n\n+`)
)

// CleanText prepares decoded document text for extraction: NFC normalization, LF line endings,
// collapsed runs of spaces, trailing whitespace removed and at most one blank line in a row.
func CleanText(content string) string {
	if content == "" {
		return ""
	}
	content = norm.NFC.String(content)
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(innerSpaces.ReplaceAllString(line, " "))
	}
	content = strings.Join(lines, "\n")
	content = excessBlanks.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}

package rendering

import "strings"

var xmlEntities = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// xmlChar reports whether r may appear in XML 1.0 character data.
func xmlChar(r rune) bool {
	switch {
	case r == '\t', r == '\n', r == '\r':
		return true
	case r < 0x20, r >= 0xD800 && r <= 0xDFFF, r == 0xFFFE, r == 0xFFFF:
		return false
	}
	return true
}

// EscapeXML makes text safe for WordprocessingML character data, dropping characters
// that XML 1.0 forbids.
func EscapeXML(text string) string {
	if strings.IndexFunc(text, func(r rune) bool { return !xmlChar(r) }) >= 0 {
		text = strings.Map(func(r rune) rune {
			if xmlChar(r) {
				return r
			}
			return -1
		}, text)
	}
	return xmlEntities.Replace(text)
}

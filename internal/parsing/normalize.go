// Package parsing provides the text normalization rules applied to extracted résumé content.
package parsing

import (
	"regexp"
	"strings"
	"unicode"
)

// bulletGlyphs are the leading markers stripped from list lines.
var bulletGlyphs = map[rune]bool{
	'•': true,
	'·': true,
	'-': true,
	'*': true,
	'◆': true,
	'■': true,
	'●': true,
	'|': true,
}

// CleanBulletPrefix strips leading whitespace and any run of bullet glyphs from a line.
// Applying it twice yields the same result as applying it once.
func CleanBulletPrefix(line string) string {
	return strings.TrimLeftFunc(line, func(r rune) bool {
		return unicode.IsSpace(r) || bulletGlyphs[r]
	})
}

// CleanBulletLines applies CleanBulletPrefix to every line, trims trailing space and drops
// lines left empty.
func CleanBulletLines(lines []string) []string {
	if len(lines) == 0 {
		return lines
	}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		cleaned := strings.TrimSpace(CleanBulletPrefix(line))
		if cleaned == "" {
			continue
		}
		out = append(out, cleaned)
	}
	return out
}

var (
	rangeWordTo  = regexp.MustCompile(`(?i)\s+to\s+`)
	rangeDashRun = regexp.MustCompile(`\s*[-‐‑‒–—―]+\s*`)
)

// NormalizeDateRange rewrites " to " and every dash variant into a single " - " separator.
func NormalizeDateRange(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = rangeWordTo.ReplaceAllString(s, " - ")
	s = rangeDashRun.ReplaceAllString(s, " - ")
	return strings.TrimSpace(s)
}

// itemDelimiters separate several items that were laid out on a single visual line.
var itemDelimiters = regexp.MustCompile(`\s+[•|·◆■●]\s+`)

// keyValue matches "Key: Value" lines; the key is short and holds no colon.
var keyValue = regexp.MustCompile(`^([^:]{1,40}):\s+(\S.*)$`)

// SplitKeyValue splits a "Key: Value" line. URLs are never key/value lines.
func SplitKeyValue(line string) (key, value string, ok bool) {
	if strings.Contains(line, "://") {
		return "", "", false
	}
	m := keyValue.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	return strings.TrimSpace(m[1]), m[2], true
}

// SplitDelimitedItems splits a line holding several glyph-separated items into one item each.
// "Go • Python | SQL" becomes ["Go", "Python", "SQL"]; lines without delimiters pass through.
// A "Key: Value" line is one item whatever its value holds.
func SplitDelimitedItems(line string) []string {
	if _, _, ok := SplitKeyValue(strings.TrimSpace(line)); ok {
		return []string{strings.TrimSpace(line)}
	}
	parts := itemDelimiters.Split(line, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

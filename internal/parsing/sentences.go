package parsing

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultSplitThreshold is the line length above which bullets are broken into sentences.
const DefaultSplitThreshold = 100

// SplitLongSentences breaks every line longer than threshold that contains a period into one
// line per sentence. A sentence ends at a period followed by whitespace and an upper-case letter,
// or at a trailing period. Each fragment is re-punctuated to end with a period.
// Shorter lines are returned unchanged. The result is only meant for display.
func SplitLongSentences(lines []string, threshold int) []string {
	if threshold <= 0 {
		threshold = DefaultSplitThreshold
	}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if utf8.RuneCountInString(line) <= threshold || !strings.Contains(line, ".") {
			out = append(out, line)
			continue
		}
		for _, frag := range splitSentences(line) {
			out = append(out, punctuate(frag))
		}
	}
	return out
}

func splitSentences(line string) []string {
	runes := []rune(line)
	var frags []string
	start := 0
	for i := 0; i < len(runes); i++ {
		if runes[i] != '.' {
			continue
		}
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		if j == len(runes) || (j > i+1 && unicode.IsUpper(runes[j])) {
			frags = append(frags, string(runes[start:i]))
			start = j
			i = j - 1
		}
	}
	if start < len(runes) {
		frags = append(frags, string(runes[start:]))
	}

	out := frags[:0]
	for _, f := range frags {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func punctuate(s string) string {
	s = strings.TrimRight(s, " .")
	return s + "."
}

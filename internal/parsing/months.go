package parsing

import (
	"regexp"
	"strings"
)

var monthNames = []struct {
	abbr string
	full string
}{
	{"Jan", "January"},
	{"Feb", "February"},
	{"Mar", "March"},
	{"Apr", "April"},
	{"May", "May"},
	{"Jun", "June"},
	{"Jul", "July"},
	{"Aug", "August"},
	{"Sep", "September"},
	{"Oct", "October"},
	{"Nov", "November"},
	{"Dec", "December"},
}

var (
	abbrToFull = map[string]string{"sept": "September"}
	fullToAbbr = map[string]string{}

	abbrPattern = regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sept|sep|oct|nov|dec)\b`)
	fullPattern = regexp.MustCompile(`(?i)\b(january|february|march|april|june|july|august|september|october|november|december)\b`)
)

func init() {
	for _, m := range monthNames {
		abbrToFull[strings.ToLower(m.abbr)] = m.full
		fullToAbbr[strings.ToLower(m.full)] = m.abbr
	}
}

// ExpandMonths replaces three-letter month abbreviations (and "Sept") with full month names.
// Matching is on word boundaries, so "Marketing" or "Decade" are left alone.
func ExpandMonths(s string) string {
	return abbrPattern.ReplaceAllStringFunc(s, func(m string) string {
		return abbrToFull[strings.ToLower(m)]
	})
}

// AbbreviateMonths is the inverse of ExpandMonths: full month names become their three-letter
// forms. "May" has no shorter form and is untouched.
func AbbreviateMonths(s string) string {
	return fullPattern.ReplaceAllStringFunc(s, func(m string) string {
		return fullToAbbr[strings.ToLower(m)]
	})
}

package parsing

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var stateCodes = map[string]string{
	"alabama":        "AL",
	"alaska":         "AK",
	"arizona":        "AZ",
	"arkansas":       "AR",
	"california":     "CA",
	"colorado":       "CO",
	"connecticut":    "CT",
	"delaware":       "DE",
	"florida":        "FL",
	"georgia":        "GA",
	"hawaii":         "HI",
	"idaho":          "ID",
	"illinois":       "IL",
	"indiana":        "IN",
	"iowa":           "IA",
	"kansas":         "KS",
	"kentucky":       "KY",
	"louisiana":      "LA",
	"maine":          "ME",
	"maryland":       "MD",
	"massachusetts":  "MA",
	"michigan":       "MI",
	"minnesota":      "MN",
	"mississippi":    "MS",
	"missouri":       "MO",
	"montana":        "MT",
	"nebraska":       "NE",
	"nevada":         "NV",
	"new hampshire":  "NH",
	"new jersey":     "NJ",
	"new mexico":     "NM",
	"new york":       "NY",
	"north carolina": "NC",
	"north dakota":   "ND",
	"ohio":           "OH",
	"oklahoma":       "OK",
	"oregon":         "OR",
	"pennsylvania":   "PA",
	"rhode island":   "RI",
	"south carolina": "SC",
	"south dakota":   "SD",
	"tennessee":      "TN",
	"texas":          "TX",
	"utah":           "UT",
	"vermont":        "VT",
	"virginia":       "VA",
	"washington":     "WA",
	"west virginia":  "WV",
	"wisconsin":      "WI",
	"wyoming":        "WY",
}

// StateCode returns the postal code for a full US state name, case-insensitively.
func StateCode(name string) (string, bool) {
	code, ok := stateCodes[strings.ToLower(strings.Join(strings.Fields(name), " "))]
	return code, ok
}

// TitleCase capitalizes each word and lower-cases the rest of it.
func TitleCase(s string) string {
	words := strings.Fields(s)
	caser := cases.Title(language.English)
	for i, w := range words {
		words[i] = caser.String(w)
	}
	return strings.Join(words, " ")
}

// NormalizeLocation formats a location as "City, ST".
//
// The city segment is title-cased word by word. The state segment becomes a postal code when it
// names a US state, is upper-cased when it already has two letters, and is title-cased otherwise.
// Any further segments (a country, say) are kept trimmed.
func NormalizeLocation(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		switch {
		case i == 0:
			out = append(out, TitleCase(p))
		case i == 1:
			out = append(out, normalizeState(p))
		default:
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}

func normalizeState(s string) string {
	if code, ok := StateCode(s); ok {
		return code
	}
	if len([]rune(s)) == 2 {
		return strings.ToUpper(s)
	}
	return TitleCase(s)
}

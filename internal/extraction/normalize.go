package extraction

import (
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/resume-refiner/internal/parsing"
	"github.com/jonathan/resume-refiner/internal/types"
)

// Normalize applies the post-extraction cleanup rules to a freshly decoded record in place:
// bullet prefixes stripped, date ranges normalized, locations formatted, blank lines dropped,
// contact info guaranteed and change IDs assigned.
func Normalize(record *types.ResumeRecord) {
	record.FullName = strings.TrimSpace(record.FullName)
	if record.ContactInfo == nil {
		record.ContactInfo = &types.ContactInfo{}
	}
	ci := record.ContactInfo
	ci.Email = strings.TrimSpace(ci.Email)
	ci.Phone = strings.TrimSpace(ci.Phone)
	ci.Location = parsing.NormalizeLocation(ci.Location)
	ci.Links = parsing.CleanBulletLines(ci.Links)

	record.Summary = parsing.CleanBulletLines(record.Summary)
	normalizeEntries(record.Experience)
	normalizeEntries(record.Internships)

	for i := range record.Education {
		e := &record.Education[i]
		e.Institution = strings.TrimSpace(e.Institution)
		e.Degree = strings.TrimSpace(e.Degree)
		e.Dates = parsing.NormalizeDateRange(e.Dates)
		e.Location = parsing.NormalizeLocation(e.Location)
		e.Details = parsing.CleanBulletLines(e.Details)
	}

	sections := record.CustomSections[:0]
	for _, s := range record.CustomSections {
		s.Title = strings.TrimSpace(s.Title)
		var items []string
		for _, item := range s.Items {
			items = append(items, parsing.SplitDelimitedItems(parsing.CleanBulletPrefix(item))...)
		}
		s.Items = parsing.CleanBulletLines(items)
		if s.Title == "" && len(s.Items) == 0 {
			continue
		}
		sections = append(sections, s)
	}
	if len(sections) == 0 {
		sections = nil
	}
	record.CustomSections = sections

	for i := range record.ExtractionChanges {
		c := &record.ExtractionChanges[i]
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
	}
}

func normalizeEntries(entries []types.ExperienceEntry) {
	for i := range entries {
		e := &entries[i]
		e.Company = strings.TrimSpace(e.Company)
		e.Title = strings.TrimSpace(e.Title)
		e.Dates = parsing.NormalizeDateRange(e.Dates)
		e.Location = parsing.NormalizeLocation(e.Location)
		e.Description = parsing.CleanBulletLines(e.Description)
	}
}

// coerceArgs fixes shapes the model is known to get wrong before the arguments are validated:
// a scalar summary becomes a one-element list, and a null contactInfo becomes an empty object.
func coerceArgs(args map[string]any) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		out[k] = v
	}
	switch s := out["summary"].(type) {
	case string:
		if strings.TrimSpace(s) == "" {
			delete(out, "summary")
		} else {
			out["summary"] = []any{s}
		}
	case nil:
		delete(out, "summary")
	}
	if out["contactInfo"] == nil {
		out["contactInfo"] = map[string]any{}
	}
	return out
}

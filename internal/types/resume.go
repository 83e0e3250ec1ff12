// Package types provides type definitions for structured data used throughout the resume-refiner system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ResumeRecord is the canonical structured form of an extracted résumé.
// JSON field names double as the segments of issue field paths (e.g. experience.0.description.2).
type ResumeRecord struct {
	FullName          string             `json:"fullName"`
	ContactInfo       *ContactInfo       `json:"contactInfo"`
	Summary           []string           `json:"summary,omitempty"`
	Experience        []ExperienceEntry  `json:"experience,omitempty"`
	Internships       []ExperienceEntry  `json:"internships,omitempty"`
	Education         []EducationEntry   `json:"education,omitempty"`
	CustomSections    []CustomSection    `json:"customSections,omitempty"`
	SectionTitles     *SectionTitles     `json:"sectionTitles,omitempty"`
	ExtractionChanges []ExtractionChange `json:"extractionChanges,omitempty"`
}

// ContactInfo holds the only fields allowed to carry an email address or phone number.
type ContactInfo struct {
	Email    string   `json:"email,omitempty"`
	Phone    string   `json:"phone,omitempty"`
	Links    []string `json:"links,omitempty"`
	Location string   `json:"location,omitempty"`
}

// ExperienceEntry is one job. Internships share the shape but render under their own heading.
type ExperienceEntry struct {
	Company     string   `json:"company"`
	Title       string   `json:"title"`
	Dates       string   `json:"dates"`
	Location    string   `json:"location,omitempty"`
	Description []string `json:"description,omitempty"`
}

// EducationEntry is one school or program.
type EducationEntry struct {
	Institution string   `json:"institution"`
	Degree      string   `json:"degree"`
	Dates       string   `json:"dates"`
	Location    string   `json:"location,omitempty"`
	Details     []string `json:"details,omitempty"`
}

// CustomSection carries any section outside the four fixed categories, verbatim.
type CustomSection struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

// SectionTitles preserves the source document's wording for the fixed categories.
type SectionTitles struct {
	Summary     string `json:"summary,omitempty"`
	Experience  string `json:"experience,omitempty"`
	Internships string `json:"internships,omitempty"`
	Education   string `json:"education,omitempty"`
}

// Clone returns a deep copy of the record. Mutations always go through a clone so that
// readers holding the previous value never observe a partial edit.
func (r *ResumeRecord) Clone() *ResumeRecord {
	if r == nil {
		return nil
	}
	out := *r
	if r.ContactInfo != nil {
		ci := *r.ContactInfo
		ci.Links = cloneStrings(r.ContactInfo.Links)
		out.ContactInfo = &ci
	}
	out.Summary = cloneStrings(r.Summary)
	out.Experience = cloneExperience(r.Experience)
	out.Internships = cloneExperience(r.Internships)
	if r.Education != nil {
		out.Education = make([]EducationEntry, len(r.Education))
		for i, e := range r.Education {
			e.Details = cloneStrings(e.Details)
			out.Education[i] = e
		}
	}
	if r.CustomSections != nil {
		out.CustomSections = make([]CustomSection, len(r.CustomSections))
		for i, s := range r.CustomSections {
			s.Items = cloneStrings(s.Items)
			out.CustomSections[i] = s
		}
	}
	if r.SectionTitles != nil {
		st := *r.SectionTitles
		out.SectionTitles = &st
	}
	if r.ExtractionChanges != nil {
		out.ExtractionChanges = append([]ExtractionChange(nil), r.ExtractionChanges...)
	}
	return &out
}

// Title returns the heading text for a fixed section, preferring the extracted wording.
func (r *ResumeRecord) Title(section string) string {
	defaults := map[string]string{
		"summary":     "Professional Summary",
		"experience":  "Professional Experience",
		"internships": "Internships",
		"education":   "Education",
	}
	if r.SectionTitles != nil {
		var custom string
		switch section {
		case "summary":
			custom = r.SectionTitles.Summary
		case "experience":
			custom = r.SectionTitles.Experience
		case "internships":
			custom = r.SectionTitles.Internships
		case "education":
			custom = r.SectionTitles.Education
		}
		if custom != "" {
			return custom
		}
	}
	return defaults[section]
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

func cloneExperience(in []ExperienceEntry) []ExperienceEntry {
	if in == nil {
		return nil
	}
	out := make([]ExperienceEntry, len(in))
	for i, e := range in {
		e.Description = cloneStrings(e.Description)
		out[i] = e
	}
	return out
}

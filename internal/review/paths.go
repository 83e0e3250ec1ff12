package review

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/resume-refiner/internal/types"
)

var bracketIndex = regexp.MustCompile(`\[\s*(\d+)\s*\]`)

// NormalizePath converts bracket indices to dot form: experience[0].description[2] becomes
// experience.0.description.2. Empty segments are dropped.
func NormalizePath(path string) string {
	path = bracketIndex.ReplaceAllString(strings.TrimSpace(path), ".$1")
	parts := strings.Split(path, ".")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ".")
}

// GetString returns the string at path, or false when the path does not resolve to a string.
func GetString(record *types.ResumeRecord, path string) (string, bool) {
	ptr, err := locate(record, path)
	if err != nil {
		return "", false
	}
	return *ptr, true
}

// SetString writes value at path. The record must be a private copy.
func SetString(record *types.ResumeRecord, path, value string) error {
	ptr, err := locate(record, path)
	if err != nil {
		return err
	}
	*ptr = value
	return nil
}

// locate resolves a path to the addressed string field.
func locate(record *types.ResumeRecord, path string) (*string, error) {
	if record == nil {
		return nil, &PathError{Path: path, Message: "no record"}
	}
	segs := strings.Split(NormalizePath(path), ".")
	fail := func(msg string) (*string, error) {
		return nil, &PathError{Path: path, Message: msg}
	}

	switch segs[0] {
	case "fullName":
		if len(segs) != 1 {
			return fail("fullName has no children")
		}
		return &record.FullName, nil

	case "summary":
		return lineAt(record.Summary, segs[1:], path)

	case "contactInfo":
		if record.ContactInfo == nil || len(segs) < 2 {
			return fail("contact info missing")
		}
		ci := record.ContactInfo
		switch segs[1] {
		case "email":
			return leaf(&ci.Email, segs[1:], path)
		case "phone":
			return leaf(&ci.Phone, segs[1:], path)
		case "location":
			return leaf(&ci.Location, segs[1:], path)
		case "links":
			return lineAt(ci.Links, segs[2:], path)
		}
		return fail("unknown contact field")

	case "experience", "internships":
		entries := record.Experience
		if segs[0] == "internships" {
			entries = record.Internships
		}
		i, ok := index(segs, 1, len(entries))
		if !ok || len(segs) < 3 {
			return fail("entry out of range")
		}
		e := &entries[i]
		switch segs[2] {
		case "company":
			return leaf(&e.Company, segs[2:], path)
		case "title":
			return leaf(&e.Title, segs[2:], path)
		case "dates":
			return leaf(&e.Dates, segs[2:], path)
		case "location":
			return leaf(&e.Location, segs[2:], path)
		case "description":
			return lineAt(e.Description, segs[3:], path)
		}
		return fail("unknown experience field")

	case "education":
		i, ok := index(segs, 1, len(record.Education))
		if !ok || len(segs) < 3 {
			return fail("entry out of range")
		}
		e := &record.Education[i]
		switch segs[2] {
		case "institution":
			return leaf(&e.Institution, segs[2:], path)
		case "degree":
			return leaf(&e.Degree, segs[2:], path)
		case "dates":
			return leaf(&e.Dates, segs[2:], path)
		case "location":
			return leaf(&e.Location, segs[2:], path)
		case "details":
			return lineAt(e.Details, segs[3:], path)
		}
		return fail("unknown education field")

	case "customSections":
		i, ok := index(segs, 1, len(record.CustomSections))
		if !ok || len(segs) < 3 {
			return fail("section out of range")
		}
		s := &record.CustomSections[i]
		switch segs[2] {
		case "title":
			return leaf(&s.Title, segs[2:], path)
		case "items":
			return lineAt(s.Items, segs[3:], path)
		}
		return fail("unknown section field")

	case "sectionTitles":
		if record.SectionTitles == nil || len(segs) != 2 {
			return fail("section titles missing")
		}
		st := record.SectionTitles
		switch segs[1] {
		case "summary":
			return &st.Summary, nil
		case "experience":
			return &st.Experience, nil
		case "internships":
			return &st.Internships, nil
		case "education":
			return &st.Education, nil
		}
		return fail("unknown section title")
	}
	return fail("unknown field")
}

// leaf accepts a string field only when it is the last path segment.
func leaf(field *string, rest []string, path string) (*string, error) {
	if len(rest) != 1 {
		return nil, &PathError{Path: path, Message: "path continues past a string field"}
	}
	return field, nil
}

// lineAt resolves the single remaining index segment into a slice of lines.
func lineAt(lines []string, rest []string, path string) (*string, error) {
	if len(rest) != 1 {
		return nil, &PathError{Path: path, Message: "expected a single line index"}
	}
	i, ok := index(rest, 0, len(lines))
	if !ok {
		return nil, &PathError{Path: path, Message: "line out of range"}
	}
	return &lines[i], nil
}

func index(segs []string, pos, length int) (int, bool) {
	if pos >= len(segs) {
		return 0, false
	}
	i, err := strconv.Atoi(segs[pos])
	if err != nil || i < 0 || i >= length {
		return 0, false
	}
	return i, true
}

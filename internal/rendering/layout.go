package rendering

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-refiner/internal/parsing"
	"github.com/jonathan/resume-refiner/internal/types"
)

// BlockKind identifies how a block is drawn.
type BlockKind int

// Block kinds.
const (
	// BlockLines is a run of standalone lines (entry headers, paragraphs).
	BlockLines BlockKind = iota + 1
	// BlockBullets is a bulleted list.
	BlockBullets
	// BlockGrid is a multi-column list, column-major.
	BlockGrid
	// BlockItems is a plain single-column list of custom-section lines.
	BlockItems
)

// LineStyle is the typographic role of a line.
type LineStyle int

// Line styles.
const (
	StyleBody LineStyle = iota
	StyleEntryHeader
	StyleEntryTitle
	StyleDates
)

// Span is a run of text. Path names the record field it was copied from, when it maps 1:1.
type Span struct {
	Text string
	Path string
	Bold bool
}

// Line is a paragraph-level line. Right holds text pushed to the right margin; RightPath is
// its record path, empty when the text was rewritten for display.
type Line struct {
	Spans     []Span
	Right     string
	RightPath string
	Style     LineStyle
}

// Text returns the line's left-hand text.
func (l Line) Text() string {
	var sb strings.Builder
	for _, s := range l.Spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// Item is one list entry. Key, when set, is drawn bold ahead of Text.
type Item struct {
	Key  string
	Text string
	Path string
}

// Block is a group of lines or items inside a section.
type Block struct {
	Kind    BlockKind
	Lines   []Line
	Items   []Item
	Columns [][]Item
}

// Section is a headed part of the document.
type Section struct {
	Key     string
	Heading string
	Blocks  []Block
}

// Document is the format-specific layout of a record. Every renderer draws a Document, so the
// preview and both exports share one set of layout decisions.
type Document struct {
	Profile   *Profile
	Name      string
	NameAlign Alignment
	Contact   []Span
	Sections  []Section
}

// BuildLayout lays out a record under a profile. Section order is fixed: summary, experience,
// internships, education, then custom sections in record order. Empty sections are omitted.
func BuildLayout(record *types.ResumeRecord, profile *Profile) *Document {
	doc := &Document{
		Profile:   profile,
		Name:      record.FullName,
		NameAlign: profile.NameAlign,
		Contact:   contactSpans(record.ContactInfo, profile),
	}

	if s, ok := summarySection(record, profile); ok {
		doc.Sections = append(doc.Sections, s)
	}
	if s, ok := experienceSection("experience", record.Title("experience"), record.Experience, profile); ok {
		doc.Sections = append(doc.Sections, s)
	}
	if s, ok := experienceSection("internships", record.Title("internships"), record.Internships, profile); ok {
		doc.Sections = append(doc.Sections, s)
	}
	if s, ok := educationSection(record, profile); ok {
		doc.Sections = append(doc.Sections, s)
	}
	for i, cs := range record.CustomSections {
		if s, ok := customSection(i, cs, profile); ok {
			doc.Sections = append(doc.Sections, s)
		}
	}
	return doc
}

func contactSpans(ci *types.ContactInfo, profile *Profile) []Span {
	if ci == nil {
		return nil
	}
	var spans []Span
	add := func(text, path string) {
		if strings.TrimSpace(text) == "" {
			return
		}
		if len(spans) > 0 {
			spans = append(spans, Span{Text: " | "})
		}
		spans = append(spans, Span{Text: text, Path: path})
	}
	if profile.Contact == ContactLocation {
		add(ci.Location, "contactInfo.location")
		return spans
	}
	add(ci.Email, "contactInfo.email")
	add(ci.Phone, "contactInfo.phone")
	add(ci.Location, "contactInfo.location")
	for i, link := range ci.Links {
		add(link, fmt.Sprintf("contactInfo.links.%d", i))
	}
	return spans
}

func summarySection(record *types.ResumeRecord, profile *Profile) (Section, bool) {
	var lines []Line
	for i, s := range record.Summary {
		if strings.TrimSpace(s) == "" {
			continue
		}
		lines = append(lines, Line{Spans: []Span{{Text: s, Path: fmt.Sprintf("summary.%d", i)}}})
	}
	if len(lines) == 0 {
		return Section{}, false
	}
	return Section{
		Key:     "summary",
		Heading: profile.Heading(record.Title("summary")),
		Blocks:  []Block{{Kind: BlockLines, Lines: lines}},
	}, true
}

func experienceSection(key, title string, entries []types.ExperienceEntry, profile *Profile) (Section, bool) {
	if len(entries) == 0 {
		return Section{}, false
	}
	sec := Section{Key: key, Heading: profile.Heading(title)}
	for i, e := range entries {
		base := fmt.Sprintf("%s.%d", key, i)
		header := entryHeader(profile,
			Span{Text: e.Company, Path: base + ".company", Bold: true},
			e.Location, base+".location",
			Span{Text: e.Title, Path: base + ".title"},
			e.Dates, base+".dates",
		)
		sec.Blocks = append(sec.Blocks, Block{Kind: BlockLines, Lines: header})
		if bullets := bulletItems(e.Description, base+".description", profile); len(bullets) > 0 {
			sec.Blocks = append(sec.Blocks, Block{Kind: BlockBullets, Items: bullets})
		}
	}
	return sec, true
}

func educationSection(record *types.ResumeRecord, profile *Profile) (Section, bool) {
	if len(record.Education) == 0 {
		return Section{}, false
	}
	sec := Section{Key: "education", Heading: profile.Heading(record.Title("education"))}
	for i, e := range record.Education {
		base := fmt.Sprintf("education.%d", i)
		header := entryHeader(profile,
			Span{Text: e.Institution, Path: base + ".institution", Bold: true},
			e.Location, base+".location",
			Span{Text: e.Degree, Path: base + ".degree"},
			e.Dates, base+".dates",
		)
		sec.Blocks = append(sec.Blocks, Block{Kind: BlockLines, Lines: header})
		if details := bulletItems(e.Details, base+".details", profile); len(details) > 0 {
			sec.Blocks = append(sec.Blocks, Block{Kind: BlockBullets, Items: details})
		}
	}
	return sec, true
}

// entryHeader lays out the organization, location, role and dates of one entry.
func entryHeader(profile *Profile, org Span, location, locationPath string, role Span, dates, datesPath string) []Line {
	orgLine := Line{Style: StyleEntryHeader}
	if org.Text != "" {
		orgLine.Spans = append(orgLine.Spans, org)
	}
	if location != "" {
		if len(orgLine.Spans) > 0 {
			orgLine.Spans = append(orgLine.Spans, Span{Text: ", "})
		}
		orgLine.Spans = append(orgLine.Spans, Span{Text: location, Path: locationPath})
	}

	var lines []Line
	switch profile.JobLayout {
	case JobStacked:
		if dates != "" {
			text, path := displayDates(profile, dates, datesPath)
			lines = append(lines, Line{Spans: []Span{{Text: text, Path: path}}, Style: StyleDates})
		}
		if len(orgLine.Spans) > 0 {
			lines = append(lines, orgLine)
		}
	default:
		orgLine.Right, orgLine.RightPath = displayDates(profile, dates, datesPath)
		if len(orgLine.Spans) > 0 || orgLine.Right != "" {
			lines = append(lines, orgLine)
		}
	}
	if role.Text != "" {
		lines = append(lines, Line{Spans: []Span{role}, Style: StyleEntryTitle})
	}
	return lines
}

// displayDates applies the profile's month style. Rewritten dates drop their path: issue
// offsets refer to the stored text and cannot be placed in the rewritten one.
func displayDates(profile *Profile, dates, path string) (string, string) {
	shown := profile.Dates(dates)
	if shown != dates {
		return shown, ""
	}
	return dates, path
}

// bulletItems splits over-long lines into sentences. Fragments keep the path of their source
// line so highlights can still be placed.
func bulletItems(lines []string, basePath string, profile *Profile) []Item {
	var items []Item
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		path := fmt.Sprintf("%s.%d", basePath, i)
		for _, frag := range parsing.SplitLongSentences([]string{line}, profile.SplitThreshold) {
			items = append(items, Item{Text: frag, Path: path})
		}
	}
	return items
}

func customSection(index int, cs types.CustomSection, profile *Profile) (Section, bool) {
	base := fmt.Sprintf("customSections.%d.items", index)
	var items []Item
	for i, line := range cs.Items {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		items = append(items, customItem(line, fmt.Sprintf("%s.%d", base, i), profile))
	}
	if len(items) == 0 {
		return Section{}, false
	}

	sec := Section{Key: fmt.Sprintf("customSections.%d", index), Heading: profile.Heading(cs.Title)}
	if profile.IsGridSection(cs.Title) && fitsGrid(items, profile.GridMaxItemLength) && profile.GridColumns > 1 {
		sec.Blocks = []Block{{Kind: BlockGrid, Columns: splitColumns(items, profile.GridColumns)}}
	} else {
		sec.Blocks = []Block{{Kind: BlockItems, Items: items}}
	}
	return sec, true
}

func customItem(line, path string, profile *Profile) Item {
	if profile.BoldKeys {
		if key, value, ok := parsing.SplitKeyValue(line); ok {
			return Item{Key: key, Text: value, Path: path}
		}
	}
	return Item{Text: line, Path: path}
}

// fitsGrid reports whether no item exceeds limit characters.
func fitsGrid(items []Item, limit int) bool {
	for _, it := range items {
		n := utf8.RuneCountInString(it.Text)
		if it.Key != "" {
			n += utf8.RuneCountInString(it.Key) + 2
		}
		if n > limit {
			return false
		}
	}
	return true
}

// splitColumns fills columns top to bottom: 6 items in 2 columns become 3 and 3.
func splitColumns(items []Item, columns int) [][]Item {
	perColumn := (len(items) + columns - 1) / columns
	out := make([][]Item, 0, columns)
	for start := 0; start < len(items); start += perColumn {
		end := start + perColumn
		if end > len(items) {
			end = len(items)
		}
		out = append(out, items[start:end])
	}
	return out
}

// Rows transposes grid columns into rows for table-based renderers. Short columns yield
// zero-value items.
func (b Block) Rows() [][]Item {
	if len(b.Columns) == 0 {
		return nil
	}
	n := len(b.Columns[0])
	rows := make([][]Item, n)
	for r := 0; r < n; r++ {
		rows[r] = make([]Item, len(b.Columns))
		for c, col := range b.Columns {
			if r < len(col) {
				rows[r][c] = col[r]
			}
		}
	}
	return rows
}

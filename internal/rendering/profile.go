package rendering

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/resume-refiner/internal/parsing"
	"github.com/jonathan/resume-refiner/internal/types"
)

//go:embed profiles.yaml
var profilesYAML []byte

// Alignment of the name line.
type Alignment string

// Name alignments.
const (
	AlignCenter Alignment = "center"
	AlignLeft   Alignment = "left"
)

// ContactMode selects what the contact line shows.
type ContactMode string

// Contact modes.
const (
	ContactFull     ContactMode = "full"
	ContactLocation ContactMode = "location"
)

// JobLayout selects how an entry header is laid out.
type JobLayout string

// Job layouts.
const (
	// JobInline puts "Company, Location" and right-aligned dates on one line, then the title.
	JobInline JobLayout = "inline"
	// JobStacked puts dates, "Company, Location" and the title on their own lines.
	JobStacked JobLayout = "stacked"
)

// MonthStyle selects how month names in entry dates are written.
type MonthStyle string

// Month styles.
const (
	MonthsKeep  MonthStyle = "keep"
	MonthsFull  MonthStyle = "full"
	MonthsShort MonthStyle = "short"
)

// Profile is the data-driven layout rule set for one format.
type Profile struct {
	Format            types.Format `yaml:"-"`
	Name              string       `yaml:"name"`
	HeadingCase       string       `yaml:"heading_case"`
	NameAlign         Alignment    `yaml:"name_align"`
	Contact           ContactMode  `yaml:"contact"`
	JobLayout         JobLayout    `yaml:"job_layout"`
	Months            MonthStyle   `yaml:"months"`
	GridSections      []string     `yaml:"grid_sections"`
	GridMaxItemLength int          `yaml:"grid_max_item_length"`
	GridColumns       int          `yaml:"grid_columns"`
	BoldKeys          bool         `yaml:"bold_keys"`
	SplitThreshold    int          `yaml:"split_threshold"`
	Font              string       `yaml:"font"`
	FontSizePt        int          `yaml:"font_size_pt"`
	AccentColor       string       `yaml:"accent_color"`
}

var (
	profilesOnce sync.Once
	profiles     map[types.Format]*Profile
	profilesErr  error
)

// Profiles returns every embedded profile keyed by format.
func Profiles() (map[types.Format]*Profile, error) {
	profilesOnce.Do(func() {
		profiles, profilesErr = parseProfiles(profilesYAML)
	})
	return profiles, profilesErr
}

// ProfileFor returns the profile of a format.
func ProfileFor(format types.Format) (*Profile, error) {
	all, err := Profiles()
	if err != nil {
		return nil, err
	}
	p, ok := all[format]
	if !ok {
		return nil, &RenderError{Message: fmt.Sprintf("no layout profile for format %q", format)}
	}
	return p, nil
}

func parseProfiles(data []byte) (map[types.Format]*Profile, error) {
	var raw map[string]*Profile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &TemplateError{Template: "profiles", Message: "failed to parse", Cause: err}
	}
	out := make(map[types.Format]*Profile, len(raw))
	for key, p := range raw {
		f, err := types.ParseFormat(key)
		if err != nil {
			return nil, &TemplateError{Template: "profiles", Message: "invalid profile", Cause: err}
		}
		p.Format = f
		switch p.Months {
		case "":
			p.Months = MonthsKeep
		case MonthsKeep, MonthsFull, MonthsShort:
		default:
			return nil, &TemplateError{Template: "profiles", Message: fmt.Sprintf("%s: unknown month style %q", key, p.Months)}
		}
		if p.GridColumns < 1 {
			p.GridColumns = 1
		}
		out[f] = p
	}
	return out, nil
}

// Dates rewrites month names in an entry's dates per the profile.
func (p *Profile) Dates(s string) string {
	switch p.Months {
	case MonthsFull:
		return parsing.ExpandMonths(s)
	case MonthsShort:
		return parsing.AbbreviateMonths(s)
	}
	return s
}

// Heading applies the profile's heading case.
func (p *Profile) Heading(title string) string {
	switch p.HeadingCase {
	case "upper":
		return strings.ToUpper(title)
	case "lower":
		return strings.ToLower(title)
	}
	return title
}

// IsGridSection reports whether a custom section title names a grid-eligible section.
func (p *Profile) IsGridSection(title string) bool {
	t := strings.ToLower(title)
	for _, kw := range p.GridSections {
		if strings.Contains(t, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

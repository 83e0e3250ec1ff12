package rendering

import (
	"embed"
	"html/template"
	"strings"
	"sync"

	"github.com/jonathan/resume-refiner/internal/review"
	"github.com/jonathan/resume-refiner/internal/types"
)

//go:embed templates/*.tmpl
var templateFiles embed.FS

var (
	htmlOnce sync.Once
	htmlTmpl *template.Template
	htmlErr  error
)

func documentTemplate() (*template.Template, error) {
	htmlOnce.Do(func() {
		htmlTmpl, htmlErr = template.ParseFS(templateFiles, "templates/document.html.tmpl")
		if htmlErr != nil {
			htmlErr = &TemplateError{Template: "html", Message: "failed to parse", Cause: htmlErr}
		}
	})
	return htmlTmpl, htmlErr
}

// HTMLOptions controls the HTML output.
type HTMLOptions struct {
	// Issues are highlighted inline where they can still be found. Leave empty for print.
	Issues []types.GrammarIssue
}

type htmlRun struct {
	Text  string
	Bold  bool
	Issue *types.GrammarIssue
}

type htmlLine struct {
	Class string
	Runs  []htmlRun
	Right []htmlRun
}

type htmlItem struct {
	Key  string
	Runs []htmlRun
}

type htmlBlock struct {
	Class   string
	Lines   []htmlLine
	Items   []htmlItem
	Columns [][]htmlItem
}

type htmlSection struct {
	Key     string
	Heading string
	Blocks  []htmlBlock
}

type htmlView struct {
	Name        string
	NameAlign   string
	Format      string
	Font        string
	FontSize    int
	Accent      string
	GridColumns int
	Contact     []htmlRun
	Sections    []htmlSection
}

// RenderHTML draws a laid-out document as a standalone HTML page.
func RenderHTML(doc *Document, opts HTMLOptions) (string, error) {
	tmpl, err := documentTemplate()
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, buildHTMLView(doc, opts.Issues)); err != nil {
		return "", &TemplateError{Template: "html", Message: "failed to execute", Cause: err}
	}
	return sb.String(), nil
}

func buildHTMLView(doc *Document, issues []types.GrammarIssue) htmlView {
	p := doc.Profile
	view := htmlView{
		Name:        doc.Name,
		NameAlign:   string(doc.NameAlign),
		Format:      string(p.Format),
		Font:        p.Font,
		FontSize:    p.FontSizePt,
		Accent:      p.AccentColor,
		GridColumns: p.GridColumns,
		Contact:     runs(doc.Contact, issues),
	}
	for _, s := range doc.Sections {
		hs := htmlSection{Key: s.Key, Heading: s.Heading}
		for _, b := range s.Blocks {
			hb := htmlBlock{}
			switch b.Kind {
			case BlockLines:
				for _, l := range b.Lines {
					hl := htmlLine{Class: lineClass(l.Style), Runs: runs(l.Spans, issues)}
					if l.Right != "" {
						hl.Right = runs([]Span{{Text: l.Right, Path: l.RightPath}}, issues)
					}
					hb.Lines = append(hb.Lines, hl)
				}
			case BlockGrid:
				for _, col := range b.Columns {
					hb.Columns = append(hb.Columns, htmlItems(col, issues))
				}
			case BlockBullets:
				hb.Class = "bullets"
				hb.Items = htmlItems(b.Items, issues)
			case BlockItems:
				hb.Class = "items"
				hb.Items = htmlItems(b.Items, issues)
			}
			hs.Blocks = append(hs.Blocks, hb)
		}
		view.Sections = append(view.Sections, hs)
	}
	return view
}

func lineClass(style LineStyle) string {
	switch style {
	case StyleEntryHeader:
		return "entry-header"
	case StyleEntryTitle:
		return "entry-title"
	case StyleDates:
		return "dates"
	}
	return "body"
}

func htmlItems(items []Item, issues []types.GrammarIssue) []htmlItem {
	out := make([]htmlItem, 0, len(items))
	for _, it := range items {
		out = append(out, htmlItem{Key: it.Key, Runs: runs([]Span{{Text: it.Text, Path: it.Path}}, issues)})
	}
	return out
}

// runs converts spans to template runs, splitting out highlighted issue text.
func runs(spans []Span, issues []types.GrammarIssue) []htmlRun {
	var out []htmlRun
	for _, s := range spans {
		if s.Path == "" || len(issues) == 0 {
			out = append(out, htmlRun{Text: s.Text, Bold: s.Bold})
			continue
		}
		for _, seg := range review.Segments(s.Text, review.LocateIssues(issues, s.Path, s.Text)) {
			out = append(out, htmlRun{Text: seg.Text, Bold: s.Bold && seg.Issue == nil, Issue: seg.Issue})
		}
	}
	return out
}

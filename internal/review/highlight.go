package review

import (
	"sort"
	"strings"

	"github.com/jonathan/resume-refiner/internal/types"
)

// Located is an open issue positioned in the current text of its field.
type Located struct {
	Issue types.GrammarIssue
	Start int
	End   int
}

// Segment is a run of field text, highlighted when Issue is set.
type Segment struct {
	Text  string
	Issue *types.GrammarIssue
}

// IssuesForField returns the open issues for path that can still be found in text, ordered
// by position. Issues whose error text is gone are skipped.
func (s *Session) IssuesForField(path, text string) []Located {
	return LocateIssues(s.Issues(), path, text)
}

// LocateIssues positions issues against the text of one field.
func LocateIssues(issues []types.GrammarIssue, path, text string) []Located {
	want := NormalizePath(path)
	var out []Located
	for _, issue := range issues {
		if issue.ErrorText == "" || NormalizePath(issue.Path) != want {
			continue
		}
		at := strings.Index(text, issue.ErrorText)
		if at < 0 {
			continue
		}
		out = append(out, Located{Issue: issue, Start: at, End: at + len(issue.ErrorText)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// Segments splits text into plain and highlighted runs. located must be sorted by Start.
// Overlapping spans are clipped to the end of the previous highlight.
func Segments(text string, located []Located) []Segment {
	var out []Segment
	cursor := 0
	for i := range located {
		start, end := located[i].Start, located[i].End
		if end > len(text) {
			end = len(text)
		}
		if start < cursor {
			start = cursor
		}
		if start >= end {
			continue
		}
		if start > cursor {
			out = append(out, Segment{Text: text[cursor:start]})
		}
		issue := located[i].Issue
		out = append(out, Segment{Text: text[start:end], Issue: &issue})
		cursor = end
	}
	if cursor < len(text) {
		out = append(out, Segment{Text: text[cursor:]})
	}
	return out
}

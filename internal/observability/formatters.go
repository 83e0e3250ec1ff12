// Package observability provides logging setup and formatted output for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/davecgh/go-spew/spew"

	"github.com/jonathan/resume-refiner/internal/review"
	"github.com/jonathan/resume-refiner/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)
	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}
	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

// PrintRecord outputs a summary of an extracted record.
func (p *Printer) PrintRecord(record *types.ResumeRecord) {
	if record == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:      %s\n", record.FullName))
	if ci := record.ContactInfo; ci != nil {
		if ci.Email != "" {
			sb.WriteString(fmt.Sprintf("Email:     %s\n", ci.Email))
		}
		if ci.Location != "" {
			sb.WriteString(fmt.Sprintf("Location:  %s\n", ci.Location))
		}
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Summary lines:  %d\n", len(record.Summary)))
	sb.WriteString(fmt.Sprintf("Experience:     %d\n", len(record.Experience)))
	sb.WriteString(fmt.Sprintf("Internships:    %d\n", len(record.Internships)))
	sb.WriteString(fmt.Sprintf("Education:      %d\n", len(record.Education)))

	if len(record.CustomSections) > 0 {
		sb.WriteString("\nCustom sections:\n")
		for _, cs := range record.CustomSections {
			sb.WriteString(fmt.Sprintf("  • %s (%d items)\n", cs.Title, len(cs.Items)))
		}
	}
	if n := len(record.ExtractionChanges); n > 0 {
		sb.WriteString(fmt.Sprintf("\nExtraction changes: %d", n))
	}

	p.printBox("EXTRACTED RECORD", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintIssues outputs the open grammar issues.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintIssues(issues []types.GrammarIssue) {
	if len(issues) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ NO ISSUES FOUND")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d issues:\n\n", len(issues)))
	for i, issue := range issues {
		sb.WriteString(fmt.Sprintf("[%d] %s  %s\n", i+1, issue.Type, issue.Path))
		sb.WriteString(fmt.Sprintf("    %q → %s\n", issue.ErrorText, strings.Join(issue.Suggestions, " | ")))
		if issue.Reason != "" {
			sb.WriteString(fmt.Sprintf("    %s\n", issue.Reason))
		}
		if i < len(issues)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("GRAMMAR ISSUES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintChangeLog outputs the most recent change-log entries with an inline diff.
func (p *Printer) PrintChangeLog(entries []types.ChangeLogEntry) {
	if len(entries) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(entries), maxItemsToShow)
	for i := 0; i < count; i++ {
		e := entries[i]
		if !e.Undoable() {
			sb.WriteString(fmt.Sprintf("ⓘ %s: %s\n", e.OriginalValue, e.NewValue))
		} else {
			sb.WriteString(fmt.Sprintf("✎ %s  [%s]\n", e.FieldPath, e.ID))
			sb.WriteString(fmt.Sprintf("  %s\n", review.ChangeDiff(e)))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}
	if len(entries) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d older changes", len(entries)-maxItemsToShow))
	}

	p.printBox("CHANGE LOG", strings.TrimSuffix(sb.String(), "\n"))
}

// Dump writes a full structural dump of v, for --debug.
func (p *Printer) Dump(label string, v any) {
	cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}
	_, _ = fmt.Fprintf(p.out, "=== %s ===\n", label)
	cfg.Fdump(p.out, v)
}

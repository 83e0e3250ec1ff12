package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-refiner/internal/extraction"
	"github.com/jonathan/resume-refiner/internal/grammar"
	"github.com/jonathan/resume-refiner/internal/observability"
	"github.com/jonathan/resume-refiner/internal/rendering"
	"github.com/jonathan/resume-refiner/internal/review"
	"github.com/jonathan/resume-refiner/internal/types"
)

var reviewOutDir string

var reviewCmd = &cobra.Command{
	Use:   "review <file>",
	Short: "Extract, analyze and interactively correct a résumé",
	Long: "Extracts a résumé (or loads a record JSON written by extract), runs grammar analysis and " +
		"opens an interactive prompt to accept, ignore or undo corrections before exporting.\n\n" + reviewHelp,
	Args: cobra.ExactArgs(1),
	RunE: runReview,
}

const reviewHelp = `Commands:
  list                     show open issues
  show N                   show issue N highlighted in its field
  accept N [K]             apply suggestion K (default 1) of issue N
  ignore N                 dismiss issue N
  all spelling|grammar|style
                           accept the first suggestion of every issue of that type
  undo N|ID                revert change-log entry N (1 is the newest) or the entry with ID
  log                      show the change log
  analyze                  run analysis again on the current record
  format classic|modern    switch the output format
  export [docx|pdf|html|all]
  save PATH                write the current record as JSON
  help
  quit`

func init() {
	reviewCmd.Flags().StringVarP(&reviewOutDir, "out-dir", "o", "", "Directory for exported files (default from config)")
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	client := a.modelClient()
	var record *types.ResumeRecord
	if strings.EqualFold(filepath.Ext(args[0]), ".json") {
		record, err = readRecord(args[0])
	} else {
		var doc *extraction.Document
		doc, err = loadDocument(args[0])
		if err == nil {
			ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.ModelTimeout())
			record, err = extraction.NewExtractor(client, a.logger).Extract(ctx, doc, a.format())
			cancel()
		}
	}
	if err != nil {
		return err
	}

	dir := reviewOutDir
	if dir == "" {
		dir = a.cfg.OutputDir
	}
	r := &reviewer{
		session:  review.NewSession(record, a.logger),
		analyzer: grammar.NewAnalyzer(client, a.logger),
		exporter: a.exporter(),
		printer:  a.printer,
		out:      cmd.OutOrStdout(),
		format:   a.format(),
		outDir:   dir,
		timeout:  a.cfg.ModelTimeout(),
	}
	if a.cfg.Verbose {
		a.printer.PrintRecord(record)
	}
	if debug {
		a.printer.Dump("record", record)
	}
	if err := r.analyze(cmd.Context()); err != nil {
		return err
	}
	return r.run(cmd.Context(), cmd.InOrStdin())
}

// issueAnalyzer is the part of grammar.Analyzer the review loop needs.
type issueAnalyzer interface {
	Analyze(ctx context.Context, record *types.ResumeRecord, format types.Format) ([]types.GrammarIssue, error)
}

// reviewer drives one interactive review session over a line-oriented reader.
type reviewer struct {
	session  *review.Session
	analyzer issueAnalyzer
	exporter *rendering.Exporter
	printer  *observability.Printer
	out      io.Writer
	format   types.Format
	outDir   string
	timeout  time.Duration
}

// run reads commands until quit or EOF. Command errors are reported and the loop continues.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (r *reviewer) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprint(r.out, "> ")
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) > 0 {
			switch fields[0] {
			case "quit", "exit", "q":
				return nil
			}
			if err := r.dispatch(ctx, fields); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				fmt.Fprintf(r.out, "error: %v\n", err)
			}
		}
		fmt.Fprint(r.out, "> ")
	}
	return scanner.Err()
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func (r *reviewer) dispatch(ctx context.Context, fields []string) error {
	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "help", "?":
		fmt.Fprintln(r.out, reviewHelp)
	case "list", "ls":
		r.printer.PrintIssues(r.session.Issues())
	case "show":
		return r.show(args)
	case "accept", "a":
		return r.accept(args)
	case "ignore", "i":
		if len(args) != 1 {
			return fmt.Errorf("usage: ignore N")
		}
		issue, err := r.issueAt(args[0])
		if err != nil {
			return err
		}
		if err := r.session.Ignore(issue.ID); err != nil {
			return err
		}
		fmt.Fprintf(r.out, "Ignored %q in %s\n", issue.ErrorText, issue.Path)
	case "all":
		if len(args) != 1 {
			return fmt.Errorf("usage: all spelling|grammar|style")
		}
		kind := types.IssueType(strings.ToUpper(args[0]))
		switch kind {
		case types.IssueSpelling, types.IssueGrammar, types.IssueStyle:
		default:
			return fmt.Errorf("unknown issue type %q", args[0])
		}
		n, err := r.session.AcceptAll(kind)
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "Applied %d %s corrections\n", n, strings.ToLower(string(kind)))
	case "undo", "u":
		return r.undo(args)
	case "log":
		entries := r.session.ChangeLog()
		if len(entries) == 0 {
			fmt.Fprintln(r.out, "No changes yet")
			return nil
		}
		r.printer.PrintChangeLog(entries)
	case "analyze":
		return r.analyze(ctx)
	case "format":
		if len(args) != 1 {
			return fmt.Errorf("usage: format classic|modern")
		}
		f, err := types.ParseFormat(strings.Join(args, " "))
		if err != nil {
			return err
		}
		r.format = f
		fmt.Fprintf(r.out, "Format set to %s\n", f)
	case "export":
		kind := "all"
		if len(args) > 0 {
			kind = args[0]
		}
		return exportRecord(ctx, r.exporter, r.session.Record(), r.format, kind, r.outDir, r.out)
	case "save":
		if len(args) != 1 {
			return fmt.Errorf("usage: save PATH")
		}
		if err := writeJSONFile(args[0], r.session.Record()); err != nil {
			return err
		}
		fmt.Fprintf(r.out, "Wrote %s\n", args[0])
	default:
		return fmt.Errorf("unknown command %q (type help)", cmd)
	}
	return nil
}

// analyze replaces the open issues with a fresh analysis of the current record.
func (r *reviewer) analyze(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	issues, err := r.analyzer.Analyze(ctx, r.session.Record(), r.format)
	if err != nil {
		return err
	}
	r.session.SetIssues(issues)
	r.printer.PrintIssues(r.session.Issues())
	return nil
}

// issueAt resolves a 1-based position in the open issue list.
func (r *reviewer) issueAt(arg string) (types.GrammarIssue, error) {
	issues := r.session.Issues()
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(issues) {
		return types.GrammarIssue{}, fmt.Errorf("no issue %s (%d open)", arg, len(issues))
	}
	return issues[n-1], nil
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func (r *reviewer) show(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: show N")
	}
	issue, err := r.issueAt(args[0])
	if err != nil {
		return err
	}
	text, ok := review.GetString(r.session.Record(), issue.Path)
	if !ok {
		return &review.PathError{Path: issue.Path, Message: "no longer in the record"}
	}

	var sb strings.Builder
	for _, seg := range review.Segments(text, r.session.IssuesForField(issue.Path, text)) {
		if seg.Issue != nil {
			sb.WriteString("[[" + seg.Text + "]]")
		} else {
			sb.WriteString(seg.Text)
		}
	}
	fmt.Fprintf(r.out, "%s: %s\n", review.NormalizePath(issue.Path), sb.String())
	for i, s := range issue.Suggestions {
		fmt.Fprintf(r.out, "  %d) %s\n", i+1, s)
	}
	return nil
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func (r *reviewer) accept(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("usage: accept N [K]")
	}
	issue, err := r.issueAt(args[0])
	if err != nil {
		return err
	}
	suggestion := ""
	if len(args) == 2 {
		k, err := strconv.Atoi(args[1])
		if err != nil || k < 1 || k > len(issue.Suggestions) {
			return fmt.Errorf("issue %s has %d suggestions", args[0], len(issue.Suggestions))
		}
		suggestion = issue.Suggestions[k-1]
	}

	outcome, err := r.session.Accept(issue.ID, suggestion)
	if err != nil {
		return err
	}
	if !outcome.Applied {
		fmt.Fprintf(r.out, "Skipped %s: %s\n", issue.Path, outcome.Reason)
		return nil
	}
	fmt.Fprintf(r.out, "✎ %s  %s\n", outcome.Entry.FieldPath, review.ChangeDiff(*outcome.Entry))
	return nil
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func (r *reviewer) undo(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: undo N|ID")
	}
	id := args[0]
	if n, err := strconv.Atoi(id); err == nil {
		entries := r.session.ChangeLog()
		if n < 1 || n > len(entries) {
			return fmt.Errorf("no change %d (%d logged)", n, len(entries))
		}
		id = entries[n-1].ID
	}

	outcome, err := r.session.Undo(id)
	if err != nil {
		return err
	}
	if !outcome.Applied {
		fmt.Fprintf(r.out, "Could not undo: %s\n", outcome.Reason)
		return nil
	}
	fmt.Fprintf(r.out, "Reverted %s: %q → %q\n", outcome.Entry.FieldPath, outcome.Entry.NewValue, outcome.Entry.OriginalValue)
	return nil
}

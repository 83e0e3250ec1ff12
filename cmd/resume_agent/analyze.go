package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-refiner/internal/grammar"
)

var analyzeJSON bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze <record.json>",
	Short: "List spelling, grammar and style issues in a record",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print issues as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	record, err := readRecord(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.ModelTimeout())
	defer cancel()
	issues, err := grammar.NewAnalyzer(a.modelClient(), a.logger).Analyze(ctx, record, a.format())
	if err != nil {
		return err
	}

	if analyzeJSON {
		return writeJSON(cmd.OutOrStdout(), issues)
	}
	a.printer.PrintIssues(issues)
	return nil
}

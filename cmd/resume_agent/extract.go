package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-refiner/internal/extraction"
	"github.com/jonathan/resume-refiner/internal/review"
)

var extractOutput string

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract a résumé into a structured record",
	Long: "Reads a résumé (PDF, image, DOCX, RTF, Markdown or plain text) and extracts it into a " +
		"structured JSON record. Phone numbers and emails outside the contact block are removed and " +
		"reported as extraction changes.",
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractOutput, "out", "o", "", "Path to write the record JSON (stdout when empty)")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	doc, err := loadDocument(args[0])
	if err != nil {
		return err
	}
	a.logger.Info("extracting résumé",
		zap.String("file", doc.Filename),
		zap.String("mime_type", doc.MIMEType),
		zap.String("format", string(a.format())),
	)

	ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.ModelTimeout())
	defer cancel()
	record, err := extraction.NewExtractor(a.modelClient(), a.logger).Extract(ctx, doc, a.format())
	if err != nil {
		return err
	}

	if a.cfg.Verbose {
		a.printer.PrintRecord(record)
		a.printer.PrintChangeLog(review.NewSession(record, a.logger).ChangeLog())
	}
	if debug {
		a.printer.Dump("record", record)
	}

	if extractOutput == "" {
		return writeJSON(cmd.OutOrStdout(), record)
	}
	if err := writeJSONFile(extractOutput, record); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", extractOutput)
	return nil
}

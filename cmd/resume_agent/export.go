package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-refiner/internal/rendering"
	"github.com/jonathan/resume-refiner/internal/types"
)

var (
	exportTo     string
	exportOutDir string
)

var exportCmd = &cobra.Command{
	Use:   "export <record.json>",
	Short: "Render a record as DOCX, PDF or HTML",
	Long: "Renders a record in the selected format. --to all writes DOCX and PDF; PDF export needs " +
		"Chrome or Chromium (set CHROME_PATH or chrome_path in the config file when it is not on PATH).",
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportTo, "to", "all", "Output kind: docx, pdf, html or all")
	exportCmd.Flags().StringVarP(&exportOutDir, "out-dir", "o", "", "Directory for exported files (default from config)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	record, err := readRecord(args[0])
	if err != nil {
		return err
	}
	dir := exportOutDir
	if dir == "" {
		dir = a.cfg.OutputDir
	}

	return exportRecord(cmd.Context(), a.exporter(), record, a.format(), exportTo, dir, cmd.ErrOrStderr())
}

// exportRecord renders record as kind ("all" for DOCX and PDF) and writes the files to dir.
func exportRecord(ctx context.Context, exporter *rendering.Exporter, record *types.ResumeRecord, format types.Format, kind, dir string, out io.Writer) error {
	var artifacts []rendering.Artifact
	if kind == "all" {
		all, err := exporter.ExportAll(ctx, record, format)
		if err != nil {
			return err
		}
		artifacts = all
	} else {
		k, err := rendering.ParseKind(kind)
		if err != nil {
			return err
		}
		artifact, err := exporter.Export(ctx, record, format, k)
		if err != nil {
			return err
		}
		artifacts = append(artifacts, *artifact)
	}

	for _, artifact := range artifacts {
		path, err := writeArtifact(dir, record, artifact)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %s (%s, %d bytes)\n", path, format, len(artifact.Data))
	}
	return nil
}

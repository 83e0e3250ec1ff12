package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-refiner/internal/config"
	"github.com/jonathan/resume-refiner/internal/extraction"
	"github.com/jonathan/resume-refiner/internal/llm"
	"github.com/jonathan/resume-refiner/internal/observability"
	"github.com/jonathan/resume-refiner/internal/rendering"
	"github.com/jonathan/resume-refiner/internal/schemas"
	"github.com/jonathan/resume-refiner/internal/types"
)

// app bundles what every command needs: merged configuration, a logger and the boxed printer.
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	printer *observability.Printer
}

// newApp merges defaults, the optional config file, the environment and the global flags,
// in that order of increasing precedence.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg := config.Defaults()
	if configFile != "" {
		loaded, err := config.LoadConfig(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded.MergeWithDefaults(cfg)
	}
	cfg.FromEnv()
	if formatFlag != "" {
		cfg.Format = formatFlag
	}
	if verbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := observability.NewLogger(cfg.Verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return &app{
		cfg:     cfg,
		logger:  logger,
		printer: observability.NewPrinter(cmd.OutOrStdout()),
	}, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}

func (a *app) format() types.Format {
	return a.cfg.OutputFormat()
}

// modelClient builds the rotating Gemini client from the credential pool.
func (a *app) modelClient() *llm.Client {
	if len(a.cfg.Credentials) == 0 {
		a.logger.Warn("no API credentials configured; set GEMINI_API_KEY or GEMINI_API_KEYS")
	}
	rotator := llm.NewRotator(a.cfg.Credentials, nil, a.logger)
	return llm.NewClient(rotator, llm.NewGeminiInvoker(nil), a.logger)
}

func (a *app) exporter() *rendering.Exporter {
	printer := &rendering.ChromePrinter{
		ExecPath: a.cfg.ChromePath,
		Timeout:  a.cfg.PrintTimeout(),
		Logger:   a.logger,
	}
	return rendering.NewExporter(printer, a.logger)
}

// loadDocument reads an input file and classifies it for extraction.
func loadDocument(path string) (*extraction.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	return extraction.DetectInput(filepath.Base(path), data)
}

// readRecord loads a record previously written by extract and checks it against the record schema.
func readRecord(path string) (*types.ResumeRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read record file: %w", err)
	}
	if err := schemas.Validate(schemas.ResumeRecordSchema, data); err != nil {
		return nil, fmt.Errorf("record file %s is invalid: %w", path, err)
	}
	var record types.ResumeRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to parse record file: %w", err)
	}
	return &record, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeJSONFile(path string, v any) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return writeJSON(f, v)
}

// writeArtifact saves an export under dir using the candidate-derived file name.
func writeArtifact(dir string, record *types.ResumeRecord, artifact rendering.Artifact) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(dir, artifact.Filename(record.FullName))
	if err := os.WriteFile(path, artifact.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

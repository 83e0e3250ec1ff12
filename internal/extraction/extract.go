// Package extraction turns an uploaded résumé into a normalized types.ResumeRecord through a
// forced function call on the language model.
package extraction

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/jonathan/resume-refiner/internal/llm"
	"github.com/jonathan/resume-refiner/internal/prompts"
	"github.com/jonathan/resume-refiner/internal/schemas"
	"github.com/jonathan/resume-refiner/internal/types"
)

var systemPromptKeys = []string{"system", "verbatim", "routing", "privacy", "changes", "splitting", "dates"}

// Generator is the model call used by the extractor. *llm.Client implements it.
type Generator interface {
	Generate(ctx context.Context, req llm.Request) (*llm.Response, error)
}

// Extractor runs the extraction contract against the model.
type Extractor struct {
	gen    Generator
	logger *zap.Logger
}

// NewExtractor creates an extractor. A nil logger disables logging.
func NewExtractor(gen Generator, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{gen: gen, logger: logger}
}

// Extract sends the document to the model and returns the normalized record.
// Configuration and rate-limit errors from the llm package are returned as they are;
// every other failure is an *ExtractionError.
func (e *Extractor) Extract(ctx context.Context, doc *Document, format types.Format) (*types.ResumeRecord, error) {
	req, err := buildRequest(doc, format)
	if err != nil {
		return nil, err
	}

	resp, err := e.gen.Generate(ctx, req)
	if err != nil {
		if errors.Is(err, llm.ErrNoCredentials) || errors.Is(err, llm.ErrExhausted) {
			return nil, err
		}
		return nil, &ExtractionError{Message: "model call failed", Cause: err}
	}

	call, ok := resp.Call(ToolName)
	if !ok {
		e.logger.Warn("model did not call the extraction tool",
			zap.String("model", resp.Model),
			zap.Int("text_length", len(resp.Text)),
		)
		return nil, &ExtractionError{Message: "the model did not return a structured record"}
	}

	record, err := DecodeRecord(call.Args)
	if err != nil {
		return nil, err
	}
	Normalize(record)

	e.logger.Info("resume extracted",
		zap.String("model", resp.Model),
		zap.String("file", doc.Filename),
		zap.Int("experience", len(record.Experience)),
		zap.Int("internships", len(record.Internships)),
		zap.Int("education", len(record.Education)),
		zap.Int("custom_sections", len(record.CustomSections)),
		zap.Int("changes", len(record.ExtractionChanges)),
	)
	return record, nil
}

func buildRequest(doc *Document, format types.Format) (llm.Request, error) {
	if doc == nil || (doc.Text == "" && len(doc.Data) == 0) {
		return llm.Request{}, &ExtractionError{Message: "no extractable text in the uploaded file"}
	}
	system, err := prompts.Compose(prompts.ExtractionFile, systemPromptKeys...)
	if err != nil {
		return llm.Request{}, &ExtractionError{Message: "failed to load prompts", Cause: err}
	}

	req := llm.Request{SystemInstruction: system, Tool: Tool()}
	data := map[string]string{"Format": format.DisplayName()}
	if doc.IsBinary() {
		req.Prompt = prompts.Format(prompts.MustGet(prompts.ExtractionFile, "user-binary"), data)
		req.Blob = &llm.Blob{MIMEType: doc.MIMEType, Data: doc.Data}
	} else {
		data["Text"] = doc.Text
		req.Prompt = prompts.Format(prompts.MustGet(prompts.ExtractionFile, "user"), data)
	}
	return req, nil
}

// DecodeRecord validates raw tool arguments against the record schema and decodes them.
func DecodeRecord(args map[string]any) (*types.ResumeRecord, error) {
	data, err := json.Marshal(coerceArgs(args))
	if err != nil {
		return nil, &ExtractionError{Message: "failed to encode tool arguments", Cause: err}
	}
	if err := schemas.Validate(schemas.ResumeRecordSchema, data); err != nil {
		return nil, &ExtractionError{Message: "extracted record does not match the schema", Cause: err}
	}
	var record types.ResumeRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, &ExtractionError{Message: "failed to decode extracted record", Cause: err}
	}
	return &record, nil
}

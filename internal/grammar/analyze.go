// Package grammar asks the language model to review a résumé record and returns the issues it
// reports, filtered down to the ones that can be applied to the record.
package grammar

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/resume-refiner/internal/llm"
	"github.com/jonathan/resume-refiner/internal/prompts"
	"github.com/jonathan/resume-refiner/internal/schemas"
	"github.com/jonathan/resume-refiner/internal/types"
)

var systemPromptKeys = []string{"system", "categories", "exclusions", "contract"}

// Generator is the model call used by the analyzer. *llm.Client implements it.
type Generator interface {
	Generate(ctx context.Context, req llm.Request) (*llm.Response, error)
}

// Analyzer runs grammar analysis.
type Analyzer struct {
	gen    Generator
	logger *zap.Logger
}

// NewAnalyzer creates an analyzer. A nil logger disables logging.
func NewAnalyzer(gen Generator, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{gen: gen, logger: logger}
}

type report struct {
	Issues []types.GrammarIssue `json:"issues"`
}

// Analyze returns the issues found in record. No issues yields an empty, non-nil slice; an
// error means the call itself failed.
func (a *Analyzer) Analyze(ctx context.Context, record *types.ResumeRecord, format types.Format) ([]types.GrammarIssue, error) {
	if record == nil {
		return nil, &AnalysisError{Message: "no record to analyze"}
	}
	body, err := json.MarshalIndent(record.Clone(), "", "  ")
	if err != nil {
		return nil, &AnalysisError{Message: "failed to encode record", Cause: err}
	}
	system, err := prompts.Compose(prompts.GrammarFile, systemPromptKeys...)
	if err != nil {
		return nil, &AnalysisError{Message: "failed to load prompts", Cause: err}
	}

	resp, err := a.gen.Generate(ctx, llm.Request{
		SystemInstruction: system,
		Prompt: prompts.Format(prompts.MustGet(prompts.GrammarFile, "user"), map[string]string{
			"Format": format.DisplayName(),
			"Record": string(body),
		}),
		Tool: Tool(),
	})
	if err != nil {
		return nil, err
	}

	raw, err := a.decode(resp)
	if err != nil {
		return nil, err
	}
	issues := Sanitize(record, raw, a.logger)
	a.logger.Info("grammar analysis complete",
		zap.String("model", resp.Model),
		zap.Int("reported", len(raw)),
		zap.Int("kept", len(issues)),
	)
	return issues, nil
}

// decode reads the issues from the tool call, falling back to a JSON text answer.
func (a *Analyzer) decode(resp *llm.Response) ([]types.GrammarIssue, error) {
	var data []byte
	if call, ok := resp.Call(ToolName); ok {
		encoded, err := json.Marshal(call.Args)
		if err != nil {
			return nil, &AnalysisError{Message: "failed to encode tool arguments", Cause: err}
		}
		data = encoded
	} else {
		text := llm.CleanJSONBlock(resp.Text)
		if text == "" {
			a.logger.Warn("model returned neither a tool call nor text; treating as no issues")
			return nil, nil
		}
		if text[0] == '[' {
			text = fmt.Sprintf(`{"issues":%s}`, text)
		}
		data = []byte(text)
	}

	if err := schemas.Validate(schemas.GrammarIssuesSchema, data); err != nil {
		a.logger.Warn("grammar report does not fully match its schema", zap.Error(err))
	}

	var r report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, &AnalysisError{Message: "failed to decode reported issues", Cause: err}
	}
	return r.Issues, nil
}

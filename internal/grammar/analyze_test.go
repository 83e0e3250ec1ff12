package grammar

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-refiner/internal/llm"
	"github.com/jonathan/resume-refiner/internal/types"
)

type fakeGenerator struct {
	resp *llm.Response
	err  error
	req  llm.Request
}

func (f *fakeGenerator) Generate(_ context.Context, req llm.Request) (*llm.Response, error) {
	f.req = req
	return f.resp, f.err
}

func testRecord() *types.ResumeRecord {
	return &types.ResumeRecord{
		FullName:    "Jane Doe",
		ContactInfo: &types.ContactInfo{},
		Summary:     []string{"Engineer who ship reliable systems."},
		Experience: []types.ExperienceEntry{{
			Company:     "Acme",
			Title:       "Engineer",
			Description: []string{"Built the billing platform.", "Led the team to sucess"},
		}},
	}
}

func issueArgs(issues ...map[string]any) map[string]any {
	list := make([]any, len(issues))
	for i, is := range issues {
		list[i] = is
	}
	return map[string]any{"issues": list}
}

func sucessArgs() map[string]any {
	return map[string]any{
		"path":        "experience[0].description[1]",
		"original":    "Led the team to sucess",
		"errorText":   "sucess",
		"suggestions": []any{"success", "a success", "successfully"},
		"reason":      "Misspelling",
		"type":        "SPELLING",
	}
}

func TestAnalyze_ToolCall(t *testing.T) {
	gen := &fakeGenerator{resp: &llm.Response{
		FunctionCalls: []llm.FunctionCall{{Name: ToolName, Args: issueArgs(sucessArgs())}},
	}}
	issues, err := NewAnalyzer(gen, nil).Analyze(context.Background(), testRecord(), types.FormatClassic)
	require.NoError(t, err)
	require.Len(t, issues, 1)

	got := issues[0]
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "experience.0.description.1", got.Path)
	assert.Equal(t, types.IssueSpelling, got.Type)
	assert.Equal(t, []string{"success", "a success", "successfully"}, got.Suggestions)

	assert.Contains(t, gen.req.Prompt, `"fullName": "Jane Doe"`)
	assert.Contains(t, gen.req.Prompt, "Classic Professional")
	assert.Contains(t, gen.req.SystemInstruction, "SPELLING")
	assert.Equal(t, ToolName, gen.req.Tool.Name)
}

func TestAnalyze_NoIssuesIsEmptyNotNil(t *testing.T) {
	gen := &fakeGenerator{resp: &llm.Response{
		FunctionCalls: []llm.FunctionCall{{Name: ToolName, Args: map[string]any{"issues": []any{}}}},
	}}
	issues, err := NewAnalyzer(gen, nil).Analyze(context.Background(), testRecord(), types.FormatModern)
	require.NoError(t, err)
	assert.NotNil(t, issues)
	assert.Empty(t, issues)
}

func TestAnalyze_EmptyResponseIsNoIssues(t *testing.T) {
	gen := &fakeGenerator{resp: &llm.Response{}}
	issues, err := NewAnalyzer(gen, nil).Analyze(context.Background(), testRecord(), types.FormatClassic)
	require.NoError(t, err)
	assert.NotNil(t, issues)
	assert.Empty(t, issues)
}

func TestAnalyze_TextFallback(t *testing.T) {
	text := "```json\n[{\"path\":\"summary.0\",\"original\":\"Engineer who ship reliable systems.\"," +
		"\"errorText\":\"ship\",\"suggestions\":[\"ships\",\"shipped\",\"delivers\"]," +
		"\"reason\":\"Subject-verb agreement\",\"type\":\"grammar\"}]\n```"
	gen := &fakeGenerator{resp: &llm.Response{Text: text}}

	issues, err := NewAnalyzer(gen, nil).Analyze(context.Background(), testRecord(), types.FormatClassic)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, types.IssueGrammar, issues[0].Type)
}

func TestAnalyze_MalformedTextIsError(t *testing.T) {
	gen := &fakeGenerator{resp: &llm.Response{Text: "not json at all"}}
	_, err := NewAnalyzer(gen, nil).Analyze(context.Background(), testRecord(), types.FormatClassic)
	var aErr *AnalysisError
	assert.ErrorAs(t, err, &aErr)
}

func TestAnalyze_CallFailure(t *testing.T) {
	gen := &fakeGenerator{err: &llm.ExhaustedError{Attempts: 3}}
	issues, err := NewAnalyzer(gen, nil).Analyze(context.Background(), testRecord(), types.FormatClassic)
	assert.Nil(t, issues)
	assert.True(t, errors.Is(err, llm.ErrExhausted))
}

func TestAnalyze_NilRecord(t *testing.T) {
	_, err := NewAnalyzer(&fakeGenerator{}, nil).Analyze(context.Background(), nil, types.FormatClassic)
	var aErr *AnalysisError
	assert.ErrorAs(t, err, &aErr)
}

package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-refiner/internal/types"
)

func validIssue() types.GrammarIssue {
	return types.GrammarIssue{
		ID:          "i1",
		Path:        "experience.0.description.1",
		Original:    "Led the team to sucess",
		ErrorText:   "sucess",
		Suggestions: []string{"success", "a success", "successfully"},
		Reason:      "Misspelling",
		Type:        types.IssueSpelling,
	}
}

func TestSanitize_KeepsValidIssue(t *testing.T) {
	out := Sanitize(testRecord(), []types.GrammarIssue{validIssue()}, nil)
	require.Len(t, out, 1)
	assert.Equal(t, "i1", out[0].ID)
}

func TestSanitize_Drops(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*types.GrammarIssue)
	}{
		{"unresolvable path", func(i *types.GrammarIssue) { i.Path = "experience.3.description.0" }},
		{"path to a list", func(i *types.GrammarIssue) { i.Path = "experience.0.description" }},
		{"error text not in field", func(i *types.GrammarIssue) { i.ErrorText = "teh" }},
		{"empty error text", func(i *types.GrammarIssue) { i.ErrorText = "" }},
		{"two suggestions", func(i *types.GrammarIssue) { i.Suggestions = []string{"success", "a success"} }},
		{"repeated suggestions", func(i *types.GrammarIssue) { i.Suggestions = []string{"success", "success", " success "} }},
		{"suggestion equal to error", func(i *types.GrammarIssue) { i.Suggestions = []string{"success", "sucess", "a success"} }},
		{"unknown type", func(i *types.GrammarIssue) { i.Type = "TYPO" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issue := validIssue()
			tt.mutate(&issue)
			out := Sanitize(testRecord(), []types.GrammarIssue{issue}, nil)
			assert.NotNil(t, out)
			assert.Empty(t, out)
		})
	}
}

func TestSanitize_RepairsFields(t *testing.T) {
	issue := validIssue()
	issue.ID = ""
	issue.Path = "experience[0].description[1]"
	issue.Original = "Led the team to sucess."
	issue.Type = " spelling "
	issue.Suggestions = []string{" success", "a success", "successfully", "successful"}

	out := Sanitize(testRecord(), []types.GrammarIssue{issue}, nil)
	require.Len(t, out, 1)
	got := out[0]
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "experience.0.description.1", got.Path)
	assert.Equal(t, "Led the team to sucess", got.Original)
	assert.Equal(t, types.IssueSpelling, got.Type)
	assert.Equal(t, []string{"success", "a success", "successfully"}, got.Suggestions)
}

func TestSanitize_Duplicates(t *testing.T) {
	a := validIssue()
	b := validIssue()
	c := validIssue()
	c.ID = "i1"
	c.Path = "summary.0"
	c.ErrorText = "ship"
	c.Suggestions = []string{"ships", "shipped", "delivers"}

	out := Sanitize(testRecord(), []types.GrammarIssue{a, b, c}, nil)
	require.Len(t, out, 2)
	assert.Equal(t, "i1", out[0].ID)
	assert.NotEqual(t, "i1", out[1].ID)
}

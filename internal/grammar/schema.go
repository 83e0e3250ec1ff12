package grammar

import (
	"github.com/google/generative-ai-go/genai"

	"github.com/jonathan/resume-refiner/internal/llm"
)

// ToolName is the function the model calls with its findings.
const ToolName = "report_issues"

// Tool returns the issue-reporting tool declaration.
func Tool() *llm.Tool {
	str := func(d string) *genai.Schema { return &genai.Schema{Type: genai.TypeString, Description: d} }
	return &llm.Tool{
		Name:        ToolName,
		Description: "Report grammar, spelling and style issues found in the resume",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"issues": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"path":      str("Dot-notation field path, e.g. experience.0.description.2"),
							"original":  str("Complete current text of the field"),
							"errorText": str("Exact substring of original that is wrong"),
							"suggestions": {
								Type:        genai.TypeArray,
								Description: "Exactly three distinct replacements for errorText",
								Items:       &genai.Schema{Type: genai.TypeString},
							},
							"reason": str("One-sentence explanation"),
							"type": {
								Type: genai.TypeString,
								Enum: []string{"SPELLING", "GRAMMAR", "STYLE"},
							},
						},
						Required: []string{"path", "original", "errorText", "suggestions", "reason", "type"},
					},
				},
			},
			Required: []string{"issues"},
		},
	}
}

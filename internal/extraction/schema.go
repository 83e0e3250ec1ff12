package extraction

import (
	"github.com/google/generative-ai-go/genai"

	"github.com/jonathan/resume-refiner/internal/llm"
)

// ToolName is the function the model must call with the extracted record.
const ToolName = "extract_resume"

func stringSchema(description string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: description}
}

func linesSchema(description string) *genai.Schema {
	return &genai.Schema{
		Type:        genai.TypeArray,
		Description: description,
		Items:       &genai.Schema{Type: genai.TypeString},
	}
}

func experienceSchema(description string) *genai.Schema {
	return &genai.Schema{
		Type:        genai.TypeArray,
		Description: description,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"company":     stringSchema("Employer name, verbatim"),
				"title":       stringSchema("Job title, verbatim"),
				"dates":       stringSchema("Date range as displayed, e.g. Jan 2020 - Present"),
				"location":    stringSchema("City, State"),
				"description": linesSchema("Bullet points, one item per bullet, verbatim"),
			},
			Required: []string{"company", "title", "dates", "description"},
		},
	}
}

// RecordSchema is the function-parameter schema mirroring types.ResumeRecord.
func RecordSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"fullName": stringSchema("Candidate's full name"),
			"contactInfo": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"email":    stringSchema("Email address"),
					"phone":    stringSchema("Phone number"),
					"links":    linesSchema("Profile and portfolio URLs"),
					"location": stringSchema("City, State"),
				},
			},
			"summary":     linesSchema("Summary or profile statements, one per paragraph"),
			"experience":  experienceSchema("Work history, most recent first as in the document"),
			"internships": experienceSchema("Internships, kept apart from experience"),
			"education": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"institution": stringSchema("School or program"),
						"degree":      stringSchema("Degree or certificate"),
						"dates":       stringSchema("Dates as displayed"),
						"location":    stringSchema("City, State"),
						"details":     linesSchema("Honors, coursework and other detail lines"),
					},
					Required: []string{"institution", "degree", "dates"},
				},
			},
			"customSections": {
				Type:        genai.TypeArray,
				Description: "Every other section in document order",
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"title": stringSchema("Section title exactly as written"),
						"items": linesSchema("Section lines, verbatim"),
					},
					Required: []string{"title", "items"},
				},
			},
			"sectionTitles": {
				Type:        genai.TypeObject,
				Description: "Exact titles used by the document for the fixed sections",
				Properties: map[string]*genai.Schema{
					"summary":     stringSchema(""),
					"experience":  stringSchema(""),
					"internships": stringSchema(""),
					"education":   stringSchema(""),
				},
			},
			"extractionChanges": {
				Type:        genai.TypeArray,
				Description: "Every redaction, reformat, added title or removed phrase",
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"type": {
							Type: genai.TypeString,
							Enum: []string{"REMOVAL", "ADDITION", "MODIFICATION"},
						},
						"description": stringSchema("What changed"),
						"reason":      stringSchema("Why it changed"),
					},
					Required: []string{"type", "description", "reason"},
				},
			},
		},
		Required: []string{"fullName", "contactInfo"},
	}
}

// Tool returns the extraction tool declaration.
func Tool() *llm.Tool {
	return &llm.Tool{
		Name:        ToolName,
		Description: "Record the structured contents of the resume",
		Parameters:  RecordSchema(),
	}
}

// Package schemas checks model output against embedded JSON Schemas before it is trusted.
package schemas

import (
	"embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed *.schema.json
var schemaFiles embed.FS

// Embedded schema names.
const (
	ResumeRecordSchema  = "resume_record.schema.json"
	GrammarIssuesSchema = "grammar_issues.schema.json"
)

// FieldError is one violation, keyed by the dotted field path gojsonschema reports.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every violation found in a document.
type ValidationError struct {
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, fe := range ve.Errors {
		fmt.Fprintf(&sb, "  %d. %s: %s\n", i+1, fe.Field, fe.Message)
	}
	return sb.String()
}

// Fields returns the distinct offending field paths, sorted.
func (ve *ValidationError) Fields() []string {
	seen := make(map[string]bool, len(ve.Errors))
	out := make([]string, 0, len(ve.Errors))
	for _, fe := range ve.Errors {
		if !seen[fe.Field] {
			seen[fe.Field] = true
			out = append(out, fe.Field)
		}
	}
	sort.Strings(out)
	return out
}

// SchemaLoadError means the schema itself could not be read or compiled.
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error { return e.Cause }

// compiled holds embedded schemas after their first use.
var compiled sync.Map // name -> *gojsonschema.Schema

// Load returns the raw text of an embedded schema.
func Load(name string) (string, error) {
	data, err := schemaFiles.ReadFile(name)
	if err != nil {
		return "", &SchemaLoadError{Path: name, Message: "schema not embedded", Cause: err}
	}
	return string(data), nil
}

func schemaFor(name string) (*gojsonschema.Schema, error) {
	if s, ok := compiled.Load(name); ok {
		return s.(*gojsonschema.Schema), nil
	}
	raw, err := Load(name)
	if err != nil {
		return nil, err
	}
	s, err := compile(name, raw)
	if err != nil {
		return nil, err
	}
	actual, _ := compiled.LoadOrStore(name, s)
	return actual.(*gojsonschema.Schema), nil
}

func compile(name, raw string) (*gojsonschema.Schema, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
	if err != nil {
		return nil, &SchemaLoadError{Path: name, Message: "schema does not compile", Cause: err}
	}
	return s, nil
}

// Validate checks a JSON document against one of the embedded schemas.
func Validate(name string, document []byte) error {
	s, err := schemaFor(name)
	if err != nil {
		return err
	}
	return check(s, gojsonschema.NewBytesLoader(document))
}

// ValidateJSONString checks a document against a schema given inline.
func ValidateJSONString(schemaContent, jsonContent string) error {
	s, err := compile("(inline)", schemaContent)
	if err != nil {
		return err
	}
	return check(s, gojsonschema.NewStringLoader(jsonContent))
}

func check(s *gojsonschema.Schema, doc gojsonschema.JSONLoader) error {
	result, err := s.Validate(doc)
	if err != nil {
		// the document is not JSON at all
		return &ValidationError{Errors: []FieldError{{Field: "(root)", Message: err.Error()}}}
	}
	if result.Valid() {
		return nil
	}
	ve := &ValidationError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		ve.Errors = append(ve.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return ve
}

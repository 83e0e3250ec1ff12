// Package rendering lays out a résumé record for a format profile and draws it as an HTML
// preview, a DOCX document or a print PDF.
package rendering

import "fmt"

// TemplateError means an embedded template or profile could not be loaded or executed.
// These are build defects, not bad input.
type TemplateError struct {
	Template string
	Message  string
	Cause    error
}

func (e *TemplateError) Error() string {
	msg := "template"
	if e.Template != "" {
		msg += " " + e.Template
	}
	msg += ": " + e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *TemplateError) Unwrap() error { return e.Cause }

// RenderError is a failure producing one artifact. Kind is empty when no artifact was chosen yet.
type RenderError struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	msg := "render"
	if e.Kind != "" {
		msg += " " + string(e.Kind)
	}
	msg += ": " + e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *RenderError) Unwrap() error { return e.Cause }

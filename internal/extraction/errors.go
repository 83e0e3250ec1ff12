package extraction

import (
	"fmt"
	"strings"
)

// ExtractionError is a fatal extraction failure: the model did not call the extraction tool,
// returned a record that failed validation, or the input had no text. No partial record is
// returned alongside it.
type ExtractionError struct {
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction failed: %s", e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// UnsupportedInputError is returned for files outside the supported types.
type UnsupportedInputError struct {
	Filename string
	MIMEType string
}

func (e *UnsupportedInputError) Error() string {
	return fmt.Sprintf("unsupported file %q (%s): supported types are %s",
		e.Filename, e.MIMEType, strings.Join(SupportedExtensions(), ", "))
}

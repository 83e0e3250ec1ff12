package grammar

import "fmt"

// AnalysisError represents a grammar analysis failure other than the model call itself.
type AnalysisError struct {
	Message string
	Cause   error
}

func (e *AnalysisError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("grammar analysis failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("grammar analysis failed: %s", e.Message)
}

func (e *AnalysisError) Unwrap() error {
	return e.Cause
}

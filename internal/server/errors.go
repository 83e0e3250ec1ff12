package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-refiner/internal/extraction"
	"github.com/jonathan/resume-refiner/internal/grammar"
	"github.com/jonathan/resume-refiner/internal/llm"
	"github.com/jonathan/resume-refiner/internal/rendering"
	"github.com/jonathan/resume-refiner/internal/review"
)

var (
	// ErrSessionNotFound is returned for unknown or expired sessions.
	ErrSessionNotFound = errors.New("session not found or expired")
	// ErrSessionBusy is returned while another operation on the session is in flight.
	ErrSessionBusy = errors.New("another operation is in progress for this session")
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation  *ErrValidation
		unsupported *extraction.UnsupportedInputError
		extractErr  *extraction.ExtractionError
		analysisErr *grammar.AnalysisError
		pathErr     *review.PathError
		renderErr   *rendering.RenderError
		templateErr *rendering.TemplateError
	)
	switch {
	case errors.As(err, &validation), errors.Is(err, review.ErrInvalidSuggestion):
		return http.StatusBadRequest
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, review.ErrIssueNotFound), errors.Is(err, review.ErrEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrSessionBusy), errors.Is(err, review.ErrNotUndoable), errors.Is(err, review.ErrNoRecord):
		return http.StatusConflict
	case errors.As(err, &unsupported):
		return http.StatusUnsupportedMediaType
	// model failures are matched before the wrapping extraction/analysis errors
	case errors.Is(err, llm.ErrExhausted):
		return http.StatusTooManyRequests
	case errors.Is(err, llm.ErrNoCredentials):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &extractErr), errors.As(err, &pathErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &analysisErr):
		return http.StatusBadGateway
	case errors.As(err, &renderErr), errors.As(err, &templateErr):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// errorCode is the machine-readable error name sent alongside the message.
func errorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "invalid_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusUnsupportedMediaType:
		return "unsupported_input"
	case http.StatusUnprocessableEntity:
		return "extraction_failed"
	case http.StatusTooManyRequests:
		return "model_quota_exhausted"
	case http.StatusServiceUnavailable:
		return "not_configured"
	case http.StatusBadGateway:
		return "model_error"
	case http.StatusGatewayTimeout:
		return "timeout"
	}
	return "internal_error"
}

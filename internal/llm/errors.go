package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	// ErrNoCredentials is returned before any network call when the credential pool is empty.
	ErrNoCredentials = errors.New("no API credentials configured")
	// ErrRateLimited marks a rate-limit or quota failure from the provider.
	ErrRateLimited = errors.New("llm rate limited")
	// ErrExhausted is matched by the aggregated error returned once the attempt budget is spent.
	ErrExhausted = errors.New("all keys/models exhausted")
)

// ExhaustedError aggregates a request that ran out of attempts on rate-limit failures.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	if e.Last != nil {
		return fmt.Sprintf("all keys/models exhausted after %d attempts: %v", e.Attempts, e.Last)
	}
	return fmt.Sprintf("all keys/models exhausted after %d attempts", e.Attempts)
}

// Is lets errors.Is(err, ErrExhausted) match.
func (e *ExhaustedError) Is(target error) bool {
	return target == ErrExhausted
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}

// APICallError represents a failed model call
type APICallError struct {
	Model   string
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("model %s: %s: %v", e.Model, e.Message, e.Cause)
	}
	return fmt.Sprintf("model %s: %s", e.Model, e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// rateLimitPhrases are provider messages that only appear on quota or throttling failures.
var rateLimitPhrases = []string{
	"resource_exhausted",
	"resource exhausted",
	"quota exceeded",
	"rate limit exceeded",
	"too many requests",
}

// IsRateLimit reports whether err is a rate-limit class failure: HTTP 429, gRPC
// RESOURCE_EXHAUSTED, or an untyped error carrying one of the provider's throttling phrases.
// A typed error with any other code is never a rate limit, whatever its message says.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests
	}
	if s, ok := status.FromError(err); ok {
		return s.Code() == codes.ResourceExhausted
	}
	msg := strings.ToLower(err.Error())
	for _, phrase := range rateLimitPhrases {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}

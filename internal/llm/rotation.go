package llm

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// CallFunc performs one model call with the given credential and model identifier.
type CallFunc func(ctx context.Context, cred Credential, model string) error

// Rotator owns the credential pool, the model priority list and the round-robin cursor.
//
// Models are tried in priority order. For each model every credential is tried once, starting at
// the cursor, and the cursor advances on rate-limit failures. The cursor survives across calls.
// No request makes more than MaxAttempts calls; any failure other than a rate limit is returned
// immediately.
type Rotator struct {
	mu          sync.Mutex
	creds       []Credential
	models      []string
	cursor      int
	maxAttempts int
	logger      *zap.Logger
}

// NewRotator creates a rotator. A nil or empty models slice falls back to DefaultModels.
func NewRotator(creds []Credential, models []string, logger *zap.Logger) *Rotator {
	if len(models) == 0 {
		models = DefaultModels
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	pool := make([]Credential, 0, len(creds))
	for _, c := range creds {
		if c.Key != "" {
			pool = append(pool, c)
		}
	}
	return &Rotator{
		creds:       pool,
		models:      append([]string(nil), models...),
		maxAttempts: MaxAttempts,
		logger:      logger,
	}
}

// Do runs fn under the rotation policy.
func (r *Rotator) Do(ctx context.Context, fn CallFunc) error {
	if len(r.creds) == 0 {
		return ErrNoCredentials
	}

	attempts := 0
	var last error
	for _, model := range r.models {
		for range r.creds {
			if attempts >= r.maxAttempts {
				return &ExhaustedError{Attempts: attempts, Last: last}
			}
			if err := ctx.Err(); err != nil {
				return err
			}

			cred := r.current()
			attempts++
			err := fn(ctx, cred, model)
			if err == nil {
				return nil
			}
			if !IsRateLimit(err) {
				return err
			}

			last = err
			next := r.advance()
			r.logger.Warn("model call rate limited, rotating credential",
				zap.String("model", model),
				zap.String("credential", cred.Name),
				zap.String("next_credential", next.Name),
				zap.Int("attempt", attempts),
			)
		}
	}
	return &ExhaustedError{Attempts: attempts, Last: last}
}

// Cursor returns the index of the credential the next call starts with.
func (r *Rotator) Cursor() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cursor
}

// Reset moves the cursor back to the first credential.
func (r *Rotator) Reset() {
	r.mu.Lock()
	r.cursor = 0
	r.mu.Unlock()
}

// Size returns the number of usable credentials.
func (r *Rotator) Size() int {
	return len(r.creds)
}

func (r *Rotator) current() Credential {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.creds[r.cursor%len(r.creds)]
}

func (r *Rotator) advance() Credential {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cursor = (r.cursor + 1) % len(r.creds)
	return r.creds[r.cursor]
}

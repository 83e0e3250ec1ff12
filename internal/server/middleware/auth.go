// Package middleware provides HTTP middleware for session tokens and request logging.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type ctxKey struct{}

// ErrNoSession is returned by SessionID for requests that did not pass Authenticate.
var ErrNoSession = errors.New("no session in request context")

// SessionResolver maps a bearer token to the session it was issued for.
type SessionResolver func(token string) (uuid.UUID, error)

// Authenticate rejects requests without a valid bearer token and stores the resolved
// session ID in the request context.
func Authenticate(resolve SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				unauthorized(w)
				return
			}
			id, err := resolve(token)
			if err != nil {
				unauthorized(w)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), id)))
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="sessions"`)
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"invalid or missing session token","code":"unauthorized"}`))
}

// SessionID returns the session ID Authenticate stored for r.
func SessionID(r *http.Request) (uuid.UUID, error) {
	if id, ok := r.Context().Value(ctxKey{}).(uuid.UUID); ok {
		return id, nil
	}
	return uuid.Nil, ErrNoSession
}

// WithSessionID returns a context carrying id.
func WithSessionID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

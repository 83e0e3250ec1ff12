package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticResolver(valid map[string]uuid.UUID) SessionResolver {
	return func(token string) (uuid.UUID, error) {
		id, ok := valid[token]
		if !ok {
			return uuid.Nil, errors.New("invalid token")
		}
		return id, nil
	}
}

func protected(t *testing.T, resolve SessionResolver) (http.Handler, *uuid.UUID) {
	t.Helper()
	var seen uuid.UUID
	h := Authenticate(resolve)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := SessionID(r)
		require.NoError(t, err)
		seen = id
		w.WriteHeader(http.StatusNoContent)
	}))
	return h, &seen
}

func TestAuthenticate_ValidToken(t *testing.T) {
	id := uuid.New()
	h, seen := protected(t, staticResolver(map[string]uuid.UUID{"tok": id}))

	for _, header := range []string{"Bearer tok", "bearer tok", "BEARER   tok", " Bearer tok "} {
		req := httptest.NewRequest(http.MethodGet, "/sessions/issues", nil)
		req.Header.Set("Authorization", header)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code, header)
		assert.Equal(t, id, *seen)
	}
}

func TestAuthenticate_Rejects(t *testing.T) {
	h, _ := protected(t, staticResolver(map[string]uuid.UUID{"tok": uuid.New()}))

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"no scheme", "tok"},
		{"scheme only", "Bearer "},
		{"wrong scheme", "Basic tok"},
		{"extra parts", "Bearer tok extra"},
		{"unknown token", "Bearer other"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/sessions/issues", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "session token")
			assert.NotEmpty(t, w.Header().Get("WWW-Authenticate"))
		})
	}
}

func TestSessionID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := SessionID(req)
	assert.ErrorIs(t, err, ErrNoSession)

	id := uuid.New()
	req = req.WithContext(WithSessionID(req.Context(), id))
	got, err := SessionID(req)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

package server

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-refiner/internal/config"
)

func testSessionConfig() *config.SessionConfig {
	return &config.SessionConfig{Secret: "test-secret-key-for-sessions", Lifetime: 2 * time.Hour}
}

func TestTokenService_RoundTrip(t *testing.T) {
	svc := NewTokenService(testSessionConfig())
	id := uuid.New()

	token, expires, err := svc.GenerateToken(id)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), expires, 5*time.Second)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.SessionID)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, "resume-refiner", claims.Issuer)
}

func TestTokenService_Expired(t *testing.T) {
	svc := NewTokenService(testSessionConfig())
	issued := time.Now()
	svc.now = func() time.Time { return issued }

	token, _, err := svc.GenerateToken(uuid.New())
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(3 * time.Hour) }
	_, err = svc.ValidateToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
	assert.Contains(t, err.Error(), "token expired")
}

func TestTokenService_Rejects(t *testing.T) {
	svc := NewTokenService(testSessionConfig())
	other := NewTokenService(&config.SessionConfig{Secret: "a-completely-different-secret", Lifetime: 2 * time.Hour})

	foreign, _, err := other.GenerateToken(uuid.New())
	require.NoError(t, err)
	noSession, _, err := svc.GenerateToken(uuid.Nil)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"empty", "", "empty"},
		{"malformed", "not.a.jwt", "malformed"},
		{"wrong secret", foreign, "signature"},
		{"nil session", noSession, "no session"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateToken(tt.token)
			require.ErrorIs(t, err, ErrInvalidToken)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestTokenService_SessionFor(t *testing.T) {
	svc := NewTokenService(testSessionConfig())
	id := uuid.New()
	token, _, err := svc.GenerateToken(id)
	require.NoError(t, err)

	got, err := svc.SessionFor(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = svc.SessionFor("junk")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsOtherAlgorithms(t *testing.T) {
	svc := NewTokenService(testSessionConfig())
	now := time.Now()
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		SessionID: uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "resume-refiner",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.ValidateToken(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

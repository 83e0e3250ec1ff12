package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef-session"

func TestNewSessionConfig_Lifetime(t *testing.T) {
	tests := []struct {
		name    string
		hours   string
		ttl     string
		want    time.Duration
		wantErr string
	}{
		{name: "default", want: 4 * time.Hour},
		{name: "hours", hours: "12", want: 12 * time.Hour},
		{name: "duration wins", hours: "12", ttl: "90m", want: 90 * time.Minute},
		{name: "zero hours", hours: "0", wantErr: "at least 1m"},
		{name: "negative hours", hours: "-3", wantErr: "at least 1m"},
		{name: "hours not a number", hours: "abc", wantErr: "invalid SESSION_TTL_HOURS"},
		{name: "bad duration", ttl: "soon", wantErr: "invalid SESSION_TTL"},
		{name: "too short", ttl: "30s", wantErr: "at least 1m"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SESSION_SECRET", testSecret)
			t.Setenv("SESSION_TTL_HOURS", tt.hours)
			t.Setenv("SESSION_TTL", tt.ttl)

			cfg, err := NewSessionConfig()
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testSecret, cfg.Secret)
			assert.Equal(t, tt.want, cfg.TTL())
		})
	}
}

func TestNewSessionConfig_Secret(t *testing.T) {
	t.Setenv("SESSION_TTL_HOURS", "")
	t.Setenv("SESSION_TTL", "")

	t.Setenv("SESSION_SECRET", "")
	_, err := NewSessionConfig()
	assert.ErrorContains(t, err, "SESSION_SECRET is required")

	t.Setenv("SESSION_SECRET", "   ")
	_, err = NewSessionConfig()
	assert.ErrorContains(t, err, "SESSION_SECRET is required")

	t.Setenv("SESSION_SECRET", "short")
	_, err = NewSessionConfig()
	assert.ErrorContains(t, err, "at least 16 characters")
}

package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "")
	t.Setenv("RATE_LIMIT_EXTRACT_PER_HOUR", "")

	cfg := LoadConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 1000, cfg.Default.Limit)
	assert.Equal(t, time.Minute, cfg.Default.Window)
	assert.Equal(t, time.Hour, cfg.IdleTTL)
	assert.Equal(t, 20, cfg.RuleFor("POST", "/sessions").Limit)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("RATE_LIMIT_EXTRACT_PER_HOUR", "7")
	t.Setenv("RATE_LIMIT_DEFAULT_WINDOW", "30s")
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "not-a-number")
	t.Setenv("RATE_LIMIT_ALLOW", "10.0.0.1, 10.0.0.2,")
	t.Setenv("RATE_LIMIT_DENY", "10.9.9.9")

	cfg := LoadConfig()
	assert.Equal(t, 7, cfg.RuleFor("POST", "/sessions").Limit)
	assert.Equal(t, 30*time.Second, cfg.Default.Window)
	assert.Equal(t, 1000, cfg.Default.Limit)
	assert.Len(t, cfg.Allow, 2)
	assert.True(t, cfg.Allow["10.0.0.2"])
	assert.True(t, cfg.Deny["10.9.9.9"])
}

func TestLoadConfig_Disabled(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	assert.False(t, LoadConfig().Enabled)
}

func TestRuleFor(t *testing.T) {
	cfg := &Config{Default: Rule{Limit: 1000, Window: time.Minute}, Rules: DefaultRules()}

	tests := []struct {
		name   string
		method string
		path   string
		want   string
	}{
		{"upload", "POST", "/sessions", "/sessions"},
		{"analyze", "POST", "/sessions/analyze", "/sessions/analyze"},
		{"accept", "POST", "/sessions/issues/abc/accept", "/sessions/issues/"},
		{"undo", "POST", "/sessions/changes/abc/undo", "/sessions/changes/"},
		{"export", "GET", "/sessions/export/pdf", "/sessions/export/"},
		{"read falls back to default", "GET", "/sessions/issues", ""},
		{"method must match", "GET", "/sessions", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cfg.RuleFor(tt.method, tt.path).Path)
		})
	}

	assert.Zero(t, cfg.RuleFor("GET", "/health").Limit)
	assert.Equal(t, 1000, cfg.RuleFor("GET", "/sessions/record").Limit)
}

func TestRuleFor_LongestPrefixWins(t *testing.T) {
	cfg := &Config{Rules: []Rule{
		{Method: "POST", Path: "/sessions/", Limit: 10, Window: time.Minute},
		{Method: "POST", Path: "/sessions/issues/", Limit: 5, Window: time.Minute},
	}}
	assert.Equal(t, 5, cfg.RuleFor("POST", "/sessions/issues/x/accept").Limit)
	assert.Equal(t, 10, cfg.RuleFor("POST", "/sessions/changes/x/undo").Limit)
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultSessionTTL = 4 * time.Hour
	minSecretLen      = 16
)

// SessionConfig controls how review-session tokens are signed and how long an idle session lives.
type SessionConfig struct {
	Secret   string
	Lifetime time.Duration
}

// NewSessionConfig reads SESSION_SECRET (required) and SESSION_TTL_HOURS (whole hours, default 4).
// SESSION_TTL, a Go duration such as "90m", takes precedence over the hour setting.
func NewSessionConfig() (*SessionConfig, error) {
	cfg := &SessionConfig{
		Secret:   strings.TrimSpace(os.Getenv("SESSION_SECRET")),
		Lifetime: defaultSessionTTL,
	}
	if cfg.Secret == "" {
		return nil, errors.New("SESSION_SECRET is required but not set")
	}

	if v := os.Getenv("SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
		}
		cfg.Lifetime = d
	} else if v := os.Getenv("SESSION_TTL_HOURS"); v != "" {
		hours, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_TTL_HOURS: %w", err)
		}
		cfg.Lifetime = time.Duration(hours) * time.Hour
	}

	if err := cfg.Check(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// TTL is the sliding idle lifetime of a session and of its token.
func (c *SessionConfig) TTL() time.Duration {
	return c.Lifetime
}

// Check rejects secrets too short to sign with and lifetimes under a minute.
func (c *SessionConfig) Check() error {
	if len(c.Secret) < minSecretLen {
		return fmt.Errorf("SESSION_SECRET must be at least %d characters", minSecretLen)
	}
	if c.Lifetime < time.Minute {
		return fmt.Errorf("session lifetime must be at least 1m, got %s", c.Lifetime)
	}
	return nil
}

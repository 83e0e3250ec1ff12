// Package ratelimit throttles model-backed and editing endpoints per client with token buckets.
package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Rule limits one route. A Path ending in "/" covers every path below it, and all of those
// paths share one bucket per client.
type Rule struct {
	Method string
	Path   string
	Limit  int // requests per Window; 0 means unlimited
	Window time.Duration
	Burst  int // bucket size; Limit when 0
}

func (r Rule) capacity() float64 {
	if r.Burst > 0 {
		return float64(r.Burst)
	}
	return float64(r.Limit)
}

func (r Rule) perSecond() float64 {
	return float64(r.Limit) / r.Window.Seconds()
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled bool
	// Default applies to requests no rule matches.
	Default Rule
	Rules   []Rule
	// IdleTTL is how long an unused bucket is kept.
	IdleTTL time.Duration
	Allow   map[string]bool // clients never limited
	Deny    map[string]bool // clients always refused
}

// DefaultConfig is used when no configuration is given.
func DefaultConfig() *Config {
	return &Config{
		Enabled: true,
		Default: Rule{Limit: 1000, Window: time.Minute},
		IdleTTL: time.Hour,
	}
}

// LoadConfig reads RATE_LIMIT_* environment variables on top of DefaultConfig and the route rules.
func LoadConfig() *Config {
	if !envOr("RATE_LIMIT_ENABLED", true, strconv.ParseBool) {
		return &Config{Enabled: false}
	}
	cfg := DefaultConfig()
	cfg.Default.Limit = envOr("RATE_LIMIT_DEFAULT_LIMIT", cfg.Default.Limit, strconv.Atoi)
	cfg.Default.Window = envOr("RATE_LIMIT_DEFAULT_WINDOW", cfg.Default.Window, time.ParseDuration)
	cfg.IdleTTL = envOr("RATE_LIMIT_IDLE_TTL", cfg.IdleTTL, time.ParseDuration)
	cfg.Allow = clientSet(os.Getenv("RATE_LIMIT_ALLOW"))
	cfg.Deny = clientSet(os.Getenv("RATE_LIMIT_DENY"))
	cfg.Rules = DefaultRules()
	return cfg
}

// DefaultRules returns the per-route limits. Extraction and analysis each cost a model call and
// get the strictest limits; review edits are cheap.
func DefaultRules() []Rule {
	return []Rule{
		{Method: "POST", Path: "/sessions", Limit: envOr("RATE_LIMIT_EXTRACT_PER_HOUR", 20, strconv.Atoi), Window: time.Hour, Burst: 3},
		{Method: "POST", Path: "/sessions/analyze", Limit: envOr("RATE_LIMIT_ANALYZE_PER_HOUR", 40, strconv.Atoi), Window: time.Hour, Burst: 5},
		{Method: "GET", Path: "/sessions/export/", Limit: 60, Window: time.Minute, Burst: 10},
		{Method: "POST", Path: "/sessions/issues/", Limit: 300, Window: time.Minute, Burst: 30},
		{Method: "POST", Path: "/sessions/changes/", Limit: 300, Window: time.Minute, Burst: 30},
	}
}

// RuleFor returns the rule governing a request: an exact path match, else the longest matching
// prefix rule, else Default. GET /health is never limited.
func (c *Config) RuleFor(method, path string) Rule {
	if method == "GET" && path == "/health" {
		return Rule{Method: method, Path: path}
	}
	var best *Rule
	for i := range c.Rules {
		r := &c.Rules[i]
		if r.Method != method {
			continue
		}
		if r.Path == path {
			return *r
		}
		if strings.HasSuffix(r.Path, "/") && strings.HasPrefix(path, r.Path) {
			if best == nil || len(r.Path) > len(best.Path) {
				best = r
			}
		}
	}
	if best != nil {
		return *best
	}
	return c.Default
}

func envOr[T any](key string, fallback T, parse func(string) (T, error)) T {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := parse(raw)
	if err != nil {
		return fallback
	}
	return v
}

// clientSet parses a comma-separated client list.
func clientSet(list string) map[string]bool {
	set := make(map[string]bool)
	for _, c := range strings.Split(list, ",") {
		if c = strings.TrimSpace(c); c != "" {
			set[c] = true
		}
	}
	return set
}

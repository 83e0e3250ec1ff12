package ratelimit

import (
	"sync"
	"time"
)

// Info describes a client's standing against the rule that governed a request.
type Info struct {
	Allowed   bool
	Limit     int
	Remaining int
	// ResetTime is when the bucket is full again.
	ResetTime time.Time
	// RetryAfter is how long until the next request would be admitted; zero when allowed.
	RetryAfter time.Duration
}

type bucket struct {
	tokens   float64
	capacity float64
	rate     float64 // tokens per second
	updated  time.Time
	used     time.Time
}

func (b *bucket) fill(now time.Time) {
	if elapsed := now.Sub(b.updated).Seconds(); elapsed > 0 {
		b.tokens = min(b.capacity, b.tokens+elapsed*b.rate)
	}
	b.updated = now
}

func (b *bucket) after(tokens float64) time.Duration {
	if tokens <= 0 {
		return 0
	}
	return time.Duration(tokens / b.rate * float64(time.Second))
}

// Limiter keeps one bucket per client and rule.
type Limiter struct {
	cfg *Config
	now func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket

	stop     chan struct{}
	stopOnce sync.Once
}

// NewLimiter creates a limiter. A nil config uses DefaultConfig. When enabled, idle buckets are
// swept in the background until Stop is called.
func NewLimiter(cfg *Config) *Limiter {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	l := &Limiter{
		cfg:     cfg,
		now:     time.Now,
		buckets: make(map[string]*bucket),
		stop:    make(chan struct{}),
	}
	if cfg.Enabled && cfg.IdleTTL > 0 {
		go l.sweepLoop(cfg.IdleTTL)
	}
	return l
}

// Allow spends one token from the client's bucket for the request's rule.
func (l *Limiter) Allow(client, method, path string) (bool, Info) {
	if !l.cfg.Enabled || l.cfg.Allow[client] {
		return true, Info{Allowed: true}
	}
	if l.cfg.Deny[client] {
		return false, Info{}
	}
	rule := l.cfg.RuleFor(method, path)
	if rule.Limit <= 0 || rule.Window <= 0 {
		return true, Info{Allowed: true}
	}

	// prefix rules are keyed by their own path so every ID under them shares the bucket
	scope := path
	if rule.Path != "" {
		scope = rule.Path
	}
	key := client + " " + method + " " + scope
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: rule.capacity(), capacity: rule.capacity(), rate: rule.perSecond(), updated: now}
		l.buckets[key] = b
	}
	b.fill(now)
	b.used = now

	info := Info{Limit: rule.Limit}
	if b.tokens >= 1 {
		b.tokens--
		info.Allowed = true
	} else {
		info.RetryAfter = b.after(1 - b.tokens)
	}
	info.Remaining = int(b.tokens)
	info.ResetTime = now.Add(b.after(b.capacity - b.tokens))
	return info.Allowed, info
}

// Sweep drops buckets unused for longer than IdleTTL and returns how many were dropped.
func (l *Limiter) Sweep() int {
	cutoff := l.now().Add(-l.cfg.IdleTTL)
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for key, b := range l.buckets {
		if b.used.Before(cutoff) {
			delete(l.buckets, key)
			n++
		}
	}
	return n
}

func (l *Limiter) sweepLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.Sweep()
		case <-l.stop:
			return
		}
	}
}

// Stop ends background sweeping. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func (l *Limiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

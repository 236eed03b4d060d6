// Package ratelimit implements per-client request throttling with token buckets.
package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Rule limits requests to a path. A Path ending in "/" matches as a prefix,
// otherwise the match is exact. An empty Method matches every method.
type Rule struct {
	Path   string
	Method string
	Limit  int           // requests per Window; <= 0 means unlimited
	Window time.Duration
	Burst  int           // bucket capacity; defaults to Limit
}

// DefaultRules throttles the expensive endpoints harder than the rest:
// resume uploads and rescore requests fan out into scoring work, so they
// get small buckets, while reads share the generous default.
func DefaultRules() []Rule {
	return []Rule{
		{Path: "/health", Method: "GET", Limit: 0},
		{Path: "/api/upload", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},
		{Path: "/api/rescore", Method: "POST", Limit: 6, Window: time.Minute, Burst: 3},
		{Path: "/api/candidates/", Method: "POST", Limit: 30, Window: time.Minute, Burst: 10},
		{Path: "/auth/token", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},
	}
}

// Config holds limiter settings.
type Config struct {
	Enabled       bool
	DefaultLimit  int
	DefaultWindow time.Duration
	Rules         []Rule
}

// ConfigFromEnv builds a Config from RATE_LIMIT_ENABLED, RATE_LIMIT_DEFAULT_LIMIT
// and RATE_LIMIT_DEFAULT_WINDOW_SECONDS, falling back to 120 requests/minute.
func ConfigFromEnv() *Config {
	cfg := &Config{
		Enabled:       true,
		DefaultLimit:  120,
		DefaultWindow: time.Minute,
		Rules:         DefaultRules(),
	}

	if raw := os.Getenv("RATE_LIMIT_ENABLED"); raw != "" {
		if enabled, err := strconv.ParseBool(raw); err == nil {
			cfg.Enabled = enabled
		}
	}
	if raw := os.Getenv("RATE_LIMIT_DEFAULT_LIMIT"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			cfg.DefaultLimit = limit
		}
	}
	if raw := os.Getenv("RATE_LIMIT_DEFAULT_WINDOW_SECONDS"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			cfg.DefaultWindow = time.Duration(secs) * time.Second
		}
	}

	return cfg
}

// Info reports the limiter's decision for one request.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

type bucket struct {
	mu         sync.Mutex
	capacity   float64
	refillRate float64 // tokens per second
	tokens     float64
	last       time.Time
}

func (b *bucket) take(now time.Time) (ok bool, remaining int, reset time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.tokens += now.Sub(b.last).Seconds() * b.refillRate
	if b.tokens > b.capacity {
		b.tokens = b.capacity
	}
	b.last = now

	if b.tokens >= 1 {
		b.tokens--
		ok = true
	}

	remaining = int(b.tokens)
	reset = now
	if b.tokens < b.capacity {
		deficit := (b.capacity - b.tokens) / b.refillRate
		reset = now.Add(time.Duration(deficit * float64(time.Second)))
	}
	return ok, remaining, reset
}

// Limiter throttles clients with one token bucket per client and rule.
type Limiter struct {
	cfg     *Config
	mu      sync.Mutex
	buckets map[string]*bucket
}

// NewLimiter creates a Limiter. A nil config disables limiting.
func NewLimiter(cfg *Config) *Limiter {
	if cfg == nil {
		cfg = &Config{Enabled: false}
	}
	return &Limiter{cfg: cfg, buckets: make(map[string]*bucket)}
}

// Allow reports whether the client may make this request now.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	if !l.cfg.Enabled {
		return true, Info{Allowed: true}
	}

	limit, window, burst := l.cfg.DefaultLimit, l.cfg.DefaultWindow, l.cfg.DefaultLimit
	if rule := matchRule(path, method, l.cfg.Rules); rule != nil {
		if rule.Limit <= 0 {
			return true, Info{Allowed: true}
		}
		limit, window, burst = rule.Limit, rule.Window, rule.Burst
		if burst <= 0 {
			burst = limit
		}
	}
	if limit <= 0 {
		return true, Info{Allowed: true}
	}

	key := clientID + " " + method + " " + path
	b := l.bucketFor(key, limit, window, burst)

	ok, remaining, reset := b.take(time.Now())
	info := Info{Allowed: ok, Limit: limit, Remaining: remaining, ResetTime: reset}
	if !ok {
		if retry := time.Until(reset); retry > 0 {
			info.RetryAfter = retry
		}
	}
	return ok, info
}

func (l *Limiter) bucketFor(key string, limit int, window time.Duration, burst int) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	if b, ok := l.buckets[key]; ok {
		return b
	}
	b := &bucket{
		capacity:   float64(burst),
		refillRate: float64(limit) / window.Seconds(),
		tokens:     float64(burst),
		last:       time.Now(),
	}
	l.buckets[key] = b
	return b
}

func matchRule(path, method string, rules []Rule) *Rule {
	for i := range rules {
		r := &rules[i]
		if r.Method != "" && r.Method != method {
			continue
		}
		if r.Path == path {
			return r
		}
		if strings.HasSuffix(r.Path, "/") && strings.HasPrefix(path, r.Path) {
			return r
		}
	}
	return nil
}

package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_AllowsWithinBurst(t *testing.T) {
	l := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		Rules: []Rule{
			{Path: "/api/upload", Method: "POST", Limit: 10, Window: time.Minute, Burst: 3},
		},
	})

	for i := 0; i < 3; i++ {
		ok, info := l.Allow("client-a", "/api/upload", "POST")
		assert.True(t, ok, "request %d should be allowed", i)
		assert.Equal(t, 10, info.Limit)
	}

	ok, info := l.Allow("client-a", "/api/upload", "POST")
	assert.False(t, ok)
	assert.Greater(t, info.RetryAfter, time.Duration(0))
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	l := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		Rules: []Rule{
			{Path: "/api/rescore", Method: "POST", Limit: 5, Window: time.Minute, Burst: 1},
		},
	})

	ok, _ := l.Allow("client-a", "/api/rescore", "POST")
	require.True(t, ok)
	ok, _ = l.Allow("client-a", "/api/rescore", "POST")
	require.False(t, ok)

	ok, _ = l.Allow("client-b", "/api/rescore", "POST")
	assert.True(t, ok, "a different client has its own bucket")
}

func TestLimiter_UnlimitedRule(t *testing.T) {
	l := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Rules:         DefaultRules(),
	})

	for i := 0; i < 50; i++ {
		ok, _ := l.Allow("client-a", "/health", "GET")
		require.True(t, ok)
	}
}

func TestLimiter_Disabled(t *testing.T) {
	l := NewLimiter(&Config{Enabled: false, DefaultLimit: 1, DefaultWindow: time.Minute})

	for i := 0; i < 10; i++ {
		ok, _ := l.Allow("client-a", "/api/upload", "POST")
		require.True(t, ok)
	}
}

func TestLimiter_NilConfigDisables(t *testing.T) {
	l := NewLimiter(nil)
	ok, _ := l.Allow("client-a", "/anything", "GET")
	assert.True(t, ok)
}

func TestMatchRule(t *testing.T) {
	rules := []Rule{
		{Path: "/api/upload", Method: "POST", Limit: 10},
		{Path: "/api/candidates/", Method: "POST", Limit: 30},
	}

	r := matchRule("/api/upload", "POST", rules)
	require.NotNil(t, r)
	assert.Equal(t, 10, r.Limit)

	assert.Nil(t, matchRule("/api/upload", "GET", rules))

	r = matchRule("/api/candidates/abc/rescore", "POST", rules)
	require.NotNil(t, r)
	assert.Equal(t, 30, r.Limit)

	assert.Nil(t, matchRule("/api/calibration", "GET", rules))
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "42")
	t.Setenv("RATE_LIMIT_DEFAULT_WINDOW_SECONDS", "30")

	cfg := ConfigFromEnv()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 42, cfg.DefaultLimit)
	assert.Equal(t, 30*time.Second, cfg.DefaultWindow)
	assert.NotEmpty(t, cfg.Rules)
}

func TestLimiter_RefillsOverTime(t *testing.T) {
	l := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		Rules: []Rule{
			// 100 tokens/sec so the bucket refills within the test.
			{Path: "/api/upload", Method: "POST", Limit: 100, Window: time.Second, Burst: 1},
		},
	})

	ok, _ := l.Allow("client-a", "/api/upload", "POST")
	require.True(t, ok)
	ok, _ = l.Allow("client-a", "/api/upload", "POST")
	require.False(t, ok)

	time.Sleep(50 * time.Millisecond)

	ok, _ = l.Allow("client-a", "/api/upload", "POST")
	assert.True(t, ok, "bucket should refill after waiting")
}

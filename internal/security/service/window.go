package service

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// windowCounter is a single sliding-window counter: a count paired with the
// window-start timestamp, reset once the window elapses.
type windowCounter struct {
	count       int
	windowStart time.Time
}

// WindowLimiter enforces a request limit per key over a fixed window. It
// backs both the anonymous per-(identifier, path) rate limit and the
// per-principal usage quotas.
//
// Counters live in an expirable LRU so per-identifier state stays bounded:
// quiet keys age out instead of accumulating for the process lifetime.
type WindowLimiter struct {
	mu       sync.Mutex
	counters *expirable.LRU[string, *windowCounter]
	limit    int
	window   time.Duration

	// now is the clock, replaceable in tests.
	now func() time.Time
}

// DefaultLimiterEntries bounds the number of live counters per limiter.
const DefaultLimiterEntries = 10000

// NewWindowLimiter creates a limiter allowing limit requests per window for
// each key. Counters expire after two idle windows.
func NewWindowLimiter(limit int, window time.Duration) *WindowLimiter {
	return &WindowLimiter{
		counters: expirable.NewLRU[string, *windowCounter](DefaultLimiterEntries, nil, 2*window),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

// Allow records a request for key and reports whether it is within the limit.
// When rejected, retryAfter is how long until the current window expires.
func (l *WindowLimiter) Allow(key string) (ok bool, retryAfter time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	c, found := l.counters.Get(key)
	if !found || now.Sub(c.windowStart) > l.window {
		l.counters.Add(key, &windowCounter{count: 1, windowStart: now})
		return true, 0
	}

	c.count++
	if c.count > l.limit {
		return false, c.windowStart.Add(l.window).Sub(now)
	}
	return true, 0
}

// Limit returns the configured per-window limit.
func (l *WindowLimiter) Limit() int {
	return l.limit
}

// Window returns the configured window duration.
func (l *WindowLimiter) Window() time.Duration {
	return l.window
}

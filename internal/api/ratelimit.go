package api

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimitOptions configures a per-client rolling window. The counter lives
// in process memory: it is not durable and does not coordinate across
// multiple server instances.
type RateLimitOptions struct {
	Window  time.Duration
	Max     int
	Message string
	Now     func() time.Time // injected clock; defaults to time.Now
}

type rateLimitEntry struct {
	count int
	reset time.Time
}

type rateLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	max     int
	now     func() time.Time
	entries map[string]*rateLimitEntry
}

func newRateLimiter(opts RateLimitOptions) *rateLimiter {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &rateLimiter{
		window:  opts.Window,
		max:     opts.Max,
		now:     now,
		entries: make(map[string]*rateLimitEntry),
	}
}

// allow counts one request for key. When the limit is exceeded it returns
// false plus the time remaining until the window resets.
func (l *rateLimiter) allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	entry, ok := l.entries[key]
	if !ok || now.After(entry.reset) {
		entry = &rateLimitEntry{reset: now.Add(l.window)}
		l.entries[key] = entry
	}
	entry.count++

	if entry.count > l.max {
		return false, entry.reset.Sub(now)
	}
	return true, 0
}

// sweep drops expired entries so the map stays bounded by the set of
// clients seen within one window.
func (l *rateLimiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key, entry := range l.entries {
		if now.After(entry.reset) {
			delete(l.entries, key)
		}
	}
}

// RateLimitMiddleware rejects clients exceeding Max requests per Window with
// a 429 and a Retry-After header. Keyed by client IP.
func RateLimitMiddleware(opts RateLimitOptions) gin.HandlerFunc {
	limiter := newRateLimiter(opts)

	go func() {
		ticker := time.NewTicker(opts.Window)
		defer ticker.Stop()
		for range ticker.C {
			limiter.sweep()
		}
	}()

	message := opts.Message
	if message == "" {
		message = "Too many requests"
	}

	return func(c *gin.Context) {
		ok, retryAfter := limiter.allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", fmt.Sprintf("%d", int(retryAfter.Seconds()+0.5)))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   message,
			})
			return
		}
		c.Next()
	}
}

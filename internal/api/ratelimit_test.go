package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestRateLimiter_AllowsUpToMax(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC)}
	limiter := newRateLimiter(RateLimitOptions{
		Window: 15 * time.Minute,
		Max:    2,
		Now:    clock.Now,
	})

	ok, _ := limiter.allow("10.0.0.1")
	assert.True(t, ok)
	ok, _ = limiter.allow("10.0.0.1")
	assert.True(t, ok)

	ok, retryAfter := limiter.allow("10.0.0.1")
	assert.False(t, ok)
	assert.Equal(t, 15*time.Minute, retryAfter)
}

func TestRateLimiter_WindowResets(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC)}
	limiter := newRateLimiter(RateLimitOptions{
		Window: 15 * time.Minute,
		Max:    1,
		Now:    clock.Now,
	})

	ok, _ := limiter.allow("10.0.0.1")
	assert.True(t, ok)
	ok, _ = limiter.allow("10.0.0.1")
	assert.False(t, ok)

	clock.Advance(15*time.Minute + time.Second)

	ok, _ = limiter.allow("10.0.0.1")
	assert.True(t, ok)
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC)}
	limiter := newRateLimiter(RateLimitOptions{
		Window: 15 * time.Minute,
		Max:    1,
		Now:    clock.Now,
	})

	ok, _ := limiter.allow("10.0.0.1")
	assert.True(t, ok)
	ok, _ = limiter.allow("10.0.0.1")
	assert.False(t, ok)

	// A different client has its own counter.
	ok, _ = limiter.allow("10.0.0.2")
	assert.True(t, ok)
}

func TestRateLimiter_SweepDropsExpiredEntries(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC)}
	limiter := newRateLimiter(RateLimitOptions{
		Window: 15 * time.Minute,
		Max:    5,
		Now:    clock.Now,
	})

	limiter.allow("10.0.0.1")
	limiter.allow("10.0.0.2")
	assert.Len(t, limiter.entries, 2)

	clock.Advance(16 * time.Minute)
	limiter.sweep()

	assert.Empty(t, limiter.entries)
}

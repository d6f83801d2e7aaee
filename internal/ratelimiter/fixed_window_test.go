package ratelimiter

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(limit int, frame time.Duration) (*FixedWindowRateLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)}
	rl := NewFixedWindowLimiter(limit, frame)
	rl.now = clock.now
	return rl, clock
}

func TestFixedWindowLimiter(t *testing.T) {
	rl, clock := newTestLimiter(2, 5*time.Second)

	for i := 0; i < 2; i++ {
		ok, retry := rl.Allow("10.0.0.1")
		require.True(t, ok, "request %d", i)
		assert.Zero(t, retry)
	}

	clock.advance(2 * time.Second)
	ok, retry := rl.Allow("10.0.0.1")
	assert.False(t, ok)
	assert.Equal(t, 3*time.Second, retry)

	ok, _ = rl.Allow("10.0.0.2")
	assert.True(t, ok, "clients are limited independently")

	clock.advance(3 * time.Second)
	ok, _ = rl.Allow("10.0.0.1")
	assert.True(t, ok, "window resets")
}

func TestFixedWindowLimiterSweepsExpiredClients(t *testing.T) {
	rl, clock := newTestLimiter(1, time.Second)

	for i := 0; i < sweepThreshold; i++ {
		ok, _ := rl.Allow(fmt.Sprintf("10.0.%d.%d", i/256, i%256))
		require.True(t, ok)
	}
	require.Equal(t, sweepThreshold, rl.Len())

	clock.advance(time.Second)
	ok, _ := rl.Allow("192.168.1.1")
	require.True(t, ok)
	assert.Equal(t, 1, rl.Len())
}

package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manualClock lets tests advance time deterministically instead of sleeping.
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Unix(0, 0)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestTokenBucket_Allow(t *testing.T) {
	tb := NewTokenBucket(10, 10) // 10 spans/sec, burst of 10

	// Should allow first 10 spans
	for i := 0; i < 10; i++ {
		assert.True(t, tb.Allow(), "should allow span %d", i)
	}

	// Should block 11th span immediately
	assert.False(t, tb.Allow(), "should block 11th span")

	// Wait and try again
	time.Sleep(100 * time.Millisecond)
	assert.True(t, tb.Allow(), "should have refilled ~1 token")
}

func TestTokenBucket_RateLimit(t *testing.T) {
	tb := NewTokenBucket(5, 5) // 5 spans/sec

	// Consume all tokens
	for i := 0; i < 5; i++ {
		assert.True(t, tb.Allow())
	}

	// Should be blocked
	assert.False(t, tb.Allow())

	// Wait 1 second - should refill 5 tokens
	time.Sleep(1100 * time.Millisecond)
	for i := 0; i < 5; i++ {
		assert.True(t, tb.Allow(), "should allow after refill")
	}
}

func TestTokenBucket_Burst(t *testing.T) {
	tb := NewTokenBucket(1, 10) // 1 span/sec, burst of 10

	// Should allow burst of 10 immediately
	for i := 0; i < 10; i++ {
		assert.True(t, tb.Allow(), "should allow burst span %d", i)
	}

	// Should block after burst
	assert.False(t, tb.Allow())
}

func TestTokenBucket_TryConsume_N(t *testing.T) {
	clock := newManualClock()
	tb := NewTokenBucket(10, 10, WithClock(clock.Now))

	assert.True(t, tb.TryConsume(7))
	assert.False(t, tb.TryConsume(5), "only 3 tokens left")
	assert.True(t, tb.TryConsume(3))
}

func TestTokenBucket_WaitForToken_Succeeds(t *testing.T) {
	clock := newManualClock()
	tb := NewTokenBucket(10, 1, WithClock(clock.Now))

	require.True(t, tb.TryConsume(1))

	done := make(chan error, 1)
	go func() {
		done <- tb.WaitForToken(context.Background(), 1)
	}()

	// Give WaitForToken a moment to start polling, then advance the clock
	// enough to refill a token.
	time.Sleep(20 * time.Millisecond)
	clock.Advance(200 * time.Millisecond)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("WaitForToken did not return after refill")
	}
}

func TestTokenBucket_WaitForToken_CancelledByContext(t *testing.T) {
	clock := newManualClock()
	tb := NewTokenBucket(0.001, 1, WithClock(clock.Now))
	require.True(t, tb.TryConsume(1))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- tb.WaitForToken(ctx, 1)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("WaitForToken did not return after cancellation")
	}
}

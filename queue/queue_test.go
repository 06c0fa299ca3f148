package queue_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jagreehal/autotel-go/queue"
)

type fakeCall struct {
	event string
	props map[string]any
}

// fakeSubscriber implements subscribers.Subscriber and subscribers.Named.
// failUntil failures are returned before every Send starts succeeding.
type fakeSubscriber struct {
	name string

	mu        sync.Mutex
	failUntil int
	attempts  int
	received  []fakeCall
	closed    bool
}

func (f *fakeSubscriber) Name() string { return f.name }

func (f *fakeSubscriber) Send(_ context.Context, event string, props map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts++
	if f.failUntil > 0 {
		f.failUntil--
		return errors.New("subscriber unavailable")
	}
	f.received = append(f.received, fakeCall{event: event, props: props})
	return nil
}

func (f *fakeSubscriber) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// callCount reports successful deliveries.
func (f *fakeSubscriber) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.received)
}

// attemptCount reports every Send invocation, successful or not.
func (f *fakeSubscriber) attemptCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts
}

func testConfig() queue.Config {
	cfg := queue.DefaultConfig()
	cfg.MaxRetries = 3
	cfg.BackoffBase = time.Millisecond
	cfg.BackoffMax = 5 * time.Millisecond
	return cfg
}

func TestQueue_HappyPath_DeliversToAllSubscribers(t *testing.T) {
	a := &fakeSubscriber{name: "alpha"}
	b := &fakeSubscriber{name: "beta"}
	q := queue.New(testConfig(), a, b)

	q.Enqueue(context.Background(), queue.Event{Name: "signup", Attributes: map[string]any{"plan": "pro"}})

	require.NoError(t, q.Flush(context.Background()))

	assert.Equal(t, 1, a.callCount())
	assert.Equal(t, 1, b.callCount())
	assert.Equal(t, 0, q.Len())
}

func TestQueue_Overflow_DropsOldest(t *testing.T) {
	sub := &fakeSubscriber{name: "alpha"}
	cfg := testConfig()
	cfg.MaxSize = 2
	q := queue.New(cfg, sub)

	ctx := context.Background()
	q.Enqueue(ctx, queue.Event{Name: "first"})
	q.Enqueue(ctx, queue.Event{Name: "second"})
	q.Enqueue(ctx, queue.Event{Name: "third"}) // evicts "first"

	require.NoError(t, q.Flush(ctx))

	names := make([]string, len(sub.received))
	for i, c := range sub.received {
		names[i] = c.event
	}
	assert.Equal(t, []string{"second", "third"}, names)
}

func TestQueue_PayloadInvalid_Dropped(t *testing.T) {
	sub := &fakeSubscriber{name: "alpha"}
	q := queue.New(testConfig(), sub)

	q.Enqueue(context.Background(), queue.Event{Name: ""})

	require.NoError(t, q.Flush(context.Background()))
	assert.Equal(t, 0, sub.callCount())
	assert.Equal(t, 0, q.Len())
}

func TestQueue_Retry_SucceedsAfterTransientFailures(t *testing.T) {
	sub := &fakeSubscriber{name: "alpha", failUntil: 2}
	cfg := testConfig()
	cfg.MaxRetries = 3
	q := queue.New(cfg, sub)

	q.Enqueue(context.Background(), queue.Event{Name: "signup"})
	require.NoError(t, q.Flush(context.Background()))

	assert.Equal(t, 1, sub.callCount(), "should deliver exactly once despite transient failures")
}

func TestQueue_Retry_ExhaustionAndPartialFanout(t *testing.T) {
	flaky := &fakeSubscriber{name: "flaky", failUntil: 1000}
	reliable := &fakeSubscriber{name: "reliable"}
	cfg := testConfig()
	cfg.MaxRetries = 2
	q := queue.New(cfg, flaky, reliable)

	q.Enqueue(context.Background(), queue.Event{Name: "signup"})
	require.NoError(t, q.Flush(context.Background()))

	assert.Equal(t, 0, flaky.callCount(), "flaky subscriber never succeeds")
	assert.Equal(t, 1, reliable.callCount(), "reliable subscriber still gets delivery")
}

func TestQueue_NoDoubleDelivery_OnRetry(t *testing.T) {
	succeedsFirst := &fakeSubscriber{name: "fast"}
	failsOnce := &fakeSubscriber{name: "slow", failUntil: 1}
	cfg := testConfig()
	q := queue.New(cfg, succeedsFirst, failsOnce)

	q.Enqueue(context.Background(), queue.Event{Name: "signup"})
	require.NoError(t, q.Flush(context.Background()))

	assert.Equal(t, 1, succeedsFirst.callCount(), "must not re-deliver to a subscriber that already succeeded")
	assert.Equal(t, 1, failsOnce.callCount())
}

func TestQueue_CircuitBreaker_SkipsOpenSubscriber(t *testing.T) {
	sub := &fakeSubscriber{name: "down", failUntil: 1000}
	cfg := testConfig()
	cfg.MaxRetries = 0
	cfg.CircuitBreaker = queue.CircuitBreakerConfig{
		FailureThreshold: 1,
		SuccessThreshold: 1,
		Timeout:          time.Hour,
	}
	q := queue.New(cfg, sub)
	ctx := context.Background()

	q.Enqueue(ctx, queue.Event{Name: "first"})
	require.NoError(t, q.Flush(ctx))
	assert.Equal(t, 1, sub.attemptCount(), "first attempt still reaches the subscriber and trips the breaker")

	before := sub.attemptCount()
	q.Enqueue(ctx, queue.Event{Name: "second"})
	require.NoError(t, q.Flush(ctx))
	assert.Equal(t, before, sub.attemptCount(), "breaker open: second event should not reach the subscriber")
}

func TestQueue_Shutdown_DrainsAndClosesSubscribers(t *testing.T) {
	sub := &fakeSubscriber{name: "alpha"}
	q := queue.New(testConfig(), sub)
	ctx := context.Background()

	q.Enqueue(ctx, queue.Event{Name: "last-event"})
	require.NoError(t, q.Shutdown(ctx))

	assert.Equal(t, 1, sub.callCount(), "shutdown must drain whatever was queued")
	assert.True(t, sub.closed)
}

func TestQueue_Shutdown_IsIdempotent(t *testing.T) {
	sub := &fakeSubscriber{name: "alpha"}
	q := queue.New(testConfig(), sub)

	require.NoError(t, q.Shutdown(context.Background()))
	require.NoError(t, q.Shutdown(context.Background()))
}

func TestQueue_FlushAfterShutdown_ReturnsErrQueueClosed(t *testing.T) {
	sub := &fakeSubscriber{name: "alpha"}
	q := queue.New(testConfig(), sub)
	ctx := context.Background()

	require.NoError(t, q.Shutdown(ctx))
	assert.ErrorIs(t, q.Flush(ctx), queue.ErrQueueClosed)
}

func TestQueue_EnqueueAfterShutdown_IsDropped(t *testing.T) {
	sub := &fakeSubscriber{name: "alpha"}
	q := queue.New(testConfig(), sub)
	ctx := context.Background()

	require.NoError(t, q.Shutdown(ctx))
	q.Enqueue(ctx, queue.Event{Name: "too-late"})

	assert.Equal(t, 0, q.Len())
	assert.Equal(t, 0, sub.callCount())
}

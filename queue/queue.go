// Package queue implements the bounded event delivery queue: batched,
// rate-limited, retrying fan-out from a single admission point to any
// number of subscribers, with backpressure instead of unbounded growth.
package queue

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/jagreehal/autotel-go/circuitbreaker"
	"github.com/jagreehal/autotel-go/correlation"
	"github.com/jagreehal/autotel-go/ratelimit"
	"github.com/jagreehal/autotel-go/subscribers"
)

func timeNow() time.Time { return time.Now() }

// Queue admits events non-blockingly and fans them out to subscribers in
// batches on a timer. Exactly one flush runs at a time; a flush in
// progress never blocks Enqueue.
type Queue struct {
	cfg Config

	subs          []subscribers.Subscriber
	subscriberIDs []string
	breakers      map[string]*circuitbreaker.CircuitBreaker
	rl            *ratelimit.TokenBucket

	metrics *metricsSurface

	stateMu    sync.Mutex
	items      []*item
	closed     bool
	flushTimer *time.Timer

	flushMu sync.Mutex

	size           atomic.Int64
	oldestUnixNano atomic.Int64 // 0 means empty

	shutdownCtx    context.Context
	shutdownCancel context.CancelFunc
}

// New constructs a Queue bound to subs. Config zero values are replaced
// with defaults. Metrics registration failure (e.g. a broken meter
// provider) is logged and otherwise ignored: a host's telemetry backend
// being down must never stop event delivery.
func New(cfg Config, subs ...subscribers.Subscriber) *Queue {
	cfg = cfg.normalize()

	ids := make([]string, len(subs))
	breakers := make(map[string]*circuitbreaker.CircuitBreaker, len(subs))
	for i, s := range subs {
		id := subscribers.Identity(s)
		ids[i] = id
		breakers[id] = circuitbreaker.NewCircuitBreaker(
			cfg.CircuitBreaker.FailureThreshold,
			cfg.CircuitBreaker.SuccessThreshold,
			cfg.CircuitBreaker.Timeout,
		)
	}

	var rl *ratelimit.TokenBucket
	if cfg.RateLimit != nil {
		rl = ratelimit.NewTokenBucket(cfg.RateLimit.MaxEventsPerSecond, cfg.RateLimit.BurstCapacity, ratelimit.WithClock(cfg.now))
	}

	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())

	q := &Queue{
		cfg:            cfg,
		subs:           subs,
		subscriberIDs:  ids,
		breakers:       breakers,
		rl:             rl,
		shutdownCtx:    shutdownCtx,
		shutdownCancel: shutdownCancel,
	}

	metrics, err := newMetricsSurface(nil, q)
	if err != nil {
		cfg.Logger.Warn("queue: metrics registration failed, continuing without gauges", zap.Error(err))
	} else {
		q.metrics = metrics
	}

	return q
}

func (q *Queue) breakerFor(id string) *circuitbreaker.CircuitBreaker {
	return q.breakers[id]
}

func (q *Queue) oldestAgeMillis() int64 {
	ns := q.oldestUnixNano.Load()
	if ns == 0 {
		return 0
	}
	age := q.cfg.now().Sub(time.Unix(0, ns))
	if age < 0 {
		return 0
	}
	return age.Milliseconds()
}

// Enqueue admits ev for delivery. It never blocks for more than the time
// needed to append to an in-memory slice, and it never returns an error:
// an invalid payload, a full queue, or a closed queue are all recorded as
// drops on the C4 metrics surface instead of raised to the caller.
func (q *Queue) Enqueue(ctx context.Context, ev Event) {
	if !ev.valid() {
		q.drop(ctx, DropPayloadInvalid, "")
		q.cfg.Logger.Warn("queue: dropped event with empty name", zap.Error(errPayloadInvalid))
		return
	}

	it := &item{
		id:         uuid.NewString(),
		name:       ev.Name,
		attributes: q.redact(ev.Attributes),
		timestamp:  ev.Timestamp,
	}
	if it.timestamp.IsZero() {
		it.timestamp = q.cfg.now()
	}
	if id, ok := correlation.FromContext(ctx); ok {
		it.correlationID = id
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		it.traceID = sc.TraceID().String()
	}

	q.stateMu.Lock()
	if q.closed {
		q.stateMu.Unlock()
		q.drop(ctx, DropShutdown, "")
		return
	}

	evicted := false
	if len(q.items) >= q.cfg.MaxSize {
		q.items = q.items[1:]
		evicted = true
	}
	q.items = append(q.items, it)
	q.size.Store(int64(len(q.items)))
	if len(q.items) > 0 {
		q.oldestUnixNano.Store(q.items[0].timestamp.UnixNano())
	}
	q.armTimerLocked()
	q.stateMu.Unlock()

	if evicted {
		q.drop(ctx, DropQueueFull, "")
		q.cfg.Logger.Warn("queue: dropped oldest event, queue at capacity", zap.Int("max_size", q.cfg.MaxSize))
	}
}

// armTimerLocked starts the flush debounce timer if one isn't already
// running. Must be called with stateMu held.
func (q *Queue) armTimerLocked() {
	if q.flushTimer != nil {
		return
	}
	q.flushTimer = time.AfterFunc(q.cfg.FlushInterval, func() {
		_ = q.Flush(q.shutdownCtx)
	})
}

func (q *Queue) redact(attrs map[string]any) map[string]any {
	if q.cfg.Redactor == nil || len(attrs) == 0 {
		return attrs
	}
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		if s, ok := v.(string); ok {
			out[k] = q.cfg.Redactor.Redact(k, s)
			continue
		}
		out[k] = v
	}
	return out
}

func (q *Queue) drop(ctx context.Context, reason DropReason, subscriber string) {
	if q.metrics != nil {
		q.metrics.recordDropped(ctx, reason, subscriber)
	}
}

// Flush drains the queue now, batch by batch (BatchSize events at a time)
// until it is empty, instead of waiting for the debounce timer. Only one
// flush runs at a time; a concurrent call blocks until the running flush
// finishes, then flushes whatever remains. Flush returns ctx.Err() if ctx
// is cancelled while waiting for that serialization, ErrQueueClosed once
// Shutdown has been called, and otherwise nil: errors from individual
// subscribers never propagate out of it.
func (q *Queue) Flush(ctx context.Context) error {
	q.stateMu.Lock()
	closed := q.closed
	q.stateMu.Unlock()
	if closed {
		return ErrQueueClosed
	}
	return q.drain(ctx)
}

// drain is Flush's body, factored out so Shutdown can force a final
// drain after it has already marked the queue closed.
func (q *Queue) drain(ctx context.Context) error {
	if err := q.acquireFlush(ctx); err != nil {
		return err
	}
	defer q.flushMu.Unlock()

	for {
		batch := q.takeBatch()
		if len(batch) == 0 {
			return nil
		}
		q.processBatch(ctx, batch)
	}
}

func (q *Queue) acquireFlush(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		q.flushMu.Lock()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		// The goroutine above still owns or will own the lock eventually;
		// let it acquire and immediately release via a follow-up Unlock
		// from whichever caller loses the race is not needed here since
		// Go's sync.Mutex has no "cancel pending lock" primitive. The
		// flush we failed to join still runs to completion independently.
		go func() {
			<-done
			q.flushMu.Unlock()
		}()
		return ctx.Err()
	}
}

// takeBatch pops up to BatchSize items off the front of the FIFO.
func (q *Queue) takeBatch() []*item {
	q.stateMu.Lock()
	defer q.stateMu.Unlock()

	if q.flushTimer != nil {
		q.flushTimer.Stop()
		q.flushTimer = nil
	}

	n := len(q.items)
	if n == 0 {
		return nil
	}
	if n > q.cfg.BatchSize {
		n = q.cfg.BatchSize
	}
	batch := q.items[:n]
	q.items = q.items[n:]
	q.size.Store(int64(len(q.items)))
	if len(q.items) > 0 {
		q.oldestUnixNano.Store(q.items[0].timestamp.UnixNano())
	} else {
		q.oldestUnixNano.Store(0)
	}
	if len(q.items) > 0 {
		q.armTimerLocked()
	}
	return batch
}

// processBatch fans each item in batch out to every subscriber whose
// circuit breaker is closed, retrying failures up to MaxRetries times
// with exponential backoff, and never re-sending to a subscriber that
// already succeeded for that item. Items are processed in order, but
// within a single item the still-outstanding subscribers are all invoked
// concurrently, so one stalled subscriber never blocks delivery to the
// rest.
func (q *Queue) processBatch(ctx context.Context, batch []*item) {
	outstanding := make([]pending, len(batch))
	for i := range batch {
		p := make(pending, len(q.subscriberIDs))
		for _, id := range q.subscriberIDs {
			p[id] = struct{}{}
		}
		outstanding[i] = p
	}

	for attempt := 0; attempt <= q.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := backoffDelay(q.cfg.BackoffBase, q.cfg.BackoffMax, q.cfg.BackoffJitter, attempt-1)
			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
			}
		}

		anyOutstanding := false
		for i, it := range batch {
			ids := make([]string, 0, len(outstanding[i]))
			for id := range outstanding[i] {
				ids = append(ids, id)
			}
			if len(ids) == 0 {
				continue
			}

			resolved := make([]bool, len(ids))
			var wg sync.WaitGroup
			wg.Add(len(ids))
			for j, id := range ids {
				go func(j int, id string) {
					defer wg.Done()
					resolved[j] = q.deliverOne(ctx, it, id)
				}(j, id)
			}
			wg.Wait()

			for j, id := range ids {
				if resolved[j] {
					delete(outstanding[i], id)
				} else {
					anyOutstanding = true
				}
			}
		}
		if !anyOutstanding {
			return
		}
	}

	// Retries exhausted: whatever is still outstanding is a permanent
	// partial-fan-out failure for this batch. Each (item, subscriber)
	// pair counts exactly one failed delivery here, never on earlier
	// attempts that still had retries left.
	for i, p := range outstanding {
		for id := range p {
			q.cfg.Logger.Error("queue: retries exhausted, delivery abandoned",
				zap.String("subscriber", id), zap.String("event", batch[i].name))
			if q.metrics != nil {
				q.metrics.recordFailed(ctx, id)
			}
		}
	}
}

// deliverOne attempts one delivery of it to the subscriber identified by
// id, honoring the circuit breaker and rate limiter, and returns whether
// the attempt resolved the (item, subscriber) pair (success or a
// terminal, non-retriable skip).
func (q *Queue) deliverOne(ctx context.Context, it *item, id string) bool {
	idx := q.indexOf(id)
	if idx < 0 {
		return true
	}
	sub := q.subs[idx]
	breaker := q.breakerFor(id)

	if !breaker.Allow() {
		q.drop(ctx, DropCircuitOpen, id)
		return true
	}

	if q.rl != nil {
		// No per-call deadline beyond ctx itself: under steady-state rate
		// limiting this wait is expected to take a while, and only
		// shutdown cancelling ctx should interrupt it. A cancelled wait
		// leaves the pair outstanding for the next attempt rather than
		// recording a drop, since nothing about the event was rejected.
		if err := q.rl.WaitForToken(ctx, 1); err != nil {
			return false
		}
	}

	attrs := it.attributes
	if len(attrs) > 0 || it.correlationID != "" || it.traceID != "" {
		enriched := make(map[string]any, len(attrs)+2)
		for k, v := range attrs {
			enriched[k] = v
		}
		if it.correlationID != "" {
			enriched["correlation_id"] = it.correlationID
		}
		if it.traceID != "" {
			enriched["trace_id"] = it.traceID
		}
		attrs = enriched
	}

	err := sub.Send(ctx, it.name, attrs)
	if err != nil {
		breaker.RecordFailure()
		q.cfg.Logger.Warn("queue: delivery attempt failed", zap.String("subscriber", id), zap.Error(err))
		return false
	}

	breaker.RecordSuccess()
	if q.metrics != nil {
		q.metrics.recordDelivered(ctx, id)
		q.metrics.recordLatency(ctx, id, float64(q.cfg.now().Sub(it.timestamp).Milliseconds()))
	}
	return true
}

func (q *Queue) indexOf(id string) int {
	for i, v := range q.subscriberIDs {
		if v == id {
			return i
		}
	}
	return -1
}

// Shutdown stops accepting new events, drains and flushes whatever is
// queued, closes every subscriber, and unregisters the metrics gauges.
// It is idempotent and safe to call more than once.
func (q *Queue) Shutdown(ctx context.Context) error {
	q.stateMu.Lock()
	alreadyClosed := q.closed
	q.closed = true
	q.stateMu.Unlock()

	q.shutdownCancel()

	if alreadyClosed {
		return nil
	}

	err := q.drain(ctx)

	for i, sub := range q.subs {
		if cerr := sub.Close(); cerr != nil {
			q.cfg.Logger.Warn("queue: subscriber close failed", zap.String("subscriber", q.subscriberIDs[i]), zap.Error(cerr))
		}
	}

	q.metrics.close()

	return err
}

// Len reports the number of events currently queued, for tests and
// diagnostics.
func (q *Queue) Len() int {
	return int(q.size.Load())
}

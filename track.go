package autotel

import (
	"context"

	"github.com/jagreehal/autotel-go/queue"
)

// Track enqueues a named event with attributes for delivery to every
// subscriber configured via WithSubscribers/Config.Subscribers. It never
// blocks beyond the cost of appending to an in-memory queue, and it never
// returns an error: delivery failures, retries, and drops are all
// reflected on the C4 metrics surface instead.
//
// Track is a no-op if Init/InitWithConfig was never called, or was called
// without any subscribers while debug mode was off. With debug mode on and
// no subscribers configured, Init installs a console subscriber, so events
// are written to stderr.
//
// Example:
//
//	autotel.Track(ctx, "user_signed_up", map[string]any{
//	    "user_id": "123",
//	    "plan":    "pro",
//	})
func Track(ctx context.Context, event string, attributes map[string]any) {
	q := getGlobalQueue()
	if q == nil {
		return
	}
	q.Enqueue(ctx, queue.Event{Name: event, Attributes: attributes})
}

// Flush forces an immediate delivery attempt for whatever is queued,
// instead of waiting for the next debounce timer. It's a no-op if no
// queue is active.
func Flush(ctx context.Context) error {
	q := getGlobalQueue()
	if q == nil {
		return nil
	}
	return q.Flush(ctx)
}

package queue

import (
	"strings"
	"time"
)

// Event is a caller-supplied unit of work submitted to Enqueue. Name should
// be a stable, low-cardinality identifier; Attributes carries the payload
// forwarded to subscribers. Timestamp is the time the event logically
// occurred; it is the basis for both the queue.oldest_age_ms gauge and the
// event.delivery.latency_ms histogram, so callers that omit it get
// Enqueue's default of "now".
type Event struct {
	Name       string
	Attributes map[string]any
	Timestamp  time.Time
}

func (e Event) valid() bool {
	return strings.TrimSpace(e.Name) != ""
}

// item is the admitted, enriched form of an Event carried through the FIFO
// and the batch-flush pipeline. It never escapes the package.
type item struct {
	id            string
	name          string
	attributes    map[string]any
	timestamp     time.Time
	correlationID string
	traceID       string
}

// pending tracks, per subscriber identity, whether delivery of one item is
// still unresolved across retry passes within a single flush.
type pending map[string]struct{}

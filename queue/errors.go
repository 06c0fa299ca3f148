package queue

import "errors"

// ErrQueueClosed is returned by Flush when called once Shutdown has been
// called (including while Shutdown is still draining). It is never
// returned by Enqueue: admission after shutdown is
// silently counted as a drop{reason=shutdown} instead, since the spec's
// delivery contract never lets the queue raise to a caller in normal
// operation.
var ErrQueueClosed = errors.New("queue: shut down")

// errPayloadInvalid classifies an admission-time rejection for logging; it
// never propagates to a caller.
var errPayloadInvalid = errors.New("queue: event payload invalid")

// Package correlation provides an ambient, task-local correlation id so
// events, logs, and spans can be joined out-of-band without passing an
// identifier through every function signature by hand.
//
// Go's context.Context already is the task-local propagation mechanism:
// a correlation id bound via GetOrCreate rides along on ctx for the
// remaining lifetime of the logical task (a request, a traced operation,
// a background job), and two concurrent tasks derived from independent
// contexts never see each other's id.
package correlation

import (
	"context"
	"crypto/rand"
	"encoding/base64"
)

type contextKey struct{}

var correlationIDKey = contextKey{}

// GetOrCreate returns the correlation id bound to ctx, minting and binding
// a fresh one if ctx does not already carry one. Callers must use the
// returned context for the remainder of the task so the id is observable
// by everything downstream (event enrichment, log handlers, span
// attributes).
//
// Example:
//
//	ctx, correlationID := correlation.GetOrCreate(ctx)
//	logger.InfoContext(ctx, "handling request", slog.String("correlation_id", correlationID))
func GetOrCreate(ctx context.Context) (context.Context, string) {
	if id, ok := FromContext(ctx); ok {
		return ctx, id
	}
	id := newID()
	return context.WithValue(ctx, correlationIDKey, id), id
}

// FromContext returns the correlation id bound to ctx, if any, without
// minting one.
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(correlationIDKey).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// WithID binds an explicit correlation id to ctx, overriding any existing
// binding. Useful when a host propagates an id it received from an
// upstream system (e.g. an inbound request header) instead of minting one.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// Degraded reports whether the process is running without any task-local
// propagation mechanism, in which case a fresh id is returned on every
// call instead of a stable one. context.Context is itself Go's task-local
// binding primitive, so a Go host is never degraded; this exists for
// parity with hosts in other languages where no ambient task context
// exists (e.g. a bare goroutine fed from context.Background() with no
// inherited value behaves like a single-call degraded task, which is
// exactly what FromContext returning false represents).
func Degraded() bool {
	return false
}

// newID mints an opaque, URL-safe random string with at least 64 bits of
// entropy (9 random bytes base64url-encoded, unpadded).
func newID() string {
	buf := make([]byte, 9)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand.Read only fails if the OS entropy source is broken;
		// fall back to a fixed-width zero id rather than panicking the
		// caller's hot path.
		return "00000000000000"
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}

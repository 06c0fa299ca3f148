package subscribers

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"
)

// ConsoleSubscriber writes events to stderr as structured JSON, mirroring
// the console span exporter in internal/exporters for debug-mode parity. It is the
// zero-config default subscriber when a host enables debug mode without
// configuring any subscribers of its own.
type ConsoleSubscriber struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewConsoleSubscriber creates a console event subscriber.
func NewConsoleSubscriber() *ConsoleSubscriber {
	return &ConsoleSubscriber{enc: json.NewEncoder(os.Stderr)}
}

// Name identifies this subscriber in metrics and logs.
func (c *ConsoleSubscriber) Name() string { return "console" }

// Send writes the event as a single JSON line.
func (c *ConsoleSubscriber) Send(_ context.Context, event string, properties map[string]any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.enc.Encode(map[string]any{
		"event":      event,
		"properties": properties,
		"timestamp":  time.Now().Format(time.RFC3339Nano),
	})
}

// Close is a no-op for the console subscriber.
func (c *ConsoleSubscriber) Close() error { return nil }

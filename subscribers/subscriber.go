package subscribers

import (
	"context"
	"reflect"
	"strings"
)

// Subscriber sends analytics events to a destination.
//
// Subscribers receive product events and forward them to external platforms
// like PostHog, Mixpanel, Amplitude, webhooks, or custom destinations. The
// queue invokes Send concurrently from many goroutines, so implementations
// must be safe for concurrent use.
type Subscriber interface {
	// Send sends an analytics event to the destination. It must honor ctx
	// cancellation and deadlines; the queue never applies its own timeout.
	Send(ctx context.Context, event string, properties map[string]any) error

	// Close closes the subscriber and releases any resources. Called once
	// during queue shutdown.
	Close() error
}

// Named lets a subscriber override the identity the queue uses to label
// metrics and circuit-breaker state. Subscribers that don't implement this
// get an identity derived from their concrete type name.
type Named interface {
	Name() string
}

// Identity returns the stable, lowercase, low-cardinality label used to tag
// this subscriber in metrics and logs. It prefers an explicit Named.Name(),
// falling back to the subscriber's type name with a trailing "Subscriber"
// stripped (e.g. *PostHogSubscriber -> "posthog").
func Identity(s Subscriber) string {
	if n, ok := s.(Named); ok {
		if name := strings.TrimSpace(n.Name()); name != "" {
			return strings.ToLower(name)
		}
	}

	t := reflect.TypeOf(s)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	name := "subscriber"
	if t != nil {
		name = t.Name()
	}
	name = strings.TrimSuffix(name, "Subscriber")
	if name == "" {
		name = "subscriber"
	}
	return strings.ToLower(name)
}

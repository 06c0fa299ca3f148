package subscribers

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusSubscriber records delivered-event counts as a Prometheus
// counter vector, for hosts that scrape Prometheus directly instead of
// (or alongside) exporting metrics over OTLP. It never fails a Send call:
// Prometheus collectors are in-memory counters, so there's nothing to
// retry or report as a delivery error.
type PrometheusSubscriber struct {
	events *prometheus.CounterVec
}

// PrometheusOption configures a PrometheusSubscriber.
type PrometheusOption func(*prometheusOptions)

type prometheusOptions struct {
	namespace string
	registry  prometheus.Registerer
}

// WithPrometheusNamespace sets the metric namespace prefix.
func WithPrometheusNamespace(ns string) PrometheusOption {
	return func(o *prometheusOptions) { o.namespace = ns }
}

// WithPrometheusRegisterer registers the counter vector against a
// non-default registry, useful for tests or multi-tenant processes.
func WithPrometheusRegisterer(reg prometheus.Registerer) PrometheusOption {
	return func(o *prometheusOptions) { o.registry = reg }
}

// NewPrometheusSubscriber creates a subscriber that increments
// <namespace>_events_total{event="..."} for every event it receives.
func NewPrometheusSubscriber(opts ...PrometheusOption) *PrometheusSubscriber {
	o := &prometheusOptions{namespace: "autotel", registry: prometheus.DefaultRegisterer}
	for _, opt := range opts {
		opt(o)
	}

	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: o.namespace,
		Name:      "events_total",
		Help:      "Events delivered to the Prometheus subscriber, by event name.",
	}, []string{"event"})

	if o.registry != nil {
		_ = o.registry.Register(events)
	}

	return &PrometheusSubscriber{events: events}
}

// Name identifies this subscriber in metrics and logs.
func (p *PrometheusSubscriber) Name() string { return "prometheus" }

// Send increments the counter for event. properties are ignored: a
// Prometheus counter vector keeps only the label cardinality it was
// built with.
func (p *PrometheusSubscriber) Send(_ context.Context, event string, _ map[string]any) error {
	p.events.WithLabelValues(event).Inc()
	return nil
}

// Close is a no-op; the underlying registry outlives the subscriber.
func (p *PrometheusSubscriber) Close() error { return nil }

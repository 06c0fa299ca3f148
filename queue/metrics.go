package queue

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/jagreehal/autotel-go/queue"

// metricsSurface is the C4 metrics surface: the seven named instruments a
// host scrapes to answer "is delivery keeping up" without reading queue
// internals. Observable gauges read from atomics and the per-subscriber
// circuit breakers rather than the hot-path state lock, so a slow metrics backend can never
// stall Enqueue.
type metricsSurface struct {
	delivered metric.Int64Counter
	failed    metric.Int64Counter
	dropped   metric.Int64Counter
	latency   metric.Float64Histogram

	sizeReg   metric.Registration
	ageReg    metric.Registration
	healthReg metric.Registration
}

func newMetricsSurface(meter metric.Meter, q *Queue) (*metricsSurface, error) {
	if meter == nil {
		meter = otel.Meter(instrumentationName)
	}

	delivered, err := meter.Int64Counter("event.delivered",
		metric.WithDescription("events successfully delivered to a subscriber"))
	if err != nil {
		return nil, err
	}
	failed, err := meter.Int64Counter("event.failed",
		metric.WithDescription("deliveries abandoned after every retry ended in a subscriber error"))
	if err != nil {
		return nil, err
	}
	dropped, err := meter.Int64Counter("event.dropped",
		metric.WithDescription("events dropped before or during delivery"))
	if err != nil {
		return nil, err
	}
	latency, err := meter.Float64Histogram("event.delivery.latency_ms",
		metric.WithDescription("wall time from enqueue to successful delivery"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, err
	}

	size, err := meter.Int64ObservableGauge("queue.size",
		metric.WithDescription("events currently queued"))
	if err != nil {
		return nil, err
	}
	age, err := meter.Int64ObservableGauge("queue.oldest_age_ms",
		metric.WithDescription("age in ms of the oldest queued event, 0 when empty"))
	if err != nil {
		return nil, err
	}
	health, err := meter.Int64ObservableGauge("subscriber.health",
		metric.WithDescription("1 if a subscriber's circuit breaker is closed, 0 if open"))
	if err != nil {
		return nil, err
	}

	sizeReg, err := meter.RegisterCallback(func(_ context.Context, obs metric.Observer) error {
		obs.ObserveInt64(size, q.size.Load())
		return nil
	}, size)
	if err != nil {
		return nil, err
	}

	ageReg, err := meter.RegisterCallback(func(_ context.Context, obs metric.Observer) error {
		obs.ObserveInt64(age, q.oldestAgeMillis())
		return nil
	}, age)
	if err != nil {
		return nil, err
	}

	healthReg, err := meter.RegisterCallback(func(_ context.Context, obs metric.Observer) error {
		for _, id := range q.subscriberIDs {
			v := int64(0)
			if q.breakerFor(id).State().String() != "open" {
				v = 1
			}
			obs.ObserveInt64(health, v, metric.WithAttributes(attribute.String("subscriber", id)))
		}
		return nil
	}, health)
	if err != nil {
		return nil, err
	}

	return &metricsSurface{
		delivered: delivered,
		failed:    failed,
		dropped:   dropped,
		latency:   latency,
		sizeReg:   sizeReg,
		ageReg:    ageReg,
		healthReg: healthReg,
	}, nil
}

func (m *metricsSurface) recordDelivered(ctx context.Context, subscriber string) {
	m.delivered.Add(ctx, 1, metric.WithAttributes(attribute.String("subscriber", subscriber)))
}

func (m *metricsSurface) recordFailed(ctx context.Context, subscriber string) {
	m.failed.Add(ctx, 1, metric.WithAttributes(attribute.String("subscriber", subscriber)))
}

func (m *metricsSurface) recordDropped(ctx context.Context, reason DropReason, subscriber string) {
	attrs := []attribute.KeyValue{attribute.String("reason", string(reason))}
	if subscriber != "" {
		attrs = append(attrs, attribute.String("subscriber", subscriber))
	}
	m.dropped.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *metricsSurface) recordLatency(ctx context.Context, subscriber string, ms float64) {
	m.latency.Record(ctx, ms, metric.WithAttributes(attribute.String("subscriber", subscriber)))
}

// close unregisters the observable-gauge callbacks. Safe to call on a
// partially constructed surface.
func (m *metricsSurface) close() {
	if m == nil {
		return
	}
	for _, reg := range []metric.Registration{m.sizeReg, m.ageReg, m.healthReg} {
		if reg != nil {
			_ = reg.Unregister()
		}
	}
}

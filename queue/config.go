package queue

import (
	"time"

	"go.uber.org/zap"
)

// DropReason is the closed set of tags on the queue.dropped counter. No
// other values may be used; the closed set keeps the metric's label
// cardinality bounded.
type DropReason string

const (
	// DropQueueFull marks an admission that evicted the oldest queued
	// event because the queue was at MaxSize.
	DropQueueFull DropReason = "rate_limit"
	// DropCircuitOpen marks a delivery skipped because that subscriber's
	// circuit breaker is open.
	DropCircuitOpen DropReason = "circuit_open"
	// DropPayloadInvalid marks an event rejected by admission validation.
	DropPayloadInvalid DropReason = "payload_invalid"
	// DropShutdown marks an admission rejected after Shutdown was called.
	DropShutdown DropReason = "shutdown"
)

// RateLimitConfig enables token-bucket admission control on the outbound
// delivery path shared by all subscribers.
type RateLimitConfig struct {
	// MaxEventsPerSecond is the token refill rate.
	MaxEventsPerSecond float64
	// BurstCapacity is the bucket's maximum size. Defaults to twice
	// MaxEventsPerSecond when zero.
	BurstCapacity int
}

// CircuitBreakerConfig tunes the per-subscriber circuit breaker that
// protects the queue from spending its whole batch budget retrying a
// subscriber that is down.
type CircuitBreakerConfig struct {
	// FailureThreshold is the number of consecutive failures before the
	// breaker opens for a subscriber.
	FailureThreshold int
	// SuccessThreshold is the number of consecutive successes needed in
	// the half-open state to close the breaker again.
	SuccessThreshold int
	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration
}

// Config tunes queue behavior. The zero value is not directly usable;
// construct with DefaultConfig and override fields, or build one by hand
// and pass it to New, which fills in defaults for zero-valued fields.
type Config struct {
	// MaxSize is the upper bound on queued events. Breaching it evicts
	// the oldest entry (drop-oldest backpressure).
	MaxSize int
	// BatchSize is the maximum number of events pulled per flush
	// iteration.
	BatchSize int
	// FlushInterval is the debounce window between scheduling a flush
	// and draining it.
	FlushInterval time.Duration
	// MaxRetries is the number of delivery attempts beyond the initial
	// send, per (event, subscriber) pair.
	MaxRetries int
	// BackoffBase is the base exponential-backoff delay between retry
	// passes: delay = BackoffBase * 2^attempt, capped at BackoffMax.
	BackoffBase time.Duration
	// BackoffMax caps the computed backoff delay.
	BackoffMax time.Duration
	// BackoffJitter adds up to this much random jitter to each backoff
	// delay. Must not exceed BackoffBase; values above it are clamped.
	BackoffJitter time.Duration

	// RateLimit enables outbound rate limiting when non-nil.
	RateLimit *RateLimitConfig

	// CircuitBreaker tunes the per-subscriber breaker. Zero values fall
	// back to DefaultConfig's.
	CircuitBreaker CircuitBreakerConfig

	// Redactor, if set, scrubs PII from string attribute values before
	// fan-out.
	Redactor piiRedactor

	// Logger receives warn/error-level diagnostics about drops, retries,
	// and retry exhaustion. Defaults to a no-op logger.
	Logger *zap.Logger

	// now is overridable for deterministic tests; defaults to time.Now.
	now func() time.Time
}

// piiRedactor is the narrow capability the queue needs from a PII
// redactor, kept local so this package doesn't have to import the
// concrete redaction package when no redactor is configured.
type piiRedactor interface {
	Redact(key, value string) string
}

// DefaultConfig returns a Config with sensible defaults, matching the
// spec's documented defaults.
func DefaultConfig() Config {
	return Config{
		MaxSize:       50_000,
		BatchSize:     100,
		FlushInterval: 10 * time.Second,
		MaxRetries:    3,
		BackoffBase:   time.Second,
		BackoffMax:    30 * time.Second,
		BackoffJitter: 0,
		CircuitBreaker: CircuitBreakerConfig{
			FailureThreshold: 5,
			SuccessThreshold: 2,
			Timeout:          10 * time.Second,
		},
	}
}

// normalize fills in zero-valued fields with defaults and clamps
// internally-inconsistent values (e.g. jitter above base).
func (c Config) normalize() Config {
	applyEnvOverrides(&c)

	d := DefaultConfig()

	if c.MaxSize <= 0 {
		c.MaxSize = d.MaxSize
	}
	if c.BatchSize <= 0 {
		c.BatchSize = d.BatchSize
	}
	if c.FlushInterval <= 0 {
		c.FlushInterval = d.FlushInterval
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = d.MaxRetries
	}
	if c.BackoffBase <= 0 {
		c.BackoffBase = d.BackoffBase
	}
	if c.BackoffMax <= 0 {
		c.BackoffMax = d.BackoffMax
	}
	if c.BackoffJitter > c.BackoffBase {
		c.BackoffJitter = c.BackoffBase
	}
	if c.CircuitBreaker.FailureThreshold <= 0 {
		c.CircuitBreaker.FailureThreshold = d.CircuitBreaker.FailureThreshold
	}
	if c.CircuitBreaker.SuccessThreshold <= 0 {
		c.CircuitBreaker.SuccessThreshold = d.CircuitBreaker.SuccessThreshold
	}
	if c.CircuitBreaker.Timeout <= 0 {
		c.CircuitBreaker.Timeout = d.CircuitBreaker.Timeout
	}
	if c.RateLimit != nil && c.RateLimit.BurstCapacity <= 0 {
		c.RateLimit.BurstCapacity = int(c.RateLimit.MaxEventsPerSecond * 2)
		if c.RateLimit.BurstCapacity <= 0 {
			c.RateLimit.BurstCapacity = 1
		}
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.now == nil {
		c.now = timeNow
	}

	return c
}

package autotel

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/jagreehal/autotel-go/queue"
	"github.com/jagreehal/autotel-go/subscribers"
)

var (
	globalQueueMu sync.RWMutex
	globalQueue   *queue.Queue
)

func setGlobalQueue(q *queue.Queue) {
	globalQueueMu.Lock()
	defer globalQueueMu.Unlock()
	globalQueue = q
}

func getGlobalQueue() *queue.Queue {
	globalQueueMu.RLock()
	defer globalQueueMu.RUnlock()
	return globalQueue
}

// Init bootstraps tracing, metrics, and (if subscribers are configured)
// event delivery, installing the global TracerProvider and MeterProvider.
// Call the returned func during shutdown to flush and release everything
// Init created.
//
// Example:
//
//	cleanup, err := autotel.Init(ctx, autotel.WithService("checkout"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cleanup(context.Background())
func Init(ctx context.Context, opts ...Option) (func(context.Context) error, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return InitWithConfig(ctx, cfg)
}

// InitWithConfig is like Init but takes a fully-assembled Config, for
// callers who built one with DefaultConfig and overrode fields directly
// instead of composing functional options.
func InitWithConfig(ctx context.Context, cfg *Config) (func(context.Context) error, error) {
	if cfg == nil {
		cfg = defaultConfig()
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = defaultServiceName
	}

	applyEnvOverrides(cfg)
	applyBackendPreset(cfg)

	if ShouldEnableDebug(cfg.Debug) {
		EnableDebug()
	} else {
		DisableDebug()
	}

	if cfg.RateLimiter != nil {
		setGlobalRateLimiter(cfg.RateLimiter)
	}
	if cfg.CircuitBreaker != nil {
		setGlobalCircuitBreaker(cfg.CircuitBreaker)
	}
	if cfg.PIIRedactor != nil {
		setGlobalPIIRedactor(cfg.PIIRedactor)
	}

	res, err := buildResource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("autotel: building resource: %w", err)
	}

	shutdownTracing, err := initTracing(ctx, cfg, res)
	if err != nil {
		return nil, err
	}

	shutdownMetrics, err := initMetrics(ctx, cfg, res)
	if err != nil {
		_ = shutdownTracing(ctx)
		return nil, err
	}

	subs := cfg.Subscribers
	if len(subs) == 0 && IsDebugEnabled() {
		subs = []subscribers.Subscriber{subscribers.NewConsoleSubscriber()}
	}

	var q *queue.Queue
	if len(subs) > 0 {
		q = queue.New(buildQueueConfig(cfg), subs...)
		setGlobalQueue(q)
	}

	cleanup := func(shutdownCtx context.Context) error {
		var errs []error
		if q != nil {
			if err := q.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("autotel: queue shutdown: %w", err))
			}
			setGlobalQueue(nil)
		}
		if err := shutdownMetrics(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("autotel: metrics shutdown: %w", err))
		}
		if err := shutdownTracing(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("autotel: tracing shutdown: %w", err))
		}
		return errors.Join(errs...)
	}

	return cleanup, nil
}

// buildQueueConfig translates the host-facing Config's Event* fields into
// a queue.Config.
func buildQueueConfig(cfg *Config) queue.Config {
	qc := queue.Config{
		MaxSize:       cfg.EventQueueSize,
		BatchSize:     cfg.EventBatchSize,
		FlushInterval: cfg.EventFlushInterval,
		MaxRetries:    cfg.EventMaxRetries,
		BackoffBase:   cfg.EventBackoffMin,
		BackoffMax:    cfg.EventBackoffMax,
		BackoffJitter: cfg.EventJitter,
		CircuitBreaker: queue.CircuitBreakerConfig{
			FailureThreshold: cfg.EventCBThreshold,
			SuccessThreshold: cfg.EventCBSuccess,
			Timeout:          cfg.EventCBReset,
		},
	}

	if cfg.EventRatePerSecond > 0 {
		qc.RateLimit = &queue.RateLimitConfig{
			MaxEventsPerSecond: cfg.EventRatePerSecond,
			BurstCapacity:      cfg.EventRateBurst,
		}
	}

	if cfg.PIIRedactor != nil {
		qc.Redactor = cfg.PIIRedactor
	}

	if IsDebugEnabled() {
		if logger, err := zap.NewDevelopment(); err == nil {
			qc.Logger = logger
		}
	}

	return qc
}

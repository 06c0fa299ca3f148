package queue

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// applyEnvOverrides layers process environment variables over cfg: an env
// var only takes effect when the corresponding field is still at its
// zero value, so an explicit caller-set value always wins.
func applyEnvOverrides(cfg *Config) {
	if cfg.MaxSize == 0 {
		if v, ok := envInt("AUTOTEL_QUEUE_MAX_SIZE"); ok {
			cfg.MaxSize = v
		}
	}
	if cfg.BatchSize == 0 {
		if v, ok := envInt("AUTOTEL_QUEUE_BATCH_SIZE"); ok {
			cfg.BatchSize = v
		}
	}
	if cfg.FlushInterval == 0 {
		if v, ok := envDuration("AUTOTEL_QUEUE_FLUSH_INTERVAL"); ok {
			cfg.FlushInterval = v
		}
	}
	if cfg.MaxRetries == 0 {
		if v, ok := envInt("AUTOTEL_QUEUE_MAX_RETRIES"); ok {
			cfg.MaxRetries = v
		}
	}

	if cfg.RateLimit == nil {
		if rate, ok := envFloat("AUTOTEL_RATE_LIMIT_EVENTS_PER_SECOND"); ok {
			rl := &RateLimitConfig{MaxEventsPerSecond: rate}
			if burst, ok := envInt("AUTOTEL_RATE_LIMIT_BURST"); ok {
				rl.BurstCapacity = burst
			}
			cfg.RateLimit = rl
		}
	}
}

func envInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func envFloat(name string) (float64, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func envDuration(name string) (time.Duration, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

package queue

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// FileConfig is the YAML-serializable subset of Config, for hosts that
// load queue tuning from a config file rather than composing it in code.
// Durations are plain strings ("10s", "1m30s") since yaml.v3 has no
// built-in time.Duration support.
type FileConfig struct {
	MaxSize       int    `yaml:"max_size"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval string `yaml:"flush_interval"`
	MaxRetries    int    `yaml:"max_retries"`
	BackoffBase   string `yaml:"backoff_base"`
	BackoffMax    string `yaml:"backoff_max"`
	BackoffJitter string `yaml:"backoff_jitter"`

	CircuitBreaker struct {
		FailureThreshold int    `yaml:"failure_threshold"`
		SuccessThreshold int    `yaml:"success_threshold"`
		Timeout          string `yaml:"timeout"`
	} `yaml:"circuit_breaker"`

	RateLimit *struct {
		MaxEventsPerSecond float64 `yaml:"max_events_per_second"`
		BurstCapacity      int     `yaml:"burst_capacity"`
	} `yaml:"rate_limit"`
}

// ParseFileConfig decodes YAML into a FileConfig.
func ParseFileConfig(data []byte) (FileConfig, error) {
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return FileConfig{}, fmt.Errorf("queue: parsing yaml config: %w", err)
	}
	return fc, nil
}

// ToConfig converts a FileConfig into a Config. Malformed duration
// strings are reported rather than silently ignored. Fields with no
// third-party-serializable representation (Logger, Redactor) are left
// zero-valued; set them on the returned Config directly.
func (fc FileConfig) ToConfig() (Config, error) {
	cfg := Config{
		MaxSize:   fc.MaxSize,
		BatchSize: fc.BatchSize,
		MaxRetries: fc.MaxRetries,
		CircuitBreaker: CircuitBreakerConfig{
			FailureThreshold: fc.CircuitBreaker.FailureThreshold,
			SuccessThreshold: fc.CircuitBreaker.SuccessThreshold,
		},
	}

	durations := []struct {
		raw string
		dst *time.Duration
		field string
	}{
		{fc.FlushInterval, &cfg.FlushInterval, "flush_interval"},
		{fc.BackoffBase, &cfg.BackoffBase, "backoff_base"},
		{fc.BackoffMax, &cfg.BackoffMax, "backoff_max"},
		{fc.BackoffJitter, &cfg.BackoffJitter, "backoff_jitter"},
		{fc.CircuitBreaker.Timeout, &cfg.CircuitBreaker.Timeout, "circuit_breaker.timeout"},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return Config{}, fmt.Errorf("queue: parsing %s: %w", d.field, err)
		}
		*d.dst = parsed
	}

	if fc.RateLimit != nil {
		cfg.RateLimit = &RateLimitConfig{
			MaxEventsPerSecond: fc.RateLimit.MaxEventsPerSecond,
			BurstCapacity:      fc.RateLimit.BurstCapacity,
		}
	}

	return cfg, nil
}

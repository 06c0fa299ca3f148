package autotel

import "strings"

// applyBackendPreset fills in the endpoint default for a handful of
// well-known OTLP-compatible vendors and sets Insecure to false for them.
// Presets never override an endpoint the caller (or an env var) already
// set, and they do not touch headers.
func applyBackendPreset(cfg *Config) {
	preset := strings.ToLower(strings.TrimSpace(cfg.BackendPreset))
	if preset == "" || preset == "otlp" {
		return
	}

	switch preset {
	case "honeycomb":
		if cfg.Endpoint == "" {
			cfg.Endpoint = "api.honeycomb.io:443"
		}
		cfg.Insecure = false
	case "datadog":
		if cfg.Endpoint == "" {
			cfg.Endpoint = "otlp-intake.datadoghq.com:443"
		}
		cfg.Insecure = false
	case "grafana":
		if cfg.Endpoint == "" {
			cfg.Endpoint = "otlp-gateway-prod-us-central-0.grafana.net:443"
		}
		cfg.Insecure = false
	}
}

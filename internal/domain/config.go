package domain

import "time"

// Config is the persisted user configuration loaded from
// ~/.chatcmd/config.yaml.
type Config struct {
	ConfigFormatVersion string      `yaml:"config_format_version"`
	Preferences         Preferences `yaml:"preferences"`

	// Endpoints optionally overrides the base URL per provider family,
	// keyed by family name. Used for proxies and self-hosted gateways;
	// the Ollama entry defaults to http://localhost:11434.
	Endpoints map[string]string `yaml:"endpoints,omitempty"`
}

// Preferences holds tunable lookup behavior. These are explicit inputs to the
// lookup service, not ambient mutable state.
type Preferences struct {
	DefaultModel   string `yaml:"default_model"`
	NoCopy         bool   `yaml:"no_copy"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxAttempts    int    `yaml:"max_attempts"`
	BackoffMS      int    `yaml:"backoff_ms"`
}

// Timeout returns the per-attempt request budget.
func (p Preferences) Timeout() time.Duration {
	if p.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// Backoff returns the initial retry backoff.
func (p Preferences) Backoff() time.Duration {
	if p.BackoffMS <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(p.BackoffMS) * time.Millisecond
}

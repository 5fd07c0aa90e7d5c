// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file and SCORECAST_ env vars.
// - External errors are wrapped with this package's sentinel kinds.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`
	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`
	// ModelPath points at the regression model artifact loaded at startup.
	ModelPath string `koanf:"model_path"`
	// HistorySize bounds the number of recent predictions kept for lookup.
	// Zero or negative keeps every prediction.
	HistorySize int `koanf:"history_size"`
	// MaxBodyBytes caps POST /predict request bodies.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:     "info",
		LogFormat:    "text",
		Addr:         ":9080",
		ModelPath:    "models/ipl_score.yaml",
		HistorySize:  10_000,
		MaxBodyBytes: 16 << 10,
	}
}

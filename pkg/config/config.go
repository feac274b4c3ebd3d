package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the Callisto client.
type Config struct {
	// API configures the GIS MT endpoint.
	API APIConfig `yaml:"api"`

	// RateLimit configures the admission gate.
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	// Journal configures the submission journal.
	Journal JournalConfig `yaml:"journal"`

	// Logging configures structured logging.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics configures the Prometheus endpoint.
	Metrics MetricsConfig `yaml:"metrics"`
}

// APIConfig configures the GIS MT endpoint and connection behavior.
type APIConfig struct {
	// BaseURL is the API root (production GIS MT when empty).
	BaseURL string `yaml:"base_url"`

	// TimeoutSeconds is the per-request timeout in seconds.
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// UserAgent is sent with every request.
	UserAgent string `yaml:"user_agent"`

	// ProductGroup is attached to document submissions (e.g. "clothes").
	ProductGroup string `yaml:"product_group"`
}

// Timeout returns the per-request timeout as a duration.
func (c *APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Rate limit units accepted in configuration, mirroring the time units the
// API contract is expressed in ("N requests per second/minute/hour").
const (
	UnitSecond = "second"
	UnitMinute = "minute"
	UnitHour   = "hour"
)

// RateLimitConfig configures the admission gate: at most Capacity requests
// per one Unit of time.
type RateLimitConfig struct {
	// Unit is the window length: "second", "minute" or "hour".
	Unit string `yaml:"unit"`

	// Capacity is the maximum number of requests per window.
	Capacity int `yaml:"capacity"`
}

// Period maps the configured unit to a duration.
func (c *RateLimitConfig) Period() (time.Duration, error) {
	switch c.Unit {
	case UnitSecond:
		return time.Second, nil
	case UnitMinute:
		return time.Minute, nil
	case UnitHour:
		return time.Hour, nil
	default:
		return 0, fmt.Errorf("unknown rate limit unit %q", c.Unit)
	}
}

// JournalConfig configures the submission journal.
type JournalConfig struct {
	// Enabled turns journaling on.
	Enabled bool `yaml:"enabled"`

	// Backend selects the storage backend: "sqlite" or "memory".
	Backend string `yaml:"backend"`

	// Path is the SQLite database file path.
	Path string `yaml:"path"`

	// RetentionDays is how long records are kept. 0 keeps them forever.
	RetentionDays int `yaml:"retention_days"`

	// MaxRecords caps the number of stored records. 0 means unlimited.
	MaxRecords int64 `yaml:"max_records"`

	// PruneSchedule is a cron expression for scheduled pruning.
	// Empty disables the scheduler.
	PruneSchedule string `yaml:"prune_schedule"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `yaml:"level"`

	// Format is the output format: "json" or "text".
	Format string `yaml:"format"`
}

// MetricsConfig configures the Prometheus metrics endpoint.
type MetricsConfig struct {
	// Enabled turns the metrics listener on.
	Enabled bool `yaml:"enabled"`

	// ListenAddress is the address the /metrics endpoint binds to.
	ListenAddress string `yaml:"listen_address"`
}

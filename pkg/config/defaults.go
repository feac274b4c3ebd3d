package config

// Default values applied to unset fields.
const (
	DefaultBaseURL        = "https://ismp.crpt.ru/api/v3"
	DefaultTimeoutSeconds = 30
	DefaultUserAgent      = "callisto/1.0"
	DefaultProductGroup   = "clothes"

	DefaultRateLimitUnit     = UnitMinute
	DefaultRateLimitCapacity = 10

	DefaultJournalBackend = "sqlite"
	DefaultJournalPath    = "data/journal.db"
	DefaultRetentionDays  = 90
	DefaultPruneSchedule  = "0 3 * * *"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"

	DefaultMetricsListenAddress = "127.0.0.1:9109"
)

// ApplyDefaults fills unset fields with default values. Booleans are left
// alone: features stay off unless the file or environment enables them.
func ApplyDefaults(cfg *Config) {
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = DefaultBaseURL
	}
	if cfg.API.TimeoutSeconds == 0 {
		cfg.API.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if cfg.API.UserAgent == "" {
		cfg.API.UserAgent = DefaultUserAgent
	}
	if cfg.API.ProductGroup == "" {
		cfg.API.ProductGroup = DefaultProductGroup
	}

	if cfg.RateLimit.Unit == "" {
		cfg.RateLimit.Unit = DefaultRateLimitUnit
	}
	if cfg.RateLimit.Capacity == 0 {
		cfg.RateLimit.Capacity = DefaultRateLimitCapacity
	}

	if cfg.Journal.Backend == "" {
		cfg.Journal.Backend = DefaultJournalBackend
	}
	if cfg.Journal.Path == "" {
		cfg.Journal.Path = DefaultJournalPath
	}
	if cfg.Journal.RetentionDays == 0 {
		cfg.Journal.RetentionDays = DefaultRetentionDays
	}
	if cfg.Journal.PruneSchedule == "" {
		cfg.Journal.PruneSchedule = DefaultPruneSchedule
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}

	if cfg.Metrics.ListenAddress == "" {
		cfg.Metrics.ListenAddress = DefaultMetricsListenAddress
	}
}

// DefaultConfig returns a configuration with all defaults applied.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

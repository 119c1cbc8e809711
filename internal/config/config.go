package config

import "time"

// AggregatorConfig is the root configuration for the aggregator.
type AggregatorConfig struct {
	Market   APIConfig     `yaml:"market"`
	Catalog  APIConfig     `yaml:"catalog"`
	Database DBConfig      `yaml:"database"`
	Engine   EngineConfig  `yaml:"engine"`
	Writer   WriterConfig  `yaml:"writer"`
	Poller   PollerConfig  `yaml:"poller"`
	Metrics  MetricsConfig `yaml:"metrics"`
	Log      LogConfig     `yaml:"log"`
}

// APIConfig holds settings for one REST API (market data or catalog).
type APIConfig struct {
	BaseURL       string        `yaml:"base_url"`
	APIKey        string        `yaml:"api_key"` // Sent as private_key query param (catalog only)
	Timeout       time.Duration `yaml:"timeout"`
	MaxAttempts   int           `yaml:"max_attempts"`
	BaseDelay     time.Duration `yaml:"base_delay"`
	MaxDelay      time.Duration `yaml:"max_delay"`
	Multiplier    float64       `yaml:"multiplier"`
	MaxConcurrent int           `yaml:"max_concurrent"` // 0 = unlimited
}

// DBConfig holds the database connection.
type DBConfig struct {
	Driver   string `yaml:"driver"` // postgres, mysql or sqlite
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	Path     string `yaml:"path"` // SQLite file, ":memory:" allowed
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// EngineConfig holds trade volume aggregation settings.
type EngineConfig struct {
	ChunkSize           int    `yaml:"chunk_size"`
	FetchConcurrency    int    `yaml:"fetch_concurrency"`    // negative = unbounded
	VelocityConcurrency int    `yaml:"velocity_concurrency"` // negative = unbounded
	ZeroPricePolicy     string `yaml:"zero_price_policy"`    // fail or skip
}

// WriterConfig holds batch writer settings.
type WriterConfig struct {
	BindLimit  int    `yaml:"bind_limit"`  // 0 = dialect maximum
	OnConflict string `yaml:"on_conflict"` // ignore or update
}

// PollerConfig holds scheduled run settings for daemon mode.
type PollerConfig struct {
	Interval time.Duration `yaml:"interval"`
	Timeout  time.Duration `yaml:"timeout"`
}

// MetricsConfig holds Prometheus and health endpoint settings.
type MetricsConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}

// LogConfig holds slog handler settings.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

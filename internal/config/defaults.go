package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultMarketURL           = "https://universalis.app/api/v2"
	DefaultCatalogURL          = "https://xivapi.com"
	DefaultAPITimeout          = 30 * time.Second
	DefaultMaxAttempts         = 10
	DefaultBaseDelay           = 500 * time.Millisecond
	DefaultMaxDelay            = 30 * time.Second
	DefaultMultiplier          = 2.0
	DefaultDBDriver            = "postgres"
	DefaultDBPort              = 5432
	DefaultMySQLPort           = 3306
	DefaultDBSSLMode           = "prefer"
	DefaultSQLitePath          = "aggregator.db"
	DefaultMaxConns            = 5
	DefaultMinConns            = 1
	DefaultChunkSize           = 90
	MaxChunkSize               = 100
	DefaultFetchConcurrency    = 32
	DefaultVelocityConcurrency = 32
	DefaultZeroPricePolicy     = "fail"
	DefaultOnConflict          = "ignore"
	DefaultPollInterval        = 6 * time.Hour
	DefaultPollTimeout         = time.Hour
	DefaultMetricsPort         = 9090
	DefaultMetricsPath         = "/metrics"
	DefaultLogLevel            = "info"
	DefaultLogFormat           = "text"
)

func (c *AggregatorConfig) applyDefaults() {
	// API defaults
	if c.Market.BaseURL == "" {
		c.Market.BaseURL = DefaultMarketURL
	}
	if c.Catalog.BaseURL == "" {
		c.Catalog.BaseURL = DefaultCatalogURL
	}
	applyAPIDefaults(&c.Market)
	applyAPIDefaults(&c.Catalog)

	// Database defaults
	applyDBDefaults(&c.Database)

	// Engine defaults
	if c.Engine.ChunkSize == 0 {
		c.Engine.ChunkSize = DefaultChunkSize
	}
	if c.Engine.FetchConcurrency == 0 {
		c.Engine.FetchConcurrency = DefaultFetchConcurrency
	}
	if c.Engine.VelocityConcurrency == 0 {
		c.Engine.VelocityConcurrency = DefaultVelocityConcurrency
	}
	if c.Engine.ZeroPricePolicy == "" {
		c.Engine.ZeroPricePolicy = DefaultZeroPricePolicy
	}

	// Writer defaults
	if c.Writer.OnConflict == "" {
		c.Writer.OnConflict = DefaultOnConflict
	}

	// Poller defaults
	if c.Poller.Interval == 0 {
		c.Poller.Interval = DefaultPollInterval
	}
	if c.Poller.Timeout == 0 {
		c.Poller.Timeout = DefaultPollTimeout
	}

	// Metrics defaults
	if c.Metrics.Port == 0 {
		c.Metrics.Port = DefaultMetricsPort
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}

	// Log defaults
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
}

func applyAPIDefaults(api *APIConfig) {
	if api.Timeout == 0 {
		api.Timeout = DefaultAPITimeout
	}
	if api.MaxAttempts == 0 {
		api.MaxAttempts = DefaultMaxAttempts
	}
	if api.BaseDelay == 0 {
		api.BaseDelay = DefaultBaseDelay
	}
	if api.MaxDelay == 0 {
		api.MaxDelay = DefaultMaxDelay
	}
	if api.Multiplier == 0 {
		api.Multiplier = DefaultMultiplier
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Driver == "" {
		db.Driver = DefaultDBDriver
	}
	if db.Port == 0 {
		switch db.Driver {
		case "postgres":
			db.Port = DefaultDBPort
		case "mysql":
			db.Port = DefaultMySQLPort
		}
	}
	if db.SSLMode == "" && db.Driver == "postgres" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.Path == "" && db.Driver == "sqlite" {
		db.Path = DefaultSQLitePath
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}

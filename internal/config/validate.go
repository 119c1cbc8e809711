package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *AggregatorConfig) Validate() error {
	if err := c.Market.validate("market"); err != nil {
		return err
	}
	if err := c.Catalog.validate("catalog"); err != nil {
		return err
	}

	if err := c.Database.validate("database"); err != nil {
		return err
	}

	if c.Engine.ChunkSize < 1 || c.Engine.ChunkSize > MaxChunkSize {
		return fmt.Errorf("engine.chunk_size must be between 1 and %d, got %d", MaxChunkSize, c.Engine.ChunkSize)
	}
	switch c.Engine.ZeroPricePolicy {
	case "fail", "skip":
	default:
		return fmt.Errorf("engine.zero_price_policy must be fail or skip, got %q", c.Engine.ZeroPricePolicy)
	}

	if c.Writer.BindLimit < 0 {
		return errors.New("writer.bind_limit must be >= 0")
	}
	switch c.Writer.OnConflict {
	case "ignore", "update":
	default:
		return fmt.Errorf("writer.on_conflict must be ignore or update, got %q", c.Writer.OnConflict)
	}

	if c.Poller.Interval <= 0 {
		return errors.New("poller.interval must be > 0")
	}

	if c.Metrics.Port < 1 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port must be between 1 and 65535, got %d", c.Metrics.Port)
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}

	return nil
}

func (api *APIConfig) validate(prefix string) error {
	if api.BaseURL == "" {
		return fmt.Errorf("%s.base_url is required", prefix)
	}
	if api.MaxAttempts < 1 {
		return fmt.Errorf("%s.max_attempts must be >= 1", prefix)
	}
	if api.Multiplier < 1 {
		return fmt.Errorf("%s.multiplier must be >= 1", prefix)
	}
	if api.MaxConcurrent < 0 {
		return fmt.Errorf("%s.max_concurrent must be >= 0", prefix)
	}
	return nil
}

func (db *DBConfig) validate(prefix string) error {
	switch db.Driver {
	case "postgres", "mysql":
	case "sqlite":
		if db.Path == "" {
			return fmt.Errorf("%s.path is required", prefix)
		}
		return nil
	default:
		return fmt.Errorf("%s.driver must be postgres, mysql or sqlite, got %q", prefix, db.Driver)
	}

	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}

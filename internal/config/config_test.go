package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	yaml := `
market:
  base_url: https://universalis.example/api/v2
  max_attempts: 4
catalog:
  base_url: https://xivapi.example
database:
  driver: postgres
  host: localhost
  port: 5432
  name: marketboard
  user: testuser
  password: testpass
engine:
  chunk_size: 50
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Market.BaseURL != "https://universalis.example/api/v2" {
		t.Errorf("Market.BaseURL = %q, want %q", cfg.Market.BaseURL, "https://universalis.example/api/v2")
	}
	if cfg.Market.MaxAttempts != 4 {
		t.Errorf("Market.MaxAttempts = %d, want 4", cfg.Market.MaxAttempts)
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("Database.Host = %q, want %q", cfg.Database.Host, "localhost")
	}
	if cfg.Engine.ChunkSize != 50 {
		t.Errorf("Engine.ChunkSize = %d, want 50", cfg.Engine.ChunkSize)
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "secret123")

	yaml := `
database:
  host: localhost
  name: marketboard
  user: testuser
  password: ${TEST_DB_PASSWORD}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Database.Password != "secret123" {
		t.Errorf("Database.Password = %q, want %q", cfg.Database.Password, "secret123")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	yaml := `
database:
  host: localhost
  name: marketboard
  user: testuser
  password: testpass
`
	path := writeTempFile(t, yaml)

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	// Check defaults were applied
	if cfg.Market.BaseURL != DefaultMarketURL {
		t.Errorf("Market.BaseURL = %q, want default %q", cfg.Market.BaseURL, DefaultMarketURL)
	}
	if cfg.Catalog.BaseURL != DefaultCatalogURL {
		t.Errorf("Catalog.BaseURL = %q, want default %q", cfg.Catalog.BaseURL, DefaultCatalogURL)
	}
	if cfg.Market.MaxAttempts != DefaultMaxAttempts {
		t.Errorf("Market.MaxAttempts = %d, want default %d", cfg.Market.MaxAttempts, DefaultMaxAttempts)
	}
	if cfg.Market.Timeout != DefaultAPITimeout {
		t.Errorf("Market.Timeout = %v, want default %v", cfg.Market.Timeout, DefaultAPITimeout)
	}
	if cfg.Database.Driver != DefaultDBDriver {
		t.Errorf("Database.Driver = %q, want default %q", cfg.Database.Driver, DefaultDBDriver)
	}
	if cfg.Database.Port != DefaultDBPort {
		t.Errorf("Database.Port = %d, want default %d", cfg.Database.Port, DefaultDBPort)
	}
	if cfg.Engine.ChunkSize != DefaultChunkSize {
		t.Errorf("Engine.ChunkSize = %d, want default %d", cfg.Engine.ChunkSize, DefaultChunkSize)
	}
	if cfg.Writer.OnConflict != DefaultOnConflict {
		t.Errorf("Writer.OnConflict = %q, want default %q", cfg.Writer.OnConflict, DefaultOnConflict)
	}
	if cfg.Metrics.Port != DefaultMetricsPort {
		t.Errorf("Metrics.Port = %d, want default %d", cfg.Metrics.Port, DefaultMetricsPort)
	}
}

func TestLoadWithDefaults_MySQLPort(t *testing.T) {
	path := writeTempFile(t, "database:\n  driver: mysql\n")

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}
	if cfg.Database.Port != DefaultMySQLPort {
		t.Errorf("Database.Port = %d, want %d", cfg.Database.Port, DefaultMySQLPort)
	}
	if cfg.Database.SSLMode != "" {
		t.Errorf("Database.SSLMode = %q, want empty for mysql", cfg.Database.SSLMode)
	}
}

func TestValidate(t *testing.T) {
	valid := func() AggregatorConfig {
		cfg := AggregatorConfig{
			Database: DBConfig{Host: "localhost", Name: "db", User: "user", Password: "pass"},
		}
		cfg.applyDefaults()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*AggregatorConfig)
		wantErr string
	}{
		{
			name:    "valid config",
			mutate:  func(*AggregatorConfig) {},
			wantErr: "",
		},
		{
			name:    "missing market url",
			mutate:  func(c *AggregatorConfig) { c.Market.BaseURL = "" },
			wantErr: "market.base_url is required",
		},
		{
			name:    "zero attempts",
			mutate:  func(c *AggregatorConfig) { c.Catalog.MaxAttempts = 0 },
			wantErr: "catalog.max_attempts must be >= 1",
		},
		{
			name:    "missing database password",
			mutate:  func(c *AggregatorConfig) { c.Database.Password = "" },
			wantErr: "database.password is required",
		},
		{
			name:    "unknown driver",
			mutate:  func(c *AggregatorConfig) { c.Database.Driver = "oracle" },
			wantErr: `database.driver must be postgres, mysql or sqlite, got "oracle"`,
		},
		{
			name: "sqlite needs no host",
			mutate: func(c *AggregatorConfig) {
				c.Database = DBConfig{Driver: "sqlite", Path: ":memory:"}
			},
			wantErr: "",
		},
		{
			name:    "min_conns exceeds max_conns",
			mutate:  func(c *AggregatorConfig) { c.Database.MaxConns, c.Database.MinConns = 5, 10 },
			wantErr: "database.min_conns (10) cannot exceed max_conns (5)",
		},
		{
			name:    "chunk size above api limit",
			mutate:  func(c *AggregatorConfig) { c.Engine.ChunkSize = 101 },
			wantErr: "engine.chunk_size must be between 1 and 100, got 101",
		},
		{
			name:    "unknown zero price policy",
			mutate:  func(c *AggregatorConfig) { c.Engine.ZeroPricePolicy = "infinity" },
			wantErr: `engine.zero_price_policy must be fail or skip, got "infinity"`,
		},
		{
			name:    "unknown conflict mode",
			mutate:  func(c *AggregatorConfig) { c.Writer.OnConflict = "replace" },
			wantErr: `writer.on_conflict must be ignore or update, got "replace"`,
		},
		{
			name:    "non-positive poll interval",
			mutate:  func(c *AggregatorConfig) { c.Poller.Interval = -time.Second },
			wantErr: "poller.interval must be > 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
			} else {
				if err == nil {
					t.Errorf("Validate() expected error containing %q, got nil", tt.wantErr)
				} else if err.Error() != tt.wantErr {
					t.Errorf("Validate() error = %q, want %q", err.Error(), tt.wantErr)
				}
			}
		})
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Cleanup(func() {
		os.Unsetenv("XIV_DOTENV_KEY")
		os.Unsetenv("XIV_DOTENV_SET")
	})
	t.Setenv("XIV_DOTENV_SET", "from-env")
	os.Unsetenv("XIV_DOTENV_KEY")

	env := "XIV_DOTENV_KEY=from-dotenv\nXIV_DOTENV_SET=from-dotenv\n"
	if err := os.WriteFile(filepath.Join(dir, DotEnvFile), []byte(env), 0644); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	path := writeTempFile(t, `
catalog:
  api_key: ${XIV_DOTENV_KEY}
database:
  password: ${XIV_DOTENV_SET}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Catalog.APIKey != "from-dotenv" {
		t.Errorf("Catalog.APIKey = %q, want %q", cfg.Catalog.APIKey, "from-dotenv")
	}
	if cfg.Database.Password != "from-env" {
		t.Errorf("Database.Password = %q, want environment value to win", cfg.Database.Password)
	}
}

func TestLoadWithoutDotEnv(t *testing.T) {
	t.Chdir(t.TempDir())

	path := writeTempFile(t, "log:\n  level: debug\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed without .env: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

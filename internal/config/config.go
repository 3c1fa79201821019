package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is the process configuration
type Config struct {
	LogLevel  string          `yaml:"log_level"`
	Storage   StorageConfig   `yaml:"storage"`
	Quote     QuoteConfig     `yaml:"quote"`
	Server    ServerConfig    `yaml:"server"`
	Valuation ValuationConfig `yaml:"valuation"`
}

type StorageConfig struct {
	Driver     string `yaml:"driver"`
	DSN        string `yaml:"dsn"`
	SQLitePath string `yaml:"sqlite_path"`
	// SeedFile is a CSV imported on start when the store is empty
	SeedFile   string `yaml:"seed_file"`
}

type QuoteConfig struct {
	BaseURL  string        `yaml:"base_url"`
	APIKey   string        `yaml:"api_key"`
	Timeout  time.Duration `yaml:"timeout"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

type ServerConfig struct {
	GRPCAddr string `yaml:"grpc_addr"`
	HTTPAddr string `yaml:"http_addr"`
}

type ValuationConfig struct {
	// Workers caps the concurrent quote lookups of one batch valuation
	Workers int `yaml:"workers"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Storage: StorageConfig{
			Driver:     DriverMemory,
			SQLitePath: "portfolio.db",
		},
		Quote: QuoteConfig{
			BaseURL:  "https://finnhub.io/api/v1",
			Timeout:  5 * time.Second,
			CacheTTL: 5 * time.Minute,
		},
		Server: ServerConfig{
			GRPCAddr: ":8080",
			HTTPAddr: ":8081",
		},
		Valuation: ValuationConfig{Workers: 8},
	}
}

// Load reads the YAML file at path over the defaults, applies environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		// 1. Read the YAML file content
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
		}

		// 2. Unmarshal data over the defaults
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config from YAML: %w", err)
		}
	}

	// 3. Environment wins over the file
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	// 4. Validate the loaded configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString("LOG_LEVEL", &c.LogLevel)
	setString("PORTFOLIO_STORAGE", &c.Storage.Driver)
	setString("DB_CONN_STR", &c.Storage.DSN)
	setString("SQLITE_PATH", &c.Storage.SQLitePath)
	setString("PORTFOLIO_SEED_FILE", &c.Storage.SeedFile)
	setString("FINNHUB_API_KEY", &c.Quote.APIKey)
	setString("FINNHUB_BASE_URL", &c.Quote.BaseURL)
	setString("GRPC_ADDR", &c.Server.GRPCAddr)
	setString("HTTP_ADDR", &c.Server.HTTPAddr)

	// If explicit string is missing, build it from individual vars (Docker friendly)
	if c.Storage.Driver == DriverPostgres && c.Storage.DSN == "" && os.Getenv("DB_HOST") != "" {
		c.Storage.DSN = PostgresDSN(
			os.Getenv("DB_HOST"),
			getenvDefault("DB_PORT", "5432"),
			getenvDefault("DB_USER", "postgres"),
			getenvDefault("DB_PASSWORD", "postgres"),
			getenvDefault("DB_NAME", "portfolio"),
		)
	}

	if v := os.Getenv("VALUATION_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid VALUATION_WORKERS %q: %w", v, err)
		}
		c.Valuation.Workers = n
	}
	return nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Validate performs basic configuration validation
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Storage.DSN == "" {
			return fmt.Errorf("database connection string cannot be empty for postgres")
		}
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("database path cannot be empty for sqlite")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if c.Quote.Timeout <= 0 {
		return fmt.Errorf("quote timeout must be greater than 0")
	}
	if c.Quote.CacheTTL <= 0 {
		return fmt.Errorf("quote cache ttl must be greater than 0")
	}
	if c.Valuation.Workers <= 0 {
		return fmt.Errorf("valuation workers must be greater than 0")
	}
	if c.Server.GRPCAddr == "" && c.Server.HTTPAddr == "" {
		return fmt.Errorf("at least one of grpc_addr and http_addr must be set")
	}
	return nil
}

// PostgresDSN builds a lib/pq connection string from individual settings
func PostgresDSN(host, port, user, password, dbname string) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)
}

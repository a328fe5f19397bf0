// Package config loads the service configuration from TOML files and the environment
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/shopspring/decimal"
)

// Config holds all configuration
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Market   MarketConfig   `toml:"market"`
	Logging  LoggingConfig  `toml:"logging"`
}

// ServerConfig holds the gRPC listener settings
type ServerConfig struct {
	Addr     string `toml:"addr"`
	APIToken string `toml:"api_token"`
}

// DatabaseConfig holds the PostgreSQL settings
type DatabaseConfig struct {
	ConnString      string `toml:"conn_string"`
	Host            string `toml:"host"`
	Port            string `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	Name            string `toml:"name"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime string `toml:"conn_max_lifetime"`
}

// MarketConfig holds the market data settings
type MarketConfig struct {
	DefaultCDI   string  `toml:"default_cdi"`
	CoinGeckoURL string  `toml:"coingecko_url"`
	YahooURL     string  `toml:"yahoo_url"`
	RateLimit    float64 `toml:"rate_limit"` // requests per second, per provider
	Timeout      string  `toml:"timeout"`
}

// LoggingConfig holds the logger settings
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:     ":8080",
			APIToken: "dev-token",
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            "5432",
			User:            "postgres",
			Password:        "postgres",
			Name:            "wealthflow",
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: "30m",
		},
		Market: MarketConfig{
			DefaultCDI:   "11.25",
			CoinGeckoURL: "https://api.coingecko.com/api/v3",
			YahooURL:     "https://query1.finance.yahoo.com",
			RateLimit:    2,
			Timeout:      "10s",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from the given files, later files overriding earlier ones.
// Missing files are skipped. Environment variables are applied last.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// applyEnvOverrides keeps the variable names the deployment already uses
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("GRPC_ADDR"); v != "" {
		config.Server.Addr = v
	}
	if v := os.Getenv("API_TOKEN"); v != "" {
		config.Server.APIToken = v
	}

	if v := os.Getenv("DB_CONN_STR"); v != "" {
		config.Database.ConnString = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		config.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		config.Database.Port = v
	}
	if v := os.Getenv("DB_USER"); v != "" {
		config.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		config.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		config.Database.Name = v
	}

	if v := os.Getenv("DEFAULT_CDI"); v != "" {
		config.Market.DefaultCDI = v
	}
	if v := os.Getenv("MARKET_RATE_LIMIT"); v != "" {
		if limit, err := strconv.ParseFloat(v, 64); err == nil {
			config.Market.RateLimit = limit
		}
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		config.Logging.Format = v
	}
}

// Validate checks values that would otherwise fail late
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server addr is required")
	}
	if _, err := c.GetDefaultCDI(); err != nil {
		return err
	}
	if c.Market.RateLimit <= 0 {
		return fmt.Errorf("market rate_limit must be positive, got %v", c.Market.RateLimit)
	}
	return nil
}

// ConnectionString returns the explicit DSN or one assembled from the parts
func (c *DatabaseConfig) ConnectionString() string {
	if c.ConnString != "" {
		return c.ConnString
	}
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, sslMode)
}

// GetConnMaxLifetime parses the lifetime, defaulting to 30 minutes
func (c *DatabaseConfig) GetConnMaxLifetime() time.Duration {
	d, err := time.ParseDuration(c.ConnMaxLifetime)
	if err != nil {
		return 30 * time.Minute
	}
	return d
}

// GetTimeout parses the market timeout, defaulting to 10 seconds
func (c *MarketConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// GetDefaultCDI returns the fallback reference rate, as an annual percentage
func (c *Config) GetDefaultCDI() (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(c.Market.DefaultCDI)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid default_cdi %q: %w", c.Market.DefaultCDI, err)
	}
	if rate.IsNegative() {
		return decimal.Zero, fmt.Errorf("default_cdi cannot be negative: %s", rate)
	}
	return rate, nil
}

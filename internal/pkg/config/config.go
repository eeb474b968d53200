package config

import (
	"context"
	"errors"
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/sethvargo/go-envconfig"
)

const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET, default=change-me"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=12h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`

	// Timezone is the business time zone: "today" and the current hour for
	// promotions, sales hours and reports are evaluated in it.
	Timezone       string `env:"TIMEZONE,         default=America/Mexico_City"`
	SalesOpenHour  int    `env:"SALES_OPEN_HOUR,  default=7"`
	SalesCloseHour int    `env:"SALES_CLOSE_HOUR, default=23"`

	StoreDriver string `env:"STORE_DRIVER, default=memory"`

	Mongo     MongoConfig
	Redis     RedisConfig
	Highlight HighlightConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=pos_system"`
}

type RedisConfig struct {
	Enabled  bool   `env:"REDIS_ENABLED,  default=false"`
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`

	// KeyPrefix namespaces every key, e.g. one prefix per branch.
	KeyPrefix string `env:"REDIS_KEY_PREFIX, default=pos"`
}

// HighlightConfig points at the featured-product service. An empty URL
// disables suggestions.
type HighlightConfig struct {
	URL     string        `env:"HIGHLIGHT_URL"`
	APIKey  string        `env:"HIGHLIGHT_API_KEY"`
	Timeout time.Duration `env:"HIGHLIGHT_TIMEOUT, default=5s"`
	TTL     time.Duration `env:"HIGHLIGHT_TTL,     default=1h"`
	Workers int           `env:"HIGHLIGHT_WORKERS, default=4"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration from l and validates it.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.SalesOpenHour < 0 || c.SalesCloseHour > 24 || c.SalesOpenHour >= c.SalesCloseHour {
		errs = append(errs, fmt.Errorf("sales hours [%d, %d) are invalid", c.SalesOpenHour, c.SalesCloseHour))
	}
	if c.StoreDriver != StoreMemory && c.StoreDriver != StoreMongo {
		errs = append(errs, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StoreMemory, StoreMongo, c.StoreDriver))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Location loads the business time zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

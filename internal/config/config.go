// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file
// when present), loads them into structured Go types and validates that
// required values are present so they can be reused across the
// application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults for optional config blocks (observability, cache, rate limit).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists, it gets loaded into the
	// process env before koanf reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read using the BRANDAPI_ prefix. Keys are lowercased and the
	prefix removed; nesting uses the "." delimiter, so

		BRANDAPI_SERVER.PORT -> server.port -> Config.Server.Port
*/

// EnvPrefix is the prefix every configuration variable must carry.
const EnvPrefix = "BRANDAPI_"

// ServiceName is the fixed service label used by logs and APM.
const ServiceName = "brand-api"

// Supported document store backends.
const (
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
)

// Config is the root configuration object for the application.
//
// Mongo and Database are pointers because only the block of the selected
// store backend is required. Observability, Cache and RateLimit are optional
// and defaulted when missing.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Store         StoreConfig          `koanf:"store" validate:"required"`
	Mongo         *MongoConfig         `koanf:"mongo"`
	Database      *DatabaseConfig      `koanf:"database"`
	Redis         RedisConfig          `koanf:"redis" validate:"required"`
	Integration   IntegrationConfig    `koanf:"integration"`
	Cache         *CacheConfig         `koanf:"cache"`
	RateLimit     *RateLimitConfig     `koanf:"rate_limit"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are expressed in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
}

// StoreConfig selects which document store backs the brand repository.
type StoreConfig struct {
	Backend string `koanf:"backend" validate:"required,oneof=mongo postgres"`
}

// MongoConfig contains MongoDB connection parameters.
type MongoConfig struct {
	URI            string `koanf:"uri" validate:"required"`
	Database       string `koanf:"database" validate:"required"`
	Collection     string `koanf:"collection"`
	ConnectTimeout int    `koanf:"connect_timeout"`
	MaxPoolSize    uint64 `koanf:"max_pool_size"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password" validate:"required"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// RedisConfig contains Redis connection details.
// Address is typically "host:port".
type RedisConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// IntegrationConfig stores credentials of third-party providers.
// An empty ResendAPIKey disables outgoing email.
type IntegrationConfig struct {
	ResendAPIKey string `koanf:"resend_api_key"`
	EmailFrom    string `koanf:"email_from"`
}

// CacheConfig controls the Redis read-through cache of single brands.
type CacheConfig struct {
	Enabled bool          `koanf:"enabled"`
	TTL     time.Duration `koanf:"ttl" validate:"omitempty,min=1s"`
}

// RateLimitConfig controls the per-IP fixed window rate limiter.
type RateLimitConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Requests int           `koanf:"requests" validate:"omitempty,min=1"`
	Window   time.Duration `koanf:"window" validate:"omitempty,min=1s"`
}

// DefaultCacheConfig caches single brand reads for five minutes.
func DefaultCacheConfig() *CacheConfig {
	return &CacheConfig{
		Enabled: true,
		TTL:     5 * time.Minute,
	}
}

// DefaultRateLimitConfig allows 100 requests per IP per minute.
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		Enabled:  true,
		Requests: 100,
		Window:   time.Minute,
	}
}

// IsLocal reports whether the app runs on a developer machine.
func (c *Config) IsLocal() bool {
	return c.Primary.Env == "local"
}

// LoadConfig loads configuration from environment variables, unmarshals it
// into Config, validates it, applies defaults and returns the result.
//
// Unlike a fatal loader, every failure is returned so that main decides how
// to exit and tests can exercise the error paths.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load initial env variables: %w", err)
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	if err := mainConfig.finalize(); err != nil {
		return nil, err
	}

	return mainConfig, nil
}

// finalize injects defaults and validates the config as a whole.
func (c *Config) finalize() error {
	if c.Store.Backend == "" {
		c.Store.Backend = BackendMongo
	}
	if c.Cache == nil {
		c.Cache = DefaultCacheConfig()
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = DefaultCacheConfig().TTL
	}
	if c.RateLimit == nil {
		c.RateLimit = DefaultRateLimitConfig()
	}
	if c.RateLimit.Requests == 0 {
		c.RateLimit.Requests = DefaultRateLimitConfig().Requests
	}
	if c.RateLimit.Window == 0 {
		c.RateLimit.Window = DefaultRateLimitConfig().Window
	}
	if c.Observability == nil {
		c.Observability = DefaultObservabilityConfig()
	}

	// Service name and environment are forced so tracing and logging see
	// consistent labels regardless of what the environment says.
	c.Observability.ServiceName = ServiceName
	c.Observability.Environment = c.Primary.Env

	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	switch c.Store.Backend {
	case BackendMongo:
		if c.Mongo == nil {
			return fmt.Errorf("mongo config is required for the %q store backend", BackendMongo)
		}
		if c.Mongo.Collection == "" {
			c.Mongo.Collection = "brands"
		}
		if c.Mongo.ConnectTimeout == 0 {
			c.Mongo.ConnectTimeout = 10
		}
	case BackendPostgres:
		if c.Database == nil {
			return fmt.Errorf("database config is required for the %q store backend", BackendPostgres)
		}
	}

	if c.Integration.EmailFrom == "" {
		c.Integration.EmailFrom = "Brand API <onboarding@resend.dev>"
	}

	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("invalid observability config: %w", err)
	}

	return nil
}

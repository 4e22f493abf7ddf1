package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// devJWTSecret signs tokens outside production when JWT_SECRET is unset.
const devJWTSecret = "dev-only-insecure-secret"

type Config struct {
	Port            string        `env:"PORT,             default=8080"`
	Env             string        `env:"ENV,              default=development"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	LogPretty       bool          `env:"LOG_PRETTY,       default=false"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`

	Upstream UpstreamConfig
	Cache    CacheConfig
	Auth     AuthConfig
	Mongo    MongoConfig
	Redis    RedisConfig
}

type UpstreamConfig struct {
	URL       string        `env:"AFFIRMATION_API_URL,        default=https://www.affirmations.dev/"`
	Timeout   time.Duration `env:"AFFIRMATION_API_TIMEOUT,    default=5s"`
	UserAgent string        `env:"AFFIRMATION_API_USER_AGENT, default=affirmation-api/1.0"`
}

type CacheConfig struct {
	// Capacity <= 0 keeps every fetched affirmation.
	Capacity int `env:"AFFIRMATION_CACHE_CAPACITY, default=0"`
}

type AuthConfig struct {
	JWTSecret        string        `env:"JWT_SECRET"`
	TokenTTL         time.Duration `env:"TOKEN_TTL,            default=24h"`
	MaxLoginAttempts int           `env:"LOGIN_MAX_ATTEMPTS,   default=5"`
	LockoutWindow    time.Duration `env:"LOGIN_LOCKOUT_WINDOW, default=15m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=affirmations"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// IsProduction reports whether ENV is "production".
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration through l and validates it.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.IsProduction() && c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when ENV=production")
	}
	if c.Auth.JWTSecret == "" {
		c.Auth.JWTSecret = devJWTSecret
	}
	if c.Upstream.Timeout <= 0 {
		return fmt.Errorf("AFFIRMATION_API_TIMEOUT must be positive, got %s", c.Upstream.Timeout)
	}
	return nil
}

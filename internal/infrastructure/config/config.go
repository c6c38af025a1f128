package config

import (
	"context"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET, required"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// Timezone fixes the calendar day and the work start wall clock.
	Timezone string `env:"TIMEZONE, default=UTC"`
	// KioskDegradedMode lets the kiosk answer optimistically while the
	// datastore is unreachable.
	KioskDegradedMode bool `env:"KIOSK_DEGRADED_MODE, default=false"`
	// CORSAllowOrigins is a comma-separated list; "*" allows any origin.
	CORSAllowOrigins string `env:"CORS_ALLOW_ORIGINS, default=*"`
	AuditWorkers     int    `env:"AUDIT_WORKERS, default=4"`

	Mongo      MongoConfig
	Redis      RedisConfig
	Recognizer RecognizerConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=attendance"`
}

type RedisConfig struct {
	Enabled bool   `env:"REDIS_ENABLED, default=false"`
	Addr    string `env:"REDIS_ADDR, default=localhost:6379"`
	DB      int    `env:"REDIS_DB,   default=0"`
}

type RecognizerConfig struct {
	URL string `env:"RECOGNIZER_URL, default=http://localhost:8000"`
	// Timeout overrides the recognize call timeout (30s).
	Timeout time.Duration `env:"RECOGNIZER_TIMEOUT, default=30s"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// AllowOrigins splits CORSAllowOrigins.
func (c *Config) AllowOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Session backends.
const (
	SessionMemory   = "memory"
	SessionPostgres = "postgres"
	SessionRedis    = "redis"
)

type Config struct {
	Env        string `env:"APP_ENV" envDefault:"development"`
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8080"`

	BackendURL     string        `env:"BACKEND_URL" envDefault:"http://localhost:3000"`
	BackendTimeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"0s"`

	SessionBackend       string        `env:"SESSION_BACKEND" envDefault:"memory"`
	SessionTTL           time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	SessionSecret        string        `env:"SESSION_SECRET"`
	SessionSweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"10m"`
	DatabaseURL          string        `env:"DATABASE_URL"`
	RedisURL             string        `env:"REDIS_URL"`
	MigrateOnStart       bool          `env:"MIGRATE_ON_START" envDefault:"false"`

	IntakeRate  float64 `env:"INTAKE_RATE" envDefault:"1"`
	IntakeBurst int     `env:"INTAKE_BURST" envDefault:"5"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

// devSecret signs session cookies when no secret is configured in development.
const devSecret = "brandscope-development-secret"

// Load parses the environment. The returned Config carries defaults even when
// err is non-nil so callers can decide whether a problem is fatal.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	err := cfg.Validate()
	return cfg, err
}

func (c *Config) IsDevelopment() bool { return c.Env == "development" }

// Validate checks cross-field requirements. In development a missing session
// secret is filled with a fixed value.
func (c *Config) Validate() error {
	var errs []error
	if c.BackendURL == "" {
		errs = append(errs, errors.New("BACKEND_URL is required"))
	}
	switch c.SessionBackend {
	case SessionMemory:
	case SessionPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres session backend"))
		}
	case SessionRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL is required for the redis session backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown SESSION_BACKEND %q", c.SessionBackend))
	}
	if c.SessionSecret == "" {
		if c.IsDevelopment() {
			c.SessionSecret = devSecret
		} else {
			errs = append(errs, errors.New("SESSION_SECRET is required outside development"))
		}
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.IntakeRate <= 0 || c.IntakeBurst < 1 {
		errs = append(errs, errors.New("INTAKE_RATE and INTAKE_BURST must be positive"))
	}
	return errors.Join(errs...)
}

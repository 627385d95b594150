// Package config loads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/huey-app/huey/database"
)

type Config struct {
	Port             string        `mapstructure:"PORT"`
	GinMode          string        `mapstructure:"GIN_MODE"`
	DBDriver         string        `mapstructure:"DB_DRIVER"`
	DatabaseURL      string        `mapstructure:"DATABASE_URL"`
	JWTSecret        string        `mapstructure:"JWT_SECRET"`
	SessionTTL       time.Duration `mapstructure:"SESSION_TTL"`
	SessionCookie    string        `mapstructure:"SESSION_COOKIE"`
	CookieSecure     bool          `mapstructure:"COOKIE_SECURE"`
	CORSOrigins      []string      `mapstructure:"CORS_ORIGINS"`
	LogLevel         string        `mapstructure:"LOG_LEVEL"`
	LogFormat        string        `mapstructure:"LOG_FORMAT"`
	RedisURL         string        `mapstructure:"REDIS_URL"`
	RateLimitPerMin  int           `mapstructure:"RATE_LIMIT_PER_MINUTE"`
	SweepInterval    time.Duration `mapstructure:"SWEEP_INTERVAL"`
	SweepSeatedAfter time.Duration `mapstructure:"SWEEP_SEATED_AFTER"`
	ShutdownTimeout  time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
}

var defaults = map[string]interface{}{
	"PORT":                  "8080",
	"GIN_MODE":              "debug",
	"DB_DRIVER":             database.DriverSQLite,
	"DATABASE_URL":          "",
	"JWT_SECRET":            "",
	"SESSION_TTL":           "24h",
	"SESSION_COOKIE":        "huey_session",
	"COOKIE_SECURE":         false,
	"CORS_ORIGINS":          "http://localhost:3000",
	"LOG_LEVEL":             "info",
	"LOG_FORMAT":            "text",
	"REDIS_URL":             "",
	"RATE_LIMIT_PER_MINUTE": 10,
	"SWEEP_INTERVAL":        "15m",
	"SWEEP_SEATED_AFTER":    "0",
	"SHUTDOWN_TIMEOUT":      "10s",
}

// Load reads envFile if it exists, then the process environment. Real
// environment variables win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.CORSOrigins = splitList(cfg.CORSOrigins)
	return &cfg, nil
}

// Validate rejects settings the server cannot safely start with.
func (c *Config) Validate() error {
	switch strings.ToLower(c.DBDriver) {
	case database.DriverSQLite, database.DriverMySQL, database.DriverPostgres, "postgresql":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.DBDriver != database.DriverSQLite && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for %s", c.DBDriver)
	}
	switch c.GinMode {
	case "", "debug", "release", "test":
	default:
		return fmt.Errorf("unsupported GIN_MODE %q", c.GinMode)
	}
	if c.JWTSecret == "" && !c.IsDebug() {
		return errors.New("JWT_SECRET must be set outside debug mode")
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.SweepInterval <= 0 {
		return errors.New("SWEEP_INTERVAL must be positive")
	}
	if c.SweepSeatedAfter < 0 {
		return errors.New("SWEEP_SEATED_AFTER cannot be negative")
	}
	if c.RateLimitPerMin <= 0 {
		return errors.New("RATE_LIMIT_PER_MINUTE must be positive")
	}
	return nil
}

func (c *Config) IsDebug() bool {
	return c.GinMode == "" || c.GinMode == "debug"
}

// Secret returns the JWT signing key, falling back to a fixed development key
// in debug mode.
func (c *Config) Secret() string {
	if c.JWTSecret == "" && c.IsDebug() {
		return "huey-development-secret"
	}
	return c.JWTSecret
}

func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

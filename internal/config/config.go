// Package config loads server configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every knob the server reads from the environment.
type Config struct {
	// Addr is the listen address for the Connect server.
	Addr string `env:"TALLY_ADDR" envDefault:":8080"`

	// DBPath is the SQLite database file path.
	DBPath string `env:"TALLY_DB_PATH" envDefault:"./data/tally.db"`

	// JWTSecret signs session tokens. Must be set outside local dev.
	JWTSecret string `env:"TALLY_JWT_SECRET" envDefault:"dev-secret-change-me"`

	// TokenTTL is how long session tokens stay valid.
	TokenTTL time.Duration `env:"TALLY_TOKEN_TTL" envDefault:"24h"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"TALLY_LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

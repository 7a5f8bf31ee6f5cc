// Package config loads runtime configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the clicker binaries read from the environment.
type Config struct {
	// DBPath is where the SQLite save database lives.
	DBPath string `env:"CLICKER_DB_PATH" envDefault:"data/clicker.db"`

	// APIPort is the HTTP API listen port.
	APIPort int `env:"CLICKER_API_PORT" envDefault:"8080"`

	// AdminKey is the bearer token for mutating endpoints. Empty disables
	// the auth check.
	AdminKey string `env:"CLICKER_ADMIN_KEY"`

	// AutosaveInterval is how often dirty state is flushed to storage.
	AutosaveInterval time.Duration `env:"CLICKER_AUTOSAVE_INTERVAL" envDefault:"30s"`
}

// Load parses configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

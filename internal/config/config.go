package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the server's environment-driven configuration
type Config struct {
	Host string `env:"TOWNSQ_HOST" envDefault:""`
	Port int    `env:"TOWNSQ_PORT" envDefault:"8080"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `env:"TOWNSQ_LOG_LEVEL" envDefault:"info"`

	// StorageType selects the poster image store: memory or redis
	StorageType string `env:"TOWNSQ_STORAGE" envDefault:"memory"`
	RedisURL    string `env:"TOWNSQ_REDIS_URL" envDefault:"redis://localhost:6379"`

	// VideoSigningSecret signs the per-player video room tokens
	VideoSigningSecret string        `env:"TOWNSQ_VIDEO_SECRET" envDefault:"insecure-dev-secret"`
	VideoTokenTTL      time.Duration `env:"TOWNSQ_VIDEO_TOKEN_TTL" envDefault:"4h"`

	// MapPath points at a Tiled map JSON file; empty uses the embedded
	// default map
	MapPath string `env:"TOWNSQ_MAP_PATH" envDefault:""`
}

// Load reads configuration from the environment
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

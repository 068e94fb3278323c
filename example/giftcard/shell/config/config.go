package config

import (
	"log/slog"

	"github.com/caarlos0/env/v11"
)

// Config holds the runtime configuration of the gift card demo.
type Config struct {
	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`
	MaxIndexMatchers int    `env:"EVENTSTORE_MAX_INDEX_MATCHERS" envDefault:"1"`
	StartingPosition int64  `env:"EVENTSTORE_STARTING_POSITION" envDefault:"0"`
	DemoCards        int    `env:"DEMO_CARDS" envDefault:"3"`
}

// Load parses the configuration from environment variables, applying defaults
// for everything unset.
func Load() (Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// SlogLevel maps the configured log level string to a slog.Level.
// Unknown values fall back to info.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

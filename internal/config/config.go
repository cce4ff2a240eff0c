// Package config handles application configuration from environment
// variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration.
type Config struct {
	// DBPath overrides the default database location
	// (~/.runcoach/data.db).
	DBPath string `env:"RUNCOACH_DB_PATH"`
	// OpenAIAPIKey enables LLM description enrichment when set.
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
	// EnrichTimeout bounds each enrichment call.
	EnrichTimeout time.Duration `env:"RUNCOACH_ENRICH_TIMEOUT" envDefault:"10s"`
	// DefaultWeeklyKm seeds volume for athletes with no history.
	DefaultWeeklyKm float64 `env:"RUNCOACH_DEFAULT_WEEKLY_KM" envDefault:"20"`
	// LogLevel is a zerolog level name (debug, info, warn, error).
	LogLevel string `env:"RUNCOACH_LOG_LEVEL" envDefault:"info"`
}

// Load reads configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.EnrichTimeout <= 0 {
		return Config{}, fmt.Errorf("RUNCOACH_ENRICH_TIMEOUT must be positive, got %v", cfg.EnrichTimeout)
	}
	if cfg.DefaultWeeklyKm <= 0 {
		return Config{}, fmt.Errorf("RUNCOACH_DEFAULT_WEEKLY_KM must be positive, got %v", cfg.DefaultWeeklyKm)
	}
	return cfg, nil
}

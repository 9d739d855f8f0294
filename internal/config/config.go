// Package config loads engine configuration from environment variables
// using struct tags, in place of the bespoke envOrDefault lookups the
// source repo used for its HTTP server.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the options that shape a single engine run.
type Config struct {
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	DevMode       bool   `env:"DEV_MODE" envDefault:"false"`
	MaxTurns      int    `env:"MAX_TURNS" envDefault:"10"`
	AdvancedRules bool   `env:"ADVANCED_RULES" envDefault:"false"`
	Seed          int64  `env:"SEED" envDefault:"0"`
	MetricsAddr   string `env:"METRICS_ADDR" envDefault:":9090"`
}

// Load reads configuration from environment variables with the defaults
// declared in the struct tags above.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

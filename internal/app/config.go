package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ConfigPath string // .hcl / .yaml files or directories
	DSN        string // database, see fixture.Open

	Seed        bool // recreate the fixture tables before running
	Requests    int  // concurrent runs per scenario
	MetricsPort int

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and applies defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ConfigPath == "" {
		return nil, errors.New("ConfigPath is a required configuration field and cannot be empty")
	}
	if cfg.Requests < 0 {
		return nil, errors.New("Requests cannot be negative")
	}
	if cfg.Requests == 0 {
		cfg.Requests = 1
	}
	return &cfg, nil
}

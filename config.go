package cfl

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"
)

// Config is the YAML-file representation of the solver parameters.
type Config struct {
	MaxIterations int     `json:"maxIterations,omitempty"`
	Tolerance     float64 `json:"tolerance,omitempty"`
}

// DefaultConfig returns the parameters used when no config file is given.
func DefaultConfig() Config {
	return Config{
		MaxIterations: 100000,
		Tolerance:     defaultTolerance,
	}
}

// ConfigFromYAML parses a config document, filling absent fields with
// defaults. Unknown fields are rejected.
func ConfigFromYAML(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing solver config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads a YAML config file from disk.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return ConfigFromYAML(data)
}

func (c Config) validate() error {
	if c.MaxIterations <= 0 {
		return fmt.Errorf("maxIterations must be positive, got %d", c.MaxIterations)
	}
	if c.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive, got %v", c.Tolerance)
	}
	return nil
}

// Options converts the config to solver options.
func (c Config) Options() Options {
	return Options{
		MaxIterations: c.MaxIterations,
		Tolerance:     c.Tolerance,
	}
}

// Package config holds the settings of a timeline run.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/numate/internal/easing"
)

// ErrInvalid marks a configuration value that cannot be used.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	TickInterval  time.Duration `yaml:"tick_interval"`
	Loop          bool          `yaml:"loop"`
	Easing        string        `yaml:"easing"`
	DurationScale float64       `yaml:"duration_scale"`
	Timeout       time.Duration `yaml:"timeout"`
	LogLevel      string        `yaml:"log_level"`
	ShowStats     bool          `yaml:"show_stats"`
	Width         int           `yaml:"width"`

	// set by the binary, never read from YAML
	BuildVersion string `yaml:"-"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		TickInterval:  25 * time.Millisecond,
		Easing:        "inOutCubic",
		DurationScale: 1.0,
		LogLevel:      "info",
		Width:         40,
	}
}

// Load reads a YAML file on top of Default. Keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML on top of Default and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first unusable value, wrapped with ErrInvalid.
func (c *Config) Validate() error {
	if c.TickInterval <= 0 {
		return fmt.Errorf("%w: tick_interval must be positive, got %v", ErrInvalid, c.TickInterval)
	}
	if c.DurationScale <= 0 {
		return fmt.Errorf("%w: duration_scale must be positive, got %v", ErrInvalid, c.DurationScale)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: timeout must not be negative, got %v", ErrInvalid, c.Timeout)
	}
	if c.Width <= 0 {
		return fmt.Errorf("%w: width must be positive, got %d", ErrInvalid, c.Width)
	}
	if _, err := easing.ByName(c.Easing); err != nil {
		return fmt.Errorf("%w: easing: %w", ErrInvalid, err)
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalid, c.LogLevel)
	}
	return nil
}

// Curve returns the easing function named by Easing.
func (c *Config) Curve() easing.Func {
	f, err := easing.ByName(c.Easing)
	if err != nil {
		return easing.NoEase
	}
	return f
}

// Scaled applies DurationScale to d.
func (c *Config) Scaled(d time.Duration) time.Duration {
	return time.Duration(float64(d) * c.DurationScale)
}

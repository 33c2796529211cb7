// Package config resolves execdiff settings from defaults, an optional YAML
// file and the environment. Command-line flags are applied last by the CLI.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Environment variables read by FromEnv.
const (
	EnvDB          = "EXECDIFF_DB"
	EnvBlobs       = "EXECDIFF_BLOBS"
	EnvConcurrency = "EXECDIFF_CONCURRENCY"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds resolved settings.
type Config struct {
	DB          string `yaml:"db"`
	Blobs       string `yaml:"blobs"`
	Format      string `yaml:"format"`
	Concurrency int    `yaml:"concurrency"`
	Color       string `yaml:"color"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DB:          "execdiff.db",
		Blobs:       "execdiff-blobs",
		Format:      "text",
		Concurrency: 4,
		Color:       ColorAuto,
	}
}

// Load resolves defaults, then the file at path (if non-empty), then the
// environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %q: %w", path, err)
		}
		if err := decode(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %q: %w", path, err)
		}
	}

	cfg = FromEnv(cfg, os.Getenv)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decode overlays the YAML document onto cfg. Unknown keys are rejected.
func decode(b []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// FromEnv overlays environment settings onto cfg. Invalid numbers are ignored.
func FromEnv(cfg Config, getenv func(string) string) Config {
	if v := getenv(EnvDB); v != "" {
		cfg.DB = v
	}
	if v := getenv(EnvBlobs); v != "" {
		cfg.Blobs = v
	}
	if v := getenv(EnvConcurrency); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Concurrency = n
		}
	}
	return cfg
}

// Validate checks that every field holds a usable value.
func (c Config) Validate() error {
	if c.DB == "" {
		return errors.New("config: db path is empty")
	}
	switch c.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: invalid format %q (want text or json)", c.Format)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("config: concurrency must be positive, got %d", c.Concurrency)
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("config: invalid color %q", c.Color)
	}
	return nil
}

// ColorOverride maps the color mode to a forced setting. Nil means detect.
func (c Config) ColorOverride() *bool {
	var b bool
	switch c.Color {
	case ColorAlways:
		b = true
	case ColorNever:
		b = false
	default:
		return nil
	}
	return &b
}

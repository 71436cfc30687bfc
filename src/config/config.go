// Package config reads service settings from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap/zapcore"

	"github.com/lost-woods/kingdom/src/rng"
)

// Entropy sources accepted in ENTROPY_SOURCE.
const (
	SourceCrypto = "crypto"
	SourceSerial = "serial"
)

type Config struct {
	Port   string `env:"PORT" envDefault:"777"`
	APIKey string `env:"API_KEY"`

	EntropySource     string        `env:"ENTROPY_SOURCE" envDefault:"crypto"`
	SerialDevice      string        `env:"SERIAL_DEVICE_NAME"`
	SerialBaud        int           `env:"SERIAL_BAUD_RATE" envDefault:"115200"`
	SerialReadTimeout time.Duration `env:"SERIAL_READ_TIMEOUT" envDefault:"0s"`
	HealthInterval    time.Duration `env:"RNG_HEALTH_INTERVAL" envDefault:"10s"`

	LandscapeSamplePercent string `env:"LANDSCAPE_SAMPLE_PERCENT" envDefault:"10"`
	LogLevel               string `env:"LOG_LEVEL" envDefault:"info"`

	OTelEndpoint string `env:"OTEL_ENDPOINT"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.EntropySource = strings.ToLower(strings.TrimSpace(cfg.EntropySource))

	switch cfg.EntropySource {
	case SourceCrypto:
	case SourceSerial:
		if cfg.SerialDevice == "" {
			return Config{}, fmt.Errorf("SERIAL_DEVICE_NAME is required when ENTROPY_SOURCE=%s", SourceSerial)
		}
	default:
		return Config{}, fmt.Errorf("unknown ENTROPY_SOURCE %q", cfg.EntropySource)
	}

	if cfg.HealthInterval <= 0 {
		return Config{}, fmt.Errorf("RNG_HEALTH_INTERVAL must be positive, got %s", cfg.HealthInterval)
	}
	if _, err := cfg.LandscapeShare(); err != nil {
		return Config{}, err
	}
	if _, err := cfg.Level(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LandscapeShare is LANDSCAPE_SAMPLE_PERCENT as an exact fraction.
func (c Config) LandscapeShare() (rng.Fraction, error) {
	f, err := rng.ParsePercent(c.LandscapeSamplePercent)
	if err != nil {
		return rng.Fraction{}, fmt.Errorf("LANDSCAPE_SAMPLE_PERCENT: %w", err)
	}
	return f, nil
}

func (c Config) Level() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return lvl, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return lvl, nil
}

// Serial returns the settings for a USB serial entropy source.
func (c Config) Serial() rng.SerialConfig {
	return rng.SerialConfig{
		Device:      c.SerialDevice,
		Baud:        c.SerialBaud,
		ReadTimeout: c.SerialReadTimeout,
	}
}

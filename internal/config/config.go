// Package config defines process configuration and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"github.com/nightseek/nightseek/internal/domain/model"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// MetricsAddr exposes the Prometheus endpoint when non-empty,
	// e.g. ":9090". Empty disables it.
	MetricsAddr string `koanf:"metrics_addr"`

	// Latitude and Longitude are the observer position in degrees.
	Latitude  float64 `koanf:"latitude" validate:"latitude"`
	Longitude float64 `koanf:"longitude" validate:"longitude"`

	// ForecastDays is the number of nights to forecast, bounded by the
	// weather upstream's horizon.
	ForecastDays int `koanf:"forecast_days" validate:"min=1,max=16"`

	// DSOMagnitudeLimit drops deep-sky objects fainter than this.
	DSOMagnitudeLimit float64 `koanf:"dso_magnitude_limit" validate:"gt=0"`

	// CometMagnitudeLimit drops comets fainter than this.
	CometMagnitudeLimit float64 `koanf:"comet_magnitude_limit" validate:"gt=0"`

	// FieldOfViewArcmin describes the instrument; 0 means none
	// configured and framing scores stay neutral.
	FieldOfViewArcmin float64 `koanf:"fov_arcmin" validate:"gte=0"`

	// CacheDir holds the TTL response cache. Empty disables caching.
	CacheDir string `koanf:"cache_dir"`

	// CacheTTLHours bounds how long cached upstream responses live.
	CacheTTLHours int `koanf:"cache_ttl_hours" validate:"gt=0"`

	// NEOAPIKey authenticates the near-Earth-object feed. The public
	// demo key works for light use.
	NEOAPIKey string `koanf:"neo_api_key"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		MetricsAddr:         "",
		Latitude:            51.48, // Greenwich
		Longitude:           0.0,
		ForecastDays:        7,
		DSOMagnitudeLimit:   10.0,
		CometMagnitudeLimit: 12.0,
		FieldOfViewArcmin:   0,
		CacheDir:            ".nightseek-cache",
		CacheTTLHours:       3,
		NEOAPIKey:           "DEMO_KEY",
	}
}

// Location returns the observer position for the forecast run.
func (c *Config) Location() model.Location {
	return model.Location{Latitude: c.Latitude, Longitude: c.Longitude}
}

// Settings returns the forecast knobs for the run.
func (c *Config) Settings() model.Settings {
	return model.Settings{
		ForecastDays:      c.ForecastDays,
		DSOMagnitudeLimit: c.DSOMagnitudeLimit,
		CometMagLimit:     c.CometMagnitudeLimit,
		FieldOfViewArcmin: c.FieldOfViewArcmin,
	}
}

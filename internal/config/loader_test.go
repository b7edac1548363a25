package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/nightseek/nightseek/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.ForecastDays, convey.ShouldEqual, 7)
				convey.So(cfg.DSOMagnitudeLimit, convey.ShouldEqual, 10.0)
				convey.So(cfg.CacheDir, convey.ShouldEqual, ".nightseek-cache")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("NIGHTSEEK_LATITUDE", "55.86")
			_ = os.Setenv("NIGHTSEEK_LONGITUDE", "-4.25")
			_ = os.Setenv("NIGHTSEEK_FORECAST_DAYS", "14")
			_ = os.Setenv("NIGHTSEEK_FOV_ARCMIN", "46.5")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Latitude, convey.ShouldEqual, 55.86)
				convey.So(cfg.Longitude, convey.ShouldEqual, -4.25)
				convey.So(cfg.ForecastDays, convey.ShouldEqual, 14)
				convey.So(cfg.FieldOfViewArcmin, convey.ShouldEqual, 46.5)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
latitude: -33.92
longitude: 18.42
forecast_days: 10
dso_magnitude_limit: 11.5
metrics_addr: ":9090"
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("NIGHTSEEK_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Latitude, convey.ShouldEqual, -33.92)
				convey.So(cfg.Longitude, convey.ShouldEqual, 18.42)
				convey.So(cfg.ForecastDays, convey.ShouldEqual, 10)
				convey.So(cfg.DSOMagnitudeLimit, convey.ShouldEqual, 11.5)
				convey.So(cfg.MetricsAddr, convey.ShouldEqual, ":9090")
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
latitude: -33.92
forecast_days: 10
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("NIGHTSEEK_CONFIG", tmpFile)
			_ = os.Setenv("NIGHTSEEK_FORECAST_DAYS", "5")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.ForecastDays, convey.ShouldEqual, 5) // Overridden by env
				convey.So(cfg.Latitude, convey.ShouldEqual, -33.92) // From file
				convey.So(cfg.DSOMagnitudeLimit, convey.ShouldEqual, 10.0) // From defaults
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("NIGHTSEEK_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("NIGHTSEEK_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the forecast range exceeds the upstream horizon", func() {
			_ = os.Setenv("NIGHTSEEK_FORECAST_DAYS", "17")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the latitude is out of range", func() {
			_ = os.Setenv("NIGHTSEEK_LATITUDE", "91.0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("NIGHTSEEK_FORECAST_DAYS", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"NIGHTSEEK_CONFIG",
		"NIGHTSEEK_LATITUDE",
		"NIGHTSEEK_LONGITUDE",
		"NIGHTSEEK_FORECAST_DAYS",
		"NIGHTSEEK_FOV_ARCMIN",
		"NIGHTSEEK_DSO_MAGNITUDE_LIMIT",
		"NIGHTSEEK_METRICS_ADDR",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "nightseek-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}

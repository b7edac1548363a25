package config_test

import (
	"testing"

	"github.com/nightseek/nightseek/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.MetricsAddr, convey.ShouldBeEmpty)
			convey.So(cfg.ForecastDays, convey.ShouldEqual, 7)
			convey.So(cfg.DSOMagnitudeLimit, convey.ShouldEqual, 10.0)
			convey.So(cfg.CometMagnitudeLimit, convey.ShouldEqual, 12.0)
			convey.So(cfg.CacheTTLHours, convey.ShouldEqual, 3)
			convey.So(cfg.NEOAPIKey, convey.ShouldEqual, "DEMO_KEY")
		})

		convey.Convey("Then the run projections carry the same values", func() {
			loc := cfg.Location()
			convey.So(loc.Latitude, convey.ShouldEqual, cfg.Latitude)
			convey.So(loc.Longitude, convey.ShouldEqual, cfg.Longitude)

			settings := cfg.Settings()
			convey.So(settings.ForecastDays, convey.ShouldEqual, cfg.ForecastDays)
			convey.So(settings.DSOMagnitudeLimit, convey.ShouldEqual, cfg.DSOMagnitudeLimit)
			convey.So(settings.CometMagLimit, convey.ShouldEqual, cfg.CometMagnitudeLimit)
			convey.So(settings.FieldOfViewArcmin, convey.ShouldEqual, cfg.FieldOfViewArcmin)
		})
	})
}

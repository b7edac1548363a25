package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewManager(t *testing.T) {
	Convey("Given a fresh metrics manager", t, func() {
		Convey("When created with defaults on its own registry", func() {
			m := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

			Convey("Then the nightseek defaults apply", func() {
				So(m, ShouldNotBeNil)
				So(m.namespace, ShouldEqual, "nightseek")
				So(m.subsystem, ShouldEqual, "forecast")
				So(m.enabled, ShouldBeTrue)
			})
		})

		Convey("When created with custom options", func() {
			m := NewManager(
				WithPrometheusRegistry(prometheus.NewRegistry()),
				WithNamespace("obs"),
				WithSubsystem("runs"),
				WithHistogramBuckets([]float64{1, 10, 100}),
			)

			So(m.namespace, ShouldEqual, "obs")
			So(m.subsystem, ShouldEqual, "runs")
			So(m.histogramBuckets, ShouldResemble, []float64{1, 10, 100})
		})

		Convey("When empty option values are supplied", func() {
			m := NewManager(
				WithPrometheusRegistry(prometheus.NewRegistry()),
				WithNamespace(""),
				WithSubsystem(""),
			)

			Convey("Then the defaults are kept", func() {
				So(m.namespace, ShouldEqual, "nightseek")
				So(m.subsystem, ShouldEqual, "forecast")
			})
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the package-level recorder functions", t, func() {
		Convey("Then recording through them does not panic", func() {
			So(func() {
				RecordForecastRun()
				RecordForecastDuration(1234)
				RecordNightProcessed()
				RecordObjectsScored(42)
				RecordObjectsDisplayed(7)
				RecordScoringLatency(3.5)
				RecordSourceFailure("weather")
				RecordSourceFetchLatency("weather", 250)
				UpdateBreakerOpen("open-meteo", true)
				UpdateBreakerOpen("open-meteo", false)
				RecordCacheHit()
				RecordCacheMiss()
				RecordCacheWriteError()
				UpdateBestNightsSelected(3)
				RecordPickSelected("planet")
				RecordScoringError()
				RecordVisibilityError()
			}, ShouldNotPanic)
		})

		Convey("And the custom registry is exposed", func() {
			So(GetRegistry(), ShouldNotBeNil)
		})
	})
}

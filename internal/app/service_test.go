package service_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	service "github.com/nightseek/nightseek/internal/app"

	"github.com/nightseek/nightseek/internal/adapters/catalog"
	"github.com/nightseek/nightseek/internal/adapters/events"
	"github.com/nightseek/nightseek/internal/adapters/sky"
	"github.com/nightseek/nightseek/internal/adapters/weather"
	"github.com/nightseek/nightseek/internal/domain/model"
	"github.com/nightseek/nightseek/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

const (
	testLat = 55.86
	testLon = -4.25
)

// runClock pins the forecast start so night keys are predictable.
func runClock() time.Time {
	return time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
}

type fakeWeather struct {
	series *weather.Series
	err    error
}

func (f *fakeWeather) FetchRange(_ context.Context, _ int) (*weather.Series, error) {
	return f.series, f.err
}

// clearSeries builds hourly rows with steady clear weather covering the
// given number of nights from the run clock onward.
func clearSeries(days int) *weather.Series {
	s := &weather.Series{}
	base := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	for h := 0; h < (days+1)*24; h++ {
		s.Times = append(s.Times, base.Add(time.Duration(h)*time.Hour))
		s.CloudCover = append(s.CloudCover, 10)
		s.Humidity = append(s.Humidity, 65)
		s.DewPointC = append(s.DewPointC, 1)
		s.TempC = append(s.TempC, 8)
		s.PrecipProb = append(s.PrecipProb, 0)
		s.WindGust = append(s.WindGust, 12)
	}
	return s
}

type failingCatalog struct{}

var errCatalogDown = errors.New("catalog store offline")

func (failingCatalog) DSOs(context.Context, float64) ([]catalog.Entry, error) {
	return nil, errCatalogDown
}
func (failingCatalog) Planets(context.Context) ([]catalog.Entry, error) {
	return nil, errCatalogDown
}
func (failingCatalog) Comets(context.Context, float64) ([]catalog.Entry, error) {
	return nil, errCatalogDown
}
func (failingCatalog) MinorPlanets(context.Context) ([]catalog.Entry, error) {
	return nil, errCatalogDown
}
func (failingCatalog) MilkyWay(context.Context) *catalog.Entry { return nil }
func (failingCatalog) Moon(context.Context) catalog.Entry {
	return catalog.Entry{Name: "Moon", Category: model.CategoryMoon}
}

func defaultSettings(days int) model.Settings {
	return model.Settings{
		ForecastDays:      days,
		DSOMagnitudeLimit: 10,
		CometMagLimit:     12,
		FieldOfViewArcmin: 60,
	}
}

func TestGenerateForecast(t *testing.T) {
	Convey("Given an orchestrator with live adapters and clear weather", t, func() {
		ctx := context.Background()
		calc := sky.New(testLat, testLon)
		loader := catalog.New(catalog.WithLatitude(testLat))

		days := 4
		svc := service.New(calc, loader,
			service.WithWeatherSource(&fakeWeather{series: clearSeries(days)}),
			service.WithEventSource(events.New(calc)),
			service.WithClock(runClock),
		)

		Convey("When a four-night forecast is generated", func() {
			var progress []int
			result, err := svc.GenerateForecast(ctx, model.Location{Latitude: testLat, Longitude: testLon},
				defaultSettings(days),
				func(p service.Progress) { progress = append(progress, p.Percent) })
			So(err, ShouldBeNil)
			So(result, ShouldNotBeNil)

			Convey("Then every night is present in calendar order", func() {
				So(len(result.Forecasts), ShouldEqual, days)
				So(result.Forecasts[0].Night.Key(), ShouldEqual, "2026-03-15")
				for i := 1; i < days; i++ {
					So(result.Forecasts[i].Night.Key(), ShouldBeGreaterThan, result.Forecasts[i-1].Night.Key())
				}
			})

			Convey("And the scored lists are filtered and strictly ordered", func() {
				for _, nf := range result.Forecasts {
					scored := result.ScoredObjects[nf.Night.Key()]
					for i, so := range scored {
						So(so.Total, ShouldBeGreaterThanOrEqualTo, model.DisplayThreshold)
						if i > 0 {
							So(so.Total, ShouldBeLessThanOrEqualTo, scored[i-1].Total)
						}
					}
				}
			})

			Convey("And full weather coverage yields high confidence", func() {
				So(result.Confidence, ShouldEqual, model.ConfidenceHigh)
				for _, nf := range result.Forecasts {
					So(nf.Weather, ShouldNotBeNil)
				}
			})

			Convey("And the clear nights surface as best nights", func() {
				So(len(result.BestNights), ShouldBeBetweenOrEqual, 1, 3)
			})

			Convey("And progress rises monotonically to completion", func() {
				So(len(progress), ShouldBeGreaterThanOrEqualTo, days+2)
				for i := 1; i < len(progress); i++ {
					So(progress[i], ShouldBeGreaterThanOrEqualTo, progress[i-1])
				}
				So(progress[len(progress)-1], ShouldEqual, 100)
			})

			Convey("And the run carries an identifier", func() {
				So(result.RunID, ShouldNotBeBlank)
			})

			Convey("And picks come back for a known night only", func() {
				picks := svc.TonightPicks(result, "2026-03-15")
				So(len(picks), ShouldBeGreaterThan, 0)
				So(svc.TonightPicks(result, "1999-01-01"), ShouldBeNil)
			})
		})

		Convey("When weather covers only the first night", func() {
			partial := service.New(calc, loader,
				service.WithWeatherSource(&fakeWeather{series: clearSeries(1)}),
				service.WithClock(runClock),
			)
			result, err := partial.GenerateForecast(ctx, model.Location{Latitude: testLat, Longitude: testLon},
				defaultSettings(days), nil)
			So(err, ShouldBeNil)

			Convey("Then confidence drops to medium", func() {
				So(result.Confidence, ShouldEqual, model.ConfidenceMedium)
			})
		})
	})
}

func TestGenerateForecastPartialFailure(t *testing.T) {
	Convey("Given every external source failing at once", t, func() {
		ctx := context.Background()
		calc := sky.New(testLat, testLon)

		svc := service.New(calc, failingCatalog{},
			service.WithWeatherSource(&fakeWeather{err: errors.New("upstream down")}),
			service.WithEventSource(events.New(calc)),
			service.WithClock(runClock),
		)

		Convey("When a forecast is generated anyway", func() {
			days := 3
			result, err := svc.GenerateForecast(ctx, model.Location{Latitude: testLat, Longitude: testLon},
				defaultSettings(days), nil)

			Convey("Then the run completes without error", func() {
				So(err, ShouldBeNil)
				So(len(result.Forecasts), ShouldEqual, days)
			})

			Convey("And the nights carry empty data instead of failures", func() {
				for _, nf := range result.Forecasts {
					So(nf.DSOs, ShouldBeEmpty)
					So(nf.Planets, ShouldBeEmpty)
					So(nf.Weather, ShouldBeNil)
				}
			})

			Convey("And no weatherless night is promised as a best night", func() {
				So(result.BestNights, ShouldBeEmpty)
			})

			Convey("And confidence is low", func() {
				So(result.Confidence, ShouldEqual, model.ConfidenceLow)
			})
		})
	})
}

func TestGenerateForecastCancellation(t *testing.T) {
	Convey("Given a cancelled context", t, func() {
		calc := sky.New(testLat, testLon)
		loader := catalog.New(catalog.WithLatitude(testLat))
		svc := service.New(calc, loader, service.WithClock(runClock))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		Convey("When a long forecast is requested", func() {
			result, err := svc.GenerateForecast(ctx, model.Location{Latitude: testLat, Longitude: testLon},
				defaultSettings(16), nil)

			Convey("Then the context error comes back instead of partial data", func() {
				So(err, ShouldEqual, context.Canceled)
				So(result, ShouldBeNil)
			})
		})
	})
}

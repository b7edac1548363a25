package sky_test

import (
	"context"
	"math"
	"os"
	"testing"
	"time"

	"github.com/nightseek/nightseek/internal/adapters/catalog"
	"github.com/nightseek/nightseek/internal/adapters/sky"
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

// Glasgow-ish test site.
const (
	testLat = 55.86
	testLon = -4.25
)

func TestNightContext(t *testing.T) {
	Convey("Given a calculator for a mid-northern site", t, func() {
		ctx := context.Background()
		c := sky.New(testLat, testLon)

		Convey("When the context for a March night is computed", func() {
			date := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
			night := c.NightContext(ctx, date)

			Convey("Then the twilight sequence is ordered", func() {
				So(night.Sunset.Before(night.AstroDusk), ShouldBeTrue)
				start, end := night.DarkWindow()
				So(end.After(start), ShouldBeTrue)
			})

			Convey("And the dark window has a plausible length", func() {
				start, end := night.DarkWindow()
				hours := end.Sub(start).Hours()
				So(hours, ShouldBeBetween, 4, 12)
			})

			Convey("And the moon fields stay on their scales", func() {
				So(night.MoonPhase, ShouldBeBetweenOrEqual, 0, 1)
				So(night.MoonIllumination, ShouldBeBetweenOrEqual, 0, 100)
			})

			Convey("And the date key round-trips", func() {
				So(night.Key(), ShouldEqual, "2026-03-15")
			})
		})

		Convey("When a midsummer polar-ish night is computed", func() {
			// 69N has no astronomical dark in late June.
			polar := sky.New(69.6, 18.9)
			night := polar.NightContext(ctx, time.Date(2026, 6, 25, 12, 0, 0, 0, time.UTC))

			Convey("Then the synthetic fallback window still exists", func() {
				start, end := night.DarkWindow()
				So(end.After(start), ShouldBeTrue)
				So(end.Sub(start).Hours(), ShouldBeLessThanOrEqualTo, 5)
			})
		})
	})
}

func TestVisibility(t *testing.T) {
	Convey("Given a calculator and a March night", t, func() {
		ctx := context.Background()
		c := sky.New(testLat, testLon)
		night := c.NightContext(ctx, time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC))

		Convey("When a near-polar target is sampled", func() {
			high := catalog.Entry{
				Name:       "test-circumpolar",
				Category:   model.CategoryDSO,
				Subtype:    model.SubtypeGalaxy,
				RAHours:    11.0,
				DecDegrees: 89.0,
			}
			v, err := c.Visibility(ctx, high, night)
			So(err, ShouldBeNil)

			Convey("Then it is visible near the latitude altitude all night", func() {
				So(v.Visible, ShouldBeTrue)
				So(v.MaxAltitude, ShouldBeBetween, testLat-2, testLat+2)
				So(v.HasAirmass(), ShouldBeTrue)
				So(v.MaxAltitudeTime, ShouldNotBeNil)
				So(v.MoonSeparation, ShouldNotBeNil)
			})
		})

		Convey("When a deep-southern target is sampled", func() {
			low := catalog.Entry{
				Name:       "test-southern",
				Category:   model.CategoryDSO,
				Subtype:    model.SubtypeGlobularCluster,
				RAHours:    5.0,
				DecDegrees: -80.0,
			}
			v, err := c.Visibility(ctx, low, night)
			So(err, ShouldBeNil)

			Convey("Then it never rises and the airmass sentinel is set", func() {
				So(v.Visible, ShouldBeFalse)
				So(math.IsInf(v.MinAirmass, 1), ShouldBeTrue)
				So(v.MaxAltitudeTime, ShouldBeNil)
			})
		})

		Convey("When Jupiter is sampled", func() {
			jupiter := catalog.Entry{Name: "Jupiter", CommonName: "Jupiter", Category: model.CategoryPlanet, Famous: true}
			v, err := c.Visibility(ctx, jupiter, night)
			So(err, ShouldBeNil)

			Convey("Then planet-specific fields are populated", func() {
				So(v.Magnitude, ShouldNotBeNil)
				So(v.ElongationDeg, ShouldNotBeNil)
				So(v.SunAngleDeg, ShouldNotBeNil)
				So(*v.ElongationDeg, ShouldBeBetweenOrEqual, 0, 180)
				So(v.HourAngle, ShouldNotBeNil)
				So(*v.HourAngle, ShouldBeBetweenOrEqual, -12, 12)
			})
		})

		Convey("When Saturn is sampled", func() {
			saturn := catalog.Entry{Name: "Saturn", CommonName: "Saturn", Category: model.CategoryPlanet, Famous: true}
			v, err := c.Visibility(ctx, saturn, night)
			So(err, ShouldBeNil)

			Convey("Then the ring tilt is populated inside its physical band", func() {
				So(v.RingTiltDeg, ShouldBeBetween, -28.1, 28.1)
				So(math.Abs(v.RingTiltDeg), ShouldBeGreaterThan, 1)
			})

			Convey("And other planets carry no tilt", func() {
				jupiter := catalog.Entry{Name: "Jupiter", Category: model.CategoryPlanet}
				jv, jerr := c.Visibility(ctx, jupiter, night)
				So(jerr, ShouldBeNil)
				So(jv.RingTiltDeg, ShouldEqual, 0)
			})
		})

		Convey("When the Moon is sampled", func() {
			// The mean anomaly sits near 250 degrees on this night, so
			// the longitude libration should be strongly negative.
			moon := catalog.Entry{Name: "Moon", CommonName: "Moon", Category: model.CategoryMoon}
			v, err := c.Visibility(ctx, moon, night)
			So(err, ShouldBeNil)

			Convey("Then the libration is populated on its scale", func() {
				So(v.LibrationLongitude, ShouldBeBetween, -7, -4)
			})
		})

		Convey("When an unknown planet is requested", func() {
			bogus := catalog.Entry{Name: "Vulcan", Category: model.CategoryPlanet}
			_, err := c.Visibility(ctx, bogus, night)
			So(err, ShouldEqual, sky.ErrUnknownObject)
		})

		Convey("When a comet entry has no elements", func() {
			broken := catalog.Entry{Name: "C/????", Category: model.CategoryComet}
			_, err := c.Visibility(ctx, broken, night)
			So(err, ShouldEqual, sky.ErrMissingElements)
		})

		Convey("When a comet with elements is sampled", func() {
			comet := catalog.Entry{
				Name:     "12P",
				Category: model.CategoryComet,
				Elements: &catalog.OrbitalElements{
					PerihelionTime: time.Date(2024, 4, 21, 0, 0, 0, 0, time.UTC),
					PerihelionAU:   0.7807,
					SemiMajorAU:    17.2,
					Eccentricity:   0.9546,
					InclinationDeg: 74.19,
					AscNodeDeg:     255.86,
					ArgPeriDeg:     198.99,
					AbsoluteMag:    5.0,
					SlopeParam:     6.0,
				},
			}
			v, err := c.Visibility(ctx, comet, night)
			So(err, ShouldBeNil)

			Convey("Then the perihelion offset and magnitude are filled", func() {
				So(v.Magnitude, ShouldNotBeNil)
				So(v.PerihelionOffset, ShouldNotBeNil)
				So(*v.PerihelionOffset, ShouldBeGreaterThan, 600) // long past the 2024 perihelion
			})
		})

		Convey("When the Moon is sampled for its fixed properties", func() {
			moon := catalog.Entry{Name: "Moon", Category: model.CategoryMoon}
			v, err := c.Visibility(ctx, moon, night)
			So(err, ShouldBeNil)

			Convey("Then it carries its fixed angular size", func() {
				So(v.AngularSize, ShouldAlmostEqual, 31.0, 1e-9)
				So(v.Magnitude, ShouldNotBeNil)
				So(*v.Magnitude, ShouldBeLessThan, 0)
			})
		})
	})
}

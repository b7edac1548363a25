package scoring_test

import (
	"math"
	"testing"
	"time"

	"github.com/nightseek/nightseek/internal/domain/model"
	scoring "github.com/nightseek/nightseek/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func ptr(f float64) *float64 { return &f }

func darkNight() model.NightContext {
	date := time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)
	return model.NightContext{
		Date:             date,
		Sunset:           date.Add(6 * time.Hour),
		Sunrise:          date.Add(18 * time.Hour),
		AstroDusk:        date.Add(8 * time.Hour),
		AstroDawn:        date.Add(16 * time.Hour),
		MoonPhase:        0.02,
		MoonIllumination: 3,
	}
}

func visibleDSO() model.ObjectVisibility {
	peak := time.Date(2026, 3, 20, 23, 0, 0, 0, time.UTC)
	return model.ObjectVisibility{
		Name:           "NGC 7000",
		Category:       model.CategoryDSO,
		Subtype:        model.SubtypeEmissionNebula,
		CommonName:     "North America Nebula",
		Visible:        true,
		MaxAltitude:    72,
		MaxAltitudeTime: &peak,
		MinAirmass:     1.05,
		MoonSeparation: ptr(110),
		Magnitude:      ptr(4.0),
		AngularSize:    120,
		SurfaceBright:  ptr(22.2),
		RAHours:        20.98,
		DecDegrees:     44.3,
	}
}

func TestEngineScore(t *testing.T) {
	Convey("Given a scoring engine with default weights", t, func() {
		eng := scoring.New()
		night := darkNight()

		Convey("When scoring a well-placed nebula on a dark night", func() {
			got := eng.Score(scoring.Input{Visibility: visibleDSO(), Night: night})

			Convey("Then every component stays inside its documented range", func() {
				b := got.Breakdown
				So(b.Altitude, ShouldBeBetweenOrEqual, 0, 38)
				So(b.Moon, ShouldBeBetweenOrEqual, 0, 30)
				So(b.Timing, ShouldBeBetweenOrEqual, 0, 15)
				So(b.Weather, ShouldBeBetweenOrEqual, 0, 15)
				So(b.SurfaceBright, ShouldBeBetweenOrEqual, 0, 20)
				So(b.Magnitude, ShouldBeBetweenOrEqual, 0, 15)
				So(b.Suitability, ShouldBeBetweenOrEqual, 0, 15)
				So(b.Transient, ShouldBeBetweenOrEqual, 0, 25)
				So(b.Seasonal, ShouldBeBetweenOrEqual, 0, 15)
				So(b.Novelty, ShouldBeBetweenOrEqual, 0, 10)
				So(b.Twilight, ShouldBeBetweenOrEqual, -30, 0)
				So(b.DewRisk, ShouldBeBetweenOrEqual, -5, 0)
				So(b.ImagingWindow, ShouldBeBetweenOrEqual, 0, 25)
				So(b.FieldOfView, ShouldBeBetweenOrEqual, 0, 15)
			})

			Convey("And the total equals the rounded component sum", func() {
				So(got.Total, ShouldEqual, int(math.Round(got.Breakdown.Sum())))
			})

			Convey("And the reason mentions the sky and the altitude", func() {
				So(got.Reason, ShouldContainSubstring, "altitude")
				So(got.Reason, ShouldContainSubstring, "dark sky")
			})
		})

		Convey("When scoring with entirely missing optional inputs", func() {
			v := model.ObjectVisibility{
				Name:        "anonymous",
				Category:    model.CategoryDSO,
				Subtype:     model.SubtypeOther,
				Visible:     true,
				MaxAltitude: 40,
				MinAirmass:  math.Inf(1),
			}
			got := eng.Score(scoring.Input{Visibility: v, Night: night})

			Convey("Then neutral fallbacks apply instead of panics", func() {
				So(got.Breakdown.Weather, ShouldEqual, 15*0.7)
				So(got.Breakdown.Magnitude, ShouldEqual, 15*0.5)
				So(got.Breakdown.SurfaceBright, ShouldEqual, 20*0.5)
				So(got.Breakdown.FieldOfView, ShouldEqual, 15*0.5)
				So(got.Breakdown.Timing, ShouldEqual, 15*0.3)
				So(got.Breakdown.DewRisk, ShouldEqual, 0)
				So(got.Breakdown.ImagingWindow, ShouldEqual, 0)
			})
		})

		Convey("When the airmass is infinite but the altitude is 80 degrees", func() {
			v := visibleDSO()
			v.MinAirmass = math.Inf(1)
			v.MaxAltitude = 80
			got := eng.Score(scoring.Input{Visibility: v, Night: night})

			Convey("Then the altitude-only fallback band is used", func() {
				So(got.Breakdown.Altitude, ShouldAlmostEqual, 38*0.95, 1e-9)
			})
		})

		Convey("When an outer planet sits exactly at opposition", func() {
			v := model.ObjectVisibility{
				Name:         "Jupiter",
				Category:     model.CategoryPlanet,
				Visible:      true,
				MaxAltitude:  55,
				MinAirmass:   1.2,
				AtOpposition: true,
			}
			got := eng.Score(scoring.Input{Visibility: v, Night: night})

			Convey("Then the opposition component is at its maximum", func() {
				So(got.Breakdown.Opposition, ShouldEqual, 20)
			})

			Convey("And fourteen or more days away it collapses to zero", func() {
				v.AtOpposition = false
				v.OppositionOffset = ptr(14)
				far := eng.Score(scoring.Input{Visibility: v, Night: night})
				So(far.Breakdown.Opposition, ShouldEqual, 0)
			})

			Convey("And seven days away it sits halfway", func() {
				v.AtOpposition = false
				v.OppositionOffset = ptr(7)
				mid := eng.Score(scoring.Input{Visibility: v, Night: night})
				So(mid.Breakdown.Opposition, ShouldAlmostEqual, 10, 1e-9)
			})
		})

		Convey("When scoring a planet under a nearly full moon", func() {
			bright := night
			bright.MoonIllumination = 96
			v := model.ObjectVisibility{
				Name:        "Saturn",
				Category:    model.CategoryPlanet,
				Visible:     true,
				MaxAltitude: 48,
				MinAirmass:  1.35,
			}
			got := eng.Score(scoring.Input{Visibility: v, Night: bright})

			Convey("Then the flat planet moon score applies", func() {
				So(got.Breakdown.Moon, ShouldAlmostEqual, 27, 1e-9)
			})

			Convey("And type suitability favors the planet", func() {
				So(got.Breakdown.Suitability, ShouldEqual, 15)
			})
		})

		Convey("When scoring a galaxy under the same bright moon", func() {
			bright := night
			bright.MoonIllumination = 96
			v := visibleDSO()
			v.Subtype = model.SubtypeGalaxy
			v.MoonSeparation = ptr(20)
			got := eng.Score(scoring.Input{Visibility: v, Night: bright})

			Convey("Then moon interference crushes the component", func() {
				So(got.Breakdown.Moon, ShouldBeLessThan, 5)
				So(got.Breakdown.Moon, ShouldBeGreaterThanOrEqualTo, 0)
			})
		})

		Convey("When an interstellar comet is scored", func() {
			v := model.ObjectVisibility{
				Name:         "3I/ATLAS",
				Category:     model.CategoryComet,
				Visible:      true,
				MaxAltitude:  35,
				MinAirmass:   1.9,
				Interstellar: true,
			}
			got := eng.Score(scoring.Input{Visibility: v, Night: night})

			Convey("Then the transient bonus is maximal and mentioned", func() {
				So(got.Breakdown.Transient, ShouldEqual, 25)
				So(got.Reason, ShouldContainSubstring, "rare target")
			})
		})

		Convey("When a comet near perihelion runs a magnitude hot", func() {
			v := model.ObjectVisibility{
				Name:             "12P",
				Category:         model.CategoryComet,
				Visible:          true,
				MaxAltitude:      40,
				MinAirmass:       1.6,
				PerihelionOffset: ptr(10),
				PerihelionBoost:  1.4,
			}
			got := eng.Score(scoring.Input{Visibility: v, Night: night})

			Convey("Then the outburst lifts the transient bonus to its cap", func() {
				So(got.Breakdown.Transient, ShouldEqual, 25)
			})

			Convey("And without the brightening it stays at the near-perihelion tier", func() {
				v.PerihelionBoost = 0
				plain := eng.Score(scoring.Input{Visibility: v, Night: night})
				So(plain.Breakdown.Transient, ShouldAlmostEqual, 25*0.7, 1e-9)
			})
		})

		Convey("When Saturn shows its rings wide open", func() {
			v := model.ObjectVisibility{
				Name:        "Saturn",
				Category:    model.CategoryPlanet,
				Visible:     true,
				MaxAltitude: 42,
				MinAirmass:  1.5,
				RingTiltDeg: -24.5,
			}
			got := eng.Score(scoring.Input{Visibility: v, Night: night})

			Convey("Then the reason calls the rings out", func() {
				So(got.Reason, ShouldContainSubstring, "rings wide open")
			})
		})

		Convey("When the Moon swings a favorable libration", func() {
			v := model.ObjectVisibility{
				Name:               "Moon",
				Category:           model.CategoryMoon,
				Visible:            true,
				MaxAltitude:        50,
				MinAirmass:         1.3,
				LibrationLongitude: 6.1,
			}
			got := eng.Score(scoring.Input{Visibility: v, Night: night})

			Convey("Then the reason mentions the libration", func() {
				So(got.Reason, ShouldContainSubstring, "favorable libration")
			})
		})

		Convey("When a target hugs the Sun", func() {
			v := visibleDSO()
			v.SunAngleDeg = ptr(6)
			got := eng.Score(scoring.Input{Visibility: v, Night: night})

			Convey("Then the twilight penalty bites", func() {
				So(got.Breakdown.Twilight, ShouldBeLessThan, -20)
				So(got.Breakdown.Twilight, ShouldBeGreaterThanOrEqualTo, -30)
			})

			Convey("And a planet at the same angle takes half", func() {
				p := model.ObjectVisibility{
					Name:        "Mercury",
					Category:    model.CategoryPlanet,
					Visible:     true,
					MaxAltitude: 18,
					MinAirmass:  3.2,
					SunAngleDeg: ptr(6),
				}
				pg := eng.Score(scoring.Input{Visibility: p, Night: night})
				So(pg.Breakdown.Twilight, ShouldAlmostEqual, got.Breakdown.Twilight/2, 1e-9)
			})
		})

		Convey("When the night carries a high-quality imaging window", func() {
			start := night.AstroDusk
			wx := &model.NightWeather{
				AvgCloudCover: 5,
				Transparency:  85,
				BestWindow: &model.ObservingWindow{
					Start:   start,
					End:     start.Add(5 * time.Hour),
					Quality: 90,
				},
			}
			got := eng.Score(scoring.Input{Visibility: visibleDSO(), Night: night, Weather: wx})

			Convey("Then quality and duration both contribute, capped at 25", func() {
				So(got.Breakdown.ImagingWindow, ShouldBeGreaterThan, 18)
				So(got.Breakdown.ImagingWindow, ShouldBeLessThanOrEqualTo, 25)
			})

			Convey("And a 90-minute window earns no duration bonus", func() {
				wx.BestWindow.End = start.Add(90 * time.Minute)
				short := eng.Score(scoring.Input{Visibility: visibleDSO(), Night: night, Weather: wx})
				So(short.Breakdown.ImagingWindow, ShouldAlmostEqual, 25*0.72*0.9, 1e-9)
			})
		})
	})
}

func TestBreakdownRounding(t *testing.T) {
	Convey("Given component values 12.5, 7.5 and 3.0", t, func() {
		b := model.ScoreBreakdown{Altitude: 12.5, Moon: 7.5, Timing: 3.0}

		Convey("Then the sum is rounded once, not per component", func() {
			So(b.Total(), ShouldEqual, 23)
		})
	})
}

func TestWeightOverrides(t *testing.T) {
	Convey("Given an engine with a retuned altitude weight", t, func() {
		w := scoring.DefaultWeights()
		w.Altitude = 50
		eng := scoring.New(scoring.WithWeights(w))

		Convey("When scoring a zenith target", func() {
			v := visibleDSO()
			v.MinAirmass = 1.01
			got := eng.Score(scoring.Input{Visibility: v, Night: darkNight()})

			Convey("Then the component scales with the new weight", func() {
				So(got.Breakdown.Altitude, ShouldAlmostEqual, 50*0.95, 1e-9)
			})
		})
	})
}

package sky

import (
	"math"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSunPosition(t *testing.T) {
	Convey("Given the low-precision solar position", t, func() {
		Convey("When evaluated at the March equinox", func() {
			pos := sunPosition(time.Date(2026, 3, 20, 14, 0, 0, 0, time.UTC))

			Convey("Then the declination is near zero", func() {
				So(pos.DecDeg, ShouldBeBetween, -1.5, 1.5)
			})
		})

		Convey("When evaluated at the June solstice", func() {
			pos := sunPosition(time.Date(2026, 6, 21, 12, 0, 0, 0, time.UTC))

			Convey("Then the declination is near the obliquity", func() {
				So(pos.DecDeg, ShouldBeBetween, 22.5, 24.0)
			})
		})
	})
}

func TestAirmass(t *testing.T) {
	Convey("Given the Kasten-Young airmass approximation", t, func() {
		Convey("Then the zenith path length is one", func() {
			So(airmass(90), ShouldAlmostEqual, 1.0, 0.01)
		})

		Convey("And thirty degrees altitude doubles it", func() {
			So(airmass(30), ShouldAlmostEqual, 2.0, 0.05)
		})

		Convey("And below the horizon it is infinite", func() {
			So(math.IsInf(airmass(0), 1), ShouldBeTrue)
			So(math.IsInf(airmass(-10), 1), ShouldBeTrue)
		})
	})
}

func TestSeparation(t *testing.T) {
	Convey("Given the angular separation helper", t, func() {
		Convey("Then identical positions are zero degrees apart", func() {
			p := equatorial{RAHours: 5.5, DecDeg: 20}
			So(separationDeg(p, p), ShouldAlmostEqual, 0, 1e-9)
		})

		Convey("And opposite poles are 180 degrees apart", func() {
			a := equatorial{RAHours: 0, DecDeg: 90}
			b := equatorial{RAHours: 0, DecDeg: -90}
			So(separationDeg(a, b), ShouldAlmostEqual, 180, 1e-6)
		})

		Convey("And a quarter turn on the equator is 90 degrees", func() {
			a := equatorial{RAHours: 0, DecDeg: 0}
			b := equatorial{RAHours: 6, DecDeg: 0}
			So(separationDeg(a, b), ShouldAlmostEqual, 90, 1e-6)
		})
	})
}

func TestMoonPhase(t *testing.T) {
	Convey("Given the moon phase approximation", t, func() {
		Convey("Then phase and illumination stay on their scales over a month", func() {
			start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
			for d := 0; d < 30; d++ {
				phase, illum := moonPhase(start.AddDate(0, 0, d))
				So(phase, ShouldBeBetweenOrEqual, 0, 1)
				So(illum, ShouldBeBetweenOrEqual, 0, 100)
			}
		})

		Convey("And illumination swings through both extremes in a month", func() {
			start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
			minI, maxI := 100.0, 0.0
			for d := 0; d < 30; d++ {
				_, illum := moonPhase(start.AddDate(0, 0, d))
				minI = math.Min(minI, illum)
				maxI = math.Max(maxI, illum)
			}
			So(minI, ShouldBeLessThan, 15)
			So(maxI, ShouldBeGreaterThan, 85)
		})
	})
}

func TestHourAngleForAltitude(t *testing.T) {
	Convey("Given the altitude crossing solver", t, func() {
		Convey("When the sun sets at a mid latitude near the equinox", func() {
			ha, ok := hourAngleForAltitude(-0.833, 55.9, 0)

			Convey("Then the semi-diurnal arc is about six hours", func() {
				So(ok, ShouldBeTrue)
				So(ha, ShouldBeBetween, 5.5, 6.5)
			})
		})

		Convey("When a circumpolar star never reaches the horizon", func() {
			_, ok := hourAngleForAltitude(0, 55.9, 80)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestPlanetState(t *testing.T) {
	Convey("Given the mean-element planet solver", t, func() {
		when := time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)

		Convey("When positioning each tracked planet", func() {
			for _, name := range []string{"Mercury", "Venus", "Mars", "Jupiter", "Saturn", "Uranus", "Neptune"} {
				state, ok := planetState(name, when)
				So(ok, ShouldBeTrue)
				So(state.pos.RAHours, ShouldBeBetweenOrEqual, 0, 24)
				So(state.pos.DecDeg, ShouldBeBetween, -30, 30)
				So(state.sunDistAU, ShouldBeGreaterThan, 0.2)
				So(state.earthDistAU, ShouldBeGreaterThan, 0.2)
			}
		})

		Convey("When asked for the Earth or an unknown body", func() {
			_, ok := planetState("Earth", when)
			So(ok, ShouldBeFalse)
			_, ok = planetState("Vulcan", when)
			So(ok, ShouldBeFalse)
		})

		Convey("Then Neptune stays near thirty AU from the Sun", func() {
			state, _ := planetState("Neptune", when)
			So(state.sunDistAU, ShouldBeBetween, 29, 31)
		})
	})
}

package sky

import "time"

// Instantaneous ephemeris queries used by the event collectors. They run
// on the same truncated series the visibility sampler uses, so event
// dates land within a day of the true geometry.

// SolarElongation returns a planet's angular distance from the Sun in
// degrees at time t, and whether the planet stands east of the Sun (an
// evening object).
func (c *Calculator) SolarElongation(name string, t time.Time) (deg float64, east bool, err error) {
	state, ok := planetState(name, t)
	if !ok {
		return 0, false, ErrUnknownObject
	}
	sun := sunPosition(t)
	raDiff := state.pos.RAHours - sun.RAHours
	for raDiff < -12 {
		raDiff += 24
	}
	for raDiff >= 12 {
		raDiff -= 24
	}
	return separationDeg(state.pos, sun), raDiff > 0, nil
}

// AltitudeAt returns the local altitude in degrees of fixed equatorial
// coordinates at time t.
func (c *Calculator) AltitudeAt(raHours, decDeg float64, t time.Time) float64 {
	lst := localSiderealHours(t, c.longitude)
	alt, _ := altAz(equatorial{RAHours: raHours, DecDeg: decDeg}, c.latitude, lst)
	return alt
}

// MoonSeparationFrom returns the angular distance in degrees between the
// Moon and fixed equatorial coordinates at time t.
func (c *Calculator) MoonSeparationFrom(raHours, decDeg float64, t time.Time) float64 {
	return separationDeg(equatorial{RAHours: raHours, DecDeg: decDeg}, moonPosition(t))
}

// MoonDistanceKm returns the geocentric Earth-Moon distance at time t.
func (c *Calculator) MoonDistanceKm(t time.Time) float64 {
	return moonDistanceKm(daysSinceJ2000(t))
}

// MoonIllumination returns the Moon's percent illumination at time t.
func (c *Calculator) MoonIllumination(t time.Time) float64 {
	_, illum := moonPhase(t)
	return illum
}

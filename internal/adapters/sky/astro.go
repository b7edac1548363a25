package sky

import (
	"math"
	"time"
)

// Low-precision positional astronomy. The formulas are the standard
// truncated series (good to a fraction of a degree over the forecast
// horizon), which is plenty for visibility banding; exact ephemeris
// precision is explicitly not a goal of this service.

const (
	degToRad = math.Pi / 180
	radToDeg = 180 / math.Pi

	// j2000 is the Julian day of the J2000.0 epoch.
	j2000 = 2451545.0

	hoursPerDay = 24.0
)

// julianDay converts a time to a Julian day number.
func julianDay(t time.Time) float64 {
	return float64(t.UnixMilli())/86400000.0 + 2440587.5
}

// daysSinceJ2000 returns fractional days since the J2000.0 epoch.
func daysSinceJ2000(t time.Time) float64 {
	return julianDay(t) - j2000
}

// normalizeDeg wraps an angle into [0, 360).
func normalizeDeg(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// normalizeHours wraps an hour angle into [0, 24).
func normalizeHours(h float64) float64 {
	h = math.Mod(h, hoursPerDay)
	if h < 0 {
		h += hoursPerDay
	}
	return h
}

// obliquity returns the mean obliquity of the ecliptic in degrees.
func obliquity(n float64) float64 {
	return 23.439 - 0.0000004*n
}

// equatorial is a geocentric position on the celestial sphere.
type equatorial struct {
	RAHours float64
	DecDeg  float64
}

// eclipticToEquatorial converts ecliptic longitude/latitude (degrees) to
// RA (hours) and declination (degrees) for a given epoch offset n.
func eclipticToEquatorial(lonDeg, latDeg, n float64) equatorial {
	eps := obliquity(n) * degToRad
	lon := lonDeg * degToRad
	lat := latDeg * degToRad

	sinDec := math.Sin(lat)*math.Cos(eps) + math.Cos(lat)*math.Sin(eps)*math.Sin(lon)
	dec := math.Asin(sinDec)

	y := math.Sin(lon)*math.Cos(eps) - math.Tan(lat)*math.Sin(eps)
	x := math.Cos(lon)
	ra := math.Atan2(y, x)

	return equatorial{
		RAHours: normalizeHours(ra * radToDeg / 15),
		DecDeg:  dec * radToDeg,
	}
}

// sunEclipticLongitude returns the Sun's apparent ecliptic longitude in
// degrees for days-since-J2000 n.
func sunEclipticLongitude(n float64) float64 {
	meanLon := normalizeDeg(280.460 + 0.9856474*n)
	meanAnom := normalizeDeg(357.528+0.9856003*n) * degToRad
	return normalizeDeg(meanLon + 1.915*math.Sin(meanAnom) + 0.020*math.Sin(2*meanAnom))
}

// sunPosition returns the Sun's geocentric equatorial position.
func sunPosition(t time.Time) equatorial {
	n := daysSinceJ2000(t)
	return eclipticToEquatorial(sunEclipticLongitude(n), 0, n)
}

// moonEcliptic returns the Moon's geocentric ecliptic longitude and
// latitude in degrees (truncated series, ~1 degree accuracy).
func moonEcliptic(n float64) (lonDeg, latDeg float64) {
	meanLon := normalizeDeg(218.316 + 13.176396*n)
	meanAnom := normalizeDeg(134.963+13.064993*n) * degToRad
	meanDist := normalizeDeg(93.272+13.229350*n) * degToRad

	lonDeg = normalizeDeg(meanLon + 6.289*math.Sin(meanAnom))
	latDeg = 5.128 * math.Sin(meanDist)
	return lonDeg, latDeg
}

// moonDistanceKm returns the Earth-Moon distance in kilometers for
// days-since-J2000 n (three largest periodic terms, ~500 km accuracy).
func moonDistanceKm(n float64) float64 {
	meanAnom := normalizeDeg(134.963+13.064993*n) * degToRad
	meanElong := normalizeDeg(297.850+12.190749*n) * degToRad
	return 385000.56 -
		20905.355*math.Cos(meanAnom) -
		3699.111*math.Cos(2*meanElong-meanAnom) -
		2955.968*math.Cos(2*meanElong)
}

// moonLibrationLon returns the optical libration in longitude in
// degrees, from the equation-of-center term alone. Good to a degree or
// two, which is enough to flag a favorable limb.
func moonLibrationLon(n float64) float64 {
	meanAnom := normalizeDeg(134.963+13.064993*n) * degToRad
	return 6.289 * math.Sin(meanAnom)
}

// moonPosition returns the Moon's geocentric equatorial position.
func moonPosition(t time.Time) equatorial {
	n := daysSinceJ2000(t)
	lon, lat := moonEcliptic(n)
	return eclipticToEquatorial(lon, lat, n)
}

// moonPhase returns the phase fraction (0 new, 0.5 full) and percent
// illumination for a time, from the Sun-Moon elongation in longitude.
func moonPhase(t time.Time) (phase, illumination float64) {
	n := daysSinceJ2000(t)
	moonLon, _ := moonEcliptic(n)
	elong := normalizeDeg(moonLon - sunEclipticLongitude(n))

	phase = elong / 360
	illumination = (1 - math.Cos(elong*degToRad)) / 2 * 100
	return phase, illumination
}

// gmstHours returns Greenwich mean sidereal time in hours.
func gmstHours(t time.Time) float64 {
	n := daysSinceJ2000(t)
	return normalizeHours(18.697374558 + 24.06570982441908*n)
}

// localSiderealHours returns local sidereal time for a longitude in
// degrees (east positive).
func localSiderealHours(t time.Time, lonDeg float64) float64 {
	return normalizeHours(gmstHours(t) + lonDeg/15)
}

// altAz converts an equatorial position to local altitude and azimuth in
// degrees for an observer at latDeg and local sidereal time lstHours.
func altAz(pos equatorial, latDeg, lstHours float64) (altDeg, azDeg float64) {
	ha := (lstHours - pos.RAHours) * 15 * degToRad
	lat := latDeg * degToRad
	dec := pos.DecDeg * degToRad

	sinAlt := math.Sin(lat)*math.Sin(dec) + math.Cos(lat)*math.Cos(dec)*math.Cos(ha)
	alt := math.Asin(math.Max(-1, math.Min(1, sinAlt)))

	y := -math.Sin(ha)
	x := math.Cos(lat)*math.Tan(dec) - math.Sin(lat)*math.Cos(ha)
	az := math.Atan2(y, x)

	return alt * radToDeg, normalizeDeg(az * radToDeg)
}

// airmass returns the relative optical path length for an altitude in
// degrees using the Kasten-Young approximation. Below the horizon it is
// +Inf.
func airmass(altDeg float64) float64 {
	if altDeg <= 0 {
		return math.Inf(1)
	}
	zenith := 90 - altDeg
	return 1 / (math.Cos(zenith*degToRad) + 0.50572*math.Pow(96.07995-zenith, -1.6364))
}

// separationDeg returns the great-circle angle between two equatorial
// positions in degrees.
func separationDeg(a, b equatorial) float64 {
	ra1 := a.RAHours * 15 * degToRad
	ra2 := b.RAHours * 15 * degToRad
	dec1 := a.DecDeg * degToRad
	dec2 := b.DecDeg * degToRad

	cosSep := math.Sin(dec1)*math.Sin(dec2) + math.Cos(dec1)*math.Cos(dec2)*math.Cos(ra1-ra2)
	return math.Acos(math.Max(-1, math.Min(1, cosSep))) * radToDeg
}

// hourAngleForAltitude returns the semi-diurnal hour angle in hours at
// which a body with declination decDeg crosses altitude altDeg as seen
// from latitude latDeg. The boolean is false when the body never crosses
// that altitude (circumpolar or never rising).
func hourAngleForAltitude(altDeg, latDeg, decDeg float64) (float64, bool) {
	lat := latDeg * degToRad
	dec := decDeg * degToRad
	cosH := (math.Sin(altDeg*degToRad) - math.Sin(lat)*math.Sin(dec)) /
		(math.Cos(lat) * math.Cos(dec))
	if cosH < -1 || cosH > 1 {
		return 0, false
	}
	return math.Acos(cosH) * radToDeg / 15, true
}

package sky

import (
	"math"
	"time"

	"github.com/nightseek/nightseek/internal/adapters/catalog"
)

// Keplerian positioning for solar-system bodies. Planets use the J2000
// mean elements with per-century rates; comets and minor planets use the
// catalog's published elements. Accuracy is on the order of arcminutes,
// which the altitude banding in scoring never notices.

// meanElements holds a planet's J2000 osculating elements and their
// per-Julian-century rates (AU and degrees).
type meanElements struct {
	a, aDot       float64 // semi-major axis
	e, eDot       float64 // eccentricity
	i, iDot       float64 // inclination
	l, lDot       float64 // mean longitude
	peri, periDot float64 // longitude of perihelion
	node, nodeDot float64 // longitude of ascending node
	absMag        float64 // magnitude at 1 AU from Sun and Earth
}

// planetElements indexes the planets the forecast tracks.
var planetElements = map[string]meanElements{
	"Mercury": {0.38709927, 0.00000037, 0.20563593, 0.00001906, 7.00497902, -0.00594749,
		252.25032350, 149472.67411175, 77.45779628, 0.16047689, 48.33076593, -0.12534081, -0.6},
	"Venus": {0.72333566, 0.00000390, 0.00677672, -0.00004107, 3.39467605, -0.00078890,
		181.97909950, 58517.81538729, 131.60246718, 0.00268329, 76.67984255, -0.27769418, -4.4},
	"Earth": {1.00000261, 0.00000562, 0.01671123, -0.00004392, -0.00001531, -0.01294668,
		100.46457166, 35999.37244981, 102.93768193, 0.32327364, 0, 0, 0},
	"Mars": {1.52371034, 0.00001847, 0.09339410, 0.00007882, 1.84969142, -0.00813131,
		-4.55343205, 19140.30268499, -23.94362959, 0.44441088, 49.55953891, -0.29257343, -1.5},
	"Jupiter": {5.20288700, -0.00011607, 0.04838624, -0.00013253, 1.30439695, -0.00183714,
		34.39644051, 3034.74612775, 14.72847983, 0.21252668, 100.47390909, 0.20469106, -9.4},
	"Saturn": {9.53667594, -0.00125060, 0.05386179, -0.00050991, 2.48599187, 0.00193609,
		49.95424423, 1222.49362201, 92.59887831, -0.41897216, 113.66242448, -0.28867794, -8.9},
	"Uranus": {19.18916464, -0.00196176, 0.04725744, -0.00004397, 0.77263783, -0.00242939,
		313.23810451, 428.48202785, 170.95427630, 0.40805281, 74.01692503, 0.04240589, -7.2},
	"Neptune": {30.06992276, 0.00026291, 0.00859048, 0.00005105, 1.77004347, 0.00035372,
		-55.12002969, 218.45945325, 44.96476227, -0.32241464, 131.78422574, -0.00508664, -6.9},
}

// solveKepler iterates E - e sin E = M for elliptical orbits. M and the
// result are in radians.
func solveKepler(m, e float64) float64 {
	ecc := m
	for i := 0; i < 30; i++ {
		delta := (ecc - e*math.Sin(ecc) - m) / (1 - e*math.Cos(ecc))
		ecc -= delta
		if math.Abs(delta) < 1e-8 {
			break
		}
	}
	return ecc
}

// heliocentric is a position in the J2000 ecliptic frame, AU.
type heliocentric struct {
	x, y, z float64
}

func (h heliocentric) sub(o heliocentric) heliocentric {
	return heliocentric{h.x - o.x, h.y - o.y, h.z - o.z}
}

func (h heliocentric) norm() float64 {
	return math.Sqrt(h.x*h.x + h.y*h.y + h.z*h.z)
}

// orbitalPosition converts classical elements at a given true anomaly to
// ecliptic coordinates. All angles in radians, r in AU.
func orbitalPosition(r, trueAnom, argPeri, incl, node float64) heliocentric {
	u := trueAnom + argPeri
	x := r * (math.Cos(node)*math.Cos(u) - math.Sin(node)*math.Sin(u)*math.Cos(incl))
	y := r * (math.Sin(node)*math.Cos(u) + math.Cos(node)*math.Sin(u)*math.Cos(incl))
	z := r * math.Sin(u) * math.Sin(incl)
	return heliocentric{x, y, z}
}

// planetHeliocentric returns a planet's position from the mean-element
// table at time t.
func planetHeliocentric(el meanElements, t time.Time) heliocentric {
	cy := daysSinceJ2000(t) / 36525

	a := el.a + el.aDot*cy
	e := el.e + el.eDot*cy
	incl := (el.i + el.iDot*cy) * degToRad
	meanLon := el.l + el.lDot*cy
	periLon := el.peri + el.periDot*cy
	node := el.node + el.nodeDot*cy

	meanAnom := normalizeDeg(meanLon-periLon) * degToRad
	argPeri := (periLon - node) * degToRad

	eccAnom := solveKepler(meanAnom, e)
	trueAnom := 2 * math.Atan2(
		math.Sqrt(1+e)*math.Sin(eccAnom/2),
		math.Sqrt(1-e)*math.Cos(eccAnom/2),
	)
	r := a * (1 - e*math.Cos(eccAnom))

	return orbitalPosition(r, trueAnom, argPeri, incl, node*degToRad)
}

// earthHeliocentric returns the Earth-Moon barycenter position.
func earthHeliocentric(t time.Time) heliocentric {
	return planetHeliocentric(planetElements["Earth"], t)
}

// bodyState is the geocentric result of a solar-system position solve.
type bodyState struct {
	pos         equatorial
	sunDistAU   float64 // heliocentric distance r
	earthDistAU float64 // geocentric distance delta
	eclLonDeg   float64 // geocentric ecliptic longitude
}

// planetState returns a planet's geocentric position and distances.
func planetState(name string, t time.Time) (bodyState, bool) {
	el, ok := planetElements[name]
	if !ok || name == "Earth" {
		return bodyState{}, false
	}
	body := planetHeliocentric(el, t)
	earth := earthHeliocentric(t)
	geo := body.sub(earth)

	return bodyState{
		pos:         eclipticXYZToEquatorial(geo, daysSinceJ2000(t)),
		sunDistAU:   body.norm(),
		earthDistAU: geo.norm(),
		eclLonDeg:   normalizeDeg(math.Atan2(geo.y, geo.x) * radToDeg),
	}, true
}

// saturnRingTilt returns the Earth-facing tilt of Saturn's rings in
// degrees, from Saturn's geocentric ecliptic longitude. The ring plane
// node sits near 169.5 degrees with a 28.06 degree inclination; negative
// values mean the southern face is showing.
func saturnRingTilt(eclLonDeg float64) float64 {
	return 28.06 * math.Sin((eclLonDeg-169.5)*degToRad)
}

// elementsHeliocentric solves a comet's or minor planet's position from
// published elements. Hyperbolic and near-parabolic orbits use a
// perihelion-anchored approximation good to the catalog's own accuracy.
func elementsHeliocentric(el *catalog.OrbitalElements, t time.Time) heliocentric {
	incl := el.InclinationDeg * degToRad
	node := el.AscNodeDeg * degToRad
	argPeri := el.ArgPeriDeg * degToRad

	var r, trueAnom float64
	switch {
	case el.Eccentricity < 0.99:
		// Elliptical: mean motion from the semi-major axis.
		a := el.SemiMajorAU
		period := 365.25 * math.Pow(a, 1.5)
		daysSincePeri := t.Sub(el.PerihelionTime).Hours() / 24
		meanAnom := normalizeDeg(360*daysSincePeri/period) * degToRad
		eccAnom := solveKepler(meanAnom, el.Eccentricity)
		trueAnom = 2 * math.Atan2(
			math.Sqrt(1+el.Eccentricity)*math.Sin(eccAnom/2),
			math.Sqrt(1-el.Eccentricity)*math.Cos(eccAnom/2),
		)
		r = a * (1 - el.Eccentricity*math.Cos(eccAnom))
	default:
		// Near-parabolic or hyperbolic: Barker's equation on the
		// parabolic limit, anchored at perihelion distance.
		q := el.PerihelionAU
		daysSincePeri := t.Sub(el.PerihelionTime).Hours() / 24
		w := 0.03649116245 * daysSincePeri / (q * math.Sqrt(q))
		s := math.Cbrt(w/2 + math.Sqrt(w*w/4+1))
		tanHalf := s - 1/s
		trueAnom = 2 * math.Atan(tanHalf)
		r = q * (1 + tanHalf*tanHalf)
	}

	return orbitalPosition(r, trueAnom, argPeri, incl, node)
}

// elementsState returns the geocentric position and distances for a body
// defined by catalog elements.
func elementsState(el *catalog.OrbitalElements, t time.Time) bodyState {
	body := elementsHeliocentric(el, t)
	earth := earthHeliocentric(t)
	geo := body.sub(earth)

	return bodyState{
		pos:         eclipticXYZToEquatorial(geo, daysSinceJ2000(t)),
		sunDistAU:   body.norm(),
		earthDistAU: geo.norm(),
		eclLonDeg:   normalizeDeg(math.Atan2(geo.y, geo.x) * radToDeg),
	}
}

// eclipticXYZToEquatorial rotates an ecliptic-frame vector into RA/Dec.
func eclipticXYZToEquatorial(v heliocentric, n float64) equatorial {
	eps := obliquity(n) * degToRad
	xe := v.x
	ye := v.y*math.Cos(eps) - v.z*math.Sin(eps)
	ze := v.y*math.Sin(eps) + v.z*math.Cos(eps)

	ra := math.Atan2(ye, xe)
	dec := math.Atan2(ze, math.Sqrt(xe*xe+ye*ye))
	return equatorial{
		RAHours: normalizeHours(ra * radToDeg / 15),
		DecDeg:  dec * radToDeg,
	}
}

// planetMagnitude estimates apparent magnitude from the inverse-square
// distances. Phase effects are ignored; the scoring bands are coarse.
func planetMagnitude(absMag, sunDistAU, earthDistAU float64) float64 {
	return absMag + 5*math.Log10(math.Max(sunDistAU*earthDistAU, 1e-6))
}

// cometMagnitude uses the standard two-slope comet brightness law.
func cometMagnitude(el *catalog.OrbitalElements, sunDistAU, earthDistAU float64) float64 {
	return el.AbsoluteMag +
		5*math.Log10(math.Max(earthDistAU, 1e-6)) +
		2.5*el.SlopeParam*math.Log10(math.Max(sunDistAU, 1e-6))
}

// asteroidMagnitude uses the H/G system without the phase integral.
func asteroidMagnitude(el *catalog.OrbitalElements, sunDistAU, earthDistAU float64) float64 {
	return el.AbsoluteMag + 5*math.Log10(math.Max(sunDistAU*earthDistAU, 1e-6))
}

package sky

import (
	"context"
	"math"
	"time"

	"github.com/nightseek/nightseek/internal/adapters/catalog"
	"github.com/nightseek/nightseek/internal/domain/model"
)

// Moon rendering constants.
const (
	moonAngularSizeArcmin = 31.0
	moonFullMagnitude     = -12.7
)

// Visibility computes one object's observability over the night's dark
// window. Failures are per object: an entry the calculator cannot
// position returns an error and the caller drops that object, never the
// batch.
func (c *Calculator) Visibility(ctx context.Context, entry catalog.Entry, night model.NightContext) (model.ObjectVisibility, error) {
	start, end := night.DarkWindow()
	midDark := start.Add(end.Sub(start) / 2)

	pos, extras, err := c.position(entry, midDark, night)
	if err != nil {
		return model.ObjectVisibility{}, err
	}

	v := model.ObjectVisibility{
		Name:          entry.Name,
		Category:      entry.Category,
		Subtype:       entry.Subtype,
		CommonName:    entry.CommonName,
		MinAirmass:    math.Inf(1),
		AngularSize:   extras.angularSize,
		SurfaceBright: entry.SurfaceBright,
		RAHours:       pos.RAHours,
		DecDegrees:    pos.DecDeg,
		Constellation: entry.Constellation,
		Magnitude:     extras.magnitude,
		Interstellar:  entry.Interstellar,
		CatalogFamous: entry.Famous,

		LibrationLongitude: extras.libration,
		RingTiltDeg:        extras.ringTilt,
	}

	// Sample the altitude curve across the dark window.
	var peakTime time.Time
	var peakAz float64
	for t := start; !t.After(end); t = t.Add(c.interval) {
		lst := localSiderealHours(t, c.longitude)
		alt, az := altAz(pos, c.latitude, lst)
		if alt > v.MaxAltitude || peakTime.IsZero() {
			v.MaxAltitude = alt
			peakTime = t
			peakAz = az
		}
		if am := airmass(alt); am < v.MinAirmass {
			v.MinAirmass = am
		}
	}

	v.Visible = v.MaxAltitude > 0
	if v.Visible {
		pt := peakTime
		v.MaxAltitudeTime = &pt
		v.AzimuthAtPeak = peakAz

		sep := separationDeg(pos, moonPosition(peakTime))
		v.MoonSeparation = &sep
	}

	// Sun geometry at mid-dark drives the twilight penalty and, for
	// planets, the elongation bonus.
	sunAngle := separationDeg(pos, sunPosition(midDark))
	v.SunAngleDeg = &sunAngle
	if entry.Category == model.CategoryPlanet {
		elong := sunAngle
		v.ElongationDeg = &elong
		v.AtOpposition = elong > 170
	}

	ha := hourAngleAt(midDark, c.longitude, pos.RAHours)
	v.HourAngle = &ha

	if entry.Elements != nil {
		off := midDark.Sub(entry.Elements.PerihelionTime).Hours() / 24
		v.PerihelionOffset = &off
		if entry.Category == model.CategoryComet && math.Abs(off) < 45 {
			v.PerihelionBoost = extras.perihelionBoost
		}
	}

	return v, nil
}

// positionExtras carries the per-category quantities computed alongside
// the coordinates.
type positionExtras struct {
	magnitude       *float64
	angularSize     float64
	perihelionBoost float64
	libration       float64 // moon, degrees of longitude
	ringTilt        float64 // Saturn, degrees
}

// position resolves an entry's equatorial coordinates at time t.
func (c *Calculator) position(entry catalog.Entry, t time.Time, night model.NightContext) (equatorial, positionExtras, error) {
	switch entry.Category {
	case model.CategoryPlanet:
		state, ok := planetState(entry.Name, t)
		if !ok {
			return equatorial{}, positionExtras{}, ErrUnknownObject
		}
		m := planetMagnitude(planetElements[entry.Name].absMag, state.sunDistAU, state.earthDistAU)
		extras := positionExtras{magnitude: &m}
		if entry.Name == "Saturn" {
			extras.ringTilt = saturnRingTilt(state.eclLonDeg)
		}
		return state.pos, extras, nil

	case model.CategoryMoon:
		// Brightness drops as illumination falls; the exact curve does
		// not matter to the banded magnitude score.
		m := moonFullMagnitude + (100-night.MoonIllumination)*0.05
		return moonPosition(t), positionExtras{
			magnitude:   &m,
			angularSize: moonAngularSizeArcmin,
			libration:   moonLibrationLon(daysSinceJ2000(t)),
		}, nil

	case model.CategoryComet:
		if entry.Elements == nil {
			return equatorial{}, positionExtras{}, ErrMissingElements
		}
		state := elementsState(entry.Elements, t)
		m := cometMagnitude(entry.Elements, state.sunDistAU, state.earthDistAU)
		boost := math.Max(0, entry.Elements.AbsoluteMag-m)
		return state.pos, positionExtras{magnitude: &m, perihelionBoost: boost}, nil

	case model.CategoryAsteroid, model.CategoryDwarfPlanet:
		if entry.Elements == nil {
			return equatorial{}, positionExtras{}, ErrMissingElements
		}
		state := elementsState(entry.Elements, t)
		m := asteroidMagnitude(entry.Elements, state.sunDistAU, state.earthDistAU)
		return state.pos, positionExtras{magnitude: &m}, nil

	default:
		// Fixed targets: coordinates straight from the catalog.
		return equatorial{RAHours: entry.RAHours, DecDeg: entry.DecDegrees},
			positionExtras{magnitude: entry.Magnitude, angularSize: entry.AngularSize}, nil
	}
}

// hourAngleAt returns the signed hour angle in hours, normalized to
// [-12, 12), negative east of the meridian.
func hourAngleAt(t time.Time, lonDeg, raHours float64) float64 {
	ha := localSiderealHours(t, lonDeg) - raHours
	for ha < -12 {
		ha += 24
	}
	for ha >= 12 {
		ha -= 24
	}
	return ha
}

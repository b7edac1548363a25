// Package sky computes per-night astronomical context and per-object
// visibility from low-precision positional formulas. It fills the role a
// full ephemeris engine would in a larger deployment; every consumer
// only sees the domain model, so swapping in a precise engine later
// touches nothing downstream.
package sky

import (
	"context"
	"time"

	"github.com/nightseek/nightseek/internal/domain/model"
	"github.com/nightseek/nightseek/pkg/logger"
)

// Sampling and horizon constants.
const (
	defaultSampleInterval = 10 * time.Minute
	moonSampleInterval    = 5 * time.Minute

	// Apparent horizon altitudes in degrees.
	riseSetAltitude   = -0.833 // refraction plus solar semi-diameter
	astroDarkAltitude = -18.0

	// polarFallbackHours is the half-width of the synthetic dark window
	// used at latitudes where the sun never reaches astronomical dark.
	polarFallbackHours = 2.0
)

// Calculator produces night contexts and object visibility for one
// observer location.
type Calculator struct {
	latitude  float64
	longitude float64
	interval  time.Duration
	log       logger.Logger
}

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithSampleInterval sets the altitude sampling step.
func WithSampleInterval(d time.Duration) Option {
	return func(c *Calculator) {
		if d > 0 {
			c.interval = d
		}
	}
}

// New creates a Calculator for an observer position in degrees.
func New(latitude, longitude float64, opts ...Option) *Calculator {
	c := &Calculator{
		latitude:  latitude,
		longitude: longitude,
		interval:  defaultSampleInterval,
		log:       logger.Named("sky"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NightContext computes the context for the night starting on the given
// date (anchored at local noon). It never fails: polar edge cases fall
// back to a synthetic window around solar midnight.
func (c *Calculator) NightContext(ctx context.Context, date time.Time) model.NightContext {
	transit := c.solarTransit(date)
	solarMidnight := transit.Add(12 * time.Hour)
	dec := sunPosition(transit).DecDeg

	sunset, sunrise := c.sunCrossings(transit, dec, riseSetAltitude)
	dusk, dawn := c.sunCrossings(transit, dec, astroDarkAltitude)

	if dusk.IsZero() || dawn.IsZero() {
		// High-latitude summer: no astronomical dark. Use a short
		// window around solar midnight so the forecast still ranks the
		// brightest targets instead of going blank.
		dusk = solarMidnight.Add(-time.Duration(polarFallbackHours * float64(time.Hour)))
		dawn = solarMidnight.Add(time.Duration(polarFallbackHours * float64(time.Hour)))
	}
	if sunset.IsZero() || sunrise.IsZero() {
		sunset = dusk.Add(-time.Hour)
		sunrise = dawn.Add(time.Hour)
	}

	phase, illumination := moonPhase(solarMidnight)
	moonRise, moonSet := c.moonCrossings(date)

	return model.NightContext{
		Date:             date,
		Sunset:           sunset,
		Sunrise:          sunrise,
		AstroDusk:        dusk,
		AstroDawn:        dawn,
		MoonPhase:        phase,
		MoonIllumination: illumination,
		MoonRise:         moonRise,
		MoonSet:          moonSet,
		SeeingArcsec:     0, // supplied by the weather aggregator when available
		LSTHours:         localSiderealHours(solarMidnight, c.longitude),
	}
}

// solarTransit approximates local solar noon for the calendar day of
// date.
func (c *Calculator) solarTransit(date time.Time) time.Time {
	y, m, d := date.UTC().Date()
	noonUTC := time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
	offset := time.Duration(-c.longitude / 15 * float64(time.Hour))
	return noonUTC.Add(offset)
}

// sunCrossings returns the evening and morning times the sun crosses the
// given altitude around the night following transit. Zero times mean the
// crossing does not happen at this latitude and season.
func (c *Calculator) sunCrossings(transit time.Time, decDeg, altDeg float64) (evening, morning time.Time) {
	ha, ok := hourAngleForAltitude(altDeg, c.latitude, decDeg)
	if !ok {
		return time.Time{}, time.Time{}
	}
	evening = transit.Add(time.Duration(ha * float64(time.Hour)))
	morning = transit.Add(time.Duration((24 - ha) * float64(time.Hour)))
	return evening, morning
}

// moonCrossings samples the Moon's altitude over the noon-to-noon day
// and returns the first rise and set found.
func (c *Calculator) moonCrossings(date time.Time) (rise, set *time.Time) {
	prevAlt, _ := altAz(moonPosition(date), c.latitude, localSiderealHours(date, c.longitude))

	for t := date.Add(moonSampleInterval); !t.After(date.Add(24 * time.Hour)); t = t.Add(moonSampleInterval) {
		alt, _ := altAz(moonPosition(t), c.latitude, localSiderealHours(t, c.longitude))
		if prevAlt <= 0 && alt > 0 && rise == nil {
			tc := t
			rise = &tc
		}
		if prevAlt > 0 && alt <= 0 && set == nil {
			tc := t
			set = &tc
		}
		prevAlt = alt
	}
	return rise, set
}

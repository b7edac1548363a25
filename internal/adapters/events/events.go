// Package events assembles the rare astronomical happenings around each
// forecast night: oppositions, greatest elongations, conjunctions, lunar
// apsides, Venus brilliancy peaks, eclipses, meteor showers, near-Earth
// passes, and space weather. Collectors fail independently; an
// unavailable source leaves its slice of NightEvents empty and the
// forecast moves on.
package events

import (
	"context"
	"math"
	"time"

	"github.com/nightseek/nightseek/internal/adapters/sky"
	"github.com/nightseek/nightseek/internal/domain/model"
	"github.com/nightseek/nightseek/pkg/logger"
	"github.com/nightseek/nightseek/pkg/metrics"
)

const (
	// Local ephemeris scans run daily samples over the forecast window
	// padded on both sides, so events just outside the window still
	// contribute their day-offsets.
	scanStep    = 24 * time.Hour
	scanPadDays = 21

	oppositionWindowDays = 14.0
	elongationWindowDays = 10.0
	apsisWindowDays      = 2.0
	venusPeakWindowDays  = 15.0

	oppositionMinDeg = 170.0
	elongationMinDeg = 15.0

	// Greatest brilliancy sits near 39 degrees of elongation on the
	// inferior-conjunction side of the apparition.
	venusBrilliancyDeg = 39.0

	supermoonMaxKm    = 362000.0
	supermoonMinIllum = 95.0
)

var (
	outerPlanets = []string{"Mars", "Jupiter", "Saturn", "Uranus", "Neptune"}
	innerPlanets = []string{"Mercury", "Venus"}
)

// EclipseSource lists the eclipses falling inside a date window. Eclipse
// circumstances need a full ephemeris engine, so the collector treats
// this as an optional upstream like the near-Earth feed; without one
// wired in, nights simply carry no eclipse.
type EclipseSource interface {
	Eclipses(ctx context.Context, start time.Time, days int) ([]model.EclipseEvent, error)
}

// Collector scans the local ephemeris for geometric events and pulls
// the network-backed sources when clients are attached.
type Collector struct {
	sky      *sky.Calculator
	neo      *NEOClient
	spaceWx  *SpaceWeatherClient
	eclipses EclipseSource
	log      logger.Logger
}

// Option applies a configuration option to the Collector.
type Option func(*Collector)

// WithNEOClient attaches a near-Earth-object source.
func WithNEOClient(c *NEOClient) Option {
	return func(col *Collector) {
		col.neo = c
	}
}

// WithSpaceWeatherClient attaches a geomagnetic-activity source.
func WithSpaceWeatherClient(c *SpaceWeatherClient) Option {
	return func(col *Collector) {
		col.spaceWx = c
	}
}

// WithEclipseSource attaches an eclipse ephemeris source.
func WithEclipseSource(s EclipseSource) Option {
	return func(col *Collector) {
		col.eclipses = s
	}
}

// New creates an event collector over a sky calculator.
func New(calc *sky.Calculator, opts ...Option) *Collector {
	c := &Collector{
		sky: calc,
		log: logger.Named("events"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// apsisPoint is a perigee or apogee found by the distance scan.
type apsisPoint struct {
	date       time.Time
	perigee    bool
	distanceKm float64
	supermoon  bool
}

// Calendar holds the events found across a whole forecast window. It is
// built once per run and sliced per night with ForNight, so the scans
// and network fetches never repeat inside one forecast.
type Calendar struct {
	oppositions []model.OppositionEvent
	elongations []model.ElongationEvent
	apsides     []apsisPoint
	venusPeaks  []time.Time
	eclipses    []model.EclipseEvent
	neoPasses   []model.NEOPass
	spaceWx     *model.SpaceWeather
}

// Collect scans the padded forecast window for events. Network sources
// are best-effort: a failure logs, counts, and leaves the slice empty.
func (c *Collector) Collect(ctx context.Context, start time.Time, days int) *Calendar {
	from := start.AddDate(0, 0, -scanPadDays)
	to := start.AddDate(0, 0, days+scanPadDays)

	cal := &Calendar{
		oppositions: c.scanOppositions(from, to),
		elongations: c.scanElongations(from, to),
		apsides:     c.scanApsides(from, to),
		venusPeaks:  c.scanVenusPeaks(from, to),
	}

	if c.neo != nil {
		passes, err := c.neo.FetchPasses(ctx, start, days)
		if err != nil {
			metrics.RecordSourceFailure("neo")
			c.log.Warn(ctx, "near-earth passes unavailable", logger.Error(err))
		} else {
			cal.neoPasses = passes
		}
	}
	if c.spaceWx != nil {
		wx, err := c.spaceWx.Fetch(ctx)
		if err != nil {
			metrics.RecordSourceFailure("space_weather")
			c.log.Warn(ctx, "space weather unavailable", logger.Error(err))
		} else {
			cal.spaceWx = wx
		}
	}
	if c.eclipses != nil {
		list, err := c.eclipses.Eclipses(ctx, start, days)
		if err != nil {
			metrics.RecordSourceFailure("eclipse")
			c.log.Warn(ctx, "eclipse source unavailable", logger.Error(err))
		} else {
			cal.eclipses = list
		}
	}

	return cal
}

// elongationSeries samples a planet's solar elongation daily. Unknown
// planets yield empty slices.
func (c *Collector) elongationSeries(planet string, from, to time.Time) (dates []time.Time, vals []float64, east []bool) {
	for t := from; !t.After(to); t = t.Add(scanStep) {
		deg, e, err := c.sky.SolarElongation(planet, t)
		if err != nil {
			return nil, nil, nil
		}
		dates = append(dates, t)
		vals = append(vals, deg)
		east = append(east, e)
	}
	return dates, vals, east
}

// scanOppositions finds elongation maxima above the opposition band for
// the outer planets.
func (c *Collector) scanOppositions(from, to time.Time) []model.OppositionEvent {
	var out []model.OppositionEvent
	for _, planet := range outerPlanets {
		dates, vals, _ := c.elongationSeries(planet, from, to)
		for i := 1; i < len(vals)-1; i++ {
			if vals[i] > oppositionMinDeg && vals[i] >= vals[i-1] && vals[i] > vals[i+1] {
				out = append(out, model.OppositionEvent{Planet: planet, Date: dates[i]})
			}
		}
	}
	return out
}

// scanElongations finds greatest-elongation maxima for the inner
// planets.
func (c *Collector) scanElongations(from, to time.Time) []model.ElongationEvent {
	var out []model.ElongationEvent
	for _, planet := range innerPlanets {
		dates, vals, east := c.elongationSeries(planet, from, to)
		for i := 1; i < len(vals)-1; i++ {
			if vals[i] > elongationMinDeg && vals[i] >= vals[i-1] && vals[i] > vals[i+1] {
				out = append(out, model.ElongationEvent{
					Planet:        planet,
					Date:          dates[i],
					ElongationDeg: vals[i],
					Eastern:       east[i],
				})
			}
		}
	}
	return out
}

// scanApsides finds perigees and apogees from distance extrema. A
// perigee coinciding with a near-full Moon is flagged as a supermoon.
func (c *Collector) scanApsides(from, to time.Time) []apsisPoint {
	var dates []time.Time
	var dists []float64
	for t := from; !t.After(to); t = t.Add(scanStep) {
		dates = append(dates, t)
		dists = append(dists, c.sky.MoonDistanceKm(t))
	}

	var out []apsisPoint
	for i := 1; i < len(dists)-1; i++ {
		perigee := dists[i] <= dists[i-1] && dists[i] < dists[i+1]
		apogee := dists[i] >= dists[i-1] && dists[i] > dists[i+1]
		if !perigee && !apogee {
			continue
		}
		p := apsisPoint{date: dates[i], perigee: perigee, distanceKm: dists[i]}
		if perigee && dists[i] < supermoonMaxKm && c.sky.MoonIllumination(dates[i]) >= supermoonMinIllum {
			p.supermoon = true
		}
		out = append(out, p)
	}
	return out
}

// scanVenusPeaks finds the days Venus crosses the brilliancy elongation
// moving toward inferior conjunction: shrinking on an evening
// apparition, growing on a morning one.
func (c *Collector) scanVenusPeaks(from, to time.Time) []time.Time {
	dates, vals, east := c.elongationSeries("Venus", from, to)

	var out []time.Time
	for i := 1; i < len(vals); i++ {
		crossed := (vals[i-1]-venusBrilliancyDeg)*(vals[i]-venusBrilliancyDeg) <= 0
		if !crossed {
			continue
		}
		shrinking := vals[i] < vals[i-1]
		if (east[i] && shrinking) || (!east[i] && !shrinking) {
			out = append(out, dates[i])
		}
	}
	return out
}

// ForNight slices the calendar down to the events active around one
// night, filling the signed day-offsets the scoring bonuses decay on.
func (cal *Calendar) ForNight(night model.NightContext) model.NightEvents {
	var ev model.NightEvents
	ref := night.Date

	for _, op := range cal.oppositions {
		off := ref.Sub(op.Date).Hours() / 24
		if math.Abs(off) <= oppositionWindowDays {
			op.OffsetDays = off
			ev.Oppositions = append(ev.Oppositions, op)
		}
	}
	for _, el := range cal.elongations {
		off := ref.Sub(el.Date).Hours() / 24
		if math.Abs(off) <= elongationWindowDays {
			el.OffsetDays = off
			ev.Elongations = append(ev.Elongations, el)
		}
	}
	for _, ap := range cal.apsides {
		off := ref.Sub(ap.date).Hours() / 24
		if math.Abs(off) > apsisWindowDays {
			continue
		}
		if ev.LunarApsis == nil || math.Abs(off) < math.Abs(ev.LunarApsis.OffsetDays) {
			ev.LunarApsis = &model.LunarApsisEvent{
				Perigee:    ap.perigee,
				Date:       ap.date,
				OffsetDays: off,
				Supermoon:  ap.supermoon,
			}
		}
	}
	for _, peak := range cal.venusPeaks {
		off := ref.Sub(peak).Hours() / 24
		if math.Abs(off) > venusPeakWindowDays {
			continue
		}
		if ev.VenusPeak == nil || math.Abs(off) < math.Abs(ev.VenusPeak.OffsetDays) {
			ev.VenusPeak = &model.VenusPeakEvent{Date: peak, OffsetDays: off}
		}
	}
	for _, ec := range cal.eclipses {
		if model.DateKey(ec.Date) == night.Key() {
			e := ec
			ev.Eclipse = &e
			break
		}
	}
	for _, pass := range cal.neoPasses {
		if model.DateKey(pass.Date) == night.Key() {
			ev.NEOPasses = append(ev.NEOPasses, pass)
		}
	}
	ev.MeteorShowers = activeShowers(night.Date)
	ev.SpaceWeather = cal.spaceWx

	return ev
}

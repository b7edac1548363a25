package catalog

import (
	"context"
	"math"

	"github.com/nightseek/nightseek/internal/domain/model"
	"github.com/nightseek/nightseek/pkg/logger"
)

// minPeakAltitudeDeg is the lowest culmination worth listing: an object
// that never clears this altitude at the observer's latitude is skipped
// before any per-night sampling happens.
const minPeakAltitudeDeg = 20.0

// Loader serves filtered views of the built-in catalogs.
type Loader struct {
	latitude float64
	log      logger.Logger
}

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithLatitude sets the observer latitude used for reachability filtering.
func WithLatitude(lat float64) Option {
	return func(l *Loader) {
		l.latitude = lat
	}
}

// New creates a catalog Loader.
func New(opts ...Option) *Loader {
	l := &Loader{
		latitude: 0,
		log:      logger.Named("catalog"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// DSOs returns deep-sky entries no fainter than magLimit that culminate
// usefully high at the configured latitude.
func (l *Loader) DSOs(ctx context.Context, magLimit float64) ([]Entry, error) {
	var out []Entry
	for _, e := range deepSkyCatalog {
		if e.Magnitude != nil && *e.Magnitude > magLimit {
			continue
		}
		if !l.reachable(e.DecDegrees) {
			continue
		}
		out = append(out, e)
	}
	l.log.Debug(ctx, "deep-sky catalog filtered",
		logger.Int("kept", len(out)),
		logger.Int("total", len(deepSkyCatalog)),
		logger.Float64("magLimit", magLimit),
	)
	return out, nil
}

// Planets returns the planet entries. Positions are left to the
// visibility provider.
func (l *Loader) Planets(ctx context.Context) ([]Entry, error) {
	out := make([]Entry, 0, len(planetNames))
	for _, name := range planetNames {
		out = append(out, Entry{
			Name:       name,
			CommonName: name,
			Category:   model.CategoryPlanet,
			Famous:     true,
		})
	}
	return out, nil
}

// Comets returns the comet entries whose brightness can plausibly reach
// magLimit near perihelion.
func (l *Loader) Comets(ctx context.Context, magLimit float64) ([]Entry, error) {
	var out []Entry
	for _, e := range cometTable {
		// The absolute magnitude bounds how bright the comet can get;
		// fainter than the limit even at 1 AU means never observable.
		if e.Elements != nil && e.Elements.AbsoluteMag > magLimit {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// MinorPlanets returns the built-in dwarf planet and asteroid entries.
func (l *Loader) MinorPlanets(ctx context.Context) ([]Entry, error) {
	out := make([]Entry, len(minorPlanetTable))
	copy(out, minorPlanetTable)
	return out, nil
}

// MilkyWay returns the galactic-core entry when it is reachable from the
// configured latitude, nil otherwise.
func (l *Loader) MilkyWay(ctx context.Context) *Entry {
	if !l.reachable(milkyWayCore.DecDegrees) {
		return nil
	}
	e := milkyWayCore
	return &e
}

// Moon returns the Moon entry. Phase-dependent fields are filled in per
// night by the visibility provider.
func (l *Loader) Moon(ctx context.Context) Entry {
	return Entry{
		Name:       "Moon",
		CommonName: "Moon",
		Category:   model.CategoryMoon,
		Famous:     true,
	}
}

// reachable reports whether a declination culminates above the minimum
// peak altitude at the configured latitude.
func (l *Loader) reachable(decDeg float64) bool {
	peak := 90 - math.Abs(l.latitude-decDeg)
	return peak >= minPeakAltitudeDeg
}

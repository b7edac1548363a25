// Package service drives the per-night forecast loop: it gathers
// visibility, weather, and event data from the adapters, scores every
// candidate object, and distills the nights into a ranked, curated
// result. Collaborator failures are absorbed at the smallest possible
// granularity; the only hard exit is caller cancellation.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nightseek/nightseek/internal/adapters/catalog"
	"github.com/nightseek/nightseek/internal/adapters/events"
	"github.com/nightseek/nightseek/internal/adapters/weather"
	"github.com/nightseek/nightseek/internal/domain/model"
	"github.com/nightseek/nightseek/internal/domain/scoring"
	"github.com/nightseek/nightseek/internal/domain/selection"
	"github.com/nightseek/nightseek/pkg/logger"
	"github.com/nightseek/nightseek/pkg/metrics"
)

// Catalog supplies the candidate objects for a run.
type Catalog interface {
	DSOs(ctx context.Context, magLimit float64) ([]catalog.Entry, error)
	Planets(ctx context.Context) ([]catalog.Entry, error)
	Comets(ctx context.Context, magLimit float64) ([]catalog.Entry, error)
	MinorPlanets(ctx context.Context) ([]catalog.Entry, error)
	MilkyWay(ctx context.Context) *catalog.Entry
	Moon(ctx context.Context) catalog.Entry
}

// SkyProvider computes night contexts and per-object visibility.
type SkyProvider interface {
	NightContext(ctx context.Context, date time.Time) model.NightContext
	Visibility(ctx context.Context, entry catalog.Entry, night model.NightContext) (model.ObjectVisibility, error)
}

// WeatherSource fetches the hourly series covering the window.
type WeatherSource interface {
	FetchRange(ctx context.Context, days int) (*weather.Series, error)
}

// EventSource builds the event calendar for the window.
type EventSource interface {
	Collect(ctx context.Context, start time.Time, days int) *events.Calendar
}

// Progress is one step of a forecast run, with a monotonically
// increasing percentage.
type Progress struct {
	Percent int
	Stage   string
}

// ProgressFunc receives progress notifications during a run.
type ProgressFunc func(Progress)

// Service is the forecast orchestrator.
type Service struct {
	sky     SkyProvider
	catalog Catalog
	weather WeatherSource
	events  EventSource
	engine  *scoring.Engine
	now     func() time.Time
	log     logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWeatherSource attaches a weather source. Without one, every night
// runs weather-neutral and the result confidence is low.
func WithWeatherSource(w WeatherSource) Option {
	return func(s *Service) {
		s.weather = w
	}
}

// WithEventSource attaches an event source.
func WithEventSource(e EventSource) Option {
	return func(s *Service) {
		s.events = e
	}
}

// WithScoringEngine overrides the default-weighted engine.
func WithScoringEngine(e *scoring.Engine) Option {
	return func(s *Service) {
		if e != nil {
			s.engine = e
		}
	}
}

// WithClock overrides the run clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs the orchestrator over its two required collaborators.
func New(skyp SkyProvider, cat Catalog, opts ...Option) *Service {
	s := &Service{
		sky:     skyp,
		catalog: cat,
		engine:  scoring.New(),
		now:     time.Now,
		log:     logger.Named("forecast"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// prefetched is the night-independent data gathered before the loop.
type prefetched struct {
	dsos     []catalog.Entry
	planets  []catalog.Entry
	comets   []catalog.Entry
	minors   []catalog.Entry
	milkyWay *catalog.Entry
	moon     catalog.Entry
	series   *weather.Series
	calendar *events.Calendar
}

// GenerateForecast runs the full per-night loop and selection layer.
// The only error it returns is the context's own: every collaborator
// failure degrades to empty data instead.
func (s *Service) GenerateForecast(ctx context.Context, loc model.Location, settings model.Settings, onProgress ProgressFunc) (*model.ForecastResult, error) {
	started := time.Now()
	metrics.RecordForecastRun()

	report := func(pct int, stage string) {
		if onProgress != nil {
			onProgress(Progress{Percent: pct, Stage: stage})
		}
	}
	report(0, "fetching catalogs, weather, and events")

	base := s.now().UTC()
	firstNight := time.Date(base.Year(), base.Month(), base.Day(), 12, 0, 0, 0, time.UTC)

	pre := s.prefetch(ctx, firstNight, settings)

	result := &model.ForecastResult{
		RunID:         uuid.NewString(),
		Location:      loc,
		ScoredObjects: make(map[string][]model.ScoredObject, settings.ForecastDays),
		GeneratedAt:   s.now(),
	}

	total := settings.ForecastDays
	nightsWithWeather := 0

	for i := 0; i < total; i++ {
		night := s.sky.NightContext(ctx, firstNight.AddDate(0, 0, i))
		nf := s.buildNight(ctx, night, pre)

		scored := s.scoreNight(nf, settings)
		key := night.Key()
		result.Forecasts = append(result.Forecasts, nf)
		result.ScoredObjects[key] = scored
		if nf.Weather != nil {
			nightsWithWeather++
		}

		metrics.RecordNightProcessed()
		metrics.RecordObjectsDisplayed(len(scored))
		report((i+1)*95/total, fmt.Sprintf("scored night %s", key))

		// One cancellation check and one yield per night keeps a long
		// run responsive without per-object overhead.
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		runtime.Gosched()
	}

	result.BestNights = selection.SelectBestNights(result.Forecasts)
	metrics.UpdateBestNightsSelected(len(result.BestNights))

	switch {
	case total > 0 && nightsWithWeather == total:
		result.Confidence = model.ConfidenceHigh
	case nightsWithWeather > 0:
		result.Confidence = model.ConfidenceMedium
	default:
		result.Confidence = model.ConfidenceLow
	}

	metrics.RecordForecastDuration(float64(time.Since(started).Milliseconds()))
	report(100, "forecast complete")

	s.log.Info(ctx, "forecast generated",
		logger.String("runID", result.RunID),
		logger.Int("nights", total),
		logger.String("confidence", result.Confidence),
		logger.Int("bestNights", len(result.BestNights)),
	)
	return result, nil
}

// TonightPicks returns the curated highlights for one night of a result.
func (s *Service) TonightPicks(result *model.ForecastResult, key string) []model.TonightPick {
	for _, nf := range result.Forecasts {
		if nf.Night.Key() != key {
			continue
		}
		picks := selection.SelectTonightPicks(result.ScoredObjects[key], nf.Weather)
		for _, p := range picks {
			metrics.RecordPickSelected(string(p.Category))
		}
		return picks
	}
	return nil
}

// prefetch gathers everything night-independent, concurrently. Each
// source is wrapped: failure leaves its slot empty, logs, counts, and
// never stops the run.
func (s *Service) prefetch(ctx context.Context, start time.Time, settings model.Settings) *prefetched {
	pre := &prefetched{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		pre.dsos = s.entries(gctx, "dso catalog", func() ([]catalog.Entry, error) {
			return s.catalog.DSOs(gctx, settings.DSOMagnitudeLimit)
		})
		pre.planets = s.entries(gctx, "planet catalog", func() ([]catalog.Entry, error) {
			return s.catalog.Planets(gctx)
		})
		pre.comets = s.entries(gctx, "comet catalog", func() ([]catalog.Entry, error) {
			return s.catalog.Comets(gctx, settings.CometMagLimit)
		})
		pre.minors = s.entries(gctx, "minor planet catalog", func() ([]catalog.Entry, error) {
			return s.catalog.MinorPlanets(gctx)
		})
		pre.milkyWay = s.catalog.MilkyWay(gctx)
		pre.moon = s.catalog.Moon(gctx)
		return nil
	})

	if s.weather != nil {
		g.Go(func() error {
			series, err := s.weather.FetchRange(gctx, settings.ForecastDays)
			if err != nil {
				metrics.RecordSourceFailure("weather")
				s.log.Warn(gctx, "weather unavailable, forecasting without it", logger.Error(err))
				return nil
			}
			pre.series = series
			return nil
		})
	}

	if s.events != nil {
		g.Go(func() error {
			pre.calendar = s.events.Collect(gctx, start, settings.ForecastDays)
			return nil
		})
	}

	_ = g.Wait()
	return pre
}

// entries runs one catalog fetch, degrading to empty on failure.
func (s *Service) entries(ctx context.Context, name string, fetch func() ([]catalog.Entry, error)) []catalog.Entry {
	list, err := fetch()
	if err != nil {
		metrics.RecordSourceFailure("catalog")
		s.log.Warn(ctx, "catalog unavailable",
			logger.String("catalog", name),
			logger.Error(err),
		)
		return nil
	}
	return list
}

// buildNight assembles one night's bundle: events slice, weather slice,
// and per-category visibility lists.
func (s *Service) buildNight(ctx context.Context, night model.NightContext, pre *prefetched) model.NightForecast {
	nf := model.NightForecast{Night: night}

	if pre.calendar != nil {
		nf.Events = pre.calendar.ForNight(night)
	}
	nf.Weather = weather.NightSummary(pre.series, night)

	nf.Planets = s.visibilityList(ctx, pre.planets, night)
	attachEventOffsets(nf.Planets, nf.Events)
	nf.DSOs = s.visibilityList(ctx, pre.dsos, night)
	nf.Comets = s.visibilityList(ctx, pre.comets, night)
	nf.MinorPlanets = s.visibilityList(ctx, pre.minors, night)

	if pre.milkyWay != nil {
		if v, err := s.safeVisibility(ctx, *pre.milkyWay, night); err == nil && v.Visible {
			nf.MilkyWay = &v
		}
	}
	if v, err := s.safeVisibility(ctx, pre.moon, night); err == nil && v.Visible {
		nf.Moon = &v
	}

	// Conjunctions derive from the visibility records just built, so
	// they are detected here rather than in the calendar scans.
	nf.Events.Conjunctions = events.Conjunctions(night, nf.Planets, nf.Moon)

	return nf
}

// scoreNight scores every visible object of a bundle, keeps the ones at
// or above the display threshold, and sorts them descending. The sort is
// stable so equal totals keep their catalog order.
func (s *Service) scoreNight(nf model.NightForecast, settings model.Settings) []model.ScoredObject {
	var scored []model.ScoredObject
	count := 0

	scoreOne := func(v model.ObjectVisibility) {
		started := time.Now()
		so := s.engine.Score(scoring.Input{
			Visibility: v,
			Night:      nf.Night,
			Weather:    nf.Weather,
			Events:     nf.Events,
			FOVArcmin:  settings.FieldOfViewArcmin,
		})
		metrics.RecordScoringLatency(float64(time.Since(started).Microseconds()) / 1000)
		count++
		if so.Total >= model.DisplayThreshold {
			scored = append(scored, so)
		}
	}

	for _, list := range [][]model.ObjectVisibility{nf.Planets, nf.DSOs, nf.Comets, nf.MinorPlanets} {
		for _, v := range list {
			scoreOne(v)
		}
	}
	if nf.MilkyWay != nil {
		scoreOne(*nf.MilkyWay)
	}
	if nf.Moon != nil {
		scoreOne(*nf.Moon)
	}

	metrics.RecordObjectsScored(count)
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Total > scored[j].Total
	})
	return scored
}

// visibilityList computes visibility per entry, dropping the ones that
// fail or never rise. Failure is per object: a degenerate orbit costs
// that object, never its siblings.
func (s *Service) visibilityList(ctx context.Context, list []catalog.Entry, night model.NightContext) []model.ObjectVisibility {
	var out []model.ObjectVisibility
	for _, entry := range list {
		v, err := s.safeVisibility(ctx, entry, night)
		if err != nil {
			metrics.RecordVisibilityError()
			s.log.Debug(ctx, "dropping object",
				logger.String("object", entry.Name),
				logger.Error(err),
			)
			continue
		}
		if v.Visible {
			out = append(out, v)
		}
	}
	return out
}

// safeVisibility shields the loop from a panicking position solver.
func (s *Service) safeVisibility(ctx context.Context, entry catalog.Entry, night model.NightContext) (v model.ObjectVisibility, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("visibility panic for %s: %v", entry.Name, r)
		}
	}()
	return s.sky.Visibility(ctx, entry, night)
}

// attachEventOffsets copies the calendar's day-offsets onto the matching
// planet records so the event bonuses can decay on them.
func attachEventOffsets(planets []model.ObjectVisibility, ev model.NightEvents) {
	for i := range planets {
		for _, op := range ev.Oppositions {
			if op.Planet == planets[i].Name {
				off := op.OffsetDays
				planets[i].OppositionOffset = &off
			}
		}
		for _, el := range ev.Elongations {
			if el.Planet == planets[i].Name {
				off := el.OffsetDays
				planets[i].ElongationOffset = &off
			}
		}
	}
}

// Package model contains the domain entities passed between the
// orchestrator, the scoring engine, and the selection layer. Everything
// here is created once per forecast run and treated as immutable after
// construction.
package model

import (
	"math"
	"time"
)

// DateKey returns the calendar key (YYYY-MM-DD) for a night anchored at
// local noon. Keys are unique and stable across a forecast result.
func DateKey(night time.Time) string {
	return night.Format("2006-01-02")
}

// NightContext describes one calendar night at the observer's location.
type NightContext struct {
	Date             time.Time // anchored at local noon
	Sunset           time.Time
	Sunrise          time.Time
	AstroDusk        time.Time
	AstroDawn        time.Time
	MoonPhase        float64 // 0 new .. 0.5 full .. 1 new
	MoonIllumination float64 // 0-100 percent
	MoonRise         *time.Time
	MoonSet          *time.Time
	SeeingArcsec     float64 // 0 when no estimate is available
	LSTHours         float64 // local sidereal time at local midnight
}

// DarkWindow returns the astronomical-dark interval for the night,
// normalized so that end is after start even across midnight.
func (n NightContext) DarkWindow() (start, end time.Time) {
	start, end = n.AstroDusk, n.AstroDawn
	if !end.After(start) {
		end = end.Add(24 * time.Hour)
	}
	return start, end
}

// Key returns the night's date key.
func (n NightContext) Key() string { return DateKey(n.Date) }

// ObjectVisibility is the per-object, per-night output of the visibility
// provider. Optional physical fields use pointers; a nil value means the
// quantity is unknown for this object and scoring must fall back to its
// neutral handling.
type ObjectVisibility struct {
	Name       string
	Category   Category
	Subtype    DSOSubtype // deep-sky only
	CommonName string     // e.g. "Andromeda Galaxy", empty when unnamed

	Visible         bool
	MaxAltitude     float64 // degrees
	MaxAltitudeTime *time.Time
	MinAirmass      float64 // math.Inf(1) when never above the horizon
	AzimuthAtPeak   float64 // degrees, compass azimuth at peak altitude

	MoonSeparation *float64 // degrees
	Magnitude      *float64
	AngularSize    float64  // arcminutes, 0 when unknown
	SurfaceBright  *float64 // mag/arcsec^2, deep-sky only

	RAHours       float64
	DecDegrees    float64
	Constellation string

	// Category-specific extras.
	ElongationDeg      *float64 // inner planets: separation from the Sun
	SunAngleDeg        *float64 // angular distance from the Sun
	HourAngle          *float64 // hours from the meridian at mid-dark
	AtOpposition       bool
	OppositionOffset   *float64 // days from opposition, outer planets
	ElongationOffset   *float64 // days from greatest elongation
	PerihelionOffset   *float64 // days from perihelion, comets
	PerihelionBoost    float64  // magnitudes of expected brightening
	Interstellar       bool
	CatalogFamous      bool // Messier-class target
	LibrationLongitude float64
	RingTiltDeg        float64 // Saturn
}

// HasAirmass reports whether the airmass measurement is usable.
func (v ObjectVisibility) HasAirmass() bool {
	return !math.IsInf(v.MinAirmass, 1) && v.MinAirmass > 0 && v.MinAirmass < 99
}

// ClearWindow is a stretch of the night with sustained low cloud cover.
type ClearWindow struct {
	Start         time.Time
	End           time.Time
	AvgCloudCover float64
}

// ObservingWindow is the best imaging sub-window of a night, scored by the
// weather aggregator on its own internal 0-100 quality scale.
type ObservingWindow struct {
	Start   time.Time
	End     time.Time
	Quality float64 // 0-100
}

// Duration returns the window length.
func (w ObservingWindow) Duration() time.Duration { return w.End.Sub(w.Start) }

// NightWeather summarizes hourly weather over one astronomical night.
// A nil *NightWeather is a valid, score-neutral state, not an error.
type NightWeather struct {
	Date             time.Time
	AvgCloudCover    float64 // 0-100
	MinCloudCover    float64
	MaxCloudCover    float64
	ClearDuration    float64 // hours with <20% cloud
	ClearWindows     []ClearWindow
	Transparency     float64  // 0-100, derived from aerosols and humidity
	AvgAOD           *float64 // aerosol optical depth
	MaxPrecipProb    *float64 // 0-100
	MaxWindGustKmh   *float64
	AvgHumidity      *float64 // 0-100
	DewPointMarginC  *float64 // air temp minus dew point, min over night
	BestWindow       *ObservingWindow
	AvgSeeingArcsec  float64 // 0 when no estimate
	HourlyCloudCover map[time.Time]float64
}

// OppositionEvent marks an outer planet near opposition.
type OppositionEvent struct {
	Planet     string
	Date       time.Time
	OffsetDays float64 // signed days from the event at the night in question
}

// ElongationEvent marks an inner planet near greatest elongation.
type ElongationEvent struct {
	Planet        string
	Date          time.Time
	ElongationDeg float64
	Eastern       bool // evening apparition
	OffsetDays    float64
}

// NEOPass is a close approach of a near-Earth object.
type NEOPass struct {
	Name      string
	Date      time.Time
	MissKm    float64
	Magnitude *float64
	Hazardous bool
}

// MeteorShower is an annual shower active around the night.
type MeteorShower struct {
	Name         string
	Code         string // IAU three-letter code
	Peak         time.Time
	ZHR          int
	DaysFromPeak float64
	RadiantRA    float64 // degrees
	RadiantDec   float64
}

// SpaceWeather is a snapshot of geomagnetic activity.
type SpaceWeather struct {
	KpIndex        float64
	AuroraPossible bool
}

// LunarApsisEvent marks a perigee or apogee; a perigee full moon is a
// supermoon.
type LunarApsisEvent struct {
	Perigee    bool
	Date       time.Time
	OffsetDays float64
	Supermoon  bool
}

// VenusPeakEvent marks Venus near greatest brilliancy.
type VenusPeakEvent struct {
	Date       time.Time
	OffsetDays float64
}

// EclipseEvent marks a lunar or solar eclipse on a night. Eclipse
// circumstances come from an external ephemeris source; a run without
// one wired in simply carries no eclipse.
type EclipseEvent struct {
	Kind        EclipseKind
	Date        time.Time
	Description string
}

// ConjunctionEvent is a close pairing of two bright bodies at mid-dark.
type ConjunctionEvent struct {
	Body1         string
	Body2         string
	SeparationDeg float64
	Time          time.Time
	Description   string
}

// Notable reports whether the pairing is tight enough to call out on its
// own.
func (c ConjunctionEvent) Notable() bool {
	return c.SeparationDeg < 5
}

// NightEvents collects the rare events active around one night. Any field
// may be empty or nil; partial population is the normal state.
type NightEvents struct {
	Eclipse       *EclipseEvent
	Oppositions   []OppositionEvent
	Elongations   []ElongationEvent
	Conjunctions  []ConjunctionEvent
	LunarApsis    *LunarApsisEvent
	VenusPeak     *VenusPeakEvent
	NEOPasses     []NEOPass
	MeteorShowers []MeteorShower
	SpaceWeather  *SpaceWeather
}

// NightForecast is the full per-night bundle assembled by the orchestrator.
type NightForecast struct {
	Night        NightContext
	Planets      []ObjectVisibility
	DSOs         []ObjectVisibility
	Comets       []ObjectVisibility
	MinorPlanets []ObjectVisibility
	MilkyWay     *ObjectVisibility
	Moon         *ObjectVisibility
	Weather      *NightWeather
	Events       NightEvents
}

// ForecastResult is the root aggregate returned to the caller.
type ForecastResult struct {
	RunID         string
	Location      Location
	Forecasts     []NightForecast            // calendar order
	ScoredObjects map[string][]ScoredObject  // date key -> filtered, sorted desc
	BestNights    []string                   // date keys, at most three
	Confidence    string                     // high / medium / low
	GeneratedAt   time.Time
}

// Location is an observer position in degrees.
type Location struct {
	Latitude  float64
	Longitude float64
}

// Settings carries the caller-supplied knobs for one forecast run.
// Validation is the caller's responsibility; the core assumes sane values.
type Settings struct {
	ForecastDays      int
	DSOMagnitudeLimit float64
	CometMagLimit     float64
	FieldOfViewArcmin float64 // 0 when no instrument is configured
}

// TonightPick is one curated highlight for a single night.
type TonightPick struct {
	Object   ScoredObject
	Category PickCategory
	Why      string
}

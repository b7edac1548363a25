// Package scoring converts one object's full per-night context into a
// bounded, itemized score. It is a pure function of its inputs: no I/O,
// no hidden state, which is what keeps every axis independently testable.
package scoring

import (
	"math"
	"strings"

	"github.com/nightseek/nightseek/internal/domain/model"
)

// Input bundles everything the engine needs to score one object for one
// night. Weather may be nil and Events may be partially populated; both
// are valid, score-neutral states.
type Input struct {
	Visibility model.ObjectVisibility
	Night      model.NightContext
	Weather    *model.NightWeather
	Events     model.NightEvents
	FOVArcmin  float64 // 0 when no instrument is configured
}

// Engine computes scores. It is safe for concurrent use once built.
type Engine struct {
	weights Weights
}

// New creates an Engine with the documented default weights.
func New(opts ...Option) *Engine {
	e := &Engine{weights: DefaultWeights()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Score assembles every applicable component, sums them, rounds the total
// once, and derives the reason string. Category-gated bonuses contribute
// zero when they do not apply.
func (e *Engine) Score(in Input) model.ScoredObject {
	v := in.Visibility
	b := model.ScoreBreakdown{
		Altitude:      e.altitudeScore(v),
		Moon:          e.moonScore(v, in.Night),
		Timing:        e.timingScore(v, in.Night),
		Weather:       e.weatherScore(v, in.Weather),
		SurfaceBright: e.surfaceBrightScore(v),
		Magnitude:     e.magnitudeScore(v),
		Suitability:   e.suitabilityScore(v, in.Night),
		Transient:     e.transientScore(v),
		Seasonal:      e.seasonalScore(v, in.Night),
		Novelty:       e.noveltyScore(v),
		Opposition:    e.oppositionScore(v),
		Elongation:    e.elongationScore(v),
		Perihelion:    e.perihelionScore(v),
		Meridian:      e.meridianScore(v),
		VenusPeak:     e.venusPeakScore(v, in.Events),
		Supermoon:     e.supermoonScore(v, in.Events),
		Twilight:      e.twilightScore(v),
		Seeing:        e.seeingScore(v, in.Night),
		DewRisk:       e.dewRiskScore(in.Weather),
		ImagingWindow: e.imagingWindowScore(in.Weather),
		FieldOfView:   e.fieldOfViewScore(v, in.FOVArcmin),
	}

	return model.ScoredObject{
		Visibility: v,
		Breakdown:  b,
		Total:      b.Total(),
		Reason:     e.reason(b, v, in.Night),
	}
}

// Notable sub-thresholds: a component past its threshold earns a mention
// in the reason string.
const (
	notableAltitude   = 30.0
	notableMoon       = 24.0
	notableTransient  = 15.0
	notableSeasonal   = 10.0
	notableOpposition = 10.0
	notableImaging    = 18.0
	notableRingTilt   = 20.0
	notableLibration  = 5.0
)

// reason builds a short human-readable summary from the components that
// crossed their notable thresholds.
func (e *Engine) reason(b model.ScoreBreakdown, v model.ObjectVisibility, night model.NightContext) string {
	var parts []string

	switch alt := v.MaxAltitude; {
	case alt >= 75:
		parts = append(parts, "excellent altitude")
	case alt >= 60:
		parts = append(parts, "very good altitude")
	case alt >= 45:
		parts = append(parts, "good altitude")
	case b.Altitude >= notableAltitude:
		parts = append(parts, "acceptable altitude")
	default:
		parts = append(parts, "low altitude")
	}

	switch {
	case night.MoonIllumination < 20:
		parts = append(parts, "dark sky")
	case night.MoonIllumination < 50:
		parts = append(parts, "moderate moonlight")
	case b.Moon >= notableMoon:
		parts = append(parts, "moon tolerable")
	default:
		parts = append(parts, "moon interference")
	}

	if b.Opposition > notableOpposition {
		parts = append(parts, "at opposition")
	}
	if b.Transient > notableTransient {
		parts = append(parts, "rare target")
	}
	if b.Seasonal > notableSeasonal {
		parts = append(parts, "peak season")
	}
	if b.ImagingWindow >= notableImaging {
		parts = append(parts, "prime imaging window")
	}
	if b.Supermoon > 0 {
		parts = append(parts, "supermoon")
	}
	if math.Abs(v.RingTiltDeg) >= notableRingTilt {
		parts = append(parts, "rings wide open")
	}
	if v.Category == model.CategoryMoon && math.Abs(v.LibrationLongitude) >= notableLibration {
		parts = append(parts, "favorable libration")
	}

	s := strings.Join(parts, ", ")
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

package model

import "math"

// ScoreBreakdown itemizes the per-axis components of an object's score.
// Each component is bounded by its own documented range at the time it is
// computed; the summed total is rounded once and not re-clamped.
type ScoreBreakdown struct {
	Altitude      float64 // 0..38
	Moon          float64 // 0..30
	Timing        float64 // 0..15
	Weather       float64 // 0..15
	SurfaceBright float64 // 0..20, deep-sky only
	Magnitude     float64 // 0..15
	Suitability   float64 // 0..15
	Transient     float64 // 0..25
	Seasonal      float64 // 0..15
	Novelty       float64 // 0..10
	Opposition    float64 // 0..20
	Elongation    float64 // 0..15
	Perihelion    float64 // 0..15
	Meridian      float64 // 0..10
	VenusPeak     float64 // 0..10
	Supermoon     float64 // 0..25
	Twilight      float64 // -30..0
	Seeing        float64 // 0..8
	DewRisk       float64 // -5..0
	ImagingWindow float64 // 0..25
	FieldOfView   float64 // 0..15
}

// Sum returns the raw component sum before rounding.
func (b ScoreBreakdown) Sum() float64 {
	return b.Altitude + b.Moon + b.Timing + b.Weather +
		b.SurfaceBright + b.Magnitude + b.Suitability +
		b.Transient + b.Seasonal + b.Novelty +
		b.Opposition + b.Elongation + b.Perihelion + b.Meridian +
		b.VenusPeak + b.Supermoon +
		b.Twilight + b.Seeing + b.DewRisk +
		b.ImagingWindow + b.FieldOfView
}

// Total returns the rounded score. Components are summed first; only the
// sum is rounded.
func (b ScoreBreakdown) Total() int {
	return int(math.Round(b.Sum()))
}

// ScoredObject pairs a visibility record with its score for one night.
type ScoredObject struct {
	Visibility ObjectVisibility
	Breakdown  ScoreBreakdown
	Total      int
	Reason     string
}

// DisplayThreshold is the minimum total a scored object needs to be kept
// in a night's result list.
const DisplayThreshold = 60

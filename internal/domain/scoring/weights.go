package scoring

// Weights holds the maximum contribution of every scoring axis. The
// defaults are the documented component ranges; tests and experiments can
// retune individual axes without touching the component logic.
type Weights struct {
	Altitude      float64
	Moon          float64
	Timing        float64
	Weather       float64
	SurfaceBright float64
	Magnitude     float64
	Suitability   float64
	Transient     float64
	Seasonal      float64
	Novelty       float64
	Opposition    float64
	Elongation    float64
	Perihelion    float64
	Meridian      float64
	VenusPeak     float64
	Supermoon     float64
	Twilight      float64 // magnitude of the maximum penalty
	Seeing        float64
	DewRisk       float64 // magnitude of the maximum penalty
	ImagingWindow float64
	FieldOfView   float64
}

// DefaultWeights returns the documented component maxima.
func DefaultWeights() Weights {
	return Weights{
		Altitude:      38,
		Moon:          30,
		Timing:        15,
		Weather:       15,
		SurfaceBright: 20,
		Magnitude:     15,
		Suitability:   15,
		Transient:     25,
		Seasonal:      15,
		Novelty:       10,
		Opposition:    20,
		Elongation:    15,
		Perihelion:    15,
		Meridian:      10,
		VenusPeak:     10,
		Supermoon:     25,
		Twilight:      30,
		Seeing:        8,
		DewRisk:       5,
		ImagingWindow: 25,
		FieldOfView:   15,
	}
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithWeights replaces the full weight set.
func WithWeights(w Weights) Option {
	return func(e *Engine) {
		e.weights = w
	}
}

package scoring

import (
	"math"
	"time"

	"github.com/nightseek/nightseek/internal/domain/model"
)

// Every component below clamps to its own range and maps unknown inputs
// to a documented neutral value. None of them return an error; partial
// upstream failure surfaces as neutral scores, not aborted forecasts.

// altitudeScore prefers the airmass measurement and falls back to raw
// altitude bands when the object never crossed the horizon in the sampled
// window (airmass +Inf) or the measurement is unusable.
func (e *Engine) altitudeScore(v model.ObjectVisibility) float64 {
	maxScore := e.weights.Altitude

	if v.HasAirmass() {
		switch am := v.MinAirmass; {
		case am <= 1.05:
			return maxScore * 0.95
		case am <= 1.15:
			return maxScore * 0.90
		case am <= 1.41:
			return maxScore * 0.75
		case am <= 2.0:
			return maxScore * 0.55
		case am <= 3.0:
			return maxScore * 0.30
		default:
			return maxScore * 0.10
		}
	}

	switch alt := v.MaxAltitude; {
	case alt < 15:
		return 0
	case alt >= 75:
		return maxScore * 0.95
	case alt >= 60:
		return maxScore * 0.85
	case alt >= 45:
		return maxScore * 0.70
	case alt >= 30:
		return maxScore * 0.50
	default:
		return maxScore * 0.30
	}
}

// moonScore scores freedom from moonlight. Planets and the Moon itself get
// a flat high score; everything else degrades with illumination, recovers
// with separation, and is scaled by the subtype's moon sensitivity.
func (e *Engine) moonScore(v model.ObjectVisibility, night model.NightContext) float64 {
	maxScore := e.weights.Moon

	if v.Category == model.CategoryPlanet || v.Category == model.CategoryMoon {
		return maxScore * 0.9
	}
	if night.MoonIllumination < 5 {
		return maxScore
	}

	var sensitivity float64
	switch v.Category {
	case model.CategoryDSO:
		sensitivity = v.Subtype.MoonSensitivity()
	case model.CategoryComet:
		sensitivity = 0.7
	case model.CategoryMilkyWay:
		sensitivity = 1.0
	default:
		sensitivity = 0.5
	}

	separationFactor := 1.0 // unknown separation assumes the worst
	if v.MoonSeparation != nil {
		switch sep := *v.MoonSeparation; {
		case sep > 90:
			separationFactor = 0.3
		case sep > 60:
			separationFactor = 0.5
		case sep > 30:
			separationFactor = 0.7
		}
	}

	interference := night.MoonIllumination / 100 * sensitivity * separationFactor
	return maxScore * (1 - interference)
}

// timingScore is full when the altitude peak lands inside the dark window
// and decays with the hours it misses by. Unknown peak time earns the
// visible-at-all neutral value.
func (e *Engine) timingScore(v model.ObjectVisibility, night model.NightContext) float64 {
	maxScore := e.weights.Timing
	if v.MaxAltitudeTime == nil {
		return maxScore * 0.3
	}

	start, end := night.DarkWindow()
	peak := *v.MaxAltitudeTime
	if !peak.Before(start) && !peak.After(end) {
		return maxScore
	}

	var hoursOff float64
	if peak.Before(start) {
		hoursOff = start.Sub(peak).Hours()
	} else {
		hoursOff = peak.Sub(end).Hours()
	}
	switch {
	case hoursOff < 1:
		return maxScore * 0.8
	case hoursOff < 2:
		return maxScore * 0.6
	case hoursOff < 4:
		return maxScore * 0.4
	default:
		return maxScore * 0.2
	}
}

// weatherScore is a multiplicative composite of cloud, aerosol,
// transparency, precipitation, and wind factors. Missing weather returns
// the fixed neutral mid-value.
func (e *Engine) weatherScore(v model.ObjectVisibility, wx *model.NightWeather) float64 {
	maxScore := e.weights.Weather
	if wx == nil {
		return maxScore * 0.7
	}

	isDeepSky := v.Category == model.CategoryDSO || v.Category == model.CategoryMilkyWay || v.Category == model.CategoryComet
	isPlanet := v.Category == model.CategoryPlanet

	var base float64
	switch cc := wx.AvgCloudCover; {
	case cc < 10:
		base = maxScore
	case cc < 25:
		base = maxScore * 0.9
	case cc < 50:
		base = maxScore * 0.6
	case cc < 75:
		base = maxScore * 0.3
	default:
		base = maxScore * 0.1
	}

	aodFactor := 1.0
	if wx.AvgAOD != nil {
		aodFactor = lookupPair(*wx.AvgAOD, isDeepSky, [][3]float64{
			{0.1, 1.0, 1.0},
			{0.2, 0.95, 0.98},
			{0.3, 0.85, 0.92},
			{0.5, 0.70, 0.85},
		}, 0.50, 0.75)
	}

	transparencyFactor := 1.0
	if isDeepSky && wx.Transparency > 0 {
		switch t := wx.Transparency; {
		case t >= 80:
			transparencyFactor = 1.05
		case t >= 60:
			transparencyFactor = 1.0
		case t >= 40:
			transparencyFactor = 0.90
		default:
			transparencyFactor = 0.75
		}
	}

	precipFactor := 1.0
	if wx.MaxPrecipProb != nil {
		switch p := *wx.MaxPrecipProb; {
		case p > 70:
			precipFactor = 0.3
		case p > 50:
			precipFactor = 0.5
		case p > 30:
			precipFactor = 0.7
		case p > 10:
			precipFactor = 0.9
		}
	}

	windFactor := 1.0
	if wx.MaxWindGustKmh != nil {
		windFactor = lookupPair(*wx.MaxWindGustKmh, !isPlanet, [][3]float64{
			{15, 1.0, 1.0},
			{25, 0.95, 0.98},
			{40, 0.80, 0.92},
			{55, 0.60, 0.80},
		}, 0.40, 0.60)
	}

	score := base * aodFactor * transparencyFactor * precipFactor * windFactor
	return math.Min(score, maxScore)
}

// lookupPair walks ascending thresholds and picks the sensitive or
// resilient factor column; values past the last threshold use the floor
// pair.
func lookupPair(value float64, sensitive bool, rows [][3]float64, floorSensitive, floorResilient float64) float64 {
	for _, row := range rows {
		if value < row[0] {
			if sensitive {
				return row[1]
			}
			return row[2]
		}
	}
	if sensitive {
		return floorSensitive
	}
	return floorResilient
}

// surfaceBrightScore applies to extended deep-sky targets only. Without a
// catalog surface brightness it estimates one from magnitude and size, and
// without either it stays neutral.
func (e *Engine) surfaceBrightScore(v model.ObjectVisibility) float64 {
	if v.Category != model.CategoryDSO && v.Category != model.CategoryMilkyWay {
		return 0
	}
	maxScore := e.weights.SurfaceBright

	if v.SurfaceBright != nil {
		switch sb := *v.SurfaceBright; {
		case sb < 20:
			return maxScore
		case sb < 22:
			return maxScore * 0.8
		case sb < 24:
			return maxScore * 0.6
		case sb < 26:
			return maxScore * 0.4
		default:
			return maxScore * 0.2
		}
	}

	if v.Magnitude != nil && v.AngularSize > 0 {
		// SB estimate: mag + 2.5*log10(area in arcsec^2)
		area := math.Pow(v.AngularSize*60, 2) * math.Pi / 4
		sb := *v.Magnitude + 2.5*math.Log10(math.Max(area, 1))
		switch {
		case sb < 20:
			return maxScore
		case sb < 22:
			return maxScore * 0.7
		case sb < 24:
			return maxScore * 0.5
		default:
			return maxScore * 0.3
		}
	}

	return maxScore * 0.5
}

// magnitudeScore uses per-category brightness bands.
func (e *Engine) magnitudeScore(v model.ObjectVisibility) float64 {
	maxScore := e.weights.Magnitude
	if v.Magnitude == nil {
		return maxScore * 0.5
	}
	mag := *v.Magnitude

	switch v.Category {
	case model.CategoryPlanet, model.CategoryMoon:
		switch {
		case mag < -2:
			return maxScore
		case mag < 0:
			return maxScore * 0.9
		case mag < 2:
			return maxScore * 0.7
		default:
			return maxScore * 0.5
		}
	case model.CategoryComet, model.CategoryAsteroid, model.CategoryDwarfPlanet:
		switch {
		case mag < 6:
			return maxScore
		case mag < 8:
			return maxScore * 0.8
		case mag < 10:
			return maxScore * 0.6
		case mag < 12:
			return maxScore * 0.4
		default:
			return maxScore * 0.2
		}
	default:
		switch {
		case mag < 5:
			return maxScore
		case mag < 7:
			return maxScore * 0.9
		case mag < 9:
			return maxScore * 0.7
		case mag < 11:
			return maxScore * 0.5
		case mag < 13:
			return maxScore * 0.3
		default:
			return maxScore * 0.2
		}
	}
}

// suitabilityScore favors moon-sensitive targets in a dark sky and
// moon-resistant ones when the moon is up. The split is 30% illumination.
func (e *Engine) suitabilityScore(v model.ObjectVisibility, night model.NightContext) float64 {
	maxScore := e.weights.Suitability

	if night.MoonIllumination < 30 {
		switch {
		case v.Category == model.CategoryMilkyWay:
			return maxScore
		case v.Subtype == model.SubtypeEmissionNebula,
			v.Subtype == model.SubtypeReflectionNebula,
			v.Subtype == model.SubtypeGalaxy,
			v.Subtype == model.SubtypeGalaxyPair:
			return maxScore * 0.95
		case v.Subtype == model.SubtypePlanetaryNebula,
			v.Subtype == model.SubtypeSupernovaRemnant:
			return maxScore * 0.85
		case v.Category == model.CategoryComet:
			return maxScore * 0.8
		case v.Subtype == model.SubtypeOpenCluster,
			v.Subtype == model.SubtypeGlobularCluster:
			return maxScore * 0.7
		case v.Category == model.CategoryPlanet:
			return maxScore * 0.6
		default:
			return maxScore * 0.5
		}
	}

	switch {
	case v.Category == model.CategoryPlanet:
		return maxScore
	case v.Subtype == model.SubtypeGlobularCluster,
		v.Subtype == model.SubtypeOpenCluster:
		return maxScore * 0.9
	case v.Subtype == model.SubtypePlanetaryNebula:
		return maxScore * 0.7
	case v.Category == model.CategoryComet:
		return maxScore * 0.5
	case v.Subtype == model.SubtypeGalaxy,
		v.Subtype == model.SubtypeEmissionNebula:
		return maxScore * 0.3
	case v.Category == model.CategoryMilkyWay:
		return maxScore * 0.1
	default:
		return maxScore * 0.4
	}
}

// transientScore rewards time-limited targets. Static objects get nothing.
func (e *Engine) transientScore(v model.ObjectVisibility) float64 {
	maxBonus := e.weights.Transient
	if v.Interstellar {
		return maxBonus
	}
	switch v.Category {
	case model.CategoryComet:
		if v.PerihelionOffset != nil && math.Abs(*v.PerihelionOffset) <= 30 {
			// A comet running at least a magnitude brighter than its
			// bare brightness law is an outburst-class sight.
			if v.PerihelionBoost >= 1 {
				return maxBonus
			}
			return maxBonus * 0.7
		}
		return maxBonus * 0.5
	case model.CategoryAsteroid, model.CategoryDwarfPlanet:
		return maxBonus * 0.3
	default:
		return 0
	}
}

// seasonalScore is a triangular function of RA distance from the Sun,
// peaking when the object is opposite the Sun.
func (e *Engine) seasonalScore(v model.ObjectVisibility, night model.NightContext) float64 {
	sunRA := approxSunRA(night.Date)
	diff := math.Abs(v.RAHours - sunRA)
	if diff > 12 {
		diff = 24 - diff
	}
	return e.weights.Seasonal * diff / 12
}

// approxSunRA returns the Sun's approximate right ascension in hours,
// zero at the March equinox.
func approxSunRA(date time.Time) float64 {
	doy := float64(date.YearDay())
	ra := math.Mod((doy-80)/365.25*24, 24)
	if ra < 0 {
		ra += 24
	}
	return ra
}

// noveltyScore gives flat bonuses for catalog-famous and named targets.
func (e *Engine) noveltyScore(v model.ObjectVisibility) float64 {
	maxScore := e.weights.Novelty
	if v.CatalogFamous {
		return maxScore
	}
	if v.CommonName != "" {
		return maxScore * 0.5
	}
	return 0
}

// decayBonus returns max at offset zero, linearly reaching zero at
// horizon days away. Nil offset means the event does not apply.
func decayBonus(max float64, offset *float64, horizonDays float64) float64 {
	if offset == nil {
		return 0
	}
	d := math.Abs(*offset)
	if d >= horizonDays {
		return 0
	}
	return max * (1 - d/horizonDays)
}

// Event-window horizons in days. Each bonus decays linearly from the
// event date and vanishes at the horizon.
const (
	oppositionHorizonDays = 14
	elongationHorizonDays = 10
	perihelionHorizonDays = 21
	venusPeakHorizonDays  = 10
	supermoonHorizonDays  = 5
)

// oppositionScore applies to outer planets near opposition.
func (e *Engine) oppositionScore(v model.ObjectVisibility) float64 {
	if v.Category != model.CategoryPlanet {
		return 0
	}
	if v.AtOpposition {
		return e.weights.Opposition
	}
	return decayBonus(e.weights.Opposition, v.OppositionOffset, oppositionHorizonDays)
}

// elongationScore applies to inner planets near greatest elongation.
func (e *Engine) elongationScore(v model.ObjectVisibility) float64 {
	if v.Category != model.CategoryPlanet {
		return 0
	}
	return decayBonus(e.weights.Elongation, v.ElongationOffset, elongationHorizonDays)
}

// perihelionScore applies to comets near perihelion.
func (e *Engine) perihelionScore(v model.ObjectVisibility) float64 {
	if v.Category != model.CategoryComet {
		return 0
	}
	return decayBonus(e.weights.Perihelion, v.PerihelionOffset, perihelionHorizonDays)
}

// meridianScore rewards targets crossing the meridian during the dark
// window: |hour angle| within one hour is full score, fading to zero at
// four hours.
func (e *Engine) meridianScore(v model.ObjectVisibility) float64 {
	if v.HourAngle == nil {
		return 0
	}
	ha := math.Abs(*v.HourAngle)
	switch {
	case ha <= 1:
		return e.weights.Meridian
	case ha >= 4:
		return 0
	default:
		return e.weights.Meridian * (4 - ha) / 3
	}
}

// venusPeakScore applies to Venus near greatest brilliancy.
func (e *Engine) venusPeakScore(v model.ObjectVisibility, ev model.NightEvents) float64 {
	if v.Name != "Venus" || ev.VenusPeak == nil {
		return 0
	}
	off := ev.VenusPeak.OffsetDays
	return decayBonus(e.weights.VenusPeak, &off, venusPeakHorizonDays)
}

// supermoonScore applies to the Moon around a perigee full moon.
func (e *Engine) supermoonScore(v model.ObjectVisibility, ev model.NightEvents) float64 {
	if v.Category != model.CategoryMoon || ev.LunarApsis == nil || !ev.LunarApsis.Supermoon {
		return 0
	}
	off := ev.LunarApsis.OffsetDays
	return decayBonus(e.weights.Supermoon, &off, supermoonHorizonDays)
}

// twilightScore penalizes targets hugging the Sun. Below the threshold
// the penalty grows linearly toward the maximum; planets take half.
func (e *Engine) twilightScore(v model.ObjectVisibility) float64 {
	if v.SunAngleDeg == nil {
		return 0
	}
	const tooClose = 30.0
	angle := *v.SunAngleDeg
	if angle >= tooClose {
		return 0
	}
	penalty := -e.weights.Twilight * (1 - angle/tooClose)
	if v.Category == model.CategoryPlanet {
		penalty /= 2
	}
	return penalty
}

// seeingScore converts the night's seeing estimate into a bonus, weighted
// toward planets and the Moon, which suffer most from poor seeing.
func (e *Engine) seeingScore(v model.ObjectVisibility, night model.NightContext) float64 {
	if night.SeeingArcsec <= 0 {
		return 0
	}
	// 1" or better is excellent, 4" or worse is useless.
	quality := (4 - night.SeeingArcsec) / 3
	quality = math.Max(0, math.Min(1, quality))

	weight := 0.6
	if v.Category == model.CategoryPlanet || v.Category == model.CategoryMoon {
		weight = 1.0
	}
	return e.weights.Seeing * quality * weight
}

// dewRiskScore penalizes nights close to the dew point, falling back to
// humidity when no margin is available.
func (e *Engine) dewRiskScore(wx *model.NightWeather) float64 {
	if wx == nil {
		return 0
	}
	maxPenalty := e.weights.DewRisk

	if wx.DewPointMarginC != nil {
		switch m := *wx.DewPointMarginC; {
		case m < 1:
			return -maxPenalty
		case m < 2:
			return -maxPenalty * 0.6
		case m < 4:
			return -maxPenalty * 0.2
		default:
			return 0
		}
	}
	if wx.AvgHumidity != nil {
		switch h := *wx.AvgHumidity; {
		case h > 95:
			return -maxPenalty * 0.8
		case h > 90:
			return -maxPenalty * 0.4
		case h > 85:
			return -maxPenalty * 0.2
		default:
			return 0
		}
	}
	return 0
}

// imagingWindowScore rewards the night's best imaging sub-window for both
// its internal quality and its length. The duration bonus only kicks in
// above two hours.
func (e *Engine) imagingWindowScore(wx *model.NightWeather) float64 {
	if wx == nil || wx.BestWindow == nil {
		return 0
	}
	w := wx.BestWindow

	qualityPart := e.weights.ImagingWindow * 0.72 * w.Quality / 100
	hours := w.Duration().Hours()
	var durationPart float64
	if hours >= 2 {
		durationPart = math.Min(e.weights.ImagingWindow*0.28, (hours-1)*2)
	}
	return qualityPart + durationPart
}

// fieldOfViewScore rewards targets sized comfortably for the configured
// instrument. Without an instrument it is neutral.
func (e *Engine) fieldOfViewScore(v model.ObjectVisibility, fovArcmin float64) float64 {
	maxScore := e.weights.FieldOfView
	if fovArcmin <= 0 {
		return maxScore * 0.5
	}
	if v.AngularSize <= 0 {
		// Point targets (planets, comets without a coma size) sit small
		// in any frame.
		return maxScore * 0.6
	}
	ratio := v.AngularSize / fovArcmin
	switch {
	case ratio > 1.5:
		return maxScore * 0.25 // overflows the frame badly
	case ratio > 1.0:
		return maxScore * 0.55
	case ratio >= 0.1:
		return maxScore // fills the frame comfortably
	case ratio >= 0.02:
		return maxScore * 0.7
	default:
		return maxScore * 0.35 // lost in the frame
	}
}

package weather

import (
	"math"
	"time"

	"github.com/nightseek/nightseek/internal/domain/model"
)

// Aggregation thresholds.
const (
	clearHourCloudPct   = 20.0 // counts toward clear duration
	clearWindowCloudPct = 40.0 // sustained-window threshold
	clearWindowMinHours = 2

	// Best-window quality blend. Cloud dominates because clouds block
	// everything; transparency refines among clear windows.
	windowCloudWeight        = 0.7
	windowTransparencyWeight = 0.3
)

// NightSummary folds the hourly series into one night's weather. It
// returns nil when the series has no hours inside the night's dark
// window, which downstream treats as a valid score-neutral state.
func NightSummary(series *Series, night model.NightContext) *model.NightWeather {
	if series == nil || len(series.Times) == 0 {
		return nil
	}

	start, end := night.DarkWindow()

	type hourSample struct {
		t     time.Time
		cloud float64
		idx   int
	}
	var hours []hourSample
	for i, t := range series.Times {
		if t.Before(start) || t.After(end) {
			continue
		}
		hours = append(hours, hourSample{t: t, cloud: at(series.CloudCover, i), idx: i})
	}
	if len(hours) == 0 {
		return nil
	}

	wx := &model.NightWeather{
		Date:             night.Date,
		MinCloudCover:    math.Inf(1),
		HourlyCloudCover: make(map[time.Time]float64, len(hours)),
	}

	var cloudSum float64
	var clearHours int
	for _, h := range hours {
		cloudSum += h.cloud
		wx.MinCloudCover = math.Min(wx.MinCloudCover, h.cloud)
		wx.MaxCloudCover = math.Max(wx.MaxCloudCover, h.cloud)
		wx.HourlyCloudCover[h.t] = h.cloud
		if h.cloud < clearHourCloudPct {
			clearHours++
		}
	}
	wx.AvgCloudCover = cloudSum / float64(len(hours))
	wx.ClearDuration = float64(clearHours)

	fillStats(wx, series, hours[0].idx, hours[len(hours)-1].idx)

	// Clear windows: consecutive hours under the sustained threshold.
	var windowStart *time.Time
	var windowClouds []float64
	flush := func(endT time.Time) {
		if windowStart != nil && len(windowClouds) >= clearWindowMinHours {
			wx.ClearWindows = append(wx.ClearWindows, model.ClearWindow{
				Start:         *windowStart,
				End:           endT,
				AvgCloudCover: mean(windowClouds),
			})
		}
		windowStart = nil
		windowClouds = nil
	}
	for i, h := range hours {
		if h.cloud < clearWindowCloudPct {
			if windowStart == nil {
				t := h.t
				windowStart = &t
			}
			windowClouds = append(windowClouds, h.cloud)
			continue
		}
		if i > 0 {
			flush(hours[i-1].t)
		} else {
			flush(h.t)
		}
	}
	flush(hours[len(hours)-1].t)

	wx.BestWindow = bestWindow(wx)
	return wx
}

// fillStats computes the pointer-valued aggregates over the night's
// index range of the series.
func fillStats(wx *model.NightWeather, series *Series, first, last int) {
	var humiditySum, humidityN float64
	var aodSum, aodN float64
	maxPrecip := math.Inf(-1)
	maxGust := math.Inf(-1)
	minMargin := math.Inf(1)

	for i := first; i <= last; i++ {
		if v, ok := tryAt(series.Humidity, i); ok {
			humiditySum += v
			humidityN++
		}
		if v, ok := tryAt(series.AOD, i); ok {
			aodSum += v
			aodN++
		}
		if v, ok := tryAt(series.PrecipProb, i); ok {
			maxPrecip = math.Max(maxPrecip, v)
		}
		if v, ok := tryAt(series.WindGust, i); ok {
			maxGust = math.Max(maxGust, v)
		}
		t, okT := tryAt(series.TempC, i)
		d, okD := tryAt(series.DewPointC, i)
		if okT && okD {
			minMargin = math.Min(minMargin, t-d)
		}
	}

	var avgHumidity, avgAOD float64
	if humidityN > 0 {
		avgHumidity = humiditySum / humidityN
		wx.AvgHumidity = &avgHumidity
	}
	if aodN > 0 {
		avgAOD = aodSum / aodN
		wx.AvgAOD = &avgAOD
	}
	if !math.IsInf(maxPrecip, -1) {
		p := maxPrecip
		wx.MaxPrecipProb = &p
	}
	if !math.IsInf(maxGust, -1) {
		g := maxGust
		wx.MaxWindGustKmh = &g
		wx.AvgSeeingArcsec = seeingFromGust(g)
	}
	if !math.IsInf(minMargin, 1) {
		m := minMargin
		wx.DewPointMarginC = &m
	}

	wx.Transparency = transparency(wx.AvgAOD, wx.AvgHumidity)
}

// transparency estimates sky transparency on a 0-100 scale from aerosol
// load and humidity. With neither input it stays zero (unknown).
func transparency(aod, humidity *float64) float64 {
	if aod == nil && humidity == nil {
		return 0
	}
	t := 100.0
	if aod != nil {
		t -= *aod * 150
	}
	if humidity != nil && *humidity > 60 {
		t -= (*humidity - 60) * 0.8
	}
	return math.Max(0, math.Min(100, t))
}

// seeingFromGust is a crude proxy: calm air tends to carry steadier
// seeing than gusty air. Bounded to the 1-4 arcsecond range the scoring
// bands cover.
func seeingFromGust(gustKmh float64) float64 {
	s := 1.5 + gustKmh/25
	return math.Max(1, math.Min(4, s))
}

// bestWindow picks the clear window with the highest blended quality,
// favoring duration on ties.
func bestWindow(wx *model.NightWeather) *model.ObservingWindow {
	var best *model.ObservingWindow
	for _, cw := range wx.ClearWindows {
		q := (100-cw.AvgCloudCover)*windowCloudWeight + wx.Transparency*windowTransparencyWeight
		w := model.ObservingWindow{Start: cw.Start, End: cw.End, Quality: q}
		if best == nil ||
			w.Quality > best.Quality ||
			(w.Quality == best.Quality && w.Duration() > best.Duration()) {
			copyW := w
			best = &copyW
		}
	}
	return best
}

func at(vals []float64, i int) float64 {
	if i < len(vals) {
		return vals[i]
	}
	return 0
}

func tryAt(vals []float64, i int) (float64, bool) {
	if i < len(vals) {
		return vals[i], true
	}
	return 0, false
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

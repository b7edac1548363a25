// Package selection turns scored per-night data into the two curated
// outputs of a forecast run: the best-night badges and tonight's picks.
// It only consumes already-scored objects and night weather summaries;
// it never re-reads raw visibility data.
package selection

import (
	"fmt"
	"math"
	"sort"

	"github.com/nightseek/nightseek/internal/domain/model"
)

// Night-quality blend weights. They sum to 1.0 so the blend stays on the
// 0-100 scale of its subscores.
const (
	cloudWeight        = 0.30
	transparencyWeight = 0.20
	seeingWeight       = 0.15
	moonWeight         = 0.15
	dewWeight          = 0.10
	windWeight         = 0.10
)

// Hard ceilings for heavily clouded nights. Past these cloud levels no
// combination of other factors can rescue the night.
const (
	heavyCloudPct      = 80.0
	heavyCloudCeiling  = 34.0
	mostlyCloudPct     = 70.0
	mostlyCloudCeiling = 49.0
)

// bestNightFloor is the minimum blended quality a night needs to earn a
// badge at all.
const bestNightFloor = 40.0

// maxBestNights caps how many badges one forecast hands out.
const maxBestNights = 3

// NightQuality computes the 0-100 blended quality for one night. The
// night must have weather; callers gate eligibility before calling.
func NightQuality(night model.NightContext, wx *model.NightWeather) float64 {
	if wx == nil {
		return 0
	}

	cloud := 100 - wx.AvgCloudCover

	transparency := wx.Transparency
	if transparency <= 0 {
		transparency = 50
	}

	seeing := 50.0 // no estimate is treated as average
	if arcsec := seeingEstimate(night, wx); arcsec > 0 {
		seeing = clamp((4-arcsec)/3*100, 0, 100)
	}

	moon := 100 - night.MoonIllumination

	score := cloud*cloudWeight +
		transparency*transparencyWeight +
		seeing*seeingWeight +
		moon*moonWeight +
		dewSubscore(wx)*dewWeight +
		windSubscore(wx)*windWeight

	switch {
	case wx.AvgCloudCover > heavyCloudPct:
		score = math.Min(score, heavyCloudCeiling)
	case wx.AvgCloudCover > mostlyCloudPct:
		score = math.Min(score, mostlyCloudCeiling)
	}
	return clamp(score, 0, 100)
}

func seeingEstimate(night model.NightContext, wx *model.NightWeather) float64 {
	if wx.AvgSeeingArcsec > 0 {
		return wx.AvgSeeingArcsec
	}
	return night.SeeingArcsec
}

// dewSubscore maps the dew-point margin onto 0-100, falling back to
// humidity and then to a neutral value when neither is known.
func dewSubscore(wx *model.NightWeather) float64 {
	if wx.DewPointMarginC != nil {
		switch m := *wx.DewPointMarginC; {
		case m >= 4:
			return 100
		case m >= 2:
			return 75
		case m >= 1:
			return 45
		default:
			return 15
		}
	}
	if wx.AvgHumidity != nil {
		switch h := *wx.AvgHumidity; {
		case h > 95:
			return 20
		case h > 90:
			return 45
		case h > 85:
			return 65
		default:
			return 90
		}
	}
	return 70
}

// windSubscore maps the peak gust onto 0-100 with a neutral fallback.
func windSubscore(wx *model.NightWeather) float64 {
	if wx.MaxWindGustKmh == nil {
		return 70
	}
	switch g := *wx.MaxWindGustKmh; {
	case g < 15:
		return 100
	case g < 25:
		return 85
	case g < 40:
		return 60
	case g < 55:
		return 35
	default:
		return 10
	}
}

// SelectBestNights ranks the forecast's nights and returns at most three
// date keys, best first. A night is eligible only when its weather carries
// a usable observing sub-window; nights an observer could not actually
// plan around never get a badge, however well their objects scored.
func SelectBestNights(forecasts []model.NightForecast) []string {
	type ranked struct {
		key     string
		quality float64
	}

	var eligible []ranked
	for _, f := range forecasts {
		if f.Weather == nil || f.Weather.BestWindow == nil {
			continue
		}
		q := NightQuality(f.Night, f.Weather)
		if q < bestNightFloor {
			continue
		}
		eligible = append(eligible, ranked{key: f.Night.Key(), quality: q})
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].quality > eligible[j].quality
	})

	keys := make([]string, 0, maxBestNights)
	seen := make(map[string]struct{}, maxBestNights)
	for _, r := range eligible {
		if _, dup := seen[r.key]; dup {
			continue
		}
		seen[r.key] = struct{}{}
		keys = append(keys, r.key)
		if len(keys) == maxBestNights {
			break
		}
	}
	return keys
}

// Per-category pick thresholds.
const (
	pickMinScore       = 60
	pickCometMinScore  = 80
	pickImagingQuality = 70.0
)

// SelectTonightPicks curates at most one object per pick category from a
// single night's sorted scored list. Categories are evaluated in the fixed
// order planet, galaxy, nebula, cluster, comet, imaging; an object chosen
// under an earlier category is skipped later, so the output is
// deterministic for identical input.
func SelectTonightPicks(scored []model.ScoredObject, wx *model.NightWeather) []model.TonightPick {
	order := []model.PickCategory{
		model.PickPlanet,
		model.PickGalaxy,
		model.PickNebula,
		model.PickCluster,
		model.PickComet,
		model.PickImaging,
	}

	chosen := make(map[string]struct{})
	var picks []model.TonightPick

	for _, cat := range order {
		if cat == model.PickImaging {
			if wx == nil || wx.BestWindow == nil || wx.BestWindow.Quality < pickImagingQuality {
				continue
			}
		}
		obj, ok := topForCategory(scored, cat, chosen)
		if !ok {
			continue
		}
		chosen[obj.Visibility.Name] = struct{}{}
		picks = append(picks, model.TonightPick{
			Object:   obj,
			Category: cat,
			Why:      pickWhy(cat, obj, wx),
		})
	}
	return picks
}

// topForCategory returns the highest-scored unchosen object matching the
// category, honoring its minimum score. The input list is already sorted
// descending, so the first match wins.
func topForCategory(scored []model.ScoredObject, cat model.PickCategory, chosen map[string]struct{}) (model.ScoredObject, bool) {
	min := pickMinScore
	if cat == model.PickComet {
		min = pickCometMinScore
	}
	for _, s := range scored {
		if s.Total < min {
			continue
		}
		if _, taken := chosen[s.Visibility.Name]; taken {
			continue
		}
		if matchesPickCategory(s.Visibility, cat) {
			return s, true
		}
	}
	return model.ScoredObject{}, false
}

func matchesPickCategory(v model.ObjectVisibility, cat model.PickCategory) bool {
	switch cat {
	case model.PickPlanet:
		return v.Category == model.CategoryPlanet
	case model.PickGalaxy:
		return v.Subtype == model.SubtypeGalaxy || v.Subtype == model.SubtypeGalaxyPair
	case model.PickNebula:
		switch v.Subtype {
		case model.SubtypeEmissionNebula, model.SubtypeReflectionNebula,
			model.SubtypePlanetaryNebula, model.SubtypeSupernovaRemnant,
			model.SubtypeNebula, model.SubtypeHIIRegion, model.SubtypeDarkNebula:
			return true
		}
		return false
	case model.PickCluster:
		return v.Subtype == model.SubtypeOpenCluster || v.Subtype == model.SubtypeGlobularCluster
	case model.PickComet:
		return v.Category == model.CategoryComet
	case model.PickImaging:
		// Any deep-sky target qualifies for the imaging slot; the window
		// quality gate happened before the lookup.
		return v.Category == model.CategoryDSO || v.Category == model.CategoryMilkyWay
	}
	return false
}

func pickWhy(cat model.PickCategory, obj model.ScoredObject, wx *model.NightWeather) string {
	name := obj.Visibility.CommonName
	if name == "" {
		name = obj.Visibility.Name
	}
	if cat == model.PickImaging && wx != nil && wx.BestWindow != nil {
		return fmt.Sprintf("%s in a %.0f%%-quality imaging window (%d pts)",
			name, wx.BestWindow.Quality, obj.Total)
	}
	if obj.Reason != "" {
		return fmt.Sprintf("%s: %s (%d pts)", name, obj.Reason, obj.Total)
	}
	return fmt.Sprintf("%s (%d pts)", name, obj.Total)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

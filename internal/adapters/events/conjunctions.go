package events

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/nightseek/nightseek/internal/domain/model"
)

const (
	// Conjunction candidates must clear the murk near the horizon.
	conjunctionMinAltDeg = 15.0

	// Pairings inside ten degrees are reported; the description
	// sharpens as the separation tightens.
	conjunctionMaxDeg     = 10.0
	conjunctionNotableDeg = 5.0
	conjunctionCloseDeg   = 2.0
)

// Conjunctions pairs the night's visible planets, and the Moon against
// each of them, whenever the mid-dark separation falls under ten
// degrees. The result is sorted closest first. Positions come straight
// from the visibility records, so the scan costs nothing beyond the
// work the night already did.
func Conjunctions(night model.NightContext, planets []model.ObjectVisibility, moon *model.ObjectVisibility) []model.ConjunctionEvent {
	var bright []model.ObjectVisibility
	for _, p := range planets {
		if p.Visible && p.MaxAltitude >= conjunctionMinAltDeg {
			bright = append(bright, p)
		}
	}

	start, end := night.DarkWindow()
	mid := start.Add(end.Sub(start) / 2)

	var out []model.ConjunctionEvent
	for i := 0; i < len(bright); i++ {
		for j := i + 1; j < len(bright); j++ {
			if sep := pairSeparation(bright[i], bright[j]); sep < conjunctionMaxDeg {
				out = append(out, conjunction(bright[i].Name, bright[j].Name, sep, mid))
			}
		}
	}
	if moon != nil {
		for _, p := range bright {
			if sep := pairSeparation(*moon, p); sep < conjunctionMaxDeg {
				out = append(out, conjunction("Moon", p.Name, sep, mid))
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].SeparationDeg < out[j].SeparationDeg
	})
	return out
}

// conjunction builds one event with its description line. A Moon pairing
// reads differently from a planet pairing at the same separation.
func conjunction(a, b string, sep float64, at time.Time) model.ConjunctionEvent {
	var desc string
	switch {
	case a == "Moon" && sep < conjunctionCloseDeg:
		desc = fmt.Sprintf("Moon very close to %s (%.1f°), great photo opportunity", b, sep)
	case a == "Moon" && sep < conjunctionNotableDeg:
		desc = fmt.Sprintf("Moon near %s (%.1f°)", b, sep)
	case a == "Moon":
		desc = fmt.Sprintf("Moon and %s within %.1f°", b, sep)
	case sep < conjunctionCloseDeg:
		desc = fmt.Sprintf("Close conjunction: %s and %s only %.1f° apart", a, b, sep)
	case sep < conjunctionNotableDeg:
		desc = fmt.Sprintf("%s near %s (%.1f°)", a, b, sep)
	default:
		desc = fmt.Sprintf("%s and %s within %.1f°", a, b, sep)
	}

	return model.ConjunctionEvent{
		Body1:         a,
		Body2:         b,
		SeparationDeg: sep,
		Time:          at,
		Description:   desc,
	}
}

// pairSeparation is the great-circle angle between two visibility
// records, in degrees.
func pairSeparation(a, b model.ObjectVisibility) float64 {
	const degToRad = math.Pi / 180

	ra1 := a.RAHours * 15 * degToRad
	ra2 := b.RAHours * 15 * degToRad
	dec1 := a.DecDegrees * degToRad
	dec2 := b.DecDegrees * degToRad

	cos := math.Sin(dec1)*math.Sin(dec2) +
		math.Cos(dec1)*math.Cos(dec2)*math.Cos(ra1-ra2)
	return math.Acos(math.Max(-1, math.Min(1, cos))) / degToRad
}

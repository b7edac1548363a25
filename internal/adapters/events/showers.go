package events

import (
	"math"
	"time"

	"github.com/nightseek/nightseek/internal/domain/model"
)

// showerSpec is one annual shower's calendar entry. Dates are
// month/day pairs reapplied to whichever year is being forecast;
// rates and radiants follow the IMO working calendar.
type showerSpec struct {
	name       string
	code       string
	peakMonth  int
	peakDay    int
	startMonth int
	startDay   int
	endMonth   int
	endDay     int
	zhr        int
	radiantRA  float64 // degrees
	radiantDec float64
}

var annualShowers = []showerSpec{
	{"Quadrantids", "QUA", 1, 3, 12, 28, 1, 12, 120, 230.0, 49.0},
	{"Lyrids", "LYR", 4, 22, 4, 14, 4, 30, 18, 271.0, 34.0},
	{"Eta Aquariids", "ETA", 5, 6, 4, 19, 5, 28, 50, 338.0, -1.0},
	{"Southern Delta Aquariids", "SDA", 7, 30, 7, 12, 8, 23, 25, 340.0, -16.4},
	{"Alpha Capricornids", "CAP", 7, 30, 7, 3, 8, 15, 5, 307.0, -10.0},
	{"Perseids", "PER", 8, 12, 7, 17, 8, 24, 100, 48.0, 58.1},
	{"Orionids", "ORI", 10, 21, 10, 2, 11, 7, 20, 95.0, 15.8},
	{"Southern Taurids", "STA", 11, 5, 9, 20, 11, 20, 5, 52.0, 14.5},
	{"Northern Taurids", "NTA", 11, 12, 10, 20, 12, 10, 5, 58.0, 22.2},
	{"Leonids", "LEO", 11, 17, 11, 6, 11, 30, 15, 152.0, 21.8},
	{"Geminids", "GEM", 12, 14, 12, 4, 12, 17, 150, 112.0, 33.0},
	{"Ursids", "URS", 12, 22, 12, 17, 12, 26, 10, 217.0, 76.0},
}

// activeShowers returns the showers whose activity period covers the
// date. Year-crossing showers (the Quadrantids run December into
// January) shift their bounds into the neighboring year as needed.
func activeShowers(date time.Time) []model.MeteorShower {
	var out []model.MeteorShower
	year := date.Year()

	for _, s := range annualShowers {
		start := time.Date(year, time.Month(s.startMonth), s.startDay, 0, 0, 0, 0, time.UTC)
		end := time.Date(year, time.Month(s.endMonth), s.endDay, 23, 59, 59, 0, time.UTC)
		peak := time.Date(year, time.Month(s.peakMonth), s.peakDay, 0, 0, 0, 0, time.UTC)

		if s.startMonth > s.endMonth {
			if int(date.Month()) >= s.startMonth {
				end = end.AddDate(1, 0, 0)
				peak = peak.AddDate(1, 0, 0)
			} else {
				start = start.AddDate(-1, 0, 0)
			}
		}

		if date.Before(start) || date.After(end) {
			continue
		}

		out = append(out, model.MeteorShower{
			Name:         s.name,
			Code:         s.code,
			Peak:         peak,
			ZHR:          s.zhr,
			DaysFromPeak: math.Abs(date.Sub(peak).Hours() / 24),
			RadiantRA:    s.radiantRA,
			RadiantDec:   s.radiantDec,
		})
	}
	return out
}

// Package catalog provides the built-in object catalogs the forecast
// draws its candidates from: a curated deep-sky list tuned for small
// imaging instruments, the planets, the Moon, the Milky Way core, and
// small orbital-element tables for bright comets and minor planets.
package catalog

import (
	"time"

	"github.com/nightseek/nightseek/internal/domain/model"
)

// Entry is one catalog object. Fixed objects carry equatorial
// coordinates; moving objects carry orbital elements instead and their
// coordinates are computed per night.
type Entry struct {
	Name       string
	CommonName string
	Category   model.Category
	Subtype    model.DSOSubtype

	RAHours    float64
	DecDegrees float64

	Magnitude     *float64 // catalog magnitude, nil for moving objects
	AngularSize   float64  // arcminutes, 0 when unknown
	SurfaceBright *float64 // mag/arcsec^2, extended objects only
	Constellation string

	Famous       bool // first-priority showpiece target
	Interstellar bool

	Elements *OrbitalElements // comets and minor planets only
}

// OrbitalElements are heliocentric Keplerian elements, angles in
// degrees. For near-parabolic comets Eccentricity may be close to or
// above 1 and PerihelionAU is authoritative; for minor planets
// SemiMajorAU is.
type OrbitalElements struct {
	Epoch          time.Time
	PerihelionTime time.Time
	PerihelionAU   float64
	SemiMajorAU    float64
	Eccentricity   float64
	InclinationDeg float64
	AscNodeDeg     float64
	ArgPeriDeg     float64

	AbsoluteMag float64 // H (asteroids) or M1 (comets)
	SlopeParam  float64 // G or K1
}

package catalog

import (
	"time"

	"github.com/nightseek/nightseek/internal/domain/model"
)

func mag(m float64) *float64 { return &m }
func sb(s float64) *float64  { return &s }

// dso builds a fixed deep-sky entry.
func dso(name, common string, sub model.DSOSubtype, ra, dec, m, sizeArcmin float64, famous bool) Entry {
	return Entry{
		Name:        name,
		CommonName:  common,
		Category:    model.CategoryDSO,
		Subtype:     sub,
		RAHours:     ra,
		DecDegrees:  dec,
		Magnitude:   mag(m),
		AngularSize: sizeArcmin,
		Famous:      famous,
	}
}

// deepSkyCatalog is the curated showpiece list. It favors targets that
// frame well in a small imaging instrument over completeness; a full
// survey catalog would drown the nightly ranking in thousands of
// near-identical faint entries.
var deepSkyCatalog = []Entry{
	// Galaxies
	dso("M31", "Andromeda Galaxy", model.SubtypeGalaxy, 0.712, 41.269, 3.4, 178, true),
	dso("M33", "Triangulum Galaxy", model.SubtypeGalaxy, 1.564, 30.660, 5.7, 73, false),
	dso("M51", "Whirlpool Galaxy", model.SubtypeGalaxy, 13.498, 47.195, 8.4, 11, false),
	dso("M81", "Bode's Galaxy", model.SubtypeGalaxy, 9.927, 69.065, 6.9, 27, false),
	dso("M82", "Cigar Galaxy", model.SubtypeGalaxy, 9.928, 69.680, 8.4, 11, false),
	dso("M101", "Pinwheel Galaxy", model.SubtypeGalaxy, 14.054, 54.349, 7.9, 29, false),
	dso("M104", "Sombrero Galaxy", model.SubtypeGalaxy, 12.666, -11.623, 8.0, 9, false),
	dso("M65", "Leo Triplet Galaxy", model.SubtypeGalaxy, 11.309, 13.093, 9.3, 10, false),
	dso("M66", "Leo Triplet Galaxy", model.SubtypeGalaxy, 11.334, 12.993, 8.9, 9, false),
	dso("NGC253", "Sculptor Galaxy", model.SubtypeGalaxy, 0.792, -25.288, 7.1, 28, false),
	dso("NGC4565", "Needle Galaxy", model.SubtypeGalaxy, 12.602, 25.988, 9.6, 16, false),

	// Emission and reflection nebulae
	dso("M42", "Orion Nebula", model.SubtypeEmissionNebula, 5.588, -5.391, 4.0, 85, true),
	dso("M8", "Lagoon Nebula", model.SubtypeEmissionNebula, 18.062, -24.380, 6.0, 90, true),
	dso("M16", "Eagle Nebula", model.SubtypeEmissionNebula, 18.312, -13.763, 6.4, 35, false),
	dso("M17", "Omega Nebula", model.SubtypeEmissionNebula, 18.344, -16.178, 6.0, 11, false),
	dso("M20", "Trifid Nebula", model.SubtypeEmissionNebula, 18.036, -23.033, 6.3, 28, false),
	dso("M78", "Reflection Nebula in Orion", model.SubtypeReflectionNebula, 5.779, 0.048, 8.3, 8, false),
	dso("NGC7000", "North America Nebula", model.SubtypeEmissionNebula, 20.975, 44.533, 4.0, 120, false),
	dso("IC5070", "Pelican Nebula", model.SubtypeEmissionNebula, 20.837, 44.367, 8.0, 60, false),
	dso("IC1396", "Elephant's Trunk Nebula", model.SubtypeEmissionNebula, 21.653, 57.500, 3.5, 170, false),
	dso("NGC2237", "Rosette Nebula", model.SubtypeEmissionNebula, 6.535, 4.950, 9.0, 80, false),
	dso("IC1805", "Heart Nebula", model.SubtypeEmissionNebula, 2.543, 61.467, 6.5, 150, false),
	dso("IC1848", "Soul Nebula", model.SubtypeEmissionNebula, 2.893, 60.433, 6.5, 100, false),
	dso("NGC6960", "Western Veil Nebula", model.SubtypeSupernovaRemnant, 20.756, 30.717, 7.0, 70, false),
	dso("NGC6992", "Eastern Veil Nebula", model.SubtypeSupernovaRemnant, 20.937, 31.717, 7.0, 75, false),
	dso("NGC6888", "Crescent Nebula", model.SubtypeEmissionNebula, 20.200, 38.350, 7.4, 18, false),
	dso("IC434", "Horsehead Nebula", model.SubtypeDarkNebula, 5.678, -2.458, 7.3, 60, false),
	dso("NGC2024", "Flame Nebula", model.SubtypeEmissionNebula, 5.679, -1.912, 7.2, 30, false),
	dso("NGC1499", "California Nebula", model.SubtypeEmissionNebula, 4.050, 36.617, 5.0, 145, false),
	dso("Sh2-129", "Flying Bat Nebula", model.SubtypeEmissionNebula, 21.183, 59.983, 7.5, 140, false),

	// Planetary nebulae
	dso("M27", "Dumbbell Nebula", model.SubtypePlanetaryNebula, 19.992, 22.721, 7.5, 8, false),
	dso("M57", "Ring Nebula", model.SubtypePlanetaryNebula, 18.888, 33.029, 8.8, 1.4, false),
	dso("NGC7293", "Helix Nebula", model.SubtypePlanetaryNebula, 22.495, -20.838, 7.6, 25, false),
	dso("M97", "Owl Nebula", model.SubtypePlanetaryNebula, 11.247, 55.017, 9.9, 3.4, false),
	dso("NGC6826", "Blinking Planetary", model.SubtypePlanetaryNebula, 19.744, 50.526, 8.8, 0.5, false),

	// Clusters and remnants
	dso("M13", "Hercules Cluster", model.SubtypeGlobularCluster, 16.694, 36.460, 5.8, 20, true),
	dso("M44", "Beehive Cluster", model.SubtypeOpenCluster, 8.667, 19.983, 3.7, 95, false),
	dso("M45", "Pleiades", model.SubtypeOpenCluster, 3.790, 24.117, 1.6, 110, true),
	dso("M7", "Ptolemy Cluster", model.SubtypeOpenCluster, 17.895, -34.793, 3.3, 80, false),
	dso("M1", "Crab Nebula", model.SubtypeSupernovaRemnant, 5.576, 22.015, 8.4, 7, false),
	dso("M11", "Wild Duck Cluster", model.SubtypeOpenCluster, 18.854, -6.267, 6.3, 14, false),
	dso("M35", "Open Cluster in Gemini", model.SubtypeOpenCluster, 6.150, 24.333, 5.3, 28, false),
	dso("NGC869", "Double Cluster (h Persei)", model.SubtypeOpenCluster, 2.323, 57.139, 4.3, 30, false),
	dso("M22", "Sagittarius Cluster", model.SubtypeGlobularCluster, 18.607, -23.905, 5.1, 32, false),
	dso("M92", "Globular in Hercules", model.SubtypeGlobularCluster, 17.285, 43.137, 6.4, 14, false),
}

// milkyWayCore is the galactic-center band, tracked as a single target
// at the approximate position of Sagittarius A*.
var milkyWayCore = Entry{
	Name:       "MW_CORE",
	CommonName: "Milky Way Core",
	Category:   model.CategoryMilkyWay,
	RAHours:    17.761,
	DecDegrees: -29.008,
	Magnitude:  mag(0.0),
	Famous:     true,
}

// planetNames lists the planets the visibility provider can position,
// in ecliptic order. Coordinates are computed per night.
var planetNames = []string{
	"Mercury", "Venus", "Mars", "Jupiter", "Saturn", "Uranus", "Neptune",
}

// cometTable holds a few bright, well-observed comets with published
// orbital elements. A production deployment refreshes this from the MPC
// file; the built-in rows keep the forecast useful offline.
var cometTable = []Entry{
	{
		Name:       "12P",
		CommonName: "Pons-Brooks",
		Category:   model.CategoryComet,
		Elements: &OrbitalElements{
			PerihelionTime: time.Date(2024, 4, 21, 0, 0, 0, 0, time.UTC),
			PerihelionAU:   0.7807,
			SemiMajorAU:    17.2,
			Eccentricity:   0.9546,
			InclinationDeg: 74.19,
			AscNodeDeg:     255.86,
			ArgPeriDeg:     198.99,
			AbsoluteMag:    5.0,
			SlopeParam:     6.0,
		},
	},
	{
		Name:       "C/2023 A3",
		CommonName: "Tsuchinshan-ATLAS",
		Category:   model.CategoryComet,
		Elements: &OrbitalElements{
			PerihelionTime: time.Date(2024, 9, 27, 0, 0, 0, 0, time.UTC),
			PerihelionAU:   0.3914,
			SemiMajorAU:    2300,
			Eccentricity:   0.9998,
			InclinationDeg: 139.11,
			AscNodeDeg:     21.56,
			ArgPeriDeg:     308.49,
			AbsoluteMag:    6.5,
			SlopeParam:     4.0,
		},
	},
	{
		Name:         "3I/ATLAS",
		CommonName:   "ATLAS",
		Category:     model.CategoryComet,
		Interstellar: true,
		Elements: &OrbitalElements{
			PerihelionTime: time.Date(2025, 10, 29, 0, 0, 0, 0, time.UTC),
			PerihelionAU:   1.36,
			SemiMajorAU:    -0.85, // hyperbolic
			Eccentricity:   6.14,
			InclinationDeg: 175.11,
			AscNodeDeg:     322.16,
			ArgPeriDeg:     128.01,
			AbsoluteMag:    8.5,
			SlopeParam:     4.0,
		},
	},
}

// minorPlanetTable holds the handful of minor planets bright enough to
// be worth ranking.
var minorPlanetTable = []Entry{
	{
		Name:       "1 Ceres",
		CommonName: "Ceres",
		Category:   model.CategoryDwarfPlanet,
		Elements: &OrbitalElements{
			Epoch:          time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			PerihelionTime: time.Date(2023, 12, 23, 0, 0, 0, 0, time.UTC),
			SemiMajorAU:    2.767,
			PerihelionAU:   2.549,
			Eccentricity:   0.0789,
			InclinationDeg: 10.59,
			AscNodeDeg:     80.25,
			ArgPeriDeg:     73.74,
			AbsoluteMag:    3.34,
			SlopeParam:     0.12,
		},
	},
	{
		Name:       "4 Vesta",
		CommonName: "Vesta",
		Category:   model.CategoryAsteroid,
		Elements: &OrbitalElements{
			Epoch:          time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			PerihelionTime: time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC),
			SemiMajorAU:    2.362,
			PerihelionAU:   2.151,
			Eccentricity:   0.0894,
			InclinationDeg: 7.14,
			AscNodeDeg:     103.71,
			ArgPeriDeg:     151.66,
			AbsoluteMag:    3.25,
			SlopeParam:     0.32,
		},
	},
	{
		Name:       "134340 Pluto",
		CommonName: "Pluto",
		Category:   model.CategoryDwarfPlanet,
		Elements: &OrbitalElements{
			Epoch:          time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			PerihelionTime: time.Date(1989, 9, 5, 0, 0, 0, 0, time.UTC),
			SemiMajorAU:    39.48,
			PerihelionAU:   29.66,
			Eccentricity:   0.2488,
			InclinationDeg: 17.16,
			AscNodeDeg:     110.30,
			ArgPeriDeg:     113.76,
			AbsoluteMag:    -0.45,
			SlopeParam:     0.15,
		},
	},
}

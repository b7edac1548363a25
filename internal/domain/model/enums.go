package model

// Category identifies the broad class of a celestial object.
type Category string

// Object categories.
const (
	CategoryPlanet      Category = "planet"
	CategoryDSO         Category = "dso"
	CategoryComet       Category = "comet"
	CategoryDwarfPlanet Category = "dwarf_planet"
	CategoryAsteroid    Category = "asteroid"
	CategoryMilkyWay    Category = "milky_way"
	CategoryMoon        Category = "moon"
)

// DSOSubtype refines the DSO category. The values mirror the OpenNGC
// type codes the catalog loader maps from.
type DSOSubtype string

// Deep-sky subtypes.
const (
	SubtypeGalaxy           DSOSubtype = "galaxy"
	SubtypeGalaxyPair       DSOSubtype = "galaxy_pair"
	SubtypeEmissionNebula   DSOSubtype = "emission_nebula"
	SubtypeReflectionNebula DSOSubtype = "reflection_nebula"
	SubtypePlanetaryNebula  DSOSubtype = "planetary_nebula"
	SubtypeSupernovaRemnant DSOSubtype = "supernova_remnant"
	SubtypeNebula           DSOSubtype = "nebula"
	SubtypeHIIRegion        DSOSubtype = "hii_region"
	SubtypeOpenCluster      DSOSubtype = "open_cluster"
	SubtypeGlobularCluster  DSOSubtype = "globular_cluster"
	SubtypeDarkNebula       DSOSubtype = "dark_nebula"
	SubtypeOther            DSOSubtype = "other"
)

// MoonSensitivity returns how strongly moonlight degrades a subtype,
// 0 (immune) to 1 (washed out by any moon). Diffuse nebulae and galaxies
// suffer most; compact clusters tolerate a bright sky.
func (s DSOSubtype) MoonSensitivity() float64 {
	switch s {
	case SubtypeGalaxy, SubtypeGalaxyPair:
		return 0.9
	case SubtypeEmissionNebula, SubtypeReflectionNebula, SubtypeHIIRegion, SubtypeDarkNebula:
		return 0.85
	case SubtypeNebula, SubtypeSupernovaRemnant:
		return 0.8
	case SubtypePlanetaryNebula:
		return 0.6
	case SubtypeGlobularCluster:
		return 0.4
	case SubtypeOpenCluster:
		return 0.3
	default:
		return 0.5
	}
}

// PickCategory labels a tonight's-pick slot. The order of the constants
// below is the fixed evaluation and emission order.
type PickCategory string

// Pick slots, in priority order.
const (
	PickPlanet  PickCategory = "planet"
	PickGalaxy  PickCategory = "galaxy"
	PickNebula  PickCategory = "nebula"
	PickCluster PickCategory = "cluster"
	PickComet   PickCategory = "comet"
	PickImaging PickCategory = "imaging"
)

// EclipseKind distinguishes lunar from solar eclipses.
type EclipseKind string

// Eclipse kinds.
const (
	EclipseLunar EclipseKind = "lunar"
	EclipseSolar EclipseKind = "solar"
)

// Confidence tiers for a forecast run, driven by weather availability.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

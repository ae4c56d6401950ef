package core

import (
	"math"
	"math/rand"
)

// Physical constants used by body generation.
const (
	SolarMass       = 1.98892e30 // kg
	SolarRadius     = 6.957e8    // m
	SolarTemp       = 5778.0     // K
	EarthMass       = 5.9722e24  // kg
	EarthRadius     = 6.371e6    // m
	EarthGravity    = 9.80665    // m/s^2
	AU              = 1.495978707e11 // m
	GravityConstant = 6.674e-11
)

// StarKind selects a generation strategy for a star. Kind-specific parameter
// ranges live in starTable; there is no type hierarchy behind this.
type StarKind int

const (
	StarRedDwarf StarKind = iota
	StarMainSequence
	StarGiant
	StarWhiteDwarf
)

func (k StarKind) String() string {
	switch k {
	case StarRedDwarf:
		return "red dwarf"
	case StarMainSequence:
		return "main sequence"
	case StarGiant:
		return "giant"
	case StarWhiteDwarf:
		return "white dwarf"
	}
	return "unknown"
}

type starRanges struct {
	massMin, massMax float64 // solar masses
	tempMin, tempMax float64 // K
	radiusExp        float64 // radius ~ mass^radiusExp, solar radii
	radiusScale      float64
}

var starTable = map[StarKind]starRanges{
	StarRedDwarf:     {0.08, 0.45, 2500, 3800, 0.93, 1.0},
	StarMainSequence: {0.45, 1.6, 4000, 7200, 0.9, 1.0},
	StarGiant:        {1.0, 8.0, 3300, 5200, 0.5, 12.0},
	StarWhiteDwarf:   {0.4, 1.1, 8000, 30000, -0.33, 0.012},
}

// Star holds the stellar parameters the atmosphere model needs.
type Star struct {
	Kind        StarKind
	Mass        float64 // kg
	Radius      float64 // m
	Temperature float64 // K, effective surface
	Luminosity  float64 // W
}

// GenerateStar produces a star of the given kind from the seeded generator.
// Randomness is confined to generation time; everything downstream is a pure
// function of the result.
func GenerateStar(kind StarKind, rng *rand.Rand) Star {
	r := starTable[kind]
	massSolar := r.massMin + rng.Float64()*(r.massMax-r.massMin)
	temp := r.tempMin + rng.Float64()*(r.tempMax-r.tempMin)
	radiusSolar := r.radiusScale * math.Pow(massSolar, r.radiusExp)

	radius := radiusSolar * SolarRadius
	// Stefan-Boltzmann luminosity.
	lum := 4 * math.Pi * radius * radius * 5.670374e-8 * math.Pow(temp, 4)

	return Star{
		Kind:        kind,
		Mass:        massSolar * SolarMass,
		Radius:      radius,
		Temperature: temp,
		Luminosity:  lum,
	}
}

// PlanetKind selects a generation strategy for a planet.
type PlanetKind int

const (
	PlanetTerrestrial PlanetKind = iota
	PlanetOcean
	PlanetDesert
	PlanetIceGiant
	PlanetGasGiant
)

func (k PlanetKind) String() string {
	switch k {
	case PlanetTerrestrial:
		return "terrestrial"
	case PlanetOcean:
		return "ocean"
	case PlanetDesert:
		return "desert"
	case PlanetIceGiant:
		return "ice giant"
	case PlanetGasGiant:
		return "gas giant"
	}
	return "unknown"
}

type planetRanges struct {
	massMin, massMax         float64 // Earth masses
	pressureMin, pressureMax float64 // kPa at the surface
	greenhouseMin            float64 // greenhouse-gas potential, dimensionless
	greenhouseMax            float64
	albedo                   float64
	oceanFraction            float64
	tiltMax                  float64 // radians
}

var planetTable = map[PlanetKind]planetRanges{
	PlanetTerrestrial: {0.5, 2.5, 60, 180, 0.0, 0.12, 0.30, 0.62, 0.52},
	PlanetOcean:       {0.8, 3.0, 80, 250, 0.02, 0.18, 0.28, 0.92, 0.40},
	PlanetDesert:      {0.3, 1.5, 20, 90, 0.0, 0.05, 0.25, 0.08, 0.60},
	PlanetIceGiant:    {10, 40, 5000, 20000, 0.2, 0.6, 0.45, 0.0, 0.70},
	PlanetGasGiant:    {60, 400, 20000, 90000, 0.3, 0.9, 0.42, 0.0, 0.55},
}

// Planet bundles the generated physical parameters with the surface grid.
type Planet struct {
	Kind PlanetKind
	Seed int64

	Mass      float64 // kg
	Radius    float64 // m
	Gravity   float64 // m/s^2
	AxialTilt float64 // radians

	SurfacePressure     float64 // kPa
	GreenhousePotential float64

	OrbitalDistance float64 // m
	OrbitalPeriod   float64 // days
	Eccentricity    float64

	EquilibriumTemp float64 // K, blackbody at the orbit

	Star Star
	Grid *Grid
}

// GeneratePlanet rolls a planet of the given kind around the star and builds
// its surface grid. The same seed always yields the same planet.
func GeneratePlanet(kind PlanetKind, star Star, seed int64, subdivisions int) (*Planet, error) {
	rng := rand.New(rand.NewSource(seed))
	r := planetTable[kind]

	massEarth := r.massMin + rng.Float64()*(r.massMax-r.massMin)
	mass := massEarth * EarthMass
	// Terrestrial mass-radius relation; giants compress.
	exp := 0.27
	if kind == PlanetIceGiant || kind == PlanetGasGiant {
		exp = 0.18
	}
	radius := EarthRadius * math.Pow(massEarth, exp)
	gravity := GravityConstant * mass / (radius * radius)

	// Orbit inside a loosely habitable band scaled by luminosity.
	hz := AU * math.Sqrt(star.Luminosity/3.828e26)
	distance := hz * (0.8 + rng.Float64()*0.7)
	period := 2 * math.Pi * math.Sqrt(math.Pow(distance, 3)/(GravityConstant*star.Mass)) / 86400

	equilibrium := star.Temperature *
		math.Sqrt(star.Radius/(2*distance)) *
		math.Pow(1-r.albedo, 0.25)

	p := &Planet{
		Kind:                kind,
		Seed:                seed,
		Mass:                mass,
		Radius:              radius,
		Gravity:             gravity,
		AxialTilt:           rng.Float64() * r.tiltMax,
		SurfacePressure:     r.pressureMin + rng.Float64()*(r.pressureMax-r.pressureMin),
		GreenhousePotential: r.greenhouseMin + rng.Float64()*(r.greenhouseMax-r.greenhouseMin),
		OrbitalDistance:     distance,
		OrbitalPeriod:       period,
		Eccentricity:        rng.Float64() * 0.08,
		EquilibriumTemp:     equilibrium,
		Star:                star,
	}

	terrain := DefaultTerrainParams(seed)
	terrain.OceanFraction = r.oceanFraction
	grid, err := BuildGrid(subdivisions, radius)
	if err != nil {
		return nil, err
	}
	AssignTerrain(grid, terrain)
	p.Grid = grid
	return p, nil
}

// Package climate computes per-tile atmospheric conditions across a seasonal
// cycle: temperature, pressure, humidity, wind, precipitation, sea ice and
// river flow on a pre-built planetary grid. The season pipeline is a strict
// waterfall; given identical inputs it produces bit-identical output.
package climate

import (
	"math"

	"planetgen/atmosphere"
	"planetgen/core"
)

// TileClimate is the full climate record for one tile during one season.
// Records are created per season and never mutated once the season
// completes; selected fields are carried forward as previous-season state.
type TileClimate struct {
	Temperature float64 // K at the tile surface
	Pressure    float64 // kPa, bottom air cell

	Precipitation float64 // kg/m^2 over the season, rain and snow combined
	Snowfall      float64 // kg/m^2 over the season
	SnowCover     float64 // kg/m^2 standing at season end
	SeaIce        float64 // m of ice thickness, water tiles only
	Runoff        float64 // m^3/s delivered to the drainage network

	WindDirection float64 // radians, 0 = east, counterclockwise
	WindSpeed     float64 // m/s

	Air []atmosphere.AirCell
}

// Season is one time-slice's complete climate state. Every per-tile slice is
// indexed identically to the grid's tile array, and every per-edge or
// per-corner slice to the edge/corner arrays.
type Season struct {
	Index           int
	YearFraction    float64 // elapsed fraction of the orbital year at this slice
	Duration        float64 // proportion of the year this season represents
	TropicalEquator float64 // radians of solar-equator latitude offset

	Tiles []TileClimate

	AirFlow   []float64 // per edge, signed per the edge orientation convention
	RiverFlow []float64 // per edge, accumulated river discharge
	RiverDir  []int8    // per edge: +1 Corners[0]->Corners[1], -1 reverse, 0 none
	LakeDepth []float64 // per corner, water ponded at undrained minima
}

// Params are the tunables of the season pipeline. The tolerance and visit
// cap of the advection stage are part of the model's convergence behavior,
// not free knobs.
type Params struct {
	AxialTilt     float64 // radians
	YearLength    float64 // days per orbital year
	ITCZHalfWidth float64 // radians, width of the peak uplift band
	WindStrength  float64 // m/s, peak surface wind before friction

	OceanSupersaturation float64 // humidity baseline multiplier over open water
	IceInsulation        float64 // m of sea ice that shuts off ocean evaporation
	CondensationFactor   float64 // fraction of excess vapor shed per season
	AdvectionTolerance   float64 // proportional change that re-enqueues neighbors
	AdvectionVisitCap    int     // hard per-tile iteration cap

	IceGrowthRate     float64 // m per (K day)^IceGrowthExponent
	IceGrowthExponent float64
	IceMeltRate       float64 // m per K day

	SnowMeltRate float64 // kg/m^2 per K day
	RunoffScale  float64 // converts residual water depth into discharge
}

// DefaultParams returns the reference tuning for an Earth-like year.
func DefaultParams(axialTilt, yearLengthDays float64) Params {
	return Params{
		AxialTilt:     axialTilt,
		YearLength:    yearLengthDays,
		ITCZHalfWidth: 0.20,
		WindStrength:  9.0,

		OceanSupersaturation: 1.05,
		IceInsulation:        1.5,
		CondensationFactor:   0.65,
		AdvectionTolerance:   1e-4,
		AdvectionVisitCap:    5,

		IceGrowthRate:     0.0026,
		IceGrowthExponent: 0.58,
		IceMeltRate:       0.0008,

		SnowMeltRate: 1.8,
		RunoffScale:  0.35,
	}
}

// Simulator produces one Season at a time from the grid, the atmosphere
// model and the previous season's state. It owns the per-season latitude
// temperature cache; the grid itself is never written.
type Simulator struct {
	grid   *core.Grid
	atmos  *atmosphere.Model
	params Params

	// Surface temperature memoized by rounded tropical latitude. Thousands
	// of tiles share few distinct latitude bands, so the season recomputes
	// each band once. Cleared at the start of every season.
	tempCache map[int64]float64

	workers int
}

// NewSimulator wires a simulator to a validated grid and atmosphere.
func NewSimulator(grid *core.Grid, atmos *atmosphere.Model, params Params) *Simulator {
	return &Simulator{
		grid:      grid,
		atmos:     atmos,
		params:    params,
		tempCache: make(map[int64]float64),
		workers:   defaultWorkers(),
	}
}

// Simulate runs the full season pipeline for the slice beginning at
// yearFraction and spanning duration of the year. prev carries the previous
// season's state, or nil for a cold start. The stage order is a data
// dependency chain and must not be rearranged.
func (s *Simulator) Simulate(index int, yearFraction, duration float64, prev *Season) *Season {
	season := &Season{
		Index:        index,
		YearFraction: yearFraction,
		Duration:     duration,
		Tiles:        make([]TileClimate, len(s.grid.Tiles)),
		AirFlow:      make([]float64, len(s.grid.Edges)),
		RiverFlow:    make([]float64, len(s.grid.Edges)),
		RiverDir:     make([]int8, len(s.grid.Edges)),
		LakeDepth:    make([]float64, len(s.grid.Corners)),
	}

	// The solar equator swings with axial tilt across the year.
	season.TropicalEquator = s.params.AxialTilt * math.Sin(2*math.Pi*yearFraction)

	clearMap(s.tempCache)
	s.assignTemperatures(season)
	s.buildAirColumns(season)
	s.computeWind(season)
	s.updateSeaIce(season, prev)
	s.advectHumidity(season, prev)
	s.updateGroundWater(season, prev)
	s.traceRivers(season)

	return season
}

// tropicalLatitude maps a tile latitude into the solar frame, reflecting at
// the poles so the result stays within [-pi/2, pi/2].
func (s *Simulator) tropicalLatitude(latitude, tropicalEquator float64) float64 {
	x := latitude - tropicalEquator
	if x > math.Pi/2 {
		x = math.Pi - x
	} else if x < -math.Pi/2 {
		x = -math.Pi - x
	}
	return x
}

// elapsedDays converts a season duration to days of the orbital year.
func (s *Simulator) elapsedDays(season *Season) float64 {
	return season.Duration * s.params.YearLength
}

func clearMap(m map[int64]float64) {
	for k := range m {
		delete(m, k)
	}
}

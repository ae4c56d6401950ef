package climate

import (
	"math"
	"testing"

	"planetgen/atmosphere"
	"planetgen/core"
)

func TestSeaLevelTemperatureMemo(t *testing.T) {
	_, sim := testSimulator(t, 42)
	clearMap(sim.tempCache)

	a := sim.seaLevelTemperature(0.73)
	b := sim.seaLevelTemperature(0.73)
	if a != b {
		t.Errorf("memoized lookups differ: %g vs %g", a, b)
	}
	if len(sim.tempCache) != 1 {
		t.Errorf("cache holds %d entries after one latitude, want 1", len(sim.tempCache))
	}

	// Latitudes inside the same rounding band share one entry.
	sim.seaLevelTemperature(0.73 + 1e-6)
	if len(sim.tempCache) != 1 {
		t.Errorf("cache holds %d entries, nearby latitude should share the band", len(sim.tempCache))
	}
}

func TestTemperatureLatitudeGradient(t *testing.T) {
	_, sim := testSimulator(t, 42)
	season := sim.Simulate(0, 0, 0.25, nil)

	// With the tropical equator at zero, sea-level temperature must fall
	// from the equator toward both poles.
	equator := sim.atmos.SurfaceTemperature(0)
	pole := sim.atmos.SurfaceTemperature(math.Pi / 2)
	if equator <= pole {
		t.Fatalf("equator %g K not warmer than pole %g K", equator, pole)
	}

	for i := range season.Tiles {
		got := season.Tiles[i].Temperature
		if got < pole-80 || got > equator+10 {
			t.Errorf("tile %d: temperature %g K outside plausible band [%g, %g]",
				i, got, pole-80, equator+10)
		}
	}
}

// TestWaterTilesRadiateAtSeaLevel pins the elevation clamp: ocean depth never
// cools a water tile, so a deep basin and a shallow shelf at the same
// latitude read the same temperature.
func TestWaterTilesRadiateAtSeaLevel(t *testing.T) {
	atmos := &atmosphere.Model{
		SurfacePressure: 101.325,
		Gravity:         9.8,
		EquilibriumTemp: 255,
		EquatorTemp:     300,
		PolarTemp:       240,
		Top:             120000,
	}
	grid := &core.Grid{
		Tiles: []core.Tile{
			{Index: 0, Latitude: 0.4, Elevation: -5000, Terrain: core.TerrainWater},
			{Index: 1, Latitude: 0.4, Elevation: -200, Terrain: core.TerrainWater},
			{Index: 2, Latitude: 0.4, Elevation: 2500, Terrain: core.TerrainLand},
		},
	}
	sim := &Simulator{
		grid:      grid,
		atmos:     atmos,
		params:    DefaultParams(0.4, 365),
		tempCache: make(map[int64]float64),
		workers:   1,
	}

	season := &Season{Tiles: make([]TileClimate, len(grid.Tiles))}
	sim.assignTemperatures(season)

	if season.Tiles[0].Temperature != season.Tiles[1].Temperature {
		t.Errorf("deep basin %g K differs from shelf %g K at the same latitude",
			season.Tiles[0].Temperature, season.Tiles[1].Temperature)
	}
	if season.Tiles[2].Temperature >= season.Tiles[0].Temperature {
		t.Errorf("elevated land %g K not colder than sea level %g K",
			season.Tiles[2].Temperature, season.Tiles[0].Temperature)
	}
	wantDrop := atmosphere.DryLapseRate * 2500
	drop := season.Tiles[0].Temperature - season.Tiles[2].Temperature
	if math.Abs(drop-wantDrop) > 1e-9 {
		t.Errorf("lapse drop = %g K over 2500 m, want %g", drop, wantDrop)
	}
}

package climate

import (
	"math"
	"testing"

	"planetgen/atmosphere"
	"planetgen/core"
)

func groundFixture() (*Simulator, *Season) {
	grid := &core.Grid{
		Tiles: []core.Tile{
			{Index: 0, Terrain: core.TerrainLand, Area: 1e9},
		},
	}
	sim := &Simulator{
		grid:    grid,
		params:  DefaultParams(0.4, 360),
		workers: 1,
	}
	season := &Season{Duration: 0.25, Tiles: make([]TileClimate, 1)}
	return sim, season
}

func TestRunoffColdStart(t *testing.T) {
	sim, season := groundFixture()
	clim := &season.Tiles[0]
	clim.Temperature = atmosphere.FreezingPoint + 10
	clim.Precipitation = 100 // all rain

	sim.updateGroundWater(season, nil)

	days := sim.elapsedDays(season)
	seconds := days * 86400
	want := 100.0 / 1000 * 1e9 * sim.params.RunoffScale / seconds
	// Cold start: no history, the smoothing collapses to the raw value.
	if math.Abs(clim.Runoff-want) > 1e-12 {
		t.Errorf("cold-start runoff = %g, want raw %g", clim.Runoff, want)
	}
	if clim.SnowCover != 0 {
		t.Errorf("snow cover %g after an all-rain season", clim.SnowCover)
	}
}

func TestSnowAccumulation(t *testing.T) {
	sim, season := groundFixture()
	clim := &season.Tiles[0]
	clim.Temperature = atmosphere.FreezingPoint - 10
	clim.Precipitation = 60
	clim.Snowfall = 60

	sim.updateGroundWater(season, nil)

	if clim.SnowCover != 60 {
		t.Errorf("snow cover = %g, want all 60 retained below freezing", clim.SnowCover)
	}
	if clim.Runoff != 0 {
		t.Errorf("runoff = %g from a frozen season, want 0", clim.Runoff)
	}
}

func TestSnowMeltCapped(t *testing.T) {
	sim, season := groundFixture()
	clim := &season.Tiles[0]
	clim.Temperature = atmosphere.FreezingPoint + 30 // melt demand far beyond the pack

	prev := &Season{Tiles: []TileClimate{{SnowCover: 25}}}
	sim.updateGroundWater(season, prev)

	if clim.SnowCover != 0 {
		t.Errorf("snow cover = %g, want pack fully melted", clim.SnowCover)
	}
	// The melted 25 kg/m^2 became runoff water; nothing more.
	if clim.Runoff <= 0 {
		t.Error("melt produced no runoff")
	}
}

// TestRunoffAsymmetricSmoothing pins the 3:1 blend: rising discharge tracks
// the new value, falling discharge clings to the old one.
func TestRunoffAsymmetricSmoothing(t *testing.T) {
	sim, season := groundFixture()
	clim := &season.Tiles[0]
	clim.Temperature = atmosphere.FreezingPoint + 10
	clim.Precipitation = 40

	days := sim.elapsedDays(season)
	seconds := days * 86400
	raw := 40.0 / 1000 * 1e9 * sim.params.RunoffScale / seconds

	t.Run("rising", func(t *testing.T) {
		prev := &Season{Tiles: []TileClimate{{Runoff: raw / 10}}}
		sim.updateGroundWater(season, prev)
		want := (3*raw + raw/10) / 4
		if math.Abs(clim.Runoff-want) > 1e-12 {
			t.Errorf("rising blend = %g, want %g", clim.Runoff, want)
		}
	})

	t.Run("falling", func(t *testing.T) {
		prev := &Season{Tiles: []TileClimate{{Runoff: raw * 10}}}
		sim.updateGroundWater(season, prev)
		want := (raw + 3*raw*10) / 4
		if math.Abs(clim.Runoff-want) > 1e-9 {
			t.Errorf("falling blend = %g, want %g", clim.Runoff, want)
		}
	})
}

func TestGroundWaterSkipsWater(t *testing.T) {
	sim, season := groundFixture()
	sim.grid.Tiles[0].Terrain = core.TerrainWater
	season.Tiles[0].Precipitation = 500
	season.Tiles[0].Temperature = 300

	sim.updateGroundWater(season, nil)
	if season.Tiles[0].Runoff != 0 || season.Tiles[0].SnowCover != 0 {
		t.Error("water tile gained runoff or snow cover")
	}
}

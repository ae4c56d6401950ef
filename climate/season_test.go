package climate

import (
	"math"
	"math/rand"
	"reflect"
	"testing"

	"planetgen/atmosphere"
	"planetgen/core"
)

// testSimulator builds a small but fully generated planet and a simulator
// over it. Subdivision 2 keeps the grid at 162 tiles.
func testSimulator(t *testing.T, seed int64) (*core.Planet, *Simulator) {
	t.Helper()
	star := core.GenerateStar(core.StarMainSequence, rand.New(rand.NewSource(seed)))
	planet, err := core.GeneratePlanet(core.PlanetTerrestrial, star, seed, 2)
	if err != nil {
		t.Fatal(err)
	}
	atmos := atmosphere.NewModel(planet)
	params := DefaultParams(planet.AxialTilt, planet.OrbitalPeriod)
	return planet, NewSimulator(planet.Grid, atmos, params)
}

func TestSimulateDeterministic(t *testing.T) {
	_, sim := testSimulator(t, 42)

	a := sim.Simulate(0, 0.125, 0.25, nil)
	b := sim.Simulate(0, 0.125, 0.25, nil)
	if !reflect.DeepEqual(a, b) {
		t.Error("identical inputs produced different seasons")
	}

	// Chained seasons must be reproducible too.
	a2 := sim.Simulate(1, 0.375, 0.25, a)
	b2 := sim.Simulate(1, 0.375, 0.25, b)
	if !reflect.DeepEqual(a2, b2) {
		t.Error("identical chained inputs produced different seasons")
	}
}

func TestTropicalEquatorSwing(t *testing.T) {
	_, sim := testSimulator(t, 42)
	tilt := sim.params.AxialTilt

	tests := []struct {
		fraction float64
		want     float64
	}{
		{0.0, 0},
		{0.25, tilt},
		{0.5, 0},
		{0.75, -tilt},
	}
	for _, tc := range tests {
		season := sim.Simulate(0, tc.fraction, 0.25, nil)
		if math.Abs(season.TropicalEquator-tc.want) > 1e-9 {
			t.Errorf("fraction %g: tropical equator = %g, want %g",
				tc.fraction, season.TropicalEquator, tc.want)
		}
	}
}

// TestSeasonInvariants runs a chained pair of seasons and checks the
// pipeline's physical guarantees on every tile.
func TestSeasonInvariants(t *testing.T) {
	planet, sim := testSimulator(t, 7)

	first := sim.Simulate(0, 0.125, 0.25, nil)
	season := sim.Simulate(1, 0.375, 0.25, first)

	for i := range season.Tiles {
		tile := &planet.Grid.Tiles[i]
		clim := &season.Tiles[i]

		if clim.Temperature <= 0 {
			t.Fatalf("tile %d: temperature %g K", i, clim.Temperature)
		}
		if clim.Pressure <= 0 {
			t.Fatalf("tile %d: pressure %g kPa", i, clim.Pressure)
		}
		if clim.Precipitation < 0 || clim.Snowfall < 0 || clim.Snowfall > clim.Precipitation+1e-9 {
			t.Fatalf("tile %d: precipitation %g, snowfall %g", i, clim.Precipitation, clim.Snowfall)
		}
		if clim.SnowCover < 0 {
			t.Fatalf("tile %d: negative snow cover", i)
		}
		if clim.SeaIce < 0 {
			t.Fatalf("tile %d: negative sea ice", i)
		}
		if tile.Terrain.IsLand() && clim.SeaIce != 0 {
			t.Fatalf("tile %d: sea ice on land", i)
		}
		if tile.Terrain == core.TerrainWater && clim.Runoff != 0 {
			t.Fatalf("tile %d: runoff on open water", i)
		}
		if clim.Runoff < 0 {
			t.Fatalf("tile %d: negative runoff", i)
		}

		// No air layer ends a season above saturation.
		for l := range clim.Air {
			cell := &clim.Air[l]
			if cell.AbsoluteHumidity < 0 {
				t.Fatalf("tile %d layer %d: negative humidity", i, l)
			}
			if cell.AbsoluteHumidity > cell.SaturationHumidity*(1+1e-9) {
				t.Fatalf("tile %d layer %d: humidity %g above saturation %g",
					i, l, cell.AbsoluteHumidity, cell.SaturationHumidity)
			}
		}
	}

	for e := range season.RiverFlow {
		if season.RiverFlow[e] < 0 {
			t.Fatalf("edge %d: negative river flow", e)
		}
		if season.RiverFlow[e] > 0 && season.RiverDir[e] == 0 {
			t.Fatalf("edge %d: river flow without direction", e)
		}
	}
	for c := range season.LakeDepth {
		if season.LakeDepth[c] < 0 {
			t.Fatalf("corner %d: negative lake depth", c)
		}
	}
}

func TestTropicalLatitudeReflection(t *testing.T) {
	_, sim := testSimulator(t, 42)

	tests := []struct {
		name     string
		latitude float64
		equator  float64
		want     float64
	}{
		{"no offset", 0.5, 0, 0.5},
		{"shifted south", 0.5, 0.2, 0.3},
		{"pole reflection north", math.Pi / 2, -0.3, math.Pi - (math.Pi/2 + 0.3)},
		{"pole reflection south", -math.Pi / 2, 0.3, -math.Pi + (math.Pi/2 + 0.3)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := sim.tropicalLatitude(tc.latitude, tc.equator)
			if math.Abs(got-tc.want) > 1e-12 {
				t.Errorf("tropicalLatitude(%g, %g) = %g, want %g",
					tc.latitude, tc.equator, got, tc.want)
			}
			if got < -math.Pi/2-1e-12 || got > math.Pi/2+1e-12 {
				t.Errorf("result %g outside [-pi/2, pi/2]", got)
			}
		})
	}
}

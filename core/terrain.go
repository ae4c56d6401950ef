package core

import (
	"math"
	"sort"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// TerrainParams controls procedural surface generation.
type TerrainParams struct {
	Seed          int64
	OceanFraction float64 // fraction of tiles below sea level
	MaxElevation  float64 // meters, highest land relief
	OceanDepth    float64 // meters, deepest ocean floor
	NoiseScale    float64 // base noise frequency on the unit sphere
	Octaves       int
}

// DefaultTerrainParams returns an Earth-like terrain configuration.
func DefaultTerrainParams(seed int64) TerrainParams {
	return TerrainParams{
		Seed:          seed,
		OceanFraction: 0.62,
		MaxElevation:  6500,
		OceanDepth:    5500,
		NoiseScale:    1.6,
		Octaves:       5,
	}
}

// AssignTerrain writes elevations and terrain classes onto the grid using
// seeded simplex noise. Sea level is chosen so that the requested fraction
// of tiles ends up under water; corner elevations come from the same noise
// field so rivers see a surface consistent with the tiles they drain.
func AssignTerrain(g *Grid, params TerrainParams) {
	noise := opensimplex.NewNormalized(params.Seed)

	sample := func(p [3]float64) float64 {
		var value, amplitude, total float64
		amplitude = 1
		freq := params.NoiseScale
		for o := 0; o < params.Octaves; o++ {
			value += amplitude * noise.Eval3(p[0]*freq, p[1]*freq, p[2]*freq)
			total += amplitude
			amplitude *= 0.5
			freq *= 2
		}
		return value / total // 0..1
	}

	raw := make([]float64, len(g.Tiles))
	for i := range g.Tiles {
		t := &g.Tiles[i]
		raw[i] = sample([3]float64{t.Position.X(), t.Position.Y(), t.Position.Z()})
	}

	// Sea level is the quantile of the noise field at the ocean fraction.
	sorted := append([]float64(nil), raw...)
	sort.Float64s(sorted)
	q := int(params.OceanFraction * float64(len(sorted)))
	if q >= len(sorted) {
		q = len(sorted) - 1
	}
	seaLevel := sorted[q]

	toElevation := func(v float64) float64 {
		if v >= seaLevel {
			span := 1 - seaLevel
			if span <= 0 {
				return 0
			}
			// Squared ramp keeps most land low with sparse high relief.
			n := (v - seaLevel) / span
			return n * n * params.MaxElevation
		}
		n := (seaLevel - v) / math.Max(seaLevel, 1e-9)
		return -n * params.OceanDepth
	}

	for i := range g.Tiles {
		g.Tiles[i].Elevation = toElevation(raw[i])
		if g.Tiles[i].Elevation < 0 {
			g.Tiles[i].Terrain = TerrainWater
		} else {
			g.Tiles[i].Terrain = TerrainLand
		}
	}

	// Land tiles bordering water become coast.
	for i := range g.Tiles {
		t := &g.Tiles[i]
		if t.Terrain != TerrainLand {
			continue
		}
		for _, n := range t.Tiles {
			if g.Tiles[n].Terrain == TerrainWater {
				t.Terrain = TerrainCoast
				break
			}
		}
	}

	for i := range g.Tiles {
		g.Tiles[i].Friction = frictionFor(&g.Tiles[i])
	}

	for i := range g.Corners {
		c := &g.Corners[i]
		c.Elevation = toElevation(sample([3]float64{c.Position.X(), c.Position.Y(), c.Position.Z()}))
	}
}

// frictionFor gives the wind resistance coefficient of a tile. Open water is
// smooth; rough high terrain slows surface wind considerably.
func frictionFor(t *Tile) float64 {
	switch t.Terrain {
	case TerrainWater:
		return 0.10
	case TerrainCoast:
		return 0.25
	default:
		f := 0.35 + t.Elevation/20000
		if f > 0.65 {
			f = 0.65
		}
		return f
	}
}

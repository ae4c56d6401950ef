package climate

import (
	"math"

	"planetgen/atmosphere"
	"planetgen/core"
)

// advectHumidity is the precipitation stage: an iterative fixed-point
// relaxation that pushes humidity along the per-edge air-flow field until
// tiles stop changing. Ocean tiles are a supersaturated source (damped under
// ice cover); land tiles start from the previous season and are visited
// through a FIFO worklist. A tile whose humidity moves by more than the
// tolerance re-enqueues its downwind land neighbors, each tile at most
// AdvectionVisitCap times — the cap trades exactness for a guaranteed
// bounded solve and must not be removed.
func (s *Simulator) advectHumidity(season *Season, prev *Season) {
	seconds := s.elapsedDays(season) * 86400

	queue := make([]int, 0, len(s.grid.Tiles))
	inQueue := make([]bool, len(s.grid.Tiles))
	visits := make([]int, len(s.grid.Tiles))

	for i := range s.grid.Tiles {
		tile := &s.grid.Tiles[i]
		clim := &season.Tiles[i]
		if tile.Terrain == core.TerrainWater {
			s.seedOceanHumidity(clim)
			continue
		}
		s.seedLandHumidity(clim, prev, i)
		queue = append(queue, i)
		inQueue[i] = true
		visits[i] = 1
	}

	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]
		inQueue[idx] = false

		change := s.relaxTile(season, idx, seconds)
		if change <= s.params.AdvectionTolerance {
			continue
		}
		tile := &s.grid.Tiles[idx]
		for _, edgeIdx := range tile.Edges {
			if s.flowOutOf(season, edgeIdx, idx) <= 0 {
				continue
			}
			n := s.grid.Edges[edgeIdx].OtherTile(idx)
			if !s.grid.Tiles[n].Terrain.IsLand() {
				continue
			}
			if inQueue[n] || visits[n] >= s.params.AdvectionVisitCap {
				continue
			}
			queue = append(queue, n)
			inQueue[n] = true
			visits[n]++
		}
	}

	// Oceans carried a deliberately supersaturated baseline as the source
	// term; shed the excess as over-water precipitation so every column ends
	// the stage at or below saturation.
	forEachChunk(len(s.grid.Tiles), s.workers, func(start, end int) {
		for i := start; i < end; i++ {
			if s.grid.Tiles[i].Terrain == core.TerrainWater {
				s.condenseColumn(&season.Tiles[i], 1.0)
			}
		}
	})
}

// seedOceanHumidity sets every layer of a water tile to the saturated
// baseline. Sea ice caps the water surface and chokes off evaporation.
func (s *Simulator) seedOceanHumidity(clim *TileClimate) {
	cover := clim.SeaIce / s.params.IceInsulation
	if cover > 0.85 {
		cover = 0.85
	}
	factor := s.params.OceanSupersaturation * (1 - cover)
	for l := range clim.Air {
		clim.Air[l].AbsoluteHumidity = clim.Air[l].SaturationHumidity * factor
	}
}

// seedLandHumidity carries the previous season's humidity into the new
// column as the relaxation starting point. Columns are matched layer by
// layer; a cold start begins dry.
func (s *Simulator) seedLandHumidity(clim *TileClimate, prev *Season, idx int) {
	if prev == nil {
		return
	}
	prevAir := prev.Tiles[idx].Air
	for l := range clim.Air {
		if l >= len(prevAir) {
			break
		}
		h := prevAir[l].AbsoluteHumidity
		if h > clim.Air[l].SaturationHumidity && clim.Air[l].SaturationHumidity > 0 {
			h = clim.Air[l].SaturationHumidity
		}
		clim.Air[l].AbsoluteHumidity = h
	}
}

// relaxTile performs one mass-balance update of a land tile's column against
// its neighbors and condenses any excess vapor. It returns the proportional
// humidity change of the column.
func (s *Simulator) relaxTile(season *Season, idx int, seconds float64) float64 {
	tile := &s.grid.Tiles[idx]
	clim := &season.Tiles[idx]

	var totalIn, totalOut float64
	type inflow struct {
		neighbor int
		rate     float64
	}
	inflows := make([]inflow, 0, len(tile.Edges))
	for _, edgeIdx := range tile.Edges {
		flow := s.flowOutOf(season, edgeIdx, idx)
		if flow > 0 {
			totalOut += flow
		} else if flow < 0 {
			inflows = append(inflows, inflow{s.grid.Edges[edgeIdx].OtherTile(idx), -flow})
			totalIn += -flow
		}
	}

	var before, delta float64
	for l := range clim.Air {
		before += clim.Air[l].AbsoluteHumidity
	}
	if totalIn == 0 && before == 0 {
		// Nothing arriving and nothing here; the update is a no-op.
		return 0
	}

	// Exchange volume across the season versus the tile's own air volume;
	// the layer height cancels out of the blend.
	exchanged := totalIn * seconds
	retained := tile.Area

	for l := range clim.Air {
		cell := &clim.Air[l]
		old := cell.AbsoluteHumidity

		// Inflow humidity is the flow-weighted mean of the upwind columns,
		// each inflow contributing its share of the total inbound flux.
		var upwind float64
		if totalIn > 0 {
			for _, in := range inflows {
				nAir := season.Tiles[in.neighbor].Air
				if l < len(nAir) {
					upwind += nAir[l].AbsoluteHumidity * (in.rate / totalIn)
				}
			}
		}

		next := old
		if exchanged > 0 {
			next = (old*retained + upwind*exchanged) / (retained + exchanged)
		}
		// Net export beyond what inflow replaces dries the column.
		if net := (totalOut - totalIn) * seconds; net > 0 {
			next *= retained / (retained + net)
		}
		cell.AbsoluteHumidity = next
		delta += math.Abs(next - old)
	}

	delta += s.condenseColumn(clim, s.params.CondensationFactor)

	if before < 1e-12 {
		before = 1e-12
	}
	return delta / before
}

// condenseColumn rains or snows out whatever vapor a column holds beyond
// saturation, scaled by the condensation factor, and caps every layer at its
// saturation humidity. It returns the total humidity removed.
func (s *Simulator) condenseColumn(clim *TileClimate, factor float64) float64 {
	var removed float64
	snow := clim.Temperature <= atmosphere.FreezingPoint

	for l := range clim.Air {
		cell := &clim.Air[l]
		if cell.AbsoluteHumidity <= 0 {
			continue
		}

		if cell.SaturationVaporPressure == 0 {
			// Above the tropopause all vapor has already precipitated.
			s.addPrecipitation(clim, cell.AbsoluteHumidity*atmosphere.LayerHeight, snow)
			removed += cell.AbsoluteHumidity
			cell.AbsoluteHumidity = 0
			continue
		}

		// Mixing ratio against dry air, condensing the excess over the
		// saturation mixing ratio.
		dry := cell.Density - cell.AbsoluteHumidity
		if dry < 1e-9 {
			dry = 1e-9
		}
		ratio := cell.AbsoluteHumidity / dry
		if ratio > cell.SaturationMixingRatio {
			excess := (ratio - cell.SaturationMixingRatio) * dry * factor
			if excess > cell.AbsoluteHumidity {
				excess = cell.AbsoluteHumidity
			}
			s.addPrecipitation(clim, excess*atmosphere.LayerHeight, snow)
			cell.AbsoluteHumidity -= excess
			removed += excess
		}

		// Hard ceiling: a layer never holds more than saturation.
		if cell.AbsoluteHumidity > cell.SaturationHumidity {
			over := cell.AbsoluteHumidity - cell.SaturationHumidity
			s.addPrecipitation(clim, over*atmosphere.LayerHeight, snow)
			cell.AbsoluteHumidity = cell.SaturationHumidity
			removed += over
		}
	}
	return removed
}

// addPrecipitation books condensed mass (kg/m^2) as rain or snow.
func (s *Simulator) addPrecipitation(clim *TileClimate, mass float64, snow bool) {
	clim.Precipitation += mass
	if snow {
		clim.Snowfall += mass
	}
}

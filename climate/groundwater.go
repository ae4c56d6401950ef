package climate

import (
	"planetgen/atmosphere"
)

// updateGroundWater blends snow accumulation against temperature-gated melt
// and turns the residual surface water into a runoff discharge for the river
// tracer. Runoff is smoothed against the previous season with a 3:1 weight
// toward whichever value is larger — aquifers drain slowly, so both wet and
// dry extremes persist longer than a symmetric average would allow.
func (s *Simulator) updateGroundWater(season *Season, prev *Season) {
	days := s.elapsedDays(season)
	seconds := days * 86400

	forEachChunk(len(s.grid.Tiles), s.workers, func(start, end int) {
		for i := start; i < end; i++ {
			tile := &s.grid.Tiles[i]
			if !tile.Terrain.IsLand() {
				continue
			}
			clim := &season.Tiles[i]

			var prevSnow float64
			if prev != nil {
				prevSnow = prev.Tiles[i].SnowCover
			}

			var melt float64
			if clim.Temperature > atmosphere.FreezingPoint {
				melt = s.params.SnowMeltRate * (clim.Temperature - atmosphere.FreezingPoint) * days
				if max := prevSnow + clim.Snowfall; melt > max {
					melt = max
				}
			}
			clim.SnowCover = prevSnow + clim.Snowfall - melt
			if clim.SnowCover < 0 {
				clim.SnowCover = 0
			}

			// Liquid water reaching the ground this season: rain plus melt.
			// kg/m^2 is mm of water depth.
			residual := clim.Precipitation - clim.Snowfall + melt
			if residual < 0 {
				residual = 0
			}
			runoff := residual / 1000 * tile.Area * s.params.RunoffScale / seconds

			prevRunoff := runoff // cold start: no history to smooth against
			if prev != nil {
				prevRunoff = prev.Tiles[i].Runoff
			}
			if runoff >= prevRunoff {
				clim.Runoff = (3*runoff + prevRunoff) / 4
			} else {
				clim.Runoff = (runoff + 3*prevRunoff) / 4
			}
		}
	})
}

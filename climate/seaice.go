package climate

import (
	"math"

	"planetgen/atmosphere"
	"planetgen/core"
)

// updateSeaIce grows or melts ice on water tiles. Growth below the
// salt-water freezing point follows the empirical power law of accumulated
// freezing degree-days; melt above it is linear in the warm excess. Ice
// never goes negative and melt never removes more than was there.
func (s *Simulator) updateSeaIce(season *Season, prev *Season) {
	days := s.elapsedDays(season)

	forEachChunk(len(s.grid.Tiles), s.workers, func(start, end int) {
		for i := start; i < end; i++ {
			if s.grid.Tiles[i].Terrain != core.TerrainWater {
				continue
			}
			clim := &season.Tiles[i]

			var prevIce float64
			if prev != nil {
				prevIce = prev.Tiles[i].SeaIce
			}

			t := clim.Temperature
			if t < atmosphere.SaltWaterFreezingPoint {
				degreeDays := (atmosphere.SaltWaterFreezingPoint - t) * days
				growth := s.params.IceGrowthRate * math.Pow(degreeDays, s.params.IceGrowthExponent)
				clim.SeaIce = prevIce + growth
			} else {
				melt := s.params.IceMeltRate * (t - atmosphere.SaltWaterFreezingPoint) * days
				if melt > prevIce {
					melt = prevIce
				}
				clim.SeaIce = prevIce - melt
			}
		}
	})
}

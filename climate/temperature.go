package climate

import (
	"math"
)

// Cache keys round the tropical latitude to ~0.006 degrees. Physically
// identical latitudes must yield bit-identical temperatures within a season,
// and tiles in the same band must share one computation.
const latCacheScale = 1e4

// assignTemperatures gives every tile its surface temperature for the
// season: the latitude-interpolated sea-level value extrapolated to the
// tile's elevation by the lapse rate. Sequential on purpose; the memo map
// is not safe for concurrent writes and dominates the cost anyway.
func (s *Simulator) assignTemperatures(season *Season) {
	for i := range s.grid.Tiles {
		tile := &s.grid.Tiles[i]
		lat := s.tropicalLatitude(tile.Latitude, season.TropicalEquator)
		sea := s.seaLevelTemperature(lat)

		elevation := tile.Elevation
		if elevation < 0 {
			elevation = 0 // water tiles radiate at sea level
		}
		season.Tiles[i].Temperature = s.atmos.TemperatureAtElevation(sea, elevation)
	}
}

// seaLevelTemperature memoizes the latitude interpolation by rounded
// tropical latitude.
func (s *Simulator) seaLevelTemperature(tropicalLat float64) float64 {
	key := int64(math.Round(tropicalLat * latCacheScale))
	if t, ok := s.tempCache[key]; ok {
		return t
	}
	t := s.atmos.SurfaceTemperature(float64(key) / latCacheScale)
	s.tempCache[key] = t
	return t
}

// buildAirColumns constructs each tile's vertical air cell stack seeded by
// the assigned surface temperature and records the bottom cell's pressure as
// the tile's atmospheric pressure. Tiles are independent here, so the stage
// fans out across the worker pool.
func (s *Simulator) buildAirColumns(season *Season) {
	forEachChunk(len(s.grid.Tiles), s.workers, func(start, end int) {
		for i := start; i < end; i++ {
			tile := &s.grid.Tiles[i]
			clim := &season.Tiles[i]
			clim.Air = s.atmos.BuildColumn(tile.Elevation, clim.Temperature)
			if len(clim.Air) > 0 {
				clim.Pressure = clim.Air[0].Pressure
			}
		}
	})
}

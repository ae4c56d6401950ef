package climate

import (
	"math"

	"planetgen/core"
)

// computeWind derives each tile's surface wind from the latitude-band
// pressure gradient, Coriolis deflection and terrain friction, then
// decomposes the flow across the tile's bounding edges into the signed
// air-flow field that drives humidity advection.
func (s *Simulator) computeWind(season *Season) {
	for i := range s.grid.Tiles {
		tile := &s.grid.Tiles[i]
		lat := s.tropicalLatitude(tile.Latitude, season.TropicalEquator)

		force := s.pressureGradient(lat)
		zonal, meridional := circulationCell(lat)

		clim := &season.Tiles[i]
		clim.WindSpeed = force * (1 - tile.Friction)
		clim.WindDirection = math.Atan2(meridional, zonal)

		s.spreadWindAcrossEdges(season, tile, clim)
	}
}

// pressureGradient is the latitude profile of the pressure-gradient force:
// a sharp uplift peak at the tropical equator (the ITCZ band, widened by the
// configured half-width) over a broader three-cell circulation background.
func (s *Simulator) pressureGradient(lat float64) float64 {
	band := math.Abs(lat) / s.params.ITCZHalfWidth
	var itcz float64
	if band < 1 {
		itcz = math.Cos(band * math.Pi / 2)
	}
	cells := 0.5 * math.Abs(math.Cos(3*lat))
	return s.params.WindStrength * (itcz + cells) / 1.5
}

// circulationCell returns the unit zonal/meridional direction of surface
// wind for the three-cell pattern: trade easterlies converging on the
// tropical equator, mid-latitude westerlies, polar easterlies. The latitude
// is already measured from the tropical equator.
func circulationCell(lat float64) (zonal, meridional float64) {
	hemisphere := 1.0
	if lat < 0 {
		hemisphere = -1
	}
	abs := math.Abs(lat)
	switch {
	case abs < math.Pi/6: // Hadley cell
		zonal, meridional = -0.85, -0.53*hemisphere
	case abs < math.Pi/3: // Ferrel cell
		zonal, meridional = 0.87, 0.50*hemisphere
	default: // polar cell
		zonal, meridional = -0.91, -0.42*hemisphere
	}
	return zonal, meridional
}

// spreadWindAcrossEdges projects the tile's wind vector onto each bounding
// edge's outward normal and accumulates the signed flux, in m^3/s of air per
// meter of column height, onto the shared edge array. Each edge receives a
// half-share from both adjacent tiles; the sign convention keeps the two
// contributions coherent.
func (s *Simulator) spreadWindAcrossEdges(season *Season, tile *core.Tile, clim *TileClimate) {
	if clim.WindSpeed <= 0 {
		return
	}
	east, north := core.TangentFrame(tile.Position)
	wind := east.Mul(math.Cos(clim.WindDirection)).
		Add(north.Mul(math.Sin(clim.WindDirection))).
		Mul(clim.WindSpeed)

	for k, edgeIdx := range tile.Edges {
		edge := &s.grid.Edges[edgeIdx]
		a := s.grid.Corners[tile.Corners[k]].Position
		b := s.grid.Corners[tile.Corners[(k+1)%len(tile.Corners)]].Position

		mid := a.Add(b).Mul(0.5)
		outward := mid.Sub(tile.Position)
		// Strip the radial component so the normal lies in the surface.
		outward = outward.Sub(tile.Position.Mul(outward.Dot(tile.Position)))
		if outward.Len() < 1e-12 {
			continue
		}
		outward = outward.Normalize()

		flux := wind.Dot(outward) * edge.Length
		season.AirFlow[edgeIdx] += 0.5 * flux * edge.Sign(tile.Index)
	}
}

// flowOutOf resolves an edge's signed air flow relative to one of its tiles:
// positive means air leaves the tile across that edge.
func (s *Simulator) flowOutOf(season *Season, edgeIdx, tileIdx int) float64 {
	edge := &s.grid.Edges[edgeIdx]
	return season.AirFlow[edgeIdx] * edge.Sign(tileIdx)
}

package atmosphere

import "math"

// AirCell is one discrete vertical layer of atmosphere above a tile. Cells
// are ephemeral: they are rebuilt every season and only the lowest cell's
// absolute humidity and pressure survive into the persisted climate record.
type AirCell struct {
	Elevation   float64 // m above datum
	Temperature float64 // K
	Pressure    float64 // kPa
	Density     float64 // kg/m^3

	AbsoluteHumidity        float64 // kg/m^3
	SaturationVaporPressure float64 // kPa
	SaturationHumidity      float64 // kg/m^3
	SaturationMixingRatio   float64 // kg water / kg dry air
}

// BuildColumn constructs the bottom-up stack of air layers above a surface
// cell. Generation stops at the fixed layer cap or as soon as a layer's
// saturation vapor pressure has decayed to nothing (at or above the
// tropopause): any vapor that high has already precipitated out, so higher
// layers carry no information.
func (m *Model) BuildColumn(surfaceElevation, surfaceTemperature float64) []AirCell {
	if surfaceElevation < 0 {
		surfaceElevation = 0
	}
	cells := make([]AirCell, 0, MaxLayers)
	moist := false

	for i := 0; i < MaxLayers; i++ {
		elevation := surfaceElevation + float64(i)*LayerHeight

		lapse := DryLapseRate
		if moist {
			lapse = MoistLapseRate
		}
		temperature := surfaceTemperature - lapse*float64(i)*LayerHeight
		if temperature < m.EquilibriumTemp && elevation >= m.Top {
			temperature = m.EquilibriumTemp
		}
		if temperature <= 0 {
			break
		}

		pressure := m.PressureAtElevation(temperature, elevation)
		cell := AirCell{
			Elevation:   elevation,
			Temperature: temperature,
			Pressure:    pressure,
			Density:     pressure * 1000 / (GasConstantAir * temperature),
		}

		vp := SaturationVaporPressure(temperature)
		if elevation >= Tropopause || vp < 1e-9 {
			vp = 0
		}
		// Vapor can never exceed the total pressure; clamp just below it so
		// the mixing ratio stays finite and positive.
		if vp > pressure {
			vp = pressure * 0.99999
		}
		cell.SaturationVaporPressure = vp
		if vp > 0 {
			cell.SaturationHumidity = vp * 1000 / (GasConstantWater * temperature)
			cell.SaturationMixingRatio = 0.6219907 * vp / (pressure - vp)
		}

		cells = append(cells, cell)
		if vp == 0 {
			break
		}
		moist = vp > 1e-6
	}
	return cells
}

// ColumnVaporMass integrates a column's absolute humidity over its layer
// heights, giving the precipitable water mass per square meter.
func ColumnVaporMass(cells []AirCell) float64 {
	var mass float64
	for i := range cells {
		mass += cells[i].AbsoluteHumidity * LayerHeight
	}
	return mass
}

// RelativeHumidity returns the cell's humidity as a fraction of saturation.
func RelativeHumidity(c *AirCell) float64 {
	if c.SaturationHumidity <= 0 {
		return 0
	}
	return math.Min(c.AbsoluteHumidity/c.SaturationHumidity, 1)
}

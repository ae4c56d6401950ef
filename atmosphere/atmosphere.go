// Package atmosphere models planet-wide atmospheric properties and the
// discrete vertical air columns built above individual surface cells. All
// quantities are deterministic pure functions of the model state; pressures
// are carried in kPa throughout.
package atmosphere

import (
	"math"

	"planetgen/core"
)

// Physical constants shared by the column and surface models.
const (
	FreezingPoint          = 273.15             // K, fresh water
	SaltWaterFreezingPoint = FreezingPoint - 1.8 // K
	GasConstantAir         = 287.058            // J/(kg K), dry air
	GasConstantWater       = 461.5              // J/(kg K), water vapor

	DryLapseRate   = 0.0098 // K/m
	MoistLapseRate = 0.0049 // K/m

	LayerHeight = 2000.0  // m per air cell
	Tropopause  = 20000.0 // m, saturation vapor pressure treated as zero above
	MaxLayers   = 12

	// Pressure below this is considered the top of the atmosphere.
	topPressure = 1e-4 // kPa
)

// Model holds the planet-wide atmospheric state derived from composition
// and orbit. It supplies every per-tile column computation with its inputs.
type Model struct {
	SurfacePressure  float64 // kPa at datum
	ScaleHeight      float64 // m
	GreenhouseFactor float64
	Gravity          float64 // m/s^2
	EquilibriumTemp  float64 // K, blackbody at the orbit
	Top              float64 // m, effective top of the atmosphere

	EquatorTemp float64 // K, sea-level surface temperature at the solar equator
	PolarTemp   float64 // K, sea-level surface temperature at the poles
}

// NewModel derives the atmospheric state from generated planet parameters.
func NewModel(p *core.Planet) *Model {
	m := &Model{
		SurfacePressure: p.SurfacePressure,
		Gravity:         p.Gravity,
		EquilibriumTemp: p.EquilibriumTemp,
	}
	m.GreenhouseFactor = greenhouseFactor(p.GreenhousePotential, p.SurfacePressure)

	meanTemp := p.EquilibriumTemp * m.GreenhouseFactor
	m.ScaleHeight = GasConstantAir * meanTemp / p.Gravity
	m.Top = m.ScaleHeight * math.Log(p.SurfacePressure/topPressure)

	// Insolation factors: the polar sun crosses a much longer air path, so
	// transmission losses grow with the atmospheric mass fraction. The
	// quartic root converts absorbed flux into temperature.
	massFraction := p.SurfacePressure / 101.325
	equatorInsolation := math.Exp(-0.085 * massFraction * airMassAtLatitude(0))
	polarInsolation := math.Exp(-0.085 * massFraction * airMassAtLatitude(math.Pi/2))

	m.EquatorTemp = meanTemp * math.Pow(equatorInsolation, 0.25) * 1.12
	m.PolarTemp = meanTemp * math.Pow(polarInsolation, 0.25) * 0.70
	return m
}

// greenhouseFactor is the empirical warming multiplier as a function of
// total greenhouse-gas potential and surface pressure. Zero potential means
// no greenhouse warming at all.
func greenhouseFactor(potential, pressure float64) float64 {
	if potential <= 0 {
		return 1
	}
	f := 0.933835 + 0.0441533*math.Exp(1.79077*potential)*(1.11169+math.Log(pressure))
	if f < 1 {
		return 1
	}
	return f
}

// airMassAtLatitude approximates the relative optical path length of
// sunlight reaching the surface at the given latitude of peak insolation.
func airMassAtLatitude(lat float64) float64 {
	cos := math.Cos(lat)
	// Kasten-Young style floor keeps the polar path finite.
	return 1 / (cos + 0.025*math.Pow(96.08-lat*180/math.Pi, -1.634))
}

// SurfaceTemperature returns the sea-level surface temperature at a latitude
// measured from the tropical equator, interpolating between the equatorial
// and polar endpoints.
func (m *Model) SurfaceTemperature(latitude float64) float64 {
	c := math.Cos(latitude)
	return m.PolarTemp + (m.EquatorTemp-m.PolarTemp)*c
}

// TemperatureAtElevation extrapolates a surface temperature up the column by
// the dry lapse rate. Above the top of the atmosphere there is nothing left
// to hold heat and the blackbody equilibrium temperature applies.
func (m *Model) TemperatureAtElevation(surfaceTemp, elevation float64) float64 {
	if elevation >= m.Top {
		return m.EquilibriumTemp
	}
	if elevation < 0 {
		elevation = 0
	}
	return surfaceTemp - DryLapseRate*elevation
}

// PressureAtElevation applies the simplified barometric formula for the
// pressure at an elevation given the temperature of the air there.
func (m *Model) PressureAtElevation(temperature, elevation float64) float64 {
	if temperature <= 0 {
		return 0
	}
	if elevation < 0 {
		elevation = 0
	}
	return m.SurfacePressure * math.Exp(-m.Gravity*elevation/(GasConstantAir*temperature))
}

// SaturationVaporPressure returns the Magnus-type saturation vapor pressure
// in kPa at the given temperature, with separate empirical constants over
// water and over ice.
func SaturationVaporPressure(temperature float64) float64 {
	t := temperature - FreezingPoint
	if t >= 0 {
		return 0.61121 * math.Exp((18.678-t/234.5)*(t/(257.14+t)))
	}
	return 0.61115 * math.Exp((23.036-t/333.7)*(t/(279.82+t)))
}

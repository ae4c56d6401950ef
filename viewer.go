package main

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"planetgen/climate"
	"planetgen/config"
	"planetgen/core"
)

type viewField int

const (
	fieldTemperature viewField = iota
	fieldPrecipitation
	fieldWind
	fieldSnowIce
	fieldElevation
)

func (f viewField) String() string {
	switch f {
	case fieldTemperature:
		return "Temperature"
	case fieldPrecipitation:
		return "Precipitation"
	case fieldWind:
		return "Wind speed"
	case fieldSnowIce:
		return "Snow / sea ice"
	case fieldElevation:
		return "Elevation"
	}
	return "?"
}

// runViewer opens an equirectangular map of the simulated climate. Keys 1-5
// switch the displayed field, left/right step through the seasons, R
// toggles the river overlay.
func runViewer(planet *core.Planet, year *climate.Year, settings config.ViewerSettings) {
	rl.InitWindow(int32(settings.Width), int32(settings.Height), "planetgen climate")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	grid := planet.Grid
	field := fieldTemperature
	seasonIdx := 0
	showRivers := true

	w := float32(settings.Width)
	h := float32(settings.Height)
	// Marker size shrinks with tile density.
	marker := w / float32(4*math.Sqrt(float64(len(grid.Tiles))))
	if marker < 1.5 {
		marker = 1.5
	}

	project := func(lat, lon float64) rl.Vector2 {
		return rl.Vector2{
			X: float32((lon + math.Pi) / (2 * math.Pi) * float64(w)),
			Y: float32((math.Pi/2 - lat) / math.Pi * float64(h)),
		}
	}

	for !rl.WindowShouldClose() {
		switch {
		case rl.IsKeyPressed(rl.KeyOne):
			field = fieldTemperature
		case rl.IsKeyPressed(rl.KeyTwo):
			field = fieldPrecipitation
		case rl.IsKeyPressed(rl.KeyThree):
			field = fieldWind
		case rl.IsKeyPressed(rl.KeyFour):
			field = fieldSnowIce
		case rl.IsKeyPressed(rl.KeyFive):
			field = fieldElevation
		case rl.IsKeyPressed(rl.KeyRight):
			seasonIdx = (seasonIdx + 1) % len(year.Seasons)
		case rl.IsKeyPressed(rl.KeyLeft):
			seasonIdx = (seasonIdx + len(year.Seasons) - 1) % len(year.Seasons)
		case rl.IsKeyPressed(rl.KeyR):
			showRivers = !showRivers
		}

		season := year.Seasons[seasonIdx]

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)

		for i := range grid.Tiles {
			t := &grid.Tiles[i]
			pos := project(t.Latitude, t.Longitude)
			rl.DrawCircleV(pos, marker, tileColor(field, t, &season.Tiles[i]))
		}

		if showRivers {
			for e := range grid.Edges {
				if season.RiverDir[e] == 0 {
					continue
				}
				a := &grid.Corners[grid.Edges[e].Corners[0]]
				b := &grid.Corners[grid.Edges[e].Corners[1]]
				// Skip segments wrapping the date line.
				if math.Abs(a.Longitude-b.Longitude) > math.Pi {
					continue
				}
				rl.DrawLineV(project(a.Latitude, a.Longitude), project(b.Latitude, b.Longitude), rl.SkyBlue)
			}
		}

		rl.DrawText(fmt.Sprintf("%s | season %d/%d | 1-5 field, arrows season, R rivers",
			field, seasonIdx+1, len(year.Seasons)), 10, 10, 18, rl.RayWhite)
		rl.EndDrawing()
	}
}

// tileColor maps a climate value onto the display ramp for the field.
func tileColor(field viewField, t *core.Tile, c *climate.TileClimate) rl.Color {
	switch field {
	case fieldTemperature:
		// 220 K..320 K from blue to red.
		f := clampF((c.Temperature-220)/100, 0, 1)
		return rl.Color{R: uint8(255 * f), G: 40, B: uint8(255 * (1 - f)), A: 255}
	case fieldPrecipitation:
		f := clampF(c.Precipitation/400, 0, 1)
		return rl.Color{R: uint8(30 * (1 - f)), G: uint8(90 + 130*f), B: uint8(120 + 135*f), A: 255}
	case fieldWind:
		f := clampF(c.WindSpeed/12, 0, 1)
		return rl.Color{R: uint8(255 * f), G: uint8(255 * f), B: 60, A: 255}
	case fieldSnowIce:
		if t.Terrain == core.TerrainWater {
			f := clampF(c.SeaIce/3, 0, 1)
			return rl.Color{R: uint8(40 + 215*f), G: uint8(60 + 195*f), B: 255, A: 255}
		}
		f := clampF(c.SnowCover/200, 0, 1)
		return rl.Color{R: uint8(60 + 195*f), G: uint8(60 + 195*f), B: uint8(60 + 195*f), A: 255}
	default:
		if t.Terrain == core.TerrainWater {
			f := clampF(1+t.Elevation/6000, 0, 1)
			return rl.Color{R: 0, G: uint8(40 + 60*f), B: uint8(120 + 100*f), A: 255}
		}
		f := clampF(t.Elevation/6000, 0, 1)
		return rl.Color{R: uint8(40 + 180*f), G: uint8(120 - 40*f), B: 40, A: 255}
	}
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

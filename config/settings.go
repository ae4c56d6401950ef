package config

import (
	"encoding/json"
	"fmt"
	"os"
)

type Settings struct {
	Simulation SimulationSettings `json:"simulation"`
	Server     ServerSettings     `json:"server"`
	Viewer     ViewerSettings     `json:"viewer"`
}

type SimulationSettings struct {
	Seed           int64  `json:"seed"`
	Subdivisions   int    `json:"subdivisions"`
	SeasonsPerYear int    `json:"seasonsPerYear"`
	PlanetKind     string `json:"planetKind"`
	StarKind       string `json:"starKind"`
}

type ServerSettings struct {
	Port             int `json:"port"`
	UpdateIntervalMs int `json:"updateIntervalMs"`
}

type ViewerSettings struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Load reads settings from the given JSON file, falling back to defaults
// when the file is absent.
func Load(path string) (Settings, error) {
	s := Settings{
		Simulation: SimulationSettings{
			Seed:           1,
			Subdivisions:   5,
			SeasonsPerYear: 4,
			PlanetKind:     "terrestrial",
			StarKind:       "main sequence",
		},
		Server: ServerSettings{
			Port:             8080,
			UpdateIntervalMs: 250,
		},
		Viewer: ViewerSettings{
			Width:  1280,
			Height: 720,
		},
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, err
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(&s); err != nil {
		return s, fmt.Errorf("parsing %s: %w", path, err)
	}
	return s, nil
}

// ApproximateTileCount reports the tile count a subdivision level produces,
// useful for startup logs. The dual of a k-times subdivided icosahedron has
// 10*4^k + 2 tiles.
func ApproximateTileCount(subdivisions int) int {
	count := 10
	for i := 0; i < subdivisions; i++ {
		count *= 4
	}
	return count + 2
}

package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"strings"

	"planetgen/atmosphere"
	"planetgen/climate"
	"planetgen/config"
	"planetgen/core"
)

func main() {
	var (
		settingsPath = flag.String("settings", "settings.json", "Settings file")
		seed         = flag.Int64("seed", 0, "Generation seed (overrides settings when non-zero)")
		subdivisions = flag.Int("subdivisions", -1, "Icosahedron subdivision level (overrides settings when >= 0)")
		seasons      = flag.Int("seasons", 0, "Seasons per year (overrides settings when > 0)")
		years        = flag.Int("years", 1, "Years to simulate up front")
		serve        = flag.Bool("serve", false, "Start the websocket export server")
		view         = flag.Bool("view", false, "Open the native climate map viewer")
		port         = flag.Int("port", 0, "Server port (overrides settings when > 0)")
	)
	flag.Parse()

	settings, err := config.Load(*settingsPath)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	if *seed != 0 {
		settings.Simulation.Seed = *seed
	}
	if *subdivisions >= 0 {
		settings.Simulation.Subdivisions = *subdivisions
	}
	if *seasons > 0 {
		settings.Simulation.SeasonsPerYear = *seasons
	}
	if *port > 0 {
		settings.Server.Port = *port
	}

	starKind, err := parseStarKind(settings.Simulation.StarKind)
	if err != nil {
		log.Fatalf("%v", err)
	}
	planetKind, err := parsePlanetKind(settings.Simulation.PlanetKind)
	if err != nil {
		log.Fatalf("%v", err)
	}

	fmt.Println("=== Procedural Planet Climate Generator ===")
	fmt.Printf("Seed: %d\n", settings.Simulation.Seed)
	fmt.Printf("Grid: level %d (~%d tiles)\n",
		settings.Simulation.Subdivisions,
		config.ApproximateTileCount(settings.Simulation.Subdivisions))
	fmt.Printf("Star: %s, Planet: %s\n", starKind, planetKind)

	rng := rand.New(rand.NewSource(settings.Simulation.Seed))
	star := core.GenerateStar(starKind, rng)
	planet, err := core.GeneratePlanet(planetKind, star, settings.Simulation.Seed, settings.Simulation.Subdivisions)
	if err != nil {
		log.Fatalf("Planet generation failed: %v", err)
	}

	atmos := atmosphere.NewModel(planet)
	fmt.Printf("Surface pressure: %.1f kPa, greenhouse factor %.3f\n",
		atmos.SurfacePressure, atmos.GreenhouseFactor)
	fmt.Printf("Equator %.1f K, poles %.1f K\n", atmos.EquatorTemp, atmos.PolarTemp)

	params := climate.DefaultParams(planet.AxialTilt, planet.OrbitalPeriod)
	sim := climate.NewSimulator(planet.Grid, atmos, params)
	orch := climate.NewOrchestrator(sim, settings.Simulation.SeasonsPerYear)
	orch.Verbose = true

	var year *climate.Year
	var prev *climate.Season
	for y := 0; y < *years; y++ {
		year = orch.RunYear(prev)
		prev = year.Seasons[len(year.Seasons)-1]
		fmt.Printf("Year %d: global mean %.1f K, mean precipitation %.0f kg/m^2\n",
			y+1, year.Summary.GlobalMeanTemp, year.Summary.GlobalMeanPrecip)
	}

	if *serve {
		srv := newClimateServer(planet, year, settings.Server)
		if *view {
			go func() {
				log.Fatal(srv.run())
			}()
		} else {
			log.Fatal(srv.run())
		}
	}
	if *view {
		runViewer(planet, year, settings.Viewer)
	}
}

func parseStarKind(name string) (core.StarKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "red dwarf":
		return core.StarRedDwarf, nil
	case "main sequence", "":
		return core.StarMainSequence, nil
	case "giant":
		return core.StarGiant, nil
	case "white dwarf":
		return core.StarWhiteDwarf, nil
	}
	return 0, fmt.Errorf("unknown star kind %q", name)
}

func parsePlanetKind(name string) (core.PlanetKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "terrestrial", "":
		return core.PlanetTerrestrial, nil
	case "ocean":
		return core.PlanetOcean, nil
	case "desert":
		return core.PlanetDesert, nil
	case "ice giant":
		return core.PlanetIceGiant, nil
	case "gas giant":
		return core.PlanetGasGiant, nil
	}
	return 0, fmt.Errorf("unknown planet kind %q", name)
}

package climate

import (
	"log"
)

// Year is a completed orbital cycle: its seasons in order plus aggregate
// summaries for callers that only want the yearly picture.
type Year struct {
	Seasons []*Season
	Summary YearSummary
}

// YearSummary aggregates the seasonal arrays. Per-tile slices are indexed
// identically to the grid's tile array.
type YearSummary struct {
	MeanTemperature    []float64 // K
	TotalPrecipitation []float64 // kg/m^2
	PeakSnowCover      []float64 // kg/m^2
	PeakSeaIce         []float64 // m

	GlobalMeanTemp   float64
	GlobalMeanPrecip float64
}

// Orchestrator drives the simulator through whole years, threading each
// season's state into the next. Running it twice over the same inputs
// yields bit-identical results.
type Orchestrator struct {
	Simulator      *Simulator
	SeasonsPerYear int

	// Verbose logs one progress line per finished season.
	Verbose bool
}

// NewOrchestrator wraps a simulator with a season schedule.
func NewOrchestrator(sim *Simulator, seasonsPerYear int) *Orchestrator {
	if seasonsPerYear < 1 {
		seasonsPerYear = 1
	}
	return &Orchestrator{Simulator: sim, SeasonsPerYear: seasonsPerYear}
}

// RunYear simulates one full year. previous is the final season of the prior
// year for continuity, or nil for a cold start.
func (o *Orchestrator) RunYear(previous *Season) *Year {
	year := &Year{Seasons: make([]*Season, 0, o.SeasonsPerYear)}

	duration := 1.0 / float64(o.SeasonsPerYear)
	prev := previous
	for i := 0; i < o.SeasonsPerYear; i++ {
		fraction := (float64(i) + 0.5) * duration
		season := o.Simulator.Simulate(i, fraction, duration, prev)
		year.Seasons = append(year.Seasons, season)
		prev = season
		if o.Verbose {
			log.Printf("season %d/%d done (tropical equator %.3f rad)",
				i+1, o.SeasonsPerYear, season.TropicalEquator)
		}
	}

	year.Summary = summarize(year.Seasons)
	return year
}

// summarize folds the seasonal records into per-tile and global aggregates.
func summarize(seasons []*Season) YearSummary {
	if len(seasons) == 0 {
		return YearSummary{}
	}
	n := len(seasons[0].Tiles)
	s := YearSummary{
		MeanTemperature:    make([]float64, n),
		TotalPrecipitation: make([]float64, n),
		PeakSnowCover:      make([]float64, n),
		PeakSeaIce:         make([]float64, n),
	}

	for _, season := range seasons {
		for i := range season.Tiles {
			c := &season.Tiles[i]
			s.MeanTemperature[i] += c.Temperature
			s.TotalPrecipitation[i] += c.Precipitation
			if c.SnowCover > s.PeakSnowCover[i] {
				s.PeakSnowCover[i] = c.SnowCover
			}
			if c.SeaIce > s.PeakSeaIce[i] {
				s.PeakSeaIce[i] = c.SeaIce
			}
		}
	}

	for i := 0; i < n; i++ {
		s.MeanTemperature[i] /= float64(len(seasons))
		s.GlobalMeanTemp += s.MeanTemperature[i]
		s.GlobalMeanPrecip += s.TotalPrecipitation[i]
	}
	s.GlobalMeanTemp /= float64(n)
	s.GlobalMeanPrecip /= float64(n)
	return s
}

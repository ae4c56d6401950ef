package main

import (
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"planetgen/climate"
	"planetgen/config"
	"planetgen/core"
)

// ClimateData is the compact per-season export sent to clients. Of the full
// air column only the per-layer absolute humidity is retained; everything
// else is recomputable on demand from the summary fields.
type ClimateData struct {
	Type            string  `json:"type"`
	Season          int     `json:"season"`
	SeasonCount     int     `json:"seasonCount"`
	TropicalEquator float64 `json:"tropicalEquator"`

	Temperature   []float64   `json:"temperature"`
	Pressure      []float64   `json:"pressure"`
	Precipitation []float64   `json:"precipitation"`
	Snowfall      []float64   `json:"snowfall"`
	SnowCover     []float64   `json:"snowCover"`
	SeaIce        []float64   `json:"seaIce"`
	Runoff        []float64   `json:"runoff"`
	WindDirection []float64   `json:"windDirection"`
	WindSpeed     []float64   `json:"windSpeed"`
	Humidity      [][]float64 `json:"humidity"` // per tile, per air layer

	AirFlow   []float64 `json:"airFlow"`
	RiverFlow []float64 `json:"riverFlow"`
	RiverDir  []int8    `json:"riverDir"`
	LakeDepth []float64 `json:"lakeDepth"`
}

// GridData describes the static tile graph, sent once per connection.
type GridData struct {
	Type      string       `json:"type"`
	Radius    float64      `json:"radius"`
	Latitude  []float64    `json:"latitude"`
	Longitude []float64    `json:"longitude"`
	Elevation []float64    `json:"elevation"`
	Terrain   []int        `json:"terrain"`
	EdgeTiles [][2]int     `json:"edgeTiles"`
	Corners   [][2]float64 `json:"corners"` // lat/lon per corner
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // development tool, any origin may connect
	},
}

type climateServer struct {
	planet   *core.Planet
	year     *climate.Year
	settings config.ServerSettings

	clientsMutex sync.RWMutex
	clients      map[*websocket.Conn]*sync.Mutex
}

func newClimateServer(planet *core.Planet, year *climate.Year, settings config.ServerSettings) *climateServer {
	return &climateServer{
		planet:   planet,
		year:     year,
		settings: settings,
		clients:  make(map[*websocket.Conn]*sync.Mutex),
	}
}

func (s *climateServer) run() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("web/static/"))))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "web/index.html")
	})

	addr := fmt.Sprintf(":%d", s.settings.Port)
	fmt.Printf("Climate server listening on http://localhost%s\n", addr)
	return http.ListenAndServe(addr, mux)
}

func (s *climateServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}
	defer conn.Close()

	connMutex := &sync.Mutex{}
	s.clientsMutex.Lock()
	s.clients[conn] = connMutex
	s.clientsMutex.Unlock()
	defer func() {
		s.clientsMutex.Lock()
		delete(s.clients, conn)
		s.clientsMutex.Unlock()
	}()

	s.send(conn, connMutex, s.gridData())
	s.send(conn, connMutex, s.seasonData(0))

	// Per-connection playback state: a play message starts a ticker cycling
	// through the seasons at the configured interval, a season selection or
	// a stop message halts it.
	var (
		current  int
		stopPlay chan struct{}
	)
	stop := func() {
		if stopPlay != nil {
			close(stopPlay)
			stopPlay = nil
		}
	}
	defer stop()

	for {
		var msg map[string]interface{}
		if err := conn.ReadJSON(&msg); err != nil {
			log.Println("WebSocket read error:", err)
			return
		}
		if v, ok := msg["season"].(float64); ok {
			stop()
			if idx := int(v); idx >= 0 && idx < len(s.year.Seasons) {
				current = idx
				s.send(conn, connMutex, s.seasonData(idx))
			}
		}
		if v, ok := msg["play"].(bool); ok {
			stop()
			if v {
				stopPlay = make(chan struct{})
				go s.playback(conn, connMutex, current, stopPlay)
			}
		}
	}
}

// playback advances the season once per update interval until stopped or the
// connection dies.
func (s *climateServer) playback(conn *websocket.Conn, mu *sync.Mutex, from int, stop chan struct{}) {
	interval := time.Duration(s.settings.UpdateIntervalMs) * time.Millisecond
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	idx := from
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			idx = (idx + 1) % len(s.year.Seasons)
			s.send(conn, mu, s.seasonData(idx))
		}
	}
}

func (s *climateServer) send(conn *websocket.Conn, mu *sync.Mutex, v interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if err := conn.WriteJSON(v); err != nil {
		log.Println("WebSocket write error:", err)
	}
}

func (s *climateServer) gridData() GridData {
	g := s.planet.Grid
	d := GridData{
		Type:      "grid",
		Radius:    g.Radius,
		Latitude:  make([]float64, len(g.Tiles)),
		Longitude: make([]float64, len(g.Tiles)),
		Elevation: make([]float64, len(g.Tiles)),
		Terrain:   make([]int, len(g.Tiles)),
		EdgeTiles: make([][2]int, len(g.Edges)),
		Corners:   make([][2]float64, len(g.Corners)),
	}
	for i := range g.Tiles {
		t := &g.Tiles[i]
		d.Latitude[i] = t.Latitude
		d.Longitude[i] = t.Longitude
		d.Elevation[i] = t.Elevation
		d.Terrain[i] = int(t.Terrain)
	}
	for i := range g.Edges {
		d.EdgeTiles[i] = g.Edges[i].Tiles
	}
	for i := range g.Corners {
		d.Corners[i] = [2]float64{g.Corners[i].Latitude, g.Corners[i].Longitude}
	}
	return d
}

func (s *climateServer) seasonData(idx int) ClimateData {
	season := s.year.Seasons[idx]
	n := len(season.Tiles)
	d := ClimateData{
		Type:            "climate",
		Season:          idx,
		SeasonCount:     len(s.year.Seasons),
		TropicalEquator: season.TropicalEquator,
		Temperature:     make([]float64, n),
		Pressure:        make([]float64, n),
		Precipitation:   make([]float64, n),
		Snowfall:        make([]float64, n),
		SnowCover:       make([]float64, n),
		SeaIce:          make([]float64, n),
		Runoff:          make([]float64, n),
		WindDirection:   make([]float64, n),
		WindSpeed:       make([]float64, n),
		Humidity:        make([][]float64, n),
		AirFlow:         season.AirFlow,
		RiverFlow:       season.RiverFlow,
		RiverDir:        season.RiverDir,
		LakeDepth:       season.LakeDepth,
	}
	for i := range season.Tiles {
		c := &season.Tiles[i]
		d.Temperature[i] = c.Temperature
		d.Pressure[i] = c.Pressure
		d.Precipitation[i] = c.Precipitation
		d.Snowfall[i] = c.Snowfall
		d.SnowCover[i] = c.SnowCover
		d.SeaIce[i] = c.SeaIce
		d.Runoff[i] = c.Runoff
		d.WindDirection[i] = c.WindDirection
		d.WindSpeed[i] = c.WindSpeed
		humidity := make([]float64, len(c.Air))
		for l := range c.Air {
			humidity[l] = c.Air[l].AbsoluteHumidity
		}
		d.Humidity[i] = humidity
	}
	return d
}

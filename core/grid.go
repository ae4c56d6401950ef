package core

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Terrain classifies the surface of a tile.
type Terrain int

const (
	TerrainWater Terrain = iota
	TerrainLand
	TerrainCoast
)

func (t Terrain) String() string {
	switch t {
	case TerrainWater:
		return "water"
	case TerrainLand:
		return "land"
	case TerrainCoast:
		return "coast"
	}
	return "unknown"
}

// IsLand reports whether the terrain is above sea level.
func (t Terrain) IsLand() bool { return t != TerrainWater }

// Tile is one polygonal surface cell of the planetary grid. All slices are
// ordered counterclockwise around the tile center: Tiles[i] is the neighbor
// across Edges[i], and Corners[i], Corners[i+1] bound Edges[i].
type Tile struct {
	Index     int
	Position  mgl64.Vec3 // unit sphere
	Latitude  float64    // radians
	Longitude float64    // radians
	Elevation float64    // meters above datum
	Terrain   Terrain
	Area      float64 // m^2
	Friction  float64 // wind resistance, 0..1

	Tiles   []int
	Edges   []int
	Corners []int
}

// Edge is the boundary between two tiles, and also the segment connecting
// two corners of the dual graph. Signed quantities on an edge (air flow,
// river flow) are positive when directed from Tiles[0] to Tiles[1], or from
// Corners[0] to Corners[1].
type Edge struct {
	Index   int
	Tiles   [2]int
	Corners [2]int
	Length  float64 // meters
}

// Sign returns the orientation convention for the given tile: +1 when the
// tile is the first adjacent tile, -1 when it is the second.
func (e *Edge) Sign(tile int) float64 {
	if e.Tiles[0] == tile {
		return 1
	}
	return -1
}

// OtherTile returns the adjacent tile across the edge.
func (e *Edge) OtherTile(tile int) int {
	if e.Tiles[0] == tile {
		return e.Tiles[1]
	}
	return e.Tiles[0]
}

// OtherCorner returns the corner at the far end of the edge.
func (e *Edge) OtherCorner(corner int) int {
	if e.Corners[0] == corner {
		return e.Corners[1]
	}
	return e.Corners[0]
}

// Corner is a vertex where three tiles meet. Corners[i] is the adjacent
// corner reached through Edges[i].
type Corner struct {
	Index     int
	Position  mgl64.Vec3
	Latitude  float64
	Longitude float64
	Elevation float64

	Corners []int
	Edges   []int
	Tiles   []int
}

// Grid is the tile/corner/edge topology of a planet surface. It is built
// once, validated, and treated as read-only by the climate layer.
type Grid struct {
	Tiles   []Tile
	Edges   []Edge
	Corners []Corner
	Radius  float64 // meters
}

// EdgeBetweenCorners returns the index of the edge connecting two adjacent
// corners, or -1 when the corners are not adjacent.
func (g *Grid) EdgeBetweenCorners(a, b int) int {
	ca := &g.Corners[a]
	for i, n := range ca.Corners {
		if n == b {
			return ca.Edges[i]
		}
	}
	return -1
}

// LandCorner reports whether the corner touches at least one land tile.
func (g *Grid) LandCorner(c int) bool {
	for _, t := range g.Corners[c].Tiles {
		if g.Tiles[t].Terrain.IsLand() {
			return true
		}
	}
	return false
}

// Validate checks the structural invariants the climate layer depends on.
// Violations here are upstream construction bugs and fail fast instead of
// surfacing deep inside the season pipeline.
func (g *Grid) Validate() error {
	if len(g.Tiles) == 0 {
		return fmt.Errorf("grid has no tiles")
	}
	for i := range g.Tiles {
		t := &g.Tiles[i]
		if len(t.Edges) == 0 {
			return fmt.Errorf("tile %d has no bounding edges", i)
		}
		if len(t.Edges) != len(t.Tiles) || len(t.Edges) != len(t.Corners) {
			return fmt.Errorf("tile %d has mismatched adjacency lists (%d edges, %d tiles, %d corners)",
				i, len(t.Edges), len(t.Tiles), len(t.Corners))
		}
		if t.Area <= 0 {
			return fmt.Errorf("tile %d has non-positive area %g", i, t.Area)
		}
	}
	for i := range g.Corners {
		c := &g.Corners[i]
		if len(c.Corners) == 0 {
			return fmt.Errorf("corner %d has no neighboring corners", i)
		}
		if len(c.Corners) != len(c.Edges) {
			return fmt.Errorf("corner %d has mismatched adjacency lists", i)
		}
	}
	for i := range g.Edges {
		e := &g.Edges[i]
		if e.Tiles[0] == e.Tiles[1] {
			return fmt.Errorf("edge %d joins tile %d to itself", i, e.Tiles[0])
		}
		if e.Length <= 0 {
			return fmt.Errorf("edge %d has non-positive length", i)
		}
	}
	return nil
}

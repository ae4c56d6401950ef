package core

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestBuildGridCounts(t *testing.T) {
	tests := []struct {
		name         string
		subdivisions int
		wantTiles    int
		wantCorners  int
		wantEdges    int
	}{
		{"icosahedron dual", 0, 12, 20, 30},
		{"one subdivision", 1, 42, 80, 120},
		{"two subdivisions", 2, 162, 320, 480},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g, err := BuildGrid(tc.subdivisions, EarthRadius)
			if err != nil {
				t.Fatalf("BuildGrid(%d) error: %v", tc.subdivisions, err)
			}
			if len(g.Tiles) != tc.wantTiles {
				t.Errorf("tiles = %d, want %d", len(g.Tiles), tc.wantTiles)
			}
			if len(g.Corners) != tc.wantCorners {
				t.Errorf("corners = %d, want %d", len(g.Corners), tc.wantCorners)
			}
			if len(g.Edges) != tc.wantEdges {
				t.Errorf("edges = %d, want %d", len(g.Edges), tc.wantEdges)
			}
		})
	}
}

func TestBuildGridErrors(t *testing.T) {
	if _, err := BuildGrid(-1, EarthRadius); err == nil {
		t.Error("negative subdivisions should fail")
	}
	if _, err := BuildGrid(1, 0); err == nil {
		t.Error("zero radius should fail")
	}
}

// TestTileAdjacencyOrdering verifies the counterclockwise adjacency contract:
// Corners[i] and Corners[i+1] bound Edges[i], and Tiles[i] is the neighbor
// across Edges[i].
func TestTileAdjacencyOrdering(t *testing.T) {
	g, err := BuildGrid(2, EarthRadius)
	if err != nil {
		t.Fatal(err)
	}

	for ti := range g.Tiles {
		tile := &g.Tiles[ti]
		n := len(tile.Corners)
		if n != len(tile.Edges) || n != len(tile.Tiles) {
			t.Fatalf("tile %d adjacency lists out of sync", ti)
		}
		if n != 5 && n != 6 {
			t.Errorf("tile %d has %d sides, want 5 or 6", ti, n)
		}

		for i := 0; i < n; i++ {
			e := &g.Edges[tile.Edges[i]]
			a, b := tile.Corners[i], tile.Corners[(i+1)%n]
			if !(e.Corners == [2]int{a, b} || e.Corners == [2]int{b, a}) {
				t.Fatalf("tile %d edge %d: corners %v do not bound %v", ti, i, e.Corners, [2]int{a, b})
			}
			if e.OtherTile(ti) != tile.Tiles[i] {
				t.Fatalf("tile %d edge %d: neighbor mismatch", ti, i)
			}
		}
	}
}

func TestPentagonCount(t *testing.T) {
	g, err := BuildGrid(2, EarthRadius)
	if err != nil {
		t.Fatal(err)
	}
	pentagons := 0
	for i := range g.Tiles {
		if len(g.Tiles[i].Corners) == 5 {
			pentagons++
		}
	}
	if pentagons != 12 {
		t.Errorf("pentagon count = %d, want 12", pentagons)
	}
}

func TestEdgeSign(t *testing.T) {
	e := Edge{Tiles: [2]int{3, 7}}
	if got := e.Sign(3); got != 1 {
		t.Errorf("Sign(first tile) = %g, want 1", got)
	}
	if got := e.Sign(7); got != -1 {
		t.Errorf("Sign(second tile) = %g, want -1", got)
	}
	if e.OtherTile(3) != 7 || e.OtherTile(7) != 3 {
		t.Error("OtherTile did not swap adjacents")
	}
}

func TestEdgeBetweenCorners(t *testing.T) {
	g, err := BuildGrid(1, EarthRadius)
	if err != nil {
		t.Fatal(err)
	}
	for ei := range g.Edges {
		e := &g.Edges[ei]
		if got := g.EdgeBetweenCorners(e.Corners[0], e.Corners[1]); got != ei {
			t.Fatalf("edge %d: EdgeBetweenCorners = %d", ei, got)
		}
		if got := g.EdgeBetweenCorners(e.Corners[1], e.Corners[0]); got != ei {
			t.Fatalf("edge %d: reversed lookup = %d", ei, got)
		}
	}
	if got := g.EdgeBetweenCorners(0, 0); got != -1 {
		t.Errorf("self lookup = %d, want -1", got)
	}
}

// TestTileAreasCoverSphere checks the planar-fan area approximation against
// the analytic sphere area.
func TestTileAreasCoverSphere(t *testing.T) {
	g, err := BuildGrid(3, EarthRadius)
	if err != nil {
		t.Fatal(err)
	}
	var total float64
	for i := range g.Tiles {
		if g.Tiles[i].Area <= 0 {
			t.Fatalf("tile %d has non-positive area", i)
		}
		total += g.Tiles[i].Area
	}
	want := 4 * math.Pi * EarthRadius * EarthRadius
	if rel := math.Abs(total-want) / want; rel > 0.05 {
		t.Errorf("tile areas sum to %.3e, sphere is %.3e (off by %.1f%%)", total, want, rel*100)
	}
}

func TestTangentFrame(t *testing.T) {
	tests := []struct {
		name      string
		p         mgl64.Vec3
		wantEast  mgl64.Vec3
		wantNorth mgl64.Vec3
	}{
		{"equator prime meridian", mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 0, 1}, mgl64.Vec3{0, 1, 0}},
		{"equator 90E", mgl64.Vec3{0, 0, 1}, mgl64.Vec3{-1, 0, 0}, mgl64.Vec3{0, 1, 0}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			east, north := TangentFrame(tc.p)
			if east.Sub(tc.wantEast).Len() > 1e-12 {
				t.Errorf("east = %v, want %v", east, tc.wantEast)
			}
			if north.Sub(tc.wantNorth).Len() > 1e-12 {
				t.Errorf("north = %v, want %v", north, tc.wantNorth)
			}
		})
	}

	// At the poles the frame must stay orthonormal despite the degenerate
	// east direction.
	east, north := TangentFrame(mgl64.Vec3{0, 1, 0})
	if math.Abs(east.Len()-1) > 1e-12 || math.Abs(north.Len()-1) > 1e-12 {
		t.Error("polar frame is not unit length")
	}
	if math.Abs(east.Dot(north)) > 1e-12 {
		t.Error("polar frame is not orthogonal")
	}
}

func TestValidateCatchesBrokenGrids(t *testing.T) {
	tests := []struct {
		name string
		grid Grid
	}{
		{"empty", Grid{}},
		{"tile without edges", Grid{Tiles: []Tile{{Index: 0}}}},
		{"self edge", Grid{
			Tiles: []Tile{{Index: 0, Edges: []int{0}, Tiles: []int{0}, Corners: []int{0}, Area: 1}},
			Corners: []Corner{{Index: 0, Corners: []int{0}, Edges: []int{0}}},
			Edges: []Edge{{Index: 0, Tiles: [2]int{0, 0}, Length: 1}},
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.grid.Validate(); err == nil {
				t.Error("Validate accepted a broken grid")
			}
		})
	}
}

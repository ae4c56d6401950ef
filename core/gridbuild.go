package core

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// BuildGrid constructs the tile graph for a planet of the given radius by
// subdividing an icosahedron and taking its dual: every icosahedron vertex
// becomes a polygonal tile (12 pentagons, the rest hexagons), every face
// becomes a corner, and every mesh edge becomes a tile-graph edge. The
// result is validated before it is returned.
func BuildGrid(subdivisions int, radius float64) (*Grid, error) {
	if subdivisions < 0 {
		return nil, fmt.Errorf("subdivisions must be non-negative, got %d", subdivisions)
	}
	if radius <= 0 {
		return nil, fmt.Errorf("radius must be positive, got %g", radius)
	}

	verts, faces := icosahedron()
	for i := 0; i < subdivisions; i++ {
		verts, faces = subdivide(verts, faces)
	}

	g := buildDual(verts, faces, radius)
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("grid construction: %w", err)
	}
	return g, nil
}

// icosahedron returns the 12 vertices and 20 faces of a unit icosahedron.
func icosahedron() ([]mgl64.Vec3, [][3]int) {
	phi := (1 + math.Sqrt(5)) / 2

	raw := []mgl64.Vec3{
		{-1, phi, 0}, {1, phi, 0}, {-1, -phi, 0}, {1, -phi, 0},
		{0, -1, phi}, {0, 1, phi}, {0, -1, -phi}, {0, 1, -phi},
		{phi, 0, -1}, {phi, 0, 1}, {-phi, 0, -1}, {-phi, 0, 1},
	}
	verts := make([]mgl64.Vec3, len(raw))
	for i, v := range raw {
		verts[i] = v.Normalize()
	}

	faces := [][3]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}
	return verts, faces
}

// subdivide splits every triangular face into four, projecting the new
// midpoint vertices back onto the unit sphere. Midpoints are cached so
// shared mesh edges produce a single vertex.
func subdivide(verts []mgl64.Vec3, faces [][3]int) ([]mgl64.Vec3, [][3]int) {
	type key struct{ a, b int }
	midpoints := make(map[key]int)

	midpoint := func(a, b int) int {
		if a > b {
			a, b = b, a
		}
		k := key{a, b}
		if idx, ok := midpoints[k]; ok {
			return idx
		}
		m := verts[a].Add(verts[b]).Mul(0.5).Normalize()
		verts = append(verts, m)
		midpoints[k] = len(verts) - 1
		return len(verts) - 1
	}

	next := make([][3]int, 0, len(faces)*4)
	for _, f := range faces {
		ab := midpoint(f[0], f[1])
		bc := midpoint(f[1], f[2])
		ca := midpoint(f[2], f[0])
		next = append(next,
			[3]int{f[0], ab, ca},
			[3]int{f[1], bc, ab},
			[3]int{f[2], ca, bc},
			[3]int{ab, bc, ca})
	}
	return verts, next
}

// buildDual converts the triangle mesh into the tile/corner/edge graph.
func buildDual(verts []mgl64.Vec3, faces [][3]int, radius float64) *Grid {
	g := &Grid{
		Tiles:   make([]Tile, len(verts)),
		Corners: make([]Corner, len(faces)),
		Radius:  radius,
	}

	for i, v := range verts {
		g.Tiles[i] = Tile{
			Index:     i,
			Position:  v,
			Latitude:  math.Asin(clamp(v.Y(), -1, 1)),
			Longitude: math.Atan2(v.Z(), v.X()),
		}
	}

	// A corner sits at the centroid of each face, projected to the sphere.
	for i, f := range faces {
		c := verts[f[0]].Add(verts[f[1]]).Add(verts[f[2]]).Mul(1.0 / 3.0).Normalize()
		g.Corners[i] = Corner{
			Index:     i,
			Position:  c,
			Latitude:  math.Asin(clamp(c.Y(), -1, 1)),
			Longitude: math.Atan2(c.Z(), c.X()),
			Tiles:     []int{f[0], f[1], f[2]},
		}
	}

	// Every undirected mesh edge shared by two faces becomes a graph edge:
	// it separates the two endpoint tiles and connects the two face corners.
	type meshEdge struct{ a, b int }
	faceOfEdge := make(map[meshEdge][]int)
	for fi, f := range faces {
		for k := 0; k < 3; k++ {
			a, b := f[k], f[(k+1)%3]
			if a > b {
				a, b = b, a
			}
			faceOfEdge[meshEdge{a, b}] = append(faceOfEdge[meshEdge{a, b}], fi)
		}
	}

	// Deterministic edge ordering regardless of map iteration.
	meshEdges := make([]meshEdge, 0, len(faceOfEdge))
	for me := range faceOfEdge {
		meshEdges = append(meshEdges, me)
	}
	sort.Slice(meshEdges, func(i, j int) bool {
		if meshEdges[i].a != meshEdges[j].a {
			return meshEdges[i].a < meshEdges[j].a
		}
		return meshEdges[i].b < meshEdges[j].b
	})

	g.Edges = make([]Edge, 0, len(meshEdges))
	for _, me := range meshEdges {
		fs := faceOfEdge[me]
		if len(fs) != 2 {
			continue // cannot happen on a closed mesh
		}
		c0, c1 := fs[0], fs[1]
		if c0 > c1 {
			c0, c1 = c1, c0
		}
		idx := len(g.Edges)
		length := g.Corners[c0].Position.Sub(g.Corners[c1].Position).Len() * radius
		g.Edges = append(g.Edges, Edge{
			Index:   idx,
			Tiles:   [2]int{me.a, me.b},
			Corners: [2]int{c0, c1},
			Length:  length,
		})

		ta, tb := &g.Tiles[me.a], &g.Tiles[me.b]
		ta.Edges = append(ta.Edges, idx)
		ta.Tiles = append(ta.Tiles, me.b)
		tb.Edges = append(tb.Edges, idx)
		tb.Tiles = append(tb.Tiles, me.a)

		ca, cb := &g.Corners[c0], &g.Corners[c1]
		ca.Edges = append(ca.Edges, idx)
		ca.Corners = append(ca.Corners, c1)
		cb.Edges = append(cb.Edges, idx)
		cb.Corners = append(cb.Corners, c0)
	}

	// Corner membership per tile, then a counterclockwise sort of every
	// tile's adjacency in its local tangent frame. The climate layer relies
	// on Corners[i], Corners[i+1] bounding Edges[i].
	for ci := range g.Corners {
		for _, t := range g.Corners[ci].Tiles {
			g.Tiles[t].Corners = append(g.Tiles[t].Corners, ci)
		}
	}
	for ti := range g.Tiles {
		sortTileAdjacency(g, ti)
		g.Tiles[ti].Area = tileArea(g, ti)
	}

	return g
}

// sortTileAdjacency orders a tile's corners counterclockwise (seen from
// outside the sphere) and reorders edges and neighbor tiles to match.
func sortTileAdjacency(g *Grid, ti int) {
	t := &g.Tiles[ti]
	east, north := TangentFrame(t.Position)

	angleOf := func(p mgl64.Vec3) float64 {
		d := p.Sub(t.Position)
		return math.Atan2(d.Dot(north), d.Dot(east))
	}

	sort.Slice(t.Corners, func(i, j int) bool {
		ai, aj := angleOf(g.Corners[t.Corners[i]].Position), angleOf(g.Corners[t.Corners[j]].Position)
		if ai != aj {
			return ai < aj
		}
		return t.Corners[i] < t.Corners[j]
	})

	// Edge i bounds corner pair (i, i+1); recover the edge and neighbor for
	// each consecutive pair.
	edges := make([]int, 0, len(t.Corners))
	tiles := make([]int, 0, len(t.Corners))
	for i := range t.Corners {
		a := t.Corners[i]
		b := t.Corners[(i+1)%len(t.Corners)]
		e := g.EdgeBetweenCorners(a, b)
		if e < 0 {
			continue // Validate catches the mismatch afterwards
		}
		edges = append(edges, e)
		tiles = append(tiles, g.Edges[e].OtherTile(ti))
	}
	t.Edges = edges
	t.Tiles = tiles
}

// tileArea approximates the tile polygon area as a fan of planar triangles
// scaled to the planet radius. Good to well under a percent at the tile
// sizes the generator produces.
func tileArea(g *Grid, ti int) float64 {
	t := &g.Tiles[ti]
	var area float64
	for i := range t.Corners {
		a := g.Corners[t.Corners[i]].Position
		b := g.Corners[t.Corners[(i+1)%len(t.Corners)]].Position
		area += a.Sub(t.Position).Cross(b.Sub(t.Position)).Len() / 2
	}
	return area * g.Radius * g.Radius
}

// TangentFrame returns the local east and north unit vectors at a point on
// the unit sphere. At the poles east degenerates, so a fixed fallback axis
// keeps the frame well defined.
func TangentFrame(p mgl64.Vec3) (east, north mgl64.Vec3) {
	up := mgl64.Vec3{0, 1, 0}
	east = p.Cross(up)
	if east.Len() < 1e-9 {
		east = mgl64.Vec3{1, 0, 0}
	} else {
		east = east.Normalize()
	}
	north = east.Cross(p).Normalize()
	return east, north
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

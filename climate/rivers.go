package climate

import (
	"container/heap"

	"planetgen/core"
)

// Lakes overflow once the discharge collecting in them outgrows their
// depth; the scale converts ponded depth into a spill threshold.
const lakeSpillPerMeter = 1000.0

// traceRivers turns per-tile runoff into a forest of river paths over the
// corner graph. Corners are processed highest-first so water always moves
// onto corners that are already resolved; undrained local minima pond into
// lakes recorded in the season's side table, leaving the base grid
// untouched. All elevation ties break toward the lower corner index, which
// keeps the trace reproducible.
func (s *Simulator) traceRivers(season *Season) {
	rt := &riverTrace{
		sim:        s,
		season:     season,
		cornerFlow: make([]float64, len(s.grid.Corners)),
		downEdge:   make([]int, len(s.grid.Corners)),
		downCorner: make([]int, len(s.grid.Corners)),
		queued:     make([]bool, len(s.grid.Corners)),
	}
	for i := range rt.downEdge {
		rt.downEdge[i] = -1
		rt.downCorner[i] = -1
	}

	// Every tile with runoff drains to its lowest bounding corner.
	for i := range s.grid.Tiles {
		runoff := season.Tiles[i].Runoff
		if runoff <= 0 {
			continue
		}
		c := lowestCorner(s.grid, &s.grid.Tiles[i])
		rt.cornerFlow[c] += runoff
		rt.push(c, false)
	}

	for rt.queue.Len() > 0 {
		item := heap.Pop(&rt.queue).(traceItem)
		rt.process(item.corner, item.spilled)
	}
}

type traceItem struct {
	corner    int
	elevation float64
	spilled   bool // the single-step outlet tolerance was already spent upstream
}

type traceQueue []traceItem

func (q traceQueue) Len() int { return len(q) }
func (q traceQueue) Less(i, j int) bool {
	if q[i].elevation != q[j].elevation {
		return q[i].elevation > q[j].elevation // highest first
	}
	return q[i].corner < q[j].corner
}
func (q traceQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *traceQueue) Push(x any)        { *q = append(*q, x.(traceItem)) }
func (q *traceQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

type riverTrace struct {
	sim    *Simulator
	season *Season

	cornerFlow []float64
	downEdge   []int
	downCorner []int
	queued     []bool
	queue      traceQueue
}

func (rt *riverTrace) push(corner int, spilled bool) {
	if rt.queued[corner] {
		return
	}
	rt.queued[corner] = true
	heap.Push(&rt.queue, traceItem{
		corner:    corner,
		elevation: rt.sim.grid.Corners[corner].Elevation,
		spilled:   spilled,
	})
}

// effective is a corner's water surface: base elevation plus any lake
// already ponded on it this season.
func (rt *riverTrace) effective(c int) float64 {
	return rt.sim.grid.Corners[c].Elevation + rt.season.LakeDepth[c]
}

// process resolves one corner: either its water escapes to the lowest
// neighboring corner as a river, or it ponds into a lake. spilled records
// that the path already used its one-step tolerance for a missing outlet.
func (rt *riverTrace) process(c int, spilled bool) {
	grid := rt.sim.grid
	n := rt.lowestNeighbor(c)
	if n < 0 {
		return // validated grids always have neighbors; nothing to drain into
	}

	if rt.effective(n) > rt.effective(c) {
		// Local basin. The previous corner being unlaked grants a single
		// step of grace before we give up and pond.
		if spilled || rt.season.LakeDepth[c] > 0 {
			rt.pond(c, n)
			return
		}
		spilled = true
	}

	e := grid.EdgeBetweenCorners(c, n)
	if e < 0 {
		return
	}
	rt.assignRiver(c, n, e)

	// Continue the trace only into fresh, unlaked, river-free land corners;
	// water corners are the sea and lake corners are already resolved.
	if rt.downEdge[n] < 0 && rt.season.LakeDepth[n] == 0 && grid.LandCorner(n) {
		rt.push(n, spilled)
	}
}

// pond marks the corner as a lake deep enough to reach its lowest rim. If
// enough discharge has collected to outgrow that depth, the lake overflows
// and the surplus continues as a river after all.
func (rt *riverTrace) pond(c, n int) {
	grid := rt.sim.grid
	depth := rt.effective(n) - grid.Corners[c].Elevation
	rt.season.LakeDepth[c] = depth

	if rt.cornerFlow[c] > depth*lakeSpillPerMeter {
		if e := grid.EdgeBetweenCorners(c, n); e >= 0 {
			rt.assignRiver(c, n, e)
			if rt.downEdge[n] < 0 && rt.season.LakeDepth[n] == 0 && grid.LandCorner(n) {
				rt.push(n, true)
			}
		}
	}
}

// assignRiver routes this corner's accumulated flow across the edge to the
// downstream corner and propagates the added discharge along any river
// chain already resolved below it.
func (rt *riverTrace) assignRiver(c, n, e int) {
	grid := rt.sim.grid
	rt.downEdge[c] = e
	rt.downCorner[c] = n

	if grid.Edges[e].Corners[0] == c {
		rt.season.RiverDir[e] = 1
	} else {
		rt.season.RiverDir[e] = -1
	}

	flow := rt.cornerFlow[c]
	rt.season.RiverFlow[e] += flow
	rt.cornerFlow[n] += flow

	// Walk the existing downstream chain. The step bound guards against a
	// cycle introduced by a tolerance step running uphill.
	d := n
	for steps := 0; rt.downEdge[d] >= 0 && steps < len(grid.Corners); steps++ {
		rt.season.RiverFlow[rt.downEdge[d]] += flow
		d = rt.downCorner[d]
		rt.cornerFlow[d] += flow
	}
}

// lowestNeighbor picks the adjacent corner with the lowest water surface,
// ties resolved toward the smaller index.
func (rt *riverTrace) lowestNeighbor(c int) int {
	corner := &rt.sim.grid.Corners[c]
	best := -1
	var bestElev float64
	for _, n := range corner.Corners {
		e := rt.effective(n)
		if best < 0 || e < bestElev || (e == bestElev && n < best) {
			best = n
			bestElev = e
		}
	}
	return best
}

// lowestCorner returns the tile's lowest bounding corner, ties resolved
// toward the smaller index.
func lowestCorner(g *core.Grid, t *core.Tile) int {
	best := t.Corners[0]
	for _, c := range t.Corners[1:] {
		if g.Corners[c].Elevation < g.Corners[best].Elevation ||
			(g.Corners[c].Elevation == g.Corners[best].Elevation && c < best) {
			best = c
		}
	}
	return best
}

package layered

import (
	"sort"

	"github.com/graphdraw/graphdraw/pkg/graph"
)

// crossminIterations is the sweep budget of the ordering phase.
const crossminIterations = 24

// minimizeCrossings reorders every layer to reduce arc crossings. Two
// initial orderings are built from depth-first traversals, top-down from
// the sources and bottom-up from the sinks, and the one with fewer
// crossings starts the main loop: alternating down and up sweeps of
// weighted-median reordering, each followed by a transpose pass swapping
// adjacent pairs while that strictly reduces local crossings. The best
// ordering seen anywhere is the result, so the final crossing count
// never exceeds the count of any intermediate or initial ordering.
func minimizeCrossings(d *graph.Digraph, rk *Ranking) {
	if rk.Layers() < 2 {
		return
	}

	downInit := initialOrder(d, rk, false)
	rk.Restore(downInit)
	downCount := countCrossings(d, rk)

	upInit := initialOrder(d, rk, true)
	rk.Restore(upInit)
	if upCount := countCrossings(d, rk); upCount > downCount {
		rk.Restore(downInit)
	}

	best := rk.Snapshot()
	bestCount := countCrossings(d, rk)

	for i := 0; i < crossminIterations; i++ {
		medianSweep(d, rk, i%2 == 0)
		transpose(d, rk)
		if c := countCrossings(d, rk); c < bestCount {
			bestCount = c
			best = rk.Snapshot()
			if c == 0 {
				break
			}
		}
	}
	rk.Restore(best)
}

// initialOrder derives layer orders from a depth-first traversal:
// top-down from the sources following outgoing arcs, or bottom-up from
// the sinks following incoming arcs. Each vertex takes the next free
// position of its rank in discovery order.
func initialOrder(d *graph.Digraph, rk *Ranking, bottomUp bool) [][]*graph.Vertex {
	layers := make([][]*graph.Vertex, rk.Layers())
	seen := make(map[*graph.Vertex]bool, d.VertexCount())

	var dfs func(v *graph.Vertex)
	dfs = func(v *graph.Vertex) {
		seen[v] = true
		r := rk.Rank(v)
		layers[r] = append(layers[r], v)
		if bottomUp {
			for _, a := range d.IncomingArcs(v) {
				if !seen[a.Tail] {
					dfs(a.Tail)
				}
			}
		} else {
			for _, a := range d.OutgoingArcs(v) {
				if !seen[a.Head] {
					dfs(a.Head)
				}
			}
		}
	}

	for _, v := range d.Vertices() {
		start := false
		if bottomUp {
			start = d.OutDegree(v) == 0
		} else {
			start = d.InDegree(v) == 0
		}
		if start && !seen[v] {
			dfs(v)
		}
	}
	for _, v := range d.Vertices() {
		if !seen[v] {
			dfs(v)
		}
	}
	return layers
}

// medianSweep reorders layers one at a time by the weighted median of
// their neighbor positions in the fixed adjacent layer. down sweeps rank
// 1..max against incoming arcs; up sweeps max-1..0 against outgoing.
func medianSweep(d *graph.Digraph, rk *Ranking, down bool) {
	apply := func(r int, incoming bool) {
		layer := rk.Layer(r)
		medians := make(map[*graph.Vertex]float64, len(layer))
		for _, v := range layer {
			m := medianPosition(d, rk, v, incoming)
			if m < 0 {
				// Vertices without neighbors keep their position.
				m = float64(rk.Pos(v))
			}
			medians[v] = m
		}
		order := append([]*graph.Vertex(nil), layer...)
		sort.SliceStable(order, func(i, j int) bool {
			return medians[order[i]] < medians[order[j]]
		})
		rk.SetLayer(r, order)
	}

	if down {
		for r := 1; r < rk.Layers(); r++ {
			apply(r, true)
		}
	} else {
		for r := rk.Layers() - 2; r >= 0; r-- {
			apply(r, false)
		}
	}
}

// medianPosition computes the weighted median of v's neighbor positions
// in the adjacent rank: the plain middle for odd counts, the average for
// exactly two, and for larger even counts an interpolation of the two
// central values weighted by the spread on either side. Returns -1 when
// v has no neighbors on that side.
func medianPosition(d *graph.Digraph, rk *Ranking, v *graph.Vertex, incoming bool) float64 {
	var ps []float64
	if incoming {
		for _, a := range d.IncomingArcs(v) {
			if rk.Rank(a.Tail) == rk.Rank(v)-1 {
				ps = append(ps, float64(rk.Pos(a.Tail)))
			}
		}
	} else {
		for _, a := range d.OutgoingArcs(v) {
			if rk.Rank(a.Head) == rk.Rank(v)+1 {
				ps = append(ps, float64(rk.Pos(a.Head)))
			}
		}
	}
	n := len(ps)
	if n == 0 {
		return -1
	}
	sort.Float64s(ps)
	m := n / 2
	switch {
	case n%2 == 1:
		return ps[m]
	case n == 2:
		return (ps[0] + ps[1]) / 2
	default:
		left := ps[m-1] - ps[0]
		right := ps[n-1] - ps[m]
		if left+right == 0 {
			return (ps[m-1] + ps[m]) / 2
		}
		return (ps[m-1]*right + ps[m]*left) / (left + right)
	}
}

// transpose swaps adjacent vertices while a swap strictly reduces the
// crossings against both neighboring ranks, repeating until a full pass
// makes no change.
func transpose(d *graph.Digraph, rk *Ranking) {
	improved := true
	for improved {
		improved = false
		for r := 0; r < rk.Layers(); r++ {
			layer := rk.Layer(r)
			for i := 0; i < len(layer)-1; i++ {
				left, right := layer[i], layer[i+1]

				current := countPairCrossings(d, rk, left, right, true) +
					countPairCrossings(d, rk, left, right, false)
				swapped := countPairCrossings(d, rk, right, left, true) +
					countPairCrossings(d, rk, right, left, false)

				if swapped < current {
					rk.Swap(r, i)
					improved = true
				}
			}
		}
	}
}

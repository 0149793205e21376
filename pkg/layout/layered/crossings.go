package layered

import (
	"sort"

	"github.com/graphdraw/graphdraw/pkg/graph"
)

// countCrossings returns the total number of arc crossings over all
// consecutive rank pairs of the current ordering.
func countCrossings(d *graph.Digraph, rk *Ranking) int {
	total := 0
	for r := 0; r < rk.Layers()-1; r++ {
		total += countLayerCrossings(d, rk, r)
	}
	return total
}

// countLayerCrossings counts crossings between ranks r and r+1 using a
// Fenwick tree for inversion counting. Two arcs (u1,v1) and (u2,v2)
// cross iff pos(u1) < pos(u2) and pos(v1) > pos(v2), so sorting arcs by
// source position reduces the count to inversions of target positions.
func countLayerCrossings(d *graph.Digraph, rk *Ranking, r int) int {
	upper := rk.Layer(r)
	lower := rk.Layer(r + 1)
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}

	type arcPos struct{ upper, lower int }
	var arcs []arcPos
	for i, u := range upper {
		for _, a := range d.OutgoingArcs(u) {
			if rk.Rank(a.Head) == r+1 {
				arcs = append(arcs, arcPos{i, rk.Pos(a.Head)})
			}
		}
	}
	if len(arcs) < 2 {
		return 0
	}

	sort.Slice(arcs, func(i, j int) bool {
		if arcs[i].upper != arcs[j].upper {
			return arcs[i].upper < arcs[j].upper
		}
		return arcs[i].lower < arcs[j].lower
	})

	fenwick := make([]int, len(lower)+1)
	crossings, total := 0, 0
	for _, e := range arcs {
		lessOrEqual := 0
		for q := e.lower + 1; q > 0; q -= q & (-q) {
			lessOrEqual += fenwick[q]
		}
		crossings += total - lessOrEqual

		total++
		for idx := e.lower + 1; idx < len(fenwick); idx += idx & (-idx) {
			fenwick[idx]++
		}
	}
	return crossings
}

// countPairCrossings counts the crossings the adjacent pair (left,
// right) produces against one neighboring rank. useIncoming selects the
// rank above (incoming arcs) versus below (outgoing arcs). Used by the
// transpose step to evaluate swaps.
func countPairCrossings(d *graph.Digraph, rk *Ranking, left, right *graph.Vertex, useIncoming bool) int {
	var leftNbr, rightNbr []int
	collect := func(v *graph.Vertex) []int {
		var out []int
		if useIncoming {
			for _, a := range d.IncomingArcs(v) {
				if rk.Rank(a.Tail) == rk.Rank(v)-1 {
					out = append(out, rk.Pos(a.Tail))
				}
			}
		} else {
			for _, a := range d.OutgoingArcs(v) {
				if rk.Rank(a.Head) == rk.Rank(v)+1 {
					out = append(out, rk.Pos(a.Head))
				}
			}
		}
		return out
	}
	leftNbr = collect(left)
	rightNbr = collect(right)

	crossings := 0
	for _, lp := range leftNbr {
		for _, rp := range rightNbr {
			if lp > rp {
				crossings++
			}
		}
	}
	return crossings
}

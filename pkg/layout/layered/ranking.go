// Package layered implements Sugiyama-style layered drawing: cycle
// breaking, longest-path ranking, long-edge subdivision, crossing
// minimization and coordinate assignment.
package layered

import "github.com/graphdraw/graphdraw/pkg/graph"

// Ranking holds the layer assignment of a graph: one ordered vertex
// slice per rank plus reverse lookup maps. All mutation goes through the
// methods so the slices and maps stay consistent.
type Ranking struct {
	layers [][]*graph.Vertex
	rank   map[*graph.Vertex]int
	pos    map[*graph.Vertex]int
}

// NewRanking builds a ranking from a rank assignment, ordering each
// layer by the digraph's insertion order.
func NewRanking(d *graph.Digraph, ranks map[*graph.Vertex]int) *Ranking {
	max := 0
	for _, r := range ranks {
		if r > max {
			max = r
		}
	}
	rk := &Ranking{
		layers: make([][]*graph.Vertex, max+1),
		rank:   make(map[*graph.Vertex]int, len(ranks)),
		pos:    make(map[*graph.Vertex]int, len(ranks)),
	}
	for _, v := range d.Vertices() {
		r := ranks[v]
		rk.rank[v] = r
		rk.pos[v] = len(rk.layers[r])
		rk.layers[r] = append(rk.layers[r], v)
	}
	return rk
}

// Layers returns the number of ranks.
func (rk *Ranking) Layers() int { return len(rk.layers) }

// Layer returns the ordered vertices of rank r.
func (rk *Ranking) Layer(r int) []*graph.Vertex { return rk.layers[r] }

// Rank returns v's rank.
func (rk *Ranking) Rank(v *graph.Vertex) int { return rk.rank[v] }

// Pos returns v's position within its rank.
func (rk *Ranking) Pos(v *graph.Vertex) int { return rk.pos[v] }

// SetLayer replaces the order of rank r and refreshes the position map.
func (rk *Ranking) SetLayer(r int, order []*graph.Vertex) {
	rk.layers[r] = order
	for i, v := range order {
		rk.pos[v] = i
	}
}

// Swap exchanges the vertices at positions i and i+1 of rank r.
func (rk *Ranking) Swap(r, i int) {
	layer := rk.layers[r]
	layer[i], layer[i+1] = layer[i+1], layer[i]
	rk.pos[layer[i]] = i
	rk.pos[layer[i+1]] = i + 1
}

// Snapshot copies the current layer orders.
func (rk *Ranking) Snapshot() [][]*graph.Vertex {
	out := make([][]*graph.Vertex, len(rk.layers))
	for i, layer := range rk.layers {
		out[i] = append([]*graph.Vertex(nil), layer...)
	}
	return out
}

// Restore installs a snapshot taken earlier.
func (rk *Ranking) Restore(snapshot [][]*graph.Vertex) {
	for i, layer := range snapshot {
		rk.SetLayer(i, append([]*graph.Vertex(nil), layer...))
	}
}

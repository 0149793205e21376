package layered

import "github.com/graphdraw/graphdraw/pkg/graph"

// breakCycles makes d acyclic by reversing back arcs found during a
// depth-first traversal. Sources are visited first so natural top-down
// structure survives; remaining unvisited vertices follow in insertion
// order. The returned set records each reversed arc under its original
// (tail, head) direction so edge routing can flip the route back.
func breakCycles(d *graph.Digraph) map[[2]*graph.Vertex]bool {
	const (
		white = iota
		gray
		black
	)

	color := make(map[*graph.Vertex]int, d.VertexCount())
	var backArcs [][2]*graph.Vertex

	var dfs func(v *graph.Vertex)
	dfs = func(v *graph.Vertex) {
		color[v] = gray
		for _, a := range d.OutgoingArcs(v) {
			switch color[a.Head] {
			case white:
				dfs(a.Head)
			case gray:
				backArcs = append(backArcs, [2]*graph.Vertex{v, a.Head})
			}
		}
		color[v] = black
	}

	for _, v := range d.Vertices() {
		if d.InDegree(v) == 0 && color[v] == white {
			dfs(v)
		}
	}
	for _, v := range d.Vertices() {
		if color[v] == white {
			dfs(v)
		}
	}

	reversed := make(map[[2]*graph.Vertex]bool, len(backArcs))
	for _, e := range backArcs {
		d.Disconnect(e[0], e[1])
		// Reversing onto an existing opposite arc just merges with it.
		d.MustConnect(e[1], e[0])
		reversed[e] = true
	}
	return reversed
}

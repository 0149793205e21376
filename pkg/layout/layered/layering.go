package layered

import "github.com/graphdraw/graphdraw/pkg/graph"

// assignRanks computes a longest-path layering via Kahn's algorithm:
// every source sits at rank 0 and each vertex at one plus the maximum
// rank of its predecessors. d must be acyclic; run breakCycles first.
func assignRanks(d *graph.Digraph) map[*graph.Vertex]int {
	vertices := d.Vertices()
	inDegree := make(map[*graph.Vertex]int, len(vertices))
	ranks := make(map[*graph.Vertex]int, len(vertices))
	queue := make([]*graph.Vertex, 0, len(vertices))

	for _, v := range vertices {
		deg := d.InDegree(v)
		inDegree[v] = deg
		if deg == 0 {
			queue = append(queue, v)
		}
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, a := range d.OutgoingArcs(cur) {
			child := a.Head
			if r := ranks[cur] + 1; r > ranks[child] {
				ranks[child] = r
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}
	return ranks
}

package layered

import (
	"fmt"

	"github.com/graphdraw/graphdraw/pkg/graph"
)

// subdivide replaces every arc spanning more than one rank by a chain of
// dummy vertices, one per intermediate rank, so all arcs afterwards
// connect consecutive ranks. The returned map records each chain under
// the original (tail, head) pair for edge routing; ranks gains an entry
// per dummy.
func subdivide(d *graph.Digraph, ranks map[*graph.Vertex]int) map[[2]*graph.Vertex][]*graph.Vertex {
	chains := make(map[[2]*graph.Vertex][]*graph.Vertex)

	type longArc struct{ tail, head *graph.Vertex }
	var long []longArc
	for _, a := range d.Arcs() {
		if ranks[a.Head]-ranks[a.Tail] > 1 {
			long = append(long, longArc{a.Tail, a.Head})
		}
	}

	for i, la := range long {
		d.Disconnect(la.tail, la.head)

		prev := la.tail
		var chain []*graph.Vertex
		for r := ranks[la.tail] + 1; r < ranks[la.head]; r++ {
			dummy := graph.NewDummyVertex(fmt.Sprintf("%s|%s@%d#%d", la.tail.Name, la.head.Name, r, i))
			if err := d.Add(dummy); err != nil {
				panic("layered: dummy vertex rejected: " + err.Error())
			}
			ranks[dummy] = r
			d.MustConnect(prev, dummy)
			chain = append(chain, dummy)
			prev = dummy
		}
		d.MustConnect(prev, la.head)
		chains[[2]*graph.Vertex{la.tail, la.head}] = chain
	}
	return chains
}

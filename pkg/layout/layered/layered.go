package layered

import (
	"github.com/graphdraw/graphdraw/pkg/geo"
	"github.com/graphdraw/graphdraw/pkg/graph"
	"github.com/graphdraw/graphdraw/pkg/layout"
)

func init() {
	layout.Register("layered", func() layout.Algorithm { return &Layered{} })
}

// Layered draws a digraph in horizontal layers: cycles are broken by
// reversing back arcs, ranks come from a longest-path layering, long
// arcs are subdivided into dummy chains, crossings are minimized by
// median sweeps, and coordinates follow the final ordering. The input
// digraph is never restructured; all phases run on a working copy and
// only positions and arc paths are written back.
type Layered struct{}

func (l *Layered) Run(ctx *layout.Context) error {
	d := ctx.Digraph
	if d.VertexCount() == 0 {
		return nil
	}

	work := graph.Derive(d.Syntactic())
	for _, v := range d.Vertices() {
		if err := work.Add(v); err != nil {
			return err
		}
	}
	for _, a := range d.Arcs() {
		work.MustConnect(a.Tail, a.Head)
	}

	reversed := breakCycles(work)
	ranks := assignRanks(work)
	chains := subdivide(work, ranks)
	rk := NewRanking(work, ranks)

	minimizeCrossings(work, rk)
	assignCoordinates(work, rk, ctx.Config)
	routeArcs(d, chains, reversed)
	return nil
}

// assignCoordinates turns the ordering into positions: ranks advance
// downward by the level distance; within a rank, vertices start on a
// grid of the sibling distance and are then pulled toward the median of
// their predecessors, keeping at least the sibling distance between
// in-rank neighbors.
func assignCoordinates(d *graph.Digraph, rk *Ranking, cfg *layout.Config) {
	for r := 0; r < rk.Layers(); r++ {
		y := -float64(r) * cfg.LevelDistance
		for i, v := range rk.Layer(r) {
			v.Pos = geo.Coordinate{X: float64(i) * cfg.SiblingDistance, Y: y}
		}
	}

	for r := 1; r < rk.Layers(); r++ {
		layer := rk.Layer(r)
		for _, v := range layer {
			sum, n := 0.0, 0
			for _, a := range d.IncomingArcs(v) {
				if rk.Rank(a.Tail) == r-1 {
					sum += a.Tail.Pos.X
					n++
				}
			}
			if n > 0 {
				v.Pos.X = sum / float64(n)
			}
		}
		// Left-to-right separation pass.
		for i := 1; i < len(layer); i++ {
			if min := layer[i-1].Pos.X + cfg.SiblingDistance; layer[i].Pos.X < min {
				layer[i].Pos.X = min
			}
		}
	}
}

// routeArcs writes a path onto every original arc: straight for short
// arcs, through the dummy chain's positions for subdivided ones. Arcs
// that were reversed during cycle breaking route through their chain
// backwards.
func routeArcs(d *graph.Digraph, chains map[[2]*graph.Vertex][]*graph.Vertex, reversed map[[2]*graph.Vertex]bool) {
	for _, a := range d.Arcs() {
		key := [2]*graph.Vertex{a.Tail, a.Head}
		backwards := false
		chain, ok := chains[key]
		if !ok && reversed[key] {
			chain, ok = chains[[2]*graph.Vertex{a.Head, a.Tail}]
			backwards = ok
		}
		if !ok {
			a.SetPolylinePath()
			continue
		}
		mids := make([]geo.Coordinate, len(chain))
		for i, dummy := range chain {
			if backwards {
				mids[len(chain)-1-i] = dummy.Pos
			} else {
				mids[i] = dummy.Pos
			}
		}
		a.SetPolylinePath(mids...)
	}
}

// Package force implements the spring-electrical family of layout
// algorithms: pairwise force laws, an epoch-driven simulation loop and a
// multilevel scheme built on graph coarsening.
package force

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/graphdraw/graphdraw/pkg/geo"
	"github.com/graphdraw/graphdraw/pkg/graph"
)

// uncoarsenSeed fixes the rng state used for expansion jitter, so the
// offsets applied while walking back up the level stack depend only on
// call order.
const uncoarsenSeed = 42

// CoarseGraph wraps a digraph with a stack of contraction levels. Each
// Coarsen call computes one round of greedy randomized matching and
// collapses every matched pair into a dummy vertex; Uncoarsen undoes the
// most recent round. The level only moves through these two calls.
type CoarseGraph struct {
	d       *graph.Digraph
	weights *graph.Storage[*graph.Vertex, float64]

	levels   [][]*graph.Vertex // replacements created per round, in collapse order
	sizes    []int             // vertex count before each round, oldest first
}

// NewCoarseGraph wraps d. weights carries per-vertex mass; vertices
// absent from it count as 1. The storage is updated in place as pairs
// merge and split.
func NewCoarseGraph(d *graph.Digraph, weights *graph.Storage[*graph.Vertex, float64]) *CoarseGraph {
	if weights == nil {
		weights = graph.NewStorage[*graph.Vertex, float64]()
	}
	return &CoarseGraph{d: d, weights: weights}
}

// Digraph returns the wrapped digraph at its current level.
func (cg *CoarseGraph) Digraph() *graph.Digraph { return cg.d }

// Level returns the number of contraction rounds currently applied.
func (cg *CoarseGraph) Level() int { return len(cg.levels) }

// Size returns the current vertex count.
func (cg *CoarseGraph) Size() int { return cg.d.VertexCount() }

// Ratio returns the size of the current level divided by the size before
// the most recent round. Before any coarsening it is 1.
func (cg *CoarseGraph) Ratio() float64 {
	if len(cg.sizes) == 0 {
		return 1
	}
	prev := cg.sizes[len(cg.sizes)-1]
	if prev == 0 {
		return 1
	}
	return float64(cg.d.VertexCount()) / float64(prev)
}

// Weight returns the mass recorded for v, defaulting to 1.
func (cg *CoarseGraph) Weight(v *graph.Vertex) float64 {
	if w, ok := cg.weights.Get(v); ok {
		return w
	}
	return 1
}

// Coarsen performs one contraction round. Vertices are visited in an
// order shuffled by rng; each still-unmatched vertex pairs with its
// minimum-weight unmatched neighbor. A matched pair collapses into a
// dummy vertex positioned at the pair midpoint whose weight is the sum of
// the pair weights. Coarsening never increases the vertex count, and
// after the round no two adjacent surviving vertices were both unmatched.
func (cg *CoarseGraph) Coarsen(rng *rand.Rand) {
	before := cg.d.VertexCount()

	order := make([]*graph.Vertex, before)
	copy(order, cg.d.Vertices())
	rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	matched := make(map[*graph.Vertex]bool, before)
	var round []*graph.Vertex
	for _, v := range order {
		if matched[v] {
			continue
		}
		partner := cg.lightestUnmatchedNeighbor(v, matched)
		if partner == nil {
			continue
		}
		matched[v], matched[partner] = true, true

		repl := graph.NewDummyVertex(fmt.Sprintf("coarse(%s+%s)", v.Name, partner.Name))
		repl.Pos = geo.Midpoint(v.Pos, partner.Pos)
		cg.weights.Set(repl, cg.Weight(v)+cg.Weight(partner))
		if err := cg.d.Collapse([]*graph.Vertex{v, partner}, repl, nil, nil); err != nil {
			panic("force: matched pair rejected by collapse: " + err.Error())
		}
		matched[repl] = true
		round = append(round, repl)
	}

	cg.levels = append(cg.levels, round)
	cg.sizes = append(cg.sizes, before)
}

func (cg *CoarseGraph) lightestUnmatchedNeighbor(v *graph.Vertex, matched map[*graph.Vertex]bool) *graph.Vertex {
	var best *graph.Vertex
	bestWeight := 0.0
	consider := func(u *graph.Vertex) {
		if u == v || matched[u] {
			return
		}
		w := cg.Weight(u)
		if best == nil || w < bestWeight {
			best, bestWeight = u, w
		}
	}
	for _, a := range cg.d.OutgoingArcs(v) {
		consider(a.Head)
	}
	for _, a := range cg.d.IncomingArcs(v) {
		consider(a.Tail)
	}
	return best
}

// Uncoarsen expands the most recent contraction round. The rng is reset
// to a fixed seed first, so the jitter applied to split pairs depends
// only on the order of expansions. Expanding with no rounds applied is a
// no-op.
func (cg *CoarseGraph) Uncoarsen(rng *rand.Rand) {
	if len(cg.levels) == 0 {
		return
	}
	rng.Seed(uncoarsenSeed)

	round := cg.levels[len(cg.levels)-1]
	cg.levels = cg.levels[:len(cg.levels)-1]
	cg.sizes = cg.sizes[:len(cg.sizes)-1]

	for i := len(round) - 1; i >= 0; i-- {
		repl := round[i]
		center := repl.Pos
		err := cg.d.Expand(repl, func(_, restored *graph.Vertex) {
			jitter := geo.Coordinate{
				X: rng.Float64()*0.1 - 0.05,
				Y: rng.Float64()*0.1 - 0.05,
			}
			restored.Pos = center.Add(jitter)
		}, nil)
		if err != nil {
			panic("force: recorded round failed to expand: " + err.Error())
		}
		cg.weights.Delete(repl)
	}
}

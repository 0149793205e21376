package force

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/graphdraw/graphdraw/pkg/geo"
	"github.com/graphdraw/graphdraw/pkg/graph"
	"github.com/graphdraw/graphdraw/pkg/layout"
)

func runSpring(t *testing.T, d *graph.Digraph, opts graph.Options, seed uint64) {
	t.Helper()
	cfg, err := layout.ResolveConfig(opts)
	require.NoError(t, err)
	algo := &SpringElectrical{}
	err = algo.Run(&layout.Context{
		Digraph: d,
		Config:  cfg,
		Options: opts,
		RNG:     rand.New(rand.NewSource(seed)),
	})
	require.NoError(t, err)
}

func TestTwoVertexEquilibrium(t *testing.T) {
	for _, seed := range []uint64{1, 7, 42, 1000} {
		d, vs := buildGraph(t, 2, [][2]int{{0, 1}})
		runSpring(t, d, graph.Options{"node distance": 2.0}, seed)

		dist := geo.Distance(vs[0].Pos, vs[1].Pos)
		assert.InDelta(t, 2.0, dist, 0.2, "seed %d: pair distance %g", seed, dist)
	}
}

func TestSpringDeterministicForSeed(t *testing.T) {
	layoutOnce := func() []geo.Coordinate {
		d, vs := buildGraph(t, 6, [][2]int{
			{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 0}, {0, 3},
		})
		runSpring(t, d, graph.Options{"iterations": 50}, 42)
		out := make([]geo.Coordinate, len(vs))
		for i, v := range vs {
			out[i] = v.Pos
		}
		return out
	}

	first, second := layoutOnce(), layoutOnce()
	require.Equal(t, first, second, "same seed must reproduce the layout")
}

func TestSpringPositionsFinite(t *testing.T) {
	d, vs := buildGraph(t, 10, [][2]int{
		{0, 1}, {0, 2}, {0, 3}, {1, 4}, {1, 5}, {2, 6}, {2, 7}, {3, 8}, {3, 9},
	})
	runSpring(t, d, graph.Options{"iterations": 100}, 5)

	for _, v := range vs {
		assert.False(t, math.IsNaN(v.Pos.X) || math.IsInf(v.Pos.X, 0), "%s.X = %g", v.Name, v.Pos.X)
		assert.False(t, math.IsNaN(v.Pos.Y) || math.IsInf(v.Pos.Y, 0), "%s.Y = %g", v.Name, v.Pos.Y)
	}
	for _, a := range d.Arcs() {
		require.NotNil(t, a.Path, "arc %s->%s has no path", a.Tail.Name, a.Head.Name)
	}
}

func TestSpringSpreadsVertices(t *testing.T) {
	// Repulsion must keep distinct vertices apart: after a run no two
	// vertices of a small graph sit on the same spot.
	d, vs := buildGraph(t, 5, [][2]int{{0, 1}, {0, 2}, {0, 3}, {0, 4}})
	runSpring(t, d, graph.Options{"iterations": 200}, 9)

	for i := range vs {
		for j := i + 1; j < len(vs); j++ {
			assert.Greater(t, geo.Distance(vs[i].Pos, vs[j].Pos), 0.05,
				"%s and %s coincide", vs[i].Name, vs[j].Name)
		}
	}
}

func TestSpringFiniteAtLowIterationBudgets(t *testing.T) {
	// A small iteration budget means a large dt; the step bound must keep
	// every position finite regardless.
	for _, iterations := range []int{3, 10, 50} {
		d, vs := buildGraph(t, 3, [][2]int{{0, 1}, {1, 2}, {2, 0}})
		runSpring(t, d, graph.Options{"iterations": iterations}, 11)

		for _, v := range vs {
			require.False(t, math.IsNaN(v.Pos.X) || math.IsInf(v.Pos.X, 0),
				"iterations=%d: %s.X = %g", iterations, v.Name, v.Pos.X)
			require.False(t, math.IsNaN(v.Pos.Y) || math.IsInf(v.Pos.Y, 0),
				"iterations=%d: %s.Y = %g", iterations, v.Name, v.Pos.Y)
			assert.Less(t, v.Pos.Norm(), 100.0,
				"iterations=%d: %s escaped to %v", iterations, v.Name, v.Pos)
		}
	}
}

func TestStepBoundedByMaximumDisplacement(t *testing.T) {
	d, vs := buildGraph(t, 3, [][2]int{{0, 1}, {1, 2}, {2, 0}})
	runSpring(t, d, graph.Options{
		"iterations":                    1,
		"coarsen":                       false,
		"maximum displacement per step": 0.01,
	}, 3)

	// With a 0.01 clamp no epoch can move a vertex more than 0.01 per
	// iteration away from its initial placement on the unit-scale disc.
	radius := 1.0*math.Sqrt(3) + 0.05
	for _, v := range vs {
		assert.LessOrEqual(t, v.Pos.Norm(), radius, "%s at %v", v.Name, v.Pos)
	}
}

func TestBarnesHutAgreesWithExactRepulsion(t *testing.T) {
	newSim := func() (*Simulation, []*graph.Vertex) {
		d, vs := buildGraph(t, 4, nil)
		for i, pos := range []geo.Coordinate{{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 0, Y: 4}, {X: 5, Y: 5}} {
			vs[i].Pos = pos
		}
		cfg, err := layout.ResolveConfig(graph.Options{"node distance": 2.0})
		require.NoError(t, err)
		return &Simulation{
			Digraph: d,
			Config:  cfg,
			RNG:     rand.New(rand.NewSource(1)),
			Weights: graph.NewStorage[*graph.Vertex, float64](),
			Net:     graph.NewStorage[*graph.Vertex, geo.Coordinate](),
		}, vs
	}

	exactSim, exactVs := newSim()
	exact := &ElectricForce{}
	exact.Preprocess(exactSim)
	exact.Apply(exactSim, 0)

	approxSim, approxVs := newSim()
	// A vanishing opening angle makes the quadtree evaluate every pair.
	approx := &BarnesHutForce{Theta: 1e-9}
	approx.Preprocess(approxSim)
	approx.Apply(approxSim, 0)

	for i := range exactVs {
		want, _ := exactSim.Net.Get(exactVs[i])
		got, _ := approxSim.Net.Get(approxVs[i])
		assert.InDelta(t, want.X, got.X, 1e-9, "vertex %s X", exactVs[i].Name)
		assert.InDelta(t, want.Y, got.Y, 1e-9, "vertex %s Y", exactVs[i].Name)
	}
}

func TestBarnesHutMatchesRegistry(t *testing.T) {
	a, err := layout.New("spring electrical barnes hut")
	require.NoError(t, err)

	d, vs := buildGraph(t, 6, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}})
	cfg, err := layout.ResolveConfig(graph.Options{"iterations": 50})
	require.NoError(t, err)
	err = a.Run(&layout.Context{
		Digraph: d,
		Config:  cfg,
		RNG:     rand.New(rand.NewSource(2)),
	})
	require.NoError(t, err)
	for _, v := range vs {
		assert.False(t, math.IsNaN(v.Pos.X) || math.IsNaN(v.Pos.Y), "%s not placed", v.Name)
	}
}

func TestDesiredAtPullsVertex(t *testing.T) {
	d, vs := buildGraph(t, 4, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}})
	vs[0].Options = graph.Options{"desired at": []float64{0, 0}}
	runSpring(t, d, graph.Options{"iterations": 300, "coarsen": false}, 21)

	// The pinned vertex stays near its target while the rest spread out.
	assert.Less(t, vs[0].Pos.Norm(), 1.5, "desired-at vertex drifted to %v", vs[0].Pos)
}

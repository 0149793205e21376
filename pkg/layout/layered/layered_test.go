package layered

import (
	"testing"

	"golang.org/x/exp/rand"

	"github.com/graphdraw/graphdraw/pkg/graph"
	"github.com/graphdraw/graphdraw/pkg/layout"
)

func buildGraph(t *testing.T, names []string, edges [][2]string) (*graph.Digraph, map[string]*graph.Vertex) {
	t.Helper()
	d := graph.New(nil)
	vs := make(map[string]*graph.Vertex, len(names))
	for _, n := range names {
		vs[n] = graph.NewVertex(n)
		if err := d.Add(vs[n]); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range edges {
		d.MustConnect(vs[e[0]], vs[e[1]])
	}
	return d, vs
}

func runLayered(t *testing.T, d *graph.Digraph, opts graph.Options) *layout.Config {
	t.Helper()
	cfg, err := layout.ResolveConfig(opts)
	if err != nil {
		t.Fatal(err)
	}
	l := &Layered{}
	if err := l.Run(&layout.Context{
		Digraph: d,
		Config:  cfg,
		Options: opts,
		RNG:     rand.New(rand.NewSource(cfg.RandomSeed)),
	}); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	return cfg
}

func TestBreakCyclesMakesAcyclic(t *testing.T) {
	d, vs := buildGraph(t,
		[]string{"a", "b", "c", "d"},
		[][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}, {"c", "d"}},
	)
	reversed := breakCycles(d)

	if len(reversed) != 1 {
		t.Fatalf("reversed %d arcs, want 1", len(reversed))
	}
	if !reversed[[2]*graph.Vertex{vs["c"], vs["a"]}] {
		t.Error("expected back arc c->a to be reversed")
	}
	if d.Arc(vs["c"], vs["a"]) != nil {
		t.Error("back arc still present in original direction")
	}
	if d.Arc(vs["a"], vs["c"]) == nil {
		t.Error("reversed arc a->c missing")
	}
}

func TestAssignRanksLongestPath(t *testing.T) {
	d, vs := buildGraph(t,
		[]string{"a", "b", "c", "d"},
		[][2]string{{"a", "b"}, {"b", "d"}, {"a", "c"}, {"c", "d"}, {"a", "d"}},
	)
	ranks := assignRanks(d)

	want := map[string]int{"a": 0, "b": 1, "c": 1, "d": 2}
	for name, r := range want {
		if ranks[vs[name]] != r {
			t.Errorf("rank(%s) = %d, want %d", name, ranks[vs[name]], r)
		}
	}
}

func TestSubdivideCreatesDummyChains(t *testing.T) {
	d, vs := buildGraph(t,
		[]string{"a", "b", "c"},
		[][2]string{{"a", "b"}, {"b", "c"}, {"a", "c"}},
	)
	ranks := assignRanks(d)
	chains := subdivide(d, ranks)

	chain, ok := chains[[2]*graph.Vertex{vs["a"], vs["c"]}]
	if !ok {
		t.Fatal("no chain recorded for the long arc a->c")
	}
	if len(chain) != 1 {
		t.Fatalf("chain length = %d, want 1", len(chain))
	}
	if !chain[0].IsDummy() {
		t.Error("chain vertex is not a dummy")
	}
	if ranks[chain[0]] != 1 {
		t.Errorf("dummy rank = %d, want 1", ranks[chain[0]])
	}
	// All arcs now span exactly one rank.
	for _, a := range d.Arcs() {
		if span := ranks[a.Head] - ranks[a.Tail]; span != 1 {
			t.Errorf("arc %s->%s spans %d ranks", a.Tail.Name, a.Head.Name, span)
		}
	}
}

func TestCrossingCountSimple(t *testing.T) {
	// Two arcs that must cross: a->y and b->x with orders [a b] / [x y].
	d, vs := buildGraph(t,
		[]string{"a", "b", "x", "y"},
		[][2]string{{"a", "y"}, {"b", "x"}},
	)
	ranks := map[*graph.Vertex]int{vs["a"]: 0, vs["b"]: 0, vs["x"]: 1, vs["y"]: 1}
	rk := NewRanking(d, ranks)

	if got := countCrossings(d, rk); got != 1 {
		t.Errorf("countCrossings() = %d, want 1", got)
	}

	// Swapping the lower layer removes the crossing.
	rk.SetLayer(1, []*graph.Vertex{vs["y"], vs["x"]})
	if got := countCrossings(d, rk); got != 0 {
		t.Errorf("countCrossings() after swap = %d, want 0", got)
	}
}

func TestMinimizeCrossingsNeverWorse(t *testing.T) {
	// K(3,3) minus one arc: the optimum is low and any reasonable sweep
	// finds it. The invariant checked here is the weaker, guaranteed
	// one: the result never exceeds the initial ordering's count.
	d, vs := buildGraph(t,
		[]string{"a", "b", "c", "x", "y", "z"},
		[][2]string{
			{"a", "x"}, {"a", "y"}, {"a", "z"},
			{"b", "x"}, {"b", "y"}, {"b", "z"},
			{"c", "x"}, {"c", "y"},
		},
	)
	ranks := map[*graph.Vertex]int{
		vs["a"]: 0, vs["b"]: 0, vs["c"]: 0,
		vs["x"]: 1, vs["y"]: 1, vs["z"]: 1,
	}
	rk := NewRanking(d, ranks)
	initial := countCrossings(d, rk)

	minimizeCrossings(d, rk)
	final := countCrossings(d, rk)

	if final > initial {
		t.Errorf("crossings went from %d to %d", initial, final)
	}
}

func TestMinimizeCrossingsBestSoFar(t *testing.T) {
	d, vs := buildGraph(t,
		[]string{"a", "b", "c", "d", "p", "q", "r", "s"},
		[][2]string{
			{"a", "q"}, {"a", "s"}, {"b", "p"}, {"b", "r"},
			{"c", "q"}, {"c", "p"}, {"d", "s"}, {"d", "r"},
		},
	)
	ranks := make(map[*graph.Vertex]int)
	for _, n := range []string{"a", "b", "c", "d"} {
		ranks[vs[n]] = 0
	}
	for _, n := range []string{"p", "q", "r", "s"} {
		ranks[vs[n]] = 1
	}
	rk := NewRanking(d, ranks)

	minimizeCrossings(d, rk)
	final := countCrossings(d, rk)

	// Rerunning from the result must not find anything better: the
	// returned ordering already is the best seen.
	minimizeCrossings(d, rk)
	if again := countCrossings(d, rk); again > final {
		t.Errorf("second run worsened crossings: %d -> %d", final, again)
	}
}

func TestLayeredRunPositionsAndRoutes(t *testing.T) {
	d, vs := buildGraph(t,
		[]string{"a", "b", "c", "d"},
		[][2]string{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}, {"a", "d"}},
	)
	runLayered(t, d, graph.Options{"level distance": 2.0, "sibling distance": 1.5})

	// Ranks descend by the level distance.
	if vs["a"].Pos.Y != 0 {
		t.Errorf("a.Y = %g, want 0", vs["a"].Pos.Y)
	}
	if vs["b"].Pos.Y != -2 || vs["c"].Pos.Y != -2 {
		t.Errorf("middle rank at %g/%g, want -2", vs["b"].Pos.Y, vs["c"].Pos.Y)
	}
	if vs["d"].Pos.Y != -4 {
		t.Errorf("d.Y = %g, want -4", vs["d"].Pos.Y)
	}

	// Siblings keep their distance.
	if diff := vs["c"].Pos.X - vs["b"].Pos.X; diff < 1.5 && -diff < 1.5 {
		t.Errorf("siblings b and c only %g apart, want at least 1.5", diff)
	}

	// Every arc has a route; the long arc a->d has a bend at the middle
	// rank.
	for _, a := range d.Arcs() {
		if a.Path == nil {
			t.Fatalf("arc %s->%s has no path", a.Tail.Name, a.Head.Name)
		}
	}
	long := d.Arc(vs["a"], vs["d"])
	if pts := long.Path.Coordinates(); len(pts) != 3 {
		t.Errorf("long arc path has %d points, want 3", len(pts))
	}

	// The input graph itself is not restructured.
	if d.VertexCount() != 4 || d.ArcCount() != 5 {
		t.Errorf("input graph mutated: %d vertices, %d arcs", d.VertexCount(), d.ArcCount())
	}
}

func TestLayeredCyclicInput(t *testing.T) {
	d, _ := buildGraph(t,
		[]string{"a", "b", "c"},
		[][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}},
	)
	runLayered(t, d, nil)

	for _, a := range d.Arcs() {
		if a.Path == nil {
			t.Errorf("arc %s->%s has no path after cyclic layout", a.Tail.Name, a.Head.Name)
		}
	}
}

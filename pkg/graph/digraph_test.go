package graph

import (
	"errors"
	"testing"
)

func newTestGraph(t *testing.T, names ...string) (*Digraph, map[string]*Vertex) {
	t.Helper()
	d := New(nil)
	vs := make(map[string]*Vertex, len(names))
	for _, n := range names {
		v := NewVertex(n)
		vs[n] = v
		if err := d.Add(v); err != nil {
			t.Fatalf("Add(%s) = %v", n, err)
		}
	}
	return d, vs
}

func TestAddErrors(t *testing.T) {
	d, vs := newTestGraph(t, "a")

	if err := d.Add(nil); !errors.Is(err, ErrNilVertex) {
		t.Errorf("Add(nil) = %v, want ErrNilVertex", err)
	}
	if err := d.Add(vs["a"]); !errors.Is(err, ErrDuplicateVertex) {
		t.Errorf("Add(duplicate) = %v, want ErrDuplicateVertex", err)
	}
}

func TestConnectIdempotent(t *testing.T) {
	d, vs := newTestGraph(t, "a", "b")

	a1, err := d.Connect(vs["a"], vs["b"])
	if err != nil {
		t.Fatalf("Connect() = %v", err)
	}
	a2, err := d.Connect(vs["a"], vs["b"])
	if err != nil {
		t.Fatalf("Connect() = %v", err)
	}
	if a1 != a2 {
		t.Error("Connect() created a second arc for the same pair")
	}
	if d.ArcCount() != 1 {
		t.Errorf("ArcCount() = %d, want 1", d.ArcCount())
	}

	// Opposite direction is a distinct arc.
	if _, err := d.Connect(vs["b"], vs["a"]); err != nil {
		t.Fatalf("Connect(reverse) = %v", err)
	}
	if d.ArcCount() != 2 {
		t.Errorf("ArcCount() = %d, want 2", d.ArcCount())
	}
}

func TestConnectUnknownVertex(t *testing.T) {
	d, vs := newTestGraph(t, "a")
	stranger := NewVertex("s")

	if _, err := d.Connect(stranger, vs["a"]); !errors.Is(err, ErrUnknownTail) {
		t.Errorf("Connect(unknown tail) = %v, want ErrUnknownTail", err)
	}
	if _, err := d.Connect(vs["a"], stranger); !errors.Is(err, ErrUnknownHead) {
		t.Errorf("Connect(unknown head) = %v, want ErrUnknownHead", err)
	}
}

func TestDisconnect(t *testing.T) {
	d, vs := newTestGraph(t, "a", "b")
	d.MustConnect(vs["a"], vs["b"])

	d.Disconnect(vs["a"], vs["b"])
	if d.ArcCount() != 0 {
		t.Errorf("ArcCount() = %d after Disconnect, want 0", d.ArcCount())
	}
	if d.Arc(vs["a"], vs["b"]) != nil {
		t.Error("Arc() != nil after Disconnect")
	}
	// Disconnecting again is a no-op.
	d.Disconnect(vs["a"], vs["b"])
}

func TestRemoveDropsIncidentArcs(t *testing.T) {
	d, vs := newTestGraph(t, "a", "b", "c")
	d.MustConnect(vs["a"], vs["b"])
	d.MustConnect(vs["c"], vs["b"])

	d.Remove(vs["b"])

	if d.Contains(vs["b"]) {
		t.Error("Contains() = true after Remove")
	}
	if d.ArcCount() != 0 {
		t.Errorf("ArcCount() = %d, want 0", d.ArcCount())
	}
	if d.OutDegree(vs["a"]) != 0 {
		t.Errorf("OutDegree(a) = %d, want 0", d.OutDegree(vs["a"]))
	}
}

func TestVertexSharedAcrossDigraphs(t *testing.T) {
	v := NewVertex("shared")
	d1 := New(nil)
	d2 := New(nil)
	if err := d1.Add(v); err != nil {
		t.Fatal(err)
	}
	if err := d2.Add(v); err != nil {
		t.Fatal(err)
	}

	d1.Remove(v)

	if d1.Contains(v) {
		t.Error("d1 still contains vertex after Remove")
	}
	if !d2.Contains(v) {
		t.Error("removal from d1 affected membership in d2")
	}
}

func TestCollapseRedirectsBoundaryArcs(t *testing.T) {
	// a → b, a → c, b → d; collapse {b, c} into m.
	d, vs := newTestGraph(t, "a", "b", "c", "d")
	d.MustConnect(vs["a"], vs["b"])
	d.MustConnect(vs["a"], vs["c"])
	d.MustConnect(vs["b"], vs["d"])
	d.MustConnect(vs["b"], vs["c"]) // interior loop, must be dropped

	m := NewDummyVertex("m")
	merges := 0
	err := d.Collapse([]*Vertex{vs["b"], vs["c"]}, m, func(surviving, removed *Arc) {
		merges++
		if surviving.Tail != m && surviving.Head != m {
			t.Errorf("surviving arc %v-%v does not touch replacement", surviving.Tail.Name, surviving.Head.Name)
		}
	}, nil)
	if err != nil {
		t.Fatalf("Collapse() = %v", err)
	}

	if d.Contains(vs["b"]) || d.Contains(vs["c"]) {
		t.Error("collapsed vertices still members")
	}
	if !d.Contains(m) {
		t.Error("replacement not a member")
	}
	// a→m (merged from a→b and a→c) and m→d.
	if d.Arc(vs["a"], m) == nil {
		t.Error("missing arc a→m")
	}
	if d.Arc(m, vs["d"]) == nil {
		t.Error("missing arc m→d")
	}
	if d.ArcCount() != 2 {
		t.Errorf("ArcCount() = %d, want 2", d.ArcCount())
	}
	// Arc merge hook runs once per redirected boundary arc: a→b, a→c, b→d.
	if merges != 3 {
		t.Errorf("arcMerge invoked %d times, want 3", merges)
	}
}

func TestCollapseExpandInverse(t *testing.T) {
	d, vs := newTestGraph(t, "a", "b", "c", "d")
	d.MustConnect(vs["a"], vs["b"])
	d.MustConnect(vs["b"], vs["c"])
	d.MustConnect(vs["c"], vs["a"])
	d.MustConnect(vs["c"], vs["d"])

	type pair struct{ t, h string }
	snapshot := func() map[pair]bool {
		m := make(map[pair]bool)
		for _, a := range d.Arcs() {
			m[pair{a.Tail.Name, a.Head.Name}] = true
		}
		return m
	}
	before := snapshot()

	m := NewDummyVertex("m")
	if err := d.Collapse([]*Vertex{vs["a"], vs["b"]}, m, nil, nil); err != nil {
		t.Fatalf("Collapse() = %v", err)
	}
	restored := 0
	if err := d.Expand(m, func(_, _ *Vertex) {}, func(*Arc) { restored++ }); err != nil {
		t.Fatalf("Expand() = %v", err)
	}

	after := snapshot()
	if len(after) != len(before) {
		t.Fatalf("arc count after expand = %d, want %d", len(after), len(before))
	}
	for p := range before {
		if !after[p] {
			t.Errorf("arc %s→%s missing after expand", p.t, p.h)
		}
	}
	if d.Contains(m) {
		t.Error("replacement still a member after expand")
	}
	if d.VertexCount() != 4 {
		t.Errorf("VertexCount() = %d, want 4", d.VertexCount())
	}
	// a->b (interior), b->c, and c->a touch the collapsed set; c->d does
	// not and is never removed or restored.
	if restored != 3 {
		t.Errorf("arcHook invoked %d times, want 3", restored)
	}
}

func TestCollapseContractViolations(t *testing.T) {
	d, vs := newTestGraph(t, "a", "b", "c")

	m := NewDummyVertex("m")
	if err := d.Collapse([]*Vertex{vs["a"]}, m, nil, nil); err != nil {
		t.Fatalf("Collapse() = %v", err)
	}

	// Collapsing an already-collapsed vertex is a contract violation.
	m2 := NewDummyVertex("m2")
	if err := d.Collapse([]*Vertex{vs["a"]}, m2, nil, nil); !errors.Is(err, ErrAlreadyCollapsed) {
		t.Errorf("Collapse(collapsed vertex) = %v, want ErrAlreadyCollapsed", err)
	}

	// Expanding a vertex with no collapse history likewise.
	if err := d.Expand(vs["b"], nil, nil); !errors.Is(err, ErrNoCollapse) {
		t.Errorf("Expand(no history) = %v, want ErrNoCollapse", err)
	}
}

func TestArcUniquenessAfterCollapseExpand(t *testing.T) {
	// Property: after any sequence of connect/disconnect/collapse/expand,
	// at most one arc exists per ordered pair.
	d, vs := newTestGraph(t, "a", "b", "c", "d")
	d.MustConnect(vs["a"], vs["b"])
	d.MustConnect(vs["a"], vs["c"])
	d.MustConnect(vs["b"], vs["d"])
	d.MustConnect(vs["c"], vs["d"])

	m := NewDummyVertex("m")
	if err := d.Collapse([]*Vertex{vs["b"], vs["c"]}, m, nil, nil); err != nil {
		t.Fatal(err)
	}
	d.MustConnect(vs["a"], m) // idempotent on the merged arc
	if err := d.Expand(m, nil, nil); err != nil {
		t.Fatal(err)
	}
	d.MustConnect(vs["a"], vs["b"])

	seen := make(map[[2]*Vertex]int)
	for _, a := range d.Arcs() {
		seen[[2]*Vertex{a.Tail, a.Head}]++
	}
	for k, n := range seen {
		if n > 1 {
			t.Errorf("pair %s→%s has %d arcs, want at most 1", k[0].Name, k[1].Name, n)
		}
	}
}

func TestComponents(t *testing.T) {
	d, vs := newTestGraph(t, "a", "b", "c", "d", "e")
	d.MustConnect(vs["a"], vs["b"])
	d.MustConnect(vs["c"], vs["d"])

	comps := d.Components()
	if len(comps) != 3 {
		t.Fatalf("Components() = %d components, want 3", len(comps))
	}
	if len(comps[0]) != 2 || comps[0][0] != vs["a"] {
		t.Errorf("first component = %v, want [a b]", names(comps[0]))
	}
	if len(comps[2]) != 1 || comps[2][0] != vs["e"] {
		t.Errorf("last component = %v, want [e]", names(comps[2]))
	}
}

func names(vs []*Vertex) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.Name
	}
	return out
}

func TestSyncCopiesArcPaths(t *testing.T) {
	d, vs := newTestGraph(t, "a", "b")
	arc := d.MustConnect(vs["a"], vs["b"])
	fwd := NewEdge(vs["a"], vs["b"], DirectionTo)
	rev := NewEdge(vs["b"], vs["a"], DirectionBack)
	arc.SyntacticEdges = append(arc.SyntacticEdges, fwd, rev)

	vs["a"].Pos.Shift(0, 0)
	vs["b"].Pos.Shift(4, 0)
	arc.SetPolylinePath()
	d.Sync()

	if fwd.Path == nil || rev.Path == nil {
		t.Fatal("Sync() left edge paths nil")
	}
	f := fwd.Path.Coordinates()
	r := rev.Path.Coordinates()
	if f[0] != vs["a"].Pos || f[len(f)-1] != vs["b"].Pos {
		t.Errorf("forward edge path runs %v → %v, want a → b", f[0], f[len(f)-1])
	}
	if r[0] != vs["b"].Pos || r[len(r)-1] != vs["a"].Pos {
		t.Errorf("reverse edge path runs %v → %v, want b → a", r[0], r[len(r)-1])
	}
}

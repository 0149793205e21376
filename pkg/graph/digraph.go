package graph

import (
	"errors"
	"slices"

	"github.com/graphdraw/graphdraw/pkg/geo"
)

var (
	// ErrNilVertex is returned by [Digraph.Add] when the vertex is nil.
	ErrNilVertex = errors.New("nil vertex")

	// ErrDuplicateVertex is returned by [Digraph.Add] when the vertex is
	// already a member of the digraph.
	ErrDuplicateVertex = errors.New("vertex already in digraph")

	// ErrUnknownTail is returned by [Digraph.Connect] when the tail vertex
	// is not a member of the digraph.
	ErrUnknownTail = errors.New("unknown tail vertex")

	// ErrUnknownHead is returned by [Digraph.Connect] when the head vertex
	// is not a member of the digraph.
	ErrUnknownHead = errors.New("unknown head vertex")

	// ErrUnknownVertex is returned by [Digraph.Collapse] when a vertex of
	// the collapse set is not a member of the digraph.
	ErrUnknownVertex = errors.New("unknown vertex")

	// ErrAlreadyCollapsed is returned by [Digraph.Collapse] when a vertex
	// of the set is already hidden inside another collapse. Collapsing a
	// collapsed vertex is a programming-contract violation, not a
	// recoverable condition.
	ErrAlreadyCollapsed = errors.New("vertex already collapsed")

	// ErrNoCollapse is returned by [Digraph.Expand] when the vertex has no
	// recorded collapse history.
	ErrNoCollapse = errors.New("vertex has no collapse history")
)

// arcKey identifies an arc by its ordered endpoint pair.
type arcKey struct {
	tail, head *Vertex
}

// collapseRecord remembers everything needed to undo one collapse.
type collapseRecord struct {
	set     []*Vertex // collapsed vertices in insertion order
	removed []*Arc    // original arcs incident to the set (loops included)
	created []*Arc    // arcs created between the replacement and outside
}

// Digraph owns a vertex set and an arc set. Vertices are shared identity
// objects; arcs belong to exactly one digraph. At most one arc exists per
// ordered vertex pair - [Digraph.Connect] is idempotent and multiplicity is
// modeled by [Arc.SyntacticEdges] instead.
//
// All iteration that can affect layout output walks insertion-ordered
// slices, never Go map order, so layouts are reproducible.
//
// The zero value is not usable - use [New] or [Derive].
type Digraph struct {
	// Options holds the graph-level options.
	Options Options

	syntactic *Digraph

	vertices []*Vertex
	member   map[*Vertex]struct{}

	arcs []*Arc
	pair map[arcKey]*Arc
	out  map[*Vertex][]*Arc
	in   map[*Vertex][]*Arc

	collapses     map[*Vertex]*collapseRecord
	collapsedInto map[*Vertex]*Vertex
}

// New creates an empty syntactic digraph with the given graph options.
// The options map may be nil.
func New(opts Options) *Digraph {
	if opts == nil {
		opts = Options{}
	}
	return &Digraph{
		Options:       opts,
		member:        make(map[*Vertex]struct{}),
		pair:          make(map[arcKey]*Arc),
		out:           make(map[*Vertex][]*Arc),
		in:            make(map[*Vertex][]*Arc),
		collapses:     make(map[*Vertex]*collapseRecord),
		collapsedInto: make(map[*Vertex]*Vertex),
	}
}

// Derive creates an empty digraph derived from the given syntactic digraph.
// Derived digraphs share the syntactic digraph's options and resolve arc
// option lookups through it.
func Derive(syntactic *Digraph) *Digraph {
	d := New(syntactic.Options)
	d.syntactic = syntactic.Syntactic()
	return d
}

// IsSyntactic reports whether this digraph is a syntactic digraph rather
// than derived from one.
func (d *Digraph) IsSyntactic() bool { return d.syntactic == nil }

// Syntactic returns the syntactic digraph this digraph derives from
// (itself, for a syntactic digraph).
func (d *Digraph) Syntactic() *Digraph {
	if d.syntactic == nil {
		return d
	}
	return d.syntactic
}

// Add adds vertices to the digraph in order. Vertices already present are
// rejected with ErrDuplicateVertex; nil vertices with ErrNilVertex.
func (d *Digraph) Add(vs ...*Vertex) error {
	for _, v := range vs {
		if v == nil {
			return ErrNilVertex
		}
		if _, ok := d.member[v]; ok {
			return ErrDuplicateVertex
		}
		d.member[v] = struct{}{}
		d.vertices = append(d.vertices, v)
	}
	return nil
}

// Remove removes a vertex and all its incident arcs from the digraph.
// Removing a vertex that is not a member is a no-op. The vertex itself is
// untouched and keeps its membership in other digraphs.
func (d *Digraph) Remove(v *Vertex) {
	if _, ok := d.member[v]; !ok {
		return
	}
	for _, a := range slices.Clone(d.out[v]) {
		d.detach(a)
	}
	for _, a := range slices.Clone(d.in[v]) {
		d.detach(a)
	}
	delete(d.member, v)
	delete(d.out, v)
	delete(d.in, v)
	if i := slices.Index(d.vertices, v); i >= 0 {
		d.vertices = slices.Delete(d.vertices, i, i+1)
	}
}

// Contains reports whether v is a member of the digraph.
func (d *Digraph) Contains(v *Vertex) bool {
	_, ok := d.member[v]
	return ok
}

// Vertices returns the digraph's vertices in insertion order.
// The returned slice is a read-only view.
func (d *Digraph) Vertices() []*Vertex { return d.vertices }

// Arcs returns the digraph's arcs in creation order.
// The returned slice is a read-only view.
func (d *Digraph) Arcs() []*Arc { return d.arcs }

// VertexCount returns the number of vertices.
func (d *Digraph) VertexCount() int { return len(d.vertices) }

// ArcCount returns the number of arcs.
func (d *Digraph) ArcCount() int { return len(d.arcs) }

// Arc returns the arc from tail to head, or nil if none exists.
func (d *Digraph) Arc(tail, head *Vertex) *Arc {
	return d.pair[arcKey{tail, head}]
}

// Connect returns the unique arc from tail to head, creating it if absent.
// Connect is idempotent: connecting an already-connected pair returns the
// existing arc. Both endpoints must be members of the digraph.
func (d *Digraph) Connect(tail, head *Vertex) (*Arc, error) {
	if !d.Contains(tail) {
		return nil, ErrUnknownTail
	}
	if !d.Contains(head) {
		return nil, ErrUnknownHead
	}
	if a := d.pair[arcKey{tail, head}]; a != nil {
		return a, nil
	}
	a := &Arc{Tail: tail, Head: head, owner: d}
	d.attach(a)
	return a, nil
}

// MustConnect is Connect for callers that have already established
// membership; it panics on contract violations.
func (d *Digraph) MustConnect(tail, head *Vertex) *Arc {
	a, err := d.Connect(tail, head)
	if err != nil {
		panic("graph: " + err.Error())
	}
	return a
}

// Disconnect removes the arc from tail to head if it exists.
func (d *Digraph) Disconnect(tail, head *Vertex) {
	if a := d.pair[arcKey{tail, head}]; a != nil {
		d.detach(a)
	}
}

// attach inserts an arc into all indices.
func (d *Digraph) attach(a *Arc) {
	d.arcs = append(d.arcs, a)
	d.pair[arcKey{a.Tail, a.Head}] = a
	d.out[a.Tail] = append(d.out[a.Tail], a)
	d.in[a.Head] = append(d.in[a.Head], a)
}

// detach removes an arc from all indices. The arc object itself survives,
// which lets collapse records restore it later.
func (d *Digraph) detach(a *Arc) {
	key := arcKey{a.Tail, a.Head}
	if d.pair[key] != a {
		return
	}
	delete(d.pair, key)
	if i := slices.Index(d.arcs, a); i >= 0 {
		d.arcs = slices.Delete(d.arcs, i, i+1)
	}
	if i := slices.Index(d.out[a.Tail], a); i >= 0 {
		d.out[a.Tail] = slices.Delete(d.out[a.Tail], i, i+1)
	}
	if i := slices.Index(d.in[a.Head], a); i >= 0 {
		d.in[a.Head] = slices.Delete(d.in[a.Head], i, i+1)
	}
}

// OutgoingArcs returns the arcs leaving v in creation order.
// The returned slice is a read-only view.
func (d *Digraph) OutgoingArcs(v *Vertex) []*Arc { return d.out[v] }

// IncomingArcs returns the arcs entering v in creation order.
// The returned slice is a read-only view.
func (d *Digraph) IncomingArcs(v *Vertex) []*Arc { return d.in[v] }

// OutDegree returns the number of arcs leaving v.
func (d *Digraph) OutDegree(v *Vertex) int { return len(d.out[v]) }

// InDegree returns the number of arcs entering v.
func (d *Digraph) InDegree(v *Vertex) int { return len(d.in[v]) }

// Collapse removes the given vertex set from the digraph, inserts
// replacement, and redirects every arc between the set and the rest of the
// graph to the replacement. Loops (arcs with both endpoints inside the set)
// are dropped. For every redirected arc, arcMerge is invoked with the
// surviving arc (which may have just been created) and the removed arc, so
// callers can accumulate weights or counts; vertexMerge is invoked once per
// collapsed vertex for attribute accumulation. Both hooks may be nil.
//
// The replacement is added to the digraph if it is not a member yet. The
// collapse is recorded on the replacement so [Digraph.Expand] can undo it.
// Collapsing a vertex that is already hidden inside another collapse
// returns ErrAlreadyCollapsed.
func (d *Digraph) Collapse(set []*Vertex, replacement *Vertex, arcMerge func(surviving, removed *Arc), vertexMerge func(replacement, removed *Vertex)) error {
	if replacement == nil {
		return ErrNilVertex
	}
	inSet := make(map[*Vertex]struct{}, len(set))
	for _, v := range set {
		// Collapsed vertices are no longer members, so this check must
		// come before the membership check to report them distinctly.
		if _, ok := d.collapsedInto[v]; ok {
			return ErrAlreadyCollapsed
		}
		if !d.Contains(v) {
			return ErrUnknownVertex
		}
		inSet[v] = struct{}{}
	}

	rec := &collapseRecord{set: slices.Clone(set)}

	// Gather incident arcs once, in deterministic creation order.
	for _, a := range d.arcs {
		_, tailIn := inSet[a.Tail]
		_, headIn := inSet[a.Head]
		if tailIn || headIn {
			rec.removed = append(rec.removed, a)
		}
	}

	if !d.Contains(replacement) {
		if err := d.Add(replacement); err != nil {
			return err
		}
	}

	for _, a := range rec.removed {
		_, tailIn := inSet[a.Tail]
		_, headIn := inSet[a.Head]
		if tailIn && headIn {
			continue // interior loop, dropped
		}
		newTail, newHead := a.Tail, a.Head
		if tailIn {
			newTail = replacement
		} else {
			newHead = replacement
		}
		surviving := d.Arc(newTail, newHead)
		if surviving == nil {
			surviving = &Arc{Tail: newTail, Head: newHead, owner: d}
			d.attach(surviving)
			rec.created = append(rec.created, surviving)
		}
		if arcMerge != nil {
			arcMerge(surviving, a)
		}
	}

	for _, v := range set {
		if vertexMerge != nil {
			vertexMerge(replacement, v)
		}
		d.Remove(v)
		d.collapsedInto[v] = replacement
	}
	d.collapses[replacement] = rec
	return nil
}

// Expand undoes the most recent collapse recorded on replacement: the
// collapsed vertices rejoin the digraph, their original arcs are restored,
// the arcs created by the collapse are removed, and finally the replacement
// itself leaves the digraph. positionHook is invoked for every restored
// vertex (before arc restoration) so the caller can redistribute the
// replacement's position delta; arcHook for every restored arc. Both hooks
// may be nil.
//
// Expanding a vertex with no recorded collapse returns ErrNoCollapse.
// Positions are not re-derived automatically - that is the caller's
// responsibility, typically via positionHook.
func (d *Digraph) Expand(replacement *Vertex, positionHook func(replacement, restored *Vertex), arcHook func(restored *Arc)) error {
	rec := d.collapses[replacement]
	if rec == nil {
		return ErrNoCollapse
	}

	for _, a := range rec.created {
		d.detach(a)
	}
	d.Remove(replacement)

	for _, v := range rec.set {
		delete(d.collapsedInto, v)
		if err := d.Add(v); err != nil {
			return err
		}
		if positionHook != nil {
			positionHook(replacement, v)
		}
	}
	for _, a := range rec.removed {
		d.attach(a)
		if arcHook != nil {
			arcHook(a)
		}
	}
	delete(d.collapses, replacement)
	return nil
}

// Sync flushes the routed arc paths back onto the syntactic edges, copying
// each arc's path to every syntactic edge it represents. Edges recorded
// against the reverse arc direction receive a reversed copy so the path
// always runs from the edge's tail to its head.
func (d *Digraph) Sync() {
	for _, a := range d.arcs {
		if a.Path == nil {
			continue
		}
		a.Path.Rigid()
		for _, e := range a.SyntacticEdges {
			if e.Tail == a.Tail {
				e.Path = a.Path.Clone()
			} else {
				e.Path = a.Path.Reversed()
			}
		}
	}
}

// Components returns the weakly connected components of the digraph as
// vertex slices, each in insertion order, ordered by their first vertex.
func (d *Digraph) Components() [][]*Vertex {
	seen := make(map[*Vertex]struct{}, len(d.vertices))
	var comps [][]*Vertex
	for _, v := range d.vertices {
		if _, ok := seen[v]; ok {
			continue
		}
		var comp []*Vertex
		queue := []*Vertex{v}
		seen[v] = struct{}{}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			comp = append(comp, cur)
			for _, a := range d.out[cur] {
				if _, ok := seen[a.Head]; !ok {
					seen[a.Head] = struct{}{}
					queue = append(queue, a.Head)
				}
			}
			for _, a := range d.in[cur] {
				if _, ok := seen[a.Tail]; !ok {
					seen[a.Tail] = struct{}{}
					queue = append(queue, a.Tail)
				}
			}
		}
		comps = append(comps, comp)
	}
	return comps
}

// BoundingBox returns the bounding box of all vertex outlines at their
// current positions. The digraph must be non-empty.
func (d *Digraph) BoundingBox() (min, max geo.Coordinate) {
	if len(d.vertices) == 0 {
		panic("graph: bounding box of empty digraph")
	}
	first := true
	for _, v := range d.vertices {
		vmin, vmax := v.BoundingBox()
		vmin.ShiftBy(v.Pos)
		vmax.ShiftBy(v.Pos)
		if first {
			min, max = vmin, vmax
			first = false
			continue
		}
		if vmin.X < min.X {
			min.X = vmin.X
		}
		if vmin.Y < min.Y {
			min.Y = vmin.Y
		}
		if vmax.X > max.X {
			max.X = vmax.X
		}
		if vmax.Y > max.Y {
			max.Y = vmax.Y
		}
	}
	return min, max
}

package graph

import "github.com/graphdraw/graphdraw/pkg/geo"

// Direction is the user-specified direction kind of a syntactic edge.
type Direction string

// Edge direction kinds as written in graph specifications.
const (
	DirectionTo   Direction = "->"
	DirectionNone Direction = "--"
	DirectionBack Direction = "<-"
	DirectionBoth Direction = "<->"
	DirectionBar  Direction = "-!-"
)

// Edge is one user-specified syntactic edge. Several syntactic edges
// between the same vertex pair collapse into a single [Arc] in the
// syntactic digraph; the edges keep their individual options and paths.
type Edge struct {
	Tail, Head *Vertex
	Direction  Direction

	// Options holds the options attached to this specific edge.
	Options Options

	// Path is the routed geometry of the edge, filled in from the arc
	// path during [Digraph.Sync].
	Path *geo.Path

	// GeneratedOptions collects key-value pairs produced during layout
	// for the display layer.
	GeneratedOptions Options
}

// NewEdge creates a syntactic edge with empty options.
func NewEdge(tail, head *Vertex, dir Direction) *Edge {
	return &Edge{
		Tail:      tail,
		Head:      head,
		Direction: dir,
		Options:   Options{},
	}
}

// Arc is the unique directed connection from Tail to Head inside one
// digraph. Arcs are created by [Digraph.Connect] and always belong to the
// digraph that created them.
type Arc struct {
	Tail, Head *Vertex

	// SyntacticEdges records the user-specified edges represented by this
	// arc. Only arcs of the syntactic digraph carry entries; arcs of
	// derived digraphs reach syntactic options through [Arc.Option].
	SyntacticEdges []*Edge

	// Path is the routed geometry computed for the arc, if any.
	Path *geo.Path

	owner *Digraph
}

// syntacticArc returns the arc of the syntactic digraph connecting the same
// endpoints in either direction, or nil if there is none. For arcs of the
// syntactic digraph itself this is the arc.
func (a *Arc) syntacticArc() *Arc {
	syn := a.owner.Syntactic()
	if syn == a.owner {
		return a
	}
	if sa := syn.Arc(a.Tail, a.Head); sa != nil {
		return sa
	}
	return syn.Arc(a.Head, a.Tail)
}

// Option looks up an option across the syntactic edges represented by this
// arc, in specification order. For arcs of derived digraphs the lookup
// consults the syntactic digraph.
func (a *Arc) Option(key string) (any, bool) {
	sa := a.syntacticArc()
	if sa == nil {
		return nil, false
	}
	for _, e := range sa.SyntacticEdges {
		if v, ok := e.Options.Lookup(key); ok {
			return v, true
		}
	}
	return nil, false
}

// OptionsArray collects the option value of every syntactic edge that
// carries the key, in specification order.
func (a *Arc) OptionsArray(key string) []any {
	sa := a.syntacticArc()
	if sa == nil {
		return nil
	}
	var out []any
	for _, e := range sa.SyntacticEdges {
		if v, ok := e.Options.Lookup(key); ok {
			out = append(out, v)
		}
	}
	return out
}

// OptionFloat is a convenience wrapper returning the first numeric value of
// key among the arc's syntactic edges, or def.
func (a *Arc) OptionFloat(key string, def float64) float64 {
	v, ok := a.Option(key)
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return def
	}
}

// SetPolylinePath sets the arc path to a straight polyline from the tail
// position through the given intermediate points to the head position.
func (a *Arc) SetPolylinePath(mid ...geo.Coordinate) {
	pts := make([]geo.Coordinate, 0, len(mid)+2)
	pts = append(pts, a.Tail.Pos)
	pts = append(pts, mid...)
	pts = append(pts, a.Head.Pos)
	a.Path = geo.PathFromPoints(pts...)
}

// Span returns the arc's routed path cut back to the tail and head vertex
// outlines, so the drawn edge starts and ends on the shape boundaries
// rather than at the vertex centers. If no path was set, a straight line is
// used.
func (a *Arc) Span() *geo.Path {
	p := a.Path
	if p == nil {
		p = geo.PathFromPoints(a.Tail.Pos, a.Head.Pos)
	}
	p = p.Clone().Rigid()
	p = p.CutStart(a.Tail.AbsoluteOutline())
	p = p.CutEnd(a.Head.AbsoluteOutline())
	return p
}

package graph

import (
	"math"

	"github.com/graphdraw/graphdraw/pkg/geo"
)

// VertexKind distinguishes original graph vertices from synthetic vertices
// created during layout.
type VertexKind int

const (
	// KindNode represents an original vertex from the graph specification.
	KindNode VertexKind = iota
	// KindDummy represents a synthetic vertex created by an algorithm:
	// a coarsening placeholder, a long-edge subdivision point, or a
	// subgraph-node stand-in.
	KindDummy
)

// String returns a human-readable name for the kind.
func (k VertexKind) String() string {
	switch k {
	case KindNode:
		return "node"
	case KindDummy:
		return "dummy"
	default:
		return "unknown"
	}
}

// Vertex is a vertex of one or more digraphs. The vertex owns its geometry;
// adjacency is owned by each digraph the vertex belongs to, keyed by vertex
// identity. Two vertices are the same vertex exactly when they are the same
// pointer.
//
// Pos is the layout's output: the final position of the vertex in the
// drawing's coordinate frame. Path is the vertex's shape outline in a local
// frame centered near the origin.
type Vertex struct {
	// Name identifies the vertex in graph documents and diagnostics.
	// Synthetic vertices may have an empty name.
	Name string

	// Kind indicates whether this is an original or synthetic vertex.
	Kind VertexKind

	// Pos is the current (and eventually final) position.
	Pos geo.Coordinate

	// Path is the shape outline in local coordinates. Never nil after
	// NewVertex.
	Path *geo.Path

	// Options holds the key-value options attached to the vertex.
	// Never nil after NewVertex.
	Options Options

	// GeneratedOptions collects key-value pairs produced during layout
	// that the display layer should apply (e.g. computed subgraph-node
	// dimensions).
	GeneratedOptions Options

	anchors map[string]geo.Coordinate
}

// NewVertex creates a vertex with the given name, a default rectangular
// outline, and empty options.
func NewVertex(name string) *Vertex {
	return &Vertex{
		Name:    name,
		Path:    geo.RectangleOutline(defaultVertexSize, defaultVertexSize),
		Options: Options{},
	}
}

// NewDummyVertex creates a synthetic vertex with a degenerate outline.
func NewDummyVertex(name string) *Vertex {
	v := NewVertex(name)
	v.Kind = KindDummy
	v.Path = geo.RectangleOutline(0, 0)
	return v
}

// defaultVertexSize is the side length of the default vertex outline.
const defaultVertexSize = 1.0

// IsDummy reports whether the vertex is synthetic.
func (v *Vertex) IsDummy() bool { return v.Kind == KindDummy }

// BoundingBox returns the local bounding box of the vertex outline.
func (v *Vertex) BoundingBox() (min, max geo.Coordinate) {
	return v.Path.Rigid().BoundingBox()
}

// AbsoluteOutline returns the vertex outline translated to the vertex's
// current position.
func (v *Vertex) AbsoluteOutline() *geo.Path {
	return v.Path.Clone().Rigid().Shift(v.Pos.X, v.Pos.Y)
}

// Anchor returns the named point on the vertex boundary in local
// coordinates. Recognized names are "center", "north", "south", "east",
// "west", "north east", "north west", "south east" and "south west"; the
// boundary anchors are computed lazily by intersecting a ray from the
// center with the outline and cached. Unknown names report ok=false.
func (v *Vertex) Anchor(name string) (geo.Coordinate, bool) {
	if name == "center" {
		return geo.Coordinate{}, true
	}
	if c, ok := v.anchors[name]; ok {
		return c, true
	}
	dir, ok := anchorDirection(name)
	if !ok {
		return geo.Coordinate{}, false
	}
	c := v.AnchorAt(dir)
	if v.anchors == nil {
		v.anchors = make(map[string]geo.Coordinate)
	}
	v.anchors[name] = c
	return c, true
}

// AnchorAt returns the point where a ray from the center in direction dir
// leaves the vertex outline, in local coordinates. If the outline is
// degenerate the center itself is returned.
func (v *Vertex) AnchorAt(dir geo.Coordinate) geo.Coordinate {
	min, max := v.BoundingBox()
	reach := 2 * math.Max(max.Sub(min).Norm(), 1)
	ray := geo.PathFromPoints(geo.Coordinate{}, dir.Normed().Scale(reach))
	hits := ray.Intersections(v.Path)
	if len(hits) == 0 {
		return geo.Coordinate{}
	}
	return hits[len(hits)-1]
}

// anchorDirection maps compass anchor names to unit-ish directions.
func anchorDirection(name string) (geo.Coordinate, bool) {
	switch name {
	case "north":
		return geo.Coordinate{X: 0, Y: 1}, true
	case "south":
		return geo.Coordinate{X: 0, Y: -1}, true
	case "east":
		return geo.Coordinate{X: 1, Y: 0}, true
	case "west":
		return geo.Coordinate{X: -1, Y: 0}, true
	case "north east":
		return geo.Coordinate{X: 1, Y: 1}, true
	case "north west":
		return geo.Coordinate{X: -1, Y: 1}, true
	case "south east":
		return geo.Coordinate{X: 1, Y: -1}, true
	case "south west":
		return geo.Coordinate{X: -1, Y: -1}, true
	default:
		return geo.Coordinate{}, false
	}
}

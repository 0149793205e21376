package graph

// Collection kinds used by the layout engine.
const (
	// CollectionSublayout scopes a nested layout request: its vertices and
	// edges are laid out by a separate algorithm invocation and merged
	// into the surrounding layout.
	CollectionSublayout = "sublayout"

	// CollectionSubgraphNode marks a region that is drawn as a single
	// node: its vertices are collapsed into one placeholder before the
	// surrounding layout runs and expanded again afterwards.
	CollectionSubgraphNode = "subgraph node"

	// CollectionSameLayer forces its vertices onto a common layer in
	// layered layouts.
	CollectionSameLayer = "same layer"

	// CollectionHyper groups vertices of a hyperedge.
	CollectionHyper = "hyper"
)

// KindInfo carries per-kind metadata for registered collection kinds.
type KindInfo struct {
	// Layered marks kinds that constrain layer assignment.
	Layered bool
}

var collectionKinds = map[string]KindInfo{
	CollectionSublayout:    {},
	CollectionSubgraphNode: {},
	CollectionSameLayer:    {Layered: true},
	CollectionHyper:        {},
}

// RegisterCollectionKind registers a collection kind. Registering an
// existing kind overwrites its metadata. Registration normally happens once
// at startup.
func RegisterCollectionKind(kind string, info KindInfo) {
	collectionKinds[kind] = info
}

// CollectionKind returns the metadata registered for kind.
func CollectionKind(kind string) (KindInfo, bool) {
	info, ok := collectionKinds[kind]
	return info, ok
}

// Collection is a named subset of vertices and edges plus a tree of child
// collections. Collections represent sublayouts, same-layer groupings, or
// subgraph-as-node regions. They are created during graph specification,
// consumed once by the layout pipeline, and never mutated afterward except
// for position bookkeeping in GeneratedOptions.
type Collection struct {
	Kind string
	Name string

	Vertices []*Vertex
	Edges    []*Edge

	// Options holds the options attached to the collection (for
	// sublayouts, the options of the nested layout request).
	Options Options

	// GeneratedOptions collects key-value pairs produced during layout,
	// e.g. the bounding box of a subgraph node.
	GeneratedOptions Options

	parent   *Collection
	children []*Collection
}

// NewCollection creates an empty collection of the given kind.
func NewCollection(kind, name string) *Collection {
	return &Collection{
		Kind:             kind,
		Name:             name,
		Options:          Options{},
		GeneratedOptions: Options{},
	}
}

// Parent returns the parent collection, or nil for a root.
func (c *Collection) Parent() *Collection { return c.parent }

// Children returns the direct child collections in registration order.
// The returned slice is a read-only view.
func (c *Collection) Children() []*Collection { return c.children }

// AddChild appends child to c's children and sets its parent.
func (c *Collection) AddChild(child *Collection) {
	child.parent = c
	c.children = append(c.children, child)
}

// ChildrenOfKind returns the direct children with the given kind.
func (c *Collection) ChildrenOfKind(kind string) []*Collection {
	var out []*Collection
	for _, ch := range c.children {
		if ch.Kind == kind {
			out = append(out, ch)
		}
	}
	return out
}

// Descendants returns all collections of the subtree rooted at c (c
// excluded) in depth-first registration order, filtered by kind. An empty
// kind matches everything.
func (c *Collection) Descendants(kind string) []*Collection {
	var out []*Collection
	var walk func(col *Collection)
	walk = func(col *Collection) {
		for _, ch := range col.children {
			if kind == "" || ch.Kind == kind {
				out = append(out, ch)
			}
			walk(ch)
		}
	}
	walk(c)
	return out
}

// ContainsVertex reports whether v is listed in the collection.
func (c *Collection) ContainsVertex(v *Vertex) bool {
	for _, u := range c.Vertices {
		if u == v {
			return true
		}
	}
	return false
}

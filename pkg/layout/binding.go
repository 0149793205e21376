package layout

import "github.com/graphdraw/graphdraw/pkg/graph"

// VertexInit describes a vertex the engine asks the host to create.
type VertexInit struct {
	Name    string
	Kind    graph.VertexKind
	Options graph.Options
}

// EdgeInit describes an edge the engine asks the host to create.
type EdgeInit struct {
	Direction graph.Direction
	Options   graph.Options
}

// Binding is the host-side factory the engine calls whenever it needs a
// vertex or edge that was not part of the input, such as subgraph-node
// placeholders. Hosts embedding the engine implement this to mirror
// generated objects into their own object model.
type Binding interface {
	CreateVertex(init VertexInit) *graph.Vertex
	CreateEdge(tail, head *graph.Vertex, init EdgeInit) *graph.Edge
}

// EventKind discriminates entries of the engine's event stream.
type EventKind string

const (
	EventVertexCreated     EventKind = "vertex created"
	EventEdgeCreated       EventKind = "edge created"
	EventCollectionEntered EventKind = "collection entered"
)

// Event is one entry of the ordered record of objects the engine created
// or visited during a layout run.
type Event struct {
	Kind       EventKind
	Vertex     *graph.Vertex
	Edge       *graph.Edge
	Collection *graph.Collection
}

// MemoryBinding is the default Binding: it creates plain graph objects
// and appends an event per creation. Suitable for tests and the CLI.
type MemoryBinding struct {
	Events []Event
}

// NewMemoryBinding returns an empty in-memory binding.
func NewMemoryBinding() *MemoryBinding { return &MemoryBinding{} }

func (b *MemoryBinding) CreateVertex(init VertexInit) *graph.Vertex {
	var v *graph.Vertex
	if init.Kind == graph.KindDummy {
		v = graph.NewDummyVertex(init.Name)
	} else {
		v = graph.NewVertex(init.Name)
	}
	if init.Options != nil {
		v.Options = init.Options
	}
	b.Events = append(b.Events, Event{Kind: EventVertexCreated, Vertex: v})
	return v
}

func (b *MemoryBinding) CreateEdge(tail, head *graph.Vertex, init EdgeInit) *graph.Edge {
	dir := init.Direction
	if dir == "" {
		dir = graph.DirectionTo
	}
	e := graph.NewEdge(tail, head, dir)
	if init.Options != nil {
		e.Options = init.Options
	}
	b.Events = append(b.Events, Event{Kind: EventEdgeCreated, Edge: e})
	return e
}

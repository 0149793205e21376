package layout

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"golang.org/x/exp/rand"

	gderrors "github.com/graphdraw/graphdraw/pkg/errors"
	"github.com/graphdraw/graphdraw/pkg/geo"
	"github.com/graphdraw/graphdraw/pkg/graph"
)

// Engine drives the recursive sublayout pass: child sublayouts are laid
// out bottom-up, merged or collapsed into the surrounding graph, the
// surrounding layout runs per component, components are packed, and the
// collapsed frames are expanded back out.
type Engine struct {
	binding Binding
	logger  *log.Logger
	events  []Event
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithBinding installs the host binding the engine asks for generated
// vertices and edges.
func WithBinding(b Binding) EngineOption {
	return func(e *Engine) {
		if b != nil {
			e.binding = b
		}
	}
}

// WithLogger installs a logger. The default discards everything.
func WithLogger(l *log.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine returns an engine with an in-memory binding and a discarding
// logger unless options say otherwise.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		binding: NewMemoryBinding(),
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Events returns the ordered record of this engine's layout runs:
// collections entered plus every vertex and edge the engine asked the
// binding to create.
func (e *Engine) Events() []Event { return e.events }

// createVertex asks the binding for a vertex and records the creation on
// the run's event stream.
func (e *Engine) createVertex(init VertexInit) *graph.Vertex {
	v := e.binding.CreateVertex(init)
	e.events = append(e.events, Event{Kind: EventVertexCreated, Vertex: v})
	return v
}

// Layout lays out the sublayout tree rooted at root and returns the fully
// positioned digraph of the root frame. root must be a sublayout
// collection.
func (e *Engine) Layout(root *graph.Collection) (*graph.Digraph, error) {
	if root == nil || root.Kind != graph.CollectionSublayout {
		return nil, gderrors.New(gderrors.ErrCodeInvalidGraph, "layout entry point must be a sublayout collection")
	}
	return e.layoutSublayout(root)
}

// collapsedFrame remembers one collapsed group so it can be expanded and
// its members shifted after the surrounding layout ran.
type collapsedFrame struct {
	replacement *graph.Vertex
	origin      geo.Coordinate
	members     *graph.Digraph
}

func (e *Engine) layoutSublayout(c *graph.Collection) (*graph.Digraph, error) {
	e.events = append(e.events, Event{Kind: EventCollectionEntered, Collection: c})

	cfg, err := ResolveConfig(c.Options)
	if err != nil {
		return nil, err
	}
	algo, err := New(cfg.Algorithm)
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(cfg.RandomSeed))

	// Child sublayouts first, bottom-up. Positions are snapshotted per
	// child frame immediately: vertices are shared objects, so a later
	// sibling laying out a shared vertex overwrites its Pos.
	var childFrames []frameSnapshot
	for _, child := range c.ChildrenOfKind(graph.CollectionSublayout) {
		g, err := e.layoutSublayout(child)
		if err != nil {
			return nil, err
		}
		childFrames = append(childFrames, snapshotFrame(g))
	}

	// Assemble this frame's syntactic digraph.
	d := graph.New(c.Options)
	for _, v := range c.Vertices {
		if !d.Contains(v) {
			if err := d.Add(v); err != nil {
				return nil, err
			}
		}
	}
	for _, edge := range c.Edges {
		for _, v := range []*graph.Vertex{edge.Tail, edge.Head} {
			if !d.Contains(v) {
				if err := d.Add(v); err != nil {
					return nil, err
				}
			}
		}
		arc, err := d.Connect(edge.Tail, edge.Head)
		if err != nil {
			return nil, err
		}
		arc.SyntacticEdges = append(arc.SyntacticEdges, edge)
	}

	// Child results sharing vertices with each other coalesce into merged
	// groups before they meet this frame.
	groups := mergeSharedFrames(childFrames)

	// Each group enters this frame either merged (it shares a vertex with
	// the frame, so its vertices join this layout with their child
	// positions as a warm start) or collapsed into a single placeholder
	// vertex whose outline is the group's bounding box.
	var frames []collapsedFrame
	for _, g := range groups {
		if countShared(d, g) > 0 {
			adoptGraph(d, g)
			continue
		}
		adoptGraph(d, g)
		frame, err := e.collapseGroup(d, g, groupName(g))
		if err != nil {
			return nil, err
		}
		frames = append(frames, frame)
	}

	// Subgraph-node collections collapse once all their vertices live in
	// this frame.
	for _, sub := range c.ChildrenOfKind(graph.CollectionSubgraphNode) {
		all := len(sub.Vertices) > 0
		for _, v := range sub.Vertices {
			if !d.Contains(v) {
				all = false
				break
			}
		}
		if !all {
			continue
		}
		members := graph.Derive(d.Syntactic())
		for _, v := range sub.Vertices {
			if err := members.Add(v); err != nil {
				return nil, err
			}
		}
		frame, err := e.collapseGroup(d, members, sub.Name)
		if err != nil {
			return nil, err
		}
		sub.GeneratedOptions = frame.replacement.GeneratedOptions
		frames = append(frames, frame)
	}

	// Lay out per component, then pack.
	if d.VertexCount() > 0 {
		comps := SplitComponents(d)
		for _, comp := range comps {
			runCtx := &Context{
				Digraph: comp,
				Config:  cfg,
				Options: c.Options,
				RNG:     rng,
				Logger:  e.logger,
				Binding: e.binding,
			}
			e.logger.Debug("running layout", "algorithm", cfg.Algorithm, "vertices", comp.VertexCount())
			if err := algo.Run(runCtx); err != nil {
				return nil, err
			}
		}
		PackComponents(comps, cfg)
		for _, comp := range comps {
			for _, a := range comp.Arcs() {
				if a.Path != nil {
					if parent := d.Arc(a.Tail, a.Head); parent != nil {
						parent.Path = a.Path
					}
				}
			}
		}
	}

	// Expand collapsed frames in reverse order, shifting members by the
	// placeholder's displacement.
	for i := len(frames) - 1; i >= 0; i-- {
		if err := e.expandFrame(d, frames[i]); err != nil {
			return nil, err
		}
	}

	applyOverrides(d)
	return d, nil
}

// frameSnapshot is a child layout result together with the positions its
// vertices held in that child's coordinate frame.
type frameSnapshot struct {
	g   *graph.Digraph
	pos map[*graph.Vertex]geo.Coordinate
}

func snapshotFrame(g *graph.Digraph) frameSnapshot {
	pos := make(map[*graph.Vertex]geo.Coordinate, g.VertexCount())
	for _, v := range g.Vertices() {
		pos[v] = v.Pos
	}
	return frameSnapshot{g: g, pos: pos}
}

// mergeSharedFrames coalesces child layouts that share vertices. The first
// frame of a group fixes the group's coordinate system; each frame joining
// a group is offset so a shared vertex's two recorded positions coincide,
// and vertices already fixed by the group keep the group's position. The
// final positions are written back onto the vertices of each group.
func mergeSharedFrames(frames []frameSnapshot) []*graph.Digraph {
	var groups []frameSnapshot
	for _, f := range frames {
		merged := false
		for _, grp := range groups {
			shared := firstShared(grp, f)
			if shared == nil {
				continue
			}
			offset := grp.pos[shared].Sub(f.pos[shared])
			for _, v := range f.g.Vertices() {
				if _, fixed := grp.pos[v]; !fixed {
					grp.pos[v] = f.pos[v].Add(offset)
				}
			}
			for _, a := range f.g.Arcs() {
				if a.Path != nil {
					a.Path.Shift(offset.X, offset.Y)
				}
			}
			adoptGraph(grp.g, f.g)
			merged = true
			break
		}
		if !merged {
			groups = append(groups, f)
		}
	}

	out := make([]*graph.Digraph, len(groups))
	for i, grp := range groups {
		for _, v := range grp.g.Vertices() {
			v.Pos = grp.pos[v]
		}
		out[i] = grp.g
	}
	return out
}

func firstShared(grp, f frameSnapshot) *graph.Vertex {
	for _, v := range f.g.Vertices() {
		if _, ok := grp.pos[v]; ok {
			return v
		}
	}
	return nil
}

func countShared(a, b *graph.Digraph) int {
	n := 0
	for _, v := range b.Vertices() {
		if a.Contains(v) {
			n++
		}
	}
	return n
}

// adoptGraph copies g's vertices and arcs into dst, preserving order.
func adoptGraph(dst, g *graph.Digraph) {
	for _, v := range g.Vertices() {
		if !dst.Contains(v) {
			if err := dst.Add(v); err != nil {
				panic("layout: adopt rejected vertex: " + err.Error())
			}
		}
	}
	for _, a := range g.Arcs() {
		arc := dst.MustConnect(a.Tail, a.Head)
		if arc.Path == nil {
			arc.Path = a.Path
		}
		arc.SyntacticEdges = append(arc.SyntacticEdges, a.SyntacticEdges...)
	}
}

// collapseGroup collapses the members digraph inside d into one dummy
// placeholder whose outline is the members' bounding box. The placeholder
// records the box on its generated options.
func (e *Engine) collapseGroup(d, members *graph.Digraph, name string) (collapsedFrame, error) {
	min, max := members.BoundingBox()
	center := geo.Midpoint(min, max)
	w, h := max.X-min.X, max.Y-min.Y
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}

	repl := e.createVertex(VertexInit{Name: name, Kind: graph.KindDummy})
	repl.Path = geo.RectangleOutline(w, h)
	repl.Pos = center
	repl.GeneratedOptions = graph.Options{
		"subgraph bounding box width":  w,
		"subgraph bounding box height": h,
		"subgraph bounding box center": center,
	}

	err := d.Collapse(members.Vertices(), repl, nil, nil)
	if err != nil {
		return collapsedFrame{}, err
	}
	return collapsedFrame{replacement: repl, origin: center, members: members}, nil
}

// expandFrame undoes one collapse, moving every member vertex and member
// arc path by the displacement the placeholder picked up during layout.
func (e *Engine) expandFrame(d *graph.Digraph, f collapsedFrame) error {
	delta := f.replacement.Pos.Sub(f.origin)
	err := d.Expand(f.replacement, func(_, restored *graph.Vertex) {
		restored.Pos.ShiftBy(delta)
	}, func(a *graph.Arc) {
		if a.Path != nil {
			a.Path.Shift(delta.X, delta.Y)
		}
	})
	if err != nil {
		return err
	}
	return nil
}

// applyOverrides applies the absolute and relative position overrides
// that win over anything an algorithm computed: "regardless at" first,
// then "nudge".
func applyOverrides(d *graph.Digraph) {
	for _, v := range d.Vertices() {
		if c, ok := OptionCoordinate(v.Options["regardless at"]); ok {
			v.Pos = c
		}
	}
	for _, v := range d.Vertices() {
		if c, ok := OptionCoordinate(v.Options["nudge"]); ok {
			v.Pos.ShiftBy(c)
		}
	}
}

// OptionCoordinate coerces an option value into a coordinate. Accepted
// shapes: geo.Coordinate, [2]float64, and two-element numeric slices as
// produced by TOML decoding.
func OptionCoordinate(v any) (geo.Coordinate, bool) {
	switch t := v.(type) {
	case nil:
		return geo.Coordinate{}, false
	case geo.Coordinate:
		return t, true
	case [2]float64:
		return geo.Coordinate{X: t[0], Y: t[1]}, true
	case []float64:
		if len(t) == 2 {
			return geo.Coordinate{X: t[0], Y: t[1]}, true
		}
	case []any:
		if len(t) == 2 {
			x, okx := toFloat(t[0])
			y, oky := toFloat(t[1])
			if okx && oky {
				return geo.Coordinate{X: x, Y: y}, true
			}
		}
	}
	return geo.Coordinate{}, false
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	}
	return 0, false
}

// groupName derives a placeholder name from a group's first vertex.
func groupName(g *graph.Digraph) string {
	vs := g.Vertices()
	if len(vs) == 0 {
		return "group"
	}
	return fmt.Sprintf("group(%s)", vs[0].Name)
}

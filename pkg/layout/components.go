package layout

import (
	"sort"

	"github.com/graphdraw/graphdraw/pkg/geo"
	"github.com/graphdraw/graphdraw/pkg/graph"
)

// SplitComponents returns one derived digraph per weakly connected
// component of d, in deterministic order. Vertices are shared with d;
// arcs are fresh per-component connections between member vertices.
func SplitComponents(d *graph.Digraph) []*graph.Digraph {
	comps := d.Components()
	out := make([]*graph.Digraph, 0, len(comps))
	for _, members := range comps {
		c := graph.Derive(d.Syntactic())
		c.Options = d.Options
		for _, v := range members {
			if err := c.Add(v); err != nil {
				panic("layout: component member rejected: " + err.Error())
			}
		}
		for _, a := range d.Arcs() {
			if c.Contains(a.Tail) && c.Contains(a.Head) {
				c.MustConnect(a.Tail, a.Head)
			}
		}
		out = append(out, c)
	}
	return out
}

// PackComponents places the already laid out components side by side so
// their bounding boxes do not overlap, honoring the configured separation,
// direction and ordering. Every vertex position and arc path in a shifted
// component moves together.
func PackComponents(comps []*graph.Digraph, cfg *Config) {
	if len(comps) < 2 {
		return
	}

	order := make([]*graph.Digraph, len(comps))
	copy(order, comps)
	switch cfg.ComponentPackingOrder {
	case "decreasing node number":
		sort.SliceStable(order, func(i, j int) bool {
			return order[i].VertexCount() > order[j].VertexCount()
		})
	case "increasing node number":
		sort.SliceStable(order, func(i, j int) bool {
			return order[i].VertexCount() < order[j].VertexCount()
		})
	default:
		// "by first specified node" keeps discovery order.
	}

	// Walk the chosen axis, abutting bounding boxes with cfg.ComponentSep
	// between them. The first component keeps its frame.
	var cursor float64
	first := true
	for _, c := range order {
		min, max := c.BoundingBox()
		var lead, trail float64
		switch cfg.ComponentDirection {
		case "left":
			lead, trail = -max.X, -min.X
		case "up":
			lead, trail = min.Y, max.Y
		case "down":
			lead, trail = -max.Y, -min.Y
		default: // right
			lead, trail = min.X, max.X
		}
		if first {
			cursor = trail
			first = false
			continue
		}
		shift := cursor + cfg.ComponentSep - lead
		cursor += cfg.ComponentSep + (trail - lead)
		switch cfg.ComponentDirection {
		case "left":
			shiftComponent(c, geo.Coordinate{X: -shift})
		case "up":
			shiftComponent(c, geo.Coordinate{Y: shift})
		case "down":
			shiftComponent(c, geo.Coordinate{Y: -shift})
		default:
			shiftComponent(c, geo.Coordinate{X: shift})
		}
	}
}

// shiftComponent translates every vertex position and arc path of c.
func shiftComponent(c *graph.Digraph, by geo.Coordinate) {
	for _, v := range c.Vertices() {
		v.Pos.ShiftBy(by)
	}
	for _, a := range c.Arcs() {
		if a.Path != nil {
			a.Path.Shift(by.X, by.Y)
		}
	}
}

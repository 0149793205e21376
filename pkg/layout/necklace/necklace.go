// Package necklace provides a simple circular layout: vertices are
// spaced evenly on a circle sized so neighbors sit roughly one node
// distance apart.
package necklace

import (
	"math"

	"github.com/graphdraw/graphdraw/pkg/geo"
	"github.com/graphdraw/graphdraw/pkg/layout"
)

func init() {
	layout.Register("simple necklace", func() layout.Algorithm { return &SimpleNecklace{} })
}

// SimpleNecklace places vertices on a circle in insertion order.
type SimpleNecklace struct{}

func (n *SimpleNecklace) Run(ctx *layout.Context) error {
	d := ctx.Digraph
	vs := d.Vertices()
	switch len(vs) {
	case 0:
		return nil
	case 1:
		vs[0].Pos = geo.Coordinate{}
	default:
		// Chord length between neighbors equals the node distance.
		step := 2 * math.Pi / float64(len(vs))
		radius := ctx.Config.NodeDistance / (2 * math.Sin(step/2))
		for i, v := range vs {
			angle := float64(i) * step
			v.Pos = geo.Coordinate{
				X: radius * math.Cos(angle),
				Y: radius * math.Sin(angle),
			}
		}
	}

	for _, a := range d.Arcs() {
		a.SetPolylinePath()
	}
	return nil
}

// Package geo provides the 2D geometry primitives used by the layout engine:
// coordinates and piecewise-linear/Bézier paths with intersection, padding,
// and arc-cutting operations.
package geo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Coordinate is a 2D point or displacement. It is a plain value type;
// arithmetic methods return new values, the Shift* methods mutate in place
// for the hot paths of the force simulation.
type Coordinate struct {
	X, Y float64
}

// Add returns c + o.
func (c Coordinate) Add(o Coordinate) Coordinate {
	return Coordinate{c.X + o.X, c.Y + o.Y}
}

// Sub returns c - o.
func (c Coordinate) Sub(o Coordinate) Coordinate {
	return Coordinate{c.X - o.X, c.Y - o.Y}
}

// Scale returns c scaled by f.
func (c Coordinate) Scale(f float64) Coordinate {
	return Coordinate{c.X * f, c.Y * f}
}

// Div returns c scaled by 1/f.
func (c Coordinate) Div(f float64) Coordinate {
	return Coordinate{c.X / f, c.Y / f}
}

// Dot returns the dot product of c and o.
func (c Coordinate) Dot(o Coordinate) float64 {
	return c.X*o.X + c.Y*o.Y
}

// Norm returns the Euclidean length of c.
func (c Coordinate) Norm() float64 {
	return math.Hypot(c.X, c.Y)
}

// Normed returns the unit vector pointing in the direction of c.
// Normalizing a zero vector yields (1,0), never a division by zero.
func (c Coordinate) Normed() Coordinate {
	n := c.Norm()
	if n == 0 {
		return Coordinate{1, 0}
	}
	return Coordinate{c.X / n, c.Y / n}
}

// Shift translates c in place by (dx, dy).
func (c *Coordinate) Shift(dx, dy float64) {
	c.X += dx
	c.Y += dy
}

// ShiftBy translates c in place by o.
func (c *Coordinate) ShiftBy(o Coordinate) {
	c.X += o.X
	c.Y += o.Y
}

// MoveTowards returns the point a fraction frac of the way from c to o.
// frac 0 returns c, frac 1 returns o.
func (c Coordinate) MoveTowards(o Coordinate, frac float64) Coordinate {
	return Coordinate{
		X: c.X + frac*(o.X-c.X),
		Y: c.Y + frac*(o.Y-c.Y),
	}
}

// Rotate returns c rotated by angle radians around the origin.
func (c Coordinate) Rotate(angle float64) Coordinate {
	sin, cos := math.Sincos(angle)
	return Coordinate{
		X: c.X*cos - c.Y*sin,
		Y: c.X*sin + c.Y*cos,
	}
}

// String formats the coordinate as "(x,y)".
func (c Coordinate) String() string {
	return fmt.Sprintf("(%g,%g)", c.X, c.Y)
}

// R2 converts the coordinate to a gonum r2.Vec for use with the spatial
// packages (Barnes-Hut planes, particle forces).
func (c Coordinate) R2() r2.Vec {
	return r2.Vec{X: c.X, Y: c.Y}
}

// FromR2 converts a gonum r2.Vec back to a Coordinate.
func FromR2(v r2.Vec) Coordinate {
	return Coordinate{X: v.X, Y: v.Y}
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Coordinate) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Coordinate) Coordinate {
	return Coordinate{(a.X + b.X) / 2, (a.Y + b.Y) / 2}
}

// CenterOf returns the arithmetic mean of the given points.
// The center of no points is the origin.
func CenterOf(pts ...Coordinate) Coordinate {
	if len(pts) == 0 {
		return Coordinate{}
	}
	var sum Coordinate
	for _, p := range pts {
		sum.ShiftBy(p)
	}
	return sum.Div(float64(len(pts)))
}

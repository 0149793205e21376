package force

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/barneshut"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/graphdraw/graphdraw/pkg/geo"
	"github.com/graphdraw/graphdraw/pkg/graph"
	"github.com/graphdraw/graphdraw/pkg/layout"
)

// virtuallyZero is the distance below which two points count as
// coincident. Separations under it are replaced by jittered epsilon
// values so degenerate geometry recovers instead of producing NaNs.
const virtuallyZero = 0.1

// Simulation is the per-run state the force laws read and write.
type Simulation struct {
	Digraph *graph.Digraph
	Config  *layout.Config
	RNG     *rand.Rand
	Weights *graph.Storage[*graph.Vertex, float64]

	// Net accumulates each vertex's displacement for the current
	// iteration; the loop resets it between iterations.
	Net *graph.Storage[*graph.Vertex, geo.Coordinate]
}

// AddForce adds f to v's accumulated net displacement.
func (s *Simulation) AddForce(v *graph.Vertex, f geo.Coordinate) {
	cur, _ := s.Net.Get(v)
	s.Net.Set(v, cur.Add(f))
}

// Mass returns the weight recorded for v, defaulting to 1.
func (s *Simulation) Mass(v *graph.Vertex) float64 {
	if w, ok := s.Weights.Get(v); ok && w > 0 {
		return w
	}
	return 1
}

// separation returns the unit direction from a to b and their distance.
// Distances under virtuallyZero are replaced by a jittered epsilon in a
// random direction.
func separation(rng *rand.Rand, a, b geo.Coordinate) (geo.Coordinate, float64) {
	diff := b.Sub(a)
	d := diff.Norm()
	if d < virtuallyZero {
		angle := rng.Float64() * 2 * math.Pi
		d = virtuallyZero * (0.5 + rng.Float64()*0.5)
		return geo.Coordinate{X: math.Cos(angle), Y: math.Sin(angle)}, d
	}
	return diff.Scale(1 / d), d
}

// Force is one law contributing to the net displacement of vertices.
// Preprocess runs once per level to select the vertex or arc set acted
// on; Apply runs once per iteration, with t the current virtual time in
// [0, maximum time].
type Force interface {
	Name() string
	Epochs() []Epoch
	Preprocess(s *Simulation)
	Apply(s *Simulation, t float64)
}

// activeIn reports whether f participates in ep. A nil epoch list means
// every epoch.
func activeIn(f Force, ep Epoch) bool {
	eps := f.Epochs()
	if len(eps) == 0 {
		return true
	}
	for _, e := range eps {
		if e == ep {
			return true
		}
	}
	return false
}

// === spring attraction ======================================================

// SpringForce pulls the endpoints of every arc together with magnitude
// d*d/k, the Fruchterman-Reingold attractive law, where k is the
// configured node distance.
type SpringForce struct {
	arcs []*graph.Arc
}

func (f *SpringForce) Name() string { return "spring" }
func (f *SpringForce) Epochs() []Epoch { return nil }

func (f *SpringForce) Preprocess(s *Simulation) {
	f.arcs = s.Digraph.Arcs()
}

func (f *SpringForce) Apply(s *Simulation, _ float64) {
	k := s.Config.NodeDistance
	for _, a := range f.arcs {
		dir, d := separation(s.RNG, a.Tail.Pos, a.Head.Pos)
		mag := d * d / k
		s.AddForce(a.Tail, dir.Scale(mag))
		s.AddForce(a.Head, dir.Scale(-mag))
	}
}

// === electrical repulsion ===================================================

// ElectricForce pushes every vertex pair apart with magnitude k*k/d
// scaled by the product of the two charges. Exact all-pairs evaluation;
// use BarnesHutForce for large graphs.
type ElectricForce struct {
	vertices []*graph.Vertex
}

func (f *ElectricForce) Name() string { return "electric" }
func (f *ElectricForce) Epochs() []Epoch { return nil }

func (f *ElectricForce) Preprocess(s *Simulation) {
	f.vertices = s.Digraph.Vertices()
}

func (f *ElectricForce) Apply(s *Simulation, _ float64) {
	k := s.Config.NodeDistance
	charge := s.Config.ElectricCharge
	for i, v := range f.vertices {
		for _, u := range f.vertices[i+1:] {
			dir, d := separation(s.RNG, v.Pos, u.Pos)
			mag := charge * charge * k * k / d
			s.AddForce(v, dir.Scale(-mag))
			s.AddForce(u, dir.Scale(mag))
		}
	}
}

// === Barnes-Hut electrical repulsion ========================================

// chargedParticle adapts a vertex to the barneshut particle interface.
// The particle mass carries the vertex charge into the force callback.
type chargedParticle struct {
	v      *graph.Vertex
	charge float64
}

func (p chargedParticle) Coord2() r2.Vec { return p.v.Pos.R2() }
func (p chargedParticle) Mass() float64  { return p.charge }

// BarnesHutForce approximates the electrical repulsion in O(n log n) by
// evaluating against a quadtree instead of every pair.
type BarnesHutForce struct {
	// Theta is the opening angle of the approximation; 0 degrades to the
	// exact evaluation. Defaults to 0.5.
	Theta float64

	particles []chargedParticle
}

func (f *BarnesHutForce) Name() string { return "electric (Barnes-Hut)" }
func (f *BarnesHutForce) Epochs() []Epoch { return nil }

func (f *BarnesHutForce) Preprocess(s *Simulation) {
	if f.Theta == 0 {
		f.Theta = 0.5
	}
	f.particles = f.particles[:0]
	for _, v := range s.Digraph.Vertices() {
		f.particles = append(f.particles, chargedParticle{v: v, charge: s.Config.ElectricCharge})
	}
}

func (f *BarnesHutForce) Apply(s *Simulation, _ float64) {
	if len(f.particles) < 2 {
		return
	}
	parts := make([]barneshut.Particle2, len(f.particles))
	for i, p := range f.particles {
		parts[i] = p
	}
	plane, err := barneshut.NewPlane(parts)
	if err != nil {
		// Degenerate point sets fall back to the exact evaluation of
		// the same law.
		exact := &ElectricForce{}
		exact.Preprocess(s)
		exact.Apply(s, 0)
		return
	}

	// Same k*k/d law as ElectricForce, pushing p1 away from p2. v runs
	// from p1 to p2 with |v| = d, so the d*d divisor leaves a magnitude
	// of m1*m2*k*k/d.
	k := s.Config.NodeDistance
	repulse := func(_, _ barneshut.Particle2, m1, m2 float64, v r2.Vec) r2.Vec {
		d := r2.Norm(v)
		if d < virtuallyZero {
			d = virtuallyZero
		}
		return r2.Scale(-m1*m2*k*k/(d*d), v)
	}
	for _, p := range f.particles {
		s.AddForce(p.v, geo.FromR2(plane.ForceOn(p, f.Theta, repulse)))
	}
}

// === pull to point ==========================================================

// PullToPointForce drags selected vertices toward per-vertex target
// coordinates with magnitude proportional to the remaining distance. The
// controller adds one automatically for vertices carrying a "desired at"
// option.
type PullToPointForce struct {
	// Strength scales the pull; defaults to 1.
	Strength float64
	// OptionKey names the vertex option holding the target. Defaults to
	// "desired at".
	OptionKey string

	targets map[*graph.Vertex]geo.Coordinate
	order   []*graph.Vertex
}

func (f *PullToPointForce) Name() string { return "pull to point" }
func (f *PullToPointForce) Epochs() []Epoch { return nil }

func (f *PullToPointForce) Preprocess(s *Simulation) {
	if f.Strength == 0 {
		f.Strength = 1
	}
	if f.OptionKey == "" {
		f.OptionKey = "desired at"
	}
	f.targets = make(map[*graph.Vertex]geo.Coordinate)
	f.order = f.order[:0]
	for _, v := range s.Digraph.Vertices() {
		if c, ok := layout.OptionCoordinate(v.Options[f.OptionKey]); ok {
			f.targets[v] = c
			f.order = append(f.order, v)
		}
	}
}

func (f *PullToPointForce) Apply(s *Simulation, _ float64) {
	for _, v := range f.order {
		target := f.targets[v]
		s.AddForce(v, target.Sub(v.Pos).Scale(f.Strength))
	}
}

// === pull to grid ===========================================================

// PullToGridForce drags every vertex toward the nearest point of a square
// grid. Active only in the postprocessing epoch by default.
type PullToGridForce struct {
	// Spacing is the grid pitch; defaults to the node distance.
	Spacing float64

	vertices []*graph.Vertex
}

func (f *PullToGridForce) Name() string { return "pull to grid" }
func (f *PullToGridForce) Epochs() []Epoch { return []Epoch{EpochPostprocessing} }

func (f *PullToGridForce) Preprocess(s *Simulation) {
	if f.Spacing == 0 {
		f.Spacing = s.Config.NodeDistance
	}
	f.vertices = s.Digraph.Vertices()
}

func (f *PullToGridForce) Apply(s *Simulation, _ float64) {
	for _, v := range f.vertices {
		target := geo.Coordinate{
			X: math.Round(v.Pos.X/f.Spacing) * f.Spacing,
			Y: math.Round(v.Pos.Y/f.Spacing) * f.Spacing,
		}
		s.AddForce(v, target.Sub(v.Pos))
	}
}

// === graph-distance springs =================================================

// GraphDistanceForce connects every vertex pair within graph distance
// MaxDistance by a spring whose rest length is the graph distance times
// the node distance. Distances come from an all-pairs BFS held in a dense
// matrix; unreachable pairs are skipped.
type GraphDistanceForce struct {
	// MaxDistance bounds the considered graph distance; defaults to 2.
	MaxDistance int

	vertices []*graph.Vertex
	index    map[*graph.Vertex]int
	dist     *mat.Dense
}

func (f *GraphDistanceForce) Name() string { return "graph distance spring" }
func (f *GraphDistanceForce) Epochs() []Epoch { return nil }

func (f *GraphDistanceForce) Preprocess(s *Simulation) {
	if f.MaxDistance == 0 {
		f.MaxDistance = 2
	}
	f.vertices = s.Digraph.Vertices()
	n := len(f.vertices)
	f.index = make(map[*graph.Vertex]int, n)
	for i, v := range f.vertices {
		f.index[v] = i
	}

	f.dist = mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			f.dist.Set(i, j, math.Inf(1))
		}
		f.dist.Set(i, i, 0)
	}

	// One BFS per vertex over the undirected adjacency.
	for i, src := range f.vertices {
		queue := []*graph.Vertex{src}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			ci := f.index[cur]
			next := f.dist.At(i, ci) + 1
			visit := func(u *graph.Vertex) {
				ui, ok := f.index[u]
				if !ok {
					return
				}
				if next < f.dist.At(i, ui) {
					f.dist.Set(i, ui, next)
					queue = append(queue, u)
				}
			}
			for _, a := range s.Digraph.OutgoingArcs(cur) {
				visit(a.Head)
			}
			for _, a := range s.Digraph.IncomingArcs(cur) {
				visit(a.Tail)
			}
		}
	}
}

func (f *GraphDistanceForce) Apply(s *Simulation, _ float64) {
	k := s.Config.NodeDistance
	for i, v := range f.vertices {
		for j := i + 1; j < len(f.vertices); j++ {
			gd := f.dist.At(i, j)
			if math.IsInf(gd, 1) || gd > float64(f.MaxDistance) {
				continue
			}
			u := f.vertices[j]
			dir, d := separation(s.RNG, v.Pos, u.Pos)
			rest := gd * k
			mag := (d - rest) / gd
			s.AddForce(v, dir.Scale(mag))
			s.AddForce(u, dir.Scale(-mag))
		}
	}
}

package force

import (
	"io"
	"math"

	"github.com/charmbracelet/log"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"

	"github.com/graphdraw/graphdraw/pkg/geo"
	"github.com/graphdraw/graphdraw/pkg/graph"
	"github.com/graphdraw/graphdraw/pkg/layout"
)

func init() {
	layout.Register("spring electrical", func() layout.Algorithm {
		return &SpringElectrical{}
	})
	layout.Register("spring electrical barnes hut", func() layout.Algorithm {
		return &SpringElectrical{BarnesHut: true}
	})
	layout.Register("spring", func() layout.Algorithm {
		return &SpringElectrical{Laws: []Force{
			&GraphDistanceForce{},
			&PullToPointForce{},
		}}
	})
}

// SpringElectrical runs the multilevel spring-electrical simulation: the
// graph is coarsened level by level, the coarsest level is laid out from
// a random placement, and each expansion re-runs the force iterations to
// refine the inherited positions.
type SpringElectrical struct {
	// BarnesHut switches the repulsive law to the quadtree approximation.
	BarnesHut bool

	// Laws overrides the default force set when non-empty.
	Laws []Force
}

func (se *SpringElectrical) Run(ctx *layout.Context) error {
	if ctx.Logger == nil {
		ctx.Logger = log.New(io.Discard)
	}
	d := ctx.Digraph
	cfg := ctx.Config
	n := d.VertexCount()
	if n == 0 {
		return nil
	}

	rng := ctx.RNG
	if rng == nil {
		rng = rand.New(rand.NewSource(cfg.RandomSeed))
	}

	weights := graph.NewStorage[*graph.Vertex, float64]()
	for _, v := range d.Vertices() {
		if w, ok := v.Options.Float("weight"); ok && w > 0 {
			weights.Set(v, w*cfg.CoarseningWeight)
		}
	}

	sim := &Simulation{
		Digraph: d,
		Config:  cfg,
		RNG:     rng,
		Weights: weights,
		Net:     graph.NewStorage[*graph.Vertex, geo.Coordinate](),
	}
	laws := se.laws()
	sched := NewSchedule(cfg, ctx.Options)

	switch {
	case n == 1:
		d.Vertices()[0].Pos = geo.Coordinate{}
	case n == 2:
		// Two vertices reach equilibrium exactly one node distance
		// apart; placing them there analytically skips the simulation.
		vs := d.Vertices()
		vs[0].Pos = geo.Coordinate{}
		vs[1].Pos = geo.Coordinate{X: cfg.NodeDistance}
	default:
		se.runMultilevel(ctx, sim, laws, sched, rng)
	}

	for _, a := range d.Arcs() {
		a.SetPolylinePath()
	}
	return nil
}

func (se *SpringElectrical) runMultilevel(ctx *layout.Context, sim *Simulation, laws []Force, sched *Schedule, rng *rand.Rand) {
	cfg := sim.Config
	cg := NewCoarseGraph(sim.Digraph, sim.Weights)
	run := func(ep Epoch) { se.simulate(sim, laws, sched.Params(ep), ep) }

	run(EpochPreprocessing)

	if cfg.Coarsen {
		run(EpochBeforeCoarsen)
		for cg.Size() > cfg.MinimumCoarseningSize {
			before := cg.Size()
			run(EpochStartCoarsen)
			cg.Coarsen(rng)
			run(EpochDuringCoarsen)
			if cg.Size() == before || cg.Ratio() > 1-cfg.DownsizeRatio {
				break
			}
		}
		run(EpochEndCoarsen)
		ctx.Logger.Debug("coarsening done", "levels", cg.Level(), "coarsest", cg.Size())
	}

	initialPlacement(sim.Digraph, cfg, rng)
	run(EpochInitialLayout)

	run(EpochBeforeExpand)
	for cg.Level() > 0 {
		run(EpochStartExpand)
		cg.Uncoarsen(rng)
		run(EpochDuringExpand)
		run(EpochEndExpand)
	}

	run(EpochPostprocessing)
}

// laws returns the active force set.
func (se *SpringElectrical) laws() []Force {
	if len(se.Laws) > 0 {
		return se.Laws
	}
	var repulsion Force = &ElectricForce{}
	if se.BarnesHut {
		repulsion = &BarnesHutForce{}
	}
	return []Force{
		&SpringForce{},
		repulsion,
		&PullToPointForce{},
	}
}

// simulate runs one epoch of force iterations on the current level.
func (se *SpringElectrical) simulate(sim *Simulation, laws []Force, p EpochParams, ep Epoch) {
	if p.Iterations <= 0 {
		return
	}
	var active []Force
	for _, f := range laws {
		if activeIn(f, ep) {
			active = append(active, f)
		}
	}
	if len(active) == 0 {
		return
	}
	for _, f := range active {
		f.Preprocess(sim)
	}

	cfg := sim.Config
	dt := p.MaximumTime / float64(p.Iterations)
	speed := p.SpeedFactor

	// The step length caps how far any vertex moves in one iteration and
	// cools together with the speed, keeping positions finite for any
	// iteration budget.
	step := cfg.InitialStepLength
	if cfg.MaximumDisplacementPerStep > 0 && cfg.MaximumDisplacementPerStep < step {
		step = cfg.MaximumDisplacementPerStep
	}
	minMovement := cfg.ConvergenceTolerance * cfg.NodeDistance
	mags := make([]float64, 0, sim.Digraph.VertexCount())

	for i := 0; i < p.Iterations; i++ {
		t := float64(i+1) * dt
		sim.Net = graph.NewStorage[*graph.Vertex, geo.Coordinate]()
		for _, f := range active {
			f.Apply(sim, t)
		}

		mags = mags[:0]
		moved := 0.0
		for _, v := range sim.Digraph.Vertices() {
			net, _ := sim.Net.Get(v)
			mags = append(mags, net.Norm())
			disp := net.Scale(speed * dt / sim.Mass(v))
			m := disp.Norm()
			if m > step {
				disp = disp.Scale(step / m)
				m = step
			}
			v.Pos.ShiftBy(disp)
			moved += m
		}

		speed *= p.CoolingFactor
		step *= p.CoolingFactor
		if moved < minMovement {
			break
		}
		if cfg.FindEquilibrium && floats.Sum(mags)*dt < p.EquilibriumThreshold {
			break
		}
	}
}

// initialPlacement scatters vertices uniformly over a disc whose radius
// grows with the square root of the vertex count. Two-vertex graphs are
// placed analytically at node distance.
func initialPlacement(d *graph.Digraph, cfg *layout.Config, rng *rand.Rand) {
	vs := d.Vertices()
	switch len(vs) {
	case 0:
	case 1:
		vs[0].Pos = geo.Coordinate{}
	case 2:
		vs[0].Pos = geo.Coordinate{}
		vs[1].Pos = geo.Coordinate{X: cfg.NodeDistance}
	default:
		radius := cfg.NodeDistance * math.Sqrt(float64(len(vs)))
		for _, v := range vs {
			angle := rng.Float64() * 2 * math.Pi
			r := radius * math.Sqrt(rng.Float64())
			v.Pos = geo.Coordinate{X: r * math.Cos(angle), Y: r * math.Sin(angle)}
		}
	}
}

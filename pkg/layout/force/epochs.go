package force

import (
	"github.com/graphdraw/graphdraw/pkg/graph"
	"github.com/graphdraw/graphdraw/pkg/layout"
)

// Epoch names one phase of the force simulation. Epochs advance strictly
// in the order listed; the coarsen and expand groups repeat per level of
// the multilevel scheme.
type Epoch string

const (
	EpochPreprocessing  Epoch = "preprocessing"
	EpochInitialLayout  Epoch = "initial layout"
	EpochBeforeCoarsen  Epoch = "before coarsen"
	EpochStartCoarsen   Epoch = "start coarsen"
	EpochDuringCoarsen  Epoch = "during coarsen"
	EpochEndCoarsen     Epoch = "end coarsen"
	EpochBeforeExpand   Epoch = "before expand"
	EpochStartExpand    Epoch = "start expand"
	EpochDuringExpand   Epoch = "during expand"
	EpochEndExpand      Epoch = "end expand"
	EpochPostprocessing Epoch = "postprocessing"
)

// epochOrder lists all epochs in execution order.
var epochOrder = []Epoch{
	EpochPreprocessing,
	EpochInitialLayout,
	EpochBeforeCoarsen,
	EpochStartCoarsen,
	EpochDuringCoarsen,
	EpochEndCoarsen,
	EpochBeforeExpand,
	EpochStartExpand,
	EpochDuringExpand,
	EpochEndExpand,
	EpochPostprocessing,
}

// EpochParams budgets one epoch of simulation.
type EpochParams struct {
	Iterations           int
	MaximumTime          float64
	CoolingFactor        float64
	SpeedFactor          float64
	EquilibriumThreshold float64
}

// defaultIterating marks the epochs that iterate with the base budget.
// Every other epoch defaults to zero iterations and runs only when given
// an explicit "<epoch> iterations" option.
var defaultIterating = map[Epoch]bool{
	EpochInitialLayout:  true,
	EpochDuringExpand:   true,
	EpochPostprocessing: true,
}

// Schedule maps each epoch to its simulation budget. Epochs absent from
// the map run with the base parameters, with iterations zeroed for the
// epochs outside defaultIterating.
type Schedule struct {
	base      EpochParams
	overrides map[Epoch]EpochParams
}

// NewSchedule derives a schedule from the resolved configuration. Epoch
// overrides come from options of the form "<epoch> iterations" and
// "<epoch> maximum time" when present in opts.
func NewSchedule(cfg *layout.Config, opts graph.Options) *Schedule {
	s := &Schedule{
		base: EpochParams{
			Iterations:           cfg.Iterations,
			MaximumTime:          cfg.MaximumTime,
			CoolingFactor:        cfg.CoolingFactor,
			SpeedFactor:          cfg.GlobalSpeedFactor,
			EquilibriumThreshold: cfg.EquilibriumThreshold,
		},
		overrides: map[Epoch]EpochParams{},
	}
	if opts == nil {
		return s
	}
	for _, ep := range epochOrder {
		p := s.base
		if !defaultIterating[ep] {
			p.Iterations = 0
		}
		changed := false
		if v, ok := opts.Int(string(ep) + " iterations"); ok {
			p.Iterations = v
			changed = true
		}
		if v, ok := opts.Float(string(ep) + " maximum time"); ok {
			p.MaximumTime = v
			changed = true
		}
		if changed {
			s.overrides[ep] = p
		}
	}
	return s
}

// Params returns the budget for ep.
func (s *Schedule) Params(ep Epoch) EpochParams {
	if p, ok := s.overrides[ep]; ok {
		return p
	}
	p := s.base
	if !defaultIterating[ep] {
		p.Iterations = 0
	}
	return p
}

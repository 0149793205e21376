package layout

import (
	gderrors "github.com/graphdraw/graphdraw/pkg/errors"
	"github.com/graphdraw/graphdraw/pkg/graph"
)

// Default option values applied by ResolveConfig when a key is absent.
const (
	DefaultAlgorithm             = "spring electrical"
	DefaultIterations            = 500
	DefaultCoolingFactor         = 0.95
	DefaultConvergenceTolerance  = 0.01
	DefaultNodeDistance          = 1.0
	DefaultDownsizeRatio         = 0.25
	DefaultMinimumCoarseningSize = 2
	DefaultMaximumTime           = 50.0
	DefaultEquilibriumThreshold  = 0.01
	DefaultGlobalSpeedFactor     = 1.0
	DefaultRandomSeed            = 42
	DefaultElectricCharge        = 1.0
	DefaultCoarseningWeight      = 1.0
	DefaultLevelDistance         = 1.0
	DefaultSiblingDistance       = 1.0
	DefaultComponentSep          = 1.5
	DefaultComponentDirection    = "right"
	DefaultComponentPacking      = "increasing node number"
)

// Config is the set of recognized graph-level options, resolved and
// validated once per layout call. Per-vertex options ("desired at",
// "regardless at", "nudge") stay on the vertex and are read where applied.
type Config struct {
	Algorithm string

	// Simulation budget.
	Iterations           int
	CoolingFactor        float64
	InitialStepLength    float64
	ConvergenceTolerance float64
	MaximumTime          float64

	// Geometry.
	NodeDistance float64
	NodePreSep   float64
	NodePostSep  float64

	// Multilevel coarsening.
	Coarsen               bool
	DownsizeRatio         float64
	MinimumCoarseningSize int
	CoarseningWeight      float64

	// Per-step dynamics.
	MaximumDisplacementPerStep float64
	FindEquilibrium            bool
	EquilibriumThreshold       float64
	GlobalSpeedFactor          float64
	ElectricCharge             float64

	RandomSeed uint64

	// Layered placement.
	LevelDistance   float64
	SiblingDistance float64

	// Component packing.
	ComponentSep          float64
	ComponentDirection    string
	ComponentPackingOrder string
}

// componentDirections and componentPackings enumerate the accepted values
// for the two string-valued packing options.
var (
	componentDirections = map[string]bool{
		"right": true, "left": true, "up": true, "down": true,
	}
	componentPackings = map[string]bool{
		"increasing node number": true,
		"decreasing node number": true,
		"by first specified node": true,
	}
)

// ResolveConfig reads the recognized graph-level options out of opts,
// applies defaults for absent keys and validates every value. Violations
// are fatal: the returned error names the offending key and value and
// carries the INVALID_OPTION code. Unrecognized keys are left alone for
// algorithm-specific consumption.
func ResolveConfig(opts graph.Options) (*Config, error) {
	cfg := &Config{
		Algorithm:             DefaultAlgorithm,
		Iterations:            DefaultIterations,
		CoolingFactor:         DefaultCoolingFactor,
		ConvergenceTolerance:  DefaultConvergenceTolerance,
		MaximumTime:           DefaultMaximumTime,
		NodeDistance:          DefaultNodeDistance,
		Coarsen:               true,
		DownsizeRatio:         DefaultDownsizeRatio,
		MinimumCoarseningSize: DefaultMinimumCoarseningSize,
		CoarseningWeight:      DefaultCoarseningWeight,
		FindEquilibrium:       true,
		EquilibriumThreshold:  DefaultEquilibriumThreshold,
		GlobalSpeedFactor:     DefaultGlobalSpeedFactor,
		ElectricCharge:        DefaultElectricCharge,
		RandomSeed:            DefaultRandomSeed,
		LevelDistance:         DefaultLevelDistance,
		SiblingDistance:       DefaultSiblingDistance,
		ComponentSep:          DefaultComponentSep,
		ComponentDirection:    DefaultComponentDirection,
		ComponentPackingOrder: DefaultComponentPacking,
	}
	if opts == nil {
		cfg.InitialStepLength = cfg.NodeDistance
		return cfg, nil
	}

	if v, ok := opts.String("algorithm"); ok {
		cfg.Algorithm = v
	}
	if v, ok := opts.Int("iterations"); ok {
		if v < 0 {
			return nil, gderrors.InvalidOption("iterations", v, "must be non-negative")
		}
		cfg.Iterations = v
	}
	if v, ok := opts.Float("cooling factor"); ok {
		if v <= 0 || v > 1 {
			return nil, gderrors.InvalidOption("cooling factor", v, "must be in (0, 1]")
		}
		cfg.CoolingFactor = v
	}
	if v, ok := opts.Float("initial step length"); ok {
		if v < 0 {
			return nil, gderrors.InvalidOption("initial step length", v, "must be non-negative")
		}
		cfg.InitialStepLength = v
	}
	if v, ok := opts.Float("convergence tolerance"); ok {
		if v <= 0 {
			return nil, gderrors.InvalidOption("convergence tolerance", v, "must be positive")
		}
		cfg.ConvergenceTolerance = v
	}
	if v, ok := opts.Float("maximum time"); ok {
		if v <= 0 {
			return nil, gderrors.InvalidOption("maximum time", v, "must be positive")
		}
		cfg.MaximumTime = v
	}
	if v, ok := opts.Float("node distance"); ok {
		if v <= 0 {
			return nil, gderrors.InvalidOption("node distance", v, "must be positive")
		}
		cfg.NodeDistance = v
	}
	if v, ok := opts.Float("node pre sep"); ok {
		if v < 0 {
			return nil, gderrors.InvalidOption("node pre sep", v, "must be non-negative")
		}
		cfg.NodePreSep = v
	}
	if v, ok := opts.Float("node post sep"); ok {
		if v < 0 {
			return nil, gderrors.InvalidOption("node post sep", v, "must be non-negative")
		}
		cfg.NodePostSep = v
	}
	if v, ok := opts.Bool("coarsen"); ok {
		cfg.Coarsen = v
	}
	if v, ok := opts.Float("downsize ratio"); ok {
		if v <= 0 || v >= 1 {
			return nil, gderrors.InvalidOption("downsize ratio", v, "must be in (0, 1)")
		}
		cfg.DownsizeRatio = v
	}
	if v, ok := opts.Int("minimum coarsening size"); ok {
		if v < 1 {
			return nil, gderrors.InvalidOption("minimum coarsening size", v, "must be at least 1")
		}
		cfg.MinimumCoarseningSize = v
	}
	if v, ok := opts.Float("coarsening weight"); ok {
		if v <= 0 {
			return nil, gderrors.InvalidOption("coarsening weight", v, "must be positive")
		}
		cfg.CoarseningWeight = v
	}
	if v, ok := opts.Float("maximum displacement per step"); ok {
		if v < 0 {
			return nil, gderrors.InvalidOption("maximum displacement per step", v, "must be non-negative")
		}
		cfg.MaximumDisplacementPerStep = v
	}
	if v, ok := opts.Bool("find equilibrium"); ok {
		cfg.FindEquilibrium = v
	}
	if v, ok := opts.Float("equilibrium threshold"); ok {
		if v < 0 {
			return nil, gderrors.InvalidOption("equilibrium threshold", v, "must be non-negative")
		}
		cfg.EquilibriumThreshold = v
	}
	if v, ok := opts.Float("global speed factor"); ok {
		if v <= 0 {
			return nil, gderrors.InvalidOption("global speed factor", v, "must be positive")
		}
		cfg.GlobalSpeedFactor = v
	}
	if v, ok := opts.Float("electric charge"); ok {
		cfg.ElectricCharge = v
	}
	if v, ok := opts.Int("random seed"); ok {
		if v < 0 {
			return nil, gderrors.InvalidOption("random seed", v, "must be non-negative")
		}
		cfg.RandomSeed = uint64(v)
	}
	if v, ok := opts.Float("level distance"); ok {
		if v <= 0 {
			return nil, gderrors.InvalidOption("level distance", v, "must be positive")
		}
		cfg.LevelDistance = v
	}
	if v, ok := opts.Float("sibling distance"); ok {
		if v <= 0 {
			return nil, gderrors.InvalidOption("sibling distance", v, "must be positive")
		}
		cfg.SiblingDistance = v
	}
	if v, ok := opts.Float("component sep"); ok {
		if v < 0 {
			return nil, gderrors.InvalidOption("component sep", v, "must be non-negative")
		}
		cfg.ComponentSep = v
	}
	if v, ok := opts.String("component direction"); ok {
		if !componentDirections[v] {
			return nil, gderrors.InvalidOption("component direction", v, "must be one of right, left, up, down")
		}
		cfg.ComponentDirection = v
	}
	if v, ok := opts.String("component packing order"); ok {
		if !componentPackings[v] {
			return nil, gderrors.InvalidOption("component packing order", v, "unrecognized packing order")
		}
		cfg.ComponentPackingOrder = v
	}
	// Zero means derive the step bound from the geometry.
	if cfg.InitialStepLength == 0 {
		cfg.InitialStepLength = cfg.NodeDistance
	}
	return cfg, nil
}

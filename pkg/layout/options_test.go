package layout

import (
	"testing"

	gderrors "github.com/graphdraw/graphdraw/pkg/errors"
	"github.com/graphdraw/graphdraw/pkg/graph"
)

func TestResolveConfigDefaults(t *testing.T) {
	cfg, err := ResolveConfig(nil)
	if err != nil {
		t.Fatalf("ResolveConfig(nil) = %v", err)
	}
	if cfg.Algorithm != DefaultAlgorithm {
		t.Errorf("Algorithm = %q, want %q", cfg.Algorithm, DefaultAlgorithm)
	}
	if cfg.Iterations != DefaultIterations {
		t.Errorf("Iterations = %d, want %d", cfg.Iterations, DefaultIterations)
	}
	if !cfg.Coarsen || !cfg.FindEquilibrium {
		t.Error("Coarsen and FindEquilibrium should default to true")
	}
	if cfg.NodeDistance != DefaultNodeDistance {
		t.Errorf("NodeDistance = %g, want %g", cfg.NodeDistance, DefaultNodeDistance)
	}
}

func TestResolveConfigOverrides(t *testing.T) {
	cfg, err := ResolveConfig(graph.Options{
		"algorithm":      "layered",
		"iterations":     100,
		"cooling factor": 0.8,
		"node distance":  2.0,
		"coarsen":        false,
		"random seed":    7,
	})
	if err != nil {
		t.Fatalf("ResolveConfig() = %v", err)
	}
	if cfg.Algorithm != "layered" {
		t.Errorf("Algorithm = %q, want layered", cfg.Algorithm)
	}
	if cfg.Iterations != 100 || cfg.CoolingFactor != 0.8 || cfg.NodeDistance != 2.0 {
		t.Errorf("override mismatch: %+v", cfg)
	}
	if cfg.Coarsen {
		t.Error("Coarsen = true, want false")
	}
	if cfg.RandomSeed != 7 {
		t.Errorf("RandomSeed = %d, want 7", cfg.RandomSeed)
	}
}

func TestResolveConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		opts graph.Options
	}{
		{"negative iterations", graph.Options{"iterations": -1}},
		{"zero cooling factor", graph.Options{"cooling factor": 0.0}},
		{"cooling factor above one", graph.Options{"cooling factor": 1.5}},
		{"zero node distance", graph.Options{"node distance": 0.0}},
		{"downsize ratio one", graph.Options{"downsize ratio": 1.0}},
		{"zero minimum coarsening size", graph.Options{"minimum coarsening size": 0}},
		{"negative component sep", graph.Options{"component sep": -1.0}},
		{"bad component direction", graph.Options{"component direction": "sideways"}},
		{"bad packing order", graph.Options{"component packing order": "random"}},
		{"zero maximum time", graph.Options{"maximum time": 0.0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveConfig(tt.opts)
			if err == nil {
				t.Fatal("ResolveConfig() = nil error, want invalid option")
			}
			if code := gderrors.GetCode(err); code != gderrors.ErrCodeInvalidOption {
				t.Errorf("GetCode() = %q, want %q", code, gderrors.ErrCodeInvalidOption)
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	Register("test noop", func() Algorithm { return noopAlgorithm{} })

	a, err := New("test noop")
	if err != nil {
		t.Fatalf("New(registered) = %v", err)
	}
	if a == nil {
		t.Fatal("New() returned nil algorithm")
	}

	_, err = New("not registered")
	if err == nil {
		t.Fatal("New(unregistered) = nil error")
	}
	if code := gderrors.GetCode(err); code != gderrors.ErrCodeAlgorithmSelection {
		t.Errorf("GetCode() = %q, want %q", code, gderrors.ErrCodeAlgorithmSelection)
	}
}

type noopAlgorithm struct{}

func (noopAlgorithm) Run(*Context) error { return nil }

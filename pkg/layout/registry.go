package layout

import (
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/exp/rand"

	gderrors "github.com/graphdraw/graphdraw/pkg/errors"
	"github.com/graphdraw/graphdraw/pkg/graph"
)

// Context carries everything an algorithm run needs. A fresh Context is
// built per component; the digraph it points at is mutated in place.
type Context struct {
	// Digraph is the graph to lay out. Vertex positions and arc paths are
	// written back onto it.
	Digraph *graph.Digraph

	// Config holds the resolved graph-level options; Options retains the
	// raw store for algorithm-specific keys Config does not cover.
	Config  *Config
	Options graph.Options

	// RNG is the run's only randomness source. Algorithms must not reach
	// for package-global randomness.
	RNG *rand.Rand

	Logger  *log.Logger
	Binding Binding
}

// Algorithm is a layout algorithm resolved from the registry.
type Algorithm interface {
	Run(ctx *Context) error
}

// Constructor builds a fresh algorithm instance per layout call.
type Constructor func() Algorithm

var (
	registryMu sync.RWMutex
	registry   = map[string]Constructor{}
)

// Register makes an algorithm available under name. Registration happens
// in package init functions; registering the same name twice overwrites.
func Register(name string, fn Constructor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = fn
}

// New resolves name to a fresh algorithm instance. An unregistered name
// is fatal for the layout call.
func New(name string) (Algorithm, error) {
	registryMu.RLock()
	fn, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, gderrors.UnknownAlgorithm(name)
	}
	return fn(), nil
}

// Registered returns the sorted names of all registered algorithms.
func Registered() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

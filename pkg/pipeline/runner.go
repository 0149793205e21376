package pipeline

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/graphdraw/graphdraw/pkg/cache"
	"github.com/graphdraw/graphdraw/pkg/config"
	gderrors "github.com/graphdraw/graphdraw/pkg/errors"
	"github.com/graphdraw/graphdraw/pkg/graph"
	"github.com/graphdraw/graphdraw/pkg/layout"
	"github.com/graphdraw/graphdraw/pkg/observability"
	"github.com/graphdraw/graphdraw/pkg/render/dot"

	// Register the layout algorithms every pipeline consumer can ask for.
	_ "github.com/graphdraw/graphdraw/pkg/layout/force"
	_ "github.com/graphdraw/graphdraw/pkg/layout/layered"
	_ "github.com/graphdraw/graphdraw/pkg/layout/necklace"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete parse → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{
		RunID:     uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Parse
	parseStart := time.Now()
	observability.Pipeline().OnParseStart(ctx, opts.SourceName)
	root, err := r.Parse(ctx, opts)
	vertexCount := 0
	if root != nil {
		vertexCount = countVertices(root)
	}
	observability.Pipeline().OnParseComplete(ctx, opts.SourceName, vertexCount, time.Since(parseStart), err)
	if err != nil {
		return nil, err
	}
	result.Root = root
	result.GraphHash = cache.Hash(opts.Source)
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.VertexCount = vertexCount
	result.Stats.EdgeCount = countEdges(root)

	r.Logger.Info("parsed graph document",
		"run", result.RunID,
		"vertices", result.Stats.VertexCount,
		"edges", result.Stats.EdgeCount,
		"duration", result.Stats.ParseTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, opts.Algorithm(root.Options), result.Stats.VertexCount)
	d, snapshot, layoutHit, err := r.LayoutWithCacheInfo(ctx, root, result.GraphHash, opts)
	observability.Pipeline().OnLayoutComplete(ctx, opts.Algorithm(root.Options), time.Since(layoutStart), err)
	if err != nil {
		return nil, err
	}
	result.Digraph = d
	result.Snapshot = snapshot
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"run", result.RunID,
		"algorithm", opts.Algorithm(root.Options),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, d, snapshot, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"run", result.RunID,
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Parse decodes the source document and resolves the effective root
// options (profile underneath, overrides on top).
func (r *Runner) Parse(_ context.Context, opts Options) (*graph.Collection, error) {
	if err := opts.ValidateForParse(); err != nil {
		return nil, err
	}

	var (
		doc *config.Document
		err error
	)
	switch {
	case strings.HasSuffix(strings.ToLower(opts.SourceName), ".json"):
		doc, err = config.ParseJSON(opts.Source)
	case strings.HasSuffix(strings.ToLower(opts.SourceName), ".toml"):
		doc, err = config.ParseTOML(opts.Source)
	case looksLikeJSON(opts.Source):
		doc, err = config.ParseJSON(opts.Source)
	default:
		doc, err = config.ParseTOML(opts.Source)
	}
	if err != nil {
		return nil, err
	}

	root, err := doc.Build()
	if err != nil {
		return nil, err
	}
	rootOpts, err := opts.RootOptions(root.Options)
	if err != nil {
		return nil, err
	}
	root.Options = rootOpts
	return root, nil
}

// LayoutWithCacheInfo lays out the sublayout tree with caching and
// returns cache hit info. On a hit the cached positions are applied to a
// freshly assembled digraph instead of running the engine.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, root *graph.Collection, graphHash string, opts Options) (*graph.Digraph, *Snapshot, bool, error) {
	r.applyLogger(&opts)
	cacheKey := r.Keyer.LayoutKey(graphHash, opts.LayoutKeyOpts(root.Options))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if snapshot, err := UnmarshalSnapshot(data); err == nil {
				if d, err := assembleTree(root); err == nil {
					observability.Cache().OnCacheHit(ctx, "layout")
					snapshot.Apply(d)
					return d, snapshot, true, nil
				}
			}
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	engine := layout.NewEngine(layout.WithLogger(opts.Logger))
	d, err := engine.Layout(root)
	if err != nil {
		return nil, nil, false, err
	}
	snapshot := CaptureSnapshot(d)

	if data, err := snapshot.Marshal(); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return d, snapshot, false, nil
}

// Layout is a convenience wrapper that discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, root *graph.Collection, graphHash string, opts Options) (*graph.Digraph, *Snapshot, error) {
	d, snapshot, _, err := r.LayoutWithCacheInfo(ctx, root, graphHash, opts)
	return d, snapshot, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache
// hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, d *graph.Digraph, snapshot *Snapshot, opts Options) (map[string][]byte, bool, error) {
	opts.SetRenderDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	layoutData, err := snapshot.Marshal()
	if err != nil {
		return nil, false, gderrors.Wrap(gderrors.ErrCodeInternal, err, "serialize layout for cache key")
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache.
	allCached := true
	artifacts := make(map[string][]byte)
	if !opts.Refresh {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
			} else {
				observability.Cache().OnCacheMiss(ctx, "artifact")
				allCached = false
				break
			}
		}
		if allCached && len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	rendered, err := r.renderFormats(ctx, d, layoutData, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return rendered, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, d *graph.Digraph, snapshot *Snapshot, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, d, snapshot, opts)
	return artifacts, err
}

func (r *Runner) renderFormats(ctx context.Context, d *graph.Digraph, layoutData []byte, opts Options) (map[string][]byte, error) {
	dotOpts := dot.Options{Name: opts.SourceName, Detailed: opts.Detailed}
	out := make(map[string][]byte, len(opts.Formats))
	var dotSrc string

	needsDOT := false
	for _, format := range opts.Formats {
		if format != FormatJSON {
			needsDOT = true
		}
	}
	if needsDOT {
		dotSrc = dot.ToDOT(d, dotOpts)
	}

	for _, format := range opts.Formats {
		switch format {
		case FormatDOT:
			out[format] = []byte(dotSrc)
		case FormatSVG:
			data, err := dot.RenderSVG(ctx, dotSrc)
			if err != nil {
				return nil, err
			}
			out[format] = data
		case FormatPNG:
			data, err := dot.RenderPNG(ctx, dotSrc)
			if err != nil {
				return nil, err
			}
			out[format] = data
		case FormatJSON:
			out[format] = layoutData
		}
	}
	return out, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// assembleTree builds the syntactic digraph of a whole sublayout tree:
// every vertex and edge of every collection in one digraph. Cached
// layouts are applied onto this assembly.
func assembleTree(root *graph.Collection) (*graph.Digraph, error) {
	d := graph.New(root.Options)
	cols := append([]*graph.Collection{root}, root.Descendants("")...)
	for _, c := range cols {
		for _, v := range c.Vertices {
			if !d.Contains(v) {
				if err := d.Add(v); err != nil {
					return nil, err
				}
			}
		}
	}
	for _, c := range cols {
		for _, e := range c.Edges {
			for _, v := range []*graph.Vertex{e.Tail, e.Head} {
				if !d.Contains(v) {
					if err := d.Add(v); err != nil {
						return nil, err
					}
				}
			}
			arc, err := d.Connect(e.Tail, e.Head)
			if err != nil {
				return nil, err
			}
			arc.SyntacticEdges = append(arc.SyntacticEdges, e)
		}
	}
	return d, nil
}

func looksLikeJSON(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func countVertices(root *graph.Collection) int {
	seen := make(map[*graph.Vertex]bool)
	for _, c := range append([]*graph.Collection{root}, root.Descendants("")...) {
		for _, v := range c.Vertices {
			seen[v] = true
		}
	}
	return len(seen)
}

func countEdges(root *graph.Collection) int {
	n := 0
	for _, c := range append([]*graph.Collection{root}, root.Descendants("")...) {
		n += len(c.Edges)
	}
	return n
}

// Package pipeline provides the complete parse → layout → render pipeline.
//
// The pipeline consists of three stages:
//
//  1. Parse: decode a graph document and build its sublayout tree
//  2. Layout: run the layout engine over the tree
//  3. Render: generate output artifacts (DOT, SVG, PNG, JSON)
//
// Each stage can be run independently or as part of the complete pipeline,
// and each stage consults the cache before doing work. CLI and API share
// this package so caching and defaulting behave identically everywhere.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Source:  documentBytes,
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/graphdraw/graphdraw/pkg/cache"
	"github.com/graphdraw/graphdraw/pkg/config"
	gderrors "github.com/graphdraw/graphdraw/pkg/errors"
	"github.com/graphdraw/graphdraw/pkg/graph"
	"github.com/graphdraw/graphdraw/pkg/layout"
)

// Format constants for output artifacts.
const (
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
}

// Options contains all configuration for one pipeline run. The struct
// supports JSON serialization for API requests.
type Options struct {
	// Parse options. Source holds the raw graph document; SourceName
	// picks the decoder when it carries a .toml or .json extension and
	// labels the run otherwise.
	Source     []byte `json:"source,omitempty"`
	SourceName string `json:"source_name,omitempty"`

	// Layout options. Profile names a preset from Profiles; Overrides
	// are applied on top of the document's root options.
	Profile   string          `json:"profile,omitempty"`
	Overrides map[string]any  `json:"overrides,omitempty"`
	Profiles  config.Profiles `json:"-"`

	// Render options.
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`

	// Refresh bypasses cache reads (results are still written back).
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized).
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this pipeline run in logs and events.
	RunID string

	// Root is the parsed sublayout tree.
	Root *graph.Collection

	// GraphHash is the content hash of the source document.
	GraphHash string

	// Digraph is the laid-out root digraph.
	Digraph *graph.Digraph

	// Snapshot is the serializable form of the layout.
	Snapshot *Snapshot

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	VertexCount int
	EdgeCount   int
	ParseTime   time.Duration
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // whether layout positions came from cache
	RenderHit bool // whether all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return gderrors.New(gderrors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: dot, svg, png, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults for
// the full pipeline. Idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForParse(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForParse checks required fields for parsing.
func (o *Options) ValidateForParse() error {
	if len(o.Source) == 0 {
		return gderrors.New(gderrors.ErrCodeInvalidDocument, "source document is required")
	}
	if o.Profile != "" && o.Profiles == nil {
		return gderrors.New(gderrors.ErrCodeInvalidOption, "profile %q requested but no profiles loaded", o.Profile)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// RootOptions resolves the effective root options of the document:
// profile underneath document options, overrides on top.
func (o *Options) RootOptions(doc graph.Options) (graph.Options, error) {
	opts := doc.Clone()
	if o.Profile != "" {
		merged, err := o.Profiles.Apply(o.Profile, opts)
		if err != nil {
			return nil, err
		}
		opts = merged
	}
	for k, v := range o.Overrides {
		opts[k] = v
	}
	return opts, nil
}

// Algorithm returns the root layout algorithm the run will use.
func (o *Options) Algorithm(rootOpts graph.Options) string {
	if v, ok := rootOpts.String("algorithm"); ok {
		return v
	}
	return layout.DefaultAlgorithm
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts(rootOpts graph.Options) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Algorithm: o.Algorithm(rootOpts),
		Options:   rootOpts,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format}
}

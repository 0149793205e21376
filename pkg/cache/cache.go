// Package cache provides the layout result cache: pluggable byte-level
// backends (file, redis, null) behind one interface, plus key derivation
// from graph and option hashes.
package cache

import (
	"context"
	"time"
)

// Per-stage TTLs. Parsed graphs and layouts are cheap to keep around;
// rendered artifacts are larger and expire sooner.
const (
	TTLGraph    = 24 * time.Hour
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 6 * time.Hour
)

// Cache is a byte-level cache backend. Implementations treat keys as
// opaque strings; values carry their own encoding.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// GraphKeyOpts carries the parse inputs that shape a graph cache entry.
type GraphKeyOpts struct {
	Source string
}

// LayoutKeyOpts carries the layout inputs that shape a layout cache
// entry. Options covers every recognized layout option in effect.
type LayoutKeyOpts struct {
	Algorithm string
	Options   map[string]any
}

// ArtifactKeyOpts carries the render inputs that shape an artifact cache
// entry.
type ArtifactKeyOpts struct {
	Format string
}

// Keyer derives cache keys per pipeline stage.
type Keyer interface {
	// GraphKey keys a parsed graph document.
	GraphKey(documentHash string, opts GraphKeyOpts) string

	// LayoutKey keys a computed layout for a graph hash plus options.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// ArtifactKey keys a rendered artifact for a layout hash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes the inputs of each stage into namespaced keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

func (k *DefaultKeyer) GraphKey(documentHash string, opts GraphKeyOpts) string {
	return hashKey("graph", documentHash, opts)
}

func (k *DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix so separate contexts get
// separate namespaces in a shared backend.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to every key.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) GraphKey(documentHash string, opts GraphKeyOpts) string {
	return k.prefix + k.inner.GraphKey(documentHash, opts)
}

func (k *ScopedKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(graphHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}

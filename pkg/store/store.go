// Package store persists named layout results.
//
// A stored layout pairs the source graph document with the positions the
// engine computed for it, so a layout can be re-rendered or re-fetched
// without running the pipeline again. Backends:
//   - memory: in-memory storage for development/testing
//   - mongo: MongoDB-backed storage for the service
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when a layout does not exist.
	ErrNotFound = errors.New("layout not found")

	// ErrDuplicateName is returned when saving a layout under a name that
	// is already taken by a different layout.
	ErrDuplicateName = errors.New("layout name already in use")
)

// Position is one vertex position of a stored layout.
type Position struct {
	Vertex string  `json:"vertex" bson:"vertex"`
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
}

// Layout is a persisted layout run.
type Layout struct {
	ID   string `json:"id" bson:"_id"`
	Name string `json:"name" bson:"name"`

	// Document is the raw graph document the layout was computed from.
	Document []byte `json:"document" bson:"document"`

	// Options are the resolved root options of the run.
	Options map[string]any `json:"options" bson:"options"`

	Positions []Position `json:"positions" bson:"positions"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Store is the interface for layout storage backends.
type Store interface {
	// Get retrieves a layout by ID. Returns ErrNotFound if absent.
	Get(ctx context.Context, id string) (*Layout, error)

	// GetByName retrieves a layout by its unique name.
	GetByName(ctx context.Context, name string) (*Layout, error)

	// Put stores a layout, assigning an ID when empty. Saving an existing
	// ID overwrites it; reusing another layout's name fails with
	// ErrDuplicateName.
	Put(ctx context.Context, l *Layout) error

	// Delete removes a layout. Deleting an absent ID is not an error.
	Delete(ctx context.Context, id string) error

	// List returns all stored layouts ordered by name.
	List(ctx context.Context) ([]*Layout, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// NewID returns a fresh layout ID.
func NewID() string { return uuid.NewString() }

// prepare fills in ID and timestamps before a save.
func prepare(l *Layout) {
	now := time.Now().UTC()
	if l.ID == "" {
		l.ID = NewID()
		l.CreatedAt = now
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = now
	}
	l.UpdatedAt = now
}

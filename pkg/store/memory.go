package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps layouts in process memory. Safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	byID   map[string]*Layout
	byName map[string]string
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:   make(map[string]*Layout),
		byName: make(map[string]string),
	}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Layout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (s *MemoryStore) GetByName(_ context.Context, name string) (*Layout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byName[name]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s.byID[id]
	return &cp, nil
}

func (s *MemoryStore) Put(_ context.Context, l *Layout) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, taken := s.byName[l.Name]; taken && id != l.ID {
		return ErrDuplicateName
	}
	prepare(l)
	if prev, ok := s.byID[l.ID]; ok && prev.Name != l.Name {
		delete(s.byName, prev.Name)
	}
	cp := *l
	s.byID[l.ID] = &cp
	s.byName[l.Name] = l.ID
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.byID[id]; ok {
		delete(s.byName, l.Name)
		delete(s.byID, id)
	}
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]*Layout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Layout, 0, len(s.byID))
	for _, l := range s.byID {
		cp := *l
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) Close(context.Context) error { return nil }

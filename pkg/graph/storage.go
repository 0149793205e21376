package graph

// Storage is a side table attaching algorithm-private data to vertices or
// arcs without polluting the shared types. A Storage is scoped to one
// algorithm invocation and passed explicitly as a parameter; there is no
// global attribute state.
//
// The key type is usually *Vertex or *Arc; identity is pointer identity.
type Storage[K comparable, V any] struct {
	m map[K]V
}

// NewStorage creates an empty side table.
func NewStorage[K comparable, V any]() *Storage[K, V] {
	return &Storage[K, V]{m: make(map[K]V)}
}

// Get returns the value stored for k.
func (s *Storage[K, V]) Get(k K) (V, bool) {
	v, ok := s.m[k]
	return v, ok
}

// Value returns the value stored for k, or the zero value.
func (s *Storage[K, V]) Value(k K) V {
	return s.m[k]
}

// Set stores v for k.
func (s *Storage[K, V]) Set(k K, v V) {
	s.m[k] = v
}

// Delete removes the entry for k.
func (s *Storage[K, V]) Delete(k K) {
	delete(s.m, k)
}

// Len returns the number of entries.
func (s *Storage[K, V]) Len() int { return len(s.m) }

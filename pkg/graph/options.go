package graph

import "maps"

// Options stores arbitrary key-value pairs attached to vertices, edges,
// collections, or whole graphs. The semantics of most keys are opaque to the
// data model; the layout packages recognize and validate specific keys.
// Options maps are never nil - they are automatically initialized when
// needed.
type Options map[string]any

// NewOptions returns an empty options map.
func NewOptions() Options { return Options{} }

// Clone returns a shallow copy of the options map.
func (o Options) Clone() Options {
	if o == nil {
		return Options{}
	}
	return maps.Clone(o)
}

// Lookup returns the raw value stored under key.
func (o Options) Lookup(key string) (any, bool) {
	v, ok := o[key]
	return v, ok
}

// Bool returns the boolean stored under key. The second return reports
// whether the key is present with a boolean value.
func (o Options) Bool(key string) (bool, bool) {
	v, ok := o[key].(bool)
	return v, ok
}

// Float returns the numeric value stored under key as a float64, accepting
// float64, int, and int64 values. The second return reports whether the key
// is present with a numeric value.
func (o Options) Float(key string) (float64, bool) {
	switch v := o[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// Int returns the integer stored under key, accepting int, int64, and
// float64 values. The second return reports whether the key is present with
// a numeric value.
func (o Options) Int(key string) (int, bool) {
	switch v := o[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// String returns the string stored under key. The second return reports
// whether the key is present with a string value.
func (o Options) String(key string) (string, bool) {
	v, ok := o[key].(string)
	return v, ok
}

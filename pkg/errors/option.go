package errors

// InvalidOption builds the standard error for an out-of-range or malformed
// option value. Every option validation failure in the engine goes through
// this helper so messages always name the offending key and value.
func InvalidOption(key string, value any, constraint string) *Error {
	return New(ErrCodeInvalidOption, "option %q = %v: %s", key, value, constraint)
}

// UnknownAlgorithm builds the fatal error reported when a layout phase has
// no registered algorithm implementation. There is no sensible default
// layout, so callers must abort the layout for that graph.
func UnknownAlgorithm(name string) *Error {
	return New(ErrCodeAlgorithmSelection, "algorithm selection failed: no algorithm registered under %q", name)
}

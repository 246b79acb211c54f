package common

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
// Config layers use it to let an unset field fall through to the next layer.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// ValueOr dereferences an optional value, returning def when it is unset.
// It is the pointer counterpart of Coalesce for fields whose zero value is meaningful, such as booleans
// that default to true.
//
// Parameters:
//   - p: the optional value
//   - def: the value used when p is nil
//
// Returns:
//   - T: *p, or def when p is nil
func ValueOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

package common

import "math"

// Coalesce returns the first argument that is not the zero value of T. Configuration layers use it to fall
// back to package defaults for unset fields.
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// Finite reports whether v is neither NaN nor an infinity. Host-supplied deltas and sizes go through it
// before they reach any accumulator.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

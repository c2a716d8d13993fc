package utils

import "golang.org/x/exp/constraints"

// Clamp bounds t to the closed range [min, max]. The bounds may be given in either order.
func Clamp[T constraints.Ordered](t, min, max T) T {
	if min > max {
		min, max = max, min
	}
	if t < min {
		return min
	}
	if t > max {
		return max
	}
	return t
}

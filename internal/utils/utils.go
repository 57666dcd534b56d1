package utils

import "golang.org/x/exp/constraints"

// Min returns the smaller of a and b.
func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// IntRange returns the slice [lo, lo+1, ..., hi]. An empty slice is returned
// when hi < lo.
func IntRange[T constraints.Integer](lo, hi T) []T {
	if hi < lo {
		return nil
	}
	r := make([]T, 0, hi-lo+1)
	for v := lo; v <= hi; v++ {
		r = append(r, v)
	}
	return r
}

package utils

import "golang.org/x/exp/constraints"

// Clamp limits value to the closed range [lo, hi].
func Clamp[T constraints.Integer | constraints.Float](lo, value, hi T) T {
	switch {
	case value < lo:
		return lo
	case value > hi:
		return hi
	}
	return value
}

package mesh

import "golang.org/x/exp/constraints"

// Number is any integer or floating point type.
type Number interface {
	constraints.Integer | constraints.Float
}

// Clamp limits value to the range [lo, hi].
func Clamp[T Number](value, lo, hi T) T {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

// MaxOf returns the larger of a and b.
func MaxOf[T Number](a, b T) T {
	if a > b {
		return a
	}
	return b
}

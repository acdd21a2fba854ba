package core

import "golang.org/x/exp/constraints"

// ClampMin returns v, or min when v is below it.
func ClampMin[T constraints.Integer | constraints.Float](v, min T) T {
	if v < min {
		return min
	}
	return v
}

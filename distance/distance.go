// Package distance provides the public API for vector distance calculations.
package distance

import (
	"github.com/hupe1980/yavs/internal/math32"
)

// SquaredL2 calculates the squared L2 (Euclidean) distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
func SquaredL2(a, b []float32) float32 {
	return math32.SquaredL2(a, b)
}

// L2 calculates the Euclidean distance between two vectors, with the square
// root taken in float32 precision.
// Assumes vectors are the same length (caller's responsibility).
func L2(a, b []float32) float32 {
	return math32.Sqrt(math32.SquaredL2(a, b))
}

// Dot calculates the dot product of two vectors.
// Assumes vectors are the same length (caller's responsibility).
func Dot(a, b []float32) float32 {
	return math32.Dot(a, b)
}

// Package math32 provides float32 vector kernels for the distance package.
// All arithmetic stays in float32 so results match the precision of stored
// embeddings exactly.
package math32

import "math"

// SquaredL2 calculates the squared L2 distance between a and b.
// Assumes len(a) == len(b) (caller's responsibility).
func SquaredL2(a, b []float32) float32 {
	var distance float32
	for i := range a {
		d := a[i] - b[i]
		distance += d * d
	}
	return distance
}

// Dot calculates the dot product of a and b.
// Assumes len(a) == len(b) (caller's responsibility).
func Dot(a, b []float32) float32 {
	var ret float32
	for i := range a {
		ret += a[i] * b[i]
	}
	return ret
}

// Sqrt returns the float32 square root of x.
func Sqrt(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}

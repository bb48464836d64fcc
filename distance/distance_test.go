package distance

import (
	"math"
	"testing"
)

func TestSquaredL2(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float32
	}{
		{name: "zero distance", a: []float32{1, 2, 3}, b: []float32{1, 2, 3}, want: 0},
		{name: "unit axis", a: []float32{0, 0}, b: []float32{0, 1}, want: 1},
		{name: "pythagorean", a: []float32{0, 0}, b: []float32{3, 4}, want: 25},
		{name: "negative components", a: []float32{-1, -1}, b: []float32{1, 1}, want: 8},
		{name: "empty", a: nil, b: nil, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SquaredL2(tt.a, tt.b); got != tt.want {
				t.Errorf("SquaredL2(%v, %v) = %f, want %f", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestL2(t *testing.T) {
	got := L2([]float32{0, 0}, []float32{3, 4})
	if got != 5 {
		t.Errorf("L2 = %f, want 5", got)
	}

	got = L2([]float32{1, 1}, []float32{0, 0})
	want := float32(math.Sqrt(2))
	if math.Abs(float64(got-want)) > 1e-6 {
		t.Errorf("L2 = %f, want %f", got, want)
	}
}

func TestDot(t *testing.T) {
	got := Dot([]float32{1, 2, 3}, []float32{4, 5, 6})
	if got != 32 {
		t.Errorf("Dot = %f, want 32", got)
	}
}

func BenchmarkL2(b *testing.B) {
	x := make([]float32, 128)
	y := make([]float32, 128)
	for i := range x {
		x[i] = float32(i)
		y[i] = float32(i) * 0.5
	}

	b.ResetTimer()
	for b.Loop() {
		_ = L2(x, y)
	}
}

package core

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		min      float64
		max      float64
		expected float64
	}{
		{name: "inside", value: 0.5, min: 0, max: 1, expected: 0.5},
		{name: "below", value: -1, min: 1, max: 5, expected: 1},
		{name: "above", value: 7.3, min: 1, max: 5, expected: 5},
		{name: "swapped", value: 2, min: 1, max: 0, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.value, tt.min, tt.max)
			if got != tt.expected {
				t.Fatalf("Clamp() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 4},
		{5, 8},
		{7, 8},
		{10, 16},
		{23, 32},
		{32, 32},
		{48000, 65536},
	}

	for _, tt := range tests {
		if got := NextPowerOfTwo(tt.in); got != tt.want {
			t.Errorf("NextPowerOfTwo(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestMagnitudeToDB(t *testing.T) {
	in := []float64{10.21, -4.63, 0.54, 87.98, 0.065, 0, -53.2, 8.7, 0, -2.76}
	want := []float64{
		10.0903, 6.6558, -2.6761, 19.4438, -11.8709,
		-156.5356, 17.2591, 9.3952, -156.5356, 4.4091,
	}

	for i, x := range in {
		got := MagnitudeToDB(x)
		if math.Abs(got-want[i]) > 1e-4 {
			t.Fatalf("MagnitudeToDB(%v) = %v, want %v", x, got, want[i])
		}
	}
}

func TestDBConversions(t *testing.T) {
	linear := DBToLinear(-6)
	db := LinearToDB(linear)
	if math.Abs(db+6) > 1e-10 {
		t.Fatalf("LinearToDB(DBToLinear(-6)) = %v, want -6", db)
	}
	if !math.IsInf(LinearToDB(0), -1) {
		t.Fatal("expected -Inf for zero")
	}
	if !math.IsNaN(LinearToDB(-1)) {
		t.Fatal("expected NaN for negative amplitude")
	}
	if got := DBToLinear(20); math.Abs(got-10) > 1e-12 {
		t.Fatalf("DBToLinear(20) = %v, want 10", got)
	}
}

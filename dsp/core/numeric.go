package core

import "math"

// Epsilon is the float64 machine epsilon, used as a floor for log
// conversions of exact zeros.
const Epsilon = 2.220446049250313e-16

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// NextPowerOfTwo returns the smallest power of two >= n.
// Values below 2 return 1.
func NextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}

	return p
}

// MagnitudeToDB converts a linear magnitude to decibels using the
// 10*log10 convention applied to |x|. Exact zeros are replaced by
// [Epsilon] so the result stays finite.
func MagnitudeToDB(x float64) float64 {
	if x == 0 {
		x = Epsilon
	}

	return 10 * math.Log10(math.Abs(x))
}

// DBToLinear converts dB to linear amplitude (20*log10 convention).
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts linear amplitude to dB (20*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearToDB(linear float64) float64 {
	if linear < 0 {
		return math.NaN()
	}

	if linear == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(linear)
}

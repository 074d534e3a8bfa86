// Package time provides time-domain level statistics for sample buffers.
package time

import (
	"math"

	"github.com/cwbudde/algo-visqol/dsp/core"
)

// ReferencePressure is the 20 µPa reference for sound pressure level.
const ReferencePressure = 20e-6

// RMS returns the root-mean-square of the signal.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	var sumSq float64
	for _, x := range signal {
		sumSq += x * x
	}

	return math.Sqrt(sumSq / float64(len(signal)))
}

// RMSInt16 returns the root-mean-square of 16-bit samples. Squares are
// accumulated in int64 so full-scale chunks do not overflow.
func RMSInt16(chunk []int16) float64 {
	if len(chunk) == 0 {
		return 0
	}

	var sumSq int64
	for _, x := range chunk {
		sumSq += int64(x) * int64(x)
	}

	return math.Sqrt(float64(sumSq) / float64(len(chunk)))
}

// Peak returns the peak absolute amplitude of the signal.
func Peak(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	peak := math.Abs(signal[0])
	for _, x := range signal[1:] {
		a := math.Abs(x)
		if a > peak {
			peak = a
		}
	}

	return peak
}

// Max returns the largest (signed) sample value, or 0 for empty input.
func Max(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	m := signal[0]
	for _, x := range signal[1:] {
		if x > m {
			m = x
		}
	}

	return m
}

// SPL returns the sound pressure level of the signal in dB re 20 µPa,
// treating samples as pressure in pascal. Silence yields -Inf.
func SPL(signal []float64) float64 {
	return core.LinearToDB(RMS(signal) / ReferencePressure)
}

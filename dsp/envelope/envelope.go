// Package envelope extracts amplitude envelopes through the FFT-domain
// Hilbert transform.
package envelope

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
	"github.com/cwbudde/algo-visqol/dsp/fft"
	"gonum.org/v1/gonum/stat"
)

// Input errors.
var (
	ErrEmptySignal     = errors.New("envelope: empty signal")
	ErrNonFiniteSignal = errors.New("envelope: signal contains NaN or Inf")
)

// Hilbert returns the analytic signal of x: its real part is x and its
// imaginary part the Hilbert transform. The result has len(x) samples.
func Hilbert(x []float64) ([]complex128, error) {
	if len(x) == 0 {
		return nil, ErrEmptySignal
	}

	m, err := fft.NewManager(len(x))
	if err != nil {
		return nil, fmt.Errorf("envelope: %w", err)
	}

	spec, err := m.Forward(x)
	if err != nil {
		return nil, fmt.Errorf("envelope: %w", err)
	}

	h := analyticScaling(len(spec))
	for i := range spec {
		spec[i] *= complex(h[i], 0)
	}

	return m.Inverse(spec)
}

// analyticScaling returns the one-sided spectral weights for an n-point
// spectrum: DC kept, positive frequencies doubled, negative frequencies
// removed. For even n the Nyquist bin is kept, for odd n the middle bin
// is doubled.
func analyticScaling(n int) []float64 {
	h := make([]float64, n)
	h[0] = 1

	half := n / 2
	if n%2 == 0 {
		h[half] = 1
	} else {
		half = (n + 1) / 2
	}
	for i := 1; i < half; i++ {
		h[i] = 2
	}

	return h
}

// Upper returns the upper amplitude envelope of x. The mean is removed
// before the Hilbert transform and added back to the magnitude.
func Upper(x []float64) ([]float64, error) {
	if len(x) == 0 {
		return nil, ErrEmptySignal
	}

	mean := stat.Mean(x, nil)
	if math.IsNaN(mean) || math.IsInf(mean, 0) {
		return nil, ErrNonFiniteSignal
	}
	centered := make([]float64, len(x))
	for i, v := range x {
		centered[i] = v - mean
	}

	analytic, err := Hilbert(centered)
	if err != nil {
		return nil, err
	}

	re := make([]float64, len(analytic))
	im := make([]float64, len(analytic))
	for i, c := range analytic {
		re[i] = real(c)
		im[i] = imag(c)
	}

	env := make([]float64, len(analytic))
	vecmath.Magnitude(env, re, im)
	for i := range env {
		env[i] += mean
	}

	return env, nil
}

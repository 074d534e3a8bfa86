package conv

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-visqol/dsp/core"
	"github.com/cwbudde/algo-visqol/dsp/fft"
)

// CorrelateFFT computes the cross-correlation of a and b via
// IFFT(FFT(a) * conj(FFT(b))). The shorter input is zero-padded to the
// longer one's length L and the transform size is the next power of two
// >= 2L-1 (at least [fft.MinSize]).
//
// The result has length 2L-1 and index k corresponds to lag k - (L-1).
func CorrelateFFT(a, b []float64) ([]float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return nil, ErrEmptyInput
	}

	n := max(len(a), len(b))
	m, err := fft.NewManager(core.NextPowerOfTwo(2*n - 1))
	if err != nil {
		return nil, fmt.Errorf("conv: %w", err)
	}

	aFreq, err := m.Forward(a)
	if err != nil {
		return nil, fmt.Errorf("conv: %w", err)
	}

	bFreq, err := m.Forward(b)
	if err != nil {
		return nil, fmt.Errorf("conv: %w", err)
	}

	for i := range aFreq {
		// conj(b) = real - imag*i
		bConj := complex(real(bFreq[i]), -imag(bFreq[i]))
		aFreq[i] *= bConj
	}

	circ, err := m.InverseFull(aFreq)
	if err != nil {
		return nil, fmt.Errorf("conv: %w", err)
	}

	// Negative lags wrap around to the end of the circular result.
	maxLag := n - 1
	size := len(circ)
	result := make([]float64, 2*n-1)
	for i := 0; i < maxLag; i++ {
		result[i] = real(circ[size-maxLag+i])
	}
	for i := 0; i <= maxLag; i++ {
		result[maxLag+i] = real(circ[i])
	}

	return result, nil
}

// FindPeak returns the index and value of the first element with the
// largest absolute value. It returns -1 for empty input.
func FindPeak(corr []float64) (index int, value float64) {
	if len(corr) == 0 {
		return -1, 0
	}

	best := math.Abs(corr[0])
	for i, v := range corr {
		if math.Abs(v) > best {
			index = i
			best = math.Abs(v)
		}
	}

	return index, corr[index]
}

// BestLag returns the lag, in samples, at which b best matches a.
// A positive lag means b has to be delayed (zero-padded at the front) to
// align with a, a negative lag means leading samples of b have to be
// dropped. Ties resolve to the smallest lag.
func BestLag(a, b []float64) (int, error) {
	corr, err := CorrelateFFT(a, b)
	if err != nil {
		return 0, err
	}

	idx, _ := FindPeak(corr)
	return LagFromIndex(idx, max(len(a), len(b))), nil
}

// LagFromIndex converts a correlation index to a lag for inputs padded
// to length n.
func LagFromIndex(index, n int) int {
	return index - (n - 1)
}

package resample

import (
	"errors"
	"math"
)

// designPolyphase builds a Kaiser-windowed sinc low-pass at the up-sampled
// rate and splits it into up branches. Branch p holds taps p, p+up, ...
// The length is odd and its center a multiple of down, so the group delay
// is a whole number of output samples.
func designPolyphase(up, down int, p profile) ([][]float64, int, error) {
	half := down * ((p.tapsPerPhase*up + 2*down - 1) / (2 * down))
	nTaps := 2*half + 1
	fc := 0.5 / float64(max(up, down)) * p.cutoffScale

	taps := make([]float64, nTaps)
	center := 0.5 * float64(nTaps-1)

	var sum float64
	for n := range taps {
		t := float64(n) - center
		taps[n] = 2 * fc * sinc(2*fc*t) * kaiser(n, nTaps, p.kaiserBeta)
		sum += taps[n]
	}

	if sum == 0 {
		return nil, 0, errors.New("resample: designed zero-sum filter")
	}

	// Unity DC gain per output sample after zero-stuffing.
	scale := float64(up) / sum

	phases := make([][]float64, up)
	for ph := range up {
		branch := make([]float64, 0, (nTaps-ph+up-1)/up)
		for i := ph; i < nTaps; i += up {
			branch = append(branch, taps[i]*scale)
		}
		phases[ph] = branch
	}

	return phases, nTaps, nil
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}

	if a == 0 {
		return 1
	}

	return a
}

func sinc(x float64) float64 {
	if math.Abs(x) < 1e-12 {
		return 1
	}

	pix := math.Pi * x

	return math.Sin(pix) / pix
}

func kaiser(i, n int, beta float64) float64 {
	if n <= 1 || beta == 0 {
		return 1
	}

	t := 2*float64(i)/float64(n-1) - 1

	return besselI0(beta*math.Sqrt(math.Max(0, 1-t*t))) / besselI0(beta)
}

// besselI0 evaluates the zeroth-order modified Bessel function by its
// power series.
func besselI0(x float64) float64 {
	sum := 1.0
	term := 1.0

	x2 := x * x / 4
	for k := 1; k < 64; k++ {
		term *= x2 / float64(k*k)
		sum += term

		if term < 1e-16*sum {
			break
		}
	}

	return sum
}

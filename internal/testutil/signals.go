package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// Shift delays x by k samples (k > 0) or advances it (k < 0), keeping the
// original length and filling vacated samples with zeros.
func Shift(x []float64, k int) []float64 {
	out := make([]float64, len(x))
	for i := range out {
		j := i - k
		if j >= 0 && j < len(x) {
			out[i] = x[j]
		}
	}
	return out
}

// Bursts builds a speech-like test signal: tone bursts of burstLen
// samples separated by gapLen samples of silence. Each burst mixes three
// harmonics of f0 with a little seeded noise and a raised-cosine fade.
func Bursts(seed int64, f0, sampleRate float64, burstLen, gapLen, count int) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, 0, count*(burstLen+gapLen)+gapLen)
	out = append(out, make([]float64, gapLen)...)

	for b := 0; b < count; b++ {
		f := f0 * (1 + 0.1*float64(b%3))
		for i := 0; i < burstLen; i++ {
			tm := float64(i) / sampleRate
			fade := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(burstLen))
			v := 0.5*math.Sin(2*math.Pi*f*tm) +
				0.25*math.Sin(2*math.Pi*2*f*tm) +
				0.125*math.Sin(2*math.Pi*3*f*tm) +
				0.02*(rng.Float64()*2-1)
			out = append(out, 0.8*fade*v)
		}
		out = append(out, make([]float64, gapLen)...)
	}

	return out
}

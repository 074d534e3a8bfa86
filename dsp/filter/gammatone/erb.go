package gammatone

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-visqol/dsp/filter/biquad"
)

// Glasberg–Moore ERB parameters.
const (
	EarQ     = 9.26449
	MinBW    = 24.7
	erbOrder = 1.0
)

var (
	errInvalidSampleRate = errors.New("gammatone: sample rate must be > 0")
	errInvalidBandCount  = errors.New("gammatone: band count must be > 0")
	errInvalidRange      = errors.New("gammatone: frequency range must satisfy 0 < low < high")
)

// Coefficients describes one gammatone band: a shared denominator
// [B0, B1, B2] (B0 == 1), four numerator variants [A0, A1k, A2] and the
// gain that normalizes the cascade to unit peak response.
type Coefficients struct {
	CenterFreq float64

	A0, A11, A12, A13, A14, A2 float64
	B0, B1, B2                 float64
	Gain                       float64
}

// Row returns the coefficients in the conventional 10-column layout
// [A0, A11, A12, A13, A14, A2, B0, B1, B2, gain].
func (c Coefficients) Row() [10]float64 {
	return [10]float64{c.A0, c.A11, c.A12, c.A13, c.A14, c.A2, c.B0, c.B1, c.B2, c.Gain}
}

// Stages returns the four biquad sections of the band. The first stage
// carries the 1/gain normalization.
func (c Coefficients) Stages() []biquad.Coefficients {
	stage := func(a1 float64) biquad.Coefficients {
		return biquad.Coefficients{B0: c.A0, B1: a1, B2: c.A2, A1: c.B1, A2: c.B2}
	}

	return []biquad.Coefficients{
		stage(c.A11).Scaled(1 / c.Gain),
		stage(c.A12),
		stage(c.A13),
		stage(c.A14),
	}
}

// CenterFrequencies returns numBands center frequencies between low and
// high, uniformly spaced on the ERB scale, in descending order.
func CenterFrequencies(numBands int, low, high float64) []float64 {
	a := -(EarQ * MinBW)
	b := -math.Log(high + EarQ*MinBW)
	c := math.Log(low + EarQ*MinBW)
	d := high + EarQ*MinBW
	e := (b + c) / float64(numBands)

	cf := make([]float64, numBands)
	for i := range cf {
		cf[i] = a + math.Exp(float64(i+1)*e)*d
	}

	return cf
}

// Design computes the gammatone coefficients for numBands bands between
// lowFreq and highFreq. A highFreq above Nyquist is clamped to Nyquist.
// Bands are returned highest center frequency first.
func Design(sampleRate float64, numBands int, lowFreq, highFreq float64) ([]Coefficients, error) {
	if sampleRate <= 0 {
		return nil, errInvalidSampleRate
	}
	if numBands <= 0 {
		return nil, errInvalidBandCount
	}

	highFreq = min(highFreq, sampleRate/2)
	if lowFreq <= 0 || lowFreq >= highFreq {
		return nil, fmt.Errorf("%w: low=%g high=%g", errInvalidRange, lowFreq, highFreq)
	}

	t := 1 / sampleRate
	cfs := CenterFrequencies(numBands, lowFreq, highFreq)
	out := make([]Coefficients, numBands)
	for i, cf := range cfs {
		out[i] = designBand(cf, t)
	}

	return out, nil
}

func designBand(cf, t float64) Coefficients {
	erb := math.Pow(math.Pow(cf/EarQ, erbOrder)+math.Pow(MinBW, erbOrder), 1/erbOrder)
	bw := 1.019 * 2 * math.Pi * erb

	arg := 2 * math.Pi * cf * t
	expBT := math.Exp(bw * t)

	b1 := math.Sin(arg) * t
	bPos := b1 * 2 * math.Sqrt(3+math.Pow(2, 1.5))
	bNeg := b1 * 2 * math.Sqrt(3-math.Pow(2, 1.5))
	a := math.Cos(arg) * 2 * t

	return Coefficients{
		CenterFreq: cf,
		A0:         t,
		A11:        -(a/expBT + bPos/expBT) / 2,
		A12:        -(a/expBT - bPos/expBT) / 2,
		A13:        -(a/expBT + bNeg/expBT) / 2,
		A14:        -(a/expBT - bNeg/expBT) / 2,
		A2:         0,
		B0:         1,
		B1:         -2 * math.Cos(arg) / expBT,
		B2:         math.Exp(-2 * bw * t),
		Gain:       bandGain(cf, bw, t),
	}
}

// bandGain is the magnitude of the cascade's response at the center
// frequency, evaluated in closed form.
func bandGain(cf, bw, t float64) float64 {
	p1 := math.Pow(2, 1.5)
	s1 := math.Sqrt(3 - p1)
	s2 := math.Sqrt(3 + p1)

	xExp := cmplx.Exp(complex(0, 4*cf*math.Pi*t))
	x01 := -2 * xExp * complex(t, 0)
	x02 := 2 * cmplx.Exp(complex(-bw*t, 2*cf*math.Pi*t)) * complex(t, 0)

	xcos := math.Cos(2 * cf * math.Pi * t)
	xsin := math.Sin(2 * cf * math.Pi * t)

	x1 := x01 + x02*complex(xcos-s1*xsin, 0)
	x2 := x01 + x02*complex(xcos+s1*xsin, 0)
	x3 := x01 + x02*complex(xcos-s2*xsin, 0)
	x4 := x01 + x02*complex(xcos+s2*xsin, 0)

	x5 := complex(-2/math.Exp(2*bw*t), 0) - 2*xExp + 2*(1+xExp)/complex(math.Exp(bw*t), 0)

	x5sq := x5 * x5

	return cmplx.Abs(x1 * x2 * x3 * x4 / (x5sq * x5sq))
}

package quality

import (
	"math"

	"github.com/cwbudde/algo-visqol/dsp/core"
	"gonum.org/v1/gonum/stat"
)

// MOS bounds.
const (
	MinMOS = 1.0
	MaxMOS = 5.0
)

// Mapper predicts a MOS from per-band similarity features.
type Mapper interface {
	PredictQuality(features []float64) float64
}

// Speech fit parameters for mean NSIM.
const (
	speechFitA     = 1.1559455
	speechFitB     = 4.6851153
	speechFitX0    = 0.7655232
	speechFitScale = 1.2031409
)

// SpeechMapper maps the mean similarity through an exponential fit. With
// ScaleToMaxMOS a perfect similarity of 1 maps to roughly 5, otherwise
// to about 4.16.
type SpeechMapper struct {
	ScaleToMaxMOS bool
}

// PredictQuality returns the clamped MOS for the mean of features.
func (m SpeechMapper) PredictQuality(features []float64) float64 {
	if len(features) == 0 {
		return MinMOS
	}

	mos := ExponentialFromFit(stat.Mean(features, nil), speechFitA, speechFitB, speechFitX0)
	if m.ScaleToMaxMOS {
		mos *= speechFitScale
	}

	return clampMOS(mos)
}

// ExponentialFromFit evaluates a + exp(b*(x-x0)).
func ExponentialFromFit(x, a, b, x0 float64) float64 {
	return a + math.Exp(b*(x-x0))
}

func clampMOS(v float64) float64 {
	if math.IsNaN(v) {
		return MinMOS
	}
	return core.Clamp(v, MinMOS, MaxMOS)
}

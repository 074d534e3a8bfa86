package spectrogram

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/cwbudde/algo-visqol/audio"
	"github.com/cwbudde/algo-visqol/dsp/filter/gammatone"
	"gonum.org/v1/gonum/mat"
)

// ErrTooFewSamples is returned when a signal is shorter than one window.
var ErrTooFewSamples = errors.New("spectrogram: too few samples for one analysis window")

// Gammatone band limits.
const (
	DefaultMinFreq = 50.0
	SpeechMaxFreq  = 8000.0
)

// Builder turns a signal into a spectrogram.
type Builder interface {
	Build(sig audio.Signal, w AnalysisWindow) (*Spectrogram, error)
}

// GammatoneBuilder builds spectrograms from an ERB-spaced gammatone
// filterbank. The upper band limit is SpeechMaxFreq in speech mode and
// Nyquist otherwise. A speech band limit above Nyquist is lowered to
// Nyquist and reported on Logger, or slog.Default() when Logger is nil.
type GammatoneBuilder struct {
	NumBands   int
	MinFreq    float64
	SpeechMode bool
	Logger     *slog.Logger
}

// Build computes one column per hop. Each frame is filtered from reset
// state and reduced to the RMS of every band output.
func (b GammatoneBuilder) Build(sig audio.Signal, w AnalysisWindow) (*Spectrogram, error) {
	if len(sig.Samples) < w.Size {
		return nil, fmt.Errorf("%w: %d samples, window %d", ErrTooFewSamples, len(sig.Samples), w.Size)
	}

	hop := w.Hop()
	if hop <= 0 || w.Size <= 0 {
		return nil, fmt.Errorf("%w: size %d hop %d", errInvalidWindow, w.Size, hop)
	}

	minFreq := b.MinFreq
	if minFreq <= 0 {
		minFreq = DefaultMinFreq
	}

	nyquist := float64(sig.SampleRate) / 2
	maxFreq := nyquist
	if b.SpeechMode {
		maxFreq = SpeechMaxFreq
		if maxFreq > nyquist {
			b.logger().Warn("spectrogram: speech band limit above Nyquist, clamping",
				"sample_rate", sig.SampleRate, "high_freq", maxFreq, "clamped", nyquist)
			maxFreq = nyquist
		}
	}

	coeffs, err := gammatone.Design(float64(sig.SampleRate), b.NumBands, minFreq, maxFreq)
	if err != nil {
		return nil, fmt.Errorf("spectrogram: %w", err)
	}

	// Lowest band first.
	slices.Reverse(coeffs)
	bank := gammatone.NewBank(coeffs)

	frames := 1 + (len(sig.Samples)-w.Size)/hop
	data := mat.NewDense(b.NumBands, frames, nil)
	col := make([]float64, b.NumBands)

	for j := 0; j < frames; j++ {
		start := j * hop
		bank.Reset()
		bank.Energies(sig.Samples[start:start+w.Size], col)
		data.SetCol(j, col)
	}

	cfs := bank.CenterFreqs()
	slices.Sort(cfs)

	return &Spectrogram{Data: data, CenterFreqs: cfs}, nil
}

func (b GammatoneBuilder) logger() *slog.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return slog.Default()
}

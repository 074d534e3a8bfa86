// Package align performs coarse time alignment of a degraded signal
// against its reference by cross-correlating their upper envelopes.
package align

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-visqol/audio"
	"github.com/cwbudde/algo-visqol/dsp/conv"
	"github.com/cwbudde/algo-visqol/dsp/envelope"
)

// ErrFailedToAlign wraps envelope and correlation failures.
var ErrFailedToAlign = errors.New("align: failed to align signals")

// BestLag returns the lag in samples that best aligns deg with ref.
// A positive lag means deg starts early and must be delayed.
func BestLag(ref, deg audio.Signal) (int, error) {
	refEnv, err := envelope.Upper(ref.Samples)
	if err != nil {
		return 0, fmt.Errorf("%w: reference envelope: %w", ErrFailedToAlign, err)
	}

	degEnv, err := envelope.Upper(deg.Samples)
	if err != nil {
		return 0, fmt.Errorf("%w: degraded envelope: %w", ErrFailedToAlign, err)
	}

	lag, err := conv.BestLag(refEnv, degEnv)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrFailedToAlign, err)
	}

	return lag, nil
}

// GloballyAlign shifts deg onto ref and returns the shifted copy and the
// applied lag in seconds. Lags of zero or of more than half the reference
// length are treated as spurious and leave deg unchanged.
func GloballyAlign(ref, deg audio.Signal) (audio.Signal, float64, error) {
	aligned, lag, err := globallyAlign(ref, deg)
	if err != nil {
		return audio.Signal{}, 0, err
	}

	return aligned, float64(lag) / float64(deg.SampleRate), nil
}

func globallyAlign(ref, deg audio.Signal) (audio.Signal, int, error) {
	lag, err := BestLag(ref, deg)
	if err != nil {
		return audio.Signal{}, 0, err
	}

	if lag == 0 || abs(lag) > ref.Len()/2 {
		return deg.Clone(), 0, nil
	}

	var out []float64
	if lag < 0 {
		out = append(out, deg.Samples[min(-lag, deg.Len()):]...)
	} else {
		out = make([]float64, lag+deg.Len())
		copy(out[lag:], deg.Samples)
	}

	return audio.Signal{Samples: out, SampleRate: deg.SampleRate}, lag, nil
}

// AlignAndTruncate globally aligns deg and trims both signals to a common
// length. When alignment delayed deg past the end of ref, the zero padded
// lead-in is removed from both signals.
func AlignAndTruncate(ref, deg audio.Signal) (audio.Signal, audio.Signal, float64, error) {
	aligned, lag, err := globallyAlign(ref, deg)
	if err != nil {
		return audio.Signal{}, audio.Signal{}, 0, err
	}

	refOut := ref.Samples
	degOut := aligned.Samples

	switch {
	case len(refOut) > len(degOut):
		refOut = refOut[:len(degOut)]
	case len(refOut) < len(degOut):
		start := min(max(lag, 0), len(refOut))
		refOut = refOut[start:]
		degOut = degOut[start:len(ref.Samples)]
	}

	return audio.Signal{Samples: append([]float64(nil), refOut...), SampleRate: ref.SampleRate},
		audio.Signal{Samples: append([]float64(nil), degOut...), SampleRate: aligned.SampleRate},
		float64(lag) / float64(deg.SampleRate),
		nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

package audio

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-visqol/dsp/core"
	"github.com/cwbudde/algo-visqol/dsp/resample"
)

// ErrInvalidSampleRate is returned for non-positive sample rates.
var ErrInvalidSampleRate = errors.New("audio: invalid sample rate")

// Signal is a mono time-domain buffer with its sample rate in Hz.
type Signal struct {
	Samples    []float64
	SampleRate int
}

// New copies samples into a Signal.
func New(samples []float64, sampleRate int) (Signal, error) {
	if sampleRate <= 0 {
		return Signal{}, fmt.Errorf("%w: %d", ErrInvalidSampleRate, sampleRate)
	}

	return Signal{Samples: core.Copy(samples), SampleRate: sampleRate}, nil
}

// Len returns the number of samples.
func (s Signal) Len() int { return len(s.Samples) }

// Duration returns the length in seconds.
func (s Signal) Duration() float64 {
	if s.SampleRate <= 0 {
		return 0
	}

	return float64(len(s.Samples)) / float64(s.SampleRate)
}

// Clone returns a deep copy.
func (s Signal) Clone() Signal {
	return Signal{Samples: core.Copy(s.Samples), SampleRate: s.SampleRate}
}

// Scaled returns a copy multiplied by gain.
func (s Signal) Scaled(gain float64) Signal {
	out := make([]float64, len(s.Samples))
	for i, v := range s.Samples {
		out[i] = v * gain
	}

	return Signal{Samples: out, SampleRate: s.SampleRate}
}

// Resampled converts the signal to rate. The same rate returns a copy.
func (s Signal) Resampled(rate int, opts ...resample.Option) (Signal, error) {
	if rate <= 0 {
		return Signal{}, fmt.Errorf("%w: %d", ErrInvalidSampleRate, rate)
	}

	out, err := resample.Convert(s.Samples, s.SampleRate, rate, opts...)
	if err != nil {
		return Signal{}, fmt.Errorf("audio: resample %d -> %d Hz: %w", s.SampleRate, rate, err)
	}

	return Signal{Samples: out, SampleRate: rate}, nil
}

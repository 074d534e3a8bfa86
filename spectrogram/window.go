package spectrogram

import (
	"errors"
	"fmt"
	"math"
)

// Analysis window defaults.
const (
	DefaultOverlap  = 0.25
	DefaultDuration = 0.08
)

var errInvalidWindow = errors.New("spectrogram: invalid analysis window")

// AnalysisWindow describes the frame size and hop of a spectrogram.
type AnalysisWindow struct {
	SampleRate int
	Size       int
	Overlap    float64
}

// NewAnalysisWindow returns a window of round(sampleRate*duration)
// samples advancing by Size*overlap samples per frame.
func NewAnalysisWindow(sampleRate int, overlap, duration float64) (AnalysisWindow, error) {
	if sampleRate <= 0 {
		return AnalysisWindow{}, fmt.Errorf("%w: sample rate %d", errInvalidWindow, sampleRate)
	}
	if !(overlap > 0 && overlap <= 1) {
		return AnalysisWindow{}, fmt.Errorf("%w: overlap %g not in (0, 1]", errInvalidWindow, overlap)
	}

	w := AnalysisWindow{
		SampleRate: sampleRate,
		Size:       int(math.Round(float64(sampleRate) * duration)),
		Overlap:    overlap,
	}
	if w.Hop() <= 0 {
		return AnalysisWindow{}, fmt.Errorf("%w: duration %g gives an empty hop", errInvalidWindow, duration)
	}

	return w, nil
}

// Hop returns the frame advance in samples.
func (w AnalysisWindow) Hop() int {
	return int(float64(w.Size) * w.Overlap)
}

// FrameDuration returns the time between frame starts in seconds.
func (w AnalysisWindow) FrameDuration() float64 {
	return float64(w.Size) * w.Overlap / float64(w.SampleRate)
}

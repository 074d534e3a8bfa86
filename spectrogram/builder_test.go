package spectrogram

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/cwbudde/algo-visqol/audio"
	"github.com/cwbudde/algo-visqol/internal/testutil"
	"gonum.org/v1/gonum/mat"
)

func speechWindow(t *testing.T) AnalysisWindow {
	t.Helper()
	w, err := NewAnalysisWindow(16000, DefaultOverlap, DefaultDuration)
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func TestBuildShape(t *testing.T) {
	sig := audio.Signal{Samples: testutil.DeterministicNoise(1, 0.1, 16000), SampleRate: 16000}
	b := GammatoneBuilder{NumBands: 21, MinFreq: 50, SpeechMode: true}

	s, err := b.Build(sig, speechWindow(t))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if s.Bands() != 21 || s.Frames() != 47 {
		t.Fatalf("shape = %dx%d, want 21x47", s.Bands(), s.Frames())
	}
	if len(s.CenterFreqs) != s.Bands() {
		t.Fatalf("len(CenterFreqs) = %d, rows = %d", len(s.CenterFreqs), s.Bands())
	}
	if !slices.IsSorted(s.CenterFreqs) {
		t.Fatalf("center frequencies not ascending: %v", s.CenterFreqs)
	}
	testutil.RequireNearlyEqual(t, "lowest band", s.CenterFreqs[0], 50, 1e-9)
	if top := s.CenterFreqs[20]; top >= SpeechMaxFreq {
		t.Fatalf("highest band %v not below %v", top, SpeechMaxFreq)
	}
	testutil.RequireFinite(t, s.Data.RawMatrix().Data)
}

func TestBuildTonePeaksInMatchingBand(t *testing.T) {
	sig := audio.Signal{Samples: testutil.DeterministicSine(1000, 16000, 0.5, 4000), SampleRate: 16000}
	b := GammatoneBuilder{NumBands: 21, MinFreq: 50, SpeechMode: true}

	s, err := b.Build(sig, speechWindow(t))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	col := mat.Col(nil, 3, s.Data)
	loudest := 0
	for i, v := range col {
		if v > col[loudest] {
			loudest = i
		}
	}

	if loudest != 9 {
		t.Fatalf("loudest band = %d (%.1f Hz), want 9", loudest, s.CenterFreqs[loudest])
	}
	testutil.RequireNearlyEqual(t, "center", s.CenterFreqs[loudest], 960.6044, 1e-3)
	testutil.RequireNearlyEqual(t, "energy", col[loudest], 0.287717, 1e-5)
}

func TestBuildFramesAreIndependent(t *testing.T) {
	// Frame 1 of a signal equals frame 0 of the same signal advanced by one hop.
	x := testutil.DeterministicNoise(7, 0.3, 3000)
	w := speechWindow(t)
	b := GammatoneBuilder{NumBands: 8, MinFreq: 50, SpeechMode: true}

	full, err := b.Build(audio.Signal{Samples: x, SampleRate: 16000}, w)
	if err != nil {
		t.Fatal(err)
	}
	tail, err := b.Build(audio.Signal{Samples: x[w.Hop():], SampleRate: 16000}, w)
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireSliceNearlyEqual(t, mat.Col(nil, 1, full.Data), mat.Col(nil, 0, tail.Data), 1e-15)
}

func TestBuildTooFewSamples(t *testing.T) {
	sig := audio.Signal{Samples: make([]float64, 1279), SampleRate: 16000}
	_, err := GammatoneBuilder{NumBands: 21, SpeechMode: true}.Build(sig, speechWindow(t))
	if !errors.Is(err, ErrTooFewSamples) {
		t.Fatalf("err = %v, want ErrTooFewSamples", err)
	}
}

func TestBuildAudioModeUsesNyquist(t *testing.T) {
	sig := audio.Signal{Samples: testutil.DeterministicNoise(2, 0.1, 4800), SampleRate: 48000}
	w, err := NewAnalysisWindow(48000, DefaultOverlap, DefaultDuration)
	if err != nil {
		t.Fatal(err)
	}

	s, err := GammatoneBuilder{NumBands: 32, MinFreq: 50}.Build(sig, w)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if s.Frames() != 2 {
		t.Fatalf("frames = %d, want 2", s.Frames())
	}
	if top := s.CenterFreqs[31]; top <= SpeechMaxFreq || math.IsNaN(top) {
		t.Fatalf("highest band = %v, want above %v", top, SpeechMaxFreq)
	}
}

func TestBuildSpeechModeBelow16kHzWarns(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	w, err := NewAnalysisWindow(8000, DefaultOverlap, DefaultDuration)
	if err != nil {
		t.Fatal(err)
	}
	sig := audio.Signal{Samples: testutil.DeterministicNoise(3, 0.1, 8000), SampleRate: 8000}

	s, err := GammatoneBuilder{NumBands: 21, MinFreq: 50, SpeechMode: true, Logger: logger}.Build(sig, w)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if top := s.CenterFreqs[20]; top >= 4000 {
		t.Fatalf("highest band = %v, want below Nyquist 4000", top)
	}
	if !strings.Contains(logs.String(), "above Nyquist") {
		t.Fatalf("missing clamp warning, logs:\n%s", logs.String())
	}

	logs.Reset()
	if _, err := (GammatoneBuilder{NumBands: 21, MinFreq: 50, SpeechMode: true, Logger: logger}).Build(
		audio.Signal{Samples: testutil.DeterministicNoise(1, 0.1, 16000), SampleRate: 16000}, speechWindow(t)); err != nil {
		t.Fatal(err)
	}
	if logs.Len() != 0 {
		t.Fatalf("unexpected warning at 16 kHz:\n%s", logs.String())
	}
}

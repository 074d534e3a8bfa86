package patch

import (
	"errors"
	"slices"
	"testing"

	"github.com/cwbudde/algo-visqol/audio"
	"github.com/cwbudde/algo-visqol/internal/testutil"
	"github.com/cwbudde/algo-visqol/spectrogram"
	"gonum.org/v1/gonum/mat"
)

func speechWindow(t *testing.T) spectrogram.AnalysisWindow {
	t.Helper()
	w, err := spectrogram.NewAnalysisWindow(16000, spectrogram.DefaultOverlap, spectrogram.DefaultDuration)
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func TestExtractZeroPadsPastEnd(t *testing.T) {
	spec := mat.NewDense(2, 5, []float64{
		1, 2, 3, 4, 5,
		6, 7, 8, 9, 10,
	})

	got := Extract(spec, 3, 4)
	want := []float64{
		4, 5, 0, 0,
		9, 10, 0, 0,
	}
	testutil.RequireSliceNearlyEqual(t, got.RawMatrix().Data, want, 0)

	got.Set(0, 0, 99)
	if spec.At(0, 3) != 4 {
		t.Fatal("Extract shares storage with the spectrogram")
	}
}

func TestImageCreatorIndices(t *testing.T) {
	tests := []struct {
		frames int
		size   int
		want   []int
	}{
		{frames: 100, size: 30, want: []int{14, 44}},
		{frames: 45, size: 30, want: []int{14}},
		{frames: 20, size: 4, want: []int{1, 5, 9, 13}},
	}

	for _, tc := range tests {
		c := ImageCreator{PatchSize: tc.size}
		got, err := c.RefPatchIndices(mat.NewDense(3, tc.frames, nil), audio.Signal{}, spectrogram.AnalysisWindow{})
		if err != nil {
			t.Fatalf("frames=%d size=%d: error = %v", tc.frames, tc.size, err)
		}
		if !slices.Equal(got, tc.want) {
			t.Fatalf("frames=%d size=%d: got %v, want %v", tc.frames, tc.size, got, tc.want)
		}

		for i, p := range c.Patches(mat.NewDense(3, tc.frames, nil), got) {
			if _, cols := p.Dims(); cols != tc.size {
				t.Fatalf("patch %d has %d columns, want %d", i, cols, tc.size)
			}
		}
	}
}

func TestImageCreatorTooSmall(t *testing.T) {
	c := ImageCreator{PatchSize: 30}
	_, err := c.RefPatchIndices(mat.NewDense(3, 44, nil), audio.Signal{}, spectrogram.AnalysisWindow{})
	if !errors.Is(err, ErrReferenceSpectrogramTooSmall) {
		t.Fatalf("err = %v, want ErrReferenceSpectrogramTooSmall", err)
	}
}

// loudThenSilent returns a signal that is a full-scale tone up to sample
// split and silent afterwards, sized for frames spectrogram columns.
func loudThenSilent(w spectrogram.AnalysisWindow, frames, split int) audio.Signal {
	n := (frames-1)*w.Hop() + w.Size
	x := testutil.DeterministicSine(440, 16000, 0.5, n)
	for i := split; i < n; i++ {
		x[i] = 0
	}
	return audio.Signal{Samples: x, SampleRate: 16000}
}

func TestVADCreatorDropsSilentPatches(t *testing.T) {
	w := speechWindow(t)
	const frames = 89 // first patch at 9, four patches of 20

	// VAD windows of the four patches start at samples 9, 6409, 12809
	// and 19209.
	sig := loudThenSilent(w, frames, 12809)
	spec := mat.NewDense(21, frames, nil)

	tests := []struct {
		threshold float64
		want      []int
	}{
		// Hysteresis keeps the first two silent chunks of patch 2 active.
		{threshold: 1, want: []int{9, 29, 49}},
		{threshold: 3, want: []int{9, 29}},
	}

	for _, tc := range tests {
		c := VADCreator{PatchSize: 20, Threshold: tc.threshold}
		got, err := c.RefPatchIndices(spec, sig, w)
		if err != nil {
			t.Fatalf("threshold %v: error = %v", tc.threshold, err)
		}
		if !slices.Equal(got, tc.want) {
			t.Fatalf("threshold %v: got %v, want %v", tc.threshold, got, tc.want)
		}
	}
}

func TestVADCreatorKeepsOnlyPatchWithBurst(t *testing.T) {
	w := speechWindow(t)
	const n = 48000
	frames := 1 + (n-w.Size)/w.Hop()

	// A tone confined to the third patch's VAD window [12809, 19209).
	x := testutil.DeterministicSine(440, 16000, 0.5, n)
	for i := range x {
		if i < 12809 || i >= 15040 {
			x[i] = 0
		}
	}
	sig := audio.Signal{Samples: x, SampleRate: 16000}

	got, err := NewVADCreator(20).RefPatchIndices(mat.NewDense(21, frames, nil), sig, w)
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	// Patch 9 survives on the hysteresis lead-in only.
	if want := []int{9, 49}; !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestVADCreatorSilence(t *testing.T) {
	w := speechWindow(t)
	sig := loudThenSilent(w, 89, 0)

	got, err := NewVADCreator(20).RefPatchIndices(mat.NewDense(21, 89, nil), sig, w)
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	// Only the hysteresis lead-in of the first patch counts as active.
	if !slices.Equal(got, []int{9}) {
		t.Fatalf("got %v, want [9]", got)
	}
}

func TestVADCreatorErrors(t *testing.T) {
	w := speechWindow(t)
	c := NewVADCreator(20)

	if _, err := c.RefPatchIndices(mat.NewDense(21, 25, nil), audio.Signal{SampleRate: 16000}, w); !errors.Is(err, ErrReferenceSpectrogramTooSmall) {
		t.Fatalf("short spectrogram: err = %v, want ErrReferenceSpectrogramTooSmall", err)
	}

	short := audio.Signal{Samples: make([]float64, 10000), SampleRate: 16000}
	if _, err := c.RefPatchIndices(mat.NewDense(21, 89, nil), short, w); !errors.Is(err, ErrFailedToComputeVAD) {
		t.Fatalf("short signal: err = %v, want ErrFailedToComputeVAD", err)
	}

	if _, err := (VADCreator{PatchSize: 1}).RefPatchIndices(mat.NewDense(21, 89, nil), short, w); err == nil {
		t.Fatal("patch size 1: expected error")
	}
}

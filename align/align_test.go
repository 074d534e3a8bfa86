package align

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-visqol/audio"
	"github.com/cwbudde/algo-visqol/dsp/envelope"
	"github.com/cwbudde/algo-visqol/internal/testutil"
)

const eps = 1e-12

func speechLike() audio.Signal {
	return audio.Signal{
		Samples:    testutil.Bursts(1, 200, 8000, 800, 400, 4),
		SampleRate: 8000,
	}
}

func TestGloballyAlignIdentity(t *testing.T) {
	ref := speechLike()

	got, lag, err := GloballyAlign(ref, ref)
	if err != nil {
		t.Fatalf("GloballyAlign() error = %v", err)
	}
	if lag != 0 {
		t.Fatalf("lag = %v, want 0", lag)
	}
	testutil.RequireSliceNearlyEqual(t, got.Samples, ref.Samples, 0)
}

func TestGloballyAlignRecoversLag(t *testing.T) {
	ref := speechLike()

	tests := []struct {
		name  string
		shift int
		lag   int
	}{
		{"degraded early", -37, 37},
		{"degraded late", 53, -53},
		{"long lead", -160, 160},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			deg := audio.Signal{Samples: testutil.Shift(ref.Samples, tc.shift), SampleRate: ref.SampleRate}

			lag, err := BestLag(ref, deg)
			if err != nil {
				t.Fatalf("BestLag() error = %v", err)
			}
			if lag != tc.lag {
				t.Fatalf("BestLag() = %d, want %d", lag, tc.lag)
			}

			aligned, secs, err := GloballyAlign(ref, deg)
			if err != nil {
				t.Fatalf("GloballyAlign() error = %v", err)
			}
			testutil.RequireNearlyEqual(t, "lag seconds", secs, float64(tc.lag)/8000, eps)

			if want := deg.Len() + tc.lag; aligned.Len() != want {
				t.Fatalf("aligned length = %d, want %d", aligned.Len(), want)
			}

			again, err := BestLag(ref, aligned)
			if err != nil {
				t.Fatalf("BestLag() error = %v", err)
			}
			if again != 0 {
				t.Fatalf("lag after alignment = %d, want 0", again)
			}
		})
	}
}

func TestAlignAndTruncate(t *testing.T) {
	ref := speechLike()

	for _, shift := range []int{-37, 53} {
		deg := audio.Signal{Samples: testutil.Shift(ref.Samples, shift), SampleRate: ref.SampleRate}

		r, d, _, err := AlignAndTruncate(ref, deg)
		if err != nil {
			t.Fatalf("shift %d: AlignAndTruncate() error = %v", shift, err)
		}

		wantLen := ref.Len() - abs(shift)
		if r.Len() != wantLen || d.Len() != wantLen {
			t.Fatalf("shift %d: lengths %d/%d, want %d", shift, r.Len(), d.Len(), wantLen)
		}

		// Both shifts leave the overlapping region of ref in each output.
		testutil.RequireSliceNearlyEqual(t, d.Samples, r.Samples, 0)
	}
}

func TestAlignAndTruncateDoesNotAlias(t *testing.T) {
	ref := speechLike()
	deg := ref.Clone()

	r, d, _, err := AlignAndTruncate(ref, deg)
	if err != nil {
		t.Fatalf("AlignAndTruncate() error = %v", err)
	}

	r.Samples[1000] = 42
	d.Samples[1000] = 42
	if ref.Samples[1000] == 42 || deg.Samples[1000] == 42 {
		t.Fatal("outputs share storage with inputs")
	}
}

func TestAlignEmptySignal(t *testing.T) {
	_, _, err := GloballyAlign(audio.Signal{SampleRate: 8000}, speechLike())
	if !errors.Is(err, ErrFailedToAlign) {
		t.Fatalf("err = %v, want ErrFailedToAlign", err)
	}
	if !errors.Is(err, envelope.ErrEmptySignal) {
		t.Fatalf("err = %v, want wrapped envelope.ErrEmptySignal", err)
	}
}

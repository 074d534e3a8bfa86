package biquad

import (
	"math"
	"testing"
)

// tolerance for floating-point comparisons.
const eps = 1e-12

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestProcessSample_DFIIT(t *testing.T) {
	// Hand-traced DF-II-T with B0=0.25, B1=0.5, B2=0.25, A1=-0.2, A2=0.04
	// and x = [1, 0, 0, 0]:
	//
	// n=0: y=0.25          d0=0.5+0.05=0.55        d1=0.25-0.01=0.24
	// n=1: y=0.55          d0=0.11+0.24=0.35       d1=-0.022
	// n=2: y=0.35          d0=0.07-0.022=0.048     d1=-0.014
	// n=3: y=0.048
	c := Coefficients{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04}
	s := NewSection(c)

	want := []float64{0.25, 0.55, 0.35, 0.048}
	for i, w := range want {
		var x float64
		if i == 0 {
			x = 1
		}
		if y := s.ProcessSample(x); !almostEqual(y, w, eps) {
			t.Fatalf("n=%d: got %v, want %v", i, y, w)
		}
	}
}

func TestProcessBlockMatchesSample(t *testing.T) {
	c := Coefficients{B0: 0.1, B1: -0.3, B2: 0.2, A1: -1.2, A2: 0.5}
	input := []float64{1, -0.5, 0.25, 0, 0.75, -1, 0.3, 0.2}

	ref := NewSection(c)
	want := make([]float64, len(input))
	for i, x := range input {
		want[i] = ref.ProcessSample(x)
	}

	blk := NewSection(c)
	buf := append([]float64(nil), input...)
	blk.ProcessBlock(buf)

	to := NewSection(c)
	dst := make([]float64, len(input))
	to.ProcessBlockTo(dst, input)

	for i := range want {
		if !almostEqual(buf[i], want[i], eps) {
			t.Fatalf("ProcessBlock[%d] = %v, want %v", i, buf[i], want[i])
		}
		if !almostEqual(dst[i], want[i], eps) {
			t.Fatalf("ProcessBlockTo[%d] = %v, want %v", i, dst[i], want[i])
		}
	}

	// All three forms leave the same delay line behind.
	next := ref.ProcessSample(0.5)
	if y := blk.ProcessSample(0.5); !almostEqual(y, next, eps) {
		t.Fatalf("after ProcessBlock: got %v, want %v", y, next)
	}
	if y := to.ProcessSample(0.5); !almostEqual(y, next, eps) {
		t.Fatalf("after ProcessBlockTo: got %v, want %v", y, next)
	}
}

func TestReset(t *testing.T) {
	s := NewSection(Coefficients{B0: 1, B1: 1, B2: 1})
	s.ProcessSample(1)
	if y := s.ProcessSample(0); y != 1 {
		t.Fatalf("tail before reset = %v, want 1", y)
	}

	s.Reset()
	if y := s.ProcessSample(0); y != 0 {
		t.Fatalf("tail after reset = %v, want 0", y)
	}
}

func TestScaled(t *testing.T) {
	c := Coefficients{B0: 1, B1: 2, B2: 3, A1: 4, A2: 5}
	got := c.Scaled(0.5)
	want := Coefficients{B0: 0.5, B1: 1, B2: 1.5, A1: 4, A2: 5}
	if got != want {
		t.Fatalf("Scaled() = %+v, want %+v", got, want)
	}
}

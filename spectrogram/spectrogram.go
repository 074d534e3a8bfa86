package spectrogram

import (
	"github.com/cwbudde/algo-visqol/dsp/core"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Noise floors applied by PrepareForComparison, in dB.
const (
	NoiseFloorAbsoluteDB       = -45.0
	NoiseFloorRelativeToPeakDB = 45.0
)

// Spectrogram is a band x frame matrix with the center frequency of every
// row in ascending order.
type Spectrogram struct {
	Data        *mat.Dense
	CenterFreqs []float64
}

// Bands returns the number of rows.
func (s *Spectrogram) Bands() int {
	r, _ := s.Data.Dims()
	return r
}

// Frames returns the number of columns.
func (s *Spectrogram) Frames() int {
	_, c := s.Data.Dims()
	return c
}

// ConvertToDB replaces every value x by 10*log10(|x|). Zeros map to the
// level of float64 epsilon.
func (s *Spectrogram) ConvertToDB() {
	s.Data.Apply(func(_, _ int, v float64) float64 {
		return core.MagnitudeToDB(v)
	}, s.Data)
}

// Minimum returns the smallest value.
func (s *Spectrogram) Minimum() float64 {
	return mat.Min(s.Data)
}

// SubtractFloor subtracts floor from every value.
func (s *Spectrogram) SubtractFloor(floor float64) {
	s.Data.Apply(func(_, _ int, v float64) float64 {
		return v - floor
	}, s.Data)
}

// RaiseFloor lifts every value below floor to floor.
func (s *Spectrogram) RaiseFloor(floor float64) {
	s.Data.Apply(func(_, _ int, v float64) float64 {
		return max(v, floor)
	}, s.Data)
}

// RaiseFloorPerFrame lifts, frame by frame, both s and other to threshold
// below the louder of their two column peaks. Only the frames both
// spectrograms share are touched.
func (s *Spectrogram) RaiseFloorPerFrame(threshold float64, other *Spectrogram) {
	frames := min(s.Frames(), other.Frames())
	colA := make([]float64, s.Bands())
	colB := make([]float64, other.Bands())

	for j := 0; j < frames; j++ {
		mat.Col(colA, j, s.Data)
		mat.Col(colB, j, other.Data)

		floor := max(floats.Max(colA), floats.Max(colB)) - threshold
		raise(colA, floor)
		raise(colB, floor)

		s.Data.SetCol(j, colA)
		other.Data.SetCol(j, colB)
	}
}

func raise(x []float64, floor float64) {
	for i, v := range x {
		if v < floor {
			x[i] = floor
		}
	}
}

// PrepareForComparison converts ref and deg to dB, clamps both to the
// absolute and peak-relative noise floors and shifts them by their joint
// minimum so that the quietest value of the pair is 0 dB.
func PrepareForComparison(ref, deg *Spectrogram) {
	ref.ConvertToDB()
	deg.ConvertToDB()

	ref.RaiseFloor(NoiseFloorAbsoluteDB)
	deg.RaiseFloor(NoiseFloorAbsoluteDB)

	ref.RaiseFloorPerFrame(NoiseFloorRelativeToPeakDB, deg)

	lowest := min(ref.Minimum(), deg.Minimum())
	ref.SubtractFloor(lowest)
	deg.SubtractFloor(lowest)
}

// Package nsim implements the Neurogram Similarity Index Measure, a
// structural similarity score for pairs of spectrogram patches.
package nsim

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
	"github.com/cwbudde/algo-visqol/dsp/conv"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// DefaultIntensityRange is the dynamic range assumed for the stability
// constants.
const DefaultIntensityRange = 1.0

// kernel is the 3x3 Gaussian used for local statistics.
var kernel = mat.NewDense(3, 3, []float64{
	0.0113033910173052, 0.0838251475442633, 0.0113033910173052,
	0.0838251475442633, 0.619485845753726, 0.0838251475442633,
	0.0113033910173052, 0.0838251475442633, 0.0113033910173052,
})

// Result is the outcome of one patch comparison. The time fields are
// filled in by the patch selector; Null marks a reference patch that
// found no degraded match, as opposed to a matched silent one.
type Result struct {
	FreqBandMeans     []float64 `json:"freq_band_means"`
	FreqBandStdDevs   []float64 `json:"freq_band_stddevs"`
	FreqBandDegEnergy []float64 `json:"freq_band_deg_energy"`
	Similarity        float64   `json:"similarity"`

	RefPatchStartTime float64 `json:"ref_patch_start_time"`
	RefPatchEndTime   float64 `json:"ref_patch_end_time"`
	DegPatchStartTime float64 `json:"deg_patch_start_time"`
	DegPatchEndTime   float64 `json:"deg_patch_end_time"`

	Null bool `json:"null,omitempty"`
}

// NullResult returns a null match with zeroed vectors for bands rows.
func NullResult(bands int) Result {
	return Result{
		FreqBandMeans:     make([]float64, bands),
		FreqBandStdDevs:   make([]float64, bands),
		FreqBandDegEnergy: make([]float64, bands),
		Null:              true,
	}
}

// Comparator computes NSIM between equally shaped patches.
type Comparator struct {
	IntensityRange float64
}

// New returns a Comparator with DefaultIntensityRange.
func New() Comparator {
	return Comparator{IntensityRange: DefaultIntensityRange}
}

// Compare returns the per-band mean and standard deviation of the
// similarity map of ref and deg, the per-band mean of deg and the mean of
// the band means. It panics with mat.ErrShape if the shapes differ.
func (c Comparator) Compare(ref, deg *mat.Dense) Result {
	rows, cols := ref.Dims()
	if r, k := deg.Dims(); r != rows || k != cols {
		panic(mat.ErrShape)
	}

	rng := c.IntensityRange
	if rng == 0 {
		rng = DefaultIntensityRange
	}
	c1 := math.Pow(0.01*rng, 2)
	c3 := math.Pow(0.03*rng, 2) / 2

	ref = mat.DenseCopyOf(ref)
	deg = mat.DenseCopyOf(deg)

	muRef := conv.Conv2DSame(kernel, ref).RawMatrix().Data
	muDeg := conv.Conv2DSame(kernel, deg).RawMatrix().Data
	refSq := conv.Conv2DSame(kernel, product(ref, ref)).RawMatrix().Data
	degSq := conv.Conv2DSame(kernel, product(deg, deg)).RawMatrix().Data
	refDeg := conv.Conv2DSame(kernel, product(ref, deg)).RawMatrix().Data

	simMap := make([]float64, rows*cols)
	for i := range simMap {
		mr, md := muRef[i], muDeg[i]
		varRef := refSq[i] - mr*mr
		varDeg := degSq[i] - md*md
		cov := refDeg[i] - mr*md

		intensity := (2*mr*md + c1) / (mr*mr + md*md + c1)

		// A negative variance product only comes from rounding.
		den := c3
		if p := varRef * varDeg; p >= 0 {
			den += math.Sqrt(p)
		}

		simMap[i] = intensity * (cov + c3) / den
	}

	res := Result{
		FreqBandMeans:     make([]float64, rows),
		FreqBandStdDevs:   make([]float64, rows),
		FreqBandDegEnergy: make([]float64, rows),
	}

	for r := 0; r < rows; r++ {
		row := simMap[r*cols : (r+1)*cols]
		res.FreqBandMeans[r] = stat.Mean(row, nil)
		if cols > 1 {
			res.FreqBandStdDevs[r] = stat.StdDev(row, nil)
		}
		res.FreqBandDegEnergy[r] = stat.Mean(deg.RawRowView(r), nil)
	}
	res.Similarity = stat.Mean(res.FreqBandMeans, nil)

	return res
}

// product returns the elementwise product of two contiguous matrices.
func product(a, b *mat.Dense) *mat.Dense {
	r, c := a.Dims()
	out := mat.NewDense(r, c, nil)
	vecmath.MulBlock(out.RawMatrix().Data, a.RawMatrix().Data, b.RawMatrix().Data)
	return out
}

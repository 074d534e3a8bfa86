package gammatone

import (
	"github.com/cwbudde/algo-visqol/dsp/core"
	"github.com/cwbudde/algo-visqol/dsp/filter/biquad"
	stats "github.com/cwbudde/algo-visqol/stats/time"
	"gonum.org/v1/gonum/mat"
)

// Band is one gammatone channel: its design and the four-stage cascade
// that carries its filter state.
type Band struct {
	Coefficients
	chain *biquad.Chain
}

// Bank is a set of gammatone bands processed in the order given at
// construction.
type Bank struct {
	bands   []Band
	scratch []float64
}

// NewBank builds one cascade per coefficient set. Bands keep the order of
// coeffs; all filter state starts at zero.
func NewBank(coeffs []Coefficients) *Bank {
	b := &Bank{bands: make([]Band, len(coeffs))}
	for i, c := range coeffs {
		b.bands[i] = Band{Coefficients: c, chain: biquad.NewChain(c.Stages())}
	}
	return b
}

// NumBands returns the number of bands.
func (b *Bank) NumBands() int { return len(b.bands) }

// Bands returns the bands in processing order.
func (b *Bank) Bands() []Band { return b.bands }

// CenterFreqs returns the center frequency of every band in processing
// order.
func (b *Bank) CenterFreqs() []float64 {
	out := make([]float64, len(b.bands))
	for i := range b.bands {
		out[i] = b.bands[i].CenterFreq
	}
	return out
}

// Reset clears the delay state of every stage of every band.
func (b *Bank) Reset() {
	for i := range b.bands {
		b.bands[i].chain.Reset()
	}
}

// Apply filters frame through every band and returns the band outputs as
// a NumBands x len(frame) matrix, or nil for an empty frame. Filter state
// carries over from previous calls; call Reset first when frame is
// unrelated to the previous one.
func (b *Bank) Apply(frame []float64) *mat.Dense {
	if len(frame) == 0 || len(b.bands) == 0 {
		return nil
	}

	out := mat.NewDense(len(b.bands), len(frame), nil)

	for i := range b.bands {
		b.bands[i].chain.ProcessBlockTo(out.RawRowView(i), frame)
	}
	return out
}

// Energies filters frame through every band and writes the RMS of each
// band output to dst, which must hold NumBands values. Like Apply it
// keeps filter state across calls.
func (b *Bank) Energies(frame, dst []float64) {
	b.scratch = core.EnsureLen(b.scratch, len(frame))

	for i := range b.bands {
		b.bands[i].chain.ProcessBlockTo(b.scratch, frame)
		dst[i] = stats.RMS(b.scratch)
	}
}

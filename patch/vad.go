package patch

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-visqol/audio"
	"github.com/cwbudde/algo-visqol/spectrogram"
	stats "github.com/cwbudde/algo-visqol/stats/time"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// DefaultVADThreshold keeps every patch with at least one active frame.
const DefaultVADThreshold = 1.0

// VADCreator places patches on the same grid as ImageCreator but drops
// those whose frames carry less voice activity than Threshold.
type VADCreator struct {
	PatchSize int
	Threshold float64
}

// NewVADCreator returns a creator with the default activity threshold.
func NewVADCreator(patchSize int) VADCreator {
	return VADCreator{PatchSize: patchSize, Threshold: DefaultVADThreshold}
}

// RefPatchIndices runs the RMS voice activity detector over the peak
// normalized reference, one chunk per spectrogram frame hop, and returns
// the start column of every patch that passes the threshold. The
// detector reads count*PatchSize chunks starting at sample index
// PatchSize/2-1, the same number as the first patch column.
func (c VADCreator) RefPatchIndices(spec *mat.Dense, ref audio.Signal, w spectrogram.AnalysisWindow) ([]int, error) {
	if err := validSize(c.PatchSize); err != nil {
		return nil, err
	}

	_, length := spec.Dims()
	first := c.PatchSize/2 - 1

	count := 0
	if length > first {
		count = (length - first) / c.PatchSize
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: %d frames, need %d", ErrReferenceSpectrogramTooSmall, length, first+c.PatchSize)
	}

	hop := w.Hop()
	start := first
	end := start + count*c.PatchSize*hop
	if hop <= 0 || end > len(ref.Samples) {
		return nil, fmt.Errorf("%w: need samples [%d, %d), have %d",
			ErrFailedToComputeVAD, start, end, len(ref.Samples))
	}

	activity := voiceActivity(normalize(ref.Samples[start:end], ref.Samples), hop)

	indices := make([]int, 0, count)
	for p := 0; p < count; p++ {
		if floats.Sum(activity[p*c.PatchSize:(p+1)*c.PatchSize]) >= c.Threshold {
			indices = append(indices, first+p*c.PatchSize)
		}
	}

	return indices, nil
}

// Patches cuts PatchSize columns at every index.
func (c VADCreator) Patches(spec *mat.Dense, indices []int) []*mat.Dense {
	return extractAll(spec, indices, c.PatchSize)
}

// normalize scales x by the largest sample of the whole signal. Signals
// without a positive sample fall back to their absolute peak.
func normalize(x, whole []float64) []float64 {
	peak := stats.Max(whole)
	if peak <= 0 {
		peak = stats.Peak(whole)
	}

	out := make([]float64, len(x))
	if peak == 0 {
		return out
	}

	for i, v := range x {
		out[i] = v / peak
	}
	return out
}

// voiceActivity quantizes x to 16 bits and feeds it to an RMSVAD in
// chunks of chunkLen samples.
func voiceActivity(x []float64, chunkLen int) []float64 {
	vad := NewRMSVAD()
	chunk := make([]int16, 0, chunkLen)

	for _, v := range x {
		chunk = append(chunk, toInt16(v))
		if len(chunk) == chunkLen {
			vad.ProcessChunk(chunk)
			chunk = chunk[:0]
		}
	}

	return vad.Results()
}

func toInt16(v float64) int16 {
	q := math.Trunc(v * (1 << 15))
	return int16(math.Max(math.MinInt16, math.Min(math.MaxInt16, q)))
}

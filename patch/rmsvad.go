package patch

import stats "github.com/cwbudde/algo-visqol/stats/time"

// RMSVAD defaults.
const (
	DefaultRMSThreshold = 5000.0
	silentChunkCount    = 3
)

// RMSVAD is a voice activity detector on 16-bit chunks. A chunk whose
// RMS is below Threshold only counts as silent when the two chunks
// before it were silent as well.
type RMSVAD struct {
	Threshold float64
	active    []bool
}

// NewRMSVAD returns a detector with DefaultRMSThreshold.
func NewRMSVAD() *RMSVAD {
	return &RMSVAD{Threshold: DefaultRMSThreshold}
}

// ProcessChunk classifies one chunk and returns its RMS.
func (v *RMSVAD) ProcessChunk(chunk []int16) float64 {
	rms := stats.RMSInt16(chunk)
	v.active = append(v.active, rms >= v.Threshold)
	return rms
}

// Results returns 1 for every chunk with voice activity and 0 for
// confirmed silence. The first two entries lack enough history and are
// always 1, so at least two values are returned even when fewer chunks
// were processed.
func (v *RMSVAD) Results() []float64 {
	out := make([]float64, max(len(v.active), silentChunkCount-1))
	for i := range out {
		out[i] = 1
		if i >= silentChunkCount-1 && v.silentRun(i) {
			out[i] = 0
		}
	}
	return out
}

func (v *RMSVAD) silentRun(i int) bool {
	for j := i - silentChunkCount + 1; j <= i; j++ {
		if v.active[j] {
			return false
		}
	}
	return true
}

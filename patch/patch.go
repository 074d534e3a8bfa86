package patch

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-visqol/audio"
	"github.com/cwbudde/algo-visqol/spectrogram"
	"gonum.org/v1/gonum/mat"
)

// Errors returned by patch creators.
var (
	ErrReferenceSpectrogramTooSmall = errors.New("patch: reference spectrogram too small")
	ErrFailedToComputeVAD           = errors.New("patch: failed to compute voice activity")

	errInvalidPatchSize = errors.New("patch: patch size must be >= 2")
)

// Creator selects patch start columns in a reference spectrogram and cuts
// the patches.
type Creator interface {
	RefPatchIndices(spec *mat.Dense, ref audio.Signal, w spectrogram.AnalysisWindow) ([]int, error)
	Patches(spec *mat.Dense, indices []int) []*mat.Dense
}

// Extract copies size columns of spec starting at column start. Columns
// past the end of spec are zero.
func Extract(spec *mat.Dense, start, size int) *mat.Dense {
	rows, cols := spec.Dims()
	out := mat.NewDense(rows, size, nil)

	end := min(start+size, cols)
	if start >= 0 && start < end {
		out.Slice(0, rows, 0, end-start).(*mat.Dense).Copy(spec.Slice(0, rows, start, end))
	}

	return out
}

func extractAll(spec *mat.Dense, indices []int, size int) []*mat.Dense {
	out := make([]*mat.Dense, len(indices))
	for i, start := range indices {
		out[i] = Extract(spec, start, size)
	}
	return out
}

func validSize(size int) error {
	if size < 2 {
		return fmt.Errorf("%w: got %d", errInvalidPatchSize, size)
	}
	return nil
}

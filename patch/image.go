package patch

import (
	"fmt"

	"github.com/cwbudde/algo-visqol/audio"
	"github.com/cwbudde/algo-visqol/spectrogram"
	"gonum.org/v1/gonum/mat"
)

// ImageCreator tiles the reference spectrogram into consecutive patches
// of PatchSize columns, the first starting just before PatchSize/2.
type ImageCreator struct {
	PatchSize int
}

// RefPatchIndices returns the start column of every full patch.
func (c ImageCreator) RefPatchIndices(spec *mat.Dense, _ audio.Signal, _ spectrogram.AnalysisWindow) ([]int, error) {
	if err := validSize(c.PatchSize); err != nil {
		return nil, err
	}

	_, length := spec.Dims()
	first := c.PatchSize / 2

	if length < c.PatchSize+first {
		return nil, fmt.Errorf("%w: %d frames, need %d", ErrReferenceSpectrogramTooSmall, length, c.PatchSize+first)
	}

	last := length - c.PatchSize
	if first >= last {
		last = first + 1
	}

	indices := make([]int, 0, length/c.PatchSize)
	for i := first; i < last; i += c.PatchSize {
		indices = append(indices, i-1)
	}

	return indices, nil
}

// Patches cuts PatchSize columns at every index.
func (c ImageCreator) Patches(spec *mat.Dense, indices []int) []*mat.Dense {
	return extractAll(spec, indices, c.PatchSize)
}

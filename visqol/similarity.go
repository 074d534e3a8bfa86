package visqol

import (
	"math"

	"github.com/cwbudde/algo-visqol/nsim"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// SimilarityResult is the outcome of one comparison.
type SimilarityResult struct {
	MOSLQO          float64       `json:"moslqo"`
	VNSIM           float64       `json:"vnsim"`
	FVNSIM          []float64     `json:"fvnsim"`
	FSTDNSIM        []float64     `json:"fstdnsim"`
	FVDegEnergy     []float64     `json:"fvdegenergy"`
	CenterFreqBands []float64     `json:"center_freq_bands"`
	Patches         []nsim.Result `json:"patches,omitempty"`
}

// bandStats holds the per-band aggregates over all matched patches.
type bandStats struct {
	fvnsim      []float64
	fstdnsim    []float64
	fvdegenergy []float64
}

// aggregate pools the per-patch band statistics. Null matches carry no
// measurement and are skipped; with no matched patch every vector is
// zero. The standard deviation pools within-patch variance and the
// spread of patch means, each patch weighted by its frame count.
func aggregate(patches []nsim.Result, bands int, frameDuration float64) bandStats {
	s := bandStats{
		fvnsim:      make([]float64, bands),
		fstdnsim:    make([]float64, bands),
		fvdegenergy: make([]float64, bands),
	}

	contrib := make([]float64, bands)
	var matched, totalFrames int
	for _, p := range patches {
		if p.Null {
			continue
		}
		matched++
		floats.Add(s.fvnsim, p.FreqBandMeans)
		floats.Add(s.fvdegenergy, p.FreqBandDegEnergy)

		frames := int(math.Ceil((p.RefPatchEndTime - p.RefPatchStartTime) / frameDuration))
		totalFrames += frames
		for b := range contrib {
			sd, mean := p.FreqBandStdDevs[b], p.FreqBandMeans[b]
			contrib[b] += float64(max(frames-1, 0))*sd*sd + float64(frames)*mean*mean
		}
	}
	if matched == 0 {
		return s
	}

	floats.Scale(1/float64(matched), s.fvnsim)
	floats.Scale(1/float64(matched), s.fvdegenergy)

	if totalFrames <= 1 {
		return s
	}
	for b := range s.fstdnsim {
		v := (contrib[b] - s.fvnsim[b]*s.fvnsim[b]*float64(totalFrames)) / float64(totalFrames-1)
		if v > 0 {
			s.fstdnsim[b] = math.Sqrt(v)
		}
	}

	return s
}

// vnsim is the mean of the per-band similarities.
func vnsim(fvnsim []float64) float64 {
	if len(fvnsim) == 0 {
		return 0
	}
	return stat.Mean(fvnsim, nil)
}

// alterForSimilarityExtremes forces the lowest MOS for signals that hardly
// resemble each other.
func alterForSimilarityExtremes(vnsim, mos float64) float64 {
	if vnsim < minSimilarity {
		return 1
	}
	return mos
}

package selector

import (
	"github.com/cwbudde/algo-visqol/align"
	"github.com/cwbudde/algo-visqol/audio"
	"github.com/cwbudde/algo-visqol/dsp/core"
	"github.com/cwbudde/algo-visqol/nsim"
	"github.com/cwbudde/algo-visqol/spectrogram"
	"golang.org/x/sync/errgroup"
)

// Slice returns the samples of sig between start and end seconds. The
// gap between the end of sig and end is filled with zeros, and a negative
// start prepends -start seconds of zeros.
func Slice(sig audio.Signal, start, end float64) audio.Signal {
	sr := float64(sig.SampleRate)
	startIdx := max(int(start*sr), 0)
	endIdx := min(int(end*sr), len(sig.Samples))

	var body []float64
	if startIdx < endIdx {
		body = sig.Samples[startIdx:endIdx]
	}

	out := core.PadBack(body, int(end*sr-float64(len(sig.Samples))))
	if start < 0 {
		out = core.PadFront(out, int(-start*sr))
	}

	return audio.Signal{Samples: out, SampleRate: sig.SampleRate}
}

// FinelyAlignAndRecreatePatches realigns every matched patch pair in the
// time domain and recomputes its similarity. A realigned score replaces
// the coarse one only when it is not worse; its start times are shifted
// by the recovered lag. Null matches pass through unchanged.
func (s *Selector) FinelyAlignAndRecreatePatches(results []nsim.Result, ref, deg audio.Signal, w spectrogram.AnalysisWindow) []nsim.Result {
	out := make([]nsim.Result, len(results))

	var g errgroup.Group
	g.SetLimit(max(s.workers, 1))
	for i, r := range results {
		g.Go(func() error {
			out[i] = s.realign(i, r, ref, deg, w)
			return nil
		})
	}
	_ = g.Wait()

	return out
}

func (s *Selector) realign(i int, coarse nsim.Result, ref, deg audio.Signal, w spectrogram.AnalysisWindow) nsim.Result {
	if coarse.Null {
		return coarse
	}

	refSeg := Slice(ref, coarse.RefPatchStartTime, coarse.RefPatchEndTime)
	degSeg := Slice(deg, coarse.DegPatchStartTime, coarse.DegPatchEndTime)

	refAligned, degAligned, lag, err := align.AlignAndTruncate(refSeg, degSeg)
	if err != nil {
		s.logger.Debug("keeping coarse match", "patch", i, "err", err)
		return coarse
	}

	refSpec, err := s.builder.Build(refAligned, w)
	if err != nil {
		s.logger.Debug("keeping coarse match", "patch", i, "err", err)
		return coarse
	}
	degSpec, err := s.builder.Build(degAligned, w)
	if err != nil {
		s.logger.Debug("keeping coarse match", "patch", i, "err", err)
		return coarse
	}
	spectrogram.PrepareForComparison(refSpec, degSpec)

	fine := s.cmp.Compare(refSpec.Data, degSpec.Data)
	if fine.Similarity < coarse.Similarity {
		return coarse
	}

	if lag > 0 {
		fine.RefPatchStartTime = coarse.RefPatchStartTime + lag
		fine.DegPatchStartTime = coarse.DegPatchStartTime
	} else {
		fine.RefPatchStartTime = coarse.RefPatchStartTime
		fine.DegPatchStartTime = coarse.DegPatchStartTime - lag
	}
	fine.RefPatchEndTime = fine.RefPatchStartTime + refAligned.Duration()
	fine.DegPatchEndTime = fine.DegPatchStartTime + degAligned.Duration()

	return fine
}

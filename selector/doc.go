// Package selector matches reference spectrogram patches to windows of
// the degraded spectrogram.
//
// # Patch selection
//
// [Selector.FindMostOptimalDegPatches] scores every candidate degraded
// offset within a search window around each reference patch and chains
// the choices with dynamic programming, so consecutive reference patches
// map to strictly increasing degraded offsets. A reference patch whose
// best option is to reuse its predecessor's running score is reported as
// a null match (see [nsim.Result.Null]):
//
//	sel := selector.New(nsim.New(), builder)
//	matches, err := sel.FindMostOptimalDegPatches(refPatches, indices, degSpec.Data, frameDur, 60)
//
// # Fine realignment
//
// [Selector.FinelyAlignAndRecreatePatches] cuts the matched segments out
// of both time signals with [Slice], aligns each pair again and keeps the
// realigned score when it is at least as good as the coarse one.
package selector

// Package audio holds the mono [Signal] type the metric operates on and
// the boundary code that produces it: WAV decoding with channel downmix,
// sample-rate conversion and sound-pressure-level matching.
//
// Every operation returns a new Signal; inputs are never modified.
//
//	ref, err := audio.LoadWAV("reference.wav")
//	deg, err := audio.LoadWAV("degraded.wav")
//	deg, _ = audio.ScaleToMatchSPL(ref, deg)
package audio

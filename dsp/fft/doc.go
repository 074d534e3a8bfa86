// Package fft wraps algo-fft plans behind a small manager that fixes the
// transform size for a given signal length.
//
// A [Manager] is created for a number of samples per channel. The
// transform size is the next power of two of that length, never smaller
// than [MinSize]. [Manager.Forward] zero-pads real input to the transform
// size and [Manager.Inverse] returns a time signal already scaled by
// 1/size, truncated back to the original length.
//
//	m, err := fft.NewManager(len(signal))
//	spec, err := m.Forward(signal)
//	back, err := m.Inverse(spec)
package fft

// Package spectrogram builds gammatone spectrograms and prepares pairs of
// them for patch comparison.
//
// A [GammatoneBuilder] slides an [AnalysisWindow] over a signal, resets
// the filterbank for every frame and stores the per-band RMS of the
// filtered frame as one column:
//
//	w, _ := spectrogram.NewAnalysisWindow(16000, spectrogram.DefaultOverlap, spectrogram.DefaultDuration)
//	b := spectrogram.GammatoneBuilder{NumBands: 21, MinFreq: 50, SpeechMode: true}
//	spec, err := b.Build(sig, w)
//
// [PrepareForComparison] converts a reference/degraded pair to dB and
// applies the shared noise floors before patches are cut from them.
package spectrogram

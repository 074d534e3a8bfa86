// Package patch cuts reference spectrograms into fixed-width patches.
//
// Two [Creator] strategies exist. [ImageCreator] tiles the whole
// spectrogram and is used for general audio. [VADCreator] keeps only the
// patches whose source audio shows voice activity according to [RMSVAD],
// which keeps silence from producing trivially perfect matches in speech.
package patch

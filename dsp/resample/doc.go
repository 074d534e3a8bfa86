// Package resample converts sample rates with a rational polyphase FIR.
//
// A [Resampler] keeps streaming state between [Resampler.Process] calls.
// [Convert] is the one-shot form used for whole signals: it flushes the
// filter tail and removes the group delay, so the output is time-aligned
// with the input and has round(len*outRate/inRate) samples.
//
// Quality modes trade filter length for stopband attenuation:
//
//	mode            taps/phase   nominal stopband
//	QualityFast     16           ~55 dB
//	QualityBalanced 32           ~75 dB
//	QualityBest     64           ~90 dB
package resample

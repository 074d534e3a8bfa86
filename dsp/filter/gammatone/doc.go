// Package gammatone designs and runs ERB-spaced gammatone filterbanks.
//
// [Design] derives, for each band, the closed-form coefficients of a
// fourth-order gammatone filter realized as four cascaded biquads that
// share one denominator and differ in their numerator. Center frequencies
// are spaced uniformly on the Glasberg–Moore ERB scale
// ([CenterFrequencies]) and come out highest first.
//
// A [Bank] turns those coefficients into per-band [biquad.Chain] cascades.
// The delay state of every stage belongs to the bank and is only cleared
// by [Bank.Reset]:
//
//	coeffs, err := gammatone.Design(48000, 32, 50, 24000)
//	bank := gammatone.NewBank(coeffs)
//	bank.Reset()
//	bank.Energies(frame, energies)
package gammatone

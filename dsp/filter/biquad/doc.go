// Package biquad provides the second-order IIR sections used to build
// auditory filter cascades.
//
// A [Section] runs Direct Form II Transposed processing for one set of
// [Coefficients] and owns its two-value delay line. A [Chain] cascades
// sections in series. Delay state is never reset implicitly: callers that
// filter unrelated frames call Reset in between, callers that stream one
// continuous signal simply keep calling Process*.
package biquad

// Package conv provides FFT cross-correlation for lag estimation and the
// small 2-D convolution used by patch similarity measures.
//
// # Correlation
//
// [CorrelateFFT] returns the circular cross-correlation of two signals,
// rotated so that index k holds lag k - maxLag. [BestLag] picks the lag
// with the largest absolute correlation:
//
//	lag, err := conv.BestLag(reference, degraded)
//
// A positive lag means the second signal leads the first and has to be
// delayed by lag samples to line up with it.
//
// # 2-D convolution
//
// [Conv2DSame] filters a matrix with a small odd-sized kernel. Borders are
// extended by replicating the outermost rows and columns, so the output
// has the input's shape:
//
//	smoothed := conv.Conv2DSame(kernel, patch)
package conv

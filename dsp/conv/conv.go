package conv

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// Errors returned by correlation and convolution functions.
var (
	ErrEmptyInput  = errors.New("conv: empty input")
	ErrEmptyKernel = errors.New("conv: empty kernel")
)

// Conv2DSame convolves x with kernel using edge-replicated borders and
// returns a matrix with the shape of x. The kernel must have odd
// dimensions; its center is aligned with each output element.
//
// The kernel is applied without flipping. For the symmetric smoothing
// kernels this package is used with, correlation and convolution agree.
func Conv2DSame(kernel, x mat.Matrix) *mat.Dense {
	rows, cols := x.Dims()
	kr, kc := kernel.Dims()
	hr, hc := kr/2, kc/2

	k := make([]float64, kr*kc)
	for i := 0; i < kr; i++ {
		for j := 0; j < kc; j++ {
			k[i*kc+j] = kernel.At(i, j)
		}
	}

	src := mat.DenseCopyOf(x).RawMatrix()
	out := mat.NewDense(rows, cols, nil)
	dst := out.RawMatrix()

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			var sum float64
			for i := 0; i < kr; i++ {
				sr := clampIndex(r+i-hr, rows)
				row := src.Data[sr*src.Stride : sr*src.Stride+cols]
				for j := 0; j < kc; j++ {
					sum += row[clampIndex(c+j-hc, cols)] * k[i*kc+j]
				}
			}
			dst.Data[r*dst.Stride+c] = sum
		}
	}

	return out
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

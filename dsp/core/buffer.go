package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// PadFront returns a new slice holding n zeros followed by src.
func PadFront(src []float64, n int) []float64 {
	if n < 0 {
		n = 0
	}
	out := make([]float64, n+len(src))
	copy(out[n:], src)
	return out
}

// PadBack returns a new slice holding src followed by n zeros.
func PadBack(src []float64, n int) []float64 {
	if n < 0 {
		n = 0
	}
	out := make([]float64, len(src)+n)
	copy(out, src)
	return out
}

// Copy returns an owned copy of src.
func Copy(src []float64) []float64 {
	out := make([]float64, len(src))
	copy(out, src)
	return out
}

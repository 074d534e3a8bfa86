package fft

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-visqol/dsp/core"
)

// MinSize is the smallest transform size a Manager will use.
const MinSize = 32

// Errors returned by the manager.
var (
	ErrInvalidLength = errors.New("fft: samples per channel must be > 0")
	ErrInputTooLong  = errors.New("fft: input longer than transform size")
	ErrSizeMismatch  = errors.New("fft: spectrum length does not match transform size")
)

// Manager owns an FFT plan sized for a fixed number of samples.
type Manager struct {
	plan    *algofft.Plan[complex128]
	size    int
	samples int

	scratch []complex128
}

// NewManager returns a Manager for signals of the given length.
func NewManager(samples int) (*Manager, error) {
	if samples <= 0 {
		return nil, ErrInvalidLength
	}

	size := max(core.NextPowerOfTwo(samples), MinSize)

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("fft: failed to create plan: %w", err)
	}

	return &Manager{
		plan:    plan,
		size:    size,
		samples: samples,
		scratch: make([]complex128, size),
	}, nil
}

// Size returns the transform size.
func (m *Manager) Size() int { return m.size }

// SamplesPerChannel returns the signal length the manager was created for.
func (m *Manager) SamplesPerChannel() int { return m.samples }

// Forward transforms real input, zero-padded to Size, into a new
// spectrum of length Size.
func (m *Manager) Forward(x []float64) ([]complex128, error) {
	if len(x) > m.size {
		return nil, fmt.Errorf("%w: %d > %d", ErrInputTooLong, len(x), m.size)
	}

	for i := range m.scratch {
		m.scratch[i] = 0
	}
	for i, v := range x {
		m.scratch[i] = complex(v, 0)
	}

	out := make([]complex128, m.size)
	if err := m.plan.Forward(out, m.scratch); err != nil {
		return nil, fmt.Errorf("fft: forward transform failed: %w", err)
	}

	return out, nil
}

// InverseFull transforms a spectrum of length Size back to the time
// domain. The result has length Size and is scaled by 1/Size.
func (m *Manager) InverseFull(spec []complex128) ([]complex128, error) {
	if len(spec) != m.size {
		return nil, fmt.Errorf("%w: %d != %d", ErrSizeMismatch, len(spec), m.size)
	}

	out := make([]complex128, m.size)
	if err := m.plan.Inverse(out, spec); err != nil {
		return nil, fmt.Errorf("fft: inverse transform failed: %w", err)
	}

	return out, nil
}

// Inverse is InverseFull truncated to SamplesPerChannel points.
func (m *Manager) Inverse(spec []complex128) ([]complex128, error) {
	out, err := m.InverseFull(spec)
	if err != nil {
		return nil, err
	}

	return out[:m.samples], nil
}

package visqol

import (
	"errors"

	"github.com/cwbudde/algo-visqol/align"
	"github.com/cwbudde/algo-visqol/dsp/envelope"
	"github.com/cwbudde/algo-visqol/patch"
	"github.com/cwbudde/algo-visqol/selector"
	"github.com/cwbudde/algo-visqol/spectrogram"
)

// Errors raised by this package.
var (
	ErrDifferentSampleRates = errors.New("visqol: reference and degraded sample rates differ")
	ErrInvalidConfig        = errors.New("visqol: invalid config")
	ErrModelRequired        = errors.New("visqol: audio mode requires a quality model")
)

// Errors raised by the pipeline stages, for use with errors.Is.
var (
	ErrTooFewSamples                = spectrogram.ErrTooFewSamples
	ErrReferenceSpectrogramTooSmall = patch.ErrReferenceSpectrogramTooSmall
	ErrFailedToComputeVAD           = patch.ErrFailedToComputeVAD
	ErrSignalsTooDifferent          = selector.ErrSignalsTooDifferent
	ErrFailedToAlign                = align.ErrFailedToAlign
	ErrEmptySignal                  = envelope.ErrEmptySignal
	ErrNonFiniteSignal              = envelope.ErrNonFiniteSignal
)

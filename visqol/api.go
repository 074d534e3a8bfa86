package visqol

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/cwbudde/algo-visqol/align"
	"github.com/cwbudde/algo-visqol/audio"
	"github.com/cwbudde/algo-visqol/nsim"
	"github.com/cwbudde/algo-visqol/patch"
	"github.com/cwbudde/algo-visqol/quality"
	"github.com/cwbudde/algo-visqol/selector"
	"github.com/cwbudde/algo-visqol/spectrogram"
)

// API compares reference and degraded signals with one fixed variant.
// It holds no per-comparison state and is safe for concurrent use.
type API struct {
	cfg      Config
	builder  spectrogram.Builder
	creator  patch.Creator
	selector *selector.Selector
	mapper   quality.Mapper
	logger   *slog.Logger
}

type apiOptions struct {
	logger  *slog.Logger
	mapper  quality.Mapper
	workers int
}

// Option configures an API.
type Option func(*apiOptions)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *apiOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMapper overrides the quality mapper chosen from the config.
func WithMapper(m quality.Mapper) Option {
	return func(o *apiOptions) {
		o.mapper = m
	}
}

// WithWorkers bounds the goroutines used inside one comparison.
func WithWorkers(n int) Option {
	return func(o *apiOptions) {
		o.workers = n
	}
}

// New builds the variant described by cfg. Speech mode uses a 21 band
// spectrogram limited to 8 kHz, voice activity gated patches and the
// exponential speech mapper. Audio mode uses 32 bands up to Nyquist, a
// fixed patch grid and the SVR model at cfg.ModelPath.
func New(cfg Config, opts ...Option) (*API, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := apiOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	a := &API{
		cfg:    cfg,
		logger: o.logger,
		builder: spectrogram.GammatoneBuilder{
			NumBands:   cfg.numBands(),
			MinFreq:    spectrogram.DefaultMinFreq,
			SpeechMode: cfg.Mode == ModeSpeech,
			Logger:     o.logger,
		},
	}

	if cfg.Mode == ModeSpeech {
		a.creator = patch.NewVADCreator(cfg.patchSize())
		a.mapper = quality.SpeechMapper{ScaleToMaxMOS: !cfg.UseUnscaledSpeechMOSMapping}
	} else {
		a.creator = patch.ImageCreator{PatchSize: cfg.patchSize()}
	}

	switch {
	case o.mapper != nil:
		a.mapper = o.mapper
	case cfg.Mode == ModeAudio && cfg.ModelPath == "":
		return nil, ErrModelRequired
	case cfg.Mode == ModeAudio:
		m, err := quality.NewSVRMapper(cfg.ModelPath)
		if err != nil {
			return nil, fmt.Errorf("visqol: %w", err)
		}
		a.mapper = m
	}

	a.selector = selector.New(nsim.New(), a.builder,
		selector.WithLogger(o.logger), selector.WithWorkers(o.workers))

	return a, nil
}

// Config returns the configuration the API was built with.
func (a *API) Config() Config { return a.cfg }

// MeasureFiles loads two WAV files, downmixed to mono, and compares them.
func (a *API) MeasureFiles(ctx context.Context, refPath, degPath string) (*SimilarityResult, error) {
	ref, err := audio.LoadWAV(refPath)
	if err != nil {
		return nil, err
	}

	deg, err := audio.LoadWAV(degPath)
	if err != nil {
		return nil, err
	}

	return a.Measure(ctx, ref, deg)
}

// Measure compares deg against ref. The signals must share a sample rate
// unless the config enables resampling, in which case both are converted
// to the mode's native rate first.
func (a *API) Measure(ctx context.Context, ref, deg audio.Signal) (*SimilarityResult, error) {
	if a.cfg.Resample {
		var err error
		if ref, err = ref.Resampled(a.cfg.targetRate()); err != nil {
			return nil, fmt.Errorf("visqol: reference: %w", err)
		}
		if deg, err = deg.Resampled(a.cfg.targetRate()); err != nil {
			return nil, fmt.Errorf("visqol: degraded: %w", err)
		}
	}

	if ref.SampleRate != deg.SampleRate {
		return nil, fmt.Errorf("%w: reference %d Hz, degraded %d Hz",
			ErrDifferentSampleRates, ref.SampleRate, deg.SampleRate)
	}
	if a.cfg.Mode == ModeSpeech && ref.SampleRate != SpeechSampleRate {
		a.logger.Warn("speech mode expects 16 kHz input", "sample_rate", ref.SampleRate)
	}
	if d := math.Abs(ref.Duration() - deg.Duration()); d > DurationMismatchTolerance {
		a.logger.Warn("reference and degraded durations differ",
			"ref_seconds", ref.Duration(), "deg_seconds", deg.Duration())
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	deg, lag, err := align.GloballyAlign(ref, deg)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("global alignment", "lag_seconds", lag)

	w, err := spectrogram.NewAnalysisWindow(ref.SampleRate, spectrogram.DefaultOverlap, spectrogram.DefaultDuration)
	if err != nil {
		return nil, fmt.Errorf("visqol: %w", err)
	}

	return a.calculateSimilarity(ctx, ref, deg, w)
}

func (a *API) calculateSimilarity(ctx context.Context, ref, deg audio.Signal, w spectrogram.AnalysisWindow) (*SimilarityResult, error) {
	deg, ok := audio.ScaleToMatchSPL(ref, deg)
	if !ok {
		a.logger.Warn("cannot match level of a silent signal",
			"ref_spl", audio.SPL(ref), "deg_spl", audio.SPL(deg))
	}

	refSpec, err := a.builder.Build(ref, w)
	if err != nil {
		return nil, fmt.Errorf("visqol: reference: %w", err)
	}
	degSpec, err := a.builder.Build(deg, w)
	if err != nil {
		return nil, fmt.Errorf("visqol: degraded: %w", err)
	}
	spectrogram.PrepareForComparison(refSpec, degSpec)

	indices, err := a.creator.RefPatchIndices(refSpec.Data, ref, w)
	if err != nil {
		return nil, err
	}
	refPatches := a.creator.Patches(refSpec.Data, indices)
	frameDuration := w.FrameDuration()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matches, err := a.selector.FindMostOptimalDegPatches(refPatches, indices, degSpec.Data,
		frameDuration, a.cfg.SearchWindowRadius)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matches = a.selector.FinelyAlignAndRecreatePatches(matches, ref, deg, w)

	st := aggregate(matches, refSpec.Bands(), frameDuration)
	v := vnsim(st.fvnsim)
	mos := alterForSimilarityExtremes(v, a.mapper.PredictQuality(st.fvnsim))

	a.logger.Debug("comparison done", "patches", len(matches), "vnsim", v, "moslqo", mos)

	return &SimilarityResult{
		MOSLQO:          mos,
		VNSIM:           v,
		FVNSIM:          st.fvnsim,
		FSTDNSIM:        st.fstdnsim,
		FVDegEnergy:     st.fvdegenergy,
		CenterFreqBands: refSpec.CenterFreqs,
		Patches:         matches,
	}, nil
}

package visqol

import (
	"fmt"
)

// Mode selects the speech or full-band audio variant.
type Mode string

// Supported modes.
const (
	ModeAudio  Mode = "audio"
	ModeSpeech Mode = "speech"
)

// Variant parameters.
const (
	DefaultSearchWindowRadius = 60

	NumBandsSpeech  = 21
	NumBandsAudio   = 32
	PatchSizeSpeech = 20
	PatchSizeAudio  = 30

	SpeechSampleRate = 16000
	AudioSampleRate  = 48000

	// DurationMismatchTolerance is the length difference in seconds above
	// which Measure logs a warning.
	DurationMismatchTolerance = 1.0

	// minSimilarity is the mean NSIM below which the MOS is forced to 1.
	minSimilarity = 0.15
)

// Config selects the comparison variant.
type Config struct {
	Mode                        Mode   `yaml:"mode" json:"mode"`
	SearchWindowRadius          int    `yaml:"search_window" json:"search_window"`
	UseUnscaledSpeechMOSMapping bool   `yaml:"unscaled_speech_mos" json:"unscaled_speech_mos"`
	ModelPath                   string `yaml:"model" json:"model"`
	Resample                    bool   `yaml:"resample" json:"resample"`
}

// DefaultConfig returns the audio mode configuration. Audio mode needs a
// model, either via ModelPath or WithMapper.
func DefaultConfig() Config {
	return Config{
		Mode:               ModeAudio,
		SearchWindowRadius: DefaultSearchWindowRadius,
	}
}

// SpeechConfig returns the speech mode configuration.
func SpeechConfig() Config {
	return Config{
		Mode:               ModeSpeech,
		SearchWindowRadius: DefaultSearchWindowRadius,
	}
}

// Validate reports configuration errors.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeAudio, ModeSpeech:
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, c.Mode)
	}
	if c.SearchWindowRadius <= 0 {
		return fmt.Errorf("%w: search window %d must be positive", ErrInvalidConfig, c.SearchWindowRadius)
	}
	return nil
}

func (c Config) numBands() int {
	if c.Mode == ModeSpeech {
		return NumBandsSpeech
	}
	return NumBandsAudio
}

func (c Config) patchSize() int {
	if c.Mode == ModeSpeech {
		return PatchSizeSpeech
	}
	return PatchSizeAudio
}

func (c Config) targetRate() int {
	if c.Mode == ModeSpeech {
		return SpeechSampleRate
	}
	return AudioSampleRate
}

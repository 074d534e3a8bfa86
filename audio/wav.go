package audio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WAV errors.
var (
	ErrInvalidWAV          = errors.New("audio: invalid WAV file")
	ErrUnsupportedBitDepth = errors.New("audio: unsupported bit depth")
	ErrEmptyWAV            = errors.New("audio: WAV file holds no samples")
)

const (
	formatPCM        = 1
	formatExtensible = 0xFFFE
)

// LoadWAV decodes a PCM WAV file and downmixes it to mono.
func LoadWAV(path string) (Signal, error) {
	f, err := os.Open(path)
	if err != nil {
		return Signal{}, fmt.Errorf("audio: open %s: %w", path, err)
	}
	defer f.Close()

	sig, err := DecodeWAV(f)
	if err != nil {
		return Signal{}, fmt.Errorf("%s: %w", path, err)
	}

	return sig, nil
}

// DecodeWAV reads PCM samples from r, scales them to [-1, 1) and averages
// the channels.
func DecodeWAV(r io.ReadSeeker) (Signal, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return Signal{}, ErrInvalidWAV
	}

	if dec.WavAudioFormat != formatPCM && dec.WavAudioFormat != formatExtensible {
		return Signal{}, fmt.Errorf("%w: audio format %d", ErrInvalidWAV, dec.WavAudioFormat)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return Signal{}, fmt.Errorf("audio: decode: %w", err)
	}

	channels := int(dec.NumChans)
	if buf.Format != nil && buf.Format.NumChannels > 0 {
		channels = buf.Format.NumChannels
	}
	if channels <= 0 {
		return Signal{}, fmt.Errorf("%w: %d channels", ErrInvalidWAV, channels)
	}

	bitDepth := int(dec.BitDepth)
	scale, offset, err := pcmScale(bitDepth)
	if err != nil {
		return Signal{}, err
	}

	frames := len(buf.Data) / channels
	if frames == 0 {
		return Signal{}, ErrEmptyWAV
	}

	samples := make([]float64, frames)
	for i := range samples {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += float64(buf.Data[i*channels+c]-offset) / scale
		}
		samples[i] = sum / float64(channels)
	}

	return New(samples, int(dec.SampleRate))
}

// pcmScale returns the full-scale divisor and zero offset of a PCM bit
// depth. 8-bit WAV data is unsigned.
func pcmScale(bitDepth int) (scale float64, offset int, err error) {
	switch bitDepth {
	case 8:
		return 128, 128, nil
	case 16, 24, 32:
		return float64(int64(1) << (bitDepth - 1)), 0, nil
	default:
		return 0, 0, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}
}

// WriteWAV encodes s as a mono PCM WAV file.
func WriteWAV(path string, s Signal, bitDepth int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("audio: create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	return EncodeWAV(f, s, bitDepth)
}

// EncodeWAV writes s to w as mono PCM, clipping to the integer range of
// bitDepth.
func EncodeWAV(w io.WriteSeeker, s Signal, bitDepth int) error {
	scale, offset, err := pcmScale(bitDepth)
	if err != nil {
		return err
	}

	if s.SampleRate <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSampleRate, s.SampleRate)
	}

	lo, hi := -scale, scale-1
	data := make([]int, len(s.Samples))
	for i, v := range s.Samples {
		q := math.Round(v * scale)
		data[i] = int(math.Max(lo, math.Min(hi, q))) + offset
	}

	enc := wav.NewEncoder(w, s.SampleRate, bitDepth, 1, formatPCM)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: s.SampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("audio: encode: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("audio: encode: %w", err)
	}

	return nil
}

// Package audio converts uploaded audio bytes into the canonical waveform
// consumed by the embedding backends: mono, fixed sample rate, optionally
// enhanced for speaker discrimination.
package audio

import (
	"fmt"
	"time"

	"github.com/voiceidlabs/voiceid/domain/speaker"
	"github.com/voiceidlabs/voiceid/internal/config"
)

// Waveform is a mono audio signal at a known sample rate. It lives for the
// duration of one request and is never persisted.
type Waveform struct {
	Samples    []float64
	SampleRate int

	// Trimmed reports whether leading/trailing silence was cut. False on
	// the degenerate all-silent input, which passes through unchanged.
	Trimmed bool
}

// Duration returns the waveform length as wall-clock time.
func (w Waveform) Duration() time.Duration {
	if w.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(w.Samples)) / float64(w.SampleRate) * float64(time.Second))
}

// Normalizer converts raw uploaded bytes into canonical waveforms. The
// transform is pure: identical bytes and configuration always produce the
// identical waveform.
type Normalizer struct {
	cfg config.AudioConfig
}

// NewNormalizer creates a Normalizer with the given policy.
func NewNormalizer(cfg config.AudioConfig) *Normalizer {
	return &Normalizer{cfg: cfg}
}

// Normalize decodes, folds to mono, resamples to the target rate, and
// optionally enhances the signal. Undecodable bytes fail with
// ErrUnsupportedFormat, a decoded but empty signal with ErrEmptyAudio.
func (n *Normalizer) Normalize(raw []byte) (Waveform, error) {
	frames, channels, rate, err := decodeWAV(raw)
	if err != nil {
		return Waveform{}, err
	}
	if len(frames) == 0 {
		return Waveform{}, speaker.ErrEmptyAudio
	}

	mono := n.foldChannels(frames, channels)
	if len(mono) == 0 {
		return Waveform{}, speaker.ErrEmptyAudio
	}

	target := n.cfg.SampleRate()
	if rate != target {
		mono, err = resample(mono, rate, target)
		if err != nil {
			return Waveform{}, fmt.Errorf("resample %d -> %d: %w", rate, target, err)
		}
	}

	trimmed := false
	if n.cfg.Enhance() {
		mono, trimmed = enhance(mono, target)
	}

	return Waveform{Samples: mono, SampleRate: target, Trimmed: trimmed}, nil
}

// foldChannels reduces interleaved multi-channel frames to a single channel.
// Forced mono averages all channels. Otherwise multi-channel input is
// averaged when stereo acceptance is on, or truncated to the first channel
// when it is off.
func (n *Normalizer) foldChannels(frames []float64, channels int) []float64 {
	if channels <= 1 {
		return frames
	}

	samples := len(frames) / channels
	out := make([]float64, samples)

	if n.cfg.ForceMono() || n.cfg.AcceptStereo() {
		for i := range samples {
			var sum float64
			for c := range channels {
				sum += frames[i*channels+c]
			}
			out[i] = sum / float64(channels)
		}
		return out
	}

	for i := range samples {
		out[i] = frames[i*channels]
	}
	return out
}

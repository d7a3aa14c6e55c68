// Package service implements the application operations of the
// identification service: enrollment, centroid maintenance, and the
// identification decision pipeline.
package service

import (
	"context"

	"github.com/voiceidlabs/voiceid/infrastructure/audio"
)

// Normalizer converts uploaded bytes into the canonical waveform.
type Normalizer interface {
	Normalize(raw []byte) (audio.Waveform, error)
}

// Encoder produces embedding vectors from normalized waveforms.
type Encoder interface {
	Embed(ctx context.Context, samples []float64, sampleRate int) ([]float64, error)
	Dimension() int
	Name() string
}

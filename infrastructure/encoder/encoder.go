// Package encoder wraps the embedding inference backends behind one uniform
// interface. Exactly one encoder is constructed per process and shared by
// all requests; it is read-only after construction.
package encoder

import (
	"context"
	"math"

	"github.com/voiceidlabs/voiceid/internal/config"
)

// Embedding dimensions per backend.
const (
	EcapaDimension       = 192
	ResemblyzerDimension = 256
)

// Encoder turns a normalized waveform into a fixed-dimension embedding
// vector compatible with cosine similarity search.
type Encoder interface {
	// Embed computes the embedding for a mono waveform at the given sample
	// rate. Every failure of the underlying backend is reported as an
	// error wrapping ErrEmbeddingFailure, never as a zero vector.
	Embed(ctx context.Context, samples []float64, sampleRate int) ([]float64, error)

	// Dimension returns the backend's embedding dimensionality.
	Dimension() int

	// Name returns the backend identifier.
	Name() string
}

// NewFromConfig constructs the encoder selected by configuration.
func NewFromConfig(cfg config.EncoderConfig) Encoder {
	opts := []Option{
		WithTimeout(cfg.Timeout()),
		WithMaxRetries(cfg.MaxRetries()),
	}
	switch cfg.Backend() {
	case config.BackendEcapa:
		return NewEcapa(cfg.BaseURL(), opts...)
	default:
		return NewResemblyzer(cfg.BaseURL(), opts...)
	}
}

// l2Normalize scales the vector to unit length. A zero vector passes
// through unchanged.
func l2Normalize(vec []float64) []float64 {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	if sum == 0 {
		return vec
	}
	norm := math.Sqrt(sum)
	out := make([]float64, len(vec))
	for i, v := range vec {
		out[i] = v / norm
	}
	return out
}

package encoder

import (
	"context"
	"fmt"

	"github.com/voiceidlabs/voiceid/domain/speaker"
)

// Resemblyzer calls a Resemblyzer inference service. The wire shape has no
// sample-rate field: the service assumes the canonical 16 kHz input. Output
// vectors are natively unit length; the adapter normalizes anyway so both
// backends give identical guarantees.
type Resemblyzer struct {
	client client
}

// NewResemblyzer creates a Resemblyzer encoder talking to the given
// inference service.
func NewResemblyzer(baseURL string, opts ...Option) *Resemblyzer {
	return &Resemblyzer{client: newClient(baseURL, opts...)}
}

type resemblyzerRequest struct {
	Samples []float64 `json:"samples"`
}

// Embed computes a 256-dimension embedding.
func (r *Resemblyzer) Embed(ctx context.Context, samples []float64, _ int) ([]float64, error) {
	vec, err := r.client.postEmbed(ctx, r.Name(), resemblyzerRequest{Samples: samples})
	if err != nil {
		return nil, err
	}
	if len(vec) != ResemblyzerDimension {
		return nil, fmt.Errorf("%w: %s: got %d-dimension vector, want %d",
			speaker.ErrEmbeddingFailure, r.Name(), len(vec), ResemblyzerDimension)
	}
	return l2Normalize(vec), nil
}

// Dimension returns 256.
func (r *Resemblyzer) Dimension() int { return ResemblyzerDimension }

// Name returns the backend identifier.
func (r *Resemblyzer) Name() string { return "resemblyzer" }

var _ Encoder = (*Resemblyzer)(nil)

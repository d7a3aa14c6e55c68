package encoder

import (
	"context"
	"fmt"

	"github.com/voiceidlabs/voiceid/domain/speaker"
)

// Ecapa calls an ECAPA-TDNN inference service. The wire shape carries an
// explicit sample rate, and response vectors are not unit length, so the
// adapter L2-normalizes them.
type Ecapa struct {
	client client
}

// NewEcapa creates an Ecapa encoder talking to the given inference service.
func NewEcapa(baseURL string, opts ...Option) *Ecapa {
	return &Ecapa{client: newClient(baseURL, opts...)}
}

type ecapaRequest struct {
	Samples    []float64 `json:"samples"`
	SampleRate int       `json:"sample_rate"`
}

// Embed computes a 192-dimension embedding.
func (e *Ecapa) Embed(ctx context.Context, samples []float64, sampleRate int) ([]float64, error) {
	vec, err := e.client.postEmbed(ctx, e.Name(), ecapaRequest{
		Samples:    samples,
		SampleRate: sampleRate,
	})
	if err != nil {
		return nil, err
	}
	if len(vec) != EcapaDimension {
		return nil, fmt.Errorf("%w: %s: got %d-dimension vector, want %d",
			speaker.ErrEmbeddingFailure, e.Name(), len(vec), EcapaDimension)
	}
	return l2Normalize(vec), nil
}

// Dimension returns 192.
func (e *Ecapa) Dimension() int { return EcapaDimension }

// Name returns the backend identifier.
func (e *Ecapa) Name() string { return "ecapa" }

var _ Encoder = (*Ecapa)(nil)

package audio

import (
	"fmt"
	"math"

	resampling "github.com/tphakala/go-audio-resampling"
)

// resample converts a mono signal from one sample rate to another. The
// converter is stateful and holds back a filter-length tail, so the input is
// followed by short bursts of silence until the expected number of output
// samples has drained, then the result is cut to exactly that length.
func resample(in []float64, from, to int) ([]float64, error) {
	if from == to {
		return in, nil
	}

	rs, err := resampling.New(&resampling.Config{
		InputRate:  float64(from),
		OutputRate: float64(to),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return nil, fmt.Errorf("create resampler: %w", err)
	}

	expected := int(math.Round(float64(len(in)) * float64(to) / float64(from)))

	out, err := rs.Process(in)
	if err != nil {
		return nil, fmt.Errorf("process: %w", err)
	}

	flush := make([]float64, from/10+1)
	for attempts := 0; len(out) < expected && attempts < 16; attempts++ {
		tail, err := rs.Process(flush)
		if err != nil {
			return nil, fmt.Errorf("flush: %w", err)
		}
		out = append(out, tail...)
	}

	if len(out) > expected {
		out = out[:expected]
	}
	return out, nil
}

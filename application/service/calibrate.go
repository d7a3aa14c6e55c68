package service

import "math"

// Calibration constants. Score sets with a standard deviation below
// stdSpreadThreshold are considered compressed and get the z-score
// spreading transform; wider sets get min-max blending.
const (
	stdSpreadThreshold = 0.05
	stdGuard           = 1e-6

	squashedBlendWeight = 0.8
	minMaxBlendWeight   = 0.5
)

// calibrateScores maps raw similarity scores to calibrated scores in
// [0, 1], preserving order of magnitude differences while spreading
// compressed clusters. Degenerate inputs (fewer than two scores, zero
// range) and any non-finite intermediate result degrade to the raw scores
// unchanged.
func calibrateScores(raw []float64) []float64 {
	if len(raw) < 2 {
		return raw
	}

	minScore, maxScore := raw[0], raw[0]
	var sum float64
	for _, s := range raw {
		sum += s
		if s < minScore {
			minScore = s
		}
		if s > maxScore {
			maxScore = s
		}
	}
	scoreRange := maxScore - minScore
	if scoreRange == 0 {
		return raw
	}

	mean := sum / float64(len(raw))
	var variance float64
	for _, s := range raw {
		d := s - mean
		variance += d * d
	}
	std := math.Sqrt(variance / float64(len(raw)))

	out := make([]float64, len(raw))
	if std < stdSpreadThreshold {
		// Compressed cluster: z-score, logistic squash, blend with raw
		for i, s := range raw {
			z := (s - mean) / (std + stdGuard)
			squashed := 1 / (1 + math.Exp(-2*z))
			out[i] = clip01(squashedBlendWeight*squashed + (1-squashedBlendWeight)*s)
		}
	} else {
		for i, s := range raw {
			normalized := (s - minScore) / scoreRange
			out[i] = clip01(minMaxBlendWeight*normalized + (1-minMaxBlendWeight)*s)
		}
	}

	for _, v := range out {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return raw
		}
	}
	return out
}

func clip01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

package audio

import "math"

// Enhancement pipeline parameters. Frame and hop are in samples, durations
// in seconds.
const (
	trimFrameLength = 2048
	trimHopLength   = 512
	trimMarginDB    = 30.0

	minDurationSec    = 1.0
	segmentTriggerSec = 3.5
	segmentTargetSec  = 3.0
	segmentHopSec     = 0.25

	peakTarget       = 0.9
	preEmphasisCoef  = 0.97
	energyFloorGuard = 1e-10
)

// enhance applies the full enhancement pipeline: silence trim, best-segment
// selection on long clips, peak normalization, pre-emphasis. Returns the
// processed signal and whether any silence was actually cut.
func enhance(x []float64, sampleRate int) ([]float64, bool) {
	trimmed, cut := trimSilence(x)

	minSamples := int(minDurationSec * float64(sampleRate))
	if len(trimmed) >= minSamples {
		trigger := int(segmentTriggerSec * float64(sampleRate))
		if len(trimmed) > trigger {
			trimmed = bestSegment(trimmed, sampleRate)
		}
	}

	y := peakNormalize(trimmed, peakTarget)
	y = preEmphasis(y, preEmphasisCoef)
	return y, cut
}

// trimSilence keeps the span from the first to the last frame whose energy
// exceeds (peak frame energy - trimMarginDB). If no frame clears the
// threshold the input is returned unchanged.
func trimSilence(x []float64) ([]float64, bool) {
	if len(x) < trimFrameLength {
		return x, false
	}

	var energies []float64
	for start := 0; start+trimFrameLength <= len(x); start += trimHopLength {
		var sum float64
		for _, s := range x[start : start+trimFrameLength] {
			sum += s * s
		}
		mean := sum / float64(trimFrameLength)
		energies = append(energies, 10*math.Log10(mean+energyFloorGuard))
	}

	peak := energies[0]
	for _, e := range energies[1:] {
		if e > peak {
			peak = e
		}
	}
	threshold := peak - trimMarginDB

	first, last := -1, -1
	for i, e := range energies {
		if e > threshold {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		return x, false
	}

	start := first * trimHopLength
	end := last*trimHopLength + trimFrameLength
	// keep the un-framed tail when the final frame is active
	if last == len(energies)-1 || end > len(x) {
		end = len(x)
	}
	if start == 0 && end == len(x) {
		return x, false
	}
	return x[start:end], true
}

// bestSegment slides a window of the target duration across the signal and
// returns the window with maximum RMS energy.
func bestSegment(x []float64, sampleRate int) []float64 {
	window := int(segmentTargetSec * float64(sampleRate))
	hop := int(segmentHopSec * float64(sampleRate))
	if window <= 0 || hop <= 0 || len(x) <= window {
		return x
	}

	bestStart := 0
	bestEnergy := -1.0
	for start := 0; start+window <= len(x); start += hop {
		var sum float64
		for _, s := range x[start : start+window] {
			sum += s * s
		}
		if sum > bestEnergy {
			bestEnergy = sum
			bestStart = start
		}
	}
	return x[bestStart : bestStart+window]
}

// peakNormalize scales the signal so its maximum absolute sample equals
// target. Silent input passes through unchanged.
func peakNormalize(x []float64, target float64) []float64 {
	var peak float64
	for _, s := range x {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		return x
	}

	out := make([]float64, len(x))
	scale := target / peak
	for i, s := range x {
		out[i] = s * scale
	}
	return out
}

// preEmphasis applies the first-order high-pass filter
// y[n] = x[n] - coef*x[n-1].
func preEmphasis(x []float64, coef float64) []float64 {
	if len(x) == 0 {
		return x
	}
	out := make([]float64, len(x))
	out[0] = x[0]
	for i := 1; i < len(x); i++ {
		out[i] = x[i] - coef*x[i-1]
	}
	return out
}

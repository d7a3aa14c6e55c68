package service

import (
	"context"
	"log/slog"
	"sort"

	"github.com/voiceidlabs/voiceid/domain/speaker"
	"github.com/voiceidlabs/voiceid/internal/config"
)

// IdentifyOptions carries the per-request overrides for identification.
// Zero TopK and negative Threshold fall back to the process defaults.
type IdentifyOptions struct {
	TopK      int
	Threshold float64
	Calibrate bool
}

// DefaultIdentifyOptions returns options that defer entirely to the
// process defaults.
func DefaultIdentifyOptions(cfg config.IdentifyConfig) IdentifyOptions {
	return IdentifyOptions{
		TopK:      cfg.TopK(),
		Threshold: -1,
		Calibrate: cfg.Calibration(),
	}
}

// Engine runs the identification decision pipeline: centroid search, score
// calibration, threshold decision, single-candidate fallback.
type Engine struct {
	store      speaker.Store
	normalizer Normalizer
	encoder    Encoder
	settings   *Settings
	defaults   config.IdentifyConfig
	logger     *slog.Logger
}

// NewEngine creates an identification Engine.
func NewEngine(store speaker.Store, normalizer Normalizer, encoder Encoder, settings *Settings, defaults config.IdentifyConfig, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:      store,
		normalizer: normalizer,
		encoder:    encoder,
		settings:   settings,
		defaults:   defaults,
		logger:     logger,
	}
}

// IdentifyAudio runs the full pipeline on uploaded bytes: normalize, embed,
// identify.
func (e *Engine) IdentifyAudio(ctx context.Context, raw []byte, opts IdentifyOptions) (speaker.Verdict, error) {
	wf, err := e.normalizer.Normalize(raw)
	if err != nil {
		return speaker.Verdict{}, err
	}
	if wf.Trimmed {
		e.logger.DebugContext(ctx, "silence trimmed from query clip", slog.Duration("duration", wf.Duration()))
	}

	vec, err := e.encoder.Embed(ctx, wf.Samples, wf.SampleRate)
	if err != nil {
		return speaker.Verdict{}, err
	}

	return e.Identify(ctx, vec, opts)
}

// Identify searches the centroid tier for the query vector and returns a
// structured verdict. An empty tier yields the Unknown verdict, never an
// error.
func (e *Engine) Identify(ctx context.Context, vec []float64, opts IdentifyOptions) (speaker.Verdict, error) {
	topK := opts.TopK
	if topK <= 0 {
		topK = e.defaults.TopK()
	}
	threshold := opts.Threshold
	if threshold < 0 {
		threshold = e.settings.Threshold()
	}

	matches, err := e.store.SearchCentroids(ctx, vec, topK)
	if err != nil {
		return speaker.Verdict{}, err
	}
	if len(matches) == 0 {
		return speaker.UnknownVerdict(nil), nil
	}

	candidates := matches
	if opts.Calibrate {
		candidates = calibrateCandidates(matches)
	}

	best := candidates[0]
	e.logger.DebugContext(ctx, "identification search",
		slog.String("best", best.Name()),
		slog.Float64("score", best.Score()),
		slog.Float64("threshold", threshold),
		slog.Int("candidates", len(candidates)),
	)

	if best.Score() >= threshold {
		return speaker.NewVerdict(best.Name(), config.ClampScore(best.Score()), candidates), nil
	}

	// A single enrolled speaker is accepted even below threshold: with one
	// small enrollment sample a borderline score must not reject the only
	// possible answer. Confidence reports at least the threshold.
	total, err := e.store.CountCentroids(ctx)
	if err != nil {
		return speaker.Verdict{}, err
	}
	if total == 1 {
		confidence := best.Score()
		if threshold > confidence {
			confidence = threshold
		}
		return speaker.NewVerdict(best.Name(), config.ClampScore(confidence), candidates), nil
	}

	return speaker.UnknownVerdict(candidates), nil
}

// calibrateCandidates applies the calibration transform to every
// candidate's score and re-ranks by the calibrated values.
func calibrateCandidates(matches []speaker.Candidate) []speaker.Candidate {
	raw := make([]float64, len(matches))
	for i, m := range matches {
		raw[i] = m.Score()
	}

	calibrated := calibrateScores(raw)

	out := make([]speaker.Candidate, len(matches))
	for i, m := range matches {
		out[i] = speaker.NewCandidate(m.Name(), calibrated[i])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score() > out[j].Score()
	})
	return out
}

package service

import (
	"context"
	"log/slog"

	"github.com/voiceidlabs/voiceid/domain/speaker"
)

// Enroller records new voice samples. Every enrollment inserts the raw
// clip vector and immediately rebuilds that speaker's centroid, so the
// centroid is never more than one enrollment stale.
type Enroller struct {
	store      speaker.Store
	normalizer Normalizer
	encoder    Encoder
	maintainer *Maintainer
	logger     *slog.Logger
}

// NewEnroller creates an Enroller.
func NewEnroller(store speaker.Store, normalizer Normalizer, encoder Encoder, maintainer *Maintainer, logger *slog.Logger) *Enroller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Enroller{
		store:      store,
		normalizer: normalizer,
		encoder:    encoder,
		maintainer: maintainer,
		logger:     logger,
	}
}

// Enroll normalizes and embeds the uploaded clip, appends it to the raw
// tier under name, and rebuilds the speaker's centroid. Returns the clip
// count the centroid now averages.
func (e *Enroller) Enroll(ctx context.Context, name string, raw []byte) (int, error) {
	wf, err := e.normalizer.Normalize(raw)
	if err != nil {
		return 0, err
	}

	vec, err := e.encoder.Embed(ctx, wf.Samples, wf.SampleRate)
	if err != nil {
		return 0, err
	}

	clip, err := e.store.InsertRaw(ctx, name, vec)
	if err != nil {
		return 0, err
	}

	count, err := e.maintainer.RebuildOne(ctx, name)
	if err != nil {
		return 0, err
	}

	e.logger.InfoContext(ctx, "speaker enrolled",
		slog.String("name", name),
		slog.String("clip_id", clip.ID()),
		slog.Int("clips", count),
	)
	return count, nil
}

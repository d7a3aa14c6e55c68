package service

import (
	"context"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/voiceidlabs/voiceid/domain/speaker"
)

// Maintainer recomputes per-speaker centroids from the raw tier. A
// centroid is always the arithmetic mean of the speaker's currently stored
// raw vectors.
type Maintainer struct {
	store    speaker.Store
	parallel int
	logger   *slog.Logger
}

// NewMaintainer creates a Maintainer. parallel bounds the fan-out of a
// full rebuild; values below 1 disable concurrency.
func NewMaintainer(store speaker.Store, parallel int, logger *slog.Logger) *Maintainer {
	if parallel < 1 {
		parallel = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Maintainer{store: store, parallel: parallel, logger: logger}
}

// RebuildOne recomputes the centroid for one speaker and returns the
// number of raw clips it averaged. A speaker with zero clips gets no
// centroid write and returns 0.
func (m *Maintainer) RebuildOne(ctx context.Context, name string) (int, error) {
	vectors, err := m.store.ScanRawBySpeaker(ctx, name)
	if err != nil {
		return 0, err
	}
	if len(vectors) == 0 {
		return 0, nil
	}

	mean := meanVector(vectors)
	if err := m.store.UpsertCentroid(ctx, name, mean, len(vectors)); err != nil {
		return 0, err
	}

	m.logger.DebugContext(ctx, "centroid rebuilt", slog.String("name", name), slog.Int("clips", len(vectors)))
	return len(vectors), nil
}

// RebuildAll rebuilds the centroid of every speaker currently present in
// the centroid tier and returns how many were updated with at least one
// clip. Speakers with only raw clips and no prior centroid are not picked
// up; they converge on their next enrollment.
func (m *Maintainer) RebuildAll(ctx context.Context) (int, error) {
	names, err := m.store.ListSpeakerNames(ctx)
	if err != nil {
		return 0, err
	}

	var updated atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.parallel)

	for _, name := range names {
		g.Go(func() error {
			count, err := m.RebuildOne(gctx, name)
			if err != nil {
				return err
			}
			if count > 0 {
				updated.Add(1)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}

	m.logger.InfoContext(ctx, "full centroid rebuild complete",
		slog.Int("speakers", len(names)),
		slog.Int64("updated", updated.Load()),
	)
	return int(updated.Load()), nil
}

// meanVector computes the component-wise arithmetic mean. All vectors are
// assumed to share one dimension; the store enforces this on write.
func meanVector(vectors [][]float64) []float64 {
	mean := make([]float64, len(vectors[0]))
	for _, v := range vectors {
		for i, x := range v {
			mean[i] += x
		}
	}
	n := float64(len(vectors))
	for i := range mean {
		mean[i] /= n
	}
	return mean
}

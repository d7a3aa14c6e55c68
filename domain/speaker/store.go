package speaker

import "context"

// Store persists the two record tiers of the profile database. The raw tier
// holds every enrollment's vector; the centroid tier holds one searchable
// mean vector per speaker. Implementations must reject vectors whose length
// differs from the active embedding dimension with ErrDimensionMismatch and
// surface connectivity failures as ErrStoreUnavailable.
type Store interface {
	// EnsureSchema creates missing collections. Idempotent; never destroys
	// existing data.
	EnsureSchema(ctx context.Context) error

	// InsertRaw appends a raw clip record with a fresh id and the current
	// timestamp.
	InsertRaw(ctx context.Context, name string, vector []float64) (RawClip, error)

	// UpsertCentroid writes or fully overwrites the single centroid record
	// for name.
	UpsertCentroid(ctx context.Context, name string, vector []float64, count int) error

	// SearchCentroids returns up to k centroids ranked by similarity to the
	// query. An empty tier yields an empty result, not an error.
	SearchCentroids(ctx context.Context, query []float64, k int) ([]Candidate, error)

	// ListSpeakerNames returns all distinct names in the centroid tier.
	ListSpeakerNames(ctx context.Context) ([]string, error)

	// CountCentroids returns the number of centroid records.
	CountCentroids(ctx context.Context) (int, error)

	// DeleteSpeaker removes all records for name in both tiers. A no-op
	// when the speaker does not exist.
	DeleteSpeaker(ctx context.Context, name string) error

	// ResetAll destroys and recreates both tiers empty.
	ResetAll(ctx context.Context) error

	// ScanRawBySpeaker returns every raw clip vector for name.
	ScanRawBySpeaker(ctx context.Context, name string) ([][]float64, error)
}

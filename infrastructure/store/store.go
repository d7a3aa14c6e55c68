// Package store persists the two record tiers of the speaker profile
// database: raw per-clip embeddings and per-speaker centroids. Vectors are
// stored as JSON and similarity search runs in-process over the centroid
// tier, which stays small (one row per speaker).
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"github.com/voiceidlabs/voiceid/domain/speaker"
	"github.com/voiceidlabs/voiceid/internal/database"
	"github.com/voiceidlabs/voiceid/internal/log"
)

// ProfileStore persists raw clips and centroids. All vectors in both tiers
// must match the dimension fixed at construction; a mismatch fails the
// operation rather than silently truncating or padding.
type ProfileStore struct {
	db        database.Database
	dimension int
	logger    *log.Logger
}

// NewProfileStore creates a ProfileStore bound to the active embedding
// dimension.
func NewProfileStore(db database.Database, dimension int, logger *log.Logger) *ProfileStore {
	if logger == nil {
		logger = log.Default()
	}
	return &ProfileStore{db: db, dimension: dimension, logger: logger}
}

// Dimension returns the vector dimension the store enforces.
func (s *ProfileStore) Dimension() int { return s.dimension }

// EnsureSchema creates both tier tables when absent. Idempotent; never
// destroys existing data.
func (s *ProfileStore) EnsureSchema(ctx context.Context) error {
	if err := s.db.Session(ctx).AutoMigrate(&RawClipEntity{}, &CentroidEntity{}); err != nil {
		return s.wrap("ensure schema", err)
	}
	return nil
}

// InsertRaw appends a new raw clip record with a fresh id and the current
// timestamp, and returns it.
func (s *ProfileStore) InsertRaw(ctx context.Context, name string, vector []float64) (speaker.RawClip, error) {
	if err := s.checkDimension(vector); err != nil {
		return speaker.RawClip{}, err
	}

	entity := RawClipEntity{
		ID:         uuid.NewString(),
		Name:       name,
		Embedding:  append(Float64Slice(nil), vector...),
		EnrolledAt: time.Now().UTC(),
	}
	if err := s.db.Session(ctx).Create(&entity).Error; err != nil {
		return speaker.RawClip{}, s.wrap("insert raw clip", err)
	}

	return speaker.NewRawClip(entity.ID, entity.Name, entity.Embedding, entity.EnrolledAt), nil
}

// UpsertCentroid writes or fully overwrites the single centroid record for
// name. The deterministic id guarantees at most one record per speaker.
func (s *ProfileStore) UpsertCentroid(ctx context.Context, name string, vector []float64, count int) error {
	if err := s.checkDimension(vector); err != nil {
		return err
	}

	entity := CentroidEntity{
		ID:        speaker.CentroidID(name),
		Name:      name,
		Embedding: append(Float64Slice(nil), vector...),
		ClipCount: count,
	}
	err := s.db.Session(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&entity).Error
	if err != nil {
		return s.wrap("upsert centroid", err)
	}
	return nil
}

// SearchCentroids returns up to k centroids ranked by cosine similarity to
// the query vector. An empty centroid tier yields an empty result, not an
// error.
func (s *ProfileStore) SearchCentroids(ctx context.Context, query []float64, k int) ([]speaker.Candidate, error) {
	if err := s.checkDimension(query); err != nil {
		return nil, err
	}

	var entities []CentroidEntity
	if err := s.db.Session(ctx).Find(&entities).Error; err != nil {
		return nil, s.wrap("search centroids", err)
	}

	return topKSimilar(query, entities, k), nil
}

// ListSpeakerNames returns all distinct names in the centroid tier.
func (s *ProfileStore) ListSpeakerNames(ctx context.Context) ([]string, error) {
	var names []string
	err := s.db.Session(ctx).
		Model(&CentroidEntity{}).
		Order("name").
		Pluck("name", &names).Error
	if err != nil {
		return nil, s.wrap("list speaker names", err)
	}
	return names, nil
}

// CountCentroids returns the number of records in the centroid tier.
func (s *ProfileStore) CountCentroids(ctx context.Context) (int, error) {
	var count int64
	if err := s.db.Session(ctx).Model(&CentroidEntity{}).Count(&count).Error; err != nil {
		return 0, s.wrap("count centroids", err)
	}
	return int(count), nil
}

// DeleteSpeaker removes all raw clips and the centroid for name. A no-op
// when the speaker does not exist.
func (s *ProfileStore) DeleteSpeaker(ctx context.Context, name string) error {
	session := s.db.Session(ctx)
	if err := session.Where("name = ?", name).Delete(&RawClipEntity{}).Error; err != nil {
		return s.wrap("delete raw clips", err)
	}
	if err := session.Where("name = ?", name).Delete(&CentroidEntity{}).Error; err != nil {
		return s.wrap("delete centroid", err)
	}
	return nil
}

// ResetAll destroys and recreates both tiers empty.
func (s *ProfileStore) ResetAll(ctx context.Context) error {
	migrator := s.db.Session(ctx).Migrator()
	if err := migrator.DropTable(&RawClipEntity{}, &CentroidEntity{}); err != nil {
		return s.wrap("drop tables", err)
	}
	return s.EnsureSchema(ctx)
}

// ScanRawBySpeaker returns every raw clip vector stored for name, in
// insertion order. Empty when the speaker has no clips.
func (s *ProfileStore) ScanRawBySpeaker(ctx context.Context, name string) ([][]float64, error) {
	var entities []RawClipEntity
	err := s.db.Session(ctx).
		Where("name = ?", name).
		Order("enrolled_at").
		Find(&entities).Error
	if err != nil {
		return nil, s.wrap("scan raw clips", err)
	}

	vectors := make([][]float64, 0, len(entities))
	for _, e := range entities {
		if len(e.Embedding) == 0 {
			s.logger.Warn("skipping empty embedding", "clip_id", e.ID, "name", e.Name)
			continue
		}
		vectors = append(vectors, e.Embedding)
	}
	return vectors, nil
}

func (s *ProfileStore) checkDimension(vector []float64) error {
	if s.dimension > 0 && len(vector) != s.dimension {
		return fmt.Errorf("%w: got %d, want %d", speaker.ErrDimensionMismatch, len(vector), s.dimension)
	}
	return nil
}

func (s *ProfileStore) wrap(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", speaker.ErrStoreUnavailable, op, err)
}

package store

import "time"

// RawClipEntity is one enrollment's embedding in the raw tier. Rows are
// append-only; deletion happens only through per-speaker or full reset.
type RawClipEntity struct {
	ID         string       `gorm:"column:id;primaryKey"`
	Name       string       `gorm:"column:name;index"`
	Embedding  Float64Slice `gorm:"column:embedding;type:json"`
	EnrolledAt time.Time    `gorm:"column:enrolled_at"`
}

// TableName returns the raw tier table name.
func (RawClipEntity) TableName() string { return "raw_clips" }

// CentroidEntity is the single searchable record per speaker. The primary
// key is a deterministic function of the name, so upserts can never
// duplicate a speaker.
type CentroidEntity struct {
	ID        string       `gorm:"column:id;primaryKey"`
	Name      string       `gorm:"column:name;uniqueIndex"`
	Embedding Float64Slice `gorm:"column:embedding;type:json"`
	ClipCount int          `gorm:"column:clip_count"`
}

// TableName returns the centroid tier table name.
func (CentroidEntity) TableName() string { return "centroids" }

package store

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/voiceidlabs/voiceid/domain/speaker"
)

// Float64Slice is a custom type for JSON serialization of []float64.
type Float64Slice []float64

// Scan implements sql.Scanner for reading JSON.
func (f *Float64Slice) Scan(value any) error {
	if value == nil {
		*f = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Float64Slice", value)
	}

	return json.Unmarshal(data, f)
}

// Value implements driver.Valuer for writing JSON.
func (f Float64Slice) Value() (driver.Value, error) {
	if f == nil {
		return nil, nil
	}
	return json.Marshal(f)
}

// CosineSimilarity computes the cosine similarity between two vectors.
// Returns a value between -1 (opposite) and 1 (identical).
// Returns 0 if either vector has zero magnitude.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, magA, magB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}

	if magA == 0 || magB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(magA) * math.Sqrt(magB))
}

// topKSimilar ranks stored centroids against the query vector and returns
// up to k candidates, highest similarity first.
func topKSimilar(query []float64, entities []CentroidEntity, k int) []speaker.Candidate {
	if len(entities) == 0 || k <= 0 {
		return []speaker.Candidate{}
	}

	matches := make([]speaker.Candidate, 0, len(entities))
	for _, e := range entities {
		matches = append(matches, speaker.NewCandidate(e.Name, CosineSimilarity(query, e.Embedding)))
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Score() > matches[j].Score()
	})

	if k > len(matches) {
		k = len(matches)
	}
	return matches[:k]
}

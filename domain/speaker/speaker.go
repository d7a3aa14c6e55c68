// Package speaker defines the core types of the speaker-identification
// domain: raw enrollment clips, per-speaker centroids, and the verdict
// returned by the identification pipeline.
package speaker

import (
	"crypto/sha1"
	"encoding/hex"
	"time"
)

// RawClip is one enrollment's embedding vector, stored individually for
// audit and centroid recomputation. Raw clips are never mutated.
type RawClip struct {
	id         string
	name       string
	vector     []float64
	enrolledAt time.Time
}

// NewRawClip creates a new RawClip.
func NewRawClip(id, name string, vector []float64, enrolledAt time.Time) RawClip {
	vec := make([]float64, len(vector))
	copy(vec, vector)
	return RawClip{
		id:         id,
		name:       name,
		vector:     vec,
		enrolledAt: enrolledAt,
	}
}

// ID returns the clip's unique identifier.
func (c RawClip) ID() string { return c.id }

// Name returns the speaker name the clip was enrolled under.
func (c RawClip) Name() string { return c.name }

// Vector returns the clip's embedding vector (copy).
func (c RawClip) Vector() []float64 {
	vec := make([]float64, len(c.vector))
	copy(vec, c.vector)
	return vec
}

// EnrolledAt returns the clip's insertion timestamp.
func (c RawClip) EnrolledAt() time.Time { return c.enrolledAt }

// Centroid is the arithmetic mean of all raw clip vectors enrolled for one
// speaker. It is a derived value: the maintainer overwrites it wholesale on
// every rebuild, it is never edited independently.
type Centroid struct {
	id        string
	name      string
	vector    []float64
	clipCount int
}

// NewCentroid creates a new Centroid. The id is always derived from the
// name via CentroidID.
func NewCentroid(name string, vector []float64, clipCount int) Centroid {
	vec := make([]float64, len(vector))
	copy(vec, vector)
	return Centroid{
		id:        CentroidID(name),
		name:      name,
		vector:    vec,
		clipCount: clipCount,
	}
}

// ID returns the centroid's deterministic identifier.
func (c Centroid) ID() string { return c.id }

// Name returns the speaker name.
func (c Centroid) Name() string { return c.name }

// Vector returns the centroid vector (copy).
func (c Centroid) Vector() []float64 {
	vec := make([]float64, len(c.vector))
	copy(vec, c.vector)
	return vec
}

// ClipCount returns the number of raw clips that contributed to the vector.
func (c Centroid) ClipCount() int { return c.clipCount }

// CentroidID derives the stable identifier for a speaker's centroid record.
// The mapping is a pure function of the name, so the same speaker always
// maps to the same record and at most one centroid exists per name. The
// only property callers may rely on is that the function is deterministic
// and collision-resistant for practical speaker-name cardinalities.
func CentroidID(name string) string {
	sum := sha1.Sum([]byte(name + "-centroid"))
	return hex.EncodeToString(sum[:])[:12]
}

// UnknownSpeaker is the verdict name reported when no enrolled speaker
// clears the decision threshold.
const UnknownSpeaker = "unknown"

// Candidate is one entry of the ranked candidate list returned by
// identification, carrying the (possibly calibrated) similarity score.
type Candidate struct {
	name  string
	score float64
}

// NewCandidate creates a new Candidate.
func NewCandidate(name string, score float64) Candidate {
	return Candidate{name: name, score: score}
}

// Name returns the candidate speaker name.
func (c Candidate) Name() string { return c.name }

// Score returns the candidate's similarity score.
func (c Candidate) Score() float64 { return c.score }

// Verdict is the structured result of one identification request.
type Verdict struct {
	speaker    string
	confidence float64
	candidates []Candidate
}

// NewVerdict creates a new Verdict.
func NewVerdict(speaker string, confidence float64, candidates []Candidate) Verdict {
	list := make([]Candidate, len(candidates))
	copy(list, candidates)
	return Verdict{
		speaker:    speaker,
		confidence: confidence,
		candidates: list,
	}
}

// UnknownVerdict returns the verdict for a query that matched nobody.
// The candidate list is retained for caller inspection.
func UnknownVerdict(candidates []Candidate) Verdict {
	return NewVerdict(UnknownSpeaker, 0, candidates)
}

// Speaker returns the accepted speaker name, or UnknownSpeaker.
func (v Verdict) Speaker() string { return v.speaker }

// Confidence returns the confidence score in [0, 1].
func (v Verdict) Confidence() float64 { return v.confidence }

// Candidates returns the ranked candidate list (copy).
func (v Verdict) Candidates() []Candidate {
	list := make([]Candidate, len(v.candidates))
	copy(list, v.candidates)
	return list
}

// Accepted reports whether the verdict names an enrolled speaker.
func (v Verdict) Accepted() bool { return v.speaker != UnknownSpeaker }

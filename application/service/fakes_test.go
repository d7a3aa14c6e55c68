package service

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/voiceidlabs/voiceid/domain/speaker"
	"github.com/voiceidlabs/voiceid/infrastructure/audio"
)

// fakeStore is an in-memory speaker.Store with optional error injection.
type fakeStore struct {
	mu        sync.Mutex
	dimension int
	raw       []speaker.RawClip
	centroids map[string]speaker.Centroid

	searchErr error
	countErr  error
	scanErr   error
}

func newFakeStore(dimension int) *fakeStore {
	return &fakeStore{
		dimension: dimension,
		centroids: map[string]speaker.Centroid{},
	}
}

func (f *fakeStore) EnsureSchema(context.Context) error { return nil }

func (f *fakeStore) InsertRaw(_ context.Context, name string, vector []float64) (speaker.RawClip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(vector) != f.dimension {
		return speaker.RawClip{}, speaker.ErrDimensionMismatch
	}
	clip := speaker.NewRawClip(fmt.Sprintf("clip-%d", len(f.raw)), name, vector, time.Now())
	f.raw = append(f.raw, clip)
	return clip, nil
}

func (f *fakeStore) UpsertCentroid(_ context.Context, name string, vector []float64, count int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(vector) != f.dimension {
		return speaker.ErrDimensionMismatch
	}
	f.centroids[name] = speaker.NewCentroid(name, vector, count)
	return nil
}

func (f *fakeStore) SearchCentroids(_ context.Context, query []float64, k int) ([]speaker.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.searchErr != nil {
		return nil, f.searchErr
	}

	matches := make([]speaker.Candidate, 0, len(f.centroids))
	for name, c := range f.centroids {
		matches = append(matches, speaker.NewCandidate(name, cosine(query, c.Vector())))
	}
	for i := range matches {
		for j := i + 1; j < len(matches); j++ {
			if matches[j].Score() > matches[i].Score() {
				matches[i], matches[j] = matches[j], matches[i]
			}
		}
	}
	if k < len(matches) {
		matches = matches[:k]
	}
	return matches, nil
}

func (f *fakeStore) ListSpeakerNames(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, 0, len(f.centroids))
	for name := range f.centroids {
		names = append(names, name)
	}
	return names, nil
}

func (f *fakeStore) CountCentroids(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.countErr != nil {
		return 0, f.countErr
	}
	return len(f.centroids), nil
}

func (f *fakeStore) DeleteSpeaker(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.centroids, name)
	kept := f.raw[:0]
	for _, c := range f.raw {
		if c.Name() != name {
			kept = append(kept, c)
		}
	}
	f.raw = kept
	return nil
}

func (f *fakeStore) ResetAll(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.raw = nil
	f.centroids = map[string]speaker.Centroid{}
	return nil
}

func (f *fakeStore) ScanRawBySpeaker(_ context.Context, name string) ([][]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	var vectors [][]float64
	for _, c := range f.raw {
		if c.Name() == name {
			vectors = append(vectors, c.Vector())
		}
	}
	return vectors, nil
}

func cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

// fakeNormalizer treats the uploaded bytes as raw samples.
type fakeNormalizer struct {
	err error
}

func (f fakeNormalizer) Normalize(raw []byte) (audio.Waveform, error) {
	if f.err != nil {
		return audio.Waveform{}, f.err
	}
	if len(raw) == 0 {
		return audio.Waveform{}, speaker.ErrEmptyAudio
	}
	samples := make([]float64, len(raw))
	for i, b := range raw {
		samples[i] = (float64(b) - 128) / 128
	}
	return audio.Waveform{Samples: samples, SampleRate: 16000}, nil
}

// fakeEncoder maps waveforms to deterministic unit vectors: similar
// signals get similar vectors, disjoint signals get near-orthogonal ones.
type fakeEncoder struct {
	dimension int
	err       error
}

func (f fakeEncoder) Embed(_ context.Context, samples []float64, _ int) ([]float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	vec := make([]float64, f.dimension)
	for i, s := range samples {
		vec[i%f.dimension] += s
	}
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	if sum == 0 {
		vec[0] = 1
		return vec, nil
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] /= norm
	}
	return vec, nil
}

func (f fakeEncoder) Dimension() int { return f.dimension }
func (f fakeEncoder) Name() string   { return "fake" }

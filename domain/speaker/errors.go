package speaker

import "errors"

// Error taxonomy for the identification service. The HTTP layer maps these
// to status codes; everything else wraps them with fmt.Errorf("%w").
var (
	// ErrUnsupportedFormat indicates uploaded bytes could not be decoded
	// as audio. Client input defect.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrEmptyAudio indicates the decoded waveform has zero samples.
	// Client input defect.
	ErrEmptyAudio = errors.New("empty audio")

	// ErrDimensionMismatch indicates a vector's length does not match the
	// active embedding dimension. Points at a collection configured for a
	// different encoder backend, never coerced silently.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrEmbeddingFailure indicates the embedding backend failed.
	// Never swallowed into a zero vector.
	ErrEmbeddingFailure = errors.New("embedding failure")

	// ErrStoreUnavailable indicates the profile store's backing database
	// could not be reached.
	ErrStoreUnavailable = errors.New("profile store unavailable")

	// ErrNoProfiles indicates an operation that requires at least one
	// enrolled profile ran against an empty store.
	ErrNoProfiles = errors.New("no profiles enrolled")
)

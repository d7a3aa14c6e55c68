package service

import (
	"sync"

	"github.com/voiceidlabs/voiceid/internal/config"
)

// Settings holds the process-local runtime-adjustable identification
// defaults. The threshold can be changed while serving; changes are not
// persisted across restarts.
type Settings struct {
	mu        sync.RWMutex
	threshold float64
}

// NewSettings creates Settings with the given starting threshold, clamped
// to [0, 1].
func NewSettings(threshold float64) *Settings {
	return &Settings{threshold: config.ClampScore(threshold)}
}

// Threshold returns the current default acceptance threshold.
func (s *Settings) Threshold() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.threshold
}

// SetThreshold updates the default threshold, silently clamping to [0, 1],
// and returns the applied value.
func (s *Settings) SetThreshold(v float64) float64 {
	clamped := config.ClampScore(v)
	s.mu.Lock()
	s.threshold = clamped
	s.mu.Unlock()
	return clamped
}

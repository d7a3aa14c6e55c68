package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSettings_Threshold(t *testing.T) {
	s := NewSettings(0.82)
	assert.Equal(t, 0.82, s.Threshold())
}

func TestSettings_ClampsOnConstruction(t *testing.T) {
	assert.Equal(t, 1.0, NewSettings(1.7).Threshold())
	assert.Equal(t, 0.0, NewSettings(-0.2).Threshold())
}

func TestSettings_SetThresholdClamps(t *testing.T) {
	s := NewSettings(0.82)
	assert.Equal(t, 0.5, s.SetThreshold(0.5))
	assert.Equal(t, 0.5, s.Threshold())

	assert.Equal(t, 1.0, s.SetThreshold(2.0))
	assert.Equal(t, 1.0, s.Threshold())

	assert.Equal(t, 0.0, s.SetThreshold(-1))
	assert.Equal(t, 0.0, s.Threshold())
}

func TestSettings_ConcurrentAccess(t *testing.T) {
	s := NewSettings(0.82)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.SetThreshold(0.5)
		}()
		go func() {
			defer wg.Done()
			_ = s.Threshold()
		}()
	}
	wg.Wait()
	assert.Equal(t, 0.5, s.Threshold())
}

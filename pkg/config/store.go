package config

import (
	"fmt"
	"sync"

	"github.com/chrissnell/watchface/pkg/solar"
)

// Store caches the face settings of a ConfigProvider and writes changes back
// to it. It is safe for concurrent use: the tick loop writes while the
// management API reads.
type Store struct {
	provider ConfigProvider

	mu    sync.RWMutex
	face  FaceData
	dirty bool
}

// NewStore loads the face settings from provider
func NewStore(provider ConfigProvider) (*Store, error) {
	s := &Store{provider: provider}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload discards unsaved changes and re-reads the provider
func (s *Store) Reload() error {
	face, err := s.provider.GetFaceSettings()
	if err != nil {
		return fmt.Errorf("failed to load face settings: %w", err)
	}
	if err := ValidateLocation(face.Location); err != nil {
		return fmt.Errorf("invalid location: %w", err)
	}
	face.applyDefaults()

	s.mu.Lock()
	s.face = *face
	s.dirty = false
	s.mu.Unlock()
	return nil
}

// Face returns a copy of the current face settings
func (s *Store) Face() FaceData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.face
}

// Location returns the observer location in solar fixed-point form
func (s *Store) Location() solar.Location {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.face.Location.Solar()
}

func (s *Store) ClockType() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.face.ClockType
}

// SetClockType changes the clock type in memory; Save persists it.
func (s *Store) SetClockType(clockType string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.face.ClockType != clockType {
		s.face.ClockType = clockType
		s.dirty = true
	}
}

// Save writes pending changes to the provider
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dirty {
		return nil
	}
	if s.provider.IsReadOnly() {
		return ErrReadOnly
	}

	face := s.face
	if err := s.provider.SaveFaceSettings(&face); err != nil {
		return err
	}
	s.dirty = false
	return nil
}

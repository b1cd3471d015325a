package store

import (
	"sync"

	"maxbitcoins/internal/domain"
)

// MemoryStateStore keeps posting state in memory. Use in tests and for
// dry runs.
type MemoryStateStore struct {
	mu     sync.Mutex
	states map[string]domain.PostingState
	saves  int
}

// NewMemoryStateStore returns an empty MemoryStateStore.
func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{states: make(map[string]domain.PostingState)}
}

func (s *MemoryStateStore) LoadState(action string) (domain.PostingState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[action]
	return st, ok, nil
}

func (s *MemoryStateStore) SaveState(action string, st domain.PostingState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[action] = st
	s.saves++
	return nil
}

// Saves returns how many times SaveState has been called.
func (s *MemoryStateStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

var _ domain.StateStore = (*MemoryStateStore)(nil)

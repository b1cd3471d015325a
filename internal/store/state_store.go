package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"maxbitcoins/internal/domain"
)

const stateFileSuffix = "_state.json"

// StateFileStore persists one PostingState per action type as
// <dir>/<action>_state.json.
type StateFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewStateFileStore returns a StateFileStore rooted at dir. The directory is
// created on first save.
func NewStateFileStore(dir string) *StateFileStore {
	return &StateFileStore{dir: dir}
}

// LoadState reads the state for action. A missing file yields a zero state
// and ok=false; a corrupted file is an error.
func (s *StateFileStore) LoadState(action string) (domain.PostingState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.path(action)
	if err != nil {
		return domain.PostingState{}, false, err
	}
	var st domain.PostingState
	found, err := readJSON(path, &st)
	if err != nil {
		return domain.PostingState{}, false, err
	}
	return st, found, nil
}

// SaveState atomically replaces the state file for action.
func (s *StateFileStore) SaveState(action string, st domain.PostingState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.path(action)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	return writeJSON(path, st, 0o600)
}

// Path returns the file that holds the state for action.
func (s *StateFileStore) Path(action string) (string, error) { return s.path(action) }

func (s *StateFileStore) path(action string) (string, error) {
	if err := validateAction(action); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, action+stateFileSuffix), nil
}

// validateAction keeps action names usable as file names.
func validateAction(action string) error {
	if action == "" {
		return fmt.Errorf("%w: empty action name", domain.ErrUnknownAction)
	}
	for i := 0; i < len(action); i++ {
		c := action[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '_', c == '-':
		default:
			return fmt.Errorf("%w: %q contains characters outside [a-z0-9_-]", domain.ErrUnknownAction, action)
		}
	}
	return nil
}

// Compile-time assertion that StateFileStore implements domain.StateStore.
var _ domain.StateStore = (*StateFileStore)(nil)

package washsale

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// State is the engine's full persistable state. Lots are derivable from the
// transactions and splits; they are persisted anyway so external consumers
// can read positions without replaying the ledger.
type State struct {
	Transactions []Transaction
	ShareLots    []ShareLot
	StockSplits  []StockSplit
}

// Store is the injected persistence boundary. The engine makes no assumption
// about the storage technology behind it.
type Store interface {
	Load() (*State, error)
	Save(*State) error
}

// FileStore persists state to a single local JSONL file, one record per line.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads and decodes the state file. A missing file yields an empty state.
func (s *FileStore) Load() (*State, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &State{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open state file %q: %w", s.path, err)
	}
	defer f.Close()

	state, err := DecodeState(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode state file %q: %w", s.path, err)
	}
	return state, nil
}

// Save encodes the state to the file, creating parent directories as needed.
func (s *FileStore) Save(state *State) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("could not create directory for %q: %w", s.path, err)
		}
	}
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("could not open state file %q for writing: %w", s.path, err)
	}
	defer f.Close()

	return EncodeState(f, state)
}

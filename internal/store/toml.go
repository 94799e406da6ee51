package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/papapumpkin/kouan/internal/board"
)

// FileStore keeps the state in a single TOML file.
type FileStore struct {
	path string
}

// NewFileStore returns a store for the TOML file at path. Nothing is read or
// created until Load or Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Location returns the file path.
func (s *FileStore) Location() string { return s.path }

// Load reads and parses the state file.
func (s *FileStore) Load(_ context.Context) (board.State, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return board.State{}, ErrNotFound
		}
		return board.State{}, fmt.Errorf("store: read %s: %w", s.path, err)
	}

	var st board.State
	if err := toml.Unmarshal(data, &st); err != nil {
		return board.State{}, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.path, err)
	}
	if err := checkVersion(st.Version); err != nil {
		return board.State{}, err
	}
	return st, nil
}

// Save writes the state file atomically (write temp + rename).
func (s *FileStore) Save(_ context.Context, st board.State) error {
	data, err := toml.Marshal(st)
	if err != nil {
		return fmt.Errorf("store: marshal state: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("store: create state dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("store: write temp state file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("store: rename state file: %w", err)
	}
	return nil
}

// Close does nothing; the file is not held open.
func (s *FileStore) Close() error { return nil }

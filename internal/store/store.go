// Package store writes and reads the persisted project State. Every save
// replaces the whole state; there is no incremental format.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/papapumpkin/kouan/internal/board"
)

// Sentinel errors returned by Load.
var (
	// ErrNotFound indicates nothing has been saved at the location yet.
	ErrNotFound = errors.New("store: no saved state")
	// ErrUnsupportedVersion indicates state written by a newer schema.
	ErrUnsupportedVersion = errors.New("store: unsupported state version")
	// ErrCorrupt indicates the saved state could not be parsed.
	ErrCorrupt = errors.New("store: corrupt state")
)

// Store persists a project State.
type Store interface {
	// Load returns the saved state, or ErrNotFound when none exists.
	Load(ctx context.Context) (board.State, error)
	// Save replaces the saved state with st.
	Save(ctx context.Context, st board.State) error
	// Location names where the state lives, for messages and file watching.
	Location() string
	Close() error
}

// Backend names accepted by Open.
const (
	BackendTOML   = "toml"
	BackendSQLite = "sqlite"
)

// Open returns the store for backend at path.
func Open(ctx context.Context, backend, path string) (Store, error) {
	switch backend {
	case BackendTOML, "":
		return NewFileStore(path), nil
	case BackendSQLite:
		return NewSQLiteStore(ctx, path)
	default:
		return nil, fmt.Errorf("store: unknown backend %q", backend)
	}
}

func checkVersion(v int) error {
	if v > board.CurrentVersion {
		return fmt.Errorf("%w: %d (newest known %d)", ErrUnsupportedVersion, v, board.CurrentVersion)
	}
	return nil
}

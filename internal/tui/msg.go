package tui

import (
	"time"

	"github.com/papapumpkin/kouan/internal/autosave"
	"github.com/papapumpkin/kouan/internal/board"
	"github.com/papapumpkin/kouan/internal/watch"
)

// MsgTick is sent every second to refresh relative times.
type MsgTick struct {
	Time time.Time
}

// MsgAutosave asks the model to flush dirty documents and queue a snapshot.
// The autosave schedule sends it from its own goroutine.
type MsgAutosave struct{}

// MsgSaved reports the outcome of a write to the store.
type MsgSaved struct {
	Result autosave.Result
}

// MsgExternalChange reports that another process changed the state file.
type MsgExternalChange struct {
	Change watch.Change
}

// MsgReloaded carries a project freshly read from the store.
type MsgReloaded struct {
	Project *board.Project
	Report  board.LoadReport
	Err     error
}

// MsgExported reports a finished PNG export.
type MsgExported struct {
	Path     string
	Failures []error
	Err      error
}

// MsgInfo is a transient informational message.
type MsgInfo struct {
	Msg string
}

// MsgError is a transient error message.
type MsgError struct {
	Msg string
}

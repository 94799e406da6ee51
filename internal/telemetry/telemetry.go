// Package telemetry records an append-only JSONL audit trail of what happened
// to a project: loads, flushes, disk saves, skipped records and autosave
// ticks. A run can be reconstructed from the file after the fact.
package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// Event kinds identify the type of telemetry event.
const (
	KindLoad        = "load"
	KindLoadFailed  = "load_failed"
	KindSkipElement = "skip_element"
	KindFlush       = "flush"
	KindSave        = "save"
	KindSaveFailed  = "save_failed"
	KindAutosave    = "autosave"
	KindExport      = "export"
	KindExternal    = "external_change"
)

// Event is a single telemetry record. File carries the document id or name
// the event concerns, when there is one.
type Event struct {
	Timestamp time.Time `json:"ts"`
	Kind      string    `json:"kind"`
	File      string    `json:"file,omitempty"`
	Data      any       `json:"data,omitempty"`
}

// Emitter writes telemetry events to a JSONL file. It is safe for concurrent
// use: the autosave goroutine and the event loop both emit. A nil *Emitter is
// a valid no-op emitter.
type Emitter struct {
	file *os.File
	enc  *json.Encoder
	mu   sync.Mutex
	now  func() time.Time
}

// NewEmitter creates a new Emitter that writes JSONL events to the file at
// path. The file is created if it does not exist, or appended to if it does.
func NewEmitter(path string) (*Emitter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("telemetry: open %s: %w", path, err)
	}
	return &Emitter{
		file: f,
		enc:  json.NewEncoder(f),
		now:  time.Now,
	}, nil
}

// Emit writes a single event to the JSONL file. A zero Timestamp is stamped
// with the current time. Calling Emit on a nil Emitter is a no-op.
func (e *Emitter) Emit(evt Event) error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if evt.Timestamp.IsZero() {
		evt.Timestamp = e.now()
	}
	if err := e.enc.Encode(evt); err != nil {
		return fmt.Errorf("telemetry: encode event: %w", err)
	}
	return nil
}

// Record emits an event of the given kind and drops any write error. It is
// for call sites where a lost audit line must not interrupt editing.
func (e *Emitter) Record(kind, file string, data any) {
	_ = e.Emit(Event{Kind: kind, File: file, Data: data})
}

// Close flushes and closes the underlying file. Calling Close on a nil
// Emitter is a no-op.
func (e *Emitter) Close() error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.file.Close(); err != nil {
		return fmt.Errorf("telemetry: close: %w", err)
	}
	return nil
}

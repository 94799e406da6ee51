// Package autosave writes project snapshots off the event goroutine. The
// caller takes a Snapshot of the model where it owns it and hands the copy
// to a Saver; pending copies coalesce so only the newest is written.
package autosave

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/papapumpkin/kouan/internal/board"
	"github.com/papapumpkin/kouan/internal/store"
)

// ErrStopped is returned by Submit after Stop.
var ErrStopped = errors.New("autosave: saver stopped")

// Result reports one completed write.
type Result struct {
	// Rev is the revision of the snapshot that was written.
	Rev      uint64
	Files    int
	Duration time.Duration
	Err      error
}

// Saver writes snapshots to a store on its own goroutine. Writes are spaced
// by the WithMinInterval throttle; snapshots submitted in between replace
// each other and only the last one is written.
type Saver struct {
	st      store.Store
	limiter *rate.Limiter
	onSave  func(Result)

	mu      sync.Mutex
	pending *queued
	seq     uint64
	stopped bool

	// writeMu serializes store writes between the goroutine and Flush;
	// written is the sequence number of the newest snapshot on disk.
	writeMu sync.Mutex
	written uint64

	wake   chan struct{}
	cancel context.CancelFunc
	done   chan struct{}
}

// SaverOption configures a Saver.
type SaverOption func(*Saver)

// WithMinInterval spaces writes at least d apart. Zero disables throttling.
func WithMinInterval(d time.Duration) SaverOption {
	return func(s *Saver) {
		if d <= 0 {
			s.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		s.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithResultFunc registers fn to observe every write. It runs on the saver
// goroutine.
func WithResultFunc(fn func(Result)) SaverOption {
	return func(s *Saver) { s.onSave = fn }
}

// NewSaver starts a saver writing to st.
func NewSaver(st store.Store, opts ...SaverOption) *Saver {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Saver{
		st:      st,
		limiter: rate.NewLimiter(rate.Inf, 1),
		wake:    make(chan struct{}, 1),
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	go s.run(ctx)
	return s
}

// Submit queues snap for writing and returns immediately. The saver keeps
// its own reference, so snap must not be modified afterwards.
func (s *Saver) Submit(snap board.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return ErrStopped
	}
	s.seq++
	s.pending = &queued{seq: s.seq, snap: snap}
	select {
	case s.wake <- struct{}{}:
	default:
	}
	return nil
}

type queued struct {
	seq  uint64
	snap board.State
}

func (s *Saver) take() *queued {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.pending
	s.pending = nil
	return p
}

func (s *Saver) run(ctx context.Context) {
	defer close(s.done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.wake:
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return
		}
		// Stop must not interrupt a write whose snapshot left the queue.
		if q := s.take(); q != nil {
			_ = s.write(context.Background(), q) // reported through onSave
		}
	}
}

// write saves q unless a newer snapshot is already on disk.
func (s *Saver) write(ctx context.Context, q *queued) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if q.seq <= s.written {
		return nil
	}
	snap := q.snap
	start := time.Now()
	err := s.st.Save(ctx, snap)
	if err != nil {
		err = fmt.Errorf("autosave: %w", err)
	} else {
		s.written = q.seq
	}
	if s.onSave != nil {
		s.onSave(Result{Rev: snap.Rev, Files: len(snap.Files), Duration: time.Since(start), Err: err})
	}
	return err
}

// Flush writes snap synchronously, skipping the throttle, and drops any
// pending snapshot it supersedes.
func (s *Saver) Flush(ctx context.Context, snap board.State) error {
	s.mu.Lock()
	s.seq++
	q := &queued{seq: s.seq, snap: snap}
	s.pending = nil
	s.mu.Unlock()
	return s.write(ctx, q)
}

// Stop halts the background goroutine and writes the last pending snapshot,
// if any, before returning.
func (s *Saver) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	s.mu.Unlock()

	s.cancel()
	select {
	case <-s.done:
	case <-ctx.Done():
		return fmt.Errorf("autosave: stop: %w", ctx.Err())
	}
	if q := s.take(); q != nil {
		return s.write(ctx, q)
	}
	return nil
}

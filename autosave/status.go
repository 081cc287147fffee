package autosave

import (
	"sync"
	"time"
)

// Status is the externally-observable save state, driven only by the
// coordinator. The cycle has no terminal state: saved auto-reverts to idle
// after a short display window, and error clears on the next edit.
type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusSaving
	StatusSaved
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusSaving:
		return "saving"
	case StatusSaved:
		return "saved"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

type statusTracker struct {
	mu            sync.Mutex
	status        Status
	displayWindow time.Duration
	revertTimer   *time.Timer
	gen           uint64
	listeners     map[int]func(Status)
	nextID        int
}

func newStatusTracker(displayWindow time.Duration) *statusTracker {
	return &statusTracker{
		displayWindow: displayWindow,
		listeners:     map[int]func(Status){},
	}
}

func (t *statusTracker) current() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

func (t *statusTracker) onChange(fn func(Status)) func() {
	t.mu.Lock()
	id := t.nextID
	t.nextID++
	t.listeners[id] = fn
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		delete(t.listeners, id)
		t.mu.Unlock()
	}
}

// edited moves to pending; a new edit also implicitly clears a prior
// error. An in-flight save keeps its saving state.
func (t *statusTracker) edited() {
	t.mu.Lock()
	if t.status == StatusSaving {
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()
	t.set(StatusPending)
}

func (t *statusTracker) saving() {
	t.set(StatusSaving)
}

// saved shows the saved state for the display window, then reverts to
// idle unless something else moved the status first.
func (t *statusTracker) saved() {
	t.set(StatusSaved)

	t.mu.Lock()
	t.gen++
	gen := t.gen
	if t.revertTimer != nil {
		t.revertTimer.Stop()
	}
	t.revertTimer = time.AfterFunc(t.displayWindow, func() {
		t.mu.Lock()
		stale := t.gen != gen || t.status != StatusSaved
		t.mu.Unlock()
		if !stale {
			t.set(StatusIdle)
		}
	})
	t.mu.Unlock()
}

func (t *statusTracker) failed() {
	t.set(StatusError)
}

func (t *statusTracker) reset() {
	t.set(StatusIdle)
}

func (t *statusTracker) stop() {
	t.mu.Lock()
	t.gen++
	if t.revertTimer != nil {
		t.revertTimer.Stop()
		t.revertTimer = nil
	}
	t.mu.Unlock()
}

func (t *statusTracker) set(status Status) {
	t.mu.Lock()
	if t.status == status {
		t.mu.Unlock()
		return
	}
	t.status = status
	fns := make([]func(Status), 0, len(t.listeners))
	for _, fn := range t.listeners {
		fns = append(fns, fn)
	}
	t.mu.Unlock()

	for _, fn := range fns {
		fn(status)
	}
}

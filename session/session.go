package session

import (
	"sync"
)

// Snapshot is the full value of the editor session at one point in time.
// Listeners receive it so they never have to read back through the lock.
type Snapshot struct {
	DocumentID *uint64
	Content    string
	Title      string
	Dirty      bool
	Saving     bool
	SaveError  *string
}

// Listener receives the post-mutation snapshot on every session change.
type Listener func(Snapshot)

// Editor owns the currently-open document's editable state. Dirty is true
// exactly when content or title diverge from the last value loaded or
// persisted for the current document. All mutation goes through its
// methods; there is no I/O here.
type Editor struct {
	mu        sync.Mutex
	state     Snapshot
	listeners map[int]Listener
	nextID    int
}

func NewEditor() *Editor {
	return &Editor{listeners: map[int]Listener{}}
}

// OnChange registers a listener and returns its unsubscribe func.
func (e *Editor) OnChange(fn Listener) func() {
	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.listeners[id] = fn
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.listeners, id)
		e.mu.Unlock()
	}
}

// Snapshot returns the current session state.
func (e *Editor) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// SetContent replaces the content and marks the session dirty.
func (e *Editor) SetContent(text string) {
	e.mutate(func(s *Snapshot) {
		s.Content = text
		s.Dirty = true
	})
}

// SetTitle replaces the title and marks the session dirty. Empty titles are
// legal; display mapping to a default label happens outside this engine.
func (e *Editor) SetTitle(text string) {
	e.mutate(func(s *Snapshot) {
		s.Title = text
		s.Dirty = true
	})
}

// LoadDocument replaces the whole session state for a new document. Any
// in-memory edits not yet flushed are discarded; callers flush first when
// they must survive.
func (e *Editor) LoadDocument(id uint64, content, title string) {
	e.mutate(func(s *Snapshot) {
		*s = Snapshot{
			DocumentID: &id,
			Content:    content,
			Title:      title,
		}
	})
}

// Clear resets the session to its empty startup state.
func (e *Editor) Clear() {
	e.mutate(func(s *Snapshot) {
		*s = Snapshot{}
	})
}

// MarkSaving sets the saving flag.
func (e *Editor) MarkSaving(saving bool) {
	e.mutate(func(s *Snapshot) {
		s.Saving = saving
	})
}

// MarkSaveError sets or clears the surfaced save error.
func (e *Editor) MarkSaveError(msg *string) {
	e.mutate(func(s *Snapshot) {
		s.SaveError = msg
	})
}

// MarkClean clears only the dirty flag. Saving and SaveError are owned by
// their own transitions. Idempotent.
func (e *Editor) MarkClean() {
	e.mutate(func(s *Snapshot) {
		s.Dirty = false
	})
}

func (e *Editor) mutate(fn func(*Snapshot)) {
	e.mu.Lock()
	fn(&e.state)
	snap := e.state
	fns := make([]Listener, 0, len(e.listeners))
	for _, l := range e.listeners {
		fns = append(fns, l)
	}
	e.mu.Unlock()

	// Notify outside the lock so listeners may call back into the editor.
	for _, fn := range fns {
		fn(snap)
	}
}

package journal

import (
	"sync"
)

// MemoryJournal keeps the slot in process memory. It does not survive a
// restart; it exists for tests and for embedding the engine somewhere a
// durable slot is not wanted.
type MemoryJournal struct {
	mu    sync.Mutex
	entry *Entry
}

func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{}
}

func (j *MemoryJournal) Read() (*Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.entry == nil {
		return nil, nil
	}
	entry := *j.entry
	return &entry, nil
}

func (j *MemoryJournal) Write(entry Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entry = &entry
	return nil
}

func (j *MemoryJournal) Clear() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entry = nil
	return nil
}

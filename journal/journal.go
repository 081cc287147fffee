// Package journal is the single-slot durable store for a pending change
// that would otherwise be lost with the session. At most one entry exists
// at a time; writes overwrite the slot.
package journal

import (
	"errors"
	"time"
)

// ErrCorrupt marks a slot whose stored entry could not be decoded. Readers
// treat it as "no entry" and clear the slot.
var ErrCorrupt = errors.New("journal entry corrupt")

// Entry is one unsaved change, written when a dirty session risks being
// lost and replayed (if fresh) on the next launch.
type Entry struct {
	DocumentID uint64    `json:"document_id"`
	Content    string    `json:"content"`
	Title      string    `json:"title"`
	Timestamp  time.Time `json:"timestamp"`
}

// Journal is the single-slot store contract.
type Journal interface {
	// Read returns the stored entry, nil when the slot is empty, or
	// ErrCorrupt when the slot holds something undecodable.
	Read() (*Entry, error)
	Write(entry Entry) error
	Clear() error
}

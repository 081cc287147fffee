package journal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempJournal(t *testing.T) *FileJournal {
	t.Helper()
	return NewFileJournal(filepath.Join(t.TempDir(), "recovery.json"))
}

func TestFileJournalEmptyReadsNil(t *testing.T) {
	j := tempJournal(t)

	entry, err := j.Read()

	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestFileJournalRoundTrip(t *testing.T) {
	j := tempJournal(t)
	written := Entry{
		DocumentID: 5,
		Content:    "unsaved",
		Title:      "Draft",
		Timestamp:  time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC),
	}

	require.NoError(t, j.Write(written))
	entry, err := j.Read()

	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, written, *entry)
}

func TestFileJournalSingleSlotOverwrites(t *testing.T) {
	j := tempJournal(t)

	require.NoError(t, j.Write(Entry{DocumentID: 1, Content: "old"}))
	require.NoError(t, j.Write(Entry{DocumentID: 2, Content: "new"}))

	entry, err := j.Read()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), entry.DocumentID)
	assert.Equal(t, "new", entry.Content)
}

func TestFileJournalClear(t *testing.T) {
	j := tempJournal(t)
	require.NoError(t, j.Write(Entry{DocumentID: 1}))

	require.NoError(t, j.Clear())
	// clearing an already-empty slot is fine
	require.NoError(t, j.Clear())

	entry, err := j.Read()
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestFileJournalCorruptEntry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "recovery.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	j := NewFileJournal(path)
	entry, err := j.Read()

	assert.Nil(t, entry)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestMemoryJournalRoundTrip(t *testing.T) {
	j := NewMemoryJournal()

	entry, err := j.Read()
	require.NoError(t, err)
	assert.Nil(t, entry)

	require.NoError(t, j.Write(Entry{DocumentID: 3, Content: "x"}))
	entry, err = j.Read()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), entry.DocumentID)

	require.NoError(t, j.Clear())
	entry, err = j.Read()
	require.NoError(t, err)
	assert.Nil(t, entry)
}

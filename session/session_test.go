package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetContentMarksDirty(t *testing.T) {
	editor := NewEditor()
	editor.SetContent("Hello")

	snap := editor.Snapshot()
	assert.Equal(t, "Hello", snap.Content)
	assert.True(t, snap.Dirty)
}

func TestSetTitleMarksDirty(t *testing.T) {
	editor := NewEditor()
	editor.SetTitle("Notes")

	snap := editor.Snapshot()
	assert.Equal(t, "Notes", snap.Title)
	assert.True(t, snap.Dirty)
}

func TestEmptyContentAndTitleAreLegal(t *testing.T) {
	editor := NewEditor()
	editor.LoadDocument(1, "draft", "Draft")
	editor.SetContent("")
	editor.SetTitle("")

	snap := editor.Snapshot()
	assert.Equal(t, "", snap.Content)
	assert.Equal(t, "", snap.Title)
	assert.True(t, snap.Dirty)
}

func TestLoadDocumentResetsEverything(t *testing.T) {
	editor := NewEditor()
	editor.SetContent("unsaved edits")
	editor.MarkSaving(true)
	msg := "network down"
	editor.MarkSaveError(&msg)

	editor.LoadDocument(7, "stored content", "Stored")

	snap := editor.Snapshot()
	assert.Equal(t, uint64(7), *snap.DocumentID)
	assert.Equal(t, "stored content", snap.Content)
	assert.Equal(t, "Stored", snap.Title)
	assert.False(t, snap.Dirty)
	assert.False(t, snap.Saving)
	assert.Nil(t, snap.SaveError)
}

func TestClearEmptiesSession(t *testing.T) {
	editor := NewEditor()
	editor.LoadDocument(3, "content", "Title")
	editor.SetContent("edited")

	editor.Clear()

	snap := editor.Snapshot()
	assert.Nil(t, snap.DocumentID)
	assert.Equal(t, "", snap.Content)
	assert.False(t, snap.Dirty)
}

func TestMarkCleanIsIdempotent(t *testing.T) {
	editor := NewEditor()
	editor.LoadDocument(1, "a", "b")
	editor.SetContent("c")
	editor.MarkSaving(true)

	editor.MarkClean()
	first := editor.Snapshot()
	editor.MarkClean()
	second := editor.Snapshot()

	assert.False(t, first.Dirty)
	assert.Equal(t, first, second)
	// MarkClean does not touch saving or the error flag
	assert.True(t, second.Saving)
}

func TestListenersReceiveSnapshotsAndUnsubscribe(t *testing.T) {
	editor := NewEditor()

	var seen []Snapshot
	unsub := editor.OnChange(func(s Snapshot) {
		seen = append(seen, s)
	})

	editor.SetContent("one")
	editor.SetContent("two")
	unsub()
	editor.SetContent("three")

	assert.Len(t, seen, 2)
	assert.Equal(t, "one", seen[0].Content)
	assert.Equal(t, "two", seen[1].Content)
}

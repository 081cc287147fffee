package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"draftsync/domain"
	"draftsync/session"
)

func ptr(id uint64) *uint64 { return &id }

func seeded() (*Collection, *session.Editor) {
	editor := session.NewEditor()
	coll := New(editor)
	coll.SetDocuments([]domain.Document{
		{ID: 1, Title: "Groceries", Content: "milk and eggs"},
		{ID: 2, Title: "Meeting Notes", Content: "quarterly review"},
	})
	return coll, editor
}

func TestSetCurrentLoadsCachedRecordIntoSession(t *testing.T) {
	coll, editor := seeded()

	ok := coll.SetCurrent(ptr(2))

	assert.True(t, ok)
	snap := editor.Snapshot()
	assert.Equal(t, uint64(2), *snap.DocumentID)
	assert.Equal(t, "quarterly review", snap.Content)
	assert.Equal(t, "Meeting Notes", snap.Title)
	assert.False(t, snap.Dirty)
}

func TestSetCurrentNilClearsSession(t *testing.T) {
	coll, editor := seeded()
	coll.SetCurrent(ptr(1))

	coll.SetCurrent(nil)

	assert.Nil(t, coll.CurrentID())
	assert.Nil(t, editor.Snapshot().DocumentID)
}

func TestSetCurrentUnknownIDIsRefused(t *testing.T) {
	coll, editor := seeded()
	coll.SetCurrent(ptr(1))

	ok := coll.SetCurrent(ptr(99))

	assert.False(t, ok)
	assert.Equal(t, uint64(1), *coll.CurrentID())
	assert.Equal(t, uint64(1), *editor.Snapshot().DocumentID)
}

func TestSelectionListenerFiresBeforeSessionLoads(t *testing.T) {
	coll, editor := seeded()
	coll.SetCurrent(ptr(1))
	editor.SetContent("draft")

	var contentAtFire string
	coll.OnSelectionChanged(func(prev, next *uint64) {
		contentAtFire = editor.Snapshot().Content
	})

	coll.SetCurrent(ptr(2))

	// the outgoing edits were still in the session when the listener ran
	assert.Equal(t, "draft", contentAtFire)
	assert.Equal(t, "quarterly review", editor.Snapshot().Content)
}

func TestRemoveCurrentClearsSelection(t *testing.T) {
	coll, editor := seeded()
	coll.SetCurrent(ptr(1))

	coll.Remove(1)

	assert.Nil(t, coll.CurrentID())
	assert.Nil(t, editor.Snapshot().DocumentID)
	assert.Len(t, coll.Documents(), 1)
}

func TestRemoveOtherKeepsSelection(t *testing.T) {
	coll, _ := seeded()
	coll.SetCurrent(ptr(1))

	coll.Remove(2)

	assert.Equal(t, uint64(1), *coll.CurrentID())
}

func TestSetDocumentsDropsOrphanedSelection(t *testing.T) {
	coll, editor := seeded()
	coll.SetCurrent(ptr(2))

	coll.SetDocuments([]domain.Document{{ID: 1, Title: "Groceries"}})

	assert.Nil(t, coll.CurrentID())
	assert.Nil(t, editor.Snapshot().DocumentID)
}

func TestUpdatePatchesCachedRecord(t *testing.T) {
	coll, _ := seeded()

	ok := coll.Update(1, domain.Overwrite("Shopping", "bread"))

	assert.True(t, ok)
	doc, _ := coll.Get(1)
	assert.Equal(t, "Shopping", doc.Title)
	assert.Equal(t, "bread", doc.Content)
	assert.False(t, coll.Update(42, domain.Overwrite("x", "y")))
}

func TestFilterIsCaseInsensitiveOverTitleAndContent(t *testing.T) {
	coll, _ := seeded()

	byTitle := coll.Filter("GROCER")
	byContent := coll.Filter("Quarterly")
	all := coll.Filter("")
	none := coll.Filter("missing")

	assert.Len(t, byTitle, 1)
	assert.Equal(t, uint64(1), byTitle[0].ID)
	assert.Len(t, byContent, 1)
	assert.Equal(t, uint64(2), byContent[0].ID)
	assert.Len(t, all, 2)
	assert.Empty(t, none)
}

func TestFilterSeesOptimisticEdits(t *testing.T) {
	coll, _ := seeded()

	// the coordinator writes unsaved edits into the cache before the
	// backend confirms them
	coll.Update(1, domain.Overwrite("Groceries", "avocados"))

	assert.Len(t, coll.Filter("avocados"), 1)
	assert.Empty(t, coll.Filter("milk"))
}

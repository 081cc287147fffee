package collection

import (
	"strings"
	"sync"

	"draftsync/domain"
	"draftsync/session"
)

// SelectionListener fires when the current document changes, before the
// incoming document is loaded into the session. This gives the autosave
// coordinator its chance to flush the outgoing document.
type SelectionListener func(prev, next *uint64)

// Collection owns the cached list of documents and which one is current.
// Invariant: a non-nil current id always references a cached record.
type Collection struct {
	mu        sync.Mutex
	documents []domain.Document
	currentID *uint64
	editor    *session.Editor
	listeners map[int]SelectionListener
	nextID    int
}

func New(editor *session.Editor) *Collection {
	return &Collection{
		editor:    editor,
		listeners: map[int]SelectionListener{},
	}
}

// OnSelectionChanged registers a listener and returns its unsubscribe func.
func (c *Collection) OnSelectionChanged(fn SelectionListener) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// SetDocuments replaces the whole cache. A current id that no longer
// resolves is cleared, clearing the session with it.
func (c *Collection) SetDocuments(docs []domain.Document) {
	c.mu.Lock()
	c.documents = append([]domain.Document(nil), docs...)
	orphaned := c.currentID != nil && c.findLocked(*c.currentID) == nil
	c.mu.Unlock()

	if orphaned {
		c.SetCurrent(nil)
	}
}

// Add appends a document to the cache.
func (c *Collection) Add(doc domain.Document) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.documents = append(c.documents, doc)
}

// Update applies a patch to the cached record. Used both after confirmed
// saves and optimistically before them, so the cache never trails the
// session for the open document.
func (c *Collection) Update(id uint64, patch domain.DocumentPatch) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	doc := c.findLocked(id)
	if doc == nil {
		return false
	}
	patch.Apply(doc, doc.UpdatedAt)
	return true
}

// Replace swaps the whole cached record for the one returned by the
// backend, keeping server-assigned timestamps.
func (c *Collection) Replace(doc domain.Document) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	cached := c.findLocked(doc.ID)
	if cached == nil {
		return false
	}
	*cached = doc
	return true
}

// Remove deletes the record from the cache. Removing the current document
// clears the selection and the session.
func (c *Collection) Remove(id uint64) {
	c.mu.Lock()
	kept := c.documents[:0]
	for _, doc := range c.documents {
		if doc.ID != id {
			kept = append(kept, doc)
		}
	}
	c.documents = kept
	wasCurrent := c.currentID != nil && *c.currentID == id
	c.mu.Unlock()

	if wasCurrent {
		c.SetCurrent(nil)
	}
}

// SetCurrent switches the selection. Listeners fire with the previous and
// next ids before the session is touched; only then is the cached record
// loaded (or the session cleared for nil). Selecting an id that is not in
// the cache is refused.
func (c *Collection) SetCurrent(id *uint64) bool {
	c.mu.Lock()
	var incoming *domain.Document
	if id != nil {
		incoming = c.findLocked(*id)
		if incoming == nil {
			c.mu.Unlock()
			return false
		}
	}
	prev := c.currentID
	c.currentID = id
	record := domain.Document{}
	if incoming != nil {
		record = *incoming
	}
	fns := make([]SelectionListener, 0, len(c.listeners))
	for _, l := range c.listeners {
		fns = append(fns, l)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(prev, id)
	}

	if id == nil {
		c.editor.Clear()
	} else {
		c.editor.LoadDocument(record.ID, record.Content, record.Title)
	}
	return true
}

// CurrentID returns the selected document id, nil when none.
func (c *Collection) CurrentID() *uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentID
}

// Get returns a copy of the cached record.
func (c *Collection) Get(id uint64) (domain.Document, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	doc := c.findLocked(id)
	if doc == nil {
		return domain.Document{}, false
	}
	return *doc, true
}

// Documents returns a copy of the cache.
func (c *Collection) Documents() []domain.Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Document(nil), c.documents...)
}

// Filter returns the cached documents whose title or content contains the
// query, case-insensitively. An empty query matches everything. Purely
// local; the optimistic cache writes keep the active document's text
// current even while a save is pending.
func (c *Collection) Filter(query string) []domain.Document {
	c.mu.Lock()
	defer c.mu.Unlock()

	query = strings.ToLower(query)
	matched := make([]domain.Document, 0, len(c.documents))
	for _, doc := range c.documents {
		if query == "" ||
			strings.Contains(strings.ToLower(doc.Title), query) ||
			strings.Contains(strings.ToLower(doc.Content), query) {
			matched = append(matched, doc)
		}
	}
	return matched
}

func (c *Collection) findLocked(id uint64) *domain.Document {
	for i := range c.documents {
		if c.documents[i].ID == id {
			return &c.documents[i]
		}
	}
	return nil
}

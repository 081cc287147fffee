// Package autosave bridges the editor session, the document collection,
// the persistence gateway and the recovery journal. It coalesces rapid
// edits into debounced saves, flushes the outgoing document on selection
// changes, journals dirty state around page-lifecycle events and replays
// fresh journal entries on startup.
package autosave

import (
	"context"
	"log"
	"sync"
	"time"

	"draftsync/collection"
	"draftsync/domain"
	"draftsync/gateway"
	"draftsync/journal"
	"draftsync/lifecycle"
	"draftsync/session"
	"draftsync/worker"
)

// Config carries the engine tunables. Zero values fall back to the
// defaults below.
type Config struct {
	// DebounceInterval is the quiet period after the last edit before a
	// save fires.
	DebounceInterval time.Duration
	// JournalMaxAge is how old a journal entry may be and still be
	// replayed on startup.
	JournalMaxAge time.Duration
	// SavedDisplayWindow is how long the saved status is shown before
	// reverting to idle.
	SavedDisplayWindow time.Duration
	// SaveTimeout bounds a single gateway update started by the engine.
	SaveTimeout time.Duration
	// Now is the clock; tests inject it. Defaults to time.Now.
	Now func() time.Time
}

const (
	defaultDebounceInterval   = 2 * time.Second
	defaultJournalMaxAge      = 5 * time.Minute
	defaultSavedDisplayWindow = 2 * time.Second
	defaultSaveTimeout        = 10 * time.Second
)

func (c Config) withDefaults() Config {
	if c.DebounceInterval <= 0 {
		c.DebounceInterval = defaultDebounceInterval
	}
	if c.JournalMaxAge <= 0 {
		c.JournalMaxAge = defaultJournalMaxAge
	}
	if c.SavedDisplayWindow <= 0 {
		c.SavedDisplayWindow = defaultSavedDisplayWindow
	}
	if c.SaveTimeout <= 0 {
		c.SaveTimeout = defaultSaveTimeout
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

// editTuple is the slice of session state the debounce path watches.
// Flag-only transitions (saving, saveError) leave it unchanged and so
// never reschedule the timer.
type editTuple struct {
	hasDoc  bool
	docID   uint64
	content string
	title   string
	dirty   bool
}

func tupleOf(snap session.Snapshot) editTuple {
	t := editTuple{
		content: snap.Content,
		title:   snap.Title,
		dirty:   snap.Dirty,
	}
	if snap.DocumentID != nil {
		t.hasDoc = true
		t.docID = *snap.DocumentID
	}
	return t
}

// Coordinator is the sync engine. Construct with NewCoordinator, call
// Start once for recovery, Close on teardown.
type Coordinator struct {
	cfg     Config
	editor  *session.Editor
	coll    *collection.Collection
	gateway gateway.Gateway
	journal journal.Journal
	runner  worker.Runner

	flush  *FlushController
	status *statusTracker

	mu     sync.Mutex
	last   editTuple
	unsubs []func()
}

// NewCoordinator wires the coordinator to its collaborators and
// subscribes to session, selection and (when non-nil) lifecycle events.
func NewCoordinator(
	cfg Config,
	editor *session.Editor,
	coll *collection.Collection,
	gw gateway.Gateway,
	jnl journal.Journal,
	runner worker.Runner,
	events *lifecycle.Emitter,
) *Coordinator {
	cfg = cfg.withDefaults()
	c := &Coordinator{
		cfg:     cfg,
		editor:  editor,
		coll:    coll,
		gateway: gw,
		journal: jnl,
		runner:  runner,
		status:  newStatusTracker(cfg.SavedDisplayWindow),
	}
	c.flush = NewFlushController(cfg.DebounceInterval, c.saveCurrent)
	c.last = tupleOf(editor.Snapshot())

	c.unsubs = append(c.unsubs,
		editor.OnChange(c.onSessionChange),
		coll.OnSelectionChanged(c.onSelectionChange),
	)
	if events != nil {
		c.unsubs = append(c.unsubs,
			events.SubscribeHidden(c.NotifyHidden),
			events.SubscribeBeforeUnload(c.NotifyBeforeUnload),
		)
	}
	return c
}

// Status returns the externally-observable save status.
func (c *Coordinator) Status() Status {
	return c.status.current()
}

// OnStatusChanged registers a status listener and returns its
// unsubscribe func.
func (c *Coordinator) OnStatusChanged(fn func(Status)) func() {
	return c.status.onChange(fn)
}

// Start replays a fresh journal entry left behind by an interrupted
// session. A stale entry is discarded without touching the backend; a
// failed replay is logged and swallowed so startup is never blocked. The
// slot is cleared in every case.
func (c *Coordinator) Start(ctx context.Context) {
	entry, err := c.journal.Read()
	if err != nil {
		log.Printf("[AUTOSAVE ERROR] recovery journal unreadable, discarding: %v", err)
		c.clearJournal()
		return
	}
	if entry == nil {
		return
	}
	defer c.clearJournal()

	if c.cfg.Now().Sub(entry.Timestamp) > c.cfg.JournalMaxAge {
		log.Printf("[AUTOSAVE] discarding stale recovery entry for document %d", entry.DocumentID)
		return
	}

	doc, err := c.gateway.Update(ctx, entry.DocumentID, domain.Overwrite(entry.Title, entry.Content))
	if err != nil {
		log.Printf("[AUTOSAVE ERROR] recovery replay for document %d failed: %v", entry.DocumentID, err)
		return
	}
	if doc != nil && !c.coll.Replace(*doc) {
		c.coll.Add(*doc)
	}
}

// Close unsubscribes from all event sources and stops the timers. Pending
// debounced work is dropped; callers wanting it persisted flush first
// (Logout does).
func (c *Coordinator) Close() {
	for _, unsub := range c.unsubs {
		unsub()
	}
	c.unsubs = nil
	c.flush.CancelPending()
	c.status.stop()
}

// Logout flushes the current document synchronously before sign-out.
// Failures are logged but never block the sign-out itself.
func (c *Coordinator) Logout(ctx context.Context) {
	c.flush.CancelPending()

	snap := c.editor.Snapshot()
	if !snap.Dirty || snap.DocumentID == nil {
		return
	}
	id := *snap.DocumentID
	patch := domain.Overwrite(snap.Title, snap.Content)
	c.coll.Update(id, patch)

	if _, err := c.gateway.Update(ctx, id, patch); err != nil {
		log.Printf("[AUTOSAVE ERROR] logout flush for document %d failed: %v", id, err)
		return
	}
	c.editor.MarkClean()
}

// SaveNow is the manual save trigger: it cancels any pending debounce and
// saves the current document immediately on the caller's goroutine. After
// a failed debounced save this is the user's alternative to editing again.
func (c *Coordinator) SaveNow() {
	c.flush.FlushNow()
}

// NotifyHidden journals the dirty session when the tab loses visibility.
func (c *Coordinator) NotifyHidden() {
	c.journalDirty()
}

// NotifyBeforeUnload journals the dirty session before the page closes
// and reports whether the surface should ask for leave confirmation.
func (c *Coordinator) NotifyBeforeUnload() bool {
	return c.journalDirty()
}

// journalDirty writes the pending-change slot and optimistically updates
// the cache, so an in-session re-render already shows the latest text.
func (c *Coordinator) journalDirty() bool {
	snap := c.editor.Snapshot()
	if !snap.Dirty || snap.DocumentID == nil {
		return false
	}
	id := *snap.DocumentID

	entry := journal.Entry{
		DocumentID: id,
		Content:    snap.Content,
		Title:      snap.Title,
		Timestamp:  c.cfg.Now(),
	}
	if err := c.journal.Write(entry); err != nil {
		log.Printf("[AUTOSAVE ERROR] journaling document %d failed: %v", id, err)
	}
	c.coll.Update(id, domain.Overwrite(snap.Title, snap.Content))
	return true
}

// onSessionChange watches the (dirty, document, content, title) tuple and
// restarts the quiet-period timer on every edit.
func (c *Coordinator) onSessionChange(snap session.Snapshot) {
	tuple := tupleOf(snap)
	c.mu.Lock()
	prev := c.last
	c.last = tuple
	c.mu.Unlock()

	if tuple == prev {
		return
	}
	if tuple.dirty && tuple.hasDoc {
		c.status.edited()
		c.flush.ScheduleDebounced()
	}
}

// onSelectionChange fires before the incoming document loads. A dirty
// outgoing document is flushed immediately, best-effort: the cache is
// updated optimistically, the write goes through the runner, and failures
// are logged without interrupting the navigation.
func (c *Coordinator) onSelectionChange(prev, next *uint64) {
	c.mu.Lock()
	outgoing := c.last
	c.mu.Unlock()
	c.flush.CancelPending()

	if !outgoing.dirty || !outgoing.hasDoc {
		return
	}
	id := outgoing.docID
	patch := domain.Overwrite(outgoing.title, outgoing.content)
	c.coll.Update(id, patch)

	c.status.saving()
	c.runner.Submit(func(ctx context.Context) error {
		doc, err := c.gateway.Update(ctx, id, patch)
		if err != nil {
			log.Printf("[AUTOSAVE ERROR] flush of document %d on switch failed: %v", id, err)
			c.status.reset()
			return nil
		}
		if doc != nil {
			c.coll.Replace(*doc)
		}
		c.status.saved()
		return nil
	})
}

// saveCurrent is the debounce-timer target. Failures surface through
// saveError and are not retried; the user edits again or saves manually.
func (c *Coordinator) saveCurrent() {
	snap := c.editor.Snapshot()
	if !snap.Dirty || snap.DocumentID == nil {
		return
	}
	id := *snap.DocumentID
	patch := domain.Overwrite(snap.Title, snap.Content)

	c.editor.MarkSaving(true)
	c.editor.MarkSaveError(nil)
	c.status.saving()

	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.SaveTimeout)
	defer cancel()

	doc, err := c.gateway.Update(ctx, id, patch)
	if err != nil {
		msg := err.Error()
		c.editor.MarkSaving(false)
		c.editor.MarkSaveError(&msg)
		c.status.failed()
		return
	}

	c.coll.Update(id, patch)
	if doc != nil {
		c.coll.Replace(*doc)
	}

	// Edits made while the save was in flight stay dirty; their own timer
	// is already running.
	after := c.editor.Snapshot()
	if after.DocumentID != nil && *after.DocumentID == id &&
		after.Content == snap.Content && after.Title == snap.Title {
		c.editor.MarkClean()
	}
	c.editor.MarkSaving(false)
	c.status.saved()
}

func (c *Coordinator) clearJournal() {
	if err := c.journal.Clear(); err != nil {
		log.Printf("[AUTOSAVE ERROR] clearing recovery journal failed: %v", err)
	}
}

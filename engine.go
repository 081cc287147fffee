// Package draftsync keeps an in-memory editing session, a document
// collection, a remote persistence backend and a local recovery journal
// mutually consistent while the user edits. Engine assembles the pieces;
// the subpackages stay independently usable.
package draftsync

import (
	"context"
	"time"

	"draftsync/autosave"
	"draftsync/collection"
	"draftsync/gateway"
	"draftsync/journal"
	"draftsync/lifecycle"
	"draftsync/session"
	"draftsync/worker"
)

// Options configures Engine assembly. Zero values get sensible defaults.
type Options struct {
	// Gateway reaches the persistence backend. Required.
	Gateway gateway.Gateway
	// Journal holds the single recovery slot. Defaults to an in-memory
	// slot; pass journal.NewFileJournal for durability across restarts.
	Journal journal.Journal
	// Autosave carries the engine tunables (debounce interval, journal
	// freshness window, clock).
	Autosave autosave.Config
	// Workers is the background-save pool size.
	Workers int
}

// Engine is the assembled autosave engine.
type Engine struct {
	Session    *session.Editor
	Collection *collection.Collection
	Lifecycle  *lifecycle.Emitter
	Autosave   *autosave.Coordinator

	gateway gateway.Gateway
	pool    *worker.Pool
}

func New(opts Options) *Engine {
	if opts.Journal == nil {
		opts.Journal = journal.NewMemoryJournal()
	}
	if opts.Workers <= 0 {
		opts.Workers = 2
	}

	editor := session.NewEditor()
	coll := collection.New(editor)
	events := lifecycle.NewEmitter()
	pool := worker.NewPool(opts.Workers, 15*time.Second)

	coord := autosave.NewCoordinator(
		opts.Autosave,
		editor,
		coll,
		opts.Gateway,
		opts.Journal,
		pool,
		events,
	)

	return &Engine{
		Session:    editor,
		Collection: coll,
		Lifecycle:  events,
		Autosave:   coord,
		gateway:    opts.Gateway,
		pool:       pool,
	}
}

// Start loads the document list into the collection and replays any fresh
// recovery entry.
func (e *Engine) Start(ctx context.Context) error {
	docs, err := e.gateway.List(ctx)
	if err != nil {
		return err
	}
	e.Collection.SetDocuments(docs)
	e.Autosave.Start(ctx)
	return nil
}

// Close tears the engine down, waiting for in-flight background saves.
func (e *Engine) Close() {
	e.Autosave.Close()
	e.pool.Shutdown()
}

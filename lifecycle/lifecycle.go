// Package lifecycle is the page-lifecycle port the autosave coordinator
// subscribes to. The embedding surface fires Hidden when the tab loses
// visibility and BeforeUnload when the page is about to close; the engine
// never touches ambient window/document listeners itself.
package lifecycle

import (
	"sync"
)

// Emitter fans page-lifecycle events out to subscribers.
type Emitter struct {
	mu           sync.Mutex
	hidden       map[int]func()
	beforeUnload map[int]func() bool
	nextID       int
}

func NewEmitter() *Emitter {
	return &Emitter{
		hidden:       map[int]func(){},
		beforeUnload: map[int]func() bool{},
	}
}

// SubscribeHidden registers a tab-hidden handler and returns its
// unsubscribe func.
func (e *Emitter) SubscribeHidden(fn func()) func() {
	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.hidden[id] = fn
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.hidden, id)
		e.mu.Unlock()
	}
}

// SubscribeBeforeUnload registers an unload handler. A handler returning
// true asks the surface to show a leave-confirmation prompt.
func (e *Emitter) SubscribeBeforeUnload(fn func() bool) func() {
	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.beforeUnload[id] = fn
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.beforeUnload, id)
		e.mu.Unlock()
	}
}

// FireHidden notifies all tab-hidden handlers.
func (e *Emitter) FireHidden() {
	for _, fn := range e.hiddenHandlers() {
		fn()
	}
}

// FireBeforeUnload notifies all unload handlers and reports whether any of
// them requested a confirmation prompt.
func (e *Emitter) FireBeforeUnload() bool {
	prompt := false
	for _, fn := range e.unloadHandlers() {
		if fn() {
			prompt = true
		}
	}
	return prompt
}

func (e *Emitter) hiddenHandlers() []func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	fns := make([]func(), 0, len(e.hidden))
	for _, fn := range e.hidden {
		fns = append(fns, fn)
	}
	return fns
}

func (e *Emitter) unloadHandlers() []func() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	fns := make([]func() bool, 0, len(e.beforeUnload))
	for _, fn := range e.beforeUnload {
		fns = append(fns, fn)
	}
	return fns
}

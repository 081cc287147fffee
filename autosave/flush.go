package autosave

import (
	"sync"
	"time"
)

// FlushController owns the one debounce timer every trigger path goes
// through. Scheduling always replaces the previous timer, so at most one
// is outstanding; a generation counter keeps an already-fired timer from
// running after it was cancelled.
type FlushController struct {
	mu    sync.Mutex
	delay time.Duration
	fire  func()
	timer *time.Timer
	gen   uint64
}

func NewFlushController(delay time.Duration, fire func()) *FlushController {
	return &FlushController{delay: delay, fire: fire}
}

// ScheduleDebounced restarts the quiet-period timer. The fire callback
// runs only if no further schedule or cancel happens first.
func (f *FlushController) ScheduleDebounced() {
	f.mu.Lock()
	f.gen++
	gen := f.gen
	if f.timer != nil {
		f.timer.Stop()
	}
	f.timer = time.AfterFunc(f.delay, func() {
		f.mu.Lock()
		if f.gen != gen {
			f.mu.Unlock()
			return
		}
		f.timer = nil
		f.mu.Unlock()
		f.fire()
	})
	f.mu.Unlock()
}

// CancelPending drops any outstanding timer without firing.
func (f *FlushController) CancelPending() {
	f.mu.Lock()
	f.gen++
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.mu.Unlock()
}

// FlushNow cancels any pending timer and fires immediately on the
// caller's goroutine.
func (f *FlushController) FlushNow() {
	f.CancelPending()
	f.fire()
}

// Pending reports whether a timer is outstanding.
func (f *FlushController) Pending() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.timer != nil
}

package typeahead

import (
	"sync"
	"time"
)

// Debouncer schedules a single pending callback. Scheduling again
// before the window elapses replaces the earlier callback, so only the
// last keystroke of a fast burst triggers work.
type Debouncer interface {
	// Schedule arranges for fn to run once the window elapses,
	// cancelling any callback scheduled earlier.
	Schedule(fn func())
	// Stop cancels the pending callback, if any.
	Stop()
}

type timerDebouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

// NewDebouncer returns a timer-backed Debouncer. Callbacks fire on the
// timer's goroutine.
func NewDebouncer(delay time.Duration) Debouncer {
	return &timerDebouncer{delay: delay}
}

func (d *timerDebouncer) Schedule(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

func (d *timerDebouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

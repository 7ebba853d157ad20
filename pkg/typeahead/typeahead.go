// Package typeahead drives the interactive suggestion flow: debounced
// query input, panel state, keyboard navigation with wraparound, and
// commit/dismiss actions. It owns no rendering; a presentation layer
// subscribes through Callbacks and draws from Snapshots.
package typeahead

import (
	"strings"
	"sync"
	"time"

	"github.com/scholarsearch/scholarserve/pkg/suggest"
)

// NoSelection is the cursor value when no suggestion is highlighted.
const NoSelection = -1

// DefaultDebounce is the pause between the last keystroke and the rank
// request.
const DefaultDebounce = 150 * time.Millisecond

// State identifies the controller's position in the suggestion flow.
type State int

const (
	// StateIdle means no panel and no pending work.
	StateIdle State = iota
	// StatePending means query text is present but no panel is shown.
	StatePending
	// StateShowing means the panel is visible with no highlight.
	StateShowing
	// StateNavigating means the panel is visible and an entry is
	// highlighted.
	StateNavigating
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateShowing:
		return "showing"
	case StateNavigating:
		return "navigating"
	default:
		return "unknown"
	}
}

// Snapshot is the render state of the controller at one instant.
type Snapshot struct {
	Query       string
	State       State
	Suggestions []suggest.Suggestion
	Cursor      int
}

// Selected returns the highlighted suggestion, when one is.
func (s Snapshot) Selected() (suggest.Suggestion, bool) {
	if s.Cursor == NoSelection || s.Cursor >= len(s.Suggestions) {
		return suggest.Suggestion{}, false
	}
	return s.Suggestions[s.Cursor], true
}

// Callbacks connect the controller to its presentation layer. Nil
// entries are skipped. Callbacks run outside the controller's lock and
// may call back into it.
type Callbacks struct {
	// OnUpdate fires whenever the render state changes.
	OnUpdate func(Snapshot)
	// OnCommit fires when the user accepts a highlighted suggestion.
	OnCommit func(term string)
	// OnSearch fires on submit with no highlight: the surrounding
	// search action, outside this package.
	OnSearch func(query string)
	// OnDismiss fires when a visible panel is dismissed unaccepted.
	OnDismiss func()
}

// Options tunes a Controller.
type Options struct {
	// Limit caps the panel size. Defaults to suggest.DefaultLimit.
	Limit int
	// Debounce is the keystroke-to-rank pause. Defaults to
	// DefaultDebounce.
	Debounce time.Duration
	// Debouncer overrides the timer-backed default. Tests use it to
	// fire the window by hand.
	Debouncer Debouncer
}

// Controller is the suggestion state machine. All methods are safe for
// concurrent use; rank requests run outside the lock so a slow rank
// never blocks keystrokes.
type Controller struct {
	ranker    suggest.IRanker
	debounce  Debouncer
	callbacks Callbacks
	limit     int

	mu     sync.Mutex
	query  string
	state  State
	items  []suggest.Suggestion
	cursor int
	seq    uint64
}

// NewController creates a controller over the given ranker.
func NewController(ranker suggest.IRanker, cb Callbacks, opts Options) *Controller {
	if opts.Limit <= 0 {
		opts.Limit = suggest.DefaultLimit
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Debouncer == nil {
		opts.Debouncer = NewDebouncer(opts.Debounce)
	}
	return &Controller{
		ranker:    ranker,
		debounce:  opts.Debouncer,
		callbacks: cb,
		limit:     opts.Limit,
		state:     StateIdle,
		cursor:    NoSelection,
	}
}

// SetQuery records a new input value and restarts the debounce window.
// A blank value closes the panel immediately without a rank round-trip.
func (c *Controller) SetQuery(query string) {
	c.mu.Lock()
	c.query = query
	c.seq++
	seq := c.seq
	if strings.TrimSpace(query) == "" {
		c.debounce.Stop()
		c.items = nil
		c.cursor = NoSelection
		c.state = StateIdle
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.notifyUpdate(snap)
		return
	}
	// Keep the current panel visible while the new rank is pending, but
	// drop the highlight: it refers to entries about to be replaced.
	c.cursor = NoSelection
	if len(c.items) > 0 {
		c.state = StateShowing
	} else {
		c.state = StatePending
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notifyUpdate(snap)
	c.debounce.Schedule(func() { c.fire(seq) })
}

// fire runs one debounced rank request. The sequence number is checked
// on entry and again before applying, so a completion belonging to a
// superseded keystroke is discarded.
func (c *Controller) fire(seq uint64) {
	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		return
	}
	query := c.query
	c.mu.Unlock()

	items := c.ranker.Rank(query, c.limit)

	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		return
	}
	c.items = items
	c.cursor = NoSelection
	if len(items) == 0 {
		c.state = StatePending
	} else {
		c.state = StateShowing
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notifyUpdate(snap)
}

// MoveDown advances the highlight, wrapping past the last entry to the
// first. With no highlight it starts at the first entry.
func (c *Controller) MoveDown() {
	c.step(1)
}

// MoveUp retreats the highlight, wrapping before the first entry to the
// last. With no highlight it starts at the last entry.
func (c *Controller) MoveUp() {
	c.step(-1)
}

func (c *Controller) step(delta int) {
	c.mu.Lock()
	if len(c.items) == 0 {
		c.mu.Unlock()
		return
	}
	switch {
	case c.cursor == NoSelection && delta > 0:
		c.cursor = 0
	case c.cursor == NoSelection && delta < 0:
		c.cursor = len(c.items) - 1
	default:
		c.cursor = (c.cursor + delta + len(c.items)) % len(c.items)
	}
	c.state = StateNavigating
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notifyUpdate(snap)
}

// Submit handles Enter. With a highlighted entry it copies the display
// term into the input, closes the panel, and reports the commit. With
// none it falls through to the surrounding search action.
func (c *Controller) Submit() {
	c.mu.Lock()
	if c.cursor != NoSelection && c.cursor < len(c.items) {
		term := c.items[c.cursor].Term
		c.seq++
		c.debounce.Stop()
		c.query = term
		c.items = nil
		c.cursor = NoSelection
		c.state = StatePending
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.notifyUpdate(snap)
		if c.callbacks.OnCommit != nil {
			c.callbacks.OnCommit(term)
		}
		return
	}
	query := c.query
	c.mu.Unlock()
	if strings.TrimSpace(query) != "" && c.callbacks.OnSearch != nil {
		c.callbacks.OnSearch(query)
	}
}

// Dismiss handles Escape or focus loss: the panel closes, the highlight
// clears, and any pending rank is abandoned. The input text is kept.
func (c *Controller) Dismiss() {
	c.mu.Lock()
	c.seq++
	c.debounce.Stop()
	hadPanel := len(c.items) > 0
	c.items = nil
	c.cursor = NoSelection
	c.state = StateIdle
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notifyUpdate(snap)
	if hadPanel && c.callbacks.OnDismiss != nil {
		c.callbacks.OnDismiss()
	}
}

// Snapshot returns the current render state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Stop cancels any pending debounce timer.
func (c *Controller) Stop() {
	c.debounce.Stop()
}

func (c *Controller) snapshotLocked() Snapshot {
	items := make([]suggest.Suggestion, len(c.items))
	copy(items, c.items)
	return Snapshot{
		Query:       c.query,
		State:       c.state,
		Suggestions: items,
		Cursor:      c.cursor,
	}
}

func (c *Controller) notifyUpdate(snap Snapshot) {
	if c.callbacks.OnUpdate != nil {
		c.callbacks.OnUpdate(snap)
	}
}

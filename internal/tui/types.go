package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/scholarsearch/scholarserve/pkg/corpus"
	"github.com/scholarsearch/scholarserve/pkg/server"
	"github.com/scholarsearch/scholarserve/pkg/typeahead"
)

// Constants define UI behavior and timing
const (
	statusDuration      = 5 * time.Second
	statusShortDuration = 3 * time.Second
	maxResultDisplay    = 10
	maxTitleDisplay     = 56
	reloadTimeout       = 30 * time.Second
	eventBuffer         = 16
)

// viewState represents the current screen being displayed
type viewState int

const (
	viewSearch viewState = iota
	viewResults
	viewDetail
)

// statusKind represents the type of status message being displayed
type statusKind int

const (
	statusInfo statusKind = iota
	statusSuccess
	statusError
)

// Model is the main application state container for the TUI
type Model struct {
	engine  *server.Engine
	control *typeahead.Controller
	events  chan tea.Msg

	input textinput.Model
	panel typeahead.Snapshot

	currentView   viewState
	results       []corpus.Document
	resultsQuery  string
	cursor        int
	resultsOffset int

	detail          corpus.Document
	detailInfluence float64

	statusMessage string
	statusKind    statusKind
	statusExpiry  time.Time
}

// statusTick is sent periodically to update status message expiry
type statusTick struct{}

// panelMsg carries a fresh controller snapshot into the update loop.
// It is the only message produced off the program goroutine: debounced
// rank completions arrive on the debouncer's timer goroutine.
type panelMsg struct {
	snap typeahead.Snapshot
}

// reloadMsg carries the outcome of a corpus reload
type reloadMsg struct {
	docs   int
	source string
	err    error
}

// Package tui implements the terminal reference UI for the suggestion
// engine. A single search box drives the typeahead controller: keystrokes
// debounce into ranked suggestion panels, arrow keys move the highlight,
// and enter either accepts the highlighted term or searches the corpus.
// Results and paper detail screens browse whatever the search returned.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/scholarsearch/scholarserve/pkg/config"
	"github.com/scholarsearch/scholarserve/pkg/server"
	"github.com/scholarsearch/scholarserve/pkg/typeahead"
)

// NewModel creates a TUI model over the given engine. A nil config falls
// back to the controller defaults for panel size and debounce.
func NewModel(engine *server.Engine, cfg *config.TypeaheadConfig) *Model {
	m := &Model{
		engine:      engine,
		events:      make(chan tea.Msg, eventBuffer),
		currentView: viewSearch,
	}

	input := textinput.New()
	input.Placeholder = "Search papers"
	input.Prompt = ""
	input.CharLimit = 120
	input.Width = 48
	input.Focus()
	m.input = input

	opts := typeahead.Options{}
	if cfg != nil {
		opts.Limit = cfg.PanelLimit
		opts.Debounce = time.Duration(cfg.DebounceMs) * time.Millisecond
	}
	m.control = m.newController(opts)
	m.panel = m.control.Snapshot()
	return m
}

// newController wires a typeahead controller to the model. Render
// updates go through the event channel because rank completions arrive
// on the debouncer's goroutine; commit and search only ever fire from
// Submit on the program goroutine, so they mutate the model directly.
func (m *Model) newController(opts typeahead.Options) *typeahead.Controller {
	return typeahead.NewController(m.engine.Ranker(), typeahead.Callbacks{
		OnUpdate: func(snap typeahead.Snapshot) { m.pushEvent(panelMsg{snap: snap}) },
		OnCommit: func(term string) { m.acceptTerm(term) },
		OnSearch: func(query string) { m.submitSearch(query) },
	}, opts)
}

// pushEvent queues a message for the update loop. The producer never
// blocks: after quit nothing drains the channel, and a full buffer drops
// the oldest entry so the newest state still lands.
func (m *Model) pushEvent(msg tea.Msg) {
	select {
	case m.events <- msg:
	default:
		select {
		case <-m.events:
		default:
		}
		select {
		case m.events <- msg:
		default:
		}
	}
}

// listenEvents waits for the next controller event
func (m *Model) listenEvents() tea.Cmd {
	return func() tea.Msg { return <-m.events }
}

// Init starts the status expiry ticker and the controller event pump
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		tea.Tick(time.Second, func(time.Time) tea.Msg { return statusTick{} }),
		m.listenEvents(),
	)
}

// Update handles incoming messages and updates the model state
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statusTick:
		if !m.statusExpiry.IsZero() && time.Now().After(m.statusExpiry) {
			m.statusMessage = ""
			m.statusExpiry = time.Time{}
		}
		return m, tea.Tick(time.Second, func(time.Time) tea.Msg { return statusTick{} })
	case panelMsg:
		m.panel = msg.snap
		return m, m.listenEvents()
	case reloadMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Reload failed: %v", msg.err), statusError, statusDuration)
		} else {
			m.setStatus(fmt.Sprintf("Reloaded %d papers from %s", msg.docs, msg.source), statusSuccess, statusShortDuration)
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// View renders the current view based on the model state
func (m *Model) View() string {
	switch m.currentView {
	case viewSearch:
		return m.renderSearchView()
	case viewResults:
		return m.renderResultsView()
	case viewDetail:
		return m.renderDetailView()
	default:
		return "Unknown view"
	}
}

// handleKey routes key messages to the handler for the current view
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.currentView {
	case viewSearch:
		return m, m.updateSearchView(msg)
	case viewResults:
		return m, m.updateResultsView(msg)
	case viewDetail:
		return m, m.updateDetailView(msg)
	default:
		return m, nil
	}
}

package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// acceptTerm fills the input with a committed suggestion and searches it
func (m *Model) acceptTerm(term string) {
	m.input.SetValue(term)
	m.input.CursorEnd()
	m.runSearch(term)
}

// submitSearch cancels any pending rank and searches the corpus
func (m *Model) submitSearch(query string) {
	m.control.Dismiss()
	m.panel = m.control.Snapshot()
	m.runSearch(query)
}

// runSearch filters the current snapshot and switches to the result list
func (m *Model) runSearch(query string) {
	m.results = m.engine.Snapshot().Search(query)
	m.resultsQuery = query
	m.cursor = 0
	m.resultsOffset = 0
	m.currentView = viewResults
	m.ensureResultCursorVisible()
}

// openDetail loads the selected result into the paper detail screen
func (m *Model) openDetail(index int) {
	if index < 0 || index >= len(m.results) {
		return
	}
	m.detail = m.results[index]
	m.detailInfluence = m.engine.Snapshot().Graph().Score(m.detail.ID) * 100
	m.currentView = viewDetail
}

// ensureResultCursorVisible adjusts the list offset so the cursor stays
// within the displayed window
func (m *Model) ensureResultCursorVisible() {
	if len(m.results) == 0 {
		m.cursor = 0
		m.resultsOffset = 0
		return
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.results) {
		m.cursor = len(m.results) - 1
	}
	if m.cursor < m.resultsOffset {
		m.resultsOffset = m.cursor
	}
	if m.cursor >= m.resultsOffset+maxResultDisplay {
		m.resultsOffset = m.cursor - maxResultDisplay + 1
	}
	maxOffset := len(m.results) - maxResultDisplay
	if maxOffset < 0 {
		maxOffset = 0
	}
	if m.resultsOffset > maxOffset {
		m.resultsOffset = maxOffset
	}
	if m.resultsOffset < 0 {
		m.resultsOffset = 0
	}
}

// reloadCmd rebuilds the corpus off the program goroutine and reports
// the outcome as a reloadMsg
func (m *Model) reloadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
		defer cancel()
		snap, err := m.engine.Reload(ctx)
		if err != nil {
			return reloadMsg{err: err}
		}
		return reloadMsg{docs: snap.Len(), source: snap.Source()}
	}
}

// setStatus sets a temporary status message with the given duration and kind
func (m *Model) setStatus(message string, kind statusKind, duration time.Duration) {
	m.statusMessage = message
	m.statusKind = kind
	m.statusExpiry = time.Now().Add(duration)
}

// statusLine returns the current status message if it hasn't expired
func (m *Model) statusLine() string {
	if m.statusMessage == "" {
		return ""
	}
	if !m.statusExpiry.IsZero() && time.Now().After(m.statusExpiry) {
		return ""
	}
	return formatStatus(m.statusMessage, m.statusKind)
}

package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// updateSearchView handles keys for the search screen: panel navigation
// and submit go to the controller, everything else feeds the text input.
func (m *Model) updateSearchView(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		m.control.Stop()
		return tea.Quit
	case "esc":
		if len(m.panel.Suggestions) > 0 {
			m.control.Dismiss()
		} else if m.input.Value() != "" {
			m.input.SetValue("")
			m.control.SetQuery("")
		}
		m.panel = m.control.Snapshot()
		return nil
	case "up":
		m.control.MoveUp()
		m.panel = m.control.Snapshot()
		return nil
	case "down":
		m.control.MoveDown()
		m.panel = m.control.Snapshot()
		return nil
	case "enter":
		m.control.Submit()
		m.panel = m.control.Snapshot()
		return nil
	case "ctrl+r":
		m.setStatus("Reloading corpus...", statusInfo, statusDuration)
		return m.reloadCmd()
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if value := m.input.Value(); value != before {
		m.control.SetQuery(value)
		m.panel = m.control.Snapshot()
	}
	return cmd
}

// updateResultsView handles keys for the result list
func (m *Model) updateResultsView(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c", "q":
		m.control.Stop()
		return tea.Quit
	case "esc":
		m.currentView = viewSearch
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.ensureResultCursorVisible()
		}
	case "down", "j":
		if m.cursor < len(m.results)-1 {
			m.cursor++
			m.ensureResultCursorVisible()
		}
	case "enter":
		m.openDetail(m.cursor)
	}
	return nil
}

// updateDetailView handles keys for the paper detail screen
func (m *Model) updateDetailView(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c", "q":
		m.control.Stop()
		return tea.Quit
	case "esc", "backspace":
		m.currentView = viewResults
	}
	return nil
}

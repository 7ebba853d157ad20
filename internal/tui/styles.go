package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Color definitions for the TUI
var (
	// Status message colors
	successColor = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // Green
	errorColor   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // Red
	infoColor    = lipgloss.NewStyle().Foreground(lipgloss.Color("12")) // Blue

	// UI element colors
	titleColor    = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true) // Blue
	cursorColor   = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true) // Bright magenta
	citationColor = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))            // Cyan

	// abstractStyle wraps long abstract text to a readable column
	abstractStyle = lipgloss.NewStyle().Width(76)
)

// formatStatus returns a colored status message based on the status kind
func formatStatus(message string, kind statusKind) string {
	switch kind {
	case statusSuccess:
		return successColor.Render(message)
	case statusError:
		return errorColor.Render(message)
	case statusInfo:
		return infoColor.Render(message)
	default:
		return message
	}
}

// formatCursor returns a colored cursor marker
func formatCursor(marker string) string {
	return cursorColor.Render(marker)
}

// formatTitle returns a colored paper title
func formatTitle(title string) string {
	return titleColor.Render(title)
}

// formatCitations returns a colored citation count with its unit
func formatCitations(count int) string {
	label := "citations"
	if count == 1 {
		label = "citation"
	}
	return citationColor.Render(fmt.Sprintf("%d %s", count, label))
}

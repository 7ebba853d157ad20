package tui

import (
	"fmt"
	"strings"
)

// renderSearchView displays the search box with its suggestion panel
func (m *Model) renderSearchView() string {
	var b strings.Builder
	b.WriteString("-- Paper Search --\n")
	fmt.Fprintf(&b, "%s\n\n", m.corpusSummaryLine())

	fmt.Fprintf(&b, "Search  %s\n", m.input.View())
	b.WriteString(m.renderPanel())
	b.WriteString("\n")

	if msg := m.statusLine(); msg != "" {
		fmt.Fprintf(&b, "%s\n\n", msg)
	}

	b.WriteString("[enter]search  [up/down]suggestions  [esc]dismiss  [ctrl+r]reload  [ctrl+c]quit")
	return b.String()
}

// corpusSummaryLine describes the live snapshot the screen serves from
func (m *Model) corpusSummaryLine() string {
	snap := m.engine.Snapshot()
	stats := m.engine.Stats()
	return fmt.Sprintf("Corpus: %d papers • %d terms • source %s", snap.Len(), stats["terms"], snap.Source())
}

// renderPanel displays the suggestion panel below the search input
func (m *Model) renderPanel() string {
	if len(m.panel.Suggestions) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n")
	for i, sug := range m.panel.Suggestions {
		cursor := " "
		if i == m.panel.Cursor {
			cursor = formatCursor(">")
		}
		fmt.Fprintf(&b, "    %s %-32s %s\n", cursor, sug.Term, formatCitations(sug.Weight))
	}
	return b.String()
}

// renderResultsView displays the search result list
func (m *Model) renderResultsView() string {
	var b strings.Builder
	fmt.Fprintf(&b, "-- Results for %q (%s) --\n\n", m.resultsQuery, paperCountLabel(len(m.results)))

	if len(m.results) == 0 {
		b.WriteString("No papers matched.\n\n")
	} else {
		if m.resultsOffset > 0 {
			fmt.Fprintf(&b, "  ... %d more above\n", m.resultsOffset)
		}
		end := m.resultsOffset + maxResultDisplay
		if end > len(m.results) {
			end = len(m.results)
		}
		for i := m.resultsOffset; i < end; i++ {
			doc := m.results[i]
			cursor := " "
			if i == m.cursor {
				cursor = formatCursor(">")
			}
			year := ""
			if doc.Year > 0 {
				year = fmt.Sprintf(" (%d)", doc.Year)
			}
			fmt.Fprintf(&b, "%s %2d. %s%s • %s\n", cursor, i+1, truncateTitle(doc.Title), year, formatCitations(doc.Citations))
		}
		if end < len(m.results) {
			fmt.Fprintf(&b, "  ... %d more below\n", len(m.results)-end)
		}
		b.WriteString("\n")
	}

	if msg := m.statusLine(); msg != "" {
		fmt.Fprintf(&b, "%s\n\n", msg)
	}

	b.WriteString("[enter]open  [up/down]move  [esc]back  [q]uit")
	return b.String()
}

// renderDetailView displays one paper with its graph-derived scores
func (m *Model) renderDetailView() string {
	var b strings.Builder
	doc := m.detail

	b.WriteString(formatTitle(doc.Title))
	b.WriteString("\n")
	if len(doc.Authors) > 0 {
		b.WriteString(strings.Join(doc.Authors, ", "))
		if doc.Year > 0 {
			fmt.Fprintf(&b, " • %d", doc.Year)
		}
		b.WriteString("\n")
	} else if doc.Year > 0 {
		fmt.Fprintf(&b, "%d\n", doc.Year)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Citations  %d\n", doc.Citations)
	fmt.Fprintf(&b, "Influence  %.2f\n", m.detailInfluence)
	if doc.Link != "" {
		fmt.Fprintf(&b, "Link       %s\n", doc.Link)
	}
	if len(doc.Keywords) > 0 {
		fmt.Fprintf(&b, "Keywords   %s\n", strings.Join(doc.Keywords, ", "))
	}

	if doc.Abstract != "" {
		b.WriteString("\n")
		b.WriteString(abstractStyle.Render(doc.Abstract))
		b.WriteString("\n")
	}

	b.WriteString("\n[esc]back  [q]uit")
	return b.String()
}

// paperCountLabel pluralizes the result count
func paperCountLabel(count int) string {
	if count == 1 {
		return "1 paper"
	}
	return fmt.Sprintf("%d papers", count)
}

// truncateTitle shortens a title to the display width
func truncateTitle(title string) string {
	if len(title) > maxTitleDisplay {
		return title[:maxTitleDisplay-3] + "..."
	}
	return title
}

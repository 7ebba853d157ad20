package tui

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/exp/teatest"

	"github.com/scholarsearch/scholarserve/pkg/corpus"
	"github.com/scholarsearch/scholarserve/pkg/server"
	"github.com/scholarsearch/scholarserve/pkg/suggest"
	"github.com/scholarsearch/scholarserve/pkg/typeahead"
)

func init() {
	log.SetLevel(log.FatalLevel)
}

func keyRunes(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// manualDebouncer hands the pending rank to the test instead of a timer
type manualDebouncer struct {
	pending func()
}

func (d *manualDebouncer) Schedule(fn func()) { d.pending = fn }

func (d *manualDebouncer) Stop() { d.pending = nil }

func (d *manualDebouncer) fire() {
	if d.pending == nil {
		return
	}
	fn := d.pending
	d.pending = nil
	fn()
}

type stubSource struct {
	name string
	docs []corpus.Document
	err  error
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) FetchAll(context.Context) ([]corpus.Document, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]corpus.Document, len(s.docs))
	copy(out, s.docs)
	return out, nil
}

func paperFixture() []corpus.Document {
	return []corpus.Document{
		{
			ID:        "attention-2017",
			Title:     "Attention Is All You Need",
			Authors:   []string{"Vaswani", "Shazeer"},
			Year:      2017,
			Keywords:  []string{"Transformer", "Attention"},
			Abstract:  "The dominant sequence transduction models are based on recurrent or convolutional networks.",
			Citations: 50,
		},
		{
			ID:       "resnet-2015",
			Title:    "Deep Residual Learning for Image Recognition",
			Year:     2015,
			Keywords: []string{"Residual Learning", "Vision"},
		},
		{
			ID:         "gpt3-2020",
			Title:      "Language Models are Few-Shot Learners",
			Year:       2020,
			Keywords:   []string{"Transformers", "Attention Heads", "Language Models"},
			References: []string{"attention-2017", "resnet-2015"},
		},
	}
}

func newTestEngine(t *testing.T, src *stubSource) *server.Engine {
	t.Helper()
	loader := corpus.NewLoader(corpus.Options{}, src)
	engine := server.NewEngine(suggest.NewRanker(suggest.DefaultOverfetch), loader, corpus.NewStore())
	if _, err := engine.Reload(context.Background()); err != nil {
		t.Fatalf("load corpus: %v", err)
	}
	return engine
}

// newTestModel builds a model over the paper fixture with a manual
// debouncer, so tests fire the rank window by hand.
func newTestModel(t *testing.T) (*Model, *manualDebouncer, *stubSource) {
	t.Helper()
	src := &stubSource{name: "stub", docs: paperFixture()}
	m := NewModel(newTestEngine(t, src), nil)
	deb := &manualDebouncer{}
	m.control = m.newController(typeahead.Options{Limit: 5, Debouncer: deb})
	m.panel = m.control.Snapshot()
	return m, deb, src
}

func typeQuery(m *Model, text string) {
	for _, r := range text {
		m.updateSearchView(keyRunes(r))
	}
}

// drainEvents applies panel updates the controller queued from the
// test goroutine; outside tests the program's event listener does this.
func drainEvents(m *Model) {
	for {
		select {
		case msg := <-m.events:
			m.Update(msg)
		default:
			return
		}
	}
}

func TestSearchViewShowsCorpusSummary(t *testing.T) {
	m, _, _ := newTestModel(t)

	view := m.renderSearchView()
	if !strings.Contains(view, "Corpus: 3 papers • 7 terms • source stub") {
		t.Fatalf("search view missing corpus summary: %q", view)
	}
	if !strings.Contains(view, "[ctrl+r]reload") {
		t.Fatalf("search view missing command hints: %q", view)
	}
}

func TestTypingShowsRankedPanel(t *testing.T) {
	m, deb, _ := newTestModel(t)

	typeQuery(m, "tran")
	if m.input.Value() != "tran" {
		t.Fatalf("unexpected input value: %q", m.input.Value())
	}
	if m.panel.State != typeahead.StatePending {
		t.Fatalf("expected pending state before the debounce fires, got %v", m.panel.State)
	}

	deb.fire()
	drainEvents(m)

	if m.panel.State != typeahead.StateShowing {
		t.Fatalf("expected showing state, got %v", m.panel.State)
	}
	if len(m.panel.Suggestions) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(m.panel.Suggestions))
	}
	if m.panel.Suggestions[0].Term != "Transformer" || m.panel.Suggestions[0].Weight != 50 {
		t.Fatalf("unexpected first suggestion: %+v", m.panel.Suggestions[0])
	}
	if m.panel.Suggestions[1].Term != "Transformers" {
		t.Fatalf("unexpected second suggestion: %+v", m.panel.Suggestions[1])
	}

	view := m.renderSearchView()
	if !strings.Contains(view, "Transformer") || !strings.Contains(view, "50 citations") {
		t.Fatalf("search view missing suggestion panel: %q", view)
	}
}

func TestCursorCyclesWithWraparound(t *testing.T) {
	m, deb, _ := newTestModel(t)
	typeQuery(m, "tran")
	deb.fire()
	drainEvents(m)

	down := tea.KeyMsg{Type: tea.KeyDown}
	up := tea.KeyMsg{Type: tea.KeyUp}

	m.updateSearchView(down)
	if m.panel.Cursor != 0 {
		t.Fatalf("expected cursor 0 after first down, got %d", m.panel.Cursor)
	}
	m.updateSearchView(down)
	if m.panel.Cursor != 1 {
		t.Fatalf("expected cursor 1, got %d", m.panel.Cursor)
	}
	m.updateSearchView(down)
	if m.panel.Cursor != 0 {
		t.Fatalf("expected down past the last entry to wrap to 0, got %d", m.panel.Cursor)
	}
	m.updateSearchView(up)
	if m.panel.Cursor != 1 {
		t.Fatalf("expected up past the first entry to wrap to last, got %d", m.panel.Cursor)
	}
}

func TestUpFromNoHighlightSelectsLast(t *testing.T) {
	m, deb, _ := newTestModel(t)
	typeQuery(m, "tran")
	deb.fire()
	drainEvents(m)

	m.updateSearchView(tea.KeyMsg{Type: tea.KeyUp})
	if m.panel.Cursor != 1 {
		t.Fatalf("expected cursor on the last entry, got %d", m.panel.Cursor)
	}
}

func TestEnterAcceptsHighlightedSuggestion(t *testing.T) {
	m, deb, _ := newTestModel(t)
	typeQuery(m, "tran")
	deb.fire()
	drainEvents(m)

	m.updateSearchView(tea.KeyMsg{Type: tea.KeyDown})
	m.updateSearchView(tea.KeyMsg{Type: tea.KeyEnter})

	if m.input.Value() != "Transformer" {
		t.Fatalf("expected committed term in input, got %q", m.input.Value())
	}
	if m.currentView != viewResults {
		t.Fatalf("expected results view after commit, got %v", m.currentView)
	}
	if m.resultsQuery != "Transformer" {
		t.Fatalf("unexpected results query: %q", m.resultsQuery)
	}
	if len(m.results) != 2 || m.results[0].ID != "attention-2017" {
		t.Fatalf("unexpected results: %+v", m.results)
	}
	if len(m.panel.Suggestions) != 0 {
		t.Fatalf("expected panel cleared after commit, got %d entries", len(m.panel.Suggestions))
	}
}

func TestEnterWithoutHighlightRunsSearch(t *testing.T) {
	m, deb, _ := newTestModel(t)
	typeQuery(m, "vision")

	m.updateSearchView(tea.KeyMsg{Type: tea.KeyEnter})

	if m.currentView != viewResults {
		t.Fatalf("expected results view, got %v", m.currentView)
	}
	if len(m.results) != 1 || m.results[0].ID != "resnet-2015" {
		t.Fatalf("unexpected results: %+v", m.results)
	}
	if deb.pending != nil {
		t.Fatalf("expected the pending rank to be cancelled by the search")
	}

	view := m.renderResultsView()
	if !strings.Contains(view, "Deep Residual Learning for Image Recognition (2015)") {
		t.Fatalf("results view missing paper line: %q", view)
	}
	if !strings.Contains(view, "1 citation") {
		t.Fatalf("results view missing citation count: %q", view)
	}
}

func TestSearchWithNoMatchesShowsEmptyList(t *testing.T) {
	m, _, _ := newTestModel(t)
	typeQuery(m, "zzz")
	m.updateSearchView(tea.KeyMsg{Type: tea.KeyEnter})

	if m.currentView != viewResults {
		t.Fatalf("expected results view, got %v", m.currentView)
	}
	if len(m.results) != 0 {
		t.Fatalf("expected no results, got %d", len(m.results))
	}

	view := m.renderResultsView()
	if !strings.Contains(view, `"zzz" (0 papers)`) {
		t.Fatalf("results view missing header: %q", view)
	}
	if !strings.Contains(view, "No papers matched.") {
		t.Fatalf("results view missing empty notice: %q", view)
	}
}

func TestEscDismissesPanelThenClearsInput(t *testing.T) {
	m, deb, _ := newTestModel(t)
	typeQuery(m, "tran")
	deb.fire()
	drainEvents(m)
	if len(m.panel.Suggestions) == 0 {
		t.Fatalf("expected a visible panel")
	}

	m.updateSearchView(tea.KeyMsg{Type: tea.KeyEsc})
	if len(m.panel.Suggestions) != 0 {
		t.Fatalf("expected esc to close the panel")
	}
	if m.input.Value() != "tran" {
		t.Fatalf("expected input text to survive the dismiss, got %q", m.input.Value())
	}

	m.updateSearchView(tea.KeyMsg{Type: tea.KeyEsc})
	if m.input.Value() != "" {
		t.Fatalf("expected second esc to clear the input, got %q", m.input.Value())
	}
}

func TestResultsNavigationOpensDetail(t *testing.T) {
	m, _, _ := newTestModel(t)
	typeQuery(m, "attention")
	m.updateSearchView(tea.KeyMsg{Type: tea.KeyEnter})

	if len(m.results) != 2 {
		t.Fatalf("expected 2 results for attention, got %d", len(m.results))
	}

	down := tea.KeyMsg{Type: tea.KeyDown}
	m.updateResultsView(down)
	if m.cursor != 1 {
		t.Fatalf("expected cursor 1, got %d", m.cursor)
	}
	m.updateResultsView(down)
	if m.cursor != 1 {
		t.Fatalf("expected cursor to stop at the last result, got %d", m.cursor)
	}

	m.updateResultsView(tea.KeyMsg{Type: tea.KeyEnter})
	if m.currentView != viewDetail {
		t.Fatalf("expected detail view, got %v", m.currentView)
	}
	if m.detail.ID != "gpt3-2020" {
		t.Fatalf("unexpected detail paper: %s", m.detail.ID)
	}
	if math.Abs(m.detailInfluence-70.1754386) > 1e-6 {
		t.Fatalf("unexpected influence score: %f", m.detailInfluence)
	}

	m.updateDetailView(tea.KeyMsg{Type: tea.KeyEsc})
	if m.currentView != viewResults {
		t.Fatalf("expected esc to return to results, got %v", m.currentView)
	}
	m.updateResultsView(tea.KeyMsg{Type: tea.KeyEsc})
	if m.currentView != viewSearch {
		t.Fatalf("expected esc to return to search, got %v", m.currentView)
	}
}

func TestDetailViewShowsPaperFields(t *testing.T) {
	m, _, _ := newTestModel(t)
	typeQuery(m, "attention")
	m.updateSearchView(tea.KeyMsg{Type: tea.KeyEnter})
	m.openDetail(0)

	view := m.renderDetailView()
	for _, want := range []string{
		"Attention Is All You Need",
		"Vaswani, Shazeer • 2017",
		"Citations  50",
		"Influence  100.00",
		"Keywords   Transformer, Attention",
		"sequence transduction",
	} {
		if !strings.Contains(view, want) {
			t.Fatalf("detail view missing %q: %q", want, view)
		}
	}
}

func TestResultListScrollsWithCursor(t *testing.T) {
	m, _, _ := newTestModel(t)
	for i := 0; i < 25; i++ {
		m.results = append(m.results, corpus.Document{
			ID:    fmt.Sprintf("paper-%02d", i+1),
			Title: fmt.Sprintf("Paper %02d", i+1),
		})
	}
	m.resultsQuery = "paper"
	m.currentView = viewResults

	view := m.renderResultsView()
	if strings.Contains(view, "Paper 11") {
		t.Fatalf("expected initial window to end at item %d: %q", maxResultDisplay, view)
	}
	if !strings.Contains(view, "... 15 more below") {
		t.Fatalf("results view missing below indicator: %q", view)
	}

	down := tea.KeyMsg{Type: tea.KeyDown}
	for i := 0; i < 12; i++ {
		m.updateResultsView(down)
	}

	view = m.renderResultsView()
	if !strings.Contains(view, "Paper 13") {
		t.Fatalf("expected window to follow the cursor to item 13: %q", view)
	}
	if strings.Contains(view, "Paper 01") {
		t.Fatalf("expected list to scroll past the first item: %q", view)
	}
	if !strings.Contains(view, "... 3 more above") {
		t.Fatalf("results view missing above indicator: %q", view)
	}
}

func TestReloadRefreshesStatus(t *testing.T) {
	m, _, _ := newTestModel(t)

	cmd := m.updateSearchView(tea.KeyMsg{Type: tea.KeyCtrlR})
	if cmd == nil {
		t.Fatalf("expected a reload command")
	}
	m.Update(cmd())

	if !strings.Contains(m.statusLine(), "Reloaded 3 papers from stub") {
		t.Fatalf("unexpected status: %q", m.statusLine())
	}
}

func TestReloadFailureKeepsServing(t *testing.T) {
	m, deb, src := newTestModel(t)
	src.err = errors.New("origin down")

	cmd := m.updateSearchView(tea.KeyMsg{Type: tea.KeyCtrlR})
	m.Update(cmd())
	if !strings.Contains(m.statusLine(), "Reload failed") {
		t.Fatalf("unexpected status: %q", m.statusLine())
	}

	typeQuery(m, "tran")
	deb.fire()
	drainEvents(m)
	if len(m.panel.Suggestions) != 2 {
		t.Fatalf("expected previous snapshot to keep serving, got %d suggestions", len(m.panel.Suggestions))
	}
}

func TestSearchFlowReachesResults(t *testing.T) {
	src := &stubSource{name: "stub", docs: paperFixture()}
	model := NewModel(newTestEngine(t, src), nil)
	tm := teatest.NewTestModel(t, model, teatest.WithInitialTermSize(80, 24))

	for _, r := range "attention" {
		tm.Send(keyRunes(r))
	}
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})

	final := tm.FinalModel(t).(*Model)
	if final.currentView != viewResults {
		t.Fatalf("expected results view, got %v", final.currentView)
	}
	if len(final.results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(final.results))
	}
	if final.results[0].Title != "Attention Is All You Need" {
		t.Fatalf("unexpected first result: %+v", final.results[0])
	}
}

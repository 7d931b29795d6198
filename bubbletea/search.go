package bubbletea

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/awalczak/storynav"
)

// searchState is the search overlay: a text input over ranked results.
// Queries are debounced; the empty query shows the recently-viewed list.
type searchState struct {
	input    textinput.Model
	searcher storynav.Searcher

	results []storynav.SearchResult
	cursor  int

	gen       int
	lastQuery string
}

func newSearchState() searchState {
	ti := textinput.New()
	ti.Placeholder = "Find components"
	ti.Prompt = "/ "
	ti.CharLimit = 128
	return searchState{input: ti}
}

func (s *searchState) setWidth(w int) {
	width := w - 4
	if width < 10 {
		width = 10
	}
	s.input.Width = width
}

// open focuses the input and seeds results with the empty-query fallback.
func (s *searchState) open(searcher storynav.Searcher) tea.Cmd {
	s.searcher = searcher
	s.input.SetValue("")
	s.lastQuery = ""
	s.run()
	return s.input.Focus()
}

func (s *searchState) blur() {
	s.input.Blur()
}

func (s *searchState) query() string {
	return s.input.Value()
}

// clear resets the query, returning to the recently-viewed fallback.
func (s *searchState) clear() {
	s.input.SetValue("")
	s.lastQuery = ""
	s.run()
}

// update forwards a message to the input and schedules a debounced search
// when the query changed.
func (s searchState) update(msg tea.Msg) (searchState, tea.Cmd) {
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if q := s.input.Value(); q != s.lastQuery {
		s.lastQuery = q
		s.gen++
		gen := s.gen
		debounce := tea.Tick(searchDebounce, func(time.Time) tea.Msg {
			return searchTickMsg{gen: gen}
		})
		return s, tea.Batch(cmd, debounce)
	}
	return s, cmd
}

// tick runs the pending search when the generation is still current.
func (s *searchState) tick(msg searchTickMsg) tea.Cmd {
	if msg.gen != s.gen {
		return nil
	}
	s.run()
	return nil
}

func (s *searchState) run() {
	if s.searcher == nil {
		s.results = nil
		s.cursor = 0
		return
	}
	s.results = s.searcher.Search(s.input.Value())
	s.cursor = 0
}

// move shifts the result cursor, clamped to the list bounds.
func (s *searchState) move(delta int) {
	s.cursor += delta
	if s.cursor < 0 {
		s.cursor = 0
	}
	if max := len(s.results) - 1; s.cursor > max {
		s.cursor = max
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

// current returns the result under the cursor.
func (s *searchState) current() (storynav.SearchResult, bool) {
	if s.cursor < 0 || s.cursor >= len(s.results) {
		return nil, false
	}
	return s.results[s.cursor], true
}

// showAll replaces the capped list with the prompt's expanded results,
// keeping the cursor in range.
func (s *searchState) showAll(p storynav.ExpandPrompt) {
	if p.ShowAll == nil {
		return
	}
	s.results = p.ShowAll()
	if s.cursor >= len(s.results) {
		s.cursor = len(s.results) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

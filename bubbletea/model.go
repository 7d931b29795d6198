// Package bubbletea provides a terminal sidebar explorer for story indexes
// using the Bubble Tea framework.
package bubbletea

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/awalczak/storynav"
	"github.com/awalczak/storynav/jsonl"
	"github.com/awalczak/storynav/tree"
)

// Debounce windows: rapid arrow-key repeats coalesce into one navigation
// pass, and search queries run only after typing pauses.
const (
	navDebounce    = 60 * time.Millisecond
	searchDebounce = 600 * time.Millisecond
)

// Messages pushed in by the provider layer.
type (
	// DatasetMsg replaces the dataset snapshot.
	DatasetMsg struct{ Dataset *storynav.Dataset }
	// StatusesMsg replaces the per-story status snapshot.
	StatusesMsg struct{ Statuses *storynav.Statuses }
	// SelectionMsg announces an externally made selection; its ancestor
	// chain is revealed so the story is visible.
	SelectionMsg struct{ Selection storynav.Selection }
	// CollapseAllMsg collapses every non-root node of every ref.
	CollapseAllMsg struct{}
	// ExpandAllMsg expands every node of every ref.
	ExpandAllMsg struct{}
)

// Internal debounce ticks, tagged with a generation so stale ticks are
// dropped.
type (
	navTickMsg    struct{ gen int }
	searchTickMsg struct{ gen int }
)

type mode int

const (
	modeBrowse mode = iota
	modeSearch
)

// Model is the Bubble Tea model for the sidebar explorer.
type Model struct {
	dataset  *storynav.Dataset
	statuses *storynav.Statuses

	// Per-ref derived state, rebuilt when the ref's index reference
	// changes.
	expansion    map[string]*tree.ExpansionState
	resolvers    map[string]*tree.Resolver
	statusCaches map[string]*tree.StatusCache

	projection  *tree.Projection
	highlighted *storynav.HighlightedRef
	selection   *storynav.Selection

	search   searchState
	searcher storynav.Searcher
	recents  []storynav.Recent

	sink storynav.EventSink
	clip storynav.Clipboard

	keymap       KeyMap
	searchKeymap SearchKeyMap
	renderer     *lipgloss.Renderer
	styles       storynav.Styles
	palette      storynav.Palette

	mode          mode
	width, height int
	offset        int // first visible row of the tree window
	ready         bool
	centerOnReady bool

	// Pending debounced navigation: signed row steps and the generation
	// of the most recent keypress.
	navSteps int
	navGen   int

	statusLine string
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithEventSink sets the sink receiving selection and preload intents.
func WithEventSink(sink storynav.EventSink) ModelOption {
	return func(m *Model) {
		m.sink = sink
	}
}

// WithSearcher sets the search engine for the search overlay.
func WithSearcher(s storynav.Searcher) ModelOption {
	return func(m *Model) {
		m.searcher = s
	}
}

// WithRecents seeds the recently-viewed list shown for empty queries.
func WithRecents(recents []storynav.Recent) ModelOption {
	return func(m *Model) {
		m.recents = recents
	}
}

// WithClipboard sets the clipboard used by the copy binding.
func WithClipboard(c storynav.Clipboard) ModelOption {
	return func(m *Model) {
		m.clip = c
	}
}

// WithStatuses seeds the per-story status snapshot.
func WithStatuses(s *storynav.Statuses) ModelOption {
	return func(m *Model) {
		m.statuses = s
	}
}

// WithSelection seeds the current selection; its ancestors are revealed
// and the row is highlighted and centered on first render.
func WithSelection(sel storynav.Selection) ModelOption {
	return func(m *Model) {
		m.selection = &sel
	}
}

// WithTheme sets the color theme.
func WithTheme(t storynav.Theme) ModelOption {
	return func(m *Model) {
		m.styles = t.Styles()
		m.palette = t.Palette()
	}
}

// WithRenderer sets a custom lipgloss renderer for the model.
func WithRenderer(r *lipgloss.Renderer) ModelOption {
	return func(m *Model) {
		m.renderer = r
	}
}

// WithKeyMap overrides the browse key bindings.
func WithKeyMap(k KeyMap) ModelOption {
	return func(m *Model) {
		m.keymap = k
	}
}

// NewModel creates a Model over dataset.
func NewModel(dataset *storynav.Dataset, opts ...ModelOption) Model {
	m := Model{
		expansion:    make(map[string]*tree.ExpansionState),
		resolvers:    make(map[string]*tree.Resolver),
		statusCaches: make(map[string]*tree.StatusCache),
		keymap:       DefaultKeyMap(),
		searchKeymap: DefaultSearchKeyMap(),
		renderer:     lipgloss.DefaultRenderer(),
		search:       newSearchState(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.setDataset(dataset)
	if m.selection != nil {
		m.revealSelection(*m.selection)
		m.centerOnReady = true
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Selection returns the last story the user activated, if any.
func (m Model) Selection() *storynav.Selection {
	return m.selection
}

// Highlighted returns the keyboard-focused row, if any.
func (m Model) Highlighted() *storynav.HighlightedRef {
	return m.highlighted
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.search.setWidth(msg.Width)
		m.ready = true
		if m.centerOnReady {
			m.centerOnReady = false
			m.scrollIntoView(true)
		}
		return m, nil

	case DatasetMsg:
		m.setDataset(msg.Dataset)
		return m, nil

	case StatusesMsg:
		m.statuses = msg.Statuses
		m.rebuild()
		return m, nil

	case SelectionMsg:
		m.selection = &msg.Selection
		m.revealSelection(msg.Selection)
		m.scrollIntoView(true)
		return m, nil

	case CollapseAllMsg:
		for _, exp := range m.expansion {
			exp.CollapseAll()
		}
		m.rebuild()
		return m, nil

	case ExpandAllMsg:
		for _, exp := range m.expansion {
			exp.ExpandAll()
		}
		m.rebuild()
		return m, nil

	case navTickMsg:
		if msg.gen != m.navGen {
			return m, nil
		}
		m.applyPendingNav()
		return m, nil

	case searchTickMsg:
		cmd := m.search.tick(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.mode == modeSearch {
			return m.updateSearch(msg)
		}
		return m.updateBrowse(msg)
	}

	if m.mode == modeSearch {
		var cmd tea.Cmd
		m.search, cmd = m.search.update(msg)
		return m, cmd
	}
	return m, nil
}

// updateBrowse handles keys in tree-browsing mode.
func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Up):
		m.navSteps--
		m.navGen++
		return m, navTick(m.navGen)

	case key.Matches(msg, m.keymap.Down):
		m.navSteps++
		m.navGen++
		return m, navTick(m.navGen)

	case key.Matches(msg, m.keymap.Left):
		m.collapseOrAscend()
		return m, nil

	case key.Matches(msg, m.keymap.Right):
		m.expandOrDescend()
		return m, nil

	case key.Matches(msg, m.keymap.Select):
		m.activateHighlighted()
		return m, nil

	case key.Matches(msg, m.keymap.CollapseAll):
		return m.Update(CollapseAllMsg{})

	case key.Matches(msg, m.keymap.ExpandAll):
		return m.Update(ExpandAllMsg{})

	case key.Matches(msg, m.keymap.CopyID):
		m.copyHighlighted()
		return m, nil

	case key.Matches(msg, m.keymap.Search):
		return m.openSearch()
	}
	return m, nil
}

func navTick(gen int) tea.Cmd {
	return tea.Tick(navDebounce, func(time.Time) tea.Msg {
		return navTickMsg{gen: gen}
	})
}

// applyPendingNav applies the coalesced arrow-key steps one row at a time
// so wraparound behaves like discrete presses.
func (m *Model) applyPendingNav() {
	steps := m.navSteps
	m.navSteps = 0
	if steps == 0 || m.projection == nil {
		return
	}

	dir := tree.Down
	if steps < 0 {
		dir = tree.Up
		steps = -steps
	}

	current := storynav.HighlightedRef{}
	if m.highlighted != nil {
		current = *m.highlighted
	}
	for i := 0; i < steps; i++ {
		next, ok := m.projection.Navigate(current, dir)
		if !ok {
			return
		}
		current = next
	}

	m.setHighlighted(current)
}

// setHighlighted moves the keyboard focus, scrolls the row into view with
// nearest semantics, and warms the preview when the row is a component.
func (m *Model) setHighlighted(h storynav.HighlightedRef) {
	m.highlighted = &h
	m.scrollIntoView(false)

	resolver := m.resolvers[h.RefID]
	if resolver == nil {
		return
	}
	node := resolver.Index().Node(h.ItemID)
	if node == nil || node.Type != storynav.NodeComponent {
		return
	}
	if m.sink != nil {
		if leaf := resolver.FirstLeaf(node.ID); leaf != nil {
			m.sink.PreloadEntries([]string{leaf.ID}, h.RefID)
		}
	}
}

// collapseOrAscend implements arrow-left: collapse an expanded row, else
// move to the parent when it is highlightable, else collapse the whole
// subtree.
func (m *Model) collapseOrAscend() {
	row, ok := m.highlightedRow()
	if !ok {
		return
	}
	id := row.Node.ID
	exp := m.expansion[row.RefID]
	resolver := m.resolvers[row.RefID]
	if exp == nil || resolver == nil {
		return
	}

	if row.Expandable && row.Expanded {
		exp.SetMany([]string{id}, false)
		m.rebuild()
		return
	}

	if parent := resolver.ParentOf(id); parent != nil {
		target := storynav.HighlightedRef{RefID: row.RefID, ItemID: parent.ID}
		if m.projection.IndexOf(target) >= 0 {
			m.setHighlighted(target)
			return
		}
	}

	exp.SetMany(resolver.DescendantIDs(id, false), false)
	m.rebuild()
}

// expandOrDescend implements arrow-right: expand a collapsed row, or
// expand the subtree below an already-expanded row.
func (m *Model) expandOrDescend() {
	row, ok := m.highlightedRow()
	if !ok || !row.Expandable {
		return
	}
	exp := m.expansion[row.RefID]
	resolver := m.resolvers[row.RefID]
	if exp == nil || resolver == nil {
		return
	}

	if !row.Expanded {
		exp.SetMany([]string{row.Node.ID}, true)
	} else {
		exp.SetMany(resolver.DescendantIDs(row.Node.ID, false), true)
	}
	m.rebuild()
}

// activateHighlighted selects a leaf row or toggles an expandable one.
func (m *Model) activateHighlighted() {
	row, ok := m.highlightedRow()
	if !ok {
		return
	}

	if row.Expandable {
		m.expansion[row.RefID].Toggle(row.Node.ID)
		m.rebuild()
		return
	}

	m.selectStory(storynav.Selection{StoryID: row.Node.ID, RefID: row.RefID})
}

// selectStory records the selection, emits the intent, reveals the story,
// and updates the recently-viewed list.
func (m *Model) selectStory(sel storynav.Selection) {
	m.selection = &sel
	m.revealSelection(sel)
	m.scrollIntoView(false)
	m.statusLine = "selected " + sel.StoryID

	m.recents = jsonl.Push(m.recents, storynav.Recent{StoryID: sel.StoryID, RefID: sel.RefID})
	if m.searcher != nil {
		m.searcher.SetRecents(m.recents)
	}
	if m.sink != nil {
		m.sink.SelectStory(sel)
	}
}

// copyHighlighted copies the highlighted story id, or its composed-ref
// story URL when the ref has one.
func (m *Model) copyHighlighted() {
	row, ok := m.highlightedRow()
	if !ok || m.clip == nil || row.Node.Type != storynav.NodeStory {
		return
	}
	content := row.Node.ID
	if ref := m.dataset.Ref(row.RefID); ref != nil && ref.URL != "" {
		content = ref.URL + "/?path=/story/" + row.Node.ID
	}
	if err := m.clip.Copy(content); err != nil {
		m.statusLine = "copy failed: " + err.Error()
		return
	}
	m.statusLine = "copied " + row.Node.ID
}

// highlightedRow resolves the current highlight to its visible row.
// A highlight filtered out by expansion changes resolves to nothing.
func (m *Model) highlightedRow() (tree.Row, bool) {
	if m.highlighted == nil || m.projection == nil {
		return tree.Row{}, false
	}
	idx := m.projection.IndexOf(*m.highlighted)
	if idx < 0 {
		return tree.Row{}, false
	}
	return m.projection.RowAt(idx)
}

// revealSelection expands the ancestor chain of the selected story and
// highlights it.
func (m *Model) revealSelection(sel storynav.Selection) {
	exp := m.expansion[sel.RefID]
	resolver := m.resolvers[sel.RefID]
	if exp == nil || resolver == nil {
		return
	}
	exp.Reveal(resolver, sel.StoryID)
	m.rebuild()
	if m.projection.IndexOf(storynav.HighlightedRef{RefID: sel.RefID, ItemID: sel.StoryID}) >= 0 {
		m.highlighted = &storynav.HighlightedRef{RefID: sel.RefID, ItemID: sel.StoryID}
	}
}

// scrollIntoView adjusts the window offset so the highlighted row is
// visible. Nearest semantics: the offset moves only when the row is
// outside the window. With center, the row is placed mid-window.
func (m *Model) scrollIntoView(center bool) {
	if m.highlighted == nil || m.projection == nil {
		return
	}
	idx := m.projection.IndexOf(*m.highlighted)
	if idx < 0 {
		return
	}

	height := m.treeHeight()
	if height <= 0 {
		return
	}

	switch {
	case center:
		m.offset = idx - height/2
	case idx < m.offset:
		m.offset = idx
	case idx >= m.offset+height:
		m.offset = idx - height + 1
	}
	m.clampOffset()
}

func (m *Model) clampOffset() {
	maxOffset := m.projection.Len() - m.treeHeight()
	if maxOffset < 0 {
		maxOffset = 0
	}
	if m.offset > maxOffset {
		m.offset = maxOffset
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// setDataset swaps in a new dataset snapshot, carrying over per-ref state
// where the index reference is unchanged and rebuilding it where not.
func (m *Model) setDataset(ds *storynav.Dataset) {
	m.dataset = ds

	expansion := make(map[string]*tree.ExpansionState)
	resolvers := make(map[string]*tree.Resolver)
	caches := make(map[string]*tree.StatusCache)
	if ds != nil {
		for _, refID := range ds.Order {
			ref := ds.Ref(refID)
			if ref == nil || ref.Index == nil {
				continue
			}
			if r, ok := m.resolvers[refID]; ok && r.Index() == ref.Index {
				resolvers[refID] = r
				expansion[refID] = m.expansion[refID]
				caches[refID] = m.statusCaches[refID]
				continue
			}
			resolvers[refID] = tree.NewResolver(ref.Index)
			if prev, ok := m.expansion[refID]; ok {
				prev.SetIndex(ref.Index)
				expansion[refID] = prev
			} else {
				expansion[refID] = tree.NewExpansionState(ref.Index)
			}
			caches[refID] = &tree.StatusCache{}
		}
	}
	m.expansion = expansion
	m.resolvers = resolvers
	m.statusCaches = caches

	if m.searcher != nil {
		m.searcher.SetDataset(ds)
	}
	m.rebuild()

	// Prune a highlight pointing at a ref that disappeared.
	if m.highlighted != nil && m.resolvers[m.highlighted.RefID] == nil {
		m.highlighted = nil
	}
}

// rebuild recomputes the visible-row projection and clamps the window.
func (m *Model) rebuild() {
	aggregated := make(map[string]*tree.AggregatedStatus, len(m.resolvers))
	for refID, resolver := range m.resolvers {
		aggregated[refID] = m.statusCaches[refID].Get(resolver, m.statuses)
	}
	m.projection = tree.BuildProjection(m.dataset, m.expansion, aggregated)
	m.clampOffset()
}

func (m *Model) treeHeight() int {
	// Header and footer each take one line.
	h := m.height - 2
	if h < 0 {
		return 0
	}
	return h
}

// openSearch enters the search overlay, showing the recently-viewed list
// until a query is typed.
func (m Model) openSearch() (tea.Model, tea.Cmd) {
	if m.searcher == nil {
		return m, nil
	}
	m.mode = modeSearch
	m.searcher.SetDataset(m.dataset)
	m.searcher.SetRecents(m.recents)
	cmd := m.search.open(m.searcher)
	return m, cmd
}

// updateSearch handles keys while the search overlay is active.
func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.searchKeymap.Cancel):
		if m.search.query() != "" {
			m.search.clear()
			return m, nil
		}
		m.mode = modeBrowse
		m.search.blur()
		return m, nil

	case key.Matches(msg, m.searchKeymap.Up):
		m.search.move(-1)
		return m, nil

	case key.Matches(msg, m.searchKeymap.Down):
		m.search.move(1)
		return m, nil

	case key.Matches(msg, m.searchKeymap.Accept):
		result, ok := m.search.current()
		if !ok {
			return m, nil
		}
		switch r := result.(type) {
		case storynav.SearchHit:
			if r.Item.Node.Type.IsLeaf() {
				m.selectStory(storynav.Selection{StoryID: r.Item.Node.ID, RefID: r.Item.RefID})
			} else {
				m.revealAndHighlight(r.Item)
			}
			m.mode = modeBrowse
			m.search.blur()
			return m, nil
		case storynav.ExpandPrompt:
			m.search.showAll(r)
			return m, nil
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.update(msg)
	return m, cmd
}

// revealAndHighlight expands down to a non-leaf search result and puts the
// cursor on it.
func (m *Model) revealAndHighlight(item storynav.SearchItem) {
	exp := m.expansion[item.RefID]
	resolver := m.resolvers[item.RefID]
	if exp == nil || resolver == nil {
		return
	}
	exp.Reveal(resolver, item.Node.ID)
	m.rebuild()
	m.setHighlighted(storynav.HighlightedRef{RefID: item.RefID, ItemID: item.Node.ID})
}

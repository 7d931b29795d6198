package bubbletea

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/awalczak/storynav"
	"github.com/awalczak/storynav/tree"
)

// styleFromColorPair creates a lipgloss style from a color pair.
// If renderer is nil, the default lipgloss renderer is used.
func styleFromColorPair(pair storynav.ColorPair, renderer *lipgloss.Renderer) lipgloss.Style {
	if renderer == nil {
		renderer = lipgloss.DefaultRenderer()
	}
	style := renderer.NewStyle()
	if pair.Foreground != "" {
		style = style.Foreground(lipgloss.Color(pair.Foreground))
	}
	if pair.Background != "" {
		style = style.Background(lipgloss.Color(pair.Background))
	}
	return style
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.mode == modeSearch {
		return m.viewSearch()
	}
	return m.viewTree()
}

// viewTree renders the windowed sidebar rows between header and footer.
func (m Model) viewTree() string {
	var sb strings.Builder
	sb.WriteString(m.headerLine())
	sb.WriteString("\n")

	height := m.treeHeight()
	rows := m.projection.Rows()
	end := m.offset + height
	if end > len(rows) {
		end = len(rows)
	}
	for i := m.offset; i < end; i++ {
		sb.WriteString(m.renderRow(rows[i]))
		sb.WriteString("\n")
	}
	for i := end - m.offset; i < height; i++ {
		sb.WriteString("\n")
	}

	sb.WriteString(m.footerLine("j/k move  h/l fold  / search  enter select  y copy  q quit"))
	return sb.String()
}

func (m Model) headerLine() string {
	refCount := 0
	storyCount := 0
	if m.dataset != nil {
		refCount = len(m.dataset.Order)
		for _, refID := range m.dataset.Order {
			if ref := m.dataset.Ref(refID); ref != nil && ref.Index != nil {
				for _, node := range ref.Index.Entries {
					if node.Type == storynav.NodeStory {
						storyCount++
					}
				}
			}
		}
	}
	title := fmt.Sprintf("storynav — %d stories", storyCount)
	if refCount > 1 {
		title = fmt.Sprintf("storynav — %d stories in %d refs", storyCount, refCount)
	}
	return styleFromColorPair(m.styles.RefHeader, m.renderer).Render(title)
}

func (m Model) footerLine(hints string) string {
	muted := styleFromColorPair(storynav.ColorPair{Foreground: m.palette.Muted}, m.renderer)
	if m.statusLine != "" {
		return m.statusLine + "  " + muted.Render(hints)
	}
	return muted.Render(hints)
}

// renderRow renders one sidebar line: indentation, fold marker, name, and
// status badge.
func (m Model) renderRow(row tree.Row) string {
	if row.IsRefHeader() {
		return styleFromColorPair(m.styles.RefHeader, m.renderer).Render(" " + row.RefTitle + " ")
	}

	indent := strings.Repeat("  ", row.Depth)

	marker := "  "
	if row.Expandable {
		if row.Expanded {
			marker = "▾ "
		} else {
			marker = "▸ "
		}
	}

	name := row.Node.Name
	nameStyle := styleFromColorPair(m.nodeStyle(row.Node.Type), m.renderer)

	highlighted := m.highlighted != nil &&
		m.highlighted.RefID == row.RefID && m.highlighted.ItemID == row.Node.ID
	selected := m.selection != nil &&
		m.selection.RefID == row.RefID && m.selection.StoryID == row.Node.ID

	if selected {
		nameStyle = styleFromColorPair(m.styles.Selected, m.renderer)
	}
	if highlighted {
		nameStyle = styleFromColorPair(m.styles.Highlight, m.renderer)
	}

	line := indent + marker + nameStyle.Render(name)

	if row.Status.ShowsBadge() {
		badge := styleFromColorPair(storynav.ColorPair{
			Foreground: m.palette.StatusColor(row.Status),
		}, m.renderer)
		line += " " + badge.Render("●")
	}

	return line
}

func (m Model) nodeStyle(t storynav.NodeType) storynav.ColorPair {
	switch t {
	case storynav.NodeRoot:
		return m.styles.Root
	case storynav.NodeGroup:
		return m.styles.Group
	case storynav.NodeComponent:
		return m.styles.Component
	case storynav.NodeDocument:
		return m.styles.Document
	default:
		return m.styles.Story
	}
}

// viewSearch renders the search overlay: input, windowed results, footer.
func (m Model) viewSearch() string {
	var sb strings.Builder
	sb.WriteString(styleFromColorPair(m.styles.SearchPrompt, m.renderer).Render(m.search.input.View()))
	sb.WriteString("\n")

	height := m.treeHeight()
	results := m.search.results

	// Keep the cursor inside the result window.
	offset := 0
	if m.search.cursor >= height {
		offset = m.search.cursor - height + 1
	}
	end := offset + height
	if end > len(results) {
		end = len(results)
	}

	for i := offset; i < end; i++ {
		sb.WriteString(m.renderResult(results[i], i == m.search.cursor))
		sb.WriteString("\n")
	}
	for i := end - offset; i < height; i++ {
		sb.WriteString("\n")
	}

	hints := "↑/↓ move  enter open  esc close"
	if m.search.query() == "" && len(results) > 0 {
		hints = "recently viewed — " + hints
	}
	sb.WriteString(m.footerLine(hints))
	return sb.String()
}

// renderResult renders one search result row; matched characters in the
// name are emphasized.
func (m Model) renderResult(result storynav.SearchResult, cursorOn bool) string {
	prefix := "  "
	if cursorOn {
		prefix = "▸ "
	}

	switch r := result.(type) {
	case storynav.SearchHit:
		crumb := ""
		if len(r.Item.Path) > 0 {
			crumbStyle := styleFromColorPair(m.styles.Breadcrumb, m.renderer)
			crumb = crumbStyle.Render(strings.Join(r.Item.Path, " / ") + " / ")
		}
		line := prefix + crumb + m.renderMatchedName(r, cursorOn)
		if r.Item.Status.ShowsBadge() {
			badge := styleFromColorPair(storynav.ColorPair{
				Foreground: m.palette.StatusColor(r.Item.Status),
			}, m.renderer)
			line += " " + badge.Render("●")
		}
		return line

	case storynav.ExpandPrompt:
		style := styleFromColorPair(m.styles.MoreResults, m.renderer)
		return prefix + style.Render(fmt.Sprintf("… %d more results (enter to show all)", r.MoreCount))

	default:
		return prefix
	}
}

// renderMatchedName styles the name with matched rune positions from the
// name-field match.
func (m Model) renderMatchedName(hit storynav.SearchHit, cursorOn bool) string {
	nameStyle := styleFromColorPair(m.nodeStyle(hit.Item.Node.Type), m.renderer)
	if cursorOn {
		nameStyle = styleFromColorPair(m.styles.Highlight, m.renderer)
	}

	var nameMatch *storynav.Match
	for i := range hit.Matches {
		if hit.Matches[i].Field == storynav.MatchName {
			nameMatch = &hit.Matches[i]
			break
		}
	}
	if nameMatch == nil || len(nameMatch.Indexes) == 0 {
		return nameStyle.Render(hit.Item.Node.Name)
	}

	// Matched indexes are byte offsets into the name.
	matched := make(map[int]bool, len(nameMatch.Indexes))
	for _, idx := range nameMatch.Indexes {
		matched[idx] = true
	}
	matchStyle := styleFromColorPair(m.styles.SearchMatch, m.renderer)

	var sb strings.Builder
	for i, r := range hit.Item.Node.Name {
		if matched[i] {
			sb.WriteString(matchStyle.Render(string(r)))
		} else {
			sb.WriteString(nameStyle.Render(string(r)))
		}
	}
	return sb.String()
}

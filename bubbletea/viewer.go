package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/awalczak/storynav"
)

// Compile-time interface verification.
var _ storynav.Viewer = (*Viewer)(nil)

// Viewer implements storynav.Viewer using a Bubble Tea TUI.
type Viewer struct {
	opts []ModelOption
}

// NewViewer creates a Viewer. The theme and remaining options are applied
// to every model it runs.
func NewViewer(theme storynav.Theme, opts ...ModelOption) *Viewer {
	return &Viewer{opts: append([]ModelOption{WithTheme(theme)}, opts...)}
}

// View displays the dataset and blocks until the user exits, returning
// the last story they selected, if any.
func (v *Viewer) View(ctx context.Context, dataset *storynav.Dataset) (*storynav.Selection, error) {
	m := NewModel(dataset, v.opts...)
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	if fm, ok := final.(Model); ok {
		return fm.Selection(), nil
	}
	return nil, nil
}

package storynav

// ColorPair holds foreground and background colors for a display element.
// Empty strings mean "terminal default".
type ColorPair struct {
	Foreground string
	Background string
}

// Styles defines the colors for every sidebar element.
type Styles struct {
	RefHeader ColorPair // composed-ref section headers
	Root      ColorPair // top-level section labels
	Group     ColorPair
	Component ColorPair
	Story     ColorPair
	Document  ColorPair

	Highlight ColorPair // keyboard-focused row
	Selected  ColorPair // currently selected story

	SearchPrompt ColorPair // search input prompt
	SearchMatch  ColorPair // matched characters in results
	Breadcrumb   ColorPair // result path text
	MoreResults  ColorPair // expand-prompt row
}

// Palette holds semantic colors shared across views.
type Palette struct {
	Background string
	Foreground string
	Accent     string
	Muted      string

	// Per-severity badge colors.
	StatusPending string
	StatusSuccess string
	StatusWarn    string
	StatusError   string
}

// StatusColor returns the badge color for a status, or empty when the
// status renders without color.
func (p Palette) StatusColor(s Status) string {
	switch s {
	case StatusPending:
		return p.StatusPending
	case StatusSuccess:
		return p.StatusSuccess
	case StatusWarn:
		return p.StatusWarn
	case StatusError:
		return p.StatusError
	default:
		return ""
	}
}

// Theme provides coordinated styles and palette.
type Theme interface {
	Styles() Styles
	Palette() Palette
}

// Package lipgloss provides theme implementations using the Lipgloss styling library.
package lipgloss

import "github.com/awalczak/storynav"

// Compile-time interface verification.
var _ storynav.Theme = (*Theme)(nil)

// Theme implements storynav.Theme with Lipgloss-compatible colors.
type Theme struct {
	styles  storynav.Styles
	palette storynav.Palette
}

// Styles returns the color styles for this theme.
func (t *Theme) Styles() storynav.Styles {
	return t.styles
}

// Palette returns the semantic color palette for this theme.
func (t *Theme) Palette() storynav.Palette {
	return t.palette
}

// DefaultTheme returns the default theme (dark background optimized).
func DefaultTheme() *Theme {
	return DarkTheme()
}

// DarkTheme returns a theme optimized for dark terminal backgrounds.
func DarkTheme() *Theme {
	return &Theme{
		styles: storynav.Styles{
			RefHeader: storynav.ColorPair{
				Foreground: "#f9e2af", // Yellow
				Background: "#313244", // Dark surface
			},
			Root: storynav.ColorPair{
				Foreground: "#9399b2", // Muted, sections read as labels
			},
			Group: storynav.ColorPair{
				Foreground: "#89b4fa", // Blue
			},
			Component: storynav.ColorPair{
				Foreground: "#cba6f7", // Mauve
			},
			Story: storynav.ColorPair{
				Foreground: "#cdd6f4", // Body text
			},
			Document: storynav.ColorPair{
				Foreground: "#94e2d5", // Teal
			},
			Highlight: storynav.ColorPair{
				Foreground: "#1e1e2e",
				Background: "#89b4fa", // Blue bar under the cursor
			},
			Selected: storynav.ColorPair{
				Foreground: "#a6e3a1", // Green
			},
			SearchPrompt: storynav.ColorPair{
				Foreground: "#89b4fa",
			},
			SearchMatch: storynav.ColorPair{
				Foreground: "#f9e2af", // Matched characters pop
			},
			Breadcrumb: storynav.ColorPair{
				Foreground: "#6c7086", // Muted gray
			},
			MoreResults: storynav.ColorPair{
				Foreground: "#fab387", // Peach
			},
		},
		palette: storynav.Palette{
			// Base colors (Catppuccin Mocha)
			Background: "#1e1e2e",
			Foreground: "#cdd6f4",
			Accent:     "#89b4fa",
			Muted:      "#6c7086",

			StatusPending: "#f9e2af",
			StatusSuccess: "#a6e3a1",
			StatusWarn:    "#fab387",
			StatusError:   "#f38ba8",
		},
	}
}

// LightTheme returns a theme optimized for light terminal backgrounds.
func LightTheme() *Theme {
	return &Theme{
		styles: storynav.Styles{
			RefHeader: storynav.ColorPair{
				Foreground: "#df8e1d",
				Background: "#e6e9ef",
			},
			Root: storynav.ColorPair{
				Foreground: "#6c6f85",
			},
			Group: storynav.ColorPair{
				Foreground: "#1e66f5",
			},
			Component: storynav.ColorPair{
				Foreground: "#8839ef",
			},
			Story: storynav.ColorPair{
				Foreground: "#4c4f69",
			},
			Document: storynav.ColorPair{
				Foreground: "#179299",
			},
			Highlight: storynav.ColorPair{
				Foreground: "#eff1f5",
				Background: "#1e66f5",
			},
			Selected: storynav.ColorPair{
				Foreground: "#40a02b",
			},
			SearchPrompt: storynav.ColorPair{
				Foreground: "#1e66f5",
			},
			SearchMatch: storynav.ColorPair{
				Foreground: "#df8e1d",
			},
			Breadcrumb: storynav.ColorPair{
				Foreground: "#9ca0b0",
			},
			MoreResults: storynav.ColorPair{
				Foreground: "#fe640b",
			},
		},
		palette: storynav.Palette{
			// Base colors (Catppuccin Latte)
			Background: "#eff1f5",
			Foreground: "#4c4f69",
			Accent:     "#1e66f5",
			Muted:      "#9ca0b0",

			StatusPending: "#df8e1d",
			StatusSuccess: "#40a02b",
			StatusWarn:    "#fe640b",
			StatusError:   "#d20f39",
		},
	}
}

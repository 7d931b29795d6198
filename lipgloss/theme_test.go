package lipgloss_test

import (
	"testing"

	"github.com/awalczak/storynav"
	"github.com/awalczak/storynav/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestThemes(t *testing.T) {
	t.Parallel()

	t.Run("default theme is the dark theme", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, lipgloss.DarkTheme().Palette(), lipgloss.DefaultTheme().Palette())
	})

	t.Run("dark and light themes differ", func(t *testing.T) {
		t.Parallel()
		assert.NotEqual(t, lipgloss.DarkTheme().Palette(), lipgloss.LightTheme().Palette())
	})

	t.Run("every theme colors each status severity", func(t *testing.T) {
		t.Parallel()

		for name, theme := range map[string]storynav.Theme{
			"dark":  lipgloss.DarkTheme(),
			"light": lipgloss.LightTheme(),
		} {
			p := theme.Palette()
			for _, s := range []storynav.Status{
				storynav.StatusPending,
				storynav.StatusSuccess,
				storynav.StatusWarn,
				storynav.StatusError,
			} {
				assert.NotEmpty(t, p.StatusColor(s), "%s theme, %s", name, s)
			}
			assert.Empty(t, p.StatusColor(storynav.StatusUnknown), "%s theme renders unknown without color", name)
		}
	})
}

package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/margin/internal/core/domain"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()

	require.NotNil(t, theme)
	assert.NotEmpty(t, string(theme.Primary))
	assert.NotEmpty(t, string(theme.Secondary))
	assert.NotEmpty(t, string(theme.Foreground))
	assert.NotEmpty(t, string(theme.Muted))
	assert.NotEmpty(t, string(theme.Success))
	assert.NotEmpty(t, string(theme.Warning))
	assert.NotEmpty(t, string(theme.Error))
	assert.NotEmpty(t, string(theme.Border))
}

func TestDefaultTheme_ColoursAreDistinct(t *testing.T) {
	theme := DefaultTheme()

	colours := []lipgloss.Color{
		theme.Primary,
		theme.Secondary,
		theme.Success,
		theme.Warning,
		theme.Error,
	}

	seen := make(map[string]bool)
	for _, c := range colours {
		s := string(c)
		assert.False(t, seen[s], "duplicate colour: %s", s)
		seen[s] = true
	}
}

func TestNewStyles_NilTheme(t *testing.T) {
	styles := NewStyles(nil)

	require.NotNil(t, styles)
	assert.NotNil(t, styles.Theme())
}

func TestStyles_AllStylesInitialised(t *testing.T) {
	styles := DefaultStyles()

	assert.NotEqual(t, lipgloss.Style{}, styles.Title)
	assert.NotEqual(t, lipgloss.Style{}, styles.Subtitle)
	assert.NotEqual(t, lipgloss.Style{}, styles.Normal)
	assert.NotEqual(t, lipgloss.Style{}, styles.Muted)
	assert.NotEqual(t, lipgloss.Style{}, styles.Hidden)
	assert.NotEqual(t, lipgloss.Style{}, styles.Selected)
	assert.NotEqual(t, lipgloss.Style{}, styles.Error)
	assert.NotEqual(t, lipgloss.Style{}, styles.Warning)
	assert.NotEqual(t, lipgloss.Style{}, styles.StatusBar)
}

func TestStyles_Flag(t *testing.T) {
	styles := DefaultStyles()

	tests := []struct {
		flag     domain.CognitiveFlag
		expected lipgloss.TerminalColor
	}{
		{domain.FlagUnresolvedContradiction, styles.Theme().Error},
		{domain.FlagContradiction, styles.Theme().Error},
		{domain.FlagNoEvidence, styles.Theme().Warning},
		{domain.FlagIsolated, styles.Theme().Muted},
		{domain.CognitiveFlag("SOMETHING_ELSE"), styles.Theme().Muted},
	}

	for _, tt := range tests {
		t.Run(tt.flag.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, styles.Flag(tt.flag).GetForeground())
		})
	}
}

func TestStyles_Swatch(t *testing.T) {
	styles := DefaultStyles()

	assert.Contains(t, styles.Swatch("#fde047"), "  ")
	assert.Equal(t, "  ", styles.Swatch("yellow"))
}

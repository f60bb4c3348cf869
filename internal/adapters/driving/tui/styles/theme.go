// Package styles provides colour themes and styling for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/margin/internal/core/domain"
)

// Theme defines the colour palette and styling for the TUI.
type Theme struct {
	// Primary is the main accent colour.
	Primary lipgloss.Color

	// Secondary is the secondary accent colour.
	Secondary lipgloss.Color

	// Foreground is the default text colour.
	Foreground lipgloss.Color

	// Muted is for less important text and hidden ideas.
	Muted lipgloss.Color

	// Success indicates positive outcomes.
	Success lipgloss.Color

	// Warning marks ideas that lack support.
	Warning lipgloss.Color

	// Error marks contradictions and failures.
	Error lipgloss.Color

	// Border is the border colour.
	Border lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#CA8A04"), // Amber, close to the default highlight
		Secondary:  lipgloss.Color("#0EA5E9"), // Sky
		Foreground: lipgloss.Color("#E7E5E4"), // Stone
		Muted:      lipgloss.Color("#78716C"), // Warm gray
		Success:    lipgloss.Color("#86EFAC"), // Green
		Warning:    lipgloss.Color("#FDBA74"), // Orange
		Error:      lipgloss.Color("#F87171"), // Red
		Border:     lipgloss.Color("#44403C"), // Dark stone
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	// Title style for headers.
	Title lipgloss.Style

	// Subtitle style for secondary headers.
	Subtitle lipgloss.Style

	// Normal style for regular text.
	Normal lipgloss.Style

	// Muted style for less important text.
	Muted lipgloss.Style

	// Hidden style for ideas hidden from the notes panel.
	Hidden lipgloss.Style

	// Selected style for highlighted items.
	Selected lipgloss.Style

	// Error style for error messages.
	Error lipgloss.Style

	// Success style for success messages.
	Success lipgloss.Style

	// Warning style for warning messages.
	Warning lipgloss.Style

	// InputField style for input areas.
	InputField lipgloss.Style

	// StatusBar style for the status bar.
	StatusBar lipgloss.Style

	// Help style for help text.
	Help lipgloss.Style

	// Border style for bordered containers.
	Border lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Subtitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Secondary),

		Normal: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Hidden: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Strikethrough(true),

		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#1C1917")).
			Background(theme.Primary),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error),

		Success: lipgloss.NewStyle().
			Foreground(theme.Success),

		Warning: lipgloss.NewStyle().
			Foreground(theme.Warning),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(lipgloss.Color("#1C1917")).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Border: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// Flag returns the badge style for a cognitive flag.
func (s *Styles) Flag(f domain.CognitiveFlag) lipgloss.Style {
	switch f {
	case domain.FlagContradiction, domain.FlagUnresolvedContradiction:
		return s.Error
	case domain.FlagNoEvidence, domain.FlagUnsupportedClaim, domain.FlagLowConfidence:
		return s.Warning
	default:
		return s.Muted
	}
}

// Swatch renders a small block in a highlight colour. Invalid colours
// render as a blank of the same width.
func (s *Styles) Swatch(color string) string {
	if !domain.IsHexColor(color) {
		return "  "
	}
	return lipgloss.NewStyle().Background(lipgloss.Color(color)).Render("  ")
}

// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/margin/internal/adapters/driving/tui/styles"
)

// maxRephraseLength caps what can be typed into one idea.
const maxRephraseLength = 500

// IdeaInput wraps a bubbles textinput for writing a new idea.
type IdeaInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int
}

// NewIdeaInput creates a new idea input component. It starts blurred.
func NewIdeaInput(s *styles.Styles) *IdeaInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "Rephrase the idea in your own words..."
	ti.CharLimit = maxRephraseLength
	ti.Width = 50

	return &IdeaInput{
		textinput: ti,
		styles:    s,
		width:     50,
	}
}

// Init initialises the input.
func (i *IdeaInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (i *IdeaInput) Update(msg tea.Msg) (*IdeaInput, tea.Cmd) {
	var cmd tea.Cmd
	i.textinput, cmd = i.textinput.Update(msg)
	return i, cmd
}

// View renders the input.
func (i *IdeaInput) View() string {
	label := i.styles.Title.Render("Idea: ")
	field := i.styles.InputField.Render(i.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field)
}

// Value returns the current input value.
func (i *IdeaInput) Value() string {
	return i.textinput.Value()
}

// SetValue sets the input value.
func (i *IdeaInput) SetValue(value string) {
	i.textinput.SetValue(value)
}

// Focus sets focus on the input.
func (i *IdeaInput) Focus() tea.Cmd {
	return i.textinput.Focus()
}

// Blur removes focus from the input.
func (i *IdeaInput) Blur() {
	i.textinput.Blur()
}

// Focused returns whether the input is focused.
func (i *IdeaInput) Focused() bool {
	return i.textinput.Focused()
}

// SetWidth sets the width of the input.
func (i *IdeaInput) SetWidth(width int) {
	i.width = width
	// Account for label and padding
	inputWidth := width - 12
	if inputWidth < 20 {
		inputWidth = 20
	}
	i.textinput.Width = inputWidth
}

// Width returns the current width.
func (i *IdeaInput) Width() int {
	return i.width
}

// Reset clears the input.
func (i *IdeaInput) Reset() {
	i.textinput.Reset()
}

package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIdeaInput(t *testing.T) {
	in := NewIdeaInput(nil)

	require.NotNil(t, in)
	assert.False(t, in.Focused())
	assert.Equal(t, "", in.Value())
	assert.NotNil(t, in.Init())
}

func TestIdeaInput_Typing(t *testing.T) {
	in := NewIdeaInput(nil)
	in.Focus()

	in, _ = in.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("sleep")})

	assert.Equal(t, "sleep", in.Value())
}

func TestIdeaInput_FocusBlurReset(t *testing.T) {
	in := NewIdeaInput(nil)
	in.Focus()
	in.SetValue("draft")
	assert.True(t, in.Focused())

	in.Blur()
	in.Reset()

	assert.False(t, in.Focused())
	assert.Equal(t, "", in.Value())
}

func TestIdeaInput_SetWidth(t *testing.T) {
	in := NewIdeaInput(nil)

	in.SetWidth(100)
	assert.Equal(t, 100, in.Width())

	in.SetWidth(5)
	assert.Equal(t, 5, in.Width())
	assert.Equal(t, 20, in.textinput.Width)
}

func TestIdeaInput_View(t *testing.T) {
	in := NewIdeaInput(nil)

	assert.Contains(t, in.View(), "Idea:")
}

// Package ideas provides the notes panel view for the TUI: the ideas of the
// workspace with their cognitive flags.
package ideas

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/margin/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/margin/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/margin/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/margin/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/margin/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/margin/internal/core/domain"
	"github.com/custodia-labs/margin/internal/core/ports/driving"
)

// View is the notes panel.
type View struct {
	ctx       context.Context
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	workspace driving.Workspace
	list      *list.IdeaList
	input     *input.IdeaInput
	editing   bool
	width     int
	height    int
}

// NewView creates a new notes panel.
func NewView(s *styles.Styles, km *keymap.KeyMap, workspace driving.Workspace) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		ctx:       context.Background(),
		styles:    s,
		keymap:    km,
		workspace: workspace,
		list:      list.NewIdeaList(s),
		input:     input.NewIdeaInput(s),
		width:     80,
		height:    24,
	}
}

// SetContext sets the context used for workspace writes.
func (v *View) SetContext(ctx context.Context) {
	v.ctx = ctx
}

// Init loads the ideas.
func (v *View) Init() tea.Cmd {
	return v.load()
}

// Update handles messages for the notes panel.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.IdeasLoaded:
		rows := make([]list.Row, len(msg.Ideas))
		for i, idea := range msg.Ideas {
			rows[i] = list.Row{Idea: idea, Flags: msg.Flags[idea.ID]}
		}
		v.list.SetRows(rows)
		return v, nil

	case messages.IdeaHidden:
		if msg.Err != nil {
			return v, nil
		}
		return v, v.load()

	case messages.IdeaAdded:
		if msg.Err != nil {
			// Keep the text so it can be fixed.
			return v, nil
		}
		v.stopEditing()
		return v, v.load()

	case messages.IdeaSelected:
		v.list.Select(msg.ID)
		return v, nil

	case tea.KeyMsg:
		if v.editing {
			return v.updateEditing(msg)
		}
		return v.updateBrowsing(msg)
	}

	if v.editing {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *View) updateBrowsing(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keymap.MoveUp):
		v.list.Reorder(-1)
	case keymap.Matches(k, v.keymap.MoveDown):
		v.list.Reorder(1)
	case keymap.Matches(k, v.keymap.Up):
		v.list.MoveUp()
	case keymap.Matches(k, v.keymap.Down):
		v.list.MoveDown()
	case keymap.Matches(k, v.keymap.Hide):
		return v, v.toggleHidden()
	case keymap.Matches(k, v.keymap.ShowHidden):
		v.list.ToggleShowHidden()
	case keymap.Matches(k, v.keymap.Refresh):
		return v, v.load()
	case keymap.Matches(k, v.keymap.New):
		v.editing = true
		v.input.Reset()
		return v, v.input.Focus()
	}
	return v, nil
}

func (v *View) updateEditing(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc:
		v.stopEditing()
		return v, nil
	case msg.Type == tea.KeyEnter:
		return v, v.addIdea(v.input.Value())
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) stopEditing() {
	v.editing = false
	v.input.Blur()
	v.input.Reset()
}

// View renders the notes panel.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.list.View())
	if v.editing {
		b.WriteString("\n\n")
		b.WriteString(v.input.View())
	}
	return b.String()
}

// SetDimensions sets the panel dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	listHeight := height
	if v.editing {
		listHeight -= 4
	}
	v.list.SetDimensions(width, listHeight)
	v.input.SetWidth(width)
}

// Editing reports whether a new idea is being written. Keys go to the
// input while it is.
func (v *View) Editing() bool {
	return v.editing
}

// List exposes the idea list, mainly for tests.
func (v *View) List() *list.IdeaList {
	return v.list
}

func (v *View) load() tea.Cmd {
	ws := v.workspace
	return func() tea.Msg {
		return messages.IdeasLoaded{Ideas: ws.Ideas(), Flags: ws.Flags()}
	}
}

func (v *View) toggleHidden() tea.Cmd {
	row := v.list.SelectedRow()
	if row == nil {
		return nil
	}
	ctx, ws := v.ctx, v.workspace
	id, hidden := row.Idea.ID, !row.Idea.HiddenFromNotes
	return func() tea.Msg {
		err := ws.HideIdea(ctx, id, hidden)
		return messages.IdeaHidden{ID: id, Hidden: hidden, Err: err}
	}
}

func (v *View) addIdea(rephrase string) tea.Cmd {
	ctx, ws := v.ctx, v.workspace
	return func() tea.Msg {
		idea, err := ws.AddIdea(ctx, domain.IdeaDraft{Rephrase: rephrase})
		return messages.IdeaAdded{Idea: idea, Err: err}
	}
}

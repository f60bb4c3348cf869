// Package queue provides the study queue view for the TUI.
package queue

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/truncate"

	"github.com/custodia-labs/margin/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/margin/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/margin/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/margin/internal/core/domain"
	"github.com/custodia-labs/margin/internal/core/ports/driving"
)

// View lists flagged ideas, most urgent first.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	workspace driving.Workspace
	items     []domain.StudyItem
	selected  int
	width     int
	height    int
}

// NewView creates a new study queue view.
func NewView(s *styles.Styles, km *keymap.KeyMap, workspace driving.Workspace) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:    s,
		keymap:    km,
		workspace: workspace,
		width:     80,
		height:    24,
	}
}

// Init loads the queue.
func (v *View) Init() tea.Cmd {
	ws := v.workspace
	return func() tea.Msg {
		return messages.QueueLoaded{Items: ws.StudyQueue()}
	}
}

// Update handles messages for the queue view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.QueueLoaded:
		v.items = msg.Items
		if v.selected >= len(v.items) {
			v.selected = 0
		}
		return v, nil

	case tea.KeyMsg:
		k := msg.String()
		switch {
		case keymap.Matches(k, v.keymap.Up):
			if v.selected > 0 {
				v.selected--
			}
		case keymap.Matches(k, v.keymap.Down):
			if v.selected < len(v.items)-1 {
				v.selected++
			}
		case msg.Type == tea.KeyEnter:
			if item := v.SelectedItem(); item != nil {
				id := item.Idea.ID
				return v, func() tea.Msg { return messages.IdeaSelected{ID: id} }
			}
		}
	}
	return v, nil
}

// View renders the queue.
func (v *View) View() string {
	if len(v.items) == 0 {
		return v.styles.Success.Render("Nothing to review. Every idea is connected and supported.")
	}

	lines := []string{
		v.styles.Subtitle.Render(fmt.Sprintf("Study queue (%d)", len(v.items))),
		"",
	}
	for i := range v.items {
		lines = append(lines, v.renderItem(i, &v.items[i]))
	}
	lines = append(lines, "", v.styles.Help.Render("enter: open in notes"))
	return strings.Join(lines, "\n")
}

func (v *View) renderItem(index int, item *domain.StudyItem) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	priority := "  -"
	if item.Priority != domain.UnrankedPriority {
		priority = fmt.Sprintf("P%d", item.Priority)
	}

	maxLen := v.width - 20
	if maxLen < 10 {
		maxLen = 10
	}
	text := truncate.StringWithTail(item.Idea.Rephrase, uint(maxLen), "...")

	label := fmt.Sprintf("%s%-3s %-10s %s", indicator, priority, item.Idea.Type, text)
	if index == v.selected {
		label = v.styles.Selected.Render(label)
	} else {
		label = v.styles.Normal.Render(label)
	}

	badges := make([]string, len(item.Flags))
	for i, f := range item.Flags {
		badges[i] = v.styles.Flag(f).Render(f.String())
	}
	return label + "\n      " + strings.Join(badges, " ")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Items returns the loaded queue.
func (v *View) Items() []domain.StudyItem {
	return v.items
}

// SelectedItem returns the selected entry, or nil when the queue is empty.
func (v *View) SelectedItem() *domain.StudyItem {
	if v.selected < 0 || v.selected >= len(v.items) {
		return nil
	}
	return &v.items[v.selected]
}

// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/truncate"

	"github.com/custodia-labs/margin/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/margin/internal/core/domain"
)

// Row is one idea with the flags the analyzer derived for it.
type Row struct {
	Idea  domain.Idea
	Flags []domain.CognitiveFlag
}

// IdeaList displays ideas in a user-ordered, navigable list.
//
// The order is a list of idea ids reordered with domain.MoveToken. It lives
// only as long as the list does; new ideas are appended at the end.
type IdeaList struct {
	rows       map[string]Row
	order      []string
	showHidden bool
	selected   int
	styles     *styles.Styles
	width      int
	height     int
}

// NewIdeaList creates a new idea list component.
func NewIdeaList(s *styles.Styles) *IdeaList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &IdeaList{
		rows:   make(map[string]Row),
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the idea list.
func (l *IdeaList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *IdeaList) Update(msg tea.Msg) (*IdeaList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// SetRows replaces the list contents. Ideas already listed keep their
// position; unknown ideas are appended in the given order.
func (l *IdeaList) SetRows(rows []Row) {
	selectedID := l.selectedID()

	next := make(map[string]Row, len(rows))
	for _, r := range rows {
		next[r.Idea.ID] = r
	}

	order := make([]string, 0, len(rows))
	for _, id := range l.order {
		if _, ok := next[id]; ok {
			order = append(order, id)
		}
	}
	for _, r := range rows {
		if _, ok := l.rows[r.Idea.ID]; !ok {
			order = append(order, r.Idea.ID)
		}
	}

	l.rows = next
	l.order = order
	l.reselect(selectedID)
}

// Visible returns the rows shown, in display order.
func (l *IdeaList) Visible() []Row {
	out := make([]Row, 0, len(l.order))
	for _, id := range l.order {
		r := l.rows[id]
		if r.Idea.HiddenFromNotes && !l.showHidden {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Order returns a copy of the full idea order, hidden ideas included.
func (l *IdeaList) Order() []string {
	out := make([]string, len(l.order))
	copy(out, l.order)
	return out
}

// Selected returns the index of the selected visible row.
func (l *IdeaList) Selected() int {
	return l.selected
}

// SelectedRow returns the selected row, or nil when the list is empty.
func (l *IdeaList) SelectedRow() *Row {
	visible := l.Visible()
	if len(visible) == 0 || l.selected < 0 || l.selected >= len(visible) {
		return nil
	}
	return &visible[l.selected]
}

// Select moves the selection to an idea. Hidden ideas become visible.
// Returns false when the idea is not listed.
func (l *IdeaList) Select(id string) bool {
	r, ok := l.rows[id]
	if !ok {
		return false
	}
	if r.Idea.HiddenFromNotes {
		l.showHidden = true
	}
	l.reselect(id)
	return true
}

// MoveUp moves selection up.
func (l *IdeaList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *IdeaList) MoveDown() {
	if l.selected < len(l.Visible())-1 {
		l.selected++
	}
}

// Reorder moves the selected idea past its visible neighbour in direction
// delta (-1 up, +1 down). The selection follows the idea.
func (l *IdeaList) Reorder(delta int) {
	visible := l.Visible()
	target := l.selected + delta
	if l.selected < 0 || l.selected >= len(visible) || target < 0 || target >= len(visible) {
		return
	}

	from := l.indexOf(visible[l.selected].Idea.ID)
	to := l.indexOf(visible[target].Idea.ID)
	l.order = domain.MoveToken(l.order, from, to)
	l.selected = target
}

// ToggleShowHidden switches between listing all ideas and visible ones.
func (l *IdeaList) ToggleShowHidden() {
	selectedID := l.selectedID()
	l.showHidden = !l.showHidden
	l.reselect(selectedID)
}

// ShowHidden reports whether hidden ideas are listed.
func (l *IdeaList) ShowHidden() bool {
	return l.showHidden
}

// View renders the idea list.
func (l *IdeaList) View() string {
	visible := l.Visible()
	if len(visible) == 0 {
		return l.styles.Muted.Render("No ideas. Press n to write one.")
	}

	title := fmt.Sprintf("Notes (%d)", len(visible))
	if l.showHidden {
		title += " incl. hidden"
	}
	lines := []string{l.styles.Subtitle.Render(title), ""}

	// Each row takes two lines
	visibleCount := (l.height - 2) / 2
	if visibleCount < 1 {
		visibleCount = 1
	}
	start := 0
	if l.selected >= visibleCount {
		start = l.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(visible) {
		end = len(visible)
	}

	for i := start; i < end; i++ {
		lines = append(lines, l.renderRow(i, &visible[i]))
	}
	return strings.Join(lines, "\n")
}

func (l *IdeaList) renderRow(index int, row *Row) string {
	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}

	maxLen := l.width - 18
	if maxLen < 10 {
		maxLen = 10
	}
	text := truncate.StringWithTail(row.Idea.Rephrase, uint(maxLen), "...")
	label := fmt.Sprintf("%s%-10s %s", indicator, row.Idea.Type, text)

	var first string
	switch {
	case index == l.selected:
		first = l.styles.Selected.Render(label)
	case row.Idea.HiddenFromNotes:
		first = l.styles.Hidden.Render(label)
	default:
		first = l.styles.Normal.Render(label)
	}

	badges := make([]string, 0, len(row.Flags)+1)
	if row.Idea.HiddenFromNotes {
		badges = append(badges, l.styles.Muted.Render("hidden"))
	}
	for _, f := range row.Flags {
		badges = append(badges, l.styles.Flag(f).Render(f.String()))
	}
	return first + "\n    " + strings.Join(badges, " ")
}

// SetDimensions sets the component dimensions.
func (l *IdeaList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of visible rows.
func (l *IdeaList) Count() int {
	return len(l.Visible())
}

func (l *IdeaList) selectedID() string {
	if r := l.SelectedRow(); r != nil {
		return r.Idea.ID
	}
	return ""
}

// reselect points the selection at id, or clamps it when id is not visible.
func (l *IdeaList) reselect(id string) {
	visible := l.Visible()
	for i := range visible {
		if visible[i].Idea.ID == id {
			l.selected = i
			return
		}
	}
	if l.selected >= len(visible) {
		l.selected = len(visible) - 1
	}
	if l.selected < 0 {
		l.selected = 0
	}
}

func (l *IdeaList) indexOf(id string) int {
	for i, v := range l.order {
		if v == id {
			return i
		}
	}
	return -1
}

package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/margin/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/margin/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/margin/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/margin/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/margin/internal/adapters/driving/tui/views/ideas"
	"github.com/custodia-labs/margin/internal/adapters/driving/tui/views/queue"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	// ideasView is the notes panel.
	ideasView *ideas.View

	// queueView is the study queue.
	queueView *queue.View

	// statusBar shows counts, messages and key hints.
	statusBar *status.Bar

	// project is the configured project id shown in the header.
	project string

	// currentView tracks which view is active.
	currentView messages.ViewType

	// previousView is restored when help is closed.
	previousView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	project := ""
	if ports.Settings != nil {
		if settings, err := ports.Settings.Get(); err == nil {
			project = settings.Project.ID
		}
	}

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		ideasView:   ideas.NewView(s, km, ports.Workspace),
		queueView:   queue.NewView(s, km, ports.Workspace),
		statusBar:   status.NewBar(s, km),
		project:     project,
		currentView: messages.ViewIdeas,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.ideasView.SetContext(ctx)
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("margin"),
		a.ideasView.Init(),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocognit,gocyclo // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.ViewChanged:
		return a, a.switchTo(msg.View)

	case messages.IdeasLoaded:
		a.statusBar.SetCounts(len(msg.Ideas), len(msg.Flags))
		a.ideasView, cmd = a.ideasView.Update(msg)
		return a, cmd

	case messages.QueueLoaded:
		a.queueView, cmd = a.queueView.Update(msg)
		return a, cmd

	case messages.IdeaHidden:
		if msg.Err != nil {
			a.setError(msg.Err)
		} else if msg.Hidden {
			a.statusBar.SetMessage("Idea hidden from notes")
		} else {
			a.statusBar.SetMessage("Idea back in notes")
		}
		a.ideasView, cmd = a.ideasView.Update(msg)
		return a, cmd

	case messages.IdeaAdded:
		if msg.Err != nil {
			a.setError(msg.Err)
		} else {
			a.statusBar.Clear()
			a.statusBar.SetMessage("Idea saved")
		}
		a.ideasView, cmd = a.ideasView.Update(msg)
		return a, cmd

	case messages.IdeaSelected:
		a.currentView = messages.ViewIdeas
		a.ideasView, cmd = a.ideasView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.setError(msg.Err)
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages (cursor blink) to the active view
	switch a.currentView {
	case messages.ViewIdeas:
		a.ideasView, cmd = a.ideasView.Update(msg)
	case messages.ViewQueue:
		a.queueView, cmd = a.queueView.Update(msg)
	case messages.ViewHelp:
		// Help view doesn't need to handle other messages
	}
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// Global quit with ctrl+c
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	// Typed text belongs to the input
	if a.currentView == messages.ViewIdeas && a.ideasView.Editing() {
		a.ideasView, cmd = a.ideasView.Update(msg)
		return a, cmd
	}

	k := msg.String()
	switch {
	case keymap.Matches(k, a.keymap.Quit):
		return a, tea.Quit
	case keymap.Matches(k, a.keymap.Help):
		if a.currentView == messages.ViewHelp {
			a.currentView = a.previousView
			return a, nil
		}
		a.previousView = a.currentView
		a.currentView = messages.ViewHelp
		return a, nil
	case keymap.Matches(k, a.keymap.SwitchView):
		if a.currentView == messages.ViewQueue {
			return a, a.switchTo(messages.ViewIdeas)
		}
		return a, a.switchTo(messages.ViewQueue)
	}

	// Any other key clears a stale message or error
	a.statusBar.Clear()
	a.err = nil

	switch a.currentView {
	case messages.ViewIdeas:
		a.ideasView, cmd = a.ideasView.Update(msg)
	case messages.ViewQueue:
		a.queueView, cmd = a.queueView.Update(msg)
	case messages.ViewHelp:
		if keymap.Matches(k, a.keymap.Back) {
			a.currentView = a.previousView
		}
	}
	return a, cmd
}

// switchTo activates a view and reloads its data.
func (a *App) switchTo(view messages.ViewType) tea.Cmd {
	a.currentView = view
	a.statusBar.Clear()
	switch view {
	case messages.ViewIdeas:
		return a.ideasView.Init()
	case messages.ViewQueue:
		return a.queueView.Init()
	case messages.ViewHelp:
	}
	return nil
}

func (a *App) setError(err error) {
	a.err = err
	a.statusBar.SetState(status.StateError)
	a.statusBar.SetMessage(err.Error())
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewIdeas:
		body = a.ideasView.View()
	case messages.ViewQueue:
		body = a.queueView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	}

	if a.statusBar.State() != status.StateError {
		switch {
		case a.currentView == messages.ViewHelp:
			a.statusBar.SetState(status.StateHelp)
		case a.ideasView.Editing():
			a.statusBar.SetState(status.StateEditing)
		default:
			a.statusBar.SetState(status.StateReady)
		}
	}

	return strings.Join([]string{a.viewHeader(), "", body, "", a.statusBar.View()}, "\n")
}

func (a *App) viewHeader() string {
	tabs := []struct {
		label string
		view  messages.ViewType
	}{
		{"Notes", messages.ViewIdeas},
		{"Study queue", messages.ViewQueue},
	}

	parts := []string{a.styles.Title.Render("margin")}
	if a.project != "" {
		parts = append(parts, a.styles.Muted.Render(a.project))
	}
	for _, t := range tabs {
		if t.view == a.currentView {
			parts = append(parts, a.styles.Selected.Render(" "+t.label+" "))
		} else {
			parts = append(parts, a.styles.Muted.Render(" "+t.label+" "))
		}
	}
	return strings.Join(parts, "  ")
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Subtitle.Render("Help"))
	b.WriteString("\n\n")
	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			fmt.Fprintf(&b, "  %-12s %s\n", h.Key, h.Desc)
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Help.Render("[esc] back"))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	// Header, spacing and status bar take four lines
	bodyHeight := height - 4
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	a.ideasView.SetDimensions(width, bodyHeight)
	a.queueView.SetDimensions(width, bodyHeight)
	a.statusBar.SetWidth(width)
}

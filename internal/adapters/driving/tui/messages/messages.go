// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/margin/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewIdeas is the notes panel: ideas with their flags.
	ViewIdeas ViewType = iota
	// ViewQueue is the study queue.
	ViewQueue
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewIdeas:
		return "ideas"
	case ViewQueue:
		return "queue"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// IdeasLoaded carries ideas and their flags from the workspace.
type IdeasLoaded struct {
	Ideas []domain.Idea
	Flags map[string][]domain.CognitiveFlag
}

// QueueLoaded carries the study queue.
type QueueLoaded struct {
	Items []domain.StudyItem
}

// IdeaHidden signals that an idea's hidden flag was changed.
type IdeaHidden struct {
	ID     string
	Hidden bool
	Err    error
}

// IdeaAdded signals that an idea was created from the TUI.
type IdeaAdded struct {
	Idea *domain.Idea
	Err  error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// IdeaSelected asks the notes panel to select an idea, for example from
// the study queue.
type IdeaSelected struct {
	ID string
}

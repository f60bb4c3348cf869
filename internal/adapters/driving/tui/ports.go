// Package tui provides an interactive terminal user interface for margin.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/margin/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Workspace holds ideas, anchors and relations with their review views.
	Workspace driving.Workspace

	// Settings manages application settings. Optional; the header shows the
	// configured project when set.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Workspace == nil {
		return ErrMissingWorkspace
	}
	return nil
}

package mcp

import (
	"github.com/custodia-labs/margin/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Workspace holds ideas, anchors and relations.
	Workspace driving.Workspace

	// Version is reported to clients. Defaults to the package Version.
	Version string
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Workspace == nil {
		return ErrMissingWorkspace
	}
	return nil
}

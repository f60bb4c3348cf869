// Package mcp provides an MCP (Model Context Protocol) server adapter for margin.
// It lets AI assistants read a reader's ideas, review the study queue and
// add ideas and relations.
package mcp

import "errors"

// ErrMissingWorkspace is returned when the workspace is not provided.
var ErrMissingWorkspace = errors.New("mcp: workspace is required")

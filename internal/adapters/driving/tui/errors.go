package tui

import "errors"

// ErrMissingWorkspace is returned when the workspace is not provided.
var ErrMissingWorkspace = errors.New("tui: workspace is required")

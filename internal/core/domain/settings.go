package domain

import "time"

// Defaults for application settings.
const (
	DefaultProjectID             = "default"
	DefaultMinResolverConfidence = 0.5
	DefaultWatchInterval         = time.Second
)

// AppSettings holds user-configurable behaviour.
type AppSettings struct {
	Project  ProjectSettings
	Display  DisplaySettings
	Resolver ResolverSettings
	Watch    WatchSettings
}

// ProjectSettings scopes new entities to a project.
type ProjectSettings struct {
	// ID is stamped on every idea, anchor and relation created.
	ID string
}

// DisplaySettings controls how annotations are shown.
type DisplaySettings struct {
	// HighlightColor is the default #rrggbb colour for new highlights.
	HighlightColor string
}

// ResolverSettings tunes anchor relocation.
type ResolverSettings struct {
	// MinConfidence is the lowest relocation confidence that is persisted.
	MinConfidence float64
}

// WatchSettings tunes the source watcher.
type WatchSettings struct {
	// Interval is the minimum time between two re-anchoring passes.
	Interval time.Duration
}

// DefaultAppSettings returns settings with all defaults applied.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Project:  ProjectSettings{ID: DefaultProjectID},
		Display:  DisplaySettings{HighlightColor: DefaultHighlightColor},
		Resolver: ResolverSettings{MinConfidence: DefaultMinResolverConfidence},
		Watch:    WatchSettings{Interval: DefaultWatchInterval},
	}
}

// Validate checks settings before they are saved.
func (s *AppSettings) Validate() error {
	if s.Project.ID == "" {
		return &ValidationError{Entity: "settings", Field: "project.id", Reason: "is required"}
	}
	if !IsHexColor(s.Display.HighlightColor) {
		return &ValidationError{Entity: "settings", Field: "highlight.color", Reason: "must be a #rrggbb colour"}
	}
	if s.Resolver.MinConfidence < 0 || s.Resolver.MinConfidence > 1 {
		return &ValidationError{Entity: "settings", Field: "resolver.min_confidence", Reason: "must be between 0 and 1"}
	}
	if s.Watch.Interval <= 0 {
		return &ValidationError{Entity: "settings", Field: "watch.interval_ms", Reason: "must be positive"}
	}
	return nil
}

package domain

import (
	"regexp"
	"time"
)

// DefaultHighlightColor is the colour used when none is configured.
const DefaultHighlightColor = "#fde047"

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// IsHexColor reports whether s is a #rrggbb colour.
func IsHexColor(s string) bool {
	return hexColor.MatchString(s)
}

// Highlight is a display colour bound to an anchor. Several highlights may
// reference the same anchor; the most recently inserted one wins.
type Highlight struct {
	ID        string
	AnchorID  string
	Color     string
	CreatedAt time.Time
}

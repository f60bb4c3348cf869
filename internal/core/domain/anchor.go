package domain

import (
	"math"
	"time"
)

// ResolverStrategy names how an anchor's position was derived.
type ResolverStrategy string

// Available resolver strategies.
const (
	// StrategyQuoteContext is a live text selection captured with its quote
	// and surrounding context. Confidence is always 1.
	StrategyQuoteContext ResolverStrategy = "QUOTE_CONTEXT"

	// StrategyQuoteSearch is an anchor re-derived by searching for a stored
	// quote in the extracted text of its page.
	StrategyQuoteSearch ResolverStrategy = "QUOTE_SEARCH"
)

// IsValid returns true if the strategy is recognised.
func (s ResolverStrategy) IsValid() bool {
	return s == StrategyQuoteContext || s == StrategyQuoteSearch
}

// String returns the string representation.
func (s ResolverStrategy) String() string {
	return string(s)
}

// Rect is an axis-aligned rectangle. Inside an Anchor its fields are
// fractions of the page viewport; elsewhere they are pixels.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// IsDegenerate reports whether the rectangle has no area or a non-finite
// coordinate.
func (r Rect) IsDegenerate() bool {
	if !finite(r.X) || !finite(r.Y) || !finite(r.Width) || !finite(r.Height) {
		return true
	}
	return r.Width <= 0 || r.Height <= 0
}

// Viewport is the pixel size of a rendered page.
type Viewport struct {
	Width  float64
	Height float64
}

// IsValid reports whether both dimensions are positive and finite.
func (v Viewport) IsValid() bool {
	return finite(v.Width) && finite(v.Height) && v.Width > 0 && v.Height > 0
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Normalize converts a pixel rectangle into fractions of the viewport.
func (v Viewport) Normalize(r Rect) Rect {
	return Rect{
		X:      r.X / v.Width,
		Y:      r.Y / v.Height,
		Width:  r.Width / v.Width,
		Height: r.Height / v.Height,
	}
}

// Denormalize converts a normalized rectangle back into viewport pixels.
func (v Viewport) Denormalize(r Rect) Rect {
	return Rect{
		X:      r.X * v.Width,
		Y:      r.Y * v.Height,
		Width:  r.Width * v.Width,
		Height: r.Height * v.Height,
	}
}

// Anchor is a durable pointer to a quoted passage on one page of one source.
// Rects are stored normalized to the page viewport so that an anchor stays
// valid across zoom levels and device pixel ratios. Anchors are immutable.
type Anchor struct {
	// ID is the unique identifier for the anchor.
	ID string

	// ProjectID is the owning project.
	ProjectID string

	// SourceID identifies the source document (typically its path).
	SourceID string

	// PageNumber is the 1-based page the quote lives on.
	PageNumber int

	// Quote is the verbatim selected text.
	Quote string

	// ContextBefore is text immediately preceding the quote, if captured.
	ContextBefore string

	// ContextAfter is text immediately following the quote, if captured.
	ContextAfter string

	// Rects are the normalized selection rectangles in reading order.
	Rects []Rect

	// Strategy records how the anchor was derived.
	Strategy ResolverStrategy

	// Confidence is the resolver's confidence in [0,1].
	Confidence float64

	// CreatedAt is when the anchor was created.
	CreatedAt time.Time
}

// IsNavigable reports whether the anchor carries a position on its page.
// Anchors without rects can only be navigated to by page number.
func (a *Anchor) IsNavigable() bool {
	return len(a.Rects) > 0
}

// IdeaAnchor links an idea to an anchor. At most one link exists per pair.
type IdeaAnchor struct {
	ID        string
	IdeaID    string
	AnchorID  string
	CreatedAt time.Time
}

// Glyph is a positioned run of text extracted from a page.
// Rect is in page units with the origin at the top-left corner.
type Glyph struct {
	Text string
	Rect Rect
}

// PageText is the extracted text layer of a single page.
type PageText struct {
	// PageNumber is the 1-based page number.
	PageNumber int

	// Width and Height are the page size in page units.
	Width  float64
	Height float64

	// Glyphs are in content-stream order.
	Glyphs []Glyph
}

package driven

import (
	"context"

	"github.com/custodia-labs/margin/internal/core/domain"
)

// TextLayer extracts positioned text from a source document.
type TextLayer interface {
	// PageText returns the glyphs of a 1-based page together with the page
	// size. Glyph rects use a top-left origin in page units.
	PageText(ctx context.Context, sourcePath string, page int) (*domain.PageText, error)

	// PageCount returns the number of pages in the document.
	PageCount(ctx context.Context, sourcePath string) (int, error)
}

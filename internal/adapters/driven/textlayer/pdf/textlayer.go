package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/margin/internal/core/domain"
	"github.com/custodia-labs/margin/internal/core/ports/driven"
)

// US Letter, used when a page carries no usable MediaBox.
const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

// ErrPageOutOfRange is returned when a page number is outside the document.
var ErrPageOutOfRange = errors.New("page out of range")

// Ensure TextLayer implements the interface.
var _ driven.TextLayer = (*TextLayer)(nil)

// TextLayer extracts page text from PDF files on disk.
type TextLayer struct{}

// NewTextLayer creates a PDF text layer.
func NewTextLayer() *TextLayer {
	return &TextLayer{}
}

// PageCount returns the number of pages in the document.
func (t *TextLayer) PageCount(ctx context.Context, sourcePath string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	f, r, err := open(sourcePath)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return r.NumPage(), nil
}

// PageText extracts the glyphs of one 1-based page.
func (t *TextLayer) PageText(ctx context.Context, sourcePath string, page int) (text *domain.PageText, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, r, err := open(sourcePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if page < 1 || page > r.NumPage() {
		return nil, fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, page, r.NumPage())
	}
	p := r.Page(page)
	if p.V.IsNull() {
		return nil, fmt.Errorf("%w: page %d has no object", ErrPageOutOfRange, page)
	}

	// The content stream interpreter panics on malformed input.
	defer func() {
		if rec := recover(); rec != nil {
			text = nil
			err = fmt.Errorf("extracting page %d of %s: %v", page, sourcePath, rec)
		}
	}()

	return convertPage(page, pageBox(p.V), p.Content().Text), nil
}

func open(sourcePath string) (*os.File, *pdf.Reader, error) {
	f, r, err := pdf.Open(sourcePath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening pdf %s: %w", sourcePath, err)
	}
	return f, r, nil
}

// mediaBox is a page's visible area in PDF units. X and Y are the
// lower-left corner, which need not be the origin.
type mediaBox struct {
	X, Y          float64
	Width, Height float64
}

// pageBox reads the MediaBox, walking up the page tree when the page
// inherits it.
func pageBox(v pdf.Value) mediaBox {
	for node := v; !node.IsNull(); node = node.Key("Parent") {
		box := node.Key("MediaBox")
		if box.Len() < 4 {
			continue
		}
		llx, lly := box.Index(0).Float64(), box.Index(1).Float64()
		w := box.Index(2).Float64() - llx
		h := box.Index(3).Float64() - lly
		if w > 0 && h > 0 {
			return mediaBox{X: llx, Y: lly, Width: w, Height: h}
		}
	}
	return mediaBox{Width: defaultPageWidth, Height: defaultPageHeight}
}

// convertPage turns baseline-anchored PDF text runs into rectangles
// relative to the top-left corner of the media box. Runs with no text or
// no size are dropped.
func convertPage(number int, box mediaBox, texts []pdf.Text) *domain.PageText {
	out := &domain.PageText{
		PageNumber: number,
		Width:      box.Width,
		Height:     box.Height,
		Glyphs:     make([]domain.Glyph, 0, len(texts)),
	}
	top := box.Y + box.Height
	for _, t := range texts {
		if t.S == "" || t.FontSize <= 0 {
			continue
		}
		w := t.W
		if w <= 0 {
			// Zero-advance runs still need an area to be matched.
			w = t.FontSize / 2
		}
		out.Glyphs = append(out.Glyphs, domain.Glyph{
			Text: t.S,
			Rect: domain.Rect{
				X:      t.X - box.X,
				Y:      top - t.Y - t.FontSize,
				Width:  w,
				Height: t.FontSize,
			},
		})
	}
	return out
}

package pdf

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/margin/internal/core/domain"
)

func TestConvertPage_FlipsToTopLeftOrigin(t *testing.T) {
	texts := []pdf.Text{
		{Font: "Helvetica", FontSize: 12, X: 72, Y: 700, W: 6, S: "H"},
		{Font: "Helvetica", FontSize: 12, X: 78, Y: 700, W: 5, S: "i"},
	}

	page := convertPage(2, mediaBox{Width: 612, Height: 792}, texts)

	assert.Equal(t, 2, page.PageNumber)
	assert.InDelta(t, 612.0, page.Width, 1e-9)
	assert.InDelta(t, 792.0, page.Height, 1e-9)
	require.Len(t, page.Glyphs, 2)
	assert.Equal(t, domain.Glyph{
		Text: "H",
		Rect: domain.Rect{X: 72, Y: 80, Width: 6, Height: 12},
	}, page.Glyphs[0])
	assert.Equal(t, "i", page.Glyphs[1].Text)
}

func TestConvertPage_OffsetMediaBox(t *testing.T) {
	// MediaBox [50 100 662 892]
	box := mediaBox{X: 50, Y: 100, Width: 612, Height: 792}
	texts := []pdf.Text{
		{FontSize: 12, X: 122, Y: 800, W: 6, S: "H"},
	}

	page := convertPage(1, box, texts)

	require.Len(t, page.Glyphs, 1)
	assert.Equal(t, domain.Rect{X: 72, Y: 80, Width: 6, Height: 12}, page.Glyphs[0].Rect)

	vp := domain.Viewport{Width: page.Width, Height: page.Height}
	n := vp.Normalize(page.Glyphs[0].Rect)
	assert.True(t, n.X >= 0 && n.X <= 1)
	assert.True(t, n.Y >= 0 && n.Y <= 1)
}

func TestConvertPage_SkipsEmptyRuns(t *testing.T) {
	texts := []pdf.Text{
		{FontSize: 12, X: 10, Y: 10, W: 5, S: ""},
		{FontSize: 0, X: 10, Y: 10, W: 5, S: "x"},
		{FontSize: 10, X: 10, Y: 10, W: 0, S: "y"},
	}

	page := convertPage(1, mediaBox{Width: 100, Height: 100}, texts)

	require.Len(t, page.Glyphs, 1)
	assert.Equal(t, "y", page.Glyphs[0].Text)
	assert.InDelta(t, 5.0, page.Glyphs[0].Rect.Width, 1e-9)
}

func TestConvertPage_Empty(t *testing.T) {
	page := convertPage(1, mediaBox{Width: 100, Height: 100}, nil)
	assert.NotNil(t, page.Glyphs)
	assert.Empty(t, page.Glyphs)
}

func TestTextLayer_MissingFile(t *testing.T) {
	layer := NewTextLayer()
	missing := filepath.Join(t.TempDir(), "missing.pdf")

	_, err := layer.PageCount(context.Background(), missing)
	assert.Error(t, err)

	_, err = layer.PageText(context.Background(), missing, 1)
	assert.Error(t, err)
}

func TestTextLayer_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.pdf")
	require.NoError(t, os.WriteFile(path, []byte("plain text, not a pdf"), 0600))

	_, err := NewTextLayer().PageCount(context.Background(), path)
	assert.Error(t, err)
}

func TestTextLayer_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewTextLayer().PageText(ctx, "any.pdf", 1)
	assert.ErrorIs(t, err, context.Canceled)
}

package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/custodia-labs/margin/internal/core/domain"
)

// parseRect parses "x,y,w,h" in pixels.
func parseRect(s string) (domain.Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return domain.Rect{}, fmt.Errorf("%w: rect %q must be x,y,w,h", domain.ErrInvalidInput, s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return domain.Rect{}, fmt.Errorf("%w: rect %q: %v", domain.ErrInvalidInput, s, err)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return domain.Rect{}, fmt.Errorf("%w: rect %q must be finite", domain.ErrInvalidInput, s)
		}
		v[i] = f
	}
	return domain.Rect{X: v[0], Y: v[1], Width: v[2], Height: v[3]}, nil
}

// parseRects parses every --rect value in order.
func parseRects(values []string) ([]domain.Rect, error) {
	rects := make([]domain.Rect, 0, len(values))
	for _, s := range values {
		r, err := parseRect(s)
		if err != nil {
			return nil, err
		}
		rects = append(rects, r)
	}
	return rects, nil
}

// parseViewport parses "WxH" in pixels.
func parseViewport(s string) (domain.Viewport, error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return domain.Viewport{}, fmt.Errorf("%w: viewport %q must be WIDTHxHEIGHT", domain.ErrInvalidInput, s)
	}
	width, err := strconv.ParseFloat(strings.TrimSpace(w), 64)
	if err != nil {
		return domain.Viewport{}, fmt.Errorf("%w: viewport width %q", domain.ErrInvalidInput, w)
	}
	height, err := strconv.ParseFloat(strings.TrimSpace(h), 64)
	if err != nil {
		return domain.Viewport{}, fmt.Errorf("%w: viewport height %q", domain.ErrInvalidInput, h)
	}
	vp := domain.Viewport{Width: width, Height: height}
	if !vp.IsValid() {
		return domain.Viewport{}, fmt.Errorf("%w: viewport %q must be positive and finite", domain.ErrInvalidInput, s)
	}
	return vp, nil
}

// parseIdeaType accepts any case.
func parseIdeaType(s string) (domain.IdeaType, error) {
	t := domain.IdeaType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: idea type %q", domain.ErrInvalidInput, s)
	}
	return t, nil
}

func parseRelationType(s string) (domain.RelationType, error) {
	t := domain.RelationType(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: relation type %q", domain.ErrInvalidInput, s)
	}
	return t, nil
}

func parseStatus(s string) (domain.IdeaStatus, error) {
	st := domain.IdeaStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", fmt.Errorf("%w: status %q", domain.ErrInvalidInput, s)
	}
	return st, nil
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

func formatFlags(flags []domain.CognitiveFlag) string {
	names := make([]string, len(flags))
	for i, f := range flags {
		names[i] = f.String()
	}
	return strings.Join(names, ", ")
}

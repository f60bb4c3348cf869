package services

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/custodia-labs/margin/internal/core/domain"
	"github.com/custodia-labs/margin/internal/logger"
)

// Confidence values assigned by the resolver.
const (
	SelectionConfidence       = 1.0
	ExactMatchConfidence      = 0.9
	NormalizedMatchConfidence = 0.75
	AmbiguityPenalty          = 0.5
)

// contextWindow is the number of runes captured around a relocated quote
// when the original anchor carried no context.
const contextWindow = 32

// Resolver converts selections into anchors and anchors back into pixels.
// It performs no I/O.
type Resolver struct {
	newID func() string
	now   func() time.Time
}

// NewResolver creates a resolver using UUIDv4 ids and the wall clock.
func NewResolver() *Resolver {
	return &Resolver{
		newID: func() string { return uuid.New().String() },
		now:   time.Now,
	}
}

// Resolve builds an anchor from a live selection. Degenerate rects are
// dropped and the survivors normalized against the selection's viewport.
// Returns domain.ErrNoAnchor when no rect survives.
func (r *Resolver) Resolve(sel domain.Selection) (*domain.Anchor, error) {
	if strings.TrimSpace(sel.Quote) == "" {
		return nil, fmt.Errorf("%w: quote is empty", domain.ErrInvalidInput)
	}
	if sel.PageNumber < 1 {
		return nil, fmt.Errorf("%w: page number %d", domain.ErrInvalidInput, sel.PageNumber)
	}
	if !sel.Viewport.IsValid() {
		return nil, fmt.Errorf("%w: viewport %gx%g", domain.ErrInvalidInput, sel.Viewport.Width, sel.Viewport.Height)
	}

	rects := make([]domain.Rect, 0, len(sel.RawRects))
	for _, raw := range sel.RawRects {
		if raw.IsDegenerate() {
			continue
		}
		rects = append(rects, sel.Viewport.Normalize(raw))
	}
	logger.Debug("resolve: page %d, %d of %d rects kept", sel.PageNumber, len(rects), len(sel.RawRects))
	if len(rects) == 0 {
		return nil, domain.ErrNoAnchor
	}

	return &domain.Anchor{
		ID:            r.newID(),
		ProjectID:     sel.ProjectID,
		SourceID:      sel.SourceID,
		PageNumber:    sel.PageNumber,
		Quote:         sel.Quote,
		ContextBefore: sel.ContextBefore,
		ContextAfter:  sel.ContextAfter,
		Rects:         rects,
		Strategy:      domain.StrategyQuoteContext,
		Confidence:    SelectionConfidence,
		CreatedAt:     r.now(),
	}, nil
}

// Locate maps the anchor's first rect onto a viewport in pixels.
// ok is false when the anchor has no rects.
func (r *Resolver) Locate(anchor *domain.Anchor, viewport domain.Viewport) (rect domain.Rect, ok bool) {
	if anchor == nil || len(anchor.Rects) == 0 {
		return domain.Rect{}, false
	}
	return viewport.Denormalize(anchor.Rects[0]), true
}

// LocateAll maps every rect of the anchor onto a viewport in pixels.
func (r *Resolver) LocateAll(anchor *domain.Anchor, viewport domain.Viewport) []domain.Rect {
	if anchor == nil {
		return nil
	}
	out := make([]domain.Rect, len(anchor.Rects))
	for i, rect := range anchor.Rects {
		out[i] = viewport.Denormalize(rect)
	}
	return out
}

// Relocate searches a page's text layer for the anchor's quote and returns
// a new QUOTE_SEARCH anchor at the match. The original anchor is untouched.
// Returns domain.ErrAnchorNotFound when the quote is not on the page.
func (r *Resolver) Relocate(anchor *domain.Anchor, page *domain.PageText) (*domain.Anchor, error) {
	if anchor == nil || page == nil {
		return nil, fmt.Errorf("%w: anchor and page are required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(anchor.Quote) == "" {
		return nil, fmt.Errorf("%w: anchor %s has no quote", domain.ErrInvalidInput, anchor.ID)
	}
	viewport := domain.Viewport{Width: page.Width, Height: page.Height}
	if !viewport.IsValid() {
		return nil, fmt.Errorf("%w: page size %gx%g", domain.ErrInvalidInput, page.Width, page.Height)
	}

	text := buildPageRunes(page.Glyphs)

	confidence := ExactMatchConfidence
	spans := indexAll(text.runes, []rune(anchor.Quote))
	if len(spans) == 0 {
		confidence = NormalizedMatchConfidence
		spans = text.normalizedIndexAll(anchor.Quote)
	}
	if len(spans) == 0 {
		logger.Debug("relocate: %q not found on page %d", anchor.Quote, page.PageNumber)
		return nil, fmt.Errorf("%w: %q on page %d", domain.ErrAnchorNotFound, anchor.Quote, page.PageNumber)
	}

	best, ambiguous := pickSpan(anchor, text, spans, viewport)
	if ambiguous {
		confidence *= AmbiguityPenalty
	}

	rects := text.lineRects(best, viewport)
	if len(rects) == 0 {
		return nil, fmt.Errorf("%w: match has no glyph boxes", domain.ErrAnchorNotFound)
	}

	before, after := anchor.ContextBefore, anchor.ContextAfter
	if before == "" && after == "" {
		before, after = text.context(best, contextWindow)
	}

	pageNumber := page.PageNumber
	if pageNumber < 1 {
		pageNumber = anchor.PageNumber
	}

	logger.Debug("relocate: %q found on page %d with confidence %.3f (%d candidates)",
		anchor.Quote, pageNumber, confidence, len(spans))

	return &domain.Anchor{
		ID:            r.newID(),
		ProjectID:     anchor.ProjectID,
		SourceID:      anchor.SourceID,
		PageNumber:    pageNumber,
		Quote:         anchor.Quote,
		ContextBefore: before,
		ContextAfter:  after,
		Rects:         rects,
		Strategy:      domain.StrategyQuoteSearch,
		Confidence:    confidence,
		CreatedAt:     r.now(),
	}, nil
}

// span is a half-open rune range into pageRunes.runes.
type span struct {
	start, end int
}

// pageRunes is the text of a page with each rune mapped back to the glyph
// that produced it. Separators inserted between glyphs map to -1.
type pageRunes struct {
	runes  []rune
	owner  []int
	glyphs []domain.Glyph
}

func buildPageRunes(glyphs []domain.Glyph) *pageRunes {
	pr := &pageRunes{glyphs: glyphs}
	for i, g := range glyphs {
		if i > 0 && needsSeparator(glyphs[i-1], g) && !pr.endsWithSpace() && !startsWithSpace(g.Text) {
			pr.runes = append(pr.runes, ' ')
			pr.owner = append(pr.owner, -1)
		}
		for _, c := range g.Text {
			pr.runes = append(pr.runes, c)
			pr.owner = append(pr.owner, i)
		}
	}
	return pr
}

// needsSeparator reports whether two consecutive glyphs are on different
// lines or separated by a visible gap.
func needsSeparator(prev, next domain.Glyph) bool {
	a, b := prev.Rect, next.Rect
	h := math.Max(a.Height, b.Height)
	if h <= 0 {
		h = 1
	}
	if math.Abs(a.Y-b.Y) > h/2 {
		return true
	}
	gap := b.X - (a.X + a.Width)
	return gap > h*0.25
}

func (pr *pageRunes) endsWithSpace() bool {
	return len(pr.runes) > 0 && unicode.IsSpace(pr.runes[len(pr.runes)-1])
}

func startsWithSpace(s string) bool {
	for _, c := range s {
		return unicode.IsSpace(c)
	}
	return false
}

// normalizedIndexAll finds quote after collapsing whitespace and folding
// case on both sides. Returned spans index the original runes.
func (pr *pageRunes) normalizedIndexAll(quote string) []span {
	norm, origin := normalizeRunes(pr.runes)
	needle, _ := normalizeRunes([]rune(quote))
	needle = trimSpaceRunes(needle)
	if len(needle) == 0 {
		return nil
	}

	found := indexAll(norm, needle)
	out := make([]span, 0, len(found))
	for _, s := range found {
		out = append(out, span{start: origin[s.start], end: origin[s.end-1] + 1})
	}
	return out
}

// normalizeRunes lower-cases and collapses whitespace runs to one space.
// origin[i] is the index in in of out[i].
func normalizeRunes(in []rune) (out []rune, origin []int) {
	out = make([]rune, 0, len(in))
	origin = make([]int, 0, len(in))
	prevSpace := false
	for i, c := range in {
		if unicode.IsSpace(c) {
			if prevSpace {
				continue
			}
			prevSpace = true
			out = append(out, ' ')
			origin = append(origin, i)
			continue
		}
		prevSpace = false
		out = append(out, unicode.ToLower(c))
		origin = append(origin, i)
	}
	return out, origin
}

func trimSpaceRunes(rs []rune) []rune {
	for len(rs) > 0 && rs[0] == ' ' {
		rs = rs[1:]
	}
	for len(rs) > 0 && rs[len(rs)-1] == ' ' {
		rs = rs[:len(rs)-1]
	}
	return rs
}

// indexAll returns every non-overlapping occurrence of needle in hay.
func indexAll(hay, needle []rune) []span {
	if len(needle) == 0 || len(needle) > len(hay) {
		return nil
	}
	var out []span
	for i := 0; i+len(needle) <= len(hay); {
		if runesEqual(hay[i:i+len(needle)], needle) {
			out = append(out, span{start: i, end: i + len(needle)})
			i += len(needle)
			continue
		}
		i++
	}
	return out
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// pickSpan chooses among candidate matches. Context agreement wins; ties go
// to the candidate nearest the anchor's first stored rect. ambiguous is true
// when context could not single out one candidate.
func pickSpan(anchor *domain.Anchor, text *pageRunes, spans []span, viewport domain.Viewport) (best span, ambiguous bool) {
	if len(spans) == 1 {
		return spans[0], false
	}

	scores := make([]float64, len(spans))
	top := 0.0
	for i, s := range spans {
		scores[i] = contextScore(anchor, text, s)
		top = math.Max(top, scores[i])
	}

	var leaders []span
	for i, s := range spans {
		if top > 0 && scores[i] == top {
			leaders = append(leaders, s)
		}
	}
	if len(leaders) == 1 {
		return leaders[0], false
	}
	if len(leaders) == 0 {
		leaders = spans
	}

	if len(anchor.Rects) == 0 {
		return leaders[0], true
	}
	target := anchor.Rects[0]
	bestDist := math.Inf(1)
	for _, s := range leaders {
		rects := text.lineRects(s, viewport)
		if len(rects) == 0 {
			continue
		}
		if d := centerDistance(rects[0], target); d < bestDist {
			bestDist = d
			best = s
		}
	}
	if math.IsInf(bestDist, 1) {
		best = leaders[0]
	}
	return best, true
}

// contextScore is the fraction of the stored context that agrees with the
// text around s: a common suffix before and a common prefix after.
func contextScore(anchor *domain.Anchor, text *pageRunes, s span) float64 {
	var score float64
	if before, _ := normalizeRunes([]rune(anchor.ContextBefore)); len(trimSpaceRunes(before)) > 0 {
		want := trimSpaceRunes(before)
		got, _ := normalizeRunes(text.runes[:s.start])
		got = trimSpaceRunes(got)
		score += float64(commonSuffix(got, want)) / float64(len(want))
	}
	if after, _ := normalizeRunes([]rune(anchor.ContextAfter)); len(trimSpaceRunes(after)) > 0 {
		want := trimSpaceRunes(after)
		got, _ := normalizeRunes(text.runes[s.end:])
		got = trimSpaceRunes(got)
		score += float64(commonPrefix(got, want)) / float64(len(want))
	}
	return score
}

func commonPrefix(a, b []rune) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

func commonSuffix(a, b []rune) int {
	n := 0
	for n < len(a) && n < len(b) && a[len(a)-1-n] == b[len(b)-1-n] {
		n++
	}
	return n
}

func centerDistance(a, b domain.Rect) float64 {
	ax, ay := a.X+a.Width/2, a.Y+a.Height/2
	bx, by := b.X+b.Width/2, b.Y+b.Height/2
	return math.Hypot(ax-bx, ay-by)
}

// lineRects merges the glyph boxes of s into one rect per text line and
// normalizes them against the page viewport.
func (pr *pageRunes) lineRects(s span, viewport domain.Viewport) []domain.Rect {
	var (
		out     []domain.Rect
		current *domain.Rect
		last    = -1
	)
	for i := s.start; i < s.end; i++ {
		gi := pr.owner[i]
		if gi < 0 || gi == last {
			continue
		}
		last = gi
		g := pr.glyphs[gi].Rect
		if g.IsDegenerate() {
			continue
		}
		if current != nil && sameLine(*current, g) {
			*current = union(*current, g)
			continue
		}
		if current != nil {
			out = append(out, viewport.Normalize(*current))
		}
		r := g
		current = &r
	}
	if current != nil {
		out = append(out, viewport.Normalize(*current))
	}
	return out
}

func sameLine(line, g domain.Rect) bool {
	h := math.Max(line.Height, g.Height)
	lc := line.Y + line.Height/2
	gc := g.Y + g.Height/2
	return math.Abs(lc-gc) <= h/2
}

func union(a, b domain.Rect) domain.Rect {
	x0 := math.Min(a.X, b.X)
	y0 := math.Min(a.Y, b.Y)
	x1 := math.Max(a.X+a.Width, b.X+b.Width)
	y1 := math.Max(a.Y+a.Height, b.Y+b.Height)
	return domain.Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// context returns up to n runes of page text on either side of s.
func (pr *pageRunes) context(s span, n int) (before, after string) {
	from := s.start - n
	if from < 0 {
		from = 0
	}
	to := s.end + n
	if to > len(pr.runes) {
		to = len(pr.runes)
	}
	return strings.TrimSpace(string(pr.runes[from:s.start])), strings.TrimSpace(string(pr.runes[s.end:to]))
}

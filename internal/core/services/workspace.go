package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/margin/internal/core/domain"
	"github.com/custodia-labs/margin/internal/core/ports/driven"
	"github.com/custodia-labs/margin/internal/core/ports/driving"
	"github.com/custodia-labs/margin/internal/logger"
)

// Ensure Workspace implements the interface.
var _ driving.Workspace = (*Workspace)(nil)

// CommentConfidence is the confidence given to ideas created from comments.
const CommentConfidence = 0.5

// rectTolerance is the largest normalized difference at which two rects
// are considered the same position.
const rectTolerance = 1e-6

// WorkspaceStores groups the persistence ports used by a Workspace.
type WorkspaceStores struct {
	Ideas      driven.IdeaStore
	Anchors    driven.AnchorStore
	Relations  driven.RelationStore
	Highlights driven.HighlightStore
	Links      driven.IdeaAnchorStore
}

func (s WorkspaceStores) complete() bool {
	return s.Ideas != nil && s.Anchors != nil && s.Relations != nil &&
		s.Highlights != nil && s.Links != nil
}

// Workspace holds the ideas, anchors, relations, highlights and links of
// one project in memory, backed by the stores.
type Workspace struct {
	mu sync.RWMutex

	stores    WorkspaceStores
	textLayer driven.TextLayer
	settings  domain.AppSettings
	resolver  *Resolver

	newID func() string
	now   func() time.Time

	ideas      []domain.Idea
	anchors    []domain.Anchor
	relations  []domain.Relation
	highlights []domain.Highlight
	links      []domain.IdeaAnchor
}

// NewWorkspace creates a workspace. textLayer may be nil, in which case
// RelocateSource returns domain.ErrNotImplemented.
func NewWorkspace(stores WorkspaceStores, settings domain.AppSettings, textLayer driven.TextLayer) *Workspace {
	return &Workspace{
		stores:    stores,
		textLayer: textLayer,
		settings:  settings,
		resolver:  NewResolver(),
		newID:     func() string { return uuid.New().String() },
		now:       time.Now,
	}
}

// Load reads every collection from the stores, replacing the cache.
func (w *Workspace) Load(ctx context.Context) error {
	if !w.stores.complete() {
		return domain.ErrNotImplemented
	}

	ideas, err := w.stores.Ideas.List(ctx)
	if err != nil {
		return fmt.Errorf("load ideas: %w", err)
	}
	anchors, err := w.stores.Anchors.List(ctx)
	if err != nil {
		return fmt.Errorf("load anchors: %w", err)
	}
	relations, err := w.stores.Relations.List(ctx)
	if err != nil {
		return fmt.Errorf("load relations: %w", err)
	}
	highlights, err := w.stores.Highlights.List(ctx)
	if err != nil {
		return fmt.Errorf("load highlights: %w", err)
	}
	links, err := w.stores.Links.List(ctx)
	if err != nil {
		return fmt.Errorf("load idea anchors: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.ideas = ideas
	w.anchors = anchors
	w.relations = relations
	w.highlights = highlights
	w.links = links

	logger.Debug("workspace loaded: %d ideas, %d anchors, %d relations, %d highlights, %d links",
		len(ideas), len(anchors), len(relations), len(highlights), len(links))
	return nil
}

// Ideas returns all ideas in insertion order.
func (w *Workspace) Ideas() []domain.Idea {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]domain.Idea(nil), w.ideas...)
}

// VisibleIdeas returns ideas not hidden from notes.
func (w *Workspace) VisibleIdeas() []domain.Idea {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var out []domain.Idea
	for _, idea := range w.ideas {
		if !idea.HiddenFromNotes {
			out = append(out, idea)
		}
	}
	return out
}

// Idea returns one idea by ID.
func (w *Workspace) Idea(id string) (*domain.Idea, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	i := w.ideaIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("idea %s: %w", id, domain.ErrNotFound)
	}
	idea := w.ideas[i]
	return &idea, nil
}

// AddIdea validates and saves a new idea. Empty Type, Origin and Status
// default to CLAIM, MANUAL and DRAFT.
func (w *Workspace) AddIdea(ctx context.Context, draft domain.IdeaDraft) (*domain.Idea, error) {
	if !w.stores.complete() {
		return nil, domain.ErrNotImplemented
	}

	now := w.now()
	idea := domain.Idea{
		ID:         w.newID(),
		ProjectID:  w.settings.Project.ID,
		SourceID:   draft.SourceID,
		AnchorID:   draft.AnchorID,
		Type:       draft.Type,
		Rephrase:   draft.Rephrase,
		Origin:     draft.Origin,
		Status:     draft.Status,
		Confidence: draft.Confidence,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if idea.Type == "" {
		idea.Type = domain.IdeaTypeClaim
	}
	if idea.Origin == "" {
		idea.Origin = domain.IdeaOriginManual
	}
	if idea.Status == "" {
		idea.Status = domain.IdeaStatusDraft
	}
	if !idea.Status.IsValid() {
		return nil, &domain.ValidationError{Entity: "idea", Field: "status", Reason: "unknown status " + string(idea.Status)}
	}
	if err := domain.ValidateIdea(&idea); err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.stores.Ideas.Save(ctx, idea); err != nil {
		return nil, fmt.Errorf("save idea: %w", err)
	}
	w.ideas = append(w.ideas, idea)
	return &idea, nil
}

// UpdateIdea applies a patch after validating the merged idea.
func (w *Workspace) UpdateIdea(ctx context.Context, id string, patch domain.IdeaPatch) (*domain.Idea, error) {
	if !w.stores.complete() {
		return nil, domain.ErrNotImplemented
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	i, err := w.fetchIdea(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		idea := w.ideas[i]
		return &idea, nil
	}

	now := w.now()
	patch.UpdatedAt = &now
	merged := patch.Apply(w.ideas[i])
	if patch.Status != nil && !merged.Status.IsValid() {
		return nil, &domain.ValidationError{Entity: "idea", Field: "status", Reason: "unknown status " + string(merged.Status)}
	}
	if err := domain.ValidateIdea(&merged); err != nil {
		return nil, err
	}

	if err := w.stores.Ideas.Update(ctx, id, patch); err != nil {
		return nil, fmt.Errorf("update idea: %w", err)
	}
	w.ideas[i] = merged
	return &merged, nil
}

// HideIdea sets or clears the hidden-from-notes flag.
func (w *Workspace) HideIdea(ctx context.Context, id string, hidden bool) error {
	_, err := w.UpdateIdea(ctx, id, domain.IdeaPatch{HiddenFromNotes: &hidden})
	return err
}

// Anchors returns all anchors in insertion order.
func (w *Workspace) Anchors() []domain.Anchor {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]domain.Anchor(nil), w.anchors...)
}

// AnchorsForSource returns the anchors of one source in insertion order.
func (w *Workspace) AnchorsForSource(sourceID string) []domain.Anchor {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var out []domain.Anchor
	for _, a := range w.anchors {
		if a.SourceID == sourceID {
			out = append(out, a)
		}
	}
	return out
}

// Anchor returns one anchor by ID.
func (w *Workspace) Anchor(id string) (*domain.Anchor, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	a, ok := w.anchorByID(id)
	if !ok {
		return nil, fmt.Errorf("anchor %s: %w", id, domain.ErrNotFound)
	}
	return &a, nil
}

// Highlight resolves a selection and saves the anchor with a highlight.
// A selection without usable rects yields nil, nil.
func (w *Workspace) Highlight(ctx context.Context, sel domain.Selection, color string) (*domain.Anchor, error) {
	if !w.stores.complete() {
		return nil, domain.ErrNotImplemented
	}
	if color == "" {
		color = w.settings.Display.HighlightColor
	}
	if !domain.IsHexColor(color) {
		return nil, &domain.ValidationError{Entity: "highlight", Field: "color", Reason: "must be a #rrggbb colour"}
	}
	if sel.ProjectID == "" {
		sel.ProjectID = w.settings.Project.ID
	}

	anchor, err := w.resolver.Resolve(sel)
	if errors.Is(err, domain.ErrNoAnchor) {
		logger.Info("selection on page %d produced no anchor", sel.PageNumber)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.saveAnchor(ctx, *anchor); err != nil {
		return nil, err
	}
	if _, err := w.saveHighlight(ctx, anchor.ID, color); err != nil {
		return nil, err
	}
	return anchor, nil
}

// LocateAnchor converts an anchor's first rect to viewport pixels.
func (w *Workspace) LocateAnchor(id string, viewport domain.Viewport) (domain.Rect, bool, error) {
	if !viewport.IsValid() {
		return domain.Rect{}, false, fmt.Errorf("%w: viewport %gx%g", domain.ErrInvalidInput, viewport.Width, viewport.Height)
	}
	anchor, err := w.Anchor(id)
	if err != nil {
		return domain.Rect{}, false, err
	}
	rect, ok := w.resolver.Locate(anchor, viewport)
	return rect, ok, nil
}

// RelocateSource re-finds every anchor of a source in the document at
// sourcePath. Each anchor is searched on its own page first, then on the
// remaining pages. Candidates below the configured minimum confidence are
// reported but not saved. Ideas linked to a relocated anchor are linked to
// the new one.
func (w *Workspace) RelocateSource(ctx context.Context, sourceID, sourcePath string) (*domain.RelocationReport, error) {
	if w.textLayer == nil || !w.stores.complete() {
		return nil, domain.ErrNotImplemented
	}

	logger.Section("Relocate " + sourceID)

	pageCount, err := w.textLayer.PageCount(ctx, sourcePath)
	if err != nil {
		return nil, fmt.Errorf("count pages: %w", err)
	}

	anchors, err := w.stores.Anchors.ListBySource(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("list anchors: %w", err)
	}
	w.mu.Lock()
	for _, a := range anchors {
		if _, ok := w.anchorByID(a.ID); !ok {
			w.anchors = append(w.anchors, a)
		}
	}
	w.mu.Unlock()

	report := &domain.RelocationReport{SourceID: sourceID}
	pages := make(map[int]*domain.PageText)

	for i := range anchors {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		old := anchors[i]
		outcome := domain.RelocationOutcome{OldAnchorID: old.ID}

		candidate, err := w.findOnPages(ctx, &old, sourcePath, pageCount, pages)
		if err != nil {
			outcome.Err = err
			logger.Warn("anchor %s: %v", old.ID, err)
			report.Outcomes = append(report.Outcomes, outcome)
			continue
		}
		outcome.NewAnchor = candidate

		if candidate.Confidence < w.settings.Resolver.MinConfidence {
			logger.Info("anchor %s: confidence %.3f below %.3f, not saved",
				old.ID, candidate.Confidence, w.settings.Resolver.MinConfidence)
			report.Outcomes = append(report.Outcomes, outcome)
			continue
		}

		saved, unchanged, err := w.commitRelocation(ctx, &old, candidate)
		outcome.Saved = saved
		outcome.Unchanged = unchanged
		outcome.Err = err
		report.Outcomes = append(report.Outcomes, outcome)
	}

	logger.Info("relocated %d of %d anchors for %s", report.Relocated(), len(anchors), sourceID)
	return report, nil
}

// findOnPages relocates an anchor, trying its own page before the others.
func (w *Workspace) findOnPages(ctx context.Context, anchor *domain.Anchor, sourcePath string, pageCount int, cache map[int]*domain.PageText) (*domain.Anchor, error) {
	order := make([]int, 0, pageCount)
	if anchor.PageNumber >= 1 && anchor.PageNumber <= pageCount {
		order = append(order, anchor.PageNumber)
	}
	for p := 1; p <= pageCount; p++ {
		if p != anchor.PageNumber {
			order = append(order, p)
		}
	}

	for _, p := range order {
		page, ok := cache[p]
		if !ok {
			var err error
			page, err = w.textLayer.PageText(ctx, sourcePath, p)
			if err != nil {
				return nil, fmt.Errorf("read page %d: %w", p, err)
			}
			cache[p] = page
		}

		candidate, err := w.resolver.Relocate(anchor, page)
		if errors.Is(err, domain.ErrAnchorNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return candidate, nil
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrAnchorNotFound, anchor.Quote)
}

// commitRelocation saves candidate unless an anchor at the same position
// already exists, then links the old anchor's ideas to the current one.
func (w *Workspace) commitRelocation(ctx context.Context, old, candidate *domain.Anchor) (saved, unchanged bool, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	target := candidate.ID
	if existing, ok := w.equivalentAnchor(candidate); ok {
		target = existing.ID
		unchanged = true
	} else {
		if err := w.saveAnchor(ctx, *candidate); err != nil {
			return false, false, err
		}
		saved = true
	}

	if target == old.ID {
		return saved, unchanged, nil
	}
	for _, ideaID := range w.ideasReferencing(old.ID) {
		if err := w.link(ctx, ideaID, target); err != nil {
			return saved, unchanged, err
		}
	}
	return saved, unchanged, nil
}

// LinkIdeaToAnchor records an idea to anchor link. Idempotent.
func (w *Workspace) LinkIdeaToAnchor(ctx context.Context, ideaID, anchorID string) error {
	if !w.stores.complete() {
		return domain.ErrNotImplemented
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.fetchIdea(ctx, ideaID); err != nil {
		return err
	}
	if _, err := w.fetchAnchor(ctx, anchorID); err != nil {
		return err
	}
	return w.link(ctx, ideaID, anchorID)
}

// AnchorPageForIdea returns the page of the idea's most recently linked
// anchor, falling back to the idea's own anchor reference.
func (w *Workspace) AnchorPageForIdea(ideaID string) (int, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for i := len(w.links) - 1; i >= 0; i-- {
		if w.links[i].IdeaID != ideaID {
			continue
		}
		if a, ok := w.anchorByID(w.links[i].AnchorID); ok {
			return a.PageNumber, true
		}
	}

	i := w.ideaIndex(ideaID)
	if i < 0 || w.ideas[i].AnchorID == "" {
		return 0, false
	}
	if a, ok := w.anchorByID(w.ideas[i].AnchorID); ok {
		return a.PageNumber, true
	}
	return 0, false
}

// Relations returns all relations in insertion order.
func (w *Workspace) Relations() []domain.Relation {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]domain.Relation(nil), w.relations...)
}

// AddRelation validates and saves a relation between two known ideas.
func (w *Workspace) AddRelation(ctx context.Context, draft domain.RelationDraft) (*domain.Relation, error) {
	if !w.stores.complete() {
		return nil, domain.ErrNotImplemented
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.addRelation(ctx, draft)
}

func (w *Workspace) addRelation(ctx context.Context, draft domain.RelationDraft) (*domain.Relation, error) {
	rel := domain.Relation{
		ID:            w.newID(),
		ProjectID:     w.settings.Project.ID,
		FromIdeaID:    draft.FromIdeaID,
		ToIdeaID:      draft.ToIdeaID,
		Type:          draft.Type,
		Justification: draft.Justification,
		CreatedAt:     w.now(),
	}
	if rel.Type == "" {
		return nil, &domain.ValidationError{Entity: "relation", Field: "type", Reason: "is required"}
	}
	if err := domain.ValidateRelation(&rel); err != nil {
		return nil, err
	}
	for _, id := range []string{rel.FromIdeaID, rel.ToIdeaID} {
		if w.ideaIndex(id) < 0 {
			return nil, fmt.Errorf("idea %s: %w", id, domain.ErrNotFound)
		}
	}

	if err := w.stores.Relations.Save(ctx, rel); err != nil {
		return nil, fmt.Errorf("save relation: %w", err)
	}
	w.relations = append(w.relations, rel)
	return &rel, nil
}

// Highlights returns all highlights in insertion order.
func (w *Workspace) Highlights() []domain.Highlight {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]domain.Highlight(nil), w.highlights...)
}

// Links returns every idea-anchor link.
func (w *Workspace) Links() []domain.IdeaAnchor {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]domain.IdeaAnchor(nil), w.links...)
}

// LatestHighlightColor returns the colour of the last highlight saved for
// an anchor.
func (w *Workspace) LatestHighlightColor(anchorID string) (string, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for i := len(w.highlights) - 1; i >= 0; i-- {
		if w.highlights[i].AnchorID == anchorID {
			return w.highlights[i].Color, true
		}
	}
	return "", false
}

// Comment turns a selection into an anchored FROM_COMMENT idea. Everything
// is validated before the first write.
func (w *Workspace) Comment(ctx context.Context, draft domain.CommentDraft) (*domain.CommentResult, error) {
	if !w.stores.complete() {
		return nil, domain.ErrNotImplemented
	}

	ideaType := draft.Type
	if ideaType == "" {
		ideaType = domain.IdeaTypeClaim
	}
	probe := domain.Idea{
		Rephrase:   draft.Rephrase,
		Type:       ideaType,
		Origin:     domain.IdeaOriginFromComment,
		AnchorID:   "pending",
		Confidence: CommentConfidence,
	}
	if err := domain.ValidateIdea(&probe); err != nil {
		return nil, err
	}

	color := draft.Color
	if color == "" {
		color = w.settings.Display.HighlightColor
	}
	if !domain.IsHexColor(color) {
		return nil, &domain.ValidationError{Entity: "highlight", Field: "color", Reason: "must be a #rrggbb colour"}
	}

	direction := draft.Direction
	if draft.RelatedIdeaID != "" {
		if direction == "" {
			direction = domain.DirectionOutgoing
		}
		if !direction.IsValid() {
			return nil, fmt.Errorf("%w: relation direction %q", domain.ErrInvalidInput, direction)
		}
		if !draft.RelationType.IsValid() {
			return nil, &domain.ValidationError{Entity: "relation", Field: "type", Reason: "unknown relation type " + string(draft.RelationType)}
		}
		if _, err := w.Idea(draft.RelatedIdeaID); err != nil {
			return nil, err
		}
	}

	sel := draft.Selection
	if sel.ProjectID == "" {
		sel.ProjectID = w.settings.Project.ID
	}
	anchor, err := w.resolver.Resolve(sel)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.saveAnchor(ctx, *anchor); err != nil {
		return nil, err
	}
	highlight, err := w.saveHighlight(ctx, anchor.ID, color)
	if err != nil {
		return nil, err
	}

	now := w.now()
	idea := domain.Idea{
		ID:         w.newID(),
		ProjectID:  sel.ProjectID,
		SourceID:   sel.SourceID,
		AnchorID:   anchor.ID,
		Type:       ideaType,
		Rephrase:   draft.Rephrase,
		Origin:     domain.IdeaOriginFromComment,
		Status:     domain.IdeaStatusDraft,
		Confidence: CommentConfidence,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := w.stores.Ideas.Save(ctx, idea); err != nil {
		return nil, fmt.Errorf("save idea: %w", err)
	}
	w.ideas = append(w.ideas, idea)

	result := &domain.CommentResult{Anchor: *anchor, Highlight: highlight, Idea: idea}

	if draft.RelatedIdeaID != "" {
		rd := domain.RelationDraft{FromIdeaID: idea.ID, ToIdeaID: draft.RelatedIdeaID, Type: draft.RelationType}
		if direction == domain.DirectionIncoming {
			rd.FromIdeaID, rd.ToIdeaID = rd.ToIdeaID, rd.FromIdeaID
		}
		rel, err := w.addRelation(ctx, rd)
		if err != nil {
			return nil, err
		}
		result.Relation = rel
	}

	if err := w.link(ctx, idea.ID, anchor.ID); err != nil {
		return nil, err
	}
	return result, nil
}

// Flags returns the cognitive flags of every flagged idea.
func (w *Workspace) Flags() map[string][]domain.CognitiveFlag {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return Analyze(w.ideas, w.relations)
}

// StudyQueue returns flagged ideas ordered by priority.
func (w *Workspace) StudyQueue() []domain.StudyItem {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return StudyQueue(w.ideas, w.relations)
}

// Helpers below expect the caller to hold w.mu.

func (w *Workspace) ideaIndex(id string) int {
	for i := range w.ideas {
		if w.ideas[i].ID == id {
			return i
		}
	}
	return -1
}

// fetchIdea returns the cache index of an idea, reading it from the store
// when it was saved after Load, for example by another margin process.
// The caller holds w.mu for writing.
func (w *Workspace) fetchIdea(ctx context.Context, id string) (int, error) {
	if i := w.ideaIndex(id); i >= 0 {
		return i, nil
	}
	idea, err := w.stores.Ideas.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return -1, fmt.Errorf("idea %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return -1, fmt.Errorf("get idea: %w", err)
	}
	w.ideas = append(w.ideas, *idea)
	return len(w.ideas) - 1, nil
}

// fetchAnchor is fetchIdea for anchors.
func (w *Workspace) fetchAnchor(ctx context.Context, id string) (domain.Anchor, error) {
	if a, ok := w.anchorByID(id); ok {
		return a, nil
	}
	a, err := w.stores.Anchors.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Anchor{}, fmt.Errorf("anchor %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Anchor{}, fmt.Errorf("get anchor: %w", err)
	}
	w.anchors = append(w.anchors, *a)
	return *a, nil
}

func (w *Workspace) anchorByID(id string) (domain.Anchor, bool) {
	for _, a := range w.anchors {
		if a.ID == id {
			return a, true
		}
	}
	return domain.Anchor{}, false
}

func (w *Workspace) saveAnchor(ctx context.Context, anchor domain.Anchor) error {
	if err := w.stores.Anchors.Save(ctx, anchor); err != nil {
		return fmt.Errorf("save anchor: %w", err)
	}
	w.anchors = append(w.anchors, anchor)
	return nil
}

func (w *Workspace) saveHighlight(ctx context.Context, anchorID, color string) (domain.Highlight, error) {
	h := domain.Highlight{
		ID:        w.newID(),
		AnchorID:  anchorID,
		Color:     color,
		CreatedAt: w.now(),
	}
	if err := domain.ValidateHighlight(&h); err != nil {
		return domain.Highlight{}, err
	}
	if err := w.stores.Highlights.Save(ctx, h); err != nil {
		return domain.Highlight{}, fmt.Errorf("save highlight: %w", err)
	}
	w.highlights = append(w.highlights, h)
	return h, nil
}

func (w *Workspace) link(ctx context.Context, ideaID, anchorID string) error {
	for _, l := range w.links {
		if l.IdeaID == ideaID && l.AnchorID == anchorID {
			return nil
		}
	}
	l := domain.IdeaAnchor{
		ID:        w.newID(),
		IdeaID:    ideaID,
		AnchorID:  anchorID,
		CreatedAt: w.now(),
	}
	if err := w.stores.Links.Link(ctx, l); err != nil {
		return fmt.Errorf("link idea %s to anchor %s: %w", ideaID, anchorID, err)
	}
	w.links = append(w.links, l)
	return nil
}

// ideasReferencing returns the ideas pointing at an anchor through a link
// or their own AnchorID, without duplicates.
func (w *Workspace) ideasReferencing(anchorID string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, l := range w.links {
		if l.AnchorID == anchorID {
			add(l.IdeaID)
		}
	}
	for _, idea := range w.ideas {
		if idea.AnchorID == anchorID {
			add(idea.ID)
		}
	}
	return out
}

// equivalentAnchor finds a stored anchor with the same source, page, quote
// and rects as candidate.
func (w *Workspace) equivalentAnchor(candidate *domain.Anchor) (domain.Anchor, bool) {
	for _, a := range w.anchors {
		if a.SourceID != candidate.SourceID || a.PageNumber != candidate.PageNumber ||
			a.Quote != candidate.Quote || len(a.Rects) != len(candidate.Rects) {
			continue
		}
		same := true
		for i := range a.Rects {
			if !rectsClose(a.Rects[i], candidate.Rects[i]) {
				same = false
				break
			}
		}
		if same {
			return a, true
		}
	}
	return domain.Anchor{}, false
}

func rectsClose(a, b domain.Rect) bool {
	return math.Abs(a.X-b.X) <= rectTolerance && math.Abs(a.Y-b.Y) <= rectTolerance &&
		math.Abs(a.Width-b.Width) <= rectTolerance && math.Abs(a.Height-b.Height) <= rectTolerance
}

package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/margin/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/margin/internal/core/domain"
)

type fakeTextLayer struct {
	pages map[int]*domain.PageText
	err   error
}

func (f *fakeTextLayer) PageText(_ context.Context, _ string, page int) (*domain.PageText, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.pages[page]
	if !ok {
		return &domain.PageText{PageNumber: page, Width: 600, Height: 800}, nil
	}
	return p, nil
}

func (f *fakeTextLayer) PageCount(_ context.Context, _ string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	n := 0
	for p := range f.pages {
		if p > n {
			n = p
		}
	}
	return n, nil
}

type failingIdeaStore struct {
	*memory.IdeaStore
}

func (failingIdeaStore) Save(context.Context, domain.Idea) error {
	return errors.New("disk full")
}

func newTestStores() WorkspaceStores {
	return WorkspaceStores{
		Ideas:      memory.NewIdeaStore(),
		Anchors:    memory.NewAnchorStore(),
		Relations:  memory.NewRelationStore(),
		Highlights: memory.NewHighlightStore(),
		Links:      memory.NewIdeaAnchorStore(),
	}
}

func newTestWorkspace(t *testing.T, layer *fakeTextLayer) (*Workspace, WorkspaceStores) {
	t.Helper()
	stores := newTestStores()
	settings := domain.DefaultAppSettings()
	settings.Project.ID = "proj"

	var w *Workspace
	if layer != nil {
		w = NewWorkspace(stores, settings, layer)
	} else {
		w = NewWorkspace(stores, settings, nil)
	}

	n := 0
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	w.newID = func() string { n++; return fmt.Sprintf("id-%d", n) }
	w.now = func() time.Time { clock = clock.Add(time.Second); return clock }
	w.resolver.newID = w.newID
	w.resolver.now = w.now

	require.NoError(t, w.Load(context.Background()))
	return w, stores
}

func selection(quote string) domain.Selection {
	return domain.Selection{
		SourceID:   "paper.pdf",
		PageNumber: 2,
		Quote:      quote,
		RawRects:   []domain.Rect{{X: 60, Y: 120, Width: 300, Height: 12}},
		Viewport:   domain.Viewport{Width: 600, Height: 800},
	}
}

func TestWorkspace_AddIdea_Defaults(t *testing.T) {
	w, stores := newTestWorkspace(t, nil)
	ctx := context.Background()

	idea, err := w.AddIdea(ctx, domain.IdeaDraft{Rephrase: "this is fine", Confidence: 0.5})

	require.NoError(t, err)
	assert.Equal(t, "proj", idea.ProjectID)
	assert.Equal(t, domain.IdeaTypeClaim, idea.Type)
	assert.Equal(t, domain.IdeaOriginManual, idea.Origin)
	assert.Equal(t, domain.IdeaStatusDraft, idea.Status)
	assert.Equal(t, idea.CreatedAt, idea.UpdatedAt)

	stored, err := stores.Ideas.Get(ctx, idea.ID)
	require.NoError(t, err)
	assert.Equal(t, *idea, *stored)
	assert.Len(t, w.Ideas(), 1)
}

func TestWorkspace_AddIdea_ValidationBeforeWrite(t *testing.T) {
	w, stores := newTestWorkspace(t, nil)
	ctx := context.Background()

	tests := []struct {
		name  string
		draft domain.IdeaDraft
	}{
		{"short rephrase", domain.IdeaDraft{Rephrase: "short"}},
		{"comment without anchor", domain.IdeaDraft{Rephrase: "long enough text", Origin: domain.IdeaOriginFromComment}},
		{"confidence too high", domain.IdeaDraft{Rephrase: "long enough text", Confidence: 1.5}},
		{"unknown status", domain.IdeaDraft{Rephrase: "long enough text", Status: "DONE"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := w.AddIdea(ctx, tt.draft)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}

	ideas, err := stores.Ideas.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ideas)
}

func TestWorkspace_AddIdea_StoreFailureLeavesCacheUnchanged(t *testing.T) {
	w, stores := newTestWorkspace(t, nil)
	w.stores.Ideas = failingIdeaStore{IdeaStore: stores.Ideas.(*memory.IdeaStore)}

	_, err := w.AddIdea(context.Background(), domain.IdeaDraft{Rephrase: "this is fine"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "save idea")
	assert.Empty(t, w.Ideas())
}

func TestWorkspace_UpdateIdea(t *testing.T) {
	w, stores := newTestWorkspace(t, nil)
	ctx := context.Background()
	idea, err := w.AddIdea(ctx, domain.IdeaDraft{Rephrase: "original wording"})
	require.NoError(t, err)

	rephrase := "better wording here"
	typ := domain.IdeaTypeAssumption
	updated, err := w.UpdateIdea(ctx, idea.ID, domain.IdeaPatch{Rephrase: &rephrase, Type: &typ})

	require.NoError(t, err)
	assert.Equal(t, rephrase, updated.Rephrase)
	assert.Equal(t, typ, updated.Type)
	assert.True(t, updated.UpdatedAt.After(idea.UpdatedAt))

	stored, err := stores.Ideas.Get(ctx, idea.ID)
	require.NoError(t, err)
	assert.Equal(t, *updated, *stored)
}

func TestWorkspace_UpdateIdea_ValidatesMergedIdea(t *testing.T) {
	w, _ := newTestWorkspace(t, nil)
	ctx := context.Background()
	idea, err := w.AddIdea(ctx, domain.IdeaDraft{Rephrase: "original wording"})
	require.NoError(t, err)

	short := "tiny"
	_, err = w.UpdateIdea(ctx, idea.ID, domain.IdeaPatch{Rephrase: &short})
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, err := w.Idea(idea.ID)
	require.NoError(t, err)
	assert.Equal(t, "original wording", got.Rephrase)
}

func TestWorkspace_UpdateIdea_NotFound(t *testing.T) {
	w, _ := newTestWorkspace(t, nil)

	_, err := w.UpdateIdea(context.Background(), "missing", domain.IdeaPatch{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWorkspace_UpdateIdea_ReadsIdeaSavedAfterLoad(t *testing.T) {
	w, stores := newTestWorkspace(t, nil)
	ctx := context.Background()
	external := domain.Idea{
		ID:         "from-other-process",
		ProjectID:  "proj",
		Type:       domain.IdeaTypeClaim,
		Rephrase:   "written by a second margin",
		Origin:     domain.IdeaOriginManual,
		Status:     domain.IdeaStatusDraft,
		Confidence: 0.5,
	}
	require.NoError(t, stores.Ideas.Save(ctx, external))

	hidden := true
	updated, err := w.UpdateIdea(ctx, external.ID, domain.IdeaPatch{HiddenFromNotes: &hidden})

	require.NoError(t, err)
	assert.True(t, updated.HiddenFromNotes)
	got, err := w.Idea(external.ID)
	require.NoError(t, err)
	assert.True(t, got.HiddenFromNotes)
}

func TestWorkspace_HideIdea(t *testing.T) {
	w, _ := newTestWorkspace(t, nil)
	ctx := context.Background()
	a, err := w.AddIdea(ctx, domain.IdeaDraft{Rephrase: "first idea text"})
	require.NoError(t, err)
	_, err = w.AddIdea(ctx, domain.IdeaDraft{Rephrase: "second idea text"})
	require.NoError(t, err)

	require.NoError(t, w.HideIdea(ctx, a.ID, true))

	assert.Len(t, w.Ideas(), 2)
	visible := w.VisibleIdeas()
	require.Len(t, visible, 1)
	assert.Equal(t, "second idea text", visible[0].Rephrase)

	require.NoError(t, w.HideIdea(ctx, a.ID, false))
	assert.Len(t, w.VisibleIdeas(), 2)
}

func TestWorkspace_Highlight(t *testing.T) {
	w, stores := newTestWorkspace(t, nil)
	ctx := context.Background()

	anchor, err := w.Highlight(ctx, selection("quoted passage"), "")

	require.NoError(t, err)
	require.NotNil(t, anchor)
	assert.Equal(t, "proj", anchor.ProjectID)
	assert.InDelta(t, 0.1, anchor.Rects[0].X, 1e-12)

	color, ok := w.LatestHighlightColor(anchor.ID)
	assert.True(t, ok)
	assert.Equal(t, domain.DefaultHighlightColor, color)

	saved, err := stores.Anchors.Get(ctx, anchor.ID)
	require.NoError(t, err)
	assert.Equal(t, *anchor, *saved)
}

func TestWorkspace_Highlight_NoRectsSavesNothing(t *testing.T) {
	w, stores := newTestWorkspace(t, nil)
	ctx := context.Background()
	sel := selection("quoted passage")
	sel.RawRects = []domain.Rect{{Width: 0, Height: 0}}

	anchor, err := w.Highlight(ctx, sel, "")

	assert.NoError(t, err)
	assert.Nil(t, anchor)
	anchors, _ := stores.Anchors.List(ctx)
	assert.Empty(t, anchors)
	assert.Empty(t, w.Highlights())
}

func TestWorkspace_Highlight_BadColor(t *testing.T) {
	w, _ := newTestWorkspace(t, nil)

	_, err := w.Highlight(context.Background(), selection("quoted passage"), "blue")

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, w.Anchors())
}

func TestWorkspace_LatestHighlightColorWins(t *testing.T) {
	w, _ := newTestWorkspace(t, nil)
	ctx := context.Background()
	anchor, err := w.Highlight(ctx, selection("quoted passage"), "#ff0000")
	require.NoError(t, err)

	w.mu.Lock()
	_, err = w.saveHighlight(ctx, anchor.ID, "#00ff00")
	w.mu.Unlock()
	require.NoError(t, err)

	color, ok := w.LatestHighlightColor(anchor.ID)
	assert.True(t, ok)
	assert.Equal(t, "#00ff00", color)

	_, ok = w.LatestHighlightColor("other")
	assert.False(t, ok)
}

func TestWorkspace_LocateAnchor(t *testing.T) {
	w, _ := newTestWorkspace(t, nil)
	anchor, err := w.Highlight(context.Background(), selection("quoted passage"), "")
	require.NoError(t, err)

	rect, ok, err := w.LocateAnchor(anchor.ID, domain.Viewport{Width: 1200, Height: 1600})

	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 120, rect.X, 1e-9)
	assert.InDelta(t, 240, rect.Y, 1e-9)
	assert.InDelta(t, 600, rect.Width, 1e-9)
	assert.InDelta(t, 24, rect.Height, 1e-9)

	_, _, err = w.LocateAnchor("missing", domain.Viewport{Width: 1, Height: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, _, err = w.LocateAnchor(anchor.ID, domain.Viewport{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestWorkspace_AddRelation(t *testing.T) {
	w, _ := newTestWorkspace(t, nil)
	ctx := context.Background()
	a, _ := w.AddIdea(ctx, domain.IdeaDraft{Rephrase: "first idea text"})
	b, _ := w.AddIdea(ctx, domain.IdeaDraft{Rephrase: "second idea text"})

	rel, err := w.AddRelation(ctx, domain.RelationDraft{FromIdeaID: a.ID, ToIdeaID: b.ID, Type: domain.RelationSupports})

	require.NoError(t, err)
	assert.Equal(t, "proj", rel.ProjectID)
	assert.Len(t, w.Relations(), 1)

	_, err = w.AddRelation(ctx, domain.RelationDraft{FromIdeaID: a.ID, ToIdeaID: a.ID, Type: domain.RelationSupports})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = w.AddRelation(ctx, domain.RelationDraft{FromIdeaID: a.ID, ToIdeaID: b.ID})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = w.AddRelation(ctx, domain.RelationDraft{FromIdeaID: a.ID, ToIdeaID: "ghost", Type: domain.RelationDependsOn})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Len(t, w.Relations(), 1)
}

func TestWorkspace_LinkIdeaToAnchor_Idempotent(t *testing.T) {
	w, stores := newTestWorkspace(t, nil)
	ctx := context.Background()
	idea, _ := w.AddIdea(ctx, domain.IdeaDraft{Rephrase: "linked idea text"})
	anchor, _ := w.Highlight(ctx, selection("quoted passage"), "")

	require.NoError(t, w.LinkIdeaToAnchor(ctx, idea.ID, anchor.ID))
	require.NoError(t, w.LinkIdeaToAnchor(ctx, idea.ID, anchor.ID))

	links, err := stores.Links.List(ctx)
	require.NoError(t, err)
	assert.Len(t, links, 1)

	assert.ErrorIs(t, w.LinkIdeaToAnchor(ctx, "ghost", anchor.ID), domain.ErrNotFound)
	assert.ErrorIs(t, w.LinkIdeaToAnchor(ctx, idea.ID, "ghost"), domain.ErrNotFound)
}

func TestWorkspace_LinkIdeaToAnchor_ReadsAnchorSavedAfterLoad(t *testing.T) {
	w, stores := newTestWorkspace(t, nil)
	ctx := context.Background()
	idea, err := w.AddIdea(ctx, domain.IdeaDraft{Rephrase: "linked idea text"})
	require.NoError(t, err)
	external := domain.Anchor{
		ID:         "anchor-elsewhere",
		ProjectID:  "proj",
		SourceID:   "paper.pdf",
		PageNumber: 4,
		Quote:      "quoted elsewhere",
		Rects:      []domain.Rect{{X: 0.1, Y: 0.1, Width: 0.5, Height: 0.02}},
		Strategy:   domain.StrategyQuoteContext,
		Confidence: 1,
	}
	require.NoError(t, stores.Anchors.Save(ctx, external))

	require.NoError(t, w.LinkIdeaToAnchor(ctx, idea.ID, external.ID))

	pageNumber, ok := w.AnchorPageForIdea(idea.ID)
	assert.True(t, ok)
	assert.Equal(t, 4, pageNumber)
}

func TestWorkspace_AnchorPageForIdea(t *testing.T) {
	w, _ := newTestWorkspace(t, nil)
	ctx := context.Background()

	anchor, err := w.Highlight(ctx, selection("quoted passage"), "")
	require.NoError(t, err)

	byField, err := w.AddIdea(ctx, domain.IdeaDraft{Rephrase: "anchored by field", AnchorID: anchor.ID})
	require.NoError(t, err)
	pg, ok := w.AnchorPageForIdea(byField.ID)
	assert.True(t, ok)
	assert.Equal(t, 2, pg)

	sel := selection("another passage")
	sel.PageNumber = 7
	other, err := w.Highlight(ctx, sel, "")
	require.NoError(t, err)
	require.NoError(t, w.LinkIdeaToAnchor(ctx, byField.ID, other.ID))

	pg, ok = w.AnchorPageForIdea(byField.ID)
	assert.True(t, ok)
	assert.Equal(t, 7, pg, "link table wins over the idea's own reference")

	manual, _ := w.AddIdea(ctx, domain.IdeaDraft{Rephrase: "not anchored at all"})
	_, ok = w.AnchorPageForIdea(manual.ID)
	assert.False(t, ok)
}

func TestWorkspace_Comment(t *testing.T) {
	w, stores := newTestWorkspace(t, nil)
	ctx := context.Background()
	target, err := w.AddIdea(ctx, domain.IdeaDraft{Rephrase: "the author's main claim"})
	require.NoError(t, err)

	res, err := w.Comment(ctx, domain.CommentDraft{
		Selection:     selection("contradicting sentence"),
		Type:          domain.IdeaTypeEvidence,
		Rephrase:      "the data says otherwise",
		Color:         "#ff8800",
		RelatedIdeaID: target.ID,
		RelationType:  domain.RelationContradicts,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.IdeaOriginFromComment, res.Idea.Origin)
	assert.Equal(t, CommentConfidence, res.Idea.Confidence)
	assert.Equal(t, res.Anchor.ID, res.Idea.AnchorID)
	assert.Equal(t, "paper.pdf", res.Idea.SourceID)
	assert.Equal(t, "#ff8800", res.Highlight.Color)
	require.NotNil(t, res.Relation)
	assert.Equal(t, res.Idea.ID, res.Relation.FromIdeaID)
	assert.Equal(t, target.ID, res.Relation.ToIdeaID)

	links, err := stores.Links.List(ctx)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, res.Idea.ID, links[0].IdeaID)

	flags := w.Flags()
	assert.Contains(t, flags[target.ID], domain.FlagUnresolvedContradiction)
}

func TestWorkspace_Comment_IncomingDirection(t *testing.T) {
	w, _ := newTestWorkspace(t, nil)
	ctx := context.Background()
	target, _ := w.AddIdea(ctx, domain.IdeaDraft{Rephrase: "a question to answer", Type: domain.IdeaTypeQuestion})

	res, err := w.Comment(ctx, domain.CommentDraft{
		Selection:     selection("a passage"),
		Rephrase:      "depends on this definition",
		RelatedIdeaID: target.ID,
		RelationType:  domain.RelationDependsOn,
		Direction:     domain.DirectionIncoming,
	})

	require.NoError(t, err)
	assert.Equal(t, target.ID, res.Relation.FromIdeaID)
	assert.Equal(t, res.Idea.ID, res.Relation.ToIdeaID)
}

func TestWorkspace_Comment_ValidatesBeforeWriting(t *testing.T) {
	w, stores := newTestWorkspace(t, nil)
	ctx := context.Background()

	tests := []struct {
		name  string
		draft domain.CommentDraft
		want  error
	}{
		{"short rephrase", domain.CommentDraft{Selection: selection("q"), Rephrase: "short"}, domain.ErrValidation},
		{"bad colour", domain.CommentDraft{Selection: selection("q"), Rephrase: "long enough text", Color: "red"}, domain.ErrValidation},
		{"unknown related idea", domain.CommentDraft{
			Selection: selection("q"), Rephrase: "long enough text",
			RelatedIdeaID: "ghost", RelationType: domain.RelationSupports,
		}, domain.ErrNotFound},
		{"no rects", domain.CommentDraft{
			Selection: domain.Selection{PageNumber: 1, Quote: "q", Viewport: domain.Viewport{Width: 1, Height: 1}},
			Rephrase:  "long enough text",
		}, domain.ErrNoAnchor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := w.Comment(ctx, tt.draft)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	anchors, _ := stores.Anchors.List(ctx)
	assert.Empty(t, anchors)
	assert.Empty(t, w.Ideas())
	assert.Empty(t, w.Highlights())
}

func TestWorkspace_StudyQueue(t *testing.T) {
	w, _ := newTestWorkspace(t, nil)
	ctx := context.Background()
	q, _ := w.AddIdea(ctx, domain.IdeaDraft{Rephrase: "an open question", Type: domain.IdeaTypeQuestion})
	a, _ := w.AddIdea(ctx, domain.IdeaDraft{Rephrase: "first assumption", Type: domain.IdeaTypeAssumption})
	b, _ := w.AddIdea(ctx, domain.IdeaDraft{Rephrase: "second assumption", Type: domain.IdeaTypeAssumption})
	_, err := w.AddRelation(ctx, domain.RelationDraft{FromIdeaID: a.ID, ToIdeaID: b.ID, Type: domain.RelationContradicts})
	require.NoError(t, err)

	queue := w.StudyQueue()

	require.Len(t, queue, 3)
	assert.Equal(t, a.ID, queue[0].Idea.ID)
	assert.Equal(t, b.ID, queue[1].Idea.ID)
	assert.Equal(t, q.ID, queue[2].Idea.ID)
}

func TestWorkspace_LoadRestoresState(t *testing.T) {
	w, stores := newTestWorkspace(t, nil)
	ctx := context.Background()
	_, err := w.Comment(ctx, domain.CommentDraft{Selection: selection("a passage"), Rephrase: "persisted comment"})
	require.NoError(t, err)

	fresh := NewWorkspace(stores, domain.DefaultAppSettings(), nil)
	require.NoError(t, fresh.Load(ctx))

	assert.Equal(t, w.Ideas(), fresh.Ideas())
	assert.Equal(t, w.Anchors(), fresh.Anchors())
	assert.Equal(t, w.Highlights(), fresh.Highlights())
}

func TestWorkspace_MissingStores(t *testing.T) {
	w := NewWorkspace(WorkspaceStores{}, domain.DefaultAppSettings(), nil)
	ctx := context.Background()

	assert.ErrorIs(t, w.Load(ctx), domain.ErrNotImplemented)
	_, err := w.AddIdea(ctx, domain.IdeaDraft{})
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
	_, err = w.RelocateSource(ctx, "s", "s.pdf")
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
}

func TestWorkspace_RelocateSource(t *testing.T) {
	layer := &fakeTextLayer{pages: map[int]*domain.PageText{
		1: page(1, textLine("Preface text only.", 50, 100, 10, 12)),
		2: page(2, textLine("Some filler.", 50, 100, 10, 12)),
		3: page(3,
			textLine("Earlier paragraph.", 50, 100, 10, 12),
			textLine("The claim under study appears here.", 50, 300, 10, 12),
		),
	}}
	w, stores := newTestWorkspace(t, layer)
	ctx := context.Background()

	res, err := w.Comment(ctx, domain.CommentDraft{
		Selection: selection("claim under study"),
		Rephrase:  "my note on the claim",
	})
	require.NoError(t, err)

	report, err := w.RelocateSource(ctx, "paper.pdf", "/tmp/paper.pdf")

	require.NoError(t, err)
	require.Len(t, report.Outcomes, 1)
	out := report.Outcomes[0]
	require.NoError(t, out.Err)
	assert.True(t, out.Saved)
	assert.Equal(t, res.Anchor.ID, out.OldAnchorID)
	assert.Equal(t, 3, out.NewAnchor.PageNumber)
	assert.Equal(t, domain.StrategyQuoteSearch, out.NewAnchor.Strategy)
	assert.Equal(t, 1, report.Relocated())

	pageNumber, ok := w.AnchorPageForIdea(res.Idea.ID)
	assert.True(t, ok)
	assert.Equal(t, 3, pageNumber)

	anchors, _ := stores.Anchors.List(ctx)
	assert.Len(t, anchors, 2, "old anchor is kept")

	// A second pass finds the same position and saves nothing new.
	report, err = w.RelocateSource(ctx, "paper.pdf", "/tmp/paper.pdf")
	require.NoError(t, err)
	for _, o := range report.Outcomes {
		assert.False(t, o.Saved)
		assert.True(t, o.Unchanged)
	}
	assert.Len(t, w.Anchors(), 2)
}

func TestWorkspace_RelocateSource_ReadsAnchorsFromStore(t *testing.T) {
	layer := &fakeTextLayer{pages: map[int]*domain.PageText{
		1: page(1, textLine("A sentence saved by the watcher.", 50, 100, 10, 12)),
	}}
	w, stores := newTestWorkspace(t, layer)
	ctx := context.Background()
	require.NoError(t, stores.Anchors.Save(ctx, domain.Anchor{
		ID:         "saved-elsewhere",
		ProjectID:  "proj",
		SourceID:   "paper.pdf",
		PageNumber: 1,
		Quote:      "saved by the watcher",
		Strategy:   domain.StrategyQuoteContext,
		Confidence: 1,
	}))
	require.NoError(t, stores.Anchors.Save(ctx, domain.Anchor{
		ID:         "other-source",
		ProjectID:  "proj",
		SourceID:   "notes.pdf",
		PageNumber: 1,
		Quote:      "saved by the watcher",
		Strategy:   domain.StrategyQuoteContext,
		Confidence: 1,
	}))

	report, err := w.RelocateSource(ctx, "paper.pdf", "/tmp/paper.pdf")

	require.NoError(t, err)
	require.Len(t, report.Outcomes, 1)
	assert.Equal(t, "saved-elsewhere", report.Outcomes[0].OldAnchorID)
	assert.True(t, report.Outcomes[0].Saved)
	_, err = w.Anchor("saved-elsewhere")
	assert.NoError(t, err)
}

func TestWorkspace_RelocateSource_BelowThreshold(t *testing.T) {
	layer := &fakeTextLayer{pages: map[int]*domain.PageText{
		1: page(1,
			textLine("twin phrase", 50, 100, 10, 12),
			textLine("twin phrase", 50, 400, 10, 12),
		),
	}}
	w, _ := newTestWorkspace(t, layer)
	w.settings.Resolver.MinConfidence = 0.6
	ctx := context.Background()

	sel := selection("twin phrase")
	sel.PageNumber = 1
	_, err := w.Highlight(ctx, sel, "")
	require.NoError(t, err)

	report, err := w.RelocateSource(ctx, "paper.pdf", "/tmp/paper.pdf")

	require.NoError(t, err)
	require.Len(t, report.Outcomes, 1)
	assert.True(t, report.Outcomes[0].BelowThreshold())
	assert.InDelta(t, 0.45, report.Outcomes[0].NewAnchor.Confidence, 1e-9)
	assert.Len(t, w.Anchors(), 1)
}

func TestWorkspace_RelocateSource_NotFound(t *testing.T) {
	layer := &fakeTextLayer{pages: map[int]*domain.PageText{
		1: page(1, textLine("unrelated words", 50, 100, 10, 12)),
	}}
	w, _ := newTestWorkspace(t, layer)
	ctx := context.Background()
	_, err := w.Highlight(ctx, selection("vanished sentence"), "")
	require.NoError(t, err)

	report, err := w.RelocateSource(ctx, "paper.pdf", "/tmp/paper.pdf")

	require.NoError(t, err)
	require.Len(t, report.Outcomes, 1)
	assert.ErrorIs(t, report.Outcomes[0].Err, domain.ErrAnchorNotFound)
	assert.Equal(t, 1, report.Failed())
}

func TestWorkspace_RelocateSource_TextLayerError(t *testing.T) {
	w, _ := newTestWorkspace(t, &fakeTextLayer{err: errors.New("corrupt pdf")})

	_, err := w.RelocateSource(context.Background(), "paper.pdf", "/tmp/paper.pdf")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt pdf")
}

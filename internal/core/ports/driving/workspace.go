package driving

import (
	"context"

	"github.com/custodia-labs/margin/internal/core/domain"
)

// Workspace is the application state of one margin project: ideas, anchors,
// relations, highlights and the links between them, with the review views
// derived from them.
//
// Reads are served from memory after Load. Writes go to the stores first and
// update memory only on success.
type Workspace interface {
	// Load reads every collection from the stores.
	Load(ctx context.Context) error

	// Ideas returns all ideas in insertion order, hidden ones included.
	Ideas() []domain.Idea

	// VisibleIdeas returns ideas not hidden from the notes panel.
	VisibleIdeas() []domain.Idea

	// Idea returns one idea by ID.
	Idea(id string) (*domain.Idea, error)

	// AddIdea validates and saves a new idea.
	AddIdea(ctx context.Context, draft domain.IdeaDraft) (*domain.Idea, error)

	// UpdateIdea applies a patch. The merged idea is validated first.
	UpdateIdea(ctx context.Context, id string, patch domain.IdeaPatch) (*domain.Idea, error)

	// HideIdea sets or clears the hidden-from-notes flag.
	HideIdea(ctx context.Context, id string, hidden bool) error

	// Anchors returns all anchors in insertion order.
	Anchors() []domain.Anchor

	// AnchorsForSource returns the anchors of one source document.
	AnchorsForSource(sourceID string) []domain.Anchor

	// Anchor returns one anchor by ID.
	Anchor(id string) (*domain.Anchor, error)

	// Highlight resolves a selection into an anchor and saves it with a
	// highlight. Returns nil, nil when the selection yields no rects.
	// An empty color uses the configured default.
	Highlight(ctx context.Context, sel domain.Selection, color string) (*domain.Anchor, error)

	// LocateAnchor converts an anchor's first rect back to viewport pixels.
	// ok is false when the anchor has no rects.
	LocateAnchor(id string, viewport domain.Viewport) (rect domain.Rect, ok bool, err error)

	// RelocateSource re-finds every anchor of a source in its current text.
	RelocateSource(ctx context.Context, sourceID, sourcePath string) (*domain.RelocationReport, error)

	// LinkIdeaToAnchor records an idea to anchor link. Idempotent.
	LinkIdeaToAnchor(ctx context.Context, ideaID, anchorID string) error

	// AnchorPageForIdea returns the page to navigate to for an idea.
	AnchorPageForIdea(ideaID string) (int, bool)

	// Relations returns all relations in insertion order.
	Relations() []domain.Relation

	// AddRelation validates and saves a relation.
	AddRelation(ctx context.Context, draft domain.RelationDraft) (*domain.Relation, error)

	// Highlights returns all highlights in insertion order.
	Highlights() []domain.Highlight

	// Links returns all idea-anchor links in insertion order.
	Links() []domain.IdeaAnchor

	// LatestHighlightColor returns the colour of the newest highlight on an anchor.
	LatestHighlightColor(anchorID string) (string, bool)

	// Comment creates an anchored idea from a selection.
	Comment(ctx context.Context, draft domain.CommentDraft) (*domain.CommentResult, error)

	// Flags returns the cognitive flags of every flagged idea.
	Flags() map[string][]domain.CognitiveFlag

	// StudyQueue returns flagged ideas ordered by priority.
	StudyQueue() []domain.StudyItem
}

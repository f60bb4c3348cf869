package driven

import (
	"context"

	"github.com/custodia-labs/margin/internal/core/domain"
)

// RelationStore persists relations between ideas.
type RelationStore interface {
	// Save stores a relation.
	Save(ctx context.Context, rel domain.Relation) error

	// List returns all relations in insertion order.
	List(ctx context.Context) ([]domain.Relation, error)
}

// HighlightStore persists highlights.
type HighlightStore interface {
	// Save stores a highlight.
	Save(ctx context.Context, h domain.Highlight) error

	// List returns all highlights in insertion order.
	List(ctx context.Context) ([]domain.Highlight, error)
}

// IdeaAnchorStore persists links between ideas and anchors.
type IdeaAnchorStore interface {
	// Link records that an idea refers to an anchor.
	// Linking an already linked pair is a no-op.
	Link(ctx context.Context, link domain.IdeaAnchor) error

	// List returns all links in insertion order.
	List(ctx context.Context) ([]domain.IdeaAnchor, error)
}

package driven

import (
	"context"

	"github.com/custodia-labs/margin/internal/core/domain"
)

// AnchorStore persists anchors. Anchors are immutable once saved.
type AnchorStore interface {
	// Save stores an anchor. Saving an existing ID replaces it.
	Save(ctx context.Context, anchor domain.Anchor) error

	// Get retrieves an anchor by ID.
	Get(ctx context.Context, id string) (*domain.Anchor, error)

	// List returns all anchors in insertion order.
	List(ctx context.Context) ([]domain.Anchor, error)

	// ListBySource returns the anchors of one source document.
	ListBySource(ctx context.Context, sourceID string) ([]domain.Anchor, error)
}

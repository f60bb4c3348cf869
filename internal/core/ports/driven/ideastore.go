package driven

import (
	"context"

	"github.com/custodia-labs/margin/internal/core/domain"
)

// IdeaStore persists ideas. Ideas are never deleted.
type IdeaStore interface {
	// Save stores or replaces an idea by ID.
	Save(ctx context.Context, idea domain.Idea) error

	// Get retrieves an idea by ID.
	// Returns domain.ErrNotFound if the idea does not exist.
	Get(ctx context.Context, id string) (*domain.Idea, error)

	// List returns all ideas in insertion order.
	List(ctx context.Context) ([]domain.Idea, error)

	// Update applies a partial update to an idea.
	// The caller is responsible for validating the merged idea.
	Update(ctx context.Context, id string, patch domain.IdeaPatch) error
}

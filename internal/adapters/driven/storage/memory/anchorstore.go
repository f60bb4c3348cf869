package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/margin/internal/core/domain"
	"github.com/custodia-labs/margin/internal/core/ports/driven"
)

// Ensure AnchorStore implements the interface.
var _ driven.AnchorStore = (*AnchorStore)(nil)

// AnchorStore is an in-memory implementation of driven.AnchorStore.
type AnchorStore struct {
	mu      sync.RWMutex
	anchors map[string]domain.Anchor
	order   []string
}

// NewAnchorStore creates a new in-memory anchor store.
func NewAnchorStore() *AnchorStore {
	return &AnchorStore{
		anchors: make(map[string]domain.Anchor),
	}
}

// Save stores an anchor.
func (s *AnchorStore) Save(_ context.Context, anchor domain.Anchor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.anchors[anchor.ID]; !exists {
		s.order = append(s.order, anchor.ID)
	}
	anchor.Rects = append([]domain.Rect(nil), anchor.Rects...)
	s.anchors[anchor.ID] = anchor
	return nil
}

// Get retrieves an anchor by ID.
func (s *AnchorStore) Get(_ context.Context, id string) (*domain.Anchor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	anchor, ok := s.anchors[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &anchor, nil
}

// List returns all anchors in insertion order.
func (s *AnchorStore) List(_ context.Context) ([]domain.Anchor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Anchor, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.anchors[id])
	}
	return result, nil
}

// ListBySource returns the anchors of one source in insertion order.
func (s *AnchorStore) ListBySource(_ context.Context, sourceID string) ([]domain.Anchor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Anchor
	for _, id := range s.order {
		if a := s.anchors[id]; a.SourceID == sourceID {
			result = append(result, a)
		}
	}
	return result, nil
}

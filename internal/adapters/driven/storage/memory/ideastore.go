package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/margin/internal/core/domain"
	"github.com/custodia-labs/margin/internal/core/ports/driven"
)

// Ensure IdeaStore implements the interface.
var _ driven.IdeaStore = (*IdeaStore)(nil)

// IdeaStore is an in-memory implementation of driven.IdeaStore.
type IdeaStore struct {
	mu    sync.RWMutex
	ideas map[string]domain.Idea
	order []string
}

// NewIdeaStore creates a new in-memory idea store.
func NewIdeaStore() *IdeaStore {
	return &IdeaStore{
		ideas: make(map[string]domain.Idea),
	}
}

// Save stores or replaces an idea.
func (s *IdeaStore) Save(_ context.Context, idea domain.Idea) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.ideas[idea.ID]; !exists {
		s.order = append(s.order, idea.ID)
	}
	s.ideas[idea.ID] = idea
	return nil
}

// Get retrieves an idea by ID.
func (s *IdeaStore) Get(_ context.Context, id string) (*domain.Idea, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idea, ok := s.ideas[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &idea, nil
}

// List returns all ideas in insertion order.
func (s *IdeaStore) List(_ context.Context) ([]domain.Idea, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Idea, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.ideas[id])
	}
	return result, nil
}

// Update applies a partial update to an idea.
func (s *IdeaStore) Update(_ context.Context, id string, patch domain.IdeaPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idea, ok := s.ideas[id]
	if !ok {
		return domain.ErrNotFound
	}
	s.ideas[id] = patch.Apply(idea)
	return nil
}

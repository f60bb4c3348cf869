package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/margin/internal/core/domain"
	"github.com/custodia-labs/margin/internal/core/ports/driven"
)

// Ensure the append-only stores implement their interfaces.
var (
	_ driven.RelationStore   = (*RelationStore)(nil)
	_ driven.HighlightStore  = (*HighlightStore)(nil)
	_ driven.IdeaAnchorStore = (*IdeaAnchorStore)(nil)
)

// RelationStore is an in-memory implementation of driven.RelationStore.
type RelationStore struct {
	mu        sync.RWMutex
	relations []domain.Relation
}

// NewRelationStore creates a new in-memory relation store.
func NewRelationStore() *RelationStore {
	return &RelationStore{}
}

// Save stores a relation, replacing one with the same ID.
func (s *RelationStore) Save(_ context.Context, rel domain.Relation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.relations {
		if s.relations[i].ID == rel.ID {
			s.relations[i] = rel
			return nil
		}
	}
	s.relations = append(s.relations, rel)
	return nil
}

// List returns all relations in insertion order.
func (s *RelationStore) List(_ context.Context) ([]domain.Relation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Relation(nil), s.relations...), nil
}

// HighlightStore is an in-memory implementation of driven.HighlightStore.
type HighlightStore struct {
	mu         sync.RWMutex
	highlights []domain.Highlight
}

// NewHighlightStore creates a new in-memory highlight store.
func NewHighlightStore() *HighlightStore {
	return &HighlightStore{}
}

// Save stores a highlight, replacing one with the same ID.
func (s *HighlightStore) Save(_ context.Context, h domain.Highlight) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.highlights {
		if s.highlights[i].ID == h.ID {
			s.highlights[i] = h
			return nil
		}
	}
	s.highlights = append(s.highlights, h)
	return nil
}

// List returns all highlights in insertion order.
func (s *HighlightStore) List(_ context.Context) ([]domain.Highlight, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Highlight(nil), s.highlights...), nil
}

// IdeaAnchorStore is an in-memory implementation of driven.IdeaAnchorStore.
type IdeaAnchorStore struct {
	mu    sync.RWMutex
	links []domain.IdeaAnchor
}

// NewIdeaAnchorStore creates a new in-memory link store.
func NewIdeaAnchorStore() *IdeaAnchorStore {
	return &IdeaAnchorStore{}
}

// Link records an idea to anchor link. An existing pair is left untouched.
func (s *IdeaAnchorStore) Link(_ context.Context, link domain.IdeaAnchor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.links {
		if l.IdeaID == link.IdeaID && l.AnchorID == link.AnchorID {
			return nil
		}
	}
	s.links = append(s.links, link)
	return nil
}

// List returns all links in insertion order.
func (s *IdeaAnchorStore) List(_ context.Context) ([]domain.IdeaAnchor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.IdeaAnchor(nil), s.links...), nil
}

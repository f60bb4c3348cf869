package mcp

import (
	"context"

	"github.com/custodia-labs/margin/internal/core/domain"
	"github.com/custodia-labs/margin/internal/core/ports/driving"
)

// mockWorkspace implements the parts of driving.Workspace the server uses.
// Calling any other method panics on the nil embedded interface.
type mockWorkspace struct {
	driving.Workspace

	ideas     []domain.Idea
	anchors   map[string]domain.Anchor
	colors    map[string]string
	flags     map[string][]domain.CognitiveFlag
	queue     []domain.StudyItem
	locate    domain.Rect
	locateOK  bool
	err       error
	added     []domain.IdeaDraft
	relations []domain.RelationDraft
	links     [][2]string
}

func (m *mockWorkspace) Ideas() []domain.Idea {
	return m.ideas
}

func (m *mockWorkspace) Flags() map[string][]domain.CognitiveFlag {
	return m.flags
}

func (m *mockWorkspace) StudyQueue() []domain.StudyItem {
	return m.queue
}

func (m *mockWorkspace) AddIdea(_ context.Context, draft domain.IdeaDraft) (*domain.Idea, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.added = append(m.added, draft)
	return &domain.Idea{
		ID:         "idea-new",
		Type:       draft.Type,
		Rephrase:   draft.Rephrase,
		Origin:     domain.IdeaOriginManual,
		Status:     domain.IdeaStatusDraft,
		Confidence: draft.Confidence,
		SourceID:   draft.SourceID,
		AnchorID:   draft.AnchorID,
	}, nil
}

func (m *mockWorkspace) LinkIdeaToAnchor(_ context.Context, ideaID, anchorID string) error {
	m.links = append(m.links, [2]string{ideaID, anchorID})
	return nil
}

func (m *mockWorkspace) AddRelation(_ context.Context, draft domain.RelationDraft) (*domain.Relation, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.relations = append(m.relations, draft)
	return &domain.Relation{
		ID:            "rel-new",
		FromIdeaID:    draft.FromIdeaID,
		ToIdeaID:      draft.ToIdeaID,
		Type:          draft.Type,
		Justification: draft.Justification,
	}, nil
}

func (m *mockWorkspace) Anchor(id string) (*domain.Anchor, error) {
	a, ok := m.anchors[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &a, nil
}

func (m *mockWorkspace) LocateAnchor(_ string, _ domain.Viewport) (domain.Rect, bool, error) {
	return m.locate, m.locateOK, m.err
}

func (m *mockWorkspace) LatestHighlightColor(anchorID string) (string, bool) {
	c, ok := m.colors[anchorID]
	return c, ok
}

package sqlite

import (
	"context"
	"fmt"

	"github.com/custodia-labs/margin/internal/core/domain"
	"github.com/custodia-labs/margin/internal/core/ports/driven"
)

// Verify interface compliance.
var (
	_ driven.RelationStore   = (*relationStore)(nil)
	_ driven.HighlightStore  = (*highlightStore)(nil)
	_ driven.IdeaAnchorStore = (*ideaAnchorStore)(nil)
)

// relationStore wraps Store to implement driven.RelationStore.
type relationStore struct {
	store *Store
}

// Save stores a relation. Saving an existing ID replaces it.
func (s *relationStore) Save(ctx context.Context, rel domain.Relation) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO relations (id, project_id, from_idea_id, to_idea_id, type, justification, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			project_id = excluded.project_id,
			from_idea_id = excluded.from_idea_id,
			to_idea_id = excluded.to_idea_id,
			type = excluded.type,
			justification = excluded.justification
	`,
		rel.ID,
		rel.ProjectID,
		rel.FromIdeaID,
		rel.ToIdeaID,
		string(rel.Type),
		rel.Justification,
		formatTime(rel.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("saving relation: %w", err)
	}
	return nil
}

// List returns all relations in insertion order.
func (s *relationStore) List(ctx context.Context) ([]domain.Relation, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, project_id, from_idea_id, to_idea_id, type, justification, created_at
		FROM relations ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("listing relations: %w", err)
	}
	defer rows.Close()

	var relations []domain.Relation //nolint:prealloc // size unknown from query
	for rows.Next() {
		var (
			rel       domain.Relation
			relType   string
			createdAt string
		)
		if err := rows.Scan(&rel.ID, &rel.ProjectID, &rel.FromIdeaID, &rel.ToIdeaID,
			&relType, &rel.Justification, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning relation: %w", err)
		}
		rel.Type = domain.RelationType(relType)
		if rel.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		relations = append(relations, rel)
	}
	return relations, rows.Err()
}

// highlightStore wraps Store to implement driven.HighlightStore.
type highlightStore struct {
	store *Store
}

// Save stores a highlight. Saving an existing ID replaces its colour.
func (s *highlightStore) Save(ctx context.Context, h domain.Highlight) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO highlights (id, anchor_id, color, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			anchor_id = excluded.anchor_id,
			color = excluded.color
	`, h.ID, h.AnchorID, h.Color, formatTime(h.CreatedAt))
	if err != nil {
		return fmt.Errorf("saving highlight: %w", err)
	}
	return nil
}

// List returns all highlights in insertion order.
func (s *highlightStore) List(ctx context.Context) ([]domain.Highlight, error) {
	rows, err := s.store.db.QueryContext(ctx,
		`SELECT id, anchor_id, color, created_at FROM highlights ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("listing highlights: %w", err)
	}
	defer rows.Close()

	var highlights []domain.Highlight //nolint:prealloc // size unknown from query
	for rows.Next() {
		var (
			h         domain.Highlight
			createdAt string
		)
		if err := rows.Scan(&h.ID, &h.AnchorID, &h.Color, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning highlight: %w", err)
		}
		if h.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		highlights = append(highlights, h)
	}
	return highlights, rows.Err()
}

// ideaAnchorStore wraps Store to implement driven.IdeaAnchorStore.
type ideaAnchorStore struct {
	store *Store
}

// Link records an idea to anchor link. An existing pair is left untouched.
func (s *ideaAnchorStore) Link(ctx context.Context, link domain.IdeaAnchor) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO idea_anchors (id, idea_id, anchor_id, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`, link.ID, link.IdeaID, link.AnchorID, formatTime(link.CreatedAt))
	if err != nil {
		return fmt.Errorf("linking idea to anchor: %w", err)
	}
	return nil
}

// List returns all links in insertion order.
func (s *ideaAnchorStore) List(ctx context.Context) ([]domain.IdeaAnchor, error) {
	rows, err := s.store.db.QueryContext(ctx,
		`SELECT id, idea_id, anchor_id, created_at FROM idea_anchors ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("listing idea anchors: %w", err)
	}
	defer rows.Close()

	var links []domain.IdeaAnchor //nolint:prealloc // size unknown from query
	for rows.Next() {
		var (
			link      domain.IdeaAnchor
			createdAt string
		)
		if err := rows.Scan(&link.ID, &link.IdeaID, &link.AnchorID, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning idea anchor: %w", err)
		}
		if link.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

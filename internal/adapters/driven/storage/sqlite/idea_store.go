package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/margin/internal/core/domain"
	"github.com/custodia-labs/margin/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.IdeaStore = (*ideaStore)(nil)

// ideaStore wraps Store to implement driven.IdeaStore.
type ideaStore struct {
	store *Store
}

const ideaColumns = `id, project_id, source_id, anchor_id, type, rephrase, origin, status,
	confidence, hidden_from_notes, created_at, updated_at`

// Save stores or replaces an idea.
func (s *ideaStore) Save(ctx context.Context, idea domain.Idea) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO ideas (`+ideaColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			project_id = excluded.project_id,
			source_id = excluded.source_id,
			anchor_id = excluded.anchor_id,
			type = excluded.type,
			rephrase = excluded.rephrase,
			origin = excluded.origin,
			status = excluded.status,
			confidence = excluded.confidence,
			hidden_from_notes = excluded.hidden_from_notes,
			updated_at = excluded.updated_at
	`,
		idea.ID,
		idea.ProjectID,
		idea.SourceID,
		idea.AnchorID,
		string(idea.Type),
		idea.Rephrase,
		string(idea.Origin),
		string(idea.Status),
		idea.Confidence,
		boolToInt(idea.HiddenFromNotes),
		formatTime(idea.CreatedAt),
		formatTime(idea.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("saving idea: %w", err)
	}
	return nil
}

// Get retrieves an idea by ID.
func (s *ideaStore) Get(ctx context.Context, id string) (*domain.Idea, error) {
	row := s.store.db.QueryRowContext(ctx, `SELECT `+ideaColumns+` FROM ideas WHERE id = ?`, id)
	idea, err := scanIdea(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting idea: %w", err)
	}
	return idea, nil
}

// List returns all ideas in insertion order.
func (s *ideaStore) List(ctx context.Context) ([]domain.Idea, error) {
	rows, err := s.store.db.QueryContext(ctx, `SELECT `+ideaColumns+` FROM ideas ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("listing ideas: %w", err)
	}
	defer rows.Close()

	var ideas []domain.Idea //nolint:prealloc // size unknown from query
	for rows.Next() {
		idea, err := scanIdea(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning idea: %w", err)
		}
		ideas = append(ideas, *idea)
	}
	return ideas, rows.Err()
}

// Update applies a partial update. Only the fields set in patch are written.
func (s *ideaStore) Update(ctx context.Context, id string, patch domain.IdeaPatch) error {
	var (
		sets []string
		args []any
	)
	if patch.Rephrase != nil {
		sets = append(sets, "rephrase = ?")
		args = append(args, *patch.Rephrase)
	}
	if patch.Type != nil {
		sets = append(sets, "type = ?")
		args = append(args, string(*patch.Type))
	}
	if patch.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*patch.Status))
	}
	if patch.Confidence != nil {
		sets = append(sets, "confidence = ?")
		args = append(args, *patch.Confidence)
	}
	if patch.HiddenFromNotes != nil {
		sets = append(sets, "hidden_from_notes = ?")
		args = append(args, boolToInt(*patch.HiddenFromNotes))
	}
	if patch.UpdatedAt != nil {
		sets = append(sets, "updated_at = ?")
		args = append(args, formatTime(*patch.UpdatedAt))
	}

	if len(sets) == 0 {
		// Nothing to write, but the idea must still exist.
		_, err := s.Get(ctx, id)
		return err
	}

	args = append(args, id)
	result, err := s.store.db.ExecContext(ctx,
		`UPDATE ideas SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("updating idea: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating idea: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanIdea(row rowScanner) (*domain.Idea, error) {
	var (
		idea                 domain.Idea
		ideaType, origin     string
		status               string
		hidden               int
		createdAt, updatedAt string
	)
	err := row.Scan(
		&idea.ID,
		&idea.ProjectID,
		&idea.SourceID,
		&idea.AnchorID,
		&ideaType,
		&idea.Rephrase,
		&origin,
		&status,
		&idea.Confidence,
		&hidden,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	idea.Type = domain.IdeaType(ideaType)
	idea.Origin = domain.IdeaOrigin(origin)
	idea.Status = domain.IdeaStatus(status)
	idea.HiddenFromNotes = hidden != 0
	if idea.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if idea.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &idea, nil
}

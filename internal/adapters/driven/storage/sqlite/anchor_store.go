package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/custodia-labs/margin/internal/core/domain"
	"github.com/custodia-labs/margin/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.AnchorStore = (*anchorStore)(nil)

// anchorStore wraps Store to implement driven.AnchorStore.
type anchorStore struct {
	store *Store
}

const anchorColumns = `id, project_id, source_id, page_number, quote, context_before,
	context_after, rects, strategy, confidence, created_at`

// Save stores an anchor. Saving an existing ID replaces it.
func (s *anchorStore) Save(ctx context.Context, anchor domain.Anchor) error {
	rects := anchor.Rects
	if rects == nil {
		rects = []domain.Rect{}
	}
	rectsJSON, err := json.Marshal(rects)
	if err != nil {
		return fmt.Errorf("marshalling rects: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO anchors (`+anchorColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			project_id = excluded.project_id,
			source_id = excluded.source_id,
			page_number = excluded.page_number,
			quote = excluded.quote,
			context_before = excluded.context_before,
			context_after = excluded.context_after,
			rects = excluded.rects,
			strategy = excluded.strategy,
			confidence = excluded.confidence
	`,
		anchor.ID,
		anchor.ProjectID,
		anchor.SourceID,
		anchor.PageNumber,
		anchor.Quote,
		anchor.ContextBefore,
		anchor.ContextAfter,
		string(rectsJSON),
		string(anchor.Strategy),
		anchor.Confidence,
		formatTime(anchor.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("saving anchor: %w", err)
	}
	return nil
}

// Get retrieves an anchor by ID.
func (s *anchorStore) Get(ctx context.Context, id string) (*domain.Anchor, error) {
	row := s.store.db.QueryRowContext(ctx, `SELECT `+anchorColumns+` FROM anchors WHERE id = ?`, id)
	anchor, err := scanAnchor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting anchor: %w", err)
	}
	return anchor, nil
}

// List returns all anchors in insertion order.
func (s *anchorStore) List(ctx context.Context) ([]domain.Anchor, error) {
	return s.query(ctx, `SELECT `+anchorColumns+` FROM anchors ORDER BY rowid`)
}

// ListBySource returns the anchors of one source in insertion order.
func (s *anchorStore) ListBySource(ctx context.Context, sourceID string) ([]domain.Anchor, error) {
	return s.query(ctx, `SELECT `+anchorColumns+` FROM anchors WHERE source_id = ? ORDER BY rowid`, sourceID)
}

func (s *anchorStore) query(ctx context.Context, query string, args ...any) ([]domain.Anchor, error) {
	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing anchors: %w", err)
	}
	defer rows.Close()

	var anchors []domain.Anchor //nolint:prealloc // size unknown from query
	for rows.Next() {
		anchor, err := scanAnchor(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning anchor: %w", err)
		}
		anchors = append(anchors, *anchor)
	}
	return anchors, rows.Err()
}

func scanAnchor(row rowScanner) (*domain.Anchor, error) {
	var (
		anchor    domain.Anchor
		rectsJSON string
		strategy  string
		createdAt string
	)
	err := row.Scan(
		&anchor.ID,
		&anchor.ProjectID,
		&anchor.SourceID,
		&anchor.PageNumber,
		&anchor.Quote,
		&anchor.ContextBefore,
		&anchor.ContextAfter,
		&rectsJSON,
		&strategy,
		&anchor.Confidence,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(rectsJSON), &anchor.Rects); err != nil {
		return nil, fmt.Errorf("unmarshalling rects: %w", err)
	}
	if len(anchor.Rects) == 0 {
		anchor.Rects = nil
	}
	anchor.Strategy = domain.ResolverStrategy(strategy)
	if anchor.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &anchor, nil
}

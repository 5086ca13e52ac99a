package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"happy-jasmine/internal/domain"
)

// VisitCountRepository defines the interface for page visit counters
type VisitCountRepository interface {
	Increment(ctx context.Context, pageType string) (int64, error)
	Get(ctx context.Context, pageType string) (*domain.VisitCount, error)
	List(ctx context.Context) ([]*domain.VisitCount, error)
}

type visitCountRepository struct {
	db *sql.DB
}

// NewVisitCountRepository creates a new instance of VisitCountRepository
func NewVisitCountRepository(db *sql.DB) VisitCountRepository {
	return &visitCountRepository{db: db}
}

// Increment adds one visit inside the database and returns the new total.
// The increment_visit_count function is a single upsert, so concurrent
// visits are never lost.
func (r *visitCountRepository) Increment(ctx context.Context, pageType string) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT increment_visit_count($1)`, pageType).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to increment visit count: %w", err)
	}
	return count, nil
}

// Get returns the counter for pageType. A page that was never visited has a count of zero.
func (r *visitCountRepository) Get(ctx context.Context, pageType string) (*domain.VisitCount, error) {
	query := `SELECT page_type, visit_count, updated_at FROM visit_counts WHERE page_type = $1`

	visit := &domain.VisitCount{}
	err := r.db.QueryRowContext(ctx, query, pageType).Scan(&visit.PageType, &visit.VisitCount, &visit.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &domain.VisitCount{PageType: pageType}, nil
		}
		return nil, fmt.Errorf("failed to get visit count: %w", err)
	}

	return visit, nil
}

// List returns every counter ordered by page type
func (r *visitCountRepository) List(ctx context.Context) ([]*domain.VisitCount, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT page_type, visit_count, updated_at FROM visit_counts ORDER BY page_type`)
	if err != nil {
		return nil, fmt.Errorf("failed to list visit counts: %w", err)
	}
	defer rows.Close()

	visits := []*domain.VisitCount{}
	for rows.Next() {
		visit := &domain.VisitCount{}
		if err := rows.Scan(&visit.PageType, &visit.VisitCount, &visit.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan visit count: %w", err)
		}
		visits = append(visits, visit)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating visit counts: %w", err)
	}

	return visits, nil
}

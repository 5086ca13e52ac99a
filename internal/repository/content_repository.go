package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"happy-jasmine/internal/domain"
)

var (
	ErrContentNotFound = notFound("content")
)

// ContentRepository stores the single site content document
type ContentRepository interface {
	Get(ctx context.Context) (domain.Document, error)
	Upsert(ctx context.Context, doc domain.Document) error
}

type contentRepository struct {
	db *sql.DB
}

// NewContentRepository creates a new instance of ContentRepository
func NewContentRepository(db *sql.DB) ContentRepository {
	return &contentRepository{db: db}
}

// Get returns the stored document or ErrContentNotFound when nothing was saved yet
func (r *contentRepository) Get(ctx context.Context) (domain.Document, error) {
	var data []byte
	err := r.db.QueryRowContext(ctx, `SELECT data FROM content WHERE id = $1`, domain.ContentID).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("failed to get content: %w", err)
	}

	doc := domain.Document{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode content: %w", err)
	}
	if doc == nil {
		doc = domain.Document{}
	}

	return doc, nil
}

// Upsert replaces the whole document. The last write wins.
func (r *contentRepository) Upsert(ctx context.Context, doc domain.Document) error {
	if doc == nil {
		doc = domain.Document{}
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode content: %w", err)
	}

	query := `
		INSERT INTO content (id, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
	`

	if _, err := r.db.ExecContext(ctx, query, domain.ContentID, data); err != nil {
		return fmt.Errorf("failed to save content: %w", err)
	}

	return nil
}

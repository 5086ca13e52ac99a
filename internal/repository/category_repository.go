package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"happy-jasmine/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrCategoryNotFound = notFound("category")
)

const categoryColumns = `id, name, description, image_url, display_order, is_active, created_at, updated_at`

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	Update(ctx context.Context, id uuid.UUID, patch domain.CategoryPatch) (*domain.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	List(ctx context.Context, filter domain.CategoryFilter, page domain.Page) ([]*domain.Category, int, error)
}

type categoryRepository struct {
	db *sql.DB
}

// NewCategoryRepository creates a new instance of CategoryRepository
func NewCategoryRepository(db *sql.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func scanCategory(row rowScanner) (*domain.Category, error) {
	category := &domain.Category{}
	err := row.Scan(
		&category.ID,
		&category.Name,
		&category.Description,
		&category.ImageURL,
		&category.DisplayOrder,
		&category.IsActive,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return category, nil
}

// Create inserts a new category into the database using parameterized queries
func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}

	query := `
		INSERT INTO product_categories (id, name, description, image_url, display_order, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + categoryColumns

	created, err := scanCategory(r.db.QueryRowContext(
		ctx,
		query,
		category.ID,
		category.Name,
		category.Description,
		category.ImageURL,
		category.DisplayOrder,
		category.IsActive,
	))
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}

	*category = *created
	return nil
}

// Update changes only the columns set in patch and returns the updated row
func (r *categoryRepository) Update(ctx context.Context, id uuid.UUID, patch domain.CategoryPatch) (*domain.Category, error) {
	var set setClause

	if patch.Name.Set {
		set.add("name", patch.Name.Value)
	}
	if patch.Description.Set {
		set.add("description", patch.Description.Value)
	}
	if patch.ImageURL.Set {
		set.add("image_url", patch.ImageURL.Value)
	}
	if patch.DisplayOrder.Set {
		set.add("display_order", patch.DisplayOrder.Value)
	}
	if patch.IsActive.Set {
		set.add("is_active", patch.IsActive.Value)
	}

	if set.empty() {
		return r.FindByID(ctx, id)
	}

	assignments, idIndex := set.build()
	query := fmt.Sprintf(`UPDATE product_categories SET %s WHERE id = $%d RETURNING %s`, assignments, idIndex, categoryColumns)

	category, err := scanCategory(r.db.QueryRowContext(ctx, query, append(set.args, id)...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return category, nil
}

// Delete removes a category. Products keep their category_id.
func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM product_categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrCategoryNotFound
	}

	return nil
}

// FindByID retrieves a category by ID using parameterized queries
func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM product_categories WHERE id = $1`

	category, err := scanCategory(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category by ID: %w", err)
	}

	return category, nil
}

// List retrieves categories by display order; ties keep insertion order
func (r *categoryRepository) List(ctx context.Context, filter domain.CategoryFilter, page domain.Page) ([]*domain.Category, int, error) {
	page = domain.NormalizePage(page)

	whereClause := ""
	if filter.ActiveOnly {
		whereClause = "WHERE is_active = TRUE"
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM product_categories %s", whereClause)
	if err := r.db.QueryRowContext(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count categories: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM product_categories
		%s
		ORDER BY display_order ASC, created_at ASC, id ASC
		LIMIT $1 OFFSET $2
	`, categoryColumns, whereClause)

	rows, err := r.db.QueryContext(ctx, query, page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []*domain.Category{}
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, total, nil
}

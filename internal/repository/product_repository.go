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
	ErrProductNotFound = notFound("product")
)

const productColumns = `id, title, description, nutrition_fact, het_price, thumbnail, images, videos, category_id, created_at, updated_at`

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, id uuid.UUID, patch domain.ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, filter domain.ProductFilter, page domain.Page) ([]*domain.Product, int, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	var images, videos []byte
	var categoryID uuid.NullUUID

	err := row.Scan(
		&product.ID,
		&product.Title,
		&product.Description,
		&product.NutritionFact,
		&product.HetPrice,
		&product.Thumbnail,
		&images,
		&videos,
		&categoryID,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if product.Images, err = decodeList(images); err != nil {
		return nil, err
	}
	if product.Videos, err = decodeList(videos); err != nil {
		return nil, err
	}
	if categoryID.Valid {
		id := categoryID.UUID
		product.CategoryID = &id
	}

	return product, nil
}

// Create inserts a new product and fills in the server assigned id and timestamps
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}

	images, err := encodeList(product.Images)
	if err != nil {
		return err
	}
	videos, err := encodeList(product.Videos)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO products (id, title, description, nutrition_fact, het_price, thumbnail, images, videos, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + productColumns

	created, err := scanProduct(r.db.QueryRowContext(
		ctx,
		query,
		product.ID,
		product.Title,
		product.Description,
		product.NutritionFact,
		product.HetPrice,
		product.Thumbnail,
		images,
		videos,
		nullableUUID(product.CategoryID),
	))
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	*product = *created
	return nil
}

// Update changes only the columns set in patch and returns the updated row
func (r *productRepository) Update(ctx context.Context, id uuid.UUID, patch domain.ProductPatch) (*domain.Product, error) {
	var set setClause

	if patch.Title.Set {
		set.add("title", patch.Title.Value)
	}
	if patch.Description.Set {
		set.add("description", patch.Description.Value)
	}
	if patch.NutritionFact.Set {
		set.add("nutrition_fact", patch.NutritionFact.Value)
	}
	if patch.HetPrice.Set {
		set.add("het_price", patch.HetPrice.Value)
	}
	if patch.Thumbnail.Set {
		set.add("thumbnail", patch.Thumbnail.Value)
	}
	if patch.Images.Set {
		images, err := encodeList(patch.Images.Value)
		if err != nil {
			return nil, err
		}
		set.add("images", images)
	}
	if patch.Videos.Set {
		videos, err := encodeList(patch.Videos.Value)
		if err != nil {
			return nil, err
		}
		set.add("videos", videos)
	}
	if patch.CategoryID.Set {
		set.add("category_id", nullableUUID(patch.CategoryID.Value))
	}

	if set.empty() {
		return r.FindByID(ctx, id)
	}

	assignments, idIndex := set.build()
	query := fmt.Sprintf(`UPDATE products SET %s WHERE id = $%d RETURNING %s`, assignments, idIndex, productColumns)

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, append(set.args, id)...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}

// Delete removes a product from the database using parameterized queries
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM products WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product by ID using parameterized queries
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// List returns one page of products, newest first, and the total number of matching products
func (r *productRepository) List(ctx context.Context, filter domain.ProductFilter, page domain.Page) ([]*domain.Product, int, error) {
	page = domain.NormalizePage(page)

	// Build the WHERE clause
	whereClause := ""
	args := []any{}
	argIndex := 1

	if filter.CategoryID != nil {
		whereClause = fmt.Sprintf("WHERE category_id = $%d", argIndex)
		args = append(args, *filter.CategoryID)
		argIndex++
	}

	// Count total products
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM products %s", whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		%s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, productColumns, whereClause, argIndex, argIndex+1)

	args = append(args, page.Limit(), page.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating products: %w", err)
	}

	return products, total, nil
}

func nullableUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

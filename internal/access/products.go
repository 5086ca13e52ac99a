package access

import (
	"context"
	"errors"
	"strings"

	"happy-jasmine/internal/domain"
	"happy-jasmine/internal/repository"
	"happy-jasmine/internal/result"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Products is the catalog accessor
type Products struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	logger     *zap.Logger
}

// NewProducts creates a Products accessor. categories resolves product details.
func NewProducts(products repository.ProductRepository, categories repository.CategoryRepository, logger *zap.Logger) *Products {
	return &Products{products: products, categories: categories, logger: logger}
}

// List returns one page of every product, newest first
func (p *Products) List(ctx context.Context, page domain.Page) result.Result[[]*domain.Product] {
	return p.ListByCategory(ctx, nil, page)
}

// ListByCategory is List restricted to one category. A nil categoryID means all categories.
func (p *Products) ListByCategory(ctx context.Context, categoryID *uuid.UUID, page domain.Page) result.Result[[]*domain.Product] {
	products, total, err := p.products.List(ctx, domain.ProductFilter{CategoryID: categoryID}, page)
	if err != nil {
		return failure[[]*domain.Product](p.logger, "list products", err)
	}
	return result.OkWithCount(products, total)
}

// Get returns one product
func (p *Products) Get(ctx context.Context, id uuid.UUID) result.Result[*domain.Product] {
	product, err := p.products.FindByID(ctx, id)
	if err != nil {
		return failure[*domain.Product](p.logger, "get product", err, zap.String("product_id", id.String()))
	}
	return result.Ok(product)
}

// GetDetail returns a product with its category. Products whose category is
// unset or was deleted are reported as uncategorized.
func (p *Products) GetDetail(ctx context.Context, id uuid.UUID) result.Result[domain.ProductDetail] {
	product, err := p.products.FindByID(ctx, id)
	if err != nil {
		return failure[domain.ProductDetail](p.logger, "get product", err, zap.String("product_id", id.String()))
	}

	var category *domain.Category
	if product.CategoryID != nil {
		category, err = p.categories.FindByID(ctx, *product.CategoryID)
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				return failure[domain.ProductDetail](p.logger, "get product category", err,
					zap.String("product_id", id.String()))
			}
			category = nil
		}
	}

	return result.Ok(domain.NewProductDetail(*product, category))
}

// Create stores a new product and returns it with its id and timestamps
func (p *Products) Create(ctx context.Context, product *domain.Product) result.Result[*domain.Product] {
	if product == nil || strings.TrimSpace(product.Title) == "" {
		return invalid[*domain.Product]("product title is required")
	}
	if err := p.products.Create(ctx, product); err != nil {
		return failure[*domain.Product](p.logger, "create product", err)
	}
	return result.Ok(product)
}

// Update changes the fields set in patch
func (p *Products) Update(ctx context.Context, id uuid.UUID, patch domain.ProductPatch) result.Result[*domain.Product] {
	if patch.Title.Set && strings.TrimSpace(patch.Title.Value) == "" {
		return invalid[*domain.Product]("product title cannot be empty")
	}
	product, err := p.products.Update(ctx, id, patch)
	if err != nil {
		return failure[*domain.Product](p.logger, "update product", err, zap.String("product_id", id.String()))
	}
	return result.Ok(product)
}

// Delete removes a product
func (p *Products) Delete(ctx context.Context, id uuid.UUID) result.Result[result.Empty] {
	if err := p.products.Delete(ctx, id); err != nil {
		return failure[result.Empty](p.logger, "delete product", err, zap.String("product_id", id.String()))
	}
	return result.Ok(result.Empty{})
}

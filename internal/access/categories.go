package access

import (
	"context"
	"strings"

	"happy-jasmine/internal/domain"
	"happy-jasmine/internal/repository"
	"happy-jasmine/internal/result"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Categories is the product category accessor
type Categories struct {
	repo   repository.CategoryRepository
	logger *zap.Logger
}

// NewCategories creates a Categories accessor
func NewCategories(repo repository.CategoryRepository, logger *zap.Logger) *Categories {
	return &Categories{repo: repo, logger: logger}
}

// List returns one page of categories by display order
func (c *Categories) List(ctx context.Context, filter domain.CategoryFilter, page domain.Page) result.Result[[]*domain.Category] {
	categories, total, err := c.repo.List(ctx, filter, page)
	if err != nil {
		return failure[[]*domain.Category](c.logger, "list categories", err)
	}
	return result.OkWithCount(categories, total)
}

// Get returns one category by id
func (c *Categories) Get(ctx context.Context, id uuid.UUID) result.Result[*domain.Category] {
	category, err := c.repo.FindByID(ctx, id)
	if err != nil {
		return failure[*domain.Category](c.logger, "get category", err, zap.String("category_id", id.String()))
	}
	return result.Ok(category)
}

// Create validates and stores a new category
func (c *Categories) Create(ctx context.Context, category *domain.Category) result.Result[*domain.Category] {
	if category == nil || strings.TrimSpace(category.Name) == "" {
		return invalid[*domain.Category]("category name is required")
	}
	if err := c.repo.Create(ctx, category); err != nil {
		return failure[*domain.Category](c.logger, "create category", err)
	}
	return result.Ok(category)
}

// Update applies a partial update to a category
func (c *Categories) Update(ctx context.Context, id uuid.UUID, patch domain.CategoryPatch) result.Result[*domain.Category] {
	if patch.Name.Set && strings.TrimSpace(patch.Name.Value) == "" {
		return invalid[*domain.Category]("category name cannot be empty")
	}
	category, err := c.repo.Update(ctx, id, patch)
	if err != nil {
		return failure[*domain.Category](c.logger, "update category", err, zap.String("category_id", id.String()))
	}
	return result.Ok(category)
}

// Delete removes a category. Its products keep pointing at the deleted id.
func (c *Categories) Delete(ctx context.Context, id uuid.UUID) result.Result[result.Empty] {
	if err := c.repo.Delete(ctx, id); err != nil {
		return failure[result.Empty](c.logger, "delete category", err, zap.String("category_id", id.String()))
	}
	return result.Ok(result.Empty{})
}

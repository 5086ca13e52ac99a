package transport

import (
	"context"
	"net/http"

	"happy-jasmine/internal/domain"
	"happy-jasmine/internal/middleware"
	"happy-jasmine/internal/result"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CategoryAccessor is the category side of the Entity Repository
type CategoryAccessor interface {
	List(ctx context.Context, filter domain.CategoryFilter, page domain.Page) result.Result[[]*domain.Category]
	Get(ctx context.Context, id uuid.UUID) result.Result[*domain.Category]
	Create(ctx context.Context, category *domain.Category) result.Result[*domain.Category]
	Update(ctx context.Context, id uuid.UUID, patch domain.CategoryPatch) result.Result[*domain.Category]
	Delete(ctx context.Context, id uuid.UUID) result.Result[result.Empty]
}

// CreateCategoryRequest represents the create category payload. IsActive defaults to true.
type CreateCategoryRequest struct {
	Name         string `json:"name" validate:"required"`
	Description  string `json:"description"`
	ImageURL     string `json:"image_url"`
	DisplayOrder int    `json:"display_order" validate:"gte=0"`
	IsActive     *bool  `json:"is_active"`
}

// CategoryHandler handles HTTP requests for product categories
type CategoryHandler struct {
	categories CategoryAccessor
	logger     *zap.Logger
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categories CategoryAccessor, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{categories: categories, logger: logger}
}

// RegisterRoutes mounts the public listing and the admin editor
func (h *CategoryHandler) RegisterRoutes(r chi.Router, admin func(http.Handler) http.Handler) {
	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", h.ListActive)
		r.Get("/{id}", h.Get)
	})

	r.Route("/api/admin/categories", func(r chi.Router) {
		r.Use(admin)
		r.Get("/", h.ListAll)
		r.Post("/", h.Create)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// ListActive returns the categories shown on the public site
func (h *CategoryHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, domain.CategoryFilter{ActiveOnly: true})
}

// ListAll returns every category unless include_inactive=false
func (h *CategoryHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, domain.CategoryFilter{ActiveOnly: r.URL.Query().Get("include_inactive") == "false"})
}

func (h *CategoryHandler) list(w http.ResponseWriter, r *http.Request, filter domain.CategoryFilter) {
	page, ok := pageOrFail(w, r)
	if !ok {
		return
	}
	middleware.RespondWithResult(w, http.StatusOK, h.categories.List(r.Context(), filter, page))
}

// Get returns a single category
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	middleware.RespondWithResult(w, http.StatusOK, h.categories.Get(r.Context(), id))
}

// Create adds a category
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if !decode(w, r, &req) {
		return
	}

	category := &domain.Category{
		Name:         req.Name,
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		DisplayOrder: req.DisplayOrder,
		IsActive:     req.IsActive == nil || *req.IsActive,
	}
	middleware.RespondWithResult(w, http.StatusCreated, h.categories.Create(r.Context(), category))
}

// Update applies the fields present in the body
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var patch domain.CategoryPatch
	if !decode(w, r, &patch) {
		return
	}
	middleware.RespondWithResult(w, http.StatusOK, h.categories.Update(r.Context(), id, patch))
}

// Delete removes a category. Its products become uncategorized.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	middleware.RespondWithResult(w, http.StatusOK, h.categories.Delete(r.Context(), id))
}

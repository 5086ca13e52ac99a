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

// ProductAccessor is the product side of the Entity Repository
type ProductAccessor interface {
	List(ctx context.Context, page domain.Page) result.Result[[]*domain.Product]
	ListByCategory(ctx context.Context, categoryID *uuid.UUID, page domain.Page) result.Result[[]*domain.Product]
	Get(ctx context.Context, id uuid.UUID) result.Result[*domain.Product]
	GetDetail(ctx context.Context, id uuid.UUID) result.Result[domain.ProductDetail]
	Create(ctx context.Context, product *domain.Product) result.Result[*domain.Product]
	Update(ctx context.Context, id uuid.UUID, patch domain.ProductPatch) result.Result[*domain.Product]
	Delete(ctx context.Context, id uuid.UUID) result.Result[result.Empty]
}

// CreateProductRequest represents the create product payload
type CreateProductRequest struct {
	Title         string     `json:"title" validate:"required"`
	Description   string     `json:"description"`
	NutritionFact string     `json:"nutrition_fact"`
	HetPrice      string     `json:"het_price"`
	Thumbnail     string     `json:"thumbnail"`
	Images        []string   `json:"images"`
	Videos        []string   `json:"videos"`
	CategoryID    *uuid.UUID `json:"category_id"`
}

// ProductHandler handles HTTP requests for products
type ProductHandler struct {
	products ProductAccessor
	logger   *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products ProductAccessor, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{products: products, logger: logger}
}

// RegisterRoutes mounts the public catalog and the admin editor
func (h *ProductHandler) RegisterRoutes(r chi.Router, admin func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
	})

	r.Route("/api/admin/products", func(r chi.Router) {
		r.Use(admin)
		r.Post("/", h.Create)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// List returns a page of products, optionally of one category
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	page, ok := pageOrFail(w, r)
	if !ok {
		return
	}

	raw := r.URL.Query().Get("category_id")
	if raw == "" {
		middleware.RespondWithResult(w, http.StatusOK, h.products.List(r.Context(), page))
		return
	}

	categoryID, err := uuid.Parse(raw)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category_id")
		return
	}
	middleware.RespondWithResult(w, http.StatusOK, h.products.ListByCategory(r.Context(), &categoryID, page))
}

// Get returns a product with its resolved category
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	middleware.RespondWithResult(w, http.StatusOK, h.products.GetDetail(r.Context(), id))
}

// Create adds a product
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if !decode(w, r, &req) {
		return
	}

	product := &domain.Product{
		Title:         req.Title,
		Description:   req.Description,
		NutritionFact: req.NutritionFact,
		HetPrice:      req.HetPrice,
		Thumbnail:     req.Thumbnail,
		Images:        req.Images,
		Videos:        req.Videos,
		CategoryID:    req.CategoryID,
	}
	middleware.RespondWithResult(w, http.StatusCreated, h.products.Create(r.Context(), product))
}

// Update applies the fields present in the body
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var patch domain.ProductPatch
	if !decode(w, r, &patch) {
		return
	}
	middleware.RespondWithResult(w, http.StatusOK, h.products.Update(r.Context(), id, patch))
}

// Delete removes a product
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	middleware.RespondWithResult(w, http.StatusOK, h.products.Delete(r.Context(), id))
}

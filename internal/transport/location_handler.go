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

// LocationAccessor is the location side of the Entity Repository
type LocationAccessor interface {
	List(ctx context.Context, filter domain.LocationFilter, page domain.Page) result.Result[[]*domain.Location]
	Get(ctx context.Context, id uuid.UUID) result.Result[*domain.Location]
	Create(ctx context.Context, location *domain.Location) result.Result[*domain.Location]
	Update(ctx context.Context, id uuid.UUID, patch domain.LocationPatch) result.Result[*domain.Location]
	Delete(ctx context.Context, id uuid.UUID) result.Result[result.Empty]
}

// CreateLocationRequest represents the create location payload
type CreateLocationRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Latitude    float64 `json:"latitude" validate:"latitude"`
	Longitude   float64 `json:"longitude" validate:"longitude"`
	Category    string  `json:"category" validate:"required,locationcategory"`
}

// LocationHandler handles HTTP requests for map locations
type LocationHandler struct {
	locations LocationAccessor
	logger    *zap.Logger
}

// NewLocationHandler creates a new LocationHandler
func NewLocationHandler(locations LocationAccessor, logger *zap.Logger) *LocationHandler {
	return &LocationHandler{locations: locations, logger: logger}
}

// RegisterRoutes mounts the public map data and the admin editor
func (h *LocationHandler) RegisterRoutes(r chi.Router, admin func(http.Handler) http.Handler) {
	r.Route("/api/locations", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
	})

	r.Route("/api/admin/locations", func(r chi.Router) {
		r.Use(admin)
		r.Post("/", h.Create)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// List returns a page of locations, optionally of one category
func (h *LocationHandler) List(w http.ResponseWriter, r *http.Request) {
	page, ok := pageOrFail(w, r)
	if !ok {
		return
	}

	filter := domain.LocationFilter{Category: domain.LocationCategory(r.URL.Query().Get("category"))}
	middleware.RespondWithResult(w, http.StatusOK, h.locations.List(r.Context(), filter, page))
}

// Get returns a single location
func (h *LocationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	middleware.RespondWithResult(w, http.StatusOK, h.locations.Get(r.Context(), id))
}

// Create adds a location
func (h *LocationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateLocationRequest
	if !decode(w, r, &req) {
		return
	}

	location := &domain.Location{
		Name:        req.Name,
		Description: req.Description,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Category:    domain.LocationCategory(req.Category),
	}
	middleware.RespondWithResult(w, http.StatusCreated, h.locations.Create(r.Context(), location))
}

// Update applies the fields present in the body. Values are checked by the accessor.
func (h *LocationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var patch domain.LocationPatch
	if !decode(w, r, &patch) {
		return
	}
	middleware.RespondWithResult(w, http.StatusOK, h.locations.Update(r.Context(), id, patch))
}

// Delete removes a location
func (h *LocationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	middleware.RespondWithResult(w, http.StatusOK, h.locations.Delete(r.Context(), id))
}

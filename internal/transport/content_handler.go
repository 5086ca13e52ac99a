package transport

import (
	"context"
	"encoding/json"
	"net/http"

	"happy-jasmine/internal/domain"
	"happy-jasmine/internal/middleware"
	"happy-jasmine/internal/result"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ContentAccessor reads and replaces the site Content Document
type ContentAccessor interface {
	Get(ctx context.Context) result.Result[domain.Document]
	Theme(ctx context.Context) result.Result[domain.Theme]
	Update(ctx context.Context, doc domain.Document) result.Result[result.Empty]
}

// ContentHandler serves the Content Document
type ContentHandler struct {
	content ContentAccessor
	logger  *zap.Logger
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(content ContentAccessor, logger *zap.Logger) *ContentHandler {
	return &ContentHandler{content: content, logger: logger}
}

// RegisterRoutes mounts the public reads and the admin replace
func (h *ContentHandler) RegisterRoutes(r chi.Router, admin func(http.Handler) http.Handler) {
	r.Get("/api/content", h.Get)
	r.Get("/api/content/theme", h.Theme)
	r.With(admin).Put("/api/admin/content", h.Update)
}

// Get returns the stored document, or the default one when none was saved
func (h *ContentHandler) Get(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithResult(w, http.StatusOK, h.content.Get(r.Context()))
}

// Theme returns the resolved theme colors
func (h *ContentHandler) Theme(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithResult(w, http.StatusOK, h.content.Theme(r.Context()))
}

// Update replaces the whole document
func (h *ContentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var doc domain.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "content must be a JSON object")
		return
	}

	res := h.content.Update(r.Context(), doc)
	if res.Success() {
		h.logger.Info("Content document replaced")
	}
	middleware.RespondWithResult(w, http.StatusOK, res)
}

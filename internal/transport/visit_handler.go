package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"happy-jasmine/internal/domain"
	"happy-jasmine/internal/middleware"
	"happy-jasmine/internal/result"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// DefaultHeartbeat is how often an idle visit stream sends a heartbeat event
const DefaultHeartbeat = 30 * time.Second

// VisitAccessor is the Visit Counter
type VisitAccessor interface {
	Increment(ctx context.Context, pageType string) result.Result[int64]
	Get(ctx context.Context, pageType string) result.Result[int64]
	List(ctx context.Context) result.Result[[]*domain.VisitCount]
	SubscribeToChanges(pageType string, onChange func(domain.VisitCount)) (unsubscribe func())
}

// VisitHandler records page visits and streams counter changes to the admin panel
type VisitHandler struct {
	visits    VisitAccessor
	logger    *zap.Logger
	heartbeat time.Duration
}

// NewVisitHandler creates a new VisitHandler
func NewVisitHandler(visits VisitAccessor, logger *zap.Logger) *VisitHandler {
	return &VisitHandler{visits: visits, logger: logger, heartbeat: DefaultHeartbeat}
}

// RegisterRoutes mounts the visit endpoints. incrementLimit throttles POST.
func (h *VisitHandler) RegisterRoutes(r chi.Router, admin, incrementLimit func(http.Handler) http.Handler) {
	r.With(incrementLimit).Post("/api/visits/{pageType}", h.Increment)
	r.Get("/api/visits/{pageType}", h.Get)

	r.Route("/api/admin/visits", func(r chi.Router) {
		r.Use(admin)
		r.Get("/", h.List)
		r.Get("/{pageType}/stream", h.Stream)
	})
}

// Increment records one visit and returns the new count
func (h *VisitHandler) Increment(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithResult(w, http.StatusOK, h.visits.Increment(r.Context(), chi.URLParam(r, "pageType")))
}

// Get returns the current count, 0 for a page never visited
func (h *VisitHandler) Get(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithResult(w, http.StatusOK, h.visits.Get(r.Context(), chi.URLParam(r, "pageType")))
}

// List returns every counter
func (h *VisitHandler) List(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithResult(w, http.StatusOK, h.visits.List(r.Context()))
}

// Stream handles GET /api/admin/visits/{pageType}/stream. It sends a
// "connected" event with the current count, or an "error" event when the
// count cannot be read, then a "visit" event per change.
func (h *VisitHandler) Stream(w http.ResponseWriter, r *http.Request) {
	pageType := chi.URLParam(r, "pageType")
	if err := middleware.ValidateVar(pageType, "pagetype"); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid page type")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		middleware.RespondWithError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	changes := make(chan domain.VisitCount, 16)
	unsubscribe := h.visits.SubscribeToChanges(pageType, func(v domain.VisitCount) {
		select {
		case changes <- v:
		default:
			h.logger.Warn("Visit stream is behind, dropping change", zap.String("page_type", pageType))
		}
	})
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if current := h.visits.Get(r.Context(), pageType); current.Success() {
		count, _ := current.Data()
		h.send(w, flusher, "connected", domain.VisitCount{PageType: pageType, VisitCount: count, UpdatedAt: time.Now()})
	} else {
		h.logger.Warn("Failed to read visit count for stream",
			zap.String("page_type", pageType),
			zap.Error(current.Cause()),
		)
		h.send(w, flusher, "error", map[string]string{"error": current.Message()})
	}

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	h.logger.Debug("Visit stream opened", zap.String("page_type", pageType))
	for {
		select {
		case v := <-changes:
			h.send(w, flusher, "visit", v)
		case <-ticker.C:
			h.send(w, flusher, "heartbeat", map[string]int64{"timestamp": time.Now().Unix()})
		case <-r.Context().Done():
			h.logger.Debug("Visit stream closed", zap.String("page_type", pageType))
			return
		}
	}
}

func (h *VisitHandler) send(w http.ResponseWriter, flusher http.Flusher, event string, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		h.logger.Error("Failed to marshal stream event", zap.Error(err))
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload)
	flusher.Flush()
}

package transport

import (
	"net/http"

	"happy-jasmine/internal/middleware"
	"happy-jasmine/internal/result"

	"github.com/go-chi/chi/v5"
)

// PublicConfig is the runtime configuration the site needs in the browser
type PublicConfig struct {
	MapToken string `json:"map_token"`
	AssetURL string `json:"asset_url"`
}

// ConfigHandler serves GET /api/config
type ConfigHandler struct {
	config PublicConfig
}

// NewConfigHandler creates a new ConfigHandler
func NewConfigHandler(config PublicConfig) *ConfigHandler {
	return &ConfigHandler{config: config}
}

// RegisterRoutes mounts GET /api/config
func (h *ConfigHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/config", h.Get)
}

// Get returns the public config
func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithResult(w, http.StatusOK, result.Ok(h.config))
}

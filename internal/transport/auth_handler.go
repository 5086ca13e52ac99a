package transport

import (
	"net/http"

	"happy-jasmine/internal/domain"
	"happy-jasmine/internal/middleware"
	"happy-jasmine/internal/result"
	"happy-jasmine/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries a refresh token for refresh and logout
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshResponse represents the token refresh response
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}

// AuthHandler handles sign in and sign out of admin accounts
type AuthHandler struct {
	auth   service.AuthService
	logger *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// RegisterRoutes mounts /api/auth. loginLimit throttles the login endpoint.
func (h *AuthHandler) RegisterRoutes(r chi.Router, authMiddleware, loginLimit func(http.Handler) http.Handler) {
	r.Route("/api/auth", func(r chi.Router) {
		r.With(loginLimit).Post("/login", h.Login)
		r.Post("/refresh", h.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/logout", h.Logout)
			r.Get("/me", h.Me)
		})
	})
}

// Login exchanges email and password for an identity with both tokens
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decode(w, r, &req) {
		return
	}

	identity, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Debug("Login failed", zap.Error(err))
		middleware.RespondWithResult(w, http.StatusOK, result.Fail[*domain.Identity](err))
		return
	}

	h.logger.Info("User logged in", zap.String("user_id", identity.UserID.String()))
	middleware.RespondWithResult(w, http.StatusOK, result.Ok(identity))
}

// Refresh mints a new access token from a refresh token
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !decode(w, r, &req) {
		return
	}

	accessToken, err := h.auth.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		h.logger.Debug("Token refresh failed", zap.Error(err))
		middleware.RespondWithResult(w, http.StatusOK, result.Fail[RefreshResponse](err))
		return
	}

	middleware.RespondWithResult(w, http.StatusOK, result.Ok(RefreshResponse{AccessToken: accessToken}))
}

// Logout revokes the refresh token. Revoking twice is not an error.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.auth.Logout(r.Context(), req.RefreshToken); err != nil {
		h.logger.Error("Logout failed", zap.Error(err))
		middleware.RespondWithResult(w, http.StatusOK, result.Fail[result.Empty](err))
		return
	}

	middleware.RespondWithResult(w, http.StatusOK, result.Ok(result.Empty{}))
}

// Me returns the account behind the access token
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.auth.GetUserByID(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to get user", zap.Error(err))
		middleware.RespondWithResult(w, http.StatusOK, result.Fail[*domain.User](err))
		return
	}

	middleware.RespondWithResult(w, http.StatusOK, result.Ok(user))
}

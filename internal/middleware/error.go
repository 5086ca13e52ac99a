package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	"happy-jasmine/internal/access"
	"happy-jasmine/internal/repository"
	"happy-jasmine/internal/result"
	"happy-jasmine/internal/service"
	"happy-jasmine/internal/session"

	"go.uber.org/zap"
)

// failureBody is the result wire shape plus optional validation details
type failureBody struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Details []ValidationError `json:"details,omitempty"`
}

// RespondWithError sends {"success": false, "error": message}
func RespondWithError(w http.ResponseWriter, statusCode int, message string) {
	RespondWithJSON(w, statusCode, failureBody{Error: message})
}

// RespondWithValidationErrors sends a 400 listing the offending fields
func RespondWithValidationErrors(w http.ResponseWriter, errs []ValidationError) {
	RespondWithJSON(w, http.StatusBadRequest, failureBody{Error: "validation failed", Details: errs})
}

// StatusFor maps the cause of a failed result to an HTTP status
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, access.ErrInvalidInput),
		errors.Is(err, service.ErrWeakPassword):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrAuth),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, repository.ErrUserAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// RespondWithResult writes r with successStatus, or with the status of its cause on failure
func RespondWithResult[T any](w http.ResponseWriter, successStatus int, r result.Result[T]) {
	status := successStatus
	if !r.Success() {
		status = StatusFor(r.Cause())
	}
	RespondWithJSON(w, status, r)
}

// ErrorHandlingMiddleware catches panics and converts them to 500 errors
func ErrorHandlingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					logger.Error("Panic recovered",
						zap.Any("error", err),
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
					)

					RespondWithError(w, http.StatusInternalServerError, "internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// RespondWithJSON sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

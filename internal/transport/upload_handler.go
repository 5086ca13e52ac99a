package transport

import (
	"context"
	"errors"
	"net/http"

	"happy-jasmine/internal/access"
	"happy-jasmine/internal/middleware"
	"happy-jasmine/internal/result"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AssetUploader stores admin uploads
type AssetUploader interface {
	Upload(ctx context.Context, f access.File, folder string) result.Result[string]
}

// UploadForm is the non-file part of an upload
type UploadForm struct {
	Folder string `validate:"required,oneof=products categories campaigns logos"`
}

// UploadHandler accepts multipart asset uploads from the admin panel
type UploadHandler struct {
	uploader AssetUploader
	maxBytes int64
	logger   *zap.Logger
}

// NewUploadHandler creates a new UploadHandler. Bodies above maxBytes are rejected.
func NewUploadHandler(uploader AssetUploader, maxBytes int64, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{uploader: uploader, maxBytes: maxBytes, logger: logger}
}

// RegisterRoutes mounts POST /api/admin/uploads
func (h *UploadHandler) RegisterRoutes(r chi.Router, admin func(http.Handler) http.Handler) {
	r.With(admin).Post("/api/admin/uploads", h.Upload)
}

// Upload stores the "file" part under "folder" and returns its public URL
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.RespondWithError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	form := UploadForm{Folder: r.FormValue("folder")}
	if err := middleware.ValidateRequest(form); err != nil {
		middleware.RespondWithValidationErrors(w, middleware.FormatValidationErrors(err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	res := h.uploader.Upload(r.Context(), access.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}, form.Folder)
	middleware.RespondWithResult(w, http.StatusCreated, res)
}

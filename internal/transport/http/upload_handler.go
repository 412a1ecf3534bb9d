package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "pickpulse/internal/errors"
	"pickpulse/internal/infrastructure"
	"pickpulse/internal/validation"
	"pickpulse/pkg/contracts/domain"
)

// UploadHandler handles workbook upload HTTP requests
type UploadHandler struct {
	service       DataServiceInterface
	logger        *slog.Logger
	errorHandler  *apierrors.ErrorHandler
	validate      *validator.Validate
	fileValidator *validation.FileValidator
	maxSizeBytes  int64
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(service DataServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler, maxSizeBytes int64) *UploadHandler {
	return &UploadHandler{
		service:       service,
		logger:        logger.With(slog.String("component", "upload_handler")),
		errorHandler:  errorHandler,
		validate:      validator.New(),
		fileValidator: validation.NewFileValidator(logger, maxSizeBytes),
		maxSizeBytes:  maxSizeBytes,
	}
}

// Routes returns the upload routes
func (h *UploadHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/", h.CreateUpload)
	r.Get("/", h.ListUploads)
	r.Route("/{id}", func(r chi.Router) {
		r.Use(h.UploadCtx)
		r.Get("/", h.GetUpload)
		r.Delete("/", h.DeleteUpload)
	})

	return r
}

// UploadCtx middleware validates the upload ID parameter
func (h *UploadHandler) UploadCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := h.validate.Var(id, "required,uuid"); err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("id", "Upload ID must be a UUID"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CreateUpload handles POST /api/uploads.
// Expects multipart form data with a "file" part and an optional "kind"
// field ("pick" or "pack") overriding filename-based detection.
func (h *UploadHandler) CreateUpload(w http.ResponseWriter, r *http.Request) {
	traceID := infrastructure.GetTraceID(r.Context())

	if h.maxSizeBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxSizeBytes+1024)
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.New(
			http.StatusRequestEntityTooLarge,
			"PAYLOAD_TOO_LARGE",
			"Upload exceeds the maximum allowed size",
		))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "A workbook file is required"))
		return
	}
	defer file.Close()

	if err := h.fileValidator.ValidateUpload(header); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", err.Error()))
		return
	}

	kind := domain.RecordKind(r.FormValue("kind"))
	if err := h.validate.Var(string(kind), "omitempty,oneof=pick pack"); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("kind", `Kind must be "pick" or "pack"`))
		return
	}

	h.logger.InfoContext(r.Context(), "upload received",
		slog.String("trace_id", traceID),
		slog.String("file", header.Filename),
		slog.String("kind", string(kind)),
		slog.Int64("size_bytes", header.Size))

	upload, err := h.service.CreateUpload(r.Context(), header.Filename, header.Size, file, kind)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   upload,
	})
}

// ListUploads handles GET /api/uploads
func (h *UploadHandler) ListUploads(w http.ResponseWriter, r *http.Request) {
	uploads := h.service.ListUploads(r.Context())

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   uploads,
		"count":  len(uploads),
	})
}

// GetUpload handles GET /api/uploads/{id}
func (h *UploadHandler) GetUpload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	upload, err := h.service.GetUpload(r.Context(), id)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   upload,
	})
}

// DeleteUpload handles DELETE /api/uploads/{id}
func (h *UploadHandler) DeleteUpload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteUpload(r.Context(), id); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "upload deleted",
		slog.String("upload_id", id))

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
	})
}

package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/coursestack/resource-catalog/pkg/catalog"
)

// maxUploadMemory bounds how much of a multipart body is held in memory
// before spilling to disk.
const maxUploadMemory = 32 << 20

// Handler exposes the resource catalog over HTTP.
type Handler struct {
	service catalog.Service
	logger  *slog.Logger
}

// NewHandler creates a new resource handler
func NewHandler(service catalog.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Routes returns the router for resource endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/upload", h.UploadResource)
	r.Get("/user", h.ListResources)
	r.Get("/", h.ListAllResources)
	r.Get("/download/{id}", h.DownloadResource)
	r.Get("/{id}", h.GetResource)
	r.Put("/{id}", h.UpdateResource)
	r.Delete("/{id}", h.DeleteResource)
	return r
}

// resourceResponse is the envelope for a single resource
type resourceResponse struct {
	Success  bool              `json:"success"`
	Resource *catalog.Resource `json:"resource"`
}

// resourceListResponse is the envelope for listings
type resourceListResponse struct {
	Success   bool                `json:"success"`
	Resources []*catalog.Resource `json:"resources"`
}

// messageResponse is the envelope for confirmations
type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// errorResponse is the envelope for failures
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// UploadResource creates a new resource from a multipart form
func (h *Handler) UploadResource(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "all fields are required")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.renderError(w, r, http.StatusBadRequest, "all fields are required")
		return
	}
	defer file.Close()

	resource, err := h.service.UploadResource(r.Context(), catalog.UploadResourceRequest{
		Title:      r.FormValue("title"),
		Level:      r.FormValue("level"),
		Department: r.FormValue("department"),
		Category:   r.FormValue("category"),
		FileType:   r.FormValue("file_type"),
		FileName:   header.Filename,
		File:       file,
	})
	if err != nil {
		h.logger.Error("upload failed", "error", err)
		h.renderServiceError(w, r, err)
		return
	}

	h.logger.Info("resource uploaded", "resource_id", resource.ID, "file_type", resource.FileType)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, resourceResponse{Success: true, Resource: resource})
}

// GetResource retrieves a single resource by ID
func (h *Handler) GetResource(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	resource, err := h.service.GetResource(r.Context(), id)
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}

	render.JSON(w, r, resourceResponse{Success: true, Resource: resource})
}

// UpdateResource patches a resource's metadata and optionally replaces its file
func (h *Handler) UpdateResource(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "invalid form payload")
		return
	}

	req := catalog.UpdateResourceRequest{
		ID:         id,
		Title:      r.FormValue("title"),
		Level:      r.FormValue("level"),
		Department: r.FormValue("department"),
		Category:   r.FormValue("category"),
		FileType:   r.FormValue("file_type"),
	}

	file, header, err := r.FormFile("file")
	if err == nil {
		defer file.Close()
		req.File = file
		req.FileName = header.Filename
	} else if !errors.Is(err, http.ErrMissingFile) {
		h.renderError(w, r, http.StatusBadRequest, "invalid file payload")
		return
	}

	resource, err := h.service.UpdateResource(r.Context(), req)
	if err != nil {
		h.logger.Error("update failed", "resource_id", id, "error", err)
		h.renderServiceError(w, r, err)
		return
	}

	h.logger.Info("resource updated", "resource_id", id)
	render.JSON(w, r, resourceResponse{Success: true, Resource: resource})
}

// DeleteResource removes a resource and its stored file
func (h *Handler) DeleteResource(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteResource(r.Context(), id); err != nil {
		h.logger.Error("delete failed", "resource_id", id, "error", err)
		h.renderServiceError(w, r, err)
		return
	}

	h.logger.Info("resource deleted", "resource_id", id)
	render.JSON(w, r, messageResponse{Success: true, Message: "resource deleted successfully"})
}

// ListResources serves the scoped listing; department and level are required
func (h *Handler) ListResources(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	resources, err := h.service.ListResources(r.Context(), catalog.ListResourcesRequest{
		Department: q.Get("department"),
		Level:      q.Get("level"),
		Category:   q.Get("category"),
		Page:       intParam(q.Get("page")),
		Limit:      intParam(q.Get("limit")),
	})
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}

	render.JSON(w, r, resourceListResponse{Success: true, Resources: resources})
}

// ListAllResources serves the admin listing; all filters are optional
func (h *Handler) ListAllResources(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	resources, err := h.service.ListAllResources(r.Context(), catalog.ListAllResourcesRequest{
		Department: q.Get("department"),
		Level:      q.Get("level"),
		Category:   q.Get("category"),
		FileType:   q.Get("file_type"),
		Title:      q.Get("title"),
		Page:       intParam(q.Get("page")),
		Limit:      intParam(q.Get("limit")),
	})
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}

	render.JSON(w, r, resourceListResponse{Success: true, Resources: resources})
}

// DownloadResource streams the resource's file as an attachment
func (h *Handler) DownloadResource(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.service.DownloadResource(r.Context(), id)
	if err != nil {
		h.logger.Error("download failed", "resource_id", id, "error", err)
		h.renderServiceError(w, r, err)
		return
	}
	defer result.Body.Close()

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+result.FileName+`"`)
	if _, err := io.Copy(w, result.Body); err != nil {
		h.logger.Warn("download stream interrupted", "resource_id", id, "error", err)
	}
}

// renderServiceError translates service error kinds to the response envelope.
func (h *Handler) renderServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, catalog.ErrValidation):
		h.renderError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, catalog.ErrMalformedID):
		h.renderError(w, r, http.StatusBadRequest, "invalid resource id")
	case errors.Is(err, catalog.ErrResourceNotFound):
		h.renderError(w, r, http.StatusNotFound, "resource not found")
	case errors.Is(err, catalog.ErrFetchFailed):
		h.renderError(w, r, http.StatusInternalServerError, "failed to download resource")
	case errors.Is(err, catalog.ErrUploadRejected), errors.Is(err, catalog.ErrStoreUnavailable):
		h.renderError(w, r, http.StatusInternalServerError, "file store error")
	default:
		h.renderError(w, r, http.StatusInternalServerError, "something went wrong")
	}
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Success: false, Error: message})
}

func intParam(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/LordSri/bragadeesh-portfolio/internal/gallery"
	"github.com/LordSri/bragadeesh-portfolio/internal/logging"
	"github.com/LordSri/bragadeesh-portfolio/internal/models"
)

// maxUploadBytes bounds a whole upload request, batches included
const maxUploadBytes = int64(100 * 1024 * 1024)

// MediaAPI handles HTTP API requests for gallery media items
type MediaAPI struct {
	gallerySvc *gallery.Service
	ratingAPI  *RatingAPI
	logger     *logging.Logger
}

// NewMediaAPI creates a new media API handler
func NewMediaAPI(gallerySvc *gallery.Service, ratingAPI *RatingAPI, logger *logging.Logger) *MediaAPI {
	return &MediaAPI{
		gallerySvc: gallerySvc,
		ratingAPI:  ratingAPI,
		logger:     logger,
	}
}

// RegisterRoutes registers media routes on the given mux
func (api *MediaAPI) RegisterRoutes(mux *http.ServeMux, corsMiddleware func(http.HandlerFunc) http.HandlerFunc) {
	mux.HandleFunc("/api/media", corsMiddleware(api.handleMedia))
	mux.HandleFunc("/api/media/upload", corsMiddleware(api.handleUpload))
	mux.HandleFunc("/api/media/", corsMiddleware(api.handleMediaItem))
}

// handleMedia handles the gallery list
func (api *MediaAPI) handleMedia(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	items, err := api.gallerySvc.List(r.Context())
	if err != nil {
		api.logger.Error("Media list failed", logging.WithField("error", err.Error()))
		api.writeError(w, http.StatusServiceUnavailable, "load_failed", "Unable to load the gallery right now")
		return
	}

	api.writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"count": len(items),
	})
}

// handleUpload handles multipart uploads, one or many files per request
func (api *MediaAPI) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		api.writeError(w, http.StatusBadRequest, "invalid_upload", "Invalid upload payload")
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		headers = r.MultipartForm.File["file"]
	}
	if len(headers) == 0 {
		api.writeError(w, http.StatusBadRequest, "missing_file", "At least one file is required")
		return
	}

	reqs := make([]gallery.UploadRequest, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			api.writeError(w, http.StatusBadRequest, "invalid_upload", "Failed to open uploaded file")
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			api.writeError(w, http.StatusBadRequest, "invalid_upload", "Failed to read uploaded file")
			return
		}

		req := gallery.UploadRequest{
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		}
		// Metadata fields apply to single-file uploads only; batches get
		// per-file defaults.
		if len(headers) == 1 {
			req.Title = strings.TrimSpace(r.FormValue("title"))
			req.Description = strings.TrimSpace(r.FormValue("description"))
			req.Award = strings.TrimSpace(r.FormValue("award"))
		}
		reqs = append(reqs, req)
	}

	items, failures := api.gallerySvc.BatchUpload(r.Context(), reqs)

	response := map[string]interface{}{
		"items": items,
	}
	if len(failures) > 0 {
		failed := make([]map[string]string, 0, len(failures))
		for _, f := range failures {
			failed = append(failed, map[string]string{
				"fileName": f.FileName,
				"error":    f.Err.Error(),
			})
		}
		response["failures"] = failed
	}

	status := http.StatusCreated
	if len(items) == 0 {
		status = http.StatusInternalServerError
	}
	api.writeJSON(w, status, response)
}

// handleMediaItem handles single item operations and the ratings sub-resource
func (api *MediaAPI) handleMediaItem(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/media/")
	parts := strings.Split(strings.TrimSuffix(path, "/"), "/")

	if len(parts) == 0 || parts[0] == "" {
		http.Error(w, "Media item ID required", http.StatusBadRequest)
		return
	}
	id := parts[0]

	if len(parts) > 1 {
		switch parts[1] {
		case "ratings":
			api.ratingAPI.handleItemRatings(w, r, id)
		default:
			http.Error(w, "Unknown resource", http.StatusNotFound)
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		api.getMediaItem(w, r, id)
	case http.MethodPatch:
		api.updateMediaItem(w, r, id)
	case http.MethodDelete:
		api.deleteMediaItem(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (api *MediaAPI) getMediaItem(w http.ResponseWriter, r *http.Request, id string) {
	item, err := api.gallerySvc.Get(r.Context(), id)
	if errors.Is(err, gallery.ErrNotFound) {
		api.writeError(w, http.StatusNotFound, "not_found", "Media item not found")
		return
	}
	if err != nil {
		api.logger.Error("Media get failed", logging.WithField("error", err.Error()))
		api.writeError(w, http.StatusInternalServerError, "get_failed", "Failed to load media item")
		return
	}

	api.writeJSON(w, http.StatusOK, item)
}

func (api *MediaAPI) updateMediaItem(w http.ResponseWriter, r *http.Request, id string) {
	var body struct {
		Title       *string             `json:"title"`
		Description *string             `json:"description"`
		Award       *string             `json:"award"`
		Exif        models.ExifData     `json:"exif"`
		BeforeAfter *models.BeforeAfter `json:"beforeAfter"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	item, err := api.gallerySvc.Update(r.Context(), models.UpdateMediaParams{
		ID:          id,
		Title:       body.Title,
		Description: body.Description,
		Award:       body.Award,
		Exif:        body.Exif,
		BeforeAfter: body.BeforeAfter,
	})
	if errors.Is(err, gallery.ErrNotFound) {
		api.writeError(w, http.StatusNotFound, "not_found", "Media item not found")
		return
	}
	if err != nil {
		api.logger.Error("Media update failed", logging.WithField("error", err.Error()))
		api.writeError(w, http.StatusInternalServerError, "update_failed", "Failed to update media item")
		return
	}

	api.writeJSON(w, http.StatusOK, item)
}

func (api *MediaAPI) deleteMediaItem(w http.ResponseWriter, r *http.Request, id string) {
	err := api.gallerySvc.Delete(r.Context(), id)
	if errors.Is(err, gallery.ErrNotFound) {
		api.writeError(w, http.StatusNotFound, "not_found", "Media item not found")
		return
	}
	if err != nil {
		api.logger.Error("Media delete failed", logging.WithField("error", err.Error()))
		api.writeError(w, http.StatusInternalServerError, "delete_failed", "Failed to delete media item")
		return
	}

	api.writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (api *MediaAPI) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (api *MediaAPI) writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   code,
		"message": message,
	})
}

package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/LordSri/bragadeesh-portfolio/internal/cdn"
	"github.com/LordSri/bragadeesh-portfolio/internal/logging"
)

// CDNAPI exposes the CDN upload/delete passthrough endpoints. The wire
// contracts predate this server: clients send multipart "file" or JSON
// {imageUrl, fileName} on upload and JSON {publicId} on delete, and expect
// {"error": message} with a non-2xx status on failure.
type CDNAPI struct {
	uploader cdn.Uploader
	logger   *logging.Logger
}

// NewCDNAPI creates a new CDN passthrough handler
func NewCDNAPI(uploader cdn.Uploader, logger *logging.Logger) *CDNAPI {
	return &CDNAPI{
		uploader: uploader,
		logger:   logger,
	}
}

// RegisterRoutes registers CDN routes on the given mux. These carry their own
// CORS headers to stay compatible with existing clients.
func (api *CDNAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/upload-to-cloudinary", api.withCORS(api.handleUpload))
	mux.HandleFunc("/api/delete-from-cloudinary", api.withCORS(api.handleDelete))
}

func (api *CDNAPI) withCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

func (api *CDNAPI) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		api.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		api.uploadFile(w, r)
		return
	}
	api.uploadFromURL(w, r)
}

// uploadFile re-hosts a file sent as multipart form data
func (api *CDNAPI) uploadFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		api.writeError(w, http.StatusBadRequest, "Invalid upload payload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		api.writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	result, err := api.uploader.Upload(r.Context(), header.Filename, file)
	if err != nil {
		api.logger.Error("CDN upload failed", logging.WithField("error", err.Error()))
		api.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	api.writeJSON(w, http.StatusOK, result)
}

// uploadFromURL re-hosts a file the CDN fetches from a source URL
func (api *CDNAPI) uploadFromURL(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		api.writeError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	var payload struct {
		ImageURL string `json:"imageUrl"`
		FileName string `json:"fileName"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.ImageURL == "" {
		api.writeError(w, http.StatusBadRequest, "imageUrl is required")
		return
	}

	result, err := api.uploader.UploadFromURL(r.Context(), payload.ImageURL, payload.FileName)
	if err != nil {
		api.logger.Error("CDN upload failed", logging.WithField("error", err.Error()))
		api.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	api.writeJSON(w, http.StatusOK, result)
}

func (api *CDNAPI) handleDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		api.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var payload struct {
		PublicID string `json:"publicId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.PublicID == "" {
		api.writeError(w, http.StatusBadRequest, "publicId is required")
		return
	}

	if err := api.uploader.Delete(r.Context(), payload.PublicID); err != nil {
		api.logger.Error("CDN delete failed",
			logging.WithField("publicId", payload.PublicID),
			logging.WithField("error", err.Error()))
		api.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	api.writeJSON(w, http.StatusOK, map[string]string{"result": "ok"})
}

func (api *CDNAPI) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (api *CDNAPI) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

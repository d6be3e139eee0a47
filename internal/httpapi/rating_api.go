package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/LordSri/bragadeesh-portfolio/internal/logging"
	"github.com/LordSri/bragadeesh-portfolio/internal/rater"
	"github.com/LordSri/bragadeesh-portfolio/internal/rating"
)

// RatingAPI handles the ratings sub-resource of media items
type RatingAPI struct {
	ratingSvc   *rating.Service
	raterIssuer *rater.Issuer
	logger      *logging.Logger
}

// NewRatingAPI creates a new rating API handler
func NewRatingAPI(ratingSvc *rating.Service, raterIssuer *rater.Issuer, logger *logging.Logger) *RatingAPI {
	return &RatingAPI{
		ratingSvc:   ratingSvc,
		raterIssuer: raterIssuer,
		logger:      logger,
	}
}

// handleItemRatings handles /api/media/{id}/ratings
func (api *RatingAPI) handleItemRatings(w http.ResponseWriter, r *http.Request, mediaItemID string) {
	switch r.Method {
	case http.MethodGet:
		api.getRatings(w, r, mediaItemID)
	case http.MethodPost:
		api.saveRating(w, r, mediaItemID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// getRatings returns the item's rating summary, plus the caller's own score
// when a valid rater token accompanies the request
func (api *RatingAPI) getRatings(w http.ResponseWriter, r *http.Request, mediaItemID string) {
	summary, err := api.ratingSvc.Summary(r.Context(), mediaItemID)
	if err != nil {
		api.logger.Error("Rating summary failed", logging.WithField("error", err.Error()))
		api.writeError(w, http.StatusInternalServerError, "summary_failed", "Failed to load ratings")
		return
	}

	response := map[string]interface{}{
		"average": summary.Average,
		"count":   summary.Count,
	}

	if raterID, ok := api.raterFromRequest(r); ok {
		own, err := api.ratingSvc.GetForRater(r.Context(), mediaItemID, raterID)
		if err != nil {
			api.logger.Error("Rater score lookup failed", logging.WithField("error", err.Error()))
		} else if own != nil {
			response["raterScore"] = own.Score
		}
	}

	api.writeJSON(w, http.StatusOK, response)
}

// saveRating records the caller's score. Requires a valid rater token.
func (api *RatingAPI) saveRating(w http.ResponseWriter, r *http.Request, mediaItemID string) {
	raterID, ok := api.raterFromRequest(r)
	if !ok {
		api.writeError(w, http.StatusUnauthorized, "invalid_token", "A valid rater token is required")
		return
	}

	var body struct {
		Score int `json:"score"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	saved, err := api.ratingSvc.Save(r.Context(), mediaItemID, raterID, body.Score)
	if errors.Is(err, rating.ErrInvalidScore) {
		api.writeError(w, http.StatusBadRequest, "invalid_score", err.Error())
		return
	}
	if errors.Is(err, rating.ErrRateLimited) {
		api.writeError(w, http.StatusTooManyRequests, "rate_limited", err.Error())
		return
	}
	if err != nil {
		api.logger.Error("Rating save failed", logging.WithField("error", err.Error()))
		api.writeError(w, http.StatusInternalServerError, "save_failed", "Failed to save rating")
		return
	}

	summary, err := api.ratingSvc.Summary(r.Context(), mediaItemID)
	if err != nil {
		api.logger.Error("Rating summary failed", logging.WithField("error", err.Error()))
		api.writeError(w, http.StatusInternalServerError, "summary_failed", "Failed to load ratings")
		return
	}

	api.writeJSON(w, http.StatusOK, map[string]interface{}{
		"score":   saved.Score,
		"average": summary.Average,
		"count":   summary.Count,
	})
}

// raterFromRequest verifies the bearer token and returns the rater identity
func (api *RatingAPI) raterFromRequest(r *http.Request) (string, bool) {
	if api.raterIssuer == nil {
		return "", false
	}
	header := r.Header.Get("Authorization")
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" || token == header {
		return "", false
	}
	raterID, err := api.raterIssuer.Verify(token)
	if err != nil {
		return "", false
	}
	return raterID, true
}

func (api *RatingAPI) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (api *RatingAPI) writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   code,
		"message": message,
	})
}

package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/LordSri/bragadeesh-portfolio/internal/logging"
	"github.com/LordSri/bragadeesh-portfolio/internal/rater"
)

// RaterAPI mints anonymous rater identities
type RaterAPI struct {
	issuer *rater.Issuer
	logger *logging.Logger
}

// NewRaterAPI creates a new rater API handler
func NewRaterAPI(issuer *rater.Issuer, logger *logging.Logger) *RaterAPI {
	return &RaterAPI{
		issuer: issuer,
		logger: logger,
	}
}

// RegisterRoutes registers rater routes on the given mux
func (api *RaterAPI) RegisterRoutes(mux *http.ServeMux, corsMiddleware func(http.HandlerFunc) http.HandlerFunc) {
	mux.HandleFunc("/api/rater", corsMiddleware(api.handleMint))
}

// handleMint issues a fresh identity token. The client stores it locally and
// presents it on rating calls.
func (api *RaterAPI) handleMint(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	raterID, token, err := api.issuer.Issue()
	if err != nil {
		api.logger.Error("Rater mint failed", logging.WithField("error", err.Error()))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{
			"error":   "mint_failed",
			"message": "Failed to issue rater identity",
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{
		"raterId": raterID,
		"token":   token,
	})
}

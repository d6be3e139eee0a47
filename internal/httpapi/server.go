package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/LordSri/bragadeesh-portfolio/internal/cdn"
	"github.com/LordSri/bragadeesh-portfolio/internal/gallery"
	"github.com/LordSri/bragadeesh-portfolio/internal/logging"
	"github.com/LordSri/bragadeesh-portfolio/internal/rater"
	"github.com/LordSri/bragadeesh-portfolio/internal/rating"
)

type Server struct {
	gallerySvc  *gallery.Service
	ratingSvc   *rating.Service
	raterIssuer *rater.Issuer
	cdnUploader cdn.Uploader
	logger      *logging.Logger
	server      *http.Server
}

func New(gallerySvc *gallery.Service, ratingSvc *rating.Service, raterIssuer *rater.Issuer, cdnUploader cdn.Uploader, logger *logging.Logger) *Server {
	return &Server{
		gallerySvc:  gallerySvc,
		ratingSvc:   ratingSvc,
		raterIssuer: raterIssuer,
		cdnUploader: cdnUploader,
		logger:      logger,
	}
}

func (s *Server) Start(addr string) error {
	mux := http.NewServeMux()

	// Rating routes, dispatched as a media sub-resource
	ratingAPI := NewRatingAPI(s.ratingSvc, s.raterIssuer, s.logger)

	// Media routes
	mediaAPI := NewMediaAPI(s.gallerySvc, ratingAPI, s.logger)
	mediaAPI.RegisterRoutes(mux, s.corsMiddleware)

	// Rater identity routes
	if s.raterIssuer != nil {
		raterAPI := NewRaterAPI(s.raterIssuer, s.logger)
		raterAPI.RegisterRoutes(mux, s.corsMiddleware)
	}

	// CDN passthrough routes for clients that upload directly
	if s.cdnUploader != nil {
		cdnAPI := NewCDNAPI(s.cdnUploader, s.logger)
		cdnAPI.RegisterRoutes(mux)
	}

	// Health check
	mux.HandleFunc("/health", s.handleHealth)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	s.logger.Info("HTTP API server starting", logging.WithField("addr", addr))
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

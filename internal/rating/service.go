// Package rating aggregates anonymous per-item scores. Each rater identity
// holds at most one score per item; resubmission overwrites.
package rating

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LordSri/bragadeesh-portfolio/internal/cache"
	"github.com/LordSri/bragadeesh-portfolio/internal/logging"
	"github.com/LordSri/bragadeesh-portfolio/internal/models"
	"github.com/LordSri/bragadeesh-portfolio/internal/ratelimit"
)

var (
	// ErrInvalidScore is returned for scores outside the 1..5 range.
	ErrInvalidScore = errors.New("score must be between 1 and 5")
	// ErrRateLimited is returned when a rater submits again too quickly.
	ErrRateLimited = errors.New("rating submitted too soon, try again shortly")
)

// Store defines the rating persistence used by the service
type Store interface {
	Upsert(ctx context.Context, mediaItemID, raterID string, score int) (*models.Rating, error)
	GetForRater(ctx context.Context, mediaItemID, raterID string) (*models.Rating, error)
	ListForItem(ctx context.Context, mediaItemID string) ([]int, error)
}

// Service handles rating business logic
type Service struct {
	store   Store
	cache   cache.Cache
	limiter *ratelimit.Limiter
	logger  *logging.Logger
}

// NewService creates a new rating service. minInterval throttles repeat
// submissions per rater; zero disables throttling.
func NewService(store Store, c cache.Cache, minInterval time.Duration, logger *logging.Logger) *Service {
	var limiter *ratelimit.Limiter
	if minInterval > 0 {
		limiter = ratelimit.New(minInterval)
	}
	return &Service{
		store:   store,
		cache:   c,
		limiter: limiter,
		logger:  logger,
	}
}

// Save records a rater's score for an item, overwriting any previous score
// from the same rater
func (s *Service) Save(ctx context.Context, mediaItemID, raterID string, score int) (*models.Rating, error) {
	if !models.IsValidScore(score) {
		return nil, ErrInvalidScore
	}
	if s.limiter != nil && !s.limiter.Allow(raterID) {
		return nil, ErrRateLimited
	}

	rating, err := s.store.Upsert(ctx, mediaItemID, raterID, score)
	if err != nil {
		// A failed write does not consume the rater's interval
		if s.limiter != nil {
			s.limiter.Reset(raterID)
		}
		return nil, fmt.Errorf("failed to save rating: %w", err)
	}

	s.cache.Delete(cache.RatingSummaryKey(mediaItemID))

	s.logger.Info("rating saved",
		logging.WithField("mediaItemId", mediaItemID),
		logging.WithField("score", score))
	return rating, nil
}

// Summary returns the item's average score (one decimal) and rating count,
// derived from all stored scores. Cached until the next save for the item.
func (s *Service) Summary(ctx context.Context, mediaItemID string) (models.RatingSummary, error) {
	key := cache.RatingSummaryKey(mediaItemID)
	var cached models.RatingSummary
	if s.cache.Get(key, &cached) {
		return cached, nil
	}

	scores, err := s.store.ListForItem(ctx, mediaItemID)
	if err != nil {
		return models.RatingSummary{}, fmt.Errorf("failed to load ratings: %w", err)
	}

	summary := models.SummarizeScores(scores)
	s.cache.Set(key, summary)
	return summary, nil
}

// GetForRater returns the caller's own score for an item, nil when unrated
func (s *Service) GetForRater(ctx context.Context, mediaItemID, raterID string) (*models.Rating, error) {
	rating, err := s.store.GetForRater(ctx, mediaItemID, raterID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}
	return rating, nil
}

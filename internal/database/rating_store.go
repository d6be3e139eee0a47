package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/LordSri/bragadeesh-portfolio/internal/models"
)

// RatingStore handles rating database operations
type RatingStore struct {
	db *DB
}

// NewRatingStore creates a new rating store
func NewRatingStore(db *DB) *RatingStore {
	return &RatingStore{db: db}
}

// Upsert stores a rater's score for an item. Resubmission by the same rater
// overwrites the previous score; the UNIQUE constraint enforces one row per
// (item, rater) pair.
func (s *RatingStore) Upsert(ctx context.Context, mediaItemID, raterID string, score int) (*models.Rating, error) {
	query := `
		INSERT INTO media_ratings (media_item_id, rater_id, score)
		VALUES ($1, $2, $3)
		ON CONFLICT (media_item_id, rater_id)
		DO UPDATE SET score = EXCLUDED.score, updated_at = NOW()
		RETURNING id, media_item_id, rater_id, score, created_at, updated_at
	`

	rating := &models.Rating{}
	err := s.db.QueryRowContext(ctx, query, mediaItemID, raterID, score).Scan(
		&rating.ID, &rating.MediaItemID, &rating.RaterID, &rating.Score,
		&rating.CreatedAt, &rating.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert rating: %w", err)
	}

	return rating, nil
}

// GetForRater retrieves one rater's score for an item, nil when unrated
func (s *RatingStore) GetForRater(ctx context.Context, mediaItemID, raterID string) (*models.Rating, error) {
	query := `
		SELECT id, media_item_id, rater_id, score, created_at, updated_at
		FROM media_ratings
		WHERE media_item_id = $1 AND rater_id = $2
	`

	rating := &models.Rating{}
	err := s.db.QueryRowContext(ctx, query, mediaItemID, raterID).Scan(
		&rating.ID, &rating.MediaItemID, &rating.RaterID, &rating.Score,
		&rating.CreatedAt, &rating.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}

	return rating, nil
}

// ListForItem fetches all scores for an item, for derived aggregates
func (s *RatingStore) ListForItem(ctx context.Context, mediaItemID string) ([]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT score FROM media_ratings WHERE media_item_id = $1 ORDER BY created_at
	`, mediaItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}
	defer rows.Close()

	scores := []int{}
	for rows.Next() {
		var score int
		if err := rows.Scan(&score); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		scores = append(scores, score)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ratings: %w", err)
	}

	return scores, nil
}

package models

import (
	"math"
	"time"
)

// Rating score bounds
const (
	MinScore = 1
	MaxScore = 5
)

// Rating associates one rater pseudo-identity with one score for one item.
// The (MediaItemID, RaterID) pair is unique; resubmission overwrites the score.
type Rating struct {
	ID          string    `json:"id"`
	MediaItemID string    `json:"mediaItemId"`
	RaterID     string    `json:"raterId"`
	Score       int       `json:"score"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// IsValidScore reports whether score is within the 1-5 range
func IsValidScore(score int) bool {
	return score >= MinScore && score <= MaxScore
}

// RatingSummary is derived from stored scores, never persisted
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// SummarizeScores computes the displayed average (one decimal) and count
func SummarizeScores(scores []int) RatingSummary {
	if len(scores) == 0 {
		return RatingSummary{}
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	avg := float64(sum) / float64(len(scores))
	return RatingSummary{
		Average: math.Round(avg*10) / 10,
		Count:   len(scores),
	}
}

package dto

import "time"

// SubmitRatingRequest user_id defaults to the caller. Score is range-checked by
// the rating service so an out-of-range value never reaches the ledger.
type SubmitRatingRequest struct {
	UserID  *int64 `json:"user_id"`
	StoreID int64  `json:"store_id" binding:"required,min=1"`
	Score   int    `json:"score"`
}

// RatingInfo one ledger row with the name of the rated store.
type RatingInfo struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	StoreID   int64     `json:"store_id"`
	StoreName string    `json:"store_name"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SubmitRatingResponse Created is false when an earlier rating was overwritten.
type SubmitRatingResponse struct {
	RatingInfo
	Created bool `json:"created"`
}

// UserSummary dashboard of a rating user.
type UserSummary struct {
	RatingCount  int64         `json:"rating_count"`
	AverageGiven float64       `json:"average_given"`
	TotalStores  int64         `json:"total_stores"`
	Recent       []*RatingInfo `json:"recent"`
}

package model

// Score bounds, inclusive.
const (
	MinScore = 1
	MaxScore = 5
)

// Rating is the single active score a user has given a store.
// (user_id, store_id) is unique; a resubmission overwrites Score and UpdatedAt.
type Rating struct {
	BaseModel

	UserID  int64 `gorm:"not null;uniqueIndex:idx_ratings_user_store,priority:1" json:"user_id"`
	StoreID int64 `gorm:"not null;uniqueIndex:idx_ratings_user_store,priority:2;index" json:"store_id"`
	Score   int   `gorm:"not null;check:chk_ratings_score,score >= 1 AND score <= 5" json:"score"`

	User  *User  `gorm:"foreignKey:UserID" json:"-"`
	Store *Store `gorm:"foreignKey:StoreID" json:"-"`
}

func (Rating) TableName() string {
	return "ratings"
}

// ValidScore reports whether s is inside [MinScore, MaxScore].
func ValidScore(s int) bool {
	return s >= MinScore && s <= MaxScore
}

// StoreAggregate is the derived rating summary of one store.
type StoreAggregate struct {
	StoreID int64   `json:"store_id"`
	Average float64 `json:"average"`
	Count   int64   `json:"rating_count"`
}

// PlatformStats holds platform-wide cardinalities.
type PlatformStats struct {
	TotalUsers   int64 `json:"total_users"`
	TotalStores  int64 `json:"total_stores"`
	TotalRatings int64 `json:"total_ratings"`
}

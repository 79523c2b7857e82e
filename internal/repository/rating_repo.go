package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"store_rating/internal/model"
)

// ==================== RatingRepository ====================

// RatingRepository is the rating ledger plus its read-side aggregates.
type RatingRepository interface {
	// Upsert inserts the rating or, when (user_id, store_id) already exists,
	// overwrites score and updated_at in the same statement. The stored row is
	// returned with Store loaded.
	Upsert(ctx context.Context, rating *model.Rating) (*model.Rating, error)
	GetByUserAndStore(ctx context.Context, userID, storeID int64) (*model.Rating, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]model.Rating, error)
	ListByStore(ctx context.Context, storeID int64) ([]model.Rating, error)
	ScoresByUser(ctx context.Context, userID int64, storeIDs []int64) (map[int64]int, error)
	StoreAggregate(ctx context.Context, storeID int64) (model.StoreAggregate, error)
	AggregateByStores(ctx context.Context, storeIDs []int64) (map[int64]model.StoreAggregate, error)
	UserAggregate(ctx context.Context, userID int64) (average float64, count int64, err error)
	Count(ctx context.Context) (int64, error)
}

// ==================== implementation ====================

type ratingRepository struct {
	db *gorm.DB
}

// NewRatingRepository creates a gorm backed RatingRepository.
func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) Upsert(ctx context.Context, rating *model.Rating) (*model.Rating, error) {
	db := r.db.WithContext(ctx)

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "store_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "updated_at"}),
	}).Omit(clause.Associations).Create(rating).Error
	if err != nil {
		return nil, err
	}

	var stored model.Rating
	err = db.Preload("Store").
		Where("user_id = ? AND store_id = ?", rating.UserID, rating.StoreID).
		First(&stored).Error
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// GetByUserAndStore returns (nil, nil) when the user has not rated the store.
func (r *ratingRepository) GetByUserAndStore(ctx context.Context, userID, storeID int64) (*model.Rating, error) {
	var rating model.Rating
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND store_id = ?", userID, storeID).
		First(&rating).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// ListByUser returns the user's ratings, most recently updated first.
// limit <= 0 means no limit.
func (r *ratingRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]model.Rating, error) {
	query := r.db.WithContext(ctx).
		Preload("Store").
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var ratings []model.Rating
	err := query.Find(&ratings).Error
	return ratings, err
}

// ListByStore returns the ratings of a store with their authors, most recent first.
func (r *ratingRepository) ListByStore(ctx context.Context, storeID int64) ([]model.Rating, error) {
	var ratings []model.Rating
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("store_id = ?", storeID).
		Order("updated_at DESC").
		Order("id DESC").
		Find(&ratings).Error
	return ratings, err
}

// ScoresByUser maps store id to the user's score for the given stores.
func (r *ratingRepository) ScoresByUser(ctx context.Context, userID int64, storeIDs []int64) (map[int64]int, error) {
	out := make(map[int64]int, len(storeIDs))
	if len(storeIDs) == 0 {
		return out, nil
	}

	var ratings []model.Rating
	err := r.db.WithContext(ctx).
		Select("store_id", "score").
		Where("user_id = ? AND store_id IN ?", userID, storeIDs).
		Find(&ratings).Error
	if err != nil {
		return nil, err
	}
	for _, rt := range ratings {
		out[rt.StoreID] = rt.Score
	}
	return out, nil
}

type aggregateRow struct {
	StoreID     int64
	Average     float64
	RatingCount int64
}

// StoreAggregate computes the average score of a store, 0 when unrated.
func (r *ratingRepository) StoreAggregate(ctx context.Context, storeID int64) (model.StoreAggregate, error) {
	var row aggregateRow
	err := r.db.WithContext(ctx).
		Model(&model.Rating{}).
		Select("COALESCE(AVG(score), 0) AS average, COUNT(*) AS rating_count").
		Where("store_id = ?", storeID).
		Scan(&row).Error
	if err != nil {
		return model.StoreAggregate{}, err
	}
	return model.StoreAggregate{StoreID: storeID, Average: row.Average, Count: row.RatingCount}, nil
}

// AggregateByStores computes averages for several stores in one query.
// Stores without ratings are present with zero values.
func (r *ratingRepository) AggregateByStores(ctx context.Context, storeIDs []int64) (map[int64]model.StoreAggregate, error) {
	out := make(map[int64]model.StoreAggregate, len(storeIDs))
	for _, id := range storeIDs {
		out[id] = model.StoreAggregate{StoreID: id}
	}
	if len(storeIDs) == 0 {
		return out, nil
	}

	var rows []aggregateRow
	err := r.db.WithContext(ctx).
		Model(&model.Rating{}).
		Select("store_id, AVG(score) AS average, COUNT(*) AS rating_count").
		Where("store_id IN ?", storeIDs).
		Group("store_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.StoreID] = model.StoreAggregate{StoreID: row.StoreID, Average: row.Average, Count: row.RatingCount}
	}
	return out, nil
}

// UserAggregate returns the mean of the scores a user has given, 0 when none.
func (r *ratingRepository) UserAggregate(ctx context.Context, userID int64) (float64, int64, error) {
	var row aggregateRow
	err := r.db.WithContext(ctx).
		Model(&model.Rating{}).
		Select("COALESCE(AVG(score), 0) AS average, COUNT(*) AS rating_count").
		Where("user_id = ?", userID).
		Scan(&row).Error
	return row.Average, row.RatingCount, err
}

func (r *ratingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Rating{}).Count(&count).Error
	return count, err
}

package service

import (
	"context"

	"store_rating/internal/api/dto"
	"store_rating/internal/model"
	"store_rating/internal/policy"
	"store_rating/internal/repository"
)

// recentRatings is the size of the "latest activity" list in UserSummary.
const recentRatings = 5

// ==================== StatsService ====================

// StatsService derives every aggregate from the ledger on read. Nothing is cached.
type StatsService struct {
	userRepo   repository.UserRepository
	storeRepo  repository.StoreRepository
	ratingRepo repository.RatingRepository
}

func NewStatsService(
	userRepo repository.UserRepository,
	storeRepo repository.StoreRepository,
	ratingRepo repository.RatingRepository,
) *StatsService {
	return &StatsService{
		userRepo:   userRepo,
		storeRepo:  storeRepo,
		ratingRepo: ratingRepo,
	}
}

// PlatformStats counts users, stores and ratings.
func (s *StatsService) PlatformStats(ctx context.Context) (*model.PlatformStats, error) {
	users, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	stores, err := s.storeRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	ratings, err := s.ratingRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &model.PlatformStats{
		TotalUsers:   users,
		TotalStores:  stores,
		TotalRatings: ratings,
	}, nil
}

// StoreAverage is 0 with rating_count 0 for a store nobody rated.
func (s *StatsService) StoreAverage(ctx context.Context, storeID int64) (*model.StoreAggregate, error) {
	store, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, ErrStoreNotFound
	}

	agg, err := s.ratingRepo.StoreAggregate(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return &agg, nil
}

// UserRatingHistory lists the ratings a user has given, most recently updated
// first. The policy runs before the existence check so a non-admin cannot
// probe for account ids.
func (s *StatsService) UserRatingHistory(ctx context.Context, p policy.Principal, userID int64) ([]*dto.RatingInfo, error) {
	if !policy.AuthorizeOwned(p, policy.ActionViewOwnRatings, &userID) {
		return nil, ErrNotAllowed
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	ratings, err := s.ratingRepo.ListByUser(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	return toRatingInfos(ratings), nil
}

// Summary is the dashboard of the calling user.
func (s *StatsService) Summary(ctx context.Context, p policy.Principal) (*dto.UserSummary, error) {
	if !policy.AuthorizeOwned(p, policy.ActionViewOwnRatings, &p.UserID) {
		return nil, ErrNotAllowed
	}

	avg, count, err := s.ratingRepo.UserAggregate(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	stores, err := s.storeRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.ratingRepo.ListByUser(ctx, p.UserID, recentRatings)
	if err != nil {
		return nil, err
	}

	return &dto.UserSummary{
		RatingCount:  count,
		AverageGiven: avg,
		TotalStores:  stores,
		Recent:       toRatingInfos(recent),
	}, nil
}

func toRatingInfos(ratings []model.Rating) []*dto.RatingInfo {
	list := make([]*dto.RatingInfo, len(ratings))
	for i := range ratings {
		list[i] = ToRatingInfo(&ratings[i])
	}
	return list
}

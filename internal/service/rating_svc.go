package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"store_rating/internal/api/dto"
	"store_rating/internal/metrics"
	"store_rating/internal/model"
	"store_rating/internal/policy"
	"store_rating/internal/repository"
)

// Outcome labels of metrics.RatingSubmissions.
const (
	outcomeCreated  = "created"
	outcomeUpdated  = "updated"
	outcomeRejected = "rejected"
)

// ==================== RatingService ====================

// RatingService writes the rating ledger.
type RatingService struct {
	userRepo   repository.UserRepository
	storeRepo  repository.StoreRepository
	ratingRepo repository.RatingRepository
	log        *zap.Logger
	now        func() time.Time
}

func NewRatingService(
	userRepo repository.UserRepository,
	storeRepo repository.StoreRepository,
	ratingRepo repository.RatingRepository,
	log *zap.Logger,
) *RatingService {
	return &RatingService{
		userRepo:   userRepo,
		storeRepo:  storeRepo,
		ratingRepo: ratingRepo,
		log:        log,
		now:        time.Now,
	}
}

// SubmitRating records score for (user, store), replacing any earlier score of
// the same user for the same store. user_id defaults to the caller.
//
// The write is a single insert-or-update keyed on the (user_id, store_id)
// unique index, so concurrent submissions for one pair converge on one row.
func (s *RatingService) SubmitRating(ctx context.Context, p policy.Principal, req *dto.SubmitRatingRequest) (*dto.SubmitRatingResponse, error) {
	if !model.ValidScore(req.Score) {
		metrics.RatingSubmissions.WithLabelValues(outcomeRejected).Inc()
		return nil, ErrInvalidScore
	}

	userID := p.UserID
	if req.UserID != nil {
		userID = *req.UserID
	}
	if !policy.AuthorizeOwned(p, policy.ActionSubmitRating, &userID) {
		metrics.RatingSubmissions.WithLabelValues(outcomeRejected).Inc()
		metrics.PolicyDenials.WithLabelValues(string(p.Role), string(policy.ActionSubmitRating)).Inc()
		return nil, ErrNotAllowed
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		metrics.RatingSubmissions.WithLabelValues(outcomeRejected).Inc()
		return nil, ErrUserNotFound
	}
	// the token role may predate a role change
	if user.Role != policy.RoleUser {
		metrics.RatingSubmissions.WithLabelValues(outcomeRejected).Inc()
		metrics.PolicyDenials.WithLabelValues(string(user.Role), string(policy.ActionSubmitRating)).Inc()
		return nil, ErrNotAllowed
	}

	store, err := s.storeRepo.GetByID(ctx, req.StoreID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		metrics.RatingSubmissions.WithLabelValues(outcomeRejected).Inc()
		return nil, ErrStoreNotFound
	}

	now := s.now()
	rating := &model.Rating{
		UserID:  userID,
		StoreID: store.ID,
		Score:   req.Score,
	}
	rating.CreatedAt = now
	rating.UpdatedAt = now

	stored, err := s.ratingRepo.Upsert(ctx, rating)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			s.log.Warn("rating upsert hit unique violation",
				zap.Int64("user_id", userID), zap.Int64("store_id", store.ID))
			return nil, ErrRatingConflict
		}
		return nil, err
	}

	created := stored.CreatedAt.Equal(stored.UpdatedAt)
	outcome := outcomeUpdated
	if created {
		outcome = outcomeCreated
	}
	metrics.RatingSubmissions.WithLabelValues(outcome).Inc()

	s.log.Info("rating upserted",
		zap.Int64("rating_id", stored.ID),
		zap.Int64("user_id", userID),
		zap.Int64("store_id", store.ID),
		zap.Int("score", stored.Score),
		zap.String("outcome", outcome),
	)

	return &dto.SubmitRatingResponse{
		RatingInfo: *ToRatingInfo(stored),
		Created:    created,
	}, nil
}

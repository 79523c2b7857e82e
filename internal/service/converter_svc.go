package service

import (
	"strings"

	"store_rating/internal/api/dto"
	"store_rating/internal/model"
)

func ToUserInfo(u *model.User) *dto.UserInfo {
	return &dto.UserInfo{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Address:   u.Address,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// ToStoreInfo merges a store row with its aggregate. myScore 0 means "not rated".
func ToStoreInfo(s *model.Store, agg model.StoreAggregate, myScore int) *dto.StoreInfo {
	info := &dto.StoreInfo{
		ID:          s.ID,
		Name:        s.Name,
		Address:     s.Address,
		OwnerID:     s.OwnerID,
		Average:     agg.Average,
		RatingCount: agg.Count,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
	if myScore > 0 {
		score := myScore
		info.MyRating = &score
	}
	return info
}

// ToRatingInfo expects Store to be preloaded; a missing store leaves StoreName empty.
func ToRatingInfo(r *model.Rating) *dto.RatingInfo {
	info := &dto.RatingInfo{
		ID:        r.ID,
		UserID:    r.UserID,
		StoreID:   r.StoreID,
		Score:     r.Score,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.Store != nil {
		info.StoreName = r.Store.Name
	}
	return info
}

func ToRaterInfo(r *model.Rating) *dto.RaterInfo {
	info := &dto.RaterInfo{
		UserID:    r.UserID,
		Score:     r.Score,
		UpdatedAt: r.UpdatedAt,
	}
	if r.User != nil {
		info.Name = r.User.Name
		info.Email = r.User.Email
	}
	return info
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

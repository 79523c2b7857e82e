package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"store_rating/internal/api/dto"
	"store_rating/internal/model"
	"store_rating/internal/policy"
	"store_rating/internal/repository"
)

// ==================== UserService ====================

// UserService is the admin side of account management. Callers are gated on
// manage_users by the router.
type UserService struct {
	userRepo   repository.UserRepository
	storeRepo  repository.StoreRepository
	ratingRepo repository.RatingRepository
	log        *zap.Logger
}

func NewUserService(
	userRepo repository.UserRepository,
	storeRepo repository.StoreRepository,
	ratingRepo repository.RatingRepository,
	log *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		storeRepo:  storeRepo,
		ratingRepo: ratingRepo,
		log:        log,
	}
}

// CreateUser creates an account of any role.
func (s *UserService) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserInfo, error) {
	role := policy.Role(req.Role)
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	email := normalizeEmail(req.Email)
	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	hashed, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:     req.Name,
		Email:    email,
		Password: hashed,
		Address:  req.Address,
		Role:     role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	s.log.Info("user created", zap.Int64("user_id", user.ID), zap.String("role", string(role)))
	return ToUserInfo(user), nil
}

// UpdateUser changes name, address and role. Email is immutable.
func (s *UserService) UpdateUser(ctx context.Context, userID int64, req *dto.UpdateUserRequest) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if req.Role != "" {
		role := policy.Role(req.Role)
		if !role.Valid() {
			return nil, ErrInvalidRole
		}
		user.Role = role
	}
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Address != nil {
		user.Address = *req.Address
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return ToUserInfo(user), nil
}

// ResetPassword sets a new password without knowing the old one.
func (s *UserService) ResetPassword(ctx context.Context, userID int64, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	hashed, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(ctx, userID, hashed)
}

func (s *UserService) ListUsers(ctx context.Context, req *dto.UserListRequest) (*dto.UserListResponse, error) {
	users, total, err := s.userRepo.List(ctx, repository.UserFilter{
		Name:      req.Name,
		Email:     req.Email,
		Address:   req.Address,
		Role:      policy.Role(req.Role),
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
		Page:      req.Page,
		PageSize:  req.PageSize,
	})
	if err != nil {
		return nil, err
	}

	list := make([]*dto.UserInfo, len(users))
	for i := range users {
		list[i] = ToUserInfo(&users[i])
	}

	return &dto.UserListResponse{
		List:     list,
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}

// GetUser returns one account. Store owners include their stores and the
// rating-weighted average across them.
func (s *UserService) GetUser(ctx context.Context, userID int64) (*dto.UserDetail, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	detail := &dto.UserDetail{UserInfo: *ToUserInfo(user)}
	if user.Role != policy.RoleStoreOwner {
		return detail, nil
	}

	stores, err := s.storeRepo.ListByOwner(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	ids := storeIDs(stores)
	aggs, err := s.ratingRepo.AggregateByStores(ctx, ids)
	if err != nil {
		return nil, err
	}

	var sum float64
	var count int64
	detail.Stores = make([]*dto.StoreInfo, len(stores))
	for i := range stores {
		agg := aggs[stores[i].ID]
		detail.Stores[i] = ToStoreInfo(&stores[i], agg, 0)
		sum += agg.Average * float64(agg.Count)
		count += agg.Count
	}

	avg := 0.0
	if count > 0 {
		avg = sum / float64(count)
	}
	detail.StoreAverage = &avg
	return detail, nil
}

func storeIDs(stores []model.Store) []int64 {
	ids := make([]int64, len(stores))
	for i, st := range stores {
		ids[i] = st.ID
	}
	return ids
}

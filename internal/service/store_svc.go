package service

import (
	"context"

	"go.uber.org/zap"

	"store_rating/internal/api/dto"
	"store_rating/internal/model"
	"store_rating/internal/policy"
	"store_rating/internal/repository"
)

// ==================== StoreService ====================

// StoreService manages stores and serves the store-centric read views.
type StoreService struct {
	storeRepo  repository.StoreRepository
	userRepo   repository.UserRepository
	ratingRepo repository.RatingRepository
	log        *zap.Logger
}

func NewStoreService(
	storeRepo repository.StoreRepository,
	userRepo repository.UserRepository,
	ratingRepo repository.RatingRepository,
	log *zap.Logger,
) *StoreService {
	return &StoreService{
		storeRepo:  storeRepo,
		userRepo:   userRepo,
		ratingRepo: ratingRepo,
		log:        log,
	}
}

// checkOwner accepts nil or an id that refers to a store_owner account.
func (s *StoreService) checkOwner(ctx context.Context, ownerID *int64) error {
	if ownerID == nil {
		return nil
	}
	owner, err := s.userRepo.GetByID(ctx, *ownerID)
	if err != nil {
		return err
	}
	if owner == nil || owner.Role != policy.RoleStoreOwner {
		return ErrInvalidOwner
	}
	return nil
}

// ==================== admin management ====================

func (s *StoreService) CreateStore(ctx context.Context, req *dto.CreateStoreRequest) (*dto.StoreInfo, error) {
	if err := s.checkOwner(ctx, req.OwnerID); err != nil {
		return nil, err
	}

	store := &model.Store{
		Name:    req.Name,
		Address: req.Address,
		OwnerID: req.OwnerID,
	}
	if err := s.storeRepo.Create(ctx, store); err != nil {
		return nil, err
	}

	s.log.Info("store created", zap.Int64("store_id", store.ID))
	return ToStoreInfo(store, model.StoreAggregate{StoreID: store.ID}, 0), nil
}

// UpdateStore changes name, address and owner. owner_id 0 detaches the owner.
func (s *StoreService) UpdateStore(ctx context.Context, storeID int64, req *dto.UpdateStoreRequest) (*dto.StoreInfo, error) {
	store, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, ErrStoreNotFound
	}

	if req.OwnerID != nil {
		if *req.OwnerID == 0 {
			store.OwnerID = nil
		} else {
			if err := s.checkOwner(ctx, req.OwnerID); err != nil {
				return nil, err
			}
			ownerID := *req.OwnerID
			store.OwnerID = &ownerID
		}
	}
	if req.Name != "" {
		store.Name = req.Name
	}
	if req.Address != nil {
		store.Address = *req.Address
	}

	if err := s.storeRepo.Update(ctx, store); err != nil {
		return nil, err
	}

	agg, err := s.ratingRepo.StoreAggregate(ctx, store.ID)
	if err != nil {
		return nil, err
	}
	return ToStoreInfo(store, agg, 0), nil
}

// ==================== browsing ====================

// ListStores pages through stores; each row carries its average, rating count
// and the caller's own score.
func (s *StoreService) ListStores(ctx context.Context, p policy.Principal, req *dto.StoreListRequest) (*dto.StoreListResponse, error) {
	stores, total, err := s.storeRepo.List(ctx, repository.StoreFilter{
		Search:    req.Search,
		Name:      req.Name,
		Address:   req.Address,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
		Page:      req.Page,
		PageSize:  req.PageSize,
	})
	if err != nil {
		return nil, err
	}

	list, err := s.decorate(ctx, p, stores)
	if err != nil {
		return nil, err
	}

	return &dto.StoreListResponse{
		List:     list,
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}

func (s *StoreService) GetStore(ctx context.Context, p policy.Principal, storeID int64) (*dto.StoreInfo, error) {
	store, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, ErrStoreNotFound
	}

	list, err := s.decorate(ctx, p, []model.Store{*store})
	if err != nil {
		return nil, err
	}
	return list[0], nil
}

// decorate attaches aggregates and the caller's scores with two batched queries.
func (s *StoreService) decorate(ctx context.Context, p policy.Principal, stores []model.Store) ([]*dto.StoreInfo, error) {
	ids := storeIDs(stores)

	aggs, err := s.ratingRepo.AggregateByStores(ctx, ids)
	if err != nil {
		return nil, err
	}

	mine := map[int64]int{}
	if p.UserID > 0 {
		mine, err = s.ratingRepo.ScoresByUser(ctx, p.UserID, ids)
		if err != nil {
			return nil, err
		}
	}

	list := make([]*dto.StoreInfo, len(stores))
	for i := range stores {
		list[i] = ToStoreInfo(&stores[i], aggs[stores[i].ID], mine[stores[i].ID])
	}
	return list, nil
}

// ==================== owner dashboard ====================

// OwnedStores lists the caller's stores with their averages.
func (s *StoreService) OwnedStores(ctx context.Context, p policy.Principal) ([]*dto.StoreInfo, error) {
	if !policy.AuthorizeOwned(p, policy.ActionViewOwnedStoreRatings, &p.UserID) {
		return nil, ErrNotAllowed
	}

	stores, err := s.storeRepo.ListByOwner(ctx, p.UserID)
	if err != nil {
		return nil, err
	}

	aggs, err := s.ratingRepo.AggregateByStores(ctx, storeIDs(stores))
	if err != nil {
		return nil, err
	}

	list := make([]*dto.StoreInfo, len(stores))
	for i := range stores {
		list[i] = ToStoreInfo(&stores[i], aggs[stores[i].ID], 0)
	}
	return list, nil
}

// StoreRatings returns a store's average and its raters. The policy is checked
// before existence is revealed: a store owner gets ErrNotAllowed both for a
// store they do not own and for a store that does not exist.
func (s *StoreService) StoreRatings(ctx context.Context, p policy.Principal, storeID int64) (*dto.StoreRatingsResponse, error) {
	store, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}

	var ownerID *int64
	if store != nil {
		ownerID = store.OwnerID
	}
	if !policy.AuthorizeOwned(p, policy.ActionViewOwnedStoreRatings, ownerID) {
		return nil, ErrNotAllowed
	}
	if store == nil {
		return nil, ErrStoreNotFound
	}

	ratings, err := s.ratingRepo.ListByStore(ctx, store.ID)
	if err != nil {
		return nil, err
	}
	agg, err := s.ratingRepo.StoreAggregate(ctx, store.ID)
	if err != nil {
		return nil, err
	}

	raters := make([]*dto.RaterInfo, len(ratings))
	for i := range ratings {
		raters[i] = ToRaterInfo(&ratings[i])
	}

	return &dto.StoreRatingsResponse{
		Store:  ToStoreInfo(store, agg, 0),
		Raters: raters,
	}, nil
}

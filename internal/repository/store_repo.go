package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"store_rating/internal/model"
)

// ==================== StoreRepository ====================

// StoreRepository persists stores.
type StoreRepository interface {
	Create(ctx context.Context, store *model.Store) error
	GetByID(ctx context.Context, id int64) (*model.Store, error)
	Update(ctx context.Context, store *model.Store) error
	List(ctx context.Context, filter StoreFilter) ([]model.Store, int64, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Store, error)
	Count(ctx context.Context) (int64, error)
}

// StoreFilter listing filter. Search matches name or address.
type StoreFilter struct {
	Search    string
	Name      string
	Address   string
	SortBy    string
	SortOrder string
	Page      int
	PageSize  int
}

var storeSortColumns = map[string]string{
	"id":         "id",
	"name":       "name",
	"address":    "address",
	"created_at": "created_at",
}

// ==================== implementation ====================

type storeRepository struct {
	db *gorm.DB
}

// NewStoreRepository creates a gorm backed StoreRepository.
func NewStoreRepository(db *gorm.DB) StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) Create(ctx context.Context, store *model.Store) error {
	return r.db.WithContext(ctx).Create(store).Error
}

// GetByID returns (nil, nil) when no store has that id.
func (r *storeRepository) GetByID(ctx context.Context, id int64) (*model.Store, error) {
	var store model.Store
	err := r.db.WithContext(ctx).First(&store, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepository) Update(ctx context.Context, store *model.Store) error {
	return r.db.WithContext(ctx).
		Model(store).
		Select("name", "address", "owner_id", "updated_at", "updated_by").
		Updates(store).Error
}

func (r *storeRepository) List(ctx context.Context, filter StoreFilter) ([]model.Store, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Store{})

	if filter.Search != "" {
		kw := "%" + filter.Search + "%"
		query = query.Where("LOWER(name) LIKE LOWER(?) OR LOWER(address) LIKE LOWER(?)", kw, kw)
	}
	if filter.Name != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Name+"%")
	}
	if filter.Address != "" {
		query = query.Where("LOWER(address) LIKE LOWER(?)", "%"+filter.Address+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, size := normalizePage(filter.Page, filter.PageSize)

	var stores []model.Store
	err := query.
		Order(orderClause(storeSortColumns, filter.SortBy, filter.SortOrder)).
		Offset((page - 1) * size).
		Limit(size).
		Find(&stores).Error

	return stores, total, err
}

func (r *storeRepository) ListByOwner(ctx context.Context, ownerID int64) ([]model.Store, error) {
	var stores []model.Store
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id ASC").
		Find(&stores).Error
	return stores, err
}

func (r *storeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Store{}).Count(&count).Error
	return count, err
}

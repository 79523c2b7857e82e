package dto

import "time"

// ==================== store info ====================

// StoreInfo a store with its derived rating summary. MyRating is the caller's
// own score, absent when the caller has not rated the store.
type StoreInfo struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	OwnerID     *int64    `json:"owner_id"`
	Average     float64   `json:"average"`
	RatingCount int64     `json:"rating_count"`
	MyRating    *int      `json:"my_rating,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ==================== admin management ====================

type CreateStoreRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=100"`
	Address string `json:"address" binding:"required,max=400"`
	OwnerID *int64 `json:"owner_id" binding:"omitempty,min=1"`
}

// UpdateStoreRequest empty fields are left unchanged. owner_id 0 detaches the owner.
type UpdateStoreRequest struct {
	Name    string  `json:"name" binding:"omitempty,min=1,max=100"`
	Address *string `json:"address" binding:"omitempty,max=400"`
	OwnerID *int64  `json:"owner_id" binding:"omitempty,min=0"`
}

// ==================== store list ====================

// StoreListRequest search matches name or address.
type StoreListRequest struct {
	Search    string `form:"search"`
	Name      string `form:"name"`
	Address   string `form:"address"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order" binding:"omitempty,oneof=asc desc ASC DESC"`
	Page      int    `form:"page,default=1" binding:"min=1"`
	PageSize  int    `form:"page_size,default=20" binding:"min=1,max=100"`
}

type StoreListResponse struct {
	List     []*StoreInfo `json:"list"`
	Total    int64        `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
}

// ==================== owner dashboard ====================

// RaterInfo one rating on an owned store, with its author.
type RaterInfo struct {
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Score     int       `json:"score"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StoreRatingsResponse a store, its average and everyone who rated it.
type StoreRatingsResponse struct {
	Store  *StoreInfo   `json:"store"`
	Raters []*RaterInfo `json:"raters"`
}

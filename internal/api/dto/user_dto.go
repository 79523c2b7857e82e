package dto

import "time"

// ==================== user info ====================

// UserInfo public view of an account. The password hash never leaves the service.
type UserInfo struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserDetail admin view of one account. Store owners carry their stores and
// the average over all ratings those stores received.
type UserDetail struct {
	UserInfo
	StoreAverage *float64     `json:"store_average,omitempty"`
	Stores       []*StoreInfo `json:"stores,omitempty"`
}

// ==================== admin management ====================

// CreateUserRequest admin creates an account of any role.
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required,min=3,max=60"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,password"`
	Address  string `json:"address" binding:"max=400"`
	Role     string `json:"role" binding:"required,role"`
}

// UpdateUserRequest empty fields are left unchanged. Email is immutable.
type UpdateUserRequest struct {
	Name    string  `json:"name" binding:"omitempty,min=3,max=60"`
	Address *string `json:"address" binding:"omitempty,max=400"`
	Role    string  `json:"role" binding:"omitempty,role"`
}

// ResetPasswordRequest admin sets a new password for an account.
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,password"`
}

// ==================== user list ====================

// UserListRequest filters match as case-insensitive substrings, role exactly.
type UserListRequest struct {
	Name      string `form:"name"`
	Email     string `form:"email"`
	Address   string `form:"address"`
	Role      string `form:"role" binding:"omitempty,role"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order" binding:"omitempty,oneof=asc desc ASC DESC"`
	Page      int    `form:"page,default=1" binding:"min=1"`
	PageSize  int    `form:"page_size,default=20" binding:"min=1,max=100"`
}

type UserListResponse struct {
	List     []*UserInfo `json:"list"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

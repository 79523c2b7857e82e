package dto

import "time"

// ==================== register / login ====================

// RegisterRequest self sign-up. The role is always "user".
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=3,max=60"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,password"`
	Address  string `json:"address" binding:"max=400"`
}

// LoginRequest email + password login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse token pair plus the logged-in account.
type LoginResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         *UserInfo `json:"user"`
}

// ==================== token refresh ====================

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type RefreshTokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// ==================== profile ====================

// UpdateProfileRequest fields a user may change on their own account.
type UpdateProfileRequest struct {
	Name    string `json:"name" binding:"required,min=3,max=60"`
	Address string `json:"address" binding:"max=400"`
}

// ChangePasswordRequest self service password change.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,password"`
}

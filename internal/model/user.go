package model

import "store_rating/internal/policy"

// User is an account of any role. Email is the login identity and never changes.
type User struct {
	BaseModel
	AuditMixin

	Name     string      `gorm:"size:60;not null" json:"name"`
	Email    string      `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password string      `gorm:"size:255;not null" json:"-"`
	Address  string      `gorm:"size:400" json:"address"`
	Role     policy.Role `gorm:"size:20;index;not null;default:'user'" json:"role"`
}

func (User) TableName() string {
	return "users"
}

package model

import "time"

// BaseModel is embedded by every persisted entity.
type BaseModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuditMixin records which account created or last changed a row.
// Filled by the gorm callbacks in middleware.RegisterAuditCallbacks.
type AuditMixin struct {
	CreatedBy int64 `gorm:"index" json:"created_by,omitempty"`
	UpdatedBy int64 `gorm:"index" json:"updated_by,omitempty"`
}

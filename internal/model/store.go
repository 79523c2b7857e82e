package model

// Store is created by an admin and optionally owned by a store_owner account.
// OwnerID is a weak reference: nothing cascades from the owner.
type Store struct {
	BaseModel
	AuditMixin

	Name    string `gorm:"size:100;index;not null" json:"name"`
	Address string `gorm:"size:400" json:"address"`
	OwnerID *int64 `gorm:"index" json:"owner_id"`
	Owner   *User  `gorm:"foreignKey:OwnerID" json:"-"`
}

func (Store) TableName() string {
	return "stores"
}

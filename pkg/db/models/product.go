package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product holds the quantity on hand for one listing. Quantity is the shared
// mutable resource the order engine protects; it never goes below zero.
type Product struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_products_user_name"`
	Name      string    `gorm:"column:name;not null;uniqueIndex:idx_products_user_name"`
	Quantity  int       `gorm:"column:quantity;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns the primary key client-side so inserts behave the
// same on postgres and the sqlite test databases.
func (p *Product) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adolfosa/feria-manager/pkg/enums"
	"github.com/adolfosa/feria-manager/pkg/types"
)

// Order references one client and one product of the same user. Quantity is
// fixed at creation; only Status changes afterwards.
type Order struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	UserID       uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	ClientID     uuid.UUID         `gorm:"column:client_id;type:uuid;not null"`
	ProductID    uuid.UUID         `gorm:"column:product_id;type:uuid;not null"`
	Quantity     int               `gorm:"column:quantity;not null"`
	DeliveryDate types.Date        `gorm:"column:delivery_date;type:date;not null"`
	Status       enums.OrderStatus `gorm:"column:status;not null;default:'pending'"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns the primary key client-side so inserts behave the
// same on postgres and the sqlite test databases.
func (o *Order) BeforeCreate(_ *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a tenant: one authenticated feria seller. Every other entity is
// partitioned by UserID.
type User struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	GoogleSub string    `gorm:"column:google_sub;not null;uniqueIndex"`
	Name      string    `gorm:"column:name;not null"`
	Email     string    `gorm:"column:email;not null;uniqueIndex"`
	Picture   *string   `gorm:"column:picture"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns the primary key client-side so inserts behave the
// same on postgres and the sqlite test databases.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

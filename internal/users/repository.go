package users

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/adolfosa/feria-manager/pkg/db/models"
)

// Repository persists tenant identities.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a users repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Upsert inserts the user keyed by google_sub, refreshing profile fields on
// repeat sign-ins, and returns the stored row.
func (r *Repository) Upsert(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "google_sub"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "email", "picture", "updated_at"}),
		}).
		Create(user).Error
	if err != nil {
		return nil, err
	}

	var stored models.User
	if err := r.db.WithContext(ctx).First(&stored, "google_sub = ?", user.GoogleSub).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

// FindByID loads one user.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

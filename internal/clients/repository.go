package clients

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adolfosa/feria-manager/pkg/db/models"
)

// Repository persists client records. All lookups are tenant-scoped.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a clients repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// ListByUser returns the user's clients ordered by name.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Client, error) {
	var rows []models.Client
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID loads one client owned by the user.
func (r *Repository) FindByID(ctx context.Context, userID, clientID uuid.UUID) (*models.Client, error) {
	var row models.Client
	err := r.db.WithContext(ctx).
		First(&row, "id = ? AND user_id = ?", clientID, userID).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Exists reports whether the user owns a client with the given id.
func (r *Repository) Exists(ctx context.Context, userID, clientID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("id = ? AND user_id = ?", clientID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// NameTaken reports whether another client of the user already holds the
// normalized name. excludeID skips the row being edited.
func (r *Repository) NameTaken(ctx context.Context, userID uuid.UUID, name string, excludeID uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("user_id = ? AND name = ?", userID, name)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new client row.
func (r *Repository) Create(ctx context.Context, client *models.Client) (*models.Client, error) {
	if err := r.db.WithContext(ctx).Create(client).Error; err != nil {
		return nil, err
	}
	return client, nil
}

// Update persists the client row.
func (r *Repository) Update(ctx context.Context, client *models.Client) (*models.Client, error) {
	if err := r.db.WithContext(ctx).Save(client).Error; err != nil {
		return nil, err
	}
	return client, nil
}

// Delete removes the client owned by the user. Returns gorm.ErrRecordNotFound
// when nothing matched.
func (r *Repository) Delete(ctx context.Context, userID, clientID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", clientID, userID).
		Delete(&models.Client{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

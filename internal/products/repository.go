package products

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adolfosa/feria-manager/pkg/db/models"
	pkgerrors "github.com/adolfosa/feria-manager/pkg/errors"
)

// Repository persists product records and owns the stock arithmetic. All
// lookups are tenant-scoped.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a products repository bound to the provided DB.
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

// ListByUser returns the user's products ordered by name.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID loads one product owned by the user.
func (r *Repository) FindByID(ctx context.Context, userID, productID uuid.UUID) (*models.Product, error) {
	var row models.Product
	err := r.db.WithContext(ctx).
		First(&row, "id = ? AND user_id = ?", productID, userID).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// NameTaken reports whether another product of the user already holds the
// normalized name. excludeID skips the row being edited.
func (r *Repository) NameTaken(ctx context.Context, userID uuid.UUID, name string, excludeID uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Product{}).
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

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Update persists the product row.
func (r *Repository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes the product owned by the user. Returns
// gorm.ErrRecordNotFound when nothing matched.
func (r *Repository) Delete(ctx context.Context, userID, productID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", productID, userID).
		Delete(&models.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AdjustQuantity applies a stock delta to the product. Debits are guarded so
// the quantity can never go negative: the UPDATE only matches when enough
// stock is on hand, and the row lock it takes serializes concurrent orders
// against the same product. Call inside the order transaction.
func (r *Repository) AdjustQuantity(ctx context.Context, userID, productID uuid.UUID, delta int) error {
	if delta == 0 {
		return nil
	}

	query := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND user_id = ?", productID, userID)
	if delta < 0 {
		query = query.Where("quantity >= ?", -delta)
	}

	res := query.Update("quantity", gorm.Expr("quantity + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// No row matched: either the product is gone or the guard refused the
	// debit. Tell them apart for the caller.
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND user_id = ?", productID, userID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
		WithDetails(map[string]any{"product_id": productID, "requested": -delta})
}

// IsInsufficientStock reports whether the error is the guard refusal from
// AdjustQuantity.
func IsInsufficientStock(err error) bool {
	typed := pkgerrors.As(err)
	return typed != nil && typed.Code() == pkgerrors.CodeInsufficientStock
}

// IsNotFound reports whether the error is a missing-row lookup failure.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

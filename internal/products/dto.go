package products

import "github.com/google/uuid"

// CreateProductInput carries the validated fields for a new product.
type CreateProductInput struct {
	UserID   uuid.UUID
	Name     string
	Quantity int
}

// UpdateProductInput carries the validated fields for editing a product.
type UpdateProductInput struct {
	UserID    uuid.UUID
	ProductID uuid.UUID
	Name      string
	Quantity  int
}

package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adolfosa/feria-manager/internal/clients"
	pkgdb "github.com/adolfosa/feria-manager/pkg/db"
	"github.com/adolfosa/feria-manager/pkg/db/models"
	pkgerrors "github.com/adolfosa/feria-manager/pkg/errors"
)

// Service defines the inventory operations.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.Product, error)
	Create(ctx context.Context, input CreateProductInput) (*models.Product, error)
	Update(ctx context.Context, input UpdateProductInput) (*models.Product, error)
	Delete(ctx context.Context, userID, productID uuid.UUID) error
}

type service struct {
	repo *Repository
}

// NewService builds the inventory service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]models.Product, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return rows, nil
}

func (s *service) Create(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	name := clients.NormalizeName(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	quantity := input.Quantity
	if quantity < 0 {
		quantity = 0
	}

	taken, err := s.repo.NameTaken(ctx, input.UserID, name, uuid.Nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check product name")
	}
	if taken {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "a product with that name already exists")
	}

	product := &models.Product{
		UserID:   input.UserID,
		Name:     name,
		Quantity: quantity,
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		if pkgdb.IsUniqueViolation(err, "idx_products_user_name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a product with that name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, input UpdateProductInput) (*models.Product, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	name := clients.NormalizeName(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}

	product, err := s.repo.FindByID(ctx, input.UserID, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	taken, err := s.repo.NameTaken(ctx, input.UserID, name, product.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check product name")
	}
	if taken {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "another product with that name already exists")
	}

	product.Name = name
	product.Quantity = input.Quantity

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		if pkgdb.IsUniqueViolation(err, "idx_products_user_name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "another product with that name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if err := s.repo.Delete(ctx, userID, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

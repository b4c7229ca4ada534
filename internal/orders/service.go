package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adolfosa/feria-manager/internal/clients"
	"github.com/adolfosa/feria-manager/internal/products"
	pkgdb "github.com/adolfosa/feria-manager/pkg/db"
	"github.com/adolfosa/feria-manager/pkg/db/models"
	"github.com/adolfosa/feria-manager/pkg/enums"
	pkgerrors "github.com/adolfosa/feria-manager/pkg/errors"
	"github.com/adolfosa/feria-manager/pkg/types"
)

// Service runs the order lifecycle. Every operation that touches stock runs
// inside one transaction so an order and its stock movement commit or roll
// back together.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]Row, error)
	Create(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	ChangeStatus(ctx context.Context, input ChangeStatusInput) (*models.Order, error)
	Delete(ctx context.Context, userID, orderID uuid.UUID) error
}

type service struct {
	db       *pkgdb.Client
	repo     *Repository
	products *products.Repository
	clients  *clients.Repository
	loc      *time.Location
}

// NewService builds the order lifecycle service. loc decides what "today"
// means for the delivery date check; nil falls back to UTC.
func NewService(db *pkgdb.Client, repo *Repository, productRepo *products.Repository, clientRepo *clients.Repository, loc *time.Location) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db client required")
	}
	if repo == nil || productRepo == nil || clientRepo == nil {
		return nil, fmt.Errorf("orders, products and clients repositories required")
	}
	if loc == nil {
		loc = time.UTC
	}
	return &service{db: db, repo: repo, products: productRepo, clients: clientRepo, loc: loc}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]Row, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return rows, nil
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.ClientID == uuid.Nil || input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client and product are required")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be a positive integer")
	}
	deliveryDate, err := types.ParseDate(input.DeliveryDate)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery date must be YYYY-MM-DD")
	}
	if deliveryDate.Before(types.Today(s.loc)) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery date cannot be in the past")
	}

	var order *models.Order
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		exists, err := s.clients.WithTx(tx).Exists(ctx, input.UserID, input.ClientID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check client")
		}
		if !exists {
			return pkgerrors.New(pkgerrors.CodeNotFound, "client not found")
		}

		// The guarded debit also takes the row lock that serializes
		// concurrent orders against the same product.
		if err := s.products.WithTx(tx).AdjustQuantity(ctx, input.UserID, input.ProductID, -input.Quantity); err != nil {
			return mapStockErr(err)
		}

		order, err = s.repo.WithTx(tx).Create(ctx, &models.Order{
			UserID:       input.UserID,
			ClientID:     input.ClientID,
			ProductID:    input.ProductID,
			Quantity:     input.Quantity,
			DeliveryDate: deliveryDate,
			Status:       enums.OrderStatusPending,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) ChangeStatus(ctx context.Context, input ChangeStatusInput) (*models.Order, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	target, err := enums.ParseOrderStatus(input.Status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status").
			WithDetails(map[string]any{"status": input.Status})
	}

	var order *models.Order
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		order, err = s.repo.WithTx(tx).FindByID(ctx, input.UserID, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		// Repeating the current status is a no-op, not an error.
		if order.Status == target {
			return nil
		}

		if err := applyTransition(ctx, order.Status, target); err != nil {
			return err
		}

		if err := s.applyStockEffect(ctx, tx, order, target); err != nil {
			return err
		}

		if err := s.repo.WithTx(tx).UpdateStatus(ctx, order.ID, target); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		order.Status = target
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// applyStockEffect moves stock to match the transition. Cancelling a pending
// order returns its units; reopening a cancelled order takes them again,
// guarded against overdraw. Delivery consumes the units already held by the
// order, so no movement is needed.
func (s *service) applyStockEffect(ctx context.Context, tx *gorm.DB, order *models.Order, target enums.OrderStatus) error {
	var delta int
	switch {
	case order.Status == enums.OrderStatusPending && target == enums.OrderStatusCancelled:
		delta = order.Quantity
	case order.Status == enums.OrderStatusCancelled && target == enums.OrderStatusPending:
		delta = -order.Quantity
	default:
		return nil
	}
	if err := s.products.WithTx(tx).AdjustQuantity(ctx, order.UserID, order.ProductID, delta); err != nil {
		return mapStockErr(err)
	}
	return nil
}

func (s *service) Delete(ctx context.Context, userID, orderID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		order, err := s.repo.WithTx(tx).FindByID(ctx, userID, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		// Only a pending order still holds stock.
		if order.Status == enums.OrderStatusPending {
			if err := s.products.WithTx(tx).AdjustQuantity(ctx, order.UserID, order.ProductID, order.Quantity); err != nil {
				return mapStockErr(err)
			}
		}

		if err := s.repo.WithTx(tx).Delete(ctx, userID, orderID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
		}
		return nil
	})
}

// mapStockErr translates repository stock failures into API errors. A typed
// insufficient-stock error passes through untouched.
func mapStockErr(err error) error {
	if err == nil {
		return nil
	}
	if products.IsInsufficientStock(err) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adjust stock")
}

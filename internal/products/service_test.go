package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/adolfosa/feria-manager/pkg/db/models"
	pkgerrors "github.com/adolfosa/feria-manager/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:products_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("migrate products: %v", err)
	}
	return db
}

func newTestService(t *testing.T) (Service, *Repository) {
	t.Helper()
	repo := NewRepository(newTestDB(t))
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo
}

func TestCreateNormalizesAndClampsQuantity(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	created, err := svc.Create(ctx, CreateProductInput{UserID: userID, Name: "  Tomates ", Quantity: -4})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.Name != "tomates" {
		t.Fatalf("name not normalized: %q", created.Name)
	}
	if created.Quantity != 0 {
		t.Fatalf("negative quantity should clamp to 0, got %d", created.Quantity)
	}
}

func TestCreateRejectsDuplicatesPerTenant(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	if _, err := svc.Create(ctx, CreateProductInput{UserID: userID, Name: "papas", Quantity: 10}); err != nil {
		t.Fatalf("seed create failed: %v", err)
	}
	_, err := svc.Create(ctx, CreateProductInput{UserID: userID, Name: " PAPAS "})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict for duplicate name, got %v", err)
	}
	if _, err := svc.Create(ctx, CreateProductInput{UserID: uuid.New(), Name: "papas"}); err != nil {
		t.Fatalf("cross-tenant create should succeed: %v", err)
	}
}

func TestUpdateValidatesAndChecksOwnership(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	papas, err := svc.Create(ctx, CreateProductInput{UserID: userID, Name: "papas", Quantity: 10})
	if err != nil {
		t.Fatalf("seed papas: %v", err)
	}
	if _, err := svc.Create(ctx, CreateProductInput{UserID: userID, Name: "tomates", Quantity: 5}); err != nil {
		t.Fatalf("seed tomates: %v", err)
	}

	_, err = svc.Update(ctx, UpdateProductInput{UserID: userID, ProductID: papas.ID, Name: "papas", Quantity: -1})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for negative quantity, got %v", err)
	}

	_, err = svc.Update(ctx, UpdateProductInput{UserID: userID, ProductID: papas.ID, Name: "Tomates", Quantity: 10})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict renaming onto tomates, got %v", err)
	}

	updated, err := svc.Update(ctx, UpdateProductInput{UserID: userID, ProductID: papas.ID, Name: " Papas ", Quantity: 25})
	if err != nil {
		t.Fatalf("self-rename failed: %v", err)
	}
	if updated.Quantity != 25 {
		t.Fatalf("quantity not updated: %d", updated.Quantity)
	}

	_, err = svc.Update(ctx, UpdateProductInput{UserID: uuid.New(), ProductID: papas.ID, Name: "papas", Quantity: 1})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("foreign tenant update should be not found, got %v", err)
	}
}

func TestDeleteScopesToOwner(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	papas, err := svc.Create(ctx, CreateProductInput{UserID: userID, Name: "papas", Quantity: 10})
	if err != nil {
		t.Fatalf("seed papas: %v", err)
	}

	if err := svc.Delete(ctx, uuid.New(), papas.ID); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("foreign tenant delete should be not found, got %v", err)
	}
	if err := svc.Delete(ctx, userID, papas.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := svc.Delete(ctx, userID, papas.ID); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("second delete should be not found, got %v", err)
	}
}

func TestAdjustQuantityGuardsDebits(t *testing.T) {
	t.Parallel()

	svc, repo := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	papas, err := svc.Create(ctx, CreateProductInput{UserID: userID, Name: "papas", Quantity: 3})
	if err != nil {
		t.Fatalf("seed papas: %v", err)
	}

	if err := repo.AdjustQuantity(ctx, userID, papas.ID, -3); err != nil {
		t.Fatalf("debit within stock failed: %v", err)
	}

	err = repo.AdjustQuantity(ctx, userID, papas.ID, -1)
	if !IsInsufficientStock(err) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}

	// the refused debit must leave the quantity untouched
	row, err := repo.FindByID(ctx, userID, papas.ID)
	if err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if row.Quantity != 0 {
		t.Fatalf("quantity changed by refused debit: %d", row.Quantity)
	}

	if err := repo.AdjustQuantity(ctx, userID, papas.ID, 5); err != nil {
		t.Fatalf("credit failed: %v", err)
	}
	row, _ = repo.FindByID(ctx, userID, papas.ID)
	if row.Quantity != 5 {
		t.Fatalf("credit not applied: %d", row.Quantity)
	}

	if err := repo.AdjustQuantity(ctx, userID, uuid.New(), -1); !IsNotFound(err) {
		t.Fatalf("missing product debit should be not found, got %v", err)
	}
	if err := repo.AdjustQuantity(ctx, uuid.New(), papas.ID, -1); !IsNotFound(err) {
		t.Fatalf("foreign tenant debit should be not found, got %v", err)
	}
}

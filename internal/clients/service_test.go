package clients

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
	dsn := "file:clients_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Client{}); err != nil {
		t.Fatalf("migrate clients: %v", err)
	}
	return db
}

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc, err := NewService(NewRepository(db))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, db
}

func strPtr(s string) *string { return &s }

func TestCreateNormalizesAndStores(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	created, err := svc.Create(ctx, CreateClientInput{
		UserID:  userID,
		Name:    "  Doña Rosa ",
		Phone:   strPtr(" +56 9 1234 "),
		Address: strPtr("  Puesto 12, Feria Lo Valledor "),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.Name != "doña rosa" {
		t.Fatalf("name not normalized: %q", created.Name)
	}
	if created.Phone == nil || *created.Phone != "+56 9 1234" {
		t.Fatalf("phone not normalized: %v", created.Phone)
	}
	if created.Address == nil || *created.Address != "puesto 12, feria lo valledor" {
		t.Fatalf("address not normalized: %v", created.Address)
	}
}

func TestCreateRejectsEmptyNameAndDuplicates(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.Create(ctx, CreateClientInput{UserID: userID, Name: "   "})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	if _, err := svc.Create(ctx, CreateClientInput{UserID: userID, Name: "rosa"}); err != nil {
		t.Fatalf("seed create failed: %v", err)
	}
	_, err = svc.Create(ctx, CreateClientInput{UserID: userID, Name: " ROSA "})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict for duplicate name, got %v", err)
	}

	// same name under a different tenant is fine
	if _, err := svc.Create(ctx, CreateClientInput{UserID: uuid.New(), Name: "rosa"}); err != nil {
		t.Fatalf("cross-tenant create should succeed: %v", err)
	}
}

func TestUpdateChecksOwnershipAndDuplicates(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	rosa, err := svc.Create(ctx, CreateClientInput{UserID: userID, Name: "rosa"})
	if err != nil {
		t.Fatalf("seed rosa: %v", err)
	}
	pedro, err := svc.Create(ctx, CreateClientInput{UserID: userID, Name: "pedro"})
	if err != nil {
		t.Fatalf("seed pedro: %v", err)
	}

	_, err = svc.Update(ctx, UpdateClientInput{UserID: userID, ClientID: pedro.ID, Name: "Rosa"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict renaming onto rosa, got %v", err)
	}

	// renaming to its own current name is allowed
	updated, err := svc.Update(ctx, UpdateClientInput{UserID: userID, ClientID: rosa.ID, Name: " rosa ", Phone: strPtr("123")})
	if err != nil {
		t.Fatalf("self-rename failed: %v", err)
	}
	if updated.Phone == nil || *updated.Phone != "123" {
		t.Fatalf("phone not updated: %v", updated.Phone)
	}

	_, err = svc.Update(ctx, UpdateClientInput{UserID: uuid.New(), ClientID: rosa.ID, Name: "rosa"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("foreign tenant update should be not found, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	t.Parallel()

	svc, db := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	rosa, err := svc.Create(ctx, CreateClientInput{UserID: userID, Name: "rosa"})
	if err != nil {
		t.Fatalf("seed rosa: %v", err)
	}

	if err := svc.Delete(ctx, uuid.New(), rosa.ID); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("foreign tenant delete should be not found, got %v", err)
	}

	if err := svc.Delete(ctx, userID, rosa.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	var count int64
	if err := db.Model(&models.Client{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no clients left, got %d", count)
	}

	if err := svc.Delete(ctx, userID, rosa.ID); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("second delete should be not found, got %v", err)
	}
}

func TestListOrdersByName(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	for _, name := range []string{"zoila", "ana", "mario"} {
		if _, err := svc.Create(ctx, CreateClientInput{UserID: userID, Name: name}); err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
	}

	rows, err := svc.List(ctx, userID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 clients, got %d", len(rows))
	}
	if rows[0].Name != "ana" || rows[2].Name != "zoila" {
		t.Fatalf("clients not ordered by name: %v", rows)
	}
}

package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/adolfosa/feria-manager/pkg/db/models"
	"github.com/adolfosa/feria-manager/pkg/enums"
	"github.com/adolfosa/feria-manager/pkg/types"
)

func setupRepoTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:orders_repo_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Client{}, &models.Product{}, &models.Order{}))
	return conn
}

func seedOrder(t *testing.T, conn *gorm.DB, userID uuid.UUID, date string) *models.Order {
	t.Helper()

	client := &models.Client{UserID: userID, Name: "rosa"}
	require.NoError(t, conn.FirstOrCreate(client, models.Client{UserID: userID, Name: "rosa"}).Error)
	product := &models.Product{UserID: userID, Name: "papas", Quantity: 100}
	require.NoError(t, conn.FirstOrCreate(product, models.Product{UserID: userID, Name: "papas"}).Error)

	parsed, err := types.ParseDate(date)
	require.NoError(t, err)

	order := &models.Order{
		UserID:       userID,
		ClientID:     client.ID,
		ProductID:    product.ID,
		Quantity:     2,
		DeliveryDate: parsed,
		Status:       enums.OrderStatusPending,
	}
	require.NoError(t, conn.Create(order).Error)
	return order
}

func TestRepositoryUpdateStatus(t *testing.T) {
	t.Parallel()

	conn := setupRepoTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	userID := uuid.New()
	order := seedOrder(t, conn, userID, "2999-03-01")

	require.NoError(t, repo.UpdateStatus(ctx, order.ID, enums.OrderStatusDelivered))

	stored, err := repo.FindByID(ctx, userID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusDelivered, stored.Status)

	err = repo.UpdateStatus(ctx, uuid.New(), enums.OrderStatusCancelled)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryWithTxRollback(t *testing.T) {
	t.Parallel()

	conn := setupRepoTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	userID := uuid.New()
	order := seedOrder(t, conn, userID, "2999-03-01")

	tx := conn.Begin()
	require.NoError(t, tx.Error)
	require.NoError(t, repo.WithTx(tx).UpdateStatus(ctx, order.ID, enums.OrderStatusCancelled))
	require.NoError(t, tx.Rollback().Error)

	stored, err := repo.FindByID(ctx, userID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPending, stored.Status, "rolled back change must not stick")
}

func TestRepositoryFindByIDScopesToUser(t *testing.T) {
	t.Parallel()

	conn := setupRepoTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	userID := uuid.New()
	order := seedOrder(t, conn, userID, "2999-03-01")

	_, err := repo.FindByID(ctx, uuid.New(), order.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

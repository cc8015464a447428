package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/techrefresher/backend/internal/domain/procurement"
	"github.com/techrefresher/backend/internal/domain/shared"
)

// newMockPurchaseOrderRepository creates a GormPurchaseOrderRepository with a mocked SQL connection
func newMockPurchaseOrderRepository(t *testing.T) (*GormPurchaseOrderRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormPurchaseOrderRepository(gormDB), mock, mockDB
}

func createTestPurchaseOrder(t *testing.T, groupID uuid.UUID) *procurement.PurchaseOrder {
	t.Helper()

	userID := uuid.New()
	order, err := procurement.NewPurchaseOrder(groupID, "BackMarket", "BM-1001", time.Now(), "", userID)
	require.NoError(t, err)
	_, err = order.AddLineItem("iPhone 12 lot", procurement.ItemCategoryDevice, nil, 2, decimal.NewFromInt(150))
	require.NoError(t, err)
	return order
}

func TestGormPurchaseOrderRepository_Count(t *testing.T) {
	t.Run("counts orders for group", func(t *testing.T) {
		repo, mock, mockDB := newMockPurchaseOrderRepository(t)
		defer mockDB.Close()

		groupID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "purchase_orders" WHERE group_id = \$1`).
			WithArgs(groupID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

		count, err := repo.Count(context.Background(), groupID, shared.Filter{})

		assert.NoError(t, err)
		assert.Equal(t, int64(5), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("applies status filter", func(t *testing.T) {
		repo, mock, mockDB := newMockPurchaseOrderRepository(t)
		defer mockDB.Close()

		groupID := uuid.New()
		filter := shared.Filter{Filters: map[string]interface{}{"status": "CREATED"}}

		mock.ExpectQuery(`SELECT count\(\*\) FROM "purchase_orders" WHERE group_id = \$1 AND status = \$2`).
			WithArgs(groupID, "CREATED").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

		count, err := repo.Count(context.Background(), groupID, filter)

		assert.NoError(t, err)
		assert.Equal(t, int64(2), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPurchaseOrderRepository_CountByStatus(t *testing.T) {
	t.Run("counts orders by status", func(t *testing.T) {
		repo, mock, mockDB := newMockPurchaseOrderRepository(t)
		defer mockDB.Close()

		groupID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "purchase_orders" WHERE group_id = \$1 AND status = \$2`).
			WithArgs(groupID, procurement.PurchaseOrderStatusReceived).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		count, err := repo.CountByStatus(context.Background(), groupID, procurement.PurchaseOrderStatusReceived)

		assert.NoError(t, err)
		assert.Equal(t, int64(3), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPurchaseOrderRepository_SaveWithLock(t *testing.T) {
	t.Run("fails on version mismatch without touching rows", func(t *testing.T) {
		repo, mock, mockDB := newMockPurchaseOrderRepository(t)
		defer mockDB.Close()

		order := createTestPurchaseOrder(t, uuid.New())
		order.Version = 1

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT "version" FROM "purchase_orders" WHERE group_id = \$1 AND id = \$2`).
			WithArgs(order.GroupID, order.ID).
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(4))
		mock.ExpectRollback()

		err := repo.SaveWithLock(context.Background(), order)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "modified by another user")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("fails when update affects no rows", func(t *testing.T) {
		repo, mock, mockDB := newMockPurchaseOrderRepository(t)
		defer mockDB.Close()

		order := createTestPurchaseOrder(t, uuid.New())
		order.Version = 1

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT "version" FROM "purchase_orders" WHERE group_id = \$1 AND id = \$2`).
			WithArgs(order.GroupID, order.ID).
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(1))
		mock.ExpectExec(`UPDATE "purchase_orders" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.SaveWithLock(context.Background(), order)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "modified by another user")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPurchaseOrderRepository_Delete(t *testing.T) {
	t.Run("returns not found when order is missing", func(t *testing.T) {
		repo, mock, mockDB := newMockPurchaseOrderRepository(t)
		defer mockDB.Close()

		groupID := uuid.New()
		orderID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "purchase_orders" WHERE group_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(groupID, orderID, 1).
			WillReturnError(gorm.ErrRecordNotFound)
		mock.ExpectRollback()

		err := repo.Delete(context.Background(), groupID, orderID)

		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPurchaseOrderRepository_InterfaceCompliance(t *testing.T) {
	t.Run("implements PurchaseOrderRepository interface", func(t *testing.T) {
		repo, _, mockDB := newMockPurchaseOrderRepository(t)
		defer mockDB.Close()

		var _ procurement.PurchaseOrderRepository = repo
	})
}

// Package testutil provides shared helpers for integration tests:
// an in-memory database with the full schema, request helpers for
// exercising the HTTP stack, and an event collector for asserting on
// published domain events.
package testutil

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/techrefresher/backend/internal/infrastructure/persistence"
	"github.com/techrefresher/backend/internal/infrastructure/persistence/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// NewTestDB opens an isolated in-memory SQLite database with the full
// schema migrated. Each call returns a fresh database.
func NewTestDB(t *testing.T) *persistence.Database {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared&_fk=1"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.UserModel{},
		&models.CatalogItemModel{},
		&models.PurchaseOrderModel{},
		&models.PurchaseOrderLineItemModel{},
		&models.PurchaseOrderStatusChangeModel{},
		&models.PurchaseOrderPaymentModel{},
		&models.PurchaseOrderShipmentModel{},
		&models.PurchaseOrderShipmentLineModel{},
		&models.PurchaseOrderReceiptModel{},
		&models.PurchaseOrderReceiptLineModel{},
		&models.DeviceModel{},
		&models.ArchivedDeviceModel{},
		&models.PartModel{},
		&models.SalesOrderModel{},
		&models.SalesOrderPartModel{},
		&models.ErrorLogModel{},
	))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return &persistence.Database{DB: db}
}

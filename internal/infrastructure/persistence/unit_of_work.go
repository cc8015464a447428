package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/techrefresher/backend/internal/domain/catalog"
	"github.com/techrefresher/backend/internal/domain/inventory"
	"github.com/techrefresher/backend/internal/domain/procurement"
	"github.com/techrefresher/backend/internal/domain/sales"
)

// Repositories bundles transaction-scoped repositories handed to a unit of work.
// Every repository in the bundle shares the same database transaction, so
// writes across aggregates commit or roll back together.
type Repositories struct {
	PurchaseOrders  procurement.PurchaseOrderRepository
	CatalogItems    catalog.ItemRepository
	Devices         inventory.DeviceRepository
	ArchivedDevices inventory.ArchivedDeviceRepository
	Parts           inventory.PartRepository
	SalesOrders     sales.OrderRepository
}

// UnitOfWork runs a function with repositories bound to a single transaction.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(repos *Repositories) error) error
}

// GormUnitOfWork implements UnitOfWork on top of Database.Transaction.
type GormUnitOfWork struct {
	db *Database
}

// NewGormUnitOfWork creates a unit of work backed by the given database
func NewGormUnitOfWork(db *Database) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// Execute runs fn inside a database transaction with tx-bound repositories.
// Returning an error from fn rolls the whole transaction back.
func (u *GormUnitOfWork) Execute(ctx context.Context, fn func(repos *Repositories) error) error {
	return u.db.Transaction(func(tx *gorm.DB) error {
		tx = tx.WithContext(ctx)
		return fn(&Repositories{
			PurchaseOrders:  NewGormPurchaseOrderRepository(tx),
			CatalogItems:    NewGormCatalogItemRepository(tx),
			Devices:         NewGormDeviceRepository(tx),
			ArchivedDevices: NewGormArchivedDeviceRepository(tx),
			Parts:           NewGormPartRepository(tx),
			SalesOrders:     NewGormSalesOrderRepository(tx),
		})
	})
}

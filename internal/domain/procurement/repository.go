package procurement

import (
	"context"

	"github.com/google/uuid"
	"github.com/techrefresher/backend/internal/domain/shared"
)

// PurchaseOrderRepository defines the persistence interface for purchase orders
type PurchaseOrderRepository interface {
	// FindByID finds a purchase order by ID within a group
	FindByID(ctx context.Context, groupID, id uuid.UUID) (*PurchaseOrder, error)

	// FindAll finds all purchase orders for a group with filtering
	FindAll(ctx context.Context, groupID uuid.UUID, filter shared.Filter) ([]PurchaseOrder, error)

	// FindByStatus finds purchase orders by status for a group
	FindByStatus(ctx context.Context, groupID uuid.UUID, status PurchaseOrderStatus, filter shared.Filter) ([]PurchaseOrder, error)

	// FindByVendor finds purchase orders by vendor name for a group
	FindByVendor(ctx context.Context, groupID uuid.UUID, vendor string, filter shared.Filter) ([]PurchaseOrder, error)

	// FindPendingReceipt finds orders still awaiting goods (shipped or partially received)
	FindPendingReceipt(ctx context.Context, groupID uuid.UUID, filter shared.Filter) ([]PurchaseOrder, error)

	// Save creates or updates a purchase order
	Save(ctx context.Context, order *PurchaseOrder) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, order *PurchaseOrder) error

	// Delete deletes a purchase order for a group
	Delete(ctx context.Context, groupID, id uuid.UUID) error

	// Count counts purchase orders for a group with optional filters
	Count(ctx context.Context, groupID uuid.UUID, filter shared.Filter) (int64, error)

	// CountByStatus counts purchase orders by status for a group
	CountByStatus(ctx context.Context, groupID uuid.UUID, status PurchaseOrderStatus) (int64, error)
}

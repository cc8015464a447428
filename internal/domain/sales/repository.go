package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/techrefresher/backend/internal/domain/shared"
)

// OrderRepository defines the persistence interface for sales orders
type OrderRepository interface {
	// FindByID finds an order by ID within a group
	FindByID(ctx context.Context, groupID, id uuid.UUID) (*Order, error)

	// FindAll finds all orders for a group with filtering
	FindAll(ctx context.Context, groupID uuid.UUID, filter shared.Filter) ([]Order, error)

	// FindByDeviceID finds the order that sold a given device
	FindByDeviceID(ctx context.Context, groupID, deviceID uuid.UUID) (*Order, error)

	// Save creates or updates an order
	Save(ctx context.Context, order *Order) error

	// Count counts orders for a group
	Count(ctx context.Context, groupID uuid.UUID, filter shared.Filter) (int64, error)
}

package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/techrefresher/backend/internal/domain/shared"
)

// ItemRepository defines the persistence interface for catalog items
type ItemRepository interface {
	// FindByID finds a catalog item by ID within a group
	FindByID(ctx context.Context, groupID, id uuid.UUID) (*Item, error)

	// FindByIDs finds multiple catalog items by ID within a group
	FindByIDs(ctx context.Context, groupID uuid.UUID, ids []uuid.UUID) ([]Item, error)

	// FindAll finds all catalog items for a group with filtering
	FindAll(ctx context.Context, groupID uuid.UUID, filter shared.Filter) ([]Item, error)

	// FindByCategory finds catalog items by category for a group
	FindByCategory(ctx context.Context, groupID uuid.UUID, category Category, filter shared.Filter) ([]Item, error)

	// Save creates or updates a catalog item
	Save(ctx context.Context, item *Item) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, item *Item) error

	// Delete removes a catalog item
	Delete(ctx context.Context, groupID, id uuid.UUID) error

	// Count counts catalog items for a group
	Count(ctx context.Context, groupID uuid.UUID, filter shared.Filter) (int64, error)
}

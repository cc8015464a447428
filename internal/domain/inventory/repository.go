package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/techrefresher/backend/internal/domain/shared"
)

// DeviceRepository defines the persistence interface for active devices
type DeviceRepository interface {
	// FindByID finds a device by ID within a group
	FindByID(ctx context.Context, groupID, id uuid.UUID) (*Device, error)

	// FindAll finds all devices for a group with filtering
	FindAll(ctx context.Context, groupID uuid.UUID, filter shared.Filter) ([]Device, error)

	// Save creates or updates a device
	Save(ctx context.Context, device *Device) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, device *Device) error

	// Delete removes a device from the active set
	Delete(ctx context.Context, groupID, id uuid.UUID) error

	// Count counts devices for a group
	Count(ctx context.Context, groupID uuid.UUID, filter shared.Filter) (int64, error)
}

// ArchivedDeviceRepository defines the persistence interface for the archive
type ArchivedDeviceRepository interface {
	// FindByID finds an archived device by ID within a group
	FindByID(ctx context.Context, groupID, id uuid.UUID) (*ArchivedDevice, error)

	// FindByDeviceID finds the archive entry for an original device ID
	FindByDeviceID(ctx context.Context, groupID, deviceID uuid.UUID) (*ArchivedDevice, error)

	// FindAll finds archived devices for a group with filtering
	FindAll(ctx context.Context, groupID uuid.UUID, filter shared.Filter) ([]ArchivedDevice, error)

	// FindByStatus finds archived devices by disposition
	FindByStatus(ctx context.Context, groupID uuid.UUID, status DeviceStatus, filter shared.Filter) ([]ArchivedDevice, error)

	// Save creates an archive entry
	Save(ctx context.Context, device *ArchivedDevice) error

	// Count counts archived devices for a group
	Count(ctx context.Context, groupID uuid.UUID, filter shared.Filter) (int64, error)
}

// PartRepository defines the persistence interface for parts
type PartRepository interface {
	// FindByID finds a part by ID within a group
	FindByID(ctx context.Context, groupID, id uuid.UUID) (*Part, error)

	// FindBySlug finds a part by its derived slug within a group
	FindBySlug(ctx context.Context, groupID uuid.UUID, slug string) (*Part, error)

	// FindAll finds all parts for a group with filtering
	FindAll(ctx context.Context, groupID uuid.UUID, filter shared.Filter) ([]Part, error)

	// Save creates or updates a part
	Save(ctx context.Context, part *Part) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, part *Part) error

	// Delete removes a part
	Delete(ctx context.Context, groupID, id uuid.UUID) error

	// Count counts parts for a group
	Count(ctx context.Context, groupID uuid.UUID, filter shared.Filter) (int64, error)
}

package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/techrefresher/backend/internal/domain/inventory"
	"github.com/techrefresher/backend/internal/domain/shared"
	"github.com/techrefresher/backend/internal/infrastructure/persistence/models"
)

// GormDeviceRepository implements inventory.DeviceRepository using GORM
type GormDeviceRepository struct {
	db *gorm.DB
}

// NewGormDeviceRepository creates a new GormDeviceRepository
func NewGormDeviceRepository(db *gorm.DB) *GormDeviceRepository {
	return &GormDeviceRepository{db: db}
}

// FindByID finds a device by ID within a group
func (r *GormDeviceRepository) FindByID(ctx context.Context, groupID, id uuid.UUID) (*inventory.Device, error) {
	var model models.DeviceModel
	if err := r.db.WithContext(ctx).
		Where("group_id = ? AND id = ?", groupID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all devices for a group with filtering
func (r *GormDeviceRepository) FindAll(ctx context.Context, groupID uuid.UUID, filter shared.Filter) ([]inventory.Device, error) {
	var deviceModels []models.DeviceModel
	query := r.db.WithContext(ctx).Model(&models.DeviceModel{}).
		Where("group_id = ?", groupID)
	query = r.applyFilter(query, filter)
	if err := query.Find(&deviceModels).Error; err != nil {
		return nil, err
	}
	devices := make([]inventory.Device, len(deviceModels))
	for i, model := range deviceModels {
		devices[i] = *model.ToDomain()
	}
	return devices, nil
}

// Save creates or updates a device
func (r *GormDeviceRepository) Save(ctx context.Context, device *inventory.Device) error {
	model := models.DeviceModelFromDomain(device)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormDeviceRepository) SaveWithLock(ctx context.Context, device *inventory.Device) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		if err := tx.Model(&models.DeviceModel{}).
			Where("group_id = ? AND id = ?", device.GroupID, device.ID).
			Select("version").
			Scan(&currentVersion).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if currentVersion != device.Version {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The device has been modified by another user")
		}

		device.Version++
		device.UpdatedAt = time.Now()

		result := tx.Model(&models.DeviceModel{}).
			Where("id = ? AND version = ?", device.ID, currentVersion).
			Updates(map[string]interface{}{
				"brand":      device.Brand,
				"model":      device.Model,
				"color":      device.Color,
				"serial":     device.Serial,
				"condition":  device.Condition,
				"cost":       device.Cost,
				"notes":      device.Notes,
				"status":     device.Status,
				"version":    device.Version,
				"updated_at": device.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The device has been modified by another user")
		}
		return nil
	})
}

// Delete removes a device from the active set
func (r *GormDeviceRepository) Delete(ctx context.Context, groupID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&models.DeviceModel{}, "group_id = ? AND id = ?", groupID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts devices for a group
func (r *GormDeviceRepository) Count(ctx context.Context, groupID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.DeviceModel{}).
		Where("group_id = ?", groupID)
	query = r.applyFilterWithoutPagination(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormDeviceRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		sortField := ValidateSortField(filter.OrderBy, DeviceSortFields, "")
		if sortField != "" {
			sortOrder := ValidateSortOrder(filter.OrderDir)
			query = query.Order(sortField + " " + sortOrder)
		} else {
			query = query.Order("created_at DESC")
		}
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormDeviceRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("brand ILIKE ? OR model ILIKE ? OR serial ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "brand":
			query = query.Where("brand = ?", value)
		case "model":
			query = query.Where("model = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "condition":
			query = query.Where("condition = ?", value)
		}
	}

	return query
}

// Ensure GormDeviceRepository implements DeviceRepository
var _ inventory.DeviceRepository = (*GormDeviceRepository)(nil)

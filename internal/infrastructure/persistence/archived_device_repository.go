package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/techrefresher/backend/internal/domain/inventory"
	"github.com/techrefresher/backend/internal/domain/shared"
	"github.com/techrefresher/backend/internal/infrastructure/persistence/models"
)

// GormArchivedDeviceRepository implements inventory.ArchivedDeviceRepository using GORM
type GormArchivedDeviceRepository struct {
	db *gorm.DB
}

// NewGormArchivedDeviceRepository creates a new GormArchivedDeviceRepository
func NewGormArchivedDeviceRepository(db *gorm.DB) *GormArchivedDeviceRepository {
	return &GormArchivedDeviceRepository{db: db}
}

// FindByID finds an archived device by ID within a group
func (r *GormArchivedDeviceRepository) FindByID(ctx context.Context, groupID, id uuid.UUID) (*inventory.ArchivedDevice, error) {
	var model models.ArchivedDeviceModel
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

// FindByDeviceID finds the archive entry for an original device ID
func (r *GormArchivedDeviceRepository) FindByDeviceID(ctx context.Context, groupID, deviceID uuid.UUID) (*inventory.ArchivedDevice, error) {
	var model models.ArchivedDeviceModel
	if err := r.db.WithContext(ctx).
		Where("group_id = ? AND device_id = ?", groupID, deviceID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds archived devices for a group with filtering
func (r *GormArchivedDeviceRepository) FindAll(ctx context.Context, groupID uuid.UUID, filter shared.Filter) ([]inventory.ArchivedDevice, error) {
	query := r.db.WithContext(ctx).Model(&models.ArchivedDeviceModel{}).
		Where("group_id = ?", groupID)
	return r.findDevices(query, filter)
}

// FindByStatus finds archived devices by disposition
func (r *GormArchivedDeviceRepository) FindByStatus(ctx context.Context, groupID uuid.UUID, status inventory.DeviceStatus, filter shared.Filter) ([]inventory.ArchivedDevice, error) {
	query := r.db.WithContext(ctx).Model(&models.ArchivedDeviceModel{}).
		Where("group_id = ? AND status = ?", groupID, status)
	return r.findDevices(query, filter)
}

func (r *GormArchivedDeviceRepository) findDevices(query *gorm.DB, filter shared.Filter) ([]inventory.ArchivedDevice, error) {
	var deviceModels []models.ArchivedDeviceModel
	query = r.applyFilter(query, filter)
	if err := query.Find(&deviceModels).Error; err != nil {
		return nil, err
	}
	devices := make([]inventory.ArchivedDevice, len(deviceModels))
	for i, model := range deviceModels {
		devices[i] = *model.ToDomain()
	}
	return devices, nil
}

// Save creates an archive entry
func (r *GormArchivedDeviceRepository) Save(ctx context.Context, device *inventory.ArchivedDevice) error {
	model := models.ArchivedDeviceModelFromDomain(device)
	return r.db.WithContext(ctx).Save(model).Error
}

// Count counts archived devices for a group
func (r *GormArchivedDeviceRepository) Count(ctx context.Context, groupID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.ArchivedDeviceModel{}).
		Where("group_id = ?", groupID)
	query = r.applyFilterWithoutPagination(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormArchivedDeviceRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
			query = query.Order("archived_at DESC")
		}
	} else {
		query = query.Order("archived_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormArchivedDeviceRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
		}
	}

	return query
}

// Ensure GormArchivedDeviceRepository implements ArchivedDeviceRepository
var _ inventory.ArchivedDeviceRepository = (*GormArchivedDeviceRepository)(nil)

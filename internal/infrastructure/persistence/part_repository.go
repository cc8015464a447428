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

// GormPartRepository implements inventory.PartRepository using GORM
type GormPartRepository struct {
	db *gorm.DB
}

// NewGormPartRepository creates a new GormPartRepository
func NewGormPartRepository(db *gorm.DB) *GormPartRepository {
	return &GormPartRepository{db: db}
}

// FindByID finds a part by ID within a group
func (r *GormPartRepository) FindByID(ctx context.Context, groupID, id uuid.UUID) (*inventory.Part, error) {
	var model models.PartModel
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

// FindBySlug finds a part by its derived slug within a group
func (r *GormPartRepository) FindBySlug(ctx context.Context, groupID uuid.UUID, slug string) (*inventory.Part, error) {
	var model models.PartModel
	if err := r.db.WithContext(ctx).
		Where("group_id = ? AND slug = ?", groupID, slug).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all parts for a group with filtering
func (r *GormPartRepository) FindAll(ctx context.Context, groupID uuid.UUID, filter shared.Filter) ([]inventory.Part, error) {
	var partModels []models.PartModel
	query := r.db.WithContext(ctx).Model(&models.PartModel{}).
		Where("group_id = ?", groupID)
	query = r.applyFilter(query, filter)
	if err := query.Find(&partModels).Error; err != nil {
		return nil, err
	}
	parts := make([]inventory.Part, len(partModels))
	for i, model := range partModels {
		parts[i] = *model.ToDomain()
	}
	return parts, nil
}

// Save creates or updates a part
func (r *GormPartRepository) Save(ctx context.Context, part *inventory.Part) error {
	model := models.PartModelFromDomain(part)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormPartRepository) SaveWithLock(ctx context.Context, part *inventory.Part) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		if err := tx.Model(&models.PartModel{}).
			Where("group_id = ? AND id = ?", part.GroupID, part.ID).
			Select("version").
			Scan(&currentVersion).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if currentVersion != part.Version {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The part has been modified by another user")
		}

		part.Version++
		part.UpdatedAt = time.Now()

		result := tx.Model(&models.PartModel{}).
			Where("id = ? AND version = ?", part.ID, currentVersion).
			Updates(map[string]interface{}{
				"slug":        part.Slug,
				"brand":       part.Brand,
				"model":       part.Model,
				"part_name":   part.PartName,
				"color":       part.Color,
				"quantity":    part.Quantity,
				"total_value": part.TotalValue,
				"version":     part.Version,
				"updated_at":  part.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The part has been modified by another user")
		}
		return nil
	})
}

// Delete removes a part
func (r *GormPartRepository) Delete(ctx context.Context, groupID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&models.PartModel{}, "group_id = ? AND id = ?", groupID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts parts for a group
func (r *GormPartRepository) Count(ctx context.Context, groupID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.PartModel{}).
		Where("group_id = ?", groupID)
	query = r.applyFilterWithoutPagination(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormPartRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		sortField := ValidateSortField(filter.OrderBy, PartSortFields, "")
		if sortField != "" {
			sortOrder := ValidateSortOrder(filter.OrderDir)
			query = query.Order(sortField + " " + sortOrder)
		} else {
			query = query.Order("slug ASC")
		}
	} else {
		query = query.Order("slug ASC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormPartRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("brand ILIKE ? OR model ILIKE ? OR part_name ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "brand":
			query = query.Where("brand = ?", value)
		case "model":
			query = query.Where("model = ?", value)
		case "in_stock":
			if inStock, ok := value.(bool); ok && inStock {
				query = query.Where("quantity > 0")
			}
		}
	}

	return query
}

// Ensure GormPartRepository implements PartRepository
var _ inventory.PartRepository = (*GormPartRepository)(nil)

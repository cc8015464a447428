package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/techrefresher/backend/internal/domain/catalog"
	"github.com/techrefresher/backend/internal/domain/shared"
	"github.com/techrefresher/backend/internal/infrastructure/persistence/models"
)

// GormCatalogItemRepository implements catalog.ItemRepository using GORM
type GormCatalogItemRepository struct {
	db *gorm.DB
}

// NewGormCatalogItemRepository creates a new GormCatalogItemRepository
func NewGormCatalogItemRepository(db *gorm.DB) *GormCatalogItemRepository {
	return &GormCatalogItemRepository{db: db}
}

// FindByID finds a catalog item by ID within a group
func (r *GormCatalogItemRepository) FindByID(ctx context.Context, groupID, id uuid.UUID) (*catalog.Item, error) {
	var model models.CatalogItemModel
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

// FindByIDs finds multiple catalog items by ID within a group
func (r *GormCatalogItemRepository) FindByIDs(ctx context.Context, groupID uuid.UUID, ids []uuid.UUID) ([]catalog.Item, error) {
	if len(ids) == 0 {
		return []catalog.Item{}, nil
	}
	var itemModels []models.CatalogItemModel
	if err := r.db.WithContext(ctx).
		Where("group_id = ? AND id IN ?", groupID, ids).
		Find(&itemModels).Error; err != nil {
		return nil, err
	}
	items := make([]catalog.Item, len(itemModels))
	for i, model := range itemModels {
		items[i] = *model.ToDomain()
	}
	return items, nil
}

// FindAll finds all catalog items for a group with filtering
func (r *GormCatalogItemRepository) FindAll(ctx context.Context, groupID uuid.UUID, filter shared.Filter) ([]catalog.Item, error) {
	query := r.db.WithContext(ctx).Model(&models.CatalogItemModel{}).
		Where("group_id = ?", groupID)
	return r.findItems(query, filter)
}

// FindByCategory finds catalog items by category for a group
func (r *GormCatalogItemRepository) FindByCategory(ctx context.Context, groupID uuid.UUID, category catalog.Category, filter shared.Filter) ([]catalog.Item, error) {
	query := r.db.WithContext(ctx).Model(&models.CatalogItemModel{}).
		Where("group_id = ? AND category = ?", groupID, category)
	return r.findItems(query, filter)
}

func (r *GormCatalogItemRepository) findItems(query *gorm.DB, filter shared.Filter) ([]catalog.Item, error) {
	var itemModels []models.CatalogItemModel
	query = r.applyFilter(query, filter)
	if err := query.Find(&itemModels).Error; err != nil {
		return nil, err
	}
	items := make([]catalog.Item, len(itemModels))
	for i, model := range itemModels {
		items[i] = *model.ToDomain()
	}
	return items, nil
}

// Save creates or updates a catalog item
func (r *GormCatalogItemRepository) Save(ctx context.Context, item *catalog.Item) error {
	model := models.CatalogItemModelFromDomain(item)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormCatalogItemRepository) SaveWithLock(ctx context.Context, item *catalog.Item) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		if err := tx.Model(&models.CatalogItemModel{}).
			Where("group_id = ? AND id = ?", item.GroupID, item.ID).
			Select("version").
			Scan(&currentVersion).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if currentVersion != item.Version {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The catalog item has been modified by another user")
		}

		item.Version++
		item.UpdatedAt = time.Now()

		result := tx.Model(&models.CatalogItemModel{}).
			Where("id = ? AND version = ?", item.ID, currentVersion).
			Updates(map[string]interface{}{
				"category":   item.Category,
				"name":       item.Name,
				"brand":      item.Brand,
				"model":      item.Model,
				"color":      item.Color,
				"stock":      item.Stock,
				"notes":      item.Notes,
				"version":    item.Version,
				"updated_at": item.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The catalog item has been modified by another user")
		}
		return nil
	})
}

// Delete removes a catalog item
func (r *GormCatalogItemRepository) Delete(ctx context.Context, groupID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&models.CatalogItemModel{}, "group_id = ? AND id = ?", groupID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts catalog items for a group
func (r *GormCatalogItemRepository) Count(ctx context.Context, groupID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.CatalogItemModel{}).
		Where("group_id = ?", groupID)
	query = r.applyFilterWithoutPagination(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormCatalogItemRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		sortField := ValidateSortField(filter.OrderBy, CatalogItemSortFields, "")
		if sortField != "" {
			sortOrder := ValidateSortOrder(filter.OrderDir)
			query = query.Order(sortField + " " + sortOrder)
		} else {
			query = query.Order("name ASC")
		}
	} else {
		query = query.Order("name ASC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormCatalogItemRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR brand ILIKE ? OR model ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "category":
			query = query.Where("category = ?", value)
		case "brand":
			query = query.Where("brand = ?", value)
		case "in_stock":
			if inStock, ok := value.(bool); ok && inStock {
				query = query.Where("stock > 0")
			}
		}
	}

	return query
}

// Ensure GormCatalogItemRepository implements ItemRepository
var _ catalog.ItemRepository = (*GormCatalogItemRepository)(nil)

package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/techrefresher/backend/internal/domain/sales"
	"github.com/techrefresher/backend/internal/domain/shared"
	"github.com/techrefresher/backend/internal/infrastructure/persistence/models"
)

// GormSalesOrderRepository implements sales.OrderRepository using GORM
type GormSalesOrderRepository struct {
	db *gorm.DB
}

// NewGormSalesOrderRepository creates a new GormSalesOrderRepository
func NewGormSalesOrderRepository(db *gorm.DB) *GormSalesOrderRepository {
	return &GormSalesOrderRepository{db: db}
}

// FindByID finds an order by ID within a group
func (r *GormSalesOrderRepository) FindByID(ctx context.Context, groupID, id uuid.UUID) (*sales.Order, error) {
	var model models.SalesOrderModel
	if err := r.db.WithContext(ctx).
		Preload("Parts").
		Where("group_id = ? AND id = ?", groupID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByDeviceID finds the order that sold a given device
func (r *GormSalesOrderRepository) FindByDeviceID(ctx context.Context, groupID, deviceID uuid.UUID) (*sales.Order, error) {
	var model models.SalesOrderModel
	if err := r.db.WithContext(ctx).
		Preload("Parts").
		Where("group_id = ? AND device_id = ?", groupID, deviceID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all orders for a group with filtering
func (r *GormSalesOrderRepository) FindAll(ctx context.Context, groupID uuid.UUID, filter shared.Filter) ([]sales.Order, error) {
	var orderModels []models.SalesOrderModel
	query := r.db.WithContext(ctx).Model(&models.SalesOrderModel{}).
		Where("group_id = ?", groupID)
	query = r.applyFilter(query, filter)
	if err := query.Preload("Parts").Find(&orderModels).Error; err != nil {
		return nil, err
	}
	orders := make([]sales.Order, len(orderModels))
	for i, model := range orderModels {
		orders[i] = *model.ToDomain()
	}
	return orders, nil
}

// Save creates or updates an order
func (r *GormSalesOrderRepository) Save(ctx context.Context, order *sales.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.SalesOrderModelFromDomain(order)

		if err := tx.Omit("Parts").Save(model).Error; err != nil {
			return err
		}

		if order.ID == uuid.Nil {
			return nil
		}

		partIDs := make([]uuid.UUID, len(order.Parts))
		for i, p := range order.Parts {
			partIDs[i] = p.ID
		}
		if len(partIDs) > 0 {
			if err := tx.Where("order_id = ? AND id NOT IN ?", order.ID, partIDs).
				Delete(&models.SalesOrderPartModel{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("order_id = ?", order.ID).
				Delete(&models.SalesOrderPartModel{}).Error; err != nil {
				return err
			}
		}

		for i := range order.Parts {
			order.Parts[i].OrderID = order.ID
			p := order.Parts[i]
			partModel := models.SalesOrderPartModel{
				ID:       p.ID,
				OrderID:  p.OrderID,
				PartID:   p.PartID,
				PartName: p.PartName,
				Quantity: p.Quantity,
				UnitCost: p.UnitCost,
			}
			if err := tx.Save(&partModel).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// Count counts orders for a group
func (r *GormSalesOrderRepository) Count(ctx context.Context, groupID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.SalesOrderModel{}).
		Where("group_id = ?", groupID)
	query = r.applyFilterWithoutPagination(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormSalesOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		sortField := ValidateSortField(filter.OrderBy, SalesOrderSortFields, "")
		if sortField != "" {
			sortOrder := ValidateSortOrder(filter.OrderDir)
			query = query.Order(sortField + " " + sortOrder)
		} else {
			query = query.Order("sale_date DESC")
		}
	} else {
		query = query.Order("sale_date DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormSalesOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("device_label ILIKE ? OR buyer ILIKE ? OR platform ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "platform":
			query = query.Where("platform = ?", value)
		case "buyer":
			query = query.Where("buyer = ?", value)
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("sale_date >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("sale_date <= ?", t)
			}
		}
	}

	return query
}

// Ensure GormSalesOrderRepository implements OrderRepository
var _ sales.OrderRepository = (*GormSalesOrderRepository)(nil)

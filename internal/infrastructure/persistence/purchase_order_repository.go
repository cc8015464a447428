package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/techrefresher/backend/internal/domain/procurement"
	"github.com/techrefresher/backend/internal/domain/shared"
	"github.com/techrefresher/backend/internal/infrastructure/persistence/models"
)

// purchaseOrderPreloads preloads the full child graph of a purchase order.
func purchaseOrderPreloads(db *gorm.DB) *gorm.DB {
	return db.
		Preload("LineItems").
		Preload("StatusHistory").
		Preload("Payments").
		Preload("Shipments").
		Preload("Shipments.Lines").
		Preload("Receipts").
		Preload("Receipts.Lines")
}

// GormPurchaseOrderRepository implements procurement.PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByID finds a purchase order by ID within a group
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, groupID, id uuid.UUID) (*procurement.PurchaseOrder, error) {
	var model models.PurchaseOrderModel
	if err := purchaseOrderPreloads(r.db.WithContext(ctx)).
		Where("group_id = ? AND id = ?", groupID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all purchase orders for a group with filtering
func (r *GormPurchaseOrderRepository) FindAll(ctx context.Context, groupID uuid.UUID, filter shared.Filter) ([]procurement.PurchaseOrder, error) {
	query := r.db.WithContext(ctx).Model(&models.PurchaseOrderModel{}).
		Where("group_id = ?", groupID)
	return r.findOrders(query, filter)
}

// FindByStatus finds purchase orders by status for a group
func (r *GormPurchaseOrderRepository) FindByStatus(ctx context.Context, groupID uuid.UUID, status procurement.PurchaseOrderStatus, filter shared.Filter) ([]procurement.PurchaseOrder, error) {
	query := r.db.WithContext(ctx).Model(&models.PurchaseOrderModel{}).
		Where("group_id = ? AND status = ?", groupID, status)
	return r.findOrders(query, filter)
}

// FindByVendor finds purchase orders by vendor name for a group
func (r *GormPurchaseOrderRepository) FindByVendor(ctx context.Context, groupID uuid.UUID, vendor string, filter shared.Filter) ([]procurement.PurchaseOrder, error) {
	query := r.db.WithContext(ctx).Model(&models.PurchaseOrderModel{}).
		Where("group_id = ? AND vendor = ?", groupID, vendor)
	return r.findOrders(query, filter)
}

// FindPendingReceipt finds orders still awaiting goods
func (r *GormPurchaseOrderRepository) FindPendingReceipt(ctx context.Context, groupID uuid.UUID, filter shared.Filter) ([]procurement.PurchaseOrder, error) {
	query := r.db.WithContext(ctx).Model(&models.PurchaseOrderModel{}).
		Where("group_id = ? AND status IN ?", groupID, []procurement.PurchaseOrderStatus{
			procurement.PurchaseOrderStatusPartiallyShipped,
			procurement.PurchaseOrderStatusShipped,
			procurement.PurchaseOrderStatusPartiallyReceived,
		})
	return r.findOrders(query, filter)
}

func (r *GormPurchaseOrderRepository) findOrders(query *gorm.DB, filter shared.Filter) ([]procurement.PurchaseOrder, error) {
	var orderModels []models.PurchaseOrderModel
	query = r.applyFilter(query, filter)
	if err := purchaseOrderPreloads(query).Find(&orderModels).Error; err != nil {
		return nil, err
	}
	orders := make([]procurement.PurchaseOrder, len(orderModels))
	for i, model := range orderModels {
		orders[i] = *model.ToDomain()
	}
	return orders, nil
}

// Save creates or updates a purchase order
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, order *procurement.PurchaseOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.PurchaseOrderModelFromDomain(order)

		// Save the order without auto-saving associations
		if err := tx.Omit("LineItems", "StatusHistory", "Payments", "Shipments", "Receipts").
			Save(model).Error; err != nil {
			return err
		}

		return r.syncChildren(tx, order)
	})
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormPurchaseOrderRepository) SaveWithLock(ctx context.Context, order *procurement.PurchaseOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Get current version from database
		var currentVersion int
		if err := tx.Model(&models.PurchaseOrderModel{}).
			Where("group_id = ? AND id = ?", order.GroupID, order.ID).
			Select("version").
			Scan(&currentVersion).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if currentVersion != order.Version {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The order has been modified by another user")
		}

		order.Version++
		order.UpdatedAt = time.Now()

		// Update root columns with version check
		result := tx.Model(&models.PurchaseOrderModel{}).
			Where("id = ? AND version = ?", order.ID, currentVersion).
			Updates(map[string]interface{}{
				"vendor":              order.Vendor,
				"vendor_order_number": order.VendorOrderNumber,
				"order_date":          order.OrderDate,
				"notes":               order.Notes,
				"subtotal":            order.Subtotal,
				"tax":                 order.Tax,
				"shipping_cost":       order.ShippingCost,
				"other_fees":          order.OtherFees,
				"total":               order.Total,
				"status":              order.Status,
				"archived_at":         order.ArchivedAt,
				"cancelled_at":        order.CancelledAt,
				"cancel_reason":       order.CancelReason,
				"version":             order.Version,
				"updated_at":          order.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The order has been modified by another user")
		}

		return r.syncChildren(tx, order)
	})
}

// syncChildren reconciles all child tables with the aggregate's current state.
// Stale rows are deleted by exact ID so re-added children with fresh IDs never
// collide with leftovers.
func (r *GormPurchaseOrderRepository) syncChildren(tx *gorm.DB, order *procurement.PurchaseOrder) error {
	if order.ID == uuid.Nil {
		return nil
	}

	// Line items
	lineIDs := make([]uuid.UUID, len(order.LineItems))
	for i, li := range order.LineItems {
		lineIDs[i] = li.ID
	}
	if err := deleteStale(tx, &models.PurchaseOrderLineItemModel{}, "order_id", order.ID, lineIDs); err != nil {
		return err
	}
	for i := range order.LineItems {
		order.LineItems[i].OrderID = order.ID
		li := order.LineItems[i]
		lineModel := models.PurchaseOrderLineItemModel{
			ID:               li.ID,
			OrderID:          li.OrderID,
			Description:      li.Description,
			Category:         li.Category,
			LinkedID:         li.LinkedID,
			Quantity:         li.Quantity,
			UnitPrice:        li.UnitPrice,
			QuantityShipped:  li.QuantityShipped,
			QuantityReceived: li.QuantityReceived,
			CreatedAt:        li.CreatedAt,
			UpdatedAt:        li.UpdatedAt,
		}
		if err := tx.Save(&lineModel).Error; err != nil {
			return err
		}
	}

	// Status history, payments, shipments and receipts are append-only, so
	// existing rows are upserted and nothing is deleted.
	for i := range order.StatusHistory {
		sc := order.StatusHistory[i]
		scModel := models.PurchaseOrderStatusChangeModel{
			ID:      sc.ID,
			OrderID: order.ID,
			Status:  sc.Status,
			By:      sc.By,
			At:      sc.At,
			Note:    sc.Note,
		}
		if err := tx.Save(&scModel).Error; err != nil {
			return err
		}
	}

	for i := range order.Payments {
		p := order.Payments[i]
		pModel := models.PurchaseOrderPaymentModel{
			ID:         p.ID,
			OrderID:    order.ID,
			DatePaid:   p.DatePaid,
			AmountPaid: p.AmountPaid,
			Method:     p.Method,
			Reference:  p.Reference,
			Notes:      p.Notes,
			RecordedBy: p.RecordedBy,
			RecordedAt: p.RecordedAt,
		}
		if err := tx.Save(&pModel).Error; err != nil {
			return err
		}
	}

	for i := range order.Shipments {
		s := order.Shipments[i]
		sModel := models.PurchaseOrderShipmentModel{
			ID:          s.ID,
			OrderID:     order.ID,
			DateShipped: s.DateShipped,
			Carrier:     s.Carrier,
			Tracking:    s.Tracking,
			Notes:       s.Notes,
			RecordedBy:  s.RecordedBy,
			RecordedAt:  s.RecordedAt,
		}
		if err := tx.Omit("Lines").Save(&sModel).Error; err != nil {
			return err
		}
		for j := range s.Lines {
			l := s.Lines[j]
			lModel := models.PurchaseOrderShipmentLineModel{
				ID:         l.ID,
				ShipmentID: s.ID,
				LineItemID: l.LineItemID,
				Quantity:   l.Quantity,
			}
			if err := tx.Save(&lModel).Error; err != nil {
				return err
			}
		}
	}

	for i := range order.Receipts {
		rc := order.Receipts[i]
		rcModel := models.PurchaseOrderReceiptModel{
			ID:           rc.ID,
			OrderID:      order.ID,
			DateReceived: rc.DateReceived,
			Notes:        rc.Notes,
			RecordedBy:   rc.RecordedBy,
			RecordedAt:   rc.RecordedAt,
		}
		if err := tx.Omit("Lines").Save(&rcModel).Error; err != nil {
			return err
		}
		for j := range rc.Lines {
			l := rc.Lines[j]
			lModel := models.PurchaseOrderReceiptLineModel{
				ID:         l.ID,
				ReceiptID:  rc.ID,
				LineItemID: l.LineItemID,
				Quantity:   l.Quantity,
			}
			if err := tx.Save(&lModel).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

// deleteStale removes child rows no longer present on the aggregate
func deleteStale(tx *gorm.DB, model interface{}, parentColumn string, parentID uuid.UUID, keepIDs []uuid.UUID) error {
	if len(keepIDs) > 0 {
		return tx.Where(parentColumn+" = ? AND id NOT IN ?", parentID, keepIDs).
			Delete(model).Error
	}
	return tx.Where(parentColumn+" = ?", parentID).Delete(model).Error
}

// Delete deletes a purchase order and all its child rows
func (r *GormPurchaseOrderRepository) Delete(ctx context.Context, groupID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Confirm the order belongs to the group before touching children
		var model models.PurchaseOrderModel
		if err := tx.Where("group_id = ? AND id = ?", groupID, id).First(&model).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if err := tx.Where("order_id = ?", id).Delete(&models.PurchaseOrderLineItemModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", id).Delete(&models.PurchaseOrderStatusChangeModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", id).Delete(&models.PurchaseOrderPaymentModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("shipment_id IN (?)",
			tx.Model(&models.PurchaseOrderShipmentModel{}).Select("id").Where("order_id = ?", id)).
			Delete(&models.PurchaseOrderShipmentLineModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", id).Delete(&models.PurchaseOrderShipmentModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("receipt_id IN (?)",
			tx.Model(&models.PurchaseOrderReceiptModel{}).Select("id").Where("order_id = ?", id)).
			Delete(&models.PurchaseOrderReceiptLineModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", id).Delete(&models.PurchaseOrderReceiptModel{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.PurchaseOrderModel{}, "group_id = ? AND id = ?", groupID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts purchase orders for a group with optional filters
func (r *GormPurchaseOrderRepository) Count(ctx context.Context, groupID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.PurchaseOrderModel{}).
		Where("group_id = ?", groupID)
	query = r.applyFilterWithoutPagination(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts purchase orders by status for a group
func (r *GormPurchaseOrderRepository) CountByStatus(ctx context.Context, groupID uuid.UUID, status procurement.PurchaseOrderStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.PurchaseOrderModel{}).
		Where("group_id = ? AND status = ?", groupID, status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormPurchaseOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Ordering goes through the whitelist to prevent SQL injection
	if filter.OrderBy != "" {
		sortField := ValidateSortField(filter.OrderBy, PurchaseOrderSortFields, "")
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
func (r *GormPurchaseOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("vendor ILIKE ? OR vendor_order_number ILIKE ? OR notes ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "statuses":
			if statuses, ok := value.([]string); ok && len(statuses) > 0 {
				query = query.Where("status IN ?", statuses)
			}
		case "vendor":
			query = query.Where("vendor = ?", value)
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("order_date >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("order_date <= ?", t)
			}
		case "include_archived":
			if include, ok := value.(bool); ok && !include {
				query = query.Where("status <> ?", procurement.PurchaseOrderStatusArchived)
			}
		}
	}

	return query
}

// Ensure GormPurchaseOrderRepository implements PurchaseOrderRepository
var _ procurement.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)

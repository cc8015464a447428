package procurement

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/techrefresher/backend/internal/domain/catalog"
	"github.com/techrefresher/backend/internal/domain/inventory"
	"github.com/techrefresher/backend/internal/domain/procurement"
	"github.com/techrefresher/backend/internal/domain/shared"
	"github.com/techrefresher/backend/internal/infrastructure/persistence"
	"github.com/techrefresher/backend/internal/infrastructure/telemetry"
)

// PurchaseOrderService handles purchase order business operations
type PurchaseOrderService struct {
	orderRepo       procurement.PurchaseOrderRepository
	uow             persistence.UnitOfWork
	eventPublisher  shared.EventPublisher
	businessMetrics *telemetry.BusinessMetrics
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(orderRepo procurement.PurchaseOrderRepository, uow persistence.UnitOfWork) *PurchaseOrderService {
	return &PurchaseOrderService{
		orderRepo: orderRepo,
		uow:       uow,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PurchaseOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBusinessMetrics sets the business metrics collector
func (s *PurchaseOrderService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Create creates a new purchase order with optional initial line items
func (s *PurchaseOrderService) Create(ctx context.Context, groupID, userID uuid.UUID, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	order, err := procurement.NewPurchaseOrder(groupID, req.Vendor, req.VendorOrderNumber, req.OrderDate, req.Notes, userID)
	if err != nil {
		return nil, err
	}

	for _, item := range req.Items {
		if _, err := order.AddLineItem(item.Description, procurement.ItemCategory(item.Category), item.LinkedID, item.Quantity, item.UnitPrice); err != nil {
			return nil, err
		}
	}

	if req.Tax != nil || req.ShippingCost != nil || req.OtherFees != nil {
		tax, shipping, fees := order.Tax, order.ShippingCost, order.OtherFees
		if req.Tax != nil {
			tax = *req.Tax
		}
		if req.ShippingCost != nil {
			shipping = *req.ShippingCost
		}
		if req.OtherFees != nil {
			fees = *req.OtherFees
		}
		if err := order.SetCharges(tax, shipping, fees); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordPurchaseOrderCreated(ctx, groupID, order.Total)
	}
	s.publishEvents(ctx, order)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// GetByID retrieves a purchase order by ID
func (s *PurchaseOrderService) GetByID(ctx context.Context, groupID, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, groupID, orderID)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// List retrieves purchase orders with filtering and pagination
func (s *PurchaseOrderService) List(ctx context.Context, groupID uuid.UUID, filter PurchaseOrderListFilter) ([]PurchaseOrderListItemResponse, int64, error) {
	domainFilter := buildDomainFilter(filter)

	orders, err := s.orderRepo.FindAll(ctx, groupID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.orderRepo.Count(ctx, groupID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToPurchaseOrderListItemResponses(orders), total, nil
}

// ListPendingReceipt retrieves orders still awaiting goods
func (s *PurchaseOrderService) ListPendingReceipt(ctx context.Context, groupID uuid.UUID, filter PurchaseOrderListFilter) ([]PurchaseOrderListItemResponse, int64, error) {
	domainFilter := buildDomainFilter(filter)

	orders, err := s.orderRepo.FindPendingReceipt(ctx, groupID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	pending, err := s.countPendingReceipt(ctx, groupID)
	if err != nil {
		return nil, 0, err
	}

	return ToPurchaseOrderListItemResponses(orders), pending, nil
}

// GetStatusSummary retrieves order counts per status for a group
func (s *PurchaseOrderService) GetStatusSummary(ctx context.Context, groupID uuid.UUID) (*PurchaseOrderStatusSummary, error) {
	summary := &PurchaseOrderStatusSummary{}

	counts := []struct {
		status procurement.PurchaseOrderStatus
		dest   *int64
	}{
		{procurement.PurchaseOrderStatusCreated, &summary.Created},
		{procurement.PurchaseOrderStatusPaid, &summary.Paid},
		{procurement.PurchaseOrderStatusPartiallyShipped, &summary.PartiallyShipped},
		{procurement.PurchaseOrderStatusShipped, &summary.Shipped},
		{procurement.PurchaseOrderStatusPartiallyReceived, &summary.PartiallyReceived},
		{procurement.PurchaseOrderStatusReceived, &summary.Received},
		{procurement.PurchaseOrderStatusCancelled, &summary.Cancelled},
		{procurement.PurchaseOrderStatusArchived, &summary.Archived},
	}

	for _, c := range counts {
		n, err := s.orderRepo.CountByStatus(ctx, groupID, c.status)
		if err != nil {
			return nil, err
		}
		*c.dest = n
		summary.Total += n
	}

	summary.PendingReceipt = summary.Shipped + summary.PartiallyShipped + summary.PartiallyReceived
	return summary, nil
}

// Update updates header fields and charges (only while the order is editable)
func (s *PurchaseOrderService) Update(ctx context.Context, groupID, orderID uuid.UUID, req UpdatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, groupID, orderID)
	if err != nil {
		return nil, err
	}

	if req.Vendor != nil || req.VendorOrderNumber != nil || req.OrderDate != nil || req.Notes != nil {
		vendor, vendorOrderNumber, orderDate, notes := order.Vendor, order.VendorOrderNumber, order.OrderDate, order.Notes
		if req.Vendor != nil {
			vendor = *req.Vendor
		}
		if req.VendorOrderNumber != nil {
			vendorOrderNumber = *req.VendorOrderNumber
		}
		if req.OrderDate != nil {
			orderDate = *req.OrderDate
		}
		if req.Notes != nil {
			notes = *req.Notes
		}
		if err := order.UpdateHeader(vendor, vendorOrderNumber, orderDate, notes); err != nil {
			return nil, err
		}
	}

	if req.Tax != nil || req.ShippingCost != nil || req.OtherFees != nil {
		tax, shipping, fees := order.Tax, order.ShippingCost, order.OtherFees
		if req.Tax != nil {
			tax = *req.Tax
		}
		if req.ShippingCost != nil {
			shipping = *req.ShippingCost
		}
		if req.OtherFees != nil {
			fees = *req.OtherFees
		}
		if err := order.SetCharges(tax, shipping, fees); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// AddLineItem adds a line item to an order
func (s *PurchaseOrderService) AddLineItem(ctx context.Context, groupID, orderID uuid.UUID, req AddLineItemRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, groupID, orderID)
	if err != nil {
		return nil, err
	}

	if _, err := order.AddLineItem(req.Description, procurement.ItemCategory(req.Category), req.LinkedID, req.Quantity, req.UnitPrice); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// UpdateLineItem updates a line item on an order
func (s *PurchaseOrderService) UpdateLineItem(ctx context.Context, groupID, orderID, itemID uuid.UUID, req UpdateLineItemRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, groupID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.UpdateLineItem(itemID, req.Description, req.Quantity, req.UnitPrice); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// RemoveLineItem removes a line item from an order
func (s *PurchaseOrderService) RemoveLineItem(ctx context.Context, groupID, orderID, itemID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, groupID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.RemoveLineItem(itemID); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// LinkLineItem points a line item at a catalog entry.
// Allowed after editing closes so legacy orders can be linked before receiving.
func (s *PurchaseOrderService) LinkLineItem(ctx context.Context, groupID, orderID, itemID uuid.UUID, req LinkLineItemRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, groupID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.LinkLineItem(itemID, req.LinkedID); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// RecordPayment appends a payment to the order's payment log
func (s *PurchaseOrderService) RecordPayment(ctx context.Context, groupID, orderID, userID uuid.UUID, req RecordPaymentRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, groupID, orderID)
	if err != nil {
		return nil, err
	}

	input := procurement.PaymentInput{
		DatePaid:   req.DatePaid,
		AmountPaid: req.AmountPaid,
		Method:     req.Method,
		Reference:  req.Reference,
		Notes:      req.Notes,
	}
	if _, err := order.RecordPayment(input, userID); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordPayment(ctx, groupID, req.Method)
	}
	s.publishEvents(ctx, order)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// RecordShipment appends a shipment to the order's shipment log
func (s *PurchaseOrderService) RecordShipment(ctx context.Context, groupID, orderID, userID uuid.UUID, req RecordShipmentRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, groupID, orderID)
	if err != nil {
		return nil, err
	}

	input := procurement.ShipmentInput{
		DateShipped: req.DateShipped,
		Carrier:     req.Carrier,
		Tracking:    req.Tracking,
		Notes:       req.Notes,
		Lines:       make([]procurement.ShipmentLineInput, len(req.Lines)),
	}
	for i, l := range req.Lines {
		input.Lines[i] = procurement.ShipmentLineInput{LineItemID: l.LineItemID, Quantity: l.Quantity}
	}

	if _, err := order.RecordShipment(input, userID); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Receive records a receipt, increments each received line's linked catalog
// entry stock, and folds PART lines into part inventory at the line's unit
// price, all in the same transaction as the order update.
func (s *PurchaseOrderService) Receive(ctx context.Context, groupID, orderID, userID uuid.UUID, req ReceiveRequest) (*ReceiveResultResponse, error) {
	input := procurement.ReceiptInput{
		DateReceived: req.DateReceived,
		Notes:        req.Notes,
		Lines:        make([]procurement.ReceiptLineInput, len(req.Lines)),
	}
	for i, l := range req.Lines {
		input.Lines[i] = procurement.ReceiptLineInput{LineItemID: l.LineItemID, Quantity: l.Quantity}
	}

	var order *procurement.PurchaseOrder
	var received []procurement.ReceivedLine
	var parts []*inventory.Part

	err := s.uow.Execute(ctx, func(repos *persistence.Repositories) error {
		var err error
		order, err = repos.PurchaseOrders.FindByID(ctx, groupID, orderID)
		if err != nil {
			return err
		}

		received, err = order.Receive(input, userID)
		if err != nil {
			return err
		}

		for _, line := range received {
			item, err := repos.CatalogItems.FindByID(ctx, groupID, line.LinkedID)
			if err != nil {
				return err
			}
			if err := item.IncrementStock(line.Quantity); err != nil {
				return err
			}
			if err := repos.CatalogItems.SaveWithLock(ctx, item); err != nil {
				return err
			}

			if line.Category == procurement.ItemCategoryPart {
				part, err := upsertReceivedPart(ctx, repos.Parts, groupID, item, line)
				if err != nil {
					return err
				}
				if part != nil {
					parts = append(parts, part)
				}
			}
		}

		return repos.PurchaseOrders.SaveWithLock(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)
	for _, part := range parts {
		s.publishEvents(ctx, part)
	}

	return &ReceiveResultResponse{
		Order:           ToPurchaseOrderResponse(order),
		ReceivedLines:   ToReceivedLineResponses(received),
		IsFullyReceived: order.Status == procurement.PurchaseOrderStatusReceived,
	}, nil
}

// Archive archives a fully received order
func (s *PurchaseOrderService) Archive(ctx context.Context, groupID, orderID, userID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, groupID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.Archive(userID); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Cancel cancels an order that has not shipped yet
func (s *PurchaseOrderService) Cancel(ctx context.Context, groupID, orderID, userID uuid.UUID, req CancelPurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, groupID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.Cancel(req.Reason, userID); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Delete deletes an order that has no activity recorded against it
func (s *PurchaseOrderService) Delete(ctx context.Context, groupID, orderID uuid.UUID) error {
	order, err := s.orderRepo.FindByID(ctx, groupID, orderID)
	if err != nil {
		return err
	}

	if order.Status != procurement.PurchaseOrderStatusCreated {
		return shared.NewDomainError("INVALID_STATE", "Only orders without recorded activity can be deleted")
	}

	return s.orderRepo.Delete(ctx, groupID, orderID)
}

// publishEvents publishes and clears each aggregate's pending domain events.
// Delivery failures are handled by the bus, not propagated to the caller.
func (s *PurchaseOrderService) publishEvents(ctx context.Context, aggregates ...shared.AggregateRoot) {
	for _, aggregate := range aggregates {
		if s.eventPublisher != nil {
			if events := aggregate.GetDomainEvents(); len(events) > 0 {
				_ = s.eventPublisher.Publish(ctx, events...)
			}
		}
		aggregate.ClearDomainEvents()
	}
}

// upsertReceivedPart folds one received PART line into part inventory,
// keyed by the slug of the linked catalog entry's attributes. A first
// receipt creates the part; later receipts add stock at the line's unit
// price so the weighted average reflects the purchase. Catalog entries
// without a brand and model have no part identity; those lines only move
// the catalog stock counter and return nil.
func upsertReceivedPart(ctx context.Context, partRepo inventory.PartRepository, groupID uuid.UUID, item *catalog.Item, line procurement.ReceivedLine) (*inventory.Part, error) {
	if item.Brand == "" || item.Model == "" {
		return nil, nil
	}
	slug := inventory.PartSlug(item.Brand, item.Model, item.Name, item.Color)
	part, err := partRepo.FindBySlug(ctx, groupID, slug)
	isNew := false
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		part, err = inventory.NewPart(groupID, item.Brand, item.Model, item.Name, item.Color)
		if err != nil {
			return nil, err
		}
		isNew = true
	}

	if err := part.AddStock(line.Quantity, line.UnitPrice); err != nil {
		return nil, err
	}

	if isNew {
		err = partRepo.Save(ctx, part)
	} else {
		err = partRepo.SaveWithLock(ctx, part)
	}
	if err != nil {
		return nil, err
	}
	return part, nil
}

// buildDomainFilter maps the list filter to a repository filter with defaults
func buildDomainFilter(filter PurchaseOrderListFilter) shared.Filter {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search

	if filter.Status != nil {
		domainFilter.Filters["status"] = string(*filter.Status)
	}
	if filter.Vendor != "" {
		domainFilter.Filters["vendor"] = filter.Vendor
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}

	return domainFilter
}

// countPendingReceipt sums the statuses that still await goods
func (s *PurchaseOrderService) countPendingReceipt(ctx context.Context, groupID uuid.UUID) (int64, error) {
	var pending int64
	for _, status := range []procurement.PurchaseOrderStatus{
		procurement.PurchaseOrderStatusShipped,
		procurement.PurchaseOrderStatusPartiallyShipped,
		procurement.PurchaseOrderStatusPartiallyReceived,
	} {
		n, err := s.orderRepo.CountByStatus(ctx, groupID, status)
		if err != nil {
			return 0, err
		}
		pending += n
	}
	return pending, nil
}

package procurement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/techrefresher/backend/internal/domain/procurement"
)

// ==================== Requests ====================

// CreateLineItemInput represents a line item in the create order request
type CreateLineItemInput struct {
	Description string          `json:"description" binding:"required,min=1,max=300"`
	Category    string          `json:"category" binding:"required,itemcategory"`
	LinkedID    *uuid.UUID      `json:"linked_id"`
	Quantity    int64           `json:"quantity" binding:"required,min=1"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
}

// CreatePurchaseOrderRequest represents a request to create a purchase order
type CreatePurchaseOrderRequest struct {
	Vendor            string                `json:"vendor" binding:"required,min=1,max=200"`
	VendorOrderNumber string                `json:"vendor_order_number" binding:"max=100"`
	OrderDate         time.Time             `json:"order_date" binding:"required"`
	Notes             string                `json:"notes"`
	Items             []CreateLineItemInput `json:"items"`
	Tax               *decimal.Decimal      `json:"tax"`
	ShippingCost      *decimal.Decimal      `json:"shipping_cost"`
	OtherFees         *decimal.Decimal      `json:"other_fees"`
}

// UpdatePurchaseOrderRequest updates header fields and charges.
// Nil fields are left unchanged. Only valid while the order is editable.
type UpdatePurchaseOrderRequest struct {
	Vendor            *string          `json:"vendor"`
	VendorOrderNumber *string          `json:"vendor_order_number"`
	OrderDate         *time.Time       `json:"order_date"`
	Notes             *string          `json:"notes"`
	Tax               *decimal.Decimal `json:"tax"`
	ShippingCost      *decimal.Decimal `json:"shipping_cost"`
	OtherFees         *decimal.Decimal `json:"other_fees"`
}

// AddLineItemRequest represents a request to add a line item to an order
type AddLineItemRequest struct {
	Description string          `json:"description" binding:"required,min=1,max=300"`
	Category    string          `json:"category" binding:"required,itemcategory"`
	LinkedID    *uuid.UUID      `json:"linked_id"`
	Quantity    int64           `json:"quantity" binding:"required,min=1"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
}

// UpdateLineItemRequest represents a request to update a line item
type UpdateLineItemRequest struct {
	Description string          `json:"description" binding:"required,min=1,max=300"`
	Quantity    int64           `json:"quantity" binding:"required,min=1"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
}

// LinkLineItemRequest points a line item at a catalog entry
type LinkLineItemRequest struct {
	LinkedID uuid.UUID `json:"linked_id" binding:"required"`
}

// RecordPaymentRequest represents a request to record a payment
type RecordPaymentRequest struct {
	DatePaid   time.Time       `json:"date_paid" binding:"required"`
	AmountPaid decimal.Decimal `json:"amount_paid" binding:"required"`
	Method     string          `json:"method" binding:"max=50"`
	Reference  string          `json:"reference" binding:"max=100"`
	Notes      string          `json:"notes" binding:"max=500"`
}

// ShipmentLineInput ties a shipped quantity to a line item
type ShipmentLineInput struct {
	LineItemID uuid.UUID `json:"line_item_id" binding:"required"`
	Quantity   int64     `json:"quantity" binding:"required,min=1"`
}

// RecordShipmentRequest represents a request to record a shipment
type RecordShipmentRequest struct {
	DateShipped time.Time           `json:"date_shipped" binding:"required"`
	Carrier     string              `json:"carrier" binding:"max=100"`
	Tracking    string              `json:"tracking" binding:"max=100"`
	Notes       string              `json:"notes" binding:"max=500"`
	Lines       []ShipmentLineInput `json:"lines" binding:"required,min=1,dive"`
}

// ReceiptLineInput ties a received quantity to a line item
type ReceiptLineInput struct {
	LineItemID uuid.UUID `json:"line_item_id" binding:"required"`
	Quantity   int64     `json:"quantity" binding:"required,min=1"`
}

// ReceiveRequest represents a request to receive goods against an order
type ReceiveRequest struct {
	DateReceived time.Time          `json:"date_received" binding:"required"`
	Notes        string             `json:"notes" binding:"max=500"`
	Lines        []ReceiptLineInput `json:"lines" binding:"required,min=1,dive"`
}

// CancelPurchaseOrderRequest represents a request to cancel an order
type CancelPurchaseOrderRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// PurchaseOrderListFilter represents filter options for the order list
type PurchaseOrderListFilter struct {
	Search    string                           `form:"search"`
	Status    *procurement.PurchaseOrderStatus `form:"status"`
	Vendor    string                           `form:"vendor"`
	StartDate *time.Time                       `form:"start_date"`
	EndDate   *time.Time                       `form:"end_date"`
	Page      int                              `form:"page" binding:"omitempty,min=1"`
	PageSize  int                              `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string                           `form:"order_by"`
	OrderDir  string                           `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ==================== Responses ====================

// LineItemResponse represents a line item in API responses
type LineItemResponse struct {
	ID                 uuid.UUID       `json:"id"`
	Description        string          `json:"description"`
	Category           string          `json:"category"`
	LinkedID           *uuid.UUID      `json:"linked_id,omitempty"`
	Quantity           int64           `json:"quantity"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	Amount             decimal.Decimal `json:"amount"`
	QuantityShipped    int64           `json:"quantity_shipped"`
	QuantityReceived   int64           `json:"quantity_received"`
	RemainingToShip    int64           `json:"remaining_to_ship"`
	ReceivableQuantity int64           `json:"receivable_quantity"`
}

// StatusChangeResponse represents a status history entry
type StatusChangeResponse struct {
	Status string    `json:"status"`
	By     uuid.UUID `json:"by"`
	At     time.Time `json:"at"`
	Note   string    `json:"note,omitempty"`
}

// PaymentResponse represents a payment log entry
type PaymentResponse struct {
	ID         uuid.UUID       `json:"id"`
	DatePaid   time.Time       `json:"date_paid"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
	Method     string          `json:"method,omitempty"`
	Reference  string          `json:"reference,omitempty"`
	Notes      string          `json:"notes,omitempty"`
	RecordedBy uuid.UUID       `json:"recorded_by"`
	RecordedAt time.Time       `json:"recorded_at"`
}

// ShipmentLineResponse represents one line of a shipment log entry
type ShipmentLineResponse struct {
	LineItemID uuid.UUID `json:"line_item_id"`
	Quantity   int64     `json:"quantity"`
}

// ShipmentResponse represents a shipment log entry
type ShipmentResponse struct {
	ID          uuid.UUID              `json:"id"`
	DateShipped time.Time              `json:"date_shipped"`
	Carrier     string                 `json:"carrier,omitempty"`
	Tracking    string                 `json:"tracking,omitempty"`
	Notes       string                 `json:"notes,omitempty"`
	Lines       []ShipmentLineResponse `json:"lines"`
	RecordedBy  uuid.UUID              `json:"recorded_by"`
	RecordedAt  time.Time              `json:"recorded_at"`
}

// ReceiptLineResponse represents one line of a receipt log entry
type ReceiptLineResponse struct {
	LineItemID uuid.UUID `json:"line_item_id"`
	Quantity   int64     `json:"quantity"`
}

// ReceiptResponse represents a receipt log entry
type ReceiptResponse struct {
	ID           uuid.UUID             `json:"id"`
	DateReceived time.Time             `json:"date_received"`
	Notes        string                `json:"notes,omitempty"`
	Lines        []ReceiptLineResponse `json:"lines"`
	RecordedBy   uuid.UUID             `json:"recorded_by"`
	RecordedAt   time.Time             `json:"recorded_at"`
}

// PurchaseOrderResponse represents a full purchase order in API responses
type PurchaseOrderResponse struct {
	ID                uuid.UUID              `json:"id"`
	GroupID           uuid.UUID              `json:"group_id"`
	Vendor            string                 `json:"vendor"`
	VendorOrderNumber string                 `json:"vendor_order_number,omitempty"`
	OrderDate         time.Time              `json:"order_date"`
	Notes             string                 `json:"notes,omitempty"`
	LineItems         []LineItemResponse     `json:"line_items"`
	Subtotal          decimal.Decimal        `json:"subtotal"`
	Tax               decimal.Decimal        `json:"tax"`
	ShippingCost      decimal.Decimal        `json:"shipping_cost"`
	OtherFees         decimal.Decimal        `json:"other_fees"`
	Total             decimal.Decimal        `json:"total"`
	AmountPaid        decimal.Decimal        `json:"amount_paid"`
	Status            string                 `json:"status"`
	StatusHistory     []StatusChangeResponse `json:"status_history"`
	Payments          []PaymentResponse      `json:"payments"`
	Shipments         []ShipmentResponse     `json:"shipments"`
	Receipts          []ReceiptResponse      `json:"receipts"`
	ArchivedAt        *time.Time             `json:"archived_at,omitempty"`
	CancelledAt       *time.Time             `json:"cancelled_at,omitempty"`
	CancelReason      string                 `json:"cancel_reason,omitempty"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
	Version           int                    `json:"version"`
}

// PurchaseOrderListItemResponse is the reduced shape used in list responses
type PurchaseOrderListItemResponse struct {
	ID                uuid.UUID       `json:"id"`
	Vendor            string          `json:"vendor"`
	VendorOrderNumber string          `json:"vendor_order_number,omitempty"`
	OrderDate         time.Time       `json:"order_date"`
	Status            string          `json:"status"`
	Total             decimal.Decimal `json:"total"`
	ItemCount         int             `json:"item_count"`
	TotalOrdered      int64           `json:"total_ordered"`
	TotalShipped      int64           `json:"total_shipped"`
	TotalReceived     int64           `json:"total_received"`
	CreatedAt         time.Time       `json:"created_at"`
}

// ReceivedLineResponse describes one received line and the catalog entry it stocked
type ReceivedLineResponse struct {
	LineItemID  uuid.UUID `json:"line_item_id"`
	LinkedID    uuid.UUID `json:"linked_id"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Quantity    int64     `json:"quantity"`
}

// ReceiveResultResponse is the result of receiving goods against an order
type ReceiveResultResponse struct {
	Order           PurchaseOrderResponse  `json:"order"`
	ReceivedLines   []ReceivedLineResponse `json:"received_lines"`
	IsFullyReceived bool                   `json:"is_fully_received"`
}

// PurchaseOrderStatusSummary counts orders per status for a group
type PurchaseOrderStatusSummary struct {
	Created           int64 `json:"created"`
	Paid              int64 `json:"paid"`
	PartiallyShipped  int64 `json:"partially_shipped"`
	Shipped           int64 `json:"shipped"`
	PartiallyReceived int64 `json:"partially_received"`
	Received          int64 `json:"received"`
	Cancelled         int64 `json:"cancelled"`
	Archived          int64 `json:"archived"`
	Total             int64 `json:"total"`
	PendingReceipt    int64 `json:"pending_receipt"`
}

// ==================== Mappers ====================

// ToLineItemResponse converts a domain line item to its response shape
func ToLineItemResponse(item *procurement.LineItem) LineItemResponse {
	return LineItemResponse{
		ID:                 item.ID,
		Description:        item.Description,
		Category:           item.Category.String(),
		LinkedID:           item.LinkedID,
		Quantity:           item.Quantity,
		UnitPrice:          item.UnitPrice,
		Amount:             item.Amount(),
		QuantityShipped:    item.QuantityShipped,
		QuantityReceived:   item.QuantityReceived,
		RemainingToShip:    item.RemainingToShip(),
		ReceivableQuantity: item.ReceivableQuantity(),
	}
}

// ToPurchaseOrderResponse converts a domain purchase order to its response shape
func ToPurchaseOrderResponse(order *procurement.PurchaseOrder) PurchaseOrderResponse {
	lineItems := make([]LineItemResponse, len(order.LineItems))
	for i := range order.LineItems {
		lineItems[i] = ToLineItemResponse(&order.LineItems[i])
	}

	history := make([]StatusChangeResponse, len(order.StatusHistory))
	for i, sc := range order.StatusHistory {
		history[i] = StatusChangeResponse{
			Status: sc.Status.String(),
			By:     sc.By,
			At:     sc.At,
			Note:   sc.Note,
		}
	}

	payments := make([]PaymentResponse, len(order.Payments))
	for i, p := range order.Payments {
		payments[i] = PaymentResponse{
			ID:         p.ID,
			DatePaid:   p.DatePaid,
			AmountPaid: p.AmountPaid,
			Method:     p.Method,
			Reference:  p.Reference,
			Notes:      p.Notes,
			RecordedBy: p.RecordedBy,
			RecordedAt: p.RecordedAt,
		}
	}

	shipments := make([]ShipmentResponse, len(order.Shipments))
	for i, sh := range order.Shipments {
		lines := make([]ShipmentLineResponse, len(sh.Lines))
		for j, l := range sh.Lines {
			lines[j] = ShipmentLineResponse{LineItemID: l.LineItemID, Quantity: l.Quantity}
		}
		shipments[i] = ShipmentResponse{
			ID:          sh.ID,
			DateShipped: sh.DateShipped,
			Carrier:     sh.Carrier,
			Tracking:    sh.Tracking,
			Notes:       sh.Notes,
			Lines:       lines,
			RecordedBy:  sh.RecordedBy,
			RecordedAt:  sh.RecordedAt,
		}
	}

	receipts := make([]ReceiptResponse, len(order.Receipts))
	for i, r := range order.Receipts {
		lines := make([]ReceiptLineResponse, len(r.Lines))
		for j, l := range r.Lines {
			lines[j] = ReceiptLineResponse{LineItemID: l.LineItemID, Quantity: l.Quantity}
		}
		receipts[i] = ReceiptResponse{
			ID:           r.ID,
			DateReceived: r.DateReceived,
			Notes:        r.Notes,
			Lines:        lines,
			RecordedBy:   r.RecordedBy,
			RecordedAt:   r.RecordedAt,
		}
	}

	return PurchaseOrderResponse{
		ID:                order.ID,
		GroupID:           order.GroupID,
		Vendor:            order.Vendor,
		VendorOrderNumber: order.VendorOrderNumber,
		OrderDate:         order.OrderDate,
		Notes:             order.Notes,
		LineItems:         lineItems,
		Subtotal:          order.Subtotal,
		Tax:               order.Tax,
		ShippingCost:      order.ShippingCost,
		OtherFees:         order.OtherFees,
		Total:             order.Total,
		AmountPaid:        order.TotalPaidAmount(),
		Status:            order.Status.String(),
		StatusHistory:     history,
		Payments:          payments,
		Shipments:         shipments,
		Receipts:          receipts,
		ArchivedAt:        order.ArchivedAt,
		CancelledAt:       order.CancelledAt,
		CancelReason:      order.CancelReason,
		CreatedAt:         order.CreatedAt,
		UpdatedAt:         order.UpdatedAt,
		Version:           order.Version,
	}
}

// ToPurchaseOrderListItemResponse converts an order to the list row shape
func ToPurchaseOrderListItemResponse(order *procurement.PurchaseOrder) PurchaseOrderListItemResponse {
	return PurchaseOrderListItemResponse{
		ID:                order.ID,
		Vendor:            order.Vendor,
		VendorOrderNumber: order.VendorOrderNumber,
		OrderDate:         order.OrderDate,
		Status:            order.Status.String(),
		Total:             order.Total,
		ItemCount:         order.ItemCount(),
		TotalOrdered:      order.TotalOrderedQuantity(),
		TotalShipped:      order.TotalShippedQuantity(),
		TotalReceived:     order.TotalReceivedQuantity(),
		CreatedAt:         order.CreatedAt,
	}
}

// ToPurchaseOrderListItemResponses converts a slice of orders to list rows
func ToPurchaseOrderListItemResponses(orders []procurement.PurchaseOrder) []PurchaseOrderListItemResponse {
	responses := make([]PurchaseOrderListItemResponse, len(orders))
	for i := range orders {
		responses[i] = ToPurchaseOrderListItemResponse(&orders[i])
	}
	return responses
}

// ToReceivedLineResponses converts received lines to their response shape
func ToReceivedLineResponses(lines []procurement.ReceivedLine) []ReceivedLineResponse {
	responses := make([]ReceivedLineResponse, len(lines))
	for i, l := range lines {
		responses[i] = ReceivedLineResponse{
			LineItemID:  l.LineItemID,
			LinkedID:    l.LinkedID,
			Category:    l.Category.String(),
			Description: l.Description,
			Quantity:    l.Quantity,
		}
	}
	return responses
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/techrefresher/backend/internal/domain/procurement"
)

// PurchaseOrderModel is the persistence model for the PurchaseOrder aggregate.
type PurchaseOrderModel struct {
	GroupAggregateModel
	Vendor            string    `gorm:"type:varchar(200);not null"`
	VendorOrderNumber string    `gorm:"type:varchar(100)"`
	OrderDate         time.Time `gorm:"not null;index"`
	Notes             string    `gorm:"type:text"`

	LineItems []PurchaseOrderLineItemModel `gorm:"foreignKey:OrderID;references:ID"`

	Subtotal     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Tax          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ShippingCost decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	OtherFees    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Total        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`

	Status        procurement.PurchaseOrderStatus  `gorm:"type:varchar(20);not null;default:'CREATED'"`
	StatusHistory []PurchaseOrderStatusChangeModel `gorm:"foreignKey:OrderID;references:ID"`
	Payments      []PurchaseOrderPaymentModel      `gorm:"foreignKey:OrderID;references:ID"`
	Shipments     []PurchaseOrderShipmentModel     `gorm:"foreignKey:OrderID;references:ID"`
	Receipts      []PurchaseOrderReceiptModel      `gorm:"foreignKey:OrderID;references:ID"`

	ArchivedAt   *time.Time
	CancelledAt  *time.Time
	CancelReason string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (PurchaseOrderModel) TableName() string {
	return "purchase_orders"
}

// PurchaseOrderLineItemModel is the persistence model for purchase order line items.
type PurchaseOrderLineItemModel struct {
	ID               uuid.UUID                `gorm:"type:uuid;primary_key"`
	OrderID          uuid.UUID                `gorm:"type:uuid;not null;index"`
	Description      string                   `gorm:"type:varchar(300);not null"`
	Category         procurement.ItemCategory `gorm:"type:varchar(20);not null"`
	LinkedID         *uuid.UUID               `gorm:"type:uuid;index"`
	Quantity         int64                    `gorm:"not null"`
	UnitPrice        decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	QuantityShipped  int64                    `gorm:"not null;default:0"`
	QuantityReceived int64                    `gorm:"not null;default:0"`
	CreatedAt        time.Time                `gorm:"not null"`
	UpdatedAt        time.Time                `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderLineItemModel) TableName() string {
	return "purchase_order_line_items"
}

// PurchaseOrderStatusChangeModel is the persistence model for status history entries.
type PurchaseOrderStatusChangeModel struct {
	ID      uuid.UUID                       `gorm:"type:uuid;primary_key"`
	OrderID uuid.UUID                       `gorm:"type:uuid;not null;index"`
	Status  procurement.PurchaseOrderStatus `gorm:"type:varchar(20);not null"`
	By      uuid.UUID                       `gorm:"type:uuid;not null"`
	At      time.Time                       `gorm:"not null"`
	Note    string                          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (PurchaseOrderStatusChangeModel) TableName() string {
	return "purchase_order_status_history"
}

// PurchaseOrderPaymentModel is the persistence model for payment records.
type PurchaseOrderPaymentModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	DatePaid   time.Time       `gorm:"not null"`
	AmountPaid decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Method     string          `gorm:"type:varchar(50)"`
	Reference  string          `gorm:"type:varchar(100)"`
	Notes      string          `gorm:"type:varchar(500)"`
	RecordedBy uuid.UUID       `gorm:"type:uuid;not null"`
	RecordedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderPaymentModel) TableName() string {
	return "purchase_order_payments"
}

// PurchaseOrderShipmentModel is the persistence model for shipment records.
type PurchaseOrderShipmentModel struct {
	ID          uuid.UUID                        `gorm:"type:uuid;primary_key"`
	OrderID     uuid.UUID                        `gorm:"type:uuid;not null;index"`
	DateShipped time.Time                        `gorm:"not null"`
	Carrier     string                           `gorm:"type:varchar(100)"`
	Tracking    string                           `gorm:"type:varchar(100)"`
	Notes       string                           `gorm:"type:varchar(500)"`
	Lines       []PurchaseOrderShipmentLineModel `gorm:"foreignKey:ShipmentID;references:ID"`
	RecordedBy  uuid.UUID                        `gorm:"type:uuid;not null"`
	RecordedAt  time.Time                        `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderShipmentModel) TableName() string {
	return "purchase_order_shipments"
}

// PurchaseOrderShipmentLineModel ties a shipment to a line item.
type PurchaseOrderShipmentLineModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	ShipmentID uuid.UUID `gorm:"type:uuid;not null;index"`
	LineItemID uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity   int64     `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderShipmentLineModel) TableName() string {
	return "purchase_order_shipment_lines"
}

// PurchaseOrderReceiptModel is the persistence model for receiving records.
type PurchaseOrderReceiptModel struct {
	ID           uuid.UUID                       `gorm:"type:uuid;primary_key"`
	OrderID      uuid.UUID                       `gorm:"type:uuid;not null;index"`
	DateReceived time.Time                       `gorm:"not null"`
	Notes        string                          `gorm:"type:varchar(500)"`
	Lines        []PurchaseOrderReceiptLineModel `gorm:"foreignKey:ReceiptID;references:ID"`
	RecordedBy   uuid.UUID                       `gorm:"type:uuid;not null"`
	RecordedAt   time.Time                       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderReceiptModel) TableName() string {
	return "purchase_order_receipts"
}

// PurchaseOrderReceiptLineModel ties a receipt to a line item.
type PurchaseOrderReceiptLineModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	ReceiptID  uuid.UUID `gorm:"type:uuid;not null;index"`
	LineItemID uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity   int64     `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderReceiptLineModel) TableName() string {
	return "purchase_order_receipt_lines"
}

// ToDomain converts the persistence model to a domain PurchaseOrder aggregate.
func (m *PurchaseOrderModel) ToDomain() *procurement.PurchaseOrder {
	order := &procurement.PurchaseOrder{
		GroupAggregateRoot: m.groupAggregateRoot(),
		Vendor:             m.Vendor,
		VendorOrderNumber:  m.VendorOrderNumber,
		OrderDate:          m.OrderDate,
		Notes:              m.Notes,
		Subtotal:           m.Subtotal,
		Tax:                m.Tax,
		ShippingCost:       m.ShippingCost,
		OtherFees:          m.OtherFees,
		Total:              m.Total,
		Status:             m.Status,
		ArchivedAt:         m.ArchivedAt,
		CancelledAt:        m.CancelledAt,
		CancelReason:       m.CancelReason,
	}

	order.LineItems = make([]procurement.LineItem, len(m.LineItems))
	for i, li := range m.LineItems {
		order.LineItems[i] = procurement.LineItem{
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
	}

	order.StatusHistory = make([]procurement.StatusChange, len(m.StatusHistory))
	for i, sc := range m.StatusHistory {
		order.StatusHistory[i] = procurement.StatusChange{
			ID:      sc.ID,
			OrderID: sc.OrderID,
			Status:  sc.Status,
			By:      sc.By,
			At:      sc.At,
			Note:    sc.Note,
		}
	}

	order.Payments = make([]procurement.Payment, len(m.Payments))
	for i, p := range m.Payments {
		order.Payments[i] = procurement.Payment{
			ID:         p.ID,
			OrderID:    p.OrderID,
			DatePaid:   p.DatePaid,
			AmountPaid: p.AmountPaid,
			Method:     p.Method,
			Reference:  p.Reference,
			Notes:      p.Notes,
			RecordedBy: p.RecordedBy,
			RecordedAt: p.RecordedAt,
		}
	}

	order.Shipments = make([]procurement.Shipment, len(m.Shipments))
	for i, s := range m.Shipments {
		lines := make([]procurement.ShipmentLine, len(s.Lines))
		for j, l := range s.Lines {
			lines[j] = procurement.ShipmentLine{
				ID:         l.ID,
				ShipmentID: l.ShipmentID,
				LineItemID: l.LineItemID,
				Quantity:   l.Quantity,
			}
		}
		order.Shipments[i] = procurement.Shipment{
			ID:          s.ID,
			OrderID:     s.OrderID,
			DateShipped: s.DateShipped,
			Carrier:     s.Carrier,
			Tracking:    s.Tracking,
			Notes:       s.Notes,
			Lines:       lines,
			RecordedBy:  s.RecordedBy,
			RecordedAt:  s.RecordedAt,
		}
	}

	order.Receipts = make([]procurement.Receipt, len(m.Receipts))
	for i, r := range m.Receipts {
		lines := make([]procurement.ReceiptLine, len(r.Lines))
		for j, l := range r.Lines {
			lines[j] = procurement.ReceiptLine{
				ID:         l.ID,
				ReceiptID:  l.ReceiptID,
				LineItemID: l.LineItemID,
				Quantity:   l.Quantity,
			}
		}
		order.Receipts[i] = procurement.Receipt{
			ID:           r.ID,
			OrderID:      r.OrderID,
			DateReceived: r.DateReceived,
			Notes:        r.Notes,
			Lines:        lines,
			RecordedBy:   r.RecordedBy,
			RecordedAt:   r.RecordedAt,
		}
	}

	return order
}

// FromDomain populates the persistence model from a domain PurchaseOrder aggregate.
func (m *PurchaseOrderModel) FromDomain(o *procurement.PurchaseOrder) {
	m.FromDomainGroupAggregateRoot(o.GroupAggregateRoot)
	m.Vendor = o.Vendor
	m.VendorOrderNumber = o.VendorOrderNumber
	m.OrderDate = o.OrderDate
	m.Notes = o.Notes
	m.Subtotal = o.Subtotal
	m.Tax = o.Tax
	m.ShippingCost = o.ShippingCost
	m.OtherFees = o.OtherFees
	m.Total = o.Total
	m.Status = o.Status
	m.ArchivedAt = o.ArchivedAt
	m.CancelledAt = o.CancelledAt
	m.CancelReason = o.CancelReason

	m.LineItems = make([]PurchaseOrderLineItemModel, len(o.LineItems))
	for i, li := range o.LineItems {
		m.LineItems[i] = PurchaseOrderLineItemModel{
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
	}

	m.StatusHistory = make([]PurchaseOrderStatusChangeModel, len(o.StatusHistory))
	for i, sc := range o.StatusHistory {
		m.StatusHistory[i] = PurchaseOrderStatusChangeModel{
			ID:      sc.ID,
			OrderID: sc.OrderID,
			Status:  sc.Status,
			By:      sc.By,
			At:      sc.At,
			Note:    sc.Note,
		}
	}

	m.Payments = make([]PurchaseOrderPaymentModel, len(o.Payments))
	for i, p := range o.Payments {
		m.Payments[i] = PurchaseOrderPaymentModel{
			ID:         p.ID,
			OrderID:    p.OrderID,
			DatePaid:   p.DatePaid,
			AmountPaid: p.AmountPaid,
			Method:     p.Method,
			Reference:  p.Reference,
			Notes:      p.Notes,
			RecordedBy: p.RecordedBy,
			RecordedAt: p.RecordedAt,
		}
	}

	m.Shipments = make([]PurchaseOrderShipmentModel, len(o.Shipments))
	for i, s := range o.Shipments {
		lines := make([]PurchaseOrderShipmentLineModel, len(s.Lines))
		for j, l := range s.Lines {
			lines[j] = PurchaseOrderShipmentLineModel{
				ID:         l.ID,
				ShipmentID: l.ShipmentID,
				LineItemID: l.LineItemID,
				Quantity:   l.Quantity,
			}
		}
		m.Shipments[i] = PurchaseOrderShipmentModel{
			ID:          s.ID,
			OrderID:     s.OrderID,
			DateShipped: s.DateShipped,
			Carrier:     s.Carrier,
			Tracking:    s.Tracking,
			Notes:       s.Notes,
			Lines:       lines,
			RecordedBy:  s.RecordedBy,
			RecordedAt:  s.RecordedAt,
		}
	}

	m.Receipts = make([]PurchaseOrderReceiptModel, len(o.Receipts))
	for i, r := range o.Receipts {
		lines := make([]PurchaseOrderReceiptLineModel, len(r.Lines))
		for j, l := range r.Lines {
			lines[j] = PurchaseOrderReceiptLineModel{
				ID:         l.ID,
				ReceiptID:  l.ReceiptID,
				LineItemID: l.LineItemID,
				Quantity:   l.Quantity,
			}
		}
		m.Receipts[i] = PurchaseOrderReceiptModel{
			ID:           r.ID,
			OrderID:      r.OrderID,
			DateReceived: r.DateReceived,
			Notes:        r.Notes,
			Lines:        lines,
			RecordedBy:   r.RecordedBy,
			RecordedAt:   r.RecordedAt,
		}
	}
}

// PurchaseOrderModelFromDomain creates a new persistence model from a domain aggregate.
func PurchaseOrderModelFromDomain(o *procurement.PurchaseOrder) *PurchaseOrderModel {
	m := &PurchaseOrderModel{}
	m.FromDomain(o)
	return m
}

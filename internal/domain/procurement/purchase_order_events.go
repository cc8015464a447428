package procurement

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/techrefresher/backend/internal/domain/shared"
)

const (
	AggregateTypePurchaseOrder = "PurchaseOrder"

	EventTypePurchaseOrderCreated          = "purchase_order.created"
	EventTypePurchaseOrderPaymentRecorded  = "purchase_order.payment_recorded"
	EventTypePurchaseOrderShipmentRecorded = "purchase_order.shipment_recorded"
	EventTypePurchaseOrderReceived         = "purchase_order.received"
	EventTypePurchaseOrderArchived         = "purchase_order.archived"
	EventTypePurchaseOrderCancelled        = "purchase_order.cancelled"
)

// PurchaseOrderCreatedEvent is raised when a purchase order is created
type PurchaseOrderCreatedEvent struct {
	shared.BaseDomainEvent
	Vendor    string          `json:"vendor"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
}

// NewPurchaseOrderCreatedEvent creates a PurchaseOrderCreatedEvent
func NewPurchaseOrderCreatedEvent(order *PurchaseOrder) *PurchaseOrderCreatedEvent {
	return &PurchaseOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypePurchaseOrderCreated, AggregateTypePurchaseOrder, order.ID, order.GroupID),
		Vendor:    order.Vendor,
		Total:     order.Total,
		ItemCount: order.ItemCount(),
	}
}

// EventType returns the event type
func (e *PurchaseOrderCreatedEvent) EventType() string {
	return EventTypePurchaseOrderCreated
}

// PurchaseOrderPaymentRecordedEvent is raised when a payment is recorded
type PurchaseOrderPaymentRecordedEvent struct {
	shared.BaseDomainEvent
	PaymentID  uuid.UUID       `json:"paymentId"`
	AmountPaid decimal.Decimal `json:"amountPaid"`
	TotalPaid  decimal.Decimal `json:"totalPaid"`
	Status     string          `json:"status"`
}

// NewPurchaseOrderPaymentRecordedEvent creates a PurchaseOrderPaymentRecordedEvent
func NewPurchaseOrderPaymentRecordedEvent(order *PurchaseOrder, payment *Payment) *PurchaseOrderPaymentRecordedEvent {
	return &PurchaseOrderPaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypePurchaseOrderPaymentRecorded, AggregateTypePurchaseOrder, order.ID, order.GroupID),
		PaymentID:  payment.ID,
		AmountPaid: payment.AmountPaid,
		TotalPaid:  order.TotalPaidAmount(),
		Status:     order.Status.String(),
	}
}

// EventType returns the event type
func (e *PurchaseOrderPaymentRecordedEvent) EventType() string {
	return EventTypePurchaseOrderPaymentRecorded
}

// PurchaseOrderShipmentRecordedEvent is raised when a shipment is recorded
type PurchaseOrderShipmentRecordedEvent struct {
	shared.BaseDomainEvent
	ShipmentID   uuid.UUID `json:"shipmentId"`
	Carrier      string    `json:"carrier"`
	Tracking     string    `json:"tracking"`
	TotalShipped int64     `json:"totalShipped"`
	Status       string    `json:"status"`
}

// NewPurchaseOrderShipmentRecordedEvent creates a PurchaseOrderShipmentRecordedEvent
func NewPurchaseOrderShipmentRecordedEvent(order *PurchaseOrder, shipment *Shipment) *PurchaseOrderShipmentRecordedEvent {
	return &PurchaseOrderShipmentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypePurchaseOrderShipmentRecorded, AggregateTypePurchaseOrder, order.ID, order.GroupID),
		ShipmentID:   shipment.ID,
		Carrier:      shipment.Carrier,
		Tracking:     shipment.Tracking,
		TotalShipped: order.TotalShippedQuantity(),
		Status:       order.Status.String(),
	}
}

// EventType returns the event type
func (e *PurchaseOrderShipmentRecordedEvent) EventType() string {
	return EventTypePurchaseOrderShipmentRecorded
}

// PurchaseOrderReceivedEvent is raised when goods are received
type PurchaseOrderReceivedEvent struct {
	shared.BaseDomainEvent
	ReceivedLines []ReceivedLine `json:"receivedLines"`
	TotalReceived int64          `json:"totalReceived"`
	Status        string         `json:"status"`
}

// NewPurchaseOrderReceivedEvent creates a PurchaseOrderReceivedEvent
func NewPurchaseOrderReceivedEvent(order *PurchaseOrder, lines []ReceivedLine) *PurchaseOrderReceivedEvent {
	return &PurchaseOrderReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypePurchaseOrderReceived, AggregateTypePurchaseOrder, order.ID, order.GroupID),
		ReceivedLines: lines,
		TotalReceived: order.TotalReceivedQuantity(),
		Status:        order.Status.String(),
	}
}

// EventType returns the event type
func (e *PurchaseOrderReceivedEvent) EventType() string {
	return EventTypePurchaseOrderReceived
}

// PurchaseOrderArchivedEvent is raised when a purchase order is archived
type PurchaseOrderArchivedEvent struct {
	shared.BaseDomainEvent
	Vendor string          `json:"vendor"`
	Total  decimal.Decimal `json:"total"`
}

// NewPurchaseOrderArchivedEvent creates a PurchaseOrderArchivedEvent
func NewPurchaseOrderArchivedEvent(order *PurchaseOrder) *PurchaseOrderArchivedEvent {
	return &PurchaseOrderArchivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypePurchaseOrderArchived, AggregateTypePurchaseOrder, order.ID, order.GroupID),
		Vendor: order.Vendor,
		Total:  order.Total,
	}
}

// EventType returns the event type
func (e *PurchaseOrderArchivedEvent) EventType() string {
	return EventTypePurchaseOrderArchived
}

// PurchaseOrderCancelledEvent is raised when a purchase order is cancelled
type PurchaseOrderCancelledEvent struct {
	shared.BaseDomainEvent
	Vendor string `json:"vendor"`
	Reason string `json:"reason"`
}

// NewPurchaseOrderCancelledEvent creates a PurchaseOrderCancelledEvent
func NewPurchaseOrderCancelledEvent(order *PurchaseOrder) *PurchaseOrderCancelledEvent {
	return &PurchaseOrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypePurchaseOrderCancelled, AggregateTypePurchaseOrder, order.ID, order.GroupID),
		Vendor: order.Vendor,
		Reason: order.CancelReason,
	}
}

// EventType returns the event type
func (e *PurchaseOrderCancelledEvent) EventType() string {
	return EventTypePurchaseOrderCancelled
}

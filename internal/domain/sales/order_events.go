package sales

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/techrefresher/backend/internal/domain/shared"
)

const (
	AggregateTypeOrder = "SalesOrder"

	EventTypeOrderCreated = "sales_order.created"
)

// OrderCreatedEvent is raised when a sale is recorded
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	DeviceID  uuid.UUID       `json:"deviceId"`
	TotalPaid decimal.Decimal `json:"totalPaid"`
	NetProfit decimal.Decimal `json:"netProfit"`
	PartCount int             `json:"partCount"`
}

// NewOrderCreatedEvent creates an OrderCreatedEvent
func NewOrderCreatedEvent(order *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeOrderCreated, AggregateTypeOrder, order.ID, order.GroupID),
		DeviceID:  order.DeviceID,
		TotalPaid: order.TotalPaid,
		NetProfit: order.NetProfit,
		PartCount: len(order.Parts),
	}
}

// EventType returns the event type
func (e *OrderCreatedEvent) EventType() string {
	return EventTypeOrderCreated
}

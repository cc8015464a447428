package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/techrefresher/backend/internal/domain/shared"
)

const (
	AggregateTypeDevice = "Device"
	AggregateTypePart   = "Part"

	EventTypeDeviceStocked   = "device.stocked"
	EventTypeDeviceSold      = "device.sold"
	EventTypeDeviceHarvested = "device.harvested"
	EventTypePartStockAdded  = "part.stock_added"
	EventTypePartConsumed    = "part.consumed"
)

// DeviceStockedEvent is raised when a device enters active inventory
type DeviceStockedEvent struct {
	shared.BaseDomainEvent
	Brand string          `json:"brand"`
	Model string          `json:"model"`
	Cost  decimal.Decimal `json:"cost"`
}

// NewDeviceStockedEvent creates a DeviceStockedEvent
func NewDeviceStockedEvent(device *Device) *DeviceStockedEvent {
	return &DeviceStockedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeDeviceStocked, AggregateTypeDevice, device.ID, device.GroupID),
		Brand: device.Brand,
		Model: device.Model,
		Cost:  device.Cost,
	}
}

// EventType returns the event type
func (e *DeviceStockedEvent) EventType() string {
	return EventTypeDeviceStocked
}

// DeviceSoldEvent is raised when a device is sold
type DeviceSoldEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID       `json:"orderId"`
	Brand   string          `json:"brand"`
	Model   string          `json:"model"`
	Cost    decimal.Decimal `json:"cost"`
}

// NewDeviceSoldEvent creates a DeviceSoldEvent
func NewDeviceSoldEvent(device *Device, orderID uuid.UUID) *DeviceSoldEvent {
	return &DeviceSoldEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeDeviceSold, AggregateTypeDevice, device.ID, device.GroupID),
		OrderID: orderID,
		Brand:   device.Brand,
		Model:   device.Model,
		Cost:    device.Cost,
	}
}

// EventType returns the event type
func (e *DeviceSoldEvent) EventType() string {
	return EventTypeDeviceSold
}

// DeviceHarvestedEvent is raised when a device is decommissioned for parts
type DeviceHarvestedEvent struct {
	shared.BaseDomainEvent
	Brand string `json:"brand"`
	Model string `json:"model"`
}

// NewDeviceHarvestedEvent creates a DeviceHarvestedEvent
func NewDeviceHarvestedEvent(device *Device) *DeviceHarvestedEvent {
	return &DeviceHarvestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeDeviceHarvested, AggregateTypeDevice, device.ID, device.GroupID),
		Brand: device.Brand,
		Model: device.Model,
	}
}

// EventType returns the event type
func (e *DeviceHarvestedEvent) EventType() string {
	return EventTypeDeviceHarvested
}

// PartStockAddedEvent is raised when units are added to a part
type PartStockAddedEvent struct {
	shared.BaseDomainEvent
	Slug     string          `json:"slug"`
	Quantity int64           `json:"quantity"`
	UnitCost decimal.Decimal `json:"unitCost"`
	NewTotal int64           `json:"newTotal"`
}

// NewPartStockAddedEvent creates a PartStockAddedEvent
func NewPartStockAddedEvent(part *Part, quantity int64, unitCost decimal.Decimal) *PartStockAddedEvent {
	return &PartStockAddedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypePartStockAdded, AggregateTypePart, part.ID, part.GroupID),
		Slug:     part.Slug,
		Quantity: quantity,
		UnitCost: unitCost,
		NewTotal: part.Quantity,
	}
}

// EventType returns the event type
func (e *PartStockAddedEvent) EventType() string {
	return EventTypePartStockAdded
}

// PartConsumedEvent is raised when units are consumed from a part
type PartConsumedEvent struct {
	shared.BaseDomainEvent
	Slug     string          `json:"slug"`
	Quantity int64           `json:"quantity"`
	UnitCost decimal.Decimal `json:"unitCost"`
	NewTotal int64           `json:"newTotal"`
}

// NewPartConsumedEvent creates a PartConsumedEvent
func NewPartConsumedEvent(part *Part, quantity int64, unitCost decimal.Decimal) *PartConsumedEvent {
	return &PartConsumedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypePartConsumed, AggregateTypePart, part.ID, part.GroupID),
		Slug:     part.Slug,
		Quantity: quantity,
		UnitCost: unitCost,
		NewTotal: part.Quantity,
	}
}

// EventType returns the event type
func (e *PartConsumedEvent) EventType() string {
	return EventTypePartConsumed
}

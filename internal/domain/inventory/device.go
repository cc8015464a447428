package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/techrefresher/backend/internal/domain/shared"
)

// DeviceStatus represents the lifecycle state of a stocked device
type DeviceStatus string

const (
	DeviceStatusInStock   DeviceStatus = "IN_STOCK"
	DeviceStatusSold      DeviceStatus = "SOLD"
	DeviceStatusHarvested DeviceStatus = "HARVESTED"
)

// IsValid checks if the status is a valid DeviceStatus
func (s DeviceStatus) IsValid() bool {
	switch s {
	case DeviceStatusInStock, DeviceStatusSold, DeviceStatusHarvested:
		return true
	}
	return false
}

// String returns the string representation of DeviceStatus
func (s DeviceStatus) String() string {
	return string(s)
}

// Device represents one refurbishable unit in active inventory.
// A device leaves active inventory through exactly one of two terminal
// dispositions: sold to a customer, or harvested for parts. Either way the
// row is copied to the archive table and removed from the active set in the
// same transaction.
type Device struct {
	shared.GroupAggregateRoot
	Brand     string          `gorm:"type:varchar(100);not null;index"`
	Model     string          `gorm:"type:varchar(100);not null;index"`
	Color     string          `gorm:"type:varchar(50)"`
	Serial    string          `gorm:"type:varchar(100);index"`
	Condition string          `gorm:"type:varchar(50)"`
	Cost      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Notes     string          `gorm:"type:text"`
	Status    DeviceStatus    `gorm:"type:varchar(20);not null;default:'IN_STOCK'"`
}

// TableName returns the table name for GORM
func (Device) TableName() string {
	return "devices"
}

// NewDevice creates a new in-stock device
func NewDevice(groupID uuid.UUID, brand, model, color, serial, condition string, cost decimal.Decimal, notes string) (*Device, error) {
	if brand == "" {
		return nil, shared.NewDomainError("INVALID_BRAND", "Brand cannot be empty")
	}
	if model == "" {
		return nil, shared.NewDomainError("INVALID_MODEL", "Model cannot be empty")
	}
	if cost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Cost cannot be negative")
	}

	device := &Device{
		GroupAggregateRoot: shared.NewGroupAggregateRoot(groupID),
		Brand:              brand,
		Model:              model,
		Color:              color,
		Serial:             serial,
		Condition:          condition,
		Cost:               cost,
		Notes:              notes,
		Status:             DeviceStatusInStock,
	}
	device.AddDomainEvent(NewDeviceStockedEvent(device))

	return device, nil
}

// Update changes the descriptive fields of an in-stock device
func (d *Device) Update(brand, model, color, serial, condition string, cost decimal.Decimal, notes string) error {
	if d.Status != DeviceStatusInStock {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot edit a device in %s status", d.Status))
	}
	if brand == "" {
		return shared.NewDomainError("INVALID_BRAND", "Brand cannot be empty")
	}
	if model == "" {
		return shared.NewDomainError("INVALID_MODEL", "Model cannot be empty")
	}
	if cost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Cost cannot be negative")
	}
	d.Brand = brand
	d.Model = model
	d.Color = color
	d.Serial = serial
	d.Condition = condition
	d.Cost = cost
	d.Notes = notes
	d.Touch()
	return nil
}

// MarkSold transitions the device to SOLD with the sale order back-reference
func (d *Device) MarkSold(orderID uuid.UUID) error {
	if d.Status != DeviceStatusInStock {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot sell a device in %s status", d.Status))
	}
	if orderID == uuid.Nil {
		return shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	d.Status = DeviceStatusSold
	d.Touch()
	d.AddDomainEvent(NewDeviceSoldEvent(d, orderID))
	return nil
}

// MarkHarvested transitions the device to HARVESTED
func (d *Device) MarkHarvested() error {
	if d.Status != DeviceStatusInStock {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot harvest a device in %s status", d.Status))
	}
	d.Status = DeviceStatusHarvested
	d.Touch()
	d.AddDomainEvent(NewDeviceHarvestedEvent(d))
	return nil
}

// DisplayName returns a human-readable identifier for the device
func (d *Device) DisplayName() string {
	if d.Color != "" {
		return fmt.Sprintf("%s %s (%s)", d.Brand, d.Model, d.Color)
	}
	return fmt.Sprintf("%s %s", d.Brand, d.Model)
}

// ArchivedDevice is the archive-table copy of a device that left active
// inventory. Sold devices carry the order back-reference; harvested devices
// carry the harvested part IDs.
type ArchivedDevice struct {
	shared.GroupAggregateRoot
	DeviceID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Brand     string          `gorm:"type:varchar(100);not null;index"`
	Model     string          `gorm:"type:varchar(100);not null;index"`
	Color     string          `gorm:"type:varchar(50)"`
	Serial    string          `gorm:"type:varchar(100)"`
	Condition string          `gorm:"type:varchar(50)"`
	Cost      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Notes     string          `gorm:"type:text"`
	Status    DeviceStatus    `gorm:"type:varchar(20);not null"`
	OrderID   *uuid.UUID      `gorm:"type:uuid;index"`
	ArchivedAt time.Time      `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (ArchivedDevice) TableName() string {
	return "archived_devices"
}

// NewArchivedDevice copies a terminally disposed device into the archive
func NewArchivedDevice(device *Device, orderID *uuid.UUID) (*ArchivedDevice, error) {
	if device.Status == DeviceStatusInStock {
		return nil, shared.NewDomainError("INVALID_STATE", "Only sold or harvested devices can be archived")
	}
	if device.Status == DeviceStatusSold && (orderID == nil || *orderID == uuid.Nil) {
		return nil, shared.NewDomainError("INVALID_ORDER", "A sold device must reference its sale order")
	}

	return &ArchivedDevice{
		GroupAggregateRoot: shared.NewGroupAggregateRoot(device.GroupID),
		DeviceID:           device.ID,
		Brand:              device.Brand,
		Model:              device.Model,
		Color:              device.Color,
		Serial:             device.Serial,
		Condition:          device.Condition,
		Cost:               device.Cost,
		Notes:              device.Notes,
		Status:             device.Status,
		OrderID:            orderID,
		ArchivedAt:         time.Now(),
	}, nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/techrefresher/backend/internal/domain/inventory"
)

// DeviceModel is the persistence model for the Device aggregate.
type DeviceModel struct {
	GroupAggregateModel
	Brand     string                 `gorm:"type:varchar(100);not null;index"`
	Model     string                 `gorm:"type:varchar(100);not null;index"`
	Color     string                 `gorm:"type:varchar(50)"`
	Serial    string                 `gorm:"type:varchar(100);index"`
	Condition string                 `gorm:"type:varchar(50)"`
	Cost      decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	Notes     string                 `gorm:"type:text"`
	Status    inventory.DeviceStatus `gorm:"type:varchar(20);not null;default:'IN_STOCK'"`
}

// TableName returns the table name for GORM
func (DeviceModel) TableName() string {
	return "devices"
}

// ToDomain converts the persistence model to a domain Device.
func (m *DeviceModel) ToDomain() *inventory.Device {
	return &inventory.Device{
		GroupAggregateRoot: m.groupAggregateRoot(),
		Brand:              m.Brand,
		Model:              m.Model,
		Color:              m.Color,
		Serial:             m.Serial,
		Condition:          m.Condition,
		Cost:               m.Cost,
		Notes:              m.Notes,
		Status:             m.Status,
	}
}

// FromDomain populates the persistence model from a domain Device.
func (m *DeviceModel) FromDomain(d *inventory.Device) {
	m.FromDomainGroupAggregateRoot(d.GroupAggregateRoot)
	m.Brand = d.Brand
	m.Model = d.Model
	m.Color = d.Color
	m.Serial = d.Serial
	m.Condition = d.Condition
	m.Cost = d.Cost
	m.Notes = d.Notes
	m.Status = d.Status
}

// DeviceModelFromDomain creates a new persistence model from a domain Device.
func DeviceModelFromDomain(d *inventory.Device) *DeviceModel {
	m := &DeviceModel{}
	m.FromDomain(d)
	return m
}

// ArchivedDeviceModel is the persistence model for archived devices.
type ArchivedDeviceModel struct {
	GroupAggregateModel
	DeviceID   uuid.UUID              `gorm:"type:uuid;not null;uniqueIndex"`
	Brand      string                 `gorm:"type:varchar(100);not null;index"`
	Model      string                 `gorm:"type:varchar(100);not null;index"`
	Color      string                 `gorm:"type:varchar(50)"`
	Serial     string                 `gorm:"type:varchar(100)"`
	Condition  string                 `gorm:"type:varchar(50)"`
	Cost       decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	Notes      string                 `gorm:"type:text"`
	Status     inventory.DeviceStatus `gorm:"type:varchar(20);not null"`
	OrderID    *uuid.UUID             `gorm:"type:uuid;index"`
	ArchivedAt time.Time              `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (ArchivedDeviceModel) TableName() string {
	return "archived_devices"
}

// ToDomain converts the persistence model to a domain ArchivedDevice.
func (m *ArchivedDeviceModel) ToDomain() *inventory.ArchivedDevice {
	return &inventory.ArchivedDevice{
		GroupAggregateRoot: m.groupAggregateRoot(),
		DeviceID:           m.DeviceID,
		Brand:              m.Brand,
		Model:              m.Model,
		Color:              m.Color,
		Serial:             m.Serial,
		Condition:          m.Condition,
		Cost:               m.Cost,
		Notes:              m.Notes,
		Status:             m.Status,
		OrderID:            m.OrderID,
		ArchivedAt:         m.ArchivedAt,
	}
}

// FromDomain populates the persistence model from a domain ArchivedDevice.
func (m *ArchivedDeviceModel) FromDomain(d *inventory.ArchivedDevice) {
	m.FromDomainGroupAggregateRoot(d.GroupAggregateRoot)
	m.DeviceID = d.DeviceID
	m.Brand = d.Brand
	m.Model = d.Model
	m.Color = d.Color
	m.Serial = d.Serial
	m.Condition = d.Condition
	m.Cost = d.Cost
	m.Notes = d.Notes
	m.Status = d.Status
	m.OrderID = d.OrderID
	m.ArchivedAt = d.ArchivedAt
}

// ArchivedDeviceModelFromDomain creates a new persistence model from a domain ArchivedDevice.
func ArchivedDeviceModelFromDomain(d *inventory.ArchivedDevice) *ArchivedDeviceModel {
	m := &ArchivedDeviceModel{}
	m.FromDomain(d)
	return m
}

// PartModel is the persistence model for the Part aggregate.
type PartModel struct {
	GroupAggregateModel
	Slug       string          `gorm:"type:varchar(400);not null;uniqueIndex:idx_parts_group_slug,priority:2"`
	Brand      string          `gorm:"type:varchar(100);not null;index"`
	Model      string          `gorm:"type:varchar(100);not null;index"`
	PartName   string          `gorm:"type:varchar(150);not null"`
	Color      string          `gorm:"type:varchar(50)"`
	Quantity   int64           `gorm:"not null;default:0"`
	TotalValue decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (PartModel) TableName() string {
	return "parts"
}

// ToDomain converts the persistence model to a domain Part.
func (m *PartModel) ToDomain() *inventory.Part {
	return &inventory.Part{
		GroupAggregateRoot: m.groupAggregateRoot(),
		Slug:               m.Slug,
		Brand:              m.Brand,
		Model:              m.Model,
		PartName:           m.PartName,
		Color:              m.Color,
		Quantity:           m.Quantity,
		TotalValue:         m.TotalValue,
	}
}

// FromDomain populates the persistence model from a domain Part.
func (m *PartModel) FromDomain(p *inventory.Part) {
	m.FromDomainGroupAggregateRoot(p.GroupAggregateRoot)
	m.Slug = p.Slug
	m.Brand = p.Brand
	m.Model = p.Model
	m.PartName = p.PartName
	m.Color = p.Color
	m.Quantity = p.Quantity
	m.TotalValue = p.TotalValue
}

// PartModelFromDomain creates a new persistence model from a domain Part.
func PartModelFromDomain(p *inventory.Part) *PartModel {
	m := &PartModel{}
	m.FromDomain(p)
	return m
}

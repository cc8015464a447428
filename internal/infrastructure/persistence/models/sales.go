package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/techrefresher/backend/internal/domain/sales"
)

// SalesOrderModel is the persistence model for the sales Order aggregate.
type SalesOrderModel struct {
	GroupAggregateModel
	DeviceID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	DeviceLabel string          `gorm:"type:varchar(300);not null"`
	Buyer       string          `gorm:"type:varchar(200)"`
	Platform    string          `gorm:"type:varchar(100)"`
	SaleDate    time.Time       `gorm:"not null;index"`
	TotalPaid   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Fees        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ItemCost    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PartsCost   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	NetProfit   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Notes       string          `gorm:"type:text"`

	Parts []SalesOrderPartModel `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (SalesOrderModel) TableName() string {
	return "sales_orders"
}

// SalesOrderPartModel is the persistence model for parts consumed by a sale.
type SalesOrderPartModel struct {
	ID       uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	PartID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	PartName string          `gorm:"type:varchar(150);not null"`
	Quantity int64           `gorm:"not null"`
	UnitCost decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (SalesOrderPartModel) TableName() string {
	return "sales_order_parts"
}

// ToDomain converts the persistence model to a domain sales Order.
func (m *SalesOrderModel) ToDomain() *sales.Order {
	order := &sales.Order{
		GroupAggregateRoot: m.groupAggregateRoot(),
		DeviceID:           m.DeviceID,
		DeviceLabel:        m.DeviceLabel,
		Buyer:              m.Buyer,
		Platform:           m.Platform,
		SaleDate:           m.SaleDate,
		TotalPaid:          m.TotalPaid,
		Fees:               m.Fees,
		ItemCost:           m.ItemCost,
		PartsCost:          m.PartsCost,
		NetProfit:          m.NetProfit,
		Notes:              m.Notes,
	}

	order.Parts = make([]sales.OrderPart, len(m.Parts))
	for i, p := range m.Parts {
		order.Parts[i] = sales.OrderPart{
			ID:       p.ID,
			OrderID:  p.OrderID,
			PartID:   p.PartID,
			PartName: p.PartName,
			Quantity: p.Quantity,
			UnitCost: p.UnitCost,
		}
	}

	return order
}

// FromDomain populates the persistence model from a domain sales Order.
func (m *SalesOrderModel) FromDomain(o *sales.Order) {
	m.FromDomainGroupAggregateRoot(o.GroupAggregateRoot)
	m.DeviceID = o.DeviceID
	m.DeviceLabel = o.DeviceLabel
	m.Buyer = o.Buyer
	m.Platform = o.Platform
	m.SaleDate = o.SaleDate
	m.TotalPaid = o.TotalPaid
	m.Fees = o.Fees
	m.ItemCost = o.ItemCost
	m.PartsCost = o.PartsCost
	m.NetProfit = o.NetProfit
	m.Notes = o.Notes

	m.Parts = make([]SalesOrderPartModel, len(o.Parts))
	for i, p := range o.Parts {
		m.Parts[i] = SalesOrderPartModel{
			ID:       p.ID,
			OrderID:  p.OrderID,
			PartID:   p.PartID,
			PartName: p.PartName,
			Quantity: p.Quantity,
			UnitCost: p.UnitCost,
		}
	}
}

// SalesOrderModelFromDomain creates a new persistence model from a domain sales Order.
func SalesOrderModelFromDomain(o *sales.Order) *SalesOrderModel {
	m := &SalesOrderModel{}
	m.FromDomain(o)
	return m
}

package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/techrefresher/backend/internal/domain/shared"
)

// OrderPart records one part consumed by a sale, priced at the part's
// weighted-average unit cost at the time of the sale.
type OrderPart struct {
	ID       uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	PartID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	PartName string          `gorm:"type:varchar(150);not null"`
	Quantity int64           `gorm:"not null"`
	UnitCost decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (OrderPart) TableName() string {
	return "sales_order_parts"
}

// Cost returns quantity times unit cost
func (p *OrderPart) Cost() decimal.Decimal {
	return p.UnitCost.Mul(decimal.NewFromInt(p.Quantity))
}

// Order represents a completed customer sale of one device.
// The referenced device lives in the archive table by the time the order row
// exists; both are written in the same transaction. Net profit is stored
// denormalized as totalPaid minus fees minus itemCost minus partsCost.
type Order struct {
	shared.GroupAggregateRoot
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

	Parts []OrderPart `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "sales_orders"
}

// PartConsumption describes one part drawn from stock for a sale
type PartConsumption struct {
	PartID   uuid.UUID
	PartName string
	Quantity int64
	UnitCost decimal.Decimal
}

// NewOrder creates a sale order for a device and its consumed parts
func NewOrder(groupID, deviceID uuid.UUID, deviceLabel, buyer, platform string, saleDate time.Time, totalPaid, fees, itemCost decimal.Decimal, consumed []PartConsumption, notes string) (*Order, error) {
	if deviceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DEVICE", "Device ID cannot be empty")
	}
	if deviceLabel == "" {
		return nil, shared.NewDomainError("INVALID_DEVICE", "Device label cannot be empty")
	}
	if totalPaid.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Total paid cannot be negative")
	}
	if fees.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Fees cannot be negative")
	}
	if itemCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Item cost cannot be negative")
	}
	if saleDate.IsZero() {
		saleDate = time.Now()
	}

	order := &Order{
		GroupAggregateRoot: shared.NewGroupAggregateRoot(groupID),
		DeviceID:           deviceID,
		DeviceLabel:        deviceLabel,
		Buyer:              buyer,
		Platform:           platform,
		SaleDate:           saleDate,
		TotalPaid:          totalPaid,
		Fees:               fees,
		ItemCost:           itemCost,
		Notes:              notes,
		Parts:              make([]OrderPart, 0, len(consumed)),
	}

	partsCost := decimal.Zero
	for _, c := range consumed {
		if c.PartID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_PART", "Part ID cannot be empty")
		}
		if c.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Part quantity must be positive")
		}
		if c.UnitCost.IsNegative() {
			return nil, shared.NewDomainError("INVALID_COST", "Part unit cost cannot be negative")
		}
		line := OrderPart{
			ID:       uuid.New(),
			OrderID:  order.ID,
			PartID:   c.PartID,
			PartName: c.PartName,
			Quantity: c.Quantity,
			UnitCost: c.UnitCost,
		}
		order.Parts = append(order.Parts, line)
		partsCost = partsCost.Add(line.Cost())
	}

	order.PartsCost = partsCost
	order.NetProfit = totalPaid.Sub(fees).Sub(itemCost).Sub(partsCost)
	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

// TotalCost returns the combined device and parts cost of the sale
func (o *Order) TotalCost() decimal.Decimal {
	return o.ItemCost.Add(o.PartsCost)
}

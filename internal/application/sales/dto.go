package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/techrefresher/backend/internal/domain/sales"
)

// OrderListFilter represents filter options for the sales history
type OrderListFilter struct {
	Search    string     `form:"search"`
	Platform  string     `form:"platform"`
	StartDate *time.Time `form:"start_date"`
	EndDate   *time.Time `form:"end_date"`
	Page      int        `form:"page" binding:"omitempty,min=1"`
	PageSize  int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string     `form:"order_by"`
	OrderDir  string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// OrderPartResponse represents one consumed part on an order
type OrderPartResponse struct {
	PartID   uuid.UUID       `json:"part_id"`
	PartName string          `json:"part_name"`
	Quantity int64           `json:"quantity"`
	UnitCost decimal.Decimal `json:"unit_cost"`
	Cost     decimal.Decimal `json:"cost"`
}

// OrderResponse represents a sales order in API responses
type OrderResponse struct {
	ID          uuid.UUID           `json:"id"`
	GroupID     uuid.UUID           `json:"group_id"`
	DeviceID    uuid.UUID           `json:"device_id"`
	DeviceLabel string              `json:"device_label"`
	Buyer       string              `json:"buyer,omitempty"`
	Platform    string              `json:"platform,omitempty"`
	SaleDate    time.Time           `json:"sale_date"`
	TotalPaid   decimal.Decimal     `json:"total_paid"`
	Fees        decimal.Decimal     `json:"fees"`
	ItemCost    decimal.Decimal     `json:"item_cost"`
	PartsCost   decimal.Decimal     `json:"parts_cost"`
	TotalCost   decimal.Decimal     `json:"total_cost"`
	NetProfit   decimal.Decimal     `json:"net_profit"`
	Notes       string              `json:"notes,omitempty"`
	Parts       []OrderPartResponse `json:"parts"`
	CreatedAt   time.Time           `json:"created_at"`
}

// ToOrderResponse converts a domain order to its response shape
func ToOrderResponse(order *sales.Order) OrderResponse {
	parts := make([]OrderPartResponse, len(order.Parts))
	for i := range order.Parts {
		p := &order.Parts[i]
		parts[i] = OrderPartResponse{
			PartID:   p.PartID,
			PartName: p.PartName,
			Quantity: p.Quantity,
			UnitCost: p.UnitCost,
			Cost:     p.Cost(),
		}
	}

	return OrderResponse{
		ID:          order.ID,
		GroupID:     order.GroupID,
		DeviceID:    order.DeviceID,
		DeviceLabel: order.DeviceLabel,
		Buyer:       order.Buyer,
		Platform:    order.Platform,
		SaleDate:    order.SaleDate,
		TotalPaid:   order.TotalPaid,
		Fees:        order.Fees,
		ItemCost:    order.ItemCost,
		PartsCost:   order.PartsCost,
		TotalCost:   order.TotalCost(),
		NetProfit:   order.NetProfit,
		Notes:       order.Notes,
		Parts:       parts,
		CreatedAt:   order.CreatedAt,
	}
}

// ToOrderResponses converts a slice of orders to their response shapes
func ToOrderResponses(orders []sales.Order) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses
}

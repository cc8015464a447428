package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/techrefresher/backend/internal/domain/catalog"
)

// ==================== Request DTOs ====================

// CreateItemRequest is the request to create a catalog item
type CreateItemRequest struct {
	Category catalog.Category `json:"category" binding:"required,itemcategory"`
	Name     string           `json:"name" binding:"required,max=200"`
	Brand    string           `json:"brand" binding:"max=100"`
	Model    string           `json:"model" binding:"max=100"`
	Color    string           `json:"color" binding:"max=50"`
	Notes    string           `json:"notes"`
}

// UpdateItemRequest is the request to update a catalog item's descriptive
// fields. Category and stock are not editable here; stock moves through
// purchase receiving and explicit adjustments.
type UpdateItemRequest struct {
	Name  string `json:"name" binding:"required,max=200"`
	Brand string `json:"brand" binding:"max=100"`
	Model string `json:"model" binding:"max=100"`
	Color string `json:"color" binding:"max=50"`
	Notes string `json:"notes"`
}

// AdjustStockRequest is the request for a manual stock correction
type AdjustStockRequest struct {
	Quantity int64  `json:"quantity" binding:"required,min=1"`
	Reason   string `json:"reason"`
}

// ItemListFilter holds query parameters for listing catalog items
type ItemListFilter struct {
	Search   string            `form:"search"`
	Category *catalog.Category `form:"category"`
	Brand    string            `form:"brand"`
	InStock  bool              `form:"in_stock"`
	Page     int               `form:"page"`
	PageSize int               `form:"page_size"`
	OrderBy  string            `form:"order_by"`
	OrderDir string            `form:"order_dir"`
}

// ==================== Response DTOs ====================

// ItemResponse represents a catalog item in API responses
type ItemResponse struct {
	ID        uuid.UUID `json:"id"`
	GroupID   uuid.UUID `json:"group_id"`
	Category  string    `json:"category"`
	Name      string    `json:"name"`
	Brand     string    `json:"brand,omitempty"`
	Model     string    `json:"model,omitempty"`
	Color     string    `json:"color,omitempty"`
	Stock     int64     `json:"stock"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

// ==================== Mappers ====================

// ToItemResponse converts a domain catalog item to its response shape
func ToItemResponse(item *catalog.Item) ItemResponse {
	return ItemResponse{
		ID:        item.ID,
		GroupID:   item.GroupID,
		Category:  item.Category.String(),
		Name:      item.Name,
		Brand:     item.Brand,
		Model:     item.Model,
		Color:     item.Color,
		Stock:     item.Stock,
		Notes:     item.Notes,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
		Version:   item.GetVersion(),
	}
}

// ToItemResponses converts a slice of catalog items
func ToItemResponses(items []catalog.Item) []ItemResponse {
	responses := make([]ItemResponse, len(items))
	for i := range items {
		responses[i] = ToItemResponse(&items[i])
	}
	return responses
}

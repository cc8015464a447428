package catalog

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/techrefresher/backend/internal/domain/shared"
)

// Category classifies a catalog entry
type Category string

const (
	CategoryPart      Category = "PART"
	CategoryAccessory Category = "ACCESSORY"
	CategoryDevice    Category = "DEVICE"
	CategoryGame      Category = "GAME"
)

// IsValid checks if the category is a known Category
func (c Category) IsValid() bool {
	switch c {
	case CategoryPart, CategoryAccessory, CategoryDevice, CategoryGame:
		return true
	}
	return false
}

// String returns the string representation of Category
func (c Category) String() string {
	return string(c)
}

// Item represents one catalog entry with a running stock counter.
// Purchase order lines link to catalog items; receiving a line increments the
// linked item's stock in the same transaction as the order update.
type Item struct {
	shared.GroupAggregateRoot
	Category Category `gorm:"type:varchar(20);not null;index"`
	Name     string   `gorm:"type:varchar(200);not null"`
	Brand    string   `gorm:"type:varchar(100);index"`
	Model    string   `gorm:"type:varchar(100);index"`
	Color    string   `gorm:"type:varchar(50)"`
	Stock    int64    `gorm:"not null;default:0"`
	Notes    string   `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "catalog_items"
}

// NewItem creates a new catalog item with zero stock
func NewItem(groupID uuid.UUID, category Category, name, brand, model, color, notes string) (*Item, error) {
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", fmt.Sprintf("Unknown catalog category %q", category))
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Catalog item name cannot be empty")
	}

	return &Item{
		GroupAggregateRoot: shared.NewGroupAggregateRoot(groupID),
		Category:           category,
		Name:               name,
		Brand:              brand,
		Model:              model,
		Color:              color,
		Stock:              0,
		Notes:              notes,
	}, nil
}

// Update changes the descriptive fields of the catalog item
func (i *Item) Update(name, brand, model, color, notes string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Catalog item name cannot be empty")
	}
	i.Name = name
	i.Brand = brand
	i.Model = model
	i.Color = color
	i.Notes = notes
	i.Touch()
	return nil
}

// IncrementStock raises the stock counter, typically on purchase receive
func (i *Item) IncrementStock(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	i.Stock += quantity
	i.Touch()
	return nil
}

// DecrementStock lowers the stock counter, used by manual adjustment
func (i *Item) DecrementStock(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if quantity > i.Stock {
		return shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Cannot remove %d units of %q, only %d in stock", quantity, i.Name, i.Stock))
	}
	i.Stock -= quantity
	i.Touch()
	return nil
}

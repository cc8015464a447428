package models

import (
	"github.com/techrefresher/backend/internal/domain/catalog"
)

// CatalogItemModel is the persistence model for the catalog Item aggregate.
type CatalogItemModel struct {
	GroupAggregateModel
	Category catalog.Category `gorm:"type:varchar(20);not null;index"`
	Name     string           `gorm:"type:varchar(200);not null"`
	Brand    string           `gorm:"type:varchar(100);index"`
	Model    string           `gorm:"type:varchar(100);index"`
	Color    string           `gorm:"type:varchar(50)"`
	Stock    int64            `gorm:"not null;default:0"`
	Notes    string           `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CatalogItemModel) TableName() string {
	return "catalog_items"
}

// ToDomain converts the persistence model to a domain Item.
func (m *CatalogItemModel) ToDomain() *catalog.Item {
	return &catalog.Item{
		GroupAggregateRoot: m.groupAggregateRoot(),
		Category:           m.Category,
		Name:               m.Name,
		Brand:              m.Brand,
		Model:              m.Model,
		Color:              m.Color,
		Stock:              m.Stock,
		Notes:              m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Item.
func (m *CatalogItemModel) FromDomain(item *catalog.Item) {
	m.FromDomainGroupAggregateRoot(item.GroupAggregateRoot)
	m.Category = item.Category
	m.Name = item.Name
	m.Brand = item.Brand
	m.Model = item.Model
	m.Color = item.Color
	m.Stock = item.Stock
	m.Notes = item.Notes
}

// CatalogItemModelFromDomain creates a new persistence model from a domain Item.
func CatalogItemModelFromDomain(item *catalog.Item) *CatalogItemModel {
	m := &CatalogItemModel{}
	m.FromDomain(item)
	return m
}

package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/techrefresher/backend/internal/application/sales"
	"github.com/techrefresher/backend/internal/domain/inventory"
)

// ==================== Device requests ====================

// CreateDeviceRequest represents a request to stock a device
type CreateDeviceRequest struct {
	Brand     string          `json:"brand" binding:"required,min=1,max=100"`
	Model     string          `json:"model" binding:"required,min=1,max=100"`
	Color     string          `json:"color" binding:"max=50"`
	Serial    string          `json:"serial" binding:"max=100"`
	Condition string          `json:"condition" binding:"max=50"`
	Cost      decimal.Decimal `json:"cost"`
	Notes     string          `json:"notes"`
}

// UpdateDeviceRequest represents a request to edit an in-stock device
type UpdateDeviceRequest struct {
	Brand     string          `json:"brand" binding:"required,min=1,max=100"`
	Model     string          `json:"model" binding:"required,min=1,max=100"`
	Color     string          `json:"color" binding:"max=50"`
	Serial    string          `json:"serial" binding:"max=100"`
	Condition string          `json:"condition" binding:"max=50"`
	Cost      decimal.Decimal `json:"cost"`
	Notes     string          `json:"notes"`
}

// SellPartInput names a part consumed by a sale
type SellPartInput struct {
	PartID   uuid.UUID `json:"part_id" binding:"required"`
	Quantity int64     `json:"quantity" binding:"required,min=1"`
}

// SellDeviceRequest represents a request to sell a device
type SellDeviceRequest struct {
	Buyer     string          `json:"buyer" binding:"max=200"`
	Platform  string          `json:"platform" binding:"max=100"`
	SaleDate  time.Time       `json:"sale_date" binding:"required"`
	TotalPaid decimal.Decimal `json:"total_paid" binding:"required"`
	Fees      decimal.Decimal `json:"fees"`
	Notes     string          `json:"notes"`
	Parts     []SellPartInput `json:"parts" binding:"omitempty,dive"`
}

// HarvestSelectionInput names one salvaged part and its appraised unit cost
type HarvestSelectionInput struct {
	PartName string          `json:"part_name" binding:"required,min=1,max=150"`
	Color    string          `json:"color" binding:"max=50"`
	Quantity int64           `json:"quantity" binding:"required,min=1"`
	UnitCost decimal.Decimal `json:"unit_cost"`
}

// HarvestDeviceRequest represents a request to break a device down for parts
type HarvestDeviceRequest struct {
	Selections []HarvestSelectionInput `json:"selections" binding:"required,min=1,dive"`
}

// DeviceListFilter represents filter options for the device list
type DeviceListFilter struct {
	Search    string `form:"search"`
	Brand     string `form:"brand"`
	Condition string `form:"condition"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string `form:"order_by"`
	OrderDir  string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ArchivedDeviceListFilter represents filter options for the archive list
type ArchivedDeviceListFilter struct {
	Search   string                  `form:"search"`
	Status   *inventory.DeviceStatus `form:"status"`
	Page     int                     `form:"page" binding:"omitempty,min=1"`
	PageSize int                     `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string                  `form:"order_by"`
	OrderDir string                  `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ==================== Part requests ====================

// CreatePartRequest represents a request to define a part record
type CreatePartRequest struct {
	Brand    string `json:"brand" binding:"required,min=1,max=100"`
	Model    string `json:"model" binding:"required,min=1,max=100"`
	PartName string `json:"part_name" binding:"required,min=1,max=150"`
	Color    string `json:"color" binding:"max=50"`
}

// AdjustPartRequest applies a manual quantity delta. Positive deltas add
// stock at the given unit cost; negative deltas consume at the current
// average.
type AdjustPartRequest struct {
	Delta    int64           `json:"delta" binding:"required"`
	UnitCost decimal.Decimal `json:"unit_cost"`
}

// RenamePartRequest updates a part's descriptive attributes
type RenamePartRequest struct {
	Brand    string `json:"brand" binding:"required,min=1,max=100"`
	Model    string `json:"model" binding:"required,min=1,max=100"`
	PartName string `json:"part_name" binding:"required,min=1,max=150"`
	Color    string `json:"color" binding:"max=50"`
}

// PartListFilter represents filter options for the part list
type PartListFilter struct {
	Search   string `form:"search"`
	Brand    string `form:"brand"`
	Model    string `form:"model"`
	InStock  bool   `form:"in_stock"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ==================== Responses ====================

// DeviceResponse represents an in-stock device in API responses
type DeviceResponse struct {
	ID          uuid.UUID       `json:"id"`
	GroupID     uuid.UUID       `json:"group_id"`
	Brand       string          `json:"brand"`
	Model       string          `json:"model"`
	Color       string          `json:"color,omitempty"`
	Serial      string          `json:"serial,omitempty"`
	Condition   string          `json:"condition,omitempty"`
	Cost        decimal.Decimal `json:"cost"`
	Notes       string          `json:"notes,omitempty"`
	Status      string          `json:"status"`
	DisplayName string          `json:"display_name"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Version     int             `json:"version"`
}

// ArchivedDeviceResponse represents an archived device in API responses
type ArchivedDeviceResponse struct {
	ID         uuid.UUID       `json:"id"`
	DeviceID   uuid.UUID       `json:"device_id"`
	Brand      string          `json:"brand"`
	Model      string          `json:"model"`
	Color      string          `json:"color,omitempty"`
	Serial     string          `json:"serial,omitempty"`
	Condition  string          `json:"condition,omitempty"`
	Cost       decimal.Decimal `json:"cost"`
	Notes      string          `json:"notes,omitempty"`
	Status     string          `json:"status"`
	OrderID    *uuid.UUID      `json:"order_id,omitempty"`
	ArchivedAt time.Time       `json:"archived_at"`
}

// PartResponse represents a part in API responses
type PartResponse struct {
	ID         uuid.UUID       `json:"id"`
	GroupID    uuid.UUID       `json:"group_id"`
	Slug       string          `json:"slug"`
	Brand      string          `json:"brand"`
	Model      string          `json:"model"`
	PartName   string          `json:"part_name"`
	Color      string          `json:"color,omitempty"`
	Quantity   int64           `json:"quantity"`
	TotalValue decimal.Decimal `json:"total_value"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Version    int             `json:"version"`
}

// SellResultResponse is the result of selling a device
type SellResultResponse struct {
	Order          sales.OrderResponse    `json:"order"`
	ArchivedDevice ArchivedDeviceResponse `json:"archived_device"`
	ConsumedParts  []PartResponse         `json:"consumed_parts"`
}

// HarvestResultResponse is the result of harvesting a device for parts
type HarvestResultResponse struct {
	ArchivedDevice ArchivedDeviceResponse `json:"archived_device"`
	Parts          []PartResponse         `json:"parts"`
	TotalUnits     int64                  `json:"total_units"`
}

// ==================== Mappers ====================

// ToDeviceResponse converts a domain device to its response shape
func ToDeviceResponse(device *inventory.Device) DeviceResponse {
	return DeviceResponse{
		ID:          device.ID,
		GroupID:     device.GroupID,
		Brand:       device.Brand,
		Model:       device.Model,
		Color:       device.Color,
		Serial:      device.Serial,
		Condition:   device.Condition,
		Cost:        device.Cost,
		Notes:       device.Notes,
		Status:      device.Status.String(),
		DisplayName: device.DisplayName(),
		CreatedAt:   device.CreatedAt,
		UpdatedAt:   device.UpdatedAt,
		Version:     device.Version,
	}
}

// ToDeviceResponses converts a slice of devices to their response shapes
func ToDeviceResponses(devices []inventory.Device) []DeviceResponse {
	responses := make([]DeviceResponse, len(devices))
	for i := range devices {
		responses[i] = ToDeviceResponse(&devices[i])
	}
	return responses
}

// ToArchivedDeviceResponse converts an archived device to its response shape
func ToArchivedDeviceResponse(device *inventory.ArchivedDevice) ArchivedDeviceResponse {
	return ArchivedDeviceResponse{
		ID:         device.ID,
		DeviceID:   device.DeviceID,
		Brand:      device.Brand,
		Model:      device.Model,
		Color:      device.Color,
		Serial:     device.Serial,
		Condition:  device.Condition,
		Cost:       device.Cost,
		Notes:      device.Notes,
		Status:     device.Status.String(),
		OrderID:    device.OrderID,
		ArchivedAt: device.ArchivedAt,
	}
}

// ToArchivedDeviceResponses converts a slice of archived devices
func ToArchivedDeviceResponses(devices []inventory.ArchivedDevice) []ArchivedDeviceResponse {
	responses := make([]ArchivedDeviceResponse, len(devices))
	for i := range devices {
		responses[i] = ToArchivedDeviceResponse(&devices[i])
	}
	return responses
}

// ToPartResponse converts a domain part to its response shape
func ToPartResponse(part *inventory.Part) PartResponse {
	return PartResponse{
		ID:         part.ID,
		GroupID:    part.GroupID,
		Slug:       part.Slug,
		Brand:      part.Brand,
		Model:      part.Model,
		PartName:   part.PartName,
		Color:      part.Color,
		Quantity:   part.Quantity,
		TotalValue: part.TotalValue,
		UnitCost:   part.UnitCost(),
		CreatedAt:  part.CreatedAt,
		UpdatedAt:  part.UpdatedAt,
		Version:    part.Version,
	}
}

// ToPartResponses converts a slice of parts to their response shapes
func ToPartResponses(parts []inventory.Part) []PartResponse {
	responses := make([]PartResponse, len(parts))
	for i := range parts {
		responses[i] = ToPartResponse(&parts[i])
	}
	return responses
}

package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed
// fields. Returns the defaultField if the input is invalid, empty, or not in
// the whitelist. Sort fields come straight from query strings, so anything
// not whitelisted would be an injection vector.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// PurchaseOrderSortFields contains allowed sort fields for purchase orders
var PurchaseOrderSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"vendor":     true,
	"order_date": true,
	"status":     true,
	"total":      true,
}

// DeviceSortFields contains allowed sort fields for devices
var DeviceSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"brand":      true,
	"model":      true,
	"status":     true,
	"cost":       true,
}

// PartSortFields contains allowed sort fields for harvested parts
var PartSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"slug":        true,
	"brand":       true,
	"model":       true,
	"part_name":   true,
	"quantity":    true,
	"total_value": true,
}

// CatalogItemSortFields contains allowed sort fields for catalog items
var CatalogItemSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"category":   true,
	"stock":      true,
}

// SalesOrderSortFields contains allowed sort fields for sales orders
var SalesOrderSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"buyer":      true,
	"platform":   true,
	"sale_date":  true,
	"total_paid": true,
	"net_profit": true,
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"username":      true,
	"email":         true,
	"display_name":  true,
	"status":        true,
	"last_login_at": true,
}

// ErrorLogSortFields contains allowed sort fields for error log entries
var ErrorLogSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"source":     true,
}

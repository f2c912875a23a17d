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

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
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

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"category":   true,
	"quantity":   true,
	"sale_price": true,
	"avg_cost":   true,
	"status":     true,
}

// PurchaseSortFields contains allowed sort fields for purchases
var PurchaseSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"product_code": true,
	"product_name": true,
	"quantity":     true,
	"unit_cost":    true,
	"total_cost":   true,
	"supplier":     true,
}

// QuotationSortFields contains allowed sort fields for quotations
var QuotationSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"number":        true,
	"customer_name": true,
	"status":        true,
	"total":         true,
}

// SaleSortFields contains allowed sort fields for sales
var SaleSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"code":       true,
	"total":      true,
	"sold_at":    true,
}

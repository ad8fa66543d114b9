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

// QuotationSortFields contains allowed sort fields for rental quotations
var QuotationSortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"updated_at":        true,
	"reference":         true,
	"counterparty_id":   true,
	"counterparty_name": true,
	"status":            true,
	"order_date":        true,
	"validity_date":     true,
	"amount_untaxed":    true,
	"amount_total":      true,
}

// OrderSortFields contains allowed sort fields for rental orders
var OrderSortFields = map[string]bool{
	"id":                 true,
	"created_at":         true,
	"updated_at":         true,
	"reference":          true,
	"counterparty_id":    true,
	"counterparty_name":  true,
	"status":             true,
	"order_date":         true,
	"effective_end_date": true,
	"hireoff_date":       true,
	"amount_untaxed":     true,
	"amount_total":       true,
}

// ContractSortFields contains allowed sort fields for rental contracts
var ContractSortFields = map[string]bool{
	"id":                 true,
	"created_at":         true,
	"updated_at":         true,
	"reference":          true,
	"order_id":           true,
	"counterparty_id":    true,
	"counterparty_name":  true,
	"status":             true,
	"effective_end_date": true,
	"hireoff_date":       true,
	"amount_total":       true,
}

// TransferSortFields contains allowed sort fields for stock transfers
var TransferSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"reference":   true,
	"document_id": true,
	"direction":   true,
	"executed_at": true,
}

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

// BatchSortFields contains allowed sort fields for inventory batches
var BatchSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"medication_id":    true,
	"supplier_id":      true,
	"batch_number":     true,
	"quantity_on_hand": true,
	"purchase_date":    true,
	"expiration_date":  true,
	"status":           true,
}

// PurchaseSortFields contains allowed sort fields for purchases
var PurchaseSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"supplier_id":    true,
	"order_date":     true,
	"status":         true,
	"priority":       true,
	"payment_status": true,
	"total_amount":   true,
	"invoice_number": true,
}

// AuditLogSortFields contains allowed sort fields for stock audit logs
var AuditLogSortFields = map[string]bool{
	"id":          true,
	"occurred_at": true,
	"action":      true,
	"batch_id":    true,
}

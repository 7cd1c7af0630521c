package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/pharmacy/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// ==================== Inventory DTOs ====================

// DecrementRequest represents a sale consuming stock from one batch
type DecrementRequest struct {
	Quantity    int64  `json:"quantity" binding:"required,gt=0"`
	PerformedBy string `json:"performed_by"`
	Reason      string `json:"reason"`
}

// ListFilter represents filter options for inventory listing
type ListFilter struct {
	MedicationID *uuid.UUID `form:"medication_id"`
	SupplierID   *uuid.UUID `form:"supplier_id"`
	Status       string     `form:"status" binding:"omitempty,oneof=active inactive entered-in-error"`
	Page         int        `form:"page" binding:"omitempty,min=1"`
	PageSize     int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy      string     `form:"order_by"`
	OrderDir     string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// BatchResponse represents an inventory batch in API responses
type BatchResponse struct {
	ID             uuid.UUID       `json:"id"`
	MedicationID   uuid.UUID       `json:"medication_id"`
	SupplierID     uuid.UUID       `json:"supplier_id"`
	BatchNumber    string          `json:"batch_number"`
	QuantityOnHand int64           `json:"quantity_on_hand"`
	Status         string          `json:"status"`
	PurchasePrice  decimal.Decimal `json:"purchase_price"`
	PurchaseDate   time.Time       `json:"purchase_date"`
	ExpirationDate *time.Time      `json:"expiration_date,omitempty"`
	CodeSystem     string          `json:"code_system,omitempty"`
	CodeValue      string          `json:"code_value,omitempty"`
	CodeDisplay    string          `json:"code_display,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// BatchListResponse represents a paginated inventory listing
type BatchListResponse struct {
	Items    []BatchResponse `json:"items"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

func toBatchResponse(b *inventory.Batch) *BatchResponse {
	return &BatchResponse{
		ID:             b.ID,
		MedicationID:   b.MedicationID,
		SupplierID:     b.SupplierID,
		BatchNumber:    b.BatchNumber,
		QuantityOnHand: b.QuantityOnHand,
		Status:         string(b.Status),
		PurchasePrice:  b.PurchasePrice,
		PurchaseDate:   b.PurchaseDate,
		ExpirationDate: b.ExpirationDate,
		CodeSystem:     b.CodeSystem,
		CodeValue:      b.CodeValue,
		CodeDisplay:    b.CodeDisplay,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

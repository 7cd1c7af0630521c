package purchase

import (
	"time"

	"github.com/google/uuid"
	"github.com/pharmacy/backend/internal/domain/purchase"
	"github.com/shopspring/decimal"
)

// ==================== Purchase DTOs ====================

// LineInput represents one line item in a create or update request
type LineInput struct {
	MedicationID     uuid.UUID       `json:"medication_id" binding:"required"`
	BatchNumber      string          `json:"batch_number" binding:"required,min=1,max=64"`
	QuantityOrdered  int64           `json:"quantity_ordered" binding:"required,gt=0"`
	QuantityReceived int64           `json:"quantity_received" binding:"gte=0"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	ExpirationDate   *time.Time      `json:"expiration_date"`
}

// CreatePurchaseRequest represents a request to record a purchase
type CreatePurchaseRequest struct {
	SupplierID    uuid.UUID   `json:"supplier_id" binding:"required"`
	InvoiceNumber string      `json:"invoice_number" binding:"max=64"`
	OrderDate     *time.Time  `json:"order_date"`
	Priority      string      `json:"priority" binding:"omitempty,oneof=routine urgent asap stat"`
	Notes         string      `json:"notes"`
	PerformedBy   string      `json:"performed_by"`
	Lines         []LineInput `json:"line_items" binding:"required,min=1,dive"`
}

// UpdatePurchaseRequest represents a full replacement of a purchase. The
// incoming lines replace the stored ones entirely; the reconciliation engine
// computes the net stock effect.
type UpdatePurchaseRequest struct {
	SupplierID    uuid.UUID   `json:"supplier_id" binding:"required"`
	InvoiceNumber string      `json:"invoice_number" binding:"max=64"`
	OrderDate     *time.Time  `json:"order_date"`
	Priority      string      `json:"priority" binding:"omitempty,oneof=routine urgent asap stat"`
	PaymentStatus string      `json:"payment_status" binding:"omitempty,oneof=pending partial paid"`
	Notes         string      `json:"notes"`
	PerformedBy   string      `json:"performed_by"`
	Lines         []LineInput `json:"line_items" binding:"required,min=1,dive"`
}

// ListFilter represents filter options for purchase listing
type ListFilter struct {
	SupplierID    *uuid.UUID `form:"supplier_id"`
	Status        string     `form:"status" binding:"omitempty,oneof=draft active completed cancelled entered-in-error"`
	PaymentStatus string     `form:"payment_status" binding:"omitempty,oneof=pending partial paid"`
	Page          int        `form:"page" binding:"omitempty,min=1"`
	PageSize      int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy       string     `form:"order_by"`
	OrderDir      string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// LineResponse represents a purchase line item in API responses
type LineResponse struct {
	ID               uuid.UUID       `json:"id"`
	MedicationID     uuid.UUID       `json:"medication_id"`
	MedicationName   string          `json:"medication_name"`
	BatchNumber      string          `json:"batch_number"`
	QuantityOrdered  int64           `json:"quantity_ordered"`
	QuantityReceived int64           `json:"quantity_received"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	ExpirationDate   *time.Time      `json:"expiration_date,omitempty"`
}

// PurchaseResponse represents a purchase in API responses
type PurchaseResponse struct {
	ID            uuid.UUID       `json:"id"`
	SupplierID    uuid.UUID       `json:"supplier_id"`
	SupplierName  string          `json:"supplier_name"`
	InvoiceNumber string          `json:"invoice_number,omitempty"`
	OrderDate     time.Time       `json:"order_date"`
	Status        string          `json:"status"`
	Priority      string          `json:"priority"`
	PaymentStatus string          `json:"payment_status"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Notes         string          `json:"notes,omitempty"`
	Lines         []LineResponse  `json:"line_items"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// PurchaseListResponse represents a paginated purchase listing
type PurchaseListResponse struct {
	Items    []PurchaseResponse `json:"items"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}

func toLineResponse(line *purchase.Line) LineResponse {
	return LineResponse{
		ID:               line.ID,
		MedicationID:     line.MedicationID,
		MedicationName:   line.MedicationName,
		BatchNumber:      line.BatchNumber,
		QuantityOrdered:  line.QuantityOrdered,
		QuantityReceived: line.QuantityReceived,
		UnitPrice:        line.UnitPrice,
		ExpirationDate:   line.ExpirationDate,
	}
}

func toPurchaseResponse(p *purchase.Purchase) *PurchaseResponse {
	lines := make([]LineResponse, 0, len(p.Lines))
	for i := range p.Lines {
		lines = append(lines, toLineResponse(&p.Lines[i]))
	}
	return &PurchaseResponse{
		ID:            p.ID,
		SupplierID:    p.SupplierID,
		SupplierName:  p.SupplierName,
		InvoiceNumber: p.InvoiceNumber,
		OrderDate:     p.OrderDate,
		Status:        p.Status.String(),
		Priority:      string(p.Priority),
		PaymentStatus: string(p.PaymentStatus),
		TotalAmount:   p.TotalAmount,
		Notes:         p.Notes,
		Lines:         lines,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

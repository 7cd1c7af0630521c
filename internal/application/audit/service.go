package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pharmacy/backend/internal/domain/audit"
	"github.com/pharmacy/backend/internal/domain/shared"
)

// ==================== Audit DTOs ====================

// ListFilter represents filter options for audit log listing
type ListFilter struct {
	Action   string     `form:"action" binding:"omitempty,oneof=purchase_create purchase_update purchase_delete sale manual_adjust"`
	BatchID  *uuid.UUID `form:"batch_id"`
	From     *time.Time `form:"from"`
	To       *time.Time `form:"to"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// EntryResponse represents one audit entry in API responses
type EntryResponse struct {
	ID              uuid.UUID       `json:"id"`
	Action          string          `json:"action"`
	BatchID         *uuid.UUID      `json:"batch_id,omitempty"`
	QuantityChanged int64           `json:"quantity_changed"`
	PerformedBy     string          `json:"performed_by"`
	Details         json.RawMessage `json:"details,omitempty"`
	OccurredAt      time.Time       `json:"occurred_at"`
}

// ListResponse represents a paginated audit log listing, newest first
type ListResponse struct {
	Items    []EntryResponse `json:"items"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

// AuditService serves the audit log read surface. The log is append-only;
// writes happen inside the reconciliation and sale transactions.
type AuditService struct {
	auditRepo audit.Repository
}

// NewAuditService creates a new AuditService
func NewAuditService(auditRepo audit.Repository) *AuditService {
	return &AuditService{auditRepo: auditRepo}
}

// List returns audit entries matching the filter, newest first
func (s *AuditService) List(ctx context.Context, filter ListFilter) (*ListResponse, error) {
	f := shared.DefaultFilter()
	f.OrderBy = "occurred_at"
	f.OrderDir = "desc"
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if filter.Action != "" {
		f.Filters["action"] = filter.Action
	}
	if filter.BatchID != nil {
		f.Filters["batch_id"] = *filter.BatchID
	}
	if filter.From != nil {
		f.Filters["occurred_from"] = *filter.From
	}
	if filter.To != nil {
		f.Filters["occurred_to"] = *filter.To
	}

	entries, err := s.auditRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := s.auditRepo.Count(ctx, f)
	if err != nil {
		return nil, err
	}

	items := make([]EntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, toEntryResponse(&entries[i]))
	}
	return &ListResponse{
		Items:    items,
		Total:    total,
		Page:     f.Page,
		PageSize: f.PageSize,
	}, nil
}

func toEntryResponse(e *audit.Entry) EntryResponse {
	return EntryResponse{
		ID:              e.ID,
		Action:          string(e.Action),
		BatchID:         e.BatchID,
		QuantityChanged: e.QuantityChanged,
		PerformedBy:     e.PerformedBy,
		Details:         json.RawMessage(e.Details),
		OccurredAt:      e.OccurredAt,
	}
}

package audit

import (
	"time"

	"github.com/google/uuid"
	"github.com/pharmacy/backend/internal/domain/shared"
	"gorm.io/datatypes"
)

// Action classifies what caused a stock movement
type Action string

const (
	ActionPurchaseCreate Action = "purchase_create"
	ActionPurchaseUpdate Action = "purchase_update"
	ActionPurchaseDelete Action = "purchase_delete"
	ActionSale           Action = "sale"
	ActionManualAdjust   Action = "manual_adjust"
)

// Entry is one immutable audit record: a signed stock movement on one
// inventory batch. Entries are append-only; nothing in the system updates or
// deletes them. BatchID is nullable because an entry may outlive its batch.
type Entry struct {
	shared.BaseEntity
	Action          Action         `gorm:"size:32;not null;index"`
	BatchID         *uuid.UUID     `gorm:"type:uuid;index"`
	QuantityChanged int64          `gorm:"not null"`
	PerformedBy     string         `gorm:"size:255;not null;default:'system'"`
	Details         datatypes.JSON `gorm:"type:jsonb"`
	OccurredAt      time.Time      `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (Entry) TableName() string {
	return "stock_audit_logs"
}

// NewEntry creates an audit record for a signed stock movement
func NewEntry(action Action, batchID *uuid.UUID, quantityChanged int64, performedBy string, details datatypes.JSON) *Entry {
	if performedBy == "" {
		performedBy = "system"
	}
	return &Entry{
		BaseEntity:      shared.NewBaseEntity(),
		Action:          action,
		BatchID:         batchID,
		QuantityChanged: quantityChanged,
		PerformedBy:     performedBy,
		Details:         details,
		OccurredAt:      time.Now(),
	}
}

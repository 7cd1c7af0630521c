package catalog

import (
	"github.com/pharmacy/backend/internal/domain/shared"
)

// Medication is the catalog's medication reference. The ledger treats it as
// immutable: reconciliation only ever reads it to resolve line items and to
// seed the coding fields of newly created inventory batches.
type Medication struct {
	shared.BaseEntity
	Name        string `gorm:"size:255;not null"`
	CodeSystem  string `gorm:"size:255"` // coding system URI (e.g. SNOMED CT)
	CodeValue   string `gorm:"size:64"`
	CodeDisplay string `gorm:"size:255"`
	Form        string `gorm:"size:64"` // tablet | capsule | syrup | ...
	Active      bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Medication) TableName() string {
	return "medications"
}

// CodingDisplay returns the display text, falling back to a generic label
// when the catalog has no display for the coding.
func (m *Medication) CodingDisplay() string {
	if m.CodeDisplay != "" {
		return m.CodeDisplay
	}
	return "Medication"
}

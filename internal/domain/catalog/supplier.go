package catalog

import (
	"github.com/pharmacy/backend/internal/domain/shared"
)

// Supplier is a supplier organization reference. Immutable from the ledger's
// viewpoint; purchases hold its ID in their header.
type Supplier struct {
	shared.BaseEntity
	Name       string `gorm:"size:255;not null"`
	Identifier string `gorm:"size:128"`
	Telecom    string `gorm:"size:255"`
	Address    string `gorm:"size:512"`
	Active     bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

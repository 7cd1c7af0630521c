package inventory

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pharmacy/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BatchStatus is the lifecycle status of an inventory batch
type BatchStatus string

const (
	BatchStatusActive         BatchStatus = "active"
	BatchStatusInactive       BatchStatus = "inactive"
	BatchStatusEnteredInError BatchStatus = "entered-in-error"
)

// BatchKey identifies a ledger row: one lot of one medication from one
// supplier. No two batches with the same key may coexist; the reconciliation
// engine enforces this by lookup-or-create.
type BatchKey struct {
	MedicationID uuid.UUID
	SupplierID   uuid.UUID
	BatchNumber  string
}

// Less orders keys by (medication_id, supplier_id, batch_number). Row locks
// are always acquired in this order so that concurrent purchases touching
// overlapping batches cannot deadlock.
func (k BatchKey) Less(other BatchKey) bool {
	if c := strings.Compare(k.MedicationID.String(), other.MedicationID.String()); c != 0 {
		return c < 0
	}
	if c := strings.Compare(k.SupplierID.String(), other.SupplierID.String()); c != 0 {
		return c < 0
	}
	return k.BatchNumber < other.BatchNumber
}

// String renders the key for error messages and audit details
func (k BatchKey) String() string {
	return "medication=" + k.MedicationID.String() +
		" supplier=" + k.SupplierID.String() +
		" batch=" + k.BatchNumber
}

// Batch is the ledger's unit of stock: on-hand quantity for one
// (medication, supplier, batch number) combination. Quantity may transit
// negative inside a transaction but must never commit negative; the
// reconciliation engine owns that gate. Batches are never physically deleted
// by the engine, only their quantity changes.
type Batch struct {
	shared.BaseEntity
	MedicationID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_batch_key,priority:1"`
	SupplierID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_batch_key,priority:2"`
	BatchNumber     string          `gorm:"size:64;not null;uniqueIndex:idx_batch_key,priority:3"`
	QuantityOnHand  int64           `gorm:"not null;default:0"`
	Status          BatchStatus     `gorm:"size:32;not null;default:'active'"`
	PurchasePrice   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PurchaseDate    time.Time
	ExpirationDate  *time.Time
	CodeSystem      string `gorm:"size:255"`
	CodeValue       string `gorm:"size:64"`
	CodeDisplay     string `gorm:"size:255"`
}

// TableName returns the table name for GORM
func (Batch) TableName() string {
	return "inventory_batches"
}

// PriceInfo carries the informational fields recorded when a receipt creates
// a new batch. None of them are invariant-bearing.
type PriceInfo struct {
	PurchasePrice  decimal.Decimal
	PurchaseDate   time.Time
	ExpirationDate *time.Time
	CodeSystem     string
	CodeValue      string
	CodeDisplay    string
}

// NewBatch creates a zero-quantity ledger row for a key that has no stock
// yet. The caller applies the receipt delta afterwards so that creation and
// mutation share one code path.
func NewBatch(key BatchKey, info PriceInfo) (*Batch, error) {
	if key.MedicationID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Medication ID cannot be empty")
	}
	if key.SupplierID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Supplier ID cannot be empty")
	}
	if key.BatchNumber == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Batch number cannot be empty")
	}

	purchaseDate := info.PurchaseDate
	if purchaseDate.IsZero() {
		purchaseDate = time.Now()
	}

	return &Batch{
		BaseEntity:     shared.NewBaseEntity(),
		MedicationID:   key.MedicationID,
		SupplierID:     key.SupplierID,
		BatchNumber:    key.BatchNumber,
		QuantityOnHand: 0,
		Status:         BatchStatusActive,
		PurchasePrice:  info.PurchasePrice,
		PurchaseDate:   purchaseDate,
		ExpirationDate: info.ExpirationDate,
		CodeSystem:     info.CodeSystem,
		CodeValue:      info.CodeValue,
		CodeDisplay:    info.CodeDisplay,
	}, nil
}

// Key returns the batch's ledger key
func (b *Batch) Key() BatchKey {
	return BatchKey{
		MedicationID: b.MedicationID,
		SupplierID:   b.SupplierID,
		BatchNumber:  b.BatchNumber,
	}
}

// ApplyDelta adds a signed quantity to the batch. Negative intermediate
// values are tolerated; IsNegative is checked by the caller before commit.
func (b *Batch) ApplyDelta(delta int64) {
	b.QuantityOnHand += delta
	b.UpdatedAt = time.Now()
}

// IsNegative reports whether the batch would commit with negative stock
func (b *Batch) IsNegative() bool {
	return b.QuantityOnHand < 0
}

// IsExpired reports whether the batch is past its expiration date
func (b *Batch) IsExpired() bool {
	if b.ExpirationDate == nil {
		return false
	}
	return b.ExpirationDate.Before(time.Now())
}

// HasStock reports whether the batch has on-hand quantity
func (b *Batch) HasStock() bool {
	return b.QuantityOnHand > 0
}

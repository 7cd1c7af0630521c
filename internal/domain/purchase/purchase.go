package purchase

import (
	"time"

	"github.com/google/uuid"
	"github.com/pharmacy/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle status of a purchase
type Status string

const (
	StatusDraft          Status = "draft"
	StatusActive         Status = "active"
	StatusCompleted      Status = "completed"
	StatusCancelled      Status = "cancelled"
	StatusEnteredInError Status = "entered-in-error"
)

// IsValid checks if the status is a valid purchase Status
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusCompleted, StatusCancelled, StatusEnteredInError:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// Priority represents the urgency of a purchase
type Priority string

const (
	PriorityRoutine Priority = "routine"
	PriorityUrgent  Priority = "urgent"
	PriorityASAP    Priority = "asap"
	PriorityStat    Priority = "stat"
)

// IsValid checks if the priority is a valid Priority
func (p Priority) IsValid() bool {
	switch p {
	case PriorityRoutine, PriorityUrgent, PriorityASAP, PriorityStat:
		return true
	}
	return false
}

// PaymentStatus represents how much of the purchase has been paid
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

// IsValid checks if the payment status is a valid PaymentStatus
func (p PaymentStatus) IsValid() bool {
	switch p {
	case PaymentPending, PaymentPartial, PaymentPaid:
		return true
	}
	return false
}

// Line is one line item of a purchase: a quantity of one medication received
// into one batch. The receipt quantity is what flows into the inventory
// ledger; the ordered quantity is bookkeeping only.
type Line struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	PurchaseID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	MedicationID     uuid.UUID       `gorm:"type:uuid;not null"`
	MedicationName   string          `gorm:"size:255;not null"`
	BatchNumber      string          `gorm:"size:64;not null"`
	QuantityOrdered  int64           `gorm:"not null"`
	QuantityReceived int64           `gorm:"not null;default:0"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ExpirationDate   *time.Time
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Line) TableName() string {
	return "purchase_line_items"
}

// LineTotal returns quantity ordered times unit price
func (l *Line) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(l.QuantityOrdered))
}

// NewLine creates a purchase line item
func NewLine(purchaseID, medicationID uuid.UUID, medicationName, batchNumber string, quantityOrdered, quantityReceived int64, unitPrice decimal.Decimal, expirationDate *time.Time) (*Line, error) {
	if medicationID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Medication ID cannot be empty")
	}
	if batchNumber == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Batch number cannot be empty")
	}
	if quantityOrdered <= 0 {
		return nil, shared.NewDomainError(shared.CodeValidation, "Ordered quantity must be positive")
	}
	if quantityReceived < 0 {
		return nil, shared.NewDomainError(shared.CodeValidation, "Received quantity cannot be negative")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Unit price cannot be negative")
	}

	now := time.Now()
	return &Line{
		ID:               uuid.New(),
		PurchaseID:       purchaseID,
		MedicationID:     medicationID,
		MedicationName:   medicationName,
		BatchNumber:      batchNumber,
		QuantityOrdered:  quantityOrdered,
		QuantityReceived: quantityReceived,
		UnitPrice:        unitPrice,
		ExpirationDate:   expirationDate,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// Purchase is the purchase aggregate root: one supplier invoice with its line
// items. The reconciliation engine treats the stored lines as the record of
// what was already applied to the ledger; replacing them always goes through
// SetLines so the old lines can be reversed first.
type Purchase struct {
	shared.BaseEntity
	SupplierID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	SupplierName  string          `gorm:"size:255;not null"`
	InvoiceNumber string          `gorm:"size:64"`
	OrderDate     time.Time       `gorm:"not null"`
	Status        Status          `gorm:"size:32;not null;default:'active'"`
	Priority      Priority        `gorm:"size:16;not null;default:'routine'"`
	PaymentStatus PaymentStatus   `gorm:"size:16;not null;default:'pending'"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Notes         string          `gorm:"type:text"`
	Lines         []Line          `gorm:"foreignKey:PurchaseID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Purchase) TableName() string {
	return "purchases"
}

// NewPurchase creates a purchase header. Lines are attached afterwards via
// SetLines so that header and line validation stay separate.
func NewPurchase(supplierID uuid.UUID, supplierName, invoiceNumber string, orderDate time.Time, priority Priority, notes string) (*Purchase, error) {
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Supplier ID cannot be empty")
	}
	if priority == "" {
		priority = PriorityRoutine
	}
	if !priority.IsValid() {
		return nil, shared.NewDomainErrorf(shared.CodeValidation, "Invalid priority %q", priority)
	}
	if orderDate.IsZero() {
		orderDate = time.Now()
	}

	return &Purchase{
		BaseEntity:    shared.NewBaseEntity(),
		SupplierID:    supplierID,
		SupplierName:  supplierName,
		InvoiceNumber: invoiceNumber,
		OrderDate:     orderDate,
		Status:        StatusActive,
		Priority:      priority,
		PaymentStatus: PaymentPending,
		TotalAmount:   decimal.Zero,
		Lines:         make([]Line, 0),
	}, nil
}

// SetLines replaces the purchase's line items and recalculates the total.
// It validates structure only; stock effects are the reconciliation
// engine's concern.
func (p *Purchase) SetLines(lines []Line) error {
	if len(lines) == 0 {
		return shared.NewDomainError(shared.CodeValidation, "Purchase must have at least one line item")
	}
	for i := range lines {
		lines[i].PurchaseID = p.ID
	}
	p.Lines = lines
	p.recalculateTotal()
	p.UpdatedAt = time.Now()
	return nil
}

// SetPaymentStatus updates the payment status
func (p *Purchase) SetPaymentStatus(status PaymentStatus) error {
	if !status.IsValid() {
		return shared.NewDomainErrorf(shared.CodeValidation, "Invalid payment status %q", status)
	}
	p.PaymentStatus = status
	p.UpdatedAt = time.Now()
	return nil
}

// IsTerminal returns true if the purchase can no longer be modified
func (p *Purchase) IsTerminal() bool {
	return p.Status == StatusCancelled || p.Status == StatusEnteredInError
}

// TotalReceived returns the sum of received quantities across all lines
func (p *Purchase) TotalReceived() int64 {
	var total int64
	for _, line := range p.Lines {
		total += line.QuantityReceived
	}
	return total
}

func (p *Purchase) recalculateTotal() {
	total := decimal.Zero
	for _, line := range p.Lines {
		total = total.Add(line.LineTotal())
	}
	p.TotalAmount = total
}

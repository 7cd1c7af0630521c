package purchase

import (
	"context"

	"github.com/pharmacy/backend/internal/domain/audit"
	"github.com/pharmacy/backend/internal/domain/catalog"
	"github.com/pharmacy/backend/internal/domain/inventory"
	"github.com/pharmacy/backend/internal/domain/purchase"
)

// TransactionScope provides transactional access to the repositories the
// reconciliation engine touches. Everything executed inside one scope commits
// or rolls back as a unit: the purchase write, every batch delta, and the
// audit entries are never visible partially.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all repositories within a
// transaction. All repositories returned share the same underlying database
// transaction.
type TransactionalRepositories interface {
	// PurchaseRepo returns the purchase repository scoped to the current transaction
	PurchaseRepo() purchase.Repository
	// BatchRepo returns the inventory batch repository scoped to the current transaction
	BatchRepo() inventory.BatchRepository
	// AuditRepo returns the audit log repository scoped to the current transaction
	AuditRepo() audit.Repository
	// MedicationRepo returns the medication catalog repository scoped to the current transaction
	MedicationRepo() catalog.MedicationRepository
	// SupplierRepo returns the supplier repository scoped to the current transaction
	SupplierRepo() catalog.SupplierRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing with mock repositories.
type NoOpTransactionScope struct {
	purchaseRepo   purchase.Repository
	batchRepo      inventory.BatchRepository
	auditRepo      audit.Repository
	medicationRepo catalog.MedicationRepository
	supplierRepo   catalog.SupplierRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	purchaseRepo purchase.Repository,
	batchRepo inventory.BatchRepository,
	auditRepo audit.Repository,
	medicationRepo catalog.MedicationRepository,
	supplierRepo catalog.SupplierRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		purchaseRepo:   purchaseRepo,
		batchRepo:      batchRepo,
		auditRepo:      auditRepo,
		medicationRepo: medicationRepo,
		supplierRepo:   supplierRepo,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// PurchaseRepo returns the purchase repository.
func (s *NoOpTransactionScope) PurchaseRepo() purchase.Repository {
	return s.purchaseRepo
}

// BatchRepo returns the inventory batch repository.
func (s *NoOpTransactionScope) BatchRepo() inventory.BatchRepository {
	return s.batchRepo
}

// AuditRepo returns the audit log repository.
func (s *NoOpTransactionScope) AuditRepo() audit.Repository {
	return s.auditRepo
}

// MedicationRepo returns the medication catalog repository.
func (s *NoOpTransactionScope) MedicationRepo() catalog.MedicationRepository {
	return s.medicationRepo
}

// SupplierRepo returns the supplier repository.
func (s *NoOpTransactionScope) SupplierRepo() catalog.SupplierRepository {
	return s.supplierRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)

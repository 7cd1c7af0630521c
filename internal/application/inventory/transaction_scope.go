package inventory

import (
	"context"

	"github.com/pharmacy/backend/internal/domain/audit"
	"github.com/pharmacy/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to the repositories a stock
// decrement touches: the batch mutation and its audit entry commit together.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories within a
// transaction. All repositories returned share the same underlying database
// transaction.
type TransactionalRepositories interface {
	// BatchRepo returns the inventory batch repository scoped to the current transaction
	BatchRepo() inventory.BatchRepository
	// AuditRepo returns the audit log repository scoped to the current transaction
	AuditRepo() audit.Repository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing with mock repositories.
type NoOpTransactionScope struct {
	batchRepo inventory.BatchRepository
	auditRepo audit.Repository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(batchRepo inventory.BatchRepository, auditRepo audit.Repository) *NoOpTransactionScope {
	return &NoOpTransactionScope{batchRepo: batchRepo, auditRepo: auditRepo}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// BatchRepo returns the inventory batch repository.
func (s *NoOpTransactionScope) BatchRepo() inventory.BatchRepository {
	return s.batchRepo
}

// AuditRepo returns the audit log repository.
func (s *NoOpTransactionScope) AuditRepo() audit.Repository {
	return s.auditRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)

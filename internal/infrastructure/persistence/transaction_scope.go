package persistence

import (
	"context"
	"time"

	appinv "github.com/pharmacy/backend/internal/application/inventory"
	apppur "github.com/pharmacy/backend/internal/application/purchase"
	"github.com/pharmacy/backend/internal/domain/audit"
	"github.com/pharmacy/backend/internal/domain/catalog"
	"github.com/pharmacy/backend/internal/domain/inventory"
	"github.com/pharmacy/backend/internal/domain/purchase"
	"gorm.io/gorm"
)

// gormTransactionalRepositories provides access to all repositories within a
// single transaction. It backs both application scopes so that purchase
// reconciliation and sale decrements share one repository wiring.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// PurchaseRepo returns the purchase repository scoped to the current transaction.
func (r *gormTransactionalRepositories) PurchaseRepo() purchase.Repository {
	return NewGormPurchaseRepository(r.tx)
}

// BatchRepo returns the inventory batch repository scoped to the current transaction.
func (r *gormTransactionalRepositories) BatchRepo() inventory.BatchRepository {
	return NewGormBatchRepository(r.tx)
}

// AuditRepo returns the audit log repository scoped to the current transaction.
func (r *gormTransactionalRepositories) AuditRepo() audit.Repository {
	return NewGormAuditLogRepository(r.tx)
}

// MedicationRepo returns the medication catalog repository scoped to the current transaction.
func (r *gormTransactionalRepositories) MedicationRepo() catalog.MedicationRepository {
	return NewGormMedicationRepository(r.tx)
}

// SupplierRepo returns the supplier repository scoped to the current transaction.
func (r *gormTransactionalRepositories) SupplierRepo() catalog.SupplierRepository {
	return NewGormSupplierRepository(r.tx)
}

// retryBackoff is the base delay between transaction attempts; attempt n
// waits n times this long.
const retryBackoff = 50 * time.Millisecond

// runInTransaction executes fn in a transaction, retrying from scratch on
// transient lock failures with linear backoff. fn must be safe to re-run:
// each attempt re-reads its rows under fresh locks, so a rolled-back attempt
// leaves no state behind.
func runInTransaction(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = db.WithContext(ctx).Transaction(fn)
		if err == nil || !IsRetryableTxError(err) {
			return err
		}
		if attempt == maxTxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return err
		case <-time.After(time.Duration(attempt) * retryBackoff):
		}
	}
	return err
}

// GormPurchaseTransactionScope implements the purchase application's
// TransactionScope using GORM transactions.
type GormPurchaseTransactionScope struct {
	db *gorm.DB
}

// NewGormPurchaseTransactionScope creates a new GormPurchaseTransactionScope.
func NewGormPurchaseTransactionScope(db *gorm.DB) *GormPurchaseTransactionScope {
	return &GormPurchaseTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormPurchaseTransactionScope) Execute(ctx context.Context, fn func(repos apppur.TransactionalRepositories) error) error {
	return runInTransaction(ctx, s.db, func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// GormInventoryTransactionScope implements the inventory application's
// TransactionScope using GORM transactions.
type GormInventoryTransactionScope struct {
	db *gorm.DB
}

// NewGormInventoryTransactionScope creates a new GormInventoryTransactionScope.
func NewGormInventoryTransactionScope(db *gorm.DB) *GormInventoryTransactionScope {
	return &GormInventoryTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
func (s *GormInventoryTransactionScope) Execute(ctx context.Context, fn func(repos appinv.TransactionalRepositories) error) error {
	return runInTransaction(ctx, s.db, func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// Ensure the scopes and repository set implement the application contracts
var _ apppur.TransactionScope = (*GormPurchaseTransactionScope)(nil)
var _ appinv.TransactionScope = (*GormInventoryTransactionScope)(nil)
var _ apppur.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
var _ appinv.TransactionalRepositories = (*gormTransactionalRepositories)(nil)

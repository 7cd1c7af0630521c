package persistence

import (
	"database/sql/driver"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// maxTxAttempts bounds how often a serialization casualty is retried before
// the error is surfaced to the caller.
const maxTxAttempts = 3

// Retryable SQLSTATE codes: serialization_failure, deadlock_detected,
// lock_not_available. These indicate transient lock contention, not a bug;
// re-running the whole transaction is safe because every scope re-reads its
// rows under fresh locks.
var retryableSQLStates = map[string]bool{
	"40001": true,
	"40P01": true,
	"55P03": true,
}

// IsRetryableTxError reports whether the transaction that produced err can be
// retried from scratch.
func IsRetryableTxError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	// The GORM postgres driver surfaces pgx errors; lib/pq errors come from
	// connections opened through database/sql (migrate CLI)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return retryableSQLStates[pgErr.Code]
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return retryableSQLStates[string(pqErr.Code)]
	}
	return false
}

package persistence

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsRetryableTxError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"nil", nil, false},
		{"pgx serialization failure", &pgconn.PgError{Code: "40001"}, true},
		{"pgx deadlock detected", &pgconn.PgError{Code: "40P01"}, true},
		{"pgx lock not available", &pgconn.PgError{Code: "55P03"}, true},
		{"pgx unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"pq serialization failure", &pq.Error{Code: "40001"}, true},
		{"pq deadlock detected", &pq.Error{Code: "40P01"}, true},
		{"pq lock not available", &pq.Error{Code: "55P03"}, true},
		{"pq unique violation", &pq.Error{Code: "23505"}, false},
		{"bad connection", driver.ErrBadConn, true},
		{"wrapped pgx deadlock", fmt.Errorf("tx failed: %w", &pgconn.PgError{Code: "40P01"}), true},
		{"wrapped pq deadlock", fmt.Errorf("tx failed: %w", &pq.Error{Code: "40P01"}), true},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retryable, IsRetryableTxError(tt.err))
		})
	}
}

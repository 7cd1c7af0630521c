package audit

import (
	"context"

	"github.com/pharmacy/backend/internal/domain/shared"
)

// Repository is the append-only audit log contract. There is deliberately no
// update or delete operation.
type Repository interface {
	// Append persists audit entries in order
	Append(ctx context.Context, entries []*Entry) error

	// FindAll lists entries newest first, with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]Entry, error)

	// Count counts entries matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

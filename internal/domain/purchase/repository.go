package purchase

import (
	"context"

	"github.com/google/uuid"
	"github.com/pharmacy/backend/internal/domain/shared"
)

// Repository is the purchase aggregate's data access contract
type Repository interface {
	// Create persists a new purchase with its lines
	Create(ctx context.Context, p *Purchase) error

	// FindByID returns the purchase with its lines or shared.ErrNotFound
	FindByID(ctx context.Context, id uuid.UUID) (*Purchase, error)

	// FindByIDForUpdate locks the purchase header row (SELECT ... FOR UPDATE)
	// and returns the purchase with its lines, or shared.ErrNotFound. The
	// reconciliation engine takes this lock before any batch lock so that two
	// writers on the same purchase serialize at the header.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Purchase, error)

	// Save persists header changes and replaces the purchase's line items
	// with its current Lines slice
	Save(ctx context.Context, p *Purchase) error

	// Delete removes the purchase and its lines
	Delete(ctx context.Context, id uuid.UUID) error

	// FindAll lists purchases with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]Purchase, error)

	// Count counts purchases matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

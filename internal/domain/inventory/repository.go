package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/pharmacy/backend/internal/domain/shared"
)

// BatchResolution is the result of a lookup-or-create against the ledger.
// Created distinguishes a fresh zero-quantity row from an existing one, so
// the commit gate can tell "insufficient stock" apart from "reversal against
// a row that no longer exists".
type BatchResolution struct {
	Batch   *Batch
	Created bool
}

// BatchRepository is the ledger's data access contract
type BatchRepository interface {
	// FindByID returns the batch or shared.ErrNotFound
	FindByID(ctx context.Context, id uuid.UUID) (*Batch, error)

	// FindByIDForUpdate locks the batch row (SELECT ... FOR UPDATE) and
	// returns it, or shared.ErrNotFound
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Batch, error)

	// FindByKey returns the batch for the key or shared.ErrNotFound
	FindByKey(ctx context.Context, key BatchKey) (*Batch, error)

	// ResolveForUpdate locks the row for the key and returns it; when the key
	// has no row yet, a zero-quantity batch is created with the given price
	// info and returned with Created set. Callers must invoke ResolveForUpdate
	// in BatchKey sort order.
	ResolveForUpdate(ctx context.Context, key BatchKey, info PriceInfo) (BatchResolution, error)

	// Save persists the batch's current state
	Save(ctx context.Context, batch *Batch) error

	// FindAll lists batches with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]Batch, error)

	// Count counts batches matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

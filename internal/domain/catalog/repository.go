package catalog

import (
	"context"

	"github.com/google/uuid"
)

// MedicationRepository provides read access to the medication catalog.
// The reconciliation core never writes catalog data.
type MedicationRepository interface {
	// FindByID returns the medication or shared.ErrNotFound
	FindByID(ctx context.Context, id uuid.UUID) (*Medication, error)
	// FindByIDs returns the medications for the given IDs, keyed by ID.
	// IDs absent from the catalog are simply missing from the result.
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Medication, error)
}

// SupplierRepository provides read access to supplier organizations
type SupplierRepository interface {
	// FindByID returns the supplier or shared.ErrNotFound
	FindByID(ctx context.Context, id uuid.UUID) (*Supplier, error)
}

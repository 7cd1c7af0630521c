package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pharmacy/backend/internal/domain/catalog"
	"github.com/pharmacy/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormMedicationRepository implements catalog.MedicationRepository using GORM
type GormMedicationRepository struct {
	db *gorm.DB
}

// NewGormMedicationRepository creates a new GormMedicationRepository
func NewGormMedicationRepository(db *gorm.DB) *GormMedicationRepository {
	return &GormMedicationRepository{db: db}
}

// FindByID finds a medication by its ID
func (r *GormMedicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Medication, error) {
	var medication catalog.Medication
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&medication).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &medication, nil
}

// FindByIDs finds medications for the given IDs, keyed by ID. IDs absent from
// the catalog are simply missing from the result.
func (r *GormMedicationRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*catalog.Medication, error) {
	result := make(map[uuid.UUID]*catalog.Medication, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var medications []catalog.Medication
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&medications).Error; err != nil {
		return nil, err
	}
	for i := range medications {
		result[medications[i].ID] = &medications[i]
	}
	return result, nil
}

// GormSupplierRepository implements catalog.SupplierRepository using GORM
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewGormSupplierRepository creates a new GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

// FindByID finds a supplier by its ID
func (r *GormSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Supplier, error) {
	var supplier catalog.Supplier
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&supplier).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &supplier, nil
}

// Ensure repositories implement the catalog contracts
var _ catalog.MedicationRepository = (*GormMedicationRepository)(nil)
var _ catalog.SupplierRepository = (*GormSupplierRepository)(nil)

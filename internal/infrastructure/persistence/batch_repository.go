package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pharmacy/backend/internal/domain/inventory"
	"github.com/pharmacy/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBatchRepository implements inventory.BatchRepository using GORM
type GormBatchRepository struct {
	db *gorm.DB
}

// NewGormBatchRepository creates a new GormBatchRepository
func NewGormBatchRepository(db *gorm.DB) *GormBatchRepository {
	return &GormBatchRepository{db: db}
}

// lockForUpdate adds SELECT ... FOR UPDATE on dialects that support it.
// SQLite (used by in-memory tests) serializes writers anyway.
func (r *GormBatchRepository) lockForUpdate(query *gorm.DB) *gorm.DB {
	if r.db.Dialector.Name() == "sqlite" {
		return query
	}
	return query.Clauses(clause.Locking{Strength: "UPDATE"})
}

// FindByID finds a batch by its ID
func (r *GormBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Batch, error) {
	var batch inventory.Batch
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&batch).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindByIDForUpdate finds a batch by its ID with a row lock
func (r *GormBatchRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*inventory.Batch, error) {
	var batch inventory.Batch
	err := r.lockForUpdate(r.db.WithContext(ctx)).Where("id = ?", id).First(&batch).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindByKey finds the batch for a ledger key
func (r *GormBatchRepository) FindByKey(ctx context.Context, key inventory.BatchKey) (*inventory.Batch, error) {
	var batch inventory.Batch
	err := r.db.WithContext(ctx).
		Where("medication_id = ? AND supplier_id = ? AND batch_number = ?",
			key.MedicationID, key.SupplierID, key.BatchNumber).
		First(&batch).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// ResolveForUpdate locks the ledger row for the key, creating a zero-quantity
// row first when the key is new. The insert races against concurrent creators
// on the unique key index; on conflict the loser falls back to locking the
// winner's row.
func (r *GormBatchRepository) ResolveForUpdate(ctx context.Context, key inventory.BatchKey, info inventory.PriceInfo) (inventory.BatchResolution, error) {
	var batch inventory.Batch
	err := r.lockForUpdate(r.db.WithContext(ctx)).
		Where("medication_id = ? AND supplier_id = ? AND batch_number = ?",
			key.MedicationID, key.SupplierID, key.BatchNumber).
		First(&batch).Error
	if err == nil {
		return inventory.BatchResolution{Batch: &batch}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return inventory.BatchResolution{}, err
	}

	created, err := inventory.NewBatch(key, info)
	if err != nil {
		return inventory.BatchResolution{}, err
	}

	insert := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "medication_id"},
				{Name: "supplier_id"},
				{Name: "batch_number"},
			},
			DoNothing: true,
		}).
		Create(created)
	if insert.Error != nil {
		return inventory.BatchResolution{}, insert.Error
	}
	if insert.RowsAffected > 0 {
		return inventory.BatchResolution{Batch: created, Created: true}, nil
	}

	// Lost the insert race; lock the row the other transaction created.
	err = r.lockForUpdate(r.db.WithContext(ctx)).
		Where("medication_id = ? AND supplier_id = ? AND batch_number = ?",
			key.MedicationID, key.SupplierID, key.BatchNumber).
		First(&batch).Error
	if err != nil {
		return inventory.BatchResolution{}, err
	}
	return inventory.BatchResolution{Batch: &batch}, nil
}

// Save persists the batch's current state
func (r *GormBatchRepository) Save(ctx context.Context, batch *inventory.Batch) error {
	batch.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(batch).Error
}

// FindAll finds batches matching the filter with pagination
func (r *GormBatchRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.Batch, error) {
	var batches []inventory.Batch

	query := r.db.WithContext(ctx).Model(&inventory.Batch{})
	query = r.applyFilter(query, filter)

	if err := query.Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// Count counts batches matching the filter
func (r *GormBatchRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64

	query := r.db.WithContext(ctx).Model(&inventory.Batch{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filtering, pagination and ordering to the query
func (r *GormBatchRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	sortField := ValidateSortField(filter.OrderBy, BatchSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	return query.Order(sortField + " " + sortOrder)
}

func (r *GormBatchRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "medication_id":
			query = query.Where("medication_id = ?", value)
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		case "batch_number":
			query = query.Where("batch_number = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "in_stock":
			if inStock, ok := value.(bool); ok && inStock {
				query = query.Where("quantity_on_hand > 0")
			}
		case "expires_before":
			if t, ok := value.(time.Time); ok {
				query = query.Where("expiration_date IS NOT NULL AND expiration_date <= ?", t)
			}
		}
	}
	return query
}

// Ensure GormBatchRepository implements BatchRepository
var _ inventory.BatchRepository = (*GormBatchRepository)(nil)

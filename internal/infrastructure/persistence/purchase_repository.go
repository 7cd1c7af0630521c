package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pharmacy/backend/internal/domain/purchase"
	"github.com/pharmacy/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPurchaseRepository implements purchase.Repository using GORM
type GormPurchaseRepository struct {
	db *gorm.DB
}

// NewGormPurchaseRepository creates a new GormPurchaseRepository
func NewGormPurchaseRepository(db *gorm.DB) *GormPurchaseRepository {
	return &GormPurchaseRepository{db: db}
}

func (r *GormPurchaseRepository) lockForUpdate(query *gorm.DB) *gorm.DB {
	if r.db.Dialector.Name() == "sqlite" {
		return query
	}
	return query.Clauses(clause.Locking{Strength: "UPDATE"})
}

// Create persists a new purchase with its lines
func (r *GormPurchaseRepository) Create(ctx context.Context, p *purchase.Purchase) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// FindByID finds a purchase with its lines by ID
func (r *GormPurchaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*purchase.Purchase, error) {
	var p purchase.Purchase
	err := r.db.WithContext(ctx).Preload("Lines").Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByIDForUpdate locks the purchase header row and returns the purchase
// with its lines. The header lock serializes writers on the same purchase
// before any batch lock is taken.
func (r *GormPurchaseRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*purchase.Purchase, error) {
	var p purchase.Purchase
	err := r.lockForUpdate(r.db.WithContext(ctx)).Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Where("purchase_id = ?", id).
		Order("created_at ASC").
		Find(&p.Lines).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// Save persists header changes and replaces the stored line items with the
// purchase's current Lines slice
func (r *GormPurchaseRepository) Save(ctx context.Context, p *purchase.Purchase) error {
	p.UpdatedAt = time.Now()

	if err := r.db.WithContext(ctx).Omit("Lines").Save(p).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).
		Where("purchase_id = ?", p.ID).
		Delete(&purchase.Line{}).Error; err != nil {
		return err
	}
	if len(p.Lines) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&p.Lines).Error
}

// Delete removes the purchase and its lines
func (r *GormPurchaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("purchase_id = ?", id).Delete(&purchase.Line{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&purchase.Purchase{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// FindAll finds purchases matching the filter with pagination
func (r *GormPurchaseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]purchase.Purchase, error) {
	var purchases []purchase.Purchase

	query := r.db.WithContext(ctx).Model(&purchase.Purchase{})
	query = r.applyFilter(query, filter)

	if err := query.Preload("Lines").Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}

// Count counts purchases matching the filter
func (r *GormPurchaseRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64

	query := r.db.WithContext(ctx).Model(&purchase.Purchase{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filtering, pagination and ordering to the query
func (r *GormPurchaseRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	sortField := ValidateSortField(filter.OrderBy, PurchaseSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	return query.Order(sortField + " " + sortOrder)
}

func (r *GormPurchaseRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "priority":
			query = query.Where("priority = ?", value)
		case "payment_status":
			query = query.Where("payment_status = ?", value)
		case "invoice_number":
			query = query.Where("invoice_number = ?", value)
		case "order_date_from":
			if t, ok := value.(time.Time); ok {
				query = query.Where("order_date >= ?", t)
			}
		case "order_date_to":
			if t, ok := value.(time.Time); ok {
				query = query.Where("order_date <= ?", t)
			}
		}
	}
	return query
}

// Ensure GormPurchaseRepository implements Repository
var _ purchase.Repository = (*GormPurchaseRepository)(nil)

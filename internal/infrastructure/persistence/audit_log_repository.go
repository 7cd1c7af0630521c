package persistence

import (
	"context"
	"time"

	"github.com/pharmacy/backend/internal/domain/audit"
	"github.com/pharmacy/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormAuditLogRepository implements audit.Repository using GORM. The table is
// append-only; this repository exposes no update or delete.
type GormAuditLogRepository struct {
	db *gorm.DB
}

// NewGormAuditLogRepository creates a new GormAuditLogRepository
func NewGormAuditLogRepository(db *gorm.DB) *GormAuditLogRepository {
	return &GormAuditLogRepository{db: db}
}

// Append persists audit entries in order
func (r *GormAuditLogRepository) Append(ctx context.Context, entries []*audit.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&entries).Error
}

// FindAll finds audit entries matching the filter, newest first by default
func (r *GormAuditLogRepository) FindAll(ctx context.Context, filter shared.Filter) ([]audit.Entry, error) {
	var entries []audit.Entry

	query := r.db.WithContext(ctx).Model(&audit.Entry{})
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	sortField := ValidateSortField(filter.OrderBy, AuditLogSortFields, "occurred_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder)

	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Count counts audit entries matching the filter
func (r *GormAuditLogRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64

	query := r.db.WithContext(ctx).Model(&audit.Entry{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormAuditLogRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "action":
			query = query.Where("action = ?", value)
		case "batch_id":
			query = query.Where("batch_id = ?", value)
		case "performed_by":
			query = query.Where("performed_by = ?", value)
		case "occurred_from":
			if t, ok := value.(time.Time); ok {
				query = query.Where("occurred_at >= ?", t)
			}
		case "occurred_to":
			if t, ok := value.(time.Time); ok {
				query = query.Where("occurred_at <= ?", t)
			}
		}
	}
	return query
}

// Ensure GormAuditLogRepository implements Repository
var _ audit.Repository = (*GormAuditLogRepository)(nil)

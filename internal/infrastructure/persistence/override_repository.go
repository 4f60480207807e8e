package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vendorsync/backend/internal/domain/catalog"
	"github.com/vendorsync/backend/internal/domain/shared"
)

// GormOverrideRepository implements OverrideRepository using GORM
type GormOverrideRepository struct {
	db *gorm.DB
}

// NewGormOverrideRepository creates a new GormOverrideRepository
func NewGormOverrideRepository(db *gorm.DB) *GormOverrideRepository {
	return &GormOverrideRepository{db: db}
}

// FindByID finds an override by its ID
func (r *GormOverrideRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Override, error) {
	var override catalog.Override
	if err := r.db.WithContext(ctx).First(&override, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &override, nil
}

// FindBySKU returns overrides for a SKU, unresolved only unless asked
func (r *GormOverrideRepository) FindBySKU(ctx context.Context, sku string, includeResolved bool) ([]catalog.Override, error) {
	query := r.db.WithContext(ctx).
		Where("sku = ?", strings.ToUpper(sku)).
		Order("created_at DESC")
	if !includeResolved {
		query = query.Where("resolved = ?", false)
	}

	var overrides []catalog.Override
	if err := query.Find(&overrides).Error; err != nil {
		return nil, err
	}
	return overrides, nil
}

// Create persists a new override
func (r *GormOverrideRepository) Create(ctx context.Context, override *catalog.Override) error {
	return r.db.WithContext(ctx).Create(override).Error
}

// Save persists override changes
func (r *GormOverrideRepository) Save(ctx context.Context, override *catalog.Override) error {
	return r.db.WithContext(ctx).Save(override).Error
}

// FindAll returns overrides matching the filter, newest first
func (r *GormOverrideRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Override, error) {
	var overrides []catalog.Override
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Override{}), filter).
		Order("created_at DESC")

	if err := query.Find(&overrides).Error; err != nil {
		return nil, err
	}
	return overrides, nil
}

// Count returns the number of overrides matching the filter
func (r *GormOverrideRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var total int64
	err := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&catalog.Override{}), filter).
		Count(&total).Error
	return total, err
}

func (r *GormOverrideRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

func (r *GormOverrideRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(sku) LIKE ?", pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "resolved":
			query = query.Where("resolved = ?", value)
		case "reason":
			query = query.Where("reason = ?", value)
		case "field":
			query = query.Where("field = ?", value)
		}
	}
	return query
}

// Ensure GormOverrideRepository implements OverrideRepository
var _ catalog.OverrideRepository = (*GormOverrideRepository)(nil)

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

// GormVariantRepository implements VariantRepository using GORM
type GormVariantRepository struct {
	db *gorm.DB
}

// NewGormVariantRepository creates a new GormVariantRepository
func NewGormVariantRepository(db *gorm.DB) *GormVariantRepository {
	return &GormVariantRepository{db: db}
}

// FindByID finds a canonical variant by its ID
func (r *GormVariantRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.CanonicalVariant, error) {
	var variant catalog.CanonicalVariant
	if err := r.db.WithContext(ctx).First(&variant, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &variant, nil
}

// FindBySKU finds a canonical variant by its SKU
func (r *GormVariantRepository) FindBySKU(ctx context.Context, sku string) (*catalog.CanonicalVariant, error) {
	var variant catalog.CanonicalVariant
	if err := r.db.WithContext(ctx).
		Where("sku = ?", strings.ToUpper(sku)).
		First(&variant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &variant, nil
}

// Save persists a canonical variant
func (r *GormVariantRepository) Save(ctx context.Context, variant *catalog.CanonicalVariant) error {
	return r.db.WithContext(ctx).Save(variant).Error
}

// FindAll finds all variants matching the filter
func (r *GormVariantRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.CanonicalVariant, error) {
	var variants []catalog.CanonicalVariant
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.CanonicalVariant{}), filter)

	if err := query.Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

// Count returns the number of variants matching the filter
func (r *GormVariantRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var total int64
	err := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&catalog.CanonicalVariant{}), filter).
		Count(&total).Error
	return total, err
}

// FindBelowThreshold returns variants whose stock quantity sits at or below
// their low stock threshold, out-of-stock ones included.
func (r *GormVariantRepository) FindBelowThreshold(ctx context.Context, filter shared.Filter) ([]catalog.CanonicalVariant, error) {
	var variants []catalog.CanonicalVariant
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&catalog.CanonicalVariant{}).
			Where("stock_quantity <= low_stock_threshold"),
		filter,
	)

	if err := query.Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

// applyFilter applies filtering, pagination and ordering
func (r *GormVariantRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("sku ASC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormVariantRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(sku) LIKE ? OR LOWER(title) LIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "vendor":
			query = query.Where("vendor = ?", value)
		case "in_stock":
			if value == true {
				query = query.Where("stock_quantity > 0")
			} else {
				query = query.Where("stock_quantity <= 0")
			}
		}
	}

	return query
}

// Ensure GormVariantRepository implements VariantRepository
var _ catalog.VariantRepository = (*GormVariantRepository)(nil)

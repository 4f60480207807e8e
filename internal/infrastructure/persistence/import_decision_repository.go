package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vendorsync/backend/internal/domain/shared"
	"github.com/vendorsync/backend/internal/domain/staging"
)

// GormImportDecisionRepository implements ImportDecisionRepository using GORM
type GormImportDecisionRepository struct {
	db *gorm.DB
}

// NewGormImportDecisionRepository creates a new GormImportDecisionRepository
func NewGormImportDecisionRepository(db *gorm.DB) *GormImportDecisionRepository {
	return &GormImportDecisionRepository{db: db}
}

// FindByStagedProductID finds the decision audit record for a staged product
func (r *GormImportDecisionRepository) FindByStagedProductID(ctx context.Context, stagedProductID uuid.UUID) (*staging.ImportDecision, error) {
	var decision staging.ImportDecision
	if err := r.db.WithContext(ctx).
		Where("staged_product_id = ?", stagedProductID).
		First(&decision).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &decision, nil
}

// Create persists a new decision audit record
func (r *GormImportDecisionRepository) Create(ctx context.Context, decision *staging.ImportDecision) error {
	return r.db.WithContext(ctx).Create(decision).Error
}

// FindAll returns decision records, newest first
func (r *GormImportDecisionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]staging.ImportDecision, error) {
	query := r.db.WithContext(ctx).Model(&staging.ImportDecision{}).Order("decided_at DESC")

	if decision, ok := filter.Filters["decision"]; ok {
		query = query.Where("decision = ?", decision)
	}
	if actor, ok := filter.Filters["decided_by"]; ok {
		query = query.Where("decided_by = ?", actor)
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	var decisions []staging.ImportDecision
	if err := query.Find(&decisions).Error; err != nil {
		return nil, err
	}
	return decisions, nil
}

// Ensure GormImportDecisionRepository implements ImportDecisionRepository
var _ staging.ImportDecisionRepository = (*GormImportDecisionRepository)(nil)

package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vendorsync/backend/internal/domain/shared"
	"github.com/vendorsync/backend/internal/domain/staging"
)

// GormStagedProductRepository implements StagedProductRepository using GORM
type GormStagedProductRepository struct {
	db *gorm.DB
}

// NewGormStagedProductRepository creates a new GormStagedProductRepository
func NewGormStagedProductRepository(db *gorm.DB) *GormStagedProductRepository {
	return &GormStagedProductRepository{db: db}
}

// FindByID finds a staged product by its ID, variants included
func (r *GormStagedProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*staging.StagedVendorProduct, error) {
	var product staging.StagedVendorProduct
	if err := r.db.WithContext(ctx).Preload("Variants").First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByUpstreamID finds a staged product by its upstream product ID
func (r *GormStagedProductRepository) FindByUpstreamID(ctx context.Context, upstreamProductID string) (*staging.StagedVendorProduct, error) {
	var product staging.StagedVendorProduct
	if err := r.db.WithContext(ctx).Preload("Variants").
		Where("upstream_product_id = ?", upstreamProductID).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// Upsert merges the product keyed on its upstream product ID. A new row is
// created as-is; an existing row has its attributes and variants replaced
// while the decision columns stay untouched.
func (r *GormStagedProductRepository) Upsert(ctx context.Context, product *staging.StagedVendorProduct) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing staging.StagedVendorProduct
		err := tx.Where("upstream_product_id = ?", product.UpstreamProductID).First(&existing).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			assignVariantKeys(product.Variants, product.ID)
			return tx.Create(product).Error
		}
		if err != nil {
			return err
		}

		now := time.Now()
		if err := tx.Model(&staging.StagedVendorProduct{}).
			Where("id = ?", existing.ID).
			Updates(map[string]interface{}{
				"title":          product.Title,
				"vendor":         product.Vendor,
				"raw_payload":    product.RawPayload,
				"last_synced_at": now,
				"updated_at":     now,
				"version":        gorm.Expr("version + 1"),
			}).Error; err != nil {
			return err
		}

		if err := tx.Where("staged_product_id = ?", existing.ID).
			Delete(&staging.StagedVariant{}).Error; err != nil {
			return err
		}
		assignVariantKeys(product.Variants, existing.ID)
		if len(product.Variants) > 0 {
			if err := tx.Create(&product.Variants).Error; err != nil {
				return err
			}
		}

		// Reflect the stored identity and decision state on the aggregate
		product.ID = existing.ID
		product.Decision = existing.Decision
		product.Status = existing.Status
		product.DecidedBy = existing.DecidedBy
		product.DecidedAt = existing.DecidedAt
		product.CreatedAt = existing.CreatedAt

		return nil
	})
}

// Save persists the staged product and its variants
func (r *GormStagedProductRepository) Save(ctx context.Context, product *staging.StagedVendorProduct) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(product).Error
}

// ListInbox returns one page of the inbox together with the total count,
// both read inside one transaction so they describe the same snapshot.
func (r *GormStagedProductRepository) ListInbox(ctx context.Context, filter staging.InboxFilter) (shared.Paginated[staging.StagedVendorProduct], error) {
	var (
		products []staging.StagedVendorProduct
		total    int64
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.applyInboxFilter(tx.Model(&staging.StagedVendorProduct{}), filter).
			Count(&total).Error; err != nil {
			return err
		}

		query := r.applyInboxFilter(tx.Model(&staging.StagedVendorProduct{}), filter).
			Preload("Variants").
			Order("created_at DESC").
			Offset((filter.Page - 1) * filter.PageSize).
			Limit(filter.PageSize)
		return query.Find(&products).Error
	})
	if err != nil {
		return shared.Paginated[staging.StagedVendorProduct]{}, err
	}

	return shared.NewPaginated(products, total, filter.Page, filter.PageSize), nil
}

// CountInbox returns the number of staged products matching the filter
func (r *GormStagedProductRepository) CountInbox(ctx context.Context, filter staging.InboxFilter) (int64, error) {
	var total int64
	err := r.applyInboxFilter(r.db.WithContext(ctx).Model(&staging.StagedVendorProduct{}), filter).
		Count(&total).Error
	return total, err
}

// TransitionDecision performs the compare-and-swap from pending to a
// terminal decision. Zero rows affected means this call lost the race or
// the ID is unknown.
func (r *GormStagedProductRepository) TransitionDecision(ctx context.Context, id uuid.UUID, to staging.DecisionStatus, actor string) (bool, error) {
	if !to.IsTerminal() {
		return false, shared.NewDomainError("INVALID_DECISION", "Decision must be accepted or rejected")
	}

	now := time.Now()
	updates := map[string]interface{}{
		"decision":   to,
		"decided_by": actor,
		"decided_at": now,
		"updated_at": now,
		"version":    gorm.Expr("version + 1"),
	}
	if to == staging.DecisionRejected {
		updates["status"] = staging.ProductStatusInactive
	}

	result := r.db.WithContext(ctx).Model(&staging.StagedVendorProduct{}).
		Where("id = ? AND decision = ?", id, staging.DecisionPending).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// applyInboxFilter applies search, status and decision filters. Search
// matches the product title or any variant SKU, case-insensitive.
func (r *GormStagedProductRepository) applyInboxFilter(query *gorm.DB, filter staging.InboxFilter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(title) LIKE ? OR EXISTS (SELECT 1 FROM staged_variants sv WHERE sv.staged_product_id = staged_vendor_products.id AND LOWER(sv.sku) LIKE ?)",
			pattern, pattern,
		)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Decision != "" {
		query = query.Where("decision = ?", filter.Decision)
	}
	return query
}

func assignVariantKeys(variants []staging.StagedVariant, productID uuid.UUID) {
	for i := range variants {
		if variants[i].ID == uuid.Nil {
			variants[i].BaseEntity = shared.NewBaseEntity()
		}
		variants[i].StagedProductID = productID
	}
}

// Ensure GormStagedProductRepository implements StagedProductRepository
var _ staging.StagedProductRepository = (*GormStagedProductRepository)(nil)

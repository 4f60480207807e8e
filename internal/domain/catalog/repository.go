package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/vendorsync/backend/internal/domain/shared"
)

// VariantRepository persists canonical variants
type VariantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CanonicalVariant, error)
	FindBySKU(ctx context.Context, sku string) (*CanonicalVariant, error)
	Save(ctx context.Context, variant *CanonicalVariant) error
	FindAll(ctx context.Context, filter shared.Filter) ([]CanonicalVariant, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// FindBelowThreshold returns variants whose stock quantity is at or
	// below their low stock threshold, including out-of-stock ones.
	FindBelowThreshold(ctx context.Context, filter shared.Filter) ([]CanonicalVariant, error)
}

// OverrideRepository persists reconciliation overrides
type OverrideRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Override, error)
	FindBySKU(ctx context.Context, sku string, includeResolved bool) ([]Override, error)
	Create(ctx context.Context, override *Override) error
	Save(ctx context.Context, override *Override) error
	FindAll(ctx context.Context, filter shared.Filter) ([]Override, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vendorsync/backend/internal/domain/catalog"
	"github.com/vendorsync/backend/internal/domain/shared"
)

// Service serves read access to the canonical catalog plus override review
type Service struct {
	variantRepo  catalog.VariantRepository
	overrideRepo catalog.OverrideRepository
	logger       *zap.Logger
}

// NewService creates a new catalog Service
func NewService(
	variantRepo catalog.VariantRepository,
	overrideRepo catalog.OverrideRepository,
	logger *zap.Logger,
) *Service {
	return &Service{
		variantRepo:  variantRepo,
		overrideRepo: overrideRepo,
		logger:       logger,
	}
}

// GetVariantBySKU returns the canonical variant for a SKU
func (s *Service) GetVariantBySKU(ctx context.Context, sku string) (*catalog.CanonicalVariant, error) {
	sku = strings.ToUpper(strings.TrimSpace(sku))
	if sku == "" {
		return nil, shared.NewDomainError("MISSING_SKU", "SKU is required")
	}
	return s.variantRepo.FindBySKU(ctx, sku)
}

// ListVariants returns one page of canonical variants
func (s *Service) ListVariants(ctx context.Context, filter shared.Filter) (shared.Paginated[catalog.CanonicalVariant], error) {
	normalizeFilter(&filter)

	variants, err := s.variantRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[catalog.CanonicalVariant]{}, err
	}
	total, err := s.variantRepo.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[catalog.CanonicalVariant]{}, err
	}

	return shared.NewPaginated(variants, total, filter.Page, filter.PageSize), nil
}

// ListLowStock returns variants whose stock sits at or below their
// threshold, out-of-stock ones included. Feeds the alerting collaborator.
func (s *Service) ListLowStock(ctx context.Context, filter shared.Filter) ([]catalog.CanonicalVariant, error) {
	normalizeFilter(&filter)
	return s.variantRepo.FindBelowThreshold(ctx, filter)
}

// SetLowStockThreshold updates the alerting threshold for one variant
func (s *Service) SetLowStockThreshold(ctx context.Context, sku string, threshold int64) (*catalog.CanonicalVariant, error) {
	variant, err := s.GetVariantBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if err := variant.SetLowStockThreshold(threshold); err != nil {
		return nil, err
	}
	if err := s.variantRepo.Save(ctx, variant); err != nil {
		return nil, err
	}
	return variant, nil
}

// ListOverrides returns overrides for a SKU. Resolved ones are included
// only on request; resolution never deletes the record.
func (s *Service) ListOverrides(ctx context.Context, sku string, includeResolved bool) ([]catalog.Override, error) {
	sku = strings.ToUpper(strings.TrimSpace(sku))
	if sku == "" {
		return nil, shared.NewDomainError("MISSING_SKU", "SKU is required")
	}
	return s.overrideRepo.FindBySKU(ctx, sku, includeResolved)
}

// ListAllOverrides returns one page of overrides across all SKUs
func (s *Service) ListAllOverrides(ctx context.Context, filter shared.Filter) (shared.Paginated[catalog.Override], error) {
	normalizeFilter(&filter)

	overrides, err := s.overrideRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[catalog.Override]{}, err
	}
	total, err := s.overrideRepo.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[catalog.Override]{}, err
	}

	return shared.NewPaginated(overrides, total, filter.Page, filter.PageSize), nil
}

// ResolveOverride acknowledges an override without touching catalog data
func (s *Service) ResolveOverride(ctx context.Context, id uuid.UUID, actor string) (*catalog.Override, error) {
	override, err := s.overrideRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := override.Resolve(actor); err != nil {
		return nil, err
	}
	if err := s.overrideRepo.Save(ctx, override); err != nil {
		return nil, err
	}

	s.logger.Info("Override resolved",
		zap.String("override_id", id.String()),
		zap.String("sku", override.SKU),
		zap.String("actor", actor),
	)

	return override, nil
}

func normalizeFilter(filter *shared.Filter) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}
}

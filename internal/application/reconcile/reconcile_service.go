package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vendorsync/backend/internal/domain/catalog"
	"github.com/vendorsync/backend/internal/domain/shared"
	"github.com/vendorsync/backend/internal/domain/staging"
)

const (
	skuLockTTL      = 30 * time.Second
	skuLockAttempts = 5
	skuLockBackoff  = 100 * time.Millisecond
)

// Result summarizes one reconciliation pass over a staged product
type Result struct {
	Applied          int      `json:"applied"`
	OverridesCreated int      `json:"overrides_created"`
	Warnings         []string `json:"warnings,omitempty"`
}

// Service reconciles an accepted staged product into the canonical catalog.
//
// Editorial fields (price, attributes) are create-only: a mismatch against
// an existing canonical variant raises an Override for review instead of
// overwriting. Stock quantity is sync-of-record data and is always written
// from the staged inventory levels, clamped at zero.
type Service struct {
	variantRepo  catalog.VariantRepository
	overrideRepo catalog.OverrideRepository
	levelRepo    staging.StagedInventoryLevelRepository
	locker       shared.Locker
	publisher    shared.EventPublisher
	logger       *zap.Logger
}

// NewService creates a new reconciliation Service
func NewService(
	variantRepo catalog.VariantRepository,
	overrideRepo catalog.OverrideRepository,
	levelRepo staging.StagedInventoryLevelRepository,
	locker shared.Locker,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *Service {
	return &Service{
		variantRepo:  variantRepo,
		overrideRepo: overrideRepo,
		levelRepo:    levelRepo,
		locker:       locker,
		publisher:    publisher,
		logger:       logger,
	}
}

// Reconcile applies every variant of the staged product to the catalog.
// Per-variant failures are accumulated as warnings, not returned as errors,
// so one bad variant never blocks its siblings.
func (s *Service) Reconcile(ctx context.Context, product *staging.StagedVendorProduct) (*Result, error) {
	result := &Result{}

	for i := range product.Variants {
		variant := &product.Variants[i]
		if err := s.reconcileVariant(ctx, product, variant, result); err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("variant %s: %v", variant.SKU, err))
			s.logger.Error("Failed to reconcile variant",
				zap.String("sku", variant.SKU),
				zap.String("upstream_product_id", product.UpstreamProductID),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("Reconciliation finished",
		zap.String("upstream_product_id", product.UpstreamProductID),
		zap.Int("applied", result.Applied),
		zap.Int("overrides_created", result.OverridesCreated),
		zap.Int("warnings", len(result.Warnings)),
	)

	return result, nil
}

func (s *Service) reconcileVariant(ctx context.Context, product *staging.StagedVendorProduct, staged *staging.StagedVariant, result *Result) error {
	sku := strings.ToUpper(staged.SKU)

	if err := s.lockSKU(ctx, sku); err != nil {
		return err
	}
	defer func() {
		if err := s.locker.Release(context.WithoutCancel(ctx), skuLockKey(sku)); err != nil {
			s.logger.Warn("Failed to release SKU lock", zap.String("sku", sku), zap.Error(err))
		}
	}()

	canonical, err := s.variantRepo.FindBySKU(ctx, sku)
	switch {
	case err == nil:
		if err := s.applyToExisting(ctx, canonical, product, staged, result); err != nil {
			return err
		}
	case isNotFound(err):
		canonical, err = s.createFromStaged(ctx, product, staged)
		if err != nil {
			return err
		}
	default:
		return err
	}

	quantity, found, err := s.stagedQuantity(ctx, staged.InventoryItemID)
	if err != nil {
		return err
	}
	if !found {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("variant %s: no staged inventory level, stock set to 0", sku))
	}
	if clamped := canonical.SetStockQuantity(quantity); clamped {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("variant %s: negative staged quantity %d clamped to 0", sku, quantity))
	}

	if err := s.variantRepo.Save(ctx, canonical); err != nil {
		return err
	}
	s.publishEvents(ctx, canonical)

	result.Applied++
	return nil
}

// applyToExisting compares editorial fields against the staged values and
// raises Overrides for mismatches. The canonical fields stay untouched.
func (s *Service) applyToExisting(ctx context.Context, canonical *catalog.CanonicalVariant, product *staging.StagedVendorProduct, staged *staging.StagedVariant, result *Result) error {
	if !canonical.Price.Equal(staged.Price) {
		if err := s.raiseOverride(ctx, canonical, "price",
			canonical.Price.String(), staged.Price.String(),
			catalog.OverrideReasonPriceMismatch); err != nil {
			return err
		}
		result.OverridesCreated++
	}

	if normalizeAttributes(canonical.Attributes) != normalizeAttributes(staged.Attributes) {
		if err := s.raiseOverride(ctx, canonical, "attributes",
			canonical.Attributes, staged.Attributes,
			catalog.OverrideReasonAttributeMismatch); err != nil {
			return err
		}
		result.OverridesCreated++
	}

	stagedTitle := variantTitle(product, staged)
	if canonical.Title != stagedTitle {
		if err := s.raiseOverride(ctx, canonical, "title",
			canonical.Title, stagedTitle,
			catalog.OverrideReasonTitleMismatch); err != nil {
			return err
		}
		result.OverridesCreated++
	}

	return nil
}

func (s *Service) createFromStaged(ctx context.Context, product *staging.StagedVendorProduct, staged *staging.StagedVariant) (*catalog.CanonicalVariant, error) {
	canonical, err := catalog.NewCanonicalVariant(staged.SKU, variantTitle(product, staged), product.Vendor, staged.Price)
	if err != nil {
		return nil, err
	}
	if staged.Attributes != "" {
		canonical.Attributes = staged.Attributes
	}
	return canonical, nil
}

func (s *Service) raiseOverride(ctx context.Context, canonical *catalog.CanonicalVariant, field, canonicalValue, incomingValue string, reason catalog.OverrideReason) error {
	override, err := catalog.NewOverride(canonical, field, canonicalValue, incomingValue, reason)
	if err != nil {
		return err
	}
	if err := s.overrideRepo.Create(ctx, override); err != nil {
		return err
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, catalog.NewOverrideCreatedEvent(override)); err != nil {
			s.logger.Warn("Failed to publish override event", zap.Error(err))
		}
	}

	s.logger.Info("Override created",
		zap.String("sku", canonical.SKU),
		zap.String("field", field),
		zap.String("reason", string(reason)),
	)
	return nil
}

// stagedQuantity sums the staged availability of the inventory item across
// locations. A variant with no staged level reconciles to zero stock.
func (s *Service) stagedQuantity(ctx context.Context, inventoryItemID string) (int64, bool, error) {
	if inventoryItemID == "" {
		return 0, false, nil
	}

	levels, err := s.levelRepo.FindByInventoryItemIDs(ctx, []string{inventoryItemID})
	if err != nil {
		return 0, false, err
	}
	if len(levels) == 0 {
		return 0, false, nil
	}

	var total int64
	for _, level := range levels {
		total += level.AvailableQuantity
	}
	return total, true, nil
}

func (s *Service) lockSKU(ctx context.Context, sku string) error {
	key := skuLockKey(sku)
	for attempt := 0; attempt < skuLockAttempts; attempt++ {
		acquired, err := s.locker.TryAcquire(ctx, key, skuLockTTL)
		if err != nil {
			return fmt.Errorf("acquire SKU lock: %w", err)
		}
		if acquired {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(skuLockBackoff):
		}
	}
	return shared.ErrConcurrencyConflict
}

func (s *Service) publishEvents(ctx context.Context, canonical *catalog.CanonicalVariant) {
	if s.publisher == nil {
		return
	}
	events := canonical.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish catalog events", zap.Error(err))
	}
	canonical.ClearDomainEvents()
}

func skuLockKey(sku string) string {
	return "reconcile:sku:" + sku
}

// variantTitle prefers the variant's own title, falling back to the product
func variantTitle(product *staging.StagedVendorProduct, staged *staging.StagedVariant) string {
	if staged.Title != "" {
		return staged.Title
	}
	return product.Title
}

func normalizeAttributes(attrs string) string {
	if strings.TrimSpace(attrs) == "" {
		return "{}"
	}
	return attrs
}

func isNotFound(err error) bool {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == shared.ErrNotFound.Code
	}
	return false
}

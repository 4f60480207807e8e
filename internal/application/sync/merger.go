package sync

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vendorsync/backend/internal/domain/integration"
	"github.com/vendorsync/backend/internal/domain/staging"
)

// MergeStats accumulates the outcome of merging one or more pages
type MergeStats struct {
	Merged  int
	Skipped int
	// Errors holds one entry per skipped record, keyed for operator triage
	Errors []RecordError
}

// RecordError describes a single record that failed validation during a merge
type RecordError struct {
	Key    string `json:"key"`
	Reason string `json:"reason"`
}

// Add folds another batch's stats into the receiver
func (s *MergeStats) Add(other MergeStats) {
	s.Merged += other.Merged
	s.Skipped += other.Skipped
	s.Errors = append(s.Errors, other.Errors...)
}

// Merger applies fetched upstream pages to the staging area. Every write is
// an upsert on the record's natural key, so re-applying a page after a crash
// or retry converges to the same staged state.
type Merger struct {
	productRepo staging.StagedProductRepository
	levelRepo   staging.StagedInventoryLevelRepository
	logger      *zap.Logger
}

// NewMerger creates a new Merger
func NewMerger(
	productRepo staging.StagedProductRepository,
	levelRepo staging.StagedInventoryLevelRepository,
	logger *zap.Logger,
) *Merger {
	return &Merger{
		productRepo: productRepo,
		levelRepo:   levelRepo,
		logger:      logger,
	}
}

// MergeInventoryLevels upserts one page of inventory levels keyed on
// (inventory_item_id, location_id). Records missing either key field are
// skipped and counted; they never abort the batch.
func (m *Merger) MergeInventoryLevels(ctx context.Context, records []integration.InventoryLevelRecord) MergeStats {
	var stats MergeStats

	for _, record := range records {
		level, err := staging.NewStagedInventoryLevel(record.InventoryItemID, record.LocationID, record.AvailableQuantity)
		if err != nil {
			stats.Skipped++
			stats.Errors = append(stats.Errors, RecordError{
				Key:    fmt.Sprintf("%s@%s", record.InventoryItemID, record.LocationID),
				Reason: err.Error(),
			})
			m.logger.Warn("Skipping invalid inventory level record",
				zap.String("inventory_item_id", record.InventoryItemID),
				zap.String("location_id", record.LocationID),
				zap.Error(err),
			)
			continue
		}

		if err := m.levelRepo.Upsert(ctx, level); err != nil {
			stats.Skipped++
			stats.Errors = append(stats.Errors, RecordError{
				Key:    fmt.Sprintf("%s@%s", record.InventoryItemID, record.LocationID),
				Reason: err.Error(),
			})
			m.logger.Error("Failed to upsert inventory level",
				zap.String("inventory_item_id", record.InventoryItemID),
				zap.String("location_id", record.LocationID),
				zap.Error(err),
			)
			continue
		}

		stats.Merged++
	}

	return stats
}

// MergeProducts upserts one page of vendor products keyed on the upstream
// product ID. Existing rows have their attributes and variants refreshed;
// decision state is never touched here.
func (m *Merger) MergeProducts(ctx context.Context, records []integration.VendorProductRecord) MergeStats {
	var stats MergeStats

	for i := range records {
		record := &records[i]

		product, err := m.buildStagedProduct(record)
		if err != nil {
			stats.Skipped++
			stats.Errors = append(stats.Errors, RecordError{Key: record.ProductID, Reason: err.Error()})
			m.logger.Warn("Skipping invalid vendor product record",
				zap.String("upstream_product_id", record.ProductID),
				zap.Error(err),
			)
			continue
		}

		if err := m.productRepo.Upsert(ctx, product); err != nil {
			stats.Skipped++
			stats.Errors = append(stats.Errors, RecordError{Key: record.ProductID, Reason: err.Error()})
			m.logger.Error("Failed to upsert staged product",
				zap.String("upstream_product_id", record.ProductID),
				zap.Error(err),
			)
			continue
		}

		stats.Merged++
	}

	return stats
}

func (m *Merger) buildStagedProduct(record *integration.VendorProductRecord) (*staging.StagedVendorProduct, error) {
	product, err := staging.NewStagedVendorProduct(record.ProductID, record.Title, record.Vendor, record.RawPayload)
	if err != nil {
		return nil, err
	}

	variants := make([]staging.StagedVariant, 0, len(record.Variants))
	for _, v := range record.Variants {
		if v.SKU == "" {
			return nil, fmt.Errorf("variant %s has no SKU", v.VariantID)
		}
		variants = append(variants, staging.StagedVariant{
			UpstreamVariantID: v.VariantID,
			SKU:               v.SKU,
			Title:             v.Title,
			Price:             v.Price,
			InventoryItemID:   v.InventoryItemID,
			Attributes:        v.Attributes,
		})
	}
	product.Variants = variants

	return product, nil
}

package persistence

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vendorsync/backend/internal/domain/shared"
	"github.com/vendorsync/backend/internal/domain/staging"
)

// GormStagedLevelRepository implements StagedInventoryLevelRepository using GORM
type GormStagedLevelRepository struct {
	db *gorm.DB
}

// NewGormStagedLevelRepository creates a new GormStagedLevelRepository
func NewGormStagedLevelRepository(db *gorm.DB) *GormStagedLevelRepository {
	return &GormStagedLevelRepository{db: db}
}

// FindByKey finds a level by its natural key
func (r *GormStagedLevelRepository) FindByKey(ctx context.Context, inventoryItemID, locationID string) (*staging.StagedInventoryLevel, error) {
	var level staging.StagedInventoryLevel
	if err := r.db.WithContext(ctx).
		Where("inventory_item_id = ? AND location_id = ?", inventoryItemID, locationID).
		First(&level).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &level, nil
}

// FindByInventoryItemIDs finds all levels for the given inventory items
func (r *GormStagedLevelRepository) FindByInventoryItemIDs(ctx context.Context, inventoryItemIDs []string) ([]staging.StagedInventoryLevel, error) {
	if len(inventoryItemIDs) == 0 {
		return []staging.StagedInventoryLevel{}, nil
	}

	var levels []staging.StagedInventoryLevel
	if err := r.db.WithContext(ctx).
		Where("inventory_item_id IN ?", inventoryItemIDs).
		Find(&levels).Error; err != nil {
		return nil, err
	}
	return levels, nil
}

// Upsert writes the level keyed on (inventory_item_id, location_id),
// last write wins. Re-applying the same page converges to the same rows.
func (r *GormStagedLevelRepository) Upsert(ctx context.Context, level *staging.StagedInventoryLevel) error {
	level.LastSyncedAt = time.Now()
	level.UpdatedAt = time.Now()

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "inventory_item_id"}, {Name: "location_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"available_quantity", "last_synced_at", "updated_at"}),
		}).
		Create(level).Error
}

// Count returns the number of staged levels
func (r *GormStagedLevelRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&staging.StagedInventoryLevel{}).Count(&total).Error
	return total, err
}

// Ensure GormStagedLevelRepository implements StagedInventoryLevelRepository
var _ staging.StagedInventoryLevelRepository = (*GormStagedLevelRepository)(nil)

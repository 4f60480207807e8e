package staging

import (
	"time"

	"github.com/vendorsync/backend/internal/domain/shared"
)

// StagedInventoryLevel is the stock quantity reported by the upstream
// platform for one inventory item at one location. The pair
// (InventoryItemID, LocationID) is the natural key; every sync pass
// overwrites the row for that pair.
type StagedInventoryLevel struct {
	shared.BaseEntity
	InventoryItemID   string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_staged_level_item_location,priority:1"`
	LocationID        string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_staged_level_item_location,priority:2"`
	AvailableQuantity int64     `gorm:"not null;default:0"`
	LastSyncedAt      time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StagedInventoryLevel) TableName() string {
	return "staged_inventory_levels"
}

// NewStagedInventoryLevel creates a staged inventory level from upstream data
func NewStagedInventoryLevel(inventoryItemID, locationID string, quantity int64) (*StagedInventoryLevel, error) {
	level := &StagedInventoryLevel{
		BaseEntity:        shared.NewBaseEntity(),
		InventoryItemID:   inventoryItemID,
		LocationID:        locationID,
		AvailableQuantity: quantity,
		LastSyncedAt:      time.Now(),
	}
	if err := level.Validate(); err != nil {
		return nil, err
	}
	return level, nil
}

// Validate checks the required natural-key fields. Quantity is not
// validated here: upstream occasionally reports negative availability and
// reconciliation clamps it, so staging stores whatever was fetched.
func (l *StagedInventoryLevel) Validate() error {
	if l.InventoryItemID == "" {
		return shared.NewDomainError("MISSING_INVENTORY_ITEM_ID", "Inventory item ID is required")
	}
	if l.LocationID == "" {
		return shared.NewDomainError("MISSING_LOCATION_ID", "Location ID is required")
	}
	return nil
}

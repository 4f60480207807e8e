package staging

import (
	"context"

	"github.com/google/uuid"

	"github.com/vendorsync/backend/internal/domain/shared"
)

// InboxFilter narrows inbox listings. All fields conjoin: a row matches
// when it satisfies the search AND the status filter AND the decision
// filter. Empty fields match everything.
type InboxFilter struct {
	// Search matches product title or variant SKU, case-insensitive substring
	Search   string
	Status   ProductStatus
	Decision DecisionStatus
	Page     int
	PageSize int
}

// StagedProductRepository persists staged vendor products
type StagedProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*StagedVendorProduct, error)
	FindByUpstreamID(ctx context.Context, upstreamProductID string) (*StagedVendorProduct, error)
	// Upsert merges the product keyed on its upstream product ID. Re-applying
	// the same payload is a no-op beyond the sync timestamp. Decision state
	// of an existing row is preserved.
	Upsert(ctx context.Context, product *StagedVendorProduct) error
	Save(ctx context.Context, product *StagedVendorProduct) error
	// ListInbox returns one page of the decision inbox together with the
	// total matching count, both computed from a single consistent snapshot.
	ListInbox(ctx context.Context, filter InboxFilter) (shared.Paginated[StagedVendorProduct], error)
	CountInbox(ctx context.Context, filter InboxFilter) (int64, error)
	// TransitionDecision performs the compare-and-swap from pending to the
	// given terminal state. It returns false when the row was not in the
	// pending state (someone else decided first, or the ID is unknown).
	TransitionDecision(ctx context.Context, id uuid.UUID, to DecisionStatus, actor string) (bool, error)
}

// StagedInventoryLevelRepository persists staged inventory levels
type StagedInventoryLevelRepository interface {
	FindByKey(ctx context.Context, inventoryItemID, locationID string) (*StagedInventoryLevel, error)
	FindByInventoryItemIDs(ctx context.Context, inventoryItemIDs []string) ([]StagedInventoryLevel, error)
	// Upsert writes the level keyed on (inventory_item_id, location_id),
	// last write wins. Safe to re-apply.
	Upsert(ctx context.Context, level *StagedInventoryLevel) error
	Count(ctx context.Context) (int64, error)
}

// ImportDecisionRepository persists decision audit records
type ImportDecisionRepository interface {
	FindByStagedProductID(ctx context.Context, stagedProductID uuid.UUID) (*ImportDecision, error)
	Create(ctx context.Context, decision *ImportDecision) error
	FindAll(ctx context.Context, filter shared.Filter) ([]ImportDecision, error)
}

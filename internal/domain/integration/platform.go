package integration

import (
	"context"

	"github.com/shopspring/decimal"
)

// MaxPageSize is the largest page the upstream platform accepts
const MaxPageSize = 250

// InventoryLevelRecord is one inventory level as reported by the upstream
// platform: the available quantity of one inventory item at one location.
type InventoryLevelRecord struct {
	InventoryItemID   string
	LocationID        string
	AvailableQuantity int64
}

// VendorVariantRecord is one variant of an upstream vendor product
type VendorVariantRecord struct {
	VariantID       string
	SKU             string
	Title           string
	Price           decimal.Decimal
	InventoryItemID string
	Attributes      string
}

// VendorProductRecord is one vendor product as reported upstream
type VendorProductRecord struct {
	ProductID  string
	Title      string
	Vendor     string
	Variants   []VendorVariantRecord
	RawPayload string
}

// InventoryLevelPage is one page of the inventory level walk. NextCursor
// is empty when the walk is complete.
type InventoryLevelPage struct {
	Levels     []InventoryLevelRecord
	NextCursor string
}

// VendorProductPage is one page of the product walk
type VendorProductPage struct {
	Products   []VendorProductRecord
	NextCursor string
}

// VendorPlatform is the port interface for the upstream commerce platform.
// It is defined in the domain and implemented by infrastructure adapters.
//
// Pagination is cursor based: callers pass the cursor returned by the
// previous page (empty for the first page) and the walk is inherently
// sequential because each cursor is only known after the prior page.
type VendorPlatform interface {
	// FetchInventoryPage fetches one page of inventory levels for a location
	FetchInventoryPage(ctx context.Context, locationID, cursor string) (*InventoryLevelPage, error)
	// FetchProductPage fetches one page of vendor products
	FetchProductPage(ctx context.Context, cursor string) (*VendorProductPage, error)
}

package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vendorsync/backend/internal/domain/shared"
)

// CanonicalVariant is the authoritative catalog entry for one SKU. Price
// and attributes are editorial fields owned jointly by reconciliation and
// manual catalog edits; stock quantity is sync-of-record data owned by the
// pipeline alone.
type CanonicalVariant struct {
	shared.BaseAggregateRoot
	SKU               string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	Title             string          `gorm:"type:varchar(255);not null"`
	Vendor            string          `gorm:"type:varchar(255)"`
	Price             decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Attributes        string          `gorm:"type:jsonb"`
	StockQuantity     int64           `gorm:"not null;default:0"`
	LowStockThreshold int64           `gorm:"not null;default:5"`
	ImageURL          string          `gorm:"type:varchar(1024)"`
}

// TableName returns the table name for GORM
func (CanonicalVariant) TableName() string {
	return "canonical_variants"
}

// NewCanonicalVariant creates a canonical variant from staged data
func NewCanonicalVariant(sku, title, vendor string, price decimal.Decimal) (*CanonicalVariant, error) {
	if strings.TrimSpace(sku) == "" {
		return nil, shared.NewDomainError("MISSING_SKU", "SKU is required")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	v := &CanonicalVariant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SKU:               strings.ToUpper(sku),
		Title:             title,
		Vendor:            vendor,
		Price:             price,
		Attributes:        "{}",
		LowStockThreshold: 5,
	}

	v.AddDomainEvent(NewVariantCreatedEvent(v))

	return v, nil
}

// SetStockQuantity updates the stock quantity from reconciled sync data.
// Negative input is clamped to zero; the boolean reports whether clamping
// happened so callers can record a warning.
func (v *CanonicalVariant) SetStockQuantity(quantity int64) bool {
	clamped := false
	if quantity < 0 {
		quantity = 0
		clamped = true
	}

	previous := v.StockQuantity
	v.StockQuantity = quantity
	v.Touch()
	v.IncrementVersion()

	if previous > v.LowStockThreshold && quantity <= v.LowStockThreshold {
		v.AddDomainEvent(NewStockBelowThresholdEvent(v, previous))
	}

	return clamped
}

// SetLowStockThreshold updates the alerting threshold
func (v *CanonicalVariant) SetLowStockThreshold(threshold int64) error {
	if threshold < 0 {
		return shared.NewDomainError("INVALID_THRESHOLD", "Low stock threshold cannot be negative")
	}
	v.LowStockThreshold = threshold
	v.Touch()
	v.IncrementVersion()
	return nil
}

// UpdatePrice changes the editorial price. Used by catalog edits, not by
// reconciliation, which raises an Override instead of writing here.
func (v *CanonicalVariant) UpdatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	v.Price = price
	v.Touch()
	v.IncrementVersion()
	return nil
}

// StockStatus derives the stock tag from the current quantity and threshold
func (v *CanonicalVariant) StockStatus() StockStatus {
	return EvaluateStockStatus(v.StockQuantity, v.LowStockThreshold)
}

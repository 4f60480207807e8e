package catalog

import "github.com/vendorsync/backend/internal/domain/shared"

// Event types for the canonical catalog
const (
	EventTypeVariantCreated      = "catalog.variant_created"
	EventTypeOverrideCreated     = "catalog.override_created"
	EventTypeStockBelowThreshold = "catalog.stock_below_threshold"
)

// VariantCreatedEvent is raised when reconciliation creates a new canonical variant
type VariantCreatedEvent struct {
	shared.BaseDomainEvent
	SKU   string `json:"sku"`
	Title string `json:"title"`
}

// NewVariantCreatedEvent creates a new VariantCreatedEvent
func NewVariantCreatedEvent(v *CanonicalVariant) *VariantCreatedEvent {
	return &VariantCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeVariantCreated, "CanonicalVariant", v.ID),
		SKU:             v.SKU,
		Title:           v.Title,
	}
}

// OverrideCreatedEvent is raised when reconciliation detects a field conflict
type OverrideCreatedEvent struct {
	shared.BaseDomainEvent
	SKU            string `json:"sku"`
	Field          string `json:"field"`
	CanonicalValue string `json:"canonical_value"`
	IncomingValue  string `json:"incoming_value"`
}

// NewOverrideCreatedEvent creates a new OverrideCreatedEvent
func NewOverrideCreatedEvent(o *Override) *OverrideCreatedEvent {
	return &OverrideCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOverrideCreated, "Override", o.ID),
		SKU:             o.SKU,
		Field:           o.Field,
		CanonicalValue:  o.CanonicalValue,
		IncomingValue:   o.IncomingValue,
	}
}

// StockBelowThresholdEvent is raised when a variant's quantity drops to or
// below its low stock threshold. Consumed by the alerting collaborator.
type StockBelowThresholdEvent struct {
	shared.BaseDomainEvent
	SKU              string `json:"sku"`
	PreviousQuantity int64  `json:"previous_quantity"`
	CurrentQuantity  int64  `json:"current_quantity"`
	Threshold        int64  `json:"threshold"`
}

// NewStockBelowThresholdEvent creates a new StockBelowThresholdEvent
func NewStockBelowThresholdEvent(v *CanonicalVariant, previous int64) *StockBelowThresholdEvent {
	return &StockBelowThresholdEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeStockBelowThreshold, "CanonicalVariant", v.ID),
		SKU:              v.SKU,
		PreviousQuantity: previous,
		CurrentQuantity:  v.StockQuantity,
		Threshold:        v.LowStockThreshold,
	}
}

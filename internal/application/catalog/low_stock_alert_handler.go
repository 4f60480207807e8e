package catalog

import (
	"context"

	"go.uber.org/zap"

	"github.com/vendorsync/backend/internal/domain/catalog"
	"github.com/vendorsync/backend/internal/domain/shared"
)

// LowStockAlertHandler reacts to stock dropping to or below a variant's
// threshold. Alerting is log based; the listing endpoint serves the
// current low stock set on demand.
type LowStockAlertHandler struct {
	logger *zap.Logger
}

// NewLowStockAlertHandler creates a new LowStockAlertHandler
func NewLowStockAlertHandler(logger *zap.Logger) *LowStockAlertHandler {
	return &LowStockAlertHandler{logger: logger}
}

// Handle processes a domain event
func (h *LowStockAlertHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	e, ok := event.(*catalog.StockBelowThresholdEvent)
	if !ok {
		return nil
	}

	h.logger.Warn("Variant stock dropped below threshold",
		zap.String("sku", e.SKU),
		zap.Int64("previous_quantity", e.PreviousQuantity),
		zap.Int64("current_quantity", e.CurrentQuantity),
		zap.Int64("threshold", e.Threshold),
	)
	return nil
}

// EventTypes returns the event types this handler is interested in
func (h *LowStockAlertHandler) EventTypes() []string {
	return []string{catalog.EventTypeStockBelowThreshold}
}

// Ensure LowStockAlertHandler implements EventHandler
var _ shared.EventHandler = (*LowStockAlertHandler)(nil)

package staging

import "github.com/vendorsync/backend/internal/domain/shared"

// Event types for the staging area
const (
	EventTypeProductStaged  = "staging.product_staged"
	EventTypeProductDecided = "staging.product_decided"
)

// ProductStagedEvent is raised when a vendor product first enters staging
type ProductStagedEvent struct {
	shared.BaseDomainEvent
	UpstreamProductID string `json:"upstream_product_id"`
	Title             string `json:"title"`
	Vendor            string `json:"vendor"`
}

// NewProductStagedEvent creates a new ProductStagedEvent
func NewProductStagedEvent(p *StagedVendorProduct) *ProductStagedEvent {
	return &ProductStagedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeProductStaged, "StagedVendorProduct", p.ID),
		UpstreamProductID: p.UpstreamProductID,
		Title:             p.Title,
		Vendor:            p.Vendor,
	}
}

// ProductDecidedEvent is raised when an operator decision becomes terminal
type ProductDecidedEvent struct {
	shared.BaseDomainEvent
	UpstreamProductID string         `json:"upstream_product_id"`
	Decision          DecisionStatus `json:"decision"`
	DecidedBy         string         `json:"decided_by"`
}

// NewProductDecidedEvent creates a new ProductDecidedEvent
func NewProductDecidedEvent(p *StagedVendorProduct, decision DecisionStatus, actor string) *ProductDecidedEvent {
	return &ProductDecidedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeProductDecided, "StagedVendorProduct", p.ID),
		UpstreamProductID: p.UpstreamProductID,
		Decision:          decision,
		DecidedBy:         actor,
	}
}

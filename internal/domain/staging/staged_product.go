package staging

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vendorsync/backend/internal/domain/shared"
)

// DecisionStatus represents the operator decision state of a staged product
type DecisionStatus string

const (
	DecisionPending  DecisionStatus = "pending"
	DecisionAccepted DecisionStatus = "accepted"
	DecisionRejected DecisionStatus = "rejected"
)

// IsTerminal reports whether the status permits no further transition
func (s DecisionStatus) IsTerminal() bool {
	return s == DecisionAccepted || s == DecisionRejected
}

// IsValid reports whether the status is a known decision state
func (s DecisionStatus) IsValid() bool {
	switch s {
	case DecisionPending, DecisionAccepted, DecisionRejected:
		return true
	}
	return false
}

// ProductStatus represents the lifecycle state of a staged product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// StagedVendorProduct is a vendor product pulled from the upstream platform
// and held for operator review. It is the aggregate root of the staging area:
// refreshed by every sync pass, mutated only by the decision state machine,
// and never written by reconciliation.
type StagedVendorProduct struct {
	shared.BaseAggregateRoot
	UpstreamProductID string          `gorm:"type:varchar(64);not null;uniqueIndex"`
	Title             string          `gorm:"type:varchar(255);not null"`
	Vendor            string          `gorm:"type:varchar(255)"`
	Status            ProductStatus   `gorm:"type:varchar(20);not null;default:'active'"`
	Decision          DecisionStatus  `gorm:"type:varchar(20);not null;default:'pending';index"`
	DecidedBy         string          `gorm:"type:varchar(255)"`
	DecidedAt         *time.Time      ``
	Variants          []StagedVariant `gorm:"foreignKey:StagedProductID;constraint:OnDelete:CASCADE"`
	RawPayload        string          `gorm:"type:jsonb"`
	LastSyncedAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StagedVendorProduct) TableName() string {
	return "staged_vendor_products"
}

// StagedVariant is a single variant of a staged vendor product
type StagedVariant struct {
	shared.BaseEntity
	StagedProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	UpstreamVariantID string          `gorm:"type:varchar(64);not null"`
	SKU               string          `gorm:"type:varchar(100);not null;index"`
	Title             string          `gorm:"type:varchar(255)"`
	Price             decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	InventoryItemID   string          `gorm:"type:varchar(64)"`
	Attributes        string          `gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (StagedVariant) TableName() string {
	return "staged_variants"
}

// NewStagedVendorProduct creates a staged product from upstream data
func NewStagedVendorProduct(upstreamProductID, title, vendor, rawPayload string) (*StagedVendorProduct, error) {
	if strings.TrimSpace(upstreamProductID) == "" {
		return nil, shared.NewDomainError("MISSING_UPSTREAM_ID", "Upstream product ID is required")
	}
	if strings.TrimSpace(title) == "" {
		return nil, shared.NewDomainError("MISSING_TITLE", "Product title is required")
	}

	p := &StagedVendorProduct{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UpstreamProductID: upstreamProductID,
		Title:             title,
		Vendor:            vendor,
		Status:            ProductStatusActive,
		Decision:          DecisionPending,
		RawPayload:        rawPayload,
		LastSyncedAt:      time.Now(),
	}

	p.AddDomainEvent(NewProductStagedEvent(p))

	return p, nil
}

// Refresh overwrites the staged attributes with freshly fetched upstream
// data. Decision state is deliberately left alone.
func (p *StagedVendorProduct) Refresh(title, vendor, rawPayload string) {
	p.Title = title
	p.Vendor = vendor
	p.RawPayload = rawPayload
	p.LastSyncedAt = time.Now()
	p.Touch()
	p.IncrementVersion()
}

// ApplyDecision records a terminal decision on the aggregate.
// Callers must already hold the winning compare-and-swap; this only
// validates the transition and stamps the audit fields.
func (p *StagedVendorProduct) ApplyDecision(decision DecisionStatus, actor string) error {
	if !decision.IsTerminal() {
		return shared.NewDomainError("INVALID_DECISION", "Decision must be accepted or rejected")
	}
	if p.Decision.IsTerminal() {
		if p.Decision == decision {
			return nil
		}
		return shared.ErrDecisionConflict
	}

	now := time.Now()
	p.Decision = decision
	p.DecidedBy = actor
	p.DecidedAt = &now
	if decision == DecisionRejected {
		p.Status = ProductStatusInactive
	}
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewProductDecidedEvent(p, decision, actor))

	return nil
}

// VariantBySKU returns the staged variant with the given SKU, or nil
func (p *StagedVendorProduct) VariantBySKU(sku string) *StagedVariant {
	for i := range p.Variants {
		if strings.EqualFold(p.Variants[i].SKU, sku) {
			return &p.Variants[i]
		}
	}
	return nil
}

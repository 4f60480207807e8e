package staging

import (
	"time"

	"github.com/google/uuid"

	"github.com/vendorsync/backend/internal/domain/shared"
)

// ImportDecision is the durable audit record of an operator decision.
// Unlike the staged product it survives re-syncs and is never refreshed.
type ImportDecision struct {
	shared.BaseEntity
	StagedProductID   uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex"`
	UpstreamProductID string         `gorm:"type:varchar(64);not null;index"`
	Decision          DecisionStatus `gorm:"type:varchar(20);not null"`
	DecidedBy         string         `gorm:"type:varchar(255);not null"`
	DecidedAt         time.Time      `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ImportDecision) TableName() string {
	return "import_decisions"
}

// NewImportDecision creates the audit record for a terminal decision
func NewImportDecision(product *StagedVendorProduct, decision DecisionStatus, actor string) (*ImportDecision, error) {
	if !decision.IsTerminal() {
		return nil, shared.NewDomainError("INVALID_DECISION", "Decision must be accepted or rejected")
	}
	if actor == "" {
		return nil, shared.NewDomainError("MISSING_ACTOR", "Decision actor is required")
	}

	return &ImportDecision{
		BaseEntity:        shared.NewBaseEntity(),
		StagedProductID:   product.ID,
		UpstreamProductID: product.UpstreamProductID,
		Decision:          decision,
		DecidedBy:         actor,
		DecidedAt:         time.Now(),
	}, nil
}

package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/vendorsync/backend/internal/domain/shared"
)

// OverrideReason identifies which compared field diverged
type OverrideReason string

const (
	OverrideReasonPriceMismatch     OverrideReason = "price_mismatch"
	OverrideReasonAttributeMismatch OverrideReason = "attribute_mismatch"
	OverrideReasonTitleMismatch     OverrideReason = "title_mismatch"
)

// Override records a conflict between a staged value and the canonical
// value for one field of one variant. It preserves the manually curated
// canonical value against automated re-sync and is never auto-deleted.
type Override struct {
	shared.BaseEntity
	VariantID      uuid.UUID      `gorm:"type:uuid;not null;index"`
	SKU            string         `gorm:"type:varchar(100);not null;index"`
	Field          string         `gorm:"type:varchar(50);not null"`
	CanonicalValue string         `gorm:"type:text;not null"`
	IncomingValue  string         `gorm:"type:text;not null"`
	Reason         OverrideReason `gorm:"type:varchar(50);not null"`
	Resolved       bool           `gorm:"not null;default:false;index"`
	ResolvedBy     string         `gorm:"type:varchar(255)"`
	ResolvedAt     *time.Time     ``
}

// TableName returns the table name for GORM
func (Override) TableName() string {
	return "overrides"
}

// NewOverride records a field conflict detected during reconciliation
func NewOverride(variant *CanonicalVariant, field, canonicalValue, incomingValue string, reason OverrideReason) (*Override, error) {
	if field == "" {
		return nil, shared.NewDomainError("MISSING_FIELD", "Override field is required")
	}

	return &Override{
		BaseEntity:     shared.NewBaseEntity(),
		VariantID:      variant.ID,
		SKU:            variant.SKU,
		Field:          field,
		CanonicalValue: canonicalValue,
		IncomingValue:  incomingValue,
		Reason:         reason,
	}, nil
}

// Resolve marks the override as acknowledged by an operator. The record
// itself stays around as an audit trail.
func (o *Override) Resolve(actor string) error {
	if actor == "" {
		return shared.NewDomainError("MISSING_ACTOR", "Resolver actor is required")
	}
	if o.Resolved {
		return shared.ErrInvalidState
	}

	now := time.Now()
	o.Resolved = true
	o.ResolvedBy = actor
	o.ResolvedAt = &now
	o.UpdatedAt = now
	return nil
}

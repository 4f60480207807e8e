package integration

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vendorsync/backend/internal/domain/shared"
)

// SyncResourceType identifies what a sync run walks
type SyncResourceType string

const (
	SyncResourceInventoryLevels SyncResourceType = "inventory_levels"
	SyncResourceVendorProducts  SyncResourceType = "vendor_products"
)

// IsValid returns true if the resource type is known
func (t SyncResourceType) IsValid() bool {
	switch t {
	case SyncResourceInventoryLevels, SyncResourceVendorProducts:
		return true
	}
	return false
}

// SyncRunStatus is the outcome of a sync run
type SyncRunStatus string

const (
	SyncRunStatusRunning   SyncRunStatus = "running"
	SyncRunStatusCompleted SyncRunStatus = "completed"
	// SyncRunStatusPartial means some pages or records failed but the walk
	// made progress; the staged data that did land is valid.
	SyncRunStatusPartial   SyncRunStatus = "partial"
	SyncRunStatusFailed    SyncRunStatus = "failed"
	SyncRunStatusCancelled SyncRunStatus = "cancelled"
)

// SyncRun is the durable summary of one walk over an upstream resource
type SyncRun struct {
	shared.BaseEntity
	ResourceType   SyncResourceType `gorm:"type:varchar(50);not null;index"`
	Status         SyncRunStatus    `gorm:"type:varchar(20);not null;index"`
	PagesFetched   int              `gorm:"not null;default:0"`
	RecordsMerged  int              `gorm:"not null;default:0"`
	RecordsSkipped int              `gorm:"not null;default:0"`
	FailedPages    int              `gorm:"not null;default:0"`
	ErrorMessage   string           `gorm:"type:text"`
	StartedAt      time.Time        `gorm:"not null"`
	FinishedAt     *time.Time       ``
}

// TableName returns the table name for GORM
func (SyncRun) TableName() string {
	return "sync_runs"
}

// NewSyncRun starts the record for a fresh walk
func NewSyncRun(resourceType SyncResourceType) (*SyncRun, error) {
	if !resourceType.IsValid() {
		return nil, shared.NewDomainError("INVALID_RESOURCE_TYPE", "Unknown sync resource type")
	}
	return &SyncRun{
		BaseEntity:   shared.NewBaseEntity(),
		ResourceType: resourceType,
		Status:       SyncRunStatusRunning,
		StartedAt:    time.Now(),
	}, nil
}

// RecordPage accumulates the result of one merged page
func (r *SyncRun) RecordPage(merged, skipped int) {
	r.PagesFetched++
	r.RecordsMerged += merged
	r.RecordsSkipped += skipped
	r.Touch()
}

// RecordFailedPage counts a page that exhausted its retries
func (r *SyncRun) RecordFailedPage() {
	r.FailedPages++
	r.Touch()
}

// Complete closes the run, deriving the final status from what happened
func (r *SyncRun) Complete() {
	now := time.Now()
	r.FinishedAt = &now
	r.UpdatedAt = now

	switch {
	case r.FailedPages > 0 && r.PagesFetched == 0:
		r.Status = SyncRunStatusFailed
	case r.FailedPages > 0 || r.RecordsSkipped > 0:
		r.Status = SyncRunStatusPartial
	default:
		r.Status = SyncRunStatusCompleted
	}
}

// CompletePartial closes the run as partial, recording why the walk
// stopped before the cursor chain ran out.
func (r *SyncRun) CompletePartial(message string) {
	now := time.Now()
	r.FinishedAt = &now
	r.UpdatedAt = now
	r.Status = SyncRunStatusPartial
	r.ErrorMessage = message
}

// Fail closes the run as a hard failure
func (r *SyncRun) Fail(err error) {
	now := time.Now()
	r.FinishedAt = &now
	r.UpdatedAt = now
	r.Status = SyncRunStatusFailed
	if err != nil {
		r.ErrorMessage = err.Error()
	}
}

// Cancel closes the run after cooperative cancellation between pages
func (r *SyncRun) Cancel() {
	now := time.Now()
	r.FinishedAt = &now
	r.UpdatedAt = now
	r.Status = SyncRunStatusCancelled
}

// SyncRunRepository persists sync run summaries
type SyncRunRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SyncRun, error)
	Save(ctx context.Context, run *SyncRun) error
	FindRecent(ctx context.Context, limit int) ([]SyncRun, error)
}

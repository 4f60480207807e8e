package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vendorsync/backend/internal/domain/integration"
	"github.com/vendorsync/backend/internal/domain/shared"
)

// GormSyncRunRepository implements SyncRunRepository using GORM
type GormSyncRunRepository struct {
	db *gorm.DB
}

// NewGormSyncRunRepository creates a new GormSyncRunRepository
func NewGormSyncRunRepository(db *gorm.DB) *GormSyncRunRepository {
	return &GormSyncRunRepository{db: db}
}

// FindByID finds a sync run by its ID
func (r *GormSyncRunRepository) FindByID(ctx context.Context, id uuid.UUID) (*integration.SyncRun, error) {
	var run integration.SyncRun
	if err := r.db.WithContext(ctx).First(&run, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &run, nil
}

// Save persists a sync run summary
func (r *GormSyncRunRepository) Save(ctx context.Context, run *integration.SyncRun) error {
	return r.db.WithContext(ctx).Save(run).Error
}

// FindRecent returns the most recent runs, newest first
func (r *GormSyncRunRepository) FindRecent(ctx context.Context, limit int) ([]integration.SyncRun, error) {
	var runs []integration.SyncRun
	if err := r.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

// Ensure GormSyncRunRepository implements SyncRunRepository
var _ integration.SyncRunRepository = (*GormSyncRunRepository)(nil)

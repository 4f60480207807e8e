package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vendorsync/backend/internal/domain/integration"
	"github.com/vendorsync/backend/internal/domain/shared"
)

// ErrSyncAlreadyRunning is returned when a walk for the same resource type
// is already in flight.
var ErrSyncAlreadyRunning = shared.NewDomainError("SYNC_ALREADY_RUNNING", "A sync for this resource is already running")

// runLockTTL bounds how long a crashed walk can block the next one
const runLockTTL = 30 * time.Minute

// SyncService orchestrates full walks over the upstream platform: fetch one
// page, merge it, follow the cursor, repeat until the cursor runs out. Each
// walk is summarized in a durable SyncRun.
type SyncService struct {
	platform integration.VendorPlatform
	merger   *Merger
	runRepo  integration.SyncRunRepository
	locker   shared.Locker
	logger   *zap.Logger
}

// NewSyncService creates a new SyncService
func NewSyncService(
	platform integration.VendorPlatform,
	merger *Merger,
	runRepo integration.SyncRunRepository,
	locker shared.Locker,
	logger *zap.Logger,
) *SyncService {
	return &SyncService{
		platform: platform,
		merger:   merger,
		runRepo:  runRepo,
		locker:   locker,
		logger:   logger,
	}
}

// RunInventorySync walks all inventory level pages for a location and merges
// them into staging. Returns the completed run summary.
func (s *SyncService) RunInventorySync(ctx context.Context, locationID string) (*integration.SyncRun, error) {
	return s.run(ctx, integration.SyncResourceInventoryLevels, func(ctx context.Context, cursor string) (int, int, string, error) {
		page, err := s.platform.FetchInventoryPage(ctx, locationID, cursor)
		if err != nil {
			return 0, 0, "", err
		}
		stats := s.merger.MergeInventoryLevels(ctx, page.Levels)
		return stats.Merged, stats.Skipped, page.NextCursor, nil
	})
}

// RunProductSync walks all vendor product pages and merges them into staging
func (s *SyncService) RunProductSync(ctx context.Context) (*integration.SyncRun, error) {
	return s.run(ctx, integration.SyncResourceVendorProducts, func(ctx context.Context, cursor string) (int, int, string, error) {
		page, err := s.platform.FetchProductPage(ctx, cursor)
		if err != nil {
			return 0, 0, "", err
		}
		stats := s.merger.MergeProducts(ctx, page.Products)
		return stats.Merged, stats.Skipped, page.NextCursor, nil
	})
}

// fetchPage fetches and merges one page, returning merged count, skipped
// count and the next cursor.
type fetchPage func(ctx context.Context, cursor string) (int, int, string, error)

func (s *SyncService) run(ctx context.Context, resource integration.SyncResourceType, fetch fetchPage) (*integration.SyncRun, error) {
	lockKey := fmt.Sprintf("sync:%s", resource)
	acquired, err := s.locker.TryAcquire(ctx, lockKey, runLockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !acquired {
		return nil, ErrSyncAlreadyRunning
	}
	defer func() {
		if err := s.locker.Release(context.WithoutCancel(ctx), lockKey); err != nil {
			s.logger.Warn("Failed to release run lock", zap.String("key", lockKey), zap.Error(err))
		}
	}()

	run, err := integration.NewSyncRun(resource)
	if err != nil {
		return nil, err
	}
	if err := s.runRepo.Save(ctx, run); err != nil {
		return nil, fmt.Errorf("persist run: %w", err)
	}

	s.logger.Info("Starting sync run",
		zap.String("run_id", run.ID.String()),
		zap.String("resource_type", string(resource)),
	)

	s.walk(ctx, run, fetch)

	if err := s.runRepo.Save(context.WithoutCancel(ctx), run); err != nil {
		return run, fmt.Errorf("persist run summary: %w", err)
	}

	s.logger.Info("Sync run finished",
		zap.String("run_id", run.ID.String()),
		zap.String("status", string(run.Status)),
		zap.Int("pages_fetched", run.PagesFetched),
		zap.Int("records_merged", run.RecordsMerged),
		zap.Int("records_skipped", run.RecordsSkipped),
		zap.Int("failed_pages", run.FailedPages),
	)

	return run, nil
}

// walk drives the cursor loop. The walk is sequential because each cursor is
// only known after the previous page arrives. Cancellation is cooperative:
// checked between pages, never mid-merge.
func (s *SyncService) walk(ctx context.Context, run *integration.SyncRun, fetch fetchPage) {
	cursor := ""
	seen := make(map[string]struct{})

	for {
		select {
		case <-ctx.Done():
			run.Cancel()
			return
		default:
		}

		merged, skipped, next, err := fetch(ctx, cursor)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				run.Cancel()
				return
			}
			// Retries already happened inside the platform adapter. A page
			// that still fails cannot yield the next cursor, so the walk
			// cannot continue past it.
			run.RecordFailedPage()
			if run.PagesFetched == 0 {
				run.Fail(err)
			} else {
				run.ErrorMessage = err.Error()
				run.Complete()
			}
			s.logger.Error("Sync page failed",
				zap.String("run_id", run.ID.String()),
				zap.String("cursor", cursor),
				zap.Error(err),
			)
			return
		}

		run.RecordPage(merged, skipped)

		if next == "" {
			run.Complete()
			return
		}
		// An upstream that echoes a cursor it already served would have the
		// walk refetch the same pages until cancellation, holding the run
		// lock the whole time. Everything up to here is merged and valid.
		if _, dup := seen[next]; dup {
			run.CompletePartial(fmt.Sprintf("upstream repeated cursor %q, walk stopped", next))
			s.logger.Error("Sync walk stopped on repeated cursor",
				zap.String("run_id", run.ID.String()),
				zap.String("cursor", next),
			)
			return
		}
		seen[next] = struct{}{}
		cursor = next
	}
}

// GetRun returns one run summary by ID
func (s *SyncService) GetRun(ctx context.Context, id uuid.UUID) (*integration.SyncRun, error) {
	return s.runRepo.FindByID(ctx, id)
}

// ListRecentRuns returns the most recent run summaries
func (s *SyncService) ListRecentRuns(ctx context.Context, limit int) ([]integration.SyncRun, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.runRepo.FindRecent(ctx, limit)
}

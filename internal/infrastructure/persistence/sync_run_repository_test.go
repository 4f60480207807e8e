package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendorsync/backend/internal/domain/integration"
	"github.com/vendorsync/backend/internal/domain/shared"
)

func TestGormSyncRunRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSyncRunRepository(db)
	ctx := context.Background()

	t.Run("saves and reloads a run", func(t *testing.T) {
		run, err := integration.NewSyncRun(integration.SyncResourceInventoryLevels)
		require.NoError(t, err)
		run.RecordPage(250, 2)
		run.Complete()
		require.NoError(t, repo.Save(ctx, run))

		found, err := repo.FindByID(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, integration.SyncRunStatusPartial, found.Status)
		assert.Equal(t, 250, found.RecordsMerged)
		require.NotNil(t, found.FinishedAt)
	})

	t.Run("recent runs come back newest first", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			run, err := integration.NewSyncRun(integration.SyncResourceVendorProducts)
			require.NoError(t, err)
			run.Complete()
			require.NoError(t, repo.Save(ctx, run))
		}

		runs, err := repo.FindRecent(ctx, 2)
		require.NoError(t, err)
		assert.Len(t, runs, 2)
		assert.False(t, runs[0].StartedAt.Before(runs[1].StartedAt))
	})

	t.Run("unknown run is not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

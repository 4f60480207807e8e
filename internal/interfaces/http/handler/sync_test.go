package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	syncapp "github.com/vendorsync/backend/internal/application/sync"
	"github.com/vendorsync/backend/internal/domain/integration"
	"github.com/vendorsync/backend/internal/domain/shared"
	"github.com/vendorsync/backend/internal/infrastructure/locking"
)

type syncFixture struct {
	platform *MockVendorPlatform
	runRepo  *MockSyncRunRepository
	locker   *locking.MemoryLocker
}

func setupSync(t *testing.T) (*syncFixture, *gin.Engine) {
	t.Helper()

	f := &syncFixture{
		platform: new(MockVendorPlatform),
		runRepo:  new(MockSyncRunRepository),
		locker:   locking.NewMemoryLocker(),
	}

	productRepo := new(MockStagedProductRepository)
	productRepo.On("FindByUpstreamID", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound).Maybe()
	productRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil).Maybe()
	levelRepo := new(MockStagedLevelRepository)
	levelRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil).Maybe()

	merger := syncapp.NewMerger(productRepo, levelRepo, zap.NewNop())
	service := syncapp.NewSyncService(f.platform, merger, f.runRepo, f.locker, zap.NewNop())
	engine := newTestEngine(NewSyncHandler(service, "loc-1"))
	return f, engine
}

func TestSyncHandlerTriggerProductSync(t *testing.T) {
	t.Run("runs the walk and reports the summary", func(t *testing.T) {
		f, engine := setupSync(t)
		f.runRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
		f.platform.On("FetchProductPage", mock.Anything, "").Return(&integration.VendorProductPage{
			Products: []integration.VendorProductRecord{
				{
					ProductID: "9001",
					Title:     "Ceramic Mug",
					Vendor:    "Atelier Nord",
					Variants: []integration.VendorVariantRecord{
						{VariantID: "1", SKU: "MUG-RED", Title: "Red", Price: decimal.NewFromInt(15), InventoryItemID: "101"},
					},
				},
			},
		}, nil)

		recorder := performRequest(t, engine, http.MethodPost, "/api/v1/sync/products", nil)

		require.Equal(t, http.StatusOK, recorder.Code)
		data := decodeBody(t, recorder)["data"].(map[string]any)
		assert.Equal(t, "vendor_products", data["resource_type"])
		assert.Equal(t, "completed", data["status"])
		assert.Equal(t, float64(1), data["pages_fetched"])
		assert.Equal(t, float64(1), data["records_merged"])
	})

	t.Run("concurrent run maps to 409", func(t *testing.T) {
		f, engine := setupSync(t)
		acquired, err := f.locker.TryAcquire(context.Background(), "sync:vendor_products", time.Minute)
		require.NoError(t, err)
		require.True(t, acquired)

		recorder := performRequest(t, engine, http.MethodPost, "/api/v1/sync/products", nil)

		assert.Equal(t, http.StatusConflict, recorder.Code)
		assert.Equal(t, "SYNC_ALREADY_RUNNING", errorCode(t, recorder))
	})
}

func TestSyncHandlerTriggerInventorySync(t *testing.T) {
	f, engine := setupSync(t)
	f.runRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.platform.On("FetchInventoryPage", mock.Anything, "loc-override", "").Return(&integration.InventoryLevelPage{
		Levels: []integration.InventoryLevelRecord{
			{InventoryItemID: "101", LocationID: "7", AvailableQuantity: 12},
		},
	}, nil)

	recorder := performRequest(t, engine, http.MethodPost, "/api/v1/sync/inventory",
		TriggerInventorySyncRequest{LocationID: "loc-override"})

	require.Equal(t, http.StatusOK, recorder.Code)
	data := decodeBody(t, recorder)["data"].(map[string]any)
	assert.Equal(t, "inventory_levels", data["resource_type"])
	assert.Equal(t, "completed", data["status"])
	f.platform.AssertExpectations(t)
}

func TestSyncHandlerRuns(t *testing.T) {
	t.Run("lists recent runs", func(t *testing.T) {
		f, engine := setupSync(t)
		run, err := integration.NewSyncRun(integration.SyncResourceInventoryLevels)
		require.NoError(t, err)
		run.RecordPage(250, 0)
		run.Complete()
		f.runRepo.On("FindRecent", mock.Anything, 20).Return([]integration.SyncRun{*run}, nil)

		recorder := performRequest(t, engine, http.MethodGet, "/api/v1/sync/runs", nil)

		require.Equal(t, http.StatusOK, recorder.Code)
		data := decodeBody(t, recorder)["data"].([]any)
		require.Len(t, data, 1)
		assert.Equal(t, "completed", data[0].(map[string]any)["status"])
	})

	t.Run("unknown run maps to 404", func(t *testing.T) {
		f, engine := setupSync(t)
		id := uuid.New()
		f.runRepo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		recorder := performRequest(t, engine, http.MethodGet, "/api/v1/sync/runs/"+id.String(), nil)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

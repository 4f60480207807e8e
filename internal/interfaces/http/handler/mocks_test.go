package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vendorsync/backend/internal/application/reconcile"
	"github.com/vendorsync/backend/internal/domain/catalog"
	"github.com/vendorsync/backend/internal/domain/integration"
	"github.com/vendorsync/backend/internal/domain/shared"
	"github.com/vendorsync/backend/internal/domain/staging"
	"github.com/vendorsync/backend/internal/interfaces/http/router"
)

// MockStagedProductRepository implements staging.StagedProductRepository for testing
type MockStagedProductRepository struct {
	mock.Mock
}

func (m *MockStagedProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*staging.StagedVendorProduct, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*staging.StagedVendorProduct), args.Error(1)
}

func (m *MockStagedProductRepository) FindByUpstreamID(ctx context.Context, upstreamProductID string) (*staging.StagedVendorProduct, error) {
	args := m.Called(ctx, upstreamProductID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*staging.StagedVendorProduct), args.Error(1)
}

func (m *MockStagedProductRepository) Upsert(ctx context.Context, product *staging.StagedVendorProduct) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockStagedProductRepository) Save(ctx context.Context, product *staging.StagedVendorProduct) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockStagedProductRepository) ListInbox(ctx context.Context, filter staging.InboxFilter) (shared.Paginated[staging.StagedVendorProduct], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[staging.StagedVendorProduct]), args.Error(1)
}

func (m *MockStagedProductRepository) CountInbox(ctx context.Context, filter staging.InboxFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStagedProductRepository) TransitionDecision(ctx context.Context, id uuid.UUID, to staging.DecisionStatus, actor string) (bool, error) {
	args := m.Called(ctx, id, to, actor)
	return args.Bool(0), args.Error(1)
}

// MockImportDecisionRepository implements staging.ImportDecisionRepository for testing
type MockImportDecisionRepository struct {
	mock.Mock
}

func (m *MockImportDecisionRepository) FindByStagedProductID(ctx context.Context, stagedProductID uuid.UUID) (*staging.ImportDecision, error) {
	args := m.Called(ctx, stagedProductID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*staging.ImportDecision), args.Error(1)
}

func (m *MockImportDecisionRepository) Create(ctx context.Context, decision *staging.ImportDecision) error {
	args := m.Called(ctx, decision)
	return args.Error(0)
}

func (m *MockImportDecisionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]staging.ImportDecision, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]staging.ImportDecision), args.Error(1)
}

// MockReconciler implements decision.Reconciler for testing
type MockReconciler struct {
	mock.Mock
}

func (m *MockReconciler) Reconcile(ctx context.Context, product *staging.StagedVendorProduct) (*reconcile.Result, error) {
	args := m.Called(ctx, product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reconcile.Result), args.Error(1)
}

// MockVariantRepository implements catalog.VariantRepository for testing
type MockVariantRepository struct {
	mock.Mock
}

func (m *MockVariantRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.CanonicalVariant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.CanonicalVariant), args.Error(1)
}

func (m *MockVariantRepository) FindBySKU(ctx context.Context, sku string) (*catalog.CanonicalVariant, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.CanonicalVariant), args.Error(1)
}

func (m *MockVariantRepository) Save(ctx context.Context, variant *catalog.CanonicalVariant) error {
	args := m.Called(ctx, variant)
	return args.Error(0)
}

func (m *MockVariantRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.CanonicalVariant, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.CanonicalVariant), args.Error(1)
}

func (m *MockVariantRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVariantRepository) FindBelowThreshold(ctx context.Context, filter shared.Filter) ([]catalog.CanonicalVariant, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.CanonicalVariant), args.Error(1)
}

// MockOverrideRepository implements catalog.OverrideRepository for testing
type MockOverrideRepository struct {
	mock.Mock
}

func (m *MockOverrideRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Override, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Override), args.Error(1)
}

func (m *MockOverrideRepository) FindBySKU(ctx context.Context, sku string, includeResolved bool) ([]catalog.Override, error) {
	args := m.Called(ctx, sku, includeResolved)
	return args.Get(0).([]catalog.Override), args.Error(1)
}

func (m *MockOverrideRepository) Create(ctx context.Context, override *catalog.Override) error {
	args := m.Called(ctx, override)
	return args.Error(0)
}

func (m *MockOverrideRepository) Save(ctx context.Context, override *catalog.Override) error {
	args := m.Called(ctx, override)
	return args.Error(0)
}

func (m *MockOverrideRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Override, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Override), args.Error(1)
}

func (m *MockOverrideRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockVendorPlatform implements integration.VendorPlatform for testing
type MockVendorPlatform struct {
	mock.Mock
}

func (m *MockVendorPlatform) FetchInventoryPage(ctx context.Context, locationID, cursor string) (*integration.InventoryLevelPage, error) {
	args := m.Called(ctx, locationID, cursor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.InventoryLevelPage), args.Error(1)
}

func (m *MockVendorPlatform) FetchProductPage(ctx context.Context, cursor string) (*integration.VendorProductPage, error) {
	args := m.Called(ctx, cursor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.VendorProductPage), args.Error(1)
}

// MockSyncRunRepository implements integration.SyncRunRepository for testing
type MockSyncRunRepository struct {
	mock.Mock
}

func (m *MockSyncRunRepository) FindByID(ctx context.Context, id uuid.UUID) (*integration.SyncRun, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.SyncRun), args.Error(1)
}

func (m *MockSyncRunRepository) Save(ctx context.Context, run *integration.SyncRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockSyncRunRepository) FindRecent(ctx context.Context, limit int) ([]integration.SyncRun, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]integration.SyncRun), args.Error(1)
}

// MockStagedLevelRepository implements staging.StagedInventoryLevelRepository for testing
type MockStagedLevelRepository struct {
	mock.Mock
}

func (m *MockStagedLevelRepository) FindByKey(ctx context.Context, inventoryItemID, locationID string) (*staging.StagedInventoryLevel, error) {
	args := m.Called(ctx, inventoryItemID, locationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*staging.StagedInventoryLevel), args.Error(1)
}

func (m *MockStagedLevelRepository) FindByInventoryItemIDs(ctx context.Context, inventoryItemIDs []string) ([]staging.StagedInventoryLevel, error) {
	args := m.Called(ctx, inventoryItemIDs)
	return args.Get(0).([]staging.StagedInventoryLevel), args.Error(1)
}

func (m *MockStagedLevelRepository) Upsert(ctx context.Context, level *staging.StagedInventoryLevel) error {
	args := m.Called(ctx, level)
	return args.Error(0)
}

func (m *MockStagedLevelRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// noopPublisher discards domain events in tests
type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, ...shared.DomainEvent) error {
	return nil
}

func newTestEngine(registrars ...router.RouteRegistrar) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	r := router.NewRouter(engine)
	for _, registrar := range registrars {
		r.Register(registrar)
	}
	r.Setup()
	return engine
}

func performRequest(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

func errorCode(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()

	body := decodeBody(t, recorder)
	errInfo, ok := body["error"].(map[string]any)
	require.True(t, ok, "response has no error object: %s", recorder.Body.String())
	code, _ := errInfo["code"].(string)
	return code
}

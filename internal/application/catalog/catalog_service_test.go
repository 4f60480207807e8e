package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domain "github.com/vendorsync/backend/internal/domain/catalog"
	"github.com/vendorsync/backend/internal/domain/shared"
)

// MockVariantRepository is a mock implementation of catalog.VariantRepository
type MockVariantRepository struct {
	mock.Mock
}

func (m *MockVariantRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.CanonicalVariant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CanonicalVariant), args.Error(1)
}

func (m *MockVariantRepository) FindBySKU(ctx context.Context, sku string) (*domain.CanonicalVariant, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CanonicalVariant), args.Error(1)
}

func (m *MockVariantRepository) Save(ctx context.Context, variant *domain.CanonicalVariant) error {
	args := m.Called(ctx, variant)
	return args.Error(0)
}

func (m *MockVariantRepository) FindAll(ctx context.Context, filter shared.Filter) ([]domain.CanonicalVariant, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.CanonicalVariant), args.Error(1)
}

func (m *MockVariantRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVariantRepository) FindBelowThreshold(ctx context.Context, filter shared.Filter) ([]domain.CanonicalVariant, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.CanonicalVariant), args.Error(1)
}

// MockOverrideRepository is a mock implementation of catalog.OverrideRepository
type MockOverrideRepository struct {
	mock.Mock
}

func (m *MockOverrideRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Override, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Override), args.Error(1)
}

func (m *MockOverrideRepository) FindBySKU(ctx context.Context, sku string, includeResolved bool) ([]domain.Override, error) {
	args := m.Called(ctx, sku, includeResolved)
	return args.Get(0).([]domain.Override), args.Error(1)
}

func (m *MockOverrideRepository) Create(ctx context.Context, override *domain.Override) error {
	args := m.Called(ctx, override)
	return args.Error(0)
}

func (m *MockOverrideRepository) Save(ctx context.Context, override *domain.Override) error {
	args := m.Called(ctx, override)
	return args.Error(0)
}

func (m *MockOverrideRepository) FindAll(ctx context.Context, filter shared.Filter) ([]domain.Override, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Override), args.Error(1)
}

func (m *MockOverrideRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func newVariant(t *testing.T) *domain.CanonicalVariant {
	t.Helper()
	v, err := domain.NewCanonicalVariant("MUG-RED", "Ceramic Mug Red", "Atelier Nord", decimal.NewFromInt(15))
	require.NoError(t, err)
	v.ClearDomainEvents()
	return v
}

func TestCatalogServiceGetVariantBySKU(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes the SKU before lookup", func(t *testing.T) {
		variant := newVariant(t)

		variantRepo := new(MockVariantRepository)
		variantRepo.On("FindBySKU", ctx, "MUG-RED").Return(variant, nil).Once()

		service := NewService(variantRepo, new(MockOverrideRepository), zap.NewNop())
		got, err := service.GetVariantBySKU(ctx, "  mug-red ")

		require.NoError(t, err)
		assert.Equal(t, "MUG-RED", got.SKU)
		variantRepo.AssertExpectations(t)
	})

	t.Run("rejects a blank SKU", func(t *testing.T) {
		service := NewService(new(MockVariantRepository), new(MockOverrideRepository), zap.NewNop())
		_, err := service.GetVariantBySKU(ctx, "   ")
		assert.Error(t, err)
	})
}

func TestCatalogServiceListVariants(t *testing.T) {
	ctx := context.Background()

	variantRepo := new(MockVariantRepository)
	variantRepo.On("FindAll", ctx, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 1 && f.PageSize == 20
	})).Return([]domain.CanonicalVariant{*newVariant(t)}, nil).Once()
	variantRepo.On("Count", ctx, mock.Anything).Return(int64(1), nil).Once()

	service := NewService(variantRepo, new(MockOverrideRepository), zap.NewNop())
	page, err := service.ListVariants(ctx, shared.Filter{})

	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	assert.Len(t, page.Items, 1)
}

func TestCatalogServiceListLowStock(t *testing.T) {
	ctx := context.Background()

	low := newVariant(t)
	low.SetStockQuantity(2)

	variantRepo := new(MockVariantRepository)
	variantRepo.On("FindBelowThreshold", ctx, mock.Anything).
		Return([]domain.CanonicalVariant{*low}, nil).Once()

	service := NewService(variantRepo, new(MockOverrideRepository), zap.NewNop())
	variants, err := service.ListLowStock(ctx, shared.Filter{})

	require.NoError(t, err)
	require.Len(t, variants, 1)
	assert.Equal(t, domain.StockStatusLowStock, variants[0].StockStatus())
}

func TestCatalogServiceSetLowStockThreshold(t *testing.T) {
	ctx := context.Background()

	t.Run("updates and persists the threshold", func(t *testing.T) {
		variant := newVariant(t)

		variantRepo := new(MockVariantRepository)
		variantRepo.On("FindBySKU", ctx, "MUG-RED").Return(variant, nil).Once()
		variantRepo.On("Save", ctx, variant).Return(nil).Once()

		service := NewService(variantRepo, new(MockOverrideRepository), zap.NewNop())
		got, err := service.SetLowStockThreshold(ctx, "mug-red", 10)

		require.NoError(t, err)
		assert.Equal(t, int64(10), got.LowStockThreshold)
		variantRepo.AssertExpectations(t)
	})

	t.Run("rejects a negative threshold", func(t *testing.T) {
		variant := newVariant(t)

		variantRepo := new(MockVariantRepository)
		variantRepo.On("FindBySKU", ctx, "MUG-RED").Return(variant, nil).Once()

		service := NewService(variantRepo, new(MockOverrideRepository), zap.NewNop())
		_, err := service.SetLowStockThreshold(ctx, "MUG-RED", -1)
		assert.Error(t, err)
	})
}

func TestCatalogServiceResolveOverride(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves and saves", func(t *testing.T) {
		variant := newVariant(t)
		override, err := domain.NewOverride(variant, "price", "15", "18.5", domain.OverrideReasonPriceMismatch)
		require.NoError(t, err)

		overrideRepo := new(MockOverrideRepository)
		overrideRepo.On("FindByID", ctx, override.ID).Return(override, nil).Once()
		overrideRepo.On("Save", ctx, override).Return(nil).Once()

		service := NewService(new(MockVariantRepository), overrideRepo, zap.NewNop())
		got, err := service.ResolveOverride(ctx, override.ID, "ops@example.com")

		require.NoError(t, err)
		assert.True(t, got.Resolved)
		assert.Equal(t, "ops@example.com", got.ResolvedBy)
		overrideRepo.AssertExpectations(t)
	})

	t.Run("resolving twice fails without saving", func(t *testing.T) {
		variant := newVariant(t)
		override, err := domain.NewOverride(variant, "price", "15", "18.5", domain.OverrideReasonPriceMismatch)
		require.NoError(t, err)
		require.NoError(t, override.Resolve("ops@example.com"))

		overrideRepo := new(MockOverrideRepository)
		overrideRepo.On("FindByID", ctx, override.ID).Return(override, nil).Once()

		service := NewService(new(MockVariantRepository), overrideRepo, zap.NewNop())
		_, err = service.ResolveOverride(ctx, override.ID, "other@example.com")

		assert.Error(t, err)
		overrideRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestCatalogServiceListOverrides(t *testing.T) {
	ctx := context.Background()

	overrideRepo := new(MockOverrideRepository)
	overrideRepo.On("FindBySKU", ctx, "MUG-RED", false).Return([]domain.Override{}, nil).Once()

	service := NewService(new(MockVariantRepository), overrideRepo, zap.NewNop())
	_, err := service.ListOverrides(ctx, "mug-red", false)

	require.NoError(t, err)
	overrideRepo.AssertExpectations(t)
}

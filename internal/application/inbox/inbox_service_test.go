package inbox

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vendorsync/backend/internal/domain/shared"
	"github.com/vendorsync/backend/internal/domain/staging"
)

// MockStagedProductRepository is a mock implementation of staging.StagedProductRepository
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

func TestInboxServiceList(t *testing.T) {
	ctx := context.Background()

	t.Run("applies default pagination", func(t *testing.T) {
		repo := new(MockStagedProductRepository)
		repo.On("ListInbox", ctx, staging.InboxFilter{Page: 1, PageSize: 20}).
			Return(shared.Paginated[staging.StagedVendorProduct]{Page: 1, PageSize: 20}, nil).Once()

		service := NewService(repo, zap.NewNop())
		_, err := service.List(ctx, Query{})

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("clamps oversized page size", func(t *testing.T) {
		repo := new(MockStagedProductRepository)
		repo.On("ListInbox", ctx, mock.MatchedBy(func(f staging.InboxFilter) bool {
			return f.PageSize == 100
		})).Return(shared.Paginated[staging.StagedVendorProduct]{}, nil).Once()

		service := NewService(repo, zap.NewNop())
		_, err := service.List(ctx, Query{Page: 1, PageSize: 5000})

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("passes search and filters through", func(t *testing.T) {
		repo := new(MockStagedProductRepository)
		repo.On("ListInbox", ctx, staging.InboxFilter{
			Search:   "mug",
			Status:   staging.ProductStatusActive,
			Decision: staging.DecisionPending,
			Page:     2,
			PageSize: 50,
		}).Return(shared.Paginated[staging.StagedVendorProduct]{}, nil).Once()

		service := NewService(repo, zap.NewNop())
		_, err := service.List(ctx, Query{
			Search:   "  mug ",
			Status:   "active",
			Decision: "pending",
			Page:     2,
			PageSize: 50,
		})

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("rejects unknown status filter", func(t *testing.T) {
		service := NewService(new(MockStagedProductRepository), zap.NewNop())
		_, err := service.List(ctx, Query{Status: "archived"})
		assert.Error(t, err)
	})

	t.Run("rejects unknown decision filter", func(t *testing.T) {
		service := NewService(new(MockStagedProductRepository), zap.NewNop())
		_, err := service.List(ctx, Query{Decision: "maybe"})
		assert.Error(t, err)
	})
}

func TestInboxServiceCount(t *testing.T) {
	ctx := context.Background()

	repo := new(MockStagedProductRepository)
	repo.On("CountInbox", ctx, staging.InboxFilter{
		Decision: staging.DecisionPending,
		Page:     1,
		PageSize: 20,
	}).Return(int64(42), nil).Once()

	service := NewService(repo, zap.NewNop())
	count, err := service.Count(ctx, Query{Decision: "pending"})

	require.NoError(t, err)
	assert.Equal(t, int64(42), count)
	repo.AssertExpectations(t)
}

package inbox

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vendorsync/backend/internal/domain/shared"
	"github.com/vendorsync/backend/internal/domain/staging"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Query narrows the decision inbox. All filters conjoin; empty fields
// match everything.
type Query struct {
	Search   string
	Status   string
	Decision string
	Page     int
	PageSize int
}

// Service serves the decision inbox: the paginated view of staged vendor
// products an operator works through.
type Service struct {
	productRepo staging.StagedProductRepository
	logger      *zap.Logger
}

// NewService creates a new inbox Service
func NewService(productRepo staging.StagedProductRepository, logger *zap.Logger) *Service {
	return &Service{
		productRepo: productRepo,
		logger:      logger,
	}
}

// List returns one page of the inbox with the total matching count. Page and
// total come from the same snapshot, so the count never disagrees with the
// rows it describes.
func (s *Service) List(ctx context.Context, query Query) (shared.Paginated[staging.StagedVendorProduct], error) {
	filter, err := s.buildFilter(query)
	if err != nil {
		return shared.Paginated[staging.StagedVendorProduct]{}, err
	}
	return s.productRepo.ListInbox(ctx, filter)
}

// Count returns the number of inbox rows matching the query
func (s *Service) Count(ctx context.Context, query Query) (int64, error) {
	filter, err := s.buildFilter(query)
	if err != nil {
		return 0, err
	}
	return s.productRepo.CountInbox(ctx, filter)
}

// Get returns one staged product by ID, variants included
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*staging.StagedVendorProduct, error) {
	return s.productRepo.FindByID(ctx, id)
}

func (s *Service) buildFilter(query Query) (staging.InboxFilter, error) {
	filter := staging.InboxFilter{
		Search:   strings.TrimSpace(query.Search),
		Page:     query.Page,
		PageSize: query.PageSize,
	}

	if query.Status != "" {
		status := staging.ProductStatus(query.Status)
		if status != staging.ProductStatusActive && status != staging.ProductStatusInactive {
			return staging.InboxFilter{}, shared.NewDomainError("INVALID_STATUS", "Unknown product status filter")
		}
		filter.Status = status
	}

	if query.Decision != "" {
		decision := staging.DecisionStatus(query.Decision)
		if !decision.IsValid() {
			return staging.InboxFilter{}, shared.NewDomainError("INVALID_DECISION", "Unknown decision filter")
		}
		filter.Decision = decision
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = defaultPageSize
	}
	if filter.PageSize > maxPageSize {
		filter.PageSize = maxPageSize
	}

	return filter, nil
}

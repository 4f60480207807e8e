package decision

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vendorsync/backend/internal/application/reconcile"
	"github.com/vendorsync/backend/internal/domain/shared"
	"github.com/vendorsync/backend/internal/domain/staging"
)

// Reconciler applies an accepted staged product to the canonical catalog
type Reconciler interface {
	Reconcile(ctx context.Context, product *staging.StagedVendorProduct) (*reconcile.Result, error)
}

// Result is the outcome of a decision request. Reconciliation is only
// present when this call won the transition into accepted.
type Result struct {
	Decision       *staging.ImportDecision
	Reconciliation *reconcile.Result
	// AlreadyDecided is true when the record already carried the same
	// terminal decision and this call changed nothing.
	AlreadyDecided bool
}

// Service runs the decision state machine: pending to accepted or rejected,
// both terminal. Concurrent deciders race through a compare-and-swap in the
// repository; exactly one wins, and only an accept that wins triggers
// reconciliation.
type Service struct {
	productRepo  staging.StagedProductRepository
	decisionRepo staging.ImportDecisionRepository
	reconciler   Reconciler
	publisher    shared.EventPublisher
	logger       *zap.Logger
}

// NewService creates a new decision Service
func NewService(
	productRepo staging.StagedProductRepository,
	decisionRepo staging.ImportDecisionRepository,
	reconciler Reconciler,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *Service {
	return &Service{
		productRepo:  productRepo,
		decisionRepo: decisionRepo,
		reconciler:   reconciler,
		publisher:    publisher,
		logger:       logger,
	}
}

// Decide records a terminal decision on a staged product.
//
// Re-submitting the decision a record already carries is an idempotent
// success. A decision conflicting with the recorded one returns
// ErrDecisionConflict.
func (s *Service) Decide(ctx context.Context, stagedProductID uuid.UUID, decision staging.DecisionStatus, actor string) (*Result, error) {
	if !decision.IsTerminal() {
		return nil, shared.NewDomainError("INVALID_DECISION", "Decision must be accepted or rejected")
	}
	if actor == "" {
		return nil, shared.NewDomainError("MISSING_ACTOR", "Decision actor is required")
	}

	product, err := s.productRepo.FindByID(ctx, stagedProductID)
	if err != nil {
		return nil, err
	}

	won, err := s.productRepo.TransitionDecision(ctx, stagedProductID, decision, actor)
	if err != nil {
		return nil, err
	}
	if !won {
		return s.resolveLostRace(ctx, stagedProductID, decision)
	}

	// This call owns the transition. Stamp the aggregate to mirror what the
	// compare-and-swap wrote and to raise the decided event.
	if err := product.ApplyDecision(decision, actor); err != nil {
		return nil, err
	}

	audit, err := staging.NewImportDecision(product, decision, actor)
	if err != nil {
		return nil, err
	}
	if err := s.decisionRepo.Create(ctx, audit); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	s.logger.Info("Staged product decided",
		zap.String("staged_product_id", stagedProductID.String()),
		zap.String("decision", string(decision)),
		zap.String("actor", actor),
	)

	result := &Result{Decision: audit}

	if decision == staging.DecisionAccepted {
		reconciliation, err := s.reconciler.Reconcile(ctx, product)
		if err != nil {
			// The decision is committed; reconciliation failure does not
			// roll it back. Operators retry via the catalog endpoints.
			s.logger.Error("Reconciliation failed after accept",
				zap.String("staged_product_id", stagedProductID.String()),
				zap.Error(err),
			)
			return result, nil
		}
		result.Reconciliation = reconciliation
	}

	return result, nil
}

// resolveLostRace interprets a compare-and-swap that affected zero rows:
// some other caller decided first, or the same caller is retrying.
func (s *Service) resolveLostRace(ctx context.Context, stagedProductID uuid.UUID, decision staging.DecisionStatus) (*Result, error) {
	product, err := s.productRepo.FindByID(ctx, stagedProductID)
	if err != nil {
		return nil, err
	}

	if !product.Decision.IsTerminal() {
		// Pending but the swap failed anyway. The row changed between the
		// read and the swap; let the caller retry.
		return nil, shared.ErrConcurrencyConflict
	}
	if product.Decision != decision {
		return nil, shared.ErrDecisionConflict
	}

	audit, err := s.decisionRepo.FindByStagedProductID(ctx, stagedProductID)
	if err != nil {
		return nil, err
	}
	return &Result{Decision: audit, AlreadyDecided: true}, nil
}

// History returns the audit trail of decisions
func (s *Service) History(ctx context.Context, filter shared.Filter) ([]staging.ImportDecision, error) {
	return s.decisionRepo.FindAll(ctx, filter)
}

func (s *Service) publishEvents(ctx context.Context, product *staging.StagedVendorProduct) {
	if s.publisher == nil {
		return
	}
	events := product.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish decision events", zap.Error(err))
	}
	product.ClearDomainEvents()
}
